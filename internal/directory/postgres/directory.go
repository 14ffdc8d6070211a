package postgres

import (
	"time"

	"github.com/frahmantamala/compliance-tracker/internal/directory"
	"gorm.io/gorm"
)

// DirectoryRepository implements the directory.Repository interface using GORM
type DirectoryRepository struct {
	db *gorm.DB
}

// NewDirectoryRepository creates a new directory repository
func NewDirectoryRepository(db *gorm.DB) directory.Repository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) GetEmployee(id int64) (*directory.Employee, error) {
	var emp directory.Employee
	err := r.db.Where("id = ?", id).First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *DirectoryRepository) ListEmployees(filter directory.EmployeeFilter) ([]*directory.Employee, error) {
	var employees []*directory.Employee
	query := r.db.Order("name ASC")
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.SupervisorID != nil {
		query = query.Where("supervisor_id = ?", *filter.SupervisorID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&employees).Error
	return employees, err
}

func (r *DirectoryRepository) ListSkillAssignments() ([]*directory.SkillAssignment, error) {
	var assignments []*directory.SkillAssignment
	err := r.db.Find(&assignments).Error
	return assignments, err
}

func (r *DirectoryRepository) SetTrainerFlag(employeeID int64, isTrainer bool) error {
	return r.db.Model(&directory.Employee{}).
		Where("id = ?", employeeID).
		Updates(map[string]interface{}{
			"is_trainer": isTrainer,
			"updated_at": time.Now(),
		}).Error
}
