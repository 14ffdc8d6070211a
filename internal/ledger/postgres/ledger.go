package postgres

import (
	"time"

	"github.com/frahmantamala/compliance-tracker/internal/ledger"
	"gorm.io/gorm"
)

// LedgerRepository implements the ledger.Repository interface using GORM.
// Append-only by construction: no update or delete methods exist.
type LedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) ledger.Repository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Append(entry *ledger.EmployeeQualification) error {
	return r.db.Create(entry).Error
}

func (r *LedgerRepository) GetLatest(employeeID, qualificationID int64) (*ledger.EmployeeQualification, error) {
	var entry ledger.EmployeeQualification
	err := r.db.Where("employee_id = ? AND qualification_id = ?", employeeID, qualificationID).
		Order("qualified_from DESC, id DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *LedgerRepository) GetByGrantDate(employeeID, qualificationID int64, qualifiedFrom time.Time) (*ledger.EmployeeQualification, error) {
	var entry ledger.EmployeeQualification
	err := r.db.Where("employee_id = ? AND qualification_id = ? AND qualified_from = ?",
		employeeID, qualificationID, qualifiedFrom).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *LedgerRepository) GetHistory(employeeID, qualificationID int64) ([]*ledger.EmployeeQualification, error) {
	var entries []*ledger.EmployeeQualification
	err := r.db.Where("employee_id = ? AND qualification_id = ?", employeeID, qualificationID).
		Order("qualified_from DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

func (r *LedgerRepository) CountByTrainingGrant(qualificationID int64, employeeIDs []int64, qualifiedFrom time.Time) (int64, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&ledger.EmployeeQualification{}).
		Where("qualification_id = ? AND qualified_from = ? AND employee_id IN ?",
			qualificationID, qualifiedFrom, employeeIDs).
		Count(&count).Error
	return count, err
}
