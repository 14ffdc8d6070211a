package postgres

import (
	"time"

	"github.com/frahmantamala/compliance-tracker/internal/qualification"
	"gorm.io/gorm"
)

// QualificationRepository implements the qualification.Repository interface using GORM
type QualificationRepository struct {
	db *gorm.DB
}

// NewQualificationRepository creates a new qualification repository
func NewQualificationRepository(db *gorm.DB) qualification.Repository {
	return &QualificationRepository{db: db}
}

func (r *QualificationRepository) Create(q *qualification.Qualification) error {
	return r.db.Create(q).Error
}

func (r *QualificationRepository) GetByID(id int64) (*qualification.Qualification, error) {
	var q qualification.Qualification
	err := r.db.Where("id = ?", id).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QualificationRepository) GetAll() ([]*qualification.Qualification, error) {
	var quals []*qualification.Qualification
	err := r.db.Order("name ASC").Find(&quals).Error
	return quals, err
}

func (r *QualificationRepository) Update(q *qualification.Qualification) error {
	q.UpdatedAt = time.Now()
	return r.db.Save(q).Error
}
