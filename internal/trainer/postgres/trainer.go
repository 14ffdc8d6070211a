package postgres

import (
	"github.com/frahmantamala/compliance-tracker/internal/trainer"
	"gorm.io/gorm"
)

// TrainerRepository implements the trainer.Repository interface using GORM
type TrainerRepository struct {
	db *gorm.DB
}

// NewTrainerRepository creates a new trainer registry repository
func NewTrainerRepository(db *gorm.DB) trainer.Repository {
	return &TrainerRepository{db: db}
}

func (r *TrainerRepository) Create(entry *trainer.QualificationTrainer) error {
	return r.db.Create(entry).Error
}

func (r *TrainerRepository) GetByID(id int64) (*trainer.QualificationTrainer, error) {
	var entry trainer.QualificationTrainer
	err := r.db.Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *TrainerRepository) GetByPair(employeeID, qualificationID int64) (*trainer.QualificationTrainer, error) {
	var entry trainer.QualificationTrainer
	err := r.db.Where("employee_id = ? AND qualification_id = ?", employeeID, qualificationID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *TrainerRepository) GetByQualification(qualificationID int64) ([]*trainer.QualificationTrainer, error) {
	var entries []*trainer.QualificationTrainer
	err := r.db.Where("qualification_id = ?", qualificationID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *TrainerRepository) CountByEmployee(employeeID int64) (int64, error) {
	var count int64
	err := r.db.Model(&trainer.QualificationTrainer{}).
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	return count, err
}

func (r *TrainerRepository) DeleteByPair(employeeID, qualificationID int64) error {
	return r.db.Where("employee_id = ? AND qualification_id = ?", employeeID, qualificationID).
		Delete(&trainer.QualificationTrainer{}).Error
}

func (r *TrainerRepository) DistinctQualificationIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&trainer.QualificationTrainer{}).
		Distinct("qualification_id").
		Pluck("qualification_id", &ids).Error
	return ids, err
}
