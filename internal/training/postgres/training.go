package postgres

import (
	"time"

	"github.com/frahmantamala/compliance-tracker/internal/training"
	"gorm.io/gorm"
)

// TrainingRepository implements the training.Repository interface using GORM
type TrainingRepository struct {
	db *gorm.DB
}

// NewTrainingRepository creates a new training repository
func NewTrainingRepository(db *gorm.DB) training.Repository {
	return &TrainingRepository{db: db}
}

// Create saves the training together with its initial roster in one
// transaction.
func (r *TrainingRepository) Create(t *training.Training, employeeIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		for _, employeeID := range employeeIDs {
			p := &training.Participant{
				TrainingID: t.ID,
				EmployeeID: employeeID,
			}
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TrainingRepository) GetByID(id int64) (*training.Training, error) {
	var t training.Training
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TrainingRepository) GetAll(limit, offset int) ([]*training.Training, error) {
	var trainings []*training.Training
	err := r.db.Order("training_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&trainings).Error
	return trainings, err
}

func (r *TrainingRepository) GetParticipantIDs(trainingID int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&training.Participant{}).
		Where("training_id = ?", trainingID).
		Order("id ASC").
		Pluck("employee_id", &ids).Error
	return ids, err
}

func (r *TrainingRepository) AddParticipants(trainingID int64, employeeIDs []int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, employeeID := range employeeIDs {
			p := &training.Participant{
				TrainingID: trainingID,
				EmployeeID: employeeID,
			}
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TrainingRepository) RemoveParticipant(trainingID, employeeID int64) error {
	return r.db.Where("training_id = ? AND employee_id = ?", trainingID, employeeID).
		Delete(&training.Participant{}).Error
}

// Delete removes the training and its roster. Invoked by the cascade rule
// when the last participant is removed.
func (r *TrainingRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("training_id = ?", id).Delete(&training.Participant{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&training.Training{}).Error
	})
}

// MarkCompleted flips the status and stamps both the completed date and the
// training date. Recorded durably before the ledger grants are applied.
func (r *TrainingRepository) MarkCompleted(id int64, completedDate time.Time) error {
	return r.db.Model(&training.Training{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"completed":      true,
			"completed_date": completedDate,
			"training_date":  completedDate,
			"updated_at":     time.Now(),
		}).Error
}
