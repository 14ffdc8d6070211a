package trainer

import (
	"errors"
	"time"
)

// QualificationTrainer authorizes one employee to conduct trainings that
// grant one qualification. This entry is the source of truth for trainer
// capability; the employee's is_trainer flag is only a derived convenience.
type QualificationTrainer struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	EmployeeID      int64     `json:"employee_id" gorm:"column:employee_id;not null"`
	QualificationID int64     `json:"qualification_id" gorm:"column:qualification_id;not null"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (QualificationTrainer) TableName() string {
	return "qualification_trainers"
}

// AssignTrainerDTO is the request payload for registering a trainer.
type AssignTrainerDTO struct {
	EmployeeID      int64 `json:"employee_id" validate:"required"`
	QualificationID int64 `json:"qualification_id" validate:"required"`
}

func (dto AssignTrainerDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return errors.New("employee id is required")
	}
	if dto.QualificationID <= 0 {
		return errors.New("qualification id is required")
	}
	return nil
}
