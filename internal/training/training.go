package training

import (
	"errors"
	"time"
)

// Training is a scheduled session that grants exactly one qualification to
// its participants. Lifecycle: pending -> completed, terminal. The
// completion transition is the only path by which a qualification's validity
// window advances.
type Training struct {
	ID                  int64      `json:"id" gorm:"primaryKey"`
	Name                string     `json:"name" gorm:"column:name;not null"`
	Description         string     `json:"description" gorm:"column:description"`
	QualificationID     int64      `json:"qualification_id" gorm:"column:qualification_id;not null"`
	TrainerAssignmentID int64      `json:"trainer_assignment_id" gorm:"column:trainer_assignment_id;not null"`
	TrainingDate        time.Time  `json:"training_date" gorm:"column:training_date;type:date"`
	Completed           bool       `json:"completed" gorm:"column:completed;default:false"`
	CompletedDate       *time.Time `json:"completed_date,omitempty" gorm:"column:completed_date;type:date"`
	DepartmentID        *int64     `json:"department_id,omitempty" gorm:"column:department_id"`
	ForEntireDepartment bool       `json:"for_entire_department" gorm:"column:for_entire_department;default:false"`
	CreatedAt           time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt           time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Training) TableName() string {
	return "trainings"
}

// Participant is one employee on a training roster. Set semantics: at most
// one row per (training, employee).
type Participant struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	TrainingID int64     `json:"training_id" gorm:"column:training_id;not null"`
	EmployeeID int64     `json:"employee_id" gorm:"column:employee_id;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Participant) TableName() string {
	return "training_participants"
}

// CreateTrainingDTO is the request payload for scheduling a training.
// Roster resolution priority: a non-empty EmployeeIDs list wins outright;
// otherwise ForEntireDepartment pulls the full eligible population; otherwise
// the roster starts empty.
type CreateTrainingDTO struct {
	Name                string    `json:"name" validate:"required"`
	Description         string    `json:"description"`
	QualificationID     int64     `json:"qualification_id" validate:"required"`
	TrainerAssignmentID int64     `json:"trainer_assignment_id" validate:"required"`
	TrainingDate        time.Time `json:"training_date" validate:"required"`
	DepartmentID        *int64    `json:"department_id,omitempty"`
	ForEntireDepartment bool      `json:"for_entire_department"`
	EmployeeIDs         []int64   `json:"employee_ids,omitempty"`
}

func (dto CreateTrainingDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.QualificationID <= 0 {
		return errors.New("qualification id is required")
	}
	if dto.TrainerAssignmentID <= 0 {
		return errors.New("trainer assignment id is required")
	}
	if dto.TrainingDate.IsZero() {
		return errors.New("training date is required")
	}
	return nil
}

// CompleteTrainingDTO carries the document-upload completion event payload.
type CompleteTrainingDTO struct {
	CompletionDate time.Time `json:"completion_date" validate:"required"`
	DocumentCount  int       `json:"document_count" validate:"min=1"`
}

// AssignEmployeesDTO adds employees to an existing roster.
type AssignEmployeesDTO struct {
	EmployeeIDs []int64 `json:"employee_ids" validate:"required,min=1"`
}

// ReconciliationReport surfaces the crash-recovery check: a completed
// training whose ledger entries are fewer than its participants is a
// recoverable inconsistency, not silent data loss.
type ReconciliationReport struct {
	TrainingID         int64   `json:"training_id"`
	Completed          bool    `json:"completed"`
	ParticipantCount   int     `json:"participant_count"`
	GrantsWritten      int     `json:"grants_written"`
	Consistent         bool    `json:"consistent"`
	MissingEmployeeIDs []int64 `json:"missing_employee_ids,omitempty"`
}
