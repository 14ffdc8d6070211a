package directory

import "time"

// Employee is the read model served by the employee directory. The tracker
// never mutates employee master data except for the derived trainer flag,
// which is owned by the trainer registry.
type Employee struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"column:name;not null"`
	JobTitleID   *int64    `json:"job_title_id,omitempty" gorm:"column:job_title_id"`
	DepartmentID *int64    `json:"department_id,omitempty" gorm:"column:department_id"`
	SupervisorID *int64    `json:"supervisor_id,omitempty" gorm:"column:supervisor_id"`
	IsTrainer    bool      `json:"is_trainer" gorm:"column:is_trainer;default:false"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Employee) TableName() string {
	return "employees"
}

// SkillAssignment links an employee to an additional skill. The skill ledger
// is owned by HR master data; the tracker only joins on it.
type SkillAssignment struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	EmployeeID        int64     `json:"employee_id" gorm:"column:employee_id;not null"`
	AdditionalSkillID int64     `json:"additional_skill_id" gorm:"column:additional_skill_id;not null"`
	CreatedAt         time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (SkillAssignment) TableName() string {
	return "additional_skill_assignments"
}

// EmployeeFilter narrows directory listings. Zero values mean "no filter".
type EmployeeFilter struct {
	DepartmentID *int64
	SupervisorID *int64
	ActiveOnly   bool
}
