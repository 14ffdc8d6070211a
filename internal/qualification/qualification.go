package qualification

import (
	"errors"
	"time"
)

// Origin classifies why a qualification applies to an employee.
type Origin string

const (
	OriginMandatory       Origin = "mandatory"
	OriginJobTitle        Origin = "job_title"
	OriginAdditionalSkill Origin = "additional_skill"
)

// NeverExpiresMonths is the sentinel validity meaning "never expires".
// Entries granted against such a qualification still get a concrete expiry
// far in the future so date comparisons stay total.
const NeverExpiresMonths = 999

// Qualification is a certifiable capability with a validity period and an
// origin rule determining who may need it.
type Qualification struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	Name              string    `json:"name" gorm:"column:name;not null"`
	Description       string    `json:"description" gorm:"column:description"`
	ValidityMonths    int       `json:"validity_months" gorm:"column:validity_months;not null"`
	Origin            Origin    `json:"origin" gorm:"column:origin;not null"`
	JobTitleID        *int64    `json:"job_title_id,omitempty" gorm:"column:job_title_id"`
	AdditionalSkillID *int64    `json:"additional_skill_id,omitempty" gorm:"column:additional_skill_id"`
	CreatedAt         time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Qualification) TableName() string {
	return "qualifications"
}

// NeverExpires reports whether the qualification uses the sentinel validity.
func (q *Qualification) NeverExpires() bool {
	return q.ValidityMonths >= NeverExpiresMonths
}

// Validate enforces the origin consistency invariant: exactly one of
// JobTitleID/AdditionalSkillID is set, matching the origin; Mandatory sets
// neither.
func (q *Qualification) Validate() error {
	if q.Name == "" {
		return errors.New("name is required")
	}
	if q.ValidityMonths <= 0 {
		return errors.New("validity months must be greater than 0")
	}
	switch q.Origin {
	case OriginMandatory:
		if q.JobTitleID != nil || q.AdditionalSkillID != nil {
			return errors.New("mandatory qualification cannot reference a job title or additional skill")
		}
	case OriginJobTitle:
		if q.JobTitleID == nil {
			return errors.New("job title qualification requires a job title id")
		}
		if q.AdditionalSkillID != nil {
			return errors.New("job title qualification cannot reference an additional skill")
		}
	case OriginAdditionalSkill:
		if q.AdditionalSkillID == nil {
			return errors.New("additional skill qualification requires an additional skill id")
		}
		if q.JobTitleID != nil {
			return errors.New("additional skill qualification cannot reference a job title")
		}
	default:
		return errors.New("origin must be mandatory, job_title or additional_skill")
	}
	return nil
}

// CreateQualificationDTO is the request payload for the HR admin tooling path.
type CreateQualificationDTO struct {
	Name              string `json:"name" validate:"required"`
	Description       string `json:"description"`
	ValidityMonths    int    `json:"validity_months" validate:"required,min=1"`
	Origin            Origin `json:"origin" validate:"required"`
	JobTitleID        *int64 `json:"job_title_id,omitempty"`
	AdditionalSkillID *int64 `json:"additional_skill_id,omitempty"`
}

func (dto CreateQualificationDTO) Validate() error {
	q := Qualification{
		Name:              dto.Name,
		Description:       dto.Description,
		ValidityMonths:    dto.ValidityMonths,
		Origin:            dto.Origin,
		JobTitleID:        dto.JobTitleID,
		AdditionalSkillID: dto.AdditionalSkillID,
	}
	return q.Validate()
}
