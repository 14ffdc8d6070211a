package ledger

import "time"

// Status is the derived compliance state of an employee's qualification.
type Status string

const (
	StatusInactive Status = "inactive"
	StatusActive   Status = "active"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
)

// EmployeeQualification is one dated grant of a qualification to an
// employee. The ledger is append-only: corrections happen through new
// entries, and the current status is always derived from the latest entry
// by qualified_from.
//
// ExpiryDate consolidates the former qualified_until/to_qualify_until pair;
// IsProvisional marks an entry whose expiry is a to-qualify deadline rather
// than a completed validity window.
type EmployeeQualification struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	EmployeeID      int64      `json:"employee_id" gorm:"column:employee_id;not null"`
	QualificationID int64      `json:"qualification_id" gorm:"column:qualification_id;not null"`
	QualifiedFrom   time.Time  `json:"qualified_from" gorm:"column:qualified_from;type:date;not null"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty" gorm:"column:expiry_date;type:date"`
	IsProvisional   bool       `json:"is_provisional" gorm:"column:is_provisional;default:false"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (EmployeeQualification) TableName() string {
	return "employee_qualifications"
}

// Rules holds the business constants for status derivation.
type Rules struct {
	ExpiringWindowMonths int
	GraceDays            int
	NeverExpiresMonths   int
}

// DefaultRules mirrors the HR policy defaults: a 2 month expiring window and
// a 14 day display grace period.
func DefaultRules() Rules {
	return Rules{
		ExpiringWindowMonths: 2,
		GraceDays:            14,
		NeverExpiresMonths:   999,
	}
}

// neverExpiryYears pushes the computed expiry of a never-expiring grant far
// enough out that every date comparison stays total.
const neverExpiryYears = 100

// NeverExpiryDate computes the stored expiry for a never-expiring grant.
func NeverExpiryDate(from time.Time) time.Time {
	return from.AddDate(neverExpiryYears, 0, 0)
}

// Derive computes the status of the latest ledger entry as of a date. It is
// pure: re-runnable at any time with no side effects, and it never fails —
// every input combination maps to exactly one of the four states.
func Derive(rules Rules, validityMonths int, latest *EmployeeQualification, asOf time.Time) Status {
	if latest == nil {
		return StatusInactive
	}
	if validityMonths >= rules.NeverExpiresMonths {
		return StatusActive
	}
	if latest.ExpiryDate == nil {
		return StatusInactive
	}

	expiry := *latest.ExpiryDate
	if expiry.Before(asOf) {
		return StatusExpired
	}
	if !expiry.After(asOf.AddDate(0, rules.ExpiringWindowMonths, 0)) {
		return StatusExpiring
	}
	return StatusActive
}

// DaysOverdue reports how many days an expired entry is past its expiry plus
// the grace period. The grace period buffers the displayed figure only;
// Derive classifies against the hard expiry boundary.
func DaysOverdue(rules Rules, latest *EmployeeQualification, asOf time.Time) int {
	if latest == nil || latest.ExpiryDate == nil {
		return 0
	}
	deadline := latest.ExpiryDate.AddDate(0, 0, rules.GraceDays)
	if !asOf.After(deadline) {
		return 0
	}
	return int(asOf.Sub(deadline).Hours() / 24)
}

// StatusDetail is the projection served to status badges and filters.
type StatusDetail struct {
	EmployeeID      int64      `json:"employee_id"`
	QualificationID int64      `json:"qualification_id"`
	Status          Status     `json:"status"`
	QualifiedFrom   *time.Time `json:"qualified_from,omitempty"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	IsProvisional   bool       `json:"is_provisional"`
	DaysOverdue     int        `json:"days_overdue"`
	AsOf            time.Time  `json:"as_of"`
}
