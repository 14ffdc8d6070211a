package ledger

import (
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/compliance-tracker/internal"
	"github.com/frahmantamala/compliance-tracker/internal/qualification"
)

// Repository defines the data access methods for ledger entries. The ledger
// is append-only: there is no update or delete.
type Repository interface {
	Append(entry *EmployeeQualification) error
	GetLatest(employeeID, qualificationID int64) (*EmployeeQualification, error)
	GetByGrantDate(employeeID, qualificationID int64, qualifiedFrom time.Time) (*EmployeeQualification, error)
	GetHistory(employeeID, qualificationID int64) ([]*EmployeeQualification, error)
	CountByTrainingGrant(qualificationID int64, employeeIDs []int64, qualifiedFrom time.Time) (int64, error)
}

// QualificationGetter resolves qualification definitions for validity math.
type QualificationGetter interface {
	Get(id int64) (*qualification.Qualification, error)
}

// GrantDTO is a manual grant: HR records a qualification obtained outside a
// tracked training, optionally provisional with a to-qualify deadline.
type GrantDTO struct {
	EmployeeID      int64      `json:"employee_id" validate:"required"`
	QualificationID int64      `json:"qualification_id" validate:"required"`
	QualifiedFrom   time.Time  `json:"qualified_from" validate:"required"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	IsProvisional   bool       `json:"is_provisional"`
}

func (dto GrantDTO) Validate() error {
	if dto.EmployeeID <= 0 {
		return errors.New("employee id is required")
	}
	if dto.QualificationID <= 0 {
		return errors.New("qualification id is required")
	}
	if dto.QualifiedFrom.IsZero() {
		return errors.New("qualified from date is required")
	}
	return nil
}

type Service struct {
	repo   Repository
	quals  QualificationGetter
	rules  Rules
	logger *slog.Logger
}

func NewService(repo Repository, quals QualificationGetter, rules Rules, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		quals:  quals,
		rules:  rules,
		logger: logger,
	}
}

func (s *Service) Rules() Rules {
	return s.rules
}

// Grant appends a ledger entry. For never-expiring qualifications the expiry
// is computed far in the future rather than left null, so downstream date
// comparisons remain total. Idempotent per (employee, qualification,
// qualified_from): an existing entry for the same grant date is returned
// unchanged, never duplicated.
func (s *Service) Grant(dto GrantDTO) (*EmployeeQualification, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("grant validation failed", "error", err)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	q, err := s.quals.Get(dto.QualificationID)
	if err != nil {
		s.logger.Error("grant references missing qualification", "error", err, "qualification_id", dto.QualificationID)
		return nil, internal.ErrQualificationNotFound
	}

	if existing, err := s.repo.GetByGrantDate(dto.EmployeeID, dto.QualificationID, dateOnly(dto.QualifiedFrom)); err == nil && existing != nil {
		s.logger.Info("ledger entry already exists for grant date",
			"employee_id", dto.EmployeeID,
			"qualification_id", dto.QualificationID,
			"qualified_from", dto.QualifiedFrom)
		return existing, nil
	}

	entry := &EmployeeQualification{
		EmployeeID:      dto.EmployeeID,
		QualificationID: dto.QualificationID,
		QualifiedFrom:   dateOnly(dto.QualifiedFrom),
		IsProvisional:   dto.IsProvisional,
	}

	switch {
	case q.ValidityMonths >= s.rules.NeverExpiresMonths:
		never := NeverExpiryDate(entry.QualifiedFrom)
		entry.ExpiryDate = &never
	case dto.ExpiryDate != nil:
		d := dateOnly(*dto.ExpiryDate)
		entry.ExpiryDate = &d
	default:
		d := entry.QualifiedFrom.AddDate(0, q.ValidityMonths, 0)
		entry.ExpiryDate = &d
	}

	if err := s.repo.Append(entry); err != nil {
		s.logger.Error("failed to append ledger entry", "error", err,
			"employee_id", dto.EmployeeID,
			"qualification_id", dto.QualificationID)
		return nil, err
	}

	s.logger.Info("ledger entry appended",
		"entry_id", entry.ID,
		"employee_id", entry.EmployeeID,
		"qualification_id", entry.QualificationID,
		"qualified_from", entry.QualifiedFrom,
		"expiry_date", entry.ExpiryDate,
		"is_provisional", entry.IsProvisional)

	return entry, nil
}

// GrantFromCompletion writes the ledger entry for one training participant:
// validity runs from the completion date for the qualification's full
// validity window.
func (s *Service) GrantFromCompletion(employeeID, qualificationID int64, completionDate time.Time) (*EmployeeQualification, error) {
	return s.Grant(GrantDTO{
		EmployeeID:      employeeID,
		QualificationID: qualificationID,
		QualifiedFrom:   completionDate,
	})
}

// DeriveStatus computes the live status from the latest ledger entry.
func (s *Service) DeriveStatus(employeeID, qualificationID int64, asOf time.Time) (*StatusDetail, error) {
	q, err := s.quals.Get(qualificationID)
	if err != nil {
		s.logger.Error("status derivation references missing qualification", "error", err, "qualification_id", qualificationID)
		return nil, internal.ErrQualificationNotFound
	}

	latest, err := s.repo.GetLatest(employeeID, qualificationID)
	if err != nil {
		latest = nil
	}

	asOf = dateOnly(asOf)
	detail := &StatusDetail{
		EmployeeID:      employeeID,
		QualificationID: qualificationID,
		Status:          Derive(s.rules, q.ValidityMonths, latest, asOf),
		DaysOverdue:     DaysOverdue(s.rules, latest, asOf),
		AsOf:            asOf,
	}
	if latest != nil {
		from := latest.QualifiedFrom
		detail.QualifiedFrom = &from
		detail.ExpiryDate = latest.ExpiryDate
		detail.IsProvisional = latest.IsProvisional
	}
	return detail, nil
}

// History returns all entries for the pair, newest first.
func (s *Service) History(employeeID, qualificationID int64) ([]*EmployeeQualification, error) {
	entries, err := s.repo.GetHistory(employeeID, qualificationID)
	if err != nil {
		s.logger.Error("failed to load ledger history", "error", err,
			"employee_id", employeeID,
			"qualification_id", qualificationID)
		return nil, err
	}
	return entries, nil
}

// HasGrant reports whether an entry exists for the exact grant date.
func (s *Service) HasGrant(employeeID, qualificationID int64, qualifiedFrom time.Time) (bool, error) {
	entry, err := s.repo.GetByGrantDate(employeeID, qualificationID, dateOnly(qualifiedFrom))
	if err != nil || entry == nil {
		return false, nil
	}
	return true, nil
}

// CountGrants reports how many of the given employees hold an entry for the
// qualification on the given grant date. Used by the completion
// reconciliation check.
func (s *Service) CountGrants(qualificationID int64, employeeIDs []int64, qualifiedFrom time.Time) (int64, error) {
	return s.repo.CountByTrainingGrant(qualificationID, employeeIDs, dateOnly(qualifiedFrom))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
