package trainer

import (
	"log/slog"

	"github.com/frahmantamala/compliance-tracker/internal"
)

// Repository defines the data access methods for trainer registry entries
type Repository interface {
	Create(entry *QualificationTrainer) error
	GetByID(id int64) (*QualificationTrainer, error)
	GetByPair(employeeID, qualificationID int64) (*QualificationTrainer, error)
	GetByQualification(qualificationID int64) ([]*QualificationTrainer, error)
	CountByEmployee(employeeID int64) (int64, error)
	DeleteByPair(employeeID, qualificationID int64) error
	DistinctQualificationIDs() ([]int64, error)
}

// TrainerFlagStore updates the derived is_trainer convenience flag on the
// employee record. Implemented by the employee directory.
type TrainerFlagStore interface {
	SetTrainerFlag(employeeID int64, isTrainer bool) error
}

// Service is the trainer registry. The employee's global trainer flag is a
// read-through cache over these entries: it flips to true on the first
// assignment, and may only flip back to false once every assignment is gone.
type Service struct {
	repo   Repository
	flags  TrainerFlagStore
	logger *slog.Logger
}

func NewService(repo Repository, flags TrainerFlagStore, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		flags:  flags,
		logger: logger,
	}
}

// AddTrainer registers an employee as trainer for a qualification.
// Idempotent: an existing pair is returned unchanged.
func (s *Service) AddTrainer(dto AssignTrainerDTO) (*QualificationTrainer, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("trainer assignment validation failed", "error", err)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByPair(dto.EmployeeID, dto.QualificationID); err == nil && existing != nil {
		s.logger.Info("trainer assignment already exists",
			"employee_id", dto.EmployeeID,
			"qualification_id", dto.QualificationID)
		return existing, nil
	}

	entry := &QualificationTrainer{
		EmployeeID:      dto.EmployeeID,
		QualificationID: dto.QualificationID,
	}

	if err := s.repo.Create(entry); err != nil {
		s.logger.Error("failed to create trainer assignment", "error", err,
			"employee_id", dto.EmployeeID,
			"qualification_id", dto.QualificationID)
		return nil, err
	}

	if err := s.flags.SetTrainerFlag(dto.EmployeeID, true); err != nil {
		s.logger.Warn("failed to refresh trainer flag", "error", err, "employee_id", dto.EmployeeID)
	}

	s.logger.Info("trainer assigned",
		"entry_id", entry.ID,
		"employee_id", dto.EmployeeID,
		"qualification_id", dto.QualificationID)

	return entry, nil
}

// RemoveTrainer deletes one trainer assignment. When the employee's last
// assignment is removed the derived flag is cleared.
func (s *Service) RemoveTrainer(employeeID, qualificationID int64) error {
	entry, err := s.repo.GetByPair(employeeID, qualificationID)
	if err != nil || entry == nil {
		s.logger.Error("trainer assignment not found", "error", err,
			"employee_id", employeeID,
			"qualification_id", qualificationID)
		return internal.ErrTrainerEntryNotFound
	}

	if err := s.repo.DeleteByPair(employeeID, qualificationID); err != nil {
		s.logger.Error("failed to delete trainer assignment", "error", err,
			"employee_id", employeeID,
			"qualification_id", qualificationID)
		return err
	}

	remaining, err := s.repo.CountByEmployee(employeeID)
	if err != nil {
		s.logger.Warn("failed to count remaining assignments", "error", err, "employee_id", employeeID)
		return nil
	}
	if remaining == 0 {
		if err := s.flags.SetTrainerFlag(employeeID, false); err != nil {
			s.logger.Warn("failed to clear trainer flag", "error", err, "employee_id", employeeID)
		}
	}

	s.logger.Info("trainer removed",
		"employee_id", employeeID,
		"qualification_id", qualificationID,
		"remaining_assignments", remaining)

	return nil
}

// GetEntry resolves a trainer registry entry by id.
func (s *Service) GetEntry(id int64) (*QualificationTrainer, error) {
	entry, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get trainer assignment", "error", err, "entry_id", id)
		return nil, internal.ErrTrainerEntryNotFound
	}
	return entry, nil
}

// ListTrainersFor returns the trainer assignments for a qualification in
// insertion order.
func (s *Service) ListTrainersFor(qualificationID int64) ([]*QualificationTrainer, error) {
	entries, err := s.repo.GetByQualification(qualificationID)
	if err != nil {
		s.logger.Error("failed to list trainers", "error", err, "qualification_id", qualificationID)
		return nil, err
	}
	return entries, nil
}

// CanToggleGlobalTrainerFlag reports whether the employee's trainer flag may
// be flipped directly: legal only with zero registry entries.
func (s *Service) CanToggleGlobalTrainerFlag(employeeID int64) (bool, error) {
	count, err := s.repo.CountByEmployee(employeeID)
	if err != nil {
		s.logger.Error("failed to count trainer assignments", "error", err, "employee_id", employeeID)
		return false, err
	}
	return count == 0, nil
}

// SetGlobalTrainerFlag flips the derived flag directly. Fails with an
// InvalidStateTransition while any qualification-level assignment exists.
func (s *Service) SetGlobalTrainerFlag(employeeID int64, isTrainer bool) error {
	ok, err := s.CanToggleGlobalTrainerFlag(employeeID)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn("trainer flag toggle rejected: assignments exist", "employee_id", employeeID)
		return internal.ErrTrainerHasAssignments
	}

	if err := s.flags.SetTrainerFlag(employeeID, isTrainer); err != nil {
		s.logger.Error("failed to set trainer flag", "error", err, "employee_id", employeeID)
		return err
	}

	s.logger.Info("trainer flag set", "employee_id", employeeID, "is_trainer", isTrainer)
	return nil
}

// QualificationIDsWithTrainers implements qualification.TrainerLookup.
func (s *Service) QualificationIDsWithTrainers() ([]int64, error) {
	return s.repo.DistinctQualificationIDs()
}
