package training

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/frahmantamala/compliance-tracker/internal"
	"github.com/frahmantamala/compliance-tracker/internal/core/events"
	"github.com/frahmantamala/compliance-tracker/internal/directory"
	"github.com/frahmantamala/compliance-tracker/internal/ledger"
	"github.com/frahmantamala/compliance-tracker/internal/qualification"
	"github.com/frahmantamala/compliance-tracker/internal/trainer"
)

// Repository defines the data access methods for trainings and their rosters
type Repository interface {
	Create(t *Training, employeeIDs []int64) error
	GetByID(id int64) (*Training, error)
	GetAll(limit, offset int) ([]*Training, error)
	GetParticipantIDs(trainingID int64) ([]int64, error)
	AddParticipants(trainingID int64, employeeIDs []int64) error
	RemoveParticipant(trainingID, employeeID int64) error
	Delete(id int64) error
	MarkCompleted(id int64, completedDate time.Time) error
}

// QualificationRegistry resolves qualification definitions. MustResolve is
// the strict variant used when a training already references the id.
type QualificationRegistry interface {
	Get(id int64) (*qualification.Qualification, error)
	MustResolve(id int64) (*qualification.Qualification, error)
}

// TrainerRegistry resolves trainer assignments for trainer validation.
type TrainerRegistry interface {
	GetEntry(id int64) (*trainer.QualificationTrainer, error)
}

// EligibilityResolver supplies the mass-assignment population.
type EligibilityResolver interface {
	ResolveForDepartment(q *qualification.Qualification, departmentID *int64) ([]*directory.Employee, error)
}

// Ledger is the qualification ledger the completion transition writes to.
type Ledger interface {
	GrantFromCompletion(employeeID, qualificationID int64, completionDate time.Time) (*ledger.EmployeeQualification, error)
	HasGrant(employeeID, qualificationID int64, qualifiedFrom time.Time) (bool, error)
}

// Service orchestrates the training lifecycle: creation, roster management
// and the pending -> completed transition that extends the ledger.
type Service struct {
	repo        Repository
	quals       QualificationRegistry
	trainers    TrainerRegistry
	eligibility EligibilityResolver
	grants      Ledger
	bus         *events.EventBus
	logger      *slog.Logger
}

func NewService(
	repo Repository,
	quals QualificationRegistry,
	trainers TrainerRegistry,
	eligibility EligibilityResolver,
	grants Ledger,
	bus *events.EventBus,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		quals:       quals,
		trainers:    trainers,
		eligibility: eligibility,
		grants:      grants,
		bus:         bus,
		logger:      logger,
	}
}

// Create schedules a training in pending state. The trainer assignment must
// exist and must authorize the training's qualification. Roster priority:
// manual selection wins outright, then the mass flag, then empty.
func (s *Service) Create(dto CreateTrainingDTO) (*Training, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("training validation failed", "error", err, "name", dto.Name)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	q, err := s.quals.Get(dto.QualificationID)
	if err != nil {
		s.logger.Error("training references unknown qualification", "error", err, "qualification_id", dto.QualificationID)
		return nil, internal.ErrQualificationNotFound
	}

	entry, err := s.trainers.GetEntry(dto.TrainerAssignmentID)
	if err != nil {
		s.logger.Error("trainer assignment not found", "error", err, "trainer_assignment_id", dto.TrainerAssignmentID)
		return nil, internal.ErrTrainerEntryNotFound
	}
	if entry.QualificationID != dto.QualificationID {
		s.logger.Warn("trainer not authorized for qualification",
			"trainer_assignment_id", dto.TrainerAssignmentID,
			"trainer_qualification_id", entry.QualificationID,
			"qualification_id", dto.QualificationID)
		return nil, internal.ErrInvalidTrainer
	}

	roster, err := s.resolveRoster(dto, q)
	if err != nil {
		return nil, err
	}

	t := &Training{
		Name:                dto.Name,
		Description:         dto.Description,
		QualificationID:     dto.QualificationID,
		TrainerAssignmentID: dto.TrainerAssignmentID,
		TrainingDate:        dto.TrainingDate,
		DepartmentID:        dto.DepartmentID,
		ForEntireDepartment: dto.ForEntireDepartment,
	}

	if err := s.repo.Create(t, roster); err != nil {
		s.logger.Error("failed to create training", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("training created",
		"training_id", t.ID,
		"qualification_id", t.QualificationID,
		"trainer_assignment_id", t.TrainerAssignmentID,
		"roster_size", len(roster),
		"mass_assignment", dto.ForEntireDepartment && len(dto.EmployeeIDs) == 0)

	return t, nil
}

func (s *Service) resolveRoster(dto CreateTrainingDTO, q *qualification.Qualification) ([]int64, error) {
	if len(dto.EmployeeIDs) > 0 {
		return dedupe(dto.EmployeeIDs), nil
	}

	if dto.ForEntireDepartment {
		eligible, err := s.eligibility.ResolveForDepartment(q, dto.DepartmentID)
		if err != nil {
			s.logger.Error("mass assignment eligibility resolution failed", "error", err, "qualification_id", q.ID)
			return nil, err
		}
		ids := make([]int64, 0, len(eligible))
		for _, emp := range eligible {
			ids = append(ids, emp.ID)
		}
		return dedupe(ids), nil
	}

	return nil, nil
}

func (s *Service) Get(id int64) (*Training, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get training", "error", err, "training_id", id)
		return nil, internal.ErrTrainingNotFound
	}
	return t, nil
}

func (s *Service) List(limit, offset int) ([]*Training, error) {
	trainings, err := s.repo.GetAll(limit, offset)
	if err != nil {
		s.logger.Error("failed to list trainings", "error", err)
		return nil, err
	}
	return trainings, nil
}

func (s *Service) Participants(trainingID int64) ([]int64, error) {
	if _, err := s.repo.GetByID(trainingID); err != nil {
		return nil, internal.ErrTrainingNotFound
	}
	return s.repo.GetParticipantIDs(trainingID)
}

// AssignEmployees unions the given employees into the roster. Employees
// already assigned are left untouched.
func (s *Service) AssignEmployees(trainingID int64, employeeIDs []int64) error {
	t, err := s.repo.GetByID(trainingID)
	if err != nil {
		s.logger.Error("failed to get training for assignment", "error", err, "training_id", trainingID)
		return internal.ErrTrainingNotFound
	}
	if t.Completed {
		s.logger.Warn("cannot assign employees to completed training", "training_id", trainingID)
		return internal.ErrAlreadyCompleted
	}

	existing, err := s.repo.GetParticipantIDs(trainingID)
	if err != nil {
		s.logger.Error("failed to load roster", "error", err, "training_id", trainingID)
		return err
	}
	known := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	var added []int64
	for _, id := range dedupe(employeeIDs) {
		if _, ok := known[id]; !ok {
			added = append(added, id)
		}
	}
	if len(added) == 0 {
		s.logger.Info("no new participants to assign", "training_id", trainingID)
		return nil
	}

	if err := s.repo.AddParticipants(trainingID, added); err != nil {
		s.logger.Error("failed to add participants", "error", err, "training_id", trainingID)
		return err
	}

	s.logger.Info("participants assigned",
		"training_id", trainingID,
		"added_count", len(added),
		"roster_size", len(existing)+len(added))
	return nil
}

// RemoveParticipant takes one employee off the roster. Removing the last
// participant deletes the training entirely: a training with zero
// participants cannot exist.
func (s *Service) RemoveParticipant(trainingID, employeeID int64) error {
	if _, err := s.repo.GetByID(trainingID); err != nil {
		s.logger.Error("failed to get training for removal", "error", err, "training_id", trainingID)
		return internal.ErrTrainingNotFound
	}

	if err := s.repo.RemoveParticipant(trainingID, employeeID); err != nil {
		s.logger.Error("failed to remove participant", "error", err,
			"training_id", trainingID,
			"employee_id", employeeID)
		return err
	}

	remaining, err := s.repo.GetParticipantIDs(trainingID)
	if err != nil {
		s.logger.Error("failed to count remaining participants", "error", err, "training_id", trainingID)
		return err
	}

	if len(remaining) == 0 {
		if err := s.repo.Delete(trainingID); err != nil {
			s.logger.Error("failed to delete orphaned training", "error", err, "training_id", trainingID)
			return err
		}
		s.logger.Info("training deleted after last participant removed", "training_id", trainingID)
		return nil
	}

	s.logger.Info("participant removed",
		"training_id", trainingID,
		"employee_id", employeeID,
		"remaining", len(remaining))
	return nil
}

// Complete transitions a training to completed and extends every
// participant's qualification in one logical transaction. The status flip is
// recorded before the grants so a crash in between is detectable through
// Reconcile. Per-participant grants are independent; failures are collected
// and reported as a PartialFailureError, and a repeat call resumes the
// missing grants without double-granting (each grant is idempotent per
// completion date).
func (s *Service) Complete(ctx context.Context, trainingID int64, dto CompleteTrainingDTO) (*Training, error) {
	t, err := s.repo.GetByID(trainingID)
	if err != nil {
		s.logger.Error("failed to get training for completion", "error", err, "training_id", trainingID)
		return nil, internal.ErrTrainingNotFound
	}

	if dto.DocumentCount < 1 {
		s.logger.Warn("completion rejected: no documents", "training_id", trainingID)
		return nil, internal.ErrNoDocuments
	}
	if dto.CompletionDate.After(endOfToday()) {
		s.logger.Warn("completion rejected: future date",
			"training_id", trainingID,
			"completion_date", dto.CompletionDate)
		return nil, internal.ErrFutureDate
	}

	// Dangling qualification reference is a data integrity fault, not a
	// silent skip.
	q, err := s.quals.MustResolve(t.QualificationID)
	if err != nil {
		return nil, err
	}

	participants, err := s.repo.GetParticipantIDs(trainingID)
	if err != nil {
		s.logger.Error("failed to load roster for completion", "error", err, "training_id", trainingID)
		return nil, err
	}

	completionDate := dto.CompletionDate
	if t.Completed {
		// Already completed: only resume if earlier grants are missing,
		// using the recorded completion date so the ledger stays uniform.
		report, err := s.reconcile(t, participants)
		if err != nil {
			return nil, err
		}
		if report.Consistent {
			s.logger.Warn("completion rejected: already completed", "training_id", trainingID)
			return nil, internal.ErrAlreadyCompleted
		}
		completionDate = *t.CompletedDate
		s.logger.Info("resuming incomplete grant application",
			"training_id", trainingID,
			"missing_count", len(report.MissingEmployeeIDs))
	} else {
		if err := s.repo.MarkCompleted(trainingID, completionDate); err != nil {
			s.logger.Error("failed to mark training completed", "error", err, "training_id", trainingID)
			return nil, err
		}
		t.Completed = true
		t.CompletedDate = &completionDate
		t.TrainingDate = completionDate
	}

	failures := make(map[int64]error)
	granted := 0
	for _, employeeID := range participants {
		if _, err := s.grants.GrantFromCompletion(employeeID, t.QualificationID, completionDate); err != nil {
			s.logger.Error("participant grant failed", "error", err,
				"training_id", trainingID,
				"employee_id", employeeID)
			failures[employeeID] = err
			continue
		}
		granted++
	}

	if len(failures) > 0 {
		return t, internal.NewPartialFailureError(trainingID, failures)
	}

	s.logger.Info("training completed",
		"training_id", trainingID,
		"qualification_id", t.QualificationID,
		"completed_date", completionDate,
		"participants", len(participants),
		"grants_written", granted)

	if s.bus != nil {
		event := events.NewTrainingCompletedEvent(trainingID, q.ID, completionDate, participants, granted)
		if err := s.bus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish training completed event", "error", err, "training_id", trainingID)
		}
	}

	return t, nil
}

// Reconcile compares the roster against the ledger entries written for the
// completion date, surfacing a crash between the status flip and the grants.
func (s *Service) Reconcile(trainingID int64) (*ReconciliationReport, error) {
	t, err := s.repo.GetByID(trainingID)
	if err != nil {
		return nil, internal.ErrTrainingNotFound
	}
	participants, err := s.repo.GetParticipantIDs(trainingID)
	if err != nil {
		return nil, err
	}
	return s.reconcile(t, participants)
}

func (s *Service) reconcile(t *Training, participants []int64) (*ReconciliationReport, error) {
	report := &ReconciliationReport{
		TrainingID:       t.ID,
		Completed:        t.Completed,
		ParticipantCount: len(participants),
	}

	if !t.Completed || t.CompletedDate == nil {
		report.Consistent = true
		return report, nil
	}

	for _, employeeID := range participants {
		ok, err := s.grants.HasGrant(employeeID, t.QualificationID, *t.CompletedDate)
		if err != nil {
			return nil, err
		}
		if ok {
			report.GrantsWritten++
		} else {
			report.MissingEmployeeIDs = append(report.MissingEmployeeIDs, employeeID)
		}
	}

	sort.Slice(report.MissingEmployeeIDs, func(i, j int) bool {
		return report.MissingEmployeeIDs[i] < report.MissingEmployeeIDs[j]
	})
	report.Consistent = len(report.MissingEmployeeIDs) == 0
	return report, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func endOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
}
