package qualification

import (
	"log/slog"

	"github.com/frahmantamala/compliance-tracker/internal"
)

// Repository defines the data access methods for qualifications
type Repository interface {
	Create(q *Qualification) error
	GetByID(id int64) (*Qualification, error)
	GetAll() ([]*Qualification, error)
	Update(q *Qualification) error
}

// TrainerLookup reports which qualifications currently have at least one
// registered trainer. Implemented by the trainer registry.
type TrainerLookup interface {
	QualificationIDsWithTrainers() ([]int64, error)
}

// Service is the qualification registry: read-mostly canonical definitions.
type Service struct {
	repo     Repository
	trainers TrainerLookup
	logger   *slog.Logger
}

func NewService(repo Repository, trainers TrainerLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		trainers: trainers,
		logger:   logger,
	}
}

func (s *Service) Create(dto CreateQualificationDTO) (*Qualification, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("qualification validation failed", "error", err, "name", dto.Name)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	q := &Qualification{
		Name:              dto.Name,
		Description:       dto.Description,
		ValidityMonths:    dto.ValidityMonths,
		Origin:            dto.Origin,
		JobTitleID:        dto.JobTitleID,
		AdditionalSkillID: dto.AdditionalSkillID,
	}

	if err := s.repo.Create(q); err != nil {
		s.logger.Error("failed to create qualification", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("qualification created",
		"qualification_id", q.ID,
		"name", q.Name,
		"origin", q.Origin,
		"validity_months", q.ValidityMonths)

	return q, nil
}

// Update replaces the definition of an existing qualification. Ledger
// entries already written are untouched; status derivation picks up the new
// validity on the next read.
func (s *Service) Update(id int64, dto CreateQualificationDTO) (*Qualification, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("qualification validation failed", "error", err, "qualification_id", id)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	q, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get qualification for update", "error", err, "qualification_id", id)
		return nil, internal.ErrQualificationNotFound
	}

	q.Name = dto.Name
	q.Description = dto.Description
	q.ValidityMonths = dto.ValidityMonths
	q.Origin = dto.Origin
	q.JobTitleID = dto.JobTitleID
	q.AdditionalSkillID = dto.AdditionalSkillID

	if err := s.repo.Update(q); err != nil {
		s.logger.Error("failed to update qualification", "error", err, "qualification_id", id)
		return nil, err
	}

	s.logger.Info("qualification updated",
		"qualification_id", q.ID,
		"name", q.Name,
		"validity_months", q.ValidityMonths)

	return q, nil
}

func (s *Service) Get(id int64) (*Qualification, error) {
	q, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get qualification", "error", err, "qualification_id", id)
		return nil, internal.ErrQualificationNotFound
	}
	return q, nil
}

// MustResolve is the strict lookup used when a training references a
// qualification: a missing record is a data integrity fault, never silently
// coerced to a default.
func (s *Service) MustResolve(id int64) (*Qualification, error) {
	q, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("training references missing qualification", "error", err, "qualification_id", id)
		return nil, internal.NewDataIntegrityError("training references a missing qualification", internal.ErrCodeDanglingReference).WithCause(err)
	}
	return q, nil
}

func (s *Service) List() ([]*Qualification, error) {
	quals, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list qualifications", "error", err)
		return nil, err
	}
	return quals, nil
}

// ListWithoutTrainers returns qualifications with zero trainer registry
// entries, used by callers to block training creation for them.
func (s *Service) ListWithoutTrainers() ([]*Qualification, error) {
	quals, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list qualifications", "error", err)
		return nil, err
	}

	trainedIDs, err := s.trainers.QualificationIDsWithTrainers()
	if err != nil {
		s.logger.Error("failed to look up trained qualifications", "error", err)
		return nil, err
	}

	trained := make(map[int64]struct{}, len(trainedIDs))
	for _, id := range trainedIDs {
		trained[id] = struct{}{}
	}

	var untrained []*Qualification
	for _, q := range quals {
		if _, ok := trained[q.ID]; !ok {
			untrained = append(untrained, q)
		}
	}

	s.logger.Info("resolved qualifications without trainers", "count", len(untrained))
	return untrained, nil
}
