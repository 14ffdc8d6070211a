package directory

import (
	"log/slog"

	"github.com/frahmantamala/compliance-tracker/internal"
)

// Repository defines the data access methods for the employee directory
// and the additional-skill ledger.
type Repository interface {
	GetEmployee(id int64) (*Employee, error)
	ListEmployees(filter EmployeeFilter) ([]*Employee, error)
	ListSkillAssignments() ([]*SkillAssignment, error)
	SetTrainerFlag(employeeID int64, isTrainer bool) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetEmployee(id int64) (*Employee, error) {
	emp, err := s.repo.GetEmployee(id)
	if err != nil {
		s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		return nil, internal.ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *Service) ListEmployees(filter EmployeeFilter) ([]*Employee, error) {
	employees, err := s.repo.ListEmployees(filter)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, err
	}
	return employees, nil
}

func (s *Service) ListSkillAssignments() ([]*SkillAssignment, error) {
	assignments, err := s.repo.ListSkillAssignments()
	if err != nil {
		s.logger.Error("failed to list skill assignments", "error", err)
		return nil, err
	}
	return assignments, nil
}
