package eligibility

import (
	"log/slog"
	"sort"

	"github.com/frahmantamala/compliance-tracker/internal/directory"
	"github.com/frahmantamala/compliance-tracker/internal/qualification"
)

// SkillLedger is the external additional-skill collaborator. The resolver
// only joins on its assignments; it does not own them.
type SkillLedger interface {
	ListSkillAssignments() ([]*directory.SkillAssignment, error)
}

// EmployeeDirectory lists employees for mass-assignment resolution.
type EmployeeDirectory interface {
	ListEmployees(filter directory.EmployeeFilter) ([]*directory.Employee, error)
}

// Resolver computes which employees may legitimately hold or receive a
// qualification, based on its origin rule.
type Resolver struct {
	skills    SkillLedger
	employees EmployeeDirectory
	logger    *slog.Logger
}

func NewResolver(skills SkillLedger, employees EmployeeDirectory, logger *slog.Logger) *Resolver {
	return &Resolver{
		skills:    skills,
		employees: employees,
		logger:    logger,
	}
}

// Resolve filters a caller-scoped roster down to the employees eligible for
// the qualification. The result is ordered by name for determinism; an empty
// result is a valid outcome, not an error.
func (r *Resolver) Resolve(q *qualification.Qualification, roster []*directory.Employee) ([]*directory.Employee, error) {
	var eligible []*directory.Employee

	switch q.Origin {
	case qualification.OriginMandatory:
		eligible = append(eligible, roster...)

	case qualification.OriginJobTitle:
		for _, emp := range roster {
			if emp.JobTitleID != nil && q.JobTitleID != nil && *emp.JobTitleID == *q.JobTitleID {
				eligible = append(eligible, emp)
			}
		}

	case qualification.OriginAdditionalSkill:
		assignments, err := r.skills.ListSkillAssignments()
		if err != nil {
			r.logger.Error("failed to load skill assignments", "error", err, "qualification_id", q.ID)
			return nil, err
		}
		holders := make(map[int64]struct{})
		for _, a := range assignments {
			if q.AdditionalSkillID != nil && a.AdditionalSkillID == *q.AdditionalSkillID {
				holders[a.EmployeeID] = struct{}{}
			}
		}
		for _, emp := range roster {
			if _, ok := holders[emp.ID]; ok {
				eligible = append(eligible, emp)
			}
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].Name == eligible[j].Name {
			return eligible[i].ID < eligible[j].ID
		}
		return eligible[i].Name < eligible[j].Name
	})

	r.logger.Info("eligibility resolved",
		"qualification_id", q.ID,
		"origin", q.Origin,
		"roster_size", len(roster),
		"eligible_count", len(eligible))

	return eligible, nil
}

// ResolveForDepartment resolves eligibility over the active employee
// population, optionally narrowed to one department. Used for mass
// assignment when no manual roster is given.
func (r *Resolver) ResolveForDepartment(q *qualification.Qualification, departmentID *int64) ([]*directory.Employee, error) {
	roster, err := r.employees.ListEmployees(directory.EmployeeFilter{
		DepartmentID: departmentID,
		ActiveOnly:   true,
	})
	if err != nil {
		r.logger.Error("failed to list employees for eligibility", "error", err, "qualification_id", q.ID)
		return nil, err
	}
	return r.Resolve(q, roster)
}
