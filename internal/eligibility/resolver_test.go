package eligibility_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/compliance-tracker/internal/directory"
	"github.com/frahmantamala/compliance-tracker/internal/eligibility"
	"github.com/frahmantamala/compliance-tracker/internal/qualification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEligibilityResolver(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Eligibility Resolver Suite")
}

// MockSkillLedger implements eligibility.SkillLedger for testing
type MockSkillLedger struct {
	assignments []*directory.SkillAssignment
	shouldFail  bool
	failError   error
}

func (m *MockSkillLedger) ListSkillAssignments() ([]*directory.SkillAssignment, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.assignments, nil
}

// MockEmployeeDirectory implements eligibility.EmployeeDirectory for testing
type MockEmployeeDirectory struct {
	employees []*directory.Employee
}

func (m *MockEmployeeDirectory) ListEmployees(filter directory.EmployeeFilter) ([]*directory.Employee, error) {
	var result []*directory.Employee
	for _, emp := range m.employees {
		if filter.ActiveOnly && !emp.IsActive {
			continue
		}
		if filter.DepartmentID != nil {
			if emp.DepartmentID == nil || *emp.DepartmentID != *filter.DepartmentID {
				continue
			}
		}
		result = append(result, emp)
	}
	return result, nil
}

func int64Ptr(v int64) *int64 {
	return &v
}

func employee(id int64, name string, jobTitleID *int64) *directory.Employee {
	return &directory.Employee{
		ID:         id,
		Name:       name,
		JobTitleID: jobTitleID,
		IsActive:   true,
	}
}

var _ = Describe("Eligibility Resolver", func() {
	var (
		mockSkills    *MockSkillLedger
		mockDirectory *MockEmployeeDirectory
		resolver      *eligibility.Resolver
		logger        *slog.Logger
		roster        []*directory.Employee
	)

	BeforeEach(func() {
		mockSkills = &MockSkillLedger{}
		mockDirectory = &MockEmployeeDirectory{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		resolver = eligibility.NewResolver(mockSkills, mockDirectory, logger)

		roster = []*directory.Employee{
			employee(1, "Clara Vogt", int64Ptr(2)),
			employee(2, "Anna Brandt", int64Ptr(1)),
			employee(3, "Bernd Keller", int64Ptr(1)),
			employee(4, "Daniel Roth", nil),
		}
	})

	Describe("Resolve", func() {
		Context("with a mandatory qualification", func() {
			It("should include the whole roster, ordered by name", func() {
				q := &qualification.Qualification{ID: 1, Origin: qualification.OriginMandatory}
				eligible, err := resolver.Resolve(q, roster)
				Expect(err).NotTo(HaveOccurred())
				Expect(eligible).To(HaveLen(4))
				Expect(eligible[0].Name).To(Equal("Anna Brandt"))
				Expect(eligible[1].Name).To(Equal("Bernd Keller"))
				Expect(eligible[2].Name).To(Equal("Clara Vogt"))
				Expect(eligible[3].Name).To(Equal("Daniel Roth"))
			})
		})

		Context("with a job title qualification", func() {
			It("should include only employees holding the job title", func() {
				q := &qualification.Qualification{
					ID:         2,
					Origin:     qualification.OriginJobTitle,
					JobTitleID: int64Ptr(1),
				}
				eligible, err := resolver.Resolve(q, roster)
				Expect(err).NotTo(HaveOccurred())
				Expect(eligible).To(HaveLen(2))
				Expect(eligible[0].Name).To(Equal("Anna Brandt"))
				Expect(eligible[1].Name).To(Equal("Bernd Keller"))
			})

			It("should skip employees without a job title", func() {
				q := &qualification.Qualification{
					ID:         2,
					Origin:     qualification.OriginJobTitle,
					JobTitleID: int64Ptr(9),
				}
				eligible, err := resolver.Resolve(q, roster)
				Expect(err).NotTo(HaveOccurred())
				Expect(eligible).To(BeEmpty())
			})
		})

		Context("with an additional skill qualification", func() {
			BeforeEach(func() {
				mockSkills.assignments = []*directory.SkillAssignment{
					{EmployeeID: 1, AdditionalSkillID: 10},
					{EmployeeID: 4, AdditionalSkillID: 10},
					{EmployeeID: 2, AdditionalSkillID: 11},
				}
			})

			It("should include only holders of the skill", func() {
				q := &qualification.Qualification{
					ID:                3,
					Origin:            qualification.OriginAdditionalSkill,
					AdditionalSkillID: int64Ptr(10),
				}
				eligible, err := resolver.Resolve(q, roster)
				Expect(err).NotTo(HaveOccurred())
				Expect(eligible).To(HaveLen(2))
				Expect(eligible[0].Name).To(Equal("Clara Vogt"))
				Expect(eligible[1].Name).To(Equal("Daniel Roth"))
			})

			It("should surface skill ledger failures", func() {
				mockSkills.shouldFail = true
				mockSkills.failError = errors.New("skill ledger unavailable")

				q := &qualification.Qualification{
					ID:                3,
					Origin:            qualification.OriginAdditionalSkill,
					AdditionalSkillID: int64Ptr(10),
				}
				_, err := resolver.Resolve(q, roster)
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with an empty roster", func() {
			It("should return an empty result, not an error", func() {
				q := &qualification.Qualification{ID: 1, Origin: qualification.OriginMandatory}
				eligible, err := resolver.Resolve(q, nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(eligible).To(BeEmpty())
			})
		})

		It("should break name ties by id", func() {
			q := &qualification.Qualification{ID: 1, Origin: qualification.OriginMandatory}
			twins := []*directory.Employee{
				employee(9, "Anna Brandt", nil),
				employee(2, "Anna Brandt", nil),
			}
			eligible, err := resolver.Resolve(q, twins)
			Expect(err).NotTo(HaveOccurred())
			Expect(eligible[0].ID).To(Equal(int64(2)))
			Expect(eligible[1].ID).To(Equal(int64(9)))
		})
	})

	Describe("ResolveForDepartment", func() {
		BeforeEach(func() {
			dept1 := int64Ptr(1)
			dept2 := int64Ptr(2)
			mockDirectory.employees = []*directory.Employee{
				{ID: 1, Name: "Clara Vogt", DepartmentID: dept1, IsActive: true},
				{ID: 2, Name: "Anna Brandt", DepartmentID: dept1, IsActive: true},
				{ID: 3, Name: "Bernd Keller", DepartmentID: dept2, IsActive: true},
				{ID: 4, Name: "Erik Lang", DepartmentID: dept1, IsActive: false},
			}
		})

		It("should consider only active employees of the department", func() {
			q := &qualification.Qualification{ID: 1, Origin: qualification.OriginMandatory}
			eligible, err := resolver.ResolveForDepartment(q, int64Ptr(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(eligible).To(HaveLen(2))
			Expect(eligible[0].Name).To(Equal("Anna Brandt"))
			Expect(eligible[1].Name).To(Equal("Clara Vogt"))
		})

		It("should span all departments when none is given", func() {
			q := &qualification.Qualification{ID: 1, Origin: qualification.OriginMandatory}
			eligible, err := resolver.ResolveForDepartment(q, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(eligible).To(HaveLen(3))
		})
	})
})
