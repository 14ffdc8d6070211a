package qualification_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/compliance-tracker/internal"
	"github.com/frahmantamala/compliance-tracker/internal/qualification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestQualificationService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Qualification Service Suite")
}

// MockRepository implements qualification.Repository for testing
type MockRepository struct {
	qualifications map[int64]*qualification.Qualification
	nextID         int64
	shouldFail     bool
	failError      error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		qualifications: make(map[int64]*qualification.Qualification),
		nextID:         1,
	}
}

func (m *MockRepository) Create(q *qualification.Qualification) error {
	if m.shouldFail {
		return m.failError
	}
	q.ID = m.nextID
	m.nextID++
	m.qualifications[q.ID] = q
	return nil
}

func (m *MockRepository) GetByID(id int64) (*qualification.Qualification, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	q, ok := m.qualifications[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return q, nil
}

func (m *MockRepository) GetAll() ([]*qualification.Qualification, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*qualification.Qualification
	for _, q := range m.qualifications {
		result = append(result, q)
	}
	return result, nil
}

func (m *MockRepository) Update(q *qualification.Qualification) error {
	if m.shouldFail {
		return m.failError
	}
	m.qualifications[q.ID] = q
	return nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

// MockTrainerLookup implements qualification.TrainerLookup for testing
type MockTrainerLookup struct {
	trainedIDs []int64
}

func (m *MockTrainerLookup) QualificationIDsWithTrainers() ([]int64, error) {
	return m.trainedIDs, nil
}

func int64Ptr(v int64) *int64 {
	return &v
}

var _ = Describe("Qualification Service", func() {
	var (
		mockRepo   *MockRepository
		mockLookup *MockTrainerLookup
		service    *qualification.Service
		logger     *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockLookup = &MockTrainerLookup{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = qualification.NewService(mockRepo, mockLookup, logger)
	})

	Describe("Create", func() {
		It("should create a mandatory qualification", func() {
			q, err := service.Create(qualification.CreateQualificationDTO{
				Name:           "First Aid",
				ValidityMonths: 24,
				Origin:         qualification.OriginMandatory,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(q.ID).To(BeNumerically(">", 0))
			Expect(q.NeverExpires()).To(BeFalse())
		})

		It("should create a never-expiring qualification", func() {
			q, err := service.Create(qualification.CreateQualificationDTO{
				Name:           "Company Induction",
				ValidityMonths: 999,
				Origin:         qualification.OriginMandatory,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(q.NeverExpires()).To(BeTrue())
		})

		Context("origin consistency", func() {
			It("should reject a mandatory qualification with a job title", func() {
				_, err := service.Create(qualification.CreateQualificationDTO{
					Name:           "First Aid",
					ValidityMonths: 24,
					Origin:         qualification.OriginMandatory,
					JobTitleID:     int64Ptr(1),
				})
				Expect(err).To(HaveOccurred())
			})

			It("should reject a job title qualification without a job title id", func() {
				_, err := service.Create(qualification.CreateQualificationDTO{
					Name:           "Hygiene Certificate",
					ValidityMonths: 12,
					Origin:         qualification.OriginJobTitle,
				})
				Expect(err).To(HaveOccurred())
			})

			It("should reject a job title qualification that also names a skill", func() {
				_, err := service.Create(qualification.CreateQualificationDTO{
					Name:              "Hygiene Certificate",
					ValidityMonths:    12,
					Origin:            qualification.OriginJobTitle,
					JobTitleID:        int64Ptr(1),
					AdditionalSkillID: int64Ptr(10),
				})
				Expect(err).To(HaveOccurred())
			})

			It("should reject an additional skill qualification without a skill id", func() {
				_, err := service.Create(qualification.CreateQualificationDTO{
					Name:           "Fire Safety Officer",
					ValidityMonths: 36,
					Origin:         qualification.OriginAdditionalSkill,
				})
				Expect(err).To(HaveOccurred())
			})

			It("should reject an unknown origin", func() {
				_, err := service.Create(qualification.CreateQualificationDTO{
					Name:           "First Aid",
					ValidityMonths: 24,
					Origin:         "somewhere",
				})
				Expect(err).To(HaveOccurred())
			})
		})

		It("should reject a non-positive validity", func() {
			_, err := service.Create(qualification.CreateQualificationDTO{
				Name:   "First Aid",
				Origin: qualification.OriginMandatory,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			_, err := service.Create(qualification.CreateQualificationDTO{
				Name:           "First Aid",
				ValidityMonths: 24,
				Origin:         qualification.OriginMandatory,
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should replace the definition", func() {
			q, err := service.Update(1, qualification.CreateQualificationDTO{
				Name:           "First Aid (Extended)",
				ValidityMonths: 36,
				Origin:         qualification.OriginMandatory,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Name).To(Equal("First Aid (Extended)"))
			Expect(q.ValidityMonths).To(Equal(36))
		})

		It("should return not found for an unknown id", func() {
			_, err := service.Update(42, qualification.CreateQualificationDTO{
				Name:           "First Aid",
				ValidityMonths: 24,
				Origin:         qualification.OriginMandatory,
			})
			Expect(err).To(Equal(internal.ErrQualificationNotFound))
		})

		It("should enforce origin consistency on update", func() {
			_, err := service.Update(1, qualification.CreateQualificationDTO{
				Name:           "First Aid",
				ValidityMonths: 24,
				Origin:         qualification.OriginJobTitle,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Get", func() {
		It("should return not found for an unknown id", func() {
			_, err := service.Get(42)
			Expect(err).To(Equal(internal.ErrQualificationNotFound))
		})
	})

	Describe("MustResolve", func() {
		It("should report a data integrity error for a dangling reference", func() {
			_, err := service.MustResolve(42)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeDataIntegrity))
			Expect(appErr.Code).To(Equal(internal.ErrCodeDanglingReference))
		})
	})

	Describe("ListWithoutTrainers", func() {
		BeforeEach(func() {
			for _, name := range []string{"First Aid", "Hygiene Certificate", "Forklift License"} {
				_, err := service.Create(qualification.CreateQualificationDTO{
					Name:           name,
					ValidityMonths: 24,
					Origin:         qualification.OriginMandatory,
				})
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("should return only qualifications with no registered trainer", func() {
			mockLookup.trainedIDs = []int64{1, 3}

			untrained, err := service.ListWithoutTrainers()
			Expect(err).NotTo(HaveOccurred())
			Expect(untrained).To(HaveLen(1))
			Expect(untrained[0].Name).To(Equal("Hygiene Certificate"))
		})

		It("should return everything when no trainers exist", func() {
			untrained, err := service.ListWithoutTrainers()
			Expect(err).NotTo(HaveOccurred())
			Expect(untrained).To(HaveLen(3))
		})

		It("should return empty when every qualification is covered", func() {
			mockLookup.trainedIDs = []int64{1, 2, 3}

			untrained, err := service.ListWithoutTrainers()
			Expect(err).NotTo(HaveOccurred())
			Expect(untrained).To(BeEmpty())
		})
	})
})
