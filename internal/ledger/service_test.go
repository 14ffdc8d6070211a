package ledger_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/compliance-tracker/internal/ledger"
	"github.com/frahmantamala/compliance-tracker/internal/qualification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockLedgerRepository implements ledger.Repository for testing
type MockLedgerRepository struct {
	entries    []*ledger.EmployeeQualification
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{nextID: 1}
}

func (m *MockLedgerRepository) Append(entry *ledger.EmployeeQualification) error {
	if m.shouldFail {
		return m.failError
	}
	entry.ID = m.nextID
	m.nextID++
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockLedgerRepository) GetLatest(employeeID, qualificationID int64) (*ledger.EmployeeQualification, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var latest *ledger.EmployeeQualification
	for _, e := range m.entries {
		if e.EmployeeID != employeeID || e.QualificationID != qualificationID {
			continue
		}
		if latest == nil || e.QualifiedFrom.After(latest.QualifiedFrom) {
			latest = e
		}
	}
	if latest == nil {
		return nil, errors.New("record not found")
	}
	return latest, nil
}

func (m *MockLedgerRepository) GetByGrantDate(employeeID, qualificationID int64, qualifiedFrom time.Time) (*ledger.EmployeeQualification, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && e.QualificationID == qualificationID && e.QualifiedFrom.Equal(qualifiedFrom) {
			return e, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *MockLedgerRepository) GetHistory(employeeID, qualificationID int64) ([]*ledger.EmployeeQualification, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*ledger.EmployeeQualification
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && e.QualificationID == qualificationID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockLedgerRepository) CountByTrainingGrant(qualificationID int64, employeeIDs []int64, qualifiedFrom time.Time) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	var count int64
	for _, id := range employeeIDs {
		if _, err := m.GetByGrantDate(id, qualificationID, qualifiedFrom); err == nil {
			count++
		}
	}
	return count, nil
}

func (m *MockLedgerRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

// MockQualificationGetter implements ledger.QualificationGetter for testing
type MockQualificationGetter struct {
	qualifications map[int64]*qualification.Qualification
}

func NewMockQualificationGetter() *MockQualificationGetter {
	return &MockQualificationGetter{qualifications: make(map[int64]*qualification.Qualification)}
}

func (m *MockQualificationGetter) Get(id int64) (*qualification.Qualification, error) {
	q, ok := m.qualifications[id]
	if !ok {
		return nil, errors.New("qualification not found")
	}
	return q, nil
}

func (m *MockQualificationGetter) AddQualification(q *qualification.Qualification) {
	m.qualifications[q.ID] = q
}

var _ = Describe("Ledger Service", func() {
	var (
		mockRepo  *MockLedgerRepository
		mockQuals *MockQualificationGetter
		service   *ledger.Service
		logger    *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = NewMockLedgerRepository()
		mockQuals = NewMockQualificationGetter()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = ledger.NewService(mockRepo, mockQuals, ledger.DefaultRules(), logger)

		mockQuals.AddQualification(&qualification.Qualification{
			ID:             1,
			Name:           "First Aid",
			ValidityMonths: 24,
			Origin:         qualification.OriginMandatory,
		})
		mockQuals.AddQualification(&qualification.Qualification{
			ID:             2,
			Name:           "Company Induction",
			ValidityMonths: 999,
			Origin:         qualification.OriginMandatory,
		})
	})

	Describe("Grant", func() {
		Context("with a regular validity period", func() {
			It("should compute the expiry from the grant date", func() {
				entry, err := service.Grant(ledger.GrantDTO{
					EmployeeID:      10,
					QualificationID: 1,
					QualifiedFrom:   date(2026, time.March, 1),
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(entry.ID).To(BeNumerically(">", 0))
				Expect(entry.ExpiryDate).NotTo(BeNil())
				Expect(*entry.ExpiryDate).To(Equal(date(2028, time.March, 1)))
				Expect(entry.IsProvisional).To(BeFalse())
			})

			It("should keep an explicitly provided expiry", func() {
				entry, err := service.Grant(ledger.GrantDTO{
					EmployeeID:      10,
					QualificationID: 1,
					QualifiedFrom:   date(2026, time.March, 1),
					ExpiryDate:      datePtr(2026, time.September, 1),
					IsProvisional:   true,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(*entry.ExpiryDate).To(Equal(date(2026, time.September, 1)))
				Expect(entry.IsProvisional).To(BeTrue())
			})
		})

		Context("with a never-expiring qualification", func() {
			It("should store a far-future expiry rather than null", func() {
				entry, err := service.Grant(ledger.GrantDTO{
					EmployeeID:      10,
					QualificationID: 2,
					QualifiedFrom:   date(2026, time.March, 1),
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(entry.ExpiryDate).NotTo(BeNil())
				Expect(*entry.ExpiryDate).To(Equal(date(2126, time.March, 1)))
			})
		})

		Context("when the same grant is recorded twice", func() {
			It("should return the existing entry without duplicating", func() {
				first, err := service.Grant(ledger.GrantDTO{
					EmployeeID:      10,
					QualificationID: 1,
					QualifiedFrom:   date(2026, time.March, 1),
				})
				Expect(err).NotTo(HaveOccurred())

				second, err := service.Grant(ledger.GrantDTO{
					EmployeeID:      10,
					QualificationID: 1,
					QualifiedFrom:   date(2026, time.March, 1),
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(second.ID).To(Equal(first.ID))
				Expect(mockRepo.entries).To(HaveLen(1))
			})

			It("should normalize timestamps to the grant date before comparing", func() {
				_, err := service.Grant(ledger.GrantDTO{
					EmployeeID:      10,
					QualificationID: 1,
					QualifiedFrom:   time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC),
				})
				Expect(err).NotTo(HaveOccurred())

				_, err = service.Grant(ledger.GrantDTO{
					EmployeeID:      10,
					QualificationID: 1,
					QualifiedFrom:   time.Date(2026, time.March, 1, 16, 45, 0, 0, time.UTC),
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(mockRepo.entries).To(HaveLen(1))
			})
		})

		Context("when the qualification does not exist", func() {
			It("should return a not found error", func() {
				_, err := service.Grant(ledger.GrantDTO{
					EmployeeID:      10,
					QualificationID: 42,
					QualifiedFrom:   date(2026, time.March, 1),
				})
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with invalid payload", func() {
			It("should reject a missing employee id", func() {
				_, err := service.Grant(ledger.GrantDTO{
					QualificationID: 1,
					QualifiedFrom:   date(2026, time.March, 1),
				})
				Expect(err).To(HaveOccurred())
			})

			It("should reject a zero grant date", func() {
				_, err := service.Grant(ledger.GrantDTO{
					EmployeeID:      10,
					QualificationID: 1,
				})
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("DeriveStatus", func() {
		Context("when the employee has no entries", func() {
			It("should report inactive", func() {
				detail, err := service.DeriveStatus(10, 1, date(2026, time.March, 1))
				Expect(err).NotTo(HaveOccurred())
				Expect(detail.Status).To(Equal(ledger.StatusInactive))
				Expect(detail.QualifiedFrom).To(BeNil())
			})
		})

		Context("when a grant exists", func() {
			BeforeEach(func() {
				_, err := service.Grant(ledger.GrantDTO{
					EmployeeID:      10,
					QualificationID: 1,
					QualifiedFrom:   date(2025, time.June, 1),
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("should derive from the latest entry", func() {
				detail, err := service.DeriveStatus(10, 1, date(2026, time.March, 1))
				Expect(err).NotTo(HaveOccurred())
				Expect(detail.Status).To(Equal(ledger.StatusActive))
				Expect(detail.QualifiedFrom).NotTo(BeNil())
				Expect(*detail.ExpiryDate).To(Equal(date(2027, time.June, 1)))
			})

			It("should pick the newest entry after a renewal", func() {
				_, err := service.Grant(ledger.GrantDTO{
					EmployeeID:      10,
					QualificationID: 1,
					QualifiedFrom:   date(2026, time.February, 1),
				})
				Expect(err).NotTo(HaveOccurred())

				detail, err := service.DeriveStatus(10, 1, date(2026, time.March, 1))
				Expect(err).NotTo(HaveOccurred())
				Expect(*detail.QualifiedFrom).To(Equal(date(2026, time.February, 1)))
				Expect(*detail.ExpiryDate).To(Equal(date(2028, time.February, 1)))
			})
		})
	})

	Describe("HasGrant", func() {
		It("should report an existing grant date", func() {
			_, err := service.Grant(ledger.GrantDTO{
				EmployeeID:      10,
				QualificationID: 1,
				QualifiedFrom:   date(2026, time.March, 1),
			})
			Expect(err).NotTo(HaveOccurred())

			ok, err := service.HasGrant(10, 1, date(2026, time.March, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("should report false for an unseen grant date", func() {
			ok, err := service.HasGrant(10, 1, date(2026, time.March, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})
})
