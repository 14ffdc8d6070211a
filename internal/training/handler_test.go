package training_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/compliance-tracker/internal"
	"github.com/frahmantamala/compliance-tracker/internal/training"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockServiceAPI implements training.ServiceAPI for handler testing
type MockServiceAPI struct {
	trainings    map[int64]*training.Training
	participants map[int64][]int64
	completeErr  error
}

func NewMockServiceAPI() *MockServiceAPI {
	return &MockServiceAPI{
		trainings:    make(map[int64]*training.Training),
		participants: make(map[int64][]int64),
	}
}

func (m *MockServiceAPI) Create(dto training.CreateTrainingDTO) (*training.Training, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	t := &training.Training{
		ID:              int64(len(m.trainings) + 1),
		Name:            dto.Name,
		QualificationID: dto.QualificationID,
	}
	m.trainings[t.ID] = t
	return t, nil
}

func (m *MockServiceAPI) Get(id int64) (*training.Training, error) {
	t, ok := m.trainings[id]
	if !ok {
		return nil, internal.ErrTrainingNotFound
	}
	return t, nil
}

func (m *MockServiceAPI) List(limit, offset int) ([]*training.Training, error) {
	var result []*training.Training
	for _, t := range m.trainings {
		result = append(result, t)
	}
	return result, nil
}

func (m *MockServiceAPI) Participants(trainingID int64) ([]int64, error) {
	if _, ok := m.trainings[trainingID]; !ok {
		return nil, internal.ErrTrainingNotFound
	}
	return m.participants[trainingID], nil
}

func (m *MockServiceAPI) AssignEmployees(trainingID int64, employeeIDs []int64) error {
	if _, ok := m.trainings[trainingID]; !ok {
		return internal.ErrTrainingNotFound
	}
	m.participants[trainingID] = append(m.participants[trainingID], employeeIDs...)
	return nil
}

func (m *MockServiceAPI) RemoveParticipant(trainingID, employeeID int64) error {
	if _, ok := m.trainings[trainingID]; !ok {
		return internal.ErrTrainingNotFound
	}
	return nil
}

func (m *MockServiceAPI) Complete(ctx context.Context, trainingID int64, dto training.CompleteTrainingDTO) (*training.Training, error) {
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	t, ok := m.trainings[trainingID]
	if !ok {
		return nil, internal.ErrTrainingNotFound
	}
	t.Completed = true
	return t, nil
}

func (m *MockServiceAPI) Reconcile(trainingID int64) (*training.ReconciliationReport, error) {
	if _, ok := m.trainings[trainingID]; !ok {
		return nil, internal.ErrTrainingNotFound
	}
	return &training.ReconciliationReport{TrainingID: trainingID, Consistent: true}, nil
}

var _ = Describe("Training Handler", func() {
	var (
		mockService *MockServiceAPI
		handler     *training.Handler
		router      *chi.Mux
	)

	BeforeEach(func() {
		mockService = NewMockServiceAPI()
		handler = training.NewHandler(mockService)

		router = chi.NewRouter()
		router.Post("/trainings", handler.CreateTraining)
		router.Get("/trainings/{id}", handler.GetTraining)
		router.Post("/trainings/{id}/complete", handler.CompleteTraining)
		router.Get("/trainings/{id}/reconcile", handler.ReconcileTraining)

		mockService.trainings[1] = &training.Training{
			ID:              1,
			Name:            "First Aid Refresher",
			QualificationID: 1,
		}
	})

	Describe("POST /trainings", func() {
		It("should create a training from a valid payload", func() {
			body, err := json.Marshal(training.CreateTrainingDTO{
				Name:                "Fire Safety Basics",
				QualificationID:     2,
				TrainerAssignmentID: 100,
				TrainingDate:        time.Now().AddDate(0, 1, 0),
			})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodPost, "/trainings", bytes.NewReader(body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var created training.Training
			Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
			Expect(created.Name).To(Equal("Fire Safety Basics"))
		})

		It("should reject an invalid payload", func() {
			req := httptest.NewRequest(http.MethodPost, "/trainings", bytes.NewReader([]byte(`{"name":""}`)))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/trainings", bytes.NewReader([]byte(`not json`)))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /trainings/{id}", func() {
		It("should return an existing training", func() {
			req := httptest.NewRequest(http.MethodGet, "/trainings/1", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
		})

		It("should map a missing training to 404", func() {
			req := httptest.NewRequest(http.MethodGet, "/trainings/99", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should reject a non-numeric id", func() {
			req := httptest.NewRequest(http.MethodGet, "/trainings/abc", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /trainings/{id}/complete", func() {
		completionBody := func() *bytes.Reader {
			body, err := json.Marshal(training.CompleteTrainingDTO{
				CompletionDate: time.Now().AddDate(0, 0, -1),
				DocumentCount:  1,
			})
			Expect(err).NotTo(HaveOccurred())
			return bytes.NewReader(body)
		}

		It("should complete the training", func() {
			req := httptest.NewRequest(http.MethodPost, "/trainings/1/complete", completionBody())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var completed training.Training
			Expect(json.NewDecoder(w.Body).Decode(&completed)).To(Succeed())
			Expect(completed.Completed).To(BeTrue())
		})

		It("should map an already completed training to 409", func() {
			mockService.completeErr = internal.ErrAlreadyCompleted

			req := httptest.NewRequest(http.MethodPost, "/trainings/1/complete", completionBody())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("should surface a partial failure with the failed subset", func() {
			mockService.completeErr = internal.NewPartialFailureError(1, map[int64]error{
				6: context.DeadlineExceeded,
				5: context.DeadlineExceeded,
			})

			req := httptest.NewRequest(http.MethodPost, "/trainings/1/complete", completionBody())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))

			var response internal.Response
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Error.Code).To(Equal(internal.ErrCodeGrantsPartiallyFailed))
		})
	})

	Describe("GET /trainings/{id}/reconcile", func() {
		It("should return the reconciliation report", func() {
			req := httptest.NewRequest(http.MethodGet, "/trainings/1/reconcile", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var report training.ReconciliationReport
			Expect(json.NewDecoder(w.Body).Decode(&report)).To(Succeed())
			Expect(report.TrainingID).To(Equal(int64(1)))
			Expect(report.Consistent).To(BeTrue())
		})
	})
})
