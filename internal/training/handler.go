package training

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/compliance-tracker/internal/transport"
	"github.com/frahmantamala/compliance-tracker/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(dto CreateTrainingDTO) (*Training, error)
	Get(id int64) (*Training, error)
	List(limit, offset int) ([]*Training, error)
	Participants(trainingID int64) ([]int64, error)
	AssignEmployees(trainingID int64, employeeIDs []int64) error
	RemoveParticipant(trainingID, employeeID int64) error
	Complete(ctx context.Context, trainingID int64, dto CompleteTrainingDTO) (*Training, error)
	Reconcile(trainingID int64) (*ReconciliationReport, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateTraining(w http.ResponseWriter, r *http.Request) {
	var dto CreateTrainingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateTraining: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("CreateTraining: service error", "error", err, "name", dto.Name)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateTraining: training created",
		"training_id", t.ID,
		"qualification_id", t.QualificationID)

	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) GetTraining(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	t, err := h.Service.Get(id)
	if err != nil {
		h.Logger.Error("GetTraining: service error", "error", err, "training_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) ListTrainings(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	trainings, err := h.Service.List(limit, offset)
	if err != nil {
		h.Logger.Error("ListTrainings: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	if trainings == nil {
		trainings = []*Training{}
	}

	h.WriteJSON(w, http.StatusOK, trainings)
}

func (h *Handler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	ids, err := h.Service.Participants(id)
	if err != nil {
		h.Logger.Error("GetParticipants: service error", "error", err, "training_id", id)
		h.HandleServiceError(w, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"training_id": id, "employee_ids": ids})
}

func (h *Handler) AssignEmployees(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	var dto AssignEmployeesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AssignEmployees: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(dto.EmployeeIDs) == 0 {
		h.WriteError(w, http.StatusBadRequest, "employee_ids is required")
		return
	}

	if err := h.Service.AssignEmployees(id, dto.EmployeeIDs); err != nil {
		h.Logger.Error("AssignEmployees: service error", "error", err, "training_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "employeeId"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	if err := h.Service.RemoveParticipant(id, employeeID); err != nil {
		h.Logger.Error("RemoveParticipant: service error", "error", err,
			"training_id", id,
			"employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompleteTraining is the HTTP face of the document-upload completion event.
func (h *Handler) CompleteTraining(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	var dto CompleteTrainingDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CompleteTraining: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Complete(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("CompleteTraining: service error", "error", err, "training_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CompleteTraining: training completed",
		"training_id", t.ID,
		"completed_date", t.CompletedDate)

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) ReconcileTraining(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	report, err := h.Service.Reconcile(id)
	if err != nil {
		h.Logger.Error("ReconcileTraining: service error", "error", err, "training_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid training ID")
		return 0, false
	}
	return id, true
}
