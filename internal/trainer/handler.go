package trainer

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/compliance-tracker/internal/transport"
	"github.com/frahmantamala/compliance-tracker/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	AddTrainer(dto AssignTrainerDTO) (*QualificationTrainer, error)
	RemoveTrainer(employeeID, qualificationID int64) error
	ListTrainersFor(qualificationID int64) ([]*QualificationTrainer, error)
	CanToggleGlobalTrainerFlag(employeeID int64) (bool, error)
	SetGlobalTrainerFlag(employeeID int64, isTrainer bool) error
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

func (h *Handler) AddTrainer(w http.ResponseWriter, r *http.Request) {
	var dto AssignTrainerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("AddTrainer: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.AddTrainer(dto)
	if err != nil {
		h.Logger.Error("AddTrainer: service error", "error", err,
			"employee_id", dto.EmployeeID,
			"qualification_id", dto.QualificationID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) RemoveTrainer(w http.ResponseWriter, r *http.Request) {
	var dto AssignTrainerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RemoveTrainer: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RemoveTrainer(dto.EmployeeID, dto.QualificationID); err != nil {
		h.Logger.Error("RemoveTrainer: service error", "error", err,
			"employee_id", dto.EmployeeID,
			"qualification_id", dto.QualificationID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListTrainersFor(w http.ResponseWriter, r *http.Request) {
	qualificationID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid qualification ID")
		return
	}

	entries, err := h.Service.ListTrainersFor(qualificationID)
	if err != nil {
		h.Logger.Error("ListTrainersFor: service error", "error", err, "qualification_id", qualificationID)
		h.HandleServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []*QualificationTrainer{}
	}

	h.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) CanToggleTrainerFlag(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	ok, err := h.Service.CanToggleGlobalTrainerFlag(employeeID)
	if err != nil {
		h.Logger.Error("CanToggleTrainerFlag: service error", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]bool{"can_toggle": ok})
}

type setTrainerFlagDTO struct {
	IsTrainer bool `json:"is_trainer"`
}

func (h *Handler) SetTrainerFlag(w http.ResponseWriter, r *http.Request) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return
	}

	var dto setTrainerFlagDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SetTrainerFlag: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.SetGlobalTrainerFlag(employeeID, dto.IsTrainer); err != nil {
		h.Logger.Error("SetTrainerFlag: service error", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
