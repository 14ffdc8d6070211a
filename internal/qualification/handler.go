package qualification

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/compliance-tracker/internal/directory"
	"github.com/frahmantamala/compliance-tracker/internal/transport"
	"github.com/frahmantamala/compliance-tracker/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(dto CreateQualificationDTO) (*Qualification, error)
	Update(id int64, dto CreateQualificationDTO) (*Qualification, error)
	Get(id int64) (*Qualification, error)
	List() ([]*Qualification, error)
	ListWithoutTrainers() ([]*Qualification, error)
}

// EligibilityAPI resolves the employees eligible for a qualification.
type EligibilityAPI interface {
	ResolveForDepartment(q *Qualification, departmentID *int64) ([]*directory.Employee, error)
}

type Handler struct {
	*transport.BaseHandler
	Service     ServiceAPI
	Eligibility EligibilityAPI
}

func NewHandler(service ServiceAPI, eligibility EligibilityAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		Eligibility: eligibility,
	}
}

func (h *Handler) CreateQualification(w http.ResponseWriter, r *http.Request) {
	var dto CreateQualificationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateQualification: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("CreateQualification: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, q)
}

func (h *Handler) UpdateQualification(w http.ResponseWriter, r *http.Request) {
	id, err := h.parseID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid qualification ID")
		return
	}

	var dto CreateQualificationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateQualification: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("UpdateQualification: service error", "error", err, "qualification_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) GetQualification(w http.ResponseWriter, r *http.Request) {
	id, err := h.parseID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid qualification ID")
		return
	}

	q, err := h.Service.Get(id)
	if err != nil {
		h.Logger.Error("GetQualification: service error", "error", err, "qualification_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) ListQualifications(w http.ResponseWriter, r *http.Request) {
	quals, err := h.Service.List()
	if err != nil {
		h.Logger.Error("ListQualifications: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, quals)
}

func (h *Handler) ListUntrained(w http.ResponseWriter, r *http.Request) {
	quals, err := h.Service.ListWithoutTrainers()
	if err != nil {
		h.Logger.Error("ListUntrained: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, quals)
}

// ListEligible returns the employees eligible for the qualification,
// optionally narrowed to one department. An empty list is a valid result.
func (h *Handler) ListEligible(w http.ResponseWriter, r *http.Request) {
	id, err := h.parseID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid qualification ID")
		return
	}

	q, err := h.Service.Get(id)
	if err != nil {
		h.Logger.Error("ListEligible: service error", "error", err, "qualification_id", id)
		h.HandleServiceError(w, err)
		return
	}

	var departmentID *int64
	if deptStr := r.URL.Query().Get("department_id"); deptStr != "" {
		if dept, err := strconv.ParseInt(deptStr, 10, 64); err == nil {
			departmentID = &dept
		}
	}

	eligible, err := h.Eligibility.ResolveForDepartment(q, departmentID)
	if err != nil {
		h.Logger.Error("ListEligible: eligibility error", "error", err, "qualification_id", id)
		h.HandleServiceError(w, err)
		return
	}
	if eligible == nil {
		eligible = []*directory.Employee{}
	}

	h.WriteJSON(w, http.StatusOK, eligible)
}

func (h *Handler) parseID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}
