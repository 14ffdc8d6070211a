package ledger

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/compliance-tracker/internal/transport"
	"github.com/frahmantamala/compliance-tracker/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Grant(dto GrantDTO) (*EmployeeQualification, error)
	DeriveStatus(employeeID, qualificationID int64, asOf time.Time) (*StatusDetail, error)
	History(employeeID, qualificationID int64) ([]*EmployeeQualification, error)
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

// Grant records a qualification obtained outside a tracked training.
func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	var dto GrantDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Grant: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.Grant(dto)
	if err != nil {
		h.Logger.Error("Grant: service error", "error", err,
			"employee_id", dto.EmployeeID,
			"qualification_id", dto.QualificationID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	employeeID, qualificationID, ok := h.parsePair(w, r)
	if !ok {
		return
	}

	asOf := time.Now()
	if asOfStr := r.URL.Query().Get("as_of"); asOfStr != "" {
		parsed, err := time.Parse("2006-01-02", asOfStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid as_of date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	detail, err := h.Service.DeriveStatus(employeeID, qualificationID, asOf)
	if err != nil {
		h.Logger.Error("GetStatus: service error", "error", err,
			"employee_id", employeeID,
			"qualification_id", qualificationID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	employeeID, qualificationID, ok := h.parsePair(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.History(employeeID, qualificationID)
	if err != nil {
		h.Logger.Error("GetHistory: service error", "error", err,
			"employee_id", employeeID,
			"qualification_id", qualificationID)
		h.HandleServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []*EmployeeQualification{}
	}

	h.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) parsePair(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	employeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return 0, 0, false
	}
	qualificationID, err := strconv.ParseInt(chi.URLParam(r, "qid"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid qualification ID")
		return 0, 0, false
	}
	return employeeID, qualificationID, true
}
