package masterdata

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aurora-hmis/aurora-hmis/internal/platform/httpx"
)

// Handler wires masterdata read endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountFacilityRoutes registers facility routes.
func (h *Handler) MountFacilityRoutes(r chi.Router) {
	r.Get("/", h.listFacilities)
	r.Post("/", h.createFacility)
	r.Get("/{id}", h.getFacility)
}

// MountPeriodRoutes registers reporting period routes.
func (h *Handler) MountPeriodRoutes(r chi.Router) {
	r.Get("/", h.listPeriods)
	r.Post("/", h.createPeriod)
	r.Get("/{id}", h.getPeriod)
}

func (h *Handler) listFacilities(w http.ResponseWriter, r *http.Request) {
	filters := ListFilters{
		District: r.URL.Query().Get("district"),
		Search:   r.URL.Query().Get("q"),
	}
	facilities, err := h.service.ListFacilities(r.Context(), filters)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if facilities == nil {
		facilities = []Facility{}
	}
	httpx.JSON(w, http.StatusOK, facilities)
}

func (h *Handler) getFacility(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	facility, err := h.service.GetFacility(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, facility)
}

func (h *Handler) createFacility(w http.ResponseWriter, r *http.Request) {
	var input CreateFacilityInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	facility, err := h.service.CreateFacility(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, facility)
}

func (h *Handler) createPeriod(w http.ResponseWriter, r *http.Request) {
	var input CreatePeriodInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	period, err := h.service.CreatePeriod(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, period)
}

func (h *Handler) listPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.service.ListPeriods(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if periods == nil {
		periods = []ReportingPeriod{}
	}
	httpx.JSON(w, http.StatusOK, periods)
}

func (h *Handler) getPeriod(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return
	}
	period, err := h.service.GetPeriod(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, period)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var verr validator.ValidationErrors
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "record not found")
	case errors.As(err, &verr):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", verr.Error())
	default:
		h.logger.Error("masterdata request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
