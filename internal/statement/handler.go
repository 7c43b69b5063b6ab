package statement

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aurora-hmis/aurora-hmis/internal/platform/httpx"
)

// Handler exposes compiled statements as JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{code}", h.compile)
}

func (h *Handler) compile(w http.ResponseWriter, r *http.Request) {
	code := Code(chi.URLParam(r, "code"))

	periodID, err := strconv.ParseInt(r.URL.Query().Get("period"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "period is required")
		return
	}
	facilityID := parseOptionalID(r.URL.Query().Get("facility"))
	prevPeriodID := parseOptionalID(r.URL.Query().Get("prevPeriod"))

	rows, err := h.service.Compile(r.Context(), code, facilityID, periodID, prevPeriodID)
	if err != nil {
		h.logger.Error("compile statement", slog.String("code", string(code)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func parseOptionalID(raw string) *int64 {
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
