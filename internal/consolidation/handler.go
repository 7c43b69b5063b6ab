package consolidation

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aurora-hmis/aurora-hmis/internal/platform/httpx"
	"github.com/aurora-hmis/aurora-hmis/internal/statement"
)

// Handler exposes aggregate statements as JSON.
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
	r.Get("/{code}/aggregate", h.aggregate)
}

func (h *Handler) aggregate(w http.ResponseWriter, r *http.Request) {
	code := statement.Code(chi.URLParam(r, "code"))

	periodID, err := strconv.ParseInt(r.URL.Query().Get("period"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "period is required")
		return
	}

	var rows []statement.Row
	if projectCode := r.URL.Query().Get("project"); projectCode != "" {
		rows, err = h.service.CompileAggregateByProject(r.Context(), code, periodID, projectCode)
	} else {
		rows, err = h.service.CompileAggregate(r.Context(), code, periodID)
	}
	if err != nil {
		h.logger.Error("compile aggregate", slog.String("code", string(code)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
