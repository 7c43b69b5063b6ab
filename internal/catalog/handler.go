package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aurora-hmis/aurora-hmis/internal/platform/httpx"
)

type catalogStore interface {
	ListEvents(ctx context.Context) ([]Event, error)
	ListMappings(ctx context.Context) ([]Mapping, error)
	MappingForActivity(ctx context.Context, activityID int64) (*Mapping, error)
	MappingForPlanningActivity(ctx context.Context, activityID int64) (*Mapping, error)
	EventByCode(ctx context.Context, code string) (Event, error)
}

// Handler exposes the chart of events read-only.
type Handler struct {
	logger *slog.Logger
	repo   catalogStore
}

// NewHandler constructs handler.
func NewHandler(logger *slog.Logger, repo catalogStore) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/mappings", h.listMappings)
	r.Get("/mappings/{activityId}", h.getMapping)
	r.Get("/{code}", h.get)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	events, err := h.repo.ListEvents(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if events == nil {
		events = []Event{}
	}
	httpx.JSON(w, http.StatusOK, events)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	event, err := h.repo.EventByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, event)
}

func (h *Handler) listMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.repo.ListMappings(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	if mappings == nil {
		mappings = []Mapping{}
	}
	httpx.JSON(w, http.StatusOK, mappings)
}

// getMapping resolves the event mapping for one activity. Execution
// mappings are the default; ?source=planning switches to the planning
// table. Unmapped activities are a 404, not an error.
func (h *Handler) getMapping(w http.ResponseWriter, r *http.Request) {
	activityID, err := strconv.ParseInt(chi.URLParam(r, "activityId"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid activity id")
		return
	}
	lookup := h.repo.MappingForActivity
	if r.URL.Query().Get("source") == "planning" {
		lookup = h.repo.MappingForPlanningActivity
	}
	mapping, err := lookup(r.Context(), activityID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if mapping == nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "activity has no event mapping")
		return
	}
	httpx.JSON(w, http.StatusOK, mapping)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrEventNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "event not found")
		return
	}
	h.logger.Error("catalog request failed", slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
