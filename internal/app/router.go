package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aurora-hmis/aurora-hmis/internal/catalog"
	"github.com/aurora-hmis/aurora-hmis/internal/consolidation"
	"github.com/aurora-hmis/aurora-hmis/internal/execution"
	"github.com/aurora-hmis/aurora-hmis/internal/masterdata"
	"github.com/aurora-hmis/aurora-hmis/internal/observability"
	"github.com/aurora-hmis/aurora-hmis/internal/planning"
	"github.com/aurora-hmis/aurora-hmis/internal/statement"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger               *slog.Logger
	Config               *Config
	CatalogHandler       *catalog.Handler
	PlanningHandler      *planning.Handler
	ExecutionHandler     *execution.Handler
	MasterDataHandler    *masterdata.Handler
	StatementHandler     *statement.Handler
	ConsolidationHandler *consolidation.Handler
	Metrics              *observability.Metrics
}

// NewRouter constructs the chi.Router with Aurora defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", params.CatalogHandler.MountRoutes)
		r.Route("/planning", params.PlanningHandler.MountRoutes)
		r.Route("/execution", params.ExecutionHandler.MountRoutes)
		r.Route("/facilities", params.MasterDataHandler.MountFacilityRoutes)
		r.Route("/periods", params.MasterDataHandler.MountPeriodRoutes)
		r.Route("/reports", func(r chi.Router) {
			params.StatementHandler.MountRoutes(r)
			params.ConsolidationHandler.MountRoutes(r)
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
