package planning

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	"github.com/aurora-hmis/aurora-hmis/internal/ledger"
	"github.com/aurora-hmis/aurora-hmis/internal/platform/cache"
)

// Syncer mirrors a source row into the ledger on the given transaction.
type Syncer interface {
	Sync(ctx context.Context, q ledger.Querier, sourceID int64, table ledger.SourceTable) error
	Remove(ctx context.Context, q ledger.Querier, sourceID int64, table ledger.SourceTable) error
}

// Service coordinates planning writes with their ledger mirror.
type Service struct {
	repo     *Repository
	syncer   Syncer
	cache    *cache.Cache
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService builds the service.
func NewService(repo *Repository, syncer Syncer, reportCache *cache.Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		syncer:   syncer,
		cache:    reportCache,
		validate: validator.New(),
		logger:   logger,
	}
}

// Create stores a planning line and mirrors it into the ledger in one
// transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (PlanningData, error) {
	if err := s.validate.Struct(input); err != nil {
		return PlanningData{}, fmt.Errorf("planning: validate: %w", err)
	}
	var id int64
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		id, err = s.repo.InsertTx(ctx, tx, input)
		if err != nil {
			return fmt.Errorf("planning: insert: %w", err)
		}
		return s.syncer.Sync(ctx, tx, id, ledger.SourcePlanning)
	})
	if err != nil {
		return PlanningData{}, err
	}
	s.bumpCache(ctx)
	return s.repo.GetByID(ctx, id)
}

// Update rewrites a planning line and re-syncs its ledger mirror in one
// transaction.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (PlanningData, error) {
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.UpdateTx(ctx, tx, id, input); err != nil {
			return err
		}
		return s.syncer.Sync(ctx, tx, id, ledger.SourcePlanning)
	})
	if err != nil {
		return PlanningData{}, err
	}
	s.bumpCache(ctx)
	return s.repo.GetByID(ctx, id)
}

// Delete removes a planning line together with its mirrored ledger rows.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.DeleteTx(ctx, tx, id); err != nil {
			return err
		}
		return s.syncer.Remove(ctx, tx, id, ledger.SourcePlanning)
	})
	if err != nil {
		return err
	}
	s.bumpCache(ctx)
	return nil
}

// Get loads one planning line.
func (s *Service) Get(ctx context.Context, id int64) (PlanningData, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the plan for one facility and period.
func (s *Service) List(ctx context.Context, facilityID, periodID int64) ([]PlanningData, error) {
	return s.repo.ListByFacilityPeriod(ctx, facilityID, periodID)
}

func (s *Service) bumpCache(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("report cache bump failed", slog.Any("error", err))
	}
}
