package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aurora-hmis/aurora-hmis/internal/observability"
)

// Service mirrors source rows into the ledger.
type Service struct {
	repo    *Repository
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService builds the service.
func NewService(repo *Repository, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{repo: repo, logger: logger, metrics: metrics}
}

// Sync mirrors one source record into the ledger. It must run on the same
// transaction as the source write; any persistence error propagates so the
// caller rolls back both sides together. A missing row or missing event
// mapping is expected and no-ops.
//
// Strategy is delete-then-insert: a pure upsert cannot express a quarter
// whose amount returned to zero since the last sync.
func (s *Service) Sync(ctx context.Context, q Querier, sourceID int64, table SourceTable) error {
	src, ok, err := s.repo.LoadSource(ctx, q, table, sourceID)
	if err != nil {
		return fmt.Errorf("ledger: load source %s/%d: %w", table, sourceID, err)
	}
	if !ok {
		s.logger.Debug("ledger sync skipped, no source or mapping",
			slog.String("source_table", string(table)),
			slog.Int64("source_id", sourceID))
		s.metrics.ObserveLedgerSync(string(table), "skipped")
		return nil
	}

	if err := s.repo.DeleteBySource(ctx, q, table, sourceID); err != nil {
		return fmt.Errorf("ledger: clear mirrored rows %s/%d: %w", table, sourceID, err)
	}

	entries := buildEntries(src)
	for _, fe := range entries {
		if err := s.repo.Upsert(ctx, q, fe); err != nil {
			return fmt.Errorf("ledger: upsert event %d q%d: %w", fe.EventID, fe.Quarter, err)
		}
	}

	s.logger.Debug("ledger sync complete",
		slog.String("source_table", string(table)),
		slog.Int64("source_id", sourceID),
		slog.Int("rows", len(entries)))
	s.metrics.ObserveLedgerSync(string(table), "synced")
	return nil
}

// Remove drops every ledger row mirrored from a deleted source record. Like
// Sync it participates in the caller's transaction.
func (s *Service) Remove(ctx context.Context, q Querier, sourceID int64, table SourceTable) error {
	if err := s.repo.DeleteBySource(ctx, q, table, sourceID); err != nil {
		return fmt.Errorf("ledger: remove mirrored rows %s/%d: %w", table, sourceID, err)
	}
	s.metrics.ObserveLedgerSync(string(table), "removed")
	return nil
}
