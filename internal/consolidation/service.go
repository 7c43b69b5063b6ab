package consolidation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/aurora-hmis/aurora-hmis/internal/catalog"
	"github.com/aurora-hmis/aurora-hmis/internal/platform/cache"
	"github.com/aurora-hmis/aurora-hmis/internal/statement"
)

// compileLimit bounds the per-facility fan-out.
const compileLimit = 8

// Compiler compiles one statement for one facility (or all, when nil).
type Compiler interface {
	Compile(ctx context.Context, code statement.Code, facilityID *int64, periodID int64, prevPeriodID *int64) ([]statement.Row, error)
}

// Store is the read surface the aggregation layer needs.
type Store interface {
	FacilityIDsByProject(ctx context.Context, projectCode string) ([]int64, error)
	PreviousPeriodID(ctx context.Context, periodID int64) (*int64, error)
	SumByEventCode(ctx context.Context, code string, periodID int64, facilityIDs []int64) (decimal.Decimal, error)
}

// Service produces multi-facility statement summaries.
type Service struct {
	store    Store
	compiler Compiler
	cache    *cache.Cache
	logger   *slog.Logger
}

// NewService builds the service.
func NewService(store Store, compiler Compiler, reportCache *cache.Cache, logger *slog.Logger) *Service {
	return &Service{store: store, compiler: compiler, cache: reportCache, logger: logger}
}

// CompileAggregate compiles a statement across all facilities for one
// period. The historical comparison column is omitted, with two exceptions:
// Budget vs Actual keeps its budget column (that column is the plan, not a
// prior period) and cash flow keeps its working-capital deltas, which the
// compiler derives from aggregate period-to-period sums.
func (s *Service) CompileAggregate(ctx context.Context, code statement.Code, periodID int64) ([]statement.Row, error) {
	var prevPeriodID *int64
	if code == statement.CashFlow {
		var err error
		prevPeriodID, err = s.store.PreviousPeriodID(ctx, periodID)
		if err != nil {
			return nil, fmt.Errorf("consolidation: resolve previous period: %w", err)
		}
	}
	rows, err := s.compiler.Compile(ctx, code, nil, periodID, prevPeriodID)
	if err != nil {
		return nil, err
	}
	if code != statement.BudgetVsActual {
		stripPrevious(rows)
	}
	return rows, nil
}

// CompileAggregateByProject restricts the aggregate to facilities whose most
// recent planning/execution record carries the project code. Each facility
// is compiled independently and the rows are summed position-wise; the
// shared global template keeps positions aligned.
func (s *Service) CompileAggregateByProject(ctx context.Context, code statement.Code, periodID int64, projectCode string) ([]statement.Row, error) {
	key, err := s.cache.BuildKey(ctx, cache.AggregateKey(string(code), periodID, projectCode)...)
	if err != nil {
		s.logger.Warn("report cache unavailable", slog.Any("error", err))
		return s.compileByProject(ctx, code, periodID, projectCode)
	}
	var rows []statement.Row
	err = s.cache.FetchJSON(ctx, key, &rows, func(ctx context.Context) (interface{}, error) {
		return s.compileByProject(ctx, code, periodID, projectCode)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) compileByProject(ctx context.Context, code statement.Code, periodID int64, projectCode string) ([]statement.Row, error) {
	facilityIDs, err := s.store.FacilityIDsByProject(ctx, projectCode)
	if err != nil {
		return nil, fmt.Errorf("consolidation: resolve facilities for %s: %w", projectCode, err)
	}
	if len(facilityIDs) == 0 {
		return []statement.Row{}, nil
	}

	var prevPeriodID *int64
	if code == statement.CashFlow {
		prevPeriodID, err = s.store.PreviousPeriodID(ctx, periodID)
		if err != nil {
			return nil, fmt.Errorf("consolidation: resolve previous period: %w", err)
		}
	}

	results := make([][]statement.Row, len(facilityIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(compileLimit)
	for i, facilityID := range facilityIDs {
		i, facilityID := i, facilityID
		g.Go(func() error {
			rows, err := s.compiler.Compile(gctx, code, &facilityID, periodID, prevPeriodID)
			if err != nil {
				return fmt.Errorf("consolidation: compile facility %d: %w", facilityID, err)
			}
			// Budget columns sum across facilities; historical columns drop.
			if code != statement.BudgetVsActual {
				stripPrevious(rows)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var agg []statement.Row
	for _, rows := range results {
		agg = sumRows(agg, rows)
	}
	if agg == nil {
		agg = []statement.Row{}
	}

	if code == statement.CashFlow {
		// The deltas must come from aggregate receivable/payable totals,
		// not from summing per-facility deltas.
		wc, err := s.aggregateWorkingCapital(ctx, periodID, prevPeriodID, facilityIDs)
		if err != nil {
			return nil, err
		}
		statement.ApplyCashFlowDerived(agg, wc)
	}
	return agg, nil
}

func (s *Service) aggregateWorkingCapital(ctx context.Context, periodID int64, prevPeriodID *int64, facilityIDs []int64) (statement.WorkingCapital, error) {
	var wc statement.WorkingCapital
	var err error
	wc.ReceivablesCurrent, err = s.store.SumByEventCode(ctx, catalog.CodeReceivables, periodID, facilityIDs)
	if err != nil {
		return wc, fmt.Errorf("consolidation: receivables sum: %w", err)
	}
	wc.PayablesCurrent, err = s.store.SumByEventCode(ctx, catalog.CodePayables, periodID, facilityIDs)
	if err != nil {
		return wc, fmt.Errorf("consolidation: payables sum: %w", err)
	}
	if prevPeriodID == nil {
		return wc, nil
	}
	wc.ReceivablesPrevious, err = s.store.SumByEventCode(ctx, catalog.CodeReceivables, *prevPeriodID, facilityIDs)
	if err != nil {
		return wc, fmt.Errorf("consolidation: previous receivables sum: %w", err)
	}
	wc.PayablesPrevious, err = s.store.SumByEventCode(ctx, catalog.CodePayables, *prevPeriodID, facilityIDs)
	if err != nil {
		return wc, fmt.Errorf("consolidation: previous payables sum: %w", err)
	}
	return wc, nil
}
