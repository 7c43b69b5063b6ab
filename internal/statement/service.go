package statement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/aurora-hmis/aurora-hmis/internal/catalog"
	"github.com/aurora-hmis/aurora-hmis/internal/ledger"
	"github.com/aurora-hmis/aurora-hmis/internal/observability"
	"github.com/aurora-hmis/aurora-hmis/internal/platform/cache"
)

// Store is the read surface the compiler needs.
type Store interface {
	TemplateLines(ctx context.Context, code Code) ([]TemplateLine, error)
	SumsByEvent(ctx context.Context, eventIDs []int64, periodID int64, facilityID *int64, source ledger.SourceTable) (map[int64]decimal.Decimal, error)
	SumByEventCode(ctx context.Context, code string, periodID int64, facilityID *int64, source ledger.SourceTable) (decimal.Decimal, error)
	PlanningBudgetTotal(ctx context.Context, periodID int64, facilityID *int64) (decimal.Decimal, error)
	EventIDByCode(ctx context.Context, code string) (int64, bool, error)
}

// Service compiles statements from templates and ledger sums.
type Service struct {
	store   Store
	cache   *cache.Cache
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService builds the service. cache may be nil.
func NewService(store Store, reportCache *cache.Cache, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{store: store, cache: reportCache, logger: logger, metrics: metrics}
}

// Compile produces the ordered rows for one statement. facilityID nil means
// aggregate across all facilities; prevPeriodID nil drops the comparison
// column. Results are cached until the next ledger write bumps the cache
// version.
func (s *Service) Compile(ctx context.Context, code Code, facilityID *int64, periodID int64, prevPeriodID *int64) ([]Row, error) {
	key, err := s.cache.BuildKey(ctx, cache.StatementKey(string(code), facilityID, periodID, prevPeriodID)...)
	if err != nil {
		s.logger.Warn("report cache unavailable", slog.Any("error", err))
		return s.compile(ctx, code, facilityID, periodID, prevPeriodID)
	}
	var rows []Row
	err = s.cache.FetchJSON(ctx, key, &rows, func(ctx context.Context) (interface{}, error) {
		return s.compile(ctx, code, facilityID, periodID, prevPeriodID)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) compile(ctx context.Context, code Code, facilityID *int64, periodID int64, prevPeriodID *int64) ([]Row, error) {
	lines, err := s.store.TemplateLines(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("statement: load template %s: %w", code, err)
	}
	if len(lines) == 0 {
		// Unknown or not-yet-seeded statement code.
		return []Row{}, nil
	}
	s.metrics.ObserveCompile(string(code))

	eventIDs := collectEventIDs(lines)
	cur, err := s.store.SumsByEvent(ctx, eventIDs, periodID, facilityID, ledger.SourceExecution)
	if err != nil {
		return nil, fmt.Errorf("statement: load current sums: %w", err)
	}
	var prev amounts
	if prevPeriodID != nil {
		prev, err = s.store.SumsByEvent(ctx, eventIDs, *prevPeriodID, facilityID, ledger.SourceExecution)
		if err != nil {
			return nil, fmt.Errorf("statement: load previous sums: %w", err)
		}
	}

	switch code {
	case RevExp:
		rows := walk(lines, cur, prev, walkOptions{resets: true})
		applyRevExpDerived(rows)
		return rows, nil

	case AssetsLiab:
		rows := walk(lines, cur, prev, walkOptions{resets: true})
		surplus, err := s.surplus(ctx, facilityID, periodID, prevPeriodID)
		if err != nil {
			return nil, err
		}
		applyAssetsLiabDerived(rows, surplus)
		return rows, nil

	case CashFlow:
		wc, err := s.workingCapital(ctx, facilityID, periodID, prevPeriodID)
		if err != nil {
			return nil, err
		}
		rows := walkCashFlow(lines, cur, prev)
		ApplyCashFlowDerived(rows, wc)
		return rows, nil

	case BudgetVsActual:
		budget, err := s.budgetSums(ctx, eventIDs, facilityID, periodID)
		if err != nil {
			return nil, err
		}
		// Two independent accumulator pairs: actuals drive the current
		// column, budgets the previous column.
		return walk(lines, cur, budget, walkOptions{resets: true}), nil

	case NetAssetsChanges:
		rows := walk(lines, cur, prev, walkOptions{resets: false})
		surplus, err := s.surplus(ctx, facilityID, periodID, prevPeriodID)
		if err != nil {
			return nil, err
		}
		applyNetAssetsChangesDerived(rows, lines, surplus)
		return rows, nil

	default:
		return walk(lines, cur, prev, walkOptions{resets: true}), nil
	}
}

// surplus compiles Revenue & Expenditure for the same scope and lifts its
// surplus/deficit row.
func (s *Service) surplus(ctx context.Context, facilityID *int64, periodID int64, prevPeriodID *int64) (surplusValues, error) {
	rows, err := s.compile(ctx, RevExp, facilityID, periodID, prevPeriodID)
	if err != nil {
		return surplusValues{}, fmt.Errorf("statement: compile surplus source: %w", err)
	}
	i := findRow(rows, anchorSurplus)
	if i < 0 {
		// Anchor missing from the template; leave the borrowing line null.
		return surplusValues{}, nil
	}
	return surplusValues{current: rows[i].Current, previous: rows[i].Previous}, nil
}

func (s *Service) workingCapital(ctx context.Context, facilityID *int64, periodID int64, prevPeriodID *int64) (WorkingCapital, error) {
	var wc WorkingCapital
	var err error
	wc.ReceivablesCurrent, err = s.store.SumByEventCode(ctx, catalog.CodeReceivables, periodID, facilityID, ledger.SourceExecution)
	if err != nil {
		return wc, fmt.Errorf("statement: receivables sum: %w", err)
	}
	wc.PayablesCurrent, err = s.store.SumByEventCode(ctx, catalog.CodePayables, periodID, facilityID, ledger.SourceExecution)
	if err != nil {
		return wc, fmt.Errorf("statement: payables sum: %w", err)
	}
	if prevPeriodID == nil {
		return wc, nil
	}
	wc.ReceivablesPrevious, err = s.store.SumByEventCode(ctx, catalog.CodeReceivables, *prevPeriodID, facilityID, ledger.SourceExecution)
	if err != nil {
		return wc, fmt.Errorf("statement: previous receivables sum: %w", err)
	}
	wc.PayablesPrevious, err = s.store.SumByEventCode(ctx, catalog.CodePayables, *prevPeriodID, facilityID, ledger.SourceExecution)
	if err != nil {
		return wc, fmt.Errorf("statement: previous payables sum: %w", err)
	}
	return wc, nil
}

// budgetSums loads the planning-ledger sums for the budget column and applies
// the public-entity transfers override: that event's budget is the grand
// total of planning total_budget, not its per-event ledger sum.
func (s *Service) budgetSums(ctx context.Context, eventIDs []int64, facilityID *int64, periodID int64) (amounts, error) {
	budget, err := s.store.SumsByEvent(ctx, eventIDs, periodID, facilityID, ledger.SourcePlanning)
	if err != nil {
		return nil, fmt.Errorf("statement: load budget sums: %w", err)
	}
	transfersID, ok, err := s.store.EventIDByCode(ctx, catalog.CodeTransfersPublicEntities)
	if err != nil {
		return nil, fmt.Errorf("statement: resolve transfers event: %w", err)
	}
	if ok {
		total, err := s.store.PlanningBudgetTotal(ctx, periodID, facilityID)
		if err != nil {
			return nil, fmt.Errorf("statement: planning budget total: %w", err)
		}
		budget[transfersID] = total
	}
	return budget, nil
}

func collectEventIDs(lines []TemplateLine) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, line := range lines {
		for _, id := range line.EventIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
