package statement

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/aurora-hmis/aurora-hmis/internal/ledger"
)

type fakeStore struct {
	lines       map[Code][]TemplateLine
	execution   map[int64]amounts
	planning    map[int64]amounts
	codeSums    map[string]map[int64]decimal.Decimal
	eventIDs    map[string]int64
	budgetTotal decimal.Decimal
}

func (f *fakeStore) TemplateLines(_ context.Context, code Code) ([]TemplateLine, error) {
	return f.lines[code], nil
}

func (f *fakeStore) SumsByEvent(_ context.Context, eventIDs []int64, periodID int64, _ *int64, source ledger.SourceTable) (map[int64]decimal.Decimal, error) {
	byPeriod := f.execution
	if source == ledger.SourcePlanning {
		byPeriod = f.planning
	}
	sums := make(map[int64]decimal.Decimal)
	for _, id := range eventIDs {
		if v, ok := byPeriod[periodID][id]; ok {
			sums[id] = v
		}
	}
	return sums, nil
}

func (f *fakeStore) SumByEventCode(_ context.Context, code string, periodID int64, _ *int64, _ ledger.SourceTable) (decimal.Decimal, error) {
	return f.codeSums[code][periodID], nil
}

func (f *fakeStore) PlanningBudgetTotal(_ context.Context, _ int64, _ *int64) (decimal.Decimal, error) {
	return f.budgetTotal, nil
}

func (f *fakeStore) EventIDByCode(_ context.Context, code string) (int64, bool, error) {
	id, ok := f.eventIDs[code]
	return id, ok, nil
}

func newTestService(store Store) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, nil, logger, nil)
}

func TestCompileUnknownCodeYieldsEmptyRows(t *testing.T) {
	svc := newTestService(&fakeStore{})

	rows, err := svc.Compile(context.Background(), Code("BOGUS"), nil, 1, nil)
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestCompileRevExpEndToEnd(t *testing.T) {
	store := &fakeStore{
		lines: map[Code][]TemplateLine{
			RevExp: {
				detailLine("Tax revenue", 1),
				detailLine("Grants", 2),
				subtotalLine("TOTAL REVENUE"),
				detailLine("Compensation of employees", 3),
				subtotalLine("TOTAL EXPENSES"),
				{LineItem: "SURPLUS/DEFICIT OF THE PERIOD"},
			},
		},
		execution: map[int64]amounts{
			10: {
				1: decimal.NewFromInt(300000),
				2: decimal.NewFromInt(200000),
				3: decimal.NewFromInt(420000),
			},
		},
	}
	svc := newTestService(store)

	rows, err := svc.Compile(context.Background(), RevExp, nil, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	requireAmount(t, rows[2].Current, 500000)
	requireAmount(t, rows[4].Current, 420000)
	requireAmount(t, rows[5].Current, 80000)
}

func TestCompileBudgetVsActualTransfersOverride(t *testing.T) {
	store := &fakeStore{
		lines: map[Code][]TemplateLine{
			BudgetVsActual: {
				detailLine("Transfers from public entities", 7),
				detailLine("Other revenue", 8),
				totalLine("TOTAL"),
			},
		},
		execution: map[int64]amounts{
			10: {
				7: decimal.NewFromInt(150),
				8: decimal.NewFromInt(60),
			},
		},
		planning: map[int64]amounts{
			10: {
				7: decimal.NewFromInt(100),
				8: decimal.NewFromInt(50),
			},
		},
		eventIDs:    map[string]int64{"TRANSFERS_PUBLIC_ENTITIES": 7},
		budgetTotal: decimal.NewFromInt(999),
	}
	svc := newTestService(store)

	rows, err := svc.Compile(context.Background(), BudgetVsActual, nil, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Actuals fill the current column, budgets the comparison column, and
	// the transfers budget comes from the plan grand total rather than the
	// per-event ledger sum.
	requireAmount(t, rows[0].Current, 150)
	requireAmount(t, rows[0].Previous, 999)
	requireAmount(t, rows[1].Previous, 50)
	requireAmount(t, rows[2].Current, 210)
	requireAmount(t, rows[2].Previous, 1049)
}

func TestCompileNetAssetsChangesBorrowsSurplus(t *testing.T) {
	store := &fakeStore{
		lines: map[Code][]TemplateLine{
			RevExp: {
				detailLine("Tax revenue", 1),
				subtotalLine("TOTAL REVENUE"),
				detailLine("Compensation of employees", 3),
				subtotalLine("TOTAL EXPENSES"),
				{LineItem: "SURPLUS/DEFICIT OF THE PERIOD"},
			},
			NetAssetsChanges: {
				detailLine("Accumulated surpluses", 4),
				{LineItem: "Surplus for the period"},
			},
		},
		execution: map[int64]amounts{
			10: {
				1: decimal.NewFromInt(500),
				3: decimal.NewFromInt(300),
				4: decimal.NewFromInt(900),
			},
		},
	}
	svc := newTestService(store)

	rows, err := svc.Compile(context.Background(), NetAssetsChanges, nil, 10, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	requireAmount(t, rows[0].Current, 900)
	requireAmount(t, rows[1].Current, 200)
}

func TestCompileCashFlowWiresWorkingCapital(t *testing.T) {
	prevPeriod := int64(9)
	store := &fakeStore{
		lines: map[Code][]TemplateLine{
			CashFlow: {
				detailLine("Tax revenue", 1),
				totalLine("NET CASH FLOWS FROM OPERATING ACTIVITIES"),
				{LineItem: "CHANGES IN RECEIVABLES"},
				{LineItem: "CHANGES IN PAYABLES"},
			},
		},
		execution: map[int64]amounts{
			10: {1: decimal.NewFromInt(1000)},
			9:  {1: decimal.NewFromInt(800)},
		},
		codeSums: map[string]map[int64]decimal.Decimal{
			"RECEIVABLES": {10: decimal.NewFromInt(1500), 9: decimal.NewFromInt(1000)},
			"PAYABLES":    {10: decimal.NewFromInt(1200), 9: decimal.NewFromInt(800)},
		},
	}
	svc := newTestService(store)

	rows, err := svc.Compile(context.Background(), CashFlow, nil, 10, &prevPeriod)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	requireAmount(t, rows[1].Current, 1000)
	requireAmount(t, rows[1].Previous, 800)
	requireAmount(t, rows[2].Current, -500)
	requireAmount(t, rows[3].Current, 400)
}
