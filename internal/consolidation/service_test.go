package consolidation

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/aurora-hmis/aurora-hmis/internal/statement"
)

type fakeCompiler struct {
	rowsByFacility map[int64][]statement.Row
	allRows        []statement.Row
}

func (f *fakeCompiler) Compile(_ context.Context, _ statement.Code, facilityID *int64, _ int64, _ *int64) ([]statement.Row, error) {
	if facilityID == nil {
		return cloneRows(f.allRows), nil
	}
	return cloneRows(f.rowsByFacility[*facilityID]), nil
}

func cloneRows(rows []statement.Row) []statement.Row {
	out := make([]statement.Row, len(rows))
	copy(out, rows)
	return out
}

type fakeAggStore struct {
	facilities map[string][]int64
	prevPeriod *int64
	sums       map[string]map[int64]decimal.Decimal
}

func (f *fakeAggStore) FacilityIDsByProject(_ context.Context, projectCode string) ([]int64, error) {
	return f.facilities[projectCode], nil
}

func (f *fakeAggStore) PreviousPeriodID(_ context.Context, _ int64) (*int64, error) {
	return f.prevPeriod, nil
}

func (f *fakeAggStore) SumByEventCode(_ context.Context, code string, periodID int64, _ []int64) (decimal.Decimal, error) {
	return f.sums[code][periodID], nil
}

func newTestService(store Store, compiler Compiler) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, compiler, nil, logger)
}

func TestCompileAggregateByProjectSumsFacilities(t *testing.T) {
	store := &fakeAggStore{facilities: map[string][]int64{"MALARIA": {1, 2}}}
	compiler := &fakeCompiler{
		rowsByFacility: map[int64][]statement.Row{
			1: {
				{Description: "Tax revenue", Current: dptr(100), Previous: dptr(90)},
				{Description: "TOTAL", Current: dptr(100), IsTotal: true},
			},
			2: {
				{Description: "Tax revenue", Current: dptr(50), Previous: dptr(45)},
				{Description: "TOTAL", Current: dptr(50), IsTotal: true},
			},
		},
	}
	svc := newTestService(store, compiler)

	rows, err := svc.CompileAggregateByProject(context.Background(), statement.RevExp, 10, "MALARIA")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.True(t, rows[0].Current.Equal(decimal.NewFromInt(150)))
	require.True(t, rows[1].Current.Equal(decimal.NewFromInt(150)))
	// Aggregates carry the current period only.
	require.Nil(t, rows[0].Previous)
}

func TestCompileAggregateByProjectNoFacilities(t *testing.T) {
	svc := newTestService(&fakeAggStore{}, &fakeCompiler{})

	rows, err := svc.CompileAggregateByProject(context.Background(), statement.RevExp, 10, "TB")
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestCompileAggregateByProjectCashFlowDeltas(t *testing.T) {
	prev := int64(9)
	store := &fakeAggStore{
		facilities: map[string][]int64{"MALARIA": {1, 2}},
		prevPeriod: &prev,
		sums: map[string]map[int64]decimal.Decimal{
			"RECEIVABLES": {10: decimal.NewFromInt(1500), 9: decimal.NewFromInt(1000)},
			"PAYABLES":    {10: decimal.NewFromInt(1200), 9: decimal.NewFromInt(800)},
		},
	}
	facilityRows := []statement.Row{
		{Description: "NET CASH FLOWS FROM OPERATING ACTIVITIES", Current: dptr(600), IsTotal: true},
		{Description: "CHANGES IN RECEIVABLES", Current: dptr(-10)},
		{Description: "CHANGES IN PAYABLES", Current: dptr(5)},
	}
	compiler := &fakeCompiler{
		rowsByFacility: map[int64][]statement.Row{
			1: cloneRows(facilityRows),
			2: cloneRows(facilityRows),
		},
	}
	svc := newTestService(store, compiler)

	rows, err := svc.CompileAggregateByProject(context.Background(), statement.CashFlow, 10, "MALARIA")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Deltas come from aggregate balances, overwriting the summed
	// per-facility deltas.
	require.True(t, rows[1].Current.Equal(decimal.NewFromInt(-500)))
	require.True(t, rows[2].Current.Equal(decimal.NewFromInt(400)))
}

func TestCompileAggregateKeepsBudgetColumn(t *testing.T) {
	compiler := &fakeCompiler{
		allRows: []statement.Row{
			{Description: "Transfers from public entities", Current: dptr(150), Previous: dptr(999)},
			{Description: "TOTAL", Current: dptr(150), Previous: dptr(999), IsTotal: true},
		},
	}
	svc := newTestService(&fakeAggStore{}, compiler)

	rows, err := svc.CompileAggregate(context.Background(), statement.BudgetVsActual, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// The second column is the budget, not a prior period; it must survive
	// aggregation.
	require.NotNil(t, rows[0].Previous)
	require.True(t, rows[0].Previous.Equal(decimal.NewFromInt(999)))
}

func TestCompileAggregateByProjectSumsBudgetColumn(t *testing.T) {
	store := &fakeAggStore{facilities: map[string][]int64{"MALARIA": {1, 2}}}
	compiler := &fakeCompiler{
		rowsByFacility: map[int64][]statement.Row{
			1: {{Description: "Tax revenue", Current: dptr(150), Previous: dptr(100)}},
			2: {{Description: "Tax revenue", Current: dptr(60), Previous: dptr(50)}},
		},
	}
	svc := newTestService(store, compiler)

	rows, err := svc.CompileAggregateByProject(context.Background(), statement.BudgetVsActual, 10, "MALARIA")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.True(t, rows[0].Current.Equal(decimal.NewFromInt(210)))
	require.NotNil(t, rows[0].Previous)
	require.True(t, rows[0].Previous.Equal(decimal.NewFromInt(150)))
}

func TestCompileAggregateStripsComparisonColumn(t *testing.T) {
	compiler := &fakeCompiler{
		allRows: []statement.Row{
			{Description: "Tax revenue", Current: dptr(100), Previous: dptr(90)},
		},
	}
	svc := newTestService(&fakeAggStore{}, compiler)

	rows, err := svc.CompileAggregate(context.Background(), statement.RevExp, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Current.Equal(decimal.NewFromInt(100)))
	require.Nil(t, rows[0].Previous)
}
