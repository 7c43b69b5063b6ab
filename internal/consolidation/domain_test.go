package consolidation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/aurora-hmis/aurora-hmis/internal/statement"
)

func dptr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestSumRowsPositionWise(t *testing.T) {
	a := []statement.Row{
		{Description: "Tax revenue", Current: dptr(100)},
		{Description: "REVENUE"},
		{Description: "TOTAL", Current: dptr(100), IsTotal: true},
	}
	b := []statement.Row{
		{Description: "Tax revenue", Current: dptr(40)},
		{Description: "REVENUE"},
		{Description: "TOTAL", Current: dptr(40), IsTotal: true},
	}

	agg := sumRows(nil, a)
	agg = sumRows(agg, b)

	require.Len(t, agg, 3)
	require.True(t, agg[0].Current.Equal(decimal.NewFromInt(140)))
	// Separator rows stay null on both sides.
	require.Nil(t, agg[1].Current)
	require.True(t, agg[2].Current.Equal(decimal.NewFromInt(140)))
	require.True(t, agg[2].IsTotal)
}

func TestSumRowsTreatsNilAsZero(t *testing.T) {
	a := []statement.Row{{Description: "Grants"}}
	b := []statement.Row{{Description: "Grants", Current: dptr(25)}}

	agg := sumRows(sumRows(nil, a), b)
	require.True(t, agg[0].Current.Equal(decimal.NewFromInt(25)))
}

func TestSumRowsDoesNotMutateInput(t *testing.T) {
	a := []statement.Row{{Description: "Tax revenue", Current: dptr(10)}}

	agg := sumRows(nil, a)
	agg[0].Current = dptr(99)

	require.True(t, a[0].Current.Equal(decimal.NewFromInt(10)))
}

func TestStripPrevious(t *testing.T) {
	rows := []statement.Row{
		{Description: "Tax revenue", Current: dptr(10), Previous: dptr(7)},
	}
	stripPrevious(rows)
	require.Nil(t, rows[0].Previous)
	require.NotNil(t, rows[0].Current)
}
