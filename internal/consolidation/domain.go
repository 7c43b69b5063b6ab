// Package consolidation compiles statements across facilities. Every
// facility shares one global template per statement code, so rows at the
// same position line up and can be summed directly.
package consolidation

import (
	"github.com/shopspring/decimal"

	"github.com/aurora-hmis/aurora-hmis/internal/statement"
)

// sumRows folds one facility's rows into the accumulator position-wise.
// Descriptions and flags come from the first facility; a nil value on both
// sides stays nil so separator rows survive aggregation.
func sumRows(acc, rows []statement.Row) []statement.Row {
	if acc == nil {
		out := make([]statement.Row, len(rows))
		copy(out, rows)
		return out
	}
	n := len(acc)
	if len(rows) < n {
		n = len(rows)
	}
	for i := 0; i < n; i++ {
		acc[i].Current = addValues(acc[i].Current, rows[i].Current)
		acc[i].Previous = addValues(acc[i].Previous, rows[i].Previous)
	}
	return acc
}

func addValues(a, b *decimal.Decimal) *decimal.Decimal {
	if a == nil && b == nil {
		return nil
	}
	var sum decimal.Decimal
	if a != nil {
		sum = sum.Add(*a)
	}
	if b != nil {
		sum = sum.Add(*b)
	}
	return &sum
}

// stripPrevious clears the historical comparison column; aggregate variants
// report the current period only. Budget vs Actual never passes through here
// (its second column is the plan), and the cash-flow working-capital deltas
// are recomputed from aggregate sums afterwards.
func stripPrevious(rows []statement.Row) {
	for i := range rows {
		rows[i].Previous = nil
	}
}
