package statement

import (
	"github.com/shopspring/decimal"
)

// registers is the two-register accumulator machine for one period column.
// Detail values feed both registers; a subtotal line drains subtotal only,
// a total line drains and resets both.
type registers struct {
	subtotal   decimal.Decimal
	grandTotal decimal.Decimal
}

func (r *registers) add(v decimal.Decimal) {
	r.subtotal = r.subtotal.Add(v)
	r.grandTotal = r.grandTotal.Add(v)
}

func (r *registers) drainSubtotal(reset bool) decimal.Decimal {
	v := r.subtotal
	if reset {
		r.subtotal = decimal.Zero
	}
	return v
}

func (r *registers) drainTotal(reset bool) decimal.Decimal {
	v := r.grandTotal
	if reset {
		r.subtotal = decimal.Zero
		r.grandTotal = decimal.Zero
	}
	return v
}

type walkOptions struct {
	// resets disables the subtotal/total register resets; Changes in Net
	// Assets walks without them.
	resets bool
}

// walk turns ordered template lines plus per-event sums into output rows.
// Pure function of its inputs; the previous column runs its own register
// pair through the identical reset discipline. A nil previous map means the
// statement has no comparison column and every Previous stays null.
func walk(lines []TemplateLine, current, previous amounts, opts walkOptions) []Row {
	var cur, prev registers
	hasPrev := previous != nil

	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		row := Row{
			Description: line.LineItem,
			IsTotal:     line.IsTotalLine,
			IsSubtotal:  line.IsSubtotalLine,
		}
		switch {
		case line.IsTotalLine:
			row.Current = ptr(cur.drainTotal(opts.resets))
			if hasPrev {
				row.Previous = ptr(prev.drainTotal(opts.resets))
			}
		case line.IsSubtotalLine:
			row.Current = ptr(cur.drainSubtotal(opts.resets))
			if hasPrev {
				row.Previous = ptr(prev.drainSubtotal(opts.resets))
			}
		case len(line.EventIDs) > 0:
			note := line.EventIDs[0]
			row.Note = &note
			v := current.sum(line.EventIDs)
			cur.add(v)
			row.Current = ptr(v)
			if hasPrev {
				pv := previous.sum(line.EventIDs)
				prev.add(pv)
				row.Previous = ptr(pv)
			}
		default:
			// Separator or header row; both columns stay null.
		}
		rows = append(rows, row)
	}
	return rows
}

// applyRevExpDerived fills the surplus/deficit line from the anchored
// revenue and expense totals. Missing anchors leave the line untouched.
func applyRevExpDerived(rows []Row) {
	surplus := findRow(rows, anchorSurplus)
	revenue := findRow(rows, anchorTotalRevenue)
	expenses := findRow(rows, anchorTotalExpenses)
	if surplus < 0 || revenue < 0 || expenses < 0 {
		return
	}
	rows[surplus].Current = derivedSub(rows[revenue].Current, rows[expenses].Current)
	rows[surplus].Previous = derivedSub(rows[revenue].Previous, rows[expenses].Previous)
}

// surplusValues captures the Revenue & Expenditure result carried into other
// statements.
type surplusValues struct {
	current  *decimal.Decimal
	previous *decimal.Decimal
}

// applyAssetsLiabDerived computes the balance-sheet identities:
// Total assets (A) = current + non-current assets, Total liabilities (B)
// analogously, Net assets = A - B, Total Net Assets = Net assets. The period
// surplus line is pulled from a Revenue & Expenditure compile, never
// recomputed locally.
func applyAssetsLiabDerived(rows []Row, surplus surplusValues) {
	if i := findRow(rows, anchorTotalAssets); i >= 0 {
		tca := findRow(rows, anchorTotalCurrentAssets)
		tnca := findRow(rows, anchorTotalNonCurrentAssets)
		if tca >= 0 && tnca >= 0 {
			rows[i].Current = derivedAdd(rows[tca].Current, rows[tnca].Current)
			rows[i].Previous = derivedAdd(rows[tca].Previous, rows[tnca].Previous)
		}
	}
	if i := findRow(rows, anchorTotalLiabilities); i >= 0 {
		tcl := findRow(rows, anchorTotalCurrentLiabilities)
		tncl := findRow(rows, anchorTotalNonCurrentLiabilities)
		if tcl >= 0 && tncl >= 0 {
			rows[i].Current = derivedAdd(rows[tcl].Current, rows[tncl].Current)
			rows[i].Previous = derivedAdd(rows[tcl].Previous, rows[tncl].Previous)
		}
	}
	assets := findRow(rows, anchorTotalAssets)
	liabilities := findRow(rows, anchorTotalLiabilities)
	if net := findRow(rows, anchorNetAssets); net >= 0 && assets >= 0 && liabilities >= 0 {
		rows[net].Current = derivedSub(rows[assets].Current, rows[liabilities].Current)
		rows[net].Previous = derivedSub(rows[assets].Previous, rows[liabilities].Previous)
		if total := findRow(rows, anchorTotalNetAssets); total >= 0 {
			rows[total].Current = rows[net].Current
			rows[total].Previous = rows[net].Previous
		}
	}
	if i := findRow(rows, anchorSurplus); i >= 0 {
		rows[i].Current = surplus.current
		rows[i].Previous = surplus.previous
	}
}

// applyNetAssetsChangesDerived borrows the period surplus for lines that
// mention it but map no events of their own.
func applyNetAssetsChangesDerived(rows []Row, lines []TemplateLine, surplus surplusValues) {
	for i := range rows {
		if i >= len(lines) || len(lines[i].EventIDs) > 0 {
			continue
		}
		if roleOf(rows[i].Description) != anchorSurplus {
			continue
		}
		rows[i].Current = surplus.current
		rows[i].Previous = surplus.previous
	}
}

func derivedAdd(a, b *decimal.Decimal) *decimal.Decimal {
	if a == nil && b == nil {
		return nil
	}
	return ptr(val(a).Add(val(b)))
}

func derivedSub(a, b *decimal.Decimal) *decimal.Decimal {
	if a == nil && b == nil {
		return nil
	}
	return ptr(val(a).Sub(val(b)))
}
