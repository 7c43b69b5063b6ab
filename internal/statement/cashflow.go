package statement

import (
	"github.com/shopspring/decimal"
)

// WorkingCapital carries the summed receivable/payable balances for the two
// periods. Deltas are computed here, not summed from per-facility deltas, so
// aggregate compiles pass the aggregate sums in directly.
type WorkingCapital struct {
	ReceivablesCurrent  decimal.Decimal
	ReceivablesPrevious decimal.Decimal
	PayablesCurrent     decimal.Decimal
	PayablesPrevious    decimal.Decimal
}

type cashFlowSection int

const (
	sectionOperating cashFlowSection = iota
	sectionInvesting
	sectionFinancing
)

// columnState tracks one period column through the cash-flow walk. The
// operating section accumulates revenue-like and expense-like lines
// separately; investing and financing use the generic register machine.
type columnState struct {
	revenue decimal.Decimal
	expense decimal.Decimal
	regs    registers
}

// walkCashFlow compiles the cash-flow statement. Section boundaries and the
// operating revenue/expense split are keyword matches on line descriptions
// (see anchors.go); the working-capital rows are overwritten afterwards by
// applyCashFlowDerived.
func walkCashFlow(lines []TemplateLine, current, previous amounts) []Row {
	var cur, prev columnState
	hasPrev := previous != nil
	section := sectionOperating

	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		if containsAny(line.LineItem, []string{investingMarker}) {
			section = sectionInvesting
		} else if containsAny(line.LineItem, []string{financingMarker}) {
			section = sectionFinancing
		}

		row := Row{
			Description: line.LineItem,
			IsTotal:     line.IsTotalLine,
			IsSubtotal:  line.IsSubtotalLine,
		}

		row.Current = cur.step(line, section, current)
		if hasPrev {
			row.Previous = prev.step(line, section, previous)
		}
		if len(line.EventIDs) > 0 && !line.IsTotalLine && !line.IsSubtotalLine {
			note := line.EventIDs[0]
			row.Note = &note
		}
		rows = append(rows, row)
	}
	return rows
}

func (c *columnState) step(line TemplateLine, section cashFlowSection, sums amounts) *decimal.Decimal {
	if section == sectionOperating {
		if line.IsTotalLine || line.IsSubtotalLine {
			v := c.revenue.Sub(c.expense)
			if line.IsTotalLine {
				c.revenue = decimal.Zero
				c.expense = decimal.Zero
			}
			return ptr(v)
		}
		if len(line.EventIDs) == 0 {
			return nil
		}
		v := sums.sum(line.EventIDs)
		switch {
		case containsAny(line.LineItem, cashFlowExpenseKeywords):
			c.expense = c.expense.Add(v)
		case containsAny(line.LineItem, cashFlowRevenueKeywords):
			c.revenue = c.revenue.Add(v)
		}
		return ptr(v)
	}

	switch {
	case line.IsTotalLine:
		return ptr(c.regs.drainTotal(true))
	case line.IsSubtotalLine:
		return ptr(c.regs.drainSubtotal(true))
	case len(line.EventIDs) > 0:
		v := sums.sum(line.EventIDs)
		c.regs.add(v)
		return ptr(v)
	default:
		return nil
	}
}

// ApplyCashFlowDerived rewrites the rows that do not come from the template
// walk: the working-capital deltas, the net change line and the ending cash
// line. Sign convention: an increase in receivables consumes cash, an
// increase in payables frees it.
func ApplyCashFlowDerived(rows []Row, wc WorkingCapital) {
	if i := findRow(rows, anchorReceivablesChange); i >= 0 {
		rows[i].Current = ptr(wc.ReceivablesPrevious.Sub(wc.ReceivablesCurrent))
		rows[i].Previous = nil
	}
	if i := findRow(rows, anchorPayablesChange); i >= 0 {
		rows[i].Current = ptr(wc.PayablesCurrent.Sub(wc.PayablesPrevious))
		rows[i].Previous = nil
	}

	netCur, netPrev := sectionSum(rows)
	if i := findRow(rows, anchorNetChange); i >= 0 {
		rows[i].Current = netCur
		rows[i].Previous = netPrev

		if end := findRow(rows, anchorEndingCash); end >= 0 && netCur != nil {
			beginning := rowValue(rows, anchorBeginningCash, current)
			adjustment := rowValue(rows, anchorPriorYearAdjustment, current)
			rows[end].Current = ptr(beginning.Add(*netCur).Add(adjustment))
			if netPrev != nil {
				beginningPrev := rowValue(rows, anchorBeginningCash, previous)
				adjustmentPrev := rowValue(rows, anchorPriorYearAdjustment, previous)
				rows[end].Previous = ptr(beginningPrev.Add(*netPrev).Add(adjustmentPrev))
			}
		}
	}
}

// sectionSum totals the operating, investing and financing total lines per
// column. Nil when no section total is present at all.
func sectionSum(rows []Row) (*decimal.Decimal, *decimal.Decimal) {
	var curSum, prevSum decimal.Decimal
	foundCur, foundPrev := false, false
	for i := range rows {
		if !rows[i].IsTotal {
			continue
		}
		if role := roleOf(rows[i].Description); role == anchorNetChange || role == anchorEndingCash {
			continue
		}
		if rows[i].Current != nil {
			curSum = curSum.Add(*rows[i].Current)
			foundCur = true
		}
		if rows[i].Previous != nil {
			prevSum = prevSum.Add(*rows[i].Previous)
			foundPrev = true
		}
	}
	var cur, prev *decimal.Decimal
	if foundCur {
		cur = ptr(curSum)
	}
	if foundPrev {
		prev = ptr(prevSum)
	}
	return cur, prev
}

type column int

const (
	current column = iota
	previous
)

func rowValue(rows []Row, role anchorRole, col column) decimal.Decimal {
	i := findRow(rows, role)
	if i < 0 {
		return decimal.Zero
	}
	if col == current {
		return val(rows[i].Current)
	}
	return val(rows[i].Previous)
}
