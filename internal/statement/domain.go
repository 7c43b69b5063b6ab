// Package statement holds the template store and the compiler that turns
// quarter-bucketed ledger sums into ordered financial-statement rows.
package statement

import (
	"github.com/shopspring/decimal"
)

// Code identifies a statement. Stable string enum shared with API callers.
type Code string

const (
	// RevExp is the Revenue & Expenditure statement.
	RevExp Code = "REV_EXP"
	// AssetsLiab is the Assets & Liabilities statement.
	AssetsLiab Code = "ASSETS_LIAB"
	// CashFlow is the Cash Flow statement.
	CashFlow Code = "CASH_FLOW"
	// BudgetVsActual compares planning against execution ledger partitions.
	BudgetVsActual Code = "BUDGET_VS_ACTUAL"
	// NetAssetsChanges is the Changes in Net Assets statement.
	NetAssetsChanges Code = "NET_ASSETS_CHANGES"
)

// TemplateLine is one admin-managed line item of a statement template,
// ordered by DisplayOrder. LineItem acts as the stable key within a
// statement.
type TemplateLine struct {
	StatementCode  Code
	LineItem       string
	EventIDs       []int64
	DisplayOrder   int
	IsTotalLine    bool
	IsSubtotalLine bool
}

// Row is one output row of a compiled statement. Transient; recomputed on
// every request. Note carries the first referenced event id, if any.
type Row struct {
	Description string           `json:"description"`
	Note        *int64           `json:"note"`
	Current     *decimal.Decimal `json:"current"`
	Previous    *decimal.Decimal `json:"previous"`
	IsTotal     bool             `json:"isTotal"`
	IsSubtotal  bool             `json:"isSubtotal"`
}

// amounts maps event id to the summed ledger amount for one period column.
type amounts map[int64]decimal.Decimal

func (a amounts) sum(ids []int64) decimal.Decimal {
	total := decimal.Zero
	for _, id := range ids {
		total = total.Add(a[id])
	}
	return total
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func val(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
