// Package ledger implements the mirror between planning/execution rows and
// the financial-event ledger. Every source row is reflected as at most one
// ledger row per non-zero quarter, keyed so repeated syncs converge.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aurora-hmis/aurora-hmis/internal/catalog"
)

// SourceTable identifies which side of the plan/actual split a ledger row
// mirrors.
type SourceTable string

const (
	// SourceExecution mirrors execution_data rows (actuals).
	SourceExecution SourceTable = "execution_data"
	// SourcePlanning mirrors planning_data rows (budgets).
	SourcePlanning SourceTable = "planning_data"
)

// Direction records which side of the books an amount lands on. Debits and
// credits are recorded, not balanced.
type Direction string

const (
	// Credit is used for revenue-typed events.
	Credit Direction = "CREDIT"
	// Debit is used for everything else.
	Debit Direction = "DEBIT"
)

// FinancialEvent is one quarter-bucketed ledger row. The composite
// (EventID, ReportingPeriodID, FacilityID, Quarter, SourceID, SourceTable)
// is the natural key enforced by the upsert.
type FinancialEvent struct {
	ID                int64
	EventID           int64
	Amount            decimal.Decimal
	Direction         Direction
	ReportingPeriodID int64
	FacilityID        int64
	ProjectID         *int64
	Quarter           int
	SourceTable       SourceTable
	SourceID          int64
	UpdatedAt         time.Time
}

// sourceRow is a planning or execution row joined to its event mapping,
// loaded inside the sync transaction.
type sourceRow struct {
	SourceID          int64
	SourceTable       SourceTable
	FacilityID        int64
	ReportingPeriodID int64
	ProjectID         *int64
	EventID           int64
	EventType         catalog.EventType
	Quarters          [4]decimal.Decimal
}

// buildEntries produces the candidate ledger rows for a source row. Quarters
// with an exactly-zero amount yield no row; revenue-typed events are credited,
// everything else debited.
func buildEntries(src sourceRow) []FinancialEvent {
	direction := Debit
	if src.EventType == catalog.EventTypeRevenue {
		direction = Credit
	}
	var entries []FinancialEvent
	for i, amount := range src.Quarters {
		if amount.IsZero() {
			continue
		}
		entries = append(entries, FinancialEvent{
			EventID:           src.EventID,
			Amount:            amount,
			Direction:         direction,
			ReportingPeriodID: src.ReportingPeriodID,
			FacilityID:        src.FacilityID,
			ProjectID:         src.ProjectID,
			Quarter:           i + 1,
			SourceTable:       src.SourceTable,
			SourceID:          src.SourceID,
		})
	}
	return entries
}
