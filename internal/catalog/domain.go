// Package catalog exposes the chart of events and the activity mappings that
// tie planning/execution activities to the event they affect. Reference data
// only; nothing here is mutated at runtime.
package catalog

// EventType classifies an event on the chart of events.
type EventType string

const (
	// EventTypeRevenue marks events credited by the ledger mirror.
	EventTypeRevenue EventType = "REVENUE"
	// EventTypeExpense marks expenditure events.
	EventTypeExpense EventType = "EXPENSE"
	// EventTypeAsset marks asset events.
	EventTypeAsset EventType = "ASSET"
	// EventTypeLiability marks liability events.
	EventTypeLiability EventType = "LIABILITY"
	// EventTypeEquity marks equity / net-asset events.
	EventTypeEquity EventType = "EQUITY"
)

// Event codes referenced by statement logic.
const (
	CodePayables               = "PAYABLES"
	CodeReceivables            = "RECEIVABLES"
	CodeTransfersPublicEntities = "TRANSFERS_PUBLIC_ENTITIES"
)

// Event is one entry on the chart of events.
type Event struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	EventType EventType `json:"eventType"`
}

// Mapping ties an activity to the event it affects.
type Mapping struct {
	ActivityID int64     `json:"activityId"`
	EventID    int64     `json:"eventId"`
	EventType  EventType `json:"eventType"`
}
