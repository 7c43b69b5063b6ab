// Package planning manages quarterly budget plans per facility activity.
// Every write is mirrored into the ledger within the same transaction.
package planning

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the planning record is missing.
var ErrNotFound = errors.New("planning: not found")

// PlanningData is one planned budget line for an activity in a reporting
// period. TotalBudget is maintained as the sum of the four quarters.
type PlanningData struct {
	ID                int64            `json:"id"`
	ActivityID        int64            `json:"activityId"`
	FacilityID        int64            `json:"facilityId"`
	ReportingPeriodID int64            `json:"reportingPeriodId"`
	ProjectID         *int64           `json:"projectId"`
	AmountQ1          decimal.Decimal  `json:"amountQ1"`
	AmountQ2          decimal.Decimal  `json:"amountQ2"`
	AmountQ3          decimal.Decimal  `json:"amountQ3"`
	AmountQ4          decimal.Decimal  `json:"amountQ4"`
	TotalBudget       decimal.Decimal  `json:"totalBudget"`
	Comment           string           `json:"comment,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// CreateInput captures a new planning line.
type CreateInput struct {
	ActivityID        int64           `json:"activityId" validate:"required"`
	FacilityID        int64           `json:"facilityId" validate:"required"`
	ReportingPeriodID int64           `json:"reportingPeriodId" validate:"required"`
	ProjectID         *int64          `json:"projectId"`
	AmountQ1          decimal.Decimal `json:"amountQ1"`
	AmountQ2          decimal.Decimal `json:"amountQ2"`
	AmountQ3          decimal.Decimal `json:"amountQ3"`
	AmountQ4          decimal.Decimal `json:"amountQ4"`
	Comment           string          `json:"comment"`
}

// UpdateInput captures amount changes to an existing line.
type UpdateInput struct {
	ProjectID *int64          `json:"projectId"`
	AmountQ1  decimal.Decimal `json:"amountQ1"`
	AmountQ2  decimal.Decimal `json:"amountQ2"`
	AmountQ3  decimal.Decimal `json:"amountQ3"`
	AmountQ4  decimal.Decimal `json:"amountQ4"`
	Comment   string          `json:"comment"`
}

// TotalBudget sums the planned quarters.
func (in CreateInput) TotalBudget() decimal.Decimal {
	return in.AmountQ1.Add(in.AmountQ2).Add(in.AmountQ3).Add(in.AmountQ4)
}

// TotalBudget sums the planned quarters.
func (in UpdateInput) TotalBudget() decimal.Decimal {
	return in.AmountQ1.Add(in.AmountQ2).Add(in.AmountQ3).Add(in.AmountQ4)
}
