// Package execution records actual quarterly spending per facility activity.
// Writes are mirrored into the ledger within the same transaction; reports
// read actuals exclusively from that mirror.
package execution

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the execution record is missing.
var ErrNotFound = errors.New("execution: not found")

// ExecutionData is one recorded actual for an activity in a reporting period.
type ExecutionData struct {
	ID                int64           `json:"id"`
	ActivityID        int64           `json:"activityId"`
	FacilityID        int64           `json:"facilityId"`
	ReportingPeriodID int64           `json:"reportingPeriodId"`
	ProjectID         *int64          `json:"projectId"`
	Q1Amount          decimal.Decimal `json:"q1Amount"`
	Q2Amount          decimal.Decimal `json:"q2Amount"`
	Q3Amount          decimal.Decimal `json:"q3Amount"`
	Q4Amount          decimal.Decimal `json:"q4Amount"`
	Comment           string          `json:"comment,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// CreateInput captures a new execution record.
type CreateInput struct {
	ActivityID        int64           `json:"activityId" validate:"required"`
	FacilityID        int64           `json:"facilityId" validate:"required"`
	ReportingPeriodID int64           `json:"reportingPeriodId" validate:"required"`
	ProjectID         *int64          `json:"projectId"`
	Q1Amount          decimal.Decimal `json:"q1Amount"`
	Q2Amount          decimal.Decimal `json:"q2Amount"`
	Q3Amount          decimal.Decimal `json:"q3Amount"`
	Q4Amount          decimal.Decimal `json:"q4Amount"`
	Comment           string          `json:"comment"`
}

// UpdateInput captures amount changes to an existing record.
type UpdateInput struct {
	ProjectID *int64          `json:"projectId"`
	Q1Amount  decimal.Decimal `json:"q1Amount"`
	Q2Amount  decimal.Decimal `json:"q2Amount"`
	Q3Amount  decimal.Decimal `json:"q3Amount"`
	Q4Amount  decimal.Decimal `json:"q4Amount"`
	Comment   string          `json:"comment"`
}
