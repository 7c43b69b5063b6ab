// Package masterdata serves the reference entities reports are keyed by,
// health facilities and reporting periods.
package masterdata

import (
	"errors"
	"time"
)

// ErrNotFound indicates the entity is missing.
var ErrNotFound = errors.New("masterdata: not found")

// Facility is a health facility that plans and executes a budget.
type Facility struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	FacilityType string `json:"facilityType"`
	District     string `json:"district"`
}

// ReportingPeriod is a fiscal window statements are compiled for.
type ReportingPeriod struct {
	ID         int64     `json:"id"`
	Year       int       `json:"year"`
	PeriodType string    `json:"periodType"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
}

// ListFilters narrows facility listings.
type ListFilters struct {
	District string
	Search   string
}

// CreateFacilityInput captures a new facility.
type CreateFacilityInput struct {
	Name         string `json:"name" validate:"required"`
	FacilityType string `json:"facilityType" validate:"required"`
	District     string `json:"district" validate:"required"`
}

// CreatePeriodInput captures a new reporting period.
type CreatePeriodInput struct {
	Year       int       `json:"year" validate:"required"`
	PeriodType string    `json:"periodType" validate:"required"`
	StartDate  time.Time `json:"startDate" validate:"required"`
	EndDate    time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
}
