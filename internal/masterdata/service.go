package masterdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Service exposes masterdata reads and the occasional reference-data create.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs the service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// ListFacilities returns facilities matching the filters.
func (s *Service) ListFacilities(ctx context.Context, filters ListFilters) ([]Facility, error) {
	return s.repo.ListFacilities(ctx, filters)
}

// GetFacility loads one facility.
func (s *Service) GetFacility(ctx context.Context, id int64) (Facility, error) {
	if id <= 0 {
		return Facility{}, errors.New("invalid facility ID")
	}
	return s.repo.GetFacility(ctx, id)
}

// CreateFacility registers a facility.
func (s *Service) CreateFacility(ctx context.Context, input CreateFacilityInput) (Facility, error) {
	if err := s.validate.Struct(input); err != nil {
		return Facility{}, fmt.Errorf("masterdata: validate facility: %w", err)
	}
	return s.repo.CreateFacility(ctx, input)
}

// CreatePeriod registers a reporting period.
func (s *Service) CreatePeriod(ctx context.Context, input CreatePeriodInput) (ReportingPeriod, error) {
	if err := s.validate.Struct(input); err != nil {
		return ReportingPeriod{}, fmt.Errorf("masterdata: validate period: %w", err)
	}
	return s.repo.CreatePeriod(ctx, input)
}

// ListPeriods returns all reporting periods, newest first.
func (s *Service) ListPeriods(ctx context.Context) ([]ReportingPeriod, error) {
	return s.repo.ListPeriods(ctx)
}

// GetPeriod loads one reporting period.
func (s *Service) GetPeriod(ctx context.Context, id int64) (ReportingPeriod, error) {
	if id <= 0 {
		return ReportingPeriod{}, errors.New("invalid period ID")
	}
	return s.repo.GetPeriod(ctx, id)
}
