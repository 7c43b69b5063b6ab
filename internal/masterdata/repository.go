package masterdata

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads facilities and reporting periods.
type Repository interface {
	ListFacilities(ctx context.Context, filters ListFilters) ([]Facility, error)
	GetFacility(ctx context.Context, id int64) (Facility, error)
	CreateFacility(ctx context.Context, input CreateFacilityInput) (Facility, error)
	ListPeriods(ctx context.Context) ([]ReportingPeriod, error)
	GetPeriod(ctx context.Context, id int64) (ReportingPeriod, error)
	CreatePeriod(ctx context.Context, input CreatePeriodInput) (ReportingPeriod, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListFacilities(ctx context.Context, filters ListFilters) ([]Facility, error) {
	query := `SELECT id, name, facility_type, district FROM facilities WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.District != "" {
		argCount++
		query += ` AND district = $` + strconv.Itoa(argCount)
		args = append(args, filters.District)
	}
	if filters.Search != "" {
		argCount++
		query += ` AND name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var facilities []Facility
	for rows.Next() {
		var f Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.FacilityType, &f.District); err != nil {
			return nil, err
		}
		facilities = append(facilities, f)
	}
	return facilities, rows.Err()
}

func (r *repository) GetFacility(ctx context.Context, id int64) (Facility, error) {
	var f Facility
	err := r.db.QueryRow(ctx,
		`SELECT id, name, facility_type, district FROM facilities WHERE id = $1`, id).
		Scan(&f.ID, &f.Name, &f.FacilityType, &f.District)
	if errors.Is(err, pgx.ErrNoRows) {
		return Facility{}, ErrNotFound
	}
	return f, err
}

func (r *repository) CreateFacility(ctx context.Context, input CreateFacilityInput) (Facility, error) {
	f := Facility{
		Name:         input.Name,
		FacilityType: input.FacilityType,
		District:     input.District,
	}
	err := r.db.QueryRow(ctx, `
INSERT INTO facilities (name, facility_type, district)
VALUES ($1, $2, $3)
RETURNING id`, input.Name, input.FacilityType, input.District).Scan(&f.ID)
	return f, err
}

func (r *repository) CreatePeriod(ctx context.Context, input CreatePeriodInput) (ReportingPeriod, error) {
	p := ReportingPeriod{
		Year:       input.Year,
		PeriodType: input.PeriodType,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
	}
	err := r.db.QueryRow(ctx, `
INSERT INTO reporting_periods (year, period_type, start_date, end_date)
VALUES ($1, $2, $3, $4)
RETURNING id`, input.Year, input.PeriodType, input.StartDate, input.EndDate).Scan(&p.ID)
	return p, err
}

func (r *repository) ListPeriods(ctx context.Context) ([]ReportingPeriod, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, year, period_type, start_date, end_date
FROM reporting_periods
ORDER BY start_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []ReportingPeriod
	for rows.Next() {
		var p ReportingPeriod
		if err := rows.Scan(&p.ID, &p.Year, &p.PeriodType, &p.StartDate, &p.EndDate); err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (r *repository) GetPeriod(ctx context.Context, id int64) (ReportingPeriod, error) {
	var p ReportingPeriod
	err := r.db.QueryRow(ctx, `
SELECT id, year, period_type, start_date, end_date
FROM reporting_periods WHERE id = $1`, id).
		Scan(&p.ID, &p.Year, &p.PeriodType, &p.StartDate, &p.EndDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return ReportingPeriod{}, ErrNotFound
	}
	return p, err
}
