package consolidation

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository resolves facility sets and aggregate ledger sums.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FacilityIDsByProject returns the facilities whose most recent planning or
// execution record carries the given project code.
func (r *Repository) FacilityIDsByProject(ctx context.Context, projectCode string) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
SELECT latest.facility_id FROM (
    SELECT DISTINCT ON (facility_id) facility_id, project_id
    FROM planning_data
    ORDER BY facility_id, updated_at DESC
) latest
JOIN projects p ON p.id = latest.project_id
WHERE p.code = $1
UNION
SELECT latest.facility_id FROM (
    SELECT DISTINCT ON (facility_id) facility_id, project_id
    FROM execution_data
    ORDER BY facility_id, updated_at DESC
) latest
JOIN projects p ON p.id = latest.project_id
WHERE p.code = $1
ORDER BY 1`, projectCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PreviousPeriodID resolves the reporting period immediately preceding the
// given one, or nil when there is none.
func (r *Repository) PreviousPeriodID(ctx context.Context, periodID int64) (*int64, error) {
	var prev int64
	err := r.pool.QueryRow(ctx, `
SELECT id FROM reporting_periods
WHERE start_date < (SELECT start_date FROM reporting_periods WHERE id = $1)
ORDER BY start_date DESC
LIMIT 1`, periodID).Scan(&prev)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &prev, nil
}

// SumByEventCode sums execution ledger amounts for one chart code across a
// facility set. The aggregate cash-flow working-capital deltas are derived
// from these aggregate sums, never from per-facility deltas.
func (r *Repository) SumByEventCode(ctx context.Context, code string, periodID int64, facilityIDs []int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(fe.amount), 0)
FROM financial_events fe
JOIN events e ON e.id = fe.event_id
WHERE e.code = $1
  AND fe.reporting_period_id = $2
  AND fe.source_table = 'execution_data'
  AND (cardinality($3::bigint[]) = 0 OR fe.facility_id = ANY($3))`,
		code, periodID, facilityIDs).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
