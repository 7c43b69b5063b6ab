package planning

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurora-hmis/aurora-hmis/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx wraps the callback in a transaction. The ledger mirror joins the
// same transaction so plan and ledger commit or roll back as one.
func (r *Repository) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return db.WithTx(ctx, r.pool, fn)
}

const selectColumns = `id, activity_id, facility_id, reporting_period_id, project_id,
amount_q1, amount_q2, amount_q3, amount_q4, total_budget, comment, created_at, updated_at`

// GetByID loads one planning line.
func (r *Repository) GetByID(ctx context.Context, id int64) (PlanningData, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM planning_data WHERE id = $1`, id)
	return scanPlanningData(row)
}

// ListByFacilityPeriod returns the plan lines for one facility and period.
func (r *Repository) ListByFacilityPeriod(ctx context.Context, facilityID, periodID int64) ([]PlanningData, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+`
FROM planning_data
WHERE facility_id = $1 AND reporting_period_id = $2
ORDER BY activity_id`, facilityID, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []PlanningData
	for rows.Next() {
		rec, err := scanPlanningData(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// InsertTx creates a planning line inside the caller's transaction.
func (r *Repository) InsertTx(ctx context.Context, tx pgx.Tx, input CreateInput) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
INSERT INTO planning_data
    (activity_id, facility_id, reporting_period_id, project_id,
     amount_q1, amount_q2, amount_q3, amount_q4, total_budget, comment, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
RETURNING id`,
		input.ActivityID, input.FacilityID, input.ReportingPeriodID, input.ProjectID,
		input.AmountQ1, input.AmountQ2, input.AmountQ3, input.AmountQ4,
		input.TotalBudget(), input.Comment).Scan(&id)
	return id, err
}

// UpdateTx rewrites the amounts of a planning line inside the caller's
// transaction.
func (r *Repository) UpdateTx(ctx context.Context, tx pgx.Tx, id int64, input UpdateInput) error {
	tag, err := tx.Exec(ctx, `
UPDATE planning_data
SET project_id = $2, amount_q1 = $3, amount_q2 = $4, amount_q3 = $5, amount_q4 = $6,
    total_budget = $7, comment = $8, updated_at = now()
WHERE id = $1`,
		id, input.ProjectID, input.AmountQ1, input.AmountQ2, input.AmountQ3, input.AmountQ4,
		input.TotalBudget(), input.Comment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTx removes a planning line inside the caller's transaction.
func (r *Repository) DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM planning_data WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPlanningData(row pgx.Row) (PlanningData, error) {
	var rec PlanningData
	err := row.Scan(&rec.ID, &rec.ActivityID, &rec.FacilityID, &rec.ReportingPeriodID, &rec.ProjectID,
		&rec.AmountQ1, &rec.AmountQ2, &rec.AmountQ3, &rec.AmountQ4, &rec.TotalBudget,
		&rec.Comment, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PlanningData{}, ErrNotFound
		}
		return PlanningData{}, err
	}
	return rec, nil
}
