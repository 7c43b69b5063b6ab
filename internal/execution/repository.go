package execution

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
// same transaction so actuals and ledger commit or roll back as one.
func (r *Repository) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return db.WithTx(ctx, r.pool, fn)
}

const selectColumns = `id, activity_id, facility_id, reporting_period_id, project_id,
q1_amount, q2_amount, q3_amount, q4_amount, comment, created_at, updated_at`

// GetByID loads one execution record.
func (r *Repository) GetByID(ctx context.Context, id int64) (ExecutionData, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM execution_data WHERE id = $1`, id)
	return scanExecutionData(row)
}

// ListByFacilityPeriod returns the actuals for one facility and period.
func (r *Repository) ListByFacilityPeriod(ctx context.Context, facilityID, periodID int64) ([]ExecutionData, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+`
FROM execution_data
WHERE facility_id = $1 AND reporting_period_id = $2
ORDER BY activity_id`, facilityID, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []ExecutionData
	for rows.Next() {
		rec, err := scanExecutionData(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// InsertTx creates an execution record inside the caller's transaction.
func (r *Repository) InsertTx(ctx context.Context, tx pgx.Tx, input CreateInput) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
INSERT INTO execution_data
    (activity_id, facility_id, reporting_period_id, project_id,
     q1_amount, q2_amount, q3_amount, q4_amount, comment, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
RETURNING id`,
		input.ActivityID, input.FacilityID, input.ReportingPeriodID, input.ProjectID,
		input.Q1Amount, input.Q2Amount, input.Q3Amount, input.Q4Amount,
		input.Comment).Scan(&id)
	return id, err
}

// UpdateTx rewrites the amounts of an execution record inside the caller's
// transaction.
func (r *Repository) UpdateTx(ctx context.Context, tx pgx.Tx, id int64, input UpdateInput) error {
	tag, err := tx.Exec(ctx, `
UPDATE execution_data
SET project_id = $2, q1_amount = $3, q2_amount = $4, q3_amount = $5, q4_amount = $6,
    comment = $7, updated_at = now()
WHERE id = $1`,
		id, input.ProjectID, input.Q1Amount, input.Q2Amount, input.Q3Amount, input.Q4Amount,
		input.Comment)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTx removes an execution record inside the caller's transaction.
func (r *Repository) DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM execution_data WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanExecutionData(row pgx.Row) (ExecutionData, error) {
	var rec ExecutionData
	err := row.Scan(&rec.ID, &rec.ActivityID, &rec.FacilityID, &rec.ReportingPeriodID, &rec.ProjectID,
		&rec.Q1Amount, &rec.Q2Amount, &rec.Q3Amount, &rec.Q4Amount,
		&rec.Comment, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ExecutionData{}, ErrNotFound
		}
		return ExecutionData{}, err
	}
	return rec, nil
}
