package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by pgx.Tx and *pgxpool.Pool. Sync always runs against
// the caller's transaction so ledger and source commit or roll back together.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository persists financial events. It owns all writes to the ledger.
type Repository struct{}

// NewRepository constructs a repository.
func NewRepository() *Repository {
	return &Repository{}
}

const executionSourceQuery = `
SELECT ed.id, ed.facility_id, ed.reporting_period_id, ed.project_id,
       ed.q1_amount, ed.q2_amount, ed.q3_amount, ed.q4_amount,
       m.event_id, e.event_type
FROM execution_data ed
JOIN activity_event_mappings m ON m.activity_id = ed.activity_id
JOIN events e ON e.id = m.event_id
WHERE ed.id = $1`

const planningSourceQuery = `
SELECT pd.id, pd.facility_id, pd.reporting_period_id, pd.project_id,
       pd.amount_q1, pd.amount_q2, pd.amount_q3, pd.amount_q4,
       m.event_id, e.event_type
FROM planning_data pd
JOIN planning_activity_event_mappings m ON m.activity_id = pd.activity_id
JOIN events e ON e.id = m.event_id
WHERE pd.id = $1`

// LoadSource fetches a source row joined to its event mapping. The inner join
// makes a missing mapping indistinguishable from a missing row; both are a
// sync no-op and reported as ok=false.
func (r *Repository) LoadSource(ctx context.Context, q Querier, table SourceTable, sourceID int64) (sourceRow, bool, error) {
	query := executionSourceQuery
	if table == SourcePlanning {
		query = planningSourceQuery
	}
	var src sourceRow
	src.SourceTable = table
	err := q.QueryRow(ctx, query, sourceID).Scan(
		&src.SourceID, &src.FacilityID, &src.ReportingPeriodID, &src.ProjectID,
		&src.Quarters[0], &src.Quarters[1], &src.Quarters[2], &src.Quarters[3],
		&src.EventID, &src.EventType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sourceRow{}, false, nil
		}
		return sourceRow{}, false, err
	}
	return src, true, nil
}

// DeleteBySource removes every ledger row mirrored from one source record.
// Running this before the insert is what lets a quarter disappear when its
// amount drops to zero between syncs.
func (r *Repository) DeleteBySource(ctx context.Context, q Querier, table SourceTable, sourceID int64) error {
	_, err := q.Exec(ctx,
		`DELETE FROM financial_events WHERE source_table = $1 AND source_id = $2`,
		string(table), sourceID)
	return err
}

const upsertQuery = `
INSERT INTO financial_events
    (event_id, amount, direction, reporting_period_id, facility_id, project_id, quarter, source_table, source_id, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
ON CONFLICT (event_id, reporting_period_id, facility_id, quarter, source_id, source_table)
DO UPDATE SET amount = EXCLUDED.amount,
              direction = EXCLUDED.direction,
              project_id = EXCLUDED.project_id,
              updated_at = now()`

// Upsert writes one ledger row. The conflict clause overwrites amount and
// direction and also repairs project_id on legacy rows that predate the
// project backfill.
func (r *Repository) Upsert(ctx context.Context, q Querier, fe FinancialEvent) error {
	_, err := q.Exec(ctx, upsertQuery,
		fe.EventID, fe.Amount, string(fe.Direction), fe.ReportingPeriodID,
		fe.FacilityID, fe.ProjectID, fe.Quarter, string(fe.SourceTable), fe.SourceID)
	return err
}
