package statement

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aurora-hmis/aurora-hmis/internal/ledger"
)

// Repository reads statement templates and ledger sums. Strictly read-only
// over financial_events; the ledger mirror owns all writes.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TemplateLines loads the ordered template for a statement code. An unknown
// code returns an empty slice, not an error.
func (r *Repository) TemplateLines(ctx context.Context, code Code) ([]TemplateLine, error) {
	rows, err := r.pool.Query(ctx, `
SELECT statement_code, line_item, event_ids, display_order, is_total_line, is_subtotal_line
FROM statement_templates
WHERE statement_code = $1
ORDER BY display_order`, string(code))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []TemplateLine
	for rows.Next() {
		var line TemplateLine
		if err := rows.Scan(&line.StatementCode, &line.LineItem, &line.EventIDs,
			&line.DisplayOrder, &line.IsTotalLine, &line.IsSubtotalLine); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// SumsByEvent loads summed ledger amounts grouped by event id. A nil
// facilityID aggregates across all facilities.
func (r *Repository) SumsByEvent(ctx context.Context, eventIDs []int64, periodID int64, facilityID *int64, source ledger.SourceTable) (map[int64]decimal.Decimal, error) {
	if len(eventIDs) == 0 {
		return map[int64]decimal.Decimal{}, nil
	}
	rows, err := r.pool.Query(ctx, `
SELECT event_id, COALESCE(SUM(amount), 0)
FROM financial_events
WHERE reporting_period_id = $1
  AND source_table = $2
  AND event_id = ANY($3)
  AND ($4::bigint IS NULL OR facility_id = $4)
GROUP BY event_id`, periodID, string(source), eventIDs, facilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sums := make(map[int64]decimal.Decimal)
	for rows.Next() {
		var id int64
		var amount decimal.Decimal
		if err := rows.Scan(&id, &amount); err != nil {
			return nil, err
		}
		sums[id] = amount
	}
	return sums, rows.Err()
}

// SumByEventCode sums ledger amounts for one chart-of-events code. Used for
// the cash-flow working-capital deltas.
func (r *Repository) SumByEventCode(ctx context.Context, code string, periodID int64, facilityID *int64, source ledger.SourceTable) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(fe.amount), 0)
FROM financial_events fe
JOIN events e ON e.id = fe.event_id
WHERE e.code = $1
  AND fe.reporting_period_id = $2
  AND fe.source_table = $3
  AND ($4::bigint IS NULL OR fe.facility_id = $4)`,
		code, periodID, string(source), facilityID).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// PlanningBudgetTotal sums total_budget over planning rows. This overrides
// the generic planning-ledger sum for the public-entity transfers event in
// the Budget vs Actual statement.
func (r *Repository) PlanningBudgetTotal(ctx context.Context, periodID int64, facilityID *int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(total_budget), 0)
FROM planning_data
WHERE reporting_period_id = $1
  AND ($2::bigint IS NULL OR facility_id = $2)`, periodID, facilityID).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// EventIDByCode resolves a chart code to its event id. ok=false when the
// chart does not carry the code.
func (r *Repository) EventIDByCode(ctx context.Context, code string) (int64, bool, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM events WHERE code = $1`, code).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}
