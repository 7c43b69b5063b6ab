package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/aurora-hmis/aurora-hmis/internal/catalog"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type execCall struct {
	sql  string
	args []any
}

type fakeQuerier struct {
	row   fakeRow
	execs []execCall
}

func (q *fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (q *fakeQuerier) QueryRow(context.Context, string, ...any) pgx.Row { return q.row }

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.execs = append(q.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func newSyncService() *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(NewRepository(), logger, nil)
}

// Sync must clear the old mirror first and write upserts whose conflict
// clause overwrites amount, direction and project_id, so rows written before
// a project was assigned get repaired on the next sync.
func TestSyncDeletesThenUpsertsWithProjectRepair(t *testing.T) {
	projectID := int64(77)
	q := &fakeQuerier{row: fakeRow{scan: func(dest ...any) error {
		*dest[0].(*int64) = 15
		*dest[1].(*int64) = 7
		*dest[2].(*int64) = 12
		*dest[3].(**int64) = &projectID
		*dest[5].(*decimal.Decimal) = decimal.NewFromInt(100)
		*dest[8].(*int64) = 41
		*dest[9].(*catalog.EventType) = catalog.EventTypeExpense
		return nil
	}}}

	if err := newSyncService().Sync(context.Background(), q, 15, SourcePlanning); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if len(q.execs) != 2 {
		t.Fatalf("expected delete + 1 upsert, got %d statements", len(q.execs))
	}
	if !strings.Contains(q.execs[0].sql, "DELETE FROM financial_events") {
		t.Fatalf("first statement should clear the mirror, got: %s", q.execs[0].sql)
	}

	upsert := q.execs[1]
	if !strings.Contains(upsert.sql, "ON CONFLICT (event_id, reporting_period_id, facility_id, quarter, source_id, source_table)") {
		t.Fatalf("upsert missing natural-key conflict clause: %s", upsert.sql)
	}
	if !strings.Contains(upsert.sql, "project_id = EXCLUDED.project_id") {
		t.Fatalf("conflict clause does not repair project_id: %s", upsert.sql)
	}
	got, ok := upsert.args[5].(*int64)
	if !ok || got == nil || *got != 77 {
		t.Fatalf("project id not carried into upsert args: %+v", upsert.args)
	}
	if dir, _ := upsert.args[2].(string); dir != string(Debit) {
		t.Fatalf("expense event should debit, got %q", dir)
	}
}

func TestSyncMissingSourceIsNoOp(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{scan: func(...any) error { return pgx.ErrNoRows }}}

	if err := newSyncService().Sync(context.Background(), q, 99, SourceExecution); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if len(q.execs) != 0 {
		t.Fatalf("missing source must not touch the ledger, got %d statements", len(q.execs))
	}
}
