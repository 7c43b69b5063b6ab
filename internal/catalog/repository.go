package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEventNotFound indicates the requested event code is missing from the chart.
var ErrEventNotFound = errors.New("catalog: event not found")

// Repository provides read access to the chart of events.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListEvents returns the full chart of events ordered by code.
func (r *Repository) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, event_type FROM events ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Code, &ev.EventType); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ListMappings returns the execution activity mappings with the type of the
// mapped event.
func (r *Repository) ListMappings(ctx context.Context) ([]Mapping, error) {
	rows, err := r.pool.Query(ctx, `
SELECT m.activity_id, m.event_id, e.event_type
FROM activity_event_mappings m
JOIN events e ON e.id = m.event_id
ORDER BY m.activity_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var mappings []Mapping
	for rows.Next() {
		var m Mapping
		if err := rows.Scan(&m.ActivityID, &m.EventID, &m.EventType); err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// MappingForActivity resolves the execution mapping for one activity. A
// missing mapping returns (nil, nil); unmapped activities simply do not reach
// the ledger.
func (r *Repository) MappingForActivity(ctx context.Context, activityID int64) (*Mapping, error) {
	return r.mappingFrom(ctx, "activity_event_mappings", activityID)
}

// MappingForPlanningActivity resolves the planning mapping for one activity.
func (r *Repository) MappingForPlanningActivity(ctx context.Context, activityID int64) (*Mapping, error) {
	return r.mappingFrom(ctx, "planning_activity_event_mappings", activityID)
}

func (r *Repository) mappingFrom(ctx context.Context, table string, activityID int64) (*Mapping, error) {
	var m Mapping
	err := r.pool.QueryRow(ctx, `
SELECT m.activity_id, m.event_id, e.event_type
FROM `+table+` m
JOIN events e ON e.id = m.event_id
WHERE m.activity_id = $1`, activityID).
		Scan(&m.ActivityID, &m.EventID, &m.EventType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// EventByCode resolves a chart entry by its stable code.
func (r *Repository) EventByCode(ctx context.Context, code string) (Event, error) {
	var ev Event
	err := r.pool.QueryRow(ctx, `SELECT id, code, event_type FROM events WHERE code = $1`, code).
		Scan(&ev.ID, &ev.Code, &ev.EventType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, err
	}
	return ev, nil
}
