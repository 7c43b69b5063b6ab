package catalog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	execMappings     map[int64]*Mapping
	planningMappings map[int64]*Mapping
}

func (s *stubStore) ListEvents(context.Context) ([]Event, error)     { return nil, nil }
func (s *stubStore) ListMappings(context.Context) ([]Mapping, error) { return nil, nil }

func (s *stubStore) MappingForActivity(_ context.Context, activityID int64) (*Mapping, error) {
	return s.execMappings[activityID], nil
}

func (s *stubStore) MappingForPlanningActivity(_ context.Context, activityID int64) (*Mapping, error) {
	return s.planningMappings[activityID], nil
}

func (s *stubStore) EventByCode(context.Context, string) (Event, error) {
	return Event{}, ErrEventNotFound
}

func newTestRouter(store *stubStore) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	NewHandler(logger, store).MountRoutes(r)
	return r
}

func TestGetMappingByActivity(t *testing.T) {
	router := newTestRouter(&stubStore{
		execMappings: map[int64]*Mapping{
			7: {ActivityID: 7, EventID: 3, EventType: EventTypeExpense},
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mappings/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got Mapping
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(3), got.EventID)
	require.Equal(t, EventTypeExpense, got.EventType)
}

func TestGetMappingPlanningSource(t *testing.T) {
	router := newTestRouter(&stubStore{
		execMappings: map[int64]*Mapping{
			7: {ActivityID: 7, EventID: 3, EventType: EventTypeExpense},
		},
		planningMappings: map[int64]*Mapping{
			7: {ActivityID: 7, EventID: 9, EventType: EventTypeRevenue},
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mappings/7?source=planning", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got Mapping
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(9), got.EventID)
}

func TestGetMappingUnmappedActivity(t *testing.T) {
	router := newTestRouter(&stubStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mappings/404", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMappingInvalidID(t *testing.T) {
	router := newTestRouter(&stubStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mappings/abc", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
