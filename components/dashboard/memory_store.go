package dashboard

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// InMemoryStore is a concurrency-safe DashboardStore for tests and local runs.
type InMemoryStore struct {
	mu         sync.RWMutex
	dashboards map[string]Dashboard
	widgets    map[string][]WidgetRecord
	now        Clock
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		dashboards: make(map[string]Dashboard),
		widgets:    make(map[string][]WidgetRecord),
		now:        time.Now,
	}
}

// CreateDashboard stores a new dashboard record.
func (s *InMemoryStore) CreateDashboard(_ context.Context, input CreateDashboardInput) (Dashboard, error) {
	if input.OwnerID == "" {
		return Dashboard{}, fmt.Errorf("memory store: owner id is required")
	}
	created := input.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	dash := Dashboard{
		ID:        ulid.Make().String(),
		Name:      input.Name,
		OwnerID:   input.OwnerID,
		CreatedAt: created,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboards[dash.ID] = dash
	return dash, nil
}

// ListDashboards returns the owner's dashboards, newest first.
func (s *InMemoryStore) ListDashboards(_ context.Context, ownerID string) ([]Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []Dashboard{}
	for _, dash := range s.dashboards {
		if dash.OwnerID == ownerID {
			out = append(out, dash)
		}
	}
	slices.SortFunc(out, func(a, b Dashboard) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return out, nil
}

// GetDashboard returns the dashboard when it exists and belongs to ownerID.
func (s *InMemoryStore) GetDashboard(_ context.Context, ownerID, dashboardID string) (Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dash, ok := s.dashboards[dashboardID]
	if !ok || dash.OwnerID != ownerID {
		return Dashboard{}, ErrNotFound
	}
	return dash, nil
}

// ListWidgetRecords returns the dashboard's widgets ordered by (gridY, gridX).
func (s *InMemoryStore) ListWidgetRecords(_ context.Context, dashboardID string) ([]WidgetRecord, error) {
	s.mu.RLock()
	records := append([]WidgetRecord{}, s.widgets[dashboardID]...)
	s.mu.RUnlock()
	SortWidgetRecords(records)
	return records, nil
}

// ReplaceWidgets swaps the dashboard's widget set.
func (s *InMemoryStore) ReplaceWidgets(_ context.Context, dashboardID string, records []WidgetRecord) ([]WidgetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dashboards[dashboardID]; !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	stored := make([]WidgetRecord, len(records))
	for i, rec := range records {
		if rec.ID == "" || IsTemporaryID(rec.ID) {
			rec.ID = ulid.Make().String()
		}
		rec.DashboardID = dashboardID
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		if rec.UpdatedAt.IsZero() {
			rec.UpdatedAt = now
		}
		rec.Configuration = append([]byte(nil), rec.Configuration...)
		stored[i] = rec
	}
	s.widgets[dashboardID] = stored
	return append([]WidgetRecord{}, stored...), nil
}

// SortWidgetRecords orders records by (gridY, gridX), keeping ties stable.
func SortWidgetRecords(records []WidgetRecord) {
	slices.SortStableFunc(records, func(a, b WidgetRecord) int {
		if a.GridY != b.GridY {
			return a.GridY - b.GridY
		}
		return a.GridX - b.GridX
	})
}
