package sqlstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "dash.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRunsMigrations(t *testing.T) {
	store := openTestStore(t)
	version, err := MigrationVersion(store.DB())
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, RunMigrations(store.DB()), "migrations are idempotent")
}

func TestDashboardsNewestFirstAndOwned(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	older, err := store.CreateDashboard(ctx, dashboard.CreateDashboardInput{Name: "Old", OwnerID: "u1", CreatedAt: base})
	require.NoError(t, err)
	newer, err := store.CreateDashboard(ctx, dashboard.CreateDashboardInput{Name: "New", OwnerID: "u1", CreatedAt: base.Add(150 * time.Millisecond)})
	require.NoError(t, err)
	_, err = store.CreateDashboard(ctx, dashboard.CreateDashboardInput{Name: "Other", OwnerID: "u2", CreatedAt: base})
	require.NoError(t, err)

	list, err := store.ListDashboards(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
	assert.True(t, base.Equal(list[1].CreatedAt))

	got, err := store.GetDashboard(ctx, "u1", older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old", got.Name)

	_, err = store.GetDashboard(ctx, "u2", older.ID)
	assert.ErrorIs(t, err, dashboard.ErrNotFound)

	_, err = store.CreateDashboard(ctx, dashboard.CreateDashboardInput{Name: "Nobody"})
	assert.Error(t, err)
}

func TestReplaceWidgets(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	dash, err := store.CreateDashboard(ctx, dashboard.CreateDashboardInput{Name: "A", OwnerID: "u1"})
	require.NoError(t, err)

	stored, err := store.ReplaceWidgets(ctx, dash.ID, []dashboard.WidgetRecord{
		{ID: "temp-1", Type: "KPI", GridX: 4, GridY: 0, GridWidth: 4, GridHeight: 2, Configuration: json.RawMessage(`{"type":"KPI","title":"Revenue"}`)},
		{ID: "temp-2", Type: "Notes", GridX: 0, GridY: 0, GridWidth: 4, GridHeight: 2},
	})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, rec := range stored {
		assert.False(t, dashboard.IsTemporaryID(rec.ID))
		assert.Equal(t, dash.ID, rec.DashboardID)
	}

	records, err := store.ListWidgetRecords(ctx, dash.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Notes", records[0].Type)
	assert.JSONEq(t, `{}`, string(records[0].Configuration))
	assert.Equal(t, "KPI", records[1].Type)
	assert.JSONEq(t, `{"type":"KPI","title":"Revenue"}`, string(records[1].Configuration))

	stored, err = store.ReplaceWidgets(ctx, dash.ID, []dashboard.WidgetRecord{records[1]})
	require.NoError(t, err)
	assert.Equal(t, records[1].ID, stored[0].ID)
	records, err = store.ListWidgetRecords(ctx, dash.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = store.ReplaceWidgets(ctx, "missing", nil)
	assert.ErrorIs(t, err, dashboard.ErrNotFound)
}

func TestStoreBacksService(t *testing.T) {
	store := openTestStore(t)
	service := dashboard.NewService(dashboard.Options{Store: store})
	identity := dashboard.Identity{OwnerID: "u1", Authenticated: true}
	ctx := context.Background()

	dash, err := dashboard.SeedDashboard(ctx, service, identity)
	require.NoError(t, err)
	view, err := service.LoadDashboard(ctx, identity, dash.ID)
	require.NoError(t, err)
	require.Len(t, view.Widgets, len(dashboard.DefaultSeedWidgets()))
	for i, seed := range dashboard.DefaultSeedWidgets() {
		assert.Equal(t, seed.Kind, view.Widgets[i].Kind)
	}
}
