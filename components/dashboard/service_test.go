package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var owner = Identity{OwnerID: "user-1", Authenticated: true}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

type recordingHook struct {
	mu     sync.Mutex
	events []WidgetEvent
	err    error
}

func (r *recordingHook) WidgetUpdated(_ context.Context, event WidgetEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingHook) reasons() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Reason
	}
	return out
}

type failingStore struct {
	*InMemoryStore
	err error
}

func (f failingStore) CreateDashboard(context.Context, CreateDashboardInput) (Dashboard, error) {
	return Dashboard{}, f.err
}

func (f failingStore) ReplaceWidgets(context.Context, string, []WidgetRecord) ([]WidgetRecord, error) {
	return nil, f.err
}

func TestCreateDashboardRequiresAuthentication(t *testing.T) {
	store := NewInMemoryStore()
	service := NewService(Options{Store: store})

	for _, identity := range []Identity{{}, {OwnerID: "user-1"}, {Authenticated: true}} {
		_, err := service.CreateDashboard(context.Background(), identity)
		assert.True(t, errors.Is(err, ErrAuthenticationRequired))
	}
	list, err := store.ListDashboards(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = service.CreateDashboard(context.Background(), Identity{})
	result := NewCreateDashboardResult(Dashboard{}, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Authentication required.", result.Error)
}

func TestCreateDashboardUsesDefaultName(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	telemetry := &recordingTelemetry{}
	service := NewService(Options{
		Store:     NewInMemoryStore(),
		Telemetry: telemetry,
		Clock:     func() time.Time { return now },
	})
	dash, err := service.CreateDashboard(context.Background(), owner)
	require.NoError(t, err)
	assert.NotEmpty(t, dash.ID)
	assert.Equal(t, "My New Dashboard", dash.Name)
	assert.Equal(t, "user-1", dash.OwnerID)
	assert.Equal(t, now, dash.CreatedAt)
	assert.Equal(t, []string{"dashboard.create"}, telemetry.events)

	result := NewCreateDashboardResult(dash, nil)
	assert.Equal(t, CreateDashboardResult{Success: true, DashboardID: dash.ID}, result)
}

func TestCreateDashboardStorageFailure(t *testing.T) {
	service := NewService(Options{Store: failingStore{InMemoryStore: NewInMemoryStore(), err: errors.New("disk full")}})
	_, err := service.CreateDashboard(context.Background(), owner)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))
	assert.False(t, errors.Is(err, ErrAuthenticationRequired))
	assert.Equal(t, "Failed to create dashboard. Please try again.", NewCreateDashboardResult(Dashboard{}, err).Error)
}

func TestServiceWithoutStore(t *testing.T) {
	service := NewService(Options{})
	_, err := service.CreateDashboard(context.Background(), owner)
	assert.True(t, errors.Is(err, errMissingStore))
}

func TestListDashboardsNewestFirst(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	service := NewService(Options{
		Store: NewInMemoryStore(),
		Clock: func() time.Time {
			clock = clock.Add(time.Hour)
			return clock
		},
	})
	first, err := service.CreateDashboard(context.Background(), owner)
	require.NoError(t, err)
	second, err := service.CreateDashboard(context.Background(), owner)
	require.NoError(t, err)
	_, err = service.CreateDashboard(context.Background(), Identity{OwnerID: "user-2", Authenticated: true})
	require.NoError(t, err)

	list, err := service.ListDashboards(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestLoadDashboardOwnershipAndOrder(t *testing.T) {
	store := NewInMemoryStore()
	service := NewService(Options{Store: store})
	dash, err := service.CreateDashboard(context.Background(), owner)
	require.NoError(t, err)

	_, err = store.ReplaceWidgets(context.Background(), dash.ID, []WidgetRecord{
		{ID: "late", Type: "Notes", GridX: 0, GridY: 4, GridWidth: 4, GridHeight: 1, Configuration: json.RawMessage(`{"content":"z"}`)},
		{ID: "right", Type: "KPI", GridX: 6, GridY: 0, GridWidth: 3, GridHeight: 1, Configuration: json.RawMessage(`{"type":"KPI","metricLabel":"Sales"}`)},
		{ID: "left", Type: "Chart", GridX: 0, GridY: 0, GridWidth: 6, GridHeight: 2, Configuration: json.RawMessage(`not-json`)},
	})
	require.NoError(t, err)

	view, err := service.LoadDashboard(context.Background(), owner, dash.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"left", "right", "late"}, ids(view.Widgets))
	assert.Equal(t, FallbackConfig(KindChart), view.Widgets[0].Config)
	assert.Equal(t, "Sales", view.Widgets[1].Config.(KPIConfig).MetricLabel)

	_, err = service.LoadDashboard(context.Background(), Identity{OwnerID: "intruder", Authenticated: true}, dash.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = service.LoadDashboard(context.Background(), owner, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = service.LoadDashboard(context.Background(), Identity{}, dash.ID)
	assert.True(t, errors.Is(err, ErrAuthenticationRequired))
}

func TestSaveLayoutReplacesWidgets(t *testing.T) {
	hook := &recordingHook{}
	store := NewInMemoryStore()
	service := NewService(Options{Store: store, RefreshHook: hook})
	dash, err := service.CreateDashboard(context.Background(), owner)
	require.NoError(t, err)

	arr := NewArrangement(ArrangementOptions{DashboardID: dash.ID})
	first, err := arr.AddWidget(KindKPI)
	require.NoError(t, err)
	_, err = arr.AddWidget(KindNotes)
	require.NoError(t, err)
	_, err = arr.AddWidget(KindChart)
	require.NoError(t, err)
	require.True(t, arr.CompleteDrag(first.ID, arr.Order()[2]))

	saved, err := service.SaveLayout(context.Background(), owner, dash.ID, arr.Widgets())
	require.NoError(t, err)
	require.Len(t, saved, 3)
	assert.Equal(t, []WidgetKind{KindNotes, KindChart, KindKPI}, []WidgetKind{saved[0].Kind, saved[1].Kind, saved[2].Kind})
	for _, w := range saved {
		assert.False(t, w.Temporary(), "temporary id %s should be replaced", w.ID)
		assert.Equal(t, dash.ID, w.DashboardID)
	}
	assert.Equal(t, GridRect{X: 0, Y: 0, Width: 4, Height: 2}, saved[0].Grid)
	assert.Equal(t, GridRect{X: 4, Y: 0, Width: 4, Height: 2}, saved[1].Grid)
	assert.Equal(t, GridRect{X: 8, Y: 0, Width: 4, Height: 2}, saved[2].Grid)
	assert.Equal(t, []string{ReasonSave}, hook.reasons())

	view, err := service.LoadDashboard(context.Background(), owner, dash.ID)
	require.NoError(t, err)
	assert.Equal(t, ids(saved), ids(view.Widgets))

	saved, err = service.SaveLayout(context.Background(), owner, dash.ID, saved[:1])
	require.NoError(t, err)
	assert.Len(t, saved, 1)
	view, err = service.LoadDashboard(context.Background(), owner, dash.ID)
	require.NoError(t, err)
	assert.Len(t, view.Widgets, 1)
}

func TestSaveLayoutRejectsMismatchedConfig(t *testing.T) {
	service := NewService(Options{Store: NewInMemoryStore()})
	dash, err := service.CreateDashboard(context.Background(), owner)
	require.NoError(t, err)
	_, err = service.SaveLayout(context.Background(), owner, dash.ID, []Widget{{ID: "w", Kind: KindKPI, Config: NotesConfig{}}})
	assert.True(t, errors.Is(err, ErrConfigKindMismatch))
}

func TestSaveLayoutStorageFailure(t *testing.T) {
	mem := NewInMemoryStore()
	dash, err := mem.CreateDashboard(context.Background(), CreateDashboardInput{Name: "x", OwnerID: owner.OwnerID})
	require.NoError(t, err)
	service := NewService(Options{Store: failingStore{InMemoryStore: mem, err: errors.New("locked")}})
	_, err = service.SaveLayout(context.Background(), owner, dash.ID, nil)
	assert.True(t, errors.Is(err, ErrStorage))
}

func TestSaveLayoutIgnoresHookFailure(t *testing.T) {
	hook := &recordingHook{err: errors.New("socket closed")}
	service := NewService(Options{Store: NewInMemoryStore(), RefreshHook: hook})
	dash, err := service.CreateDashboard(context.Background(), owner)
	require.NoError(t, err)
	_, err = service.SaveLayout(context.Background(), owner, dash.ID, nil)
	assert.NoError(t, err)
}
