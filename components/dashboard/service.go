package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	createAuthMessage    = "Authentication required."
	createFailureMessage = "Failed to create dashboard. Please try again."
)

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations without touching the
// core package.
type Options struct {
	Store       DashboardStore
	Logger      *zap.Logger
	Telemetry   Telemetry
	RefreshHook RefreshHook
	Clock       Clock
	DefaultName string
}

// Service owns dashboard creation, loading and layout write-back.
type Service struct {
	opts Options
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.DefaultName == "" {
		opts.DefaultName = DefaultDashboardName
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts}
}

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger {
	return s.opts.Logger
}

// CreateDashboardResult is the transport-facing outcome of CreateDashboard.
type CreateDashboardResult struct {
	Success     bool   `json:"success"`
	DashboardID string `json:"dashboardId,omitempty"`
	Error       string `json:"error,omitempty"`
}

// NewCreateDashboardResult converts the CreateDashboard return values into
// the user-facing result.
func NewCreateDashboardResult(dash Dashboard, err error) CreateDashboardResult {
	switch {
	case err == nil:
		return CreateDashboardResult{Success: true, DashboardID: dash.ID}
	case errors.Is(err, ErrAuthenticationRequired):
		return CreateDashboardResult{Error: createAuthMessage}
	default:
		return CreateDashboardResult{Error: createFailureMessage}
	}
}

// CreateDashboard allocates a dashboard with the default name for the caller.
// Callers must be authenticated; nothing is stored otherwise.
func (s *Service) CreateDashboard(ctx context.Context, identity Identity) (Dashboard, error) {
	if !identity.Valid() {
		return Dashboard{}, ErrAuthenticationRequired
	}
	store, err := s.store()
	if err != nil {
		return Dashboard{}, err
	}
	dash, err := store.CreateDashboard(ctx, CreateDashboardInput{
		Name:      s.opts.DefaultName,
		OwnerID:   identity.OwnerID,
		CreatedAt: s.opts.Clock(),
	})
	if err != nil {
		s.opts.Logger.Error("create dashboard failed", zap.String("owner_id", identity.OwnerID), zap.Error(err))
		return Dashboard{}, fmt.Errorf("%w: create dashboard: %w", ErrStorage, err)
	}
	s.recordTelemetry(ctx, "dashboard.create", map[string]any{
		"dashboard_id": dash.ID,
		"owner_id":     dash.OwnerID,
	})
	return dash, nil
}

// ListDashboards returns the caller's dashboards, newest first.
func (s *Service) ListDashboards(ctx context.Context, identity Identity) ([]Dashboard, error) {
	if !identity.Valid() {
		return nil, ErrAuthenticationRequired
	}
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	list, err := store.ListDashboards(ctx, identity.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list dashboards: %w", ErrStorage, err)
	}
	return list, nil
}

// LoadDashboard returns a dashboard owned by the caller with its widgets in
// (gridY, gridX) order. Dashboards owned by someone else are not found.
func (s *Service) LoadDashboard(ctx context.Context, identity Identity, dashboardID string) (DashboardView, error) {
	if !identity.Valid() {
		return DashboardView{}, ErrAuthenticationRequired
	}
	store, err := s.store()
	if err != nil {
		return DashboardView{}, err
	}
	dash, err := s.ownedDashboard(ctx, store, identity, dashboardID)
	if err != nil {
		return DashboardView{}, err
	}
	records, err := store.ListWidgetRecords(ctx, dash.ID)
	if err != nil {
		return DashboardView{}, fmt.Errorf("%w: list widgets: %w", ErrStorage, err)
	}
	widgets := make([]Widget, 0, len(records))
	for _, rec := range records {
		widgets = append(widgets, ParseWidgetRecord(rec, s.opts.Logger))
	}
	s.recordTelemetry(ctx, "dashboard.load", map[string]any{
		"dashboard_id": dash.ID,
		"widgets":      len(widgets),
	})
	return DashboardView{Dashboard: dash, Widgets: widgets}, nil
}

// SaveLayout replaces the dashboard's stored widgets with widgets. Coordinates
// are reflowed from sequence order and temporary ids are swapped for stored
// ones. The stored widgets are returned in their new order.
func (s *Service) SaveLayout(ctx context.Context, identity Identity, dashboardID string, widgets []Widget) ([]Widget, error) {
	if !identity.Valid() {
		return nil, ErrAuthenticationRequired
	}
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	dash, err := s.ownedDashboard(ctx, store, identity, dashboardID)
	if err != nil {
		return nil, err
	}
	flowed := FlowLayout(widgets, GridColumns)
	records := make([]WidgetRecord, 0, len(flowed))
	for _, w := range flowed {
		w.DashboardID = dash.ID
		rec, err := RecordFromWidget(w)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	stored, err := store.ReplaceWidgets(ctx, dash.ID, records)
	if err != nil {
		s.opts.Logger.Error("save layout failed", zap.String("dashboard_id", dash.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: replace widgets: %w", ErrStorage, err)
	}
	SortWidgetRecords(stored)
	saved := make([]Widget, 0, len(stored))
	order := make([]string, 0, len(stored))
	for _, rec := range stored {
		w := ParseWidgetRecord(rec, s.opts.Logger)
		saved = append(saved, w)
		order = append(order, w.ID)
	}
	if err := s.NotifyWidgetUpdated(ctx, WidgetEvent{
		DashboardID: dash.ID,
		OwnerID:     identity.OwnerID,
		Order:       order,
		Reason:      ReasonSave,
	}); err != nil {
		s.opts.Logger.Warn("refresh hook failed", zap.String("dashboard_id", dash.ID), zap.Error(err))
	}
	s.recordTelemetry(ctx, "dashboard.layout.save", map[string]any{
		"dashboard_id": dash.ID,
		"widgets":      len(saved),
	})
	return saved, nil
}

// NotifyWidgetUpdated exposes refresh hook invocation for commands/transports.
func (s *Service) NotifyWidgetUpdated(ctx context.Context, event WidgetEvent) error {
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, event); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.widget.event", map[string]any{
		"dashboard_id": event.DashboardID,
		"widget_id":    event.WidgetID,
		"reason":       event.Reason,
	})
	return nil
}

func (s *Service) ownedDashboard(ctx context.Context, store DashboardStore, identity Identity, dashboardID string) (Dashboard, error) {
	if dashboardID == "" {
		return Dashboard{}, ErrNotFound
	}
	dash, err := store.GetDashboard(ctx, identity.OwnerID, dashboardID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Dashboard{}, ErrNotFound
		}
		return Dashboard{}, fmt.Errorf("%w: get dashboard: %w", ErrStorage, err)
	}
	if dash.OwnerID != identity.OwnerID {
		return Dashboard{}, ErrNotFound
	}
	return dash, nil
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) store() (DashboardStore, error) {
	if s.opts.Store == nil {
		return nil, errMissingStore
	}
	return s.opts.Store, nil
}

type noopRefreshHook struct{}

func (noopRefreshHook) WidgetUpdated(context.Context, WidgetEvent) error {
	return nil
}
