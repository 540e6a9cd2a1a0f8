package dashboard

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// WorkspaceSnapshot is a point-in-time copy of a workspace.
type WorkspaceSnapshot struct {
	Dashboard  Dashboard  `json:"dashboard"`
	Widgets    []Widget   `json:"widgets"`
	Grid       GridView   `json:"grid"`
	ActiveDrag string     `json:"activeDrag,omitempty"`
	Editor     EditorView `json:"editor"`
}

// Workspace is one user's editing session on one dashboard. Gestures are
// serialized by the workspace mutex and published to the refresh hook.
type Workspace struct {
	mu          sync.Mutex
	service     *Service
	logger      *zap.Logger
	identity    Identity
	dashboard   Dashboard
	arrangement *Arrangement
	editor      *ConfigEditor
}

func newWorkspace(service *Service, identity Identity, view DashboardView) *Workspace {
	logger := service.Logger().With(
		zap.String("dashboard_id", view.Dashboard.ID),
		zap.String("owner_id", identity.OwnerID),
	)
	arrangement := NewArrangement(ArrangementOptions{
		DashboardID: view.Dashboard.ID,
		Logger:      logger,
		Clock:       service.opts.Clock,
	})
	arrangement.Initialize(view.Widgets)
	return &Workspace{
		service:     service,
		logger:      logger,
		identity:    identity,
		dashboard:   view.Dashboard,
		arrangement: arrangement,
		editor:      NewConfigEditor(arrangement, logger),
	}
}

// DashboardID returns the dashboard this workspace edits.
func (w *Workspace) DashboardID() string {
	return w.dashboard.ID
}

// Snapshot copies the workspace state.
func (w *Workspace) Snapshot() WorkspaceSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

func (w *Workspace) snapshot() WorkspaceSnapshot {
	widgets := w.arrangement.Widgets()
	return WorkspaceSnapshot{
		Dashboard:  w.dashboard,
		Widgets:    widgets,
		Grid:       GridViewFor(widgets),
		ActiveDrag: w.arrangement.ActiveDrag(),
		Editor:     w.editor.View(),
	}
}

// BeginDrag records the widget being picked up.
func (w *Workspace) BeginDrag(ctx context.Context, activeID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.arrangement.BeginDrag(activeID)
	w.publish(ctx, WidgetEvent{WidgetID: activeID, Reason: ReasonDragStart})
}

// CompleteDrag resolves a drop and reports whether the order changed.
func (w *Workspace) CompleteDrag(ctx context.Context, activeID, overID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	moved := w.arrangement.CompleteDrag(activeID, overID)
	if moved {
		w.publish(ctx, WidgetEvent{WidgetID: activeID, Order: w.arrangement.Order(), Reason: ReasonReorder})
	}
	return moved
}

// AddWidget appends a widget of kind.
func (w *Workspace) AddWidget(ctx context.Context, kind WidgetKind) (Widget, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	widget, err := w.arrangement.AddWidget(kind)
	if err != nil {
		return Widget{}, err
	}
	w.publish(ctx, WidgetEvent{WidgetID: widget.ID, Reason: ReasonAdd})
	return widget, nil
}

// UpdateConfiguration replaces one widget's configuration outside the editor
// flow, as inline note edits do.
func (w *Workspace) UpdateConfiguration(ctx context.Context, widgetID string, cfg WidgetConfig) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	updated, err := w.arrangement.UpdateConfiguration(widgetID, cfg)
	if err != nil || !updated {
		return updated, err
	}
	w.publish(ctx, WidgetEvent{WidgetID: widgetID, Reason: ReasonConfigureSave})
	return true, nil
}

// UpdateConfigurationJSON decodes raw against the widget's kind and applies
// it. Unknown widget ids are a no-op.
func (w *Workspace) UpdateConfigurationJSON(ctx context.Context, widgetID string, raw json.RawMessage) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	widget, ok := w.arrangement.Find(widgetID)
	if !ok {
		w.logger.Warn("configuration update ignored, widget not found", zap.String("widget_id", widgetID))
		return false, nil
	}
	cfg, err := DecodeConfig(widget.Kind, raw)
	if err != nil {
		return false, err
	}
	if _, err := w.arrangement.UpdateConfiguration(widgetID, cfg); err != nil {
		return false, err
	}
	w.publish(ctx, WidgetEvent{WidgetID: widgetID, Reason: ReasonConfigureSave})
	return true, nil
}

// OpenEditor opens the configuration editor on widgetID.
func (w *Workspace) OpenEditor(ctx context.Context, widgetID string) (EditorView, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	opened := w.editor.Open(widgetID)
	if opened {
		w.publish(ctx, WidgetEvent{WidgetID: widgetID, Reason: ReasonConfigureOpen})
	}
	return w.editor.View(), opened
}

// EditorView returns the current editor view.
func (w *Workspace) EditorView() EditorView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.editor.View()
}

// SaveEditor saves cfg (or the current configuration when nil) and closes
// the editor.
func (w *Workspace) SaveEditor(ctx context.Context, cfg WidgetConfig) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	widgetID := w.editor.WidgetID()
	if err := w.editor.Save(cfg); err != nil {
		return err
	}
	w.publish(ctx, WidgetEvent{WidgetID: widgetID, Reason: ReasonConfigureSave})
	return nil
}

// SaveEditorJSON is SaveEditor for a raw configuration payload. An empty
// payload saves the current configuration.
func (w *Workspace) SaveEditorJSON(ctx context.Context, raw json.RawMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.editor.State() != EditorOpen {
		return ErrEditorClosed
	}
	widgetID := w.editor.WidgetID()
	var cfg WidgetConfig
	if len(raw) > 0 && string(raw) != "null" {
		widget, ok := w.arrangement.Find(widgetID)
		if ok {
			decoded, err := DecodeConfig(widget.Kind, raw)
			if err != nil {
				return err
			}
			cfg = decoded
		}
	}
	if err := w.editor.Save(cfg); err != nil {
		return err
	}
	w.publish(ctx, WidgetEvent{WidgetID: widgetID, Reason: ReasonConfigureSave})
	return nil
}

// CancelEditor closes the editor without changes.
func (w *Workspace) CancelEditor(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	widgetID := w.editor.WidgetID()
	w.editor.Cancel()
	if widgetID != "" {
		w.publish(ctx, WidgetEvent{WidgetID: widgetID, Reason: ReasonConfigureCancel})
	}
}

// Persist writes the arrangement back to the store and re-initializes it
// with the stored widgets.
func (w *Workspace) Persist(ctx context.Context) ([]Widget, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	saved, err := w.service.SaveLayout(ctx, w.identity, w.dashboard.ID, w.arrangement.Widgets())
	if err != nil {
		return nil, err
	}
	w.reset(saved)
	return cloneWidgets(saved), nil
}

func (w *Workspace) reset(widgets []Widget) {
	editing := w.editor.WidgetID()
	w.arrangement.Initialize(widgets)
	if editing != "" {
		if _, ok := w.arrangement.Find(editing); !ok {
			w.editor.Cancel()
		}
	}
}

func (w *Workspace) publish(ctx context.Context, event WidgetEvent) {
	event.DashboardID = w.dashboard.ID
	event.OwnerID = w.identity.OwnerID
	if err := w.service.NotifyWidgetUpdated(ctx, event); err != nil {
		w.logger.Warn("refresh hook failed", zap.String("reason", event.Reason), zap.Error(err))
	}
}

type workspaceKey struct {
	owner     string
	dashboard string
}

// WorkspaceManager keeps one workspace per (owner, dashboard).
type WorkspaceManager struct {
	service    *Service
	mu         sync.RWMutex
	workspaces map[workspaceKey]*Workspace
}

// NewWorkspaceManager builds a manager over service.
func NewWorkspaceManager(service *Service) *WorkspaceManager {
	return &WorkspaceManager{
		service:    service,
		workspaces: make(map[workspaceKey]*Workspace),
	}
}

// Open returns the caller's workspace for dashboardID, loading the dashboard
// the first time.
func (m *WorkspaceManager) Open(ctx context.Context, identity Identity, dashboardID string) (*Workspace, error) {
	if !identity.Valid() {
		return nil, ErrAuthenticationRequired
	}
	key := workspaceKey{owner: identity.OwnerID, dashboard: dashboardID}
	m.mu.RLock()
	ws, ok := m.workspaces[key]
	m.mu.RUnlock()
	if ok {
		return ws, nil
	}
	view, err := m.service.LoadDashboard(ctx, identity, dashboardID)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.workspaces[key]; ok {
		return existing, nil
	}
	ws = newWorkspace(m.service, identity, view)
	m.workspaces[key] = ws
	return ws, nil
}

// Reload re-reads the dashboard from the store and re-initializes the
// caller's workspace with it.
func (m *WorkspaceManager) Reload(ctx context.Context, identity Identity, dashboardID string) (*Workspace, error) {
	ws, err := m.Open(ctx, identity, dashboardID)
	if err != nil {
		return nil, err
	}
	view, err := m.service.LoadDashboard(ctx, identity, dashboardID)
	if err != nil {
		return nil, err
	}
	ws.mu.Lock()
	ws.dashboard = view.Dashboard
	ws.reset(view.Widgets)
	ws.mu.Unlock()
	return ws, nil
}

// Close drops the caller's workspace, discarding unsaved changes.
func (m *WorkspaceManager) Close(identity Identity, dashboardID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workspaces, workspaceKey{owner: identity.OwnerID, dashboard: dashboardID})
}

// Len reports the number of open workspaces.
func (m *WorkspaceManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.workspaces)
}
