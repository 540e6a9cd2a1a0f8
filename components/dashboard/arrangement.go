package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tempIDPrefix = "temp-"

const maxIDAttempts = 16

// NewWidgetGrid is the rect given to widgets added from the palette: four
// columns wide, two rows tall and far below existing content.
var NewWidgetGrid = GridRect{X: 0, Y: 999, Width: 4, Height: 2}

// ArrangementOptions configures an Arrangement.
type ArrangementOptions struct {
	DashboardID string
	Logger      *zap.Logger
	NewID       func() string
	Clock       Clock
}

// Arrangement holds the ordered widgets of one dashboard and applies drag,
// add and configure gestures to them. It is not safe for concurrent use.
type Arrangement struct {
	opts    ArrangementOptions
	widgets []Widget
	active  string
}

// NewArrangement builds an empty arrangement.
func NewArrangement(opts ArrangementOptions) *Arrangement {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewID == nil {
		opts.NewID = newTempID
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Arrangement{opts: opts, widgets: []Widget{}}
}

func newTempID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTemporaryID reports whether id was issued client side and still awaits a
// stored id.
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Initialize replaces the held sequence wholesale.
func (a *Arrangement) Initialize(widgets []Widget) {
	a.widgets = cloneWidgets(widgets)
	a.active = ""
}

// Widgets returns a copy of the current sequence.
func (a *Arrangement) Widgets() []Widget {
	return cloneWidgets(a.widgets)
}

// Len reports the number of widgets held.
func (a *Arrangement) Len() int {
	return len(a.widgets)
}

// Order returns the widget ids in sequence order.
func (a *Arrangement) Order() []string {
	ids := make([]string, len(a.widgets))
	for i, w := range a.widgets {
		ids[i] = w.ID
	}
	return ids
}

// Find looks a widget up by id.
func (a *Arrangement) Find(id string) (Widget, bool) {
	idx := a.indexOf(id)
	if idx < 0 {
		return Widget{}, false
	}
	return a.widgets[idx], true
}

// ActiveDrag returns the id of the widget currently being dragged, if any.
func (a *Arrangement) ActiveDrag() string {
	return a.active
}

// BeginDrag records the widget being picked up.
func (a *Arrangement) BeginDrag(activeID string) {
	a.active = activeID
	a.opts.Logger.Debug("drag started", zap.String("active_id", activeID))
}

// CompleteDrag moves the active widget into the slot held by the widget it
// was dropped over. Drops outside a target, onto itself or involving ids that
// are not held leave the sequence unchanged. Grid coordinates are untouched.
func (a *Arrangement) CompleteDrag(activeID, overID string) bool {
	a.active = ""
	log := a.opts.Logger.With(zap.String("active_id", activeID), zap.String("over_id", overID))
	if overID == "" {
		log.Debug("drag ended outside a drop target")
		return false
	}
	if activeID == overID {
		log.Debug("drag ended on its origin")
		return false
	}
	from := a.indexOf(activeID)
	to := a.indexOf(overID)
	if from < 0 || to < 0 {
		log.Warn("drag ignored, widget not found", zap.Int("from", from), zap.Int("to", to))
		return false
	}
	a.widgets = MoveIndex(a.widgets, from, to)
	log.Debug("widget reordered", zap.Int("from", from), zap.Int("to", to))
	return true
}

// AddWidget appends a new widget of the given kind with its default
// configuration and a temporary id.
func (a *Arrangement) AddWidget(kind WidgetKind) (Widget, error) {
	if !kind.Known() {
		return Widget{}, fmt.Errorf("%w: %q", ErrUnknownWidgetKind, kind)
	}
	id, err := a.allocateID()
	if err != nil {
		return Widget{}, err
	}
	now := a.opts.Clock()
	widget := Widget{
		ID:          id,
		DashboardID: a.opts.DashboardID,
		Kind:        kind,
		Grid:        NewWidgetGrid,
		Config:      DefaultConfig(kind),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	a.widgets = append(a.widgets, widget)
	a.opts.Logger.Debug("widget added", zap.String("widget_id", id), zap.String("type", string(kind)))
	return widget, nil
}

func (a *Arrangement) allocateID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := a.opts.NewID()
		if id != "" && a.indexOf(id) < 0 {
			return id, nil
		}
		a.opts.Logger.Warn("temporary widget id collided", zap.String("widget_id", id))
	}
	return "", fmt.Errorf("dashboard: no free widget id after %d attempts", maxIDAttempts)
}

// UpdateConfiguration replaces the configuration of a single widget. It
// reports false when the id is not held.
func (a *Arrangement) UpdateConfiguration(widgetID string, cfg WidgetConfig) (bool, error) {
	if cfg == nil {
		return false, fmt.Errorf("%w: configuration is required", ErrMalformedConfig)
	}
	idx := a.indexOf(widgetID)
	if idx < 0 {
		a.opts.Logger.Warn("configuration update ignored, widget not found", zap.String("widget_id", widgetID))
		return false, nil
	}
	current := a.widgets[idx]
	if cfg.Kind() != current.Kind {
		return false, fmt.Errorf("%w: widget %s is %s, configuration is %s", ErrConfigKindMismatch, widgetID, current.Kind, cfg.Kind())
	}
	current.Config = cfg
	current.UpdatedAt = a.opts.Clock()
	a.widgets[idx] = current
	return true, nil
}

func (a *Arrangement) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, w := range a.widgets {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// MoveIndex returns a copy of items with the element at from moved to to,
// shifting the elements in between by one.
func MoveIndex[T any](items []T, from, to int) []T {
	out := make([]T, len(items))
	copy(out, items)
	if from == to || from < 0 || to < 0 || from >= len(out) || to >= len(out) {
		return out
	}
	item := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = item
	return out
}
