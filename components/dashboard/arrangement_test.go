package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampleWidgets(ids ...string) []Widget {
	out := make([]Widget, len(ids))
	for i, id := range ids {
		out[i] = Widget{
			ID:     id,
			Kind:   KindNotes,
			Grid:   GridRect{X: i, Y: i, Width: 4, Height: 2},
			Config: NotesConfig{Title: id},
		}
	}
	return out
}

func ids(widgets []Widget) []string {
	out := make([]string, len(widgets))
	for i, w := range widgets {
		out[i] = w.ID
	}
	return out
}

func TestArrangementInitializeCopies(t *testing.T) {
	input := sampleWidgets("a", "b")
	arr := NewArrangement(ArrangementOptions{})
	arr.Initialize(input)
	input[0].ID = "mutated"
	assert.Equal(t, []string{"a", "b"}, arr.Order())

	out := arr.Widgets()
	out[1].ID = "mutated"
	assert.Equal(t, []string{"a", "b"}, arr.Order())
}

func TestCompleteDragMovesSingleElement(t *testing.T) {
	cases := []struct {
		active, over string
		want         []string
	}{
		{"a", "c", []string{"b", "c", "a", "d"}},
		{"d", "a", []string{"d", "a", "b", "c"}},
		{"b", "c", []string{"a", "c", "b", "d"}},
		{"c", "b", []string{"a", "c", "b", "d"}},
		{"a", "d", []string{"b", "c", "d", "a"}},
	}
	for _, tc := range cases {
		t.Run(tc.active+"->"+tc.over, func(t *testing.T) {
			arr := NewArrangement(ArrangementOptions{})
			arr.Initialize(sampleWidgets("a", "b", "c", "d"))
			before := arr.Widgets()
			overIdx := indexOfID(before, tc.over)

			require.True(t, arr.CompleteDrag(tc.active, tc.over))
			after := arr.Widgets()
			assert.Equal(t, tc.want, ids(after))
			assert.Equal(t, tc.active, after[overIdx].ID)
			for _, w := range after {
				orig := before[indexOfID(before, w.ID)]
				assert.Equal(t, orig.Grid, w.Grid, "grid coordinates must not change")
			}
		})
	}
}

func TestCompleteDragPreservesRelativeOrder(t *testing.T) {
	all := []string{"a", "b", "c", "d", "e", "f"}
	for _, active := range all {
		for _, over := range all {
			if active == over {
				continue
			}
			arr := NewArrangement(ArrangementOptions{})
			arr.Initialize(sampleWidgets(all...))
			arr.CompleteDrag(active, over)
			got := arr.Order()
			assert.Equal(t, active, got[indexOfString(all, over)])
			assert.Equal(t, without(all, active), without(got, active), "%s->%s", active, over)
		}
	}
}

func TestCompleteDragNoOps(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	arr := NewArrangement(ArrangementOptions{Logger: zap.New(core)})
	arr.Initialize(sampleWidgets("a", "b", "c"))

	assert.False(t, arr.CompleteDrag("a", ""))
	assert.False(t, arr.CompleteDrag("a", "a"))
	assert.False(t, arr.CompleteDrag("missing", "b"))
	assert.False(t, arr.CompleteDrag("a", "missing"))
	assert.Equal(t, []string{"a", "b", "c"}, arr.Order())
	assert.Equal(t, 2, logs.FilterMessage("drag ignored, widget not found").Len())
}

func TestBeginDragTracksActive(t *testing.T) {
	arr := NewArrangement(ArrangementOptions{})
	arr.Initialize(sampleWidgets("a", "b"))
	arr.BeginDrag("a")
	assert.Equal(t, "a", arr.ActiveDrag())
	assert.Equal(t, []string{"a", "b"}, arr.Order())
	arr.CompleteDrag("a", "")
	assert.Empty(t, arr.ActiveDrag())
}

func TestAddWidgetAppendsWithDefaults(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	arr := NewArrangement(ArrangementOptions{DashboardID: "d1", Clock: func() time.Time { return now }})
	arr.Initialize(sampleWidgets("a"))

	for _, kind := range Kinds() {
		before := arr.Len()
		w, err := arr.AddWidget(kind)
		require.NoError(t, err)
		assert.Equal(t, before+1, arr.Len())
		assert.Equal(t, kind, w.Kind)
		assert.Equal(t, kind, w.Config.Kind())
		assert.Equal(t, NewWidgetGrid, w.Grid)
		assert.Equal(t, "d1", w.DashboardID)
		assert.Equal(t, now, w.CreatedAt)
		assert.True(t, strings.HasPrefix(w.ID, "temp-"))
		assert.True(t, w.Temporary())
		last := arr.Widgets()[arr.Len()-1]
		assert.Equal(t, w.ID, last.ID)
	}

	seen := map[string]bool{}
	for _, id := range arr.Order() {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestAddWidgetRegeneratesCollidingIDs(t *testing.T) {
	calls := 0
	arr := NewArrangement(ArrangementOptions{NewID: func() string {
		calls++
		if calls < 3 {
			return "a"
		}
		return fmt.Sprintf("temp-%d", calls)
	}})
	arr.Initialize(sampleWidgets("a"))
	w, err := arr.AddWidget(KindKPI)
	require.NoError(t, err)
	assert.Equal(t, "temp-3", w.ID)
}

func TestAddWidgetGivesUpOnExhaustedIDs(t *testing.T) {
	arr := NewArrangement(ArrangementOptions{NewID: func() string { return "a" }})
	arr.Initialize(sampleWidgets("a"))
	_, err := arr.AddWidget(KindKPI)
	require.Error(t, err)
	assert.Equal(t, 1, arr.Len())
}

func TestAddWidgetUnknownKind(t *testing.T) {
	arr := NewArrangement(ArrangementOptions{})
	_, err := arr.AddWidget(WidgetKind("Gauge"))
	assert.True(t, errors.Is(err, ErrUnknownWidgetKind))
	assert.Zero(t, arr.Len())
}

func TestUpdateConfigurationTouchesOnlyTarget(t *testing.T) {
	arr := NewArrangement(ArrangementOptions{})
	arr.Initialize(sampleWidgets("a", "b", "c"))
	before := arr.Widgets()

	updated, err := arr.UpdateConfiguration("b", NotesConfig{Title: "changed", Content: "x"})
	require.NoError(t, err)
	require.True(t, updated)

	after := arr.Widgets()
	for i := range after {
		assert.Equal(t, before[i].ID, after[i].ID)
		assert.Equal(t, before[i].Grid, after[i].Grid)
		if after[i].ID == "b" {
			assert.Equal(t, NotesConfig{Title: "changed", Content: "x"}, after[i].Config)
			continue
		}
		assert.Equal(t, before[i], after[i])
	}
}

func TestUpdateConfigurationMissingWidget(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	arr := NewArrangement(ArrangementOptions{Logger: zap.New(core)})
	arr.Initialize(sampleWidgets("a"))
	updated, err := arr.UpdateConfiguration("zzz", NotesConfig{})
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, 1, logs.Len())
}

func TestUpdateConfigurationRejectsMismatch(t *testing.T) {
	arr := NewArrangement(ArrangementOptions{})
	arr.Initialize(sampleWidgets("a"))
	updated, err := arr.UpdateConfiguration("a", KPIConfig{})
	assert.False(t, updated)
	assert.True(t, errors.Is(err, ErrConfigKindMismatch))
	w, _ := arr.Find("a")
	assert.Equal(t, NotesConfig{Title: "a"}, w.Config)
}

func TestMoveIndexOutOfRange(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2, 3}, MoveIndex(items, -1, 2))
	assert.Equal(t, []int{1, 2, 3}, MoveIndex(items, 0, 3))
	assert.Equal(t, []int{2, 3, 1}, MoveIndex(items, 0, 2))
	assert.Equal(t, []int{1, 2, 3}, items)
}

func indexOfID(widgets []Widget, id string) int {
	for i, w := range widgets {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func indexOfString(items []string, v string) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}

func without(items []string, v string) []string {
	out := []string{}
	for _, item := range items {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
