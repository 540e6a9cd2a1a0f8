package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlowLayoutPacksRows(t *testing.T) {
	widgets := []Widget{
		{ID: "a", Grid: GridRect{Width: 4, Height: 2}},
		{ID: "b", Grid: GridRect{Width: 4, Height: 1}},
		{ID: "c", Grid: GridRect{Width: 6, Height: 2}},
		{ID: "d", Grid: GridRect{X: 9, Y: 999, Width: 4, Height: 2}},
		{ID: "e", Grid: GridRect{Width: 20, Height: 1}},
	}
	got := FlowLayout(widgets, GridColumns)
	assert.Equal(t, GridRect{X: 0, Y: 0, Width: 4, Height: 2}, got[0].Grid)
	assert.Equal(t, GridRect{X: 4, Y: 0, Width: 4, Height: 1}, got[1].Grid)
	assert.Equal(t, GridRect{X: 0, Y: 2, Width: 6, Height: 2}, got[2].Grid)
	assert.Equal(t, GridRect{X: 6, Y: 2, Width: 4, Height: 2}, got[3].Grid)
	assert.Equal(t, GridRect{X: 0, Y: 4, Width: 12, Height: 1}, got[4].Grid)
	assert.Equal(t, 999, widgets[3].Grid.Y, "input must not be mutated")
}

func TestFlowLayoutOrderSurvivesReload(t *testing.T) {
	widgets := FlowLayout(sampleWidgets("a", "b", "c", "d", "e"), GridColumns)
	records := make([]WidgetRecord, 0, len(widgets))
	for i := len(widgets) - 1; i >= 0; i-- {
		rec, err := RecordFromWidget(widgets[i])
		assert.NoError(t, err)
		records = append(records, rec)
	}
	SortWidgetRecords(records)
	got := make([]string, len(records))
	for i, rec := range records {
		got[i] = rec.ID
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestGridRectNormalize(t *testing.T) {
	assert.Equal(t, GridRect{X: 0, Y: 0, Width: 1, Height: 1}, GridRect{X: -2, Y: -1}.Normalize())
	assert.Equal(t, GridRect{X: 3, Y: 4, Width: 12, Height: 5}, GridRect{X: 3, Y: 4, Width: 40, Height: 5}.Normalize())
}
