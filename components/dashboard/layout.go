package dashboard

// FlowLayout assigns grid coordinates from sequence order. Widgets are placed
// left to right and wrap when the row is full; the next row starts below the
// tallest widget of the previous one. Loading the result ordered by
// (gridY, gridX) reproduces the sequence.
func FlowLayout(widgets []Widget, columns int) []Widget {
	if columns <= 0 {
		columns = GridColumns
	}
	out := cloneWidgets(widgets)
	x, y, rowHeight := 0, 0, 0
	for i := range out {
		rect := out[i].Grid.Normalize()
		if rect.Width > columns {
			rect.Width = columns
		}
		if x > 0 && x+rect.Width > columns {
			y += rowHeight
			x, rowHeight = 0, 0
		}
		rect.X, rect.Y = x, y
		x += rect.Width
		if rect.Height > rowHeight {
			rowHeight = rect.Height
		}
		out[i].Grid = rect
	}
	return out
}
