package compositor

import "github.com/lixenwraith/graphina/terminal/tui"

// MinStackRows is the smallest panel height, header included, that keeps
// panels in a single vertical stack
const MinStackRows = 3

// Rect is a screen area in cells
type Rect struct {
	X, Y, W, H int
}

// Layout partitions a w×h screen among n panels
// Panels stack vertically while each gets MinStackRows rows; beyond that
// they flow into a grid with as many rows as fit. Every screen cell belongs
// to exactly one rect.
func Layout(n, w, h int) []Rect {
	if n <= 0 {
		return nil
	}
	screen := tui.NewRegion(nil, w, 0, 0, max(w, 0), max(h, 0))

	var regions []tui.Region
	if h/n >= MinStackRows {
		ratios := make([]float64, n)
		for i := range ratios {
			ratios[i] = 1
		}
		regions = tui.SplitV(screen, ratios...)
	} else {
		rows := max(h/MinStackRows, 1)
		cols := (n + rows - 1) / rows
		regions = tui.Grid(screen, n, cols)
	}

	rects := make([]Rect, len(regions))
	for i, r := range regions {
		rects[i] = Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
	}
	return rects
}
