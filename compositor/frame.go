package compositor

import (
	"github.com/lixenwraith/graphina/terminal"
	"github.com/lixenwraith/graphina/terminal/tui"
)

// Frame is a full-screen grid of cells, row-major
type Frame struct {
	W, H  int
	Cells []terminal.Cell
}

// NewFrame allocates a blank w×h frame
func NewFrame(w, h int) *Frame {
	w, h = max(w, 0), max(h, 0)
	return &Frame{W: w, H: h, Cells: make([]terminal.Cell, w*h)}
}

// Region returns a drawable view over the whole frame
func (f *Frame) Region() tui.Region {
	return tui.NewRegion(f.Cells, f.W, 0, 0, f.W, f.H)
}

// At returns the cell at x, y or a blank cell out of bounds
func (f *Frame) At(x, y int) terminal.Cell {
	if f == nil || x < 0 || x >= f.W || y < 0 || y >= f.H {
		return terminal.Cell{}
	}
	return f.Cells[y*f.W+x]
}

// Diff lists every cell of next that differs from prev, row-major
// A nil prev or one of another size is treated as blank
func Diff(prev, next *Frame) []terminal.CellUpdate {
	if next == nil {
		return nil
	}
	if prev != nil && (prev.W != next.W || prev.H != next.H) {
		prev = nil
	}

	var updates []terminal.CellUpdate
	for y := 0; y < next.H; y++ {
		row := y * next.W
		for x := 0; x < next.W; x++ {
			c := next.Cells[row+x]
			var old terminal.Cell
			if prev != nil {
				old = prev.Cells[row+x]
			}
			if c != old {
				updates = append(updates, terminal.CellUpdate{X: x, Y: y, Cell: c})
			}
		}
	}
	return updates
}
