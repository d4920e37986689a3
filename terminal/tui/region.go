package tui

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/graphina/terminal"
)

// Region represents a rectangular area within a cell buffer
// All coordinates are relative to the region's origin
type Region struct {
	Cells  []terminal.Cell
	TotalW int // Total width of the underlying cell buffer
	X, Y   int // Absolute position in cell buffer
	W, H   int // Region dimensions
}

// NewRegion creates a region referencing a cell slice with bounds
func NewRegion(cells []terminal.Cell, totalW, x, y, w, h int) Region {
	return Region{
		Cells:  cells,
		TotalW: totalW,
		X:      x,
		Y:      y,
		W:      w,
		H:      h,
	}
}

// Sub returns a nested region with coordinates relative to parent, result is clipped to parent bounds
func (r Region) Sub(x, y, w, h int) Region {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > r.W {
		w = r.W - x
	}
	if y+h > r.H {
		h = r.H - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	return Region{
		Cells:  r.Cells,
		TotalW: r.TotalW,
		X:      r.X + x,
		Y:      r.Y + y,
		W:      w,
		H:      h,
	}
}

// Cell sets a single cell with bounds checking
func (r Region) Cell(x, y int, ch rune, fg, bg terminal.RGB, attr terminal.Attr) {
	if x < 0 || x >= r.W || y < 0 || y >= r.H {
		return
	}
	absX := r.X + x
	absY := r.Y + y

	if uint(absX) >= uint(r.TotalW) {
		return
	}

	idx := absY*r.TotalW + absX
	if uint(idx) < uint(len(r.Cells)) {
		r.Cells[idx] = terminal.Cell{Rune: ch, Fg: fg, Bg: bg, Attrs: attr}
	}
}

// Get returns the cell at region-relative coordinates, zero cell when out of bounds
func (r Region) Get(x, y int) terminal.Cell {
	if x < 0 || x >= r.W || y < 0 || y >= r.H {
		return terminal.Cell{}
	}
	idx := (r.Y+y)*r.TotalW + r.X + x
	if uint(idx) >= uint(len(r.Cells)) {
		return terminal.Cell{}
	}
	return r.Cells[idx]
}

// Fill fills entire region with spaces on the given background
func (r Region) Fill(fg, bg terminal.RGB) {
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			r.Cell(x, y, ' ', fg, bg, terminal.AttrNone)
		}
	}
}

// Text draws a string starting at x, clipped to the region
// Wide runes occupy two cells, the second is written as a space
// Returns the number of cells consumed
func (r Region) Text(x, y int, s string, fg, bg terminal.RGB, attr terminal.Attr) int {
	start := x
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if x+w > r.W {
			break
		}
		r.Cell(x, y, ch, fg, bg, attr)
		if w == 2 {
			r.Cell(x+1, y, ' ', fg, bg, attr)
		}
		x += w
	}
	return x - start
}

// TextRight draws a string right-aligned to the region edge
func (r Region) TextRight(y int, s string, fg, bg terminal.RGB, attr terminal.Attr) int {
	w := runewidth.StringWidth(s)
	return r.Text(r.W-w, y, s, fg, bg, attr)
}
