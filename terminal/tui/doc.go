// Package tui provides immediate-mode drawing primitives over a terminal.Cell slice.
//
// Core abstraction is Region, a rectangular view into a row-major cell buffer.
// All drawing operations are relative to region bounds with automatic clipping.
//
// Usage pattern:
//
//	cells := make([]terminal.Cell, w*h)
//	root := tui.NewRegion(cells, w, 0, 0, w, h)
//	panes := tui.SplitV(root, 1, 1)
//	panes[0].Fill(bg)
//	panes[0].Text(0, 0, "cpu", fg, bg, terminal.AttrBold)
package tui
