package render

import (
	"fmt"
	"sort"

	"github.com/lixenwraith/graphina/panel"
)

// GlyphTable quantizes points into one character cell
// Each cell holds PointsPerCell points side by side, each filled
// bottom-up from 0 to Levels steps
type GlyphTable interface {
	Name() string
	Levels() int
	PointsPerCell() int
	Glyph(fills []int) rune
}

// blockRunes is the eighth-block ladder, index = fill-1
var blockRunes = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

type blocksTable struct{}

func (blocksTable) Name() string       { return "blocks" }
func (blocksTable) Levels() int        { return len(blockRunes) }
func (blocksTable) PointsPerCell() int { return 1 }

func (blocksTable) Glyph(fills []int) rune {
	if len(fills) == 0 || fills[0] <= 0 {
		return ' '
	}
	return blockRunes[min(fills[0], len(blockRunes))-1]
}

// Braille dot bits, bottom-up, per sub-column
var (
	brailleLeft  = [4]rune{0x40, 0x04, 0x02, 0x01}
	brailleRight = [4]rune{0x80, 0x20, 0x10, 0x08}
)

type brailleTable struct{}

func (brailleTable) Name() string       { return "braille" }
func (brailleTable) Levels() int        { return 4 }
func (brailleTable) PointsPerCell() int { return 2 }

func (brailleTable) Glyph(fills []int) rune {
	var bits rune
	for i, f := range fills {
		if i > 1 {
			break
		}
		dots := &brailleLeft
		if i == 1 {
			dots = &brailleRight
		}
		for d := 0; d < min(f, 4); d++ {
			bits |= dots[d]
		}
	}
	if bits == 0 {
		return ' '
	}
	return 0x2800 + bits
}

type halfBlocksTable struct{}

func (halfBlocksTable) Name() string       { return "halfblocks" }
func (halfBlocksTable) Levels() int        { return 1 }
func (halfBlocksTable) PointsPerCell() int { return 2 }

func (halfBlocksTable) Glyph(fills []int) rune {
	left := len(fills) > 0 && fills[0] > 0
	right := len(fills) > 1 && fills[1] > 0
	switch {
	case left && right:
		return '█'
	case left:
		return '▌'
	case right:
		return '▐'
	}
	return ' '
}

// Built-in tables
var (
	Blocks     GlyphTable = blocksTable{}
	Braille    GlyphTable = brailleTable{}
	HalfBlocks GlyphTable = halfBlocksTable{}
)

var tables = map[string]GlyphTable{
	Blocks.Name():     Blocks,
	Braille.Name():    Braille,
	HalfBlocks.Name(): HalfBlocks,
}

// TableByName resolves a built-in table
func TableByName(name string) (GlyphTable, error) {
	t, ok := tables[name]
	if !ok {
		names := make([]string, 0, len(tables))
		for k := range tables {
			names = append(names, k)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown glyph table %q (known: %v)", name, names)
	}
	return t, nil
}

// Tables selects a glyph table per panel resolution
type Tables struct {
	Single GlyphTable
	Double GlyphTable
}

// DefaultTables uses eighth blocks for single and braille for double
func DefaultTables() Tables {
	return Tables{Single: Blocks, Double: Braille}
}

// For returns the table serving r
func (t Tables) For(r panel.Resolution) GlyphTable {
	if r == panel.ResolutionSingle {
		if t.Single == nil {
			return Blocks
		}
		return t.Single
	}
	if t.Double == nil {
		return Braille
	}
	return t.Double
}

// Column is one cell-wide slice of the graph
type Column struct {
	Runes []rune  // bottom-up, one per graph row
	Peak  float64 // largest normalized value drawn in the column
	Empty bool    // no points at all
}

// MapToGlyphs quantizes normalized values into columns of rows cells
// Columns are right-aligned: a partial group of points sits in the first
// column, padded on its left. Every present point shows at least one step.
func MapToGlyphs(normalized []float64, rows int, table GlyphTable) []Column {
	ppc := table.PointsPerCell()
	if rows <= 0 || len(normalized) == 0 || ppc <= 0 {
		return nil
	}
	levels := table.Levels()
	total := rows * levels

	ncols := (len(normalized) + ppc - 1) / ppc
	pad := ncols*ppc - len(normalized)

	cols := make([]Column, ncols)
	heights := make([]int, ppc)
	fills := make([]int, ppc)

	for c := range cols {
		col := Column{Runes: make([]rune, rows), Empty: true}
		for k := 0; k < ppc; k++ {
			i := c*ppc + k - pad
			if i < 0 {
				heights[k] = 0
				continue
			}
			v := min(max(normalized[i], 0), 1)
			heights[k] = 1 + int(v*float64(total-1)+0.5)
			if col.Empty || v > col.Peak {
				col.Peak = v
			}
			col.Empty = false
		}
		for row := 0; row < rows; row++ {
			base := row * levels
			for k, h := range heights {
				fills[k] = min(max(h-base, 0), levels)
			}
			col.Runes[row] = table.Glyph(fills)
		}
		cols[c] = col
	}
	return cols
}
