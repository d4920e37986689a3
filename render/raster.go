package render

import (
	"github.com/lixenwraith/graphina/history"
	"github.com/lixenwraith/graphina/panel"
	"github.com/lixenwraith/graphina/terminal"
	"github.com/lixenwraith/graphina/terminal/tui"
)

// Rasterize draws p into r: a header row then the graph, newest at the right
// Every cell of r is written so stale content never survives a redraw
func Rasterize(r tui.Region, p *panel.Panel, samples []history.Sample, table GlyphTable) {
	colors := ColorsFor(p)
	r.Fill(colors.Foreground, colors.Background)
	if r.W <= 0 || r.H <= 0 {
		return
	}

	var label string
	if n := len(samples); n > 0 {
		label = p.FormatValue(samples[n-1].Value)
	}
	drawHeader(r.Sub(0, 0, r.W, 1), p.Title(), label, colors)

	graph := r.Sub(0, 1, r.W, r.H-1)
	if graph.H <= 0 {
		return
	}

	capacity := graph.W * table.PointsPerCell()
	if len(samples) > capacity {
		samples = samples[len(samples)-capacity:]
	}
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}

	cols := MapToGlyphs(Normalize(values), graph.H, table)
	x0 := graph.W - len(cols)
	for i, col := range cols {
		if col.Empty {
			continue
		}
		fg := ApplyColor(col.Peak, Threshold, colors)
		for row, ch := range col.Runes {
			if ch == ' ' {
				continue
			}
			graph.Cell(x0+i, graph.H-1-row, ch, fg, colors.Background, terminal.AttrNone)
		}
	}
}

// drawHeader puts the title at the left and the value label at the right
// The label wins when space is short; the title is truncated to what remains
func drawHeader(h tui.Region, title, label string, c Colors) {
	labelW := tui.StringWidth(label)
	if labelW >= h.W {
		h.TextRight(0, tui.Truncate(label, h.W), c.Foreground, c.Background, terminal.AttrNone)
		return
	}

	titleSpace := h.W
	if labelW > 0 {
		titleSpace = h.W - labelW - 1
	}
	h.Text(0, 0, tui.Truncate(title, titleSpace), c.Foreground, c.Background, terminal.AttrBold)
	if labelW > 0 {
		h.TextRight(0, label, c.Foreground, c.Background, terminal.AttrNone)
	}
}
