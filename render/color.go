package render

import (
	"github.com/lixenwraith/graphina/panel"
	"github.com/lixenwraith/graphina/terminal"
)

// Threshold splits primary from secondary coloring on the normalized scale
const Threshold = 0.5

// Colors is the resolved palette of one panel
type Colors struct {
	Primary      terminal.RGB
	Secondary    terminal.RGB
	HasSecondary bool
	Foreground   terminal.RGB
	Background   terminal.RGB
}

// ColorsFor resolves p's palette
func ColorsFor(p *panel.Panel) Colors {
	sec, ok := p.SecondaryColor()
	return Colors{
		Primary:      p.Color(),
		Secondary:    sec,
		HasSecondary: ok,
		Foreground:   p.Foreground(),
		Background:   p.Background(),
	}
}

// ApplyColor picks the graph color for a normalized value
// Values at or above threshold use the secondary color when one is set
func ApplyColor(value, threshold float64, c Colors) terminal.RGB {
	if c.HasSecondary && value >= threshold {
		return c.Secondary
	}
	return c.Primary
}
