package panel

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/graphina/terminal"
)

// ParseColor accepts tcell color names, #rrggbb, palette indices 0-255 and colorN
func ParseColor(s string) (terminal.RGB, error) {
	name := normalizeName(s)
	if name == "" {
		return terminal.RGB{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	}

	idx := strings.TrimPrefix(name, "color")
	if n, err := strconv.Atoi(idx); err == nil {
		if n < 0 || n > 255 {
			return terminal.RGB{}, fmt.Errorf("%w %q: palette index out of range", ErrInvalidColor, s)
		}
		return paletteRGB(n), nil
	}

	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return terminal.RGB{}, fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB()
	return terminal.RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

func paletteRGB(n int) terminal.RGB {
	r, g, b := tcell.PaletteColor(n).RGB()
	return terminal.RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
}

// DeriveColor maps a title onto a stable, readable entry of the 6x6x6 color cube
// Entries whose brightest channel is below level 3 are skipped so the graph
// stays visible on a dark background
func DeriveColor(title string) terminal.RGB {
	h := fnv.New32a()
	h.Write([]byte(title))
	sum := h.Sum32()

	for i := uint32(0); ; i++ {
		cube := (sum + i*37) % 216
		r, g, b := cube/36, (cube/6)%6, cube%6
		if max(r, g, b) >= 3 {
			return paletteRGB(16 + int(cube))
		}
	}
}
