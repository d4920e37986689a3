package panel

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/graphina/terminal"
)

// MinInterval is the tightest refresh period a panel may request, in seconds
const MinInterval = 0.01

// Defaults applied before any Options
const (
	DefaultTitle      = "Data"
	DefaultInterval   = 10.0
	DefaultFormat     = "as_default"
	DefaultResolution = ResolutionDouble
)

// Resolution selects vertical glyph granularity
type Resolution uint8

const (
	ResolutionSingle Resolution = iota
	ResolutionDouble
)

// String returns the configuration spelling
func (r Resolution) String() string {
	if r == ResolutionSingle {
		return "single"
	}
	return "double"
}

// ParseResolution accepts "single" or "double", with an optional leading colon
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ":")) {
	case "single":
		return ResolutionSingle, nil
	case "double":
		return ResolutionDouble, nil
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidResolution, s)
}

// Panel is the configuration of one graph, never mutated after construction
type Panel struct {
	title      string
	interval   float64
	source     Source
	resolution Resolution

	color        terminal.RGB
	colorSet     bool
	secondary    terminal.RGB
	secondarySet bool
	foreground   terminal.RGB
	background   terminal.RGB

	formatName string
	format     FormatFunc
}

// New builds a panel from defaults and the given option layers, applied in order
func New(layers ...Options) (*Panel, error) {
	p := &Panel{
		title:      DefaultTitle,
		interval:   DefaultInterval,
		source:     RandomUniform{},
		resolution: DefaultResolution,
		foreground: terminal.RGB{R: 255, G: 255, B: 255},
		background: terminal.RGBBlack,
		formatName: DefaultFormat,
		format:     formatDefault,
	}
	for _, o := range layers {
		if err := p.apply(o); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// FromAttributes builds a panel from a generic attribute map
func FromAttributes(attrs map[string]any) (*Panel, error) {
	o, err := OptionsFromAttributes(attrs)
	if err != nil {
		return nil, err
	}
	return New(o)
}

// Reconfigure returns a copy of p with o applied, p itself is left untouched
// Callers restart the panel's sampling pipeline with the returned value
func (p *Panel) Reconfigure(o Options) (*Panel, error) {
	next := *p
	if err := next.apply(o); err != nil {
		return nil, err
	}
	return &next, nil
}

// apply validates and applies every set field of o
func (p *Panel) apply(o Options) error {
	if o.Command != nil && o.Serial != nil {
		return ErrConflictingSource
	}

	if o.Title != nil {
		p.title = *o.Title
	}
	if o.Interval != nil {
		p.setInterval(*o.Interval)
	}
	if o.Command != nil {
		if strings.TrimSpace(*o.Command) == "" {
			return fmt.Errorf("command: %w: empty command line", ErrInvalidValue)
		}
		p.source = Command{Line: *o.Command}
	}
	if o.Serial != nil {
		src, err := ParseSerial(*o.Serial)
		if err != nil {
			return err
		}
		p.source = src
	}
	if o.Source != nil {
		p.source = o.Source
	}
	if o.Resolution != nil {
		r, err := ParseResolution(*o.Resolution)
		if err != nil {
			return err
		}
		p.resolution = r
	}
	if o.Color != nil {
		c, err := ParseColor(*o.Color)
		if err != nil {
			return fmt.Errorf("color: %w", err)
		}
		p.color, p.colorSet = c, true
	}
	if o.ColorSecondary != nil {
		c, err := ParseColor(*o.ColorSecondary)
		if err != nil {
			return fmt.Errorf("color_secondary: %w", err)
		}
		p.secondary, p.secondarySet = c, true
	}
	if o.ForegroundColor != nil {
		c, err := ParseColor(*o.ForegroundColor)
		if err != nil {
			return fmt.Errorf("foreground_color: %w", err)
		}
		p.foreground = c
	}
	if o.BackgroundColor != nil {
		c, err := ParseColor(*o.BackgroundColor)
		if err != nil {
			return fmt.Errorf("background_color: %w", err)
		}
		p.background = c
	}
	if o.FormatValue != nil {
		fn, err := LookupFormat(*o.FormatValue)
		if err != nil {
			return err
		}
		p.formatName = normalizeName(*o.FormatValue)
		p.format = fn
	}
	if o.Formatter != nil {
		p.formatName = "custom"
		p.format = o.Formatter
	}
	return nil
}

// setInterval clamps to MinInterval regardless of input, NaN included
func (p *Panel) setInterval(v float64) {
	if !(v >= MinInterval) {
		v = MinInterval
	}
	p.interval = v
}

// Title returns the header text
func (p *Panel) Title() string { return p.title }

// IntervalSeconds returns the stored refresh period in seconds
func (p *Panel) IntervalSeconds() float64 { return p.interval }

// Interval returns the refresh period
func (p *Panel) Interval() time.Duration {
	return time.Duration(p.interval * float64(time.Second))
}

// Source returns the configured value source
func (p *Panel) Source() Source { return p.source }

// Resolution returns the glyph resolution
func (p *Panel) Resolution() Resolution { return p.resolution }

// Color returns the primary graph color, derived from the title when unset
func (p *Panel) Color() terminal.RGB {
	if p.colorSet {
		return p.color
	}
	return DeriveColor(p.title)
}

// SecondaryColor returns the spike color and whether one is configured
func (p *Panel) SecondaryColor() (terminal.RGB, bool) {
	return p.secondary, p.secondarySet
}

// Foreground returns the label color
func (p *Panel) Foreground() terminal.RGB { return p.foreground }

// Background returns the fill color
func (p *Panel) Background() terminal.RGB { return p.background }

// FormatName returns the preset name, or "custom" for a caller-supplied func
func (p *Panel) FormatName() string { return p.formatName }

// FormatValue renders a value for the header label
func (p *Panel) FormatValue(v float64) string { return p.format(v) }
