package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/graphina/render"
	"github.com/lixenwraith/graphina/terminal"
)

// Settings holds dashboard-wide tuning, none of it per panel
type Settings struct {
	FrameRate       int     `toml:"frame_rate"`
	RepaintInterval float64 `toml:"repaint_interval"`
	DoubleGlyphs    string  `toml:"double_glyphs"`
	ColorMode       string  `toml:"color_mode"`
	LogFile         string  `toml:"log_file"`
}

// DefaultSettings returns the built-in settings
func DefaultSettings() Settings {
	return Settings{
		FrameRate:       30,
		RepaintInterval: 5,
		DoubleGlyphs:    "braille",
	}
}

// LoadSettings reads path over the defaults; a missing file is not an error
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		path = SettingsPath()
	}
	s := DefaultSettings()

	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return s, fmt.Errorf("parsing settings: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return s, fmt.Errorf("%s: unknown settings: %s", path, strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks ranges and names
func (s Settings) Validate() error {
	if s.FrameRate < 1 || s.FrameRate > 240 {
		return fmt.Errorf("frame_rate %d out of range [1,240]", s.FrameRate)
	}
	if s.RepaintInterval < 0.1 {
		return fmt.Errorf("repaint_interval %v below 0.1s", s.RepaintInterval)
	}
	if _, err := render.TableByName(s.DoubleGlyphs); err != nil {
		return fmt.Errorf("double_glyphs: %w", err)
	}
	switch s.ColorMode {
	case "", "auto", "256", "truecolor", "true", "24bit":
	default:
		return fmt.Errorf("color_mode %q: expected 256 or truecolor", s.ColorMode)
	}
	return nil
}

// FrameInterval is the minimum time between paints
func (s Settings) FrameInterval() time.Duration {
	return time.Second / time.Duration(max(s.FrameRate, 1))
}

// RepaintEvery is the forced full repaint period
func (s Settings) RepaintEvery() time.Duration {
	return time.Duration(s.RepaintInterval * float64(time.Second))
}

// Tables resolves the glyph tables; single resolution always uses blocks
func (s Settings) Tables() (render.Tables, error) {
	double, err := render.TableByName(s.DoubleGlyphs)
	if err != nil {
		return render.Tables{}, err
	}
	return render.Tables{Single: render.Blocks, Double: double}, nil
}

// Mode resolves the color mode, detecting it from the environment when unset
func (s Settings) Mode() terminal.ColorMode {
	if s.ColorMode == "" || s.ColorMode == "auto" {
		return terminal.DetectColorMode()
	}
	return terminal.ParseColorMode(s.ColorMode)
}
