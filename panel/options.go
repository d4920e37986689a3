package panel

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Configuration errors, matched with errors.Is
var (
	ErrUnknownAttribute  = errors.New("unknown attribute")
	ErrUnknownFormat     = errors.New("unknown format preset")
	ErrInvalidResolution = errors.New("invalid resolution")
	ErrInvalidColor      = errors.New("invalid color")
	ErrInvalidValue      = errors.New("invalid attribute value")
	ErrConflictingSource = errors.New("command and serial are mutually exclusive")
)

// Options is one configuration layer; nil fields leave the panel unchanged
type Options struct {
	Title           *string  `yaml:"title"`
	Interval        *float64 `yaml:"interval"`
	Command         *string  `yaml:"command"`
	Serial          *string  `yaml:"serial"`
	Color           *string  `yaml:"color"`
	ColorSecondary  *string  `yaml:"color_secondary"`
	ForegroundColor *string  `yaml:"foreground_color"`
	BackgroundColor *string  `yaml:"background_color"`
	Resolution      *string  `yaml:"resolution"`
	FormatValue     *string  `yaml:"format_value"`

	// Formatter overrides FormatValue when set
	Formatter FormatFunc `yaml:"-"`
	// Source overrides Command and Serial when set
	Source Source `yaml:"-"`
}

// Ptr returns a pointer to v, for building Options literals
func Ptr[T any](v T) *T { return &v }

// AttributeNames lists the accepted attribute keys, sorted
func AttributeNames() []string {
	names := make([]string, 0, len(stringFields)+1)
	for k := range stringFields {
		names = append(names, k)
	}
	names = append(names, "interval")
	sort.Strings(names)
	return names
}

var stringFields = map[string]func(*Options) **string{
	"title":            func(o *Options) **string { return &o.Title },
	"command":          func(o *Options) **string { return &o.Command },
	"serial":           func(o *Options) **string { return &o.Serial },
	"color":            func(o *Options) **string { return &o.Color },
	"color_secondary":  func(o *Options) **string { return &o.ColorSecondary },
	"foreground_color": func(o *Options) **string { return &o.ForegroundColor },
	"background_color": func(o *Options) **string { return &o.BackgroundColor },
	"resolution":       func(o *Options) **string { return &o.Resolution },
	"format_value":     func(o *Options) **string { return &o.FormatValue },
}

// OptionsFromAttributes validates a generic attribute map against the schema
// nil values are skipped
func OptionsFromAttributes(attrs map[string]any) (Options, error) {
	var o Options
	for name, raw := range attrs {
		if raw == nil {
			continue
		}
		if name == "interval" {
			v, err := toFloat(raw)
			if err != nil {
				return Options{}, fmt.Errorf("interval: %w", err)
			}
			o.Interval = &v
			continue
		}
		field, ok := stringFields[name]
		if !ok {
			return Options{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownAttribute, name, strings.Join(AttributeNames(), ", "))
		}
		s, err := toString(raw)
		if err != nil {
			return Options{}, fmt.Errorf("%s: %w", name, err)
		}
		*field(&o) = &s
	}
	return o, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%w %q", ErrInvalidValue, n)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrInvalidValue, v)
}

// toString accepts strings and bare numbers, so `color: 196` loads
func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case int, int64, uint64:
		return fmt.Sprint(s), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("%w: %T", ErrInvalidValue, v)
}

// normalizeName lowercases and strips a leading colon from symbol-style values
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ":"))
}
