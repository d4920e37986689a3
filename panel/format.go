package panel

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatFunc renders a sample value for display
type FormatFunc func(float64) string

var formats = map[string]FormatFunc{
	"as_default": formatDefault,
	"as_bytes":   formatBytes,
	"as_hertz":   formatHertz,
	"as_celsius": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "°C" },
	"as_percent": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" },
	"as_comma":   func(v float64) string { return humanize.CommafWithDigits(v, 2) },
}

// LookupFormat resolves a preset name such as "as_bytes" or ":as_bytes"
func LookupFormat(name string) (FormatFunc, error) {
	fn, ok := formats[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, name)
	}
	return fn, nil
}

// FormatNames lists the preset names, sorted
func FormatNames() []string {
	names := make([]string, 0, len(formats))
	for k := range formats {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// formatDefault prints three decimals with trailing zeros trimmed
func formatDefault(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func formatBytes(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if v < 0 {
		return "-" + humanize.IBytes(uint64(-v))
	}
	return humanize.IBytes(uint64(v))
}

func formatHertz(v float64) string {
	return humanize.SIWithDigits(v, 2, "Hz")
}
