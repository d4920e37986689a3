package render

import "math"

// Normalize maps values onto [0, 1] using the window's own min and max
// A constant window maps to 0.5; non-finite inputs map to 0
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}

	span := hi - lo
	flat := !(span > 0) || math.IsInf(span, 0)
	for i, v := range values {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			out[i] = 0
		case flat:
			out[i] = 0.5
		default:
			out[i] = (v - lo) / span
		}
	}
	return out
}
