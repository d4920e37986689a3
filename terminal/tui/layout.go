package tui

// SplitH splits region horizontally by ratios
// Ratios are normalized if they don't sum to 1.0
func SplitH(r Region, ratios ...float64) []Region {
	if len(ratios) == 0 {
		return nil
	}

	var sum float64
	for _, ratio := range ratios {
		sum += ratio
	}
	if sum <= 0 {
		sum = 1
	}

	regions := make([]Region, len(ratios))
	x := 0
	remaining := r.W

	for i, ratio := range ratios {
		var w int
		if i == len(ratios)-1 {
			w = remaining // Last one gets remainder to avoid rounding gaps
		} else {
			w = int((float64(r.W) * ratio / sum) + 0.5)
			if w > remaining {
				w = remaining
			}
		}
		regions[i] = r.Sub(x, 0, w, r.H)
		x += w
		remaining -= w
	}

	return regions
}

// SplitV splits region vertically by ratios
func SplitV(r Region, ratios ...float64) []Region {
	if len(ratios) == 0 {
		return nil
	}

	var sum float64
	for _, ratio := range ratios {
		sum += ratio
	}
	if sum <= 0 {
		sum = 1
	}

	regions := make([]Region, len(ratios))
	y := 0
	remaining := r.H

	for i, ratio := range ratios {
		var h int
		if i == len(ratios)-1 {
			h = remaining
		} else {
			h = int(float64(r.H) * ratio / sum)
			if h > remaining {
				h = remaining
			}
		}
		regions[i] = r.Sub(0, y, r.W, h)
		y += h
		remaining -= h
	}

	return regions
}

// Grid splits region into n cells arranged in cols columns, filled row by row
// The last row may hold fewer cells, those stretch to the full width
func Grid(r Region, n, cols int) []Region {
	if n <= 0 {
		return nil
	}
	if cols < 1 {
		cols = 1
	}
	if cols > n {
		cols = n
	}
	rows := (n + cols - 1) / cols

	rowRatios := make([]float64, rows)
	for i := range rowRatios {
		rowRatios[i] = 1
	}

	out := make([]Region, 0, n)
	for i, row := range SplitV(r, rowRatios...) {
		inRow := min(cols, n-i*cols)
		colRatios := make([]float64, inRow)
		for j := range colRatios {
			colRatios[j] = 1
		}
		out = append(out, SplitH(row, colRatios...)...)
	}
	return out
}
