package colour

// Default grid sampling settings.
const (
	DefaultSampleRowCount = 5
	DefaultSampleColCount = 8
	DefaultSampleRadius   = 4
)

// GridCandidate is a block-averaged colour sampled at one grid cell.
type GridCandidate struct {
	Color RGB
	// Index is the stable cell index, col*rows + row.
	Index int
}

// SampleGrid averages a square block of the given radius around each cell of a
// rows×cols grid of evenly spaced sample points. Candidates are returned in
// index order. The result is empty for invalid input.
func SampleGrid(pixels []byte, width, height, rows, cols, radius int) []GridCandidate {
	if !validBuffer(pixels, width, height) {
		return []GridCandidate{}
	}
	rows = max(1, rows)
	cols = max(1, cols)
	radius = max(0, radius)

	rowYs := make([]int, rows)
	for i := range rowYs {
		rowYs[i] = height * (i + 1) / (rows + 1)
	}
	colXs := make([]int, cols)
	for i := range colXs {
		colXs[i] = width * (i + 1) / (cols + 1)
	}

	candidates := make([]GridCandidate, 0, rows*cols)
	for col, x := range colXs {
		for row, y := range rowYs {
			candidates = append(candidates, GridCandidate{
				Color: averageBlock(pixels, width, height, x, y, radius),
				Index: col*rows + row,
			})
		}
	}

	return candidates
}

// averageBlock calculates the average colour of the pixels within radius of
// (cx, cy), clamped to the buffer bounds.
func averageBlock(pixels []byte, width, height, cx, cy, radius int) RGB {
	x0, x1 := max(0, cx-radius), min(width-1, cx+radius)
	y0, y1 := max(0, cy-radius), min(height-1, cy+radius)

	var totalR, totalG, totalB, count int
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			i := (y*width + x) * 4
			totalR += int(pixels[i])
			totalG += int(pixels[i+1])
			totalB += int(pixels[i+2])
			count++
		}
	}

	if count == 0 {
		return RGB{}
	}

	n := float64(count)
	return RGB{
		R: clampChannel(float64(totalR) / n),
		G: clampChannel(float64(totalG) / n),
		B: clampChannel(float64(totalB) / n),
	}
}
