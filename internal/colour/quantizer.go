package colour

import (
	"container/heap"
	"math"
	"slices"
)

const (
	quantizeWordWidth = 5
	quantizeWordMask  = (1 << quantizeWordWidth) - 1
	histogramSize     = 1 << (quantizeWordWidth * 3)

	componentRed   = -3
	componentGreen = -2
	componentBlue  = -1
)

// Swatch is a representative colour plus the pixel population it stands for.
type Swatch struct {
	// Packed is the colour as a 24-bit 0xRRGGBB value.
	Packed     uint32
	Population int
}

// Color returns the swatch colour.
func (s Swatch) Color() RGB {
	return RGBFromPacked(s.Packed)
}

// Filter is an allow-list predicate: it returns false for colours that must not
// appear in quantizer output.
type Filter func(rgb RGB, hsl HSL) bool

// DefaultFilter rejects near-black, near-white and the low-saturation red-orange
// band that skin tones fall into.
func DefaultFilter(_ RGB, hsl HSL) bool {
	return !isBlack(hsl) && !isWhite(hsl) && !isNearRedILine(hsl)
}

func isBlack(hsl HSL) bool {
	return hsl.L <= 0.05
}

func isWhite(hsl HSL) bool {
	return hsl.L >= 0.95
}

func isNearRedILine(hsl HSL) bool {
	return hsl.H >= 10 && hsl.H <= 37 && hsl.S <= 0.82
}

// ColorCutQuantizer reduces packed colours to a bounded set of population-weighted
// swatches using median cut over a 5-bit-per-channel histogram.
//
// The quantizer owns one mutable array of distinct quantized colours. Vboxes are
// index ranges into it; splits only ever reorder a box's own range, so ranges held
// by other boxes stay valid.
type ColorCutQuantizer struct {
	colors    []int
	histogram []int
	filters   []Filter
	swatches  []Swatch
}

// NewColorCutQuantizer quantizes pixels (packed 0xAARRGGBB) down to at most
// maxColors swatches. pixels is rewritten in place with its quantized values.
func NewColorCutQuantizer(pixels []uint32, maxColors int, filters []Filter) *ColorCutQuantizer {
	q := &ColorCutQuantizer{
		histogram: make([]int, histogramSize),
		filters:   filters,
	}
	if maxColors < 1 {
		maxColors = 1
	}

	for i, p := range pixels {
		quantized := quantizeFromRGB888(p)
		pixels[i] = uint32(quantized) // #nosec G115 - 15-bit value
		q.histogram[quantized]++
	}

	distinct := 0
	for c := range q.histogram {
		if q.histogram[c] > 0 && q.shouldIgnoreColor(approximateToRGB888(c)) {
			q.histogram[c] = 0
		}
		if q.histogram[c] > 0 {
			distinct++
		}
	}

	q.colors = make([]int, 0, distinct)
	for c := range q.histogram {
		if q.histogram[c] > 0 {
			q.colors = append(q.colors, c)
		}
	}

	if distinct <= maxColors {
		q.swatches = make([]Swatch, 0, distinct)
		for _, c := range q.colors {
			q.swatches = append(q.swatches, Swatch{
				Packed:     approximateToRGB888(c).Packed() & 0xFFFFFF,
				Population: q.histogram[c],
			})
		}
		return q
	}

	q.swatches = q.quantizePixels(maxColors)
	return q
}

// Swatches returns the quantized swatches.
func (q *ColorCutQuantizer) Swatches() []Swatch {
	return q.swatches
}

// quantizePixels splits the colour space into at most maxColors boxes and
// returns the average colour of each.
func (q *ColorCutQuantizer) quantizePixels(maxColors int) []Swatch {
	pq := &vboxQueue{}
	heap.Push(pq, q.newVbox(0, len(q.colors)-1))

	q.splitBoxes(pq, maxColors)

	return q.averageColors(*pq)
}

// splitBoxes repeatedly splits the largest-volume box until maxSize boxes exist
// or no box can be split any further.
func (q *ColorCutQuantizer) splitBoxes(pq *vboxQueue, maxSize int) {
	for pq.Len() < maxSize {
		if pq.Len() == 0 {
			return
		}
		box := heap.Pop(pq).(*vbox)
		if !box.canSplit() {
			heap.Push(pq, box)
			return
		}
		heap.Push(pq, q.splitBox(box))
		heap.Push(pq, box)
	}
}

func (q *ColorCutQuantizer) averageColors(boxes []*vbox) []Swatch {
	swatches := make([]Swatch, 0, len(boxes))
	for _, box := range boxes {
		swatch := q.averageColor(box)
		if !q.shouldIgnoreColor(swatch.Color()) {
			swatches = append(swatches, swatch)
		}
	}
	return swatches
}

func (q *ColorCutQuantizer) shouldIgnoreColor(rgb RGB) bool {
	if len(q.filters) == 0 {
		return false
	}
	hsl := rgb.HSL()
	for _, allowed := range q.filters {
		if !allowed(rgb, hsl) {
			return true
		}
	}
	return false
}

// vbox is a box in quantized colour space covering colors[lower..upper].
type vbox struct {
	lower, upper int
	population   int

	minRed, maxRed     int
	minGreen, maxGreen int
	minBlue, maxBlue   int
}

func (q *ColorCutQuantizer) newVbox(lower, upper int) *vbox {
	box := &vbox{lower: lower, upper: upper}
	q.fitBox(box)
	return box
}

func (v *vbox) volume() int {
	return (v.maxRed - v.minRed + 1) * (v.maxGreen - v.minGreen + 1) * (v.maxBlue - v.minBlue + 1)
}

func (v *vbox) colorCount() int {
	return 1 + v.upper - v.lower
}

func (v *vbox) canSplit() bool {
	return v.colorCount() > 1
}

// fitBox recomputes the box bounds and population from its colour range.
func (q *ColorCutQuantizer) fitBox(v *vbox) {
	v.minRed, v.minGreen, v.minBlue = math.MaxInt, math.MaxInt, math.MaxInt
	v.maxRed, v.maxGreen, v.maxBlue = math.MinInt, math.MinInt, math.MinInt
	v.population = 0

	for _, c := range q.colors[v.lower : v.upper+1] {
		v.population += q.histogram[c]

		r, g, b := quantizedRed(c), quantizedGreen(c), quantizedBlue(c)
		v.minRed, v.maxRed = min(v.minRed, r), max(v.maxRed, r)
		v.minGreen, v.maxGreen = min(v.minGreen, g), max(v.maxGreen, g)
		v.minBlue, v.maxBlue = min(v.minBlue, b), max(v.maxBlue, b)
	}
}

// splitBox splits v at its population median along its longest dimension. v is
// shrunk to the lower half and the upper half is returned as a new box.
func (q *ColorCutQuantizer) splitBox(v *vbox) *vbox {
	splitPoint := q.findSplitPoint(v)

	upper := q.newVbox(splitPoint+1, v.upper)
	v.upper = splitPoint
	q.fitBox(v)

	return upper
}

func (v *vbox) longestColorDimension() int {
	redLength := v.maxRed - v.minRed
	greenLength := v.maxGreen - v.minGreen
	blueLength := v.maxBlue - v.minBlue

	switch {
	case redLength >= greenLength && redLength >= blueLength:
		return componentRed
	case greenLength >= redLength && greenLength >= blueLength:
		return componentGreen
	default:
		return componentBlue
	}
}

// findSplitPoint sorts the box range along its longest dimension and returns
// the index at which the cumulative population first reaches half the total.
// At least one colour is left on each side.
func (q *ColorCutQuantizer) findSplitPoint(v *vbox) int {
	dimension := v.longestColorDimension()
	span := q.colors[v.lower : v.upper+1]

	// Reorder the channel bits so that a plain numeric sort orders by dimension.
	modifySignificantOctet(span, dimension)
	slices.Sort(span)
	modifySignificantOctet(span, dimension)

	midPoint := v.population / 2
	count := 0
	for i := v.lower; i <= v.upper; i++ {
		count += q.histogram[q.colors[i]]
		if count >= midPoint {
			return min(v.upper-1, i)
		}
	}

	return v.lower
}

func (q *ColorCutQuantizer) averageColor(v *vbox) Swatch {
	var redSum, greenSum, blueSum, totalPopulation int

	for _, c := range q.colors[v.lower : v.upper+1] {
		population := q.histogram[c]
		totalPopulation += population
		redSum += population * quantizedRed(c)
		greenSum += population * quantizedGreen(c)
		blueSum += population * quantizedBlue(c)
	}

	if totalPopulation == 0 {
		return Swatch{}
	}

	redMean := int(math.Round(float64(redSum) / float64(totalPopulation)))
	greenMean := int(math.Round(float64(greenSum) / float64(totalPopulation)))
	blueMean := int(math.Round(float64(blueSum) / float64(totalPopulation)))

	rgb := approximateToRGB888(quantizedColor(redMean, greenMean, blueMean))
	return Swatch{Packed: rgb.Packed() & 0xFFFFFF, Population: totalPopulation}
}

// modifySignificantOctet re-encodes each colour so that dimension occupies the
// most significant bits. Red is already there. Green becomes GRB and blue
// becomes BGR. Both mappings are involutions, so applying them twice restores
// the original values.
func modifySignificantOctet(colors []int, dimension int) {
	switch dimension {
	case componentGreen:
		for i, c := range colors {
			colors[i] = quantizedGreen(c)<<(quantizeWordWidth*2) |
				quantizedRed(c)<<quantizeWordWidth |
				quantizedBlue(c)
		}
	case componentBlue:
		for i, c := range colors {
			colors[i] = quantizedBlue(c)<<(quantizeWordWidth*2) |
				quantizedGreen(c)<<quantizeWordWidth |
				quantizedRed(c)
		}
	}
}

// quantizeFromRGB888 reduces a packed 0xAARRGGBB colour to 15-bit RGB555.
func quantizeFromRGB888(c uint32) int {
	r := modifyWordWidth(int(c>>16&0xFF), 8, quantizeWordWidth)
	g := modifyWordWidth(int(c>>8&0xFF), 8, quantizeWordWidth)
	b := modifyWordWidth(int(c&0xFF), 8, quantizeWordWidth)
	return quantizedColor(r, g, b)
}

func quantizedColor(r, g, b int) int {
	return r<<(quantizeWordWidth*2) | g<<quantizeWordWidth | b
}

// approximateToRGB888 expands a 15-bit quantized colour back to 8 bits per channel.
func approximateToRGB888(c int) RGB {
	return RGB{
		R: uint8(modifyWordWidth(quantizedRed(c), quantizeWordWidth, 8)),   // #nosec G115 - at most 8 bits
		G: uint8(modifyWordWidth(quantizedGreen(c), quantizeWordWidth, 8)), // #nosec G115
		B: uint8(modifyWordWidth(quantizedBlue(c), quantizeWordWidth, 8)),  // #nosec G115
	}
}

func quantizedRed(c int) int {
	return (c >> (quantizeWordWidth * 2)) & quantizeWordMask
}

func quantizedGreen(c int) int {
	return (c >> quantizeWordWidth) & quantizeWordMask
}

func quantizedBlue(c int) int {
	return c & quantizeWordMask
}

func modifyWordWidth(value, currentWidth, targetWidth int) int {
	var v int
	if targetWidth > currentWidth {
		v = value << (targetWidth - currentWidth)
	} else {
		v = value >> (currentWidth - targetWidth)
	}
	return v & ((1 << targetWidth) - 1)
}

// vboxQueue is a max-heap of boxes ordered by volume.
type vboxQueue []*vbox

func (pq vboxQueue) Len() int           { return len(pq) }
func (pq vboxQueue) Less(i, j int) bool { return pq[i].volume() > pq[j].volume() }
func (pq vboxQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }

func (pq *vboxQueue) Push(x any) {
	*pq = append(*pq, x.(*vbox))
}

func (pq *vboxQueue) Pop() any {
	old := *pq
	n := len(old)
	box := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return box
}
