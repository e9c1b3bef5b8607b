package colour

import (
	"slices"
	"testing"
)

func packedRGB(r, g, b uint8) uint32 {
	return RGB{R: r, G: g, B: b}.Packed()
}

func totalPopulation(swatches []Swatch) int {
	total := 0
	for _, s := range swatches {
		total += s.Population
	}
	return total
}

// spreadPixels returns n pixels spread across the RGB cube.
func spreadPixels(n int) []uint32 {
	pixels := make([]uint32, n)
	for i := range pixels {
		pixels[i] = packedRGB(uint8(i*53%256), uint8(i*97%256), uint8(i*29%256))
	}
	return pixels
}

func TestQuantizerFewColours(t *testing.T) {
	pixels := []uint32{
		packedRGB(255, 0, 0),
		packedRGB(255, 0, 0),
		packedRGB(0, 255, 0),
		packedRGB(0, 0, 255),
	}

	swatches := NewColorCutQuantizer(pixels, 5, nil).Swatches()

	if len(swatches) != 3 {
		t.Fatalf("got %d swatches, want 3", len(swatches))
	}
	if got := totalPopulation(swatches); got != 4 {
		t.Errorf("total population = %d, want 4", got)
	}

	foundDouble := false
	for _, s := range swatches {
		if s.Population == 2 {
			foundDouble = true
			if s.Color() != (RGB{R: 248}) {
				t.Errorf("swatch with population 2 = %v, want rgb(248, 0, 0)", s.Color())
			}
		}
	}
	if !foundDouble {
		t.Error("expected one swatch with population 2")
	}
}

func TestQuantizerRewritesPixelsInPlace(t *testing.T) {
	pixels := []uint32{packedRGB(255, 0, 0), packedRGB(8, 16, 255)}
	NewColorCutQuantizer(pixels, 4, nil)

	want := []uint32{31 << 10, 1<<10 | 2<<5 | 31}
	if !slices.Equal(pixels, want) {
		t.Errorf("pixels = %v, want %v", pixels, want)
	}
}

func TestQuantizerPopulationConserved(t *testing.T) {
	tests := []struct {
		name      string
		pixels    int
		maxColors int
	}{
		{name: "16 of 300", pixels: 300, maxColors: 16},
		{name: "24 of 1000", pixels: 1000, maxColors: 24},
		{name: "2 of 50", pixels: 50, maxColors: 2},
		{name: "1 of 10", pixels: 10, maxColors: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			swatches := NewColorCutQuantizer(spreadPixels(tt.pixels), tt.maxColors, nil).Swatches()

			if len(swatches) == 0 || len(swatches) > tt.maxColors {
				t.Fatalf("got %d swatches, want 1..%d", len(swatches), tt.maxColors)
			}
			if got := totalPopulation(swatches); got != tt.pixels {
				t.Errorf("total population = %d, want %d", got, tt.pixels)
			}
		})
	}
}

func TestQuantizerDistinctCountPreserved(t *testing.T) {
	// Eight colours that stay distinct after 5-bit quantization.
	var pixels []uint32
	for i := range 8 {
		v := uint8(i * 32)
		for range i + 1 {
			pixels = append(pixels, packedRGB(v, 255-v, v/2))
		}
	}

	swatches := NewColorCutQuantizer(pixels, 8, nil).Swatches()
	if len(swatches) != 8 {
		t.Fatalf("got %d swatches, want 8", len(swatches))
	}
	if got := totalPopulation(swatches); got != len(pixels) {
		t.Errorf("total population = %d, want %d", got, len(pixels))
	}
}

func TestQuantizerChannelsAreMultiplesOfEight(t *testing.T) {
	swatches := NewColorCutQuantizer(spreadPixels(500), 16, nil).Swatches()
	for _, s := range swatches {
		c := s.Color()
		if c.R%8 != 0 || c.G%8 != 0 || c.B%8 != 0 {
			t.Errorf("swatch %v has a channel that is not a multiple of 8", c)
		}
	}
}

func TestQuantizerFilter(t *testing.T) {
	notRed := func(rgb RGB, _ HSL) bool {
		return !(rgb.R > rgb.G && rgb.R > rgb.B)
	}

	pixels := []uint32{
		packedRGB(255, 0, 0),
		packedRGB(200, 30, 30),
		packedRGB(240, 20, 10),
		packedRGB(0, 255, 0),
		packedRGB(0, 200, 50),
		packedRGB(0, 0, 255),
		packedRGB(20, 40, 200),
	}
	const allowed = 4

	for _, maxColors := range []int{2, 8} {
		swatches := NewColorCutQuantizer(slices.Clone(pixels), maxColors, []Filter{notRed}).Swatches()

		for _, s := range swatches {
			if c := s.Color(); c.R > c.G && c.R > c.B {
				t.Errorf("maxColors=%d: red-dominant swatch %v survived the filter", maxColors, c)
			}
		}
		if got := totalPopulation(swatches); got != allowed {
			t.Errorf("maxColors=%d: total population = %d, want %d", maxColors, got, allowed)
		}
	}
}

func TestQuantizerEmptyInput(t *testing.T) {
	if got := NewColorCutQuantizer(nil, 16, nil).Swatches(); len(got) != 0 {
		t.Errorf("got %d swatches for empty input, want 0", len(got))
	}
}

func TestQuantizerNonPositiveMaxColors(t *testing.T) {
	swatches := NewColorCutQuantizer(spreadPixels(40), 0, nil).Swatches()
	if len(swatches) != 1 {
		t.Fatalf("got %d swatches, want 1", len(swatches))
	}
	if swatches[0].Population != 40 {
		t.Errorf("population = %d, want 40", swatches[0].Population)
	}
}

func TestModifySignificantOctetIsInvolution(t *testing.T) {
	original := []int{0, 1, 31, 1 << 5, 31 << 10, 12345, 32767}
	for _, dim := range []int{componentRed, componentGreen, componentBlue} {
		colors := slices.Clone(original)
		modifySignificantOctet(colors, dim)
		modifySignificantOctet(colors, dim)
		if !slices.Equal(colors, original) {
			t.Errorf("dimension %d: got %v after two passes, want %v", dim, colors, original)
		}
	}
}

func TestModifySignificantOctetOrdersByDimension(t *testing.T) {
	// Green-dominant order must follow the green channel, not red.
	colors := []int{
		quantizedColor(31, 1, 0),
		quantizedColor(0, 5, 0),
		quantizedColor(10, 3, 0),
	}
	modifySignificantOctet(colors, componentGreen)
	slices.Sort(colors)
	modifySignificantOctet(colors, componentGreen)

	want := []int{1, 3, 5}
	for i, c := range colors {
		if quantizedGreen(c) != want[i] {
			t.Errorf("colors[%d] green = %d, want %d", i, quantizedGreen(c), want[i])
		}
	}
}

func TestDefaultFilter(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want bool
	}{
		{name: "black", rgb: RGB{R: 5, G: 5, B: 5}, want: false},
		{name: "white", rgb: RGB{R: 250, G: 250, B: 250}, want: false},
		{name: "skin tone", rgb: RGB{R: 200, G: 150, B: 120}, want: false},
		{name: "blue", rgb: RGB{R: 20, G: 60, B: 200}, want: true},
		{name: "saturated orange", rgb: RGB{R: 255, G: 120, B: 0}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultFilter(tt.rgb, tt.rgb.HSL()); got != tt.want {
				t.Errorf("DefaultFilter(%v) = %v, want %v", tt.rgb, got, tt.want)
			}
		})
	}
}
