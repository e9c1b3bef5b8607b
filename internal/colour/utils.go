package colour

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// maxRGBDistance is the Euclidean distance between black and white, sqrt(255²×3).
var maxRGBDistance = math.Sqrt(255 * 255 * 3)

// HSL holds hue (0-360), saturation (0-1) and lightness (0-1).
type HSL struct {
	H float64
	S float64
	L float64
}

// HSL converts the colour to HSL colour space.
func (rgb RGB) HSL() HSL {
	h, s, l := rgb.colorful().Hsl()
	return HSL{H: h, S: s, L: l}
}

func (rgb RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
}

// Distance returns the Euclidean distance between two colours in RGB space (0-441).
func Distance(a, b RGB) float64 {
	return math.Sqrt(distanceSquared(a, b))
}

func distanceSquared(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return dr*dr + dg*dg + db*db
}

// Luma returns the relative-luminance weighted sum of the 8-bit channels (0-255).
func Luma(rgb RGB) float64 {
	return 0.2126*float64(rgb.R) + 0.7152*float64(rgb.G) + 0.0722*float64(rgb.B)
}

// clampChannel rounds v and clamps it into the 8-bit channel range.
func clampChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// clamp01 clamps v into [0, 1], mapping NaN to 0.
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
