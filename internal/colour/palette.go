// Package colour extracts small, visually representative colour palettes from raw
// RGBA pixel buffers.
package colour

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RGB represents a colour in 8-bit RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ParseHex parses a hex colour string (#RRGGBB or RRGGBB).
func ParseHex(hex string) (RGB, error) {
	digits := strings.TrimPrefix(hex, "#")
	if len(digits) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour: %q", hex)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(digits, "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", hex, err)
	}

	return RGB{R: r, G: g, B: b}, nil
}

// Packed returns the colour as an opaque 0xAARRGGBB value.
func (rgb RGB) Packed() uint32 {
	return 0xFF000000 | uint32(rgb.R)<<16 | uint32(rgb.G)<<8 | uint32(rgb.B)
}

// RGBFromPacked unpacks a 0xAARRGGBB (or 0x00RRGGBB) value, ignoring alpha.
func RGBFromPacked(v uint32) RGB {
	return RGB{
		R: uint8(v >> 16), // #nosec G115 - truncation to the channel byte is intended
		G: uint8(v >> 8),  // #nosec G115
		B: uint8(v),       // #nosec G115
	}
}

// Result is the output of a single extraction.
//
// ChosenIndices is only populated by the grid sampler; each entry is the stable
// index (col*rows + row) of the grid cell a colour came from.
type Result struct {
	Colors        []RGB `json:"colors"`
	ChosenIndices []int `json:"chosenIndices"`
}

// emptyResult is the neutral result for invalid or fully transparent input.
func emptyResult() Result {
	return Result{Colors: []RGB{}, ChosenIndices: []int{}}
}

// Len returns the number of colours in the result.
func (r Result) Len() int {
	return len(r.Colors)
}

// ToHex converts the palette colours to hex strings.
func (r Result) ToHex() []string {
	hexColors := make([]string, len(r.Colors))
	for i, c := range r.Colors {
		hexColors[i] = c.Hex()
	}
	return hexColors
}

// ColorJSON represents a color in JSON output format.
type ColorJSON struct {
	Hex string `json:"hex"`
	RGB RGB    `json:"rgb"`
}

// ResultJSON represents an extraction result in JSON format.
type ResultJSON struct {
	Count         int         `json:"count"`
	Colors        []ColorJSON `json:"colors"`
	ChosenIndices []int       `json:"chosenIndices"`
	Dominant      *ColorJSON  `json:"dominant,omitempty"`
}

// ToJSON converts the result to indented JSON. A nil dominant is omitted.
func (r Result) ToJSON(dominant *RGB) ([]byte, error) {
	colors := make([]ColorJSON, len(r.Colors))
	for i, c := range r.Colors {
		colors[i] = ColorJSON{Hex: c.Hex(), RGB: c}
	}

	indices := r.ChosenIndices
	if indices == nil {
		indices = []int{}
	}

	out := ResultJSON{
		Count:         len(r.Colors),
		Colors:        colors,
		ChosenIndices: indices,
	}
	if dominant != nil {
		out.Dominant = &ColorJSON{Hex: dominant.Hex(), RGB: *dominant}
	}

	return json.MarshalIndent(out, "", "  ")
}

// String returns a human-readable string representation of the result.
func (r Result) String() string {
	if len(r.Colors) == 0 {
		return "Empty palette"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Palette with %d colors:\n", len(r.Colors))
	for i, c := range r.Colors {
		fmt.Fprintf(&sb, "  %2d: %s (%s)\n", i+1, c.Hex(), c.String())
	}
	return sb.String()
}
