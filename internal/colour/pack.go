package colour

import "math"

// DefaultMaxQuantizerPixels bounds the number of pixels handed to the quantizer.
const DefaultMaxQuantizerPixels = 12000

// validBuffer reports whether pixels holds at least width*height RGBA pixels.
// Dimensions whose byte size overflows int are invalid.
func validBuffer(pixels []byte, width, height int) bool {
	if width <= 0 || height <= 0 || len(pixels) == 0 {
		return false
	}
	if width > math.MaxInt/4/height {
		return false
	}
	return len(pixels) >= width*height*4
}

// PackPixels downsamples an RGBA buffer into packed 0xFFRRGGBB values.
//
// Pixels are visited on a square lattice with stride ceil(sqrt(w*h/maxPixels)) so
// that roughly maxPixels survive. Fully transparent pixels (alpha == 0) are skipped.
// The result is empty for invalid or fully transparent input.
func PackPixels(pixels []byte, width, height, maxPixels int) []uint32 {
	if !validBuffer(pixels, width, height) {
		return []uint32{}
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxQuantizerPixels
	}

	stride := max(1, int(math.Ceil(math.Sqrt(float64(width*height)/float64(maxPixels)))))

	cols := (width + stride - 1) / stride
	rows := (height + stride - 1) / stride
	packed := make([]uint32, cols*rows)

	n := 0
	for y := 0; y < height; y += stride {
		row := y * width
		for x := 0; x < width; x += stride {
			i := (row + x) * 4
			if pixels[i+3] == 0 {
				continue
			}
			packed[n] = 0xFF000000 |
				uint32(pixels[i])<<16 |
				uint32(pixels[i+1])<<8 |
				uint32(pixels[i+2])
			n++
		}
	}

	return packed[:n]
}
