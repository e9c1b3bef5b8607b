package image

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Frame is a decoded RGBA pixel buffer, row-major, 4 bytes per pixel.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
}

// ToFrame converts img to an RGBA frame. When maxWidth is positive and the
// image is wider, it is downscaled to maxWidth preserving aspect ratio.
func ToFrame(img image.Image, maxWidth int) Frame {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return Frame{}
	}

	if maxWidth > 0 && width > maxWidth {
		height = max(1, height*maxWidth/width)
		width = maxWidth
		dst := image.NewNRGBA(image.Rect(0, 0, width, height))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		return Frame{Pix: dst.Pix, Width: width, Height: height}
	}

	// Non-premultiplied, so alpha stays independent of the colour channels.
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == width*4 && bounds.Min == (image.Point{}) {
		return Frame{Pix: nrgba.Pix, Width: width, Height: height}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return Frame{Pix: dst.Pix, Width: width, Height: height}
}

// LoadFrame loads an image file and converts it to a frame.
func LoadFrame(loader Loader, path string, maxWidth int) (Frame, error) {
	img, err := loader.Load(path)
	if err != nil {
		return Frame{}, err
	}
	return ToFrame(img, maxWidth), nil
}

// StreamDirectory decodes every image in dir, in name order, and passes each
// frame to fn. It stops at the first error or when ctx is cancelled.
func StreamDirectory(ctx context.Context, dir string, maxWidth int, fn func(Frame) error) error {
	paths, err := ScanDirectoryForImages(dir)
	if err != nil {
		return err
	}

	loader := NewFileLoader()
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := LoadFrame(loader, path, maxWidth)
		if err != nil {
			return fmt.Errorf("failed to load frame %s: %w", path, err)
		}
		if err := fn(frame); err != nil {
			return err
		}
	}

	return nil
}
