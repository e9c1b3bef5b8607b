package colour

import "slices"

const (
	// SmoothingThreshold is the RGB distance below which a change between frames
	// is treated as noise and ignored.
	SmoothingThreshold = 35

	// DefaultLerpFactor is the interpolation step used by capture sessions.
	DefaultLerpFactor = 0.1
)

// Smoother dampens frame-to-frame palette jitter. Each capture session owns its
// own Smoother; it is not safe for concurrent use.
type Smoother struct {
	previous []RGB
}

// NewSmoother creates a Smoother with no history.
func NewSmoother() *Smoother {
	return &Smoother{}
}

// Smooth returns the smoothed version of raw and records it as the new history.
//
// Without history, or when the palette size changes, raw is adopted unchanged.
// Otherwise each colour that moved less than SmoothingThreshold keeps its
// previous value and every other colour moves toward raw by factor (clamped to
// [0, 1]). An empty raw palette returns an empty slice and leaves the history
// untouched.
func (s *Smoother) Smooth(raw []RGB, factor float64) []RGB {
	if len(raw) == 0 {
		return []RGB{}
	}
	if len(s.previous) != len(raw) {
		s.previous = slices.Clone(raw)
		return slices.Clone(raw)
	}

	t := clamp01(factor)
	for i, c := range raw {
		prev := s.previous[i]
		if Distance(c, prev) < SmoothingThreshold {
			continue
		}
		s.previous[i] = lerp(prev, c, t)
	}

	return slices.Clone(s.previous)
}

// Previous returns a copy of the current history, or nil if there is none.
func (s *Smoother) Previous() []RGB {
	return slices.Clone(s.previous)
}

// Reset discards the history.
func (s *Smoother) Reset() {
	s.previous = nil
}

func lerp(from, to RGB, t float64) RGB {
	return RGB{
		R: clampChannel(float64(from.R) + (float64(to.R)-float64(from.R))*t),
		G: clampChannel(float64(from.G) + (float64(to.G)-float64(from.G))*t),
		B: clampChannel(float64(from.B) + (float64(to.B)-float64(from.B))*t),
	}
}
