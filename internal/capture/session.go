// Package capture runs palette extraction over a stream of frames, the way a
// camera preview loop does: extraction on every Nth frame, temporal smoothing
// between extractions, and a dominant colour for the current palette.
package capture

import (
	"slices"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/palettecam/internal/colour"
)

// Default session settings.
const (
	DefaultSwatchCount = 5
	DefaultInterval    = 5
)

// Config holds capture session settings.
type Config struct {
	// SwatchCount is the number of palette colours requested per extraction.
	SwatchCount int

	// Interval extracts on every Interval-th frame. The first frame always
	// extracts.
	Interval int

	// LerpFactor is the step the smoother takes toward a new colour.
	LerpFactor float64
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		SwatchCount: DefaultSwatchCount,
		Interval:    DefaultInterval,
		LerpFactor:  colour.DefaultLerpFactor,
	}
}

func (c Config) withDefaults() Config {
	if c.SwatchCount < 1 {
		c.SwatchCount = DefaultSwatchCount
	}
	if c.Interval < 1 {
		c.Interval = DefaultInterval
	}
	if c.LerpFactor <= 0 || c.LerpFactor > 1 {
		c.LerpFactor = colour.DefaultLerpFactor
	}
	return c
}

// Snapshot is the palette state after the most recent extraction.
type Snapshot struct {
	// Frame is the 1-based number of the frame that produced the snapshot.
	Frame int

	// Colors is the smoothed palette.
	Colors []colour.RGB

	// ChosenIndices are the grid cells behind Colors (grid extraction only).
	ChosenIndices []int

	// Dominant is the dominant colour of Colors; valid when HasDominant is set.
	Dominant    colour.RGB
	HasDominant bool
}

// Session owns the mutable state of one capture session. It is not safe for
// concurrent use; give each session its own instance.
type Session struct {
	extractor colour.Extractor
	smoother  *colour.Smoother
	config    Config
	logger    hclog.Logger

	frames   int
	snapshot Snapshot
}

// NewSession creates a session that extracts palettes with extractor.
func NewSession(extractor colour.Extractor, config Config, logger hclog.Logger) *Session {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Session{
		extractor: extractor,
		smoother:  colour.NewSmoother(),
		config:    config.withDefaults(),
		logger:    logger,
	}
}

// Config returns the effective session configuration.
func (s *Session) Config() Config {
	return s.config
}

// Frame feeds one frame into the session. It returns the current snapshot and
// whether this frame updated it. Frames between extractions, and frames that
// yield no palette, leave the snapshot and smoothing history unchanged.
func (s *Session) Frame(pixels []byte, width, height int) (Snapshot, bool) {
	s.frames++
	if (s.frames-1)%s.config.Interval != 0 {
		return s.Snapshot(), false
	}

	result := s.extractor.Extract(pixels, width, height, s.config.SwatchCount)
	if len(result.Colors) == 0 {
		s.logger.Debug("frame produced no palette", "frame", s.frames, "width", width, "height", height)
		return s.Snapshot(), false
	}

	smoothed := s.smoother.Smooth(result.Colors, s.config.LerpFactor)
	dominant, ok := colour.DominantColor(smoothed)

	s.snapshot = Snapshot{
		Frame:         s.frames,
		Colors:        smoothed,
		ChosenIndices: slices.Clone(result.ChosenIndices),
		Dominant:      dominant,
		HasDominant:   ok,
	}
	s.logger.Trace("palette updated", "frame", s.frames, "colors", len(smoothed), "dominant", dominant.Hex())

	return s.Snapshot(), true
}

// Snapshot returns a copy of the current snapshot.
func (s *Session) Snapshot() Snapshot {
	snap := s.snapshot
	snap.Colors = slices.Clone(snap.Colors)
	snap.ChosenIndices = slices.Clone(snap.ChosenIndices)
	return snap
}

// Frames returns the number of frames seen so far.
func (s *Session) Frames() int {
	return s.frames
}

// Reset clears the frame counter, snapshot and smoothing history.
func (s *Session) Reset() {
	s.frames = 0
	s.snapshot = Snapshot{}
	s.smoother.Reset()
}
