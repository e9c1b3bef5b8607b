package colour

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Extractor defines the interface for palette extraction from raw pixel buffers.
type Extractor interface {
	// Extract extracts up to count colours from a width×height RGBA buffer.
	Extract(pixels []byte, width, height, count int) Result
}

// Algorithm represents the colour extraction algorithm type.
type Algorithm string

const (
	// AlgorithmGrid block-averages colours at fixed grid positions.
	AlgorithmGrid Algorithm = "grid"

	// AlgorithmMedianCut quantizes the frame with median cut before scoring.
	AlgorithmMedianCut Algorithm = "median-cut"
)

// DefaultAlgorithm is used when no valid algorithm has been configured.
const DefaultAlgorithm = AlgorithmMedianCut

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmGrid, AlgorithmMedianCut}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// ParseAlgorithm parses an algorithm name, accepting "mediancut" and "median"
// as aliases of "median-cut".
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grid":
		return AlgorithmGrid, nil
	case "median-cut", "mediancut", "median":
		return AlgorithmMedianCut, nil
	default:
		return "", fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", s, ValidAlgorithms())
	}
}

// Strategy selects an extraction algorithm together with its settings. It is
// implemented by GridOptions and MedianCutOptions only.
type Strategy interface {
	Algorithm() Algorithm
	isStrategy()
}

// GridOptions configures the grid sampler.
type GridOptions struct {
	SampleRowCount int
	SampleColCount int

	// SampleRadius is the half-width of the averaged block around each sample
	// point. Zero selects DefaultSampleRadius; SinglePixelRadius samples one
	// pixel.
	SampleRadius int
}

// SinglePixelRadius requests single-pixel grid samples.
const SinglePixelRadius = -1

// DefaultGridOptions returns the default grid sampling settings.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		SampleRowCount: DefaultSampleRowCount,
		SampleColCount: DefaultSampleColCount,
		SampleRadius:   DefaultSampleRadius,
	}
}

// Algorithm implements Strategy.
func (GridOptions) Algorithm() Algorithm { return AlgorithmGrid }

func (GridOptions) isStrategy() {}

func (o GridOptions) withDefaults() GridOptions {
	if o.SampleRowCount < 1 {
		o.SampleRowCount = DefaultSampleRowCount
	}
	if o.SampleColCount < 1 {
		o.SampleColCount = DefaultSampleColCount
	}
	switch {
	case o.SampleRadius == 0:
		o.SampleRadius = DefaultSampleRadius
	case o.SampleRadius < 0:
		o.SampleRadius = 0
	}
	return o
}

// MedianCutOptions configures the median-cut pipeline.
type MedianCutOptions struct {
	// QuantizedPoolSize overrides the number of swatches requested from the
	// quantizer. Zero derives it from the swatch count.
	QuantizedPoolSize int

	// MaxQuantizerPixels bounds the downsampled pixel count.
	MaxQuantizerPixels int

	// Filters are allow-list predicates applied inside the quantizer.
	Filters []Filter
}

// DefaultMedianCutOptions returns the default median-cut settings.
func DefaultMedianCutOptions() MedianCutOptions {
	return MedianCutOptions{MaxQuantizerPixels: DefaultMaxQuantizerPixels}
}

// Algorithm implements Strategy.
func (MedianCutOptions) Algorithm() Algorithm { return AlgorithmMedianCut }

func (MedianCutOptions) isStrategy() {}

func (o MedianCutOptions) withDefaults() MedianCutOptions {
	if o.QuantizedPoolSize < 0 {
		o.QuantizedPoolSize = 0
	}
	if o.MaxQuantizerPixels < 1 {
		o.MaxQuantizerPixels = DefaultMaxQuantizerPixels
	}
	return o
}

// Options configures a single extraction.
type Options struct {
	// Strategy is GridOptions or MedianCutOptions. Nil selects the default
	// median-cut settings.
	Strategy Strategy
	Scoring  ScoringWeights
}

// DefaultOptions returns median-cut extraction with default scoring.
func DefaultOptions() Options {
	return Options{
		Strategy: DefaultMedianCutOptions(),
		Scoring:  DefaultScoringWeights(),
	}
}

// EngineConfig holds the persistent settings of an Engine.
type EngineConfig struct {
	Algorithm Algorithm
	Grid      GridOptions
	MedianCut MedianCutOptions
	Scoring   ScoringWeights

	// Logger receives debug output. Nil discards it.
	Logger hclog.Logger
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Algorithm: DefaultAlgorithm,
		Grid:      DefaultGridOptions(),
		MedianCut: DefaultMedianCutOptions(),
		Scoring:   DefaultScoringWeights(),
	}
}

// Engine drives palette extraction. It holds the persistent algorithm choice
// and per-algorithm settings so a frame loop can extract without rebuilding
// options on every call. Extraction itself is stateless.
type Engine struct {
	algorithm Algorithm
	grid      GridOptions
	medianCut MedianCutOptions
	scoring   ScoringWeights
	logger    hclog.Logger
}

// NewEngine creates an Engine from cfg. An unknown algorithm falls back to
// DefaultAlgorithm.
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{
		grid:      cfg.Grid,
		medianCut: cfg.MedianCut,
		scoring:   cfg.Scoring,
		logger:    cfg.Logger,
	}
	if e.logger == nil {
		e.logger = hclog.NewNullLogger()
	}
	e.SetAlgorithm(cfg.Algorithm)
	return e
}

// Algorithm returns the configured algorithm.
func (e *Engine) Algorithm() Algorithm {
	return e.algorithm
}

// SetAlgorithm changes the configured algorithm. Unknown algorithms fall back
// to DefaultAlgorithm.
func (e *Engine) SetAlgorithm(alg Algorithm) {
	if !IsValidAlgorithm(alg) {
		e.logger.Debug("unknown algorithm, using default", "algorithm", alg, "default", DefaultAlgorithm)
		alg = DefaultAlgorithm
	}
	e.algorithm = alg
}

// Options returns the options the engine currently extracts with.
func (e *Engine) Options() Options {
	opts := Options{Scoring: e.scoring}
	switch e.algorithm {
	case AlgorithmGrid:
		opts.Strategy = e.grid
	default:
		opts.Strategy = e.medianCut
	}
	return opts
}

// Extract extracts up to count colours using the engine's configured options.
func (e *Engine) Extract(pixels []byte, width, height, count int) Result {
	return e.ExtractWith(pixels, width, height, count, e.Options())
}

// ExtractWith extracts up to count colours using opts. Invalid input yields an
// empty result; out-of-range settings are clamped.
func (e *Engine) ExtractWith(pixels []byte, width, height, count int, opts Options) Result {
	if !validBuffer(pixels, width, height) {
		e.logger.Debug("invalid pixel buffer", "width", width, "height", height, "bytes", len(pixels))
		return emptyResult()
	}
	count = max(1, count)
	profile := NewScoringProfile(opts.Scoring)

	switch s := opts.Strategy.(type) {
	case GridOptions:
		return e.extractGrid(pixels, width, height, count, s.withDefaults(), profile)
	case *GridOptions:
		if s != nil {
			return e.extractGrid(pixels, width, height, count, s.withDefaults(), profile)
		}
	case MedianCutOptions:
		return e.extractMedianCut(pixels, width, height, count, s.withDefaults(), profile)
	case *MedianCutOptions:
		if s != nil {
			return e.extractMedianCut(pixels, width, height, count, s.withDefaults(), profile)
		}
	}

	return e.extractMedianCut(pixels, width, height, count, DefaultMedianCutOptions(), profile)
}

// extractGrid samples the grid and greedily selects count cells.
func (e *Engine) extractGrid(pixels []byte, width, height, count int, opts GridOptions, profile ScoringProfile) Result {
	candidates := SampleGrid(pixels, width, height, opts.SampleRowCount, opts.SampleColCount, opts.SampleRadius)
	if len(candidates) == 0 {
		return emptyResult()
	}

	pool := make([]RGB, len(candidates))
	for i, c := range candidates {
		pool[i] = c.Color
	}

	picked := SelectColors(pool, count, profile)
	result := Result{
		Colors:        make([]RGB, len(picked)),
		ChosenIndices: make([]int, len(picked)),
	}
	for i, idx := range picked {
		result.Colors[i] = candidates[idx].Color
		result.ChosenIndices[i] = candidates[idx].Index
	}

	e.logger.Trace("grid extraction", "cells", len(candidates), "chosen", len(picked))
	return result
}

// Extract is a convenience wrapper that extracts with a default Engine.
func Extract(pixels []byte, width, height, count int, opts Options) Result {
	return NewEngine(DefaultEngineConfig()).ExtractWith(pixels, width, height, count, opts)
}
