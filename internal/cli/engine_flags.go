package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/palettecam/internal/colour"
)

// engineFlags holds the extraction settings shared by extract and session.
type engineFlags struct {
	algorithm     string
	swatches      int
	rows          int
	cols          int
	radius        int
	poolSize      int
	maxPixels     int
	defaultFilter bool
	weights       colour.ScoringWeights
}

func (f *engineFlags) register(fs *pflag.FlagSet, defaultSwatches int) {
	d := colour.DefaultScoringWeights()

	fs.StringVarP(&f.algorithm, "algorithm", "a", envString(envAlgorithm, string(colour.DefaultAlgorithm)), "extraction algorithm (grid, median-cut)")
	fs.IntVarP(&f.swatches, "swatches", "n", envInt(envSwatches, defaultSwatches), "number of palette colours (minimum 1)")
	fs.IntVar(&f.rows, "grid-rows", colour.DefaultSampleRowCount, "grid sample rows")
	fs.IntVar(&f.cols, "grid-cols", colour.DefaultSampleColCount, "grid sample columns")
	fs.IntVar(&f.radius, "grid-radius", colour.DefaultSampleRadius, "grid block radius in pixels (0 samples single pixels)")
	fs.IntVar(&f.poolSize, "pool-size", 0, "quantized pool size (0 derives it from --swatches)")
	fs.IntVar(&f.maxPixels, "max-pixels", colour.DefaultMaxQuantizerPixels, "pixel budget for the quantizer")
	fs.BoolVar(&f.defaultFilter, "filter", false, "drop near-black, near-white and skin-tone swatches")
	fs.Float64Var(&f.weights.Chroma, "weight-chroma", d.Chroma, "scoring weight for saturation")
	fs.Float64Var(&f.weights.LumaSpread, "weight-luma", d.LumaSpread, "scoring weight for distance from mid-grey")
	fs.Float64Var(&f.weights.Rarity, "weight-rarity", d.Rarity, "scoring weight for underrepresented hues")
	fs.Float64Var(&f.weights.Diversity, "weight-diversity", d.Diversity, "scoring weight for distance from chosen colours")
}

// validate rejects settings the user most likely mistyped. The engine would
// clamp them silently.
func (f *engineFlags) validate() error {
	if _, err := colour.ParseAlgorithm(f.algorithm); err != nil {
		return err
	}
	if f.swatches < 1 {
		return fmt.Errorf("swatch count must be at least 1, got %d", f.swatches)
	}
	if f.swatches > 256 {
		return fmt.Errorf("swatch count too large: %d (maximum: 256)", f.swatches)
	}
	if f.rows < 1 || f.cols < 1 || f.radius < 0 {
		return fmt.Errorf("invalid grid %dx%d with radius %d", f.rows, f.cols, f.radius)
	}
	if f.poolSize < 0 || f.maxPixels < 1 {
		return fmt.Errorf("invalid median-cut settings: pool size %d, max pixels %d", f.poolSize, f.maxPixels)
	}
	return nil
}

// newEngine validates the flags and builds an engine from them.
func (f *engineFlags) newEngine(logger hclog.Logger) (*colour.Engine, error) {
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	alg, _ := colour.ParseAlgorithm(f.algorithm)

	medianCut := colour.MedianCutOptions{
		QuantizedPoolSize:  f.poolSize,
		MaxQuantizerPixels: f.maxPixels,
	}
	if f.defaultFilter {
		medianCut.Filters = []colour.Filter{colour.DefaultFilter}
	}

	radius := f.radius
	if radius == 0 {
		radius = colour.SinglePixelRadius
	}

	return colour.NewEngine(colour.EngineConfig{
		Algorithm: alg,
		Grid: colour.GridOptions{
			SampleRowCount: f.rows,
			SampleColCount: f.cols,
			SampleRadius:   radius,
		},
		MedianCut: medianCut,
		Scoring:   f.weights,
		Logger:    logger.Named("engine"),
	}), nil
}
