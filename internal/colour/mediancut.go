package colour

import "math"

const (
	// populationBlend is the share of the final median-cut score that comes from
	// log-scaled swatch population.
	populationBlend = 0.15

	minQuantizedPool = 16
	maxQuantizedPool = 24
)

// quantizedPoolSize returns the number of swatches to request from the
// quantizer for a palette of swatchCount colours.
func quantizedPoolSize(swatchCount, override int) int {
	if override > 0 {
		return override
	}
	return max(swatchCount, min(max(swatchCount*3, minQuantizedPool), maxQuantizedPool))
}

// medianCutCandidate is a de-duplicated quantizer swatch.
type medianCutCandidate struct {
	color      RGB
	population int
}

// extractMedianCut packs and quantizes the buffer, then greedily selects
// swatchCount colours, softly favouring swatches that cover more pixels.
func (e *Engine) extractMedianCut(pixels []byte, width, height, swatchCount int, opts MedianCutOptions, profile ScoringProfile) Result {
	packed := PackPixels(pixels, width, height, opts.MaxQuantizerPixels)
	if len(packed) == 0 {
		e.logger.Debug("no opaque pixels to quantize", "width", width, "height", height)
		return emptyResult()
	}

	poolSize := quantizedPoolSize(swatchCount, opts.QuantizedPoolSize)
	swatches := NewColorCutQuantizer(packed, poolSize, opts.Filters).Swatches()
	candidates := dedupeSwatches(swatches)
	e.logger.Trace("quantized pool", "pixels", len(packed), "target", poolSize, "swatches", len(swatches), "candidates", len(candidates))
	if len(candidates) == 0 {
		return emptyResult()
	}

	pool := make([]RGB, len(candidates))
	maxPopulation := 0
	for i, c := range candidates {
		pool[i] = c.color
		maxPopulation = max(maxPopulation, c.population)
	}

	rarity := BuildHueRarityMap(pool)
	picked := selectGreedy(pool, swatchCount, func(i int, chosen []RGB) float64 {
		base := ScoreCandidate(pool[i], chosen, rarity, profile)
		return (1-populationBlend)*base + populationBlend*populationScore(candidates[i].population, maxPopulation)
	})

	colors := make([]RGB, len(picked))
	for i, idx := range picked {
		colors[i] = pool[idx]
	}

	return Result{Colors: colors, ChosenIndices: []int{}}
}

// populationScore maps population onto [0, 1] on a log scale relative to the
// largest swatch in the pool.
func populationScore(population, maxPopulation int) float64 {
	if maxPopulation <= 0 || population <= 0 {
		return 0
	}
	return clamp01(math.Log1p(float64(population)) / math.Log1p(float64(maxPopulation)))
}

// dedupeSwatches merges swatches with identical colours, summing their
// populations and keeping first-seen order.
func dedupeSwatches(swatches []Swatch) []medianCutCandidate {
	candidates := make([]medianCutCandidate, 0, len(swatches))
	seen := make(map[RGB]int, len(swatches))
	for _, s := range swatches {
		c := s.Color()
		if i, ok := seen[c]; ok {
			candidates[i].population += s.Population
			continue
		}
		seen[c] = len(candidates)
		candidates = append(candidates, medianCutCandidate{color: c, population: s.Population})
	}
	return candidates
}
