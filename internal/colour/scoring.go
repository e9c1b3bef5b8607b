package colour

import "math"

const (
	// greySaturation is the saturation below which a colour counts as grey and
	// takes no part in hue rarity.
	greySaturation = 0.08

	hueBucketCount   = 12
	hueBucketDegrees = 360 / hueBucketCount
)

// ScoringWeights are the raw, unnormalised weights of the four scoring criteria.
type ScoringWeights struct {
	Chroma     float64 `json:"chroma"`
	LumaSpread float64 `json:"lumaSpread"`
	Rarity     float64 `json:"rarity"`
	Diversity  float64 `json:"diversity"`
}

// DefaultScoringWeights returns the default weight distribution.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Chroma:     25,
		LumaSpread: 15,
		Rarity:     20,
		Diversity:  40,
	}
}

// ScoringProfile holds scoring weights normalised to sum to 1.
type ScoringProfile struct {
	Chroma     float64
	LumaSpread float64
	Rarity     float64
	Diversity  float64
}

// NewScoringProfile normalises w. Negative, NaN and infinite weights count as
// zero; if nothing usable remains the default weights are used instead.
func NewScoringProfile(w ScoringWeights) ScoringProfile {
	chroma := sanitizeWeight(w.Chroma)
	luma := sanitizeWeight(w.LumaSpread)
	rarity := sanitizeWeight(w.Rarity)
	diversity := sanitizeWeight(w.Diversity)

	// Scale by the largest weight first so the sum cannot overflow.
	if largest := max(chroma, luma, rarity, diversity); largest > 0 {
		chroma, luma, rarity, diversity = chroma/largest, luma/largest, rarity/largest, diversity/largest
	}

	total := chroma + luma + rarity + diversity
	if total <= 0 {
		d := DefaultScoringWeights()
		chroma, luma, rarity, diversity = d.Chroma, d.LumaSpread, d.Rarity, d.Diversity
		total = chroma + luma + rarity + diversity
	}

	return ScoringProfile{
		Chroma:     chroma / total,
		LumaSpread: luma / total,
		Rarity:     rarity / total,
		Diversity:  diversity / total,
	}
}

func sanitizeWeight(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// RarityMap is a 30° hue histogram over a candidate pool. Grey candidates are
// not counted.
type RarityMap struct {
	Buckets  [hueBucketCount]int
	MaxCount int
}

// BuildHueRarityMap counts the chromatic candidates of pool per hue bucket.
func BuildHueRarityMap(pool []RGB) RarityMap {
	var m RarityMap
	for _, c := range pool {
		hsl := c.HSL()
		if hsl.S < greySaturation {
			continue
		}
		b := hueBucket(hsl.H)
		m.Buckets[b]++
		m.MaxCount = max(m.MaxCount, m.Buckets[b])
	}
	return m
}

func hueBucket(h float64) int {
	b := int(math.Floor(h/hueBucketDegrees)) % hueBucketCount
	if b < 0 {
		b += hueBucketCount
	}
	return b
}

// rarity scores how underrepresented the hue of hsl is. Grey scores 0; a hue
// bucket the pool never filled scores 1.
func (m RarityMap) rarity(hsl HSL) float64 {
	if hsl.S < greySaturation {
		return 0
	}
	if m.MaxCount == 0 {
		return 1
	}
	return clamp01(1 - float64(m.Buckets[hueBucket(hsl.H)])/float64(m.MaxCount))
}

// ScoreCandidate scores c against the colours already chosen and the pool's hue
// distribution. The result is in [0, 1].
func ScoreCandidate(c RGB, chosen []RGB, rarity RarityMap, profile ScoringProfile) float64 {
	hsl := c.HSL()

	chroma := clamp01(hsl.S)
	lumaSpread := clamp01(math.Abs(hsl.L-0.5) / 0.5)

	return profile.Chroma*chroma +
		profile.LumaSpread*lumaSpread +
		profile.Rarity*rarity.rarity(hsl) +
		profile.Diversity*diversity(c, chosen)
}

// diversity is the distance from c to the nearest chosen colour, normalised to
// [0, 1]. It is 0 while nothing has been chosen.
func diversity(c RGB, chosen []RGB) float64 {
	if len(chosen) == 0 {
		return 0
	}
	nearest := math.Inf(1)
	for _, o := range chosen {
		nearest = min(nearest, Distance(c, o))
	}
	return clamp01(nearest / maxRGBDistance)
}

// SelectColors greedily picks up to count colours from pool and returns their
// pool indices in pick order.
func SelectColors(pool []RGB, count int, profile ScoringProfile) []int {
	rarity := BuildHueRarityMap(pool)
	return selectGreedy(pool, count, func(i int, chosen []RGB) float64 {
		return ScoreCandidate(pool[i], chosen, rarity, profile)
	})
}

// selectGreedy runs min(count, len(pool)) rounds. Each round scores every unused
// candidate against the colours chosen so far and takes the strict maximum; the
// first candidate seen wins ties.
func selectGreedy(pool []RGB, count int, score func(i int, chosen []RGB) float64) []int {
	pick := min(count, len(pool))
	if pick <= 0 {
		return []int{}
	}

	used := make([]bool, len(pool))
	chosen := make([]RGB, 0, pick)
	picked := make([]int, 0, pick)

	for range pick {
		best := -1
		bestScore := math.Inf(-1)
		for i := range pool {
			if used[i] {
				continue
			}
			if s := score(i, chosen); s > bestScore || best < 0 {
				best, bestScore = i, s
			}
		}
		used[best] = true
		chosen = append(chosen, pool[best])
		picked = append(picked, best)
	}

	return picked
}
