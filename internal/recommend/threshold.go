// Package recommend implements the candidate-ranking pipeline: threshold
// estimation from known-good sites, candidate generation, chunked scoring,
// and final ranking.
package recommend

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sitescout/internal/model"
)

// thresholdPercentile is the acceptance percentile over existing-location
// composite scores. A quarter of known-good sites may fall below their own
// threshold; candidates are held to the same bar.
const thresholdPercentile = 25.0

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between order statistics. An empty input is an
// InvalidParameter error.
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, eris.Wrap(model.ErrInvalidParameter, "recommend: percentile of empty set")
	}
	if p < 0 || p > 100 {
		return 0, eris.Wrapf(model.ErrInvalidParameter, "recommend: percentile %.2f out of range", p)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac, nil
}

// EstimateThreshold computes the acceptance threshold from the composite
// scores of existing locations. With fewer than ~4 samples the percentile
// degenerates toward the minimum; that is accepted behavior.
func EstimateThreshold(existingScores []float64) (float64, error) {
	t, err := Percentile(existingScores, thresholdPercentile)
	if err != nil {
		return 0, eris.Wrap(err, "recommend: estimate threshold")
	}
	return t, nil
}
