package recommend

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sitescout/internal/model"
)

// Rank computes each candidate's percentile rank within the pool, marks
// candidates at or above the threshold as recommended, sorts descending by
// composite score (original candidate order breaks ties), and returns the
// first topN. topN larger than the pool is clamped, not fatal.
func Rank(results []model.CompositeResult, threshold float64, topN int) ([]model.CompositeResult, error) {
	if len(results) == 0 {
		return nil, eris.Wrap(model.ErrInvalidParameter, "recommend: no candidates to rank")
	}
	if topN <= 0 {
		return nil, eris.Wrapf(model.ErrInvalidParameter, "recommend: top_n %d must be positive", topN)
	}
	if topN > len(results) {
		topN = len(results)
	}

	// Percentile rank: fraction of the pool scoring strictly lower, scaled
	// to 0-100. Ties share the same rank.
	sorted := make([]float64, len(results))
	for i, r := range results {
		sorted[i] = r.CompositeScore
	}
	sort.Float64s(sorted)

	ranked := make([]model.CompositeResult, len(results))
	copy(ranked, results)
	for i := range ranked {
		lower := sort.SearchFloat64s(sorted, ranked[i].CompositeScore)
		ranked[i].PercentileRank = float64(lower) / float64(len(ranked)) * 100
		ranked[i].Recommended = ranked[i].CompositeScore >= threshold
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CompositeScore > ranked[j].CompositeScore
	})

	return ranked[:topN], nil
}
