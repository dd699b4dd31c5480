package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sitescout/internal/model"
)

func TestPercentile_LinearInterpolation(t *testing.T) {
	scores := []float64{2, 4, 6, 8, 10}

	p25, err := Percentile(scores, 25)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, p25, 1e-9)

	p50, err := Percentile(scores, 50)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, p50, 1e-9)

	p0, err := Percentile(scores, 0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p0, 1e-9)

	p100, err := Percentile(scores, 100)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, p100, 1e-9)
}

func TestPercentile_InterpolatesBetweenOrderStatistics(t *testing.T) {
	// rank = 0.25 * 3 = 0.75 -> between 1 and 3.
	p, err := Percentile([]float64{1, 3, 5, 7}, 25)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, p, 1e-9)
}

func TestPercentile_UnsortedInput(t *testing.T) {
	p, err := Percentile([]float64{10, 2, 8, 4, 6}, 25)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, p, 1e-9)
}

func TestPercentile_Errors(t *testing.T) {
	_, err := Percentile(nil, 25)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	_, err = Percentile([]float64{1}, -1)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	_, err = Percentile([]float64{1}, 101)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestEstimateThreshold(t *testing.T) {
	threshold, err := EstimateThreshold([]float64{2, 4, 6, 8, 10})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, threshold, 1e-9)
}

func TestEstimateThreshold_SingleSample(t *testing.T) {
	// Degenerates to the only value; accepted behavior, not an error.
	threshold, err := EstimateThreshold([]float64{7.5})
	require.NoError(t, err)
	assert.InDelta(t, 7.5, threshold, 1e-9)
}

func TestEstimateThreshold_FewSamplesDegeneratesTowardMin(t *testing.T) {
	threshold, err := EstimateThreshold([]float64{3, 9})
	require.NoError(t, err)
	assert.InDelta(t, 4.5, threshold, 1e-9)
	assert.Less(t, threshold, 6.0)
}

func TestEstimateThreshold_Empty(t *testing.T) {
	_, err := EstimateThreshold(nil)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}
