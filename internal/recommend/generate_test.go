package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sitescout/internal/model"
)

func TestRandomSampler_WithinBounds(t *testing.T) {
	g := RandomSampler{Bounds: model.DefaultBounds, Seed: 7}
	coords, err := g.Generate(500)
	require.NoError(t, err)
	require.Len(t, coords, 500)

	for _, c := range coords {
		assert.NoError(t, c.Validate())
		assert.True(t, model.DefaultBounds.Contains(c))
	}
}

func TestRandomSampler_Reproducible(t *testing.T) {
	a, err := RandomSampler{Bounds: model.DefaultBounds, Seed: 42}.Generate(50)
	require.NoError(t, err)
	b, err := RandomSampler{Bounds: model.DefaultBounds, Seed: 42}.Generate(50)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := RandomSampler{Bounds: model.DefaultBounds, Seed: 43}.Generate(50)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestRandomSampler_InvalidCount(t *testing.T) {
	_, err := RandomSampler{Bounds: model.DefaultBounds, Seed: 1}.Generate(0)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	_, err = RandomSampler{Bounds: model.DefaultBounds, Seed: 1}.Generate(-5)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestGridSampler_Deterministic(t *testing.T) {
	g := GridSampler{Bounds: model.DefaultBounds, SpacingDeg: 0.75}

	a, err := g.Generate(100)
	require.NoError(t, err)
	b, err := g.Generate(100)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	for _, c := range a {
		assert.NoError(t, c.Validate())
		assert.True(t, model.DefaultBounds.Contains(c))
	}
}

func TestGridSampler_RowMajorFromSouthwest(t *testing.T) {
	bounds := model.Bounds{MinLat: 50, MaxLat: 51, MinLon: -1, MaxLon: 0}
	coords, err := GridSampler{Bounds: bounds, SpacingDeg: 0.5}.Generate(100)
	require.NoError(t, err)

	// 3 lats x 3 lons.
	require.Len(t, coords, 9)
	assert.Equal(t, model.Coordinate{Latitude: 50, Longitude: -1}, coords[0])
	assert.Equal(t, model.Coordinate{Latitude: 50, Longitude: -0.5}, coords[1])
	assert.Equal(t, model.Coordinate{Latitude: 50.5, Longitude: -1}, coords[3])
}

func TestGridSampler_TruncatesToCount(t *testing.T) {
	coords, err := GridSampler{Bounds: model.DefaultBounds, SpacingDeg: 0.1}.Generate(25)
	require.NoError(t, err)
	assert.Len(t, coords, 25)
}

func TestGridSampler_InvalidSpacing(t *testing.T) {
	_, err := GridSampler{Bounds: model.DefaultBounds, SpacingDeg: 0}.Generate(10)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}
