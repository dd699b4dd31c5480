package layers

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sitescout/internal/geodist"
	"github.com/sells-group/sitescout/internal/model"
)

func randomPoints(rng *rand.Rand, n int, b model.Bounds) []model.Coordinate {
	points := make([]model.Coordinate, n)
	for i := range points {
		points[i] = model.Coordinate{
			Latitude:  b.MinLat + rng.Float64()*(b.MaxLat-b.MinLat),
			Longitude: b.MinLon + rng.Float64()*(b.MaxLon-b.MinLon),
		}
	}
	return points
}

func bruteNearest(c model.Coordinate, points []model.Coordinate) float64 {
	best := math.Inf(1)
	for _, p := range points {
		if d := geodist.Haversine(c, p); d < best {
			best = d
		}
	}
	return best
}

func TestIndex_NearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	points := randomPoints(rng, 500, model.DefaultBounds)
	idx := NewIndex(points, DefaultCellKM)

	queries := randomPoints(rng, 200, model.DefaultBounds)
	for _, q := range queries {
		got, ok := idx.Nearest(q)
		require.True(t, ok)
		want := bruteNearest(q, points)
		assert.InDelta(t, want, got, 1e-9)
	}
}

func TestIndex_Empty(t *testing.T) {
	idx := NewIndex(nil, DefaultCellKM)
	d, ok := idx.Nearest(model.Coordinate{Latitude: 57, Longitude: -2})
	assert.False(t, ok)
	assert.True(t, math.IsInf(d, 1))
	assert.Zero(t, idx.Len())
}

func TestIndex_CoincidentPoint(t *testing.T) {
	p := model.Coordinate{Latitude: 57.1437, Longitude: -2.0981}
	idx := NewIndex([]model.Coordinate{p}, DefaultCellKM)

	d, ok := idx.Nearest(p)
	require.True(t, ok)
	assert.Zero(t, d)
}

func TestIndex_SinglePointFarAway(t *testing.T) {
	// The only point is many rings away from the query cell; the ring search
	// must still find it.
	p := model.Coordinate{Latitude: 60.0, Longitude: 1.5}
	idx := NewIndex([]model.Coordinate{p}, DefaultCellKM)

	q := model.Coordinate{Latitude: 50.0, Longitude: -7.0}
	d, ok := idx.Nearest(q)
	require.True(t, ok)
	assert.InDelta(t, geodist.Haversine(q, p), d, 1e-9)
}

func TestIndex_AntimeridianNeighbor(t *testing.T) {
	// A distracting point on the near side must not mask a feature sitting
	// just across the antimeridian.
	points := []model.Coordinate{
		{Latitude: 0, Longitude: 179.95},
		{Latitude: 10, Longitude: -100},
	}
	idx := NewIndex(points, DefaultCellKM)

	q := model.Coordinate{Latitude: 0, Longitude: -179.95}
	d, ok := idx.Nearest(q)
	require.True(t, ok)
	assert.InDelta(t, bruteNearest(q, points), d, 1e-9)
	// Both sides are ~0.05 degrees of longitude from the seam.
	assert.Less(t, d, 15.0)
}

func TestIndex_AntimeridianBothDirections(t *testing.T) {
	points := []model.Coordinate{{Latitude: -5, Longitude: -179.8}}
	idx := NewIndex(points, DefaultCellKM)

	q := model.Coordinate{Latitude: -5, Longitude: 179.8}
	d, ok := idx.Nearest(q)
	require.True(t, ok)
	assert.InDelta(t, geodist.Haversine(q, points[0]), d, 1e-9)
}

func TestIndex_DefaultCellSizeFallback(t *testing.T) {
	points := []model.Coordinate{{Latitude: 51, Longitude: 0}}
	idx := NewIndex(points, 0)
	d, ok := idx.Nearest(model.Coordinate{Latitude: 51.1, Longitude: 0})
	require.True(t, ok)
	assert.Greater(t, d, 0.0)
}
