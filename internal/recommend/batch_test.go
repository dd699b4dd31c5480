package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sitescout/internal/layers"
	"github.com/sells-group/sitescout/internal/model"
	"github.com/sells-group/sitescout/internal/scoring"
)

func TestChunk(t *testing.T) {
	coords := make([]model.Coordinate, 10)
	for i := range coords {
		coords[i] = model.Coordinate{Latitude: float64(i)}
	}

	chunks := Chunk(coords, 4)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 4)
	assert.Len(t, chunks[1], 4)
	assert.Len(t, chunks[2], 2)

	// Order preserved across chunk boundaries.
	assert.Equal(t, coords[4], chunks[1][0])
	assert.Equal(t, coords[9], chunks[2][1])
}

func TestChunk_Empty(t *testing.T) {
	assert.Nil(t, Chunk(nil, 4))
}

func TestChunk_DefaultSize(t *testing.T) {
	coords := make([]model.Coordinate, DefaultChunkSize+1)
	chunks := Chunk(coords, 0)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], DefaultChunkSize)
}

func scoringFixture() (*scoring.ProximityScorer, scoring.Weights) {
	features := []model.Feature{
		{Coordinate: model.Coordinate{Latitude: 57.15, Longitude: -2.10}, Layer: model.LayerSubstation},
		{Coordinate: model.Coordinate{Latitude: 57.10, Longitude: -2.00}, Layer: model.LayerTransmission},
		{Coordinate: model.Coordinate{Latitude: 57.05, Longitude: -2.05}, Layer: model.LayerFiber},
		{Coordinate: model.Coordinate{Latitude: 57.20, Longitude: -2.02}, Layer: model.LayerIXP},
		{Coordinate: model.Coordinate{Latitude: 57.12, Longitude: -2.15}, Layer: model.LayerWater},
	}
	set := layers.NewSet(features, layers.DefaultCellKM)
	return scoring.NewProximityScorer(set, nil), scoring.DefaultWeights()
}

func TestPool_PreservesCandidateOrder(t *testing.T) {
	scorer, weights := scoringFixture()

	coords, err := RandomSampler{Bounds: model.DefaultBounds, Seed: 11}.Generate(100)
	require.NoError(t, err)

	pool := Pool{ChunkSize: 7, Workers: 4}
	results, err := pool.Score(context.Background(), scorer, weights, coords)
	require.NoError(t, err)
	require.Len(t, results, 100)

	for i, r := range results {
		assert.Equal(t, coords[i], r.Coordinate)
		assert.Len(t, r.FeatureScores, 5)
		assert.GreaterOrEqual(t, r.CompositeScore, 0.0)
		assert.LessOrEqual(t, r.CompositeScore, scoring.MaxScore)
	}
}

func TestPool_MatchesSequentialScoring(t *testing.T) {
	scorer, weights := scoringFixture()

	coords, err := RandomSampler{Bounds: model.DefaultBounds, Seed: 23}.Generate(60)
	require.NoError(t, err)

	parallel, err := Pool{ChunkSize: 8, Workers: 6}.Score(context.Background(), scorer, weights, coords)
	require.NoError(t, err)

	sequential, err := Pool{ChunkSize: len(coords), Workers: 1}.Score(context.Background(), scorer, weights, coords)
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestPool_CancelledContext(t *testing.T) {
	scorer, weights := scoringFixture()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	coords, err := RandomSampler{Bounds: model.DefaultBounds, Seed: 5}.Generate(50)
	require.NoError(t, err)

	_, err = Pool{ChunkSize: 10, Workers: 2}.Score(ctx, scorer, weights, coords)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPool_EmptyInput(t *testing.T) {
	scorer, weights := scoringFixture()
	results, err := Pool{}.Score(context.Background(), scorer, weights, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
