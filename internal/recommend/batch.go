package recommend

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/sitescout/internal/model"
	"github.com/sells-group/sitescout/internal/scoring"
)

const (
	// DefaultChunkSize bounds per-chunk latency and memory as candidate
	// counts grow into the thousands.
	DefaultChunkSize = 250

	// DefaultWorkers is the fan-out limit for concurrent chunk scoring.
	DefaultWorkers = 4
)

// Chunk splits coords into consecutive slices of at most size elements,
// preserving order. The returned slices alias the input.
func Chunk(coords []model.Coordinate, size int) [][]model.Coordinate {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var chunks [][]model.Coordinate
	for start := 0; start < len(coords); start += size {
		end := min(start+size, len(coords))
		chunks = append(chunks, coords[start:end])
	}
	return chunks
}

// Pool scores candidate chunks on a bounded worker pool. Chunks are
// independent pure computations over the shared read-only layer set; each
// worker writes only its own slice of the result, so candidate order is
// preserved regardless of scheduling.
type Pool struct {
	ChunkSize int
	Workers   int
}

// Score runs the per-layer and composite scoring for every candidate,
// fanning chunks out to the pool and fanning results back in.
func (p Pool) Score(ctx context.Context, scorer *scoring.ProximityScorer, weights scoring.Weights, coords []model.Coordinate) ([]model.CompositeResult, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]model.CompositeResult, len(coords))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	offset := 0
	for _, chunk := range Chunk(coords, p.ChunkSize) {
		chunk := chunk
		chunkOffset := offset
		offset += len(chunk)

		g.Go(func() error {
			for i, c := range chunk {
				if err := gctx.Err(); err != nil {
					return err
				}
				scores := scorer.ScoreAll(c)
				results[chunkOffset+i] = model.CompositeResult{
					Coordinate:     c,
					FeatureScores:  scores,
					CompositeScore: weights.Composite(scores),
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
