package recommend

import (
	"math/rand/v2"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sitescout/internal/model"
)

// Generator produces candidate coordinates inside a bounding region. Every
// generated coordinate satisfies the coordinate invariant and lies within
// the generator's bounds.
type Generator interface {
	Generate(n int) ([]model.Coordinate, error)
}

// RandomSampler generates candidates by uniform sampling within its bounds.
// The seed makes a run reproducible; two samplers with the same seed and
// bounds produce identical candidates.
type RandomSampler struct {
	Bounds model.Bounds
	Seed   uint64
}

// Generate implements Generator.
func (g RandomSampler) Generate(n int) ([]model.Coordinate, error) {
	if n <= 0 {
		return nil, eris.Wrapf(model.ErrInvalidParameter, "recommend: num_candidates %d must be positive", n)
	}
	if err := g.Bounds.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(g.Seed, g.Seed^0x9e3779b97f4a7c15))
	out := make([]model.Coordinate, n)
	for i := range out {
		out[i] = model.Coordinate{
			Latitude:  g.Bounds.MinLat + rng.Float64()*(g.Bounds.MaxLat-g.Bounds.MinLat),
			Longitude: g.Bounds.MinLon + rng.Float64()*(g.Bounds.MaxLon-g.Bounds.MinLon),
		}
	}
	return out, nil
}

// GridSampler generates candidates on a regular lat/lon grid with the given
// spacing in degrees, row-major from the southwest corner. It is fully
// deterministic: the same bounds and spacing always yield the same points.
type GridSampler struct {
	Bounds     model.Bounds
	SpacingDeg float64
}

// Generate implements Generator. It returns at most n points; a coarse grid
// over small bounds may yield fewer.
func (g GridSampler) Generate(n int) ([]model.Coordinate, error) {
	if n <= 0 {
		return nil, eris.Wrapf(model.ErrInvalidParameter, "recommend: num_candidates %d must be positive", n)
	}
	if g.SpacingDeg <= 0 {
		return nil, eris.Wrapf(model.ErrInvalidParameter, "recommend: grid spacing %.4f must be positive", g.SpacingDeg)
	}
	if err := g.Bounds.Validate(); err != nil {
		return nil, err
	}

	var out []model.Coordinate
	for lat := g.Bounds.MinLat; lat <= g.Bounds.MaxLat; lat += g.SpacingDeg {
		for lon := g.Bounds.MinLon; lon <= g.Bounds.MaxLon; lon += g.SpacingDeg {
			out = append(out, model.Coordinate{Latitude: lat, Longitude: lon})
			if len(out) == n {
				return out, nil
			}
		}
	}
	return out, nil
}
