package layers

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/sitescout/internal/model"
)

// Set is the process-wide collection of per-layer spatial indexes. It is
// built once at startup, never mutated afterwards, and shared read-only
// across concurrent requests.
type Set struct {
	indexes map[model.Layer]*Index
}

// NewSet partitions features by layer and indexes each partition. Features
// with an unknown layer tag are dropped with a warning.
func NewSet(features []model.Feature, cellKM float64) *Set {
	byLayer := make(map[model.Layer][]model.Coordinate, len(model.Layers))
	dropped := 0
	for _, f := range features {
		if _, err := model.ParseLayer(string(f.Layer)); err != nil {
			dropped++
			continue
		}
		byLayer[f.Layer] = append(byLayer[f.Layer], f.Coordinate)
	}
	if dropped > 0 {
		zap.L().Warn("dropped features with unknown layer", zap.Int("count", dropped))
	}

	indexes := make(map[model.Layer]*Index, len(model.Layers))
	for _, l := range model.Layers {
		indexes[l] = NewIndex(byLayer[l], cellKM)
	}
	return &Set{indexes: indexes}
}

// Nearest returns the distance in kilometers from c to the closest feature in
// the layer. ok is false when the layer has no features.
func (s *Set) Nearest(layer model.Layer, c model.Coordinate) (distKM float64, ok bool) {
	idx, found := s.indexes[layer]
	if !found {
		return math.Inf(1), false
	}
	return idx.Nearest(c)
}

// Count returns the number of features indexed for a layer.
func (s *Set) Count(layer model.Layer) int {
	idx, found := s.indexes[layer]
	if !found {
		return 0
	}
	return idx.Len()
}

// Counts returns per-layer feature counts in canonical layer order.
func (s *Set) Counts() map[model.Layer]int {
	counts := make(map[model.Layer]int, len(model.Layers))
	for _, l := range model.Layers {
		counts[l] = s.Count(l)
	}
	return counts
}

// MissingLayers returns the layers that have zero reference features.
func (s *Set) MissingLayers() []model.Layer {
	var missing []model.Layer
	for _, l := range model.Layers {
		if s.Count(l) == 0 {
			missing = append(missing, l)
		}
	}
	return missing
}

// Total returns the total number of indexed features across all layers.
func (s *Set) Total() int {
	total := 0
	for _, l := range model.Layers {
		total += s.Count(l)
	}
	return total
}
