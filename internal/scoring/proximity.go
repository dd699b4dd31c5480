// Package scoring converts nearest-feature distances into bounded per-layer
// scores and combines them into a weighted composite.
package scoring

import (
	"math"

	"github.com/sells-group/sitescout/internal/layers"
	"github.com/sells-group/sitescout/internal/model"
)

// MaxScore is the upper bound of every per-layer and composite score.
const MaxScore = 10.0

// DefaultDecayKM holds the per-layer e-folding distances for the exponential
// decay score. Calibration: a candidate on top of a feature scores 10; at one
// decay length it scores ~3.7; by three decay lengths it is under 0.5. Power
// layers decay fastest because long private feeder builds dominate cost;
// IXP proximity matters at metro scale, so it decays slowest.
var DefaultDecayKM = map[model.Layer]float64{
	model.LayerSubstation:   15,
	model.LayerTransmission: 20,
	model.LayerFiber:        25,
	model.LayerIXP:          50,
	model.LayerWater:        10,
}

// ProximityScorer scores locations against the shared read-only layer set.
// It is a pure function of its inputs and safe for concurrent use.
type ProximityScorer struct {
	set   *layers.Set
	decay map[model.Layer]float64
}

// NewProximityScorer creates a scorer over the given layer set. A nil decay
// map uses DefaultDecayKM; non-positive entries fall back per layer.
func NewProximityScorer(set *layers.Set, decay map[model.Layer]float64) *ProximityScorer {
	merged := make(map[model.Layer]float64, len(model.Layers))
	for _, l := range model.Layers {
		merged[l] = DefaultDecayKM[l]
		if decay != nil && decay[l] > 0 {
			merged[l] = decay[l]
		}
	}
	return &ProximityScorer{set: set, decay: merged}
}

// ScoreLayer finds the distance from c to the nearest feature in the layer
// and converts it to a decay score. A layer with no reference features yields
// score 0 and distance +Inf; that is a degraded result, not an error.
func (p *ProximityScorer) ScoreLayer(c model.Coordinate, layer model.Layer) model.FeatureScore {
	dist, ok := p.set.Nearest(layer, c)
	if !ok {
		return model.FeatureScore{DistanceKM: math.Inf(1), Score: 0}
	}

	score := MaxScore * math.Exp(-dist/p.decay[layer])
	if score > MaxScore {
		score = MaxScore
	}
	if score < 0 {
		score = 0
	}
	return model.FeatureScore{DistanceKM: dist, Score: score}
}

// ScoreAll scores c against every layer.
func (p *ProximityScorer) ScoreAll(c model.Coordinate) map[model.Layer]model.FeatureScore {
	scores := make(map[model.Layer]model.FeatureScore, len(model.Layers))
	for _, l := range model.Layers {
		scores[l] = p.ScoreLayer(c, l)
	}
	return scores
}
