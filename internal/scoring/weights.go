package scoring

import (
	"math"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/sitescout/internal/model"
)

// weightEpsilon is the tolerance when checking that weights sum to 1.0.
const weightEpsilon = 1e-6

// Weights holds the per-layer contribution to the composite score. A valid
// set is non-negative and sums to 1.0 within epsilon.
type Weights struct {
	Substation   float64 `yaml:"substation" json:"substation" mapstructure:"substation"`
	Transmission float64 `yaml:"transmission" json:"transmission" mapstructure:"transmission"`
	Fiber        float64 `yaml:"fiber" json:"fiber" mapstructure:"fiber"`
	IXP          float64 `yaml:"ixp" json:"ixp" mapstructure:"ixp"`
	Water        float64 `yaml:"water" json:"water" mapstructure:"water"`
}

// DefaultWeights returns the standard weighting: power access dominates,
// network second, water a small tiebreaker.
func DefaultWeights() Weights {
	return Weights{
		Substation:   0.30,
		Transmission: 0.25,
		Fiber:        0.25,
		IXP:          0.15,
		Water:        0.05,
	}
}

// personas are the built-in deployment-profile presets.
var personas = map[string]Weights{
	"hyperscale": {
		Substation:   0.35,
		Transmission: 0.30,
		Fiber:        0.20,
		IXP:          0.10,
		Water:        0.05,
	},
	"edge": {
		Substation:   0.20,
		Transmission: 0.15,
		Fiber:        0.30,
		IXP:          0.30,
		Water:        0.05,
	},
}

// Persona returns a built-in weight preset by name. Empty name returns the
// defaults.
func Persona(name string) (Weights, error) {
	if name == "" {
		return DefaultWeights(), nil
	}
	w, ok := personas[strings.ToLower(name)]
	if !ok {
		return Weights{}, eris.Wrapf(model.ErrInvalidConfiguration,
			"scoring: unknown persona %q (have: %s)", name, strings.Join(personaNames(), ", "))
	}
	return w, nil
}

func personaNames() []string {
	names := make([]string, 0, len(personas))
	for n := range personas {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// get returns the weight for a layer.
func (w Weights) get(layer model.Layer) float64 {
	switch layer {
	case model.LayerSubstation:
		return w.Substation
	case model.LayerTransmission:
		return w.Transmission
	case model.LayerFiber:
		return w.Fiber
	case model.LayerIXP:
		return w.IXP
	case model.LayerWater:
		return w.Water
	default:
		return 0
	}
}

// Sum returns the total of all layer weights.
func (w Weights) Sum() float64 {
	return w.Substation + w.Transmission + w.Fiber + w.IXP + w.Water
}

// Validate checks non-negativity and that the weights sum to 1.0 ± epsilon.
func (w Weights) Validate() error {
	for _, l := range model.Layers {
		if w.get(l) < 0 {
			return eris.Wrapf(model.ErrInvalidConfiguration, "scoring: negative weight for %s", l)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightEpsilon {
		return eris.Wrapf(model.ErrInvalidConfiguration, "scoring: weights sum to %.6f, want 1.0", sum)
	}
	return nil
}

// Merge applies per-layer overrides on top of w. Unspecified layers keep
// their current value; unknown layer names fail. The merged result is
// re-validated by the caller.
func (w Weights) Merge(overrides map[string]float64) (Weights, error) {
	merged := w
	for name, v := range overrides {
		layer, err := model.ParseLayer(name)
		if err != nil {
			return Weights{}, err
		}
		switch layer {
		case model.LayerSubstation:
			merged.Substation = v
		case model.LayerTransmission:
			merged.Transmission = v
		case model.LayerFiber:
			merged.Fiber = v
		case model.LayerIXP:
			merged.IXP = v
		case model.LayerWater:
			merged.Water = v
		}
	}
	return merged, nil
}

// Composite computes the weighted sum of the per-layer scores. With a valid
// weight set the result stays in [0, MaxScore].
func (w Weights) Composite(scores map[model.Layer]model.FeatureScore) float64 {
	total := 0.0
	for _, l := range model.Layers {
		total += w.get(l) * scores[l].Score
	}
	return total
}

// LoadProfiles reads additional named weight profiles from a YAML file:
//
//	profiles:
//	  coastal:
//	    substation: 0.25
//	    ...
//
// Every profile is validated before being returned.
func LoadProfiles(path string) (map[string]Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scoring: read profiles %s", path)
	}

	var wrapper struct {
		Profiles map[string]Weights `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "scoring: parse profiles")
	}

	for name, w := range wrapper.Profiles {
		if err := w.Validate(); err != nil {
			return nil, eris.Wrapf(err, "scoring: profile %q", name)
		}
	}
	return wrapper.Profiles, nil
}
