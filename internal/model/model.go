// Package model defines the core data types shared across the sitescout
// scoring pipeline: coordinates, infrastructure layers and features, and the
// per-candidate scoring results.
package model

import (
	"math"

	"github.com/rotisserie/eris"
)

// Sentinel errors for the scoring pipeline. Callers match them with eris.Is.
var (
	// ErrInvalidCoordinate indicates a malformed or non-finite lat/lon pair.
	ErrInvalidCoordinate = eris.New("invalid coordinate")

	// ErrInvalidConfiguration indicates weights that do not sum to 1.0 or an
	// unknown layer name.
	ErrInvalidConfiguration = eris.New("invalid configuration")

	// ErrInvalidParameter indicates a non-positive count or other bad request
	// parameter.
	ErrInvalidParameter = eris.New("invalid parameter")

	// ErrMissingReferenceData indicates a layer with zero reference features.
	// It degrades that layer's score to zero; it never aborts a request.
	ErrMissingReferenceData = eris.New("missing reference data")

	// ErrUpstreamUnavailable indicates the reference data could not be loaded
	// at all. This is fatal for the request.
	ErrUpstreamUnavailable = eris.New("reference data unavailable")
)

// Layer identifies one infrastructure category.
type Layer string

const (
	LayerSubstation   Layer = "substation"
	LayerTransmission Layer = "transmission"
	LayerFiber        Layer = "fiber"
	LayerIXP          Layer = "ixp"
	LayerWater        Layer = "water"
)

// Layers lists all infrastructure layers in canonical order.
var Layers = []Layer{
	LayerSubstation,
	LayerTransmission,
	LayerFiber,
	LayerIXP,
	LayerWater,
}

// ParseLayer converts a string to a Layer, rejecting unknown names.
func ParseLayer(s string) (Layer, error) {
	for _, l := range Layers {
		if string(l) == s {
			return l, nil
		}
	}
	return "", eris.Wrapf(ErrInvalidConfiguration, "model: unknown layer %q", s)
}

// Coordinate is a lat/lon pair in decimal degrees (WGS84).
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinate invariant: finite values, latitude in
// [-90, 90] and longitude in [-180, 180].
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) ||
		math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return eris.Wrap(ErrInvalidCoordinate, "model: non-finite lat/lon")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return eris.Wrapf(ErrInvalidCoordinate, "model: latitude %.4f out of range", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return eris.Wrapf(ErrInvalidCoordinate, "model: longitude %.4f out of range", c.Longitude)
	}
	return nil
}

// ExistingLocation is a known-good facility site supplied by the caller.
// Immutable once loaded.
type ExistingLocation struct {
	Coordinate
	Name string `json:"name,omitempty"`
}

// Feature is one reference point in an infrastructure layer. The full per-layer
// feature sets are loaded once per process and are read-only during scoring.
type Feature struct {
	Coordinate
	Layer Layer  `json:"layer"`
	Name  string `json:"name,omitempty"`
}

// FeatureScore is the per-layer proximity result for one candidate.
// DistanceKM is +Inf when the layer has no reference features.
type FeatureScore struct {
	DistanceKM float64 `json:"distance_km"`
	Score      float64 `json:"score"`
}

// CompositeResult is the full scoring outcome for one candidate. It is
// immutable after scoring.
type CompositeResult struct {
	Coordinate
	FeatureScores  map[Layer]FeatureScore `json:"feature_scores"`
	CompositeScore float64                `json:"composite_score"`
	PercentileRank float64                `json:"percentile_rank"`
	Recommended    bool                   `json:"recommended"`
}

// ModelInfo summarizes one recommendation request.
type ModelInfo struct {
	ModelType           string  `json:"model_type"`
	TrainingSamples     int     `json:"training_samples"`
	ThresholdScore      float64 `json:"threshold_score"`
	CandidatesEvaluated int     `json:"candidates_evaluated"`
}

// Bounds is a geographic bounding box for candidate generation.
type Bounds struct {
	MinLat float64 `json:"min_lat" mapstructure:"min_lat"`
	MaxLat float64 `json:"max_lat" mapstructure:"max_lat"`
	MinLon float64 `json:"min_lon" mapstructure:"min_lon"`
	MaxLon float64 `json:"max_lon" mapstructure:"max_lon"`
}

// DefaultBounds covers Great Britain, the default candidate region.
var DefaultBounds = Bounds{
	MinLat: 49.90,
	MaxLat: 60.90,
	MinLon: -8.20,
	MaxLon: 1.80,
}

// Validate checks that both corners are valid coordinates and that the box is
// non-degenerate.
func (b Bounds) Validate() error {
	if err := (Coordinate{Latitude: b.MinLat, Longitude: b.MinLon}).Validate(); err != nil {
		return err
	}
	if err := (Coordinate{Latitude: b.MaxLat, Longitude: b.MaxLon}).Validate(); err != nil {
		return err
	}
	if b.MinLat >= b.MaxLat || b.MinLon >= b.MaxLon {
		return eris.Wrapf(ErrInvalidParameter,
			"model: degenerate bounds [%.2f,%.2f]x[%.2f,%.2f]", b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
	}
	return nil
}

// Contains reports whether the coordinate lies inside the box (inclusive).
func (b Bounds) Contains(c Coordinate) bool {
	return c.Latitude >= b.MinLat && c.Latitude <= b.MaxLat &&
		c.Longitude >= b.MinLon && c.Longitude <= b.MaxLon
}
