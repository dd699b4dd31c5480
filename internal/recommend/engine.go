package recommend

import (
	"context"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sitescout/internal/layers"
	"github.com/sells-group/sitescout/internal/model"
	"github.com/sells-group/sitescout/internal/scoring"
)

// ModelType identifies the scoring model in response payloads.
const ModelType = "infrastructure_proximity_based"

// Request defaults applied by normalize.
const (
	DefaultNumCandidates  = 50
	DefaultTopN           = 10
	DefaultGridSpacingDeg = 0.75
)

// Candidate generation modes.
const (
	ModeRandom = "random"
	ModeGrid   = "grid"
)

// Request is one recommendation request as consumed from the HTTP layer.
type Request struct {
	ExistingLocations []model.ExistingLocation `json:"existing_locations" validate:"required,min=1"`
	NumCandidates     int                      `json:"num_candidates"`
	TopN              int                      `json:"top_n"`
	Mode              string                   `json:"mode,omitempty"`
	GridSpacingDeg    float64                  `json:"grid_spacing_deg,omitempty"`
	Seed              uint64                   `json:"seed,omitempty"`
	Persona           string                   `json:"persona,omitempty"`
	Weights           map[string]float64       `json:"weights,omitempty"`
	Bounds            *model.Bounds            `json:"bounds,omitempty"`
}

// Recommendation is one ranked candidate in the response. DistancesKM
// entries are nil for layers with no reference features.
type Recommendation struct {
	Latitude       float64                  `json:"latitude"`
	Longitude      float64                  `json:"longitude"`
	CompositeScore float64                  `json:"composite_score"`
	Recommendation string                   `json:"recommendation"`
	PercentileRank float64                  `json:"percentile_rank"`
	FeatureScores  map[model.Layer]float64  `json:"feature_scores"`
	DistancesKM    map[model.Layer]*float64 `json:"distances_km"`
}

// Response is the payload produced for the HTTP layer.
type Response struct {
	TopRecommendations    []Recommendation `json:"top_recommendations"`
	ModelInfo             model.ModelInfo  `json:"model_info"`
	ProcessingTimeSeconds float64          `json:"processing_time_seconds"`
}

// Options tunes the engine beyond its request parameters.
type Options struct {
	ChunkSize int
	Workers   int
	DecayKM   map[model.Layer]float64

	// Bounds is the candidate region used when a request carries none.
	// Nil means model.DefaultBounds.
	Bounds *model.Bounds

	// GridSpacingDeg is the grid spacing used when a grid-mode request
	// carries none. Non-positive means DefaultGridSpacingDeg.
	GridSpacingDeg float64

	// ExtraProfiles are named weight profiles loaded from configuration,
	// checked after the built-in personas.
	ExtraProfiles map[string]scoring.Weights
}

// Engine coordinates one recommendation request end to end. It is stateless
// apart from the injected read-only layer set and safe for concurrent use.
type Engine struct {
	set            *layers.Set
	scorer         *scoring.ProximityScorer
	pool           Pool
	bounds         model.Bounds
	gridSpacingDeg float64
	extraProfiles  map[string]scoring.Weights
}

// New creates an Engine over the given layer set.
func New(set *layers.Set, opts Options) *Engine {
	bounds := model.DefaultBounds
	if opts.Bounds != nil {
		bounds = *opts.Bounds
	}
	spacing := opts.GridSpacingDeg
	if spacing <= 0 {
		spacing = DefaultGridSpacingDeg
	}
	return &Engine{
		set:            set,
		scorer:         scoring.NewProximityScorer(set, opts.DecayKM),
		pool:           Pool{ChunkSize: opts.ChunkSize, Workers: opts.Workers},
		bounds:         bounds,
		gridSpacingDeg: spacing,
		extraProfiles:  opts.ExtraProfiles,
	}
}

// Recommend runs the full pipeline: validate -> threshold -> generate ->
// batch score -> rank -> assemble. Any component failure aborts the request
// with the originating error; no partial results are returned.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	req = e.normalize(req)

	log := zap.L().With(zap.String("component", "recommend.engine"))

	if len(req.ExistingLocations) == 0 {
		return nil, eris.Wrap(model.ErrInvalidParameter, "recommend: existing_locations must not be empty")
	}
	for _, loc := range req.ExistingLocations {
		if err := loc.Validate(); err != nil {
			return nil, err
		}
	}

	weights, err := e.resolveWeights(req)
	if err != nil {
		return nil, err
	}

	bounds := e.bounds
	if req.Bounds != nil {
		bounds = *req.Bounds
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	// MissingReferenceData is absorbed per layer: log once per request.
	for _, l := range e.set.MissingLayers() {
		log.Warn("layer has no reference features, scoring it as zero",
			zap.String("layer", string(l)))
	}

	threshold, err := e.estimateThreshold(ctx, req.ExistingLocations, weights)
	if err != nil {
		return nil, err
	}

	candidates, err := e.generator(req, bounds).Generate(req.NumCandidates)
	if err != nil {
		return nil, err
	}

	results, err := e.pool.Score(ctx, e.scorer, weights, candidates)
	if err != nil {
		return nil, err
	}

	top, err := Rank(results, threshold, req.TopN)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		TopRecommendations: toPayload(top),
		ModelInfo: model.ModelInfo{
			ModelType:           ModelType,
			TrainingSamples:     len(req.ExistingLocations),
			ThresholdScore:      threshold,
			CandidatesEvaluated: len(results),
		},
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	}

	log.Info("recommendation complete",
		zap.Int("training_samples", len(req.ExistingLocations)),
		zap.Int("candidates", len(results)),
		zap.Int("returned", len(top)),
		zap.Float64("threshold", threshold),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

func (e *Engine) normalize(req Request) Request {
	if req.NumCandidates == 0 {
		req.NumCandidates = DefaultNumCandidates
	}
	if req.TopN == 0 {
		req.TopN = DefaultTopN
	}
	if req.Mode == "" {
		req.Mode = ModeRandom
	}
	if req.GridSpacingDeg == 0 {
		req.GridSpacingDeg = e.gridSpacingDeg
	}
	if req.Seed == 0 {
		req.Seed = uint64(time.Now().UnixNano())
	}
	return req
}

func (e *Engine) resolveWeights(req Request) (scoring.Weights, error) {
	base, err := scoring.Persona(req.Persona)
	if err != nil {
		if extra, ok := e.extraProfiles[req.Persona]; ok {
			base = extra
		} else {
			return scoring.Weights{}, err
		}
	}

	merged, err := base.Merge(req.Weights)
	if err != nil {
		return scoring.Weights{}, err
	}
	if err := merged.Validate(); err != nil {
		return scoring.Weights{}, err
	}
	return merged, nil
}

func (e *Engine) generator(req Request, bounds model.Bounds) Generator {
	if req.Mode == ModeGrid {
		return GridSampler{Bounds: bounds, SpacingDeg: req.GridSpacingDeg}
	}
	return RandomSampler{Bounds: bounds, Seed: req.Seed}
}

// estimateThreshold scores the existing locations and takes the acceptance
// percentile of their composites.
func (e *Engine) estimateThreshold(ctx context.Context, existing []model.ExistingLocation, weights scoring.Weights) (float64, error) {
	coords := make([]model.Coordinate, len(existing))
	for i, loc := range existing {
		coords[i] = loc.Coordinate
	}

	scored, err := e.pool.Score(ctx, e.scorer, weights, coords)
	if err != nil {
		return 0, err
	}

	composites := make([]float64, len(scored))
	for i, r := range scored {
		composites[i] = r.CompositeScore
	}
	return EstimateThreshold(composites)
}

func toPayload(results []model.CompositeResult) []Recommendation {
	out := make([]Recommendation, len(results))
	for i, r := range results {
		rec := Recommendation{
			Latitude:       r.Latitude,
			Longitude:      r.Longitude,
			CompositeScore: r.CompositeScore,
			Recommendation: "Not Recommended",
			PercentileRank: r.PercentileRank,
			FeatureScores:  make(map[model.Layer]float64, len(model.Layers)),
			DistancesKM:    make(map[model.Layer]*float64, len(model.Layers)),
		}
		if r.Recommended {
			rec.Recommendation = "Recommended"
		}
		for _, l := range model.Layers {
			fs := r.FeatureScores[l]
			rec.FeatureScores[l] = fs.Score
			if math.IsInf(fs.DistanceKM, 1) {
				rec.DistancesKM[l] = nil
			} else {
				d := fs.DistanceKM
				rec.DistancesKM[l] = &d
			}
		}
		out[i] = rec
	}
	return out
}
