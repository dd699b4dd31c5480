package export

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/sitescout/internal/model"
	"github.com/sells-group/sitescout/internal/recommend"
)

// WriteGeoJSON writes the recommendations as a FeatureCollection of points
// in WGS84, one feature per candidate with the scores as properties.
func WriteGeoJSON(path string, resp *recommend.Response) error {
	fc := geojson.FeatureCollection{}

	for i, rec := range resp.TopRecommendations {
		props := map[string]any{
			"rank":            i + 1,
			"composite_score": rec.CompositeScore,
			"percentile_rank": rec.PercentileRank,
			"recommendation":  rec.Recommendation,
		}
		for _, layer := range model.Layers {
			props[string(layer)+"_score"] = rec.FeatureScores[layer]
			if d := rec.DistancesKM[layer]; d != nil {
				props[string(layer)+"_distance_km"] = *d
			}
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   geom.NewPointFlat(geom.XY, []float64{rec.Longitude, rec.Latitude}).SetSRID(4326),
			Properties: props,
		})
	}

	data, err := json.MarshalIndent(&fc, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal geojson")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}
