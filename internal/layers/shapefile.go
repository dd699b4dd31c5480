package layers

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sitescout/internal/geodist"
	"github.com/sells-group/sitescout/internal/model"
)

// lineSampleStepKM controls how densely polyline geometries (transmission
// lines, fiber routes) are sampled into point features. Consecutive vertices
// closer than this are collapsed.
const lineSampleStepKM = 2.0

// nameFields are the attribute names probed, in order, for a feature name.
var nameFields = []string{"name", "site_name", "label"}

// ParseShapefile reads a shapefile and converts its shapes to features tagged
// with the given layer. Point shapes map one-to-one; PolyLine shapes are
// sampled along their vertices so line infrastructure still supports
// nearest-distance queries. Unsupported shapes are skipped.
func ParseShapefile(path string, layer model.Layer) ([]model.Feature, error) {
	if _, err := model.ParseLayer(string(layer)); err != nil {
		return nil, err
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "layers: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build field name -> index map for name attribute lookup.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	var features []model.Feature
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		name := ""
		for _, fn := range nameFields {
			if i, ok := fieldIdx[fn]; ok {
				name = strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
				break
			}
		}

		points := pointsFromShape(shape)
		if len(points) == 0 {
			skipped++
			continue
		}
		for _, p := range points {
			if p.Validate() != nil {
				skipped++
				continue
			}
			features = append(features, model.Feature{Coordinate: p, Layer: layer, Name: name})
		}
	}

	if skipped > 0 {
		zap.L().Debug("layers: skipped shapefile records",
			zap.String("path", path),
			zap.String("layer", string(layer)),
			zap.Int("skipped", skipped),
		)
	}

	return features, nil
}

// pointsFromShape extracts coordinates from a shapefile geometry. Returns nil
// for nil or unsupported shapes.
func pointsFromShape(shape shp.Shape) []model.Coordinate {
	switch s := shape.(type) {
	case *shp.Point:
		return []model.Coordinate{{Latitude: s.Y, Longitude: s.X}}

	case *shp.PolyLine:
		return samplePolyLine(s)

	default:
		return nil
	}
}

// samplePolyLine walks polyline vertices and keeps those at least
// lineSampleStepKM apart, so long straight segments do not flood the index.
func samplePolyLine(pl *shp.PolyLine) []model.Coordinate {
	if pl == nil || len(pl.Points) == 0 {
		return nil
	}

	var out []model.Coordinate
	for i := int32(0); i < pl.NumParts; i++ {
		start := pl.Parts[i]
		end := int32(len(pl.Points))
		if i+1 < pl.NumParts {
			end = pl.Parts[i+1]
		}

		var last *model.Coordinate
		for j := start; j < end; j++ {
			c := model.Coordinate{Latitude: pl.Points[j].Y, Longitude: pl.Points[j].X}
			if last != nil && geodist.Haversine(*last, c) < lineSampleStepKM {
				continue
			}
			out = append(out, c)
			last = &out[len(out)-1]
		}
	}
	return out
}
