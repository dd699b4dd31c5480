package layers

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sitescout/internal/model"
)

// ParseCSV reads a CSV of reference points and tags them with the given
// layer. The file must have a header row naming at least latitude and
// longitude columns (lat/latitude, lon/lng/longitude); a name column is
// optional. Rows with unparseable or out-of-range coordinates are skipped.
func ParseCSV(path string, layer model.Layer) ([]model.Feature, error) {
	if _, err := model.ParseLayer(string(layer)); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "layers: open csv %s", path)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "layers: read csv header %s", path)
	}

	latIdx, lonIdx, nameIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "lat", "latitude":
			latIdx = i
		case "lon", "lng", "long", "longitude":
			lonIdx = i
		case "name", "site_name", "label":
			nameIdx = i
		}
	}
	if latIdx < 0 || lonIdx < 0 {
		return nil, eris.Errorf("layers: csv %s missing latitude/longitude columns", path)
	}

	var features []model.Feature
	var skipped int

	for {
		rec, readErr := r.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, eris.Wrapf(readErr, "layers: read csv row %s", path)
		}
		if latIdx >= len(rec) || lonIdx >= len(rec) {
			skipped++
			continue
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(rec[latIdx]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(rec[lonIdx]), 64)
		if latErr != nil || lonErr != nil {
			skipped++
			continue
		}

		c := model.Coordinate{Latitude: lat, Longitude: lon}
		if c.Validate() != nil {
			skipped++
			continue
		}

		name := ""
		if nameIdx >= 0 && nameIdx < len(rec) {
			name = strings.TrimSpace(rec[nameIdx])
		}
		features = append(features, model.Feature{Coordinate: c, Layer: layer, Name: name})
	}

	if skipped > 0 {
		zap.L().Debug("layers: skipped csv rows",
			zap.String("path", path),
			zap.String("layer", string(layer)),
			zap.Int("skipped", skipped),
		)
	}

	return features, nil
}
