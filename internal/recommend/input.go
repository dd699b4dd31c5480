package recommend

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sitescout/internal/model"
)

// LoadExistingLocations reads known-good sites from a .json or .csv file.
// JSON is a list of {latitude, longitude, name?} objects; CSV needs a header
// with latitude and longitude columns and an optional name column. Every
// location is validated.
func LoadExistingLocations(path string) ([]model.ExistingLocation, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadExistingJSON(path)
	case ".csv":
		return loadExistingCSV(path)
	default:
		return nil, eris.Wrapf(model.ErrInvalidParameter, "recommend: unsupported input format %s", filepath.Ext(path))
	}
}

func loadExistingJSON(path string) ([]model.ExistingLocation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "recommend: read %s", path)
	}

	var locations []model.ExistingLocation
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, eris.Wrapf(err, "recommend: parse %s", path)
	}
	return validateExisting(locations)
}

func loadExistingCSV(path string) ([]model.ExistingLocation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "recommend: open %s", path)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "recommend: read csv header %s", path)
	}

	latIdx, lonIdx, nameIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "lat", "latitude":
			latIdx = i
		case "lon", "lng", "long", "longitude":
			lonIdx = i
		case "name":
			nameIdx = i
		}
	}
	if latIdx < 0 || lonIdx < 0 {
		return nil, eris.Errorf("recommend: csv %s missing latitude/longitude columns", path)
	}

	var locations []model.ExistingLocation
	for {
		rec, readErr := r.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, eris.Wrapf(readErr, "recommend: read csv row %s", path)
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(rec[latIdx]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(rec[lonIdx]), 64)
		if latErr != nil || lonErr != nil {
			return nil, eris.Errorf("recommend: csv %s has unparseable coordinates in row %v", path, rec)
		}

		loc := model.ExistingLocation{
			Coordinate: model.Coordinate{Latitude: lat, Longitude: lon},
		}
		if nameIdx >= 0 && nameIdx < len(rec) {
			loc.Name = strings.TrimSpace(rec[nameIdx])
		}
		locations = append(locations, loc)
	}
	return validateExisting(locations)
}

func validateExisting(locations []model.ExistingLocation) ([]model.ExistingLocation, error) {
	if len(locations) == 0 {
		return nil, eris.Wrap(model.ErrInvalidParameter, "recommend: no existing locations in input")
	}
	for _, loc := range locations {
		if err := loc.Validate(); err != nil {
			return nil, err
		}
	}
	return locations, nil
}
