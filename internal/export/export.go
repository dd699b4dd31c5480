// Package export writes recommendation results to files for downstream
// tooling: JSON for APIs, XLSX for analysts, GeoJSON for mapping.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sitescout/internal/model"
	"github.com/sells-group/sitescout/internal/recommend"
)

// Write dispatches on the output file extension: .json, .xlsx, or .geojson.
func Write(path string, resp *recommend.Response) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return WriteJSON(path, resp)
	case ".xlsx":
		return WriteXLSX(path, resp)
	case ".geojson":
		return WriteGeoJSON(path, resp)
	default:
		return eris.Wrapf(model.ErrInvalidParameter, "export: unsupported output format %s", filepath.Ext(path))
	}
}

// WriteJSON writes the full response payload as indented JSON.
func WriteJSON(path string, resp *recommend.Response) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal json")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}
