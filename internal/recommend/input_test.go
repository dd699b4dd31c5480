package recommend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sitescout/internal/model"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadExistingLocations_JSON(t *testing.T) {
	path := writeInput(t, "sites.json", `[
		{"latitude": 57.1437, "longitude": -2.0981, "name": "Aberdeen DC1"},
		{"latitude": 55.9533, "longitude": -3.1883}
	]`)

	locations, err := LoadExistingLocations(path)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Aberdeen DC1", locations[0].Name)
	assert.InDelta(t, 57.1437, locations[0].Latitude, 1e-9)
	assert.Empty(t, locations[1].Name)
}

func TestLoadExistingLocations_CSV(t *testing.T) {
	path := writeInput(t, "sites.csv", "name,lat,lon\nAberdeen DC1,57.1437,-2.0981\n,55.9533,-3.1883\n")

	locations, err := LoadExistingLocations(path)
	require.NoError(t, err)
	require.Len(t, locations, 2)
	assert.Equal(t, "Aberdeen DC1", locations[0].Name)
	assert.InDelta(t, -3.1883, locations[1].Longitude, 1e-9)
}

func TestLoadExistingLocations_CSVAlternateHeaders(t *testing.T) {
	path := writeInput(t, "sites.csv", "Latitude,Longitude\n57.1437,-2.0981\n")

	locations, err := LoadExistingLocations(path)
	require.NoError(t, err)
	require.Len(t, locations, 1)
}

func TestLoadExistingLocations_CSVMissingColumns(t *testing.T) {
	path := writeInput(t, "sites.csv", "name,east,north\nfoo,1,2\n")

	_, err := LoadExistingLocations(path)
	assert.Error(t, err)
}

func TestLoadExistingLocations_UnsupportedExtension(t *testing.T) {
	_, err := LoadExistingLocations("sites.xml")
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestLoadExistingLocations_EmptyInput(t *testing.T) {
	path := writeInput(t, "sites.json", "[]")

	_, err := LoadExistingLocations(path)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestLoadExistingLocations_InvalidCoordinate(t *testing.T) {
	path := writeInput(t, "sites.json", `[{"latitude": 95, "longitude": 0}]`)

	_, err := LoadExistingLocations(path)
	assert.ErrorIs(t, err, model.ErrInvalidCoordinate)
}
