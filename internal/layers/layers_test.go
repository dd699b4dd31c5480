package layers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sitescout/internal/model"
)

func testFeatures() []model.Feature {
	return []model.Feature{
		{Coordinate: model.Coordinate{Latitude: 57.15, Longitude: -2.10}, Layer: model.LayerSubstation},
		{Coordinate: model.Coordinate{Latitude: 57.20, Longitude: -2.20}, Layer: model.LayerSubstation},
		{Coordinate: model.Coordinate{Latitude: 57.10, Longitude: -2.00}, Layer: model.LayerTransmission},
		{Coordinate: model.Coordinate{Latitude: 57.05, Longitude: -2.05}, Layer: model.LayerFiber},
		{Coordinate: model.Coordinate{Latitude: 57.12, Longitude: -2.15}, Layer: model.LayerWater},
		// no ixp features
	}
}

func TestSet_NearestAndCounts(t *testing.T) {
	set := NewSet(testFeatures(), DefaultCellKM)

	q := model.Coordinate{Latitude: 57.15, Longitude: -2.10}
	d, ok := set.Nearest(model.LayerSubstation, q)
	require.True(t, ok)
	assert.Zero(t, d)

	d, ok = set.Nearest(model.LayerIXP, q)
	assert.False(t, ok)
	assert.True(t, math.IsInf(d, 1))

	counts := set.Counts()
	assert.Equal(t, 2, counts[model.LayerSubstation])
	assert.Equal(t, 1, counts[model.LayerTransmission])
	assert.Equal(t, 0, counts[model.LayerIXP])
	assert.Equal(t, 5, set.Total())
}

func TestSet_MissingLayers(t *testing.T) {
	set := NewSet(testFeatures(), DefaultCellKM)
	assert.Equal(t, []model.Layer{model.LayerIXP}, set.MissingLayers())

	empty := NewSet(nil, DefaultCellKM)
	assert.Len(t, empty.MissingLayers(), 5)
	assert.True(t, empty.Total() == 0)
}

func TestSet_DropsUnknownLayers(t *testing.T) {
	features := append(testFeatures(), model.Feature{
		Coordinate: model.Coordinate{Latitude: 57, Longitude: -2},
		Layer:      model.Layer("pipeline"),
	})
	set := NewSet(features, DefaultCellKM)
	assert.Equal(t, 5, set.Total())
}
