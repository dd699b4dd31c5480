// Package geodist computes great-circle distances between WGS84 coordinates.
package geodist

import (
	"math"

	"github.com/sells-group/sitescout/internal/model"
)

// EarthRadiusKM is the mean radius of the Earth.
const EarthRadiusKM = 6371.0

// Haversine returns the great-circle distance between a and b in kilometers.
// It is symmetric and returns exactly zero for equal coordinates.
func Haversine(a, b model.Coordinate) float64 {
	if a == b {
		return 0
	}

	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKM * c
}

// Distance validates both coordinates before computing the haversine distance.
// Non-finite or out-of-range inputs fail with model.ErrInvalidCoordinate.
func Distance(a, b model.Coordinate) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	return Haversine(a, b), nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
