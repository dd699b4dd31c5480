// Package layers holds the process-wide infrastructure reference data: one
// immutable spatial index per layer, built once at startup and shared
// read-only across concurrent requests.
package layers

import (
	"math"

	"github.com/sells-group/sitescout/internal/geodist"
	"github.com/sells-group/sitescout/internal/model"
)

// degKMPerDegree is the approximate length of one degree of latitude.
const degKMPerDegree = 111.0

// DefaultCellKM is the default grid-bucket size for the spatial index.
const DefaultCellKM = 25.0

type cellKey struct {
	X, Y int
}

// Index is a grid-bucketed spatial index over a set of points. Nearest-
// neighbour queries scan outward ring by ring from the query cell instead of
// scanning the full point set, keeping batch scoring sub-quadratic.
//
// The index is immutable after construction and safe for concurrent reads.
type Index struct {
	cellDeg    float64
	cells      map[cellKey][]model.Coordinate
	count      int
	minC, maxC cellKey
	cosFloor   float64
}

// NewIndex builds an index with the given bucket size in kilometers. A
// non-positive cellKM falls back to DefaultCellKM.
func NewIndex(points []model.Coordinate, cellKM float64) *Index {
	if cellKM <= 0 {
		cellKM = DefaultCellKM
	}

	idx := &Index{
		cellDeg:  cellKM / degKMPerDegree,
		cells:    make(map[cellKey][]model.Coordinate),
		cosFloor: 1,
	}

	maxAbsLat := 0.0
	minX, maxX := math.MaxInt, math.MinInt
	minY, maxY := math.MaxInt, math.MinInt

	for _, p := range points {
		k := idx.key(p)
		idx.cells[k] = append(idx.cells[k], p)
		idx.count++

		if abs := math.Abs(p.Latitude); abs > maxAbsLat {
			maxAbsLat = abs
		}
		minX, maxX = min(minX, k.X), max(maxX, k.X)
		minY, maxY = min(minY, k.Y), max(maxY, k.Y)
	}

	if idx.count > 0 {
		// Longitude cells shrink toward the poles; the ring lower bound
		// scales by the cosine of the most poleward indexed latitude.
		idx.cosFloor = math.Cos(maxAbsLat * math.Pi / 180)
		if idx.cosFloor < 0.05 {
			idx.cosFloor = 0.05
		}
		idx.minC = cellKey{X: minX, Y: minY}
		idx.maxC = cellKey{X: maxX, Y: maxY}
	}

	return idx
}

// Len returns the number of indexed points.
func (idx *Index) Len() int {
	return idx.count
}

func (idx *Index) key(c model.Coordinate) cellKey {
	return cellKey{
		X: int(math.Floor(c.Longitude / idx.cellDeg)),
		Y: int(math.Floor(c.Latitude / idx.cellDeg)),
	}
}

// Nearest returns the distance in kilometers from c to the closest indexed
// point. ok is false when the index is empty.
func (idx *Index) Nearest(c model.Coordinate) (distKM float64, ok bool) {
	if idx.count == 0 {
		return math.Inf(1), false
	}

	best := math.Inf(1)
	idx.searchFrom(idx.key(c), c, &best)

	// Longitude cells do not wrap, so features just across the antimeridian
	// sit at the far end of the X range. A second pass from the wrapped
	// origin covers them; its start-ring floor makes it a no-op whenever the
	// wrapped path cannot beat the current best.
	wrapped := c
	if c.Longitude >= 0 {
		wrapped.Longitude -= 360
	} else {
		wrapped.Longitude += 360
	}
	idx.searchFrom(idx.key(wrapped), c, &best)

	return best, true
}

// searchFrom expands rings around origin, tightening best in place.
func (idx *Index) searchFrom(origin cellKey, c model.Coordinate, best *float64) {
	// Occupied cells all lie inside the extent rectangle, so rings closer
	// than the rectangle are empty and the farthest corner bounds expansion.
	startRing := max(
		idx.minC.X-origin.X, origin.X-idx.maxC.X,
		idx.minC.Y-origin.Y, origin.Y-idx.maxC.Y,
		0,
	)
	maxRing := max(
		abs(origin.X-idx.minC.X), abs(idx.maxC.X-origin.X),
		abs(origin.Y-idx.minC.Y), abs(idx.maxC.Y-origin.Y),
	)

	// ringFloorKM is a lower bound on the distance to any point in cells
	// beyond ring r-1: at least r-1 cell widths of separation in latitude or
	// longitude, whichever is smaller in kilometers.
	for r := startRing; r <= maxRing; r++ {
		if !math.IsInf(*best, 1) {
			ringFloorKM := float64(r-1) * idx.cellDeg * degKMPerDegree * idx.cosFloor
			if ringFloorKM > *best {
				break
			}
		}
		idx.scanRing(origin, r, c, best)
	}
}

// scanRing visits the perimeter cells at Chebyshev distance r from origin.
func (idx *Index) scanRing(origin cellKey, r int, c model.Coordinate, best *float64) {
	if r == 0 {
		idx.scanCell(origin, c, best)
		return
	}
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if max(abs(dx), abs(dy)) != r {
				continue
			}
			idx.scanCell(cellKey{X: origin.X + dx, Y: origin.Y + dy}, c, best)
		}
	}
}

func (idx *Index) scanCell(k cellKey, c model.Coordinate, best *float64) {
	for _, p := range idx.cells[k] {
		if d := geodist.Haversine(c, p); d < *best {
			*best = d
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
