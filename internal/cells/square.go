package cells

import (
	"github.com/paulmach/orb"
)

// Square returns the closed square around a cell centre. Shapefiles store
// points in lat/lon order whereas ArcInfo grids use lon/lat, so the vertices
// are written as (lat, lon): min/min, max/min, max/max, min/max, min/min.
func Square(centerLon, centerLat, halfCell float64) orb.Polygon {
	minX := centerLon - halfCell
	maxX := centerLon + halfCell
	minY := centerLat - halfCell
	maxY := centerLat + halfCell

	ring := orb.Ring{
		{minY, minX},
		{maxY, minX},
		{maxY, maxX},
		{minY, maxX},
		{minY, minX}, // close the ring
	}

	return orb.Polygon{ring}
}
