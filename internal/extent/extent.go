package extent

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gruppe-adler/aig-utils/internal/grid"
)

// ErrRange is returned for extents outside the grid or with swapped bounds.
var ErrRange = errors.New("extent: out of range")

// Extent is a bounding box in geographic coordinates.
type Extent struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Parse reads "minX minY maxX maxY". Values may be separated by commas
// and/or whitespace.
func Parse(s string) (*Extent, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) != 4 {
		return nil, fmt.Errorf("extent needs 4 values (minX minY maxX maxY), got %d", len(fields))
	}

	var v [4]float64
	for i, field := range fields {
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("extent value %s is not a number", field)
		}
		v[i] = f
	}

	return &Extent{MinX: v[0], MinY: v[1], MaxX: v[2], MaxY: v[3]}, nil
}

// Filter decides which cell centres are converted.
type Filter struct {
	extent *Extent
}

// New validates e against the bounds of the grid described by h. A nil
// extent yields a filter that accepts everything.
func New(h grid.Header, e *Extent) (Filter, error) {
	if e == nil {
		return Filter{}, nil
	}

	// the extent has to lie within the grid
	xur, yur := h.XUpperRight(), h.YUpperRight()
	if e.MinX < h.XllCorner {
		return Filter{}, fmt.Errorf("%w: minX %v < %v xllcorner", ErrRange, e.MinX, h.XllCorner)
	}
	if e.MinY < h.YllCorner {
		return Filter{}, fmt.Errorf("%w: minY %v < %v yllcorner", ErrRange, e.MinY, h.YllCorner)
	}
	if xur < e.MaxX {
		return Filter{}, fmt.Errorf("%w: xurcorner %v < %v maxX", ErrRange, xur, e.MaxX)
	}
	if yur < e.MaxY {
		return Filter{}, fmt.Errorf("%w: yurcorner %v < %v maxY", ErrRange, yur, e.MaxY)
	}

	// and has to be a box
	if e.MaxX < e.MinX {
		return Filter{}, fmt.Errorf("%w: inconsistent extent: maxX %v < %v minX", ErrRange, e.MaxX, e.MinX)
	}
	if e.MaxY < e.MinY {
		return Filter{}, fmt.Errorf("%w: inconsistent extent: maxY %v < %v minY", ErrRange, e.MaxY, e.MinY)
	}

	copied := *e
	return Filter{extent: &copied}, nil
}

// Includes reports whether the point lies within the extent, bounds
// inclusive. lon is compared with the X bounds and lat with the Y bounds.
func (f Filter) Includes(lat, lon float64) bool {
	if f.extent == nil {
		return true
	}

	return f.extent.MinX <= lon && lon <= f.extent.MaxX &&
		f.extent.MinY <= lat && lat <= f.extent.MaxY
}

// Extent returns the validated extent, nil if the filter accepts everything.
func (f Filter) Extent() *Extent {
	return f.extent
}
