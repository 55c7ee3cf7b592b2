package grid

import (
	"errors"
	"strconv"
)

// Errors returned while reading a grid.
var (
	ErrFormat = errors.New("grid: format error")
	ErrIO     = errors.New("grid: i/o error")
)

// Header holds the six mandatory fields of an ArcInfo Grid ASCII file.
type Header struct {
	Ncols, Nrows         int
	XllCorner, YllCorner float64
	CellSize             float64
	NoDataValue          float64
}

// ArcInfoGrid represents an ArcInfo Grid ASCII raster. Data is row-major with
// row 0 at the northern edge.
type ArcInfoGrid struct {
	Header
	Data [][]float64
}

// HalfCell is half the cell size.
func (h Header) HalfCell() float64 {
	return h.CellSize / 2
}

// XOrigin is the x coordinate of the centre of the upper left cell.
func (h Header) XOrigin() float64 {
	return h.XllCorner + h.HalfCell()
}

// YOrigin is the y coordinate of the centre of the upper left cell.
func (h Header) YOrigin() float64 {
	return h.YllCorner + float64(h.Nrows)*h.CellSize - h.HalfCell()
}

// XUpperRight is the x coordinate of the upper right corner of the grid.
func (h Header) XUpperRight() float64 {
	return h.XllCorner + float64(h.Ncols)*h.CellSize
}

// YUpperRight is the y coordinate of the upper right corner of the grid.
func (h Header) YUpperRight() float64 {
	return h.YllCorner + float64(h.Nrows)*h.CellSize
}

// IsNoData reports whether v is the NODATA sentinel.
func (h Header) IsNoData(v float64) bool {
	return v == h.NoDataValue
}

// Fields returns the header as name/value pairs in file order.
func (h Header) Fields() [][2]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

	return [][2]string{
		{"ncols", strconv.Itoa(h.Ncols)},
		{"nrows", strconv.Itoa(h.Nrows)},
		{"xllcorner", f(h.XllCorner)},
		{"yllcorner", f(h.YllCorner)},
		{"cellsize", f(h.CellSize)},
		{"NODATA_value", f(h.NoDataValue)},
	}
}

// Dims returns the dimensions of the grid.
func (g ArcInfoGrid) Dims() (c, r int) {
	return g.Ncols, g.Nrows
}

// Value returns the value of the cell at (row, col).
// It will panic if row or col are out of bounds for the grid.
func (g ArcInfoGrid) Value(row, col int) float64 {
	return g.Data[row][col]
}
