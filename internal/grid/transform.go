package grid

// CellToGeo returns the geographic coordinates (x, y) of the centre of the cell
// at (row, col).
func (h Header) CellToGeo(row, col int) (x, y float64) {
	x = h.XOrigin() + float64(col)*h.CellSize
	y = h.YOrigin() - float64(row)*h.CellSize
	return x, y
}

// GeoToCell is the truncating inverse of CellToGeo. It is only approximate:
// points close to a cell boundary may land in the neighbouring cell, so don't
// convert back and forth.
func (h Header) GeoToCell(x, y float64) (row, col int) {
	col = int((x - h.XOrigin()) / h.CellSize)
	row = int((h.YOrigin() - y) / h.CellSize)
	return row, col
}

// CornerToGeo returns the geographic coordinates of the cell corner at
// (row, col), where row is in [0, Nrows] and col in [0, Ncols]. Corner (0, 0)
// is the upper left corner of the grid.
func (h Header) CornerToGeo(row, col int) (x, y float64) {
	x = h.XllCorner + float64(col)*h.CellSize
	y = h.YUpperRight() - float64(row)*h.CellSize
	return x, y
}
