package dissolve

// Lattice is the box coordinate space of a raster. Pixel (i, j) maps to box
// [2i+1, 2j+1]; square brackets denote box coordinates, parentheses pixel
// coordinates. Centre entries are 0 (unvisited) or 1 (visited), the four
// entries around a centre accumulate the orientation of the cell's edges:
//
//	[r-1, c]  north edge  +1
//	[r, c+1]  east edge   +1
//	[r+1, c]  south edge  -1
//	[r, c-1]  west edge   -1
//
// A positive horizontal edge points to the right (increasing column), a
// positive vertical edge downwards (increasing row), so every marked cell is
// wound clockwise on the map. Entries with both coordinates even are cell
// corners and stay 0.
type Lattice struct {
	Rows, Cols int // box dimensions, 2*nrows+1 and 2*ncols+1
	box        []int8
}

// NewLattice creates the box lattice of a raster with the given number of
// pixel rows and columns.
func NewLattice(rows, cols int) *Lattice {
	l := &Lattice{
		Rows: 2*rows + 1,
		Cols: 2*cols + 1,
	}
	l.box = make([]int8, l.Rows*l.Cols)
	return l
}

// PixelToBox returns the box coordinates of pixel (i, j).
func PixelToBox(i, j int) (r, c int) {
	return i<<1 + 1, j<<1 + 1
}

// BoxToPixel returns the pixel coordinates of box [r, c].
func BoxToPixel(r, c int) (i, j int) {
	return (r - 1) >> 1, (c - 1) >> 1
}

// Contains reports whether [r, c] lies within the lattice.
func (l *Lattice) Contains(r, c int) bool {
	return r >= 0 && r < l.Rows && c >= 0 && c < l.Cols
}

// At returns the entry at [r, c].
func (l *Lattice) At(r, c int) int8 {
	return l.box[r*l.Cols+c]
}

func (l *Lattice) add(r, c int, d int8) {
	l.box[r*l.Cols+c] += d
}

func (l *Lattice) set(r, c int, v int8) {
	l.box[r*l.Cols+c] = v
}

// Visited reports whether pixel (i, j) has been marked.
func (l *Lattice) Visited(i, j int) bool {
	r, c := PixelToBox(i, j)
	return l.At(r, c) != 0
}

// MarkCell marks pixel (i, j) visited and adds its edge orientations. Edges
// shared by two marked cells cancel out, edges on the outline of a region
// keep a nonzero orientation.
func (l *Lattice) MarkCell(i, j int) {
	r, c := PixelToBox(i, j)

	l.set(r, c, 1)
	l.add(r-1, c, 1)  // to the right
	l.add(r, c+1, 1)  // downwards
	l.add(r+1, c, -1) // to the left
	l.add(r, c-1, -1) // upwards
}

// clearEdges resets the four edge entries of pixel (i, j). The centre stays
// marked.
func (l *Lattice) clearEdges(i, j int) {
	r, c := PixelToBox(i, j)

	l.set(r, c-1, 0)
	l.set(r+1, c, 0)
	l.set(r, c+1, 0)
	l.set(r-1, c, 0)
}
