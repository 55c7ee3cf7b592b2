package dissolve

// CellFunc returns the value of pixel (row, col) and whether the pixel takes
// part in the dissolve at all (NODATA pixels don't).
type CellFunc func(row, col int) (value float64, valid bool)

// Cell is a pixel position.
type Cell struct {
	Row, Col int
}

// Region is a 4-connected set of valid pixels sharing one value.
type Region struct {
	Seed  Cell // first pixel of the region in row-major order
	Value float64
	Cells []Cell
	Rings []Ring // outline first, holes after
}

// Tracer dissolves a raster into regions of equal value. It walks the raster
// in row-major order and floods every unvisited valid pixel it finds.
type Tracer struct {
	rows, cols int
	cell       CellFunc
	box        *Lattice

	// cursor: pixel coordinates of the next candidate seed
	row, col int

	stack []Cell
}

// box coordinate steps to the pixels above, below, left and right
var neighbours = [4][2]int{{-2, 0}, {2, 0}, {0, -2}, {0, 2}}

// NewTracer creates a tracer for a raster of rows x cols pixels.
func NewTracer(rows, cols int, cell CellFunc) *Tracer {
	return &Tracer{
		rows: rows,
		cols: cols,
		cell: cell,
		box:  NewLattice(rows, cols),
	}
}

// Lattice returns the box lattice the tracer marks.
func (t *Tracer) Lattice() *Lattice {
	return t.box
}

// Cursor returns the pixel coordinates of the current seed candidate.
func (t *Tracer) Cursor() (row, col int) {
	return t.row, t.col
}

// FindNextUnvisited moves the cursor to the next valid, unmarked pixel. It
// returns false once every pixel has been visited.
func (t *Tracer) FindNextUnvisited() bool {
	for ; t.row < t.rows; t.row++ {
		for ; t.col < t.cols; t.col++ {
			if t.box.Visited(t.row, t.col) {
				continue
			}
			if _, ok := t.cell(t.row, t.col); ok {
				return true
			}
		}
		t.col = 0
	}

	return false
}

// DefineBoundary marks the pixel at (row, col) and every pixel 4-connected to
// it that is valid, unmarked and equal to target. It returns the marked
// pixels. The flood uses an explicit stack, regions may span the whole raster.
func (t *Tracer) DefineBoundary(row, col int, target float64) []Cell {
	t.box.MarkCell(row, col)
	region := []Cell{{row, col}}

	t.stack = append(t.stack[:0], Cell{row, col})
	for len(t.stack) > 0 {
		cur := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]

		r, c := PixelToBox(cur.Row, cur.Col)
		for _, step := range neighbours {
			nr, nc := r+step[0], c+step[1]
			if !t.box.Contains(nr, nc) {
				continue
			}

			i, j := BoxToPixel(nr, nc)
			if t.box.Visited(i, j) {
				continue
			}
			if v, ok := t.cell(i, j); !ok || v != target {
				continue
			}

			t.box.MarkCell(i, j)
			region = append(region, Cell{i, j})
			t.stack = append(t.stack, Cell{i, j})
		}
	}

	return region
}

// Next traces the next region. The second return value is false once the
// raster is exhausted.
func (t *Tracer) Next() (Region, bool, error) {
	if !t.FindNextUnvisited() {
		return Region{}, false, nil
	}

	seed := Cell{t.row, t.col}
	value, _ := t.cell(seed.Row, seed.Col)

	cells := t.DefineBoundary(seed.Row, seed.Col, value)

	rings, err := t.Rings(cells)
	if err != nil {
		return Region{}, false, err
	}

	// boundaries shared with regions traced later must not cancel out
	for _, c := range cells {
		t.box.clearEdges(c.Row, c.Col)
	}

	return Region{
		Seed:  seed,
		Value: value,
		Cells: cells,
		Rings: rings,
	}, true, nil
}
