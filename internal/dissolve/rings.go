package dissolve

import (
	"fmt"
	"sort"
)

// Corner is a cell corner. Row is in [0, nrows], Col in [0, ncols]; corner
// (0, 0) is the upper left corner of pixel (0, 0).
type Corner struct {
	Row, Col int
}

// Ring is a closed outline (first corner == last corner) without collinear
// corners.
type Ring []Corner

// edge is a directed boundary segment between two neighbouring corners.
type edge struct {
	from, to Corner
	dr, dc   int
}

// Rings walks the nonzero edges around cells into closed rings. cells must be
// a region just marked by DefineBoundary. The outline is returned first and
// runs counter-clockwise on the map, holes run clockwise.
func (t *Tracer) Rings(cells []Cell) ([]Ring, error) {
	edges := t.boundaryEdges(cells)

	outgoing := make(map[Corner][]int, len(edges))
	for i, e := range edges {
		outgoing[e.from] = append(outgoing[e.from], i)
	}

	used := make([]bool, len(edges))
	var outline []Ring
	var holes []Ring

	for start := range edges {
		if used[start] {
			continue
		}

		ring, err := walk(edges, outgoing, used, start)
		if err != nil {
			return nil, err
		}

		if ring.signedArea() > 0 {
			outline = append(outline, ring)
		} else {
			holes = append(holes, ring)
		}
	}

	if len(outline) != 1 {
		seed := cells[0]
		return nil, fmt.Errorf("dissolve: region at (%d, %d) has %d outlines", seed.Row, seed.Col, len(outline))
	}

	return append(outline, holes...), nil
}

// boundaryEdges collects the nonzero edges of cells, sorted by their start
// corner. Edges are taken against their marked orientation, which puts the
// region on the left of every edge.
func (t *Tracer) boundaryEdges(cells []Cell) []edge {
	var edges []edge

	for _, cell := range cells {
		r, c := PixelToBox(cell.Row, cell.Col)

		for _, pos := range [4][2]int{{r, c - 1}, {r + 1, c}, {r, c + 1}, {r - 1, c}} {
			er, ec := pos[0], pos[1]
			v := t.box.At(er, ec)
			if v == 0 {
				continue
			}

			var e edge
			if er&1 == 1 {
				// vertical edge between box corners [er-1, ec] and [er+1, ec]
				top := Corner{(er - 1) >> 1, ec >> 1}
				bottom := Corner{(er + 1) >> 1, ec >> 1}
				if v < 0 {
					e = edge{from: top, to: bottom, dr: 1}
				} else {
					e = edge{from: bottom, to: top, dr: -1}
				}
			} else {
				// horizontal edge between box corners [er, ec-1] and [er, ec+1]
				left := Corner{er >> 1, (ec - 1) >> 1}
				right := Corner{er >> 1, (ec + 1) >> 1}
				if v < 0 {
					e = edge{from: left, to: right, dc: 1}
				} else {
					e = edge{from: right, to: left, dc: -1}
				}
			}
			edges = append(edges, e)
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i].from, edges[j].from
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return edges[i].dc > edges[j].dc
	})

	return edges
}

// walk follows edges from start until it gets back to start and returns the
// corners where the direction changes.
func walk(edges []edge, outgoing map[Corner][]int, used []bool, start int) (Ring, error) {
	var ring Ring

	cur := start
	for steps := 0; steps <= len(edges); steps++ {
		used[cur] = true

		next, ok := nextEdge(edges, outgoing, cur)
		if !ok {
			return nil, fmt.Errorf("dissolve: open ring at corner (%d, %d)", edges[cur].to.Row, edges[cur].to.Col)
		}

		if edges[next].dr != edges[cur].dr || edges[next].dc != edges[cur].dc {
			ring = append(ring, edges[cur].to)
		}

		if next == start {
			return append(ring, ring[0]), nil
		}
		if used[next] {
			return nil, fmt.Errorf("dissolve: ring revisits corner (%d, %d)", edges[next].from.Row, edges[next].from.Col)
		}

		cur = next
	}

	return nil, fmt.Errorf("dissolve: ring starting at corner (%d, %d) does not close", edges[start].from.Row, edges[start].from.Col)
}

// nextEdge picks the edge leaving the end corner of edges[cur]. Where two
// regions of the same value touch diagonally the corner has two outgoing
// edges; turning right keeps the diagonal pixels on separate rings.
func nextEdge(edges []edge, outgoing map[Corner][]int, cur int) (int, bool) {
	candidates := outgoing[edges[cur].to]

	switch len(candidates) {
	case 0:
		return 0, false
	case 1:
		return candidates[0], true
	}

	// right of (dr, dc) in row/col space is (dc, -dr)
	e := edges[cur]
	for _, i := range candidates {
		if edges[i].dr == e.dc && edges[i].dc == -e.dr {
			return i, true
		}
	}

	return candidates[0], true
}

// signedArea is the shoelace area of the ring on the map (x = col,
// y = -row). Counter-clockwise rings are positive.
func (ring Ring) signedArea() int {
	area := 0
	for i := 0; i+1 < len(ring); i++ {
		x0, y0 := ring[i].Col, -ring[i].Row
		x1, y1 := ring[i+1].Col, -ring[i+1].Row
		area += x0*y1 - x1*y0
	}
	return area
}
