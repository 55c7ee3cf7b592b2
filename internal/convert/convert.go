// Package convert turns an ArcInfo Grid ASCII raster into polygons: one
// square per cell, or one polygon per region of equal value when dissolving.
package convert

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"

	"github.com/gruppe-adler/aig-utils/internal/cells"
	"github.com/gruppe-adler/aig-utils/internal/dissolve"
	"github.com/gruppe-adler/aig-utils/internal/extent"
	"github.com/gruppe-adler/aig-utils/internal/grid"
	"github.com/gruppe-adler/aig-utils/internal/output"
	"github.com/gruppe-adler/aig-utils/internal/utils"
)

// create opens the output of Convert.
var create = output.Create

// Sink receives the converted polygons
type Sink interface {
	WriteFeature(poly orb.Polygon, value float64) error
}

// Converter converts one grid.
type Converter struct {
	grid   *grid.ArcInfoGrid
	opts   Options
	filter extent.Filter

	// OnRow, if set, is called with the number of raster rows done so far.
	OnRow func(rows int)
}

// New creates a converter for g. It fails with extent.ErrRange if the
// extent of opts doesn't fit the grid.
func New(g *grid.ArcInfoGrid, opts Options) (*Converter, error) {
	if opts.Attribute == "" {
		return nil, fmt.Errorf("attribute name must not be empty")
	}

	filter, err := extent.New(g.Header, opts.Extent)
	if err != nil {
		return nil, err
	}

	return &Converter{grid: g, opts: opts, filter: filter}, nil
}

// cell is the dissolve.CellFunc of the converter.
func (c *Converter) cell(row, col int) (float64, bool) {
	v := c.grid.Data[row][col]

	if c.grid.IsNoData(v) {
		return 0, false
	}
	if c.opts.NonZero && v == 0 {
		return 0, false
	}

	x, y := c.grid.CellToGeo(row, col)
	if !c.filter.Includes(y, x) {
		return 0, false
	}

	return c.opts.AttributeValue(v), true
}

func (c *Converter) progress(rows int) {
	if c.OnRow != nil {
		c.OnRow(rows)
	}
}

// Run converts the grid into sink and returns the number of features written.
func (c *Converter) Run(sink Sink) (int, error) {
	if c.opts.Dissolve {
		return c.Dissolve(sink)
	}
	return c.Cells(sink)
}

// Cells writes one square per valid cell in row-major order.
func (c *Converter) Cells(sink Sink) (int, error) {
	half := c.grid.HalfCell()
	count := 0

	for row := 0; row < c.grid.Nrows; row++ {
		for col := 0; col < c.grid.Ncols; col++ {
			value, ok := c.cell(row, col)
			if !ok {
				continue
			}

			x, y := c.grid.CellToGeo(row, col)
			if err := sink.WriteFeature(cells.Square(y, x, half), value); err != nil {
				return count, err
			}
			count++
		}
		c.progress(row + 1)
	}

	return count, nil
}

// Dissolve writes one polygon per 4-connected region of cells sharing the
// same attribute value. Holes are kept as inner rings.
func (c *Converter) Dissolve(sink Sink) (int, error) {
	tracer := dissolve.NewTracer(c.grid.Nrows, c.grid.Ncols, c.cell)
	count := 0

	for {
		region, ok, err := tracer.Next()
		if err != nil {
			return count, err
		}
		if !ok {
			break
		}

		if err := sink.WriteFeature(c.polygon(region.Rings), region.Value); err != nil {
			return count, err
		}
		count++

		row, _ := tracer.Cursor()
		c.progress(row)
	}
	c.progress(c.grid.Nrows)

	return count, nil
}

func (c *Converter) polygon(rings []dissolve.Ring) orb.Polygon {
	poly := make(orb.Polygon, 0, len(rings))

	for _, ring := range rings {
		r := make(orb.Ring, 0, len(ring))
		for _, corner := range ring {
			x, y := c.grid.CornerToGeo(corner.Row, corner.Col)
			r = append(r, orb.Point{x, y})
		}
		poly = append(poly, r)
	}

	return poly
}

// Convert reads the grid at in and writes the polygons to out.
func Convert(in, out string, opts Options) error {
	report := utils.NewReporter(os.Stdout, opts.Verbose)

	report.Step("Loading grid %s", in)
	g, err := grid.Read(in)
	if err != nil {
		return err
	}
	report.Done("Loaded %dx%d grid", g.Ncols, g.Nrows)

	for _, field := range g.Fields() {
		report.Info("%-12s %s", field[0], field[1])
	}
	report.Info("%-12s %v", "xorigin", g.XOrigin())
	report.Info("%-12s %v", "yorigin", g.YOrigin())
	report.Info("%-12s %v", "xurcorner", g.XUpperRight())
	report.Info("%-12s %v", "yurcorner", g.YUpperRight())

	conv, err := New(&g, opts)
	if err != nil {
		return err
	}

	w, err := create(out, output.Layer{
		Name:      opts.Layer,
		Attribute: opts.Attribute,
		WGS84:     opts.WGS84,
	})
	if err != nil {
		return err
	}

	bar := utils.NewProgressBar(g.Nrows, "rows", opts.Quiet)
	conv.OnRow = func(rows int) { bar.Set(rows) }

	if opts.Dissolve {
		report.Step("Dissolving cells into %s", out)
	} else {
		report.Step("Writing cells to %s", out)
	}

	n, err := conv.Run(w)
	if err != nil {
		// nothing of a failed conversion is kept
		if abortErr := w.Abort(); abortErr != nil {
			return fmt.Errorf("%w (removing partial output: %v)", err, abortErr)
		}
		return err
	}
	if err = w.Close(); err != nil {
		w.Abort()
		return err
	}
	bar.Finish()

	report.Done("Wrote %d features", n)
	report.Finish()

	return nil
}
