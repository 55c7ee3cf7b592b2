package convert

import (
	"errors"
	"flag"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruppe-adler/aig-utils/internal/extent"
	"github.com/gruppe-adler/aig-utils/internal/grid"
	"github.com/gruppe-adler/aig-utils/internal/output"
)

const nodata = -9999

type feature struct {
	poly  orb.Polygon
	value float64
}

type sliceSink struct {
	features []feature
}

func (s *sliceSink) WriteFeature(poly orb.Polygon, value float64) error {
	s.features = append(s.features, feature{poly, value})
	return nil
}

func testGrid(data [][]float64) *grid.ArcInfoGrid {
	return &grid.ArcInfoGrid{
		Header: grid.Header{
			Ncols:       len(data[0]),
			Nrows:       len(data),
			CellSize:    1,
			NoDataValue: nodata,
		},
		Data: data,
	}
}

func run(t *testing.T, g *grid.ArcInfoGrid, opts Options) []feature {
	t.Helper()

	c, err := New(g, opts)
	require.NoError(t, err)

	sink := &sliceSink{}
	n, err := c.Run(sink)
	require.NoError(t, err)
	require.Equal(t, len(sink.features), n)

	return sink.features
}

func area(p orb.Polygon) float64 {
	return math.Abs(planar.Area(p))
}

func TestCells_UniformGrid(t *testing.T) {
	features := run(t, testGrid([][]float64{{1, 1}, {1, 1}}), DefaultOptions())

	require.Len(t, features, 4)
	for _, f := range features {
		assert.Equal(t, 1.0, f.value)
		assert.InDelta(t, 1, area(f.poly), 1e-12)
		assert.True(t, f.poly[0].Closed())
	}

	// row-major, starting at the north west cell
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 1}, Max: orb.Point{1, 2}}, features[0].poly.Bound())
	assert.Equal(t, orb.Bound{Min: orb.Point{1, 0}, Max: orb.Point{2, 1}}, features[3].poly.Bound())
}

func TestCells_NoData(t *testing.T) {
	features := run(t, testGrid([][]float64{{nodata, 1}, {1, 1}}), DefaultOptions())

	require.Len(t, features, 3)
	assert.Equal(t, orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{2, 2}}, features[0].poly.Bound())
}

func TestCells_Extent(t *testing.T) {
	testCases := []struct {
		name   string
		extent extent.Extent
		count  int
	}{
		{"centres on boundary", extent.Extent{MinX: 0.5, MinY: 0.5, MaxX: 1.5, MaxY: 1.5}, 4},
		{"lower left centre only", extent.Extent{MinX: 0.5, MinY: 0.5, MaxX: 1, MaxY: 1}, 1},
		{"between centres", extent.Extent{MinX: 0.6, MinY: 0.6, MaxX: 1.4, MaxY: 1.4}, 0},
		{"western column", extent.Extent{MinX: 0, MinY: 0, MaxX: 1, MaxY: 2}, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			e := tc.extent
			opts.Extent = &e

			features := run(t, testGrid([][]float64{{1, 1}, {1, 1}}), opts)
			assert.Len(t, features, tc.count)
		})
	}
}

func TestNew_ExtentOutOfRange(t *testing.T) {
	opts := DefaultOptions()
	opts.Extent = &extent.Extent{MinX: -1, MinY: 0, MaxX: 1, MaxY: 1}

	_, err := New(testGrid([][]float64{{1, 1}, {1, 1}}), opts)
	assert.ErrorIs(t, err, extent.ErrRange)
}

func TestNew_EmptyAttribute(t *testing.T) {
	opts := DefaultOptions()
	opts.Attribute = ""

	_, err := New(testGrid([][]float64{{1}}), opts)
	assert.Error(t, err)
}

func TestAttributeValue(t *testing.T) {
	testCases := []struct {
		multiplier int
		in, out    float64
	}{
		{0, 0.7, 0.7},
		{10, 0.7, 7},
		{10, 0.79, 7},
		{10, -0.79, -7},
		{100, 12.345, 1234},
		{1, 3.9, 3},
	}

	for _, tc := range testCases {
		opts := Options{Multiplier: tc.multiplier}
		assert.Equal(t, tc.out, opts.AttributeValue(tc.in), "%v * %d", tc.in, tc.multiplier)
	}
}

func TestCells_Multiplier(t *testing.T) {
	opts := DefaultOptions()
	opts.Multiplier = 10

	features := run(t, testGrid([][]float64{{0.7}}), opts)
	require.Len(t, features, 1)
	assert.Equal(t, 7.0, features[0].value)
}

func TestCells_NonZero(t *testing.T) {
	g := testGrid([][]float64{{0, 1}, {2, 0}})

	assert.Len(t, run(t, g, DefaultOptions()), 4)

	opts := DefaultOptions()
	opts.NonZero = true
	features := run(t, g, opts)
	require.Len(t, features, 2)
	assert.Equal(t, 1.0, features[0].value)
	assert.Equal(t, 2.0, features[1].value)
}

func TestDissolve_UniformGrid(t *testing.T) {
	opts := DefaultOptions()
	opts.Dissolve = true

	features := run(t, testGrid([][]float64{{1, 1}, {1, 1}}), opts)

	require.Len(t, features, 1)
	assert.Equal(t, 1.0, features[0].value)
	assert.Equal(t, orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}}, features[0].poly)
	assert.Equal(t, orb.CCW, features[0].poly[0].Orientation())
}

func TestDissolve_CellSizeAndOrigin(t *testing.T) {
	g := testGrid([][]float64{{3, 3, 3}, {3, 3, 3}})
	g.XllCorner, g.YllCorner, g.CellSize = 100, 200, 10

	opts := DefaultOptions()
	opts.Dissolve = true

	features := run(t, g, opts)
	require.Len(t, features, 1)
	assert.InDelta(t, 600, area(features[0].poly), 1e-9)
	assert.Equal(t, orb.Bound{Min: orb.Point{100, 200}, Max: orb.Point{130, 220}}, features[0].poly.Bound())
}

func TestDissolve_Hole(t *testing.T) {
	opts := DefaultOptions()
	opts.Dissolve = true

	features := run(t, testGrid([][]float64{
		{1, 1, 1},
		{1, nodata, 1},
		{1, 1, 1},
	}), opts)

	require.Len(t, features, 1)
	poly := features[0].poly
	require.Len(t, poly, 2)
	assert.Equal(t, orb.CCW, poly[0].Orientation())
	assert.Equal(t, orb.CW, poly[1].Orientation())
	assert.InDelta(t, 8, area(poly), 1e-12)
	assert.Equal(t, orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{2, 2}}, poly[1].Bound())
}

func TestDissolve_GroupsByAttributeValue(t *testing.T) {
	opts := DefaultOptions()
	opts.Dissolve = true
	opts.Multiplier = 10

	features := run(t, testGrid([][]float64{
		{0.71, 0.74},
		{0.2, 0.25},
	}), opts)

	require.Len(t, features, 2)
	assert.Equal(t, 7.0, features[0].value)
	assert.Equal(t, 2.0, features[1].value)
}

func TestDissolve_ExtentAndNonZero(t *testing.T) {
	opts := DefaultOptions()
	opts.Dissolve = true
	opts.NonZero = true
	opts.Extent = &extent.Extent{MinX: 0, MinY: 0, MaxX: 2, MaxY: 3}

	// the eastern column lies outside the extent, the zero cells are skipped
	features := run(t, testGrid([][]float64{
		{5, 5, 5},
		{0, 5, 5},
		{5, 0, 5},
	}), opts)

	require.Len(t, features, 2)
	assert.InDelta(t, 3, area(features[0].poly), 1e-12)
	assert.InDelta(t, 1, area(features[1].poly), 1e-12)
}

func TestOnRow(t *testing.T) {
	for _, dissolve := range []bool{false, true} {
		opts := DefaultOptions()
		opts.Dissolve = dissolve

		c, err := New(testGrid([][]float64{{1, 2}, {3, 4}, {5, 6}}), opts)
		require.NoError(t, err)

		var rows []int
		c.OnRow = func(n int) { rows = append(rows, n) }

		_, err = c.Run(&sliceSink{})
		require.NoError(t, err)

		require.NotEmpty(t, rows)
		assert.Equal(t, 3, rows[len(rows)-1])
		assert.IsNonDecreasing(t, rows)
	}
}

const gridFile = `ncols 2
nrows 2
xllcorner 0
yllcorner 0
cellsize 1
NODATA_value -9999
1 1
1 1
`

func writeGrid(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "grid.asc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readGeoJSON(t *testing.T, path string) *geojson.FeatureCollection {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	return fc
}

func TestConvert(t *testing.T) {
	in := writeGrid(t, gridFile)
	out := filepath.Join(t.TempDir(), "out.geojson")

	opts := DefaultOptions()
	opts.Quiet = true
	require.NoError(t, Convert(in, out, opts))

	fc := readGeoJSON(t, out)
	require.Len(t, fc.Features, 4)
	for _, f := range fc.Features {
		assert.Equal(t, 1.0, f.Properties["value"])
	}
	assert.Equal(t, "grid_value", fc.ExtraMembers["name"])
}

func TestConvert_Dissolve(t *testing.T) {
	in := writeGrid(t, gridFile)
	out := filepath.Join(t.TempDir(), "out.geojson")

	opts := DefaultOptions()
	opts.Quiet = true
	opts.Dissolve = true
	opts.Attribute = "height"
	require.NoError(t, Convert(in, out, opts))

	fc := readGeoJSON(t, out)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, 1.0, fc.Features[0].Properties["height"])

	poly, ok := fc.Features[0].Geometry.(orb.Polygon)
	require.True(t, ok)
	assert.InDelta(t, 4, area(poly), 1e-12)
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.Quiet = true

	err := Convert(filepath.Join(dir, "missing.asc"), filepath.Join(dir, "out.geojson"), opts)
	assert.ErrorIs(t, err, grid.ErrIO)

	err = Convert(writeGrid(t, "ncols 2\n"), filepath.Join(dir, "out.geojson"), opts)
	assert.ErrorIs(t, err, grid.ErrFormat)

	err = Convert(writeGrid(t, gridFile), filepath.Join(dir, "out.kml"), opts)
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)

	opts.Extent = &extent.Extent{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5}
	err = Convert(writeGrid(t, gridFile), filepath.Join(dir, "out.geojson"), opts)
	assert.ErrorIs(t, err, extent.ErrRange)
	assert.NoFileExists(t, filepath.Join(dir, "out.geojson"))
}

var errDiskFull = errors.New("disk full")

// failingWriter passes the first n features to the real writer and fails on
// the next one.
type failingWriter struct {
	output.Writer
	n int
}

func (w *failingWriter) WriteFeature(poly orb.Polygon, value float64) error {
	if w.n == 0 {
		return errDiskFull
	}
	w.n--
	return w.Writer.WriteFeature(poly, value)
}

func TestConvert_FailureLeavesNoOutput(t *testing.T) {
	defer func(orig func(string, output.Layer) (output.Writer, error)) { create = orig }(create)
	create = func(path string, layer output.Layer) (output.Writer, error) {
		w, err := output.Create(path, layer)
		if err != nil {
			return nil, err
		}
		return &failingWriter{Writer: w, n: 2}, nil
	}

	testCases := []struct {
		name     string
		out      string
		sidecars []string
	}{
		{"geojson", "out.geojson", nil},
		{"flatgeobuf", "out.fgb", nil},
		{"shapefile", "out.shp", []string{"out.shx", "out.dbf", "out.prj"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			out := filepath.Join(dir, tc.out)

			// a previous result is replaced, not kept
			require.NoError(t, os.WriteFile(out, []byte("old"), 0o644))

			opts := DefaultOptions()
			opts.Quiet = true
			opts.WGS84 = true

			err := Convert(writeGrid(t, gridFile), out, opts)
			require.ErrorIs(t, err, errDiskFull)

			assert.NoFileExists(t, out)
			for _, name := range tc.sidecars {
				assert.NoFileExists(t, filepath.Join(dir, name))
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"attribute": "depth",
		"dissolve": true,
		"multiplier": 100,
		"extent": {"minX": 1, "minY": 2, "maxX": 3, "maxY": 4}
	}`), 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)

	assert.Equal(t, "depth", opts.Attribute)
	assert.True(t, opts.Dissolve)
	assert.Equal(t, 100, opts.Multiplier)
	assert.Equal(t, &extent.Extent{MinX: 1, MinY: 2, MaxX: 3, MaxY: 4}, opts.Extent)

	// not in the file
	assert.Equal(t, "grid_value", opts.Layer)
	assert.False(t, opts.NonZero)
}

func TestLoadOptions_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadOptions(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dissolve": "yes"`), 0o644))
	_, err = LoadOptions(path)
	assert.Error(t, err)
}

func newFlagSet() *flag.FlagSet {
	set := flag.NewFlagSet("convert", flag.ContinueOnError)
	set.SetOutput(io.Discard)
	return set
}

func TestParseFlags(t *testing.T) {
	opts, in, out, err := ParseFlags(newFlagSet(), []string{
		"-dissolve", "-multiplier", "10", "-extent", "0,0,2,2", "-attr", "h", "grid.asc", "out.shp",
	})
	require.NoError(t, err)

	assert.Equal(t, "grid.asc", in)
	assert.Equal(t, "out.shp", out)
	assert.True(t, opts.Dissolve)
	assert.Equal(t, 10, opts.Multiplier)
	assert.Equal(t, "h", opts.Attribute)
	assert.Equal(t, "grid_value", opts.Layer)
	assert.Equal(t, &extent.Extent{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}, opts.Extent)
}

func TestParseFlags_ConfigOverriddenByFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"attribute": "depth", "layer": "sea", "nonzero": true}`), 0o644))

	opts, _, _, err := ParseFlags(newFlagSet(), []string{"-config", path, "-layer", "lake", "grid.asc", "out.fgb"})
	require.NoError(t, err)

	assert.Equal(t, "depth", opts.Attribute)
	assert.Equal(t, "lake", opts.Layer)
	assert.True(t, opts.NonZero)
}

func TestParseFlags_Errors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"no files", []string{}},
		{"one file", []string{"grid.asc"}},
		{"three files", []string{"a", "b", "c"}},
		{"bad extent", []string{"-extent", "1,2,3", "grid.asc", "out.shp"}},
		{"unknown flag", []string{"-foo", "grid.asc", "out.shp"}},
		{"missing config", []string{"-config", "/does/not/exist.json", "grid.asc", "out.shp"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := ParseFlags(newFlagSet(), tc.args)
			assert.Error(t, err)
		})
	}
}
