package output

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
)

// flatGeobufWriter buffers features until Close: the header carries the
// feature count and the packed index needs every bounding box.
type flatGeobufWriter struct {
	file     *os.File
	layer    Layer
	features []feature
}

type feature struct {
	geometry orb.Polygon
	value    float64
}

func newFlatGeobufWriter(path string, layer Layer) (*flatGeobufWriter, error) {
	f, err := createFile(path)
	if err != nil {
		return nil, err
	}

	return &flatGeobufWriter{file: f, layer: layer}, nil
}

func (w *flatGeobufWriter) WriteFeature(poly orb.Polygon, value float64) error {
	w.features = append(w.features, feature{geometry: poly, value: value})
	return nil
}

func (w *flatGeobufWriter) Close() error {
	builder := flatbuffers.NewBuilder(4096)

	header := writer.NewHeader(builder)
	header.SetGeometryType(flattypes.GeometryTypePolygon)
	if w.layer.Name != "" {
		header.SetName(w.layer.Name)
	}

	column := writer.NewColumn(builder)
	column.SetName(w.layer.Attribute)
	column.SetTitle(w.layer.Attribute)
	column.SetType(flattypes.ColumnTypeDouble)
	column.SetNullable(false)
	header.SetColumns([]*writer.Column{column})

	if w.layer.WGS84 {
		crs := writer.NewCrs(builder)
		crs.SetOrg("EPSG")
		crs.SetCode(4326)
		crs.SetName("WGS 84")
		header.SetCrs(crs)
	}

	gen := &featureGenerator{features: w.features}

	// the packed R-tree needs at least one feature
	fgb := writer.NewWriter(header, len(w.features) > 0, gen, nil)

	if _, err := fgb.Write(w.file); err != nil {
		w.file.Close()
		return fmt.Errorf("%w: writing %s: %v", ErrIO, w.file.Name(), err)
	}

	if err := w.file.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func (w *flatGeobufWriter) Abort() error {
	w.features = nil
	return discard(w.file, w.file.Name())
}

// featureGenerator hands the buffered features to the FlatGeobuf writer.
type featureGenerator struct {
	features []feature
	index    int
}

func (g *featureGenerator) Generate() *writer.Feature {
	if g.index >= len(g.features) {
		return nil
	}

	f := g.features[g.index]
	g.index++

	builder := flatbuffers.NewBuilder(1024)

	geometry := writer.NewGeometry(builder)
	geometry.SetType(flattypes.GeometryTypePolygon)
	xy, ends := polygonToXYEnds(f.geometry)
	geometry.SetXY(xy)
	geometry.SetEnds(ends)

	feature := writer.NewFeature(builder)
	feature.SetGeometry(geometry)
	feature.SetProperties(encodeDouble(0, f.value))

	return feature
}

func polygonToXYEnds(poly orb.Polygon) ([]float64, []uint32) {
	points := 0
	for _, ring := range poly {
		points += len(ring)
	}

	xy := make([]float64, 0, points*2)
	ends := make([]uint32, 0, len(poly))

	end := uint32(0)
	for _, ring := range poly {
		for _, p := range ring {
			xy = append(xy, p[0], p[1])
		}
		end += uint32(len(ring))
		ends = append(ends, end)
	}

	return xy, ends
}

// encodeDouble encodes one property: the uint16 column index followed by
// the little-endian value.
func encodeDouble(column uint16, value float64) []byte {
	b := make([]byte, 10)
	binary.LittleEndian.PutUint16(b[0:2], column)
	binary.LittleEndian.PutUint64(b[2:10], math.Float64bits(value))
	return b
}
