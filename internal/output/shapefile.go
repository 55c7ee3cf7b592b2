package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// dBASE field names are limited to 10 characters
const maxFieldName = 10

type shapefileWriter struct {
	path  string
	layer Layer
	enc   *shp.Encoder

	closed bool
}

func newShapefileWriter(path string, layer Layer) (*shapefileWriter, error) {
	name := layer.Attribute
	if len(name) > maxFieldName {
		name = name[:maxFieldName]
	}

	enc, err := shp.NewEncoderFromFields(path, goshp.POLYGON, goshp.FloatField(name, 24, 8))
	if err != nil {
		return nil, fmt.Errorf("%w: creation of output file %s failed: %v", ErrIO, path, err)
	}

	return &shapefileWriter{
		path:  path,
		layer: layer,
		enc:   enc,
	}, nil
}

func (w *shapefileWriter) WriteFeature(poly orb.Polygon, value float64) error {
	if err := w.enc.EncodeFields(shapePolygon(poly), value); err != nil {
		return fmt.Errorf("%w: could not create feature in shapefile: %v", ErrIO, err)
	}
	return nil
}

func (w *shapefileWriter) Close() error {
	w.enc.Close()
	w.closed = true

	if !w.layer.WGS84 {
		return nil
	}

	prj := strings.TrimSuffix(w.path, filepath.Ext(w.path)) + ".prj"
	if err := os.WriteFile(prj, []byte(wgs84WKT), 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func (w *shapefileWriter) Abort() error {
	if !w.closed {
		w.enc.Close()
		w.closed = true
	}

	base := strings.TrimSuffix(w.path, filepath.Ext(w.path))
	return discard(nil, w.path, base+".shx", base+".dbf", base+".prj")
}

// shapePolygon converts poly, turning the outer ring clockwise and holes
// counter-clockwise as shapefile readers expect.
func shapePolygon(poly orb.Polygon) geom.Polygon {
	p := make(geom.Polygon, 0, len(poly))

	for i, ring := range poly {
		want := orb.CCW
		if i == 0 {
			want = orb.CW
		}
		orientation := ring.Orientation()
		reverse := orientation != 0 && orientation != want

		path := make([]geom.Point, len(ring))
		for j, pt := range ring {
			k := j
			if reverse {
				k = len(ring) - 1 - j
			}
			path[k] = geom.Point{X: pt[0], Y: pt[1]}
		}
		p = append(p, path)
	}

	return p
}
