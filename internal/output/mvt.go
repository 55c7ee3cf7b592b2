package output

import (
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/maptile"
)

// maxTileZoom bounds the search for the tile enclosing a WGS84 layer
const maxTileZoom = 22

// vectorTileWriter stores the whole layer in a single Mapbox vector tile.
// WGS84 layers are projected into the smallest web mercator tile that holds
// them, other layers are scaled uniformly onto the tile extent.
type vectorTileWriter struct {
	file  *os.File
	layer Layer
	fc    *geojson.FeatureCollection
}

func newVectorTileWriter(path string, layer Layer) (*vectorTileWriter, error) {
	f, err := createFile(path)
	if err != nil {
		return nil, err
	}

	return &vectorTileWriter{
		file:  f,
		layer: layer,
		fc:    geojson.NewFeatureCollection(),
	}, nil
}

func (w *vectorTileWriter) WriteFeature(poly orb.Polygon, value float64) error {
	feature := geojson.NewFeature(poly)
	feature.Properties[w.layer.Attribute] = value

	w.fc.Append(feature)
	return nil
}

func (w *vectorTileWriter) Abort() error {
	return discard(w.file, w.file.Name())
}

func (w *vectorTileWriter) Close() error {
	name := w.layer.Name
	if name == "" {
		name = w.layer.Attribute
	}
	layers := mvt.Layers{mvt.NewLayer(name, w.fc)}

	if len(w.fc.Features) > 0 {
		bound := collectionBound(w.fc)
		if w.layer.WGS84 {
			layers.ProjectToTile(enclosingTile(bound))
		} else {
			scaleToExtent(layers[0], bound)
		}
	}

	data, err := mvt.Marshal(layers)
	if err != nil {
		w.file.Close()
		return fmt.Errorf("%w: encoding %s: %v", ErrIO, w.file.Name(), err)
	}

	if _, err = w.file.Write(data); err != nil {
		w.file.Close()
		return fmt.Errorf("%w: writing %s: %v", ErrIO, w.file.Name(), err)
	}

	if err = w.file.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func collectionBound(fc *geojson.FeatureCollection) orb.Bound {
	bound := fc.Features[0].Geometry.Bound()
	for _, f := range fc.Features[1:] {
		bound = bound.Union(f.Geometry.Bound())
	}
	return bound
}

// enclosingTile returns the deepest tile containing both corners of b.
func enclosingTile(b orb.Bound) maptile.Tile {
	upperLeft := orb.Point{b.Min[0], b.Max[1]}
	lowerRight := orb.Point{b.Max[0], b.Min[1]}

	z := maptile.Zoom(0)
	for z < maxTileZoom && maptile.At(upperLeft, z+1) == maptile.At(lowerRight, z+1) {
		z++
	}

	return maptile.At(upperLeft, z)
}

// scaleToExtent maps b onto [0, extent] with y pointing down, keeping the
// aspect ratio.
func scaleToExtent(layer *mvt.Layer, b orb.Bound) {
	size := math.Max(b.Right()-b.Left(), b.Top()-b.Bottom())
	if size == 0 {
		return
	}
	scale := float64(layer.Extent) / size

	for _, f := range layer.Features {
		poly := f.Geometry.(orb.Polygon)
		for _, ring := range poly {
			for i, p := range ring {
				ring[i] = orb.Point{
					math.Round((p[0] - b.Left()) * scale),
					math.Round((b.Top() - p[1]) * scale),
				}
			}
		}
	}
}
