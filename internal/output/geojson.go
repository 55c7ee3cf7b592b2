package output

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type geoJSONWriter struct {
	file  *os.File
	layer Layer
	fc    *geojson.FeatureCollection
}

func newGeoJSONWriter(path string, layer Layer) (*geoJSONWriter, error) {
	f, err := createFile(path)
	if err != nil {
		return nil, err
	}

	return &geoJSONWriter{
		file:  f,
		layer: layer,
		fc:    geojson.NewFeatureCollection(),
	}, nil
}

func (w *geoJSONWriter) WriteFeature(poly orb.Polygon, value float64) error {
	feature := geojson.NewFeature(poly)
	feature.Properties[w.layer.Attribute] = value

	w.fc.Append(feature)
	return nil
}

func (w *geoJSONWriter) Abort() error {
	return discard(w.file, w.file.Name())
}

func (w *geoJSONWriter) Close() error {
	w.fc.ExtraMembers = geojson.Properties{}
	if w.layer.Name != "" {
		w.fc.ExtraMembers["name"] = w.layer.Name
	}
	if w.layer.WGS84 {
		w.fc.ExtraMembers["crs"] = map[string]interface{}{
			"type":       "name",
			"properties": map[string]interface{}{"name": "urn:ogc:def:crs:OGC:1.3:CRS84"},
		}
	}

	bytes, err := w.fc.MarshalJSON()
	if err != nil {
		w.file.Close()
		return fmt.Errorf("%w: encoding %s: %v", ErrIO, w.file.Name(), err)
	}

	if _, err = w.file.Write(bytes); err != nil {
		w.file.Close()
		return fmt.Errorf("%w: writing %s: %v", ErrIO, w.file.Name(), err)
	}

	if err = w.file.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
