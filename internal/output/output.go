// Package output writes polygons with a single real-valued attribute to
// vector files. The format is picked from the file extension.
package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"

	"github.com/gruppe-adler/aig-utils/internal/utils"
)

// Errors returned by this package.
var (
	ErrIO                = errors.New("output: i/o error")
	ErrUnsupportedFormat = errors.New("output: unsupported format")
)

// wgs84WKT is written to the .prj of shapefiles in WGS84.
const wgs84WKT = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// Layer describes the one layer every output holds.
type Layer struct {
	Name      string // layer name, ignored by shapefiles
	Attribute string // name of the attribute field
	WGS84     bool   // declare longitude/latitude on the WGS84 ellipsoid
}

// Writer receives finished polygons in the order they are to be stored.
// Close commits the output, Abort drops it and removes every file created.
type Writer interface {
	WriteFeature(poly orb.Polygon, value float64) error
	Close() error
	Abort() error
}

// Create deletes whatever exists at path and creates a new output there.
// Supported extensions are .shp, .fgb, .mvt, .geojson and .json.
func Create(path string, layer Layer) (Writer, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".shp":
		base := strings.TrimSuffix(path, filepath.Ext(path))
		if err := removeExisting(path, base+".shx", base+".dbf", base+".prj"); err != nil {
			return nil, err
		}
		return newShapefileWriter(path, layer)

	case ".fgb":
		if err := removeExisting(path); err != nil {
			return nil, err
		}
		return newFlatGeobufWriter(path, layer)

	case ".mvt":
		if err := removeExisting(path); err != nil {
			return nil, err
		}
		return newVectorTileWriter(path, layer)

	case ".geojson", ".json":
		if err := removeExisting(path); err != nil {
			return nil, err
		}
		return newGeoJSONWriter(path, layer)
	}

	return nil, fmt.Errorf("%w: %q (use .shp, .fgb, .mvt or .geojson)", ErrUnsupportedFormat, ext)
}

func removeExisting(paths ...string) error {
	for _, p := range paths {
		if !utils.IsFile(p) {
			continue
		}
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	return nil
}

// discard closes f and removes the files at paths.
func discard(f *os.File, paths ...string) error {
	if f != nil {
		f.Close()
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	return nil
}

func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: creation of output file %s failed: %v", ErrIO, path, err)
	}
	return f, nil
}
