package grid

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read an ArcInfo Grid ASCII file from given path. Files ending in .gz are
// decompressed on the fly.
func Read(path string) (ArcInfoGrid, error) {
	file, err := os.Open(path)
	if err != nil {
		return ArcInfoGrid{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer file.Close()

	var reader io.Reader = file

	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return ArcInfoGrid{}, fmt.Errorf("%w: %s: %v", ErrIO, path, err)
		}
		defer gz.Close()

		reader = gz
	}

	return ParseArcInfoGrid(reader)
}
