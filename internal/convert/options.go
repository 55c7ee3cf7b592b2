package convert

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gruppe-adler/aig-utils/internal/extent"
)

// Options control a conversion. They are passed by value and never modified
// once the conversion has started.
type Options struct {
	Attribute  string         `json:"attribute"`
	Dissolve   bool           `json:"dissolve"`
	Extent     *extent.Extent `json:"extent,omitempty"`
	Layer      string         `json:"layer"`
	Multiplier int            `json:"multiplier"` // 0 means no multiplier
	NonZero    bool           `json:"nonzero"`
	WGS84      bool           `json:"wgs84"`
	Quiet      bool           `json:"quiet"`
	Verbose    bool           `json:"verbose"`
}

// DefaultOptions returns the options used when nothing else is given
func DefaultOptions() Options {
	return Options{
		Attribute: "value",
		Layer:     "grid_value",
	}
}

// LoadOptions reads options from a JSON file. Fields missing from the file
// keep their default.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	bytes, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}

	if err = json.Unmarshal(bytes, &opts); err != nil {
		return opts, fmt.Errorf("invalid options file %s: %w", path, err)
	}

	return opts, nil
}

// AttributeValue returns the attribute value written for a cell value v. With a
// multiplier v is scaled and truncated towards zero.
func (o Options) AttributeValue(v float64) float64 {
	if o.Multiplier == 0 {
		return v
	}
	return float64(int64(v * float64(o.Multiplier)))
}
