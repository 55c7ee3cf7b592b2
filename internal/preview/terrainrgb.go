package preview

import (
	"image/color"
	"math"
)

// Encoding maps a height onto the 24 bits of an RGB pixel as
// height = Base + (R*65536 + G*256 + B) * Interval.
type Encoding struct {
	Base     float64
	Interval float64
}

// MapboxTerrain is the Terrain-RGB encoding: 0.1 m steps from -10000 m.
var MapboxTerrain = Encoding{Base: -10000, Interval: 0.1}

const maxStep = 1<<24 - 1

// Encode returns the pixel for height. Heights outside the encodable range
// are clamped to its ends.
func (e Encoding) Encode(height float64) color.RGBA {
	step := math.Round((height - e.Base) / e.Interval)
	if !(step > 0) {
		step = 0
	}
	s := uint32(min(step, maxStep))

	return color.RGBA{R: uint8(s >> 16), G: uint8(s >> 8), B: uint8(s), A: 255}
}

// Decode returns the height stored in c.
func (e Encoding) Decode(c color.RGBA) float64 {
	s := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	return e.Base + float64(s)*e.Interval
}
