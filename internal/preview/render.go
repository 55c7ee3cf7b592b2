package preview

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path"
	"runtime"

	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/gruppe-adler/aig-utils/internal/grid"
)

// Mode selects how cell values are turned into colors.
type Mode string

// Supported modes
const (
	Gray       Mode = "gray"
	TerrainRGB Mode = "terrainrgb"
)

// Sizes are the heights of the resized previews
var Sizes = []uint{128, 256, 512, 1024}

var sem = semaphore.NewWeighted(int64(runtime.NumCPU()))

// Render draws one pixel per cell, north up. NODATA cells are transparent.
func Render(g *grid.ArcInfoGrid, mode Mode) (*image.NRGBA, error) {
	var colorOf func(v float64) color.NRGBA

	switch mode {
	case Gray:
		min, max := valueRange(g)
		colorOf = func(v float64) color.NRGBA {
			l := uint8(128)
			if max > min {
				l = uint8(math.Round((v - min) / (max - min) * 255))
			}
			return color.NRGBA{R: l, G: l, B: l, A: 255}
		}
	case TerrainRGB:
		colorOf = func(v float64) color.NRGBA {
			c := MapboxTerrain.Encode(v)
			return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
		}
	default:
		return nil, fmt.Errorf("unknown preview mode %q", mode)
	}

	img := image.NewNRGBA(image.Rect(0, 0, g.Ncols, g.Nrows))

	for row := 0; row < g.Nrows; row++ {
		for col := 0; col < g.Ncols; col++ {
			v := g.Data[row][col]
			if g.IsNoData(v) {
				continue
			}
			img.SetNRGBA(col, row, colorOf(v))
		}
	}

	return img, nil
}

func valueRange(g *grid.ArcInfoGrid) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)

	for _, row := range g.Data {
		for _, v := range row {
			if g.IsNoData(v) {
				continue
			}
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}

	return min, max
}

// BuildSizes writes a resized copy of img for every height in sizes to
// outputDirectory. The images are built concurrently.
func BuildSizes(ctx context.Context, img image.Image, mode Mode, sizes []uint, outputDirectory string) error {
	// interpolating encoded heights would produce garbage
	interp := resize.MitchellNetravali
	if mode == TerrainRGB {
		interp = resize.NearestNeighbor
	}

	height := img.Bounds().Dy()
	width := img.Bounds().Dx()

	g, ctx := errgroup.WithContext(ctx)

	for _, size := range sizes {
		size := size
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			factor := float64(size) / float64(height)
			w := uint(math.Max(1, math.Round(float64(width)*factor)))

			resized := resize.Resize(w, size, img, interp)
			return saveImage(path.Join(outputDirectory, fmt.Sprintf("preview_%d.png", size)), resized)
		})
	}

	return g.Wait()
}

func saveImage(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if err = png.Encode(out, img); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
