package phantom

import (
	"fmt"
	"runtime"
	"sync"

	"phantomgen/internal/models"
)

// CTParams holds the generation parameters for the CT phantoms.
type CTParams struct {
	// Original selects the 1974 paper's gray values instead of the
	// modified contrast set used by default
	Original bool

	// Ellipses overrides the builtin 2D table when non-nil
	Ellipses []Ellipse

	// Ellipsoids overrides the builtin 3D table when non-nil
	Ellipsoids []Ellipsoid

	// ZLims bounds the z sampling range for 3D phantoms. Often only
	// the middle portion of the head is wanted, e.g. {-0.5, 0.5}.
	ZLims [2]float64

	// NumWorkers is the number of goroutines used for rasterization
	NumWorkers int
}

// NewCTParams returns CT parameters with default values: the modified
// gray table, the full z range and all available cores.
func NewCTParams() *CTParams {
	return &CTParams{
		ZLims:      [2]float64{-1, 1},
		NumWorkers: runtime.NumCPU(),
	}
}

// workers returns a sane worker count for the pool
func (p *CTParams) workers() int {
	if p.NumWorkers < 1 {
		return runtime.NumCPU()
	}
	return p.NumWorkers
}

// ellipses2D resolves the effective 2D table
func (p *CTParams) ellipses2D() []Ellipse {
	if p.Ellipses != nil {
		return p.Ellipses
	}
	if p.Original {
		return SheppLoganEllipses2D()
	}
	return ModifiedSheppLoganEllipses2D()
}

// ellipsoids3D resolves the effective 3D table
func (p *CTParams) ellipsoids3D() []Ellipsoid {
	if p.Ellipsoids != nil {
		return p.Ellipsoids
	}
	if p.Original {
		return SheppLoganEllipsoids3D()
	}
	return ModifiedSheppLoganEllipsoids3D()
}

// linspace returns n evenly spaced samples over [lo, hi].
// A single sample sits at lo, matching the grid convention used for
// single-slice volumes.
func linspace(lo, hi float64, n int) []float64 {
	xs := make([]float64, n)
	if n == 1 {
		xs[0] = lo
		return xs
	}
	step := (hi - lo) / float64(n-1)
	for i := range xs {
		xs[i] = lo + float64(i)*step
	}
	return xs
}

// CT2D rasterizes a 2D Shepp-Logan phantom of the requested size.
// The field of view is [-1, 1] in both directions: x runs across
// columns (width samples) and y across rows (height samples). Each
// ellipse adds its intensity to every pixel whose center falls inside
// it, so overlapping ellipses accumulate.
func CT2D(height, width int, p *CTParams) (*models.Image, error) {
	if height < 1 || width < 1 {
		return nil, fmt.Errorf("phantom dimensions must be positive, got %dx%d", height, width)
	}
	if p == nil {
		p = NewCTParams()
	}
	ellipses := p.ellipses2D()

	img := models.NewImage(width, height)
	xs := linspace(-1, 1, width)
	ys := linspace(-1, 1, height)

	// Rasterize rows in parallel
	rows := make(chan int, height)
	for y := 0; y < height; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	for w := 0; w < p.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				row := img.Data[y*width : (y+1)*width]
				for x := 0; x < width; x++ {
					for i := range ellipses {
						if ellipses[i].contains(xs[x], ys[y]) {
							row[x] += ellipses[i].Intensity
						}
					}
				}
			}
		}()
	}
	wg.Wait()

	return img, nil
}

// CT3D rasterizes a 3D Shepp-Logan phantom. The volume holds depth
// slices of height x width voxels; x and y span [-1, 1] while z spans
// the configured ZLims. Rotation of the ellipsoids is restricted to
// the xy plane, as in the published tables.
func CT3D(height, width, depth int, p *CTParams) (*models.Volume, error) {
	if height < 1 || width < 1 || depth < 1 {
		return nil, fmt.Errorf("phantom dimensions must be positive, got %dx%dx%d", height, width, depth)
	}
	if p == nil {
		p = NewCTParams()
	}
	if p.ZLims[0] > p.ZLims[1] {
		return nil, fmt.Errorf("zlims lower bound %g exceeds upper bound %g", p.ZLims[0], p.ZLims[1])
	}
	ellipsoids := p.ellipsoids3D()

	vol := models.NewVolume(width, height, depth)
	xs := linspace(-1, 1, width)
	ys := linspace(-1, 1, height)
	zs := linspace(p.ZLims[0], p.ZLims[1], depth)

	// Rasterize slices in parallel
	slices := make(chan int, depth)
	for z := 0; z < depth; z++ {
		slices <- z
	}
	close(slices)

	var wg sync.WaitGroup
	for w := 0; w < p.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for z := range slices {
				plane := vol.Slice(z)
				for y := 0; y < height; y++ {
					for x := 0; x < width; x++ {
						var sum float64
						for i := range ellipsoids {
							if ellipsoids[i].contains(xs[x], ys[y], zs[z]) {
								sum += ellipsoids[i].Intensity
							}
						}
						plane.Set(x, y, sum)
					}
				}
			}
		}()
	}
	wg.Wait()

	return vol, nil
}
