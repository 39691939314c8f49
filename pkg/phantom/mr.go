package phantom

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"phantomgen/internal/models"
)

// gyromagneticRatio is the proton gyromagnetic ratio in
// 10^6 rad s^-1 T^-1, used for the T2* susceptibility correction.
const gyromagneticRatio = 267.52219

// Tissue holds the MR relaxation parameters of one tissue type.
// When T1 is NaN the field-strength model T1 = A * B0^C is used;
// otherwise the explicit T1 value applies.
type Tissue struct {
	// A, C parameterize the T1 field-strength model
	A float64 `yaml:"a"`
	C float64 `yaml:"c"`

	// T1 is the explicit longitudinal relaxation time in seconds,
	// or NaN to select the A*B0^C model
	T1 float64 `yaml:"t1"`

	// T2 is the transverse relaxation time in seconds
	T2 float64 `yaml:"t2"`

	// Chi is the magnetic susceptibility offset of the tissue
	Chi float64 `yaml:"chi"`
}

// MREllipsoid couples ellipsoid geometry with spin density and
// tissue relaxation parameters. A negative spin density marks a
// subtractive ellipsoid: its M0, T1 and T2 contributions are removed
// instead of added.
type MREllipsoid struct {
	// X, Y, Z locate the center in [-1, 1]
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`

	// A, B, C are the semi-axes along x, y and z before rotation
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`

	// Theta is the xy-plane rotation in radians
	Theta float64 `yaml:"theta"`

	// SpinDensity is the proton density M0 of the ellipsoid
	SpinDensity float64 `yaml:"spinDensity"`

	// Tissue supplies the relaxation parameters
	Tissue Tissue `yaml:"tissue"`
}

// contains reports whether point (x, y, z) falls inside the ellipsoid
func (e *MREllipsoid) contains(x, y, z float64) bool {
	ct := math.Cos(e.Theta)
	st := math.Sin(e.Theta)
	dx := x - e.X
	dy := y - e.Y
	dz := z - e.Z
	u := dx*ct + dy*st
	v := dx*st - dy*ct
	return u*u/(e.A*e.A)+v*v/(e.B*e.B)+dz*dz/(e.C*e.C) <= 1
}

// MRParams holds the generation parameters for the MR phantom.
type MRParams struct {
	// Ellipsoids overrides the builtin table when non-nil
	Ellipsoids []MREllipsoid

	// B0 is the main field strength in Tesla
	B0 float64

	// T2Star replaces T2 values with T2* values derived from the
	// tissue susceptibilities at the configured field strength
	T2Star bool

	// ZLims bounds the z sampling range
	ZLims [2]float64

	// NumWorkers is the number of goroutines used for rasterization
	NumWorkers int
}

// NewMRParams returns MR parameters with default values: 3 T field,
// plain T2, the full z range and all available cores.
func NewMRParams() *MRParams {
	return &MRParams{
		B0:         3,
		ZLims:      [2]float64{-1, 1},
		NumWorkers: runtime.NumCPU(),
	}
}

func (p *MRParams) workers() int {
	if p.NumWorkers < 1 {
		return runtime.NumCPU()
	}
	return p.NumWorkers
}

// MRVolumes bundles the three tissue-parameter volumes produced by
// the MR phantom. When T2Star was requested, T2 holds T2* values.
type MRVolumes struct {
	M0 *models.Volume
	T1 *models.Volume
	T2 *models.Volume
}

// MR3D generates the 3D MR Shepp-Logan phantom: proton density, T1
// and T2 (or T2*) maps on the same grid convention as CT3D. Each
// ellipsoid adds its spin density, and adds or removes relaxation
// values according to the sign of the spin density, so nested
// ellipsoids carve tissue regions out of their surroundings.
func MR3D(height, width, depth int, p *MRParams) (*MRVolumes, error) {
	if height < 1 || width < 1 || depth < 1 {
		return nil, fmt.Errorf("phantom dimensions must be positive, got %dx%dx%d", height, width, depth)
	}
	if p == nil {
		p = NewMRParams()
	}
	if p.ZLims[0] > p.ZLims[1] {
		return nil, fmt.Errorf("zlims lower bound %g exceeds upper bound %g", p.ZLims[0], p.ZLims[1])
	}
	if p.B0 <= 0 {
		return nil, fmt.Errorf("field strength must be positive, got %g T", p.B0)
	}
	ellipsoids := p.Ellipsoids
	if ellipsoids == nil {
		ellipsoids = MREllipsoidParameters()
	}

	out := &MRVolumes{
		M0: models.NewVolume(width, height, depth),
		T1: models.NewVolume(width, height, depth),
		T2: models.NewVolume(width, height, depth),
	}
	xs := linspace(-1, 1, width)
	ys := linspace(-1, 1, height)
	zs := linspace(p.ZLims[0], p.ZLims[1], depth)

	// Precompute the per-ellipsoid contributions: they do not depend
	// on the voxel position, only on the tissue and the field.
	t1c := make([]float64, len(ellipsoids))
	t2c := make([]float64, len(ellipsoids))
	for i := range ellipsoids {
		e := &ellipsoids[i]
		sgn := 1.0
		if e.SpinDensity < 0 {
			sgn = -1
		}
		if p.T2Star {
			t2c[i] = sgn / (1/e.Tissue.T2 + gyromagneticRatio*math.Abs(p.B0*e.Tissue.Chi))
		} else {
			t2c[i] = sgn * e.Tissue.T2
		}
		if math.IsNaN(e.Tissue.T1) {
			t1c[i] = sgn * e.Tissue.A * math.Pow(p.B0, e.Tissue.C)
		} else {
			t1c[i] = sgn * e.Tissue.T1
		}
	}

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
				for y := 0; y < height; y++ {
					for x := 0; x < width; x++ {
						var m0, t1, t2 float64
						for i := range ellipsoids {
							if ellipsoids[i].contains(xs[x], ys[y], zs[z]) {
								m0 += ellipsoids[i].SpinDensity
								t1 += t1c[i]
								t2 += t2c[i]
							}
						}
						out.M0.Set(x, y, z, m0)
						out.T1.Set(x, y, z, t1)
						out.T2.Set(x, y, z, t2)
					}
				}
			}
		}()
	}
	wg.Wait()

	return out, nil
}

// TissueParameters returns the relaxation parameters of the tissues
// appearing in the Gach et al. phantom, keyed by tissue name.
func TissueParameters() map[string]Tissue {
	nan := math.NaN()
	return map[string]Tissue{
		"scalp":        {A: .324, C: .137, T1: nan, T2: .07, Chi: -7.5e-6},
		"marrow":       {A: .533, C: .088, T1: nan, T2: .05, Chi: -8.85e-6},
		"csf":          {A: nan, C: nan, T1: 4.2, T2: 1.99, Chi: -9e-6},
		"blood-clot":   {A: 1.35, C: .34, T1: nan, T2: .2, Chi: -9e-6},
		"gray-matter":  {A: .857, C: .376, T1: nan, T2: .1, Chi: -9e-6},
		"white-matter": {A: .583, C: .382, T1: nan, T2: .08, Chi: -9e-6},
		"tumor":        {A: .926, C: .217, T1: nan, T2: .1, Chi: -9e-6},
	}
}

// MREllipsoidParameters returns the full ellipsoid table of the Gach
// et al. phantom. The published table lists fifteen nested ellipsoids;
// each inner ellipsoid must first remove the tissue of the structure
// enclosing it before adding its own, so the table expands into the
// additive entries followed by their subtractive counterparts (inner
// geometry carrying the enclosing tissue with negated spin density).
// The final blood-clot ellipsoid is listed in the paper's table but
// not used by its figures, and is dropped here as well, leaving 27
// entries. Callers may modify the returned slice freely before
// passing it to MR3D.
func MREllipsoidParameters() []MREllipsoid {
	tp := TissueParameters()
	deg := func(d float64) float64 { return d * math.Pi / 180 }

	base := []MREllipsoid{
		{X: 0, Y: 0, Z: 0, A: .72, B: .95, C: .93, SpinDensity: .8, Tissue: tp["scalp"]},
		{X: 0, Y: 0, Z: 0, A: .69, B: .92, C: .9, SpinDensity: .12, Tissue: tp["marrow"]},
		{X: 0, Y: -.0184, Z: 0, A: .6624, B: .874, C: .88, SpinDensity: .98, Tissue: tp["csf"]},
		{X: 0, Y: -.0184, Z: 0, A: .6524, B: .864, C: .87, SpinDensity: .745, Tissue: tp["gray-matter"]},
		{X: -.22, Y: 0, Z: -.25, A: .41, B: .16, C: .21, Theta: deg(-72), SpinDensity: .98, Tissue: tp["csf"]},
		{X: .22, Y: 0, Z: -.25, A: .31, B: .11, C: .22, Theta: deg(72), SpinDensity: .98, Tissue: tp["csf"]},
		{X: 0, Y: .35, Z: -.25, A: .21, B: .25, C: .35, SpinDensity: .617, Tissue: tp["white-matter"]},
		{X: 0, Y: .1, Z: -.25, A: .046, B: .046, C: .046, SpinDensity: .95, Tissue: tp["tumor"]},
		{X: -.08, Y: -.605, Z: -.25, A: .046, B: .023, C: .02, SpinDensity: .95, Tissue: tp["tumor"]},
		{X: .06, Y: -.605, Z: -.25, A: .046, B: .023, C: .02, Theta: deg(-90), SpinDensity: .95, Tissue: tp["tumor"]},
		{X: 0, Y: -.1, Z: -.25, A: .046, B: .046, C: .046, SpinDensity: .95, Tissue: tp["tumor"]},
		{X: 0, Y: -.605, Z: -.25, A: .023, B: .023, C: .023, SpinDensity: .95, Tissue: tp["tumor"]},
		{X: .06, Y: -.105, Z: .0625, A: .056, B: .04, C: .1, Theta: deg(-90), SpinDensity: .93, Tissue: tp["tumor"]},
		{X: 0, Y: .1, Z: .625, A: .056, B: .056, C: .1, SpinDensity: .98, Tissue: tp["csf"]},
		{X: .56, Y: -.4, Z: -.25, A: .2, B: .03, C: .1, Theta: deg(70), SpinDensity: .85, Tissue: tp["blood-clot"]},
	}

	// Subtractive counterparts: entry i takes the geometry of base[i]
	// and the tissue of the structure enclosing it. The outermost
	// ellipsoid has nothing to remove and is skipped; entries past the
	// gray-matter shell all subtract gray matter.
	neg := make([]MREllipsoid, 0, len(base)-1)
	for i := 1; i < len(base); i++ {
		e := base[i]
		enclosing := i - 1
		if i > 3 {
			enclosing = 3
		}
		e.SpinDensity = -base[enclosing].SpinDensity
		e.Tissue = base[enclosing].Tissue
		neg = append(neg, e)
	}

	// Drop the unused blood-clot ellipsoid and its counterpart
	base = base[:len(base)-1]
	neg = neg[:len(neg)-1]

	return append(base, neg...)
}
