// Package phantom generates numerical image phantoms built from
// superimposed ellipses and ellipsoids. It provides the canonical
// Shepp-Logan phantom for CT simulations in 2D and 3D, the MR variant
// with tissue relaxation parameters, and a simple dynamic phantom for
// time-resolved experiments.
//
// The CT tables follow Shepp & Logan (1974) with the widely used
// modified gray values (Toft 1996) as the default; the 3D axes follow
// Koay et al. (2007). The MR tables implement Gach, Tanase and Boada,
// "2D & 3D Shepp-Logan phantom standards for MRI" (2008).
package phantom

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Ellipse describes a single 2D ellipse of the phantom.
// The field of view is the square [-1, 1] x [-1, 1].
type Ellipse struct {
	// Intensity is the additive gray value inside the ellipse
	Intensity float64 `yaml:"intensity"`

	// MajorAxis is the semi-axis along x before rotation
	MajorAxis float64 `yaml:"majorAxis"`

	// MinorAxis is the semi-axis along y before rotation
	MinorAxis float64 `yaml:"minorAxis"`

	// X, Y locate the center in [-1, 1]
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`

	// Theta is the rotation of the major axis from the x axis, in radians
	Theta float64 `yaml:"theta"`
}

// Ellipsoid describes a single 3D ellipsoid of the phantom.
// Rotation is restricted to the xy plane, matching the published tables.
type Ellipsoid struct {
	// Intensity is the additive gray value inside the ellipsoid
	Intensity float64 `yaml:"intensity"`

	// A, B, C are the semi-axes along x, y and z before rotation
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`

	// X, Y, Z locate the center in [-1, 1]
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`

	// Theta is the xy-plane rotation in radians
	Theta float64 `yaml:"theta"`
}

// contains reports whether point (x, y) falls inside the ellipse
func (e *Ellipse) contains(x, y float64) bool {
	ct := math.Cos(e.Theta)
	st := math.Sin(e.Theta)
	dx := x - e.X
	dy := y - e.Y
	u := dx*ct + dy*st
	v := dx*st - dy*ct
	return u*u/(e.MajorAxis*e.MajorAxis)+v*v/(e.MinorAxis*e.MinorAxis) <= 1
}

// contains reports whether point (x, y, z) falls inside the ellipsoid
func (e *Ellipsoid) contains(x, y, z float64) bool {
	ct := math.Cos(e.Theta)
	st := math.Sin(e.Theta)
	dx := x - e.X
	dy := y - e.Y
	dz := z - e.Z
	u := dx*ct + dy*st
	v := dx*st - dy*ct
	return u*u/(e.A*e.A)+v*v/(e.B*e.B)+dz*dz/(e.C*e.C) <= 1
}

// SheppLoganEllipses2D returns the ten ellipses of the original 2D
// Shepp-Logan phantom with the 1974 paper's gray values. The original
// values give poor contrast; most applications want the modified set.
func SheppLoganEllipses2D() []Ellipse {
	intensity := []float64{2, -.98, -.02, -.02, .01, .01, .01, .01, .01, .01}
	major := []float64{.69, .6624, .11, .16, .21, .046, .046, .046, .023, .023}
	minor := []float64{.92, .874, .31, .41, .25, .046, .046, .023, .023, .046}
	xs := []float64{0, 0, .22, -.22, 0, 0, 0, -.08, 0, .06}
	ys := []float64{0, -.0184, 0, 0, .35, .1, -.1, -.605, -.605, -.605}
	thetaDeg := []float64{0, 0, -18, 18, 0, 0, 0, 0, 0, 0}

	es := make([]Ellipse, len(intensity))
	for i := range es {
		es[i] = Ellipse{
			Intensity: intensity[i],
			MajorAxis: major[i],
			MinorAxis: minor[i],
			X:         xs[i],
			Y:         ys[i],
			Theta:     thetaDeg[i] * math.Pi / 180,
		}
	}
	return es
}

// ModifiedSheppLoganEllipses2D returns the 2D table with the modified
// gray values commonly used for better contrast.
func ModifiedSheppLoganEllipses2D() []Ellipse {
	es := SheppLoganEllipses2D()
	for i, v := range modifiedGrays {
		es[i].Intensity = v
	}
	return es
}

// modifiedGrays are the contrast-adjusted intensities shared by the
// modified 2D and 3D tables.
var modifiedGrays = []float64{1, -0.8, -0.2, -0.2, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}

// SheppLoganEllipsoids3D returns the ten ellipsoids of the 3D
// Shepp-Logan phantom with the original gray values.
func SheppLoganEllipsoids3D() []Ellipsoid {
	return []Ellipsoid{
		{Intensity: 2, A: 0.69, B: 0.92, C: 0.9},
		{Intensity: -.8, A: 0.6624, B: 0.874, C: 0.88},
		{Intensity: -.2, A: 0.41, B: 0.16, C: 0.21, X: -0.22, Z: -0.25, Theta: 3 * math.Pi / 5},
		{Intensity: -.2, A: 0.31, B: 0.11, C: 0.22, X: 0.22, Z: -0.25, Theta: 2 * math.Pi / 5},
		{Intensity: .2, A: 0.21, B: 0.25, C: 0.5, Y: 0.35, Z: -0.25},
		{Intensity: .2, A: 0.046, B: 0.046, C: 0.046, Y: 0.1, Z: -0.25},
		{Intensity: .1, A: 0.046, B: 0.023, C: 0.02, X: -0.08, Y: -0.65, Z: -0.25},
		{Intensity: .1, A: 0.046, B: 0.023, C: 0.02, X: 0.06, Y: -0.65, Z: -0.25, Theta: math.Pi / 2},
		{Intensity: .2, A: 0.056, B: 0.04, C: 0.1, X: 0.06, Y: -0.105, Z: 0.625, Theta: math.Pi / 2},
		{Intensity: -.2, A: 0.056, B: 0.056, C: 0.1, Y: 0.1, Z: 0.625},
	}
}

// ModifiedSheppLoganEllipsoids3D returns the 3D table with the
// modified gray values.
func ModifiedSheppLoganEllipsoids3D() []Ellipsoid {
	es := SheppLoganEllipsoids3D()
	for i, v := range modifiedGrays {
		es[i].Intensity = v
	}
	return es
}

// LoadEllipses reads a custom 2D ellipse table from a YAML file.
// The file holds a list of ellipse entries using the same field names
// as the Ellipse struct tags.
func LoadEllipses(path string) ([]Ellipse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading ellipse table: %w", err)
	}
	var es []Ellipse
	if err := yaml.Unmarshal(data, &es); err != nil {
		return nil, fmt.Errorf("error parsing ellipse table: %w", err)
	}
	return es, nil
}

// LoadEllipsoids reads a custom 3D ellipsoid table from a YAML file.
func LoadEllipsoids(path string) ([]Ellipsoid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading ellipsoid table: %w", err)
	}
	var es []Ellipsoid
	if err := yaml.Unmarshal(data, &es); err != nil {
		return nil, fmt.Errorf("error parsing ellipsoid table: %w", err)
	}
	return es, nil
}

// LoadMREllipsoids reads a custom MR ellipsoid table from a YAML
// file, including per-entry spin density and tissue parameters.
func LoadMREllipsoids(path string) ([]MREllipsoid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading MR ellipsoid table: %w", err)
	}
	var es []MREllipsoid
	if err := yaml.Unmarshal(data, &es); err != nil {
		return nil, fmt.Errorf("error parsing MR ellipsoid table: %w", err)
	}
	return es, nil
}

// SaveMREllipsoids writes an MR ellipsoid table to a YAML file so it
// can be edited and fed back through LoadMREllipsoids.
func SaveMREllipsoids(es []MREllipsoid, path string) error {
	data, err := yaml.Marshal(es)
	if err != nil {
		return fmt.Errorf("error marshaling MR ellipsoid table: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing MR ellipsoid table: %w", err)
	}
	return nil
}

// SaveEllipses writes a 2D ellipse table to a YAML file so it can be
// edited and fed back through LoadEllipses.
func SaveEllipses(es []Ellipse, path string) error {
	data, err := yaml.Marshal(es)
	if err != nil {
		return fmt.Errorf("error marshaling ellipse table: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing ellipse table: %w", err)
	}
	return nil
}
