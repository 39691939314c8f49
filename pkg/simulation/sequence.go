// Package simulation turns the tissue-parameter maps produced by the
// MR phantom into weighted images for common pulse sequences. The
// signal models are the steady-state spin-echo and spoiled
// gradient-echo equations; voxels with zero relaxation values
// (background) produce zero signal rather than dividing by zero.
package simulation

import (
	"fmt"
	"math"

	"phantomgen/internal/models"
)

// checkShapes verifies that the three tissue maps share dimensions
func checkShapes(m0, t1, t2 *models.Volume) error {
	if !m0.SameShape(t1) || !m0.SameShape(t2) {
		return fmt.Errorf(
			"tissue maps must share dimensions: M0 %dx%dx%d, T1 %dx%dx%d, T2 %dx%dx%d",
			m0.Width, m0.Height, m0.Depth,
			t1.Width, t1.Height, t1.Depth,
			t2.Width, t2.Height, t2.Depth)
	}
	return nil
}

// SpinEcho simulates a spin-echo acquisition with a 90 degree flip:
//
//	S = M0 * (1 - exp(-TR/T1)) * exp(-TE/T2)
//
// tr and te are the repetition and echo times in seconds, matching
// the units of the phantom's relaxation maps.
func SpinEcho(m0, t1, t2 *models.Volume, tr, te float64) (*models.Volume, error) {
	if err := checkShapes(m0, t1, t2); err != nil {
		return nil, err
	}
	if tr <= 0 || te <= 0 {
		return nil, fmt.Errorf("tr and te must be positive, got tr=%g te=%g", tr, te)
	}

	out := models.NewVolume(m0.Width, m0.Height, m0.Depth)
	for i := range out.Data {
		e1 := 0.0
		if t1.Data[i] != 0 {
			e1 = math.Exp(-tr / t1.Data[i])
		}
		e2 := 0.0
		if t2.Data[i] != 0 {
			e2 = math.Exp(-te / t2.Data[i])
		}
		out.Data[i] = m0.Data[i] * (1 - e1) * e2
	}
	return out, nil
}

// SpoiledGRE simulates an ideally spoiled gradient-echo acquisition:
//
//	S = M0 * sin(a) * (1 - E1) / (1 - cos(a)*E1) * exp(-TE/T2)
//
// with E1 = exp(-TR/T1) and flip angle a in radians. Short TR with a
// moderate flip angle yields the familiar T1-weighted contrast.
func SpoiledGRE(m0, t1, t2 *models.Volume, tr, te, flip float64) (*models.Volume, error) {
	if err := checkShapes(m0, t1, t2); err != nil {
		return nil, err
	}
	if tr <= 0 || te <= 0 {
		return nil, fmt.Errorf("tr and te must be positive, got tr=%g te=%g", tr, te)
	}

	sa := math.Sin(flip)
	ca := math.Cos(flip)
	out := models.NewVolume(m0.Width, m0.Height, m0.Depth)
	for i := range out.Data {
		if t1.Data[i] == 0 || t2.Data[i] == 0 {
			continue
		}
		e1 := math.Exp(-tr / t1.Data[i])
		e2 := math.Exp(-te / t2.Data[i])
		denom := 1 - ca*e1
		if denom == 0 {
			continue
		}
		out.Data[i] = m0.Data[i] * sa * (1 - e1) / denom * e2
	}
	return out, nil
}
