// Package trajectory generates k-space sampling trajectories for use
// with the analytic phantom signal model. Coordinates are expressed
// in BART traj units so they can be fed directly to kspace.SheppLogan.
package trajectory

import (
	"math"
)

// goldenAngle is the golden-angle increment pi*(3 - sqrt(5)),
// roughly 111.25 degrees.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// Radial returns coordinates for a radial trajectory: spokes straight
// lines through the k-space origin, each sampled at samplesPerSpoke
// points along the readout. With golden set, consecutive spokes
// advance by the golden angle instead of the uniform pi/spokes step,
// giving near-uniform coverage for any contiguous subset of spokes.
//
// Samples are ordered spoke by spoke: spoke s occupies indices
// s*samplesPerSpoke through (s+1)*samplesPerSpoke-1.
func Radial(samplesPerSpoke, spokes int, golden bool) (kx, ky []float64) {
	n := samplesPerSpoke * spokes
	kx = make([]float64, n)
	ky = make([]float64, n)

	// Readout positions, scaled to match BART's traj extent
	x := make([]float64, samplesPerSpoke)
	for i := range x {
		x[i] = -1
		if samplesPerSpoke > 1 {
			x[i] += 2 * float64(i) / float64(samplesPerSpoke-1)
		}
		x[i] *= float64(samplesPerSpoke) / 2
	}

	for s := 0; s < spokes; s++ {
		var theta float64
		if golden {
			theta = goldenAngle * float64(s)
		} else {
			theta = float64(s) / float64(spokes) * math.Pi
		}
		ct := math.Cos(theta)
		st := math.Sin(theta)
		for i, xv := range x {
			kx[s*samplesPerSpoke+i] = xv * ct
			ky[s*samplesPerSpoke+i] = xv * st
		}
	}
	return kx, ky
}
