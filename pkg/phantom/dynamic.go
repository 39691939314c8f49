package phantom

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"phantomgen/internal/models"
)

// Dynamic generates a simple time-resolved phantom of concentric
// rings: two static outer annuli and an inner annulus whose radius
// pulses over the time course following a cosine schedule. Frame t of
// the result is a size x size image; ring intensities are assigned,
// not accumulated, so overlaps clamp to the ring value.
func Dynamic(size, frames int) (*models.TimeSeries, error) {
	if size < 1 {
		return nil, fmt.Errorf("phantom size must be positive, got %d", size)
	}
	if frames < 1 {
		return nil, fmt.Errorf("frame count must be positive, got %d", frames)
	}

	ts := models.NewTimeSeries(size, frames)
	xs := linspace(-1, 1, size)

	// Cosine schedule for the inner ring's outer radius, normalized
	// so the largest radius over the time course is 0.4
	radii := make([]float64, frames)
	maxR := 0.0
	for t := range radii {
		radii[t] = math.Cos(float64(t)*2*math.Pi/float64(frames)) + 2
		if radii[t] > maxR {
			maxR = radii[t]
		}
	}
	for t := range radii {
		radii[t] = radii[t] / maxR * 0.4
	}

	const (
		outerThickness = 0.25
		innerThickness = 0.15
	)

	jobs := make(chan int, frames)
	for t := 0; t < frames; t++ {
		jobs <- t
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < runtime.NumCPU(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				frame := ts.Frame(t)
				r := radii[t]
				for y := 0; y < size; y++ {
					for x := 0; x < size; x++ {
						r2 := xs[x]*xs[x] + xs[y]*xs[y]
						if r2 <= 1 && r2 >= (1-outerThickness)*(1-outerThickness) {
							frame.Set(x, y, 1)
						}
						if r2 <= (1-outerThickness)*(1-outerThickness) &&
							r2 >= (1-2*outerThickness)*(1-2*outerThickness) {
							frame.Set(x, y, 0.2)
						}
						if r2 <= r*r && r2 >= (r-innerThickness)*(r-innerThickness) {
							frame.Set(x, y, 0.8)
						}
					}
				}
			}
		}()
	}
	wg.Wait()

	return ts, nil
}
