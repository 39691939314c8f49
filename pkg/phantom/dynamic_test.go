package phantom

import (
	"math"
	"testing"
)

// TestDynamicShape verifies output dimensions
func TestDynamicShape(t *testing.T) {
	ts, err := Dynamic(32, 10)
	if err != nil {
		t.Fatalf("Dynamic failed: %v", err)
	}
	if ts.Size != 32 || ts.Frames != 10 {
		t.Errorf("Expected 32x32x10 series, got %dx%dx%d", ts.Size, ts.Size, ts.Frames)
	}
	if len(ts.Data) != 32*32*10 {
		t.Errorf("Expected %d samples, got %d", 32*32*10, len(ts.Data))
	}
}

// TestDynamicInvalidParams verifies validation
func TestDynamicInvalidParams(t *testing.T) {
	if _, err := Dynamic(0, 10); err == nil {
		t.Error("Expected error for zero size, got nil")
	}
	if _, err := Dynamic(32, 0); err == nil {
		t.Error("Expected error for zero frames, got nil")
	}
}

// TestDynamicStaticRings verifies that the two outer rings keep their
// value across all frames
func TestDynamicStaticRings(t *testing.T) {
	// size 101 gives exact samples at steps of 0.02
	const n = 101
	const frames = 8
	ts, err := Dynamic(n, frames)
	if err != nil {
		t.Fatalf("Dynamic failed: %v", err)
	}

	// (0, 0.9) sits in the outer ring, (0, 0.6) in the second ring
	xi := n / 2
	yOuter := (n - 1) * 19 / 20 // x = 0.9
	ySecond := (n - 1) * 4 / 5  // x = 0.6

	for f := 0; f < frames; f++ {
		frame := ts.Frame(f)
		if v := frame.At(xi, yOuter); v != 1 {
			t.Errorf("Frame %d: expected outer ring value 1 at y=%d, got %f", f, yOuter, v)
		}
		if v := frame.At(xi, ySecond); v != 0.2 {
			t.Errorf("Frame %d: expected second ring value 0.2, got %f", f, v)
		}
	}
}

// TestDynamicPulsingRing verifies the cosine radius schedule of the
// inner ring
func TestDynamicPulsingRing(t *testing.T) {
	const n = 101
	const frames = 8
	ts, err := Dynamic(n, frames)
	if err != nil {
		t.Fatalf("Dynamic failed: %v", err)
	}

	// At frame 0 the inner ring has its maximum outer radius 0.4, so
	// the point at radius 0.3 falls inside the ring
	xi := n/2 + 15 // x = 0.3
	yi := n / 2    // y = 0
	if v := ts.Frame(0).At(xi, yi); v != 0.8 {
		t.Errorf("Frame 0: expected inner ring value 0.8 at r=0.3, got %f", v)
	}

	// At mid-course the radius shrinks to about 0.133 and the same
	// point falls outside
	if v := ts.Frame(frames / 2).At(xi, yi); v == 0.8 {
		t.Errorf("Frame %d: expected the ring to have contracted away from r=0.3", frames/2)
	}

	// The center of the image is never inside any ring
	for f := 0; f < frames; f++ {
		if v := ts.Frame(f).At(n/2, n/2); v != 0 {
			t.Errorf("Frame %d: expected empty center, got %f", f, v)
		}
	}
}

// TestDynamicRadiusNormalization checks that the ring never grows
// beyond its nominal maximum radius
func TestDynamicRadiusNormalization(t *testing.T) {
	const n = 101
	const frames = 16
	ts, err := Dynamic(n, frames)
	if err != nil {
		t.Fatalf("Dynamic failed: %v", err)
	}

	// No pixel strictly outside radius 0.4 may carry the ring value,
	// excluding the static rings at radius >= 0.5
	for f := 0; f < frames; f++ {
		frame := ts.Frame(f)
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				px := -1 + 2*float64(x)/float64(n-1)
				py := -1 + 2*float64(y)/float64(n-1)
				r := math.Hypot(px, py)
				if r > 0.4+1e-12 && r < 0.5 && frame.At(x, y) == 0.8 {
					t.Fatalf("Frame %d: inner ring value found at radius %f", f, r)
				}
			}
		}
	}
}
