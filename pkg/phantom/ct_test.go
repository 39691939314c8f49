package phantom

import (
	"math"
	"testing"
)

// TestCT2DShape verifies that the output dimensions match the request
func TestCT2DShape(t *testing.T) {
	img, err := CT2D(64, 48, nil)
	if err != nil {
		t.Fatalf("CT2D failed: %v", err)
	}
	if img.Height != 64 || img.Width != 48 {
		t.Errorf("Expected 64x48 image, got %dx%d", img.Height, img.Width)
	}
	if len(img.Data) != 64*48 {
		t.Errorf("Expected %d pixels, got %d", 64*48, len(img.Data))
	}
}

// TestCT2DInvalidSize verifies that non-positive dimensions are rejected
func TestCT2DInvalidSize(t *testing.T) {
	if _, err := CT2D(0, 64, nil); err == nil {
		t.Error("Expected error for zero height, got nil")
	}
	if _, err := CT2D(64, -1, nil); err == nil {
		t.Error("Expected error for negative width, got nil")
	}
}

// TestCT2DCenterValue checks the accumulated gray value at the image
// center against the published tables. Only the two outermost
// ellipses cover the origin, so the center pixel holds their sum.
func TestCT2DCenterValue(t *testing.T) {
	// Odd size puts a sample exactly at (0, 0)
	const n = 65

	t.Run("Modified", func(t *testing.T) {
		img, err := CT2D(n, n, nil)
		if err != nil {
			t.Fatalf("CT2D failed: %v", err)
		}
		got := img.At(n/2, n/2)
		want := 1.0 - 0.8
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("Expected center value %f, got %f", want, got)
		}
	})

	t.Run("Original", func(t *testing.T) {
		p := NewCTParams()
		p.Original = true
		img, err := CT2D(n, n, p)
		if err != nil {
			t.Fatalf("CT2D failed: %v", err)
		}
		got := img.At(n/2, n/2)
		want := 2.0 - 0.98
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("Expected center value %f, got %f", want, got)
		}
	})
}

// TestCT2DBackground verifies that pixels outside every ellipse stay
// exactly zero
func TestCT2DBackground(t *testing.T) {
	img, err := CT2D(64, 64, nil)
	if err != nil {
		t.Fatalf("CT2D failed: %v", err)
	}

	// The corners of the field of view lie outside the head
	corners := [][2]int{{0, 0}, {0, 63}, {63, 0}, {63, 63}}
	for _, c := range corners {
		if v := img.At(c[0], c[1]); v != 0 {
			t.Errorf("Expected zero background at (%d,%d), got %f", c[0], c[1], v)
		}
	}
}

// TestCT2DCustomTable verifies that a caller-supplied table replaces
// the builtin one
func TestCT2DCustomTable(t *testing.T) {
	const n = 65

	t.Run("SingleCircle", func(t *testing.T) {
		p := NewCTParams()
		p.Ellipses = []Ellipse{{Intensity: 1, MajorAxis: 0.5, MinorAxis: 0.5}}
		img, err := CT2D(n, n, p)
		if err != nil {
			t.Fatalf("CT2D failed: %v", err)
		}
		if v := img.At(n/2, n/2); v != 1 {
			t.Errorf("Expected 1 inside the circle, got %f", v)
		}
		if v := img.At(0, 0); v != 0 {
			t.Errorf("Expected 0 outside the circle, got %f", v)
		}
	})

	t.Run("EmptyTable", func(t *testing.T) {
		p := NewCTParams()
		p.Ellipses = []Ellipse{}
		img, err := CT2D(n, n, p)
		if err != nil {
			t.Fatalf("CT2D failed: %v", err)
		}
		for i, v := range img.Data {
			if v != 0 {
				t.Fatalf("Expected all-zero phantom, got %f at index %d", v, i)
			}
		}
	})
}

// TestCT2DWorkerCountInvariance verifies that the worker pool does
// not change the result
func TestCT2DWorkerCountInvariance(t *testing.T) {
	single := NewCTParams()
	single.NumWorkers = 1
	many := NewCTParams()
	many.NumWorkers = 8

	a, err := CT2D(64, 64, single)
	if err != nil {
		t.Fatalf("CT2D failed: %v", err)
	}
	b, err := CT2D(64, 64, many)
	if err != nil {
		t.Fatalf("CT2D failed: %v", err)
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("Worker count changed pixel %d: %f vs %f", i, a.Data[i], b.Data[i])
		}
	}
}

// TestCT3DShape verifies output dimensions and slice layout
func TestCT3DShape(t *testing.T) {
	vol, err := CT3D(32, 24, 8, nil)
	if err != nil {
		t.Fatalf("CT3D failed: %v", err)
	}
	if vol.Height != 32 || vol.Width != 24 || vol.Depth != 8 {
		t.Errorf("Expected 32x24x8 volume, got %dx%dx%d", vol.Height, vol.Width, vol.Depth)
	}
	if len(vol.Data) != 32*24*8 {
		t.Errorf("Expected %d voxels, got %d", 32*24*8, len(vol.Data))
	}
}

// TestCT3DCenterValue checks the gray value at the volume center:
// only the two outer ellipsoids cover the origin
func TestCT3DCenterValue(t *testing.T) {
	const n = 33
	vol, err := CT3D(n, n, n, nil)
	if err != nil {
		t.Fatalf("CT3D failed: %v", err)
	}
	got := vol.At(n/2, n/2, n/2)
	want := 1.0 - 0.8
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected center value %f, got %f", want, got)
	}
}

// TestCT3DZLims verifies the z-range handling
func TestCT3DZLims(t *testing.T) {
	t.Run("InvalidOrder", func(t *testing.T) {
		p := NewCTParams()
		p.ZLims = [2]float64{0.5, -0.5}
		if _, err := CT3D(16, 16, 16, p); err == nil {
			t.Error("Expected error for inverted zlims, got nil")
		}
	})

	t.Run("SingleSlice", func(t *testing.T) {
		// A single slice samples the lower z bound
		p := NewCTParams()
		p.ZLims = [2]float64{-0.25, 0.25}
		vol, err := CT3D(65, 65, 1, p)
		if err != nil {
			t.Fatalf("CT3D failed: %v", err)
		}
		if vol.Depth != 1 {
			t.Fatalf("Expected single slice, got depth %d", vol.Depth)
		}

		// At z=-0.25 the ventricle ellipsoids are present: the value
		// at x=-0.22, y=0 differs from the surround
		full := NewCTParams()
		full.ZLims = [2]float64{-1, 1}
		ref, err := CT3D(65, 65, 65, full)
		if err != nil {
			t.Fatalf("CT3D failed: %v", err)
		}
		// slice 24 of the reference grid sits at z = -0.25
		z := -1 + 2*float64(24)/64
		if math.Abs(z+0.25) > 1e-12 {
			t.Fatalf("Reference slice misplaced: z=%f", z)
		}
		for y := 0; y < 65; y++ {
			for x := 0; x < 65; x++ {
				if math.Abs(vol.At(x, y, 0)-ref.At(x, y, 24)) > 1e-12 {
					t.Fatalf("Single-slice phantom differs from full volume at (%d,%d)", x, y)
				}
			}
		}
	})
}

// TestLinspace verifies the sampling grid helper
func TestLinspace(t *testing.T) {
	xs := linspace(-1, 1, 5)
	want := []float64{-1, -0.5, 0, 0.5, 1}
	for i := range want {
		if math.Abs(xs[i]-want[i]) > 1e-15 {
			t.Errorf("Expected xs[%d]=%f, got %f", i, want[i], xs[i])
		}
	}

	single := linspace(-0.25, 0.25, 1)
	if len(single) != 1 || single[0] != -0.25 {
		t.Errorf("Expected single sample at lower bound, got %v", single)
	}
}
