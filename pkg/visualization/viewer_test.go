package visualization

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"phantomgen/internal/models"
	"phantomgen/pkg/phantom"
)

// createTempDir creates a temporary directory for test files
func createTempDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "phantomgen-test-*")
	if err != nil {
		t.Fatalf("Failed to create temporary directory: %v", err)
	}
	return dir
}

// gradientVolume builds a small volume with distinct voxel values
func gradientVolume(w, h, d int) *models.Volume {
	v := models.NewVolume(w, h, d)
	for i := range v.Data {
		v.Data[i] = float64(i)
	}
	return v
}

// TestExtractSliceDimensions verifies slice orientation and size for
// each axis
func TestExtractSliceDimensions(t *testing.T) {
	v := NewViewer(gradientVolume(4, 5, 6))

	cases := []struct {
		axis string
		w, h int
	}{
		{"x", 6, 5},
		{"y", 4, 6},
		{"z", 4, 5},
	}
	for _, tc := range cases {
		img, err := v.ExtractSlice(tc.axis, 0)
		if err != nil {
			t.Fatalf("ExtractSlice(%s) failed: %v", tc.axis, err)
		}
		b := img.Bounds()
		if b.Dx() != tc.w || b.Dy() != tc.h {
			t.Errorf("Axis %s: expected %dx%d slice, got %dx%d", tc.axis, tc.w, tc.h, b.Dx(), b.Dy())
		}
	}
}

// TestExtractSliceErrors verifies position and axis validation
func TestExtractSliceErrors(t *testing.T) {
	v := NewViewer(gradientVolume(4, 4, 4))

	if _, err := v.ExtractSlice("z", -1); err == nil {
		t.Error("Expected error for negative position, got nil")
	}
	if _, err := v.ExtractSlice("z", 4); err == nil {
		t.Error("Expected error for out-of-range position, got nil")
	}
	if _, err := v.ExtractSlice("w", 0); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
}

// TestNormalization verifies the intensity mapping
func TestNormalization(t *testing.T) {
	t.Run("Range", func(t *testing.T) {
		vol := models.NewVolume(2, 1, 1)
		vol.Data[0] = -1
		vol.Data[1] = 3
		v := NewViewer(vol)

		img, err := v.ExtractSlice("z", 0)
		if err != nil {
			t.Fatalf("ExtractSlice failed: %v", err)
		}
		gray := img.(*image.Gray16)
		if got := gray.Gray16At(0, 0).Y; got != 0 {
			t.Errorf("Expected minimum to map to 0, got %d", got)
		}
		if got := gray.Gray16At(1, 0).Y; got != 65535 {
			t.Errorf("Expected maximum to map to 65535, got %d", got)
		}
	})

	t.Run("Constant", func(t *testing.T) {
		vol := models.NewVolume(2, 2, 1)
		for i := range vol.Data {
			vol.Data[i] = 5
		}
		v := NewViewer(vol)

		img, err := v.ExtractSlice("z", 0)
		if err != nil {
			t.Fatalf("ExtractSlice failed: %v", err)
		}
		if got := img.(*image.Gray16).Gray16At(0, 0).Y; got != 0 {
			t.Errorf("Expected constant data to map to black, got %d", got)
		}
	})
}

// TestSaveSliceSequence verifies slice export to disk
func TestSaveSliceSequence(t *testing.T) {
	tmpDir := createTempDir(t)
	defer os.RemoveAll(tmpDir)

	v := NewViewer(gradientVolume(4, 4, 3))
	outDir := filepath.Join(tmpDir, "slices")
	if err := v.SaveSliceSequence("z", outDir); err != nil {
		t.Fatalf("SaveSliceSequence failed: %v", err)
	}

	for pos := 0; pos < 3; pos++ {
		path := filepath.Join(outDir, fmt.Sprintf("slice_z_%03d.jpg", pos))
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected slice file %s: %v", path, err)
		}
	}

	if err := v.SaveSliceSequence("bad", outDir); err == nil {
		t.Error("Expected error for invalid axis, got nil")
	}
}

// TestSaveImage verifies single-image export with a real phantom
func TestSaveImage(t *testing.T) {
	tmpDir := createTempDir(t)
	defer os.RemoveAll(tmpDir)

	img, err := phantom.CT2D(32, 32, nil)
	if err != nil {
		t.Fatalf("CT2D failed: %v", err)
	}

	path := filepath.Join(tmpDir, "phantom.jpg")
	if err := SaveImage(img, path); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected phantom image on disk: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty image file")
	}
}

// TestSaveFrameSequence verifies dynamic phantom export
func TestSaveFrameSequence(t *testing.T) {
	tmpDir := createTempDir(t)
	defer os.RemoveAll(tmpDir)

	ts, err := phantom.Dynamic(16, 4)
	if err != nil {
		t.Fatalf("Dynamic failed: %v", err)
	}

	outDir := filepath.Join(tmpDir, "frames")
	if err := SaveFrameSequence(ts, outDir); err != nil {
		t.Fatalf("SaveFrameSequence failed: %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("Failed to read output directory: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("Expected 4 frame files, got %d", len(entries))
	}
}
