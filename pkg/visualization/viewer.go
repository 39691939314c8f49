// Package visualization exports generated phantoms as grayscale
// images for inspection. Phantom intensities are not confined to any
// fixed range (CT grays accumulate, T1 values run to several
// seconds), so every export pass normalizes the full dataset to the
// 16-bit grayscale range before encoding.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"phantomgen/internal/models"
)

// Viewer renders slices of a phantom volume as images
type Viewer struct {
	// volume holds the phantom data
	volume *models.Volume

	// lo and hi are the normalization bounds applied to all slices,
	// taken over the whole volume so slices stay mutually comparable
	lo, hi float64
}

// NewViewer creates a viewer for the given volume
func NewViewer(volume *models.Volume) *Viewer {
	stats := volume.Stats()
	return &Viewer{
		volume: volume,
		lo:     stats.Min,
		hi:     stats.Max,
	}
}

// gray maps an intensity to a 16-bit gray level using the viewer's
// normalization bounds. Constant data maps to black.
func (v *Viewer) gray(val float64) color.Gray16 {
	if v.hi <= v.lo {
		return color.Gray16{}
	}
	scaled := (val - v.lo) / (v.hi - v.lo) * 65535
	return color.Gray16{Y: uint16(math.Max(0, math.Min(65535, scaled)))}
}

// ExtractSlice renders a 2D slice of the volume along the specified
// axis at the given position
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	vol := v.volume
	var img *image.Gray16

	switch axis {
	case "x", "X":
		// YZ plane
		if position >= vol.Width {
			return nil, fmt.Errorf("position %d exceeds width %d", position, vol.Width)
		}
		img = image.NewGray16(image.Rect(0, 0, vol.Depth, vol.Height))
		for y := 0; y < vol.Height; y++ {
			for z := 0; z < vol.Depth; z++ {
				img.SetGray16(z, y, v.gray(vol.At(position, y, z)))
			}
		}

	case "y", "Y":
		// XZ plane
		if position >= vol.Height {
			return nil, fmt.Errorf("position %d exceeds height %d", position, vol.Height)
		}
		img = image.NewGray16(image.Rect(0, 0, vol.Width, vol.Depth))
		for z := 0; z < vol.Depth; z++ {
			for x := 0; x < vol.Width; x++ {
				img.SetGray16(x, z, v.gray(vol.At(x, position, z)))
			}
		}

	case "z", "Z":
		// XY plane
		if position >= vol.Depth {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, vol.Depth)
		}
		img = image.NewGray16(image.Rect(0, 0, vol.Width, vol.Height))
		for y := 0; y < vol.Height; y++ {
			for x := 0; x < vol.Width; x++ {
				img.SetGray16(x, y, v.gray(vol.At(x, y, position)))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// SaveSliceSequence extracts and saves every slice along the
// specified axis as JPEG files in outputDir
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.volume.Width
	case "y", "Y":
		maxPos = v.volume.Height
	case "z", "Z":
		maxPos = v.volume.Depth
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := saveJPEG(img, filename); err != nil {
			return err
		}
	}

	return nil
}

// SaveImage writes a single 2D phantom image as a JPEG file,
// normalized over its own intensity range
func SaveImage(im *models.Image, filename string) error {
	vol := &models.Volume{Data: im.Data, Width: im.Width, Height: im.Height, Depth: 1}
	v := NewViewer(vol)
	img, err := v.ExtractSlice("z", 0)
	if err != nil {
		return err
	}
	return saveJPEG(img, filename)
}

// SaveFrameSequence writes each frame of a dynamic phantom as a JPEG
// file in outputDir. All frames share one normalization so the
// pulsing structures keep consistent brightness across time.
func SaveFrameSequence(ts *models.TimeSeries, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	stats := ts.Stats()
	for t := 0; t < ts.Frames; t++ {
		frame := ts.Frame(t)
		vol := &models.Volume{Data: frame.Data, Width: frame.Width, Height: frame.Height, Depth: 1}
		v := &Viewer{volume: vol, lo: stats.Min, hi: stats.Max}
		img, err := v.ExtractSlice("z", 0)
		if err != nil {
			return err
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("frame_%03d.jpg", t))
		if err := saveJPEG(img, filename); err != nil {
			return err
		}
	}

	return nil
}

// saveJPEG encodes an image to a JPEG file
func saveJPEG(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}
