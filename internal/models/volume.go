// Package models defines the data containers shared by the phantom
// generators, the sequence simulator and the visualization code.
package models

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Image represents a single 2D phantom image
type Image struct {
	// Data is the image data as a 1D array in row-major order
	Data []float64

	// Width is the number of columns (x direction)
	Width int

	// Height is the number of rows (y direction)
	Height int
}

// NewImage allocates a zero-filled image of the given dimensions
func NewImage(width, height int) *Image {
	return &Image{
		Data:   make([]float64, width*height),
		Width:  width,
		Height: height,
	}
}

// At returns the intensity at pixel (x, y)
func (im *Image) At(x, y int) float64 {
	return im.Data[y*im.Width+x]
}

// Set assigns the intensity at pixel (x, y)
func (im *Image) Set(x, y int, v float64) {
	im.Data[y*im.Width+x] = v
}

// Volume represents a 3D phantom volume
type Volume struct {
	// Data is the 3D volume data as a 1D array, slice-major:
	// index = (z*Height + y)*Width + x
	Data []float64

	// Width is the number of voxels along x
	Width int

	// Height is the number of voxels along y
	Height int

	// Depth is the number of slices along z
	Depth int
}

// NewVolume allocates a zero-filled volume of the given dimensions
func NewVolume(width, height, depth int) *Volume {
	return &Volume{
		Data:   make([]float64, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
}

// At returns the intensity at voxel (x, y, z)
func (v *Volume) At(x, y, z int) float64 {
	return v.Data[(z*v.Height+y)*v.Width+x]
}

// Set assigns the intensity at voxel (x, y, z)
func (v *Volume) Set(x, y, z int, val float64) {
	v.Data[(z*v.Height+y)*v.Width+x] = val
}

// Slice returns slice z as an Image backed by the volume's storage
func (v *Volume) Slice(z int) *Image {
	n := v.Width * v.Height
	return &Image{
		Data:   v.Data[z*n : (z+1)*n],
		Width:  v.Width,
		Height: v.Height,
	}
}

// SameShape reports whether two volumes have identical dimensions
func (v *Volume) SameShape(o *Volume) bool {
	return v.Width == o.Width && v.Height == o.Height && v.Depth == o.Depth
}

// TimeSeries represents a dynamic 2D phantom sampled at discrete
// time points (frame-major storage)
type TimeSeries struct {
	// Data holds Frames images of Size x Size pixels
	Data []float64

	// Size is the in-plane dimension of each frame
	Size int

	// Frames is the number of time points
	Frames int
}

// NewTimeSeries allocates a zero-filled series of square frames
func NewTimeSeries(size, frames int) *TimeSeries {
	return &TimeSeries{
		Data:   make([]float64, size*size*frames),
		Size:   size,
		Frames: frames,
	}
}

// Frame returns frame t as an Image backed by the series' storage
func (ts *TimeSeries) Frame(t int) *Image {
	n := ts.Size * ts.Size
	return &Image{
		Data:   ts.Data[t*n : (t+1)*n],
		Width:  ts.Size,
		Height: ts.Size,
	}
}

// Stats summarizes the intensity distribution of a dataset
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// describe computes summary statistics over raw intensity data
func describe(data []float64) Stats {
	if len(data) == 0 {
		return Stats{}
	}
	return Stats{
		Min:    floats.Min(data),
		Max:    floats.Max(data),
		Mean:   stat.Mean(data, nil),
		StdDev: stat.StdDev(data, nil),
	}
}

// Stats computes summary statistics for the image
func (im *Image) Stats() Stats { return describe(im.Data) }

// Stats computes summary statistics for the volume
func (v *Volume) Stats() Stats { return describe(v.Data) }

// Stats computes summary statistics across all frames
func (ts *TimeSeries) Stats() Stats { return describe(ts.Data) }
