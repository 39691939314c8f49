package kspace

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT2D performs a 2D discrete Fourier transform of square complex
// data (row-major, size x size). The transform is separable, so rows
// are transformed first and columns second, each with Gonum's complex
// FFT.
func FFT2D(data []complex128, size int) []complex128 {
	fft := fourier.NewCmplxFFT(size)
	result := make([]complex128, size*size)

	// Row-wise pass
	row := make([]complex128, size)
	for i := 0; i < size; i++ {
		copy(row, data[i*size:(i+1)*size])
		fft.Coefficients(row, row)
		copy(result[i*size:(i+1)*size], row)
	}

	// Column-wise pass
	col := make([]complex128, size)
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			col[i] = result[i*size+j]
		}
		fft.Coefficients(col, col)
		for i := 0; i < size; i++ {
			result[i*size+j] = col[i]
		}
	}

	return result
}

// IFFT2D performs the inverse 2D transform, including the 1/N^2
// normalization, so IFFT2D(FFT2D(x)) returns x.
func IFFT2D(data []complex128, size int) []complex128 {
	fft := fourier.NewCmplxFFT(size)
	result := make([]complex128, size*size)

	row := make([]complex128, size)
	for i := 0; i < size; i++ {
		copy(row, data[i*size:(i+1)*size])
		fft.Sequence(row, row)
		copy(result[i*size:(i+1)*size], row)
	}

	col := make([]complex128, size)
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			col[i] = result[i*size+j]
		}
		fft.Sequence(col, col)
		for i := 0; i < size; i++ {
			result[i*size+j] = col[i]
		}
	}

	// Gonum's Sequence is unnormalized
	scale := complex(1/float64(size*size), 0)
	for i := range result {
		result[i] *= scale
	}

	return result
}

// FFTShift2D swaps the quadrants of square data so the zero-frequency
// sample moves from the corner (DFT ordering) to the center
// (coordinate ordering). For even sizes the operation is its own
// inverse; for odd sizes use IFFTShift2D to undo it.
func FFTShift2D(data []complex128, size int) []complex128 {
	return roll2D(data, size, size/2)
}

// IFFTShift2D is the inverse of FFTShift2D: it moves the centered
// zero-frequency sample back to the corner, for any size.
func IFFTShift2D(data []complex128, size int) []complex128 {
	return roll2D(data, size, (size+1)/2)
}

// roll2D circularly shifts square data forward by the same offset
// along both axes
func roll2D(data []complex128, size, offset int) []complex128 {
	result := make([]complex128, size*size)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			si := (i + offset) % size
			sj := (j + offset) % size
			result[si*size+sj] = data[i*size+j]
		}
	}
	return result
}
