// Package smooth provides the denoising filters applied to measured
// series before feature detection.
package smooth

import (
	"fmt"
	"math"
	"sort"
)

// MedianFilter applies a sliding-window median with zero-padding
// (scipy.signal.medfilt compatible). kernelSize must be a positive odd
// integer.
func MedianFilter(data []float64, kernelSize int) ([]float64, error) {
	if kernelSize < 1 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("median filter kernel size must be a positive odd integer, got %d", kernelSize)
	}
	n := len(data)
	if n == 0 {
		return nil, nil
	}

	half := kernelSize / 2
	result := make([]float64, n)
	window := make([]float64, kernelSize)

	for i := 0; i < n; i++ {
		for j := -half; j <= half; j++ {
			idx := i + j
			if idx < 0 || idx >= n {
				window[j+half] = 0.0 // zero-padding
			} else {
				window[j+half] = data[idx]
			}
		}
		sorted := append([]float64(nil), window...)
		sort.Float64s(sorted)
		result[i] = sorted[half]
	}
	return result, nil
}

// MovingAverage applies a centered boxcar average. The window shrinks
// near the edges so the output has the same length as the input.
func MovingAverage(data []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("moving average window must be positive, got %d", window)
	}
	n := len(data)
	if n == 0 {
		return nil, nil
	}
	half := window / 2
	result := make([]float64, n)
	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= n {
			hi = n - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += data[j]
		}
		result[i] = sum / float64(hi-lo+1)
	}
	return result, nil
}

// Gaussian convolves the series with a normalized Gaussian kernel of
// the given standard deviation, clamping at the edges. The kernel spans
// six sigma.
func Gaussian(data []float64, sigma float64) ([]float64, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("gaussian sigma must be positive, got %v", sigma)
	}
	n := len(data)
	if n == 0 {
		return nil, nil
	}

	size := int(math.Ceil(sigma * 6))
	if size%2 == 0 {
		size++
	}
	kernel := make([]float64, size)
	half := size / 2
	sum := 0.0
	for i := 0; i < size; i++ {
		x := float64(i - half)
		kernel[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	smoothed := make([]float64, n)
	for i := 0; i < n; i++ {
		val := 0.0
		for j := 0; j < size; j++ {
			idx := i + j - half
			if idx < 0 {
				idx = 0
			} else if idx >= n {
				idx = n - 1
			}
			val += data[idx] * kernel[j]
		}
		smoothed[i] = val
	}
	return smoothed, nil
}
