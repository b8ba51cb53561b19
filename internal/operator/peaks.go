package operator

import (
	"fmt"
	"math"
	"sort"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/validate"
)

// PeakOptions controls Peaks.
type PeakOptions struct {
	// ExpectedPeaks sets the count above which the result carries a
	// warning. Zero disables the check.
	ExpectedPeaks int
	// Region restricts detection to the index range [Start, End).
	// A zero End means the end of the data.
	Region *IndexRange
	// Height is the minimum peak value. Zero disables the filter.
	Height float64
	// Distance is the minimum index separation between kept peaks.
	Distance int
	// Prominence is the minimum peak prominence.
	Prominence float64
}

// IndexRange is a half-open index interval.
type IndexRange struct {
	Start int
	End   int
}

// PeakResult lists detected local maxima. Warning is non-empty when
// more peaks were found than expected; it is advisory, never an error.
type PeakResult struct {
	Indices     []int
	Values      []float64
	Prominences []float64
	Warning     string
}

// Peaks finds local maxima in data, optionally restricted to a region
// and filtered by height, separation distance and prominence. Indices
// refer to the original series.
func Peaks(data []float64, opts *PeakOptions) (PeakResult, error) {
	const ctx = "peak detection"
	if err := validate.NonEmptySeries(data, "data", ctx); err != nil {
		return PeakResult{}, err
	}
	if opts == nil {
		opts = &PeakOptions{}
	}

	offset := 0
	region := data
	if opts.Region != nil {
		start, end := opts.Region.Start, opts.Region.End
		if end == 0 || end > len(data) {
			end = len(data)
		}
		if start < 0 || start >= end {
			return PeakResult{}, fmt.Errorf("%s: invalid region [%d, %d) for %d samples", ctx, start, end, len(data))
		}
		offset = start
		region = data[start:end]
	}

	idx := localMaxima(region)

	if opts.Height > 0 {
		idx = filterInts(idx, func(i int) bool { return region[i] >= opts.Height })
	}
	proms := prominences(region, idx)
	if opts.Prominence > 0 {
		var keptIdx []int
		var keptProms []float64
		for k, i := range idx {
			if proms[k] >= opts.Prominence {
				keptIdx = append(keptIdx, i)
				keptProms = append(keptProms, proms[k])
			}
		}
		idx, proms = keptIdx, keptProms
	}
	if opts.Distance > 1 {
		idx, proms = enforceDistance(region, idx, proms, opts.Distance)
	}

	result := PeakResult{
		Indices:     make([]int, len(idx)),
		Values:      make([]float64, len(idx)),
		Prominences: proms,
	}
	for k, i := range idx {
		result.Indices[k] = i + offset
		result.Values[k] = region[i]
	}
	if opts.ExpectedPeaks > 0 && len(idx) > opts.ExpectedPeaks {
		result.Warning = fmt.Sprintf("expected at most %d peaks, found %d", opts.ExpectedPeaks, len(idx))
	}
	return result, nil
}

// localMaxima returns the indices of strict local maxima. Plateaus
// report their midpoint.
func localMaxima(data []float64) []int {
	var idx []int
	n := len(data)
	i := 1
	for i < n-1 {
		if data[i] <= data[i-1] {
			i++
			continue
		}
		// walk the plateau
		j := i
		for j < n-1 && data[j+1] == data[i] {
			j++
		}
		if j < n-1 && data[j+1] < data[i] {
			idx = append(idx, (i+j)/2)
		}
		i = j + 1
	}
	return idx
}

// prominences computes, per peak, the height above the higher of the
// two lowest saddles separating it from higher terrain or the data
// boundary.
func prominences(data []float64, peaks []int) []float64 {
	out := make([]float64, len(peaks))
	for k, p := range peaks {
		leftMin := data[p]
		for i := p - 1; i >= 0; i-- {
			if data[i] > data[p] {
				break
			}
			leftMin = math.Min(leftMin, data[i])
		}
		rightMin := data[p]
		for i := p + 1; i < len(data); i++ {
			if data[i] > data[p] {
				break
			}
			rightMin = math.Min(rightMin, data[i])
		}
		out[k] = data[p] - math.Max(leftMin, rightMin)
	}
	return out
}

// enforceDistance drops lower peaks within the minimum separation of a
// higher one, highest first.
func enforceDistance(data []float64, peaks []int, proms []float64, distance int) ([]int, []float64) {
	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return data[peaks[order[a]]] > data[peaks[order[b]]] })

	removed := make([]bool, len(peaks))
	for _, k := range order {
		if removed[k] {
			continue
		}
		for j := range peaks {
			if j == k || removed[j] {
				continue
			}
			if abs(peaks[j]-peaks[k]) < distance {
				removed[j] = true
			}
		}
	}
	var keptIdx []int
	var keptProms []float64
	for k := range peaks {
		if !removed[k] {
			keptIdx = append(keptIdx, peaks[k])
			keptProms = append(keptProms, proms[k])
		}
	}
	return keptIdx, keptProms
}

func filterInts(in []int, keep func(int) bool) []int {
	var out []int
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
