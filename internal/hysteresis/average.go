package hysteresis

import (
	"fmt"
	"math"
	"sort"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/log"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/operator"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/smooth"
	"gonum.org/v1/gonum/stat"
)

// defaultDenoise is the median-filter kernel applied to averaged loops.
const defaultDenoise = 21

// SpecimenHalves is one specimen's contribution to a loop average: the
// split, low-force-trimmed halves plus the geometry for rebuilding
// stress on the common force axis. Block.Strain carries the shifted
// strain.
type SpecimenHalves struct {
	Loading   Block
	Unloading Block
	Area      float64
}

// AveragedLoop is the multi-specimen mean hysteresis curve on a shared
// force axis, loading then unloading.
type AveragedLoop struct {
	Force        []float64
	Displacement []float64
	Time         []float64
	Stress       []float64
	Strain       []float64
}

// Reference is an averaged plateau reference point and its matched
// index on the averaged curve.
type Reference struct {
	Point operator.Point
	Index int
}

// AverageLoops interpolates every specimen's halves onto shared force
// axes, averages them per force level and joins the halves back into a
// single curve with its time base starting at zero. Curves from more
// than one specimen are median-filtered.
func AverageLoops(specs []SpecimenHalves) (*AveragedLoop, error) {
	const ctx = "hysteresis averaging"
	if len(specs) == 0 {
		return nil, fmt.Errorf("%s: no specimens given", ctx)
	}
	for i, s := range specs {
		if s.Loading.Len() < 2 || s.Unloading.Len() < 2 {
			return nil, fmt.Errorf("%s: specimen %d has a degenerate loop half after trimming", ctx, i)
		}
		if s.Area <= 0 {
			return nil, fmt.Errorf("%s: specimen %d has non-positive area %v", ctx, i, s.Area)
		}
	}

	axisLoad, axisUnload := commonForceAxes(specs)

	loading := averageHalf(specs, axisLoad, func(s SpecimenHalves) Block { return s.Loading })
	unloading := averageHalf(specs, axisUnload, func(s SpecimenHalves) Block { return s.Unloading })

	out := &AveragedLoop{}
	appendHalf(out, loading)
	appendReversed(out, unloading)

	minTime := math.Inf(1)
	for _, t := range out.Time {
		minTime = math.Min(minTime, t)
	}
	for i := range out.Time {
		out.Time[i] -= minTime
	}

	if len(specs) > 1 {
		if err := out.denoise(defaultDenoise); err != nil {
			return nil, fmt.Errorf("%s: %w", ctx, err)
		}
	}
	return out, nil
}

func (a *AveragedLoop) denoise(kernel int) error {
	for _, col := range []*[]float64{&a.Displacement, &a.Time, &a.Stress, &a.Strain} {
		filtered, err := smooth.MedianFilter(*col, kernel)
		if err != nil {
			return err
		}
		*col = filtered
	}
	return nil
}

// commonForceAxes builds the shared force-magnitude axes: the overlap
// of every specimen's range per half, sampled as densely as the
// densest specimen.
func commonForceAxes(specs []SpecimenHalves) (loading, unloading []float64) {
	lower1, upper1, n1 := halfBounds(specs, func(s SpecimenHalves) Block { return s.Loading })
	lower2, upper2, n2 := halfBounds(specs, func(s SpecimenHalves) Block { return s.Unloading })

	lo := math.Max(lower1, lower2)
	hi := math.Min(upper1, upper2)
	return linspace(lo, hi, n1), linspace(lo, hi, n2)
}

func halfBounds(specs []SpecimenHalves, half func(SpecimenHalves) Block) (lower, upper float64, n int) {
	lower = math.Inf(-1)
	upper = math.Inf(1)
	for _, s := range specs {
		b := half(s)
		minF := math.Inf(1)
		maxF := math.Inf(-1)
		for _, f := range b.Force {
			a := math.Abs(f)
			minF = math.Min(minF, a)
			maxF = math.Max(maxF, a)
		}
		lower = math.Max(lower, minF)
		upper = math.Min(upper, maxF)
		if b.Len() > n {
			n = b.Len()
		}
	}
	return lower, upper, n
}

func linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// averageHalf interpolates one half of every specimen onto the axis
// and takes the per-level mean of each channel.
func averageHalf(specs []SpecimenHalves, axis []float64, half func(SpecimenHalves) Block) AveragedLoop {
	n := len(axis)
	out := AveragedLoop{
		Force:        append([]float64(nil), axis...),
		Displacement: make([]float64, n),
		Time:         make([]float64, n),
		Stress:       make([]float64, n),
		Strain:       make([]float64, n),
	}
	interps := make([]forceInterp, len(specs))
	for j, s := range specs {
		interps[j] = newForceInterp(half(s))
	}
	for i, level := range axis {
		var disp, tm, stress, strain float64
		for j, s := range specs {
			b := half(s)
			disp += interps[j].at(b.Displacement, level)
			tm += interps[j].at(b.Time, level)
			strain += interps[j].at(b.Strain, level)
			stress += level / s.Area
		}
		k := float64(len(specs))
		out.Displacement[i] = disp / k
		out.Time[i] = tm / k
		out.Stress[i] = stress / k
		out.Strain[i] = strain / k
	}
	return out
}

// forceInterp interpolates a block's channels against its force
// magnitude, clamping queries to the recorded range.
type forceInterp struct {
	order []int
	mag   []float64
}

func newForceInterp(b Block) forceInterp {
	order := make([]int, b.Len())
	for i := range order {
		order[i] = i
	}
	mag := make([]float64, b.Len())
	for i, f := range b.Force {
		mag[i] = math.Abs(f)
	}
	sort.SliceStable(order, func(a, c int) bool { return mag[order[a]] < mag[order[c]] })
	sortedMag := make([]float64, len(mag))
	for i, j := range order {
		sortedMag[i] = mag[j]
	}
	return forceInterp{order: order, mag: sortedMag}
}

func (fi forceInterp) at(channel []float64, level float64) float64 {
	if len(channel) == 0 {
		return 0
	}
	level = math.Max(fi.mag[0], math.Min(level, fi.mag[len(fi.mag)-1]))
	i := sort.SearchFloat64s(fi.mag, level)
	if i == 0 {
		return channel[fi.order[0]]
	}
	if i >= len(fi.mag) {
		return channel[fi.order[len(fi.order)-1]]
	}
	x0, x1 := fi.mag[i-1], fi.mag[i]
	y0, y1 := channel[fi.order[i-1]], channel[fi.order[i]]
	if x1 == x0 {
		return y0
	}
	t := (level - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}

func appendHalf(dst *AveragedLoop, half AveragedLoop) {
	dst.Force = append(dst.Force, half.Force...)
	dst.Displacement = append(dst.Displacement, half.Displacement...)
	dst.Time = append(dst.Time, half.Time...)
	dst.Stress = append(dst.Stress, half.Stress...)
	dst.Strain = append(dst.Strain, half.Strain...)
}

func appendReversed(dst *AveragedLoop, half AveragedLoop) {
	for i := len(half.Force) - 1; i >= 0; i-- {
		dst.Force = append(dst.Force, half.Force[i])
		dst.Displacement = append(dst.Displacement, half.Displacement[i])
		dst.Time = append(dst.Time, half.Time[i])
		dst.Stress = append(dst.Stress, half.Stress[i])
		dst.Strain = append(dst.Strain, half.Strain[i])
	}
}

// TruncationResult bounds an averaged curve to the physically
// meaningful densification range.
type TruncationResult struct {
	Strain []float64
	Stress []float64
	// Avg70 and Avg20 are the matched mean reference points.
	Avg70 Reference
	Avg20 Reference
	// PlateauStress is the plateau estimate recovered from the two
	// reference levels.
	PlateauStress float64
}

// TruncateAtReferences averages the per-specimen 70% and 20% plateau
// reference points, matches each against the curve and cuts the curve
// at the 20% match, discarding the extrapolation-prone tail.
func TruncateAtReferences(strain, stress []float64, pt70s, pt20s []operator.Point) (*TruncationResult, error) {
	const ctx = "hysteresis truncation"
	if len(strain) == 0 || len(strain) != len(stress) {
		return nil, fmt.Errorf("%s: strain and stress must be non-empty and the same length", ctx)
	}
	if len(pt70s) == 0 || len(pt20s) == 0 {
		return nil, fmt.Errorf("%s: no reference points given", ctx)
	}

	mean70 := meanPoint(pt70s)
	mean20 := meanPoint(pt20s)
	plateau := stat.Mean([]float64{mean70.Y / 0.7, mean20.Y / 0.2}, nil)

	idx70 := closestPoint(strain, stress, mean70, 0)
	idx20 := closestPoint(strain, stress, mean20, idx70)
	log.Debugf("%s: matched 70%% reference at index %d, 20%% at index %d", ctx, idx70, idx20)

	return &TruncationResult{
		Strain:        append([]float64(nil), strain[:idx20+1]...),
		Stress:        append([]float64(nil), stress[:idx20+1]...),
		Avg70:         Reference{Point: operator.Point{X: strain[idx70], Y: stress[idx70]}, Index: idx70},
		Avg20:         Reference{Point: operator.Point{X: strain[idx20], Y: stress[idx20]}, Index: idx20},
		PlateauStress: plateau,
	}, nil
}

func meanPoint(pts []operator.Point) operator.Point {
	var x, y float64
	for _, p := range pts {
		x += p.X
		y += p.Y
	}
	n := float64(len(pts))
	return operator.Point{X: x / n, Y: y / n}
}

// closestPoint finds the curve sample nearest to target in Euclidean
// distance, searching from start onward.
func closestPoint(strain, stress []float64, target operator.Point, start int) int {
	best := start
	bestDist := math.Inf(1)
	for i := start; i < len(strain); i++ {
		d := math.Hypot(strain[i]-target.X, stress[i]-target.Y)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
