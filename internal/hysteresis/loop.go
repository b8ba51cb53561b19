// Package hysteresis computes the independent modulus estimate from a
// specimen's unloading loop, anchors the loop to the main curve,
// zeroes the strain axis from the unloading line and derives the
// compressive proof strength. Multi-specimen loop averaging lives in
// average.go, the proof-strength fallbacks in proof.go.
package hysteresis

import (
	"errors"
	"fmt"
	"math"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/operator"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/validate"
)

// ErrPeakMismatch reports hysteresis data whose maximum-stress and
// maximum-force samples are different rows. The stress series is
// derived from force, so a mismatch means the two were computed from
// inconsistent inputs. This is a data-consistency bug upstream, not a
// recoverable condition.
var ErrPeakMismatch = errors.New("hysteresis peak stress and peak force occur at different indices")

// lowForceCutoff drops the near-zero tails of a split loop, in newtons.
const lowForceCutoff = 50.0

// Block is one contiguous measurement segment of a hysteresis loop.
type Block struct {
	Time         []float64
	Force        []float64
	Displacement []float64
	Stress       []float64
	Strain       []float64
}

// Len returns the sample count.
func (b Block) Len() int { return len(b.Force) }

func (b Block) slice(lo, hi int) Block {
	out := Block{
		Time:         b.Time[lo:hi],
		Force:        b.Force[lo:hi],
		Displacement: b.Displacement[lo:hi],
	}
	if b.Stress != nil {
		out.Stress = b.Stress[lo:hi]
	}
	if b.Strain != nil {
		out.Strain = b.Strain[lo:hi]
	}
	return out
}

// Split divides a hysteresis block at its force peak into the loading
// and unloading halves. Legacy acquisitions record compression as
// negative force, so the negated series is tried first.
func Split(b Block) (loading, unloading Block, err error) {
	if err := validate.NonEmptySeries(b.Force, "force", "hysteresis split"); err != nil {
		return Block{}, Block{}, err
	}
	peak := argmaxNegated(b.Force)
	if peak == 0 {
		peak = argmax(b.Force)
	}
	return b.slice(0, peak+1), b.slice(peak+1, b.Len()), nil
}

// TrimLowForce returns a copy of the block without the samples whose
// force magnitude is at or below the cutoff.
func TrimLowForce(b Block) Block {
	var out Block
	for i := range b.Force {
		if math.Abs(b.Force[i]) <= lowForceCutoff {
			continue
		}
		out.Time = append(out.Time, valAt(b.Time, i))
		out.Force = append(out.Force, b.Force[i])
		out.Displacement = append(out.Displacement, valAt(b.Displacement, i))
		if b.Stress != nil {
			out.Stress = append(out.Stress, b.Stress[i])
		}
		if b.Strain != nil {
			out.Strain = append(out.Strain, b.Strain[i])
		}
	}
	return out
}

func valAt(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// LoopAnalysis is the outcome of anchoring one specimen's loop to its
// main curve.
type LoopAnalysis struct {
	// PeakIndex is the loop's maximum-stress sample.
	PeakIndex int
	// AlignedStrain is the loop strain after anchoring; a new slice,
	// the input is never modified.
	AlignedStrain []float64
	// Pt70 is the matched point on the main curve (about 70% of the
	// plateau stress); Pt20 is the loop's end point (about 20%).
	Pt70 operator.Point
	Pt20 operator.Point
	// Modulus is the two-point slope from the loop peak to its end.
	Modulus float64
	// ShiftOffset is the strain subtracted from both series so the
	// unloading line crosses zero stress at zero strain.
	ShiftOffset float64
	// ShiftedMainStrain and ShiftedLoopStrain are new slices with the
	// offset applied.
	ShiftedMainStrain []float64
	ShiftedLoopStrain []float64
}

// Analyze anchors a hysteresis loop to the specimen's main curve and
// derives the loop modulus and the densification strain zeroing.
// loopForce is checked against loopStress for peak consistency; a
// mismatch returns ErrPeakMismatch.
func Analyze(mainStrain, mainStress, loopStrain, loopStress, loopForce []float64) (*LoopAnalysis, error) {
	const ctx = "hysteresis analysis"
	if err := validate.NonEmptySeries(loopStress, "hysteresis stress", ctx); err != nil {
		return nil, err
	}
	if err := validate.SameLength(loopStress, loopStrain, "hysteresis stress", "hysteresis strain", ctx); err != nil {
		return nil, err
	}
	if err := validate.SameLength(loopStress, loopForce, "hysteresis stress", "hysteresis force", ctx); err != nil {
		return nil, err
	}
	if err := validate.NonEmptySeries(mainStress, "stress", ctx); err != nil {
		return nil, err
	}
	if err := validate.SameLength(mainStress, mainStrain, "stress", "strain", ctx); err != nil {
		return nil, err
	}

	peakStress := argmax(loopStress)
	peakForce := argmaxAbs(loopForce)
	if peakStress != peakForce {
		return nil, fmt.Errorf("%s: %w (stress peak %d, force peak %d)", ctx, ErrPeakMismatch, peakStress, peakForce)
	}

	anchor := matchStress(mainStress, loopStress[peakStress])
	pt70 := operator.Point{X: mainStrain[anchor], Y: mainStress[anchor]}

	offset := loopStrain[peakStress] - pt70.X
	aligned := make([]float64, len(loopStrain))
	for i, s := range loopStrain {
		aligned[i] = s - offset
	}

	last := len(loopStress) - 1
	pt20 := operator.Point{X: aligned[last], Y: loopStress[last]}

	dStrain := aligned[peakStress] - pt20.X
	if dStrain == 0 {
		return nil, fmt.Errorf("%s: loop peak and end share the same strain, modulus undefined", ctx)
	}
	modulus := (loopStress[peakStress] - pt20.Y) / dStrain

	// Intercept of the unloading line through the matched 70% point;
	// shifting by |−b/E| puts its zero-stress crossing at the origin.
	b := pt70.Y - modulus*pt70.X
	shift := math.Abs(-b / modulus)

	shiftedMain := make([]float64, len(mainStrain))
	for i, s := range mainStrain {
		shiftedMain[i] = s - shift
	}
	shiftedLoop := make([]float64, len(aligned))
	for i, s := range aligned {
		shiftedLoop[i] = s - shift
	}

	return &LoopAnalysis{
		PeakIndex:         peakStress,
		AlignedStrain:     aligned,
		Pt70:              pt70,
		Pt20:              pt20,
		Modulus:           modulus,
		ShiftOffset:       shift,
		ShiftedMainStrain: shiftedMain,
		ShiftedLoopStrain: shiftedLoop,
	}, nil
}

// matchStress finds the sample of the main curve that mechanically
// corresponds to the given stress level: the closest stress before the
// first local maximum after the curve first exceeds the level. When
// the curve never reaches the level, the globally closest sample is
// used.
func matchStress(stress []float64, level float64) int {
	first := -1
	for i, s := range stress {
		if s > level {
			first = i
			break
		}
	}
	if first < 0 {
		return closestTo(stress, level, len(stress))
	}
	localMax := -1
	for i := first + 1; i < len(stress)-1; i++ {
		if stress[i] > stress[i-1] && stress[i] > stress[i+1] {
			localMax = i
			break
		}
	}
	if localMax < 0 {
		localMax = closestTo(stress, level, len(stress))
	}
	if localMax == 0 {
		localMax = 1
	}
	return closestTo(stress, level, localMax)
}

// closestTo returns the index before limit whose value is nearest to
// the target.
func closestTo(values []float64, target float64, limit int) int {
	best := 0
	bestDist := math.Inf(1)
	for i := 0; i < limit && i < len(values); i++ {
		if d := math.Abs(values[i] - target); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func argmaxAbs(values []float64) int {
	best := 0
	for i, v := range values {
		if math.Abs(v) > math.Abs(values[best]) {
			best = i
		}
	}
	return best
}

func argmaxNegated(values []float64) int {
	best := 0
	for i, v := range values {
		if -v > -values[best] {
			best = i
		}
	}
	return best
}
