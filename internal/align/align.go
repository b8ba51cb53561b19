// Package align detects the elastic region of a stress-strain curve,
// fits the Young's modulus over it and locates yield points by
// offset-line intersection. Absent results are (Point, false) pairs,
// the expected outcome on noisy experimental data, never errors.
package align

import (
	"math"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/log"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/operator"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/validate"
	"gonum.org/v1/gonum/stat"
)

// Params tunes the elastic-region detection and yield search.
type Params struct {
	// IncreaseThreshold is the normalized rate-of-change level marking
	// the elastic-region start.
	IncreaseThreshold float64
	// DecreaseThreshold (as a positive number) marks the region end.
	DecreaseThreshold float64
	// MinForce / MaxForce bound the force window for the region start.
	MinForce float64
	MaxForce float64
	// FallbackForce is the force level for the start fallback when
	// thresholding lands on index 0.
	FallbackForce float64
	// BackwardStrain is how far strain may run below its start value
	// before the looser re-search kicks in.
	BackwardStrain float64
	// Offset is the plastic-strain offset for the yield line (0.002 is
	// the usual 0.2%).
	Offset float64
	// ShiftStep / MaxAttempts bound the intersection retry loop.
	ShiftStep   float64
	MaxAttempts int
	// MinDistFromOrigin discards spurious near-origin crossings.
	MinDistFromOrigin float64
}

// DefaultParams returns the detection parameters tuned for foam
// compression tests on the standard load frame.
func DefaultParams() Params {
	return Params{
		IncreaseThreshold: 0.015,
		DecreaseThreshold: 0.0005,
		MinForce:          80,
		MaxForce:          1000,
		FallbackForce:     500,
		BackwardStrain:    0.04,
		Offset:            0.002,
		ShiftStep:         0.001,
		MaxAttempts:       3,
		MinDistFromOrigin: 0.001,
	}
}

// Line is y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// Result is the full alignment outcome for one specimen.
type Result struct {
	// FirstIncrease and NextDecrease bound the elastic region.
	// HasDecrease is false when no significant decrease was found and
	// the region runs to the end of the data.
	FirstIncrease int
	NextDecrease  int
	HasDecrease   bool

	YoungsModulus float64
	OffsetLine    Line

	// IYS is the stress-strain point at the elastic-region end.
	IYS    operator.Point
	HasIYS bool
	// YS is the offset-line intersection with the curve.
	YS    operator.Point
	HasYS bool
}

// Engine runs the detection for a single specimen's series. The
// normalized rate of change is computed once and cached; the engine is
// not safe for concurrent use.
type Engine struct {
	stress []float64
	strain []float64
	force  []float64
	params Params

	normRate []float64
}

// New builds an engine over one specimen's stress, strain and force
// series. All three must be non-empty and the same length.
func New(stress, strain, force []float64, params *Params) (*Engine, error) {
	const ctx = "curve alignment"
	if err := validate.NonEmptySeries(stress, "stress", ctx); err != nil {
		return nil, err
	}
	if err := validate.SameLength(stress, strain, "stress", "strain", ctx); err != nil {
		return nil, err
	}
	if err := validate.SameLength(stress, force, "stress", "force", ctx); err != nil {
		return nil, err
	}
	p := DefaultParams()
	if params != nil {
		p = *params
	}
	return &Engine{stress: stress, strain: strain, force: force, params: p}, nil
}

// normalizedRate returns the pointwise dStress/dStrain scaled into
// [-1, 1] by its maximum magnitude. Element i is the rate over the
// step from i to i+1; the series is one shorter than the inputs.
func (e *Engine) normalizedRate() []float64 {
	if e.normRate != nil {
		return e.normRate
	}
	n := len(e.stress) - 1
	rate := make([]float64, n)
	maxAbs := 0.0
	for i := 0; i < n; i++ {
		dStrain := e.strain[i+1] - e.strain[i]
		if dStrain != 0 {
			rate[i] = (e.stress[i+1] - e.stress[i]) / dStrain
		}
		if a := math.Abs(rate[i]); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs > 0 {
		for i := range rate {
			rate[i] /= maxAbs
		}
	}
	e.normRate = rate
	return rate
}

// FirstSignificantIncrease locates the elastic-region start: the first
// index where the normalized rate crosses the threshold inside the
// force window. Two fallbacks handle noisy preload data: a plain
// force-level search when thresholding lands on index 0, and a looser
// re-search when strain has run backward past the guard.
func (e *Engine) FirstSignificantIncrease() int {
	p := e.params
	rate := e.normalizedRate()

	found := 0
	for i, r := range rate {
		if r >= p.IncreaseThreshold && e.force[i] >= p.MinForce && e.force[i] <= p.MaxForce {
			found = i
			break
		}
	}

	if found == 0 {
		for i, f := range e.force {
			if f > p.FallbackForce {
				log.Debugf("curve alignment: threshold search failed, using force > %v at index %d", p.FallbackForce, i)
				found = i
				break
			}
		}
	}

	if e.strain[found]-e.strain[0] < -p.BackwardStrain {
		log.Debugf("curve alignment: strain ran backward at index %d, re-searching with positive-strain condition", found)
		for i, r := range rate {
			if r >= p.IncreaseThreshold && e.strain[i] > 0 &&
				e.force[i] >= p.MinForce && e.force[i] <= p.MaxForce {
				return i
			}
		}
	}
	return found
}

// NextSignificantDecrease locates the elastic-region end: the first
// index after start where the normalized rate drops below the negative
// threshold. A false return means no clear region end exists; callers
// degrade gracefully.
func (e *Engine) NextSignificantDecrease(start int) (int, bool) {
	p := e.params
	rate := e.normalizedRate()

	from := start + 1
	if start == 0 {
		for i, f := range e.force {
			if f > 0 {
				from = i + 1
				break
			}
		}
	}
	for i := from; i < len(rate); i++ {
		if rate[i] <= -p.DecreaseThreshold {
			return i, true
		}
	}
	log.Infof("curve alignment: no significant decrease found after index %d", start)
	return 0, false
}

// YoungsModulus fits stress against strain over [start, end]. Regions
// under 5 points fall back to a two-point slope with an advisory to
// use manual region selection.
func (e *Engine) YoungsModulus(start, end int) float64 {
	if end >= len(e.stress) {
		end = len(e.stress) - 1
	}
	if end <= start {
		return 0
	}
	n := end - start + 1
	if n < 5 {
		log.Warnf("curve alignment: elastic region has only %d points, using two-point slope; consider manual region selection", n)
		dStrain := e.strain[end] - e.strain[start]
		if dStrain == 0 {
			return 0
		}
		return (e.stress[end] - e.stress[start]) / dStrain
	}
	_, slope := stat.LinearRegression(e.strain[start:end+1], e.stress[start:end+1], nil, false)
	return slope
}

// OffsetLine builds the yield line with the configured plastic-strain
// offset, anchored at the elastic-region start.
func (e *Engine) OffsetLine(modulus float64, start int) Line {
	return Line{
		Slope:     modulus,
		Intercept: -modulus * (e.strain[start] + e.params.Offset),
	}
}

// InteractionPoint intersects a line with the stress-strain curve,
// discarding near-origin crossings. When nothing is found, the line is
// shifted up by ShiftStep and the search retried up to MaxAttempts
// times. A false return is the expected "no yield point" outcome.
func (e *Engine) InteractionPoint(line Line) (operator.Point, bool) {
	return FindInteractionPoint(operator.Curve{X: e.strain, Y: e.stress}, line, &e.params)
}

// FindInteractionPoint runs the bounded retry intersection search of a
// line against an arbitrary curve. Nil params use the defaults.
func FindInteractionPoint(curve operator.Curve, line Line, params *Params) (operator.Point, bool) {
	p := DefaultParams()
	if params != nil {
		p = *params
	}
	if len(curve.X) == 0 {
		return operator.Point{}, false
	}

	lo, hi := curve.X[0], curve.X[0]
	for _, s := range curve.X {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}

	intercept := line.Intercept
	for attempt := 0; attempt <= p.MaxAttempts; attempt++ {
		lineCurve := operator.Curve{
			X: []float64{lo, hi},
			Y: []float64{line.Slope*lo + intercept, line.Slope*hi + intercept},
		}
		pts, err := operator.Intersections(curve, lineCurve, &operator.IntersectOptions{Method: operator.Exact})
		if err != nil {
			log.Warnf("curve alignment: intersection search failed: %v", err)
			return operator.Point{}, false
		}
		for _, pt := range pts {
			if math.Hypot(pt.X, pt.Y) >= p.MinDistFromOrigin {
				return pt, true
			}
		}
		intercept += p.ShiftStep
	}
	log.Infof("curve alignment: no intersection found within %d shift attempts", p.MaxAttempts)
	return operator.Point{}, false
}

// Compute runs the full detection pipeline and returns every derived
// quantity.
func (e *Engine) Compute() Result {
	var r Result
	r.FirstIncrease = e.FirstSignificantIncrease()
	r.NextDecrease, r.HasDecrease = e.NextSignificantDecrease(r.FirstIncrease)

	end := len(e.stress) - 1
	if r.HasDecrease {
		end = r.NextDecrease
		r.IYS = operator.Point{X: e.strain[end], Y: e.stress[end]}
		r.HasIYS = true
	}

	r.YoungsModulus = e.YoungsModulus(r.FirstIncrease, end)
	if r.YoungsModulus != 0 {
		r.OffsetLine = e.OffsetLine(r.YoungsModulus, r.FirstIncrease)
		r.YS, r.HasYS = e.InteractionPoint(r.OffsetLine)
	}
	return r
}
