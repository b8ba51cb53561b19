// Package din computes the DIN 50134 / ISO 13314 KPI set over a
// compressive stress-strain curve: plateau stress, plateau end, upper
// yield strength, energy absorption and its efficiency. Values are
// computed lazily and cached per instance; absent results (no local
// maximum, degenerate plateau window) come back as (value, false)
// pairs.
package din

import (
	"math"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/validate"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Analysis evaluates the standard KPI formulas over one (stress,
// strain) pair. Not safe for concurrent use; the caches are unlocked.
type Analysis struct {
	stress      []float64
	strain      []float64
	lowerStrain float64
	upperStrain float64

	rplt  *float64
	rpltE *int
	reH   *maybe
	ev    *float64
	eff   *maybe
	rp1   *float64
	m     *float64
}

type maybe struct {
	value float64
	ok    bool
}

// New builds an analysis over a compressive stress-strain curve. The
// plateau window defaults to strains 0.2 through 0.4 when both bounds
// are zero.
func New(stress, strain []float64, lowerStrain, upperStrain float64) (*Analysis, error) {
	const ctx = "DIN analysis"
	if err := validate.NonEmptySeries(stress, "stress", ctx); err != nil {
		return nil, err
	}
	if err := validate.SameLength(stress, strain, "stress", "strain", ctx); err != nil {
		return nil, err
	}
	if lowerStrain == 0 && upperStrain == 0 {
		lowerStrain, upperStrain = 0.2, 0.4
	}
	return &Analysis{
		stress:      stress,
		strain:      strain,
		lowerStrain: lowerStrain,
		upperStrain: upperStrain,
	}, nil
}

// plateauWindow returns the index range matching the strain window.
func (a *Analysis) plateauWindow() (int, int) {
	return closestIndex(a.strain, a.lowerStrain), closestIndex(a.strain, a.upperStrain)
}

// Rplt is the plateau stress: the mean stress across the plateau
// strain window.
func (a *Analysis) Rplt() float64 {
	if a.rplt == nil {
		lo, hi := a.plateauWindow()
		v := math.NaN()
		if hi > lo {
			v = stat.Mean(a.stress[lo:hi], nil)
		}
		a.rplt = &v
	}
	return *a.rplt
}

// RpltE is the plateau-end index: the sample whose stress is closest
// to 1.3 times the plateau stress.
func (a *Analysis) RpltE() int {
	if a.rpltE == nil {
		target := 1.3 * a.Rplt()
		idx := closestIndex(a.stress, target)
		a.rpltE = &idx
	}
	return *a.rpltE
}

// ApltE is the compressive strain at the plateau end.
func (a *Analysis) ApltE() float64 {
	return a.strain[a.RpltE()]
}

// ReH is the upper compressive yield strength: the stress at the first
// local maximum. Curves without one (monotone hardening) report false.
func (a *Analysis) ReH() (float64, bool) {
	if a.reH == nil {
		a.reH = &maybe{}
		if i, ok := firstLocalMax(a.stress); ok {
			a.reH.value = a.stress[i]
			a.reH.ok = true
		}
	}
	return a.reH.value, a.reH.ok
}

// AeH is the strain at the first local stress maximum.
func (a *Analysis) AeH() (float64, bool) {
	if i, ok := firstLocalMax(a.stress); ok {
		return a.strain[i], true
	}
	return 0, false
}

// EvAt is the specific energy absorption: the trapezoidal area under
// the curve up to the given compression level.
func (a *Analysis) EvAt(compression float64) float64 {
	idx := closestIndex(a.strain, compression)
	if idx < 2 {
		return 0
	}
	return integrate.Trapezoidal(a.strain[:idx], a.stress[:idx])
}

// Ev is the energy absorption up to the lower plateau strain.
func (a *Analysis) Ev() float64 {
	if a.ev == nil {
		v := a.EvAt(a.lowerStrain)
		a.ev = &v
	}
	return *a.ev
}

// E20, E40 and E60 are the energy absorptions at 20%, 40% and 60%
// compression.
func (a *Analysis) E20() float64 { return a.EvAt(0.2) }
func (a *Analysis) E40() float64 { return a.EvAt(0.4) }
func (a *Analysis) E60() float64 { return a.EvAt(0.6) }

// Eff is the energy-absorption efficiency: Ev over the ideal absorber
// of the plateau-window peak stress up to the plateau-end strain. A
// non-positive window peak means the plateau is degenerate and the
// efficiency undefined.
func (a *Analysis) Eff() (float64, bool) {
	if a.eff == nil {
		a.eff = &maybe{}
		lo, hi := a.plateauWindow()
		if hi > lo {
			rmax := a.stress[lo]
			for _, s := range a.stress[lo:hi] {
				rmax = math.Max(rmax, s)
			}
			aplt := a.ApltE()
			if rmax > 0 && aplt != 0 {
				a.eff.value = a.Ev() / (rmax * aplt)
				a.eff.ok = true
			}
		}
	}
	return a.eff.value, a.eff.ok
}

// ReHRpltRatio is the compressive yield strength ratio, absent when
// ReH is.
func (a *Analysis) ReHRpltRatio() (float64, bool) {
	reH, ok := a.ReH()
	if !ok {
		return 0, false
	}
	return reH / a.Rplt(), true
}

// Rp1 is the compressive yield point: the stress at 1% strain.
func (a *Analysis) Rp1() float64 {
	if a.rp1 == nil {
		v := a.stress[closestIndex(a.strain, 0.01)]
		a.rp1 = &v
	}
	return *a.rp1
}

// M is the gradient between the samples closest to 20% and 70% of the
// plateau stress.
func (a *Analysis) M() float64 {
	if a.m == nil {
		rplt := a.Rplt()
		i20 := closestIndex(a.stress, 0.2*rplt)
		i70 := closestIndex(a.stress, 0.7*rplt)
		v := math.NaN()
		if d := a.strain[i70] - a.strain[i20]; d != 0 {
			v = (a.stress[i70] - a.stress[i20]) / d
		}
		a.m = &v
	}
	return *a.m
}

func closestIndex(values []float64, target float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, v := range values {
		if d := math.Abs(v - target); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// firstLocalMax finds the first strict local maximum, skipping
// plateaus the way the strict greater-than comparison does.
func firstLocalMax(values []float64) (int, bool) {
	for i := 1; i < len(values)-1; i++ {
		if values[i] > values[i-1] && values[i] > values[i+1] {
			return i, true
		}
	}
	return 0, false
}
