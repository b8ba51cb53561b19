package hysteresis

import (
	"fmt"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/align"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/log"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/operator"
	"gonum.org/v1/gonum/stat"
)

// isoOffset is the plastic-strain offset for the compressive proof
// strength per ISO 13314.
const isoOffset = 0.01

// ProofOptions tunes the proof-strength search.
type ProofOptions struct {
	// Offset overrides the ISO 1% plastic-strain offset when nonzero.
	Offset float64
	// Intersection parameters for the retry loop; nil uses defaults.
	Align *align.Params
}

// Candidate is one proof-strength estimate and the modulus that
// produced its offset line.
type Candidate struct {
	Method  string
	Modulus float64
	Point   operator.Point
	Found   bool
}

// ProofResult is the primary proof-strength point plus any fallback
// candidates computed when the primary search found nothing.
type ProofResult struct {
	Primary    Candidate
	Candidates []Candidate
}

// FallbackInputs supplies the data for the simplified-modulus fallback
// methods.
type FallbackInputs struct {
	// SpecimenModuli are the per-specimen loop moduli.
	SpecimenModuli []float64
	// Pt20 / Pt70 are the averaged plateau reference points for the
	// secant method.
	Pt20 operator.Point
	Pt70 operator.Point
	// PlateauStress bounds the best-fit regression window at 30% and
	// 60% of itself.
	PlateauStress float64
}

// ProofStrength intersects the offset line of the given modulus with
// the averaged stress-strain curve. When no intersection is found (a
// normal outcome on flat foam plateaus) and fallbacks are supplied,
// the three simplified-modulus methods each contribute their own
// candidate point.
func ProofStrength(strain, stress []float64, modulus float64, fallbacks *FallbackInputs, opts *ProofOptions) (*ProofResult, error) {
	const ctx = "proof strength"
	if len(strain) == 0 || len(strain) != len(stress) {
		return nil, fmt.Errorf("%s: strain and stress must be non-empty and the same length", ctx)
	}
	if opts == nil {
		opts = &ProofOptions{}
	}
	offset := opts.Offset
	if offset == 0 {
		offset = isoOffset
	}

	curve := operator.Curve{X: strain, Y: stress}
	result := &ProofResult{
		Primary: intersectOffsetLine(curve, modulus, offset, opts.Align, "hysteresis modulus"),
	}
	if result.Primary.Found || fallbacks == nil {
		return result, nil
	}

	log.Infof("%s: primary intersection not found, computing simplified-modulus candidates", ctx)
	if len(fallbacks.SpecimenModuli) > 0 {
		avg := stat.Mean(fallbacks.SpecimenModuli, nil)
		result.Candidates = append(result.Candidates,
			intersectOffsetLine(curve, avg, offset, opts.Align, "average of specimen moduli"))
	}
	if secant, ok := secantModulus(fallbacks.Pt20, fallbacks.Pt70); ok {
		result.Candidates = append(result.Candidates,
			intersectOffsetLine(curve, secant, offset, opts.Align, "secant through 20% and 70% points"))
	}
	if best, ok := bestFitModulus(strain, stress, fallbacks.PlateauStress); ok {
		result.Candidates = append(result.Candidates,
			intersectOffsetLine(curve, best, offset, opts.Align, "best fit over 30-60% plateau window"))
	}
	return result, nil
}

func intersectOffsetLine(curve operator.Curve, modulus, offset float64, params *align.Params, method string) Candidate {
	c := Candidate{Method: method, Modulus: modulus}
	if modulus == 0 {
		return c
	}
	line := align.Line{Slope: modulus, Intercept: -modulus * offset}
	c.Point, c.Found = align.FindInteractionPoint(curve, line, params)
	return c
}

func secantModulus(pt20, pt70 operator.Point) (float64, bool) {
	dStrain := pt20.X - pt70.X
	if dStrain == 0 {
		return 0, false
	}
	return (pt20.Y - pt70.Y) / dStrain, true
}

// bestFitModulus regresses stress on strain over the samples whose
// stress lies between 30% and 60% of the plateau stress.
func bestFitModulus(strain, stress []float64, plateau float64) (float64, bool) {
	if plateau <= 0 {
		return 0, false
	}
	lo := closestTo(stress, plateau*0.3, len(stress))
	hi := closestTo(stress, plateau*0.6, len(stress))
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo < 2 {
		return 0, false
	}
	_, slope := stat.LinearRegression(strain[lo:hi+1], stress[lo:hi+1], nil, false)
	return slope, true
}
