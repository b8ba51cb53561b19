package operator

import (
	"math"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/log"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/uncert"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/validate"
	"gonum.org/v1/gonum/stat"
)

// StressOptions controls the force-to-stress conversion.
type StressOptions struct {
	// ConversionFactor scales the result for unit conversion. Zero
	// means no scaling.
	ConversionFactor float64
	// DisableInversionCheck skips the sign flip applied when the mean
	// of the input series is negative (compression recorded as
	// negative force).
	DisableInversionCheck bool
	// ForceUncertainty applies to the force series; nil means exact.
	ForceUncertainty *uncert.Spec
}

// StrainOptions controls the displacement-to-strain conversion.
type StrainOptions struct {
	ConversionFactor        float64
	DisableInversionCheck   bool
	DisplacementUncertainty *uncert.Spec
	LengthUncertainty       *uncert.Spec
}

// Stress converts a force series to engineering stress by dividing by
// the cross-sectional area. When the mean force is negative the values
// are inverted so compression reads positive; uncertainties are
// unaffected by the inversion.
func Stress(force []float64, area Scalar, opts *StressOptions) (Series, error) {
	const ctx = "stress calculation"
	if err := validate.NonEmptySeries(force, "force", ctx); err != nil {
		return Series{}, err
	}
	if err := validate.PositiveNumber(area.Value, "area", ctx); err != nil {
		return Series{}, err
	}
	if opts == nil {
		opts = &StressOptions{}
	}
	factor := opts.ConversionFactor
	if factor == 0 {
		factor = 1
	}

	forceU, err := opts.ForceUncertainty.ApplySeries(force, "force", ctx)
	if err != nil {
		return Series{}, err
	}
	areaRel := 0.0
	if area.Value != 0 {
		areaRel = area.Uncertainty / math.Abs(area.Value)
	}
	hasUncertainty := area.Uncertainty > 0 || opts.ForceUncertainty != nil

	values := make([]float64, len(force))
	for i, f := range force {
		values[i] = f / area.Value * factor
	}
	if !opts.DisableInversionCheck && stat.Mean(force, nil) < 0 {
		log.Debugf("%s: mean force is negative, inverting series sign", ctx)
		for i := range values {
			values[i] = -values[i]
		}
	}

	out := Series{Value: values}
	if hasUncertainty {
		out.Uncertainty = make([]float64, len(force))
		for i, f := range force {
			fRel := 0.0
			if f != 0 {
				fRel = forceU[i] / math.Abs(f)
			}
			out.Uncertainty[i] = math.Abs(values[i]) * math.Hypot(fRel, areaRel)
		}
	}
	return out, nil
}

// Strain converts a displacement series to engineering strain by
// dividing by the initial specimen length.
func Strain(displacement []float64, initialLength float64, opts *StrainOptions) (Series, error) {
	const ctx = "strain calculation"
	if err := validate.NonEmptySeries(displacement, "displacement", ctx); err != nil {
		return Series{}, err
	}
	if err := validate.PositiveNumber(initialLength, "initial length", ctx); err != nil {
		return Series{}, err
	}
	if opts == nil {
		opts = &StrainOptions{}
	}
	factor := opts.ConversionFactor
	if factor == 0 {
		factor = 1
	}

	dispU, err := opts.DisplacementUncertainty.ApplySeries(displacement, "displacement", ctx)
	if err != nil {
		return Series{}, err
	}
	length, err := opts.LengthUncertainty.ApplyScalar(initialLength, "initial length", ctx)
	if err != nil {
		return Series{}, err
	}
	lengthRel := length.Relative()
	hasUncertainty := opts.DisplacementUncertainty != nil || opts.LengthUncertainty != nil

	values := make([]float64, len(displacement))
	for i, d := range displacement {
		values[i] = d / initialLength * factor
	}
	if !opts.DisableInversionCheck && stat.Mean(displacement, nil) < 0 {
		log.Debugf("%s: mean displacement is negative, inverting series sign", ctx)
		for i := range values {
			values[i] = -values[i]
		}
	}

	out := Series{Value: values}
	if hasUncertainty {
		out.Uncertainty = make([]float64, len(displacement))
		for i, d := range displacement {
			dRel := 0.0
			if d != 0 {
				dRel = dispU[i] / math.Abs(d)
			}
			out.Uncertainty[i] = math.Abs(values[i]) * math.Hypot(dRel, lengthRel)
		}
	}
	return out, nil
}
