package operator

import (
	"fmt"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/uncert"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/validate"
)

// GeometryUncertainty supplies per-dimension uncertainty specs for the
// geometry calculations. Nil fields mean the dimension is exact.
type GeometryUncertainty struct {
	Length    *uncert.Spec
	Width     *uncert.Spec
	Thickness *uncert.Spec
	Mass      *uncert.Spec
}

func conversionFactor(factor float64, context string) (float64, error) {
	if factor == 0 {
		return 1, nil
	}
	if err := validate.PositiveNumber(factor, "conversion factor", context); err != nil {
		return 0, err
	}
	return factor, nil
}

// CrossSectionalArea computes length x width x factor. Dimensions must
// be positive; a zero factor means no scaling.
func CrossSectionalArea(length, width, factor float64, u *GeometryUncertainty) (Scalar, error) {
	const ctx = "cross-sectional area calculation"
	if err := validate.PositiveNumber(length, "length", ctx); err != nil {
		return Scalar{}, err
	}
	if err := validate.PositiveNumber(width, "width", ctx); err != nil {
		return Scalar{}, err
	}
	factor, err := conversionFactor(factor, ctx)
	if err != nil {
		return Scalar{}, err
	}
	l := uncert.Exact(length)
	w := uncert.Exact(width)
	if u != nil {
		if l, err = u.Length.ApplyScalar(length, "length", ctx); err != nil {
			return Scalar{}, err
		}
		if w, err = u.Width.ApplyScalar(width, "width", ctx); err != nil {
			return Scalar{}, err
		}
	}
	area := l.Mul(w).Scale(factor)
	return Scalar{Value: area.Nominal, Uncertainty: area.Stddev}, nil
}

// Volume computes area x thickness. The area is typically the output
// of CrossSectionalArea; its uncertainty carries through.
func Volume(area Scalar, thickness, factor float64, u *GeometryUncertainty) (Scalar, error) {
	const ctx = "volume calculation"
	if err := validate.PositiveNumber(area.Value, "area", ctx); err != nil {
		return Scalar{}, err
	}
	if err := validate.PositiveNumber(thickness, "thickness", ctx); err != nil {
		return Scalar{}, err
	}
	factor, err := conversionFactor(factor, ctx)
	if err != nil {
		return Scalar{}, err
	}
	th := uncert.Exact(thickness)
	if u != nil {
		if th, err = u.Thickness.ApplyScalar(thickness, "thickness", ctx); err != nil {
			return Scalar{}, err
		}
	}
	a := uncert.Value{Nominal: area.Value, Stddev: area.Uncertainty}
	vol := a.Mul(th).Scale(factor)
	return Scalar{Value: vol.Nominal, Uncertainty: vol.Stddev}, nil
}

// VolumeDirect computes length x width x thickness from raw dimensions.
func VolumeDirect(length, width, thickness, factor float64, u *GeometryUncertainty) (Scalar, error) {
	area, err := CrossSectionalArea(length, width, 0, u)
	if err != nil {
		return Scalar{}, fmt.Errorf("volume calculation: %w", err)
	}
	return Volume(area, thickness, factor, u)
}

// Density computes mass / volume. Both must be positive.
func Density(mass float64, volume Scalar, factor float64, u *GeometryUncertainty) (Scalar, error) {
	const ctx = "density calculation"
	if err := validate.PositiveNumber(mass, "mass", ctx); err != nil {
		return Scalar{}, err
	}
	if err := validate.PositiveNumber(volume.Value, "volume", ctx); err != nil {
		return Scalar{}, err
	}
	factor, err := conversionFactor(factor, ctx)
	if err != nil {
		return Scalar{}, err
	}
	m := uncert.Exact(mass)
	if u != nil {
		if m, err = u.Mass.ApplyScalar(mass, "mass", ctx); err != nil {
			return Scalar{}, err
		}
	}
	v := uncert.Value{Nominal: volume.Value, Stddev: volume.Uncertainty}
	d := m.Div(v).Scale(factor)
	return Scalar{Value: d.Nominal, Uncertainty: d.Stddev}, nil
}
