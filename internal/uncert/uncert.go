// Package uncert carries measurement uncertainty alongside nominal
// values and propagates it through arithmetic, assuming uncorrelated
// inputs.
package uncert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a nominal measurement with a one-sigma standard deviation.
type Value struct {
	Nominal float64
	Stddev  float64
}

// Exact wraps a value with zero uncertainty.
func Exact(v float64) Value { return Value{Nominal: v} }

// Mul multiplies two uncertain values. Propagation uses the partial
// derivatives of a*b rather than relative uncertainties, so zero
// nominals are handled without division.
func (v Value) Mul(o Value) Value {
	return Value{
		Nominal: v.Nominal * o.Nominal,
		Stddev:  math.Hypot(o.Nominal*v.Stddev, v.Nominal*o.Stddev),
	}
}

// Div divides v by o. o.Nominal must be nonzero.
func (v Value) Div(o Value) Value {
	q := v.Nominal / o.Nominal
	return Value{
		Nominal: q,
		Stddev:  math.Hypot(v.Stddev/o.Nominal, q*o.Stddev/o.Nominal),
	}
}

// Scale multiplies by an exact constant.
func (v Value) Scale(c float64) Value {
	return Value{Nominal: c * v.Nominal, Stddev: math.Abs(c) * v.Stddev}
}

// Add sums two uncertain values.
func (v Value) Add(o Value) Value {
	return Value{Nominal: v.Nominal + o.Nominal, Stddev: math.Hypot(v.Stddev, o.Stddev)}
}

// Sub subtracts o from v.
func (v Value) Sub(o Value) Value {
	return Value{Nominal: v.Nominal - o.Nominal, Stddev: math.Hypot(v.Stddev, o.Stddev)}
}

// Spec describes how a caller expresses the uncertainty of an input:
// a single absolute standard deviation, a percentage of each nominal
// value, or one absolute value per element. A nil *Spec means the
// input is exact.
type Spec struct {
	Absolute   float64
	Percent    float64
	PerElement []float64

	kind specKind
}

type specKind int

const (
	specAbsolute specKind = iota
	specPercent
	specPerElement
)

// NewAbsolute builds a spec with a single absolute standard deviation
// applied to every element.
func NewAbsolute(v float64) *Spec { return &Spec{Absolute: v, kind: specAbsolute} }

// NewPercent builds a spec expressing uncertainty as a percentage of
// each nominal value (5 means 5%).
func NewPercent(p float64) *Spec { return &Spec{Percent: p, kind: specPercent} }

// NewPerElement builds a spec with one absolute standard deviation per
// series element.
func NewPerElement(vs []float64) *Spec { return &Spec{PerElement: vs, kind: specPerElement} }

// Parse reads an uncertainty written as a number, optionally suffixed
// with "%" for a relative spec: "0.5" is absolute, "5%" is percent.
func Parse(s string) (*Spec, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, fmt.Errorf("uncertainty string is empty")
	}
	if strings.HasSuffix(trimmed, "%") {
		p, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(trimmed, "%")), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid percent uncertainty %q: %w", s, err)
		}
		if p < 0 {
			return nil, fmt.Errorf("percent uncertainty %q must not be negative", s)
		}
		return NewPercent(p), nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid uncertainty %q: %w", s, err)
	}
	if v < 0 {
		return nil, fmt.Errorf("uncertainty %q must not be negative", s)
	}
	return NewAbsolute(v), nil
}

// ApplyScalar resolves the spec against a single nominal value. A nil
// spec yields zero uncertainty. Absolute values must be positive;
// percent specs resolve relative to |value|.
func (s *Spec) ApplyScalar(value float64, name, context string) (Value, error) {
	if s == nil {
		return Exact(value), nil
	}
	switch s.kind {
	case specPercent:
		if s.Percent < 0 {
			return Value{}, fmt.Errorf("%s: percent uncertainty of %s must not be negative, got %v", context, name, s.Percent)
		}
		return Value{Nominal: value, Stddev: math.Abs(value) * s.Percent / 100}, nil
	case specPerElement:
		return Value{}, fmt.Errorf("%s: per-element uncertainty cannot apply to scalar %s", context, name)
	default:
		if s.Absolute <= 0 {
			return Value{}, fmt.Errorf("%s: absolute uncertainty of %s must be positive, got %v", context, name, s.Absolute)
		}
		return Value{Nominal: value, Stddev: s.Absolute}, nil
	}
}

// ApplySeries resolves the spec against a series of nominal values,
// returning one standard deviation per element. A nil spec yields all
// zeros. Per-element specs must match the series length.
func (s *Spec) ApplySeries(values []float64, name, context string) ([]float64, error) {
	out := make([]float64, len(values))
	if s == nil {
		return out, nil
	}
	switch s.kind {
	case specPercent:
		if s.Percent < 0 {
			return nil, fmt.Errorf("%s: percent uncertainty of %s must not be negative, got %v", context, name, s.Percent)
		}
		for i, v := range values {
			out[i] = math.Abs(v) * s.Percent / 100
		}
	case specPerElement:
		if len(s.PerElement) != len(values) {
			return nil, fmt.Errorf("%s: per-element uncertainty of %s has length %d, series has length %d",
				context, name, len(s.PerElement), len(values))
		}
		copy(out, s.PerElement)
	default:
		if s.Absolute <= 0 {
			return nil, fmt.Errorf("%s: absolute uncertainty of %s must be positive, got %v", context, name, s.Absolute)
		}
		for i := range out {
			out[i] = s.Absolute
		}
	}
	return out, nil
}

// Relative returns stddev / |nominal|, or zero when the nominal is zero.
func (v Value) Relative() float64 {
	if v.Nominal == 0 {
		return 0
	}
	return v.Stddev / math.Abs(v.Nominal)
}
