package operator

import (
	"fmt"
	"math"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/uncert"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/validate"
)

// DerivativeMethod selects the finite-difference stencil.
type DerivativeMethod string

const (
	// Central uses the second-order stencil; on non-uniform spacing the
	// weights follow numpy.gradient's edge_order=1 interior formula.
	Central  DerivativeMethod = "central"
	Forward  DerivativeMethod = "forward"
	Backward DerivativeMethod = "backward"
)

// DerivativeOptions controls Derivative.
type DerivativeOptions struct {
	Method DerivativeMethod
	// Order is the number of times the stencil is applied. Zero means 1.
	Order int
	// Custom replaces the built-in stencils when non-nil. It receives
	// the dependent and independent series and returns the derivative.
	// Custom methods do not propagate uncertainty; combining Custom
	// with an uncertainty spec is an error.
	Custom func(y, x []float64) ([]float64, error)
	// UncertaintyY / UncertaintyX supply input uncertainties; nil means
	// exact.
	UncertaintyY *uncert.Spec
	UncertaintyX *uncert.Spec
}

// Derivative differentiates y with respect to x using a finite-
// difference stencil, preserving the series length. A nil x means unit
// spacing. When either input carries uncertainty, the result carries
// the propagated elementwise uncertainty.
func Derivative(y, x []float64, opts *DerivativeOptions) (Series, error) {
	const ctx = "derivative calculation"
	if err := validate.NonEmptySeries(y, "data series", ctx); err != nil {
		return Series{}, err
	}
	if x == nil {
		x = unitSpacing(len(y))
	}
	if err := validate.SameLength(y, x, "data series", "independent variable", ctx); err != nil {
		return Series{}, err
	}
	if len(y) < 2 {
		return Series{}, fmt.Errorf("%s: data series needs at least 2 points, got %d", ctx, len(y))
	}
	if opts == nil {
		opts = &DerivativeOptions{}
	}
	order := opts.Order
	if order == 0 {
		order = 1
	}
	if order < 0 {
		return Series{}, fmt.Errorf("%s: order must be at least 1, got %d", ctx, order)
	}
	if opts.Custom != nil && (opts.UncertaintyY != nil || opts.UncertaintyX != nil) {
		return Series{}, fmt.Errorf("%s: custom methods do not propagate uncertainty", ctx)
	}

	uy, err := opts.UncertaintyY.ApplySeries(y, "data series", ctx)
	if err != nil {
		return Series{}, err
	}
	ux, err := opts.UncertaintyX.ApplySeries(x, "independent variable", ctx)
	if err != nil {
		return Series{}, err
	}
	hasUncertainty := opts.UncertaintyY != nil || opts.UncertaintyX != nil

	cur := append([]float64(nil), y...)
	curU := append([]float64(nil), uy...)
	for rep := 0; rep < order; rep++ {
		if opts.Custom != nil {
			cur, err = opts.Custom(cur, x)
			if err != nil {
				return Series{}, fmt.Errorf("%s: custom method: %w", ctx, err)
			}
			if len(cur) != len(x) {
				return Series{}, fmt.Errorf("%s: custom method returned %d values for %d points", ctx, len(cur), len(x))
			}
			continue
		}
		switch opts.Method {
		case Central, "":
			cur, curU = centralDiff(cur, x, curU, ux)
		case Forward:
			cur, curU = oneSidedDiff(cur, x, curU, ux, true)
		case Backward:
			cur, curU = oneSidedDiff(cur, x, curU, ux, false)
		default:
			return Series{}, fmt.Errorf("%s: unknown method %q", ctx, opts.Method)
		}
	}

	out := Series{Value: cur}
	if hasUncertainty {
		out.Uncertainty = curU
	}
	return out, nil
}

func unitSpacing(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	return x
}

// centralDiff computes the interior points with the non-uniform
// second-order weights and one-sided differences at the boundaries.
func centralDiff(y, x, uy, ux []float64) ([]float64, []float64) {
	n := len(y)
	d := make([]float64, n)
	du := make([]float64, n)

	d[0], du[0] = diffBetween(y, x, uy, ux, 0, 1)
	d[n-1], du[n-1] = diffBetween(y, x, uy, ux, n-2, n-1)
	for i := 1; i < n-1; i++ {
		hs := x[i] - x[i-1]
		hd := x[i+1] - x[i]
		// Weighted stencil, exact for quadratics on uneven grids.
		a := -hd / (hs * (hs + hd))
		b := (hd - hs) / (hs * hd)
		c := hs / (hd * (hs + hd))
		d[i] = a*y[i-1] + b*y[i] + c*y[i+1]

		// Dominant spacing for the propagation denominators.
		span := x[i+1] - x[i-1]
		yTerm := math.Hypot(uy[i+1], uy[i-1]) / math.Abs(span)
		xTerm := math.Abs(d[i]) * math.Hypot(ux[i+1], ux[i-1]) / math.Abs(span)
		du[i] = math.Hypot(yTerm, xTerm)
	}
	return d, du
}

func oneSidedDiff(y, x, uy, ux []float64, forward bool) ([]float64, []float64) {
	n := len(y)
	d := make([]float64, n)
	du := make([]float64, n)
	if forward {
		for i := 0; i < n-1; i++ {
			d[i], du[i] = diffBetween(y, x, uy, ux, i, i+1)
		}
		d[n-1], du[n-1] = d[n-2], du[n-2]
	} else {
		for i := 1; i < n; i++ {
			d[i], du[i] = diffBetween(y, x, uy, ux, i-1, i)
		}
		d[0], du[0] = d[1], du[1]
	}
	return d, du
}

func diffBetween(y, x, uy, ux []float64, i, j int) (float64, float64) {
	dx := x[j] - x[i]
	slope := (y[j] - y[i]) / dx
	yTerm := math.Hypot(uy[j], uy[i]) / math.Abs(dx)
	xTerm := math.Abs(slope) * math.Hypot(ux[j], ux[i]) / math.Abs(dx)
	return slope, math.Hypot(yTerm, xTerm)
}
