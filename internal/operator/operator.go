// Package operator implements the stateless calculations the analysis
// pipeline is built from: specimen geometry, stress/strain conversion,
// differentiation, integration, interpolation, curve intersection and
// peak detection. Every function validates its inputs and optionally
// propagates measurement uncertainty; results pair values with their
// standard deviations.
package operator

// Scalar is a computed value with its propagated standard deviation.
// Uncertainty is zero when no input uncertainty was supplied.
type Scalar struct {
	Value       float64
	Uncertainty float64
}

// Series is a computed series with elementwise standard deviations.
// Uncertainty is nil when no input uncertainty was supplied, otherwise
// it has the same length as Value.
type Series struct {
	Value       []float64
	Uncertainty []float64
}

// Point is a location on a curve.
type Point struct {
	X float64
	Y float64
}
