package operator

import (
	"fmt"
	"math"
	"sort"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/validate"
)

// Curve is a polyline in (x, y) coordinates.
type Curve struct {
	X []float64
	Y []float64
}

// IntersectMethod selects the intersection algorithm.
type IntersectMethod string

const (
	// LinearInterpolation detects sign changes of y1-y2 on a shared
	// x-axis and interpolates the crossing. Both curves must share
	// their x values. O(n).
	LinearInterpolation IntersectMethod = "linear_interpolation"
	// Exact checks every segment pair for true geometric
	// intersections, including collinear overlaps. O(n*m).
	Exact IntersectMethod = "exact"
)

// IntersectOptions controls Intersections.
type IntersectOptions struct {
	Method IntersectMethod
	// Custom replaces the built-in algorithms when non-nil.
	Custom func(c1, c2 Curve) ([]Point, error)
	// Tolerance drops sign-change crossings whose residual |y1-y2| at
	// the bracketing sample exceeds it. Zero means no filtering.
	Tolerance float64
	// Range restricts the search to x values within [Min, Max].
	Range *IntegrationRange
	// FirstOnly stops after the first intersection.
	FirstOnly bool
}

// Intersections finds the crossing points of two curves. An empty
// result is a normal outcome, not an error.
func Intersections(c1, c2 Curve, opts *IntersectOptions) ([]Point, error) {
	const ctx = "intersection search"
	if err := validateCurve(c1, "first curve", ctx); err != nil {
		return nil, err
	}
	if err := validateCurve(c2, "second curve", ctx); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &IntersectOptions{}
	}

	c1 = maskCurve(c1, opts.Range)
	c2 = maskCurve(c2, opts.Range)
	if len(c1.X) < 2 || len(c2.X) < 2 {
		return nil, nil
	}

	if opts.Custom != nil {
		pts, err := opts.Custom(c1, c2)
		if err != nil {
			return nil, fmt.Errorf("%s: custom method: %w", ctx, err)
		}
		if opts.FirstOnly && len(pts) > 1 {
			pts = pts[:1]
		}
		return pts, nil
	}

	var pts []Point
	var err error
	switch opts.Method {
	case LinearInterpolation, "":
		pts, err = signChangeIntersections(c1, c2, opts.Tolerance, opts.FirstOnly)
	case Exact:
		pts, err = exactIntersections(c1, c2, opts.FirstOnly)
	default:
		return nil, fmt.Errorf("%s: unknown method %q", ctx, opts.Method)
	}
	return pts, err
}

func validateCurve(c Curve, name, context string) error {
	if err := validate.NonEmptySeries(c.X, name+" x", context); err != nil {
		return err
	}
	return validate.SameLength(c.X, c.Y, name+" x", name+" y", context)
}

func maskCurve(c Curve, r *IntegrationRange) Curve {
	if r == nil {
		return c
	}
	var out Curve
	for i := range c.X {
		if c.X[i] >= r.Min && c.X[i] <= r.Max {
			out.X = append(out.X, c.X[i])
			out.Y = append(out.Y, c.Y[i])
		}
	}
	return out
}

func signChangeIntersections(c1, c2 Curve, tolerance float64, firstOnly bool) ([]Point, error) {
	if len(c1.X) != len(c2.X) {
		return nil, fmt.Errorf("intersection search: linear_interpolation requires curves sharing x values, got lengths %d and %d",
			len(c1.X), len(c2.X))
	}
	for i := range c1.X {
		if c1.X[i] != c2.X[i] {
			return nil, fmt.Errorf("intersection search: linear_interpolation requires curves sharing x values, mismatch at index %d", i)
		}
	}

	var pts []Point
	for i := 0; i < len(c1.X)-1; i++ {
		d0 := c1.Y[i] - c2.Y[i]
		d1 := c1.Y[i+1] - c2.Y[i+1]
		if d0 == 0 {
			pts = append(pts, Point{X: c1.X[i], Y: (c1.Y[i] + c2.Y[i]) / 2})
		} else if d0*d1 < 0 {
			if tolerance > 0 && math.Min(math.Abs(d0), math.Abs(d1)) > tolerance {
				continue
			}
			t := d0 / (d0 - d1)
			x := c1.X[i] + t*(c1.X[i+1]-c1.X[i])
			y1 := c1.Y[i] + t*(c1.Y[i+1]-c1.Y[i])
			y2 := c2.Y[i] + t*(c2.Y[i+1]-c2.Y[i])
			pts = append(pts, Point{X: x, Y: (y1 + y2) / 2})
		}
		if firstOnly && len(pts) > 0 {
			return pts[:1], nil
		}
	}
	last := len(c1.X) - 1
	if c1.Y[last]-c2.Y[last] == 0 {
		pts = append(pts, Point{X: c1.X[last], Y: (c1.Y[last] + c2.Y[last]) / 2})
	}
	if firstOnly && len(pts) > 1 {
		pts = pts[:1]
	}
	return pts, nil
}

func exactIntersections(c1, c2 Curve, firstOnly bool) ([]Point, error) {
	var pts []Point
	seen := make(map[[2]float64]bool)
	add := func(p Point) {
		key := [2]float64{p.X, p.Y}
		if !seen[key] {
			seen[key] = true
			pts = append(pts, p)
		}
	}
	for i := 0; i < len(c1.X)-1; i++ {
		for j := 0; j < len(c2.X)-1; j++ {
			for _, p := range segmentIntersection(
				Point{c1.X[i], c1.Y[i]}, Point{c1.X[i+1], c1.Y[i+1]},
				Point{c2.X[j], c2.Y[j]}, Point{c2.X[j+1], c2.Y[j+1]},
			) {
				add(p)
				if firstOnly {
					return pts[:1], nil
				}
			}
		}
	}
	sort.Slice(pts, func(a, b int) bool {
		if pts[a].X != pts[b].X {
			return pts[a].X < pts[b].X
		}
		return pts[a].Y < pts[b].Y
	})
	return pts, nil
}

// segmentIntersection returns the intersection of segments ab and cd:
// one point in the generic case, the overlap endpoints when the
// segments are collinear and overlapping, nothing otherwise.
func segmentIntersection(a, b, c, d Point) []Point {
	r := Point{b.X - a.X, b.Y - a.Y}
	s := Point{d.X - c.X, d.Y - c.Y}
	denom := cross(r, s)
	acx := c.X - a.X
	acy := c.Y - a.Y
	numT := acx*s.Y - acy*s.X
	numU := acx*r.Y - acy*r.X

	const eps = 1e-12
	if math.Abs(denom) < eps {
		if math.Abs(numT) >= eps {
			return nil // parallel, non-collinear
		}
		return collinearOverlap(a, b, c, d, r)
	}
	t := numT / denom
	u := numU / denom
	if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
		return nil
	}
	return []Point{{a.X + t*r.X, a.Y + t*r.Y}}
}

func cross(a, b Point) float64 { return a.X*b.Y - a.Y*b.X }

func collinearOverlap(a, b, c, d, r Point) []Point {
	rr := r.X*r.X + r.Y*r.Y
	if rr == 0 {
		return nil
	}
	t0 := ((c.X-a.X)*r.X + (c.Y-a.Y)*r.Y) / rr
	t1 := ((d.X-a.X)*r.X + (d.Y-a.Y)*r.Y) / rr
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	lo := math.Max(t0, 0)
	hi := math.Min(t1, 1)
	if lo > hi {
		return nil
	}
	p0 := Point{a.X + lo*r.X, a.Y + lo*r.Y}
	if lo == hi {
		return []Point{p0}
	}
	p1 := Point{a.X + hi*r.X, a.Y + hi*r.Y}
	return []Point{p0, p1}
}
