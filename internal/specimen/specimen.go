// Package specimen holds the test-specimen entity: validated geometry
// with derived area, volume and density, the raw measurement series,
// and the computed stress-strain curve with its alignment result and
// energy KPIs. Derived values are computed lazily and cached;
// SetGeometry invalidates everything downstream.
package specimen

import (
	"fmt"
	"math"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/align"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/operator"
	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/validate"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Kind tags the entity variant.
type Kind int

const (
	KindSpecimen Kind = iota
	KindSampleGroup
)

func (k Kind) String() string {
	if k == KindSampleGroup {
		return "sample group"
	}
	return "specimen"
}

// Geometry is the measured specimen dimensions: millimeters for the
// dimensions, grams for the mass.
type Geometry struct {
	Length    float64
	Width     float64
	Thickness float64
	Mass      float64
}

// Validate checks every dimension is a positive finite number.
func (g Geometry) Validate() error {
	const ctx = "specimen geometry"
	if err := validate.PositiveNumber(g.Length, "length", ctx); err != nil {
		return err
	}
	if err := validate.PositiveNumber(g.Width, "width", ctx); err != nil {
		return err
	}
	if err := validate.PositiveNumber(g.Thickness, "thickness", ctx); err != nil {
		return err
	}
	return validate.PositiveNumber(g.Mass, "mass", ctx)
}

// Entity is a single specimen or an averaged sample group. Not safe
// for concurrent use; the caches are unlocked.
type Entity struct {
	ID   uuid.UUID
	Name string
	Kind Kind

	geom  Geometry
	geomU *operator.GeometryUncertainty

	force        []float64
	displacement []float64
	time         []float64

	alignParams *align.Params
	manualShift float64

	area      *operator.Scalar
	volume    *operator.Scalar
	density   *operator.Scalar
	stress    []float64
	strain    []float64
	alignment *align.Result
	shifted   []float64
}

// New builds an entity over raw measurement series. Force,
// displacement and time must be non-empty and the same length; the
// geometry must be fully positive.
func New(name string, kind Kind, geom Geometry, force, displacement, time []float64) (*Entity, error) {
	const ctx = "specimen construction"
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	if err := validate.NonEmptySeries(force, "force", ctx); err != nil {
		return nil, err
	}
	if err := validate.SameLength(force, displacement, "force", "displacement", ctx); err != nil {
		return nil, err
	}
	if err := validate.SameLength(force, time, "force", "time", ctx); err != nil {
		return nil, err
	}
	return &Entity{
		ID:           uuid.New(),
		Name:         name,
		Kind:         kind,
		geom:         geom,
		force:        force,
		displacement: displacement,
		time:         time,
	}, nil
}

func (e *Entity) Geometry() Geometry { return e.geom }

// SetGeometry replaces the dimensions and drops every derived cache.
func (e *Entity) SetGeometry(g Geometry) error {
	if err := g.Validate(); err != nil {
		return err
	}
	e.geom = g
	e.invalidate()
	return nil
}

// SetUncertainty attaches per-dimension uncertainty specs; derived
// scalars pick them up on the next computation.
func (e *Entity) SetUncertainty(u *operator.GeometryUncertainty) {
	e.geomU = u
	e.invalidate()
}

// SetAlignParams overrides the elastic-region detection parameters.
func (e *Entity) SetAlignParams(p *align.Params) {
	e.alignParams = p
	e.alignment = nil
	e.shifted = nil
}

// SetManualStrainShift adds an operator-chosen offset on top of the
// automatic elastic-region zeroing.
func (e *Entity) SetManualStrainShift(shift float64) {
	e.manualShift = shift
	e.shifted = nil
}

func (e *Entity) invalidate() {
	e.area = nil
	e.volume = nil
	e.density = nil
	e.stress = nil
	e.strain = nil
	e.alignment = nil
	e.shifted = nil
}

func (e *Entity) Force() []float64        { return e.force }
func (e *Entity) Displacement() []float64 { return e.displacement }
func (e *Entity) Time() []float64         { return e.time }

// Area is the cross-sectional area in mm^2.
func (e *Entity) Area() (operator.Scalar, error) {
	if e.area == nil {
		a, err := operator.CrossSectionalArea(e.geom.Length, e.geom.Width, 0, e.geomU)
		if err != nil {
			return operator.Scalar{}, err
		}
		e.area = &a
	}
	return *e.area, nil
}

// Volume is the specimen volume in mm^3.
func (e *Entity) Volume() (operator.Scalar, error) {
	if e.volume == nil {
		area, err := e.Area()
		if err != nil {
			return operator.Scalar{}, err
		}
		v, err := operator.Volume(area, e.geom.Thickness, 0, e.geomU)
		if err != nil {
			return operator.Scalar{}, err
		}
		e.volume = &v
	}
	return *e.volume, nil
}

// Density is the apparent density in g/cc (mass in grams over volume
// in mm^3, scaled by 1000).
func (e *Entity) Density() (operator.Scalar, error) {
	if e.density == nil {
		vol, err := e.Volume()
		if err != nil {
			return operator.Scalar{}, err
		}
		d, err := operator.Density(e.geom.Mass, vol, 1000, e.geomU)
		if err != nil {
			return operator.Scalar{}, err
		}
		e.density = &d
	}
	return *e.density, nil
}

// Stress is the engineering stress series in MPa (force in N over
// area in mm^2). Negative-mean force series are inverted so
// compression reads positive.
func (e *Entity) Stress() ([]float64, error) {
	if e.stress == nil {
		area, err := e.Area()
		if err != nil {
			return nil, err
		}
		s, err := operator.Stress(e.force, area, nil)
		if err != nil {
			return nil, err
		}
		e.stress = s.Value
	}
	return e.stress, nil
}

// Strain is the engineering strain (displacement over the specimen
// thickness, the loading direction).
func (e *Entity) Strain() ([]float64, error) {
	if e.strain == nil {
		s, err := operator.Strain(e.displacement, e.geom.Thickness, nil)
		if err != nil {
			return nil, err
		}
		e.strain = s.Value
	}
	return e.strain, nil
}

// positiveForce returns the force series with compression reading
// positive, matching the sign convention of Stress.
func (e *Entity) positiveForce() []float64 {
	if stat.Mean(e.force, nil) >= 0 {
		return e.force
	}
	out := make([]float64, len(e.force))
	for i, f := range e.force {
		out[i] = -f
	}
	return out
}

// Alignment runs the elastic-region detection once and caches the
// result: region bounds, Young's modulus, offset line and yield
// points.
func (e *Entity) Alignment() (*align.Result, error) {
	if e.alignment == nil {
		stress, err := e.Stress()
		if err != nil {
			return nil, err
		}
		strain, err := e.Strain()
		if err != nil {
			return nil, err
		}
		engine, err := align.New(stress, strain, e.positiveForce(), e.alignParams)
		if err != nil {
			return nil, err
		}
		r := engine.Compute()
		e.alignment = &r
	}
	return e.alignment, nil
}

// YoungsModulus is the regression slope over the detected elastic
// region, in MPa.
func (e *Entity) YoungsModulus() (float64, error) {
	r, err := e.Alignment()
	if err != nil {
		return 0, err
	}
	return r.YoungsModulus, nil
}

// ShiftedStrain zeroes the strain at the elastic-region start and adds
// the manual shift. The returned slice is the cache; callers must not
// modify it.
func (e *Entity) ShiftedStrain() ([]float64, error) {
	if e.shifted == nil {
		strain, err := e.Strain()
		if err != nil {
			return nil, err
		}
		r, err := e.Alignment()
		if err != nil {
			return nil, err
		}
		origin := strain[r.FirstIncrease]
		out := make([]float64, len(strain))
		for i, s := range strain {
			out[i] = s - origin + e.manualShift
		}
		e.shifted = out
	}
	return e.shifted, nil
}

// EnergyAbsorption is the area under the stress-strain curve up to the
// given compression level, in kJ/m^3 (MPa integrated over strain gives
// MJ/m^3, scaled by 1000).
func (e *Entity) EnergyAbsorption(compression float64) (float64, error) {
	stress, err := e.Stress()
	if err != nil {
		return 0, err
	}
	shifted, err := e.ShiftedStrain()
	if err != nil {
		return 0, err
	}
	idx := closestIndex(shifted, compression)
	if idx < 2 {
		return 0, nil
	}
	return integrate.Trapezoidal(shifted[:idx], stress[:idx]) * 1000, nil
}

// SpecificEnergyAbsorption is the energy absorption per unit mass, in
// kJ/kg.
func (e *Entity) SpecificEnergyAbsorption(compression float64) (float64, error) {
	ev, err := e.EnergyAbsorption(compression)
	if err != nil {
		return 0, err
	}
	density, err := e.Density()
	if err != nil {
		return 0, err
	}
	// g/cc to kg/m^3
	return ev / (density.Value * 1000), nil
}

// E20, E50 and E80 are the energy absorptions at 20%, 50% and 80%
// compression, the standard report levels.
func (e *Entity) E20() (float64, error) { return e.EnergyAbsorption(0.2) }
func (e *Entity) E50() (float64, error) { return e.EnergyAbsorption(0.5) }
func (e *Entity) E80() (float64, error) { return e.EnergyAbsorption(0.8) }

// Toughness is the total area under the stress-strain curve, in
// MJ/m^3.
func (e *Entity) Toughness() (float64, error) {
	stress, err := e.Stress()
	if err != nil {
		return 0, err
	}
	shifted, err := e.ShiftedStrain()
	if err != nil {
		return 0, err
	}
	if len(shifted) < 2 {
		return 0, nil
	}
	return integrate.Trapezoidal(shifted, stress), nil
}

// Ductility is the maximum shifted strain reached during the test.
func (e *Entity) Ductility() (float64, error) {
	shifted, err := e.ShiftedStrain()
	if err != nil {
		return 0, err
	}
	max := shifted[0]
	for _, s := range shifted {
		max = math.Max(max, s)
	}
	return max, nil
}

// Resilience is the elastic energy at the initial yield point,
// 0.5 * sigma * epsilon. It is absent when no yield point was
// detected.
func (e *Entity) Resilience() (float64, bool, error) {
	r, err := e.Alignment()
	if err != nil {
		return 0, false, err
	}
	if !r.HasIYS {
		return 0, false, nil
	}
	return 0.5 * r.IYS.Y * r.IYS.X, true, nil
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s %q %.2fx%.2fx%.2f mm %.3f g",
		e.Kind, e.Name, e.geom.Length, e.geom.Width, e.geom.Thickness, e.geom.Mass)
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
