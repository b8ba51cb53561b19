package specimen

// ManifestEntry maps one exportable property to its getter and
// presentation metadata. The manifest is the single source of truth
// for serialization layers; a (0, false) value means the property is
// absent for this entity, not an error.
type ManifestEntry struct {
	Name     string
	Label    string
	Unit     string
	Category string
	Value    func(e *Entity) (float64, bool)
}

func scalar(f func(e *Entity) (float64, error)) func(e *Entity) (float64, bool) {
	return func(e *Entity) (float64, bool) {
		v, err := f(e)
		if err != nil {
			return 0, false
		}
		return v, true
	}
}

// Manifest lists every exportable property in report order.
func Manifest() []ManifestEntry {
	return []ManifestEntry{
		{"length", "Length", "mm", "geometry",
			func(e *Entity) (float64, bool) { return e.geom.Length, true }},
		{"width", "Width", "mm", "geometry",
			func(e *Entity) (float64, bool) { return e.geom.Width, true }},
		{"thickness", "Thickness", "mm", "geometry",
			func(e *Entity) (float64, bool) { return e.geom.Thickness, true }},
		{"mass", "Mass", "g", "geometry",
			func(e *Entity) (float64, bool) { return e.geom.Mass, true }},
		{"area", "Cross-sectional Area", "mm^2", "geometry",
			scalar(func(e *Entity) (float64, error) {
				a, err := e.Area()
				return a.Value, err
			})},
		{"volume", "Volume", "mm^3", "geometry",
			scalar(func(e *Entity) (float64, error) {
				v, err := e.Volume()
				return v.Value, err
			})},
		{"density", "Density", "g/cc", "geometry",
			scalar(func(e *Entity) (float64, error) {
				d, err := e.Density()
				return d.Value, err
			})},
		{"youngs_modulus", "Young's Modulus", "MPa", "mechanical",
			scalar((*Entity).YoungsModulus)},
		{"iys_stress", "IYS Stress", "MPa", "mechanical", yieldValue(true, false)},
		{"iys_strain", "IYS Strain", "", "mechanical", yieldValue(true, true)},
		{"ys_stress", "YS Stress", "MPa", "mechanical", yieldValue(false, false)},
		{"ys_strain", "YS Strain", "", "mechanical", yieldValue(false, true)},
		{"toughness", "Toughness", "MJ/m^3", "mechanical",
			scalar((*Entity).Toughness)},
		{"ductility", "Ductility", "", "mechanical",
			scalar((*Entity).Ductility)},
		{"resilience", "Resilience", "MJ/m^3", "mechanical",
			func(e *Entity) (float64, bool) {
				v, ok, err := e.Resilience()
				return v, ok && err == nil
			}},
		{"e20", "Energy Absorption E20", "kJ/m^3", "energy",
			scalar((*Entity).E20)},
		{"e50", "Energy Absorption E50", "kJ/m^3", "energy",
			scalar((*Entity).E50)},
		{"e80", "Energy Absorption E80", "kJ/m^3", "energy",
			scalar((*Entity).E80)},
		{"e20_specific", "Specific Energy Absorption E20", "kJ/kg", "energy",
			scalar(func(e *Entity) (float64, error) { return e.SpecificEnergyAbsorption(0.2) })},
		{"e50_specific", "Specific Energy Absorption E50", "kJ/kg", "energy",
			scalar(func(e *Entity) (float64, error) { return e.SpecificEnergyAbsorption(0.5) })},
		{"e80_specific", "Specific Energy Absorption E80", "kJ/kg", "energy",
			scalar(func(e *Entity) (float64, error) { return e.SpecificEnergyAbsorption(0.8) })},
	}
}

func yieldValue(initial, wantStrain bool) func(e *Entity) (float64, bool) {
	return func(e *Entity) (float64, bool) {
		r, err := e.Alignment()
		if err != nil {
			return 0, false
		}
		pt, ok := r.YS, r.HasYS
		if initial {
			pt, ok = r.IYS, r.HasIYS
		}
		if !ok {
			return 0, false
		}
		if wantStrain {
			return pt.X, true
		}
		return pt.Y, true
	}
}
