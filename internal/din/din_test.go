package din

import (
	"math"
	"testing"
)

// foamCurve builds a curve with an upper yield peak, a plateau near
// 100 MPa across strains 0.2-0.4 and densification past 0.5.
func foamCurve() (stress, strain []float64) {
	for i := 0; i <= 700; i++ {
		e := float64(i) * 0.001
		strain = append(strain, e)
		switch {
		case e < 0.04:
			stress = append(stress, 2750*e)
		case e < 0.06:
			// upper yield bump at 110 relaxing back to the plateau
			stress = append(stress, 110-25000*(e-0.04)*(e-0.04))
		case e < 0.5:
			stress = append(stress, 100+5*(e-0.06))
		default:
			stress = append(stress, 102.2+3000*(e-0.5)*(e-0.5)*10)
		}
	}
	return
}

func TestRpltIsPlateauMean(t *testing.T) {
	stress, strain := foamCurve()
	a, err := New(stress, strain, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := a.Rplt()
	// plateau runs 100 + 5*(e-0.06): mean over [0.2, 0.4) is about 100+5*(0.3-0.06)
	want := 100 + 5*(0.2995-0.06)
	if math.Abs(got-want) > 0.5 {
		t.Errorf("Rplt = %v, want about %v", got, want)
	}
}

func TestPlateauEnd(t *testing.T) {
	stress, strain := foamCurve()
	a, _ := New(stress, strain, 0, 0)
	idx := a.RpltE()
	aplt := a.ApltE()
	target := 1.3 * a.Rplt()
	if math.Abs(stress[idx]-target) > 2 {
		t.Errorf("stress at plateau end = %v, want close to %v", stress[idx], target)
	}
	if aplt <= 0.4 {
		t.Errorf("ApltE = %v, want densification strain past the plateau", aplt)
	}
}

func TestReHFirstLocalMax(t *testing.T) {
	stress, strain := foamCurve()
	a, _ := New(stress, strain, 0, 0)
	reH, ok := a.ReH()
	if !ok {
		t.Fatal("expected an upper yield peak on this curve")
	}
	if math.Abs(reH-110) > 1 {
		t.Errorf("ReH = %v, want about 110", reH)
	}
	aeH, ok := a.AeH()
	if !ok || math.Abs(aeH-0.04) > 0.005 {
		t.Errorf("AeH = %v (ok=%v), want about 0.04", aeH, ok)
	}
	ratio, ok := a.ReHRpltRatio()
	if !ok {
		t.Fatal("ratio must exist when ReH does")
	}
	if math.Abs(ratio-reH/a.Rplt()) > 1e-9 {
		t.Errorf("ratio = %v, want %v", ratio, reH/a.Rplt())
	}
}

func TestReHAbsentOnMonotoneCurve(t *testing.T) {
	var stress, strain []float64
	for i := 0; i <= 500; i++ {
		strain = append(strain, float64(i)*0.001)
		stress = append(stress, float64(i)*0.5)
	}
	a, _ := New(stress, strain, 0, 0)
	if _, ok := a.ReH(); ok {
		t.Error("monotone curve must have no ReH")
	}
	if _, ok := a.AeH(); ok {
		t.Error("monotone curve must have no AeH")
	}
	if _, ok := a.ReHRpltRatio(); ok {
		t.Error("ratio must be absent when ReH is")
	}
}

func TestEnergyAbsorption(t *testing.T) {
	// Constant stress 10: Ev to strain e is 10*e.
	var stress, strain []float64
	for i := 0; i <= 700; i++ {
		strain = append(strain, float64(i)*0.001)
		stress = append(stress, 10)
	}
	a, _ := New(stress, strain, 0, 0)
	if got := a.E20(); math.Abs(got-2) > 0.02 {
		t.Errorf("E20 = %v, want about 2", got)
	}
	if got := a.E40(); math.Abs(got-4) > 0.02 {
		t.Errorf("E40 = %v, want about 4", got)
	}
	if got := a.E60(); math.Abs(got-6) > 0.02 {
		t.Errorf("E60 = %v, want about 6", got)
	}
	if math.Abs(a.Ev()-a.E20()) > 1e-12 {
		t.Errorf("Ev = %v, want E20 for the default window", a.Ev())
	}
}

func TestEffAbsentOnDegeneratePlateau(t *testing.T) {
	// All-negative plateau stress: efficiency undefined.
	var stress, strain []float64
	for i := 0; i <= 500; i++ {
		strain = append(strain, float64(i)*0.001)
		stress = append(stress, -1)
	}
	a, _ := New(stress, strain, 0, 0)
	if _, ok := a.Eff(); ok {
		t.Error("expected Eff to be absent for a non-positive plateau max")
	}
}

func TestEffPresent(t *testing.T) {
	stress, strain := foamCurve()
	a, _ := New(stress, strain, 0, 0)
	eff, ok := a.Eff()
	if !ok {
		t.Fatal("expected Eff on a healthy curve")
	}
	if eff <= 0 || eff > 1.5 {
		t.Errorf("Eff = %v, out of plausible range", eff)
	}
}

func TestRp1(t *testing.T) {
	stress, strain := foamCurve()
	a, _ := New(stress, strain, 0, 0)
	want := 2750 * 0.01
	if math.Abs(a.Rp1()-want) > 0.5 {
		t.Errorf("Rp1 = %v, want about %v", a.Rp1(), want)
	}
}

func TestGradientM(t *testing.T) {
	stress, strain := foamCurve()
	a, _ := New(stress, strain, 0, 0)
	m := a.M()
	// both reference stresses sit on the elastic ramp, so the gradient
	// approximates its slope
	if math.Abs(m-2750) > 300 {
		t.Errorf("M = %v, want about the elastic slope 2750", m)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, nil, 0, 0); err == nil {
		t.Error("expected error for empty series")
	}
	if _, err := New([]float64{1}, []float64{1, 2}, 0, 0); err == nil {
		t.Error("expected error for length mismatch")
	}
}
