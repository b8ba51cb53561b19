package hysteresis

import (
	"math"
	"testing"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/operator"
)

// proofFixture is a shifted compression curve: elastic ramp then a
// flat-ish plateau near 100 MPa.
func proofFixture() (strain, stress []float64) {
	for i := 0; i <= 40; i++ {
		strain = append(strain, float64(i)*0.001)
		stress = append(stress, float64(i)*2.5)
	}
	for i := 1; i <= 60; i++ {
		strain = append(strain, 0.04+float64(i)*0.005)
		stress = append(stress, 100-float64(i)*0.02)
	}
	return
}

func TestProofStrengthPrimary(t *testing.T) {
	strain, stress := proofFixture()
	got, err := ProofStrength(strain, stress, 2500, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Primary.Found {
		t.Fatal("expected the primary offset intersection on this curve")
	}
	// the 1%-offset line runs parallel to the elastic ramp and crosses
	// the plateau near 100
	if math.Abs(got.Primary.Point.Y-100) > 5 {
		t.Errorf("proof strength %v, want near the plateau stress", got.Primary.Point.Y)
	}
	if len(got.Candidates) != 0 {
		t.Error("fallback candidates must not run when the primary succeeds")
	}
}

func TestProofStrengthFallbacks(t *testing.T) {
	// Zero modulus: the primary line is degenerate, so every fallback
	// method must produce its own candidate.
	strain, stress := proofFixture()
	fallbacks := &FallbackInputs{
		SpecimenModuli: []float64{9000, 11000},
		Pt20:           operator.Point{X: 0.023, Y: 20},
		Pt70:           operator.Point{X: 0.028, Y: 70},
		PlateauStress:  100,
	}
	got, err := ProofStrength(strain, stress, 0, fallbacks, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Primary.Found {
		t.Fatal("primary must not be found with a zero modulus")
	}
	if len(got.Candidates) != 3 {
		t.Fatalf("got %d candidates, want 3", len(got.Candidates))
	}
	avg := got.Candidates[0]
	if avg.Modulus != 10000 {
		t.Errorf("average modulus = %v, want 10000", avg.Modulus)
	}
	secant := got.Candidates[1]
	wantSecant := (20.0 - 70.0) / (0.023 - 0.028)
	if math.Abs(secant.Modulus-wantSecant) > 1e-9 {
		t.Errorf("secant modulus = %v, want %v", secant.Modulus, wantSecant)
	}
	for _, c := range got.Candidates {
		if !c.Found {
			t.Errorf("candidate %q found no intersection on a curve that has one", c.Method)
		}
	}
}

func TestProofStrengthNoFallbacksGiven(t *testing.T) {
	strain, stress := proofFixture()
	got, err := ProofStrength(strain, stress, 0, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Primary.Found || len(got.Candidates) != 0 {
		t.Error("zero modulus without fallbacks must yield an empty result")
	}
}

func TestProofStrengthValidation(t *testing.T) {
	if _, err := ProofStrength(nil, nil, 1000, nil, nil); err == nil {
		t.Error("expected error for empty series")
	}
	if _, err := ProofStrength([]float64{1}, []float64{1, 2}, 1000, nil, nil); err == nil {
		t.Error("expected error for length mismatch")
	}
}
