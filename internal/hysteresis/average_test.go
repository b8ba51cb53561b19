package hysteresis

import (
	"math"
	"testing"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/operator"
)

func halfFixture(area float64, n int) SpecimenHalves {
	var loading, unloading Block
	for i := 0; i < n; i++ {
		f := 100 + float64(i)*100
		loading.Force = append(loading.Force, f)
		loading.Displacement = append(loading.Displacement, f/1000)
		loading.Time = append(loading.Time, float64(i))
		loading.Strain = append(loading.Strain, f/10000)
	}
	for i := 0; i < n; i++ {
		f := 100 + float64(n-1-i)*100
		unloading.Force = append(unloading.Force, f)
		unloading.Displacement = append(unloading.Displacement, f/1000)
		unloading.Time = append(unloading.Time, float64(n+i))
		unloading.Strain = append(unloading.Strain, f/10000)
	}
	return SpecimenHalves{Loading: loading, Unloading: unloading, Area: area}
}

func TestAverageLoopsSingleSpecimen(t *testing.T) {
	spec := halfFixture(100, 6)
	avg, err := AverageLoops([]SpecimenHalves{spec})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(avg.Force) != 12 {
		t.Fatalf("averaged curve has %d samples, want 12", len(avg.Force))
	}
	// time base starts at zero
	if avg.Time[0] != 0 {
		t.Errorf("time[0] = %v, want 0", avg.Time[0])
	}
	// stress is force over area on the shared axis
	for i := range avg.Force {
		want := avg.Force[i] / 100
		if math.Abs(avg.Stress[i]-want) > 1e-9 {
			t.Errorf("stress[%d] = %v, want %v", i, avg.Stress[i], want)
		}
	}
	// unloading half is appended reversed: force rises then falls
	mid := len(avg.Force) / 2
	if avg.Force[mid-1] < avg.Force[0] || avg.Force[mid] < avg.Force[len(avg.Force)-1] {
		t.Error("halves are not joined loading-up then unloading-down")
	}
}

func TestAverageLoopsTwoSpecimens(t *testing.T) {
	// Same force range, different areas: averaged stress must be the
	// mean of the two per-specimen stresses.
	a := halfFixture(100, 40)
	b := halfFixture(200, 40)
	avg, err := AverageLoops([]SpecimenHalves{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// median filtering is the identity on the interior of a monotone
	// ramp, so the mean stress survives exactly
	quarter := len(avg.Force) / 4
	want := (avg.Force[quarter]/100 + avg.Force[quarter]/200) / 2
	if math.Abs(avg.Stress[quarter]-want) > 1e-9 {
		t.Errorf("stress = %v, want %v", avg.Stress[quarter], want)
	}
}

func TestAverageLoopsValidation(t *testing.T) {
	if _, err := AverageLoops(nil); err == nil {
		t.Error("expected error for no specimens")
	}
	bad := halfFixture(0, 6)
	if _, err := AverageLoops([]SpecimenHalves{bad}); err == nil {
		t.Error("expected error for non-positive area")
	}
}

func TestTruncateAtReferences(t *testing.T) {
	var strain, stress []float64
	for i := 0; i <= 100; i++ {
		strain = append(strain, float64(i)*0.002)
		stress = append(stress, float64(i))
	}
	pt70s := []operator.Point{{X: 0.14, Y: 70}, {X: 0.142, Y: 70.2}}
	pt20s := []operator.Point{{X: 0.04, Y: 20}, {X: 0.044, Y: 19.8}}

	got, err := TruncateAtReferences(strain, stress, pt70s, pt20s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// plateau recovered from the reference levels
	wantPlateau := (70.1/0.7 + 19.9/0.2) / 2
	if math.Abs(got.PlateauStress-wantPlateau) > 1e-9 {
		t.Errorf("plateau = %v, want %v", got.PlateauStress, wantPlateau)
	}
	// the 20% match is searched after the 70% match, so the curve is
	// cut at or past the 70% index
	if got.Avg20.Index < got.Avg70.Index {
		t.Errorf("20%% index %d before 70%% index %d", got.Avg20.Index, got.Avg70.Index)
	}
	if len(got.Strain) != got.Avg20.Index+1 {
		t.Errorf("truncated to %d samples, want %d", len(got.Strain), got.Avg20.Index+1)
	}
}

func TestTruncateValidation(t *testing.T) {
	if _, err := TruncateAtReferences(nil, nil, nil, nil); err == nil {
		t.Error("expected error for empty inputs")
	}
}
