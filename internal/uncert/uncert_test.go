package uncert

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestMulPropagation(t *testing.T) {
	// 10±0.2 * 5±0.1: sqrt((5*0.2)^2 + (10*0.1)^2) = sqrt(2)
	got := Value{10, 0.2}.Mul(Value{5, 0.1})
	if math.Abs(got.Nominal-50) > epsilon {
		t.Errorf("nominal = %v, want 50", got.Nominal)
	}
	want := math.Sqrt(2)
	if math.Abs(got.Stddev-want) > epsilon {
		t.Errorf("stddev = %v, want %v", got.Stddev, want)
	}
}

func TestMulZeroNominal(t *testing.T) {
	got := Value{0, 0.5}.Mul(Value{4, 0.1})
	if got.Nominal != 0 {
		t.Errorf("nominal = %v, want 0", got.Nominal)
	}
	if math.Abs(got.Stddev-2) > epsilon {
		t.Errorf("stddev = %v, want 2", got.Stddev)
	}
}

func TestDivPropagation(t *testing.T) {
	// 100±1 / 4±0.04: relative sqrt(0.01^2+0.01^2) * 25
	got := Value{100, 1}.Div(Value{4, 0.04})
	if math.Abs(got.Nominal-25) > epsilon {
		t.Errorf("nominal = %v, want 25", got.Nominal)
	}
	want := 25 * math.Sqrt(2) * 0.01
	if math.Abs(got.Stddev-want) > epsilon {
		t.Errorf("stddev = %v, want %v", got.Stddev, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		percent bool
		value   float64
	}{
		{"absolute", "0.5", false, false, 0.5},
		{"percent", "5%", false, true, 5},
		{"percent with space", " 2.5 % ", false, true, 2.5},
		{"negative", "-1", true, false, 0},
		{"empty", "", true, false, 0},
		{"garbage", "abc", true, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tt.percent {
				if spec.kind != specPercent || spec.Percent != tt.value {
					t.Errorf("Parse(%q) = %+v, want percent %v", tt.input, spec, tt.value)
				}
			} else {
				if spec.kind != specAbsolute || spec.Absolute != tt.value {
					t.Errorf("Parse(%q) = %+v, want absolute %v", tt.input, spec, tt.value)
				}
			}
		})
	}
}

func TestApplyScalar(t *testing.T) {
	v, err := NewPercent(5).ApplyScalar(40, "width", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(v.Stddev-2) > epsilon {
		t.Errorf("stddev = %v, want 2", v.Stddev)
	}

	if _, err := NewAbsolute(0).ApplyScalar(40, "width", "test"); err == nil {
		t.Error("expected error for non-positive absolute uncertainty")
	}
	if _, err := NewPerElement([]float64{1, 2}).ApplyScalar(40, "width", "test"); err == nil {
		t.Error("expected error applying per-element spec to scalar")
	}

	var nilSpec *Spec
	v, err = nilSpec.ApplyScalar(40, "width", "test")
	if err != nil || v.Stddev != 0 || v.Nominal != 40 {
		t.Errorf("nil spec: got %+v, %v; want exact 40", v, err)
	}
}

func TestApplySeries(t *testing.T) {
	values := []float64{10, -20, 0}

	abs, err := NewAbsolute(0.5).ApplySeries(values, "force", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, u := range abs {
		if u != 0.5 {
			t.Errorf("abs[%d] = %v, want 0.5", i, u)
		}
	}

	pct, err := NewPercent(10).ApplySeries(values, "force", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantPct := []float64{1, 2, 0}
	for i := range pct {
		if math.Abs(pct[i]-wantPct[i]) > epsilon {
			t.Errorf("pct[%d] = %v, want %v", i, pct[i], wantPct[i])
		}
	}

	if _, err := NewPerElement([]float64{1}).ApplySeries(values, "force", "test"); err == nil {
		t.Error("expected error for per-element length mismatch")
	}

	var nilSpec *Spec
	zero, err := nilSpec.ApplySeries(values, "force", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zero) != len(values) {
		t.Fatalf("len = %d, want %d", len(zero), len(values))
	}
	for i, u := range zero {
		if u != 0 {
			t.Errorf("zero[%d] = %v, want 0", i, u)
		}
	}
}
