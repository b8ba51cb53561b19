package operator

import (
	"math"
	"testing"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/series"
)

func tableFrom(name string, x, y []float64) *series.Table {
	t := series.New(name)
	t.SetColumn("strain", x)
	t.SetColumn("stress", y)
	return t
}

func TestInterpolateRoundTrip(t *testing.T) {
	// A common axis containing the original x values must reproduce
	// the original y values exactly for the linear method.
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 10, 15, 30, 32}
	tbl := tableFrom("spec1", x, y)

	common := []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4}
	out, err := InterpolateTables([]*series.Table{tbl}, "strain", common, Linear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := out[0].Column("stress")
	for i, cx := range common {
		if cx == math.Trunc(cx) {
			orig := y[int(cx)]
			if math.Abs(got[i]-orig) > 1e-12 {
				t.Errorf("at x=%v: got %v, want original %v", cx, got[i], orig)
			}
		}
	}
}

func TestInterpolateSortsUnsortedAxis(t *testing.T) {
	tbl := tableFrom("spec1", []float64{2, 0, 1}, []float64{20, 0, 10})
	out, err := InterpolateTables([]*series.Table{tbl}, "strain", []float64{0.5, 1.5}, Linear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := out[0].Column("stress")
	want := []float64{5, 15}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("stress[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	// the input table must be left untouched
	orig, _ := tbl.Column("strain")
	if orig[0] != 2 {
		t.Error("input table was mutated by interpolation")
	}
}

func TestInterpolateLinearExtrapolation(t *testing.T) {
	tbl := tableFrom("spec1", []float64{0, 1, 2}, []float64{0, 2, 4})
	out, err := InterpolateTables([]*series.Table{tbl}, "strain", []float64{-1, 3}, Linear)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := out[0].Column("stress")
	if math.Abs(got[0]-(-2)) > 1e-6 {
		t.Errorf("extrapolated stress at -1 = %v, want -2", got[0])
	}
	if math.Abs(got[1]-6) > 1e-6 {
		t.Errorf("extrapolated stress at 3 = %v, want 6", got[1])
	}
}

func TestInterpolateUnknownMethod(t *testing.T) {
	tbl := tableFrom("spec1", []float64{0, 1}, []float64{0, 1})
	if _, err := InterpolateTables([]*series.Table{tbl}, "strain", []float64{0.5}, "quadratic"); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestAverageIdenticalAxesSkipsInterpolation(t *testing.T) {
	// Identical axes must produce the exact elementwise mean.
	x := []float64{0, 0.1, 0.2, 0.3}
	t1 := tableFrom("spec1", x, []float64{1, 2, 3, 4})
	t2 := tableFrom("spec2", x, []float64{3, 4, 5, 6})

	avg, err := AverageTables([]*series.Table{t1, t2}, []string{"stress"}, "strain", 0.1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := avg.Column("stress")
	want := []float64{2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mean[%d] = %v, want exactly %v", i, got[i], want[i])
		}
	}
	axis, _ := avg.Column("strain")
	for i := range x {
		if axis[i] != x[i] {
			t.Errorf("axis[%d] = %v, want original %v", i, axis[i], x[i])
		}
	}
}

func TestAverageDifferentAxesInterpolates(t *testing.T) {
	t1 := tableFrom("spec1", []float64{0, 1, 2}, []float64{0, 10, 20})
	t2 := tableFrom("spec2", []float64{0, 0.5, 2}, []float64{0, 5, 20})

	avg, err := AverageTables([]*series.Table{t1, t2}, []string{"stress"}, "strain", 0.5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	axis, _ := avg.Column("strain")
	if axis[0] != 0 || axis[len(axis)-1] != 2 {
		t.Errorf("axis spans [%v, %v], want [0, 2]", axis[0], axis[len(axis)-1])
	}
	got, _ := avg.Column("stress")
	// both curves are y = 10x, so the average is too
	for i := range axis {
		if math.Abs(got[i]-10*axis[i]) > 1e-9 {
			t.Errorf("mean at %v = %v, want %v", axis[i], got[i], 10*axis[i])
		}
	}
}

func TestAverageMissingColumnSkipped(t *testing.T) {
	x := []float64{0, 1}
	t1 := tableFrom("spec1", x, []float64{1, 2})
	t2 := series.New("spec2")
	t2.SetColumn("strain", x)

	avg, err := AverageTables([]*series.Table{t1, t2}, []string{"stress"}, "strain", 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := avg.Column("stress")
	// only spec1 contributes
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("mean = %v, want [1 2]", got)
	}
}
