package series

import (
	"testing"
)

func TestSetColumnLengthCheck(t *testing.T) {
	tbl := New("spec1")
	if err := tbl.SetColumn("strain", []float64{0, 1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tbl.SetColumn("stress", []float64{0, 1}); err == nil {
		t.Error("expected error for row-count mismatch")
	}
	if err := tbl.SetColumn("stress", []float64{5, 6, 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tbl.Len())
	}
	want := []string{"strain", "stress"}
	got := tbl.Columns()
	if len(got) != len(want) {
		t.Fatalf("Columns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Columns()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSetColumnCopiesInput(t *testing.T) {
	src := []float64{1, 2, 3}
	tbl := New("t")
	tbl.SetColumn("x", src)
	src[0] = 99
	col, _ := tbl.Column("x")
	if col[0] != 1 {
		t.Errorf("table column aliased caller slice: got %v", col[0])
	}
}

func TestSortBy(t *testing.T) {
	tbl := New("t")
	tbl.SetColumn("x", []float64{3, 1, 2})
	tbl.SetColumn("y", []float64{30, 10, 20})
	if err := tbl.SortBy("x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x, _ := tbl.Column("x")
	y, _ := tbl.Column("y")
	wantX := []float64{1, 2, 3}
	wantY := []float64{10, 20, 30}
	for i := range wantX {
		if x[i] != wantX[i] || y[i] != wantY[i] {
			t.Errorf("row %d = (%v, %v), want (%v, %v)", i, x[i], y[i], wantX[i], wantY[i])
		}
	}
	sorted, err := tbl.IsSortedBy("x")
	if err != nil || !sorted {
		t.Errorf("IsSortedBy = %v, %v; want true, nil", sorted, err)
	}
}

func TestCloneIndependence(t *testing.T) {
	tbl := New("orig")
	tbl.SetColumn("x", []float64{1, 2})
	cl := tbl.Clone()
	colOrig, _ := tbl.Column("x")
	colClone, _ := cl.Column("x")
	colClone[0] = 42
	if colOrig[0] != 1 {
		t.Errorf("clone shares storage with original")
	}
}

func TestColumnMissing(t *testing.T) {
	tbl := New("t")
	if _, err := tbl.Column("nope"); err == nil {
		t.Error("expected error for missing column")
	}
	if err := tbl.SortBy("nope"); err == nil {
		t.Error("expected error sorting by missing column")
	}
}
