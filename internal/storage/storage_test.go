package storage

import (
	"path/filepath"
	"testing"

	"github.com/Jahmar-James/cymat-stress-strain-analyzer-sub000/internal/specimen"
)

func testSpecimen(t *testing.T) *specimen.Entity {
	t.Helper()
	var force, disp, tm []float64
	for i := 0; i < 100; i++ {
		var f float64
		switch {
		case i < 10:
			f = 5
		case i < 50:
			f = 100 + 22.5*float64(i-10)
		default:
			f = (100 + 22.5*39) * (1 - 0.002*float64(i-49))
		}
		force = append(force, f)
		disp = append(disp, 0.01*float64(i))
		tm = append(tm, float64(i))
	}
	geom := specimen.Geometry{Length: 10, Width: 10, Thickness: 10, Mass: 2}
	e, err := specimen.New("A1", specimen.KindSpecimen, geom, force, disp, tm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	e := testSpecimen(t)
	if err := store.Save(e); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	records, err := store.Specimens()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.ID != e.ID.String() || r.Name != "A1" || r.Kind != "specimen" {
		t.Errorf("record = %+v, mismatched identity", r)
	}
	if r.Geometry != e.Geometry() {
		t.Errorf("stored geometry %+v, want %+v", r.Geometry, e.Geometry())
	}

	props, err := store.Properties(r.ID)
	if err != nil {
		t.Fatalf("properties failed: %v", err)
	}
	byName := map[string]Property{}
	for _, p := range props {
		byName[p.Name] = p
	}
	if d, ok := byName["density"]; !ok || d.Value != 2 || d.Unit != "g/cc" {
		t.Errorf("density property = %+v (ok=%v), want 2 g/cc", d, ok)
	}
	if _, ok := byName["youngs_modulus"]; !ok {
		t.Error("modulus property missing")
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	e := testSpecimen(t)
	if err := store.Save(e); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Save(e); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	records, err := store.Specimens()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records after resave, want 1", len(records))
	}
}
