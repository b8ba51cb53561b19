// Package series holds ordered, named float64 columns of equal length.
// It is the lightweight tabular type the interpolation and averaging
// operations work on.
package series

import (
	"fmt"
	"sort"
)

// Table is a set of equal-length named columns with a stable column
// order. The zero value is an empty, unnamed table.
type Table struct {
	name    string
	order   []string
	columns map[string][]float64
}

// New creates an empty table with the given name.
func New(name string) *Table {
	return &Table{name: name, columns: make(map[string][]float64)}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// SetName sets the table name.
func (t *Table) SetName(name string) { t.name = name }

// Len returns the row count. All columns share it.
func (t *Table) Len() int {
	if len(t.order) == 0 {
		return 0
	}
	return len(t.columns[t.order[0]])
}

// Columns returns the column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Has reports whether the named column exists.
func (t *Table) Has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// Column returns the named column's values. The slice is shared with
// the table; callers that modify it must copy first.
func (t *Table) Column(column string) ([]float64, error) {
	vals, ok := t.columns[column]
	if !ok {
		return nil, fmt.Errorf("table %q has no column %q", t.name, column)
	}
	return vals, nil
}

// SetColumn adds or replaces a column. The values are copied. A new
// column must match the existing row count unless the table is empty.
func (t *Table) SetColumn(column string, values []float64) error {
	if t.columns == nil {
		t.columns = make(map[string][]float64)
	}
	if _, exists := t.columns[column]; !exists {
		if len(t.order) > 0 && len(values) != t.Len() {
			return fmt.Errorf("table %q: column %q has %d rows, table has %d",
				t.name, column, len(values), t.Len())
		}
		t.order = append(t.order, column)
	} else if len(values) != t.Len() {
		return fmt.Errorf("table %q: column %q has %d rows, table has %d",
			t.name, column, len(values), t.Len())
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	t.columns[column] = cp
	return nil
}

// SortBy reorders all rows so the named column is ascending. The sort
// is stable.
func (t *Table) SortBy(column string) error {
	key, ok := t.columns[column]
	if !ok {
		return fmt.Errorf("table %q has no column %q", t.name, column)
	}
	idx := make([]int, len(key))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return key[idx[a]] < key[idx[b]] })
	for _, name := range t.order {
		old := t.columns[name]
		reordered := make([]float64, len(old))
		for i, j := range idx {
			reordered[i] = old[j]
		}
		t.columns[name] = reordered
	}
	return nil
}

// IsSortedBy reports whether the named column is nondecreasing.
func (t *Table) IsSortedBy(column string) (bool, error) {
	vals, ok := t.columns[column]
	if !ok {
		return false, fmt.Errorf("table %q has no column %q", t.name, column)
	}
	return sort.Float64sAreSorted(vals), nil
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	out := New(t.name)
	for _, name := range t.order {
		out.SetColumn(name, t.columns[name])
	}
	return out
}
