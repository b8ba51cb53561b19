// Package validate provides the precondition checks shared by the
// calculation packages. Every check is stateless and returns an error
// naming the offending variable and the calling context so that contract
// violations surface immediately instead of propagating NaNs downstream.
package validate

import (
	"fmt"
	"math"
	"strings"
)

// PositiveNumber fails when value is not a positive, finite number.
func PositiveNumber(value float64, name, context string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Errorf("%s: %s must be a positive number, got %v", context, name, value)
	}
	return nil
}

// NonEmptySeries fails when the series has no samples.
func NonEmptySeries(values []float64, name, context string) error {
	if len(values) == 0 {
		return fmt.Errorf("%s: %s must not be empty", context, name)
	}
	return nil
}

// SameLength fails when the two series differ in length. The series
// belonging to one specimen share a common index, so a mismatch here
// means the caller paired series from different sources.
func SameLength(a, b []float64, nameA, nameB, context string) error {
	if len(a) != len(b) {
		return fmt.Errorf("%s: %s (len %d) and %s (len %d) must have the same length",
			context, nameA, len(a), nameB, len(b))
	}
	return nil
}

// MissingColumns describes every table lacking any of a set of required
// columns.
type MissingColumns struct {
	Table   string
	Columns []string
}

// ColumnProvider is the minimal table surface the column check needs.
type ColumnProvider interface {
	Name() string
	Has(column string) bool
}

// ColumnsExist fails listing every table that is missing any required
// column. All tables are inspected before reporting so one error message
// covers the whole batch.
func ColumnsExist[T ColumnProvider](tables []T, required []string, context string) error {
	var missing []MissingColumns
	for i, t := range tables {
		var cols []string
		for _, c := range required {
			if !t.Has(c) {
				cols = append(cols, c)
			}
		}
		if len(cols) > 0 {
			name := t.Name()
			if name == "" {
				name = fmt.Sprintf("table at index %d", i)
			}
			missing = append(missing, MissingColumns{Table: name, Columns: cols})
		}
	}
	if len(missing) == 0 {
		return nil
	}
	lines := make([]string, len(missing))
	for i, m := range missing {
		lines[i] = fmt.Sprintf("%s is missing columns: %s", m.Table, strings.Join(m.Columns, ", "))
	}
	return fmt.Errorf("%s: the following tables are missing columns:\n%s", context, strings.Join(lines, "\n"))
}
