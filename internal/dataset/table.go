package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "runcharts/internal/errors"
)

// Table is a column-oriented, in-memory run record table. Cells read from
// files are kept as raw strings and parsed to float64 on first numeric
// access; derived columns are stored numerically only.
type Table struct {
	columns []string
	index   map[string]int
	raw     [][]string           // raw[col][row]; nil for derived columns
	numeric map[string][]float64 // parsed or derived values
	rows    int
}

// NewTable creates a table from a header and row-major records. Every
// record must have exactly len(header) fields.
func NewTable(header []string, records [][]string) (*Table, error) {
	t := &Table{
		index:   make(map[string]int, len(header)),
		numeric: make(map[string][]float64),
	}
	for _, name := range header {
		if _, dup := t.index[name]; dup {
			return nil, apperrors.NewParsingError(fmt.Sprintf("duplicate column %q in header", name), nil)
		}
		t.index[name] = len(t.columns)
		t.columns = append(t.columns, name)
		t.raw = append(t.raw, make([]string, 0, len(records)))
	}
	for i, rec := range records {
		if len(rec) != len(header) {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("row %d has %d fields, header has %d", i+1, len(rec), len(header)), nil)
		}
		for c, cell := range rec {
			t.raw[c] = append(t.raw[c], cell)
		}
	}
	t.rows = len(records)
	return t, nil
}

// Len returns the number of rows
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in order
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Has reports whether the table has the named column
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Strings returns the raw cell values of a column. Derived columns are
// formatted from their numeric values.
func (t *Table) Strings(name string) ([]string, error) {
	c, ok := t.index[name]
	if !ok {
		return nil, apperrors.NewMissingColumnError(name)
	}
	if t.raw[c] != nil {
		out := make([]string, t.rows)
		copy(out, t.raw[c])
		return out, nil
	}
	vals := t.numeric[name]
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = FormatValue(v)
	}
	return out, nil
}

// Float64s returns the numeric values of a column. The returned slice is
// shared with the table and must not be modified; use SetFloat64s to
// replace a column.
func (t *Table) Float64s(name string) ([]float64, error) {
	c, ok := t.index[name]
	if !ok {
		return nil, apperrors.NewMissingColumnError(name)
	}
	if vals, ok := t.numeric[name]; ok {
		return vals, nil
	}
	vals := make([]float64, t.rows)
	for i, cell := range t.raw[c] {
		v, err := ParseValue(cell)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("column %q row %d", name, i+1), err)
		}
		vals[i] = v
	}
	t.numeric[name] = vals
	return vals, nil
}

// SetFloat64s adds or replaces a numeric column
func (t *Table) SetFloat64s(name string, values []float64) error {
	if len(values) != t.rows {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.rows)
	}
	c, ok := t.index[name]
	if !ok {
		c = len(t.columns)
		t.index[name] = c
		t.columns = append(t.columns, name)
		t.raw = append(t.raw, nil)
	}
	t.raw[c] = nil
	t.numeric[name] = values
	return nil
}

// Filter returns a new table with the rows for which keep returns true,
// in their original order.
func (t *Table) Filter(keep func(row int) bool) *Table {
	var idx []int
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return t.take(idx)
}

func (t *Table) take(idx []int) *Table {
	out := &Table{
		columns: t.Columns(),
		index:   make(map[string]int, len(t.columns)),
		raw:     make([][]string, len(t.columns)),
		numeric: make(map[string][]float64, len(t.numeric)),
		rows:    len(idx),
	}
	for c, name := range t.columns {
		out.index[name] = c
		if t.raw[c] != nil {
			col := make([]string, len(idx))
			for i, r := range idx {
				col[i] = t.raw[c][r]
			}
			out.raw[c] = col
		}
	}
	for name, vals := range t.numeric {
		col := make([]float64, len(idx))
		for i, r := range idx {
			col[i] = vals[r]
		}
		out.numeric[name] = col
	}
	return out
}

// Concat stacks tables vertically. Row order is preserved within and
// across tables and rows are re-indexed sequentially. The result has the
// union of all columns in first-seen order; cells of a column a table lacks
// are empty, which reads as undefined.
func Concat(tables ...*Table) *Table {
	out := &Table{
		index:   make(map[string]int),
		numeric: make(map[string][]float64),
	}
	for _, t := range tables {
		for _, name := range t.columns {
			if _, ok := out.index[name]; !ok {
				out.index[name] = len(out.columns)
				out.columns = append(out.columns, name)
			}
		}
		out.rows += t.rows
	}

	numericOnly := make(map[string]bool)
	for _, name := range out.columns {
		numericOnly[name] = true
		for _, t := range tables {
			if c, ok := t.index[name]; ok && t.raw[c] != nil {
				numericOnly[name] = false
			}
		}
	}

	out.raw = make([][]string, len(out.columns))
	for c, name := range out.columns {
		if numericOnly[name] {
			vals := make([]float64, 0, out.rows)
			for _, t := range tables {
				if src, ok := t.numeric[name]; ok {
					vals = append(vals, src...)
					continue
				}
				for i := 0; i < t.rows; i++ {
					vals = append(vals, math.NaN())
				}
			}
			out.numeric[name] = vals
			continue
		}
		col := make([]string, 0, out.rows)
		for _, t := range tables {
			src, ok := t.index[name]
			switch {
			case !ok:
				col = append(col, make([]string, t.rows)...)
			case t.raw[src] != nil:
				col = append(col, t.raw[src]...)
			default:
				for _, v := range t.numeric[name] {
					col = append(col, FormatValue(v))
				}
			}
		}
		out.raw[c] = col
	}
	return out
}

// ParseValue converts one cell to float64. Empty cells and the usual
// missing-value spellings are undefined (NaN).
func ParseValue(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "null":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// FormatValue renders a number the shortest way that round-trips; NaN is
// rendered as an empty string.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
