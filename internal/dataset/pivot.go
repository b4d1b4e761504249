package dataset

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PivotTable is a two-dimensional mean reduction of a table: cell (i, c)
// holds the mean of the value column over rows whose index key is RowKeys[i]
// and whose columns key is ColKeys[c]. Cells without a matching row are NaN.
type PivotTable struct {
	Values  string
	Index   string
	Columns string

	RowKeys []string
	ColKeys []string
	Cells   [][]float64
	Counts  [][]int
}

// Pivot builds the mean pivot table of values indexed by index and columns.
// Undefined values are excluded from each mean; no fill is applied.
func Pivot(t *Table, values, index, columns string) (*PivotTable, error) {
	vals, err := t.Float64s(values)
	if err != nil {
		return nil, err
	}
	rows, err := buildKeyIndex(t, index)
	if err != nil {
		return nil, err
	}
	cols, err := buildKeyIndex(t, columns)
	if err != nil {
		return nil, err
	}

	nr, nc := len(rows.labels), len(cols.labels)
	buckets := make([][][]float64, nr)
	for i := range buckets {
		buckets[i] = make([][]float64, nc)
	}

	for r := 0; r < t.Len(); r++ {
		i, c := rows.rowKey[r], cols.rowKey[r]
		if i < 0 || c < 0 {
			continue
		}
		if v := vals[r]; !math.IsNaN(v) {
			buckets[i][c] = append(buckets[i][c], v)
		}
	}

	p := &PivotTable{
		Values:  values,
		Index:   index,
		Columns: columns,
		RowKeys: rows.labels,
		ColKeys: cols.labels,
		Cells:   make([][]float64, nr),
		Counts:  make([][]int, nr),
	}
	for i := 0; i < nr; i++ {
		p.Cells[i] = make([]float64, nc)
		p.Counts[i] = make([]int, nc)
		for c := 0; c < nc; c++ {
			b := buckets[i][c]
			p.Counts[i][c] = len(b)
			if len(b) == 0 {
				p.Cells[i][c] = math.NaN()
				continue
			}
			p.Cells[i][c] = stat.Mean(b, nil)
		}
	}
	return p, nil
}

// Dims returns the number of rows and columns
func (p *PivotTable) Dims() (rows, cols int) {
	return len(p.RowKeys), len(p.ColKeys)
}

// At returns the cell for the given keys. ok is false when either key is
// absent from the table.
func (p *PivotTable) At(rowKey, colKey string) (v float64, ok bool) {
	i := indexOf(p.RowKeys, rowKey)
	c := indexOf(p.ColKeys, colKey)
	if i < 0 || c < 0 {
		return math.NaN(), false
	}
	return p.Cells[i][c], true
}

// Range returns the minimum and maximum defined cell values. ok is false
// when every cell is undefined.
func (p *PivotTable) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range p.Cells {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			ok = true
		}
	}
	return lo, hi, ok
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}
