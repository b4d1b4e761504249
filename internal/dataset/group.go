package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GroupStat summarises the y values of all rows sharing one x value
type GroupStat struct {
	X      float64
	Mean   float64
	StdDev float64
	N      int
}

// GroupStats returns, for each distinct x in ascending order, the mean and
// sample standard deviation of y. Rows where x or y is undefined are
// skipped. A single observation has a standard deviation of 0.
func GroupStats(t *Table, x, y string) ([]GroupStat, error) {
	xs, err := t.Float64s(x)
	if err != nil {
		return nil, err
	}
	ys, err := t.Float64s(y)
	if err != nil {
		return nil, err
	}

	groups := make(map[float64][]float64)
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		groups[xs[i]] = append(groups[xs[i]], ys[i])
	}

	out := make([]GroupStat, 0, len(groups))
	for xv, vals := range groups {
		g := GroupStat{X: xv, N: len(vals)}
		if len(vals) > 1 {
			g.Mean, g.StdDev = stat.MeanStdDev(vals, nil)
		} else {
			g.Mean = vals[0]
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].X < out[j].X })
	return out, nil
}

// Group is the set of defined values sharing one key
type Group struct {
	Key    string
	Values []float64
}

// GroupValues partitions the defined values of value by key. Groups are
// ordered by key (numerically when every key is a number) and rows keep
// their table order inside a group. Keys whose rows have no defined value
// yield an empty group.
func GroupValues(t *Table, key, value string) ([]Group, error) {
	vals, err := t.Float64s(value)
	if err != nil {
		return nil, err
	}
	keys, err := buildKeyIndex(t, key)
	if err != nil {
		return nil, err
	}

	out := make([]Group, len(keys.labels))
	for i, label := range keys.labels {
		out[i].Key = label
	}
	for r, k := range keys.rowKey {
		if k < 0 || math.IsNaN(vals[r]) {
			continue
		}
		out[k].Values = append(out[k].Values, vals[r])
	}
	return out, nil
}

// FilterBetween returns the rows whose column value lies in the open
// interval (lo, hi). Undefined values are excluded.
func FilterBetween(t *Table, column string, lo, hi float64) (*Table, error) {
	vals, err := t.Float64s(column)
	if err != nil {
		return nil, err
	}
	return t.Filter(func(row int) bool {
		v := vals[row]
		return v > lo && v < hi
	}), nil
}
