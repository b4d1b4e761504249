package dataset

import (
	"math"
	"sort"
	"strings"
)

// keyIndex maps each row of a table to the distinct value of a grouping
// column. Keys that all parse as numbers are canonicalised and sorted
// numerically; otherwise the trimmed raw strings are sorted lexically.
// Rows with an undefined key map to -1 and take part in no group.
type keyIndex struct {
	labels []string
	values []float64
	rowKey []int
}

func buildKeyIndex(t *Table, name string) (*keyIndex, error) {
	raw, err := t.Strings(name)
	if err != nil {
		return nil, err
	}

	parsed := make([]float64, len(raw))
	numeric := true
	for i, cell := range raw {
		v, perr := ParseValue(cell)
		if perr != nil {
			numeric = false
			break
		}
		parsed[i] = v
	}

	canon := make([]string, len(raw))
	for i, cell := range raw {
		if numeric {
			canon[i] = FormatValue(parsed[i])
		} else {
			canon[i] = strings.TrimSpace(cell)
		}
	}

	seen := make(map[string]float64)
	for i, label := range canon {
		if label == "" {
			continue
		}
		if _, ok := seen[label]; !ok {
			if numeric {
				seen[label] = parsed[i]
			} else {
				seen[label] = math.NaN()
			}
		}
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	if numeric {
		sort.Slice(labels, func(i, j int) bool { return seen[labels[i]] < seen[labels[j]] })
	} else {
		sort.Strings(labels)
	}

	pos := make(map[string]int, len(labels))
	values := make([]float64, len(labels))
	for i, label := range labels {
		pos[label] = i
		values[i] = seen[label]
	}

	rowKey := make([]int, len(canon))
	for i, label := range canon {
		if p, ok := pos[label]; ok {
			rowKey[i] = p
		} else {
			rowKey[i] = -1
		}
	}

	return &keyIndex{labels: labels, values: values, rowKey: rowKey}, nil
}
