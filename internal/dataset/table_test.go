package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "runcharts/internal/errors"
)

func mustTable(t *testing.T, header []string, records ...[]string) *Table {
	t.Helper()
	tbl, err := NewTable(header, records)
	require.NoError(t, err)
	return tbl
}

func TestNewTable(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tbl := mustTable(t, []string{"a", "b"}, []string{"1", "x"}, []string{"2", "y"})
		assert.Equal(t, 2, tbl.Len())
		assert.Equal(t, []string{"a", "b"}, tbl.Columns())
		assert.True(t, tbl.Has("a"))
		assert.False(t, tbl.Has("c"))
	})

	t.Run("duplicate header", func(t *testing.T) {
		_, err := NewTable([]string{"a", "a"}, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	})

	t.Run("ragged row", func(t *testing.T) {
		_, err := NewTable([]string{"a", "b"}, [][]string{{"1"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 1 has 1 fields, header has 2")
	})
}

func TestTable_Float64s(t *testing.T) {
	tbl := mustTable(t, []string{"v", "s"},
		[]string{"1.5", "a"},
		[]string{"", "b"},
		[]string{"NaN", "c"},
		[]string{" 4 ", "d"},
	)

	vals, err := tbl.Float64s("v")
	require.NoError(t, err)
	require.Len(t, vals, 4)
	assert.Equal(t, 1.5, vals[0])
	assert.True(t, math.IsNaN(vals[1]))
	assert.True(t, math.IsNaN(vals[2]))
	assert.Equal(t, 4.0, vals[3])

	_, err = tbl.Float64s("s")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	assert.Contains(t, err.Error(), `column "s" row 1`)

	_, err = tbl.Float64s("missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))

	strs, err := tbl.Strings("s")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, strs)
}

func TestTable_SetFloat64s(t *testing.T) {
	tbl := mustTable(t, []string{"a"}, []string{"1"}, []string{"2"})

	require.NoError(t, tbl.SetFloat64s("d", []float64{0.5, math.NaN()}))
	assert.Equal(t, []string{"a", "d"}, tbl.Columns())

	strs, err := tbl.Strings("d")
	require.NoError(t, err)
	assert.Equal(t, []string{"0.5", ""}, strs)

	require.NoError(t, tbl.SetFloat64s("a", []float64{10, 20}))
	vals, err := tbl.Float64s("a")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, vals)
	assert.Equal(t, []string{"a", "d"}, tbl.Columns())

	assert.Error(t, tbl.SetFloat64s("bad", []float64{1}))
}

func TestTable_Filter(t *testing.T) {
	tbl := mustTable(t, []string{"a"}, []string{"1"}, []string{"2"}, []string{"3"})
	require.NoError(t, tbl.SetFloat64s("d", []float64{10, 20, 30}))

	out := tbl.Filter(func(row int) bool { return row != 1 })
	assert.Equal(t, 2, out.Len())

	a, err := out.Float64s("a")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, a)

	d, err := out.Float64s("d")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 30}, d)

	assert.Equal(t, 3, tbl.Len(), "source table is unchanged")
}

func TestConcat(t *testing.T) {
	first := mustTable(t, []string{"a", "b"}, []string{"1", "x"}, []string{"2", "y"})
	second := mustTable(t, []string{"b", "c"}, []string{"z", "9"})

	out := Concat(first, second)
	assert.Equal(t, 3, out.Len())
	assert.Equal(t, []string{"a", "b", "c"}, out.Columns())

	b, err := out.Strings("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, b)

	a, err := out.Float64s("a")
	require.NoError(t, err)
	assert.Equal(t, 1.0, a[0])
	assert.Equal(t, 2.0, a[1])
	assert.True(t, math.IsNaN(a[2]))

	c, err := out.Float64s("c")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(c[0]))
	assert.Equal(t, 9.0, c[2])
}

func TestConcat_KeepsDuplicates(t *testing.T) {
	one := mustTable(t, []string{"a"}, []string{"1"})
	out := Concat(one, one, one)
	assert.Equal(t, 3, out.Len())

	vals, err := out.Float64s("a")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, vals)
}

func TestConcat_DerivedColumns(t *testing.T) {
	one := mustTable(t, []string{"a"}, []string{"1"})
	require.NoError(t, one.SetFloat64s("d", []float64{0.25}))
	two := mustTable(t, []string{"a"}, []string{"2"})

	out := Concat(one, two)
	d, err := out.Float64s("d")
	require.NoError(t, err)
	assert.Equal(t, 0.25, d[0])
	assert.True(t, math.IsNaN(d[1]))
}

func TestParseAndFormatValue(t *testing.T) {
	for _, cell := range []string{"", "nan", "NaN", "NA", "null", " "} {
		v, err := ParseValue(cell)
		require.NoError(t, err, cell)
		assert.True(t, math.IsNaN(v), cell)
	}

	v, err := ParseValue("1e3")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, v)

	_, err = ParseValue("abc")
	assert.Error(t, err)

	assert.Equal(t, "", FormatValue(math.NaN()))
	assert.Equal(t, "2", FormatValue(2))
	assert.Equal(t, "0.1", FormatValue(0.1))
}
