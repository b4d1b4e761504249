package dataset

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "runcharts/internal/errors"
)

const runHeader = "noise,complexity,foresight,K,TauL,C_react,C_pred\n"

func writeRunFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		rows    int
		cols    []string
		wantErr string
	}{
		{
			name:  "header and rows",
			input: "a,b\n1,2\n3,4\n",
			rows:  2,
			cols:  []string{"a", "b"},
		},
		{
			name:  "header only",
			input: "a,b\n",
			rows:  0,
			cols:  []string{"a", "b"},
		},
		{
			name:  "byte order mark",
			input: "\ufeffa,b\n1,2\n",
			rows:  1,
			cols:  []string{"a", "b"},
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: "missing header row",
		},
		{
			name:    "ragged row",
			input:   "a,b\n1\n",
			wantErr: "read records",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := ReadCSV(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rows, tbl.Len())
			assert.Equal(t, tt.cols, tbl.Columns())
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "run_missing.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	assert.Contains(t, err.Error(), "run_missing.csv")
}

func TestLoadFiles_RowCountIsSumOfFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeRunFile(t, dir, "run_1.csv", runHeader+"0.1,2,1,3,5,10,8\n0.2,2,1,3,6,10,9\n"),
		writeRunFile(t, dir, "run_2.csv", runHeader+"0.3,4,2,1,7,5,5\n"),
		writeRunFile(t, dir, "run_3.csv", runHeader),
	}

	tbl, err := LoadFiles(context.Background(), paths, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())

	noise, err := tbl.Float64s(ColNoise)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, noise, "file order then row order")
}

func TestLoadFiles_AbortsOnBadFile(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeRunFile(t, dir, "run_1.csv", runHeader+"0.1,2,1,3,5,10,8\n"),
		writeRunFile(t, dir, "run_2.csv", ""),
	}

	_, err := LoadFiles(context.Background(), paths, LoadOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
	assert.Contains(t, err.Error(), "run_2.csv")
}

func TestLoadFiles_StrictSchema(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeRunFile(t, dir, "run_1.csv", "noise,complexity,foresight,K,TauL,C_react\n0.1,2,1,3,5,10\n"),
	}

	tbl, err := LoadFiles(context.Background(), paths, LoadOptions{})
	require.NoError(t, err, "lenient load accepts missing columns")
	assert.False(t, tbl.Has(ColCPred))

	_, err = LoadFiles(context.Background(), paths, LoadOptions{StrictSchema: true})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
	assert.Contains(t, err.Error(), "missing=C_pred")
	assert.Contains(t, err.Error(), "run_1.csv")
}

func TestLoadFiles_Cancelled(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeRunFile(t, dir, "run_1.csv", runHeader)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadFiles(ctx, paths, LoadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFiles_HeterogeneousColumns(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeRunFile(t, dir, "run_1.csv", "noise,TauL\n0.1,5\n"),
		writeRunFile(t, dir, "run_2.csv", "noise,K\n0.2,3\n"),
	}

	tbl, err := LoadFiles(context.Background(), paths, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"noise", "TauL", "K"}, tbl.Columns())

	tau, err := tbl.Float64s(ColTauL)
	require.NoError(t, err)
	assert.Equal(t, 5.0, tau[0])
	assert.True(t, math.IsNaN(tau[1]))
}
