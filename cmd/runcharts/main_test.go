package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "runcharts/internal/errors"
)

const runHeader = "noise,complexity,foresight,K,TauL,C_react,C_pred\n"

func writeRuns(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run_1.csv"), []byte(runHeader+"0.1,2,1,3,5,10,8\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run_2.csv"), []byte(runHeader+"0.2,2,1,1,0,4,4\n"), 0644))
}

func TestRun_WritesCharts(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeRuns(t, in)

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-dir", in, "-out", out}, &stdout)
	require.NoError(t, err)

	assert.Equal(t, "Found 2 files.\n", stdout.String())
	for _, name := range []string{
		"tau_heatmap.png",
		"deltaC_heatmap.png",
		"deltaC_vs_noise.png",
		"deltaC_vs_K_TauL.png",
		"tauL_vs_noise.png",
		"deltaC_vs_foresight_ridge.png",
	} {
		assert.FileExists(t, filepath.Join(out, name))
	}
}

func TestRun_NoRunFiles(t *testing.T) {
	var stdout bytes.Buffer
	err := run(context.Background(), []string{"-dir", t.TempDir(), "-out", t.TempDir()}, &stdout)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeDiscovery))
	assert.Empty(t, stdout.String())
}

func TestRun_ConfigFile(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeRuns(t, in)

	cfgPath := filepath.Join(t.TempDir(), "runcharts.yaml")
	yaml := "input:\n  dir: " + in + "\noutput:\n  dir: " + out + "\n  workbook: pivots.xlsx\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0644))

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-config", cfgPath}, &stdout))
	assert.FileExists(t, filepath.Join(out, "pivots.xlsx"))
}

func TestRun_InvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "runcharts.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("display:\n  mode: window\n"), 0644))

	err := run(context.Background(), []string{"-config", cfgPath}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	assert.Contains(t, err.Error(), "Display.Mode")
}

func TestRun_BadFlag(t *testing.T) {
	err := run(context.Background(), []string{"-nope"}, &bytes.Buffer{})
	assert.Error(t, err)
}
