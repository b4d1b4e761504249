package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults reproduce fixed constants",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ".", cfg.Input.Dir)
				assert.Equal(t, "run_*.csv", cfg.Input.Pattern)
				assert.False(t, cfg.Input.StrictSchema)
				assert.Equal(t, ".", cfg.Output.Dir)
				assert.Empty(t, cfg.Output.Workbook)

				assert.Equal(t, "tau_heatmap.png", cfg.Charts.TauHeatmap)
				assert.Equal(t, "deltaC_heatmap.png", cfg.Charts.DeltaCHeatmap)
				assert.Equal(t, "deltaC_vs_noise.png", cfg.Charts.DeltaCVsNoise)
				assert.Equal(t, "deltaC_vs_K_TauL.png", cfg.Charts.DeltaCVsK)
				assert.Equal(t, "tauL_vs_noise.png", cfg.Charts.TauLVsNoise)
				assert.Equal(t, "deltaC_vs_foresight_ridge.png", cfg.Charts.DeltaCVsForesight)
				assert.Equal(t, "viridis", cfg.Charts.TauColormap)
				assert.Equal(t, "magma", cfg.Charts.DeltaCColormap)
				assert.Equal(t, "plasma", cfg.Charts.ScatterColormap)
				assert.Equal(t, 3.0, cfg.Charts.ZoneMin)
				assert.Equal(t, 15.0, cfg.Charts.ZoneMax)

				assert.Equal(t, "none", cfg.Display.Mode)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"RUNCHARTS_INPUT_DIR":           "/data/runs",
				"RUNCHARTS_INPUT_STRICT_SCHEMA": "true",
				"RUNCHARTS_DISPLAY_MODE":        "serve",
				"RUNCHARTS_CHARTS_ZONE_MAX":     "20",
				"RUNCHARTS_LOGGING_LEVEL":       "DEBUG",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/runs", cfg.Input.Dir)
				assert.True(t, cfg.Input.StrictSchema)
				assert.Equal(t, "serve", cfg.Display.Mode)
				assert.Equal(t, 20.0, cfg.Charts.ZoneMax)
				assert.Equal(t, "debug", cfg.Logging.Level)
				// untouched fields keep defaults
				assert.Equal(t, "run_*.csv", cfg.Input.Pattern)
			},
		},
		{
			name: "file overlays defaults",
			fileContent: `
input:
  pattern: "exp_*.csv"
output:
  workbook: pivots.xlsx
charts:
  tau_colormap: plasma
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "exp_*.csv", cfg.Input.Pattern)
				assert.Equal(t, "pivots.xlsx", cfg.Output.Workbook)
				assert.Equal(t, "plasma", cfg.Charts.TauColormap)
				assert.Equal(t, "magma", cfg.Charts.DeltaCColormap)
				assert.Equal(t, ".", cfg.Input.Dir)
			},
		},
		{
			name:        "environment wins over file",
			env:         map[string]string{"RUNCHARTS_INPUT_PATTERN": "env_*.csv"},
			fileContent: "input:\n  pattern: file_*.csv\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "env_*.csv", cfg.Input.Pattern)
			},
		},
		{
			name:    "unknown colormap rejected",
			env:     map[string]string{"RUNCHARTS_CHARTS_DELTAC_COLORMAP": "jet"},
			wantErr: "DeltaCColormap must be one of",
		},
		{
			name:    "inverted zone rejected",
			env:     map[string]string{"RUNCHARTS_CHARTS_ZONE_MIN": "20"},
			wantErr: "ZoneMax must be greater than ZoneMin",
		},
		{
			name:    "file logging requires a path",
			env:     map[string]string{"RUNCHARTS_LOGGING_OUTPUT": "file"},
			wantErr: "FilePath is required",
		},
		{
			name:    "unknown display mode rejected",
			env:     map[string]string{"RUNCHARTS_DISPLAY_MODE": "popup"},
			wantErr: "Mode must be one of",
		},
		{
			name:        "malformed file",
			fileContent: "input: [not, a, map",
			wantErr:     "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.fileContent != "" {
				path = filepath.Join(t.TempDir(), "runcharts.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.fileContent), 0644))
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Input.Dir = dir
	cfg.Output.Dir = filepath.Join(dir, "charts")

	paths, err := cfg.GetPaths()
	require.NoError(t, err)
	assert.Equal(t, dir, paths.InputDir)

	require.NoError(t, paths.EnsureDirectories())
	info, err := os.Stat(paths.OutputDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.Equal(t, filepath.Join(dir, "charts", "tau_heatmap.png"), paths.GetOutputPath("tau_heatmap.png"))
	abs := filepath.Join(dir, "elsewhere.png")
	assert.Equal(t, abs, paths.GetOutputPath(abs))
}
