package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved input and output locations for a run.
// Relative directories resolve against the process working directory.
type Paths struct {
	InputDir  string
	OutputDir string
}

// GetPaths resolves the configured directories to absolute paths
func (c *Config) GetPaths() (*Paths, error) {
	in, err := filepath.Abs(c.Input.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input dir %s: %w", c.Input.Dir, err)
	}
	out, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir %s: %w", c.Output.Dir, err)
	}
	return &Paths{InputDir: in, OutputDir: out}, nil
}

// EnsureDirectories creates the output directory if needed
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", p.OutputDir, err)
	}
	return nil
}

// GetOutputPath returns the full path for an artifact written by the run.
// Absolute names are returned unchanged.
func (p *Paths) GetOutputPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.OutputDir, filename)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved paths",
		slog.String("input_dir", p.InputDir),
		slog.String("output_dir", p.OutputDir))
}
