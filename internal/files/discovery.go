package files

import (
	"fmt"
	"os"
	"path/filepath"

	apperrors "runcharts/internal/errors"
)

// RunFile is one discovered run result file
type RunFile struct {
	Path string
	Name string
	Size int64
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindFilesByPattern finds regular files in dir matching a glob pattern.
// Matches are returned in lexical order, which is the order filepath.Glob
// produces.
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]RunFile, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}
	searchPattern := filepath.Join(fullPath, pattern)

	matches, err := filepath.Glob(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []RunFile
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}
		files = append(files, RunFile{
			Path: match,
			Name: filepath.Base(match),
			Size: info.Size(),
		})
	}

	return files, nil
}

// FindRunFiles returns the run result files matching pattern in dir. Finding
// none is a discovery error: there is nothing to chart.
func (d *Discovery) FindRunFiles(dir, pattern string) ([]RunFile, error) {
	found, err := d.FindFilesByPattern(dir, pattern)
	if err != nil {
		return nil, apperrors.NewDiscoveryError("scan for run files", err).
			WithContext("pattern", pattern)
	}
	if len(found) == 0 {
		return nil, apperrors.NewDiscoveryError(
			fmt.Sprintf("No files matched '%s'. Are you in the right directory?", pattern), nil).
			WithContext("dir", dir)
	}
	return found, nil
}

// Paths returns the Path of every file in order
func Paths(files []RunFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
