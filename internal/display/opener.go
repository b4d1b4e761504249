package display

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"

	apperrors "runcharts/internal/errors"
)

// Opener hands each chart to the operating system's default viewer without
// waiting for it to exit
type Opener struct {
	logger *slog.Logger
	start  func(name string, args ...string) error
}

// NewOpener creates an opener that launches the platform viewer command
func NewOpener(logger *slog.Logger) *Opener {
	return &Opener{
		logger: logger,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Show launches the viewer for path
func (o *Opener) Show(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	name, args, err := viewerCommand(runtime.GOOS, abs)
	if err != nil {
		return apperrors.NewDisplayError("no image viewer", err).WithContext("file", abs)
	}
	if err := o.start(name, args...); err != nil {
		return apperrors.NewDisplayError("launch image viewer", err).WithContext("file", abs)
	}

	o.logger.DebugContext(ctx, "Opened chart",
		slog.String("file", abs),
		slog.String("viewer", name))
	return nil
}

// Close is a no-op; launched viewers outlive the run
func (o *Opener) Close(context.Context) error { return nil }

// viewerCommand returns the command that opens target on goos
func viewerCommand(goos, target string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	case "darwin":
		return "open", []string{target}, nil
	case "windows":
		return "cmd", []string{"/c", "start", "", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
