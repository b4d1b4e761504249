package display

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"runcharts/internal/config"
)

// Display modes
const (
	ModeNone  = "none"
	ModeOpen  = "open"
	ModeServe = "serve"
)

// Displayer presents charts once they are written. Show is called once per
// chart in render order; Close is called after the last chart and may block
// until ctx is cancelled.
type Displayer interface {
	Show(ctx context.Context, path string) error
	Close(ctx context.Context) error
}

// New returns the displayer for the configured mode. gatherer, when not nil,
// is exposed by the gallery on /metrics.
func New(cfg config.DisplayConfig, logger *slog.Logger, gatherer prometheus.Gatherer) (Displayer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Mode {
	case "", ModeNone:
		return Noop{}, nil
	case ModeOpen:
		return NewOpener(logger), nil
	case ModeServe:
		return NewGallery(cfg.Addr, logger, gatherer), nil
	default:
		return nil, fmt.Errorf("unknown display mode %q", cfg.Mode)
	}
}

// Noop discards every chart. It is the non-interactive default.
type Noop struct{}

func (Noop) Show(context.Context, string) error { return nil }
func (Noop) Close(context.Context) error { return nil }
