package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"runcharts/internal/config"
	"runcharts/internal/display"
	apperrors "runcharts/internal/errors"
	"runcharts/internal/infrastructure"
	"runcharts/internal/pipeline"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		slog.Error("runcharts failed", "error", err)
		os.Exit(1)
	}
}

// run parses flags, wires the application and executes one pipeline run
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("runcharts", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file (defaults to runcharts.yaml or configs/runcharts.yaml when present)")
	dir := fs.String("dir", "", "directory scanned for run files (overrides input.dir)")
	out := fs.String("out", "", "directory charts are written to (overrides output.dir)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return apperrors.NewConfigError("load configuration", err)
	}
	if *dir != "" {
		cfg.Input.Dir = *dir
	}
	if *out != "" {
		cfg.Output.Dir = *out
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil || logger == nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	displayer, err := display.New(cfg.Display, logger, telemetry.Registry)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.WithRunID(ctx, infrastructure.NewRunID())

	logger.InfoContext(ctx, "Starting chart run",
		slog.String("run_id", infrastructure.GetRunID(ctx)),
		slog.String("input_dir", cfg.Input.Dir),
		slog.String("pattern", cfg.Input.Pattern),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("display", cfg.Display.Mode))

	p := pipeline.New(cfg, logger, telemetry, displayer)
	p.SetStdout(stdout)
	_, err = p.Run(ctx)
	return err
}
