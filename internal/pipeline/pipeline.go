package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"runcharts/internal/charts"
	"runcharts/internal/config"
	"runcharts/internal/dataset"
	"runcharts/internal/display"
	apperrors "runcharts/internal/errors"
	"runcharts/internal/exporter"
	"runcharts/internal/files"
	"runcharts/internal/infrastructure"
)

// Stage names, in execution order
const (
	StageCollect   = "collect"
	StageAssemble  = "assemble"
	StageDerive    = "derive"
	StageAggregate = "aggregate"
	StageRender    = "render"
	StageExport    = "export"
	StageDisplay   = "display"
)

// Workbook sheet names
const (
	SheetTauL   = "TauL"
	SheetDeltaC = "deltaC"
)

// Result describes a completed run
type Result struct {
	RunID       string
	Files       []string
	Rows        int
	TauPivot    *dataset.PivotTable
	DeltaCPivot *dataset.PivotTable
	ZoneRows    int
	Charts      []string
	Workbook    string
	Duration    time.Duration
}

// Pipeline runs discovery, assembly, derivation, aggregation, rendering,
// export and display strictly in sequence. Any stage error aborts the run.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	tracer    *stageTracer
	displayer display.Displayer
	stdout    io.Writer
}

// New creates a pipeline. telemetry and displayer may be nil.
func New(cfg *config.Config, logger *slog.Logger, telemetry *infrastructure.TelemetryProviders, displayer display.Displayer) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if displayer == nil {
		displayer = display.Noop{}
	}
	return &Pipeline{
		cfg:       cfg,
		logger:    logger,
		tracer:    newStageTracer(telemetry),
		displayer: displayer,
		stdout:    os.Stdout,
	}
}

// SetStdout redirects the operator console line ("Found N files.")
func (p *Pipeline) SetStdout(w io.Writer) {
	p.stdout = w
}

// runState carries stage outputs to later stages
type runState struct {
	paths *config.Paths
	table *dataset.Table
	zone  *dataset.Table
}

// Run executes every stage once
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := p.logger

	paths, err := p.cfg.GetPaths()
	if err != nil {
		return nil, apperrors.NewConfigError("resolve paths", err)
	}
	paths.LogPathResolution(logger)

	res := &Result{RunID: infrastructure.GetRunID(ctx)}
	st := &runState{paths: paths}

	stages := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{StageCollect, func(ctx context.Context) error { return p.collect(ctx, st, res) }},
		{StageAssemble, func(ctx context.Context) error { return p.assemble(ctx, st, res, logger) }},
		{StageDerive, func(ctx context.Context) error { return dataset.Derive(st.table) }},
		{StageAggregate, func(ctx context.Context) error { return p.aggregate(st, res) }},
		{StageRender, func(ctx context.Context) error { return p.render(ctx, st, res, logger) }},
		{StageExport, func(ctx context.Context) error { return p.export(st, res) }},
		{StageDisplay, func(ctx context.Context) error { return p.displayer.Close(ctx) }},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		stageStart := time.Now()
		if err := p.tracer.run(ctx, stage.name, stage.fn); err != nil {
			logger.ErrorContext(ctx, "Stage failed",
				slog.String("stage", stage.name),
				slog.String("error_type", string(apperrors.TypeOf(err))),
				slog.String("error", err.Error()))
			return res, err
		}
		logger.DebugContext(ctx, "Stage completed",
			slog.String("stage", stage.name),
			slog.Duration("duration", time.Since(stageStart)))
	}

	res.Duration = time.Since(start)
	logger.InfoContext(ctx, "Run completed",
		slog.Int("files", len(res.Files)),
		slog.Int("rows", res.Rows),
		slog.Int("charts", len(res.Charts)),
		slog.Duration("duration", res.Duration))
	return res, nil
}

func (p *Pipeline) collect(ctx context.Context, st *runState, res *Result) error {
	discovery := files.NewDiscovery(st.paths.InputDir)
	found, err := discovery.FindRunFiles(st.paths.InputDir, p.cfg.Input.Pattern)
	if err != nil {
		return err
	}
	res.Files = files.Paths(found)
	p.tracer.filesDiscovered(ctx, len(res.Files))

	fmt.Fprintf(p.stdout, "Found %d files.\n", len(res.Files))
	return nil
}

func (p *Pipeline) assemble(ctx context.Context, st *runState, res *Result, logger *slog.Logger) error {
	table, err := dataset.LoadFiles(ctx, res.Files, dataset.LoadOptions{
		StrictSchema: p.cfg.Input.StrictSchema,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	st.table = table
	res.Rows = table.Len()
	p.tracer.rowsLoaded(ctx, res.Rows)

	logger.InfoContext(ctx, "Run files assembled",
		slog.Int("files", len(res.Files)),
		slog.Int("rows", res.Rows),
		slog.Int("columns", len(table.Columns())))
	return nil
}

func (p *Pipeline) aggregate(st *runState, res *Result) error {
	tau, err := dataset.Pivot(st.table, dataset.ColTauL, dataset.ColForesight, dataset.ColComplexity)
	if err != nil {
		return err
	}
	delta, err := dataset.Pivot(st.table, dataset.ColDeltaC, dataset.ColForesight, dataset.ColComplexity)
	if err != nil {
		return err
	}
	zone, err := dataset.FilterBetween(st.table, dataset.ColTauL, p.cfg.Charts.ZoneMin, p.cfg.Charts.ZoneMax)
	if err != nil {
		return err
	}

	res.TauPivot = tau
	res.DeltaCPivot = delta
	res.ZoneRows = zone.Len()
	st.zone = zone
	return nil
}

func (p *Pipeline) render(ctx context.Context, st *runState, res *Result, logger *slog.Logger) error {
	if err := st.paths.EnsureDirectories(); err != nil {
		return apperrors.NewStorageError("prepare output directory", err)
	}

	r, err := charts.NewRenderer(p.cfg.Charts, st.paths.OutputDir, p.displayer, logger)
	if err != nil {
		return err
	}

	steps := []struct {
		chart string
		draw  func() (string, error)
	}{
		{"tau_heatmap", func() (string, error) { return r.TauHeatmap(ctx, res.TauPivot) }},
		{"deltaC_heatmap", func() (string, error) { return r.DeltaCHeatmap(ctx, res.DeltaCPivot) }},
		{"deltaC_vs_noise", func() (string, error) { return r.DeltaCVsNoise(ctx, st.table) }},
		{"deltaC_vs_K_TauL", func() (string, error) { return r.DeltaCVsK(ctx, st.table) }},
		{"tauL_vs_noise", func() (string, error) { return r.TauLVsNoise(ctx, st.table) }},
		{"deltaC_vs_foresight_ridge", func() (string, error) { return r.DeltaCVsForesight(ctx, st.zone) }},
	}

	for _, step := range steps {
		path, err := step.draw()
		if path != "" {
			res.Charts = append(res.Charts, path)
		}
		if err != nil {
			return err
		}
		p.tracer.chartRendered(ctx, step.chart)
	}
	return nil
}

func (p *Pipeline) export(st *runState, res *Result) error {
	if p.cfg.Output.Workbook == "" {
		return nil
	}

	path := st.paths.GetOutputPath(p.cfg.Output.Workbook)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("prepare workbook directory", err).WithContext("file", path)
	}
	err := exporter.WriteWorkbook(path,
		exporter.Sheet{Name: SheetTauL, Pivot: res.TauPivot},
		exporter.Sheet{Name: SheetDeltaC, Pivot: res.DeltaCPivot},
	)
	if err != nil {
		return err
	}
	res.Workbook = path
	return nil
}
