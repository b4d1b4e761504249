package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"runcharts/internal/config"
)

const (
	ServiceVersion = "1.0.0"
	MeterName      = "runcharts"
)

// TelemetryProviders holds the OpenTelemetry providers for one run
type TelemetryProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *PipelineMetrics
	Registry       *prometheus.Registry

	lastRun     prometheus.Gauge
	traceFile   *os.File
	metricsFile string
	logger      *slog.Logger
}

// PipelineMetrics holds the run-level instruments recorded by the pipeline
type PipelineMetrics struct {
	FilesDiscovered metric.Int64Counter
	RowsLoaded      metric.Int64Counter
	ChartsRendered  metric.Int64Counter
	StageDuration   metric.Float64Histogram
	StageErrors     metric.Int64Counter
}

// InitializeTelemetry sets up tracing and metrics. Spans are exported as
// pretty-printed JSON to cfg.TraceFile when it is set; metrics are gathered
// into a private Prometheus registry and written to cfg.MetricsFile on Shutdown.
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*TelemetryProviders, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	)

	providers := &TelemetryProviders{
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	if err := initializeTracing(cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := initializeMetrics(res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Debug("Telemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("trace_file", cfg.TraceFile),
		slog.String("metrics_file", cfg.MetricsFile))

	return providers, nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(cfg config.TelemetryConfig, res *resource.Resource, providers *TelemetryProviders) error {
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if cfg.TraceFile != "" {
		f, err := createFile(cfg.TraceFile)
		if err != nil {
			return err
		}
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(f),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		providers.traceFile = f
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(ServiceVersion))
	otel.SetTracerProvider(tp)
	return nil
}

// initializeMetrics sets up OpenTelemetry metrics backed by a Prometheus registry
func initializeMetrics(res *resource.Resource, providers *TelemetryProviders) error {
	reg := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(ServiceVersion))
	providers.Registry = reg

	providers.lastRun = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "runcharts_last_run_timestamp_seconds",
		Help: "Unix time the last chart run finished.",
	})
	reg.MustRegister(providers.lastRun)

	m, err := CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	providers.Metrics = m
	return nil
}

// CreatePipelineMetrics creates the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	filesDiscovered, err := meter.Int64Counter(
		"runcharts_files_discovered",
		metric.WithDescription("Number of run files matched by the input pattern"),
	)
	if err != nil {
		return nil, err
	}

	rowsLoaded, err := meter.Int64Counter(
		"runcharts_rows_loaded",
		metric.WithDescription("Number of run records assembled from input files"),
	)
	if err != nil {
		return nil, err
	}

	chartsRendered, err := meter.Int64Counter(
		"runcharts_charts_rendered",
		metric.WithDescription("Number of chart images written"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"runcharts_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stageErrors, err := meter.Int64Counter(
		"runcharts_stage_errors",
		metric.WithDescription("Number of failed pipeline stages"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		FilesDiscovered: filesDiscovered,
		RowsLoaded:      rowsLoaded,
		ChartsRendered:  chartsRendered,
		StageDuration:   stageDuration,
		StageErrors:     stageErrors,
	}, nil
}

// Shutdown flushes spans, writes the metrics textfile when configured and
// releases the providers.
func (p *TelemetryProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.metricsFile != "" {
		p.lastRun.SetToCurrentTime()
		if err := os.MkdirAll(filepath.Dir(p.metricsFile), 0755); err != nil {
			errs = append(errs, fmt.Errorf("failed to create metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(p.metricsFile, p.Registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics textfile: %w", err))
		} else {
			p.logger.DebugContext(ctx, "Wrote metrics textfile", slog.String("path", p.metricsFile))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.TracerProvider.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
	}
	if err := p.MeterProvider.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown meter provider: %w", err))
	}
	if p.traceFile != nil {
		if err := p.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close trace file: %w", err))
		}
		p.traceFile = nil
	}

	return errors.Join(errs...)
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
