package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"runcharts/internal/infrastructure"
)

// TracerName is used when no telemetry providers are supplied
const TracerName = "runcharts.pipeline"

// SpanPrefix prefixes every stage span name
const SpanPrefix = "runcharts.stage."

// stageTracer wraps each stage in a span and records its duration
type stageTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

func newStageTracer(providers *infrastructure.TelemetryProviders) *stageTracer {
	if providers == nil || providers.Tracer == nil {
		return &stageTracer{tracer: otel.Tracer(TracerName)}
	}
	return &stageTracer{
		tracer:  providers.Tracer,
		metrics: providers.Metrics,
	}
}

// run executes fn inside the stage span. A failure marks the span as an
// error and is returned unchanged.
func (st *stageTracer) run(ctx context.Context, stage string, fn func(ctx context.Context) error) error {
	ctx, span := st.tracer.Start(ctx, SpanPrefix+stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("stage.name", stage),
			attribute.String("run.id", infrastructure.GetRunID(ctx)),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	attrs := metric.WithAttributes(attribute.String("stage", stage))
	if st.metrics != nil {
		st.metrics.StageDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
	span.SetAttributes(attribute.Float64("stage.duration_seconds", elapsed.Seconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if st.metrics != nil {
			st.metrics.StageErrors.Add(ctx, 1, attrs)
		}
		return err
	}
	span.SetStatus(codes.Ok, "stage completed")
	return nil
}

func (st *stageTracer) filesDiscovered(ctx context.Context, n int) {
	if st.metrics != nil {
		st.metrics.FilesDiscovered.Add(ctx, int64(n))
	}
}

func (st *stageTracer) rowsLoaded(ctx context.Context, n int) {
	if st.metrics != nil {
		st.metrics.RowsLoaded.Add(ctx, int64(n))
	}
}

func (st *stageTracer) chartRendered(ctx context.Context, chart string) {
	if st.metrics != nil {
		st.metrics.ChartsRendered.Add(ctx, 1, metric.WithAttributes(attribute.String("chart", chart)))
	}
}
