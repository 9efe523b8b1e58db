package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records survey engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordEvaluation records one binding evaluation and its error status.
	RecordEvaluation(ctx context.Context, owner string, err error)

	// RecordPass records a completed recompute pass.
	RecordPass(ctx context.Context, iterations int, duration time.Duration)

	// RecordTriggerFired records a trigger firing.
	RecordTriggerFired(ctx context.Context, triggerType string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	evaluations    metric.Int64Counter
	evalErrors     metric.Int64Counter
	passes         metric.Int64Counter
	passIterations metric.Int64Histogram
	passLatency    metric.Float64Histogram
	triggerFires   metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("formlogic")

	evaluations, err := meter.Int64Counter("formlogic.binding.evaluations",
		metric.WithDescription("Number of binding evaluations"),
	)
	if err != nil {
		return nil, err
	}

	evalErrors, err := meter.Int64Counter("formlogic.binding.errors",
		metric.WithDescription("Number of binding evaluation errors"),
	)
	if err != nil {
		return nil, err
	}

	passes, err := meter.Int64Counter("formlogic.pass.count",
		metric.WithDescription("Number of recompute passes"),
	)
	if err != nil {
		return nil, err
	}

	passIterations, err := meter.Int64Histogram("formlogic.pass.iterations",
		metric.WithDescription("Fixed-point iterations per recompute pass"),
	)
	if err != nil {
		return nil, err
	}

	passLatency, err := meter.Float64Histogram("formlogic.pass.latency_ms",
		metric.WithDescription("Recompute pass latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	triggerFires, err := meter.Int64Counter("formlogic.trigger.fires",
		metric.WithDescription("Number of trigger firings"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		evaluations:    evaluations,
		evalErrors:     evalErrors,
		passes:         passes,
		passIterations: passIterations,
		passLatency:    passLatency,
		triggerFires:   triggerFires,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordEvaluation records one binding evaluation.
func (m *otelMetrics) RecordEvaluation(ctx context.Context, owner string, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("owner", owner),
	}
	m.evaluations.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.evalErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordPass records a completed recompute pass.
func (m *otelMetrics) RecordPass(ctx context.Context, iterations int, duration time.Duration) {
	m.passes.Add(ctx, 1)
	m.passIterations.Record(ctx, int64(iterations))
	m.passLatency.Record(ctx, float64(duration.Microseconds())/1000)
}

// RecordTriggerFired records a trigger firing.
func (m *otelMetrics) RecordTriggerFired(ctx context.Context, triggerType string) {
	m.triggerFires.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", triggerType),
	))
}
