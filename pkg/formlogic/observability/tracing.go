package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the formlogic tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("formlogic")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartSessionSpan starts a span covering a whole survey session.
	StartSessionSpan(ctx context.Context, surveyName, sessionID string) (context.Context, trace.Span)

	// StartPassSpan starts a span for one recompute pass.
	// The pass span should be a child of the session span.
	StartPassSpan(ctx context.Context, seed string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartSessionSpan starts a span covering a whole survey session.
func (m *otelSpanManager) StartSessionSpan(ctx context.Context, surveyName, sessionID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "formlogic.session",
		trace.WithAttributes(
			attribute.String("survey.name", surveyName),
			attribute.String("session.id", sessionID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartPassSpan starts a span for one recompute pass.
func (m *otelSpanManager) StartPassSpan(ctx context.Context, seed string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "formlogic.pass",
		trace.WithAttributes(
			attribute.String("pass.seed", seed),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
