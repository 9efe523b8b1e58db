package formlogic

import (
	"log/slog"
	"time"

	"github.com/formlogic/formlogic/pkg/formlogic/expr"
	"github.com/formlogic/formlogic/pkg/formlogic/observability"
)

// Navigator receives navigation-level trigger outcomes. Skip and
// complete actions are reported here, not executed inside the engine;
// the rendering layer decides what "navigate" means.
type Navigator interface {
	// SkipTo reports a skip trigger's target page or question.
	SkipTo(target string)

	// Completed reports that a complete trigger fired or Complete()
	// succeeded.
	Completed()
}

// ChangeListener is invoked once per recompute pass with the sorted
// set of question/page identifiers whose value or flags changed.
// Notifications are batched per pass, not per binding.
type ChangeListener func(changed []string)

// sessionConfig holds construction options for a Session.
type sessionConfig struct {
	id           string
	iterationCap int
	logger       *slog.Logger
	metrics      observability.MetricsRecorder
	spans        observability.SpanManager
	navigator    Navigator
	answers      map[string]any
	evalOpts     []expr.Option
}

// defaultSessionConfig returns the default session configuration.
func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		iterationCap: 10,
		metrics:      observability.NoopMetrics{},
		spans:        observability.NoopSpanManager{},
	}
}

// Option configures a Session at construction time.
type Option func(*sessionConfig)

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(c *sessionConfig) {
		if id != "" {
			c.id = id
		}
	}
}

// WithIterationCap sets the fixed-point iteration cap for recompute
// passes. Default: 10.
//
// The cap is a safety valve against misconfigured logic: when a pass
// has not settled within the cap, remaining unstable bindings keep
// their last-known output and a ConfigError diagnostic is reported.
func WithIterationCap(n int) Option {
	return func(c *sessionConfig) {
		if n > 0 {
			c.iterationCap = n
		}
	}
}

// WithLogger sets the structured logger. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *sessionConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *sessionConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpanManager sets the trace span manager.
// Default: observability.NoopSpanManager.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *sessionConfig) {
		if sm != nil {
			c.spans = sm
		}
	}
}

// WithNavigator sets the navigation collaborator that receives skip
// and complete outcomes. Default: outcomes are dropped.
func WithNavigator(n Navigator) Option {
	return func(c *sessionConfig) {
		c.navigator = n
	}
}

// WithAnswers seeds the initial answer set, typically loaded from the
// persistence collaborator when resuming a session.
func WithAnswers(answers map[string]any) Option {
	return func(c *sessionConfig) {
		c.answers = answers
	}
}

// WithClock sets the time source for today() and age().
// Default: time.Now.
func WithClock(clock func() time.Time) Option {
	return func(c *sessionConfig) {
		c.evalOpts = append(c.evalOpts, expr.WithClock(clock))
	}
}

// WithFunction registers a custom expression function for this
// session's evaluator. See expr.WithFunction.
func WithFunction(name string, minArgs, maxArgs int, fn expr.Function) Option {
	return func(c *sessionConfig) {
		c.evalOpts = append(c.evalOpts, expr.WithFunction(name, minArgs, maxArgs, fn))
	}
}
