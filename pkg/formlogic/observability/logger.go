// Package observability provides structured logging, metrics, and
// tracing helpers for the survey logic engine.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
)

// EnrichLogger adds session context to a logger.
// Returns a new logger with session_id and survey fields.
func EnrichLogger(logger *slog.Logger, sessionID, survey string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("session_id", sessionID),
		slog.String("survey", survey),
	)
}

// LogSessionStart logs the creation of a survey session.
func LogSessionStart(logger *slog.Logger, sessionID string, bindings, triggers int) {
	if logger == nil {
		return
	}
	logger.Info("session starting",
		slog.String("session_id", sessionID),
		slog.Int("bindings", bindings),
		slog.Int("triggers", triggers),
	)
}

// LogPassComplete logs a finished recompute pass.
func LogPassComplete(logger *slog.Logger, seed string, iterations, changed int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("recompute pass completed",
		slog.String("seed", seed),
		slog.Int("iterations", iterations),
		slog.Int("changed", changed),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogBindingError logs a non-fatal binding evaluation failure.
func LogBindingError(logger *slog.Logger, owner, property string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("binding evaluation failed",
		slog.String("owner", owner),
		slog.String("property", property),
		slog.String("error", err.Error()),
	)
}

// LogBindingDisabled logs a binding or trigger disabled by a
// configuration fault.
func LogBindingDisabled(logger *slog.Logger, owner string, err error) {
	if logger == nil {
		return
	}
	logger.Error("logic disabled",
		slog.String("owner", owner),
		slog.String("error", err.Error()),
	)
}

// LogTriggerFired logs a trigger's false-to-true edge.
func LogTriggerFired(logger *slog.Logger, triggerType, owner string) {
	if logger == nil {
		return
	}
	logger.Debug("trigger fired",
		slog.String("type", triggerType),
		slog.String("owner", owner),
	)
}
