// Package formlogic provides the conditional-logic engine for dynamic
// questionnaires.
package formlogic

import (
	"errors"
	"fmt"
)

// Sentinel errors for survey definition validation.
var (
	// ErrUnnamedPage indicates a page without a name.
	ErrUnnamedPage = errors.New("page has no name")

	// ErrUnnamedQuestion indicates a question without a name.
	ErrUnnamedQuestion = errors.New("question has no name")

	// ErrDuplicateName indicates a page or question name used twice.
	ErrDuplicateName = errors.New("duplicate page or question name")

	// ErrUnknownTriggerType indicates a trigger with an unrecognized type.
	ErrUnknownTriggerType = errors.New("unknown trigger type")

	// ErrUnknownQuestion indicates a write to a name that is not a
	// question in the survey definition.
	ErrUnknownQuestion = errors.New("unknown question")
)

// ConfigKind classifies fatal logic-configuration faults. The faulty
// binding or trigger is disabled; the rest of the engine keeps running.
type ConfigKind int

const (
	// CyclicSetValue indicates a setValueExpression whose output feeds
	// back, through dependency edges, into its own inputs. Detected
	// statically at session construction, never at evaluation time.
	CyclicSetValue ConfigKind = iota

	// UnstableLogic indicates flag/value logic that did not reach a
	// fixed point within the iteration cap. Affected bindings keep
	// their last-known output.
	UnstableLogic

	// TriggerLoop indicates trigger-driven writes that exceeded the
	// cumulative iteration cap.
	TriggerLoop
)

// String returns the kind name.
func (k ConfigKind) String() string {
	switch k {
	case CyclicSetValue:
		return "cyclic setValue"
	case UnstableLogic:
		return "unstable logic"
	case TriggerLoop:
		return "trigger loop"
	default:
		return "unknown"
	}
}

// ConfigError reports a fatal fault in one binding or trigger.
type ConfigError struct {
	// Kind classifies the fault.
	Kind ConfigKind
	// Owner is the question, page or trigger the fault belongs to.
	Owner string
	// Message carries additional context.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("config error (%s) on %s: %s", e.Kind, e.Owner, e.Message)
	}
	return fmt.Sprintf("config error (%s) on %s", e.Kind, e.Owner)
}

// Diagnostic is a non-fatal problem collected during session
// construction or a recompute pass: a binding that failed to parse, an
// evaluation error, or a disabled binding/trigger. Diagnostics are
// surfaced through Session.Diagnostics for the host application's
// logging, never thrown across the public API.
type Diagnostic struct {
	// Owner is the question, page or trigger the diagnostic belongs to.
	Owner string
	// Property names the logic property involved (visibleIf, trigger
	// condition, ...).
	Property string
	// Err is the underlying error.
	Err error
}

// String renders the diagnostic for logs.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s.%s: %v", d.Owner, d.Property, d.Err)
}

// ValidationError reports an unanswered required question at
// completion time.
type ValidationError struct {
	// Question is the unanswered required question.
	Question string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %s is required", e.Question)
}

// ValidationErrors aggregates per-question completion failures.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%d required questions are unanswered", len(e))
}
