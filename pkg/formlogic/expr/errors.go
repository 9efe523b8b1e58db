package expr

import "fmt"

// LexError indicates the source text could not be tokenized.
type LexError struct {
	// Pos is the byte offset where tokenization failed.
	Pos int
	// Message describes the problem (unterminated string, unknown character).
	Message string
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d: %s", e.Pos, e.Message)
}

// ParseError indicates the token stream did not match the grammar.
type ParseError struct {
	// Pos is the byte offset of the offending token.
	Pos int
	// Expected describes what the parser was looking for.
	Expected string
	// Got is the literal of the token actually found.
	Got string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: expected %s, got %q", e.Pos, e.Expected, e.Got)
}

// EvalErrorKind classifies evaluation failures.
type EvalErrorKind int

const (
	// TypeMismatch indicates an operand could not be coerced to the
	// type an operator requires.
	TypeMismatch EvalErrorKind = iota

	// DivisionByZero indicates division or modulo by zero.
	DivisionByZero

	// UnknownFunction indicates a call to an unregistered function.
	UnknownFunction

	// ArityMismatch indicates a call with the wrong argument count.
	ArityMismatch
)

// String returns the kind name.
func (k EvalErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "type mismatch"
	case DivisionByZero:
		return "division by zero"
	case UnknownFunction:
		return "unknown function"
	case ArityMismatch:
		return "arity mismatch"
	default:
		return "unknown"
	}
}

// EvalError indicates an expression could not be evaluated.
// Evaluation errors are non-fatal: the caller treats the result as
// undefined for the current pass.
type EvalError struct {
	// Kind classifies the failure.
	Kind EvalErrorKind
	// Message carries operator/function context.
	Message string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return fmt.Sprintf("eval error (%s): %s", e.Kind, e.Message)
}

func typeMismatch(format string, args ...any) *EvalError {
	return &EvalError{Kind: TypeMismatch, Message: fmt.Sprintf(format, args...)}
}

func arityMismatch(name string, got int, want string) *EvalError {
	return &EvalError{
		Kind:    ArityMismatch,
		Message: fmt.Sprintf("%s called with %d arguments, want %s", name, got, want),
	}
}
