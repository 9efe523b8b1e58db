package expr

import (
	"fmt"
	"math"
	"time"
)

// Resolver resolves a reference path to the current answer value.
// A missing question, out-of-range index or absent row child yields
// undefined, never an error.
type Resolver interface {
	Resolve(path Path) Value
}

// ResolverFunc adapts a function into a Resolver.
type ResolverFunc func(path Path) Value

// Resolve delegates to the underlying function.
func (fn ResolverFunc) Resolve(path Path) Value {
	return fn(path)
}

// MapResolver resolves root identifiers from a plain map of answers.
// Index and child segments descend into sequence and structured values.
func MapResolver(values map[string]any) Resolver {
	return ResolverFunc(func(path Path) Value {
		if len(path) == 0 {
			return Undefined()
		}
		return WalkPath(From(values[path.Root()]), path)
	})
}

// WalkPath descends from the root value along the path's index and
// child segments. Any miss along the way yields undefined.
func WalkPath(root Value, path Path) Value {
	v := root
	for i, seg := range path {
		if i > 0 {
			v = v.Child(seg.Name)
		}
		if seg.HasIndex {
			v = v.At(seg.Index)
		}
	}
	return v
}

// Evaluator walks expression ASTs against a Resolver and produces
// typed values. Evaluation is pure: the same node and context always
// yield the same result, so parsed nodes can be cached and re-run.
type Evaluator struct {
	funcs map[string]builtin
	clock func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithFunction registers a custom function with the given argument
// count range. maxArgs of -1 accepts any number of arguments. Custom
// functions shadow builtins of the same name.
func WithFunction(name string, minArgs, maxArgs int, fn Function) Option {
	return func(e *Evaluator) {
		e.funcs[name] = builtin{minArgs: minArgs, maxArgs: maxArgs, fn: fn}
	}
}

// WithClock sets the time source used by today() and age().
// Defaults to time.Now. Tests pin this to a fixed date.
func WithClock(clock func() time.Time) Option {
	return func(e *Evaluator) {
		e.clock = clock
		for name, b := range builtinFunctions(clock) {
			e.funcs[name] = b
		}
	}
}

// NewEvaluator creates an Evaluator with the built-in function library
// and the given options.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{clock: time.Now}
	e.funcs = builtinFunctions(e.clock)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval is a convenience that parses and evaluates an expression against
// a plain answers map using a default Evaluator. Callers evaluating
// repeatedly should cache the Parse result instead.
func Eval(source string, values map[string]any) (Value, error) {
	node, err := Parse(source)
	if err != nil {
		return Undefined(), err
	}
	return NewEvaluator().Evaluate(node, MapResolver(values))
}

// Evaluate walks the AST against the resolver and returns the typed
// result. Failures return an *EvalError; reference misses never fail,
// they resolve to undefined.
func (e *Evaluator) Evaluate(n Node, r Resolver) (Value, error) {
	switch node := n.(type) {
	case *Literal:
		return node.Value, nil

	case *Ref:
		return r.Resolve(node.Path), nil

	case *Unary:
		return e.evalUnary(node, r)

	case *Binary:
		return e.evalBinary(node, r)

	case *Logical:
		left, err := e.Evaluate(node.Left, r)
		if err != nil {
			return Undefined(), err
		}
		// Short-circuit: the right side only runs when it can still
		// change the outcome.
		if node.Op == "&&" && !left.Truthy() {
			return Bool(false), nil
		}
		if node.Op == "||" && left.Truthy() {
			return Bool(true), nil
		}
		right, err := e.Evaluate(node.Right, r)
		if err != nil {
			return Undefined(), err
		}
		return Bool(right.Truthy()), nil

	case *Call:
		return e.evalCall(node, r)

	default:
		return Undefined(), typeMismatch("unsupported node %T", n)
	}
}

func (e *Evaluator) evalUnary(node *Unary, r Resolver) (Value, error) {
	operand, err := e.Evaluate(node.Operand, r)
	if err != nil {
		return Undefined(), err
	}
	switch node.Op {
	case "!":
		return Bool(!operand.Truthy()), nil
	case "-":
		n, ok := operand.AsNumber()
		if !ok {
			return Undefined(), typeMismatch("cannot negate %s value %q", operand.Kind(), operand.String())
		}
		return Number(-n), nil
	default:
		return Undefined(), typeMismatch("unknown unary operator %q", node.Op)
	}
}

func (e *Evaluator) evalBinary(node *Binary, r Resolver) (Value, error) {
	left, err := e.Evaluate(node.Left, r)
	if err != nil {
		return Undefined(), err
	}
	right, err := e.Evaluate(node.Right, r)
	if err != nil {
		return Undefined(), err
	}

	switch node.Op {
	case "=":
		return Bool(left.Equal(right)), nil
	case "!=":
		return Bool(!left.Equal(right)), nil
	case "<", ">", "<=", ">=":
		cmp, ok := left.Compare(right)
		if !ok {
			return Bool(false), nil
		}
		switch node.Op {
		case "<":
			return Bool(cmp < 0), nil
		case ">":
			return Bool(cmp > 0), nil
		case "<=":
			return Bool(cmp <= 0), nil
		default:
			return Bool(cmp >= 0), nil
		}
	case "+":
		// String-wins coercion: + concatenates whenever either operand
		// is textual, even a numeric string.
		if left.Kind() == KindText || right.Kind() == KindText {
			return Text(left.String() + right.String()), nil
		}
	}

	ln, lok := left.AsNumber()
	if !lok {
		return Undefined(), typeMismatch("operator %q: %s value %q is not numeric", node.Op, left.Kind(), left.String())
	}
	rn, rok := right.AsNumber()
	if !rok {
		return Undefined(), typeMismatch("operator %q: %s value %q is not numeric", node.Op, right.Kind(), right.String())
	}

	switch node.Op {
	case "+":
		return Number(ln + rn), nil
	case "-":
		return Number(ln - rn), nil
	case "*":
		return Number(ln * rn), nil
	case "/":
		if rn == 0 {
			return Undefined(), &EvalError{Kind: DivisionByZero, Message: "division by zero"}
		}
		return Number(ln / rn), nil
	case "%":
		if rn == 0 {
			return Undefined(), &EvalError{Kind: DivisionByZero, Message: "modulo by zero"}
		}
		return Number(math.Mod(ln, rn)), nil
	case "^":
		return Number(math.Pow(ln, rn)), nil
	default:
		return Undefined(), typeMismatch("unknown operator %q", node.Op)
	}
}

func (e *Evaluator) evalCall(node *Call, r Resolver) (Value, error) {
	// iif short-circuits: only the selected branch is evaluated.
	if node.Name == "iif" {
		if len(node.Args) != 3 {
			return Undefined(), arityMismatch("iif", len(node.Args), "3")
		}
		cond, err := e.Evaluate(node.Args[0], r)
		if err != nil {
			return Undefined(), err
		}
		if cond.Truthy() {
			return e.Evaluate(node.Args[1], r)
		}
		return e.Evaluate(node.Args[2], r)
	}

	fn, ok := e.funcs[node.Name]
	if !ok {
		return Undefined(), &EvalError{
			Kind:    UnknownFunction,
			Message: fmt.Sprintf("unknown function %q", node.Name),
		}
	}
	if len(node.Args) < fn.minArgs || (fn.maxArgs >= 0 && len(node.Args) > fn.maxArgs) {
		return Undefined(), arityMismatch(node.Name, len(node.Args), arityRange(fn))
	}

	args := make([]Value, len(node.Args))
	for i, argNode := range node.Args {
		arg, err := e.Evaluate(argNode, r)
		if err != nil {
			return Undefined(), err
		}
		args[i] = arg
	}
	return fn.fn(args)
}

func arityRange(b builtin) string {
	if b.maxArgs < 0 {
		return fmt.Sprintf("at least %d", b.minArgs)
	}
	if b.minArgs == b.maxArgs {
		return fmt.Sprintf("%d", b.minArgs)
	}
	return fmt.Sprintf("%d..%d", b.minArgs, b.maxArgs)
}
