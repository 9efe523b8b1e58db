/*
Package expr implements the expression language behind survey
conditional logic: a lexer, a fixed-precedence parser, a typed value
union, a built-in function library, and a pure evaluator.

# Expression Syntax

	<expr>   := <or>
	<or>     := <and> ( ('||' | 'or') <and> )*
	<and>    := <eq> ( ('&&' | 'and') <eq> )*
	<eq>     := <rel> ( ('=' | '!=') <rel> )*
	<rel>    := <add> ( ('<' | '>' | '<=' | '>=') <add> )*
	<add>    := <mul> ( ('+' | '-') <mul> )*
	<mul>    := <pow> ( ('*' | '/' | '%') <pow> )*
	<pow>    := <unary> ( '^' <pow> )?            right-associative
	<unary>  := ('!' | 'not' | '-') <unary> | <primary>
	<primary>:= literal | reference | call | '(' <expr> ')'

References read question values and use braced syntax:

	{age}              question value
	{tags[0]}          element of a multi-value answer
	{address.city}     child of a row/panel value

# Values

Results are a closed union: undefined, bool, number, text, sequence,
structured. Coercion rules:

  - Truthiness: undefined, "", 0, false and empty sequences are false.
  - Equality: a numeric string compares numerically against a number;
    sequences compare as sets; undefined equals only undefined.
  - '+' concatenates when either operand is textual, adds otherwise.
  - Arithmetic on values that cannot coerce to a number fails with a
    TypeMismatch EvalError; /0 and %0 fail with DivisionByZero.

# Functions

Built-ins: iif (lazy), today, age, sum, avg, min, max, abs, round, len,
contains, startsWith, endsWith. Register custom functions per
evaluator:

	e := expr.NewEvaluator(
	    expr.WithFunction("upper", 1, 1, func(args []expr.Value) (expr.Value, error) {
	        return expr.Text(strings.ToUpper(args[0].String())), nil
	    }),
	)

# Examples

	v, _ := expr.Eval("{age} >= 18", map[string]any{"age": 21})
	// v.Truthy() == true

	node, _ := expr.Parse("sum({q1}, {q2}) > 10")
	// node is immutable and can be re-evaluated against changing answers

Evaluation is referentially transparent: the same node and resolver
state always produce the same value, which is what makes cached ASTs
and repeated recompute passes safe.
*/
package expr
