package expr

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// Function is a registered expression function. Arguments arrive
// already evaluated; the iif builtin is special-cased by the Evaluator
// so that only the selected branch is evaluated.
type Function func(args []Value) (Value, error)

// builtin pairs a function with its accepted argument count range.
// maxArgs of -1 means variadic.
type builtin struct {
	minArgs int
	maxArgs int
	fn      Function
}

// dateLayouts are the accepted date formats for age(), most specific
// first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// builtinFunctions constructs the built-in function library. today and
// age close over the evaluator's clock so tests can pin the date.
func builtinFunctions(clock func() time.Time) map[string]builtin {
	return map[string]builtin{
		"today": {0, 0, func(args []Value) (Value, error) {
			return Text(clock().Format("2006-01-02")), nil
		}},
		"age": {1, 1, func(args []Value) (Value, error) {
			if args[0].IsUndefined() {
				return Undefined(), nil
			}
			born, err := parseDate(args[0].String())
			if err != nil {
				return Undefined(), typeMismatch("age: %q is not a date", args[0].String())
			}
			return Number(float64(wholeYears(born, clock()))), nil
		}},
		"sum": {0, -1, func(args []Value) (Value, error) {
			var total float64
			for _, a := range args {
				total += numberOrZero(a)
			}
			return Number(total), nil
		}},
		"avg": {1, -1, func(args []Value) (Value, error) {
			var total float64
			for _, a := range args {
				total += numberOrZero(a)
			}
			return Number(total / float64(len(args))), nil
		}},
		"min": {1, -1, func(args []Value) (Value, error) {
			best := numberOrZero(args[0])
			for _, a := range args[1:] {
				best = math.Min(best, numberOrZero(a))
			}
			return Number(best), nil
		}},
		"max": {1, -1, func(args []Value) (Value, error) {
			best := numberOrZero(args[0])
			for _, a := range args[1:] {
				best = math.Max(best, numberOrZero(a))
			}
			return Number(best), nil
		}},
		"abs": {1, 1, func(args []Value) (Value, error) {
			n, ok := args[0].AsNumber()
			if !ok {
				return Undefined(), typeMismatch("abs: %q is not a number", args[0].String())
			}
			return Number(math.Abs(n)), nil
		}},
		"round": {1, 1, func(args []Value) (Value, error) {
			n, ok := args[0].AsNumber()
			if !ok {
				return Undefined(), typeMismatch("round: %q is not a number", args[0].String())
			}
			return Number(math.Round(n)), nil
		}},
		"len": {1, 1, func(args []Value) (Value, error) {
			v := args[0]
			switch v.Kind() {
			case KindUndefined:
				return Number(0), nil
			case KindSequence:
				return Number(float64(len(v.Elements()))), nil
			default:
				return Number(float64(utf8.RuneCountInString(v.String()))), nil
			}
		}},
		// String predicates are case-sensitive on string-coerced
		// operands. contains additionally checks sequence membership.
		"contains": {2, 2, func(args []Value) (Value, error) {
			if args[0].Kind() == KindSequence {
				for _, item := range args[0].Elements() {
					if item.Equal(args[1]) {
						return Bool(true), nil
					}
				}
				return Bool(false), nil
			}
			return Bool(strings.Contains(args[0].String(), args[1].String())), nil
		}},
		"startsWith": {2, 2, func(args []Value) (Value, error) {
			return Bool(strings.HasPrefix(args[0].String(), args[1].String())), nil
		}},
		"endsWith": {2, 2, func(args []Value) (Value, error) {
			return Bool(strings.HasSuffix(args[0].String(), args[1].String())), nil
		}},
	}
}

// numberOrZero coerces to a number, treating non-numeric and undefined
// values as 0 (the sum() contract).
func numberOrZero(v Value) float64 {
	n, ok := v.AsNumber()
	if !ok {
		return 0
	}
	return n
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// wholeYears counts completed years between born and now.
func wholeYears(born, now time.Time) int {
	years := now.Year() - born.Year()
	anniversary := born.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
