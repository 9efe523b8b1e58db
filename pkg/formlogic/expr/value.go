package expr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	// KindUndefined is the absence of an answer.
	KindUndefined Kind = iota
	// KindBool is a boolean.
	KindBool
	// KindNumber is a float64 number.
	KindNumber
	// KindText is a string.
	KindText
	// KindSequence is an ordered multi-value answer.
	KindSequence
	// KindStructured is a row/panel value addressed by child name.
	KindStructured
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindSequence:
		return "sequence"
	case KindStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Value is the closed union of answer values flowing through the engine:
// undefined, boolean, number, text, ordered sequence, or structured
// row/panel value. The zero Value is undefined.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	seq  []Value
	obj  map[string]Value
}

// Undefined returns the undefined value.
func Undefined() Value { return Value{} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Number returns a numeric value.
func Number(v float64) Value { return Value{kind: KindNumber, n: v} }

// Text returns a text value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Sequence returns an ordered multi-value answer.
func Sequence(vs ...Value) Value { return Value{kind: KindSequence, seq: vs} }

// Structured returns a row/panel value addressed by child name.
func Structured(m map[string]Value) Value { return Value{kind: KindStructured, obj: m} }

// From converts a loosely-typed Go value (as produced by YAML/JSON
// decoding or handed in by a widget) into a Value. nil maps to
// undefined; slices become sequences; maps become structured values.
func From(v any) Value {
	switch val := v.(type) {
	case nil:
		return Undefined()
	case Value:
		return val
	case bool:
		return Bool(val)
	case int:
		return Number(float64(val))
	case int32:
		return Number(float64(val))
	case int64:
		return Number(float64(val))
	case float32:
		return Number(float64(val))
	case float64:
		return Number(val)
	case string:
		return Text(val)
	case []string:
		seq := make([]Value, len(val))
		for i, s := range val {
			seq[i] = Text(s)
		}
		return Value{kind: KindSequence, seq: seq}
	case []any:
		seq := make([]Value, len(val))
		for i, item := range val {
			seq[i] = From(item)
		}
		return Value{kind: KindSequence, seq: seq}
	case map[string]any:
		obj := make(map[string]Value, len(val))
		for k, item := range val {
			obj[k] = From(item)
		}
		return Value{kind: KindStructured, obj: obj}
	default:
		return Text(fmt.Sprintf("%v", val))
	}
}

// Kind returns the variant of the value.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether the value is undefined.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsEmpty reports whether the value counts as "not answered":
// undefined, empty text, or an empty sequence/structured value.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindUndefined:
		return true
	case KindText:
		return v.s == ""
	case KindSequence:
		return len(v.seq) == 0
	case KindStructured:
		return len(v.obj) == 0
	default:
		return false
	}
}

// Truthy reports boolean coercion: undefined, empty string, 0, false
// and empty sequences/structured values are false; everything else true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindUndefined:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindText:
		return v.s != ""
	case KindSequence:
		return len(v.seq) > 0
	case KindStructured:
		return len(v.obj) > 0
	default:
		return false
	}
}

// AsNumber coerces the value to a number. Numbers convert directly,
// booleans become 0/1, and numeric text parses. The second result
// reports whether the coercion succeeded.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.n, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Elements returns the elements of a sequence value, or nil for any
// other kind.
func (v Value) Elements() []Value {
	return v.seq
}

// Child returns the named child of a structured value. A missing child
// or a non-structured receiver yields undefined.
func (v Value) Child(name string) Value {
	if v.kind != KindStructured {
		return Undefined()
	}
	return v.obj[name]
}

// At returns the i-th element of a sequence value. An out-of-range
// index or a non-sequence receiver yields undefined.
func (v Value) At(i int) Value {
	if v.kind != KindSequence || i < 0 || i >= len(v.seq) {
		return Undefined()
	}
	return v.seq[i]
}

// String renders the value as display text. Undefined renders empty;
// numbers render without a trailing ".0"; sequences join elements with
// ", ".
func (v Value) String() string {
	switch v.kind {
	case KindUndefined:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindText:
		return v.s
	case KindSequence:
		parts := make([]string, len(v.seq))
		for i, item := range v.seq {
			parts[i] = item.String()
		}
		return strings.Join(parts, ", ")
	case KindStructured:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.obj[k].String()
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// Interface converts the value back to a loosely-typed Go value,
// the inverse of From. Undefined converts to nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindUndefined:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindText:
		return v.s
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Interface()
		}
		return out
	case KindStructured:
		out := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			out[k] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal compares two values with coercion: a numeric string compares
// numerically against a number, sequences compare as sets (same
// elements, order-independent), structured values compare key-wise,
// and undefined equals only undefined. Everything else falls back to
// string comparison.
func (v Value) Equal(o Value) bool {
	if v.kind == KindUndefined || o.kind == KindUndefined {
		return v.kind == o.kind
	}
	if v.kind == KindSequence && o.kind == KindSequence {
		return sequenceSetEqual(v.seq, o.seq)
	}
	if v.kind == KindStructured && o.kind == KindStructured {
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, item := range v.obj {
			other, ok := o.obj[k]
			if !ok || !item.Equal(other) {
				return false
			}
		}
		return true
	}
	if v.kind == KindNumber || o.kind == KindNumber {
		ln, lok := v.AsNumber()
		rn, rok := o.AsNumber()
		if lok && rok {
			return ln == rn
		}
	}
	return v.String() == o.String()
}

// Compare orders two values for relational operators, returning -1, 0
// or 1. The second result is false when the operands cannot be ordered
// (undefined involved), in which case every relational comparison is
// false.
func (v Value) Compare(o Value) (int, bool) {
	if v.kind == KindUndefined || o.kind == KindUndefined {
		return 0, false
	}
	ln, lok := v.AsNumber()
	rn, rok := o.AsNumber()
	if lok && rok {
		switch {
		case ln < rn:
			return -1, true
		case ln > rn:
			return 1, true
		default:
			return 0, true
		}
	}
	return strings.Compare(v.String(), o.String()), true
}

// sequenceSetEqual reports set equality: every element of a appears in
// b and vice versa.
func sequenceSetEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	matched := make([]bool, len(b))
outer:
	for _, item := range a {
		for i, other := range b {
			if !matched[i] && item.Equal(other) {
				matched[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}
