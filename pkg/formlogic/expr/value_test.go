package expr

import "testing"

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"undefined", Undefined(), false},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"zero", Number(0), false},
		{"nonzero", Number(0.5), true},
		{"empty text", Text(""), false},
		{"text", Text("x"), true},
		{"empty sequence", Sequence(), false},
		{"sequence", Sequence(Text("a")), true},
		{"empty structured", Structured(nil), false},
		{"structured", Structured(map[string]Value{"a": Number(1)}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Truthy(); got != tt.want {
				t.Errorf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_From(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
	}{
		{"nil", nil, KindUndefined},
		{"bool", true, KindBool},
		{"int", 42, KindNumber},
		{"float", 4.2, KindNumber},
		{"string", "x", KindText},
		{"string slice", []string{"a"}, KindSequence},
		{"any slice", []any{1, "two"}, KindSequence},
		{"map", map[string]any{"a": 1}, KindStructured},
		{"value passthrough", Number(7), KindNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := From(tt.in).Kind(); got != tt.kind {
				t.Errorf("From(%v).Kind() = %s, want %s", tt.in, got, tt.kind)
			}
		})
	}
}

func TestValue_RoundTrip(t *testing.T) {
	in := map[string]any{
		"name": "Ana",
		"age":  float64(30),
		"tags": []any{"a", "b"},
		"row":  map[string]any{"score": float64(7)},
	}
	v := From(in)
	out, ok := v.Interface().(map[string]any)
	if !ok {
		t.Fatalf("Interface() returned %T, want map[string]any", v.Interface())
	}
	if out["name"] != "Ana" || out["age"] != float64(30) {
		t.Errorf("scalar round trip failed: %v", out)
	}
	tags, ok := out["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" {
		t.Errorf("sequence round trip failed: %v", out["tags"])
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"undefined renders empty", Undefined(), ""},
		{"integral number has no decimal point", Number(7), "7"},
		{"decimal", Number(7.5), "7.5"},
		{"bool", Bool(true), "true"},
		{"sequence joins", Sequence(Text("a"), Number(2)), "a, 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_IsEmpty(t *testing.T) {
	if !Undefined().IsEmpty() || !Text("").IsEmpty() || !Sequence().IsEmpty() {
		t.Error("expected undefined, empty text and empty sequence to be empty")
	}
	if Number(0).IsEmpty() || Bool(false).IsEmpty() {
		t.Error("zero and false are answers, not empty")
	}
}

func TestValue_EqualStructured(t *testing.T) {
	a := Structured(map[string]Value{"city": Text("Oslo"), "zip": Text("0150")})
	b := Structured(map[string]Value{"zip": Text("0150"), "city": Text("Oslo")})
	c := Structured(map[string]Value{"city": Text("Bergen")})
	if !a.Equal(b) {
		t.Error("expected key-wise equality")
	}
	if a.Equal(c) {
		t.Error("expected inequality for differing values")
	}
}
