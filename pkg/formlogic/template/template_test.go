package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlogic/formlogic/pkg/formlogic/expr"
)

func resolver(values map[string]any) expr.Resolver {
	return expr.MapResolver(values)
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		values   map[string]any
		expected string
	}{
		{
			name:     "simple reference",
			input:    "Hello {name}",
			values:   map[string]any{"name": "World"},
			expected: "Hello World",
		},
		{
			name:     "multiple references",
			input:    "Hello {firstName}, you are {age} years old",
			values:   map[string]any{"firstName": "Ana", "age": 30},
			expected: "Hello Ana, you are 30 years old",
		},
		{
			name:     "missing reference renders empty",
			input:    "Hello {firstName}, you are {age} years old",
			values:   map[string]any{"age": 30},
			expected: "Hello , you are 30 years old",
		},
		{
			name:     "adjacent references",
			input:    "{a}{b}{c}",
			values:   map[string]any{"a": "1", "b": "2", "c": "3"},
			expected: "123",
		},
		{
			name:     "indexed reference",
			input:    "First tag: {tags[0]}",
			values:   map[string]any{"tags": []any{"red", "green"}},
			expected: "First tag: red",
		},
		{
			name:     "row reference",
			input:    "City: {address.city}",
			values:   map[string]any{"address": map[string]any{"city": "Oslo"}},
			expected: "City: Oslo",
		},
		{
			name:     "no placeholders",
			input:    "plain text",
			values:   nil,
			expected: "plain text",
		},
		{
			name:     "empty input",
			input:    "",
			values:   nil,
			expected: "",
		},
		{
			name:     "unclosed brace stays literal",
			input:    "broken {name",
			values:   map[string]any{"name": "x"},
			expected: "broken {name",
		},
		{
			name:     "invalid path stays literal",
			input:    "css {display: none}",
			values:   nil,
			expected: "css {display: none}",
		},
		{
			name:     "number formatting trims decimals",
			input:    "total {total}",
			values:   map[string]any{"total": 7.0},
			expected: "total 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.input, resolver(tt.values))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParse_Chunks(t *testing.T) {
	chunks := Parse("Hello {firstName}, bye")
	require.Len(t, chunks, 3)
	assert.Equal(t, "Hello ", chunks[0].Text)
	assert.True(t, chunks[1].IsRef())
	assert.Equal(t, "firstName", chunks[1].Ref.Path.Root())
	assert.Equal(t, ", bye", chunks[2].Text)
}

func TestExpand_MissingKeep(t *testing.T) {
	exp := NewExpander(WithMissingAction(MissingKeep))
	got, err := exp.Expand("Hello {name}", resolver(nil))
	require.NoError(t, err)
	assert.Equal(t, "Hello {name}", got)
}

func TestExpand_MissingError(t *testing.T) {
	exp := NewExpander(WithMissingAction(MissingError))
	_, err := exp.Expand("Hello {name} from {city}", resolver(nil))
	require.Error(t, err)

	var unresolved *UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, []string{"name", "city"}, unresolved.Paths)
}

func TestExpandChunks_Reuse(t *testing.T) {
	chunks := Parse("Hi {name}")
	exp := NewExpander()

	first, err := exp.ExpandChunks(chunks, resolver(map[string]any{"name": "Ana"}))
	require.NoError(t, err)
	second, err := exp.ExpandChunks(chunks, resolver(map[string]any{"name": "Bo"}))
	require.NoError(t, err)

	assert.Equal(t, "Hi Ana", first)
	assert.Equal(t, "Hi Bo", second)
}
