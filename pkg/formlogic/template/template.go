// Package template parses and renders interpolated display text:
// question titles, descriptions and HTML snippets that embed braced
// references such as "Hello {firstName}".
package template

import (
	"strings"

	"github.com/formlogic/formlogic/pkg/formlogic/expr"
)

// Chunk is one piece of interpolated text: either a literal run of
// characters or a reference expression extracted from a {...}
// placeholder. Exactly one of Text/Ref is meaningful; Ref is nil for
// literal chunks.
type Chunk struct {
	Text string
	Ref  *expr.Ref
}

// IsRef reports whether the chunk is a reference placeholder.
func (c Chunk) IsRef() bool { return c.Ref != nil }

// Parse splits source text into literal chunks and reference
// expressions. A brace pair whose contents do not form a valid
// reference path is kept as literal text rather than failing the whole
// template. Parsing is deterministic and the result can be cached.
func Parse(source string) []Chunk {
	var chunks []Chunk
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			chunks = append(chunks, Chunk{Text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(source); {
		open := strings.IndexByte(source[i:], '{')
		if open < 0 {
			literal.WriteString(source[i:])
			break
		}
		literal.WriteString(source[i : i+open])
		i += open

		close := strings.IndexByte(source[i:], '}')
		if close < 0 {
			// No closing brace: the rest is literal.
			literal.WriteString(source[i:])
			break
		}

		inner := source[i+1 : i+close]
		path, err := expr.ParsePath(strings.TrimSpace(inner))
		if err != nil || strings.TrimSpace(inner) == "" {
			// Not a reference; keep the braces as literal text.
			literal.WriteString(source[i : i+close+1])
			i += close + 1
			continue
		}

		flush()
		chunks = append(chunks, Chunk{Ref: &expr.Ref{Path: path}})
		i += close + 1
	}
	flush()
	return chunks
}

// Expander renders interpolated text against a reference resolver.
//
// Create with NewExpander() and configure with Option functions.
// Expander is safe for concurrent use after construction.
type Expander struct {
	missingAction MissingAction
}

// NewExpander creates a new Expander with the given options.
//
// Default configuration renders unresolved references as empty text
// (MissingEmpty), which is what survey display strings expect.
func NewExpander(opts ...Option) *Expander {
	e := &Expander{missingAction: MissingEmpty}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand renders source, replacing each reference placeholder with the
// resolved value's display text.
//
// Errors are only returned when MissingAction is MissingError and a
// reference resolves to undefined.
func (e *Expander) Expand(source string, r expr.Resolver) (string, error) {
	return e.ExpandChunks(Parse(source), r)
}

// ExpandChunks renders pre-parsed chunks. Callers rendering the same
// template repeatedly should cache the Parse result and use this.
func (e *Expander) ExpandChunks(chunks []Chunk, r expr.Resolver) (string, error) {
	var b strings.Builder
	var missing []string

	for _, c := range chunks {
		if !c.IsRef() {
			b.WriteString(c.Text)
			continue
		}
		v := r.Resolve(c.Ref.Path)
		if v.IsUndefined() {
			switch e.missingAction {
			case MissingKeep:
				b.WriteString(c.Ref.String())
			case MissingError:
				missing = append(missing, c.Ref.Path.String())
			}
			continue
		}
		b.WriteString(v.String())
	}

	if len(missing) > 0 {
		return b.String(), &UnresolvedReferenceError{Paths: missing}
	}
	return b.String(), nil
}

// defaultExpander is the package-level expander with default settings.
var defaultExpander = NewExpander()

// Expand renders interpolated text using the default expander.
// Unresolved references render as empty text.
func Expand(source string, r expr.Resolver) string {
	// Default expander never returns errors (MissingEmpty).
	result, _ := defaultExpander.Expand(source, r)
	return result
}

// UnresolvedReferenceError is returned when MissingError is set and one
// or more references resolved to undefined.
type UnresolvedReferenceError struct {
	// Paths is the list of unresolved reference paths.
	Paths []string
}

// Error implements the error interface.
func (e *UnresolvedReferenceError) Error() string {
	if len(e.Paths) == 1 {
		return "unresolved reference: " + e.Paths[0]
	}
	return "unresolved references: " + strings.Join(e.Paths, ", ")
}
