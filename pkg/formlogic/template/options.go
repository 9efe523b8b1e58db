package template

// MissingAction specifies how unresolved references are rendered.
type MissingAction int

const (
	// MissingEmpty replaces the placeholder with empty text when the
	// reference resolves to undefined. This is the default behavior.
	MissingEmpty MissingAction = iota

	// MissingKeep keeps the placeholder as-is when the reference
	// resolves to undefined.
	MissingKeep

	// MissingError returns an error when a reference resolves to
	// undefined.
	MissingError
)

// Option configures an Expander.
type Option func(*Expander)

// WithMissingAction sets how unresolved references are handled.
//
// Default: MissingEmpty (render as empty text)
//
// Example:
//
//	exp := template.NewExpander(template.WithMissingAction(template.MissingError))
//	_, err := exp.Expand("{missing}", resolver)
//	// err: "unresolved reference: missing"
func WithMissingAction(action MissingAction) Option {
	return func(e *Expander) {
		e.missingAction = action
	}
}
