package formlogic

import (
	"sort"

	"github.com/formlogic/formlogic/pkg/formlogic/expr"
)

// propKind identifies which logic property a binding implements.
type propKind int

const (
	propVisible propKind = iota
	propEnable
	propRequire
	propSetValue
)

// String returns the property name as it appears in definitions.
func (p propKind) String() string {
	switch p {
	case propVisible:
		return "visibleIf"
	case propEnable:
		return "enableIf"
	case propRequire:
		return "requiredIf"
	case propSetValue:
		return "setValueExpression"
	default:
		return "unknown"
	}
}

// ownerKind distinguishes question- from page-owned bindings.
type ownerKind int

const (
	ownerQuestion ownerKind = iota
	ownerPage
)

// binding associates one logic property with its owning entity and
// parsed expressions. Bindings are created once per session from the
// survey definition and are immutable afterwards, except for the
// disabled flag set by cycle detection and loop reporting.
type binding struct {
	owner     string
	ownerKind ownerKind
	prop      propKind

	// cond is the gate expression (visibleIf/enableIf/requiredIf, or
	// setValueIf for setValue bindings). nil means always-true for
	// setValue bindings without a gate; a binding whose source text
	// failed to parse is installed disabled.
	cond expr.Node

	// valueExpr is the value-producing expression of a setValue
	// binding; nil for flag bindings.
	valueExpr expr.Node

	// refs is the set of root question identifiers the binding reads,
	// computed once at parse time by walking both ASTs.
	refs []string

	// order is the definition position (page order, then question
	// order within page) used for deterministic recompute ordering.
	order int

	disabled bool
}

// referencesAny reports whether the binding reads any of the names.
func (b *binding) referencesAny(names map[string]struct{}) bool {
	for _, r := range b.refs {
		if _, ok := names[r]; ok {
			return true
		}
	}
	return false
}

// buildBindings parses every logic property of the survey into
// bindings, in definition order. Parse failures do not abort the
// session: the faulty binding is installed disabled (always-false /
// no-op) and reported as a diagnostic.
func buildBindings(survey *Survey) ([]*binding, []Diagnostic) {
	var bindings []*binding
	var diags []Diagnostic
	order := 0

	parse := func(owner string, kind ownerKind, prop propKind, source string) *binding {
		b := &binding{owner: owner, ownerKind: kind, prop: prop, order: order}
		order++
		node, err := expr.Parse(source)
		if err != nil {
			b.disabled = true
			diags = append(diags, Diagnostic{Owner: owner, Property: prop.String(), Err: err})
			return b
		}
		b.cond = node
		b.refs = expr.References(node)
		return b
	}

	for _, page := range survey.Pages {
		if page.VisibleIf != "" {
			bindings = append(bindings, parse(page.Name, ownerPage, propVisible, page.VisibleIf))
		}
		if page.EnableIf != "" {
			bindings = append(bindings, parse(page.Name, ownerPage, propEnable, page.EnableIf))
		}
		if page.RequiredIf != "" {
			bindings = append(bindings, parse(page.Name, ownerPage, propRequire, page.RequiredIf))
		}
		for _, q := range page.Questions {
			if q.VisibleIf != "" {
				bindings = append(bindings, parse(q.Name, ownerQuestion, propVisible, q.VisibleIf))
			}
			if q.EnableIf != "" {
				bindings = append(bindings, parse(q.Name, ownerQuestion, propEnable, q.EnableIf))
			}
			if q.RequiredIf != "" {
				bindings = append(bindings, parse(q.Name, ownerQuestion, propRequire, q.RequiredIf))
			}
			if q.SetValueExpression != "" {
				bindings = append(bindings, buildSetValueBinding(q, &order, &diags))
			}
		}
	}
	return bindings, diags
}

// buildSetValueBinding parses a setValueIf/setValueExpression pair.
// The reference set spans both the gate and the value expression.
func buildSetValueBinding(q *Question, order *int, diags *[]Diagnostic) *binding {
	b := &binding{owner: q.Name, ownerKind: ownerQuestion, prop: propSetValue, order: *order}
	*order++

	valueExpr, err := expr.Parse(q.SetValueExpression)
	if err != nil {
		b.disabled = true
		*diags = append(*diags, Diagnostic{Owner: q.Name, Property: "setValueExpression", Err: err})
		return b
	}
	b.valueExpr = valueExpr
	refs := map[string]struct{}{}
	for _, r := range expr.References(valueExpr) {
		refs[r] = struct{}{}
	}

	if q.SetValueIf != "" {
		cond, err := expr.Parse(q.SetValueIf)
		if err != nil {
			b.disabled = true
			*diags = append(*diags, Diagnostic{Owner: q.Name, Property: "setValueIf", Err: err})
			return b
		}
		b.cond = cond
		for _, r := range expr.References(cond) {
			refs[r] = struct{}{}
		}
	}

	for r := range refs {
		b.refs = append(b.refs, r)
	}
	sort.Strings(b.refs)
	return b
}
