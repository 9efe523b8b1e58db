package formlogic

import (
	"fmt"
	"strings"
)

// Survey is an immutable survey definition: pages of questions plus
// survey-level triggers. Logic properties are expression strings;
// they are parsed once when a Session is created.
//
// A Survey carries no answer state. Create one Session per
// survey-taking session; the definition can be shared across sessions.
type Survey struct {
	Name        string        `yaml:"name" json:"name"`
	Title       string        `yaml:"title,omitempty" json:"title,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Pages       []*Page       `yaml:"pages" json:"pages"`
	Triggers    []*TriggerDef `yaml:"triggers,omitempty" json:"triggers,omitempty"`
}

// Page groups questions and carries page-level logic. A page hidden by
// visibleIf excludes its questions from required-ness checks; a page
// disabled by enableIf disables its questions without altering their
// required flags.
type Page struct {
	Name       string      `yaml:"name" json:"name"`
	Title      string      `yaml:"title,omitempty" json:"title,omitempty"`
	VisibleIf  string      `yaml:"visibleIf,omitempty" json:"visibleIf,omitempty"`
	EnableIf   string      `yaml:"enableIf,omitempty" json:"enableIf,omitempty"`
	RequiredIf string      `yaml:"requiredIf,omitempty" json:"requiredIf,omitempty"`
	Questions  []*Question `yaml:"questions" json:"questions"`
}

// Question is a single survey question and its logic properties.
// Rendering (the widget type) is outside the engine; the engine only
// tracks the value and the derived visible/enabled/required flags.
type Question struct {
	Name        string `yaml:"name" json:"name"`
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	VisibleIf  string `yaml:"visibleIf,omitempty" json:"visibleIf,omitempty"`
	EnableIf   string `yaml:"enableIf,omitempty" json:"enableIf,omitempty"`
	RequiredIf string `yaml:"requiredIf,omitempty" json:"requiredIf,omitempty"`

	// SetValueIf gates SetValueExpression: the value expression is
	// applied to this question only while the gate is true.
	SetValueIf         string `yaml:"setValueIf,omitempty" json:"setValueIf,omitempty"`
	SetValueExpression string `yaml:"setValueExpression,omitempty" json:"setValueExpression,omitempty"`

	// DefaultValue seeds the answer at session start.
	// DefaultValueExpression takes precedence when both are set; it is
	// evaluated once against the initial answers.
	DefaultValue           any    `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
	DefaultValueExpression string `yaml:"defaultValueExpression,omitempty" json:"defaultValueExpression,omitempty"`
}

// TriggerType identifies the action a trigger performs.
type TriggerType string

const (
	// TriggerComplete reports survey completion to the navigator.
	TriggerComplete TriggerType = "complete"
	// TriggerSetValue writes a fixed value to a question.
	TriggerSetValue TriggerType = "setvalue"
	// TriggerCopyValue copies one question's value into another.
	TriggerCopyValue TriggerType = "copyvalue"
	// TriggerRunExpression evaluates an expression, optionally storing
	// the result in a question.
	TriggerRunExpression TriggerType = "runexpression"
	// TriggerSkip reports a navigation jump to the navigator.
	TriggerSkip TriggerType = "skip"
)

// TriggerDef is a survey-level reaction: when the condition expression
// transitions from false to true, the action fires exactly once. The
// condition returning to false re-arms the trigger.
type TriggerDef struct {
	Type      TriggerType `yaml:"type" json:"type"`
	Condition string      `yaml:"condition" json:"condition"`

	// setvalue
	SetToName string `yaml:"setToName,omitempty" json:"setToName,omitempty"`
	SetValue  any    `yaml:"setValue,omitempty" json:"setValue,omitempty"`

	// copyvalue
	FromName string `yaml:"fromName,omitempty" json:"fromName,omitempty"`
	ToName   string `yaml:"toName,omitempty" json:"toName,omitempty"`

	// runexpression
	Expression string `yaml:"runExpression,omitempty" json:"runExpression,omitempty"`
	ResultName string `yaml:"resultName,omitempty" json:"resultName,omitempty"`

	// skip
	GotoName string `yaml:"gotoName,omitempty" json:"gotoName,omitempty"`
}

// Validate checks structural integrity of the definition: non-empty
// page and question names, no duplicates, and known trigger types.
func (s *Survey) Validate() error {
	seen := make(map[string]struct{})
	for pi, page := range s.Pages {
		if strings.TrimSpace(page.Name) == "" {
			return fmt.Errorf("%w: page %d", ErrUnnamedPage, pi)
		}
		if _, dup := seen[page.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateName, page.Name)
		}
		seen[page.Name] = struct{}{}
		for qi, q := range page.Questions {
			if strings.TrimSpace(q.Name) == "" {
				return fmt.Errorf("%w: page %s question %d", ErrUnnamedQuestion, page.Name, qi)
			}
			if _, dup := seen[q.Name]; dup {
				return fmt.Errorf("%w: %s", ErrDuplicateName, q.Name)
			}
			seen[q.Name] = struct{}{}
		}
	}
	for ti, trig := range s.Triggers {
		switch trig.Type {
		case TriggerComplete, TriggerSetValue, TriggerCopyValue, TriggerRunExpression, TriggerSkip:
		default:
			return fmt.Errorf("%w: trigger %d type %q", ErrUnknownTriggerType, ti, trig.Type)
		}
	}
	return nil
}

// QuestionByName returns the question with the given name, or nil.
func (s *Survey) QuestionByName(name string) *Question {
	for _, page := range s.Pages {
		for _, q := range page.Questions {
			if q.Name == name {
				return q
			}
		}
	}
	return nil
}

// PageByName returns the page with the given name, or nil.
func (s *Survey) PageByName(name string) *Page {
	for _, page := range s.Pages {
		if page.Name == name {
			return page
		}
	}
	return nil
}

// PageOf returns the page containing the named question, or nil.
func (s *Survey) PageOf(name string) *Page {
	for _, page := range s.Pages {
		for _, q := range page.Questions {
			if q.Name == name {
				return page
			}
		}
	}
	return nil
}
