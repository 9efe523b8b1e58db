/*
Package formlogic provides conditional logic for dynamic surveys and
forms.

# Overview

formlogic is a Go library for driving reactive form behavior from
declarative expressions. A survey definition attaches logic expressions
to pages and questions (visibleIf, enableIf, requiredIf, setValueIf)
and survey-level triggers; a Session holds the answers and keeps every
derived flag and computed value consistent as answers change.

The library gives you:
  - An expression language with references to answers, comparison and
    arithmetic operators, and a built-in function library (see the
    expr subpackage)
  - A dependency graph so an answer change re-evaluates only the
    expressions that read it
  - Run-to-completion recompute passes with cycle detection and an
    iteration cap, so misconfigured logic degrades to a diagnostic
    instead of a hang
  - Edge-triggered survey actions (complete, skip, setValue,
    copyValue, runExpression)
  - Text interpolation for titles and descriptions (see the template
    subpackage)

# Basic Usage

Define a survey, open a session, and write answers:

	survey := &formlogic.Survey{
	    Name: "intake",
	    Pages: []*formlogic.Page{{
	        Name: "about",
	        Questions: []*formlogic.Question{
	            {Name: "age"},
	            {Name: "drink", VisibleIf: "{age} >= 18"},
	        },
	    }},
	}

	session, err := formlogic.NewSession(survey)
	if err != nil {
	    log.Fatal(err)
	}

	session.SetValue("age", 17)
	fmt.Println(session.IsVisible("drink")) // false

	session.SetValue("age", 18)
	fmt.Println(session.IsVisible("drink")) // true

# Change Notification

Subscribe to observe which questions and pages changed in a pass.
Listeners fire once per pass with the batched, sorted change set:

	unsubscribe := session.Subscribe(func(changed []string) {
	    fmt.Println("changed:", changed)
	})
	defer unsubscribe()

# Triggers

Survey-level triggers fire when their condition transitions from false
to true and re-arm when it goes false again:

	survey.Triggers = []*formlogic.TriggerDef{{
	    Type:      formlogic.TriggerCopyValue,
	    Condition: "{sameAddress} = true",
	    FromName:  "homeAddress",
	    ToName:    "billingAddress",
	}}

# Faulty Logic

Expressions that fail to parse disable their binding; cyclic setValue
chains are rejected when the session is built; logic that never settles
is cut off at the iteration cap. All of these surface through
Session.Diagnostics rather than through SetValue errors, so a broken
expression never takes the whole survey down.

# Related Packages

  - expr: lexer, parser, and evaluator for the expression language
  - template: {reference} interpolation for display text
  - config: YAML/JSON survey loading
  - store: survey definition and submission persistence
  - observability: logging, metrics, and tracing helpers
*/
package formlogic
