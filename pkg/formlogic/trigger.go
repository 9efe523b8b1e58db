package formlogic

import (
	"context"
	"fmt"

	"github.com/formlogic/formlogic/pkg/formlogic/expr"
	"github.com/formlogic/formlogic/pkg/formlogic/observability"
)

// triggerState is the runtime of one trigger: the parsed condition and
// the edge-trigger state machine. fired=false is the Armed state,
// fired=true the Fired state. The Armed-to-Fired transition executes
// the action exactly once; the condition returning to false re-arms
// without side effect.
type triggerState struct {
	def  *TriggerDef
	cond expr.Node

	// runExpr is the parsed action expression of a runexpression
	// trigger.
	runExpr expr.Node

	fired    bool
	disabled bool
}

// name identifies the trigger in diagnostics and logs.
func (t *triggerState) name() string {
	return fmt.Sprintf("trigger[%s]", t.def.Type)
}

// buildTriggers parses trigger conditions and action expressions.
// A trigger with an unparseable condition is installed disabled.
func buildTriggers(survey *Survey) ([]*triggerState, []Diagnostic) {
	var triggers []*triggerState
	var diags []Diagnostic

	for _, def := range survey.Triggers {
		t := &triggerState{def: def}
		cond, err := expr.Parse(def.Condition)
		if err != nil {
			t.disabled = true
			diags = append(diags, Diagnostic{Owner: t.name(), Property: "condition", Err: err})
			triggers = append(triggers, t)
			continue
		}
		t.cond = cond

		if def.Type == TriggerRunExpression {
			runExpr, err := expr.Parse(def.Expression)
			if err != nil {
				t.disabled = true
				diags = append(diags, Diagnostic{Owner: t.name(), Property: "runExpression", Err: err})
			} else {
				t.runExpr = runExpr
			}
		}
		triggers = append(triggers, t)
	}
	return triggers, diags
}

// checkTriggers evaluates every trigger condition against the current
// state and fires actions on false-to-true edges. Value-producing
// actions are queued through enqueue and drained by the surrounding
// recompute pass; skip and complete are handed to the navigator.
// Returns the triggers that fired, for loop attribution.
func (s *Session) checkTriggers(ctx context.Context) []*triggerState {
	var firedNow []*triggerState
	for _, t := range s.triggers {
		if t.disabled {
			continue
		}
		cond, err := s.eval.Evaluate(t.cond, s.resolver())
		if err != nil {
			s.addDiagnostic(Diagnostic{Owner: t.name(), Property: "condition", Err: err})
			cond = expr.Undefined()
		}

		if !cond.Truthy() {
			t.fired = false // re-arm
			continue
		}
		if t.fired {
			continue
		}
		t.fired = true
		firedNow = append(firedNow, t)
		observability.LogTriggerFired(s.logger, string(t.def.Type), t.name())
		s.metrics.RecordTriggerFired(ctx, string(t.def.Type))
		s.fireTrigger(t)
	}
	return firedNow
}

// fireTrigger executes one trigger action on its Armed-to-Fired edge.
func (s *Session) fireTrigger(t *triggerState) {
	def := t.def
	switch def.Type {
	case TriggerComplete:
		if s.navigator != nil {
			s.navigator.Completed()
		}

	case TriggerSkip:
		if s.navigator != nil {
			s.navigator.SkipTo(def.GotoName)
		}

	case TriggerSetValue:
		s.enqueue(def.SetToName, expr.From(def.SetValue))

	case TriggerCopyValue:
		s.enqueue(def.ToName, s.values[def.FromName])

	case TriggerRunExpression:
		if t.runExpr == nil {
			return
		}
		result, err := s.eval.Evaluate(t.runExpr, s.resolver())
		if err != nil {
			s.addDiagnostic(Diagnostic{Owner: t.name(), Property: "runExpression", Err: err})
			return
		}
		if def.ResultName != "" {
			s.enqueue(def.ResultName, result)
		}
	}
}
