package formlogic

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/formlogic/formlogic/pkg/formlogic/expr"
	"github.com/formlogic/formlogic/pkg/formlogic/observability"
	"github.com/formlogic/formlogic/pkg/formlogic/template"
)

// flagState holds the raw derived flags of one question or page, as
// produced by its own bindings. Effective flags (page forcing rules)
// are computed at read time.
type flagState struct {
	visible  bool
	enabled  bool
	required bool
}

// pendingWrite is a queued value write produced inside a recompute
// pass by a trigger or a re-entrant SetValue call. Queued writes are
// drained within the same pass rather than recursively nested, which
// keeps the deterministic binding order intact.
type pendingWrite struct {
	name  string
	value expr.Value
}

// Session is the survey state store: the authoritative mapping from
// question identifier to current answer value plus derived
// visible/enabled/required flags, with change propagation through the
// dependency graph and trigger dispatch.
//
// A Session is exclusive to one survey-taking session and is not safe
// for concurrent use. Every SetValue call fully completes its
// recompute pass before returning, so callers always observe a
// consistent, settled state.
type Session struct {
	id     string
	survey *Survey

	eval     *expr.Evaluator
	bindings []*binding
	deps     *depIndex
	triggers []*triggerState

	values map[string]expr.Value
	qflags map[string]*flagState
	pflags map[string]*flagState

	// pageOf maps question name to owning page name.
	pageOf map[string]string

	listeners  map[int]ChangeListener
	nextListID int

	diags []Diagnostic

	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
	navigator Navigator

	iterationCap int

	inPass           bool
	pending          []pendingWrite
	unstableReported bool
}

// NewSession creates the state store for one survey-taking session.
// All logic expressions are parsed here; parse failures and cyclic
// setValue configurations do not fail construction, they disable the
// offending binding and surface as Diagnostics. Construction ends with
// an initial recompute pass so flags are consistent with the seeded
// answers before the first read.
func NewSession(survey *Survey, opts ...Option) (*Session, error) {
	if survey == nil {
		return nil, fmt.Errorf("survey cannot be nil")
	}
	if err := survey.Validate(); err != nil {
		return nil, err
	}

	cfg := defaultSessionConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	s := &Session{
		id:           cfg.id,
		survey:       survey,
		eval:         expr.NewEvaluator(cfg.evalOpts...),
		values:       make(map[string]expr.Value),
		qflags:       make(map[string]*flagState),
		pflags:       make(map[string]*flagState),
		pageOf:       make(map[string]string),
		listeners:    make(map[int]ChangeListener),
		logger:       observability.EnrichLogger(cfg.logger, cfg.id, survey.Name),
		metrics:      cfg.metrics,
		spans:        cfg.spans,
		navigator:    cfg.navigator,
		iterationCap: cfg.iterationCap,
	}

	for _, page := range survey.Pages {
		s.pflags[page.Name] = &flagState{visible: true, enabled: true}
		for _, q := range page.Questions {
			s.qflags[q.Name] = &flagState{visible: true, enabled: true}
			s.pageOf[q.Name] = page.Name
		}
	}

	var diags []Diagnostic
	s.bindings, diags = buildBindings(survey)
	s.diags = append(s.diags, diags...)

	// Cyclic setValue configurations are rejected at bind time, never
	// at evaluation time.
	for _, b := range detectSetValueCycles(s.bindings) {
		b.disabled = true
		err := &ConfigError{Kind: CyclicSetValue, Owner: b.owner}
		s.addDiagnostic(Diagnostic{Owner: b.owner, Property: b.prop.String(), Err: err})
		observability.LogBindingDisabled(s.logger, b.owner, err)
	}

	s.deps = newDepIndex(s.bindings)

	s.triggers, diags = buildTriggers(survey)
	s.diags = append(s.diags, diags...)

	s.seedAnswers(cfg.answers)

	observability.LogSessionStart(s.logger, s.id, len(s.bindings), len(s.triggers))

	// Initial pass: every binding runs once so flags reflect the
	// seeded answers.
	s.recompute(nil, true)
	return s, nil
}

// seedAnswers applies initial answers and question defaults before the
// first recompute pass. DefaultValueExpression takes precedence over
// DefaultValue and is evaluated once against the initial answers.
func (s *Session) seedAnswers(answers map[string]any) {
	for name, v := range answers {
		if _, known := s.qflags[name]; known {
			s.values[name] = expr.From(v)
		}
	}
	for _, page := range s.survey.Pages {
		for _, q := range page.Questions {
			if _, answered := s.values[q.Name]; answered {
				continue
			}
			switch {
			case q.DefaultValueExpression != "":
				node, err := expr.Parse(q.DefaultValueExpression)
				if err != nil {
					s.addDiagnostic(Diagnostic{Owner: q.Name, Property: "defaultValueExpression", Err: err})
					continue
				}
				v, err := s.eval.Evaluate(node, s.resolver())
				if err != nil {
					s.addDiagnostic(Diagnostic{Owner: q.Name, Property: "defaultValueExpression", Err: err})
					continue
				}
				if !v.IsUndefined() {
					s.values[q.Name] = v
				}
			case q.DefaultValue != nil:
				s.values[q.Name] = expr.From(q.DefaultValue)
			}
		}
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Survey returns the survey definition this session runs.
func (s *Session) Survey() *Survey { return s.survey }

// SetValue writes a question's answer and synchronously runs one
// recompute pass: affected bindings re-evaluate in definition order,
// derived flags and values update, and triggers fire on
// false-to-true edges, all before SetValue returns.
//
// Writing the value a question already holds is a no-op: no pass runs
// and no listener is notified. Re-entrant calls from inside a pass
// (trigger actions, listeners) are queued and drained within that
// pass.
func (s *Session) SetValue(name string, value any) error {
	if _, known := s.qflags[name]; !known {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, name)
	}
	v := expr.From(value)
	if s.inPass {
		s.enqueue(name, v)
		return nil
	}
	if s.values[name].Equal(v) {
		return nil
	}
	s.recompute([]pendingWrite{{name: name, value: v}}, false)
	return nil
}

// ClearValue removes a question's answer, with the same pass semantics
// as SetValue.
func (s *Session) ClearValue(name string) error {
	return s.SetValue(name, nil)
}

// Value returns the current answer of a question. Unanswered questions
// return the undefined value.
func (s *Session) Value(name string) expr.Value {
	return s.values[name]
}

// Answers exports every defined answer as loosely-typed Go values, for
// hand-off to the persistence collaborator.
func (s *Session) Answers() map[string]any {
	out := make(map[string]any, len(s.values))
	for name, v := range s.values {
		if v.IsUndefined() {
			continue
		}
		out[name] = v.Interface()
	}
	return out
}

// IsVisible reports the effective visibility of a question or page.
// A question on a hidden page is hidden regardless of its own
// visibleIf.
func (s *Session) IsVisible(name string) bool {
	if f, ok := s.qflags[name]; ok {
		return f.visible && s.pageVisible(s.pageOf[name])
	}
	if f, ok := s.pflags[name]; ok {
		return f.visible
	}
	return false
}

// IsEnabled reports the effective enablement of a question or page.
// A question on a disabled page is disabled without altering its
// required flag.
func (s *Session) IsEnabled(name string) bool {
	if f, ok := s.qflags[name]; ok {
		return f.enabled && s.pageEnabled(s.pageOf[name])
	}
	if f, ok := s.pflags[name]; ok {
		return f.enabled
	}
	return false
}

// IsRequired reports the effective requiredness of a question or page.
// Hidden questions are never required: a page hidden by visibleIf
// forces required=false for every question on it.
func (s *Session) IsRequired(name string) bool {
	if f, ok := s.qflags[name]; ok {
		return f.required && s.IsVisible(name)
	}
	if f, ok := s.pflags[name]; ok {
		return f.required
	}
	return false
}

func (s *Session) pageVisible(name string) bool {
	f, ok := s.pflags[name]
	return ok && f.visible
}

func (s *Session) pageEnabled(name string) bool {
	f, ok := s.pflags[name]
	return ok && f.enabled
}

// PageRequirementMet reports whether a page-level requiredIf is
// satisfied: a page that is not required is always satisfied, a
// required page is satisfied once at least one of its questions has a
// defined, non-empty value.
func (s *Session) PageRequirementMet(pageName string) bool {
	if !s.IsRequired(pageName) {
		return true
	}
	page := s.survey.PageByName(pageName)
	if page == nil {
		return true
	}
	for _, q := range page.Questions {
		if !s.values[q.Name].IsEmpty() {
			return true
		}
	}
	return false
}

// Subscribe registers a listener invoked once per recompute pass with
// the sorted set of changed question/page identifiers. It returns an
// unsubscribe function.
func (s *Session) Subscribe(listener ChangeListener) func() {
	id := s.nextListID
	s.nextListID++
	s.listeners[id] = listener
	return func() { delete(s.listeners, id) }
}

// DisplayText renders interpolated display text (titles, descriptions,
// HTML snippets) against the current answers. Unresolved references
// render as empty text.
func (s *Session) DisplayText(source string) string {
	return template.Expand(source, s.resolver())
}

// Diagnostics returns the non-fatal problems collected so far: parse
// failures, evaluation errors, and disabled bindings or triggers.
func (s *Session) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.diags))
	copy(out, s.diags)
	return out
}

// Complete validates that every effectively-required question has a
// non-empty answer and that every required page is satisfied. On
// success it reports completion to the navigator and returns the final
// answers; on failure it returns the per-question validation errors.
func (s *Session) Complete() (map[string]any, error) {
	var errs ValidationErrors
	for _, page := range s.survey.Pages {
		if s.IsVisible(page.Name) && !s.PageRequirementMet(page.Name) {
			errs = append(errs, &ValidationError{Question: page.Name})
		}
		for _, q := range page.Questions {
			if s.IsRequired(q.Name) && s.values[q.Name].IsEmpty() {
				errs = append(errs, &ValidationError{Question: q.Name})
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	if s.navigator != nil {
		s.navigator.Completed()
	}
	return s.Answers(), nil
}

// resolver adapts the value map to the evaluator's Resolver interface.
// Index and child segments descend into sequence/structured answers;
// any miss yields undefined.
func (s *Session) resolver() expr.Resolver {
	return expr.ResolverFunc(func(path expr.Path) expr.Value {
		return expr.WalkPath(s.values[path.Root()], path)
	})
}

func (s *Session) enqueue(name string, v expr.Value) {
	if _, known := s.qflags[name]; !known {
		s.addDiagnostic(Diagnostic{
			Owner:    name,
			Property: "setValue",
			Err:      fmt.Errorf("%w: %s", ErrUnknownQuestion, name),
		})
		return
	}
	s.pending = append(s.pending, pendingWrite{name: name, value: v})
}

func (s *Session) addDiagnostic(d Diagnostic) {
	s.diags = append(s.diags, d)
}

// applyValue writes a value and reports whether it actually changed.
func (s *Session) applyValue(name string, v expr.Value) bool {
	if s.values[name].Equal(v) {
		return false
	}
	if v.IsUndefined() {
		delete(s.values, name)
	} else {
		s.values[name] = v
	}
	return true
}

// snapEntry captures one identifier's observable state for change
// diffing.
type snapEntry struct {
	value    expr.Value
	visible  bool
	enabled  bool
	required bool
}

// snapshot captures the effective state of every question and page.
// The diff against it at the end of a pass is what listeners see.
func (s *Session) snapshot() map[string]snapEntry {
	snap := make(map[string]snapEntry, len(s.qflags)+len(s.pflags))
	for name := range s.qflags {
		snap[name] = snapEntry{
			value:    s.values[name],
			visible:  s.IsVisible(name),
			enabled:  s.IsEnabled(name),
			required: s.IsRequired(name),
		}
	}
	for name := range s.pflags {
		snap[name] = snapEntry{
			visible:  s.IsVisible(name),
			enabled:  s.IsEnabled(name),
			required: s.IsRequired(name),
		}
	}
	return snap
}

// diff returns the sorted identifiers whose observable state differs
// from the snapshot.
func (s *Session) diff(before map[string]snapEntry) []string {
	var changed []string
	for name, prev := range before {
		cur := snapEntry{
			visible:  s.IsVisible(name),
			enabled:  s.IsEnabled(name),
			required: s.IsRequired(name),
		}
		if _, isQuestion := s.qflags[name]; isQuestion {
			cur.value = s.values[name]
		}
		if !cur.value.Equal(prev.value) || cur.visible != prev.visible ||
			cur.enabled != prev.enabled || cur.required != prev.required {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}

// recompute runs one synchronous pass to a fixed point: apply writes,
// re-evaluate affected bindings in definition order, dispatch
// triggers, drain queued trigger writes, and repeat until nothing
// changes or the iteration cap is hit. Listeners are notified once at
// the end with the batched change set.
func (s *Session) recompute(writes []pendingWrite, evalAll bool) {
	start := time.Now()
	seed := seedLabel(writes, evalAll)
	ctx, span := s.spans.StartPassSpan(context.Background(), seed)

	before := s.snapshot()
	s.inPass = true
	var firedThisPass []*triggerState

	dirty := make(map[string]struct{})
	for _, w := range writes {
		if s.applyValue(w.name, w.value) {
			dirty[w.name] = struct{}{}
		}
	}

	iterations := 0
	capped := false
	for {
		var affected []*binding
		if evalAll {
			evalAll = false
			for _, b := range s.bindings {
				if !b.disabled {
					affected = append(affected, b)
				}
			}
		} else {
			if len(dirty) == 0 && len(s.pending) == 0 {
				break
			}
			if iterations >= s.iterationCap {
				capped = true
				break
			}
			affected = s.deps.affected(dirty)
		}
		iterations++
		dirty = make(map[string]struct{})

		for _, b := range affected {
			if owner, changed := s.evalBinding(ctx, b); changed {
				dirty[owner] = struct{}{}
			}
		}

		firedThisPass = append(firedThisPass, s.checkTriggers(ctx)...)

		queued := s.pending
		s.pending = nil
		for _, w := range queued {
			if s.applyValue(w.name, w.value) {
				dirty[w.name] = struct{}{}
			}
		}
	}
	if capped {
		s.reportLoop(firedThisPass)
		s.pending = nil
	}
	s.inPass = false

	changed := s.diff(before)
	duration := time.Since(start)
	s.metrics.RecordPass(ctx, iterations, duration)
	s.spans.EndSpanWithError(span, nil)
	observability.LogPassComplete(s.logger, seed, iterations, len(changed),
		float64(duration.Microseconds())/1000)

	if len(changed) > 0 {
		for _, listener := range s.listeners {
			listener(changed)
		}
	}
}

// evalBinding evaluates one binding and applies its output. The second
// result reports a value change that must propagate to dependents;
// flag changes never feed back into expressions.
func (s *Session) evalBinding(ctx context.Context, b *binding) (string, bool) {
	cond := expr.Bool(true)
	if b.cond != nil {
		v, err := s.eval.Evaluate(b.cond, s.resolver())
		s.metrics.RecordEvaluation(ctx, b.owner, err)
		if err != nil {
			// Non-fatal: the binding's result for this pass falls back
			// to false/undefined.
			s.addDiagnostic(Diagnostic{Owner: b.owner, Property: b.prop.String(), Err: err})
			observability.LogBindingError(s.logger, b.owner, b.prop.String(), err)
			v = expr.Undefined()
		}
		cond = v
	}

	flags := s.qflags[b.owner]
	if b.ownerKind == ownerPage {
		flags = s.pflags[b.owner]
	}

	switch b.prop {
	case propVisible:
		flags.visible = cond.Truthy()
	case propEnable:
		flags.enabled = cond.Truthy()
	case propRequire:
		flags.required = cond.Truthy()
	case propSetValue:
		if !cond.Truthy() {
			return b.owner, false
		}
		v, err := s.eval.Evaluate(b.valueExpr, s.resolver())
		s.metrics.RecordEvaluation(ctx, b.owner, err)
		if err != nil {
			s.addDiagnostic(Diagnostic{Owner: b.owner, Property: b.prop.String(), Err: err})
			observability.LogBindingError(s.logger, b.owner, b.prop.String(), err)
			v = expr.Undefined()
		}
		return b.owner, s.applyValue(b.owner, v)
	}
	return b.owner, false
}

// reportLoop attributes a cap overrun: trigger-driven feedback is a
// TriggerLoop and disables the offending triggers; anything else is
// UnstableLogic, reported once per session.
func (s *Session) reportLoop(fired []*triggerState) {
	if len(fired) > 0 {
		seen := make(map[*triggerState]struct{})
		for _, t := range fired {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			t.disabled = true
			err := &ConfigError{Kind: TriggerLoop, Owner: t.name()}
			s.addDiagnostic(Diagnostic{Owner: t.name(), Property: "condition", Err: err})
			observability.LogBindingDisabled(s.logger, t.name(), err)
		}
		return
	}
	if s.unstableReported {
		return
	}
	s.unstableReported = true
	err := &ConfigError{Kind: UnstableLogic, Owner: s.survey.Name,
		Message: fmt.Sprintf("no fixed point within %d iterations", s.iterationCap)}
	s.addDiagnostic(Diagnostic{Owner: s.survey.Name, Property: "logic", Err: err})
	observability.LogBindingDisabled(s.logger, s.survey.Name, err)
}

func seedLabel(writes []pendingWrite, evalAll bool) string {
	if evalAll {
		return "initial"
	}
	names := make([]string, len(writes))
	for i, w := range writes {
		names[i] = w.name
	}
	return strings.Join(names, ",")
}
