// Package validation decides whether a wizard step may be left and shows
// per-field error messages through a FieldAccessor.
//
// The rule table (DefaultRules) is keyed by field id; the step table
// (DefaultSteps) says which fields and group checks belong to each step.
// Single-field evaluation order is fixed: required-and-empty, then
// pattern, then custom predicate, then minimum length. The first failure
// wins and only its message is shown.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rosai-assist/rosai/internal/errors"
	"github.com/rosai-assist/rosai/internal/logging"
)

// FieldAccessor is the presentation-side view of the form.
type FieldAccessor interface {
	// Value returns the field's current text and whether the field exists.
	// A radio group's value is the selected option.
	Value(id string) (string, bool)
	SetValue(id, value string)
	// SetInvalid toggles the error indicator on a field.
	SetInvalid(id string, invalid bool)
	// ShowError displays message in the error slot named id.
	ShowError(id, message string)
	ClearError(id string)
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock sets the source of "today" for date checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(v *Validator) { v.logger = l }
}

// WithRules replaces the rule table.
func WithRules(rules map[string]Rule) Option {
	return func(v *Validator) { v.rules = rules }
}

// WithSteps replaces the step table.
func WithSteps(steps map[int]StepSpec) Option {
	return func(v *Validator) { v.steps = steps }
}

// Validator holds no form state of its own; every call reads the fields
// afresh.
type Validator struct {
	fields FieldAccessor
	logger *logging.Logger
	now    func() time.Time
	rules  map[string]Rule
	steps  map[int]StepSpec
}

// New builds a Validator. It fails when a step lists a field that has no
// rule, so a field cannot be added to a step and silently go unchecked.
func New(fields FieldAccessor, opts ...Option) (*Validator, error) {
	v := &Validator{
		fields: fields,
		logger: logging.NopLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = v.logger.WithComponent("validator")
	if v.rules == nil {
		v.rules = DefaultRules(v.now)
	}
	if v.steps == nil {
		v.steps = DefaultSteps()
	}

	for step, spec := range v.steps {
		for _, id := range spec.Fields {
			if _, ok := v.rules[id]; !ok {
				return nil, errors.NewValidationError(fmt.Sprintf("step %d field has no rule", step)).WithField(id)
			}
		}
	}
	for _, id := range CirculationFields {
		if _, ok := v.rules[id]; !ok {
			return nil, errors.NewValidationError("circulation field has no rule").WithField(id)
		}
	}
	return v, nil
}

// Rule returns the rule registered for id.
func (v *Validator) Rule(id string) (Rule, bool) {
	r, ok := v.rules[id]
	return r, ok
}

// Step returns the step table entry for step.
func (v *Validator) Step(step int) (StepSpec, bool) {
	s, ok := v.steps[step]
	return s, ok
}

// run collects the ids marked invalid during one validation pass.
type run struct {
	invalid []string
}

func (r *run) mark(id string) {
	r.invalid = append(r.invalid, id)
}

// ValidateStep clears the step's markers, runs its group checks, then
// checks each field against its rule. It reports whether every check
// passed; failures are shown through the accessor.
func (v *Validator) ValidateStep(step int) bool {
	spec, ok := v.steps[step]
	if !ok {
		v.logger.Error("no validation entry for step", "step", step)
		return false
	}

	v.clear(spec.IDs())

	r := &run{}
	valid := true
	for _, g := range spec.Radios {
		valid = v.checkRadio(g, r) && valid
	}
	for _, d := range spec.Dates {
		valid = v.checkDateSelect(d, r) && valid
	}
	for _, c := range spec.Composites {
		valid = v.checkComposite(c, r) && valid
	}

	values := v.values()
	for _, id := range spec.Fields {
		valid = v.checkField(id, v.rules[id], values, r) && valid
	}

	if !valid {
		v.logger.Warn("step validation failed",
			"step", step,
			"invalid_count", len(r.invalid),
			"invalid_fields", strings.Join(r.invalid, ", "))
	}
	return valid
}

// ValidateField checks one field as the user edits it. Ids without a rule
// pass.
func (v *Validator) ValidateField(id string) bool {
	rule, ok := v.rules[id]
	if !ok {
		return true
	}
	v.clear([]string{id})
	return v.checkField(id, rule, v.values(), &run{})
}

// ValidateCompositeField checks a multi-input value on its own.
func (v *Validator) ValidateCompositeField(rule CompositeRule) bool {
	return v.checkComposite(rule, &run{})
}

// ValidateCirculation checks the fields of the circulation request.
func (v *Validator) ValidateCirculation() bool {
	v.clear(CirculationFields)

	values := v.values()
	r := &run{}
	valid := true
	for _, id := range CirculationFields {
		valid = v.checkField(id, v.rules[id], values, r) && valid
	}
	if !valid {
		v.logger.Warn("circulation request validation failed", "invalid_fields", strings.Join(r.invalid, ", "))
	}
	return valid
}

func (v *Validator) clear(ids []string) {
	for _, id := range ids {
		v.fields.SetInvalid(id, false)
		v.fields.ClearError(id)
	}
}

// values snapshots every field that has a rule, for cross-field checks.
func (v *Validator) values() Values {
	out := make(Values, len(v.rules))
	for id := range v.rules {
		if val, ok := v.fields.Value(id); ok {
			out[id] = val
		}
	}
	return out
}

// checkField applies rule to one field. A field the accessor does not know
// is logged and skipped.
func (v *Validator) checkField(id string, rule Rule, values Values, r *run) bool {
	value, ok := v.fields.Value(id)
	if !ok {
		v.logger.Error("field not found", "field", id)
		return true
	}

	if msg, failed := evaluate(rule, value, values); failed {
		v.fields.SetInvalid(id, true)
		v.fields.ShowError(id, msg)
		r.mark(id)
		return false
	}
	return true
}

// evaluate returns the rule's message when value fails it.
func evaluate(rule Rule, value string, values Values) (string, bool) {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		return rule.Message, rule.Required
	case rule.Pattern != nil && !rule.Pattern.MatchString(value):
		return rule.Message, true
	case rule.Check != nil && !rule.Check(value, values):
		return rule.Message, true
	case rule.MinLength > 0 && utf8.RuneCountInString(value) < rule.MinLength:
		return rule.Message, true
	}
	return "", false
}

// memberValid reports whether a composite member is filled and matches its
// own pattern, if it has one.
func (v *Validator) memberValid(id string) bool {
	value, ok := v.fields.Value(id)
	if !ok || strings.TrimSpace(value) == "" {
		return false
	}
	if rule, ok := v.rules[id]; ok && rule.Pattern != nil {
		return rule.Pattern.MatchString(value)
	}
	return true
}

func (v *Validator) checkComposite(c CompositeRule, r *run) bool {
	var bad []string
	for _, id := range c.Members {
		if !v.memberValid(id) {
			bad = append(bad, id)
		}
	}

	if len(bad) == 0 {
		for _, id := range c.Members {
			v.fields.SetInvalid(id, false)
		}
		v.fields.ClearError(c.ErrorID)
		return true
	}

	for _, id := range bad {
		v.fields.SetInvalid(id, true)
		r.mark(id)
	}
	v.fields.ShowError(c.ErrorID, c.Message)
	return false
}

func (v *Validator) checkRadio(g RadioGroup, r *run) bool {
	if value, ok := v.fields.Value(g.Name); ok && value != "" {
		return true
	}
	v.fields.SetInvalid(g.Name, true)
	v.fields.ShowError(g.Name, g.Message())
	r.mark(g.Name)
	return false
}

func (v *Validator) checkDateSelect(d DateSelect, r *run) bool {
	members := d.Members()
	parts := make([]string, len(members))
	var empty []string
	for i, id := range members {
		parts[i], _ = v.fields.Value(id)
		if parts[i] == "" {
			empty = append(empty, id)
		}
	}

	fail := func(ids []string, msg string) bool {
		for _, id := range ids {
			v.fields.SetInvalid(id, true)
			r.mark(id)
		}
		v.fields.ShowError(d.Base, msg)
		return false
	}

	if len(empty) > 0 {
		return fail(empty, fmt.Sprintf("【%s】の年・月・日をすべて選択してください。", d.Label))
	}

	today := startOfDay(v.now())
	date, ok := buildDate(parts[0], parts[1], parts[2], today.Location())
	if !ok {
		return fail(members, fmt.Sprintf("【%s】を正しく選択してください。", d.Label))
	}

	if d.MaxAge > 0 {
		age := CalendarAge(date, today)
		if !date.Before(today) || age < d.MinAge || age > d.MaxAge {
			return fail(members, fmt.Sprintf("【%s】を正しく選択してください。%d歳以上%d歳以下の日付を選択してください。",
				d.Label, d.MinAge, d.MaxAge))
		}
	}
	return true
}

// FieldIDs returns every id with a rule, sorted.
func (v *Validator) FieldIDs() []string {
	ids := make([]string, 0, len(v.rules))
	for id := range v.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
