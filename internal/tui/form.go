package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/rosai-assist/rosai/internal/validation"
)

// CirculationSection is the layout key of the circulation request inputs.
// It is never a step id.
const CirculationSection = 0

var dateSuffixes = []string{"（年）", "（月）", "（日）"}

type inputKind int

const (
	kindText inputKind = iota
	kindChoice
)

// field is one input on screen: free text or a radio-style choice.
type field struct {
	id      string
	label   string
	kind    inputKind
	options []string
	choice  int
	text    textinput.Model
}

func newTextField(id, label string, limit int) *field {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = limit
	if strings.HasSuffix(id, "Date") {
		ti.Placeholder = "YYYY-MM-DD"
	}
	return &field{id: id, label: label, kind: kindText, choice: -1, text: ti}
}

func newChoiceField(id, label string, options []string) *field {
	return &field{id: id, label: label, kind: kindChoice, options: options, choice: -1}
}

func (f *field) value() string {
	if f.kind == kindChoice {
		if f.choice < 0 || f.choice >= len(f.options) {
			return ""
		}
		return f.options[f.choice]
	}
	return f.text.Value()
}

func (f *field) setValue(v string) {
	if f.kind == kindChoice {
		f.choice = -1
		for i, o := range f.options {
			if o == v {
				f.choice = i
			}
		}
		return
	}
	f.text.SetValue(v)
}

// cycle moves a choice field by delta options, wrapping around.
func (f *field) cycle(delta int) {
	if f.kind != kindChoice || len(f.options) == 0 {
		return
	}
	if f.choice < 0 {
		f.choice = 0
		return
	}
	n := len(f.options)
	f.choice = ((f.choice+delta)%n + n) % n
}

// Form holds every input of the wizard and the error markers the validator
// sets on them. It implements validation.FieldAccessor.
type Form struct {
	fields  map[string]*field
	layout  map[int][]string
	errIDs  map[int][]string
	invalid map[string]bool
	errs    map[string]string
}

// NewForm lays out inputs for every step in steps, labelled from rules.
func NewForm(steps map[int]validation.StepSpec, rules map[string]validation.Rule) *Form {
	f := &Form{
		fields:  make(map[string]*field),
		layout:  make(map[int][]string),
		errIDs:  make(map[int][]string),
		invalid: make(map[string]bool),
		errs:    make(map[string]string),
	}

	for step, spec := range steps {
		var ids []string
		add := func(fl *field) {
			if _, ok := f.fields[fl.id]; !ok {
				f.fields[fl.id] = fl
			}
			ids = append(ids, fl.id)
		}

		for _, r := range spec.Radios {
			add(newChoiceField(r.Name, r.Label, r.Options))
		}
		for _, d := range spec.Dates {
			for i, id := range d.Members() {
				limit := 2
				if i == 0 {
					limit = 4
				}
				add(newTextField(id, d.Label+dateSuffixes[i], limit))
			}
		}
		for _, id := range spec.Fields {
			add(newTextField(id, rules[id].Label, 200))
		}

		f.layout[step] = ids
		f.errIDs[step] = dedupe(spec.IDs())
	}

	var circ []string
	for _, id := range validation.CirculationFields {
		if _, ok := f.fields[id]; !ok {
			f.fields[id] = newTextField(id, rules[id].Label, 254)
		}
		circ = append(circ, id)
	}
	f.layout[CirculationSection] = circ
	f.errIDs[CirculationSection] = circ

	return f
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Load fills inputs from saved form data. Unknown names are ignored.
func (f *Form) Load(data map[string]any) {
	for name, v := range data {
		fl, ok := f.fields[name]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			fl.setValue(s)
		}
	}
}

// Layout returns the input ids of a step or section in display order.
func (f *Form) Layout(section int) []string {
	return f.layout[section]
}

// Label returns the display label of an input.
func (f *Form) Label(id string) string {
	if fl, ok := f.fields[id]; ok {
		return fl.label
	}
	return id
}

// Messages returns the error messages currently shown for section, in
// layout order.
func (f *Form) Messages(section int) []string {
	var out []string
	for _, id := range f.errIDs[section] {
		if msg, ok := f.errs[id]; ok {
			out = append(out, msg)
		}
	}
	return out
}

// Value implements validation.FieldAccessor.
func (f *Form) Value(id string) (string, bool) {
	fl, ok := f.fields[id]
	if !ok {
		return "", false
	}
	return fl.value(), true
}

// SetValue implements validation.FieldAccessor. Unknown ids are ignored.
func (f *Form) SetValue(id, value string) {
	if fl, ok := f.fields[id]; ok {
		fl.setValue(value)
	}
}

// SetInvalid implements validation.FieldAccessor.
func (f *Form) SetInvalid(id string, invalid bool) {
	if invalid {
		f.invalid[id] = true
	} else {
		delete(f.invalid, id)
	}
}

// ShowError implements validation.FieldAccessor.
func (f *Form) ShowError(id, message string) {
	f.errs[id] = message
}

// ClearError implements validation.FieldAccessor.
func (f *Form) ClearError(id string) {
	delete(f.errs, id)
}

// Invalid reports whether id carries the error marker.
func (f *Form) Invalid(id string) bool {
	return f.invalid[id]
}

// Entry is one filled-in input as shown on the confirmation screen.
type Entry struct {
	ID    string
	Label string
	Value string
}

// Entries returns the non-empty inputs of section in layout order.
func (f *Form) Entries(section int) []Entry {
	var out []Entry
	for _, id := range f.layout[section] {
		fl := f.fields[id]
		if v := fl.value(); v != "" {
			out = append(out, Entry{ID: id, Label: fl.label, Value: v})
		}
	}
	return out
}

func (f *Form) field(id string) *field {
	return f.fields[id]
}

func (f *Form) blur(section int) {
	for _, id := range f.layout[section] {
		f.fields[id].text.Blur()
	}
}
