package schema

import "strings"

// Step is one entry of a steps list. The concrete type is one of
// *InlineStep, *FileRefStep or *BlockStep, or *MalformedStep when the
// entry is not a JSON object.
type Step interface {
	// Raw returns the decoded JSON object the step was classified from.
	Raw() map[string]any
	isStep()
}

// InlineStep is an action or an assertion.
type InlineStep struct {
	raw map[string]any
}

// FileRefStep invokes cases of another test file. Flow tests only.
type FileRefStep struct {
	File  string
	Case  string
	Cases []string
	Args  map[string]any

	raw map[string]any
}

// BlockStep groups inline steps under a name. Flow tests only.
type BlockStep struct {
	Block           string
	Description     string
	DescriptionFile string
	Steps           []Step

	raw map[string]any
}

// MalformedStep holds a steps entry that is not an object.
type MalformedStep struct {
	Value any
}

func (s *InlineStep) Raw() map[string]any    { return s.raw }
func (s *FileRefStep) Raw() map[string]any   { return s.raw }
func (s *BlockStep) Raw() map[string]any     { return s.raw }
func (s *MalformedStep) Raw() map[string]any { return nil }

func (*InlineStep) isStep()    {}
func (*FileRefStep) isStep()   {}
func (*BlockStep) isStep()     {}
func (*MalformedStep) isStep() {}

// ClassifyStep decides the variant of a raw steps entry. A "file" key
// selects FileRefStep and a "block" key selects BlockStep, in that order;
// anything else is an InlineStep.
func ClassifyStep(v any) Step {
	raw, ok := v.(map[string]any)
	if !ok {
		return &MalformedStep{Value: v}
	}
	if f, ok := raw["file"]; ok {
		s := &FileRefStep{raw: raw}
		s.File, _ = AsString(f)
		s.Case, _ = AsString(raw["case"])
		s.Cases = stringList(raw["cases"])
		s.Args, _ = AsObject(raw["args"])
		return s
	}
	if b, ok := raw["block"]; ok {
		s := &BlockStep{raw: raw}
		s.Block, _ = AsString(b)
		s.Description, _ = AsString(raw["description"])
		s.DescriptionFile, _ = AsString(raw["descriptionFile"])
		s.Steps = ClassifySteps(raw["steps"])
		return s
	}
	return &InlineStep{raw: raw}
}

// ClassifySteps classifies every entry of a raw steps list. Non-list
// values yield nil.
func ClassifySteps(v any) []Step {
	list, ok := AsList(v)
	if !ok {
		return nil
	}
	steps := make([]Step, len(list))
	for i, item := range list {
		steps[i] = ClassifyStep(item)
	}
	return steps
}

// Action returns the action name, or "" for assertions.
func (s *InlineStep) Action() string {
	a, _ := AsString(s.raw["action"])
	return a
}

// Assert returns the assertion name, or "" for actions.
func (s *InlineStep) Assert() string {
	a, _ := AsString(s.raw["assert"])
	return a
}

// IsAssertion reports whether the step carries an assert key.
func (s *InlineStep) IsAssertion() bool {
	return Truthy(s.raw["assert"]) && !Truthy(s.raw["action"])
}

// Verb returns the action or assertion name.
func (s *InlineStep) Verb() string {
	if s.IsAssertion() {
		return s.Assert()
	}
	return s.Action()
}

// Has reports whether the step sets key.
func (s *InlineStep) Has(key string) bool {
	_, ok := s.raw[key]
	return ok
}

// Get returns the raw value of key.
func (s *InlineStep) Get(key string) any { return s.raw[key] }

// String returns the value of key formatted for display, or "".
func (s *InlineStep) String(key string) string {
	v, ok := s.raw[key]
	if !ok {
		return ""
	}
	return Format(v)
}

// Target returns the element the step acts on: id, the joined ids, or "-".
func (s *InlineStep) Target() string {
	if id := s.String("id"); id != "" {
		return id
	}
	if ids := stringList(s.raw["ids"]); len(ids) > 0 {
		return strings.Join(ids, ", ")
	}
	return "-"
}

// Details summarizes the step parameters for documentation, or "-".
func (s *InlineStep) Details() string {
	var parts []string
	if s.Has("value") {
		parts = append(parts, `value: "`+s.String("value")+`"`)
	}
	if s.Has("direction") {
		parts = append(parts, "direction: "+s.String("direction"))
	}
	if s.Has("timeout") {
		parts = append(parts, "timeout: "+s.String("timeout")+"ms")
	}
	if s.Has("ms") {
		parts = append(parts, "wait: "+s.String("ms")+"ms")
	}
	if s.Has("duration") {
		parts = append(parts, "duration: "+s.String("duration")+"ms")
	}
	if s.Has("equals") {
		parts = append(parts, `equals: "`+s.String("equals")+`"`)
	}
	if s.Has("contains") {
		parts = append(parts, `contains: "`+s.String("contains")+`"`)
	}
	if s.Has("name") && s.Action() == "screenshot" {
		parts = append(parts, `name: "`+s.String("name")+`"`)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

// CaseNames returns the referenced case names, from either case or cases.
func (s *FileRefStep) CaseNames() []string {
	if s.Case != "" {
		return []string{s.Case}
	}
	return s.Cases
}

func stringList(v any) []string {
	list, ok := AsList(v)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
