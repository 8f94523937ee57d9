package schema

import (
	"fmt"
	"strings"
)

// Test document types.
const (
	TypeScreen = "screen"
	TypeFlow   = "flow"
)

// Document is a decoded screen or flow test. Fields are filled leniently:
// values of the wrong JSON type are left at their zero value, so callers
// should validate before relying on them.
type Document struct {
	Type     string
	Source   Source
	Metadata Metadata
	// Platform is empty when the document targets all platforms.
	Platform    []string
	Cases       []Case
	Setup       []Step
	Steps       []Step
	Teardown    []Step
	Checkpoints []Checkpoint
}

// Source points at the layout and document a screen test covers.
type Source struct {
	Layout   string
	Document string
}

// Metadata is the free-form metadata block. Name, Description, EntryScreen
// and Group are lifted out; Extra keeps everything else.
type Metadata struct {
	Name        string
	Description string
	EntryScreen bool
	Group       string
	Extra       map[string]any
}

// Case is one screen-test case.
type Case struct {
	Name            string
	Description     string
	DescriptionFile string
	// Args holds default values for @{name} placeholders.
	Args     map[string]any
	Skip     bool
	Platform []string
	Steps    []Step
}

// Checkpoint marks a point in a flow after a given step.
type Checkpoint struct {
	Name        string
	AfterStep   int
	Screenshot  bool
	Description string
}

// Description is a standalone description file attached to a case.
type Description struct {
	CaseName        string
	Summary         string
	Preconditions   []string
	TestProcedure   []string
	ExpectedResults []string
	Notes           string
}

// IsFlow reports whether the document is a flow test.
func (d *Document) IsFlow() bool { return d.Type == TypeFlow }

// Title returns metadata.name, falling back to fallback.
func (d *Document) Title(fallback string) string {
	if d.Metadata.Name != "" {
		return d.Metadata.Name
	}
	return fallback
}

// PlatformLabel renders the platform list for display.
func (d *Document) PlatformLabel() string {
	if len(d.Platform) == 0 {
		return "all"
	}
	return strings.Join(d.Platform, ", ")
}

// TargetsPlatform reports whether the document explicitly lists platform p.
func (d *Document) TargetsPlatform(p string) bool {
	return hasPlatform(d.Platform, p)
}

// Case looks up a case by name.
func (d *Document) Case(name string) (*Case, bool) {
	for i := range d.Cases {
		if d.Cases[i].Name == name {
			return &d.Cases[i], true
		}
	}
	return nil, false
}

// Decode converts a raw JSON object into a Document.
func Decode(raw map[string]any) *Document {
	d := &Document{
		Platform: Platforms(raw["platform"]),
		Setup:    ClassifySteps(raw["setup"]),
		Steps:    ClassifySteps(raw["steps"]),
		Teardown: ClassifySteps(raw["teardown"]),
	}
	d.Type, _ = AsString(raw["type"])
	if src, ok := AsObject(raw["source"]); ok {
		d.Source.Layout, _ = AsString(src["layout"])
		d.Source.Document, _ = AsString(src["document"])
	}
	if md, ok := AsObject(raw["metadata"]); ok {
		d.Metadata = decodeMetadata(md)
	}
	if cases, ok := AsList(raw["cases"]); ok {
		for _, c := range cases {
			if m, ok := AsObject(c); ok {
				d.Cases = append(d.Cases, decodeCase(m))
			}
		}
	}
	if cps, ok := AsList(raw["checkpoints"]); ok {
		for _, c := range cps {
			if m, ok := AsObject(c); ok {
				d.Checkpoints = append(d.Checkpoints, decodeCheckpoint(m))
			}
		}
	}
	return d
}

// DecodeDescription converts a raw JSON object into a Description.
func DecodeDescription(raw map[string]any) *Description {
	d := &Description{
		Preconditions:   stringList(raw["preconditions"]),
		TestProcedure:   stringList(raw["test_procedure"]),
		ExpectedResults: stringList(raw["expected_results"]),
	}
	d.CaseName, _ = AsString(raw["case_name"])
	d.Summary, _ = AsString(raw["summary"])
	d.Notes, _ = AsString(raw["notes"])
	return d
}

// LoadDocument reads and decodes a test file.
func LoadDocument(path string) (*Document, error) {
	raw, err := ReadObject(path)
	if err != nil {
		return nil, err
	}
	d := Decode(raw)
	if d.Type != TypeScreen && d.Type != TypeFlow {
		return nil, fmt.Errorf("%s: unknown or missing test type %q", path, d.Type)
	}
	return d, nil
}

// LoadDescription reads and decodes a description file.
func LoadDescription(path string) (*Description, error) {
	raw, err := ReadObject(path)
	if err != nil {
		return nil, err
	}
	return DecodeDescription(raw), nil
}

// Platforms normalizes a platform value, which may be a single string or
// a list of strings.
func Platforms(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		return stringList(t)
	}
	return nil
}

func hasPlatform(list []string, p string) bool {
	for _, s := range list {
		if strings.EqualFold(s, p) {
			return true
		}
	}
	return false
}

func decodeMetadata(md map[string]any) Metadata {
	m := Metadata{Extra: make(map[string]any)}
	for k, v := range md {
		switch k {
		case "name":
			m.Name, _ = AsString(v)
		case "description":
			m.Description, _ = AsString(v)
		case "entry_screen":
			m.EntryScreen, _ = v.(bool)
		case "group":
			m.Group, _ = AsString(v)
		default:
			m.Extra[k] = v
		}
	}
	return m
}

func decodeCase(m map[string]any) Case {
	c := Case{
		Platform: Platforms(m["platform"]),
		Steps:    ClassifySteps(m["steps"]),
	}
	c.Name, _ = AsString(m["name"])
	c.Description, _ = AsString(m["description"])
	c.DescriptionFile, _ = AsString(m["descriptionFile"])
	c.Args, _ = AsObject(m["args"])
	c.Skip = Truthy(m["skip"])
	return c
}

func decodeCheckpoint(m map[string]any) Checkpoint {
	c := Checkpoint{}
	c.Name, _ = AsString(m["name"])
	c.Description, _ = AsString(m["description"])
	if n, ok := AsInt(m["afterStep"]); ok {
		c.AfterStep = int(n)
	}
	c.Screenshot, _ = m["screenshot"].(bool)
	return c
}
