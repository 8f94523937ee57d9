package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema resource identifiers.
const (
	TestSchemaID        = "https://github.com/Tai-Kimura/jsonui-test-runner/schemas/test-v1.json"
	DescriptionSchemaID = "https://github.com/Tai-Kimura/jsonui-test-runner/schemas/description-v1.json"
)

// testShape mirrors the screen/flow document for schema reflection only.
type testShape struct {
	Type         string         `json:"type" jsonschema:"required,enum=screen,enum=flow"`
	Source       *sourceShape   `json:"source,omitempty"`
	Sources      any            `json:"sources,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Platform     any            `json:"platform,omitempty" jsonschema:"description=Target platform name or list of names"`
	InitialState any            `json:"initialState,omitempty"`
	Setup        []stepShape    `json:"setup,omitempty"`
	Teardown     []stepShape    `json:"teardown,omitempty"`
	Cases        []caseShape    `json:"cases,omitempty"`
	Steps        []stepShape    `json:"steps,omitempty"`
	Checkpoints  []checkpoint   `json:"checkpoints,omitempty"`
}

type sourceShape struct {
	Layout   string `json:"layout,omitempty"`
	Document string `json:"document,omitempty"`
}

type caseShape struct {
	Name            string         `json:"name" jsonschema:"required"`
	Description     string         `json:"description,omitempty"`
	DescriptionFile string         `json:"descriptionFile,omitempty"`
	Args            map[string]any `json:"args,omitempty"`
	Skip            any            `json:"skip,omitempty"`
	Platform        any            `json:"platform,omitempty"`
	InitialState    any            `json:"initialState,omitempty"`
	Steps           []stepShape    `json:"steps,omitempty"`
}

// stepShape is the union of inline, file-reference and block steps.
type stepShape struct {
	Action    string   `json:"action,omitempty"`
	Assert    string   `json:"assert,omitempty"`
	ID        string   `json:"id,omitempty"`
	IDs       []string `json:"ids,omitempty" jsonschema:"minItems=1"`
	Value     any      `json:"value,omitempty"`
	Direction string   `json:"direction,omitempty"`
	Duration  int      `json:"duration,omitempty"`
	Timeout   int      `json:"timeout,omitempty" jsonschema:"minimum=1"`
	Ms        int      `json:"ms,omitempty" jsonschema:"minimum=1"`
	Name      string   `json:"name,omitempty"`
	Equals    any      `json:"equals,omitempty"`
	Contains  string   `json:"contains,omitempty"`
	Path      string   `json:"path,omitempty"`
	Amount    any      `json:"amount,omitempty"`
	Screen    string   `json:"screen,omitempty"`
	Text      string   `json:"text,omitempty"`
	Button    string   `json:"button,omitempty"`
	Label     string   `json:"label,omitempty"`
	Index     int      `json:"index,omitempty" jsonschema:"minimum=0"`

	File  string         `json:"file,omitempty" jsonschema:"minLength=1"`
	Case  string         `json:"case,omitempty" jsonschema:"minLength=1"`
	Cases []string       `json:"cases,omitempty" jsonschema:"minItems=1"`
	Args  map[string]any `json:"args,omitempty"`

	Block           string      `json:"block,omitempty" jsonschema:"minLength=1"`
	Description     string      `json:"description,omitempty"`
	DescriptionFile string      `json:"descriptionFile,omitempty"`
	Steps           []stepShape `json:"steps,omitempty"`
}

type checkpoint struct {
	Name        string `json:"name" jsonschema:"required"`
	AfterStep   int    `json:"afterStep,omitempty" jsonschema:"minimum=0"`
	Screenshot  bool   `json:"screenshot,omitempty"`
	Description string `json:"description,omitempty"`
}

type descriptionShape struct {
	CaseName        string   `json:"case_name" jsonschema:"required,minLength=1"`
	Summary         string   `json:"summary,omitempty"`
	Preconditions   []string `json:"preconditions,omitempty"`
	TestProcedure   []string `json:"test_procedure,omitempty"`
	ExpectedResults []string `json:"expected_results,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// JSONSchemaExtend fills enums and descriptions from the registry.
func (stepShape) JSONSchemaExtend(s *jsonschema.Schema) {
	if p, ok := s.Properties.Get("action"); ok {
		p.Enum = anyList(ActionNames())
	}
	if p, ok := s.Properties.Get("assert"); ok {
		p.Enum = anyList(AssertionNames())
	}
	if p, ok := s.Properties.Get("direction"); ok {
		p.Enum = anyList(Directions())
	}
	for _, name := range ParameterNames() {
		if p, ok := s.Properties.Get(name); ok && p.Description == "" {
			p.Description = ParameterDescription(name)
		}
	}
}

func anyList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document for
// screen and flow test files using invopop/jsonschema.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&testShape{})
	s.ID = TestSchemaID
	s.Title = "JsonUI Test v1"
	s.Description = "Schema for JsonUI screen and flow test documents (.test.json)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// GenerateDescriptionJSONSchema produces the JSON Schema for description
// files.
func GenerateDescriptionJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&descriptionShape{})
	s.ID = DescriptionSchemaID
	s.Title = "JsonUI Test Description v1"
	s.Description = "Schema for case description files"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal description schema: %w", err)
	}
	return data, nil
}
