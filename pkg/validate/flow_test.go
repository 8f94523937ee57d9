package validate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/resolve"
)

func TestFlowBasics(t *testing.T) {
	r := validateJSON(t, `{
		"type": "flow", "metadata": {"name": "login_flow"},
		"steps": [
			{"action": "tap", "id": "login_button"},
			{"action": "waitFor", "id": "home_screen", "timeout": 5000}
		],
		"checkpoints": [{"name": "after_login", "afterStep": 1, "screenshot": true}]
	}`)
	assert.True(t, r.IsValid(), "%v", r.Errors)
	assert.Equal(t, 0, r.WarningCount())
	assert.Equal(t, KindFlow, r.Kind)

	r = validateJSON(t, flowWithSteps(`[]`))
	assert.True(t, r.IsValid())
	assert.True(t, hasMessage(r.Warnings, "No steps defined in flow test"))
}

func TestFlowFileReferenceShape(t *testing.T) {
	tests := []struct {
		name  string
		step  string
		valid bool
		want  string
	}{
		{"case", `{"file": "login", "case": "valid_login"}`, true, ""},
		{"cases", `{"file": "login", "cases": ["a", "b"]}`, true, ""},
		{"whole file", `{"file": "login"}`, true, ""},
		{"empty file", `{"file": ""}`, false, "'file' must be a non-empty string"},
		{"blank file", `{"file": "   "}`, false, "non-empty string"},
		{"numeric file", `{"file": 3}`, false, "'file' must be a non-empty string"},
		{"both", `{"file": "login", "case": "a", "cases": ["b"]}`, false, "File step cannot have both 'case' and 'cases'"},
		{"empty case", `{"file": "login", "case": ""}`, false, "'case' must be a non-empty string"},
		{"empty cases", `{"file": "login", "cases": []}`, false, "'cases' must be a non-empty array"},
		{"cases not list", `{"file": "login", "cases": "a"}`, false, "'cases' must be a non-empty array"},
		{"blank entry", `{"file": "login", "cases": ["valid_login", ""]}`, false, "'cases' must be an array of non-empty strings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validateJSON(t, flowWithSteps("["+tt.step+"]"))
			assert.Equal(t, tt.valid, r.IsValid(), "%v", r.Errors)
			if tt.want != "" {
				assert.True(t, hasMessage(r.Errors, tt.want), "%v", r.Errors)
			}
		})
	}
}

func TestFlowFileReferenceWarnings(t *testing.T) {
	r := validateJSON(t, flowWithSteps(`[{"file": "login", "case": "valid_login", "unknown_key": "value"}]`))
	assert.True(t, r.IsValid())
	assert.True(t, hasMessage(r.Warnings, "Unknown key in file step: unknown_key"))

	r = New(Options{}).ValidateData(parse(t, `{
		"type": "flow", "metadata": {},
		"setup": [{"file": "screens/login"}],
		"steps": [{"file": "flows\\checkout"}, {"file": "home"}]
	}`), "f")
	assert.True(t, r.IsValid())
	require.Equal(t, 2, countMessages(r.Warnings, "contains path separator"))
	assert.Equal(t, "f.setup[0]", r.Warnings[0].Path)
	assert.Equal(t, "f.steps[0]", r.Warnings[1].Path)
}

func TestFlowTeardownAllowsReferencesAndBlocks(t *testing.T) {
	r := New(Options{}).ValidateData(parse(t, `{
		"type": "flow", "metadata": {"name": "f"},
		"steps": [{"action": "back"}],
		"teardown": [
			{"file": "logout", "case": "confirm"},
			{"block": "cleanup", "steps": [{"action": "tap", "id": "close"}]},
			{"file": "login", "unknown_key": 1}
		]
	}`), "f")
	assert.True(t, r.IsValid(), "%v", r.Errors)
	assert.False(t, hasMessage(r.Errors, "only allowed in flow tests"))
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "f.teardown[2]", r.Warnings[0].Path)
	assert.Equal(t, "Unknown key in file step: unknown_key", r.Warnings[0].Message)

	r = New(Options{}).ValidateData(parse(t, `{
		"type": "flow", "metadata": {"name": "f"},
		"steps": [{"action": "back"}],
		"teardown": [{"block": "cleanup", "steps": [{"file": "x"}]}]
	}`), "f")
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "f.teardown[0].steps[0]", r.Errors[0].Path)
	assert.Contains(t, r.Errors[0].Message, "File references are not allowed inside block steps")
}

func TestFlowFileStepArgsShape(t *testing.T) {
	tests := []struct {
		name  string
		args  string
		valid bool
		want  string
	}{
		{"valid", `{"userName": "flowuser"}`, true, ""},
		{"mixed primitives", `{"s": "hello", "i": 42, "f": 3.14, "b": false}`, true, ""},
		{"empty", `{}`, true, ""},
		{"not object", `"invalid"`, false, "must be an object/dictionary"},
		{"nested", `{"nested": {"key": "value"}}`, false, "primitive type"},
		{"list", `{"listArg": [1, 2, 3]}`, false, "primitive type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validateJSON(t, flowWithSteps(`[{"file": "login", "case": "input", "args": `+tt.args+`}]`))
			assert.Equal(t, tt.valid, r.IsValid(), "%v", r.Errors)
			if tt.want != "" {
				assert.True(t, hasMessage(r.Errors, tt.want), "%v", r.Errors)
			}
		})
	}
}

func TestFlowBlocks(t *testing.T) {
	tests := []struct {
		name  string
		step  string
		valid bool
		want  string
	}{
		{"valid", `{"block": "error_handling", "description": "Handle errors", "steps": [{"action": "tap", "id": "retry"}, {"assert": "visible", "id": "msg"}]}`, true, ""},
		{"no description", `{"block": "b", "steps": [{"action": "tap", "id": "x"}]}`, true, ""},
		{"empty name", `{"block": "", "steps": [{"action": "tap", "id": "x"}]}`, false, "'block' must be a non-empty string"},
		{"missing steps", `{"block": "b", "description": "A block"}`, false, "Block step must have 'steps' array"},
		{"empty steps", `{"block": "b", "steps": []}`, false, "Block 'steps' must be a non-empty array"},
		{"file inside", `{"block": "b", "steps": [{"file": "login", "case": "x"}]}`, false, "File references are not allowed inside block steps"},
		{"nested block", `{"block": "outer", "steps": [{"block": "inner", "steps": [{"action": "tap", "id": "x"}]}]}`, false, "Nested blocks are not allowed inside block steps"},
		{"bad inner step", `{"block": "b", "steps": [{"action": "tap"}]}`, false, "Missing required parameter 'id' for action 'tap'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validateJSON(t, flowWithSteps("["+tt.step+"]"))
			assert.Equal(t, tt.valid, r.IsValid(), "%v", r.Errors)
			if tt.want != "" {
				assert.True(t, hasMessage(r.Errors, tt.want), "%v", r.Errors)
			}
		})
	}
}

func TestFlowBlockPaths(t *testing.T) {
	r := New(Options{}).ValidateData(parse(t, flowWithSteps(`[{"action": "back"}, {"block": "b", "steps": [{"action": "back"}, {"file": "x"}]}]`)), "f")
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "f.steps[1].steps[1]", r.Errors[0].Path)

	r = validateJSON(t, flowWithSteps(`[{"block": "b", "unknown_key": "v", "steps": [{"action": "tap", "id": "btn"}]}]`))
	assert.True(t, r.IsValid())
	assert.True(t, hasMessage(r.Warnings, "Unknown key in block step: unknown_key"))
}

func TestFlowMixedSteps(t *testing.T) {
	r := validateJSON(t, flowWithSteps(`[
		{"file": "screens/login", "case": "valid_login"},
		{"block": "error_handling", "description": "Handle errors", "steps": [{"action": "tap", "id": "retry"}]},
		{"action": "waitFor", "id": "home_screen", "timeout": 5000},
		{"file": "home", "args": {"welcomeText": "Hello"}}
	]`))
	assert.True(t, r.IsValid(), "%v", r.Errors)
}

func TestFlowCheckpoints(t *testing.T) {
	r := validateJSON(t, `{"type": "flow", "metadata": {}, "steps": [{"action": "back"}],
		"checkpoints": [{"afterStep": -1}, {"name": "late", "afterStep": 4, "zoom": 2}, "x"]}`)
	assert.False(t, r.IsValid())
	assert.True(t, hasMessage(r.Errors, "Checkpoint 'name' must be a non-empty string"))
	assert.True(t, hasMessage(r.Errors, "'afterStep' must be a non-negative integer, got: -1"))
	assert.True(t, hasMessage(r.Errors, "Checkpoint must be an object, got string"))
	assert.True(t, hasMessage(r.Warnings, "'afterStep' 4 is beyond the last step index 0"))
	assert.True(t, hasMessage(r.Warnings, "Unknown checkpoint key: zoom"))
}

func TestFlowCheckpointHugeAfterStep(t *testing.T) {
	r := validateJSON(t, `{"type": "flow", "metadata": {}, "steps": [{"action": "back"}],
		"checkpoints": [{"name": "far", "afterStep": 99999999999999999999}]}`)
	assert.True(t, r.IsValid(), "%v", r.Errors)
	assert.True(t, hasMessage(r.Warnings, "'afterStep' 99999999999999999999 is beyond the last step index 0"))
}

const loginScreen = `{
	"type": "screen",
	"metadata": {"name": "login"},
	"cases": [{
		"name": "input",
		"description": "Login input",
		"args": {"userName": "default", "password": "default_pass"},
		"steps": [
			{"action": "input", "id": "username", "value": "@{userName}"},
			{"action": "input", "id": "password", "value": "@{password}"}
		]
	}]
}`

// writeFlowFixture lays out <root>/screens/login.test.json and a flow at
// <root>/flows/login_flow.test.json with the given steps.
func writeFlowFixture(t *testing.T, steps string) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "screens", "login.test.json"), loginScreen)
	return writeFile(t, filepath.Join(root, "flows", "login_flow.test.json"), flowWithSteps(steps))
}

func TestFlowArgsAgainstReferencedScreen(t *testing.T) {
	tests := []struct {
		name  string
		steps string
		valid bool
	}{
		{"undefined arg", `[{"file": "login", "case": "input", "args": {"unknownArg": "value"}}]`, false},
		{"override", `[{"file": "login", "case": "input", "args": {"password": "override_pass"}}]`, true},
		{"defaults only", `[{"file": "login", "case": "input"}]`, true},
		{"override all", `[{"file": "login", "case": "input", "args": {"userName": "u", "password": "p"}}]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := writeFlowFixture(t, tt.steps)
			r := New(Options{}).ValidateFile(flow)
			assert.Equal(t, tt.valid, r.IsValid(), "%v", r.Errors)
			assert.Equal(t, 0, r.WarningCount(), "%v", r.Warnings)
		})
	}
}

func TestFlowUndefinedArgMessage(t *testing.T) {
	flow := writeFlowFixture(t, `[{"file": "login", "cases": ["input"], "args": {"unknownArg": "value", "password": "p"}}]`)
	r := New(Options{}).ValidateFile(flow)
	require.Len(t, r.Errors, 1)
	assert.Contains(t, r.Errors[0].Message, "@{unknownArg}")
	assert.Contains(t, r.Errors[0].Message, "not defined in screen")
	assert.Equal(t, flow+".steps[0]", r.Errors[0].Path)
}

func TestFlowReferenceResolution(t *testing.T) {
	flow := writeFlowFixture(t, `[{"file": "missing_screen", "case": "x"}, {"file": "login", "case": "nope"}]`)
	r := New(Options{}).ValidateFile(flow)
	assert.True(t, r.IsValid(), "missing references are warnings")

	root := filepath.Dir(filepath.Dir(flow))
	expected := filepath.Join(root, "screens", "missing_screen", "missing_screen.test.json")
	assert.True(t, hasMessage(r.Warnings, "Referenced test file not found: missing_screen (looked for "+expected+")"), "%v", r.Warnings)
	assert.True(t, hasMessage(r.Warnings, "Case 'nope' not found in referenced test file: login"))
}

func TestFlowUnresolvedCaseSkipsArgCheck(t *testing.T) {
	flow := writeFlowFixture(t, `[{"file": "login", "case": "nope", "args": {"unknownArg": "v"}}]`)
	r := New(Options{}).ValidateFile(flow)
	assert.True(t, r.IsValid(), "%v", r.Errors)
}

func TestFlowCustomLayout(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pages", "login", "login.test.json"), loginScreen)
	flow := writeFile(t, filepath.Join(root, "journeys", "f.test.json"),
		flowWithSteps(`[{"file": "login", "case": "input", "args": {"bogus": 1}}]`))

	r := New(Options{Resolver: resolve.Resolver{ScreensDir: "pages", FlowsDir: "journeys"}}).ValidateFile(flow)
	assert.False(t, r.IsValid())
	assert.True(t, hasMessage(r.Errors, "@{bogus}"))

	r = New(Options{}).ValidateFile(flow)
	assert.True(t, r.IsValid())
	assert.True(t, hasMessage(r.Warnings, "Referenced test file not found: login"))
}

func TestBlockDescriptionFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "flows", "descriptions", "retry.json"), `{"case_name": "retry"}`)
	flow := writeFile(t, filepath.Join(root, "flows", "f.test.json"), flowWithSteps(`[
		{"block": "a", "descriptionFile": "descriptions/retry.json", "steps": [{"action": "back"}]},
		{"block": "b", "descriptionFile": "descriptions/none.json", "steps": [{"action": "back"}]}
	]`))

	r := New(Options{}).ValidateFile(flow)
	assert.True(t, r.IsValid())
	require.Equal(t, 1, r.WarningCount(), "%v", r.Warnings)
	assert.Equal(t, "Description file not found: descriptions/none.json", r.Warnings[0].Message)
}
