package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimalScreenIsValid(t *testing.T) {
	r := validateJSON(t, screenWithSteps(`[{"action": "back"}]`))
	assert.True(t, r.IsValid())
	assert.Equal(t, 0, r.ErrorCount())
	assert.Equal(t, 0, r.WarningCount())
	assert.Equal(t, KindScreen, r.Kind)
}

func TestActionAssertExclusivity(t *testing.T) {
	tests := []struct {
		name  string
		steps string
		want  string
	}{
		{"both", `[{"action": "tap", "assert": "visible", "id": "x"}]`, "Step cannot have both 'action' and 'assert'"},
		{"neither", `[{"id": "x"}]`, "Step must have either 'action' or 'assert'"},
		{"empty action", `[{"action": "", "id": "x"}]`, "Step must have either 'action' or 'assert'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validateJSON(t, screenWithSteps(tt.steps))
			assert.False(t, r.IsValid())
			assert.True(t, hasMessage(r.Errors, tt.want), "%v", r.Errors)
		})
	}
}

func TestRequiredParameters(t *testing.T) {
	tests := []struct {
		step string
		want string
	}{
		{`{"action": "tap"}`, "Missing required parameter 'id' for action 'tap'"},
		{`{"action": "input", "id": "f"}`, "Missing required parameter 'value' for action 'input'"},
		{`{"action": "scroll", "id": "list"}`, "Missing required parameter 'direction' for action 'scroll'"},
		{`{"action": "waitForAny"}`, "Missing required parameter 'ids' for action 'waitForAny'"},
		{`{"action": "wait"}`, "Missing required parameter 'ms' for action 'wait'"},
		{`{"action": "screenshot"}`, "Missing required parameter 'name' for action 'screenshot'"},
		{`{"action": "alertTap"}`, "Missing required parameter 'button' for action 'alertTap'"},
		{`{"assert": "visible"}`, "Missing required parameter 'id' for assertion 'visible'"},
		{`{"assert": "count", "id": "rows"}`, "Missing required parameter 'equals' for assertion 'count'"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			r := validateJSON(t, screenWithSteps("["+tt.step+"]"))
			assert.False(t, r.IsValid())
			assert.True(t, hasMessage(r.Errors, tt.want), "%v", r.Errors)
		})
	}
}

func TestMissingRequiredParameterPath(t *testing.T) {
	r := New(Options{}).ValidateData(parse(t, screenWithSteps(`[{"action": "back"}, {"action": "tap"}]`)), "login.test.json")
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "login.test.json.cases[0].steps[1]", r.Errors[0].Path)
	assert.Equal(t, LevelError, r.Errors[0].Level)
}

func TestUnsupportedOperations(t *testing.T) {
	r := validateJSON(t, screenWithSteps(`[{"action": "fly", "id": "x"}, {"assert": "shiny", "id": "x"}]`))
	assert.True(t, hasMessage(r.Errors, "Unsupported action: fly"))
	assert.True(t, hasMessage(r.Errors, "Unsupported assertion: shiny"))
	assert.Equal(t, 2, r.ErrorCount())
}

func TestDirection(t *testing.T) {
	for _, dir := range []string{"up", "down", "left", "right"} {
		r := validateJSON(t, screenWithSteps(`[{"action": "swipe", "id": "x", "direction": "`+dir+`"}]`))
		assert.True(t, r.IsValid(), dir)
	}
	for _, action := range []string{"scroll", "swipe"} {
		r := validateJSON(t, screenWithSteps(`[{"action": "`+action+`", "id": "x", "direction": "diagonal"}]`))
		assert.False(t, r.IsValid())
		assert.True(t, hasMessage(r.Errors, "Invalid direction: diagonal. Must be one of: up, down, left, right"))
	}
}

func TestTimeoutAndMs(t *testing.T) {
	tests := []struct {
		step  string
		valid bool
		want  string
	}{
		{`{"action": "wait", "ms": 500}`, true, ""},
		{`{"action": "wait", "ms": -100}`, false, "ms must be a positive integer, got: -100"},
		{`{"action": "wait", "ms": 0}`, false, "ms must be a positive integer"},
		{`{"action": "wait", "ms": 1.5}`, false, "ms must be a positive integer, got: 1.5"},
		{`{"action": "wait", "ms": "100"}`, false, "ms must be a positive integer"},
		{`{"action": "wait", "ms": true}`, false, "ms must be a positive integer, got: true"},
		{`{"action": "wait", "ms": 99999999999999999999}`, true, ""},
		{`{"action": "wait", "ms": -99999999999999999999}`, false, "ms must be a positive integer, got: -99999999999999999999"},
		{`{"action": "tap", "id": "x", "timeout": 5000}`, true, ""},
		{`{"action": "tap", "id": "x", "timeout": 0}`, false, "Timeout must be a positive integer (ms), got: 0"},
		{`{"assert": "visible", "id": "x", "timeout": -1}`, false, "Timeout must be a positive integer (ms)"},
		{`{"assert": "visible", "id": "x", "timeout": 18446744073709551616}`, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			r := validateJSON(t, screenWithSteps("["+tt.step+"]"))
			assert.Equal(t, tt.valid, r.IsValid(), "%v", r.Errors)
			if tt.want != "" {
				assert.True(t, hasMessage(r.Errors, tt.want), "%v", r.Errors)
			}
		})
	}
}

func TestIDs(t *testing.T) {
	r := validateJSON(t, screenWithSteps(`[{"action": "waitForAny", "ids": ["a", "b"]}]`))
	assert.True(t, r.IsValid())

	r = validateJSON(t, screenWithSteps(`[{"action": "waitForAny", "ids": []}]`))
	assert.True(t, hasMessage(r.Errors, "ids must be a non-empty array"))

	r = validateJSON(t, screenWithSteps(`[{"action": "waitForAny", "ids": "a"}]`))
	assert.True(t, hasMessage(r.Errors, "ids must be a non-empty array"))
}

func TestTextAssertion(t *testing.T) {
	r := validateJSON(t, screenWithSteps(`[{"assert": "text", "id": "label"}]`))
	assert.False(t, r.IsValid())
	assert.True(t, hasMessage(r.Errors, "Text assertion must have 'equals' or 'contains'"))

	for _, key := range []string{"equals", "contains"} {
		r := validateJSON(t, screenWithSteps(`[{"assert": "text", "id": "label", "`+key+`": "Hi"}]`))
		assert.True(t, r.IsValid(), key)
	}
}

func TestUnknownStepKeyWarns(t *testing.T) {
	r := validateJSON(t, screenWithSteps(`[{"action": "tap", "id": "x", "unknown_key": "v"}]`))
	assert.True(t, r.IsValid())
	assert.True(t, hasMessage(r.Warnings, "Unknown step key: unknown_key"))
}

func TestMalformedStep(t *testing.T) {
	r := validateJSON(t, screenWithSteps(`["tap"]`))
	assert.False(t, r.IsValid())
	assert.True(t, hasMessage(r.Errors, "Step must be an object, got string"))
}

func TestFileAndBlockOnlyInFlows(t *testing.T) {
	r := validateJSON(t, screenWithSteps(`[{"file": "login", "case": "input"}]`))
	assert.False(t, r.IsValid())
	assert.True(t, hasMessage(r.Errors, "File reference steps are only allowed in flow tests"))

	r = validateJSON(t, screenWithSteps(`[{"block": "b", "steps": [{"action": "tap", "id": "x"}]}]`))
	assert.False(t, r.IsValid())
	assert.True(t, hasMessage(r.Errors, "Block steps are only allowed in flow tests"))

	r = validateJSON(t, `{"type": "screen", "metadata": {}, "cases": [], "setup": [{"file": "login"}]}`)
	assert.True(t, hasMessage(r.Errors, "File reference steps are only allowed in flow tests"))
}

func TestSelectOptionIndexOnIOS(t *testing.T) {
	step := `[{"action": "selectOption", "id": "picker", "index": 2}]`

	r := validateJSON(t, `{"type": "screen", "platform": "ios", "metadata": {}, "cases": [{"name": "c", "description": "d", "steps": `+step+`}]}`)
	assert.True(t, r.IsValid())
	assert.True(t, hasMessage(r.Warnings, "'index' is not supported for selectOption on iOS"))

	r = validateJSON(t, `{"type": "screen", "platform": ["web", "iOS"], "metadata": {}, "cases": [{"name": "c", "description": "d", "steps": `+step+`}]}`)
	assert.True(t, hasMessage(r.Warnings, "'index' is not supported for selectOption on iOS"))

	r = validateJSON(t, `{"type": "screen", "platform": "web", "metadata": {}, "cases": [{"name": "c", "description": "d", "steps": `+step+`}]}`)
	assert.Equal(t, 0, r.WarningCount())

	r = validateJSON(t, `{"type": "screen", "platform": "ios", "metadata": {}, "cases": [{"name": "c", "description": "d", "steps": [{"action": "selectOption", "id": "p", "label": "Tokyo"}]}]}`)
	assert.Equal(t, 0, r.WarningCount())
}
