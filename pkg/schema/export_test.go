package schema

import (
	"bytes"
	"encoding/json"
	"testing"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJSONSchema(t *testing.T) {
	data, err := GenerateJSONSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, TestSchemaID, doc["$id"])
	assert.Contains(t, string(data), `"selectOption"`)
	assert.Contains(t, string(data), `"notVisible"`)
	assert.Contains(t, string(data), ParameterDescription("id"))
}

func compileSchema(t *testing.T, name string, data []byte) *sjsonschema.Schema {
	t.Helper()
	doc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(data))
	require.NoError(t, err)
	c := sjsonschema.NewCompiler()
	require.NoError(t, c.AddResource(name, doc))
	sch, err := c.Compile(name)
	require.NoError(t, err)
	return sch
}

func TestGeneratedSchemaAcceptsDocuments(t *testing.T) {
	data, err := GenerateJSONSchema()
	require.NoError(t, err)
	sch := compileSchema(t, "test.json", data)

	good, err := sjsonschema.UnmarshalJSON(bytes.NewReader([]byte(`{
		"type": "flow",
		"metadata": {"name": "f"},
		"steps": [
			{"file": "login", "case": "input", "args": {"user": "a"}},
			{"block": "b", "steps": [{"action": "scroll", "id": "list", "direction": "down"}]},
			{"assert": "count", "id": "rows", "equals": 3}
		]
	}`)))
	require.NoError(t, err)
	assert.NoError(t, sch.Validate(good))

	bad, err := sjsonschema.UnmarshalJSON(bytes.NewReader([]byte(`{
		"type": "screen",
		"cases": [{"name": "c", "steps": [{"action": "fly", "id": "x"}]}]
	}`)))
	require.NoError(t, err)
	assert.Error(t, sch.Validate(bad))
}

func TestGenerateDescriptionJSONSchema(t *testing.T) {
	data, err := GenerateDescriptionJSONSchema()
	require.NoError(t, err)
	sch := compileSchema(t, "description.json", data)

	ok, err := sjsonschema.UnmarshalJSON(bytes.NewReader([]byte(`{"case_name": "input", "preconditions": ["a"]}`)))
	require.NoError(t, err)
	assert.NoError(t, sch.Validate(ok))

	missing, err := sjsonschema.UnmarshalJSON(bytes.NewReader([]byte(`{"summary": "s"}`)))
	require.NoError(t, err)
	assert.Error(t, sch.Validate(missing))
}
