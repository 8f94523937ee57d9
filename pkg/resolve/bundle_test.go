package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

func writeJSON(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func loadRaw(t *testing.T, path string) map[string]any {
	t.Helper()
	raw, err := schema.ReadObject(path)
	require.NoError(t, err)
	return raw
}

func TestLoadBundle(t *testing.T) {
	root := t.TempDir()
	writeJSON(t, filepath.Join(root, "screens", "login.test.json"), `{
		"type": "screen", "metadata": {"name": "login"},
		"cases": [
			{"name": "input", "description": "Enter credentials", "steps": [{"action": "back"}]},
			{"name": "submit", "steps": [{"action": "tap", "id": "ok"}]}
		]}`)
	writeJSON(t, filepath.Join(root, "flows", "descriptions", "retry.json"), `{"case_name": "retry", "summary": "Retry the login"}`)
	flow := filepath.Join(root, "flows", "login_flow.test.json")
	writeJSON(t, flow, `{
		"type": "flow", "metadata": {"name": "login_flow", "description": "Login journey"},
		"steps": [
			{"file": "login", "case": "input"},
			{"file": "login"},
			{"file": "login", "cases": ["submit", "gone"]},
			{"file": "missing", "case": "x"},
			{"block": "retry", "descriptionFile": "descriptions/retry.json", "steps": [{"action": "back"}]},
			{"block": "plain", "steps": [{"action": "back"}]}
		]}`)

	b := Resolver{}.Load(flow, loadRaw(t, flow))
	assert.Equal(t, flow, b.Path)
	assert.Equal(t, "login_flow", b.Name())
	assert.Equal(t, "Login journey", b.Title())

	_, ok := b.Reference("login")
	assert.True(t, ok)
	_, ok = b.Reference("missing")
	assert.False(t, ok)

	steps := b.Doc.Steps
	assert.Equal(t, "Enter credentials", b.ReferenceLabel(steps[0].(*schema.FileRefStep)))
	assert.Equal(t, "login", b.ReferenceLabel(steps[1].(*schema.FileRefStep)))
	assert.Equal(t, "login: submit, gone", b.ReferenceLabel(steps[2].(*schema.FileRefStep)))

	assert.Len(t, b.ReferencedCases(steps[1].(*schema.FileRefStep)), 2)
	got := b.ReferencedCases(steps[2].(*schema.FileRefStep))
	require.Len(t, got, 1)
	assert.Equal(t, "submit", got[0].Name)
	assert.Nil(t, b.ReferencedCases(steps[3].(*schema.FileRefStep)))

	assert.Equal(t, "Retry the login", b.BlockLabel(steps[4].(*schema.BlockStep)))
	assert.Equal(t, "plain", b.BlockLabel(steps[5].(*schema.BlockStep)))
}

func TestBundleCaseLabel(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "descriptions", "a.json"), `{"case_name": "a", "summary": "From file"}`)
	path := filepath.Join(dir, "home.test.json")
	writeJSON(t, path, `{"type": "screen", "cases": [
		{"name": "a", "descriptionFile": "descriptions/a.json", "description": "inline"},
		{"name": "b", "description": "inline b"},
		{"name": "c"},
		{"name": "d", "descriptionFile": "descriptions/none.json"}
	]}`)

	b := Resolver{}.Load(path, loadRaw(t, path))
	assert.Equal(t, "home", b.Name())
	assert.Equal(t, "home", b.Title())

	cases := b.Doc.Cases
	assert.Equal(t, "From file", b.CaseLabel(&cases[0]))
	assert.Equal(t, "inline b", b.CaseLabel(&cases[1]))
	assert.Equal(t, "c", b.CaseLabel(&cases[2]))
	assert.Equal(t, "d", b.CaseLabel(&cases[3]))

	d, ok := b.CaseDescription(&cases[0])
	require.True(t, ok)
	assert.Equal(t, "a", d.CaseName)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "login", Stem("/x/login.test.json"))
	assert.Equal(t, "login", Stem("login.json"))
	assert.Equal(t, "README", Stem("README"))
}

