package diagram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/resolve"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fixture(t *testing.T) string {
	root := t.TempDir()
	write(t, filepath.Join(root, "screens", "splash", "splash.test.json"),
		`{"type": "screen", "metadata": {"name": "Splash", "entry_screen": true}, "cases": []}`)
	write(t, filepath.Join(root, "screens", "login.test.json"),
		`{"type": "screen", "metadata": {"name": "Login \"main\"", "group": "Auth flow"}, "cases": []}`)
	write(t, filepath.Join(root, "flows", "a_signin.test.json"), `{
		"type": "flow", "metadata": {"name": "signin"},
		"steps": [
			{"file": "splash"},
			{"action": "tap", "id": "go"},
			{"file": "login", "case": "input"},
			{"file": "login", "case": "submit"},
			{"file": "../screens/home/home.test.json"}
		]
	}`)
	write(t, filepath.Join(root, "flows", "nested", "b_relogin.test.json"), `{
		"type": "flow",
		"steps": [{"file": "splash"}, {"file": "login"}]
	}`)
	write(t, filepath.Join(root, "flows", "c_broken.test.json"), `{not json`)
	write(t, filepath.Join(root, "flows", "d_screen.test.json"), `{"type": "screen", "cases": []}`)
	return root
}

func TestScan(t *testing.T) {
	root := fixture(t)
	g, err := Scan(resolve.Resolver{}, filepath.Join(root, "flows"))
	require.NoError(t, err)

	require.Len(t, g.Paths, 2)
	assert.Equal(t, Path{Flow: "signin", Nodes: []string{"splash", "login", "home"}}, g.Paths[0])
	assert.Equal(t, "b_relogin", g.Paths[1].Flow)

	assert.Equal(t, &Node{ID: "splash", Label: "Splash", Entry: true}, g.Nodes["splash"])
	assert.Equal(t, "Auth flow", g.Nodes["login"].Group)
	assert.Equal(t, "Home", g.Nodes["home"].Label)

	assert.Equal(t, []Edge{
		{From: "login", To: "home", Flows: []string{"signin"}},
		{From: "splash", To: "login", Flows: []string{"signin", "b_relogin"}},
	}, g.Edges)
}

func TestScanUsesResolver(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "pages", "login", "login.test.json"),
		`{"type": "screen", "metadata": {"name": "Login Screen", "entry_screen": true}, "cases": []}`)
	write(t, filepath.Join(root, "pages", "home.test.json"),
		`{"type": "screen", "metadata": {"name": "Home Screen", "group": "Main"}, "cases": []}`)
	write(t, filepath.Join(root, "journeys", "start.test.json"), `{
		"type": "flow",
		"steps": [{"file": "pages\\login"}, {"file": "login"}, {"file": "home"}, {"file": "missing/settings.test.json"}]
	}`)

	g, err := Scan(resolve.Resolver{ScreensDir: "pages", FlowsDir: "journeys"}, filepath.Join(root, "journeys"))
	require.NoError(t, err)

	require.Len(t, g.Paths, 1)
	assert.Equal(t, []string{"login", "home", "settings"}, g.Paths[0].Nodes)
	assert.Equal(t, &Node{ID: "login", Label: "Login Screen", Entry: true}, g.Nodes["login"])
	assert.Equal(t, &Node{ID: "home", Label: "Home Screen", Group: "Main"}, g.Nodes["home"])
	assert.Equal(t, &Node{ID: "settings", Label: "Settings"}, g.Nodes["settings"])

	// The default layout does not know about pages/, so only names remain.
	g, err = Scan(resolve.Resolver{}, filepath.Join(root, "journeys"))
	require.NoError(t, err)
	assert.Equal(t, "Home", g.Nodes["home"].Label)
	assert.False(t, g.Nodes["login"].Entry)
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(resolve.Resolver{}, filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestGenerateMermaid(t *testing.T) {
	g, err := Scan(resolve.Resolver{}, filepath.Join(fixture(t), "flows"))
	require.NoError(t, err)

	out, err := Generate(g, FormatMermaid)
	require.NoError(t, err)

	want := strings.Join([]string{
		"flowchart LR",
		"",
		"    %% Entry screens",
		`    splash["Splash"]`,
		"",
		`    subgraph Auth_flow["Auth flow"]`,
		`        login["Login 'main'"]`,
		"    end",
		"",
		"    %% Other screens",
		`    home["Home"]`,
		"",
		"    %% Transitions",
		"    login --> home",
		"    splash --> login",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestGenerateMermaidNoFlows(t *testing.T) {
	dir := t.TempDir()
	g, err := Scan(resolve.Resolver{}, dir)
	require.NoError(t, err)

	out, err := Generate(g, FormatMermaid)
	require.NoError(t, err)
	assert.Equal(t, "flowchart LR\n    NO_FLOWS[No flow tests found]", out)
}

func TestGenerateASCII(t *testing.T) {
	g, err := Scan(resolve.Resolver{}, filepath.Join(fixture(t), "flows"))
	require.NoError(t, err)

	out, err := Generate(g, FormatASCII)
	require.NoError(t, err)
	assert.Contains(t, out, "signin")
	assert.Contains(t, out, "▶ Splash")
	assert.Contains(t, out, "Login \"main\"")
	assert.Equal(t, 3, strings.Count(out, "▼"))

	// Every box line of one flow has the same display width.
	var widths []int
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "┌") || strings.HasPrefix(strings.TrimSpace(line), "│ ") {
			widths = append(widths, runewidth.StringWidth(line))
		}
	}
	require.NotEmpty(t, widths)
	assert.Equal(t, widths[0], widths[1])
}

func TestGenerateUnsupported(t *testing.T) {
	_, err := Generate(&Graph{}, "svg")
	assert.Error(t, err)
	_, err = Generate(nil, FormatMermaid)
	assert.Error(t, err)
}
