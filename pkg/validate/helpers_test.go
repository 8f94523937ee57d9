package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

func parse(t *testing.T, src string) map[string]any {
	t.Helper()
	v, err := schema.ParseJSON([]byte(src))
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	return m
}

func validateJSON(t *testing.T, src string) *Result {
	t.Helper()
	return New(Options{}).ValidateData(parse(t, src), "")
}

// screenWithSteps wraps steps JSON in a one-case screen test.
func screenWithSteps(steps string) string {
	return `{"type": "screen", "metadata": {"name": "s"}, "cases": [{"name": "c", "description": "d", "steps": ` + steps + `}]}`
}

// flowWithSteps wraps steps JSON in a flow test.
func flowWithSteps(steps string) string {
	return `{"type": "flow", "metadata": {"name": "f"}, "steps": ` + steps + `}`
}

func hasMessage(msgs []Message, substr string) bool {
	for _, m := range msgs {
		if strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

func countMessages(msgs []Message, substr string) int {
	n := 0
	for _, m := range msgs {
		if strings.Contains(m.Message, substr) {
			n++
		}
	}
	return n
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
