package validate

import (
	"fmt"
	"strings"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

var flowSections = []string{"setup", "steps", "teardown"}

func (c *checker) validateFlow(data map[string]any, path string) {
	c.checkTopLevelKeys(data, path)
	c.checkReferenceSeparators(data, path)

	steps, ok := c.listField(data, "steps", path)
	if len(steps) == 0 && ok {
		c.result.warnf(path, "No steps defined in flow test")
	}
	for _, section := range flowSections {
		c.validateSection(data, section, path, true)
	}

	c.validateCheckpoints(data, path, len(steps))
}

// checkReferenceSeparators warns on file references written as paths; the
// resolver already searches the screens and flows trees by bare name.
func (c *checker) checkReferenceSeparators(data map[string]any, path string) {
	for _, section := range flowSections {
		list, _ := schema.AsList(data[section])
		for i, item := range list {
			ref, ok := item.(map[string]any)
			if !ok {
				continue
			}
			file, ok := ref["file"].(string)
			if !ok || !strings.ContainsAny(file, `/\`) {
				continue
			}
			c.result.warnf(fmt.Sprintf("%s.%s[%d]", path, section, i),
				"File reference '%s' contains path separator. Use just the filename (e.g., 'login' instead of 'screens/login'). The loader automatically looks in screens/ subdirectory.",
				file)
		}
	}
}

func (c *checker) validateCheckpoints(data map[string]any, path string, stepCount int) {
	cps, _ := c.listField(data, "checkpoints", path)
	for i, cp := range cps {
		cpPath := fmt.Sprintf("%s.checkpoints[%d]", path, i)
		m, ok := schema.AsObject(cp)
		if !ok {
			c.result.errorf(cpPath, "Checkpoint must be an object, got %s", schema.TypeName(cp))
			continue
		}
		for _, key := range schema.SortedKeys(m) {
			if !schema.IsCheckpointKey(key) {
				c.result.warnf(cpPath, "Unknown checkpoint key: %s", key)
			}
		}
		if !schema.NonEmptyString(m["name"]) {
			c.result.errorf(cpPath, "Checkpoint 'name' must be a non-empty string")
		}
		if v, ok := m["afterStep"]; ok {
			sign, isInt := schema.IntSign(v)
			if !isInt || sign < 0 {
				c.result.errorf(cpPath, "'afterStep' must be a non-negative integer, got: %s", schema.Format(v))
				continue
			}
			if n, fits := schema.AsInt(v); stepCount > 0 && (!fits || n >= int64(stepCount)) {
				c.result.warnf(cpPath, "'afterStep' %s is beyond the last step index %d", schema.Format(v), stepCount-1)
			}
		}
	}
}
