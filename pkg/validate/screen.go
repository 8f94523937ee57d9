package validate

import (
	"fmt"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

func (c *checker) validateScreen(data map[string]any, path string) {
	c.checkTopLevelKeys(data, path)

	if _, ok := data["metadata"]; !ok {
		c.result.warnf(path, "Missing 'metadata' field")
	}

	cases, ok := c.listField(data, "cases", path)
	if len(cases) == 0 && ok {
		c.result.warnf(path, "No test cases defined")
	}
	for i, tc := range cases {
		casePath := fmt.Sprintf("%s.cases[%d]", path, i)
		m, ok := schema.AsObject(tc)
		if !ok {
			c.result.errorf(casePath, "Test case must be an object, got %s", schema.TypeName(tc))
			continue
		}
		c.validateCase(m, casePath)
	}

	for _, section := range []string{"setup", "teardown"} {
		c.validateSection(data, section, path, false)
	}
}

// checkTopLevelKeys warns on unknown top-level and source keys.
func (c *checker) checkTopLevelKeys(data map[string]any, path string) {
	for _, key := range schema.SortedKeys(data) {
		if !schema.IsTopLevelKey(key) {
			c.result.warnf(path, "Unknown top-level key: %s", key)
		}
	}

	v, ok := data["source"]
	if !ok {
		return
	}
	src, isObj := schema.AsObject(v)
	if !isObj {
		c.result.errorf(path+".source", "'source' must be an object, got %s", schema.TypeName(v))
		return
	}
	for _, key := range schema.SortedKeys(src) {
		if !schema.IsSourceKey(key) {
			c.result.warnf(path+".source", "Unknown source key: %s", key)
		}
	}
}

func (c *checker) validateCase(tc map[string]any, path string) {
	name, hasName := tc["name"]
	if !hasName {
		c.result.errorf(path, "Test case missing 'name' field")
	} else if !schema.NonEmptyString(name) {
		c.result.errorf(path, "Test case 'name' must be a non-empty string")
	}

	if _, ok := tc["description"]; !ok {
		label := "unknown"
		if s, ok := name.(string); ok {
			label = s
		}
		c.result.warnf(path, "Test case '%s' missing 'description' field (recommended for HTML documentation)", label)
	}

	for _, key := range schema.SortedKeys(tc) {
		if !schema.IsCaseKey(key) {
			c.result.warnf(path, "Unknown case key: %s", key)
		}
	}

	if v, ok := tc["descriptionFile"]; ok {
		c.checkDescriptionFile(v, path)
	}

	var args map[string]any
	if v, ok := tc["args"]; ok {
		args, _ = c.validateArgs(v, path)
	}

	steps, _ := c.listField(tc, "steps", path)
	if len(steps) == 0 {
		c.result.warnf(path, "Test case has no steps")
	}
	for i, step := range schema.ClassifySteps(steps) {
		c.validateStep(step, fmt.Sprintf("%s.steps[%d]", path, i), false)
	}

	for _, name := range Placeholders(steps) {
		if _, ok := args[name]; !ok {
			c.result.errorf(path, "Undefined argument '@{%s}' used in steps (define it in the case's args)", name)
		}
	}
}

// validateSection checks a setup/teardown/steps list on a document.
func (c *checker) validateSection(data map[string]any, section, path string, flow bool) {
	steps, _ := c.listField(data, section, path)
	for i, step := range schema.ClassifySteps(steps) {
		c.validateStep(step, fmt.Sprintf("%s.%s[%d]", path, section, i), flow)
	}
}

// listField returns the array stored under key. A present value of any
// other type is an error; ok reports whether the key was absent or held
// an array.
func (c *checker) listField(m map[string]any, key, path string) ([]any, bool) {
	v, present := m[key]
	if !present || v == nil {
		return nil, true
	}
	list, isList := schema.AsList(v)
	if !isList {
		c.result.errorf(path, "'%s' must be an array, got %s", key, schema.TypeName(v))
		return nil, false
	}
	return list, true
}

// validateArgs checks that v is an object of primitive values. It returns
// the object and whether it had the right shape.
func (c *checker) validateArgs(v any, path string) (map[string]any, bool) {
	args, ok := schema.AsObject(v)
	if !ok {
		c.result.errorf(path, "'args' must be an object/dictionary, got %s", schema.TypeName(v))
		return nil, false
	}
	valid := true
	for _, key := range schema.SortedKeys(args) {
		if val := args[key]; !schema.IsPrimitive(val) {
			c.result.errorf(path, "Argument '%s' must be a primitive type (string, number, boolean), got %s",
				key, schema.TypeName(val))
			valid = false
		}
	}
	return args, valid
}
