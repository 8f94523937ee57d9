package validate

import "github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"

var descriptionLists = []string{"preconditions", "test_procedure", "expected_results"}

func (c *checker) validateDescription(data map[string]any, path string) {
	if _, ok := data["case_name"]; !ok {
		c.result.errorf(path, "Description file missing required 'case_name' field")
	}

	for _, key := range schema.SortedKeys(data) {
		if !schema.IsDescriptionKey(key) {
			c.result.warnf(path, "Unknown description key: %s", key)
		}
	}

	if v, ok := data["case_name"]; ok && !schema.NonEmptyString(v) {
		c.result.errorf(path, "'case_name' must be a non-empty string")
	}
	if v, ok := data["summary"]; ok {
		if _, isStr := v.(string); !isStr {
			c.result.errorf(path, "'summary' must be a string")
		}
	}
	for _, field := range descriptionLists {
		v, ok := data[field]
		if !ok {
			continue
		}
		list, isList := schema.AsList(v)
		if !isList {
			c.result.errorf(path, "'%s' must be an array", field)
			continue
		}
		for _, item := range list {
			if _, isStr := item.(string); !isStr {
				c.result.errorf(path, "'%s' must be an array of strings", field)
				break
			}
		}
	}
	if v, ok := data["notes"]; ok {
		if _, isStr := v.(string); !isStr {
			c.result.errorf(path, "'notes' must be a string")
		}
	}
}
