package validate

import (
	"fmt"
	"strings"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/resolve"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

// validateStep checks one steps entry. File-reference and block steps are
// only legal when flow is true.
func (c *checker) validateStep(step schema.Step, path string, flow bool) {
	switch s := step.(type) {
	case *schema.MalformedStep:
		c.result.errorf(path, "Step must be an object, got %s", schema.TypeName(s.Value))
	case *schema.FileRefStep:
		if !flow {
			c.result.errorf(path, "File reference steps are only allowed in flow tests")
			return
		}
		c.validateFileStep(s, path)
	case *schema.BlockStep:
		if !flow {
			c.result.errorf(path, "Block steps are only allowed in flow tests")
			return
		}
		c.validateBlockStep(s, path)
	case *schema.InlineStep:
		c.validateInlineStep(s, path)
	}
}

func (c *checker) validateInlineStep(s *schema.InlineStep, path string) {
	raw := s.Raw()
	for _, key := range schema.SortedKeys(raw) {
		if !schema.IsStepKey(key) {
			c.result.warnf(path, "Unknown step key: %s", key)
		}
	}

	hasAction := schema.Truthy(raw["action"])
	hasAssert := schema.Truthy(raw["assert"])
	switch {
	case hasAction && hasAssert:
		c.result.errorf(path, "Step cannot have both 'action' and 'assert'")
	case hasAction:
		c.validateAction(raw, path)
	case hasAssert:
		c.validateAssertion(raw, path)
	default:
		c.result.errorf(path, "Step must have either 'action' or 'assert'")
	}
}

func (c *checker) validateAction(raw map[string]any, path string) {
	name, _ := schema.AsString(raw["action"])
	op, ok := schema.LookupAction(name)
	if !ok {
		c.result.errorf(path, "Unsupported action: %s", schema.Format(raw["action"]))
		return
	}

	for _, param := range op.Required {
		if _, ok := raw[param]; !ok {
			c.result.errorf(path, "Missing required parameter '%s' for action '%s'", param, name)
		}
	}

	if v, ok := raw["direction"]; ok {
		if d, isStr := v.(string); !isStr || !schema.IsDirection(d) {
			c.result.errorf(path, "Invalid direction: %s. Must be one of: %s",
				schema.Format(v), strings.Join(schema.Directions(), ", "))
		}
	}
	if v, ok := raw["timeout"]; ok && !positiveInt(v) {
		c.result.errorf(path, "Timeout must be a positive integer (ms), got: %s", schema.Format(v))
	}
	if v, ok := raw["ms"]; ok && !positiveInt(v) {
		c.result.errorf(path, "ms must be a positive integer, got: %s", schema.Format(v))
	}
	if v, ok := raw["ids"]; ok {
		if list, isList := schema.AsList(v); !isList || len(list) == 0 {
			c.result.errorf(path, "ids must be a non-empty array")
		}
	}

	if name == "selectOption" {
		c.checkSelectOptionIndex(raw, path)
	}
}

// checkSelectOptionIndex flags index-based selection on iOS, where the
// SelectBox picker can only be driven by value or label.
func (c *checker) checkSelectOptionIndex(raw map[string]any, path string) {
	if _, ok := raw["index"]; !ok || !c.targetsIOS() {
		return
	}
	c.result.warnf(path, "'index' is not supported for selectOption on iOS; use 'value' or 'label'")
}

func (c *checker) validateAssertion(raw map[string]any, path string) {
	name, _ := schema.AsString(raw["assert"])
	op, ok := schema.LookupAssertion(name)
	if !ok {
		c.result.errorf(path, "Unsupported assertion: %s", schema.Format(raw["assert"]))
		return
	}

	for _, param := range op.Required {
		if _, ok := raw[param]; !ok {
			c.result.errorf(path, "Missing required parameter '%s' for assertion '%s'", param, name)
		}
	}

	if name == "text" {
		_, hasEquals := raw["equals"]
		_, hasContains := raw["contains"]
		if !hasEquals && !hasContains {
			c.result.errorf(path, "Text assertion must have 'equals' or 'contains'")
		}
	}
	if v, ok := raw["timeout"]; ok && !positiveInt(v) {
		c.result.errorf(path, "Timeout must be a positive integer (ms), got: %s", schema.Format(v))
	}
}

func (c *checker) validateFileStep(s *schema.FileRefStep, path string) {
	raw := s.Raw()
	if !schema.NonEmptyString(raw["file"]) {
		c.result.errorf(path, "'file' must be a non-empty string")
		return
	}

	for _, key := range schema.SortedKeys(raw) {
		if !schema.IsFileStepKey(key) {
			c.result.warnf(path, "Unknown key in file step: %s", key)
		}
	}

	caseVal, hasCase := raw["case"]
	casesVal, hasCases := raw["cases"]
	if hasCase && hasCases {
		c.result.errorf(path, "File step cannot have both 'case' and 'cases'")
	}
	if hasCase && !schema.NonEmptyString(caseVal) {
		c.result.errorf(path, "'case' must be a non-empty string")
	}
	if hasCases {
		list, ok := schema.AsList(casesVal)
		switch {
		case !ok || len(list) == 0:
			c.result.errorf(path, "'cases' must be a non-empty array")
		case !allNonEmptyStrings(list):
			c.result.errorf(path, "'cases' must be an array of non-empty strings")
		}
	}

	args, argsOK := map[string]any(nil), true
	if v, ok := raw["args"]; ok {
		args, argsOK = c.validateArgs(v, path)
	}

	if c.baseDir == "" {
		return
	}
	resolved, found := c.opts.Resolver.Resolve(c.baseDir, s.File)
	if !found {
		c.result.warnf(path, "Referenced test file not found: %s (looked for %s)",
			s.File, c.opts.Resolver.Expected(c.baseDir, s.File))
		return
	}
	if len(s.CaseNames()) == 0 {
		return
	}
	c.checkReferencedCases(s, resolved, args, argsOK, path)
}

// checkReferencedCases confirms the named cases exist in the referenced
// screen test and that every argument passed by the flow has a default
// there.
func (c *checker) checkReferencedCases(s *schema.FileRefStep, resolved string, args map[string]any, argsOK bool, path string) {
	raw, err := schema.ReadObject(resolved)
	if err != nil {
		return
	}
	doc := schema.Decode(raw)
	for _, name := range s.CaseNames() {
		tc, ok := doc.Case(name)
		if !ok {
			c.result.warnf(path, "Case '%s' not found in referenced test file: %s", name, s.File)
			continue
		}
		if !argsOK {
			continue
		}
		for _, key := range schema.SortedKeys(args) {
			if _, ok := tc.Args[key]; !ok {
				c.result.errorf(path, "Argument '@{%s}' is not defined in screen '%s' case '%s' (add a default to the case's args)",
					key, s.File, name)
			}
		}
	}
}

func (c *checker) validateBlockStep(s *schema.BlockStep, path string) {
	raw := s.Raw()
	if !schema.NonEmptyString(raw["block"]) {
		c.result.errorf(path, "'block' must be a non-empty string")
		return
	}

	for _, key := range schema.SortedKeys(raw) {
		if !schema.IsBlockStepKey(key) {
			c.result.warnf(path, "Unknown key in block step: %s", key)
		}
	}

	stepsVal, ok := raw["steps"]
	if !ok {
		c.result.errorf(path, "Block step must have 'steps' array")
		return
	}
	if list, isList := schema.AsList(stepsVal); !isList || len(list) == 0 {
		c.result.errorf(path, "Block 'steps' must be a non-empty array")
		return
	}

	for i, inner := range s.Steps {
		innerPath := fmt.Sprintf("%s.steps[%d]", path, i)
		switch inner.(type) {
		case *schema.FileRefStep:
			c.result.errorf(innerPath, "File references are not allowed inside block steps")
		case *schema.BlockStep:
			c.result.errorf(innerPath, "Nested blocks are not allowed inside block steps")
		default:
			c.validateStep(inner, innerPath, false)
		}
	}

	if v, ok := raw["descriptionFile"]; ok {
		c.checkDescriptionFile(v, path)
	}
}

// checkDescriptionFile warns when a descriptionFile does not resolve
// relative to the file under validation.
func (c *checker) checkDescriptionFile(v any, path string) {
	ref, ok := v.(string)
	if !ok || ref == "" {
		c.result.errorf(path, "'descriptionFile' must be a non-empty string")
		return
	}
	if c.filePath == "" {
		return
	}
	if _, found := resolve.ResolveDescription(c.filePath, ref); !found {
		c.result.warnf(path, "Description file not found: %s", ref)
	}
}

func positiveInt(v any) bool {
	sign, ok := schema.IntSign(v)
	return ok && sign > 0
}

func allNonEmptyStrings(list []any) bool {
	for _, item := range list {
		if !schema.NonEmptyString(item) {
			return false
		}
	}
	return true
}
