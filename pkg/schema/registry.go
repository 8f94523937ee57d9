// Package schema defines the JsonUI test document model: the registry of
// supported actions and assertions, the closed step variants, the typed
// screen/flow/description documents and their JSON Schema export.
package schema

import "slices"

// Operation describes one action or assertion and its parameters.
type Operation struct {
	Name        string
	Description string
	Required    []string
	Optional    []string
}

// Params returns the required parameters followed by the optional ones.
func (o Operation) Params() []string {
	return append(slices.Clone(o.Required), o.Optional...)
}

var actions = []Operation{
	{Name: "tap", Description: "Tap on an element", Required: []string{"id"}, Optional: []string{"text", "timeout"}},
	{Name: "doubleTap", Description: "Double tap on an element", Required: []string{"id"}, Optional: []string{"timeout"}},
	{Name: "longPress", Description: "Long press on an element", Required: []string{"id"}, Optional: []string{"duration", "timeout"}},
	{Name: "input", Description: "Input text into a field", Required: []string{"id", "value"}, Optional: []string{"timeout"}},
	{Name: "clear", Description: "Clear text from an input field", Required: []string{"id"}, Optional: []string{"timeout"}},
	{Name: "scroll", Description: "Scroll within an element", Required: []string{"id", "direction"}, Optional: []string{"amount", "timeout"}},
	{Name: "swipe", Description: "Swipe gesture on an element", Required: []string{"id", "direction"}, Optional: []string{"timeout"}},
	{Name: "waitFor", Description: "Wait for an element to appear", Required: []string{"id"}, Optional: []string{"timeout"}},
	{Name: "waitForAny", Description: "Wait for any of multiple elements to appear", Required: []string{"ids"}, Optional: []string{"timeout"}},
	{Name: "wait", Description: "Wait for a specified duration", Required: []string{"ms"}},
	{Name: "back", Description: "Navigate back"},
	{Name: "screenshot", Description: "Take a screenshot", Required: []string{"name"}},
	{Name: "alertTap", Description: "Tap a button in a native alert dialog", Required: []string{"button"}, Optional: []string{"timeout"}},
	{Name: "selectOption", Description: "Select an option from a select/dropdown element (Web: standard select, iOS: SelectBox picker)", Required: []string{"id"}, Optional: []string{"value", "label", "index", "timeout"}},
}

var assertions = []Operation{
	{Name: "visible", Description: "Assert element is visible", Required: []string{"id"}, Optional: []string{"timeout"}},
	{Name: "notVisible", Description: "Assert element is not visible", Required: []string{"id"}, Optional: []string{"timeout"}},
	{Name: "enabled", Description: "Assert element is enabled", Required: []string{"id"}, Optional: []string{"timeout"}},
	{Name: "disabled", Description: "Assert element is disabled", Required: []string{"id"}, Optional: []string{"timeout"}},
	{Name: "text", Description: "Assert element text matches", Required: []string{"id"}, Optional: []string{"equals", "contains", "timeout"}},
	{Name: "count", Description: "Assert element count", Required: []string{"id", "equals"}, Optional: []string{"timeout"}},
}

var parameterDescriptions = map[string]string{
	"id":        "Element identifier (accessibilityIdentifier on iOS, resource-id on Android, data-testid on Web)",
	"ids":       "Array of element identifiers for waitForAny",
	"value":     "Text value for input actions",
	"direction": "Direction for scroll/swipe: up, down, left, right",
	"duration":  "Duration in milliseconds (for longPress)",
	"timeout":   "Maximum wait time in milliseconds (default: 5000)",
	"ms":        "Wait duration in milliseconds",
	"name":      "Name for screenshot file",
	"equals":    "Exact value to match",
	"contains":  "Substring to match",
	"amount":    "Scroll amount (platform-specific)",
	"screen":    "Screen identifier (for flow tests)",
	"text":      "Specific text portion to tap within element (for tap action)",
	"button":    "Button text to tap in alert dialog (for alertTap action)",
	"label":     "Option label (visible text) to select (for selectOption action)",
	"index":     "Option index to select, 0-based (for selectOption action)",
}

// directions lists the accepted scroll/swipe directions.
var directions = []string{"up", "down", "left", "right"}

var (
	topLevelKeys    = keySet("type", "source", "metadata", "platform", "initialState", "setup", "teardown", "cases", "sources", "steps", "checkpoints")
	caseKeys        = keySet("name", "description", "descriptionFile", "args", "skip", "platform", "initialState", "steps")
	stepKeys        = keySet("action", "assert", "id", "ids", "value", "direction", "duration", "timeout", "ms", "name", "equals", "contains", "path", "amount", "screen", "text", "button", "label", "index")
	fileStepKeys    = keySet("file", "case", "cases", "args")
	blockStepKeys   = keySet("block", "description", "descriptionFile", "steps")
	sourceKeys      = keySet("layout", "document")
	descriptionKeys = keySet("case_name", "summary", "preconditions", "test_procedure", "expected_results", "notes")
	checkpointKeys  = keySet("name", "afterStep", "screenshot", "description")

	actionIndex    = index(actions)
	assertionIndex = index(assertions)
)

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

func index(ops []Operation) map[string]int {
	m := make(map[string]int, len(ops))
	for i, op := range ops {
		m[op.Name] = i
	}
	return m
}

// LookupAction returns the registry entry for an action name.
func LookupAction(name string) (Operation, bool) {
	i, ok := actionIndex[name]
	if !ok {
		return Operation{}, false
	}
	return actions[i], true
}

// LookupAssertion returns the registry entry for an assertion name.
func LookupAssertion(name string) (Operation, bool) {
	i, ok := assertionIndex[name]
	if !ok {
		return Operation{}, false
	}
	return assertions[i], true
}

// Actions returns every supported action in documentation order.
func Actions() []Operation { return slices.Clone(actions) }

// Assertions returns every supported assertion in documentation order.
func Assertions() []Operation { return slices.Clone(assertions) }

// ActionNames returns the supported action names in documentation order.
func ActionNames() []string { return names(actions) }

// AssertionNames returns the supported assertion names in documentation order.
func AssertionNames() []string { return names(assertions) }

func names(ops []Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Name
	}
	return out
}

// Directions returns the accepted values of the direction parameter.
func Directions() []string { return slices.Clone(directions) }

// IsDirection reports whether s is an accepted direction.
func IsDirection(s string) bool { return slices.Contains(directions, s) }

// ParameterDescription returns the human description of a step parameter.
func ParameterDescription(param string) string { return parameterDescriptions[param] }

// ParameterNames returns the documented parameter names, sorted.
func ParameterNames() []string {
	out := make([]string, 0, len(parameterDescriptions))
	for k := range parameterDescriptions {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// IsTopLevelKey reports whether k is allowed at the top of a test file.
func IsTopLevelKey(k string) bool { return topLevelKeys[k] }

// IsCaseKey reports whether k is allowed in a screen test case.
func IsCaseKey(k string) bool { return caseKeys[k] }

// IsStepKey reports whether k is allowed in an action or assertion step.
func IsStepKey(k string) bool { return stepKeys[k] }

// IsFileStepKey reports whether k is allowed in a file reference step.
func IsFileStepKey(k string) bool { return fileStepKeys[k] }

// IsBlockStepKey reports whether k is allowed in a block step.
func IsBlockStepKey(k string) bool { return blockStepKeys[k] }

// IsSourceKey reports whether k is allowed in a test's source object.
func IsSourceKey(k string) bool { return sourceKeys[k] }

// IsDescriptionKey reports whether k is allowed in a description file.
func IsDescriptionKey(k string) bool { return descriptionKeys[k] }

// IsCheckpointKey reports whether k is allowed in a flow checkpoint.
func IsCheckpointKey(k string) bool { return checkpointKeys[k] }

// Example builds a minimal step using op for documentation; key is
// "action" or "assert".
func Example(op Operation, key string) map[string]any {
	ex := map[string]any{key: op.Name}
	samples := map[string]any{
		"id":        "element_id",
		"ids":       []string{"element_1", "element_2"},
		"value":     "sample text",
		"direction": "down",
		"ms":        1000,
		"name":      "screenshot_name",
		"equals":    5,
		"button":    "OK",
	}
	for _, p := range op.Required {
		if v, ok := samples[p]; ok {
			ex[p] = v
		}
	}
	if key == "assert" && op.Name == "text" {
		ex["equals"] = "Expected text"
	}
	return ex
}
