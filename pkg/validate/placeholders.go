package validate

import (
	"regexp"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

var placeholderRe = regexp.MustCompile(`@\{([^}]+)\}`)

// Placeholders returns the distinct @{name} placeholder names found in any
// string value under v, in first-seen order. Object keys are visited in
// sorted order so the result is deterministic.
func Placeholders(v any) []string {
	seen := make(map[string]bool)
	var names []string
	var walk func(any)
	walk = func(v any) {
		switch t := v.(type) {
		case string:
			for _, m := range placeholderRe.FindAllStringSubmatch(t, -1) {
				if !seen[m[1]] {
					seen[m[1]] = true
					names = append(names, m[1])
				}
			}
		case []any:
			for _, item := range t {
				walk(item)
			}
		case map[string]any:
			for _, k := range schema.SortedKeys(t) {
				walk(t[k])
			}
		}
	}
	walk(v)
	return names
}
