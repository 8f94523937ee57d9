package docs

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/resolve"
)

// Selector picks which tests GenerateDir renders. It is an expr-lang
// condition over the test's summary, for example:
//
//	type == "flow"
//	"ios" in platform && cases > 2
//	group == "onboarding" || entry
type Selector struct {
	src     string
	program *vm.Program
}

// selectorEnv is the variable set a selector can reference.
func selectorEnv(b *resolve.Bundle, path string) map[string]any {
	env := map[string]any{
		"name":     "",
		"title":    "",
		"type":     "",
		"group":    "",
		"entry":    false,
		"platform": []string{},
		"path":     path,
		"cases":    0,
		"steps":    0,
	}
	if b == nil || b.Doc == nil {
		return env
	}
	d := b.Doc
	env["name"] = b.Name()
	env["title"] = b.Title()
	env["type"] = d.Type
	env["group"] = d.Metadata.Group
	env["entry"] = d.Metadata.EntryScreen
	if d.Platform != nil {
		env["platform"] = d.Platform
	}
	steps := len(d.Steps)
	for _, c := range d.Cases {
		steps += len(c.Steps)
	}
	env["cases"] = len(d.Cases)
	env["steps"] = steps
	return env
}

// CompileSelector compiles src. An empty src selects everything and
// returns a nil Selector.
func CompileSelector(src string) (*Selector, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}
	program, err := expr.Compile(src, expr.Env(selectorEnv(nil, "")), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", src, err)
	}
	return &Selector{src: src, program: program}, nil
}

// String returns the selector source.
func (s *Selector) String() string {
	if s == nil {
		return ""
	}
	return s.src
}

// Match reports whether the test loaded in b, written at path, is
// selected. A nil Selector matches everything.
func (s *Selector) Match(b *resolve.Bundle, path string) (bool, error) {
	if s == nil {
		return true, nil
	}
	out, err := expr.Run(s.program, selectorEnv(b, path))
	if err != nil {
		return false, fmt.Errorf("eval selector %q: %w", s.src, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("selector %q did not return bool (got %T)", s.src, out)
	}
	return ok, nil
}
