package validate

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

var (
	testSchema        *sjsonschema.Schema
	descriptionSchema *sjsonschema.Schema
	compileOnce       sync.Once
	compileErr        error

	printer = message.NewPrinter(language.English)
)

// compileSchemas compiles the generated test and description schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		c := sjsonschema.NewCompiler()

		testData, err := schema.GenerateJSONSchema()
		if err != nil {
			compileErr = err
			return
		}
		descData, err := schema.GenerateDescriptionJSONSchema()
		if err != nil {
			compileErr = err
			return
		}

		testDoc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(testData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal test schema: %w", err)
			return
		}
		descDoc, err := sjsonschema.UnmarshalJSON(bytes.NewReader(descData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal description schema: %w", err)
			return
		}

		if err := c.AddResource("test.schema.json", testDoc); err != nil {
			compileErr = fmt.Errorf("add test schema resource: %w", err)
			return
		}
		if err := c.AddResource("description.schema.json", descDoc); err != nil {
			compileErr = fmt.Errorf("add description schema resource: %w", err)
			return
		}

		if testSchema, err = c.Compile("test.schema.json"); err != nil {
			compileErr = fmt.Errorf("compile test schema: %w", err)
			return
		}
		if descriptionSchema, err = c.Compile("description.schema.json"); err != nil {
			compileErr = fmt.Errorf("compile description schema: %w", err)
		}
	})
	return compileErr
}

// validateSemantic checks the document against the generated JSON Schema
// and records every violation as a warning.
func (c *checker) validateSemantic(data map[string]any, path string) {
	if err := compileSchemas(); err != nil {
		c.result.warnf(path, "schema: %v", err)
		return
	}

	sch := testSchema
	if c.result.Kind == KindDescription {
		sch = descriptionSchema
	}

	err := sch.Validate(any(data))
	if err == nil {
		return
	}
	var ve *sjsonschema.ValidationError
	if !errors.As(err, &ve) {
		c.result.warnf(path, "schema: %v", err)
		return
	}
	for _, cause := range flattenValidationErrors(ve) {
		c.result.warnf(path+instancePath(cause.InstanceLocation), "schema: %s",
			cause.ErrorKind.LocalizedString(printer))
	}
}

// flattenValidationErrors recursively collects all leaf validation errors.
func flattenValidationErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenValidationErrors(cause)...)
	}
	return flat
}

// instancePath converts a JSON pointer location into the dotted/bracketed
// form used by the other checks: [cases 0 steps 1] -> ".cases[0].steps[1]".
func instancePath(loc []string) string {
	var b strings.Builder
	for _, tok := range loc {
		if isIndex(tok) {
			fmt.Fprintf(&b, "[%s]", tok)
		} else {
			b.WriteString("." + tok)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
