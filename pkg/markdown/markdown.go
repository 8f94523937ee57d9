// Package markdown renders screen tests, flow tests and the schema
// reference as Markdown.
package markdown

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/resolve"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

// TimeLayout formats the Generated line.
const TimeLayout = "2006-01-02 15:04:05"

// Render produces the Markdown document for a screen or flow test.
// A zero generated time omits the Generated line.
func Render(b *resolve.Bundle, generated time.Time) string {
	var w strings.Builder
	doc := b.Doc

	fmt.Fprintf(&w, "# %s\n\n", b.Name())
	if doc.Metadata.Description != "" {
		fmt.Fprintf(&w, "> %s\n\n", doc.Metadata.Description)
	}

	w.WriteString("## Test Information\n\n")
	fmt.Fprintf(&w, "- **Type:** %s\n", doc.Type)
	fmt.Fprintf(&w, "- **Platform:** %s\n", doc.PlatformLabel())
	if doc.Source.Layout != "" {
		fmt.Fprintf(&w, "- **Layout:** `%s`\n", doc.Source.Layout)
	}
	if doc.Source.Document != "" {
		fmt.Fprintf(&w, "- **Document:** `%s`\n", doc.Source.Document)
	}
	if !generated.IsZero() {
		fmt.Fprintf(&w, "- **Generated:** %s\n", generated.Format(TimeLayout))
	}
	w.WriteString("\n")

	if doc.IsFlow() {
		renderFlow(&w, b)
	} else {
		renderScreen(&w, b)
	}
	return strings.TrimRight(w.String(), "\n") + "\n"
}

func renderScreen(w *strings.Builder, b *resolve.Bundle) {
	doc := b.Doc
	if len(doc.Cases) > 0 {
		w.WriteString("## Test Cases\n\n")
		for i := range doc.Cases {
			c := &doc.Cases[i]
			name := c.Name
			if name == "" {
				name = fmt.Sprintf("Case %d", i+1)
			}
			fmt.Fprintf(w, "### %d. %s\n\n", i+1, name)
			if c.Skip {
				w.WriteString("_Skipped._\n\n")
			}
			if d, ok := b.CaseDescription(c); ok {
				writeDescription(w, d)
			} else if c.Description != "" {
				fmt.Fprintf(w, "%s\n\n", c.Description)
			}
			writeStepTable(w, c.Steps)
		}
	}

	for _, sec := range []struct {
		title string
		steps []schema.Step
	}{{"Setup", doc.Setup}, {"Teardown", doc.Teardown}} {
		if len(sec.steps) == 0 {
			continue
		}
		fmt.Fprintf(w, "## %s\n\n", sec.title)
		for j, s := range sec.steps {
			if in, ok := s.(*schema.InlineStep); ok {
				fmt.Fprintf(w, "%d. `%s` on `%s`\n", j+1, in.Verb(), in.Target())
			}
		}
		w.WriteString("\n")
	}
}

func renderFlow(w *strings.Builder, b *resolve.Bundle) {
	doc := b.Doc
	if len(doc.Setup) > 0 {
		w.WriteString("## Setup\n\n")
		writeFlowSteps(w, b, doc.Setup)
	}
	w.WriteString("## Flow Steps\n\n")
	writeFlowSteps(w, b, doc.Steps)
	if len(doc.Teardown) > 0 {
		w.WriteString("## Teardown\n\n")
		writeFlowSteps(w, b, doc.Teardown)
	}

	if len(doc.Checkpoints) > 0 {
		w.WriteString("## Checkpoints\n\n")
		for _, cp := range doc.Checkpoints {
			shot := ""
			if cp.Screenshot {
				shot = " (screenshot)"
			}
			fmt.Fprintf(w, "- **%s** after step %d%s\n", cp.Name, cp.AfterStep+1, shot)
		}
		w.WriteString("\n")
	}
}

// writeFlowSteps numbers file references and blocks; inline steps are
// listed without a number.
func writeFlowSteps(w *strings.Builder, b *resolve.Bundle, steps []schema.Step) {
	n := 0
	for _, s := range steps {
		switch s := s.(type) {
		case *schema.FileRefStep:
			n++
			fmt.Fprintf(w, "### %d. %s\n\n", n, b.ReferenceLabel(s))
			fmt.Fprintf(w, "- **File:** `%s`\n", s.File)
			if names := s.CaseNames(); len(names) > 0 {
				fmt.Fprintf(w, "- **Cases:** `%s`\n", strings.Join(names, ", "))
			} else {
				w.WriteString("- **Cases:** _all cases_\n")
			}
			if len(s.Args) > 0 {
				fmt.Fprintf(w, "- **Args:** %s\n", formatArgs(s.Args))
			}
			w.WriteString("\n")
		case *schema.BlockStep:
			n++
			fmt.Fprintf(w, "### %d. %s\n\n", n, b.BlockLabel(s))
			fmt.Fprintf(w, "- **Block:** `%s`\n\n", s.Block)
			if d, ok := b.Description(s.DescriptionFile); ok {
				writeDescription(w, d)
			}
			writeStepTable(w, s.Steps)
		case *schema.InlineStep:
			kind := "Action"
			if s.IsAssertion() {
				kind = "Assert"
			}
			fmt.Fprintf(w, "- %s `%s` on `%s`", kind, s.Verb(), s.Target())
			if d := s.Details(); d != "-" {
				fmt.Fprintf(w, " (%s)", d)
			}
			w.WriteString("\n\n")
		}
	}
}

func writeStepTable(w *strings.Builder, steps []schema.Step) {
	if len(steps) == 0 {
		return
	}
	w.WriteString("| # | Type | Action/Assert | Target | Details |\n")
	w.WriteString("|---|------|---------------|--------|---------|\n")
	for j, s := range steps {
		in, ok := s.(*schema.InlineStep)
		if !ok {
			continue
		}
		kind := "Action"
		if in.IsAssertion() {
			kind = "Assert"
		}
		fmt.Fprintf(w, "| %d | %s | `%s` | `%s` | %s |\n",
			j+1, kind, cell(in.Verb()), cell(in.Target()), cell(in.Details()))
	}
	w.WriteString("\n")
}

func writeDescription(w *strings.Builder, d *schema.Description) {
	if d.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", d.Summary)
	}
	if len(d.Preconditions) > 0 {
		w.WriteString("**Preconditions:**\n")
		for _, item := range d.Preconditions {
			fmt.Fprintf(w, "- %s\n", item)
		}
		w.WriteString("\n")
	}
	if len(d.TestProcedure) > 0 {
		w.WriteString("**Test Procedure:**\n")
		for i, item := range d.TestProcedure {
			fmt.Fprintf(w, "%d. %s\n", i+1, item)
		}
		w.WriteString("\n")
	}
	if len(d.ExpectedResults) > 0 {
		w.WriteString("**Expected Results:**\n")
		for _, item := range d.ExpectedResults {
			fmt.Fprintf(w, "- %s\n", item)
		}
		w.WriteString("\n")
	}
	if d.Notes != "" {
		fmt.Fprintf(w, "**Notes:** %s\n\n", d.Notes)
	}
}

func formatArgs(args map[string]any) string {
	parts := make([]string, 0, len(args))
	for _, k := range schema.SortedKeys(args) {
		parts = append(parts, fmt.Sprintf("`%s=%s`", k, schema.Format(args[k])))
	}
	return strings.Join(parts, ", ")
}

// cell escapes pipes so a value stays inside its table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderSchema produces the reference of every supported action and
// assertion.
func RenderSchema() string {
	var w strings.Builder
	w.WriteString("# JsonUI Test Schema Reference\n\n")
	w.WriteString("This document describes all supported actions and assertions for JsonUI test files.\n\n")

	w.WriteString("## Actions\n\n")
	for _, op := range schema.Actions() {
		writeOperation(&w, op, "action")
	}
	w.WriteString("## Assertions\n\n")
	for _, op := range schema.Assertions() {
		writeOperation(&w, op, "assert")
	}
	return strings.TrimRight(w.String(), "\n") + "\n"
}

func writeOperation(w *strings.Builder, op schema.Operation, key string) {
	fmt.Fprintf(w, "### `%s`\n\n%s\n\n", op.Name, op.Description)
	writeParams(w, "Required parameters", op.Required)
	writeParams(w, "Optional parameters", op.Optional)

	example, _ := json.MarshalIndent(schema.Example(op, key), "", "  ")
	fmt.Fprintf(w, "**Example:**\n```json\n%s\n```\n\n", example)
}

func writeParams(w *strings.Builder, title string, params []string) {
	if len(params) == 0 {
		return
	}
	fmt.Fprintf(w, "**%s:**\n", title)
	for _, p := range params {
		fmt.Fprintf(w, "- `%s`: %s\n", p, schema.ParameterDescription(p))
	}
	w.WriteString("\n")
}
