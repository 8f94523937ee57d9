// Package report prints validation results for people (styled text) and
// for tools (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/validate"
)

// Color palette
var (
	colorSuccess = lipgloss.Color("#00D787")
	colorError   = lipgloss.Color("#FF5F87")
	colorWarning = lipgloss.Color("#FFAF00")
	colorMuted   = lipgloss.Color("#888888")
)

// Options controls what the text report shows.
type Options struct {
	// Verbose lists every file, including clean ones.
	Verbose bool
	// Quiet hides warnings. They are still counted in the summary.
	Quiet bool
}

// Totals aggregates a batch of results.
type Totals struct {
	Files    int `json:"files"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Passed reports whether no errors were found.
func (t Totals) Passed() bool { return t.Errors == 0 }

// Sum totals results.
func Sum(results []*validate.Result) Totals {
	t := Totals{Files: len(results)}
	for _, r := range results {
		t.Errors += r.ErrorCount()
		t.Warnings += r.WarningCount()
	}
	return t
}

// Text writes a human-readable report. Colors are used only when w is a
// terminal.
func Text(w io.Writer, results []*validate.Result, opts Options) Totals {
	r := lipgloss.NewRenderer(w)
	var (
		errStyle  = r.NewStyle().Foreground(colorError).Bold(true)
		warnStyle = r.NewStyle().Foreground(colorWarning).Bold(true)
		okStyle   = r.NewStyle().Foreground(colorSuccess).Bold(true)
		pathStyle = r.NewStyle().Bold(true)
		muted     = r.NewStyle().Foreground(colorMuted)
	)

	for _, res := range results {
		showWarnings := !opts.Quiet && res.WarningCount() > 0
		if !opts.Verbose && res.ErrorCount() == 0 && !showWarnings {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", pathStyle.Render(res.FilePath))
		for _, m := range res.Errors {
			fmt.Fprintf(w, "  %s %s: %s\n", errStyle.Render("[ERROR]"), muted.Render(m.Path), m.Message)
		}
		if showWarnings {
			for _, m := range res.Warnings {
				fmt.Fprintf(w, "  %s %s: %s\n", warnStyle.Render("[WARN]"), muted.Render(m.Path), m.Message)
			}
		}
		if opts.Verbose && res.IsValid() && res.WarningCount() == 0 {
			fmt.Fprintf(w, "  %s\n", okStyle.Render("OK"))
		}
	}

	t := Sum(results)
	status := okStyle.Render("PASSED")
	if !t.Passed() {
		status = errStyle.Render("FAILED")
	}
	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(w, "Result: %s\n", status)
	fmt.Fprintf(w, "Files: %d, Errors: %d, Warnings: %d\n", t.Files, t.Errors, t.Warnings)
	return t
}

type jsonReport struct {
	Passed  bool               `json:"passed"`
	Totals  Totals             `json:"totals"`
	Results []*validate.Result `json:"results"`
}

// JSON writes the results and totals as an indented JSON document. Quiet
// drops warnings from the per-file lists.
func JSON(w io.Writer, results []*validate.Result, opts Options) (Totals, error) {
	t := Sum(results)
	out := results
	if opts.Quiet {
		out = make([]*validate.Result, len(results))
		for i, r := range results {
			c := *r
			c.Warnings = []validate.Message{}
			out[i] = &c
		}
	}
	if out == nil {
		out = []*validate.Result{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport{Passed: t.Passed(), Totals: t, Results: out}); err != nil {
		return t, fmt.Errorf("encode report: %w", err)
	}
	return t, nil
}
