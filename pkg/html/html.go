// Package html renders screen tests, flow tests, the documentation index,
// the transition diagram page and the schema reference as standalone HTML
// pages.
package html

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/resolve"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

// TimeLayout formats the Generated line.
const TimeLayout = "2006-01-02 15:04:05"

//go:embed templates/*.tmpl templates/style.css
var templateFS embed.FS

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"style": func() template.CSS {
		css, _ := templateFS.ReadFile("templates/style.css")
		return template.CSS(css)
	},
}).ParseFS(templateFS, "templates/*.tmpl"))

// NavLink is one entry of the cross-page navigation.
type NavLink struct {
	Name string
	// Path is relative to the output root, e.g. "screens/login.test.html".
	Path string
}

// Nav lists every generated page for the sidebar.
type Nav struct {
	Screens []NavLink
	Flows   []NavLink
}

// Options controls page chrome shared by test pages.
type Options struct {
	// Generated is printed on the page; zero omits it.
	Generated time.Time
	// Nav adds links to the other generated pages.
	Nav *Nav
	// Current is the output-root-relative path of the page being rendered.
	Current string
}

// page holds the fields every template reads.
type page struct {
	PageTitle   string
	Title       string
	Generated   string
	Nav         *Nav
	NavPrefix   string
	CollapseNav bool
	Current     string
}

func newPage(title, pageTitle string, opts Options) page {
	p := page{
		Title:       title,
		PageTitle:   pageTitle,
		Nav:         opts.Nav,
		NavPrefix:   "../",
		CollapseNav: true,
		Current:     opts.Current,
	}
	if !opts.Generated.IsZero() {
		p.Generated = opts.Generated.Format(TimeLayout)
	}
	return p
}

type stepRow struct {
	Num     int
	Kind    string
	Class   string
	Verb    string
	Target  string
	Details string
}

type caseView struct {
	Num         int
	Anchor      string
	Label       string
	Name        string
	Skip        bool
	Description *schema.Description
	Steps       []stepRow
}

type screenPage struct {
	page
	Name     string
	Platform string
	Layout   string
	Cases    []caseView
	Setup    []stepRow
	Teardown []stepRow
}

type flowStep struct {
	Num    int
	Anchor string
	Kind   string
	Label  string

	File       string
	Cases      string
	Args       string
	Referenced []caseView

	Block       string
	Description *schema.Description
	Steps       []stepRow

	KindLabel string
	Verb      string
	Target    string
	Details   string
}

type checkpointView struct {
	Name        string
	After       int
	Screenshot  bool
	Description string
}

type flowPage struct {
	page
	Name        string
	Platform    string
	Sidebar     []flowStep
	Setup       []flowStep
	Steps       []flowStep
	Teardown    []flowStep
	Checkpoints []checkpointView
}

// Render produces the page for a screen or flow test.
func Render(b *resolve.Bundle, opts Options) (string, error) {
	if b.Doc.IsFlow() {
		return RenderFlow(b, opts)
	}
	return RenderScreen(b, opts)
}

// RenderScreen produces the page for a screen test.
func RenderScreen(b *resolve.Bundle, opts Options) (string, error) {
	doc := b.Doc
	p := screenPage{
		page:     newPage(b.Title(), b.Title()+" - Test Documentation", opts),
		Name:     b.Name(),
		Platform: doc.PlatformLabel(),
		Layout:   doc.Source.Layout,
		Setup:    stepRows(doc.Setup),
		Teardown: stepRows(doc.Teardown),
	}
	for i := range doc.Cases {
		c := &doc.Cases[i]
		cv := caseView{
			Num:    i + 1,
			Anchor: fmt.Sprintf("case-%d", i+1),
			Label:  b.CaseLabel(c),
			Name:   c.Name,
			Skip:   c.Skip,
			Steps:  stepRows(c.Steps),
		}
		if d, ok := b.CaseDescription(c); ok {
			cv.Description = d
		}
		p.Cases = append(p.Cases, cv)
	}
	return execute("screen", p)
}

// RenderFlow produces the page for a flow test. File references and
// blocks are numbered; inline steps are not.
func RenderFlow(b *resolve.Bundle, opts Options) (string, error) {
	doc := b.Doc
	p := flowPage{
		page:     newPage(b.Title(), b.Title()+" - Flow Test Documentation", opts),
		Name:     b.Name(),
		Platform: doc.PlatformLabel(),
		Setup:    flowSteps(b, doc.Setup, "setup"),
		Steps:    flowSteps(b, doc.Steps, "step"),
		Teardown: flowSteps(b, doc.Teardown, "teardown"),
	}
	for _, s := range p.Steps {
		if s.Num > 0 {
			p.Sidebar = append(p.Sidebar, s)
		}
	}
	for _, cp := range doc.Checkpoints {
		p.Checkpoints = append(p.Checkpoints, checkpointView{
			Name:        cp.Name,
			After:       cp.AfterStep + 1,
			Screenshot:  cp.Screenshot,
			Description: cp.Description,
		})
	}
	return execute("flow", p)
}

func flowSteps(b *resolve.Bundle, steps []schema.Step, prefix string) []flowStep {
	var out []flowStep
	n := 0
	for _, s := range steps {
		switch s := s.(type) {
		case *schema.FileRefStep:
			n++
			fs := flowStep{
				Num:    n,
				Anchor: fmt.Sprintf("%s-%d", prefix, n),
				Kind:   "file",
				Label:  b.ReferenceLabel(s),
				File:   s.File,
				Cases:  strings.Join(s.CaseNames(), ", "),
				Args:   formatArgs(s.Args),
			}
			for i, c := range b.ReferencedCases(s) {
				fs.Referenced = append(fs.Referenced, caseView{
					Num:   i + 1,
					Label: caseLabel(c),
					Name:  c.Name,
					Steps: stepRows(c.Steps),
				})
			}
			out = append(out, fs)
		case *schema.BlockStep:
			n++
			fs := flowStep{
				Num:    n,
				Anchor: fmt.Sprintf("%s-%d", prefix, n),
				Kind:   "block",
				Label:  b.BlockLabel(s),
				Block:  s.Block,
				Steps:  stepRows(s.Steps),
			}
			if d, ok := b.Description(s.DescriptionFile); ok {
				fs.Description = d
			}
			out = append(out, fs)
		case *schema.InlineStep:
			fs := flowStep{
				Kind:      "action",
				KindLabel: "Action",
				Verb:      s.Verb(),
				Target:    s.Target(),
			}
			if s.IsAssertion() {
				fs.Kind, fs.KindLabel = "assert", "Assert"
			}
			if d := s.Details(); d != "-" {
				fs.Details = d
			}
			out = append(out, fs)
		}
	}
	return out
}

func caseLabel(c schema.Case) string {
	if c.Description != "" {
		return c.Description
	}
	return c.Name
}

func stepRows(steps []schema.Step) []stepRow {
	var rows []stepRow
	for i, s := range steps {
		in, ok := s.(*schema.InlineStep)
		if !ok {
			continue
		}
		r := stepRow{Num: i + 1, Kind: "Action", Class: "action", Verb: in.Verb(), Target: in.Target(), Details: in.Details()}
		if in.IsAssertion() {
			r.Kind, r.Class = "Assert", "assert"
		}
		rows = append(rows, r)
	}
	return rows
}

func formatArgs(args map[string]any) string {
	parts := make([]string, 0, len(args))
	for _, k := range schema.SortedKeys(args) {
		parts = append(parts, k+"="+schema.Format(args[k]))
	}
	return strings.Join(parts, ", ")
}

// IndexEntry describes one generated test page.
type IndexEntry struct {
	Name  string
	Title string
	// Path is relative to the output root.
	Path  string
	Type  string
	Cases int
	Steps int
}

// Skipped records an input that produced no page.
type Skipped struct {
	Path   string
	Reason string
}

type indexSummary struct {
	Files, Screens, Flows, Cases, Steps int
}

type indexPage struct {
	page
	HasDiagram bool
	Summary    indexSummary
	Screens    []IndexEntry
	Flows      []IndexEntry
	Skipped    []Skipped
}

// IndexOptions configures RenderIndex.
type IndexOptions struct {
	Title      string
	HasDiagram bool
	Skipped    []Skipped
	Generated  time.Time
}

// RenderIndex produces index.html for a set of generated pages.
func RenderIndex(entries []IndexEntry, opts IndexOptions) (string, error) {
	title := opts.Title
	if title == "" {
		title = "JsonUI Test Documentation"
	}
	nav := &Nav{}
	p := indexPage{
		page:       newPage(title, title, Options{Generated: opts.Generated, Nav: nav}),
		HasDiagram: opts.HasDiagram,
		Skipped:    opts.Skipped,
	}
	p.NavPrefix = ""
	p.CollapseNav = false

	for _, e := range entries {
		p.Summary.Files++
		p.Summary.Cases += e.Cases
		p.Summary.Steps += e.Steps
		link := NavLink{Name: e.Name, Path: e.Path}
		switch e.Type {
		case schema.TypeFlow:
			p.Summary.Flows++
			p.Flows = append(p.Flows, e)
			nav.Flows = append(nav.Flows, link)
		default:
			p.Summary.Screens++
			p.Screens = append(p.Screens, e)
			nav.Screens = append(nav.Screens, link)
		}
	}
	return execute("index", p)
}

type diagramPage struct {
	page
	Code string
}

// RenderDiagram wraps Mermaid source in a page that renders it. The page
// is written next to index.html.
func RenderDiagram(title, mermaid string, nav *Nav) (string, error) {
	if title == "" {
		title = "Screen Flow Diagram"
	}
	p := diagramPage{page: newPage(title, title, Options{Nav: nav}), Code: mermaid}
	p.NavPrefix = ""
	return execute("diagram", p)
}

type paramView struct {
	Name        string
	Description string
}

type operationView struct {
	Anchor      string
	Name        string
	Description string
	Required    []paramView
	Optional    []paramView
	Example     string
}

type schemaPage struct {
	page
	Actions    []operationView
	Assertions []operationView
}

// RenderSchema produces the reference page of every supported action and
// assertion.
func RenderSchema() (string, error) {
	title := "JsonUI Test Schema Reference"
	p := schemaPage{page: newPage(title, title, Options{})}
	for _, op := range schema.Actions() {
		p.Actions = append(p.Actions, operation(op, "action"))
	}
	for _, op := range schema.Assertions() {
		p.Assertions = append(p.Assertions, operation(op, "assert"))
	}
	return execute("schema", p)
}

func operation(op schema.Operation, key string) operationView {
	example, _ := json.MarshalIndent(schema.Example(op, key), "", "  ")
	return operationView{
		Anchor:      key + "-" + op.Name,
		Name:        op.Name,
		Description: op.Description,
		Required:    params(op.Required),
		Optional:    params(op.Optional),
		Example:     string(example),
	}
}

func params(names []string) []paramView {
	out := make([]paramView, len(names))
	for i, n := range names {
		out[i] = paramView{Name: n, Description: schema.ParameterDescription(n)}
	}
	return out
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s page: %w", name, err)
	}
	return buf.String(), nil
}
