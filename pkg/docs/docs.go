// Package docs turns validated test files into Markdown or HTML
// documentation. Every render is preceded by validation, and documents
// with errors are refused.
package docs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/diagram"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/html"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/logging"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/markdown"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/resolve"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/validate"
)

// ErrInvalidDocument is returned when the validator reports errors for a
// document that was asked to be rendered.
var ErrInvalidDocument = errors.New("document has validation errors")

// ErrNotATest is returned when a description file is passed where a
// screen or flow test is expected.
var ErrNotATest = errors.New("not a screen or flow test")

// Format is an output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "markdown", "md", "html" and "htm".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported format %q (want markdown or html)", s)
}

// FormatForPath infers the format from an output file extension, falling
// back to def.
func FormatForPath(path string, def Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return FormatHTML
	case ".md", ".markdown":
		return FormatMarkdown
	}
	return def
}

// Options configures a Generator.
type Options struct {
	Resolver     resolve.Resolver
	StrictSchema bool
	// Workers bounds parallel validation in GenerateDir.
	Workers int
	// Select limits which valid tests GenerateDir renders; nil renders all.
	Select *Selector
	// Now stamps the Generated line; nil uses time.Now, and a function
	// returning the zero time omits it.
	Now func() time.Time
}

// Generator validates and renders test documents.
type Generator struct {
	opts      Options
	validator *validate.Validator
}

// New returns a Generator.
func New(opts Options) *Generator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Generator{
		opts:      opts,
		validator: validate.New(validate.Options{Resolver: opts.Resolver, StrictSchema: opts.StrictSchema}),
	}
}

// Load validates path and resolves its references. The Result is always
// returned so callers can report warnings or errors.
func (g *Generator) Load(path string) (*resolve.Bundle, *validate.Result, error) {
	result := g.validator.ValidateFile(path)
	if !result.IsValid() {
		return nil, result, fmt.Errorf("%s: %w (%d errors)", path, ErrInvalidDocument, result.ErrorCount())
	}
	if result.Kind == validate.KindDescription {
		return nil, result, fmt.Errorf("%s: %w", path, ErrNotATest)
	}
	return g.opts.Resolver.Load(path, result.Data), result, nil
}

// Generate validates path and renders it in format.
func (g *Generator) Generate(path string, format Format) (string, *validate.Result, error) {
	b, result, err := g.Load(path)
	if err != nil {
		return "", result, err
	}
	out, err := g.render(b, format, html.Options{Generated: g.opts.Now()})
	return out, result, err
}

func (g *Generator) render(b *resolve.Bundle, format Format, opts html.Options) (string, error) {
	switch format {
	case FormatMarkdown:
		return markdown.Render(b, opts.Generated), nil
	case FormatHTML:
		return html.Render(b, opts)
	}
	return "", fmt.Errorf("unsupported format %q", format)
}

// GenerateFile renders path into out. An empty format is inferred from
// out's extension, defaulting to Markdown.
func (g *Generator) GenerateFile(path, out string, format Format) (*validate.Result, error) {
	if format == "" {
		format = FormatForPath(out, FormatMarkdown)
	}
	content, result, err := g.Generate(path, format)
	if err != nil {
		return result, err
	}
	if err := WriteFile(out, content); err != nil {
		return result, err
	}
	logging.Info("docs", "generated %s", out)
	return result, nil
}

// Schema renders the reference of every action and assertion.
func Schema(format Format) (string, error) {
	switch format {
	case FormatMarkdown:
		return markdown.RenderSchema(), nil
	case FormatHTML:
		return html.RenderSchema()
	}
	return "", fmt.Errorf("unsupported format %q", format)
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Summary reports what GenerateDir produced.
type Summary struct {
	// Pages lists written test pages relative to the output directory.
	Pages   []string
	Skipped []html.Skipped
	// Unselected counts valid tests left out by Options.Select.
	Unselected int
	Diagram    bool
	Results    []*validate.Result
}

// FindTests returns every *.test.json below dir in lexical order.
func FindTests(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".test.json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find tests in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

type page struct {
	bundle *resolve.Bundle
	rel    string
}

// GenerateDir renders every valid test below testsDir as HTML into outDir:
// screens/<name>.test.html, flows/<name>.test.html, an index.html linking
// them and, when flows exist, diagram.html. Invalid files are skipped and
// listed in the index.
func (g *Generator) GenerateDir(ctx context.Context, testsDir, outDir string) (*Summary, error) {
	files, err := FindTests(testsDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no test files found in %s", testsDir)
	}

	sum := &Summary{Results: g.validator.ValidateFiles(ctx, files, g.opts.Workers)}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var pages []page
	nav := &html.Nav{}
	var entries []html.IndexEntry
	for _, r := range sum.Results {
		rel, _ := filepath.Rel(testsDir, r.FilePath)
		if rel == "" {
			rel = r.FilePath
		}
		switch {
		case !r.IsValid():
			reason := fmt.Sprintf("%d validation errors", r.ErrorCount())
			if r.ErrorCount() == 1 {
				reason = "1 validation error"
			}
			logging.Warn("docs", "skipping %s: %s", r.FilePath, reason)
			sum.Skipped = append(sum.Skipped, html.Skipped{Path: rel, Reason: reason})
			continue
		case r.Kind == validate.KindDescription:
			continue
		}

		b := g.opts.Resolver.Load(r.FilePath, r.Data)
		selected, err := g.opts.Select.Match(b, rel)
		if err != nil {
			return nil, err
		}
		if !selected {
			logging.Debug("docs", "%s not selected by %s", rel, g.opts.Select)
			sum.Unselected++
			continue
		}
		dir := "screens"
		if b.Doc.IsFlow() {
			dir = "flows"
		}
		p := page{bundle: b, rel: dir + "/" + resolve.Stem(r.FilePath) + ".test.html"}
		pages = append(pages, p)

		link := html.NavLink{Name: b.Name(), Path: p.rel}
		entry := html.IndexEntry{Name: b.Name(), Title: b.Title(), Path: p.rel, Type: b.Doc.Type}
		if b.Doc.IsFlow() {
			nav.Flows = append(nav.Flows, link)
			entry.Steps = len(b.Doc.Steps)
		} else {
			nav.Screens = append(nav.Screens, link)
			entry.Cases = len(b.Doc.Cases)
			for _, c := range b.Doc.Cases {
				entry.Steps += len(c.Steps)
			}
		}
		entries = append(entries, entry)
	}

	generated := g.opts.Now()
	for _, p := range pages {
		content, err := html.Render(p.bundle, html.Options{Generated: generated, Nav: nav, Current: p.rel})
		if err != nil {
			return nil, err
		}
		if err := WriteFile(filepath.Join(outDir, filepath.FromSlash(p.rel)), content); err != nil {
			return nil, err
		}
		logging.Info("docs", "generated %s", p.rel)
		sum.Pages = append(sum.Pages, p.rel)
	}

	if len(nav.Flows) > 0 {
		ok, err := g.writeDiagram(testsDir, outDir, nav)
		if err != nil {
			return nil, err
		}
		sum.Diagram = ok
	}

	index, err := html.RenderIndex(entries, html.IndexOptions{
		HasDiagram: sum.Diagram,
		Skipped:    sum.Skipped,
		Generated:  generated,
	})
	if err != nil {
		return nil, err
	}
	if err := WriteFile(filepath.Join(outDir, "index.html"), index); err != nil {
		return nil, err
	}
	logging.Info("docs", "generated index.html (%d pages, %d skipped)", len(sum.Pages), len(sum.Skipped))
	return sum, nil
}

func (g *Generator) writeDiagram(testsDir, outDir string, nav *html.Nav) (bool, error) {
	flowsDir := filepath.Join(testsDir, g.opts.Resolver.Flows())
	if _, err := os.Stat(flowsDir); err != nil {
		logging.Debug("docs", "no %s directory, skipping diagram", flowsDir)
		return false, nil
	}
	graph, err := diagram.Scan(g.opts.Resolver, flowsDir)
	if err != nil {
		return false, err
	}
	code, err := diagram.Generate(graph, diagram.FormatMermaid)
	if err != nil {
		return false, err
	}
	content, err := html.RenderDiagram("", code, nav)
	if err != nil {
		return false, err
	}
	if err := WriteFile(filepath.Join(outDir, "diagram.html"), content); err != nil {
		return false, err
	}
	logging.Info("docs", "generated diagram.html")
	return true, nil
}

// Preview renders Markdown for the terminal. width <= 0 disables
// wrapping.
func Preview(md string, width int) (string, error) {
	if width < 0 {
		width = 0
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return out, nil
}
