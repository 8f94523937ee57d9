package resolve

import (
	"path/filepath"
	"strings"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

// Bundle is a decoded test document together with the description files
// and referenced tests it points at. Entries that do not resolve or fail
// to load are absent; rendering falls back to inline values.
type Bundle struct {
	// Path is the absolute path of the test file.
	Path string
	Doc  *schema.Document

	descriptions map[string]*schema.Description
	references   map[string]*schema.Document
}

// Load decodes raw, read from path, and loads every description file and
// file reference it mentions.
func (r Resolver) Load(path string, raw map[string]any) *Bundle {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	b := &Bundle{
		Path:         path,
		Doc:          schema.Decode(raw),
		descriptions: make(map[string]*schema.Description),
		references:   make(map[string]*schema.Document),
	}
	for _, c := range b.Doc.Cases {
		b.loadDescription(c.DescriptionFile)
	}
	for _, steps := range [][]schema.Step{b.Doc.Setup, b.Doc.Steps, b.Doc.Teardown} {
		for _, s := range steps {
			switch s := s.(type) {
			case *schema.FileRefStep:
				b.loadReference(r, s.File)
			case *schema.BlockStep:
				b.loadDescription(s.DescriptionFile)
			}
		}
	}
	return b
}

func (b *Bundle) loadDescription(ref string) {
	if ref == "" {
		return
	}
	if _, seen := b.descriptions[ref]; seen {
		return
	}
	p, ok := ResolveDescription(b.Path, ref)
	if !ok {
		return
	}
	if d, err := schema.LoadDescription(p); err == nil {
		b.descriptions[ref] = d
	}
}

func (b *Bundle) loadReference(r Resolver, ref string) {
	if ref == "" {
		return
	}
	if _, seen := b.references[ref]; seen {
		return
	}
	p, ok := r.Resolve(filepath.Dir(b.Path), ref)
	if !ok {
		return
	}
	if d, err := schema.LoadDocument(p); err == nil {
		b.references[ref] = d
	}
}

// Name is metadata.name, or the file name without its test suffix.
func (b *Bundle) Name() string {
	return b.Doc.Title(Stem(b.Path))
}

// Title is metadata.description when set, else Name.
func (b *Bundle) Title() string {
	if b.Doc.Metadata.Description != "" {
		return b.Doc.Metadata.Description
	}
	return b.Name()
}

// Description returns the loaded description file for a descriptionFile
// value.
func (b *Bundle) Description(ref string) (*schema.Description, bool) {
	d, ok := b.descriptions[ref]
	return d, ok
}

// Reference returns the loaded test a file step points at.
func (b *Bundle) Reference(ref string) (*schema.Document, bool) {
	d, ok := b.references[ref]
	return d, ok
}

// CaseDescription returns the description file of c, if it has one that
// loaded.
func (b *Bundle) CaseDescription(c *schema.Case) (*schema.Description, bool) {
	return b.Description(c.DescriptionFile)
}

// CaseLabel is the display label of a case: the description file summary,
// the inline description, or the case name.
func (b *Bundle) CaseLabel(c *schema.Case) string {
	if d, ok := b.CaseDescription(c); ok && d.Summary != "" {
		return d.Summary
	}
	if c.Description != "" {
		return c.Description
	}
	return c.Name
}

// BlockLabel is the display label of a block step.
func (b *Bundle) BlockLabel(s *schema.BlockStep) string {
	if d, ok := b.Description(s.DescriptionFile); ok && d.Summary != "" {
		return d.Summary
	}
	if s.Description != "" {
		return s.Description
	}
	return s.Block
}

// ReferenceLabel is the display label of a file step: the description of
// the single referenced case when it can be loaded, else the file and case
// names.
func (b *Bundle) ReferenceLabel(s *schema.FileRefStep) string {
	names := s.CaseNames()
	if doc, ok := b.Reference(s.File); ok && len(names) == 1 {
		if c, ok := doc.Case(names[0]); ok && c.Description != "" {
			return c.Description
		}
	}
	if len(names) == 0 {
		return s.File
	}
	return s.File + ": " + strings.Join(names, ", ")
}

// ReferencedCases returns the cases a file step runs: the named ones that
// exist, or every case when none is named.
func (b *Bundle) ReferencedCases(s *schema.FileRefStep) []schema.Case {
	doc, ok := b.Reference(s.File)
	if !ok {
		return nil
	}
	names := s.CaseNames()
	if len(names) == 0 {
		return doc.Cases
	}
	var out []schema.Case
	for _, n := range names {
		if c, ok := doc.Case(n); ok {
			out = append(out, *c)
		}
	}
	return out
}

// Stem strips the directory and the .test.json or .json suffix from path.
func Stem(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".test.json", ".json"} {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
