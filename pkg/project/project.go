// Package project loads the jsonui-test.yaml manifest: directory
// conventions for screens, flows and descriptions, plus defaults for
// validation and documentation output.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/resolve"
)

// ManifestName is the file DiscoverProject looks for.
const ManifestName = "jsonui-test.yaml"

// Project represents a jsonui-test.yaml manifest.
type Project struct {
	Name     string          `yaml:"name"               json:"name"`
	Paths    Paths           `yaml:"paths,omitempty"    json:"paths,omitempty"`
	Output   Output          `yaml:"output,omitempty"   json:"output,omitempty"`
	Validate ValidateOptions `yaml:"validate,omitempty" json:"validate,omitempty"`

	// Root is the absolute path to the directory containing the manifest.
	// Set after loading/discovery, not from YAML.
	Root string `yaml:"-" json:"-"`
}

// Paths overrides convention directories, relative to Root.
// Defaults: screens, flows, descriptions.
type Paths struct {
	Screens      string `yaml:"screens,omitempty"      json:"screens,omitempty"`
	Flows        string `yaml:"flows,omitempty"        json:"flows,omitempty"`
	Descriptions string `yaml:"descriptions,omitempty" json:"descriptions,omitempty"`
}

// Output holds documentation generation defaults.
type Output struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Dir    string `yaml:"dir,omitempty"    json:"dir,omitempty"`
}

// ValidateOptions holds validation defaults.
type ValidateOptions struct {
	StrictSchema bool `yaml:"strict_schema,omitempty" json:"strict_schema,omitempty"`
	Quiet        bool `yaml:"quiet,omitempty"         json:"quiet,omitempty"`
}

// ScreensDir returns the effective screens directory name.
func (p *Project) ScreensDir() string {
	if p != nil && p.Paths.Screens != "" {
		return p.Paths.Screens
	}
	return resolve.DefaultScreensDir
}

// FlowsDir returns the effective flows directory name.
func (p *Project) FlowsDir() string {
	if p != nil && p.Paths.Flows != "" {
		return p.Paths.Flows
	}
	return resolve.DefaultFlowsDir
}

// DescriptionsDir returns the effective descriptions directory name.
func (p *Project) DescriptionsDir() string {
	if p != nil && p.Paths.Descriptions != "" {
		return p.Paths.Descriptions
	}
	return "descriptions"
}

// OutputFormat returns the configured format, or def when unset.
func (p *Project) OutputFormat(def string) string {
	if p != nil && p.Output.Format != "" {
		return p.Output.Format
	}
	return def
}

// OutputDir returns the configured output directory resolved against Root,
// or "" when unset.
func (p *Project) OutputDir() string {
	if p == nil || p.Output.Dir == "" {
		return ""
	}
	if filepath.IsAbs(p.Output.Dir) {
		return p.Output.Dir
	}
	return filepath.Join(p.Root, p.Output.Dir)
}

// Resolver returns the reference resolver for this project's layout.
func (p *Project) Resolver() resolve.Resolver {
	return resolve.Resolver{ScreensDir: p.ScreensDir(), FlowsDir: p.FlowsDir()}
}

// LoadFile reads and parses a jsonui-test.yaml manifest.
func LoadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project manifest: %w", err)
	}

	var proj Project
	if err := yaml.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parse project manifest: %w", err)
	}

	if proj.Name == "" {
		return nil, fmt.Errorf("project manifest %s: name is required", path)
	}
	switch proj.Output.Format {
	case "", "markdown", "html":
	default:
		return nil, fmt.Errorf("project manifest %s: unknown output format %q", path, proj.Output.Format)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	proj.Root = filepath.Dir(abs)
	return &proj, nil
}

// Discover walks up from startPath to find the nearest jsonui-test.yaml.
// Returns nil (no error) if no manifest is found; the caller should use
// Fallback in that case.
func Discover(startPath string) (*Project, error) {
	abs, err := filepath.Abs(startPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	dir := abs
	if !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return LoadFile(candidate)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Fallback creates a project rooted at dir with default conventions.
func Fallback(dir string) *Project {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return &Project{
		Name: filepath.Base(abs),
		Root: abs,
	}
}

// Load returns the project for startPath: the manifest at explicit when
// given, else the discovered one, else the fallback rooted at startPath's
// directory.
func Load(explicit, startPath string) (*Project, error) {
	if explicit != "" {
		return LoadFile(explicit)
	}
	proj, err := Discover(startPath)
	if err != nil {
		return nil, err
	}
	if proj != nil {
		return proj, nil
	}
	dir := startPath
	if info, err := os.Stat(startPath); err == nil && !info.IsDir() {
		dir = filepath.Dir(startPath)
	}
	return Fallback(dir), nil
}
