// Package resolve locates test files referenced from flow steps and
// description files referenced from cases and blocks.
package resolve

import (
	"os"
	"path/filepath"
	"strings"
)

// Default directory names for screen and flow tests.
const (
	DefaultScreensDir = "screens"
	DefaultFlowsDir   = "flows"
)

// Resolver holds the directory conventions used to search for references.
// The zero value uses the defaults.
type Resolver struct {
	ScreensDir string
	FlowsDir   string
}

// Screens is the screen-test directory name.
func (r Resolver) Screens() string {
	if r.ScreensDir != "" {
		return r.ScreensDir
	}
	return DefaultScreensDir
}

// Flows is the flow-test directory name.
func (r Resolver) Flows() string {
	if r.FlowsDir != "" {
		return r.FlowsDir
	}
	return DefaultFlowsDir
}

// TestsRoot returns the directory holding the screens and flows trees for
// a test file living in baseDir: the parent of a screens/flows directory,
// its grandparent for a file nested one level deeper, or baseDir itself.
func (r Resolver) TestsRoot(baseDir string) string {
	if r.isTestsDir(filepath.Base(baseDir)) {
		return filepath.Dir(baseDir)
	}
	parent := filepath.Dir(baseDir)
	if r.isTestsDir(filepath.Base(parent)) {
		return filepath.Dir(parent)
	}
	return baseDir
}

func (r Resolver) isTestsDir(name string) bool {
	return name == r.Screens() || name == r.Flows()
}

// Candidates lists, in search order, every path a reference may resolve to.
// A reference containing a path separator, either / or \, is also tried
// relative to the tests root: "screens/login" finds
// <root>/screens/login.test.json and <root>/screens/login/login.test.json.
func (r Resolver) Candidates(baseDir, ref string) []string {
	ref = cleanRef(ref)
	root := r.TestsRoot(baseDir)
	candidates := []string{
		filepath.Join(baseDir, ref+".test.json"),
		filepath.Join(baseDir, ref+".json"),
		filepath.Join(baseDir, ref),
		filepath.Join(root, r.Screens(), ref, ref+".test.json"),
		filepath.Join(root, r.Screens(), ref+".test.json"),
		filepath.Join(root, r.Flows(), ref, ref+".test.json"),
		filepath.Join(root, r.Flows(), ref+".test.json"),
	}
	if strings.ContainsRune(ref, filepath.Separator) {
		candidates = append(candidates,
			filepath.Join(root, ref+".test.json"),
			filepath.Join(root, ref, filepath.Base(ref)+".test.json"),
		)
	}
	return candidates
}

// Expected returns the conventional location of ref, reported when the
// reference cannot be resolved.
func (r Resolver) Expected(baseDir, ref string) string {
	ref = cleanRef(ref)
	return filepath.Join(r.TestsRoot(baseDir), r.Screens(), ref, ref+".test.json")
}

// cleanRef accepts both separators in references regardless of the host.
func cleanRef(ref string) string {
	return filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))
}

// RefName is the screen or flow name a reference points at when it cannot
// be resolved: its last path element without the test suffix.
func RefName(ref string) string {
	return Stem(cleanRef(ref))
}

// Resolve returns the first existing regular file among the candidates.
func (r Resolver) Resolve(baseDir, ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	for _, c := range r.Candidates(baseDir, ref) {
		if isFile(c) {
			return c, true
		}
	}
	return "", false
}

// ResolveReference resolves ref against baseDir with the default layout.
func ResolveReference(baseDir, ref string) (string, bool) {
	return Resolver{}.Resolve(baseDir, ref)
}

// DescriptionPath returns where a descriptionFile value points for a test
// file at testPath: ref itself when absolute, else relative to the test
// file's directory.
func DescriptionPath(testPath, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(filepath.Dir(testPath), ref)
}

// ResolveDescription resolves a descriptionFile value and reports whether
// the file exists.
func ResolveDescription(testPath, ref string) (string, bool) {
	p := DescriptionPath(testPath, ref)
	return p, isFile(p)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
