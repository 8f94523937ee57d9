// Package validate checks JsonUI screen tests, flow tests and description
// files, producing one Result per file.
package validate

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/Tai-Kimura/jsonui-test-runner/pkg/resolve"
	"github.com/Tai-Kimura/jsonui-test-runner/pkg/schema"
)

// Options configures a Validator.
type Options struct {
	// Resolver locates flow file references. The zero value uses the
	// default screens/flows layout.
	Resolver resolve.Resolver
	// StrictSchema additionally validates documents against the generated
	// JSON Schema and reports violations as warnings.
	StrictSchema bool
}

// Validator dispatches files to the screen, flow and description checks.
// It holds no per-file state and is safe for concurrent use.
type Validator struct {
	opts Options
}

// New returns a Validator.
func New(opts Options) *Validator {
	return &Validator{opts: opts}
}

// checker carries the state of one validation run.
type checker struct {
	opts   Options
	result *Result
	// filePath is the absolute path of the file under validation, or ""
	// when validating in-memory data; baseDir is its directory.
	filePath string
	baseDir  string
	// platforms lists the platforms the document declares.
	platforms []string
}

func (v *Validator) newChecker(result *Result, filePath string) *checker {
	c := &checker{opts: v.opts, result: result}
	if filePath != "" {
		if abs, err := filepath.Abs(filePath); err == nil {
			filePath = abs
		}
		c.filePath = filePath
		c.baseDir = filepath.Dir(filePath)
	}
	return c
}

func (c *checker) targetsIOS() bool {
	for _, p := range c.platforms {
		if strings.EqualFold(p, "ios") {
			return true
		}
	}
	return false
}

// ValidateFile reads, parses, classifies and validates one file.
func (v *Validator) ValidateFile(path string) *Result {
	result := newResult(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		result.errorf(path, "Cannot read file: %v", err)
		return result
	}
	parsed, err := schema.ParseJSON(raw)
	if err != nil {
		result.errorf(path, "Invalid JSON: %v", err)
		return result
	}
	data, ok := parsed.(map[string]any)
	if !ok {
		result.errorf(path, "Top-level JSON value must be an object, got %s", schema.TypeName(parsed))
		return result
	}
	result.Data = data

	c := v.newChecker(result, path)
	_, hasCaseName := data["case_name"]
	_, hasType := data["type"]
	switch {
	case strings.HasSuffix(filepath.Base(path), ".test.json"):
		c.validateTest(data, path)
	case hasCaseName || filepath.Base(filepath.Dir(c.filePath)) == "descriptions":
		result.Kind = KindDescription
		c.validateDescription(data, path)
	case hasType && (data["type"] == schema.TypeScreen || data["type"] == schema.TypeFlow):
		c.validateTest(data, path)
	default:
		result.errorf(path, "Unknown file type: expected test file (.test.json) or description file")
		return result
	}

	if v.opts.StrictSchema {
		c.validateSemantic(data, path)
	}
	return result
}

// ValidateData validates an in-memory test document without touching the
// filesystem. name prefixes every message path; "test" is used when empty.
// Numbers should be json.Number (as produced by schema.ParseJSON) or Go
// integers; float64 values never count as integers.
func (v *Validator) ValidateData(data map[string]any, name string) *Result {
	if name == "" {
		name = "test"
	}
	result := newResult(name)
	result.Data = data
	c := v.newChecker(result, "")
	c.validateTest(data, name)
	if v.opts.StrictSchema {
		c.validateSemantic(data, name)
	}
	return result
}

// ValidateDescriptionData validates an in-memory description document.
func (v *Validator) ValidateDescriptionData(data map[string]any, name string) *Result {
	if name == "" {
		name = "description"
	}
	result := newResult(name)
	result.Data = data
	result.Kind = KindDescription
	v.newChecker(result, "").validateDescription(data, name)
	return result
}

func (c *checker) validateTest(data map[string]any, path string) {
	c.platforms = schema.Platforms(data["platform"])
	switch t := data["type"]; t {
	case schema.TypeScreen:
		c.result.Kind = KindScreen
		c.validateScreen(data, path)
	case schema.TypeFlow:
		c.result.Kind = KindFlow
		c.validateFlow(data, path)
	default:
		label := "<missing>"
		if _, ok := data["type"]; ok {
			label = schema.Format(t)
		}
		c.result.errorf(path, "Unknown or missing test type: %s", label)
	}
}

// ValidateFiles validates paths with up to workers files in flight and
// returns one result per path, sorted by path. workers <= 0 means one per
// CPU. Files not yet started when ctx is cancelled get a "Cannot validate"
// error instead.
func (v *Validator) ValidateFiles(ctx context.Context, paths []string, workers int) []*Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]*Result, 0, len(paths))
		sem     = make(chan struct{}, workers)
	)
	add := func(r *Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}
	skip := func(p string, err error) {
		r := newResult(p)
		r.errorf(p, "Cannot validate: %v", err)
		add(r)
	}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			skip(p, err)
			continue
		}
		select {
		case <-ctx.Done():
			skip(p, ctx.Err())
			continue
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			defer func() { <-sem }()
			add(v.ValidateFile(p))
		}(p)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].FilePath < results[j].FilePath })
	return results
}
