package validate

import (
	"encoding/json"
	"fmt"
)

// Level is the severity of a validation message.
type Level int

const (
	// LevelError invalidates the document.
	LevelError Level = iota
	// LevelWarning is advisory only.
	LevelWarning
)

func (l Level) String() string {
	if l == LevelWarning {
		return "warning"
	}
	return "error"
}

// MarshalText encodes the level as "error" or "warning".
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes "error" or "warning".
func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*l = LevelError
	case "warning":
		*l = LevelWarning
	default:
		return fmt.Errorf("unknown level %q", b)
	}
	return nil
}

// Message is one finding, located by a dotted/bracketed path such as
// "login.test.json.cases[0].steps[1]".
type Message struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Level   Level  `json:"level"`
}

func (m Message) String() string {
	prefix := "ERROR"
	if m.Level == LevelWarning {
		prefix = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", prefix, m.Path, m.Message)
}

// Document kinds recorded on a Result.
const (
	KindScreen      = "screen"
	KindFlow        = "flow"
	KindDescription = "description"
)

// Result collects the findings for one file. It is valid when it holds no
// errors; warnings never affect validity.
type Result struct {
	FilePath string    `json:"file"`
	Kind     string    `json:"kind,omitempty"`
	Errors   []Message `json:"errors"`
	Warnings []Message `json:"warnings"`
	// Data is the parsed document, nil when the file could not be parsed.
	Data map[string]any `json:"-"`
}

func newResult(path string) *Result {
	return &Result{FilePath: path, Errors: []Message{}, Warnings: []Message{}}
}

// IsValid reports whether no errors were found.
func (r *Result) IsValid() bool { return len(r.Errors) == 0 }

// ErrorCount returns the number of errors.
func (r *Result) ErrorCount() int { return len(r.Errors) }

// WarningCount returns the number of warnings.
func (r *Result) WarningCount() int { return len(r.Warnings) }

// Messages returns errors followed by warnings.
func (r *Result) Messages() []Message {
	out := make([]Message, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	return append(out, r.Warnings...)
}

func (r *Result) errorf(path, format string, args ...any) {
	r.Errors = append(r.Errors, Message{Path: path, Message: fmt.Sprintf(format, args...), Level: LevelError})
}

func (r *Result) warnf(path, format string, args ...any) {
	r.Warnings = append(r.Warnings, Message{Path: path, Message: fmt.Sprintf(format, args...), Level: LevelWarning})
}

// MarshalJSON adds the derived valid flag.
func (r *Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return json.Marshal(struct {
		*plain
		Valid bool `json:"valid"`
	}{(*plain)(r), r.IsValid()})
}
