package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"sort"
	"strings"
)

// ParseJSON decodes a JSON document, keeping numbers as json.Number so
// integers and fractions stay distinguishable.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

// ReadJSON reads and decodes a JSON file with ParseJSON.
func ReadJSON(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

// ReadObject reads a JSON file whose top-level value must be an object.
func ReadObject(path string) (map[string]any, error) {
	v, err := ReadJSON(path)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: top-level JSON value is %s, not object", path, TypeName(v))
	}
	return m, nil
}

// AsString returns v when it is a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// NonEmptyString reports whether v is a string with non-whitespace content.
func NonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

// AsInt returns v as an integer. JSON numbers count only when written
// without fraction or exponent; booleans and floats never do.
func AsInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if strings.ContainsAny(string(n), ".eE") {
			return 0, false
		}
		i, err := n.Int64()
		return i, err == nil
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// IntSign reports the sign (-1, 0 or 1) of v when v is an integer by the
// same rules as AsInt. Literals too large for int64 still count.
func IntSign(v any) (int, bool) {
	if n, ok := v.(json.Number); ok {
		if strings.ContainsAny(string(n), ".eE") {
			return 0, false
		}
		i, ok := new(big.Int).SetString(string(n), 10)
		if !ok {
			return 0, false
		}
		return i.Sign(), true
	}
	i, ok := AsInt(v)
	switch {
	case !ok:
		return 0, false
	case i < 0:
		return -1, true
	case i > 0:
		return 1, true
	}
	return 0, true
}

// AsList returns v when it is a JSON array.
func AsList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// AsObject returns v when it is a JSON object.
func AsObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// IsPrimitive reports whether v is a string, number or boolean.
func IsPrimitive(v any) bool {
	switch v.(type) {
	case string, bool, json.Number, int, int32, int64, float32, float64:
		return true
	}
	return false
}

// TypeName names the JSON type of v.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, int, int32, int64, float32, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// Truthy mirrors the loose presence test used for action/assert keys:
// absent, null, false, zero, "" and empty containers are all false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

// Format renders a raw value for messages.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	case []any, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
