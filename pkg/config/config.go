// Package config loads the configuration of a building block invocation and
// resolves it against the tool descriptor: declared defaults filled in,
// unknown names rejected, value types validated.
package config

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bioexcel/biobb-md/pkg/tool"
)

// Error reports an invalid configuration source or value.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Load reads a configuration source and returns the raw properties mapping.
// The source may be empty, a path to a YAML or JSON document, or an inline
// JSON document. Documents hold the properties under a top-level
// "properties" key; any other top-level key is rejected.
func Load(source string) (map[string]any, error) {
	if source == "" {
		return map[string]any{}, nil
	}
	data := []byte(source)
	if !strings.HasPrefix(strings.TrimSpace(source), "{") {
		var err error
		data, err = os.ReadFile(source)
		if err != nil {
			return nil, &Error{Field: "config", Message: fmt.Sprintf("cannot read %s: %v", source, err)}
		}
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Field: "config", Message: fmt.Sprintf("cannot parse configuration: %v", err)}
	}
	for _, key := range sortedKeys(doc) {
		if key != "properties" {
			return nil, &Error{Field: key, Message: "unrecognized top-level key"}
		}
	}
	raw, present := doc["properties"]
	if !present || raw == nil {
		return map[string]any{}, nil
	}
	props, ok := raw.(map[string]any)
	if !ok {
		return nil, &Error{Field: "properties", Message: "must be a mapping"}
	}
	return props, nil
}

// Properties is the resolved option set of one invocation: descriptor
// defaults overlaid with the user-supplied values. It is built once at
// invocation start and never mutated.
type Properties struct {
	values map[string]any
	set    map[string]bool
}

// Resolve merges raw user properties over the descriptor defaults. Unknown
// property names and values of the wrong type yield an *Error.
func Resolve(spec tool.Spec, raw map[string]any) (Properties, error) {
	values := spec.Defaults()
	set := make(map[string]bool, len(raw))
	for _, name := range sortedKeys(raw) {
		opt, ok := spec.FindOption(name)
		if !ok {
			return Properties{}, &Error{Field: name, Message: "unknown property"}
		}
		coerced, err := coerce(opt, raw[name])
		if err != nil {
			return Properties{}, err
		}
		values[name] = coerced
		set[name] = true
	}
	return Properties{values: values, set: set}, nil
}

// ResolvePaths validates a path set against the descriptor: unknown keys and
// missing required paths are configuration errors.
func ResolvePaths(spec tool.Spec, paths map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(paths))
	for key, p := range paths {
		if _, ok := spec.FindFile(key); !ok {
			return nil, &Error{Field: key, Message: "unknown file key"}
		}
		resolved[key] = p
	}
	for _, f := range append(append([]tool.File{}, spec.Inputs...), spec.Outputs...) {
		if f.Required && resolved[f.Key] == "" {
			return nil, &Error{Field: f.Key, Message: "required path is missing"}
		}
	}
	return resolved, nil
}

func coerce(opt tool.Option, value any) (any, error) {
	switch opt.Type {
	case tool.String:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case tool.Bool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case tool.Int:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		}
	case tool.Float:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case tool.Dict:
		if m, ok := value.(map[string]any); ok {
			return m, nil
		}
	}
	return nil, &Error{Field: opt.Name, Message: fmt.Sprintf("expected %s, got %T", opt.Type, value)}
}

// Has reports whether the user supplied a value for the property, as opposed
// to the descriptor default being in effect.
func (p Properties) Has(name string) bool { return p.set[name] }

// String returns the string value of the property, or "" if unset.
func (p Properties) String(name string) string {
	s, _ := p.values[name].(string)
	return s
}

// Bool returns the boolean value of the property, or false if unset.
func (p Properties) Bool(name string) bool {
	b, _ := p.values[name].(bool)
	return b
}

// Int returns the integer value of the property, or 0 if unset.
func (p Properties) Int(name string) int {
	i, _ := p.values[name].(int)
	return i
}

// Float returns the float value of the property, or 0 if unset.
func (p Properties) Float(name string) float64 {
	switch v := p.values[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Dict returns the mapping value of the property with every entry rendered
// as a string, the form consumed by parameter-file writers.
func (p Properties) Dict(name string) map[string]string {
	m, _ := p.values[name].(map[string]any)
	if m == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = stringify(v)
	}
	return out
}

// Map returns a copy of the full resolved mapping, defaults included.
func (p Properties) Map() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Raw returns a copy of only the user-supplied entries, without defaults.
func (p Properties) Raw() map[string]any {
	out := make(map[string]any, len(p.set))
	for k := range p.set {
		out[k] = p.values[k]
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatFloat(t, 'f', 1, 64)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
