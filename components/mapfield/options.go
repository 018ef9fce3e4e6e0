package mapfield

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Recognised top-level option keys.
const (
	OptionAPIKey             = "api_key"
	OptionShowSearchBox      = "show_search_box"
	OptionFieldNames         = "field_names"
	OptionDefaultFieldValues = "default_field_values"
	OptionMap                = "map"
)

// DefaultZoom is the map zoom used when neither the record nor the options
// provide one.
const DefaultZoom = 14

// DefaultMapTypeID is the client map type placed in the base render payload.
const DefaultMapTypeID = "ROADMAP"

// OptionSet is the nested configuration of a Field. Nested levels are
// map[string]any values.
type OptionSet map[string]any

// DefaultOptions returns a fresh copy of the built-in option table.
func DefaultOptions() OptionSet {
	return OptionSet{
		OptionAPIKey:             "",
		OptionShowSearchBox:      false,
		OptionFieldNames:         IdentityFieldNames().Map(),
		OptionDefaultFieldValues: map[string]any{},
		OptionMap: map[string]any{
			"zoom": DefaultZoom,
		},
	}
}

// MergeOptions layers override on top of defaults. Only keys known to
// defaults are considered and nil overrides are skipped. When both sides of a
// key are mappings they are merged one level deep with the override winning
// per key; any other override replaces the default value.
func MergeOptions(defaults, override OptionSet) OptionSet {
	merged := OptionSet(cloneMap(defaults))
	for name, value := range merged {
		next, ok := override[name]
		if !ok || next == nil {
			continue
		}
		base, baseIsMap := asMap(value)
		patch, patchIsMap := asMap(next)
		if baseIsMap && patchIsMap {
			combined := cloneMap(base)
			for key, item := range patch {
				combined[key] = cloneValue(item)
			}
			merged[name] = combined
			continue
		}
		merged[name] = cloneValue(next)
	}
	return merged
}

// Clone returns a deep copy of the option set.
func (o OptionSet) Clone() OptionSet {
	if o == nil {
		return nil
	}
	return OptionSet(cloneMap(o))
}

// Bool reports whether the value at path is truthy. Blank strings, "0",
// "false", "no", "off", zero numbers and nil are false.
func (o OptionSet) Bool(path string) bool {
	return truthy(o.Get(path))
}

// Get reads a dot-delimited path. Missing paths yield nil.
func (o OptionSet) Get(path string) any {
	return GetPath(o, path)
}

// Set writes a dot-delimited path, creating intermediate mappings as needed.
func (o OptionSet) Set(path string, value any) {
	SetPath(o, path, value)
}

// GetPath resolves a dot-delimited path such as "map.zoom" inside m. Any
// missing or nil segment, or a segment that is not a mapping, yields nil.
func GetPath(m map[string]any, path string) any {
	if m == nil {
		return nil
	}
	if !strings.Contains(path, ".") {
		return m[path]
	}
	var current any = m
	for _, segment := range strings.Split(path, ".") {
		node, ok := asMap(current)
		if !ok {
			return nil
		}
		next, ok := node[segment]
		if !ok || next == nil {
			return nil
		}
		current = next
	}
	return current
}

// SetPath assigns value at a dot-delimited path inside m. Missing
// intermediate levels are created; scalar intermediates are replaced by
// mappings.
func SetPath(m map[string]any, path string, value any) {
	if m == nil {
		return
	}
	setPath(m, strings.Split(path, "."), value)
}

func setPath(m map[string]any, segments []string, value any) {
	head := segments[0]
	if len(segments) == 1 {
		m[head] = value
		return
	}
	child, ok := m[head].(map[string]any)
	if !ok {
		if converted, isMap := asMap(m[head]); isMap {
			child = cloneMap(converted)
		} else {
			child = make(map[string]any)
		}
		m[head] = child
	}
	setPath(child, segments[1:], value)
}

// DeepMerge returns base with override applied recursively: mappings present
// on both sides are merged, every other override value replaces the base
// value. Neither input is modified.
func DeepMerge(base, override map[string]any) map[string]any {
	out := cloneMap(base)
	if out == nil {
		out = make(map[string]any, len(override))
	}
	for key, value := range override {
		current, currentIsMap := asMap(out[key])
		patch, patchIsMap := asMap(value)
		if currentIsMap && patchIsMap {
			out[key] = DeepMerge(current, patch)
			continue
		}
		out[key] = cloneValue(value)
	}
	return out
}

// LoadOptions decodes a YAML option table. An empty document yields an empty
// set.
func LoadOptions(r io.Reader) (OptionSet, error) {
	if r == nil {
		return OptionSet{}, nil
	}
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return OptionSet{}, nil
		}
		return nil, fmt.Errorf("mapfield: decode options: %w", err)
	}
	if raw == nil {
		return OptionSet{}, nil
	}
	return OptionSet(normalizeMap(raw)), nil
}

// LoadOptionsFile reads a YAML option table from disk.
func LoadOptionsFile(path string) (OptionSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapfield: open options: %w", err)
	}
	defer file.Close()
	return LoadOptions(file)
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case OptionSet:
		return map[string]any(v), true
	case FieldNames:
		return v.Map(), true
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out, true
	default:
		return nil, false
	}
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	if m, ok := asMap(value); ok {
		return cloneMap(m)
	}
	if list, ok := value.([]any); ok {
		out := make([]any, len(list))
		for idx, item := range list {
			out[idx] = cloneValue(item)
		}
		return out
	}
	return value
}

// normalizeMap converts YAML mappings with non-string keys into
// map[string]any so path helpers can walk them.
func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return normalizeMap(v)
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}
