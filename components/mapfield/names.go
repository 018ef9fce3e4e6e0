package mapfield

import "strings"

// Logical attribute names of a location value.
const (
	Latitude  = "Latitude"
	Longitude = "Longitude"
	Zoom      = "Zoom"
	Bounds    = "Bounds"
)

// SearchFieldName names the optional free-text search sub-field.
const SearchFieldName = "Search"

var logicalNames = []string{Latitude, Longitude, Zoom, Bounds}

// LogicalNames returns the logical attribute names in canonical order.
func LogicalNames() []string {
	return append([]string(nil), logicalNames...)
}

// FieldNames maps logical attribute names onto host record attribute names.
type FieldNames map[string]string

// IdentityFieldNames returns the default mapping where every logical name
// targets the attribute of the same name.
func IdentityFieldNames() FieldNames {
	names := make(FieldNames, len(logicalNames))
	for _, name := range logicalNames {
		names[name] = name
	}
	return names
}

// Lookup returns the host attribute for a logical name. Unmapped names
// resolve to "".
func (n FieldNames) Lookup(logical string) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n[logical])
}

// Map converts the mapping into an option value.
func (n FieldNames) Map() map[string]any {
	out := make(map[string]any, len(n))
	for key, value := range n {
		out[key] = value
	}
	return out
}

// ResolveFieldNames returns the mapping in effect for a field built with
// override.
func ResolveFieldNames(override OptionSet) FieldNames {
	merged := MergeOptions(DefaultOptions(), override)
	return fieldNamesFrom(merged[OptionFieldNames])
}

func fieldNamesFrom(value any) FieldNames {
	raw, ok := asMap(value)
	if !ok {
		return FieldNames{}
	}
	names := make(FieldNames, len(raw))
	for key, target := range raw {
		if s, ok := target.(string); ok {
			names[key] = s
		}
	}
	return names
}

// LocationValue is the logical value carried by a Field. Each attribute is
// optional; Bounds is opaque to the server.
type LocationValue struct {
	Latitude  any `json:"Latitude"`
	Longitude any `json:"Longitude"`
	Zoom      any `json:"Zoom"`
	Bounds    any `json:"Bounds"`
}

// Map returns the value keyed by logical name, the shape SetValue accepts.
func (v LocationValue) Map() map[string]any {
	return map[string]any{
		Latitude:  v.Latitude,
		Longitude: v.Longitude,
		Zoom:      v.Zoom,
		Bounds:    v.Bounds,
	}
}

// LocationFromMap builds a LocationValue from a logical-name keyed map.
// Missing keys stay nil.
func LocationFromMap(values map[string]any) LocationValue {
	return LocationValue{
		Latitude:  values[Latitude],
		Longitude: values[Longitude],
		Zoom:      values[Zoom],
		Bounds:    values[Bounds],
	}
}
