package mapfield

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ValueFromForm extracts the sub-field values submitted for the field named
// name, reading keys such as "<name>[Latitude]". Keys missing from the
// submission are left out of the result.
func ValueFromForm(values url.Values, name string) map[string]any {
	out := make(map[string]any, len(logicalNames))
	if values == nil {
		return out
	}
	name = strings.TrimSpace(name)
	for _, logical := range logicalNames {
		key := name + "[" + logical + "]"
		if _, ok := values[key]; !ok {
			continue
		}
		out[logical] = values.Get(key)
	}
	return out
}

// ValueFromJSON decodes a JSON object keyed by logical name, the shape the
// client widget posts when it submits asynchronously.
func ValueFromJSON(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("mapfield: decode value: %w", err)
	}
	out := make(map[string]any, len(logicalNames))
	for _, logical := range logicalNames {
		if value, ok := raw[logical]; ok {
			out[logical] = value
		}
	}
	return out, nil
}

// FormValues encodes the current sub-field values the way a browser submits
// them. Nil values are sent as empty strings.
func (f *Field) FormValues() url.Values {
	values := make(url.Values, len(logicalNames))
	for _, logical := range logicalNames {
		child, _ := f.Child(logical)
		values.Set(child.Name(), child.StringValue())
	}
	return values
}
