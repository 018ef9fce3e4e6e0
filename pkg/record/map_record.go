// Package record provides host record implementations for mapfield: an
// in-memory MapRecord and the casting rules shared with database-backed
// records.
package record

import "sort"

// MapRecord is an in-memory record with optional declared attribute kinds.
// Undeclared attributes store values verbatim.
type MapRecord struct {
	typeName string
	kinds    map[string]Kind
	values   map[string]any
}

// Option configures a MapRecord.
type Option func(*MapRecord)

// WithKinds declares attribute kinds used by SetCastedField.
func WithKinds(kinds map[string]Kind) Option {
	return func(r *MapRecord) {
		for name, kind := range kinds {
			r.kinds[name] = kind
		}
	}
}

// WithValues seeds attribute values without casting.
func WithValues(values map[string]any) Option {
	return func(r *MapRecord) {
		for name, value := range values {
			r.values[name] = value
		}
	}
}

// NewMapRecord builds a record of the given type.
func NewMapRecord(typeName string, opts ...Option) *MapRecord {
	r := &MapRecord{
		typeName: typeName,
		kinds:    make(map[string]Kind),
		values:   make(map[string]any),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *MapRecord) TypeName() string { return r.typeName }

// Get returns the stored value and whether the attribute was ever set.
func (r *MapRecord) Get(name string) (any, bool) {
	value, ok := r.values[name]
	return value, ok
}

// Set stores value without casting.
func (r *MapRecord) Set(name string, value any) {
	r.values[name] = value
}

// SetCastedField casts value to the attribute's declared kind and stores it.
// The stored value is left untouched when the cast fails.
func (r *MapRecord) SetCastedField(name string, value any) error {
	kind := r.kinds[name]
	casted, err := Cast(kind, value)
	if err != nil {
		return &CastError{Attribute: name, Kind: kind, Value: value, Err: err}
	}
	r.values[name] = casted
	return nil
}

// Attributes returns a copy of all stored values.
func (r *MapRecord) Attributes() map[string]any {
	out := make(map[string]any, len(r.values))
	for name, value := range r.values {
		out[name] = value
	}
	return out
}

// Names returns the stored attribute names sorted.
func (r *MapRecord) Names() []string {
	names := make([]string, 0, len(r.values))
	for name := range r.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
