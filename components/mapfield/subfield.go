package mapfield

import (
	"fmt"
	"slices"
	"strings"
)

// SubFieldKind distinguishes the input type rendered for a sub-field.
type SubFieldKind string

const (
	SubFieldHidden SubFieldKind = "hidden"
	SubFieldText   SubFieldKind = "text"
)

// NoChangeTrackClass marks inputs the form's unsaved-changes tracking must
// ignore.
const NoChangeTrackClass = "no-change-track"

// SubField is one scalar input of a composite Field.
type SubField struct {
	name       string
	title      string
	kind       SubFieldKind
	value      any
	classes    []string
	attributes map[string]string
}

func newHiddenField(name, title string, value any, classes ...string) *SubField {
	return &SubField{
		name:    name,
		title:   title,
		kind:    SubFieldHidden,
		value:   value,
		classes: classes,
	}
}

func newTextField(name string, classes ...string) *SubField {
	return &SubField{
		name:    name,
		title:   name,
		kind:    SubFieldText,
		classes: classes,
	}
}

func (f *SubField) Name() string       { return f.name }
func (f *SubField) Title() string      { return f.title }
func (f *SubField) Kind() SubFieldKind { return f.kind }
func (f *SubField) Value() any         { return f.value }

// SetValue replaces the value verbatim.
func (f *SubField) SetValue(value any) *SubField {
	f.value = value
	return f
}

// DataValue returns the value handed to the record on save.
func (f *SubField) DataValue() any {
	return f.value
}

// StringValue formats the value for an HTML value attribute. Nil renders as
// an empty string.
func (f *SubField) StringValue() string {
	if f.value == nil {
		return ""
	}
	return fmt.Sprint(f.value)
}

// Classes returns a copy of the extra CSS classes.
func (f *SubField) Classes() []string {
	return slices.Clone(f.classes)
}

// AddExtraClass appends space separated classes, skipping duplicates.
func (f *SubField) AddExtraClass(classes string) *SubField {
	for _, class := range strings.Fields(classes) {
		if !slices.Contains(f.classes, class) {
			f.classes = append(f.classes, class)
		}
	}
	return f
}

// NoChangeTrack reports whether the sub-field is excluded from change
// tracking.
func (f *SubField) NoChangeTrack() bool {
	return slices.Contains(f.classes, NoChangeTrackClass)
}

func (f *SubField) SetAttribute(name, value string) *SubField {
	if f.attributes == nil {
		f.attributes = make(map[string]string)
	}
	f.attributes[name] = value
	return f
}

func (f *SubField) Attribute(name string) string {
	return f.attributes[name]
}

// Attributes returns a copy of the extra HTML attributes.
func (f *SubField) Attributes() map[string]string {
	if len(f.attributes) == 0 {
		return nil
	}
	out := make(map[string]string, len(f.attributes))
	for key, value := range f.attributes {
		out[key] = value
	}
	return out
}
