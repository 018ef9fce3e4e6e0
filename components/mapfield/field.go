package mapfield

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// SettingsAttribute is the HTML attribute carrying the client payload.
const SettingsAttribute = "data-settings"

// SearchPlaceholder is the placeholder of the optional search input.
const SearchPlaceholder = "Search for a location"

type OptionFn func(*config)

type config struct {
	defaults OptionSet
}

// WithDefaults replaces the built-in default option table used as the base of
// the merge. Integration layers use it to supply their own framework
// defaults.
func WithDefaults(defaults OptionSet) OptionFn {
	return func(c *config) {
		if c == nil || defaults == nil {
			return
		}
		c.defaults = defaults.Clone()
	}
}

// Field is a composite location input bound to a single Record for its
// lifetime.
type Field struct {
	record      Record
	title       string
	description string
	name        string
	options     OptionSet

	latField    *SubField
	lngField    *SubField
	zoomField   *SubField
	boundsField *SubField
	children    []*SubField

	classes    []string
	attributes map[string]string
}

// New builds a Field for record. override is merged over the default option
// table (see MergeOptions) and may be nil.
func New(record Record, title string, override OptionSet, fns ...OptionFn) *Field {
	cfg := config{defaults: DefaultOptions()}
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&cfg)
	}

	f := &Field{
		record:  record,
		title:   title,
		options: MergeOptions(cfg.defaults, override),
	}
	f.name = f.deriveName()
	f.setupChildren()
	return f
}

func (f *Field) deriveName() string {
	typeName := ""
	if f.record != nil {
		typeName = f.record.TypeName()
	}
	return fmt.Sprintf("%s_%s_%s", typeName, f.childFieldName(Latitude), f.childFieldName(Longitude))
}

func (f *Field) setupChildren() {
	f.latField = newHiddenField(f.name+"[Latitude]", "Lat", f.recordFieldData(Latitude),
		"googlemapfield-latfield", NoChangeTrackClass)
	f.lngField = newHiddenField(f.name+"[Longitude]", "Lng", f.recordFieldData(Longitude),
		"googlemapfield-lngfield", NoChangeTrackClass)
	f.zoomField = newHiddenField(f.name+"[Zoom]", "Zoom", f.recordFieldData(Zoom),
		"googlemapfield-zoomfield", NoChangeTrackClass)
	f.boundsField = newHiddenField(f.name+"[Bounds]", "Bounds", f.recordFieldData(Bounds),
		"googlemapfield-boundsfield", NoChangeTrackClass)

	f.children = []*SubField{f.latField, f.lngField, f.zoomField, f.boundsField}

	if truthy(f.options[OptionShowSearchBox]) {
		search := newTextField(SearchFieldName, "googlemapfield-searchfield").
			SetAttribute("placeholder", SearchPlaceholder)
		f.children = append(f.children, search)
	}
}

// Name is derived from the record type and the mapped latitude and longitude
// attributes, so it is stable across renders and submissions.
func (f *Field) Name() string { return f.name }

func (f *Field) Title() string { return f.title }

var idPattern = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ID returns an HTML-safe identifier derived from Name.
func (f *Field) ID() string {
	return strings.Trim(idPattern.ReplaceAllString(f.name, "_"), "_")
}

func (f *Field) Description() string { return f.description }

// SetDescription sets help text shown under the map. Renderers sanitize it.
func (f *Field) SetDescription(description string) *Field {
	f.description = description
	return f
}

// Record returns the bound host record.
func (f *Field) Record() Record { return f.record }

// Children returns the sub-fields in render order: latitude, longitude, zoom,
// bounds and, when enabled, the search box.
func (f *Field) Children() []*SubField {
	return slices.Clone(f.children)
}

// Child returns the sub-field for a logical name or SearchFieldName.
func (f *Field) Child(name string) (*SubField, bool) {
	switch name {
	case Latitude:
		return f.latField, true
	case Longitude:
		return f.lngField, true
	case Zoom:
		return f.zoomField, true
	case Bounds:
		return f.boundsField, true
	}
	for _, child := range f.children {
		if child.kind == SubFieldText && child.name == name {
			return child, true
		}
	}
	return nil, false
}

// SetValue overwrites each sub-field from values keyed by logical name.
// Values are taken verbatim; absent keys clear the sub-field.
func (f *Field) SetValue(values map[string]any) *Field {
	f.latField.SetValue(values[Latitude])
	f.lngField.SetValue(values[Longitude])
	f.zoomField.SetValue(values[Zoom])
	f.boundsField.SetValue(values[Bounds])
	return f
}

// SetLocation is SetValue for a typed value.
func (f *Field) SetLocation(value LocationValue) *Field {
	return f.SetValue(value.Map())
}

// Value returns the current sub-field values.
func (f *Field) Value() LocationValue {
	return LocationValue{
		Latitude:  f.latField.DataValue(),
		Longitude: f.lngField.DataValue(),
		Zoom:      f.zoomField.DataValue(),
		Bounds:    f.boundsField.DataValue(),
	}
}

// SaveInto writes the four sub-field values to record through the field-name
// mapping. The first failing write is returned as is; earlier writes are not
// undone.
func (f *Field) SaveInto(record Record) error {
	writes := []struct {
		name  string
		field *SubField
	}{
		{Latitude, f.latField},
		{Longitude, f.lngField},
		{Zoom, f.zoomField},
		{Bounds, f.boundsField},
	}
	for _, w := range writes {
		if err := record.SetCastedField(f.childFieldName(w.name), w.field.DataValue()); err != nil {
			return err
		}
	}
	return nil
}

// Options returns a copy of the merged option set.
func (f *Field) Options() OptionSet {
	return f.options.Clone()
}

// Option reads a dot-delimited option path such as "map.zoom". Missing paths
// yield nil.
func (f *Field) Option(path string) any {
	return GetPath(f.options, path)
}

// SetOption writes a dot-delimited option path, creating missing intermediate
// levels.
func (f *Field) SetOption(path string, value any) *Field {
	SetPath(f.options, path, value)
	return f
}

// DefaultValue returns default_field_values[name], or nil.
func (f *Field) DefaultValue(name string) any {
	values, ok := asMap(f.options[OptionDefaultFieldValues])
	if !ok {
		return nil
	}
	return values[name]
}

// LatData returns the record's latitude attribute without defaults applied.
func (f *Field) LatData() any {
	return f.recordValue(Latitude)
}

// LngData returns the record's longitude attribute without defaults applied.
func (f *Field) LngData() any {
	return f.recordValue(Longitude)
}

// Settings builds the client payload: coords and base map options merged
// recursively with the full option set. A zoom taken from the record (or
// its configured default) wins over the map.zoom option.
func (f *Field) Settings() map[string]any {
	zoom := f.recordFieldData(Zoom)
	baseZoom := zoom
	if isEmpty(baseZoom) {
		baseZoom = f.Option("map.zoom")
	}

	base := map[string]any{
		"coords": []any{
			f.recordFieldData(Latitude),
			f.recordFieldData(Longitude),
		},
		"map": map[string]any{
			"zoom":      baseZoom,
			"mapTypeId": DefaultMapTypeID,
		},
	}

	settings := DeepMerge(base, f.options)
	if !isEmpty(zoom) {
		SetPath(settings, "map.zoom", zoom)
	}
	return settings
}

// SettingsJSON encodes Settings.
func (f *Field) SettingsJSON() (string, error) {
	payload, err := json.Marshal(f.Settings())
	if err != nil {
		return "", fmt.Errorf("mapfield: encode settings for %q: %w", f.name, err)
	}
	return string(payload), nil
}

// Rendered is a snapshot of a Field ready for a renderer.
type Rendered struct {
	ID          string
	Name        string
	Title       string
	Description string
	Classes     []string
	Attributes  map[string]string
	Children    []*SubField
	Settings    string
}

// Render attaches the settings payload as the data-settings attribute and
// returns the renderable snapshot.
func (f *Field) Render() (Rendered, error) {
	settings, err := f.SettingsJSON()
	if err != nil {
		return Rendered{}, err
	}
	f.SetAttribute(SettingsAttribute, settings)

	return Rendered{
		ID:          f.ID(),
		Name:        f.name,
		Title:       f.title,
		Description: f.description,
		Classes:     append([]string{"googlemapfield"}, f.classes...),
		Attributes:  f.Attributes(),
		Children:    f.Children(),
		Settings:    settings,
	}, nil
}

func (f *Field) SetAttribute(name, value string) *Field {
	if f.attributes == nil {
		f.attributes = make(map[string]string)
	}
	f.attributes[name] = value
	return f
}

func (f *Field) Attribute(name string) string {
	return f.attributes[name]
}

// Attributes returns a copy of the field's HTML attributes.
func (f *Field) Attributes() map[string]string {
	out := make(map[string]string, len(f.attributes))
	for key, value := range f.attributes {
		out[key] = value
	}
	return out
}

// AddExtraClass appends space separated CSS classes to the field wrapper.
func (f *Field) AddExtraClass(classes string) *Field {
	for _, class := range strings.Fields(classes) {
		if !slices.Contains(f.classes, class) {
			f.classes = append(f.classes, class)
		}
	}
	return f
}

func (f *Field) childFieldName(name string) string {
	return fieldNamesFrom(f.options[OptionFieldNames]).Lookup(name)
}

func (f *Field) recordValue(name string) any {
	attribute := f.childFieldName(name)
	if f.record == nil || attribute == "" {
		return nil
	}
	value, ok := f.record.Get(attribute)
	if !ok {
		return nil
	}
	return value
}

func (f *Field) recordFieldData(name string) any {
	if value := f.recordValue(name); !isEmpty(value) {
		return value
	}
	return f.DefaultValue(name)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false", "no", "off":
			return false
		}
		return true
	}
	if zero, ok := numericZero(value); ok {
		return !zero
	}
	return true
}
