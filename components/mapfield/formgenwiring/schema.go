// Package formgenwiring describes the location map field as an OpenAPI
// schema so schema-driven form pipelines can route a property to the widget.
package formgenwiring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-mapfield/components/mapfield"
)

// Widget is the x-formgen widget name of the location map field.
const Widget = "location-map"

// ExtensionKey is the vendor extension carrying the widget metadata.
const ExtensionKey = "x-formgen"

// LocationSchema returns the object schema of a submission keyed by logical
// name. The x-formgen extension names the widget, the record attribute each
// logical name maps to and whether the search box is shown.
//
// Coordinates and zoom are accepted as numbers or as the decimal and integer
// strings the sub-fields hold. Numbers are bounded to their geographic
// ranges. Every property is nullable because an empty sub-field submits
// nothing.
func LocationSchema(opts mapfield.OptionSet) *openapi3.Schema {
	merged := mapfield.MergeOptions(mapfield.DefaultOptions(), opts)

	schema := openapi3.NewObjectSchema().
		WithProperty(mapfield.Latitude, numberOrString(
			openapi3.NewFloat64Schema().WithMin(-90).WithMax(90), DecimalPattern)).
		WithProperty(mapfield.Longitude, numberOrString(
			openapi3.NewFloat64Schema().WithMin(-180).WithMax(180), DecimalPattern)).
		WithProperty(mapfield.Zoom, numberOrString(
			openapi3.NewIntegerSchema().WithMin(0).WithMax(22), IntegerPattern)).
		WithProperty(mapfield.Bounds, openapi3.NewStringSchema().WithNullable())

	names := map[string]any{}
	mapping := mapfield.ResolveFieldNames(opts)
	for _, logical := range mapfield.LogicalNames() {
		if attr := mapping.Lookup(logical); attr != "" {
			names[logical] = attr
		}
	}

	schema.Extensions = map[string]any{
		ExtensionKey: map[string]any{
			"widget":           Widget,
			"fieldNames":       names,
			"showSearchBox":    merged.Bool(mapfield.OptionShowSearchBox),
			"initCallback":     mapfield.InitCallback,
			"settingsAttr":     mapfield.SettingsAttribute,
			"defaultMapTypeId": mapfield.DefaultMapTypeID,
		},
	}
	return schema
}

// DecimalPattern matches a coordinate string. The empty string is a cleared
// sub-field.
const DecimalPattern = `^(-?[0-9]+(\.[0-9]+)?)?$`

// IntegerPattern matches a zoom string.
const IntegerPattern = `^([0-9]+)?$`

func numberOrString(number *openapi3.Schema, pattern string) *openapi3.Schema {
	return openapi3.NewAnyOfSchema(number, openapi3.NewStringSchema().WithPattern(pattern)).WithNullable()
}

// InvalidField returns the property a validation error from
// ValidateSubmission points at, or "" when err is not a schema error.
func InvalidField(err error) string {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return ""
	}
	return strings.Join(schemaErr.JSONPointer(), ".")
}

// ValidateSubmission checks a decoded JSON submission against
// LocationSchema(opts).
func ValidateSubmission(ctx context.Context, opts mapfield.OptionSet, values map[string]any) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if values == nil {
		values = map[string]any{}
	}
	if err := LocationSchema(opts).VisitJSON(values); err != nil {
		return fmt.Errorf("formgenwiring: invalid location: %w", err)
	}
	return nil
}
