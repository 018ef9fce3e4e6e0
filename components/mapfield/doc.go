// Package mapfield provides a composite location form field that lets an
// editor pick a coordinate on an interactive map and persists it onto a host
// record.
//
// A Field decomposes one logical location (Latitude, Longitude, Zoom, Bounds)
// into hidden sub-fields, reads their initial values from the bound Record
// through a configurable field-name mapping, and writes them back with
// SaveInto. The client widget receives its configuration as a JSON payload in
// the data-settings attribute and is started by the vendor script through the
// InitCallback function name.
package mapfield
