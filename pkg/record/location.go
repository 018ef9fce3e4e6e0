package record

import "github.com/goliatone/go-mapfield/components/mapfield"

// LocationKinds declares the attribute kinds of the four location columns
// under the field-name mapping of opts: decimal coordinates, an integer zoom
// and text bounds.
func LocationKinds(opts mapfield.OptionSet) map[string]Kind {
	names := mapfield.ResolveFieldNames(opts)

	kinds := map[string]Kind{}
	for logical, kind := range map[string]Kind{
		mapfield.Latitude:  KindDecimal,
		mapfield.Longitude: KindDecimal,
		mapfield.Zoom:      KindInt,
		mapfield.Bounds:    KindText,
	} {
		column := names.Lookup(logical)
		if column == "" {
			column = logical
		}
		kinds[column] = kind
	}
	return kinds
}
