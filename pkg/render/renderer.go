// Package render defines the renderer contract for map fields and a registry
// to select renderers by name.
package render

import "github.com/goliatone/go-mapfield/components/mapfield"

// Renderer turns a bound map field and its assets into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	RenderField(field *mapfield.Field) ([]byte, error)
	RenderAssets(set mapfield.AssetSet) ([]byte, error)
}
