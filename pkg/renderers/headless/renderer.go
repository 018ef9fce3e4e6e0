// Package headless renders map fields as JSON documents for clients that build
// their own markup.
package headless

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-mapfield/components/mapfield"
	"github.com/goliatone/go-mapfield/pkg/render"
)

// Option customises the renderer.
type Option func(*Renderer)

// WithIndent pretty-prints the output with the given indent.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer emits the field snapshot and the asset list as JSON.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return "headless"
}

func (r *Renderer) ContentType() string {
	return "application/json; charset=utf-8"
}

type fieldDocument struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Classes     []string          `json:"classes"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Children    []childDocument   `json:"children"`
	Settings    json.RawMessage   `json:"settings"`
}

type childDocument struct {
	Name       string            `json:"name"`
	Title      string            `json:"title"`
	Type       string            `json:"type"`
	Value      any               `json:"value"`
	Classes    []string          `json:"classes,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// RenderField encodes the rendered snapshot. The settings payload is embedded
// as an object rather than the escaped attribute string.
func (r *Renderer) RenderField(field *mapfield.Field) ([]byte, error) {
	if field == nil {
		return nil, fmt.Errorf("headless renderer: field is nil")
	}
	rendered, err := field.Render()
	if err != nil {
		return nil, fmt.Errorf("headless renderer: %w", err)
	}

	attributes := rendered.Attributes
	delete(attributes, mapfield.SettingsAttribute)

	doc := fieldDocument{
		ID:          rendered.ID,
		Name:        rendered.Name,
		Title:       rendered.Title,
		Description: rendered.Description,
		Classes:     rendered.Classes,
		Attributes:  attributes,
		Children:    make([]childDocument, 0, len(rendered.Children)),
		Settings:    json.RawMessage(rendered.Settings),
	}
	for _, child := range rendered.Children {
		doc.Children = append(doc.Children, childDocument{
			Name:       child.Name(),
			Title:      child.Title(),
			Type:       string(child.Kind()),
			Value:      child.Value(),
			Classes:    child.Classes(),
			Attributes: child.Attributes(),
		})
	}
	return r.encode(doc)
}

type assetsDocument struct {
	Stylesheets []mapfield.Stylesheet `json:"stylesheets"`
	Scripts     []mapfield.Script     `json:"scripts"`
}

func (r *Renderer) RenderAssets(set mapfield.AssetSet) ([]byte, error) {
	return r.encode(assetsDocument{Stylesheets: set.Stylesheets, Scripts: set.Scripts})
}

func (r *Renderer) encode(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if r.indent != "" {
		enc.SetIndent("", r.indent)
	}
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("headless renderer: encode: %w", err)
	}
	return buf.Bytes(), nil
}
