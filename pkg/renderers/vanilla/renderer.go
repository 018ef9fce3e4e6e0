package vanilla

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-mapfield/components/mapfield"
	"github.com/goliatone/go-mapfield/pkg/render"
	rendertemplate "github.com/goliatone/go-mapfield/pkg/render/template"
	gotemplate "github.com/goliatone/go-mapfield/pkg/render/template/gotemplate"
)

const (
	fieldTemplate  = "templates/location_map"
	assetsTemplate = "templates/assets"

	// FieldPartial is the theme partial key that overrides the field template.
	FieldPartial = "forms.location-map"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	policy           *bluemonday.Policy
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies a theme selection: the FieldPartial partial replaces the
// field template and AssetURL remaps bundled asset keys.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithDescriptionPolicy replaces the sanitizer applied to field
// descriptions.
func WithDescriptionPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// Renderer turns map fields into HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     *theme.RendererConfig
	policy    *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	policy := cfg.policy
	if policy == nil {
		policy = descriptionPolicy()
	}

	return &Renderer{templates: renderer, theme: cfg.theme, policy: policy}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// RenderField renders the field chrome, its sub-fields and the map canvas.
// Rendering attaches the data-settings attribute to field.
func (r *Renderer) RenderField(field *mapfield.Field) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if field == nil {
		return nil, fmt.Errorf("vanilla renderer: field is nil")
	}

	rendered, err := field.Render()
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	name := fieldTemplate
	if r.theme != nil {
		if partial := strings.TrimSpace(r.theme.Partials[FieldPartial]); partial != "" {
			name = partial
		}
	}

	result, err := r.templates.RenderTemplate(name, r.fieldView(rendered))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// RenderAssets renders the stylesheet and script tags for set. Theme asset
// URLs replace the bundled locations when available.
func (r *Renderer) RenderAssets(set mapfield.AssetSet) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	stylesheets := make([]any, 0, len(set.Stylesheets))
	for _, sheet := range set.Stylesheets {
		stylesheets = append(stylesheets, map[string]any{
			"href": r.assetURL(sheet.Key, sheet.Href),
		})
	}
	scripts := make([]any, 0, len(set.Scripts))
	for _, script := range set.Scripts {
		scripts = append(scripts, map[string]any{
			"src":   r.assetURL(script.Key, script.Src),
			"defer": script.Defer,
		})
	}

	result, err := r.templates.RenderTemplate(assetsTemplate, map[string]any{
		"stylesheets": stylesheets,
		"scripts":     scripts,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render assets: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) assetURL(key, fallback string) string {
	if r.theme == nil || r.theme.AssetURL == nil || key == "" || key == mapfield.VendorKey {
		return fallback
	}
	if resolved := strings.TrimSpace(r.theme.AssetURL(key)); resolved != "" {
		return resolved
	}
	return fallback
}

func (r *Renderer) fieldView(rendered mapfield.Rendered) map[string]any {
	children := make([]any, 0, len(rendered.Children))
	for _, child := range rendered.Children {
		children = append(children, map[string]any{
			"name":       child.Name(),
			"title":      child.Title(),
			"hidden":     child.Kind() == mapfield.SubFieldHidden,
			"value":      child.StringValue(),
			"classes":    child.Classes(),
			"attributes": attributeList(child.Attributes()),
		})
	}

	description := ""
	if rendered.Description != "" {
		description = strings.TrimSpace(r.policy.Sanitize(rendered.Description))
	}

	return map[string]any{
		"field": map[string]any{
			"id":          rendered.ID,
			"name":        rendered.Name,
			"title":       rendered.Title,
			"description": description,
			"classes":     rendered.Classes,
			"attributes":  attributeList(rendered.Attributes),
		},
		"children": children,
	}
}

func attributeList(attrs map[string]string) []any {
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if isAttributeName(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]any, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]any{"name": name, "value": attrs[name]})
	}
	return out
}

func isAttributeName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ':':
		default:
			return false
		}
	}
	return true
}
