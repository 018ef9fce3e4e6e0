package template

import "io"

// TemplateRenderer is the engine contract the map field renderers depend on.
// It follows the github.com/goliatone/go-template engine so either can back a
// renderer. Every render method returns the output and also writes it to out.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(content string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
