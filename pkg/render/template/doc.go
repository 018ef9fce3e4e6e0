// Package template defines the template rendering seam used by the map field
// renderers. Implementations live in subpackages such as gotemplate.
package template
