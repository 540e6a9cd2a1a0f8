package dashboard

import (
	"embed"
	"fmt"
	"io/fs"
	"time"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html templates/widgets/*.html
var embeddedTemplates embed.FS

// NewTemplateRenderer creates a go-template renderer over the embedded grid
// and widget templates. Templates are read from the binary only, never from
// the working directory.
func NewTemplateRenderer() (Renderer, error) {
	root, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("dashboard: embedded templates: %w", err)
	}
	return template.NewRenderer(
		template.WithFS(root),
		template.WithExtension(".html"),
	)
}

// NewEmbeddedWidgetRenderer builds a WidgetRenderer over the embedded
// templates with fragments cached for ttl.
func NewEmbeddedWidgetRenderer(ttl time.Duration) (*WidgetRenderer, error) {
	renderer, err := NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	return NewWidgetRenderer(renderer, NewFragmentCache(ttl)), nil
}
