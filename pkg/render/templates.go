package render

import (
	_ "embed"
	"os"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// Names of the built-in templates. A template reference that is not one
// of these is read as a file path.
const (
	TemplateCSS  = "css"
	TemplateSCSS = "scss"
	TemplateHTML = "html"
)

//go:embed templates/css.tmpl
var cssTemplate string

//go:embed templates/scss.tmpl
var scssTemplate string

//go:embed templates/html.tmpl
var htmlTemplate string

// DefaultTemplate returns the source of a built-in template.
func DefaultTemplate(name string) (string, bool) {
	switch name {
	case TemplateCSS:
		return cssTemplate, true
	case TemplateSCSS:
		return scssTemplate, true
	case TemplateHTML:
		return htmlTemplate, true
	}
	return "", false
}

// templateSource resolves ref to template source text. An empty ref
// selects fallback.
func templateSource(ref, fallback string) (string, error) {
	if ref == "" {
		ref = fallback
	}
	if src, ok := DefaultTemplate(ref); ok {
		return src, nil
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", ierrors.Wrap(ierrors.ErrCodeFileNotFound, err, "read template %s", ref)
	}
	return string(data), nil
}
