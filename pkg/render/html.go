package render

import (
	htmltemplate "html/template"
	"strings"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

var htmlFuncs = htmltemplate.FuncMap{
	// removePeriods drops the first period, turning ".icon" into "icon".
	"removePeriods": func(selector any) string {
		s, _ := selector.(string)
		return strings.Replace(s, ".", "", 1)
	},
}

// HTML renders the preview page with the template ref ("html" or a file
// path; empty means "html"). styles is embedded verbatim in a <style>
// element; its font URLs must be valid relative to the page.
func HTML(ref string, s Stylesheet, styles string) (string, error) {
	src, err := templateSource(ref, TemplateHTML)
	if err != nil {
		return "", err
	}
	tmpl, err := htmltemplate.New("html").Funcs(htmlFuncs).Parse(src)
	if err != nil {
		return "", ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "parse preview template")
	}

	data := s.data()
	if _, ok := data["styles"]; !ok {
		data["styles"] = htmltemplate.CSS(styles)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "render preview")
	}
	return b.String(), nil
}
