package render

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	texttemplate "text/template"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
	"github.com/matzehuels/iconfont/pkg/format"
)

// Stylesheet describes the font a stylesheet or preview page is rendered for.
type Stylesheet struct {
	FontName        string
	Types           []format.ID          // generated font types
	Order           []format.ID          // src order; types not listed are omitted
	URLs            map[format.ID]string // font URL per type
	Glyphs          []format.Glyph       // in input order
	TemplateOptions map[string]any
}

// Glyph is a glyph as seen by templates.
type Glyph struct {
	Name string
	Hex  string // code point in lower-case hex, without prefix
}

// Src builds the @font-face src list: one entry per type in order that
// is also in types, joined by ",\n".
func Src(fontName string, types, order []format.ID, urls map[format.ID]string) string {
	var entries []string
	for _, t := range order {
		if !slices.Contains(types, t) {
			continue
		}
		if entry := srcEntry(t, urls[t], fontName); entry != "" {
			entries = append(entries, entry)
		}
	}
	return strings.Join(entries, ",\n")
}

func srcEntry(t format.ID, url, fontName string) string {
	switch t {
	case format.EOT:
		return fmt.Sprintf(`url("%s?#iefix") format("embedded-opentype")`, url)
	case format.WOFF2:
		return fmt.Sprintf(`url("%s") format("woff2")`, url)
	case format.WOFF:
		return fmt.Sprintf(`url("%s") format("woff")`, url)
	case format.TTF:
		return fmt.Sprintf(`url("%s") format("truetype")`, url)
	case format.SVG:
		return fmt.Sprintf(`url("%s#%s") format("svg")`, url, fontName)
	}
	return ""
}

// data builds the template context. Template options are applied last.
func (s Stylesheet) data() map[string]any {
	glyphs := make([]Glyph, len(s.Glyphs))
	names := make([]string, len(s.Glyphs))
	codepoints := make(map[string]string, len(s.Glyphs))
	for i, g := range s.Glyphs {
		hex := strconv.FormatInt(int64(g.Codepoint), 16)
		glyphs[i] = Glyph{Name: g.Name, Hex: hex}
		names[i] = g.Name
		codepoints[g.Name] = hex
	}

	ctx := map[string]any{
		"fontName":   s.FontName,
		"src":        Src(s.FontName, s.Types, s.Order, s.URLs),
		"codepoints": codepoints,
		"glyphs":     glyphs,
		"names":      names,
	}
	maps.Copy(ctx, s.TemplateOptions)
	return ctx
}

// CSS renders a stylesheet with the template ref ("css", "scss" or a file
// path; empty means "css").
func CSS(ref string, s Stylesheet) (string, error) {
	src, err := templateSource(ref, TemplateCSS)
	if err != nil {
		return "", err
	}
	tmpl, err := texttemplate.New("css").Parse(src)
	if err != nil {
		return "", ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "parse stylesheet template")
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, s.data()); err != nil {
		return "", ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "render stylesheet")
	}
	return b.String(), nil
}
