package webfont

import (
	"maps"
	"path/filepath"

	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/render"
)

// Result is the outcome of one successful generation.
type Result struct {
	// Fonts holds every artifact converted in the run: the requested
	// types plus the intermediate formats they depend on.
	Fonts map[format.ID][]byte

	Types  []format.ID    // requested types, in request order
	Glyphs []format.Glyph // glyphs with their code points, in input order
	Hash   string         // content hash of the inputs
	Stats  Stats

	// Written lists the files Generate wrote, if any.
	Written []string

	opts *Options
}

// Options returns the validated options the result was generated with.
func (r *Result) Options() *Options { return r.opts }

// Font returns the artifact of one format.
func (r *Result) Font(id format.ID) ([]byte, bool) {
	data, ok := r.Fonts[id]
	return data, ok
}

// Requested returns the artifacts of the requested types only.
func (r *Result) Requested() map[format.ID][]byte {
	out := make(map[format.ID][]byte, len(r.Types))
	for _, t := range r.Types {
		if data, ok := r.Fonts[t]; ok {
			out[t] = data
		}
	}
	return out
}

// Codepoints returns the code point of every glyph by name.
func (r *Result) Codepoints() map[string]rune {
	out := make(map[string]rune, len(r.Glyphs))
	for _, g := range r.Glyphs {
		out[g.Name] = g.Codepoint
	}
	return out
}

// URLs returns the stylesheet URLs of the requested types, relative to
// the configured fonts URL and tagged with the content hash.
func (r *Result) URLs() map[format.ID]string {
	return MakeURLs(r.opts.FontName, r.Types, r.Hash, r.opts.CSSFontsURL)
}

func (r *Result) stylesheet(urls map[format.ID]string) render.Stylesheet {
	return render.Stylesheet{
		FontName:        r.opts.FontName,
		Types:           r.Types,
		Order:           r.opts.Order,
		URLs:            urls,
		Glyphs:          r.Glyphs,
		TemplateOptions: maps.Clone(r.opts.TemplateOptions),
	}
}

// GenerateCSS renders the stylesheet with the configured template.
// A nil urls uses [Result.URLs].
func (r *Result) GenerateCSS(urls map[format.ID]string) (string, error) {
	if urls == nil {
		urls = r.URLs()
	}
	return render.CSS(r.opts.CSSTemplate, r.stylesheet(urls))
}

// GenerateHTML renders the preview page. Its embedded styles use the
// default CSS template with font URLs relative to the page location.
func (r *Result) GenerateHTML() (string, error) {
	rel, err := filepath.Rel(filepath.Dir(r.opts.HTMLDest), r.opts.Dest)
	if err != nil {
		rel = r.opts.Dest
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		rel = ""
	}

	urls := MakeURLs(r.opts.FontName, r.Types, r.Hash, rel)
	styles, err := render.CSS(render.TemplateCSS, r.stylesheet(urls))
	if err != nil {
		return "", err
	}
	return render.HTML(r.opts.HTMLTemplate, r.stylesheet(urls), styles)
}
