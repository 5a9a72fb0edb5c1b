package format

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"math"
	"os"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// svgParams are the "svg" format options. The first six default to the
// matching fields of Options.
type svgParams struct {
	FontName           string  `option:"fontName"`
	FontHeight         float64 `option:"fontHeight"`
	Descent            float64 `option:"descent"`
	Normalize          bool    `option:"normalize"`
	Round              float64 `option:"round"`
	Ascent             float64 `option:"ascent"`             // defaults to FontHeight - Descent
	CenterHorizontally bool    `option:"centerHorizontally"` // center each outline in its advance
	FixedWidth         bool    `option:"fixedWidth"`         // give every glyph the widest advance
}

// placed is a glyph outline transformed into font units.
type placed struct {
	glyph Glyph
	d     string
	width float64
}

// ConvertSVG combines every input glyph into one SVG font document.
// Each glyph is bound twice: to its code point and to its ligature
// string, so it can be selected by either.
func ConvertSVG(ctx context.Context, opts *Options, deps ...[]byte) ([]byte, error) {
	if len(deps) != 0 {
		return nil, ierrors.New(ierrors.ErrCodeInternal, "svg converter expects no dependency artifacts, got %d", len(deps))
	}
	params := svgParams{
		FontName:   opts.FontName,
		FontHeight: opts.FontHeight,
		Descent:    opts.Descent,
		Normalize:  opts.Normalize,
		Round:      opts.Round,
	}
	if err := decodeOverride(opts, SVG, &params); err != nil {
		return nil, err
	}
	if params.Round == 0 {
		params.Round = DefaultRound
	}
	if len(opts.Glyphs) == 0 {
		return nil, ierrors.New(ierrors.ErrCodeInvalidConfig, "no glyphs to convert")
	}

	outlines := make([]*outline, len(opts.Glyphs))
	for i, g := range opts.Glyphs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(g.Path)
		if err != nil {
			return nil, ierrors.Wrap(ierrors.ErrCodeFileNotFound, err, "read glyph %q", g.Name)
		}
		o, err := parseGlyph(data)
		if err != nil {
			return nil, ierrors.Wrap(ierrors.ErrCodeInvalidGlyph, err, "glyph %q (%s)", g.Name, g.Path)
		}
		outlines[i] = o
	}

	glyphs, fontHeight := layoutGlyphs(opts.Glyphs, outlines, params)
	return writeSVGFont(glyphs, fontHeight, params), nil
}

// layoutGlyphs scales every outline into the em box, flips it to the
// font's y-up coordinate system and shifts it down by the descent.
func layoutGlyphs(glyphs []Glyph, outlines []*outline, params svgParams) ([]placed, float64) {
	maxHeight := 0.0
	for _, o := range outlines {
		maxHeight = math.Max(maxHeight, o.height)
	}
	fontHeight := params.FontHeight
	if fontHeight <= 0 {
		fontHeight = maxHeight
	}

	out := make([]placed, len(glyphs))
	paths := make([]path, len(glyphs))
	maxWidth := 0.0
	for i, o := range outlines {
		scale := fontHeight / maxHeight
		if params.Normalize {
			scale = fontHeight / o.height
		}
		t := affine{
			sx: scale,
			sy: -scale,
			tx: -o.minX * scale,
			ty: (o.minY+o.height)*scale - params.Descent,
		}
		paths[i] = o.path.transform(t)
		out[i] = placed{glyph: glyphs[i], width: o.width * scale}
		maxWidth = math.Max(maxWidth, out[i].width)
	}

	for i := range out {
		if params.FixedWidth {
			out[i].width = maxWidth
		}
		if params.CenterHorizontally {
			if minX, _, maxX, _, ok := paths[i].bounds(); ok {
				shift := (out[i].width-(maxX-minX))/2 - minX
				paths[i] = paths[i].transform(affine{sx: 1, sy: 1, tx: shift})
			}
		}
		out[i].d = paths[i].format(params.Round)
	}
	return out, fontHeight
}

func writeSVGFont(glyphs []placed, fontHeight float64, params svgParams) []byte {
	ascent := params.Ascent
	if ascent == 0 {
		ascent = fontHeight - params.Descent
	}
	maxWidth := 0.0
	for _, g := range glyphs {
		maxWidth = math.Max(maxWidth, g.width)
	}
	num := func(v float64) string { return formatNumber(v, params.Round) }

	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" standalone="no"?>` + "\n")
	b.WriteString(`<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd" >` + "\n")
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg">` + "\n")
	b.WriteString("<defs>\n")
	fmt.Fprintf(&b, "  <font id=\"%s\" horiz-adv-x=\"%s\">\n", escape(params.FontName), num(maxWidth))
	fmt.Fprintf(&b, "    <font-face font-family=\"%s\"\n      units-per-em=\"%s\" ascent=\"%s\"\n      descent=\"%s\" />\n",
		escape(params.FontName), num(fontHeight), num(ascent), num(-params.Descent))
	b.WriteString("    <missing-glyph horiz-adv-x=\"0\" />\n")
	for _, g := range glyphs {
		// The ligature entry gets its own name; glyph names must be unique.
		for i, unicode := range []string{
			fmt.Sprintf("&#x%X;", g.glyph.Codepoint),
			escape(g.glyph.Ligature()),
		} {
			name := g.glyph.Name
			if i > 0 {
				name = fmt.Sprintf("%s-%d", name, i)
			}
			fmt.Fprintf(&b, "    <glyph glyph-name=\"%s\"\n      unicode=\"%s\"\n      horiz-adv-x=\"%s\" d=\"%s\" />\n",
				escape(name), unicode, num(g.width), g.d)
		}
	}
	b.WriteString("  </font>\n</defs>\n</svg>\n")
	return b.Bytes()
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
