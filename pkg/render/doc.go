// Package render produces the stylesheet and the HTML preview page that
// accompany a generated icon font.
//
// # Templates
//
// Three templates are embedded: "css", "scss" and "html". Every function
// that takes a template reference also accepts a path to a custom
// template file. Stylesheets are rendered with text/template, the preview
// with html/template.
//
// Templates receive a map with these keys, plus every template option
// (which take precedence, so options can override any of them):
//
//	fontName    font family name
//	src         the @font-face src list, one entry per font type
//	codepoints  glyph name to lower-case hex code point
//	glyphs      []Glyph{Name, Hex} in input order
//	names       glyph names in input order
//	styles      the stylesheet to embed (preview page only)
//
// The default templates also use the "baseSelector" and "classPrefix"
// options. The preview template can call removePeriods to turn a selector
// such as ".icon" into a class name.
//
// # Source list
//
// [Src] orders the font types by the configured order and adds the
// suffixes legacy browsers need:
//
//	url("iconfont.eot?#iefix") format("embedded-opentype"),
//	url("iconfont.woff2") format("woff2"),
//	url("iconfont.svg#iconfont") format("svg")
package render
