// Package webfont generates web font bundles from SVG icons.
//
// A [Generator] validates [Options], assigns code points, converts the
// requested font types through the format graph and assembles a
// [Result]: every converted artifact plus helpers that render the
// stylesheet and preview page.
//
//	opts := webfont.DefaultOptions()
//	opts.Files = []string{"icons/home.svg", "icons/user.svg"}
//	opts.Dest = "dist/fonts"
//	opts.Types = []format.ID{format.WOFF2, format.WOFF}
//
//	result, err := webfont.NewGenerator(nil, nil, logger).Generate(ctx, opts)
//	if err != nil {
//		return err
//	}
//	css, _ := result.GenerateCSS(nil)
//
// With WriteFiles set (the default), Generate writes every converted
// artifact to <Dest>/<FontName>.<type>, the stylesheet to CSSDest and,
// when HTML is set, the preview page to HTMLDest.
//
// Artifacts are cached by the content hash of the glyph files and the
// options that shape the fonts. The cache is advisory: read and write
// failures are logged and the converter runs as if nothing was cached.
package webfont
