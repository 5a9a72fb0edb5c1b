// Package pkg provides the libraries behind iconfont, a generator that turns
// a set of SVG icons into a webfont bundle.
//
// # Overview
//
// A run takes icon files and produces font files in several formats, a
// stylesheet mapping class names to code points, and an optional HTML
// preview. The pkg directory is organized into these areas:
//
//  1. [format] - Format registry and converters (svg, ttf, woff, woff2, eot)
//  2. [taskgraph] - Memoized conversion graph with concurrent execution
//  3. [webfont] - Options, code point assignment, generation and results
//  4. [render] - CSS, SCSS and HTML preview templates
//  5. [cache] - Artifact cache backends (file, Redis, null)
//
// # Architecture
//
// The typical data flow:
//
//	SVG icon files
//	      ↓
//	[webfont] validate options, assign code points, hash inputs
//	      ↓
//	[taskgraph] run each requested format and its dependencies once
//	      ↓
//	[format] converters: svg → ttf → woff, woff2, eot
//	      ↓
//	[webfont.Result] fonts, glyphs, URLs, CSS and HTML
//
// # Quick Start
//
//	opts := webfont.DefaultOptions()
//	opts.Files = []string{"icons/home.svg", "icons/user.svg"}
//	opts.Dest = "dist/fonts"
//	opts.WriteFiles = true
//
//	gen := webfont.NewGenerator(nil, nil, nil)
//	result, err := gen.Generate(ctx, opts)
//
// # Supporting Packages
//
// [errors] - Coded errors with user-facing messages.
//
// [observability] - Hooks for conversion, cache and HTTP events.
//
// [render/nodelink] - Graphviz rendering of the format dependency graph.
//
// [buildinfo] - Version information set at link time.
//
// # Testing
//
//	go test ./pkg/...
//	go test -run Example ./pkg/...
//
// [format]: https://pkg.go.dev/github.com/matzehuels/iconfont/pkg/format
// [taskgraph]: https://pkg.go.dev/github.com/matzehuels/iconfont/pkg/taskgraph
// [webfont]: https://pkg.go.dev/github.com/matzehuels/iconfont/pkg/webfont
// [webfont.Result]: https://pkg.go.dev/github.com/matzehuels/iconfont/pkg/webfont#Result
// [render]: https://pkg.go.dev/github.com/matzehuels/iconfont/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/iconfont/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/iconfont/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/iconfont/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/iconfont/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/iconfont/pkg/buildinfo
package pkg
