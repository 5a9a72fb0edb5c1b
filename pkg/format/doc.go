// Package format defines the font formats iconfont can produce and the
// converters that produce them.
//
// # Registry
//
// A [Registry] is a fixed table mapping a format [ID] to its
// [Descriptor]: the ordered list of formats it is built from and the
// function that builds it. The default registry encodes this tree:
//
//	svg ─▶ ttf ─┬─▶ woff
//	            ├─▶ woff2
//	            └─▶ eot
//
// The SVG font is assembled natively from the input glyph files. The TTF
// is produced by the external svg2ttf program and WOFF2 by the external
// woff2_compress program, because Go has no encoder for either. WOFF and
// EOT are plain containers around the TTF tables and are written here.
//
// # Options
//
// Every converter receives the same read-only [Options] plus the
// artifacts of its dependencies in declared order. Per-format overrides
// live in Options.FormatOptions keyed by format ID; a converter decodes
// only its own entry into a private copy of its parameters.
//
// Scheduling the converters is the job of package taskgraph.
package format
