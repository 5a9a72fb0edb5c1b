package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/iconfont/pkg/format"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Requested highlights these formats and marks every format outside
	// their closure as unused. Nil draws every format alike.
	Requested []format.ID

	// Detailed adds each format's dependency count to its label.
	Detailed bool
}

// ToDOT converts the registry's dependency graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(r *format.Registry, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph formats {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=16, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var closure []format.ID
	if opts.Requested != nil {
		closure = r.Closure(opts.Requested)
	}

	for _, id := range r.IDs() {
		d, _ := r.Lookup(id)
		label := fmtLabel(d, opts.Detailed)
		attrs := fmtAttrs(id, label, opts.Requested, closure)
		fmt.Fprintf(&buf, "  %q [%s];\n", string(id), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range r.IDs() {
		d, _ := r.Lookup(id)
		for _, dep := range d.Dependencies {
			fmt.Fprintf(&buf, "  %q -> %q;\n", string(dep), string(id))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(d format.Descriptor, detailed bool) string {
	if !detailed {
		return string(d.ID)
	}
	return fmt.Sprintf("%s\ndeps: %d", d.ID, len(d.Dependencies))
}

func fmtAttrs(id format.ID, label string, requested, closure []format.ID) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case requested == nil:
	case slices.Contains(requested, id):
		attrs = append(attrs, "fillcolor=\"#c6f6d5\"", "penwidth=2")
	case !slices.Contains(closure, id):
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=gray40")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's root element with one whose
// viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}
