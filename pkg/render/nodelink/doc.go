// Package nodelink renders the font format dependency graph as a
// node-link diagram.
//
// # Overview
//
// Each registered format is a box and each dependency an arrow pointing
// in the direction data flows, from the format that is converted to the
// format it is converted into. When a request is given, the requested
// formats are highlighted and formats outside their closure are drawn
// dashed, which shows exactly which converters a run will invoke.
//
// # Usage
//
//	dot := nodelink.ToDOT(format.Default(), nodelink.Options{
//	    Requested: []format.ID{format.WOFF2},
//	})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package nodelink
