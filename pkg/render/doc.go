// Package render draws derivation charts.
//
// [ToDOT] turns a [derive.Result] into Graphviz DOT source: one node per
// shape in the chain, base at the top, with each edge labelled by the
// operation that produced the next shape. [RenderSVG] lays the graph out
// in-process with [github.com/goccy/go-graphviz].
//
//	dot := render.ToDOT(res, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(dot)
//
// [ToPDF] and [ToPNG] convert any SVG through rsvg-convert from librsvg.
// [Format] picks a format from an output file name.
//
// [derive.Result]: github.com/matzehuels/shapereach/pkg/derive.Result
package render
