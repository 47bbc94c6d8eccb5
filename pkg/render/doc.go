// Package render provides visualization output for workspace graphs.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders directed graph diagrams using Graphviz.
// Projects appear as boxes; arrows point from a project to its dependencies.
//
// [nodelink]: github.com/matzehuels/stackscope/pkg/render/nodelink
package render
