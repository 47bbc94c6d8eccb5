// Package nodelink renders workspace graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: add the project directory under name@version
//   - Root: show directories relative to the workspace root
//   - Mask: draw only some dependency kinds, e.g. [dag.ProdKinds]
//
// Unnamed projects are drawn dashed and grey.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
