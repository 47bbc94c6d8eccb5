package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackscope/pkg/dag"
	"github.com/matzehuels/stackscope/pkg/render"
	"github.com/matzehuels/stackscope/pkg/workspace"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the project directory to node labels.
	// When false, only name@version is shown.
	Detailed bool

	// Root makes directories in detailed labels relative to it.
	Root string

	// Mask limits the drawn edges to these kinds (default: all kinds).
	Mask dag.KindMask
}

var edgeStyles = map[workspace.DepKind]string{
	workspace.DepRuntime:  "",
	workspace.DepOptional: `style=dashed`,
	workspace.DepDev:      `style=dotted, color=grey40`,
	workspace.DepPeer:     `style=dashed, color=steelblue`,
}

// ToDOT converts a graph to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Edges are styled by dependency kind: runtime solid, optional dashed,
// dev dotted grey and peer dashed blue. Dependencies point downwards.
func ToDOT(g *dag.Graph, opts Options) string {
	mask := opts.Mask
	if mask == 0 {
		mask = dag.AllKinds
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i := range g.Len() {
		p := g.Project(i)
		attrs := fmtAttrs(p, fmtLabel(p, opts))
		fmt.Fprintf(&buf, "  %q [%s];\n", g.ID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := range g.Len() {
		for _, e := range g.Edges(i) {
			if !mask.Has(e.Kind) {
				continue
			}
			if style := edgeStyles[e.Kind]; style != "" {
				fmt.Fprintf(&buf, "  %q -> %q [%s];\n", g.ID(i), g.ID(e.To), style)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", g.ID(i), g.ID(e.To))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(p *workspace.Project, opts Options) string {
	label := p.String()
	if !opts.Detailed || p.Name() == "" {
		return label
	}
	dir := p.Dir
	if opts.Root != "" {
		if rel, err := filepath.Rel(opts.Root, p.Dir); err == nil {
			dir = filepath.ToSlash(rel)
		}
	}
	return label + "\n" + dir
}

func fmtAttrs(p *workspace.Project, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if p.Name() == "" {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
