package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/knaptrace/knaptrace/pkg/knapsack"
	"github.com/knaptrace/knaptrace/pkg/render"
	"github.com/knaptrace/knaptrace/pkg/report"
)

// Options configures search-tree rendering.
type Options struct {
	// Detailed includes the fixed value and weight sums and a state line
	// in node labels. When false, only the label and bound are shown.
	Detailed bool
}

// ToDOT converts a report to Graphviz DOT format. Every visited node
// becomes a box labeled with its bound; edges carry the branching
// decision that created the child ("x5 = 0").
//
// Infeasible nodes are rendered with dashed outlines and grey fill.
// Integral leaves are yellow, and the leaf that produced the best
// solution is green. The resulting DOT string can be rendered using
// [RenderSVG], [RenderPDF], or [RenderPNG].
//
// ToDOT works on the serialized report rather than a live solve result,
// so stored reports can be re-rendered without solving again.
func ToDOT(rep *report.Report, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph search {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for i := range rep.Nodes {
		n := &rep.Nodes[i]
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label, isBestLeaf(rep, n))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Label, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := range rep.Nodes {
		n := &rep.Nodes[i]
		parent := parentLabel(n.Label)
		if parent == "" {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", parent, n.Label, n.Header)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// parentLabel inverts the label grammar: "p1" and "p2" hang off the root
// "p0", and every deeper label drops its last ".1" or ".2" segment. The
// root itself has no parent and yields "".
func parentLabel(label string) string {
	if label == "p0" {
		return ""
	}
	if i := strings.LastIndex(label, "."); i >= 0 {
		return label[:i]
	}
	return "p0"
}

// isBestLeaf reports whether n is the leaf whose solution won the search.
func isBestLeaf(rep *report.Report, n *report.Node) bool {
	return rep.Best != nil && rep.Best.Label == n.Label
}

func fmtLabel(n *report.Node, detailed bool) string {
	lines := []string{n.Label, fmt.Sprintf("bound %.3f", n.Bound)}
	if detailed {
		lines = append(lines,
			fmt.Sprintf("value %.3f", n.ValueFixed),
			fmt.Sprintf("weight %.3f", n.WeightFixed))
		switch {
		case n.Infeasible:
			lines = append(lines, "infeasible")
		case n.Pivot == knapsack.NoPivot:
			lines = append(lines, "leaf")
		}
	}
	return strings.Join(lines, "\n")
}

func fmtAttrs(n *report.Node, label string, best bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Infeasible:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	case best:
		attrs = append(attrs, "fillcolor=palegreen")
	case n.Pivot == knapsack.NoPivot:
		attrs = append(attrs, "fillcolor=lightyellow")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
