// Package render provides output rendering for solved knapsack searches.
//
// # Overview
//
// This package contains the renderers that transform a finished search
// into human-readable outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Plain-text traces (in [text] subpackage)
//   - Search-tree diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The node-link renderer
// uses them for its pdf and png outputs.
//
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Text Traces
//
// The [text] subpackage renders the canonical plain-text trace: the
// ranking table followed by one block per visited node and the best
// solution found. This is the primary teaching output; every number a
// student needs to follow the search by hand appears in it.
//
// # Search-Tree Diagrams
//
// The [nodelink] subpackage renders the branch-and-bound tree as a
// directed graph using Graphviz. Nodes appear as boxes labeled with
// bounds, edges carry the branching decisions.
//
//	dot := nodelink.ToDOT(result, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [text]: github.com/knaptrace/knaptrace/pkg/render/text
// [nodelink]: github.com/knaptrace/knaptrace/pkg/render/nodelink
package render
