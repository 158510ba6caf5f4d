// Package nodelink renders the branch-and-bound search tree as a
// node-link diagram.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz,
// where every visited node appears as a box and edges carry the fixing
// decision that created the child ("x5 = 0"). It complements the text
// trace in [github.com/knaptrace/knaptrace/pkg/render/text]: the trace
// shows every table, the diagram shows the shape of the search.
//
// Diagrams are built from [github.com/knaptrace/knaptrace/pkg/report]
// documents rather than live solve results, so any stored report can be
// turned into a picture without solving again.
//
// # Usage
//
// Convert a report to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(rep, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the fixed value and
//     weight sums and a state line (infeasible, leaf)
//
// # Colors
//
// Node fill encodes the classification: white for branching nodes,
// lightgrey with a dashed outline for infeasible nodes, lightyellow for
// integral leaves, and palegreen for the leaf that won the search.
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes, so depth in the diagram matches depth in the search.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
