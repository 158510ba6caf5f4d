// Package pkg provides the core libraries for knaptrace knapsack search tracing.
//
// # Overview
//
// Knaptrace solves single-constraint 0/1 knapsack problems with an
// exhaustive Branch & Bound search and records every visited node, so the
// whole search can be read, replayed, and rendered. The pkg directory is
// organized into four main areas:
//
//  1. [knapsack] - Domain logic (ranking, relaxation, branching, search)
//  2. [problem] / [report] - Input loading and solve documents
//  3. [render] - Output rendering (text trace, DOT, SVG, PNG, PDF)
//  4. [pipeline] - Orchestration (load → solve → render) with caching
//
// # Architecture
//
// The typical data flow through knaptrace:
//
//	Problem file (TOML) or API request (JSON)
//	         ↓
//	    [problem] package (parse + validate)
//	         ↓
//	    [knapsack] package (rank, relax, branch, search)
//	         ↓
//	    [report] package (solve document, JSON wire form)
//	         ↓
//	    [render] package (trace + diagrams)
//	         ↓
//	    text/JSON/DOT/SVG/PNG/PDF output
//
// # Quick Start
//
// Load a problem, run the search, and print the trace:
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/knaptrace/knaptrace/pkg/knapsack"
//	    "github.com/knaptrace/knaptrace/pkg/problem"
//	    "github.com/knaptrace/knaptrace/pkg/render/text"
//	)
//
//	// 1. Load and validate the problem
//	p, _ := problem.Load("examples/lecture.toml")
//
//	// 2. Run the exhaustive search
//	result, _ := knapsack.Solve(context.Background(), p)
//
//	// 3. Render the complete trace
//	fmt.Print(text.Render(result))
//
// # Main Packages
//
// ## Core Domain Logic
//
// [knapsack] - The search itself: ratio ranking, the greedy relaxation
// evaluator that bounds every node, path-based node labels (p0, p1, p2,
// p2.1, ...), the branch generator, and the depth-first driver that visits
// every node without pruning. Deterministic: the same problem always
// produces the same trace.
//
// [problem] - TOML problem files (profit and weight vectors, optional
// names, one "<=" capacity constraint) loaded from a path or stdin.
//
// [report] - The solve document: problem, ranking, every visited node,
// best solution, stats, and the rendered trace, with JSON import/export.
// Reports are self-contained, so diagrams can be re-rendered and traces
// re-read without solving again.
//
// ## Rendering
//
// [render/text] - The canonical plain-text trace: ranking table, one block
// per visited node, best-solution summary. Every number needed to follow
// the search by hand appears here.
//
// [render/nodelink] - Search-tree diagrams using Graphviz. Boxes per node,
// edges labeled with the branching decision, coloring for infeasible,
// leaf, and winning nodes.
//
// [render] - Top-level utilities for format conversion (SVG to PDF/PNG).
//
// ## Infrastructure
//
// [pipeline] - Complete solve pipeline (load → solve → render) used by CLI
// and server. Ensures consistent behavior across all entry points and
// caches both solve reports and rendered artifacts.
//
// [cache] - Cache interface with file, Redis, and null backends, content
// hash keys, and retry with backoff for flaky backends.
//
// [store] - Report persistence for the HTTP API: in-memory store for
// development, MongoDB store for durable deployments.
//
// [observability] - Solver, cache, and HTTP hooks with a global registry.
// No-op by default; the CLI installs logging hooks, tests install
// recorders.
//
// [errors] - Structured errors with stable machine-readable codes, shared
// by the HTTP API and the stores.
//
// [buildinfo] - Version, commit, and build date injected via ldflags.
//
// # Common Workflows
//
// Inspect the ranking without solving:
//
//	ranking := knapsack.Rank(p)
//	for _, row := range ranking.Rows {
//	    fmt.Printf("%s ratio=%s rank=%d\n", row.Name, knapsack.FormatRatio(row.Ratio), row.Rank)
//	}
//
// Cap a large search:
//
//	solver := knapsack.NewSolver(knapsack.Options{MaxNodes: 100000})
//	result, err := solver.Solve(ctx, p)
//	if errors.Is(err, knapsack.ErrNodeLimit) {
//	    // result holds the partial trace
//	}
//
// Run the cached pipeline:
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "examples/lecture.toml",
//	    Formats: []string{pipeline.FormatText, pipeline.FormatSVG},
//	})
//
// Re-render a stored report:
//
//	rep, _ := report.ImportJSON("run.json")
//	dot := nodelink.ToDOT(rep, nodelink.Options{Detailed: true})
//	svg, _ := nodelink.RenderSVG(dot)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/knapsack/...    # Specific package
//	go test -run Example          # Examples only
//
// [knapsack]: https://pkg.go.dev/github.com/knaptrace/knaptrace/pkg/knapsack
// [problem]: https://pkg.go.dev/github.com/knaptrace/knaptrace/pkg/problem
// [report]: https://pkg.go.dev/github.com/knaptrace/knaptrace/pkg/report
// [render]: https://pkg.go.dev/github.com/knaptrace/knaptrace/pkg/render
// [render/text]: https://pkg.go.dev/github.com/knaptrace/knaptrace/pkg/render/text
// [render/nodelink]: https://pkg.go.dev/github.com/knaptrace/knaptrace/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/knaptrace/knaptrace/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/knaptrace/knaptrace/pkg/cache
// [store]: https://pkg.go.dev/github.com/knaptrace/knaptrace/pkg/store
// [observability]: https://pkg.go.dev/github.com/knaptrace/knaptrace/pkg/observability
// [errors]: https://pkg.go.dev/github.com/knaptrace/knaptrace/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/knaptrace/knaptrace/pkg/buildinfo
package pkg
