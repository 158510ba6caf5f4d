package pipeline

import (
	"context"

	"github.com/knaptrace/knaptrace/pkg/knapsack"
	"github.com/knaptrace/knaptrace/pkg/observability"
	"github.com/knaptrace/knaptrace/pkg/render/text"
	"github.com/knaptrace/knaptrace/pkg/report"
)

// runSolve runs the branch-and-bound search and packages the outcome as
// a report with the rendered trace embedded.
//
// Solver hooks fire for the start, every visited node, every improving
// solution, and completion. A capped search still produces a partial
// report, returned together with the limit error so callers can decide
// whether to show the truncated trace.
func runSolve(ctx context.Context, p *knapsack.Problem, opts Options) (*report.Report, error) {
	hooks := observability.Solver()
	hooks.OnSolveStart(ctx, p.Title, len(p.Items))

	var lastBest *knapsack.Solution
	solver := knapsack.NewSolver(knapsack.Options{
		MaxNodes: opts.MaxNodes,
		MaxDepth: opts.MaxDepth,
		Progress: func(n *knapsack.Node, visited int, best *knapsack.Solution) {
			hooks.OnNodeVisited(ctx, n.Label(), n.Depth(), n.Infeasible)
			if best != nil && best != lastBest {
				lastBest = best
				hooks.OnBestFound(ctx, best.Label, best.Value)
			}
		},
		Debug: func(msg string) {
			opts.Logger.Debug(msg)
		},
	})

	res, solveErr := solver.Solve(ctx, p)
	hooks.OnSolveComplete(ctx, p.Title, res.Stats.NodesVisited, res.Stats.Duration, solveErr)

	rep := report.New(res, text.Render(res))
	return rep, solveErr
}
