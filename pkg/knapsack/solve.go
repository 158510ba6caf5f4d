package knapsack

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNodeLimit is returned by [Solver.Solve] when Options.MaxNodes is
	// set and the search visits that many nodes with work still pending.
	// The partial result accompanies the error.
	ErrNodeLimit = errors.New("node limit exceeded")

	// ErrDepthLimit is returned by [Solver.Solve] when Options.MaxDepth is
	// set and a node at that depth would have to branch further.
	ErrDepthLimit = errors.New("depth limit exceeded")
)

// Options configures a [Solver]. The zero value runs the full, uncapped
// search, which is the intended mode; a set cap truncates the trace.
type Options struct {
	// MaxNodes caps the number of visited nodes. Zero means unlimited.
	MaxNodes int

	// MaxDepth caps the search depth, i.e. the number of fixed
	// variables on any path. Zero means unlimited.
	MaxDepth int

	// Progress, if set, is called after every visited node with that
	// node, the running node count, and the best solution so far (nil
	// until the first leaf). The solution is replaced, never mutated,
	// on improvement, so callers may hold on to it.
	Progress func(n *Node, visited int, best *Solution)

	// Debug, if set, receives a line per classified node.
	Debug func(msg string)
}

// Solution is a concrete 0/1 assignment discovered at an integral leaf.
type Solution struct {
	// Value and Weight are the profit and weight totals of the taken set.
	Value  float64
	Weight float64
	// Selected marks the taken items by original index.
	Selected []bool
	// Names lists the taken items' names in original order.
	Names []string
	// Label is the label of the leaf that produced this solution.
	Label string
}

// Stats summarizes one search run.
type Stats struct {
	NodesVisited    int
	Leaves          int
	InfeasibleNodes int
	BestUpdates     int
	MaxDepth        int
	Duration        time.Duration
}

// Result is the complete outcome of one [Solver.Solve] call: the ranking
// table, the root bound, every visited node in visit order, and the best
// integral solution (nil if the search was cut before finding one).
type Result struct {
	Problem   *Problem
	Ranking   Ranking
	Order     RatioOrder
	RootBound float64
	Nodes     []*Node
	Best      *Solution
	Stats     Stats
}

// Solver runs the exhaustive depth-first branch-and-bound search. A
// Solver is stateless between calls; each Solve owns its stack and best
// tracking exclusively for the duration of the call, so a single Solver
// may be reused, and re-running an unchanged problem reproduces the
// identical trace.
type Solver struct {
	opts Options
}

// NewSolver creates a solver with the given options.
func NewSolver(opts Options) *Solver {
	return &Solver{opts: opts}
}

// Solve is a convenience wrapper running the default uncapped search.
func Solve(ctx context.Context, p *Problem) (*Result, error) {
	return NewSolver(Options{}).Solve(ctx, p)
}

// Solve runs the search over p and returns the full trace.
//
// Every popped node is classified exactly once: infeasible (recorded,
// never expanded), integral leaf (candidate solution; a strictly greater
// value replaces the best, so the first leaf wins ties), or branching
// (both children pushed). The bound is never used to cut a branch.
//
// The search is single-threaded and synchronous. ctx is checked between
// pops; on cancellation the partial result is returned with ctx.Err().
// Node and depth caps likewise return the partial result with
// [ErrNodeLimit] or [ErrDepthLimit].
func (s *Solver) Solve(ctx context.Context, p *Problem) (*Result, error) {
	start := time.Now()
	order := NewRatioOrder(p)

	result := &Result{
		Problem: p,
		Ranking: Rank(p),
		Order:   order,
	}

	root := newNode(p, order, NewAssignment(len(p.Items)), nil, "")
	result.RootBound = root.Bound

	// Search state, owned by this call only: explicit stack plus the
	// running best. Freshly built here, never shared across calls.
	stack := []*Node{root}
	var best *Solution

	finish := func() {
		result.Best = best
		result.Stats.Duration = time.Since(start)
	}

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			finish()
			return result, ctx.Err()
		default:
		}

		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		result.Nodes = append(result.Nodes, n)
		result.Stats.NodesVisited++
		if d := n.Depth(); d > result.Stats.MaxDepth {
			result.Stats.MaxDepth = d
		}

		switch {
		case n.Infeasible:
			result.Stats.InfeasibleNodes++
			s.debugf("node %s infeasible: weight %.3f exceeds capacity %.3f",
				n.Label(), n.WeightFixed, p.Capacity)

		case n.Integral():
			result.Stats.Leaves++
			sol := LeafSolution(p, n)
			if best == nil || sol.Value > best.Value {
				best = sol
				result.Stats.BestUpdates++
				s.debugf("node %s leaf: value %.3f (new best)", n.Label(), sol.Value)
			} else {
				s.debugf("node %s leaf: value %.3f", n.Label(), sol.Value)
			}

		default:
			if s.opts.MaxDepth > 0 && n.Depth() >= s.opts.MaxDepth {
				finish()
				return result, fmt.Errorf("node %s at depth %d: %w",
					n.Label(), n.Depth(), ErrDepthLimit)
			}
			pair := Children(p, order, n)
			stack = append(stack, pair[1], pair[0])
			s.debugf("node %s branches on %s -> %s, %s",
				n.Label(), p.Items[n.Pivot].Name, pair[0].Label(), pair[1].Label())
		}

		if s.opts.Progress != nil {
			s.opts.Progress(n, result.Stats.NodesVisited, best)
		}

		if s.opts.MaxNodes > 0 && result.Stats.NodesVisited >= s.opts.MaxNodes && len(stack) > 0 {
			finish()
			return result, fmt.Errorf("after %d nodes: %w",
				result.Stats.NodesVisited, ErrNodeLimit)
		}
	}

	finish()
	return result, nil
}

// LeafSolution materializes the concrete 0/1 solution implied by an
// integral leaf: items fixed to 1 as given, unknowns taken when their
// greedy take is a full 1. Pure; renderers reuse it so displayed values
// always match what the driver compared.
func LeafSolution(p *Problem, n *Node) *Solution {
	sol := &Solution{
		Selected: make([]bool, len(p.Items)),
		Label:    n.Label(),
	}
	for i, it := range p.Items {
		taken := false
		switch n.Fix[i] {
		case FixedOne:
			taken = true
		case Unknown:
			taken = n.Take(i) == 1
		}
		if taken {
			sol.Selected[i] = true
			sol.Value += it.Profit
			sol.Weight += it.Weight
			sol.Names = append(sol.Names, it.Name)
		}
	}
	return sol
}

func (s *Solver) debugf(format string, args ...any) {
	if s.opts.Debug != nil {
		s.opts.Debug(fmt.Sprintf(format, args...))
	}
}
