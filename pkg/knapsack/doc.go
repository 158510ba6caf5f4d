// Package knapsack solves the single-constraint 0/1 knapsack problem by
// exhaustive Branch & Bound and records every node of the search tree.
//
// # Overview
//
// The solver is built for auditability, not speed: it expands every node,
// feasible or not, and never prunes by bound. The fractional-relaxation
// bound is computed for every node but used purely for display, so the
// resulting trace matches the tree a reader would draw by hand with the
// classic "greedy pivot" method. Callers who need bounded runtime can set
// a node or depth cap, both off by default.
//
// # Basic Usage
//
// Build a [Problem] from raw vectors with [NewProblem], then run the
// search:
//
//	p, err := knapsack.NewProblem(knapsack.Input{
//	    Profits:     []float64{2, 3, 3, 5, 2, 4},
//	    Weights:     []float64{11, 8, 6, 14, 10, 10},
//	    Constraints: []knapsack.Constraint{{Kind: knapsack.ConstraintLE, Capacity: 40}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := knapsack.Solve(context.Background(), p)
//
// The returned [Result] holds the ranking table, the root bound, every
// visited [Node] in visit order, and the best integral [Solution] found.
//
// # Search Mechanics
//
// Items are ranked once per problem by descending profit/weight ratio
// ([NewRatioOrder]); each node's greedy fill walks that fixed order,
// skipping fixed items in place. The first item that receives a strictly
// fractional take is the pivot; branching fixes it to 0 and to 1, and the
// two children are evaluated immediately ([Evaluate]). A node with no
// pivot is an integral leaf and its concrete solution competes for the
// best value (strictly greater replaces, so the first leaf wins ties). A
// node whose fixed weight exceeds capacity is infeasible and is displayed
// but never expanded.
//
// Termination is guaranteed without any pruning: each branch fixes one
// more previously-unknown variable, so depth is bounded by the item count
// and the tree holds at most 2^(n+1)-1 nodes.
//
// # Node Labels
//
// A node's position is the sequence of branch decisions that created it
// ([Path]); display labels derive from it. The root is "p0", its children
// are "p1" (0-branch) and "p2" (1-branch), and every deeper decision
// appends ".1" (1-branch) or ".2" (0-branch) to the parent label.
// Siblings are visited in ascending label order.
package knapsack
