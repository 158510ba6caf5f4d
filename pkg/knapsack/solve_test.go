package knapsack

import (
	"context"
	"errors"
	"testing"
)

func TestSolveLectureExample(t *testing.T) {
	ctx := context.Background()
	p := mustProblem(t, lecture())

	result, err := Solve(ctx, p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if !approx(result.RootBound, 15.4) {
		t.Errorf("root bound = %v, want 15.4", result.RootBound)
	}
	if result.Nodes[0].Label() != "p0" {
		t.Errorf("first node = %s, want p0", result.Nodes[0].Label())
	}
	if result.Nodes[0].Header != "" {
		t.Errorf("root header = %q, want empty", result.Nodes[0].Header)
	}

	// Exhaustive search without pruning must land on the optimum.
	best := result.Best
	if best == nil {
		t.Fatal("no solution found")
	}
	if !approx(best.Value, 15) {
		t.Errorf("best value = %v, want 15", best.Value)
	}
	if !approx(best.Weight, 38) {
		t.Errorf("best weight = %v, want 38", best.Weight)
	}
	wantSelected := []bool{false, true, true, true, false, true}
	for i, sel := range best.Selected {
		if sel != wantSelected[i] {
			t.Fatalf("selection = %v, want %v", best.Selected, wantSelected)
		}
	}
	wantNames := []string{"x2", "x3", "x4", "x6"}
	if len(best.Names) != len(wantNames) {
		t.Fatalf("names = %v, want %v", best.Names, wantNames)
	}
	for i, n := range wantNames {
		if best.Names[i] != n {
			t.Fatalf("names = %v, want %v", best.Names, wantNames)
		}
	}

	if result.Stats.NodesVisited != len(result.Nodes) {
		t.Errorf("stats nodes = %d, trace holds %d", result.Stats.NodesVisited, len(result.Nodes))
	}
}

// TestSolveInvariants checks the structural properties every trace must
// satisfy, independent of the concrete instance.
func TestSolveInvariants(t *testing.T) {
	ctx := context.Background()
	p := mustProblem(t, lecture())

	result, err := Solve(ctx, p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	seen := make(map[string]bool)
	for _, n := range result.Nodes {
		label := n.Label()
		if seen[label] {
			t.Fatalf("node %s visited twice", label)
		}
		seen[label] = true

		// WeightFixed must equal the sum over items fixed to 1.
		var wantWeight, wantValue float64
		for i, f := range n.Fix {
			if f == FixedOne {
				wantWeight += p.Items[i].Weight
				wantValue += p.Items[i].Profit
			}
		}
		if !approx(n.WeightFixed, wantWeight) {
			t.Errorf("node %s WeightFixed = %v, want %v", label, n.WeightFixed, wantWeight)
		}
		if !approx(n.ValueFixed, wantValue) {
			t.Errorf("node %s ValueFixed = %v, want %v", label, n.ValueFixed, wantValue)
		}

		// The root bound dominates every node's own subtree value; in
		// particular no leaf may beat it.
		if n.Integral() && !n.Infeasible {
			sol := LeafSolution(p, n)
			if sol.Value > result.RootBound+Epsilon {
				t.Errorf("leaf %s value %v beats root bound %v", label, sol.Value, result.RootBound)
			}
			if sol.Weight > p.Capacity+Epsilon {
				t.Errorf("leaf %s weight %v exceeds capacity", label, sol.Weight)
			}
		}

		// Infeasible nodes are displayed, never expanded: no child of an
		// infeasible node may appear in the trace.
		if n.Infeasible {
			for _, other := range result.Nodes {
				if len(other.Path) == len(n.Path)+1 && other.Path[:len(n.Path)].Label() == label {
					t.Errorf("infeasible node %s was expanded into %s", label, other.Label())
				}
			}
		}
	}

	counted := result.Stats.Leaves + result.Stats.InfeasibleNodes
	if counted > result.Stats.NodesVisited {
		t.Errorf("stats inconsistent: %+v", result.Stats)
	}
}

func TestSolveVisitOrder(t *testing.T) {
	// Two equal items, capacity 3: the root pivots on the second item,
	// its 1-branch pivots on the first. Small enough to pin the whole
	// visit sequence: siblings appear in ascending label order, children
	// directly after their parent.
	ctx := context.Background()
	p := mustProblem(t, Input{
		Profits:     []float64{4, 4},
		Weights:     []float64{2, 2},
		Constraints: []Constraint{{Kind: ConstraintLE, Capacity: 3}},
	})

	result, err := Solve(ctx, p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	want := []string{"p0", "p1", "p2", "p2.1", "p2.2"}
	if len(result.Nodes) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(result.Nodes), len(want))
	}
	for i, n := range result.Nodes {
		if n.Label() != want[i] {
			t.Fatalf("visit order = %v at %d, want %v", n.Label(), i, want)
		}
	}

	// Branch headers record the fixing decision of each child.
	if result.Nodes[1].Header != "x2 = 0" {
		t.Errorf("p1 header = %q, want \"x2 = 0\"", result.Nodes[1].Header)
	}
	if result.Nodes[2].Header != "x2 = 1" {
		t.Errorf("p2 header = %q, want \"x2 = 1\"", result.Nodes[2].Header)
	}
	if result.Nodes[3].Header != "x1 = 1" {
		t.Errorf("p2.1 header = %q, want \"x1 = 1\"", result.Nodes[3].Header)
	}

	// p2.1 fixes both items in: weight 4 against capacity 3.
	if !result.Nodes[3].Infeasible {
		t.Error("p2.1 not flagged infeasible")
	}
}

func TestSolveFirstLeafWinsTies(t *testing.T) {
	// Both leaves are worth 4; the first one discovered (p1, taking x1)
	// must be kept since only strictly greater values replace the best.
	ctx := context.Background()
	p := mustProblem(t, Input{
		Profits:     []float64{4, 4},
		Weights:     []float64{2, 2},
		Constraints: []Constraint{{Kind: ConstraintLE, Capacity: 3}},
	})

	result, err := Solve(ctx, p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if result.Best == nil {
		t.Fatal("no solution found")
	}
	if result.Best.Label != "p1" {
		t.Errorf("best came from %s, want p1 (first leaf wins ties)", result.Best.Label)
	}
	if len(result.Best.Names) != 1 || result.Best.Names[0] != "x1" {
		t.Errorf("best names = %v, want [x1]", result.Best.Names)
	}
	if result.Stats.BestUpdates != 1 {
		t.Errorf("best updates = %d, want 1", result.Stats.BestUpdates)
	}
}

func TestSolveTrivialFit(t *testing.T) {
	// A single item that fits whole: the root has no pivot and is itself
	// the only node, an integral leaf.
	ctx := context.Background()
	p := mustProblem(t, Input{
		Profits:     []float64{5},
		Weights:     []float64{3},
		Constraints: []Constraint{{Kind: ConstraintLE, Capacity: 10}},
	})

	result, err := Solve(ctx, p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(result.Nodes) != 1 {
		t.Fatalf("visited %d nodes, want 1", len(result.Nodes))
	}
	if !result.Nodes[0].Integral() {
		t.Error("root should be an integral leaf")
	}
	if result.Best == nil || !approx(result.Best.Value, 5) {
		t.Fatalf("best = %+v, want value 5", result.Best)
	}
	if !result.Best.Selected[0] {
		t.Error("item not taken")
	}
}

func TestSolveInfeasibleBranch(t *testing.T) {
	// One item heavier than the capacity: fixing it in is infeasible and
	// never expanded, fixing it out leaves the empty leaf worth 0.
	ctx := context.Background()
	p := mustProblem(t, Input{
		Profits:     []float64{7},
		Weights:     []float64{50},
		Constraints: []Constraint{{Kind: ConstraintLE, Capacity: 10}},
	})

	result, err := Solve(ctx, p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	want := []string{"p0", "p1", "p2"}
	if len(result.Nodes) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(result.Nodes), len(want))
	}
	p1, p2 := result.Nodes[1], result.Nodes[2]
	if p1.Infeasible || !p1.Integral() {
		t.Errorf("p1 = infeasible=%v integral=%v, want empty leaf", p1.Infeasible, p1.Integral())
	}
	if !p2.Infeasible {
		t.Error("p2 (item forced in) not flagged infeasible")
	}
	if result.Stats.InfeasibleNodes != 1 || result.Stats.Leaves != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.Best == nil || result.Best.Value != 0 || len(result.Best.Names) != 0 {
		t.Errorf("best = %+v, want the empty solution", result.Best)
	}
}

func TestSolveWeightlessItem(t *testing.T) {
	// The weightless profitable item is taken in full in every visited
	// node, including the infeasible one.
	ctx := context.Background()
	p := mustProblem(t, Input{
		Profits:     []float64{4, 3},
		Weights:     []float64{0, 5},
		Constraints: []Constraint{{Kind: ConstraintLE, Capacity: 4}},
	})

	result, err := Solve(ctx, p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for _, n := range result.Nodes {
		if n.Take(0) != 1 {
			t.Errorf("node %s takes %v of the weightless item, want 1", n.Label(), n.Take(0))
		}
	}
	if result.Best == nil || !approx(result.Best.Value, 4) {
		t.Fatalf("best = %+v, want value 4", result.Best)
	}
}

func TestSolveIdempotent(t *testing.T) {
	ctx := context.Background()
	p := mustProblem(t, lecture())

	first, err := Solve(ctx, p)
	if err != nil {
		t.Fatalf("first Solve: %v", err)
	}
	second, err := Solve(ctx, p)
	if err != nil {
		t.Fatalf("second Solve: %v", err)
	}

	if len(first.Nodes) != len(second.Nodes) {
		t.Fatalf("node counts differ: %d vs %d", len(first.Nodes), len(second.Nodes))
	}
	for i := range first.Nodes {
		a, b := first.Nodes[i], second.Nodes[i]
		if a.Label() != b.Label() || a.Bound != b.Bound || a.Header != b.Header {
			t.Fatalf("node %d differs: %s/%v vs %s/%v", i, a.Label(), a.Bound, b.Label(), b.Bound)
		}
	}
	if first.Best.Value != second.Best.Value || first.Best.Label != second.Best.Label {
		t.Errorf("best differs across runs")
	}
}

func TestSolveNodeLimit(t *testing.T) {
	ctx := context.Background()
	p := mustProblem(t, lecture())

	solver := NewSolver(Options{MaxNodes: 3})
	result, err := solver.Solve(ctx, p)
	if !errors.Is(err, ErrNodeLimit) {
		t.Fatalf("err = %v, want ErrNodeLimit", err)
	}
	if len(result.Nodes) != 3 {
		t.Errorf("partial trace holds %d nodes, want 3", len(result.Nodes))
	}
}

func TestSolveDepthLimit(t *testing.T) {
	ctx := context.Background()
	p := mustProblem(t, lecture())

	solver := NewSolver(Options{MaxDepth: 1})
	result, err := solver.Solve(ctx, p)
	if !errors.Is(err, ErrDepthLimit) {
		t.Fatalf("err = %v, want ErrDepthLimit", err)
	}
	if len(result.Nodes) == 0 {
		t.Error("no partial trace returned")
	}
}

func TestSolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := mustProblem(t, lecture())
	result, err := Solve(ctx, p)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result == nil {
		t.Fatal("no partial result returned")
	}
}

func TestSolveCallbacks(t *testing.T) {
	ctx := context.Background()
	p := mustProblem(t, lecture())

	var progress, debug, improvements int
	var lastBest *Solution
	solver := NewSolver(Options{
		Progress: func(n *Node, visited int, best *Solution) {
			progress++
			if visited != progress {
				t.Errorf("visited = %d on call %d", visited, progress)
			}
			if n == nil {
				t.Error("Progress called with nil node")
			}
			if best != lastBest {
				improvements++
				lastBest = best
			}
		},
		Debug: func(msg string) { debug++ },
	})
	result, err := solver.Solve(ctx, p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if progress != result.Stats.NodesVisited {
		t.Errorf("progress calls = %d, want %d", progress, result.Stats.NodesVisited)
	}
	if debug != result.Stats.NodesVisited {
		t.Errorf("debug calls = %d, want %d", debug, result.Stats.NodesVisited)
	}
	if improvements != result.Stats.BestUpdates {
		t.Errorf("observed %d best replacements, stats say %d", improvements, result.Stats.BestUpdates)
	}
	if lastBest == nil || lastBest.Value != result.Best.Value {
		t.Errorf("final best seen by callback = %+v, want %+v", lastBest, result.Best)
	}
}

func TestSolveEmptyProblem(t *testing.T) {
	ctx := context.Background()
	p := mustProblem(t, Input{
		Constraints: []Constraint{{Kind: ConstraintLE, Capacity: 5}},
	})

	result, err := Solve(ctx, p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(result.Nodes) != 1 || !result.Nodes[0].Integral() {
		t.Fatalf("empty problem should be a single leaf, got %d nodes", len(result.Nodes))
	}
	if result.Best == nil || result.Best.Value != 0 {
		t.Errorf("best = %+v, want the empty solution", result.Best)
	}
}
