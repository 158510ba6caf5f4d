package text

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/knaptrace/knaptrace/pkg/knapsack"
)

func solve(t *testing.T, in knapsack.Input) *knapsack.Result {
	t.Helper()
	p, err := knapsack.NewProblem(in)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	result, err := knapsack.Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return result
}

func twoItems(t *testing.T) *knapsack.Result {
	return solve(t, knapsack.Input{
		Profits:     []float64{2, 3},
		Weights:     []float64{2, 3},
		Constraints: []knapsack.Constraint{{Kind: knapsack.ConstraintLE, Capacity: 4}},
	})
}

func TestRankingBlock(t *testing.T) {
	result := twoItems(t)
	block := RankingBlock(result.Ranking)

	lines := strings.Split(block, "\n")
	if lines[0] != "ranking" {
		t.Errorf("first line = %q", lines[0])
	}
	if got := strings.Fields(lines[1]); !reflect.DeepEqual(got, []string{"item", "ratio", "rank", "weight"}) {
		t.Errorf("header fields = %v", got)
	}
	if got := strings.Fields(lines[2]); !reflect.DeepEqual(got, []string{"x1", "1.000", "1", "2.000"}) {
		t.Errorf("row fields = %v", got)
	}
	if got := strings.TrimSpace(lines[len(lines)-1]); got != "capacity: 4.000" {
		t.Errorf("capacity line = %q", got)
	}
}

func TestNodeBlocks(t *testing.T) {
	result := twoItems(t)
	blocks := NodeBlocks(result)

	if len(blocks) != len(result.Nodes) {
		t.Fatalf("blocks = %d, nodes = %d", len(blocks), len(result.Nodes))
	}

	root := blocks[0]
	if !strings.HasPrefix(root, "node p0\n") {
		t.Errorf("root block starts %q", root[:20])
	}
	if !strings.Contains(root, "bound 4.000   value 0.000   weight 0.000") {
		t.Errorf("root bound line missing:\n%s", root)
	}
	if !strings.Contains(root, "branch on x2 -> p1 (x2 = 0), p2 (x2 = 1)") {
		t.Errorf("root branch line missing:\n%s", root)
	}
	// The pivot row carries its fraction and the pivot note.
	pivotRow := findRow(t, root, "x2")
	if !reflect.DeepEqual(pivotRow, []string{"x2", "0.667", "0.000", "1.000", "2", "pivot"}) {
		t.Errorf("pivot row = %v", pivotRow)
	}

	// p1 is the first leaf and therefore a new best.
	if !strings.Contains(blocks[1], "node p1 (x2 = 0)\n") {
		t.Errorf("p1 header missing:\n%s", blocks[1])
	}
	if !strings.Contains(blocks[1], "integral leaf: value 2.000") || !strings.Contains(blocks[1], "new best") {
		t.Errorf("p1 leaf annotation missing:\n%s", blocks[1])
	}

	// Deeper siblings are announced in .1-then-.2 order.
	if !strings.Contains(blocks[2], "branch on x1 -> p2.1 (x1 = 1), p2.2 (x1 = 0)") {
		t.Errorf("p2 branch line missing:\n%s", blocks[2])
	}

	// p2.1 fixes both items in: infeasible, with the forced row marked.
	if !strings.Contains(blocks[3], "infeasible: weight 5.000 exceeds capacity 4.000") {
		t.Errorf("p2.1 infeasible line missing:\n%s", blocks[3])
	}
	fixedRow := findRow(t, blocks[3], "x1")
	if !reflect.DeepEqual(fixedRow, []string{"x1", "1.000", "-", "1.000", "1", "fixed=1"}) {
		t.Errorf("fixed row = %v", fixedRow)
	}

	// p2.2 beats the earlier leaf.
	if !strings.Contains(blocks[4], "integral leaf: value 3.000") || !strings.Contains(blocks[4], "new best") {
		t.Errorf("p2.2 leaf annotation missing:\n%s", blocks[4])
	}
}

func TestNodeBlocksTiedLeafNotBest(t *testing.T) {
	// Second leaf ties the first: annotated as a leaf, not as a new best.
	result := solve(t, knapsack.Input{
		Profits:     []float64{4, 4},
		Weights:     []float64{2, 2},
		Constraints: []knapsack.Constraint{{Kind: knapsack.ConstraintLE, Capacity: 3}},
	})
	blocks := NodeBlocks(result)

	last := blocks[len(blocks)-1]
	if !strings.Contains(last, "integral leaf: value 4.000") {
		t.Fatalf("tied leaf annotation missing:\n%s", last)
	}
	if strings.Contains(last, "new best") {
		t.Errorf("tied leaf marked as new best:\n%s", last)
	}
}

func TestRenderInfiniteRatio(t *testing.T) {
	result := solve(t, knapsack.Input{
		Profits:     []float64{4, 3},
		Weights:     []float64{0, 5},
		Constraints: []knapsack.Constraint{{Kind: knapsack.ConstraintLE, Capacity: 4}},
	})
	out := Render(result)

	row := findRow(t, RankingBlock(result.Ranking), "x1")
	if !reflect.DeepEqual(row, []string{"x1", "inf", "1", "0.000"}) {
		t.Errorf("weightless ranking row = %v", row)
	}
	if !strings.Contains(out, "inf") {
		t.Error("trace does not render the inf literal")
	}
}

func TestSummaryBlock(t *testing.T) {
	result := twoItems(t)
	summary := SummaryBlock(result)

	for _, want := range []string{"best solution", "value:  3.000", "weight: 3.000", "items:  x2"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestSummaryBlockEmptySolution(t *testing.T) {
	// Single oversized item: the best solution is taking nothing.
	result := solve(t, knapsack.Input{
		Profits:     []float64{7},
		Weights:     []float64{50},
		Constraints: []knapsack.Constraint{{Kind: knapsack.ConstraintLE, Capacity: 10}},
	})
	summary := SummaryBlock(result)
	if !strings.Contains(summary, "value:  0.000") || !strings.Contains(summary, "items:  none") {
		t.Errorf("empty-solution summary = %q", summary)
	}
}

func TestRender(t *testing.T) {
	result := twoItems(t)
	out := Render(result)

	if !strings.HasPrefix(out, "ranking\n") {
		t.Errorf("trace starts %q", out[:20])
	}
	if !strings.Contains(out, "\n\ninitial bound: 4.000\n\n") {
		t.Error("initial bound line missing or misplaced")
	}
	if !strings.HasSuffix(out, "items:  x2\n") {
		t.Errorf("trace ends %q", out[len(out)-20:])
	}
	// One block per node plus ranking, initial bound and summary.
	if got := strings.Count(out, "\n\n"); got != len(result.Nodes)+2 {
		t.Errorf("block separators = %d, want %d", got, len(result.Nodes)+2)
	}

	// Rendering is pure: same result, same trace.
	if Render(result) != out {
		t.Error("repeated render differs")
	}
}

// findRow returns the whitespace-split fields of the first table line in
// block whose first field equals name.
func findRow(t *testing.T, block, name string) []string {
	t.Helper()
	for _, line := range strings.Split(block, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == name {
			return fields
		}
	}
	t.Fatalf("no row %q in block:\n%s", name, block)
	return nil
}
