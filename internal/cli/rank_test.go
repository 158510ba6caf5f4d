package cli

import (
	"strings"
	"testing"

	"github.com/knaptrace/knaptrace/pkg/knapsack"
)

func rankProblem(t *testing.T, in knapsack.Input) *knapsack.Problem {
	t.Helper()
	p, err := knapsack.NewProblem(in)
	if err != nil {
		t.Fatalf("NewProblem() error: %v", err)
	}
	return p
}

func TestRankRows(t *testing.T) {
	p := rankProblem(t, knapsack.Input{
		Profits:     []float64{6, 5, 8},
		Weights:     []float64{2, 5, 4},
		Constraints: []knapsack.Constraint{{Kind: knapsack.ConstraintLE, Capacity: 9}},
	})

	rows := rankRows(p, knapsack.Rank(p))
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// Rows stay in input order; ranks follow the density ratios
	// 3.000, 1.000, 2.000.
	want := [][]string{
		{"x1", "6.000", "2.000", "3.000", "1"},
		{"x2", "5.000", "5.000", "1.000", "3"},
		{"x3", "8.000", "4.000", "2.000", "2"},
	}
	for i, row := range rows {
		for j, cell := range row {
			if cell != want[i][j] {
				t.Errorf("row %d col %d = %q, want %q", i, j, cell, want[i][j])
			}
		}
	}
}

func TestRankRowsWeightlessItem(t *testing.T) {
	p := rankProblem(t, knapsack.Input{
		Profits:     []float64{3, 2},
		Weights:     []float64{0, 4},
		Constraints: []knapsack.Constraint{{Kind: knapsack.ConstraintLE, Capacity: 4}},
	})

	rows := rankRows(p, knapsack.Rank(p))

	// A profitable weightless item has infinite density and ranks first.
	if rows[0][3] != "inf" {
		t.Errorf("ratio = %q, want %q", rows[0][3], "inf")
	}
	if rows[0][4] != "1" {
		t.Errorf("rank = %q, want %q", rows[0][4], "1")
	}
}

func TestRankTable(t *testing.T) {
	p := rankProblem(t, knapsack.Input{
		Profits:     []float64{2, 3},
		Weights:     []float64{2, 3},
		Constraints: []knapsack.Constraint{{Kind: knapsack.ConstraintLE, Capacity: 4}},
	})

	out := rankTable(p, knapsack.Rank(p))

	for _, want := range []string{"Item", "Profit", "Weight", "Ratio", "Rank", "x1", "x2"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output should contain %q:\n%s", want, out)
		}
	}
}
