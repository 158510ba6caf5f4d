// Package text renders a solve result as the canonical plain-text trace:
// the ranking table, the initial bound, one block per visited node, and
// the best-solution summary. Formatting only; every number shown is taken
// or re-derived from the result through the same pure helpers the solver
// used, so rendering can never alter outcomes.
package text

import (
	"fmt"
	"strings"

	"github.com/knaptrace/knaptrace/pkg/knapsack"
)

// Render returns the complete trace for result. Blocks are separated by
// one blank line; the summary is omitted when no integral solution was
// found (for example when the search was cut by a cap).
func Render(result *knapsack.Result) string {
	blocks := []string{
		RankingBlock(result.Ranking),
		fmt.Sprintf("initial bound: %.3f", result.RootBound),
	}
	blocks = append(blocks, NodeBlocks(result)...)
	if summary := SummaryBlock(result); summary != "" {
		blocks = append(blocks, summary)
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// RankingBlock formats the ranking table: one row per item in original
// order with ratio, rank and weight, closed by the capacity line.
func RankingBlock(ranking knapsack.Ranking) string {
	nw := nameWidth(ranking.Rows)

	var b strings.Builder
	b.WriteString("ranking\n")
	fmt.Fprintf(&b, "  %-*s  %7s  %4s  %8s\n", nw, "item", "ratio", "rank", "weight")
	for _, row := range ranking.Rows {
		fmt.Fprintf(&b, "  %-*s  %7s  %4d  %8.3f\n", nw, row.Name, ratio(row.Ratio), row.Rank, row.Weight)
	}
	fmt.Fprintf(&b, "  capacity: %.3f", ranking.Capacity)
	return b.String()
}

// NodeBlocks formats one block per visited node, in visit order. Each
// block holds the node header, the bound/value/weight line, the per-item
// plan table, and the classification: the branch announcement, the
// infeasibility line, or the leaf line (with "new best" when the leaf
// improved on everything before it, replaying the driver's
// strictly-greater rule).
func NodeBlocks(result *knapsack.Result) []string {
	ranks := result.Order.Ranks()
	nw := nameWidth(result.Ranking.Rows)

	blocks := make([]string, 0, len(result.Nodes))
	var best float64
	found := false
	for _, n := range result.Nodes {
		var b strings.Builder

		if n.Header == "" {
			fmt.Fprintf(&b, "node %s\n", n.Label())
		} else {
			fmt.Fprintf(&b, "node %s (%s)\n", n.Label(), n.Header)
		}
		fmt.Fprintf(&b, "  bound %.3f   value %.3f   weight %.3f\n",
			n.Bound, n.ValueFixed, n.WeightFixed)

		fmt.Fprintf(&b, "  %-*s  %7s  %9s  %7s  %4s\n", nw, "item", "take", "residual", "ratio", "rank")
		for _, it := range result.Problem.Items {
			note := ""
			residual := "-"
			switch n.Fix[it.Index] {
			case knapsack.FixedZero, knapsack.FixedOne:
				note = n.Fix[it.Index].String()
			default:
				for _, e := range n.Plan {
					if e.Index == it.Index {
						residual = fmt.Sprintf("%.3f", e.Residual)
						break
					}
				}
				if it.Index == n.Pivot {
					note = "pivot"
				}
			}
			fmt.Fprintf(&b, "  %-*s  %7.3f  %9s  %7s  %4d", nw, it.Name,
				n.Take(it.Index), residual, ratio(it.Ratio()), ranks[it.Index])
			if note != "" {
				fmt.Fprintf(&b, "  %s", note)
			}
			b.WriteString("\n")
		}

		switch {
		case n.Infeasible:
			fmt.Fprintf(&b, "  infeasible: weight %.3f exceeds capacity %.3f",
				n.WeightFixed, result.Problem.Capacity)

		case n.Integral():
			sol := knapsack.LeafSolution(result.Problem, n)
			fmt.Fprintf(&b, "  integral leaf: value %.3f", sol.Value)
			if !found || sol.Value > best {
				best = sol.Value
				found = true
				b.WriteString("\n  new best")
			}

		default:
			pivot := result.Problem.Items[n.Pivot]
			labels := knapsack.ChildLabels(n.Path, n.Pivot)
			first, second := 0, 1
			if len(n.Path) > 0 {
				first, second = 1, 0
			}
			fmt.Fprintf(&b, "  branch on %s -> %s (%s = %d), %s (%s = %d)",
				pivot.Name, labels[0], pivot.Name, first,
				labels[1], pivot.Name, second)
		}

		blocks = append(blocks, b.String())
	}
	return blocks
}

// SummaryBlock formats the final best-solution block, or "" when the
// result carries no solution.
func SummaryBlock(result *knapsack.Result) string {
	if result.Best == nil {
		return ""
	}
	items := "none"
	if len(result.Best.Names) > 0 {
		items = strings.Join(result.Best.Names, ", ")
	}
	var b strings.Builder
	b.WriteString("best solution\n")
	fmt.Fprintf(&b, "  value:  %.3f\n", result.Best.Value)
	fmt.Fprintf(&b, "  weight: %.3f\n", result.Best.Weight)
	fmt.Fprintf(&b, "  items:  %s", items)
	return b.String()
}

func ratio(v float64) string { return knapsack.FormatRatio(v) }

func nameWidth(rows []knapsack.RankRow) int {
	w := len("item")
	for _, row := range rows {
		if len(row.Name) > w {
			w = len(row.Name)
		}
	}
	return w
}
