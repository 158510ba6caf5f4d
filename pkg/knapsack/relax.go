package knapsack

import (
	"slices"
)

// PlanEntry records the greedy decision for one unknown item: the
// fraction taken and the capacity left over afterwards.
type PlanEntry struct {
	Index    int     `json:"index"`
	Take     float64 `json:"take"`
	Residual float64 `json:"residual"`
}

// Evaluation is the outcome of the greedy fractional relaxation for one
// partial assignment. It is everything a [Node] needs beyond its identity.
type Evaluation struct {
	Bound       float64
	ValueFixed  float64
	WeightFixed float64
	Infeasible  bool
	Pivot       int
	Plan        []PlanEntry
}

// Evaluate computes the greedy fractional relaxation of fix against p.
//
// The fixed part is summed first: ValueFixed and WeightFixed are the
// totals over items fixed to 1. If WeightFixed exceeds the capacity
// (within [Epsilon]) the assignment is infeasible; the bound is still
// computed for display, with the remaining capacity clamped to zero.
//
// The fill then walks the ratio order, skipping fixed items in place.
// Each unknown item takes 1 if it still fits whole, or the fitting
// fraction if capacity runs out mid-item. That first fractional item is
// the pivot; everything after it stays at zero. An item of weight zero
// always fits whole, so a weightless profitable item is taken in full in
// every node, even an infeasible one. If no item ends up strictly
// fractional there is no pivot and the node is an integral leaf.
//
// Bound = ValueFixed + sum of profit*take over the unknowns. The plan is
// returned re-ordered to original index order for display.
//
// Evaluate is pure and deterministic, and is the only place bounds and
// pivots are computed. It runs exactly once per node.
func Evaluate(p *Problem, order RatioOrder, fix Assignment) Evaluation {
	ev := Evaluation{Pivot: NoPivot}

	for i, f := range fix {
		if f == FixedOne {
			ev.ValueFixed += p.Items[i].Profit
			ev.WeightFixed += p.Items[i].Weight
		}
	}
	ev.Infeasible = ev.WeightFixed > p.Capacity+Epsilon

	remaining := p.Capacity - ev.WeightFixed
	if remaining < 0 {
		remaining = 0
	}

	ev.Bound = ev.ValueFixed
	for _, idx := range order {
		if fix[idx] != Unknown {
			continue
		}
		it := p.Items[idx]
		var take float64
		switch {
		case ev.Pivot != NoPivot:
			// Past the pivot nothing else is taken.
			take = 0
		case remaining >= it.Weight-Epsilon:
			take = 1
			remaining -= it.Weight
			if remaining < 0 {
				remaining = 0
			}
		case remaining > Epsilon:
			take = remaining / it.Weight
			ev.Pivot = idx
			remaining = 0
		default:
			take = 0
		}
		ev.Bound += it.Profit * take
		ev.Plan = append(ev.Plan, PlanEntry{Index: idx, Take: take, Residual: remaining})
	}

	slices.SortFunc(ev.Plan, func(a, b PlanEntry) int { return a.Index - b.Index })
	return ev
}
