package knapsack

import (
	"cmp"
	"slices"
)

// RatioOrder is a fixed permutation of item indices, descending by
// profit/weight ratio with ties broken by ascending original index. It is
// computed once per problem and reused for every node's greedy fill;
// fixed items are skipped in place rather than removed, so the same
// ordering applies at every depth.
type RatioOrder []int

// NewRatioOrder computes the ranking permutation for p.
func NewRatioOrder(p *Problem) RatioOrder {
	order := make(RatioOrder, len(p.Items))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		ra, rb := p.Items[a].Ratio(), p.Items[b].Ratio()
		switch {
		case ra > rb:
			return -1
		case ra < rb:
			return 1
		}
		return cmp.Compare(a, b)
	})
	return order
}

// Ranks returns the 1-based rank of every item, indexed by original item
// index. Ranks are a permutation of 1..n.
func (o RatioOrder) Ranks() []int {
	ranks := make([]int, len(o))
	for pos, idx := range o {
		ranks[idx] = pos + 1
	}
	return ranks
}

// RankRow is one display row of the ranking table, in original item order.
type RankRow struct {
	Index  int
	Name   string
	Ratio  float64
	Rank   int
	Weight float64
}

// Ranking is the display table of ratios and ranks that opens every
// trace: one row per item plus the capacity. Pure function of the item
// data, no error conditions.
type Ranking struct {
	Rows     []RankRow
	Capacity float64
}

// Rank builds the ranking table for p.
func Rank(p *Problem) Ranking {
	ranks := NewRatioOrder(p).Ranks()
	rows := make([]RankRow, len(p.Items))
	for i, it := range p.Items {
		rows[i] = RankRow{
			Index:  i,
			Name:   it.Name,
			Ratio:  it.Ratio(),
			Rank:   ranks[i],
			Weight: it.Weight,
		}
	}
	return Ranking{Rows: rows, Capacity: p.Capacity}
}
