package knapsack

import (
	"slices"
	"strings"
)

// Fix is the assignment state of one item within a node.
type Fix uint8

const (
	// Unknown leaves the item free for the greedy fill.
	Unknown Fix = iota
	// FixedZero forces the item out of the solution.
	FixedZero
	// FixedOne forces the item into the solution.
	FixedOne
)

// String returns "unknown", "fixed=0" or "fixed=1".
func (f Fix) String() string {
	switch f {
	case FixedZero:
		return "fixed=0"
	case FixedOne:
		return "fixed=1"
	}
	return "unknown"
}

// Assignment maps each original item index to its [Fix] state. An
// Assignment is owned exclusively by the node that carries it and is
// never mutated after the node is constructed; children are built from a
// copy via [Assignment.With].
type Assignment []Fix

// NewAssignment returns an all-Unknown assignment for n items.
func NewAssignment(n int) Assignment {
	return make(Assignment, n)
}

// With returns a copy of a with index set to f. The receiver is left
// untouched.
func (a Assignment) With(index int, f Fix) Assignment {
	c := slices.Clone(a)
	c[index] = f
	return c
}

// Branch records a single fixing decision: which original item index was
// fixed, and to which value.
type Branch struct {
	Index int
	One   bool
}

// Path is the sequence of branch decisions from the root down to a node.
// The display label derives from it, keeping the root special case an
// explicit rule rather than a string-building quirk.
type Path []Branch

// Child returns a new path extending p by one decision. The backing
// array is always copied so sibling paths never alias.
func (p Path) Child(index int, one bool) Path {
	c := make(Path, len(p)+1)
	copy(c, p)
	c[len(p)] = Branch{Index: index, One: one}
	return c
}

// Label formats the path as a display label. The root is "p0". The first
// decision yields "p1" (0-branch) or "p2" (1-branch); every deeper
// decision appends ".1" (1-branch) or ".2" (0-branch).
func (p Path) Label() string {
	if len(p) == 0 {
		return "p0"
	}
	var b strings.Builder
	if p[0].One {
		b.WriteString("p2")
	} else {
		b.WriteString("p1")
	}
	for _, br := range p[1:] {
		if br.One {
			b.WriteString(".1")
		} else {
			b.WriteString(".2")
		}
	}
	return b.String()
}

// NoPivot marks a node whose greedy fill came out fully integral.
const NoPivot = -1

// Node is one vertex of the search tree: the assignment that defines it,
// where it sits ([Path]), and everything the evaluator derived from the
// assignment. Nodes are created once, by the root setup or by [Children],
// visited exactly once, and never mutated afterwards.
type Node struct {
	// Fix is the partial assignment, owned by this node.
	Fix Assignment
	// Path holds the branch decisions that created this node.
	Path Path
	// Header describes the fixing decision, e.g. "x5 = 0". Empty for
	// the root.
	Header string
	// Bound is the greedy fractional-relaxation value (fixed plus
	// fractional part). Display only; never used to cut branches.
	Bound float64
	// ValueFixed and WeightFixed are the sums over items fixed to 1.
	ValueFixed  float64
	WeightFixed float64
	// Pivot is the original index of the first fractional item, or
	// [NoPivot] when the fill is integral.
	Pivot int
	// Infeasible is set when WeightFixed exceeds capacity (within
	// [Epsilon]). The node is displayed but never expanded.
	Infeasible bool
	// Plan holds the greedy decisions for the unknown items, re-ordered
	// to original index order for display.
	Plan []PlanEntry
}

// Label returns the node's display label, derived from its path.
func (n *Node) Label() string { return n.Path.Label() }

// Depth is the number of fixed decisions on the node's path.
func (n *Node) Depth() int { return len(n.Path) }

// Integral reports whether the greedy fill produced no fractional take,
// making the node a leaf candidate.
func (n *Node) Integral() bool { return n.Pivot == NoPivot }

// Take returns the display take for item index i: forced items contribute
// their fixed value, unknown items the greedy plan fraction.
func (n *Node) Take(i int) float64 {
	switch n.Fix[i] {
	case FixedOne:
		return 1
	case FixedZero:
		return 0
	}
	for _, e := range n.Plan {
		if e.Index == i {
			return e.Take
		}
	}
	return 0
}
