package knapsack

import "fmt"

// newNode evaluates fix and wraps the result in a Node. Used for the root
// (empty path, no header) and for every child.
func newNode(p *Problem, order RatioOrder, fix Assignment, path Path, header string) *Node {
	ev := Evaluate(p, order, fix)
	return &Node{
		Fix:         fix,
		Path:        path,
		Header:      header,
		Bound:       ev.Bound,
		ValueFixed:  ev.ValueFixed,
		WeightFixed: ev.WeightFixed,
		Pivot:       ev.Pivot,
		Infeasible:  ev.Infeasible,
		Plan:        ev.Plan,
	}
}

// child builds one branch of n: a copy of the assignment with the pivot
// fixed, re-evaluated and labeled.
func child(p *Problem, order RatioOrder, n *Node, one bool) *Node {
	k := n.Pivot
	fix, value := FixedZero, 0
	if one {
		fix, value = FixedOne, 1
	}
	header := fmt.Sprintf("%s = %d", p.Items[k].Name, value)
	return newNode(p, order, n.Fix.With(k, fix), n.Path.Child(k, one), header)
}

// Children expands a branching node into its two children, the pivot
// fixed to 0 and to 1, each evaluated immediately.
//
// The pair is returned in visit order, which is ascending label order:
// below the root that is the 0-branch ("p1") before the 1-branch ("p2"),
// at every deeper level the 1-branch (".1") before the 0-branch (".2").
// The driver pushes the pair reversed so the first element pops first.
//
// Calling Children on a node without a pivot is a programming error.
func Children(p *Problem, order RatioOrder, n *Node) [2]*Node {
	zero := child(p, order, n, false)
	one := child(p, order, n, true)
	if len(n.Path) == 0 {
		return [2]*Node{zero, one}
	}
	return [2]*Node{one, zero}
}

// ChildLabels returns the labels the two children of a node at path would
// carry, in visit order. Renderers use it to announce a branch without
// re-deriving the labeling rules.
func ChildLabels(path Path, pivot int) [2]string {
	zero := path.Child(pivot, false).Label()
	one := path.Child(pivot, true).Label()
	if len(path) == 0 {
		return [2]string{zero, one}
	}
	return [2]string{one, zero}
}
