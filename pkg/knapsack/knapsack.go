package knapsack

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrConstraint is returned by [NewProblem] when the input does not
	// carry exactly one "<=" capacity constraint. The model supports a
	// single knapsack capacity; anything else is rejected before any
	// search begins.
	ErrConstraint = errors.New(`expected exactly one "<=" capacity constraint`)

	// ErrVectorLength is returned by [NewProblem] when the profit and
	// weight vectors differ in length. Every item needs both.
	ErrVectorLength = errors.New("profit and weight vectors differ in length")
)

// Epsilon is the shared tolerance for all capacity comparisons. It absorbs
// floating-point summation drift and is deliberately not configurable so
// that every component classifies feasibility identically.
const Epsilon = 1e-9

// ConstraintLE identifies the "<=" capacity constraint, the only kind the
// model supports.
const ConstraintLE = "le"

// Constraint is one capacity restriction from the raw input. Validation
// in [NewProblem] requires exactly one with Kind == [ConstraintLE].
type Constraint struct {
	Kind     string  `json:"kind" toml:"kind"`
	Capacity float64 `json:"capacity" toml:"capacity"`
}

// Item is a single object that can be packed. Index is the 0-based
// position in the original input and stays stable for the lifetime of the
// problem; all assignments and plans refer to it. Items are immutable
// once the problem is built.
type Item struct {
	Index  int
	Name   string
	Profit float64
	Weight float64
}

// Ratio returns the profit/weight density used for ranking. A weightless
// item with positive profit is infinitely dense (+Inf, rendered as "inf");
// a weightless item with zero profit ranks last with ratio 0.
func (it Item) Ratio() float64 {
	if it.Weight == 0 {
		if it.Profit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return it.Profit / it.Weight
}

// Problem is a validated knapsack instance: an ordered item sequence and
// one capacity. Build it with [NewProblem]; direct construction skips
// validation and default naming.
type Problem struct {
	Title    string
	Items    []Item
	Capacity float64
}

// Input is the raw, unvalidated problem description as it arrives from a
// problem file or an API request: parallel profit/weight vectors, an
// optional name vector, and the constraint list.
type Input struct {
	Title       string       `json:"title,omitempty" toml:"title"`
	Profits     []float64    `json:"profits" toml:"profits"`
	Weights     []float64    `json:"weights" toml:"weights"`
	Names       []string     `json:"names,omitempty" toml:"names"`
	Constraints []Constraint `json:"constraints" toml:"constraints"`
}

// NewProblem validates in and builds a Problem.
//
// Exactly two inputs are rejected, each with a single descriptive error:
// a constraint list that is not exactly one "<=" constraint
// ([ErrConstraint]) and profit/weight vectors of different lengths
// ([ErrVectorLength]). A missing or length-mismatched name vector is not
// an error; names default to x1..xn.
func NewProblem(in Input) (*Problem, error) {
	if n := len(in.Constraints); n != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrConstraint, n)
	}
	c := in.Constraints[0]
	if c.Kind != ConstraintLE {
		return nil, fmt.Errorf("%w: got kind %q", ErrConstraint, c.Kind)
	}
	if len(in.Profits) != len(in.Weights) {
		return nil, fmt.Errorf("%w: %d profits, %d weights",
			ErrVectorLength, len(in.Profits), len(in.Weights))
	}

	names := in.Names
	if len(names) != len(in.Profits) {
		names = nil
	}

	items := make([]Item, len(in.Profits))
	for i := range items {
		name := ""
		if names != nil {
			name = names[i]
		}
		if name == "" {
			name = fmt.Sprintf("x%d", i+1)
		}
		items[i] = Item{
			Index:  i,
			Name:   name,
			Profit: in.Profits[i],
			Weight: in.Weights[i],
		}
	}

	return &Problem{Title: in.Title, Items: items, Capacity: c.Capacity}, nil
}

// Names returns the item names in original order.
func (p *Problem) Names() []string {
	names := make([]string, len(p.Items))
	for i, it := range p.Items {
		names[i] = it.Name
	}
	return names
}

// Input reconstructs the raw vectors for serialization. The result always
// carries the full name vector and the single "<=" constraint.
func (p *Problem) Input() Input {
	in := Input{
		Title:       p.Title,
		Profits:     make([]float64, len(p.Items)),
		Weights:     make([]float64, len(p.Items)),
		Names:       p.Names(),
		Constraints: []Constraint{{Kind: ConstraintLE, Capacity: p.Capacity}},
	}
	for i, it := range p.Items {
		in.Profits[i] = it.Profit
		in.Weights[i] = it.Weight
	}
	return in
}
