package knapsack

import (
	"errors"
	"math"
	"testing"
)

func lecture() Input {
	return Input{
		Title:       "lecture example",
		Profits:     []float64{2, 3, 3, 5, 2, 4},
		Weights:     []float64{11, 8, 6, 14, 10, 10},
		Constraints: []Constraint{{Kind: ConstraintLE, Capacity: 40}},
	}
}

func TestNewProblem(t *testing.T) {
	p, err := NewProblem(lecture())
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	if len(p.Items) != 6 {
		t.Fatalf("items = %d, want 6", len(p.Items))
	}
	if p.Capacity != 40 {
		t.Errorf("capacity = %v, want 40", p.Capacity)
	}

	// Default names x1..xn when the name vector is absent
	for i, it := range p.Items {
		if want := [...]string{"x1", "x2", "x3", "x4", "x5", "x6"}[i]; it.Name != want {
			t.Errorf("item %d name = %q, want %q", i, it.Name, want)
		}
		if it.Index != i {
			t.Errorf("item %d index = %d", i, it.Index)
		}
	}
}

func TestNewProblemConstraintErrors(t *testing.T) {
	// No constraint at all
	in := lecture()
	in.Constraints = nil
	if _, err := NewProblem(in); !errors.Is(err, ErrConstraint) {
		t.Errorf("no constraints: err = %v, want ErrConstraint", err)
	}

	// Two constraints
	in = lecture()
	in.Constraints = append(in.Constraints, Constraint{Kind: ConstraintLE, Capacity: 10})
	if _, err := NewProblem(in); !errors.Is(err, ErrConstraint) {
		t.Errorf("two constraints: err = %v, want ErrConstraint", err)
	}

	// Wrong kind
	in = lecture()
	in.Constraints[0].Kind = "ge"
	if _, err := NewProblem(in); !errors.Is(err, ErrConstraint) {
		t.Errorf("kind ge: err = %v, want ErrConstraint", err)
	}
}

func TestNewProblemVectorLengthError(t *testing.T) {
	in := lecture()
	in.Weights = in.Weights[:5]
	if _, err := NewProblem(in); !errors.Is(err, ErrVectorLength) {
		t.Errorf("err = %v, want ErrVectorLength", err)
	}
}

func TestNewProblemNameDefaults(t *testing.T) {
	// A mismatched name vector is not an error; names fall back to x1..xn.
	in := lecture()
	in.Names = []string{"gold", "silver"}
	p, err := NewProblem(in)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	if p.Items[0].Name != "x1" || p.Items[5].Name != "x6" {
		t.Errorf("names = %v, want defaults", p.Names())
	}

	// A matching vector is used as-is, empty entries still defaulted.
	in.Names = []string{"gold", "", "copper", "tin", "iron", "lead"}
	p, err = NewProblem(in)
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	if p.Items[0].Name != "gold" {
		t.Errorf("item 0 name = %q, want gold", p.Items[0].Name)
	}
	if p.Items[1].Name != "x2" {
		t.Errorf("item 1 name = %q, want x2", p.Items[1].Name)
	}
}

func TestItemRatio(t *testing.T) {
	tests := []struct {
		name   string
		profit float64
		weight float64
		want   float64
	}{
		{"regular", 3, 6, 0.5},
		{"weightless profitable", 4, 0, math.Inf(1)},
		{"weightless worthless", 0, 0, 0},
		{"zero profit", 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Item{Profit: tt.profit, Weight: tt.weight}
			if got := it.Ratio(); got != tt.want {
				t.Errorf("Ratio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatRatio(t *testing.T) {
	if got := FormatRatio(2.0 / 3.0); got != "0.667" {
		t.Errorf("FormatRatio(2/3) = %q, want %q", got, "0.667")
	}
	if got := FormatRatio(math.Inf(1)); got != "inf" {
		t.Errorf("FormatRatio(+Inf) = %q, want %q", got, "inf")
	}
	if got := FormatRatio(0); got != "0.000" {
		t.Errorf("FormatRatio(0) = %q, want %q", got, "0.000")
	}
}

func TestProblemInputRoundTrip(t *testing.T) {
	p, err := NewProblem(lecture())
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	back, err := NewProblem(p.Input())
	if err != nil {
		t.Fatalf("NewProblem(p.Input()): %v", err)
	}
	if len(back.Items) != len(p.Items) || back.Capacity != p.Capacity {
		t.Fatalf("round trip changed the problem")
	}
	for i := range p.Items {
		if back.Items[i] != p.Items[i] {
			t.Errorf("item %d = %+v, want %+v", i, back.Items[i], p.Items[i])
		}
	}
}
