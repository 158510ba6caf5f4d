package pipeline

import (
	"fmt"

	"github.com/knaptrace/knaptrace/pkg/knapsack"
	"github.com/knaptrace/knaptrace/pkg/problem"
)

// Load resolves the problem from options. Inline content takes priority
// over the input path; the path "-" reads stdin. The loaded title can be
// overridden with opts.Title, which also names API-submitted problems
// that carry no title of their own.
func Load(opts Options) (*knapsack.Problem, error) {
	var p *knapsack.Problem
	var err error

	switch {
	case opts.Problem != "":
		p, err = problem.Parse([]byte(opts.Problem))
	case opts.Input != "":
		p, err = problem.Load(opts.Input)
	default:
		return nil, fmt.Errorf("input or problem is required")
	}
	if err != nil {
		return nil, err
	}

	if opts.Title != "" {
		p.Title = opts.Title
	}
	return p, nil
}
