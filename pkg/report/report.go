// Package report captures a finished solve as a portable JSON document.
//
// A report records everything a reader needs to revisit a search: the
// problem as loaded, the ranking table, every visited node, the best
// solution, and the rendered trace. Reports round-trip through
// [WriteJSON] and [ReadJSON] and are what the HTTP server stores and
// serves.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/knaptrace/knaptrace/pkg/knapsack"
)

// Report is the serialized outcome of one solve.
type Report struct {
	ID        string         `json:"id"`
	Title     string         `json:"title,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Problem   knapsack.Input `json:"problem"`
	Ranking   []RankRow      `json:"ranking"`
	RootBound float64        `json:"root_bound"`
	Nodes     []Node         `json:"nodes"`
	Best      *Solution      `json:"best,omitempty"`
	Stats     Stats          `json:"stats"`
	Trace     string         `json:"trace,omitempty"`
}

// RankRow is one line of the ranking table. Ratio is stored in display
// form ("inf" for weightless profitable items) because JSON has no
// encoding for infinity.
type RankRow struct {
	Name   string  `json:"name"`
	Ratio  string  `json:"ratio"`
	Rank   int     `json:"rank"`
	Weight float64 `json:"weight"`
}

// Node is one visited search node. Fix holds the per-item branching state
// by original index: 0 unknown, 1 fixed at zero, 2 fixed at one.
type Node struct {
	Label       string               `json:"label"`
	Header      string               `json:"header,omitempty"`
	Depth       int                  `json:"depth"`
	Bound       float64              `json:"bound"`
	ValueFixed  float64              `json:"value_fixed"`
	WeightFixed float64              `json:"weight_fixed"`
	Pivot       int                  `json:"pivot"`
	Infeasible  bool                 `json:"infeasible,omitempty"`
	Fix         []int                `json:"fix"`
	Plan        []knapsack.PlanEntry `json:"plan,omitempty"`
}

// Solution mirrors [knapsack.Solution] with stable JSON keys.
type Solution struct {
	Value    float64  `json:"value"`
	Weight   float64  `json:"weight"`
	Selected []bool   `json:"selected"`
	Names    []string `json:"names"`
	Label    string   `json:"label,omitempty"`
}

// Stats mirrors [knapsack.Stats]; the duration is flattened to
// milliseconds.
type Stats struct {
	NodesVisited    int     `json:"nodes_visited"`
	Leaves          int     `json:"leaves"`
	InfeasibleNodes int     `json:"infeasible_nodes"`
	BestUpdates     int     `json:"best_updates"`
	MaxDepth        int     `json:"max_depth"`
	DurationMS      float64 `json:"duration_ms"`
}

// New builds a report from a solve result and its rendered trace. Each
// report gets a fresh random ID and a UTC creation timestamp.
func New(res *knapsack.Result, trace string) *Report {
	r := &Report{
		ID:        uuid.NewString(),
		Title:     res.Problem.Title,
		CreatedAt: time.Now().UTC(),
		Problem:   res.Problem.Input(),
		RootBound: res.RootBound,
		Trace:     trace,
		Stats: Stats{
			NodesVisited:    res.Stats.NodesVisited,
			Leaves:          res.Stats.Leaves,
			InfeasibleNodes: res.Stats.InfeasibleNodes,
			BestUpdates:     res.Stats.BestUpdates,
			MaxDepth:        res.Stats.MaxDepth,
			DurationMS:      float64(res.Stats.Duration) / float64(time.Millisecond),
		},
	}

	r.Ranking = make([]RankRow, len(res.Ranking.Rows))
	for i, row := range res.Ranking.Rows {
		r.Ranking[i] = RankRow{
			Name:   row.Name,
			Ratio:  knapsack.FormatRatio(row.Ratio),
			Rank:   row.Rank,
			Weight: row.Weight,
		}
	}

	r.Nodes = make([]Node, len(res.Nodes))
	for i, n := range res.Nodes {
		fix := make([]int, len(n.Fix))
		for j, f := range n.Fix {
			fix[j] = int(f)
		}
		r.Nodes[i] = Node{
			Label:       n.Label(),
			Header:      n.Header,
			Depth:       n.Depth(),
			Bound:       n.Bound,
			ValueFixed:  n.ValueFixed,
			WeightFixed: n.WeightFixed,
			Pivot:       n.Pivot,
			Infeasible:  n.Infeasible,
			Fix:         fix,
			Plan:        n.Plan,
		}
	}

	if res.Best != nil {
		r.Best = &Solution{
			Value:    res.Best.Value,
			Weight:   res.Best.Weight,
			Selected: res.Best.Selected,
			Names:    res.Best.Names,
			Label:    res.Best.Label,
		}
	}
	return r
}

// Validate checks the structural invariants an imported report must hold:
// a non-empty ID and a problem that still passes input validation.
func (r *Report) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("report has no id")
	}
	if _, err := knapsack.NewProblem(r.Problem); err != nil {
		return fmt.Errorf("report %s: %w", r.ID, err)
	}
	return nil
}

// WriteJSON encodes the report as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a report from r and validates it. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := rep.Validate(); err != nil {
		return nil, err
	}
	return &rep, nil
}

// ExportJSON writes the report to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(r, f)
}

// ImportJSON reads a JSON report file at path.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. Open failures are wrapped with the path; decode and validation
// errors are returned as [ReadJSON] produces them.
func ImportJSON(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
