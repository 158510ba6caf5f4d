package store

import (
	"context"
	"testing"
	"time"

	"github.com/knaptrace/knaptrace/pkg/knapsack"
	"github.com/knaptrace/knaptrace/pkg/report"
)

func testReport(t *testing.T, title string, createdAt time.Time) *report.Report {
	t.Helper()
	p, err := knapsack.NewProblem(knapsack.Input{
		Title:   title,
		Profits: []float64{2, 3},
		Weights: []float64{2, 3},
		Constraints: []knapsack.Constraint{
			{Kind: knapsack.ConstraintLE, Capacity: 4},
		},
	})
	if err != nil {
		t.Fatalf("NewProblem: %v", err)
	}
	res, err := knapsack.Solve(context.Background(), p)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	rep := report.New(res, "trace")
	rep.CreatedAt = createdAt
	return rep
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	// Absent report reads as nil, nil
	rep, err := s.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rep != nil {
		t.Error("Get(absent) should return nil report")
	}

	stored := testReport(t, "first", time.Now().UTC())
	if err := s.Put(ctx, stored); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.ID != stored.ID {
		t.Fatalf("Get = %+v, want report %s", got, stored.ID)
	}

	// Put with the same ID replaces
	replacement := testReport(t, "replaced", time.Now().UTC())
	replacement.ID = stored.ID
	if err := s.Put(ctx, replacement); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _ = s.Get(ctx, stored.ID)
	if got.Title != "replaced" {
		t.Errorf("Title after replace = %q, want %q", got.Title, "replaced")
	}

	// Delete, then absent again; deleting twice is fine
	if err := s.Delete(ctx, stored.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rep, _ := s.Get(ctx, stored.ID); rep != nil {
		t.Error("Get after Delete should return nil")
	}
	if err := s.Delete(ctx, stored.ID); err != nil {
		t.Errorf("Delete(absent) = %v, want nil", err)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	oldest := testReport(t, "oldest", base)
	middle := testReport(t, "middle", base.Add(time.Hour))
	newest := testReport(t, "newest", base.Add(2*time.Hour))
	for _, rep := range []*report.Report{middle, oldest, newest} {
		if err := s.Put(ctx, rep); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	summaries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("len(List) = %d, want 3", len(summaries))
	}
	wantOrder := []string{"newest", "middle", "oldest"}
	for i, want := range wantOrder {
		if summaries[i].Title != want {
			t.Errorf("List[%d].Title = %q, want %q", i, summaries[i].Title, want)
		}
	}

	// Summaries carry the headline numbers
	if summaries[0].NodesVisited == 0 {
		t.Error("Summary.NodesVisited should be set")
	}
	if summaries[0].BestValue == nil || *summaries[0].BestValue != 3 {
		t.Errorf("Summary.BestValue = %v, want 3", summaries[0].BestValue)
	}
}

func TestMongoDocRoundTrip(t *testing.T) {
	rep := testReport(t, "doc", time.Now().UTC())

	doc, err := toDoc(rep)
	if err != nil {
		t.Fatalf("toDoc: %v", err)
	}
	if doc.ID != rep.ID || doc.Title != "doc" {
		t.Errorf("doc = %+v, want id %s", doc, rep.ID)
	}
	if doc.BestValue == nil || *doc.BestValue != 3 {
		t.Errorf("doc.BestValue = %v, want 3", doc.BestValue)
	}
	if len(doc.Payload) == 0 {
		t.Fatal("doc.Payload is empty")
	}

	back, err := doc.toReport()
	if err != nil {
		t.Fatalf("toReport: %v", err)
	}
	if back.ID != rep.ID || back.Trace != rep.Trace {
		t.Errorf("round trip changed report: %+v", back)
	}
	if len(back.Nodes) != len(rep.Nodes) {
		t.Errorf("len(Nodes) = %d, want %d", len(back.Nodes), len(rep.Nodes))
	}
}

func TestMongoConfigDefaults(t *testing.T) {
	cfg := MongoConfig{URI: "mongodb://localhost:27017"}
	cfg.setDefaults()

	if cfg.Database != "knaptrace" {
		t.Errorf("Database = %q, want knaptrace", cfg.Database)
	}
	if cfg.Collection != "reports" {
		t.Errorf("Collection = %q, want reports", cfg.Collection)
	}
	if cfg.ConnectTimeout != 10*time.Second {
		t.Errorf("ConnectTimeout = %v, want 10s", cfg.ConnectTimeout)
	}

	// Explicit values survive
	cfg = MongoConfig{Database: "custom", Collection: "runs", ConnectTimeout: time.Second}
	cfg.setDefaults()
	if cfg.Database != "custom" || cfg.Collection != "runs" || cfg.ConnectTimeout != time.Second {
		t.Errorf("explicit config overwritten: %+v", cfg)
	}
}
