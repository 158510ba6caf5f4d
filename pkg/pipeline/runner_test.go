package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/knaptrace/knaptrace/pkg/cache"
	"github.com/knaptrace/knaptrace/pkg/knapsack"
	"github.com/knaptrace/knaptrace/pkg/observability"
	"github.com/knaptrace/knaptrace/pkg/report"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil {
		t.Error("Cache should default to NullCache")
	}
	if r.Keyer == nil {
		t.Error("Keyer should default to DefaultKeyer")
	}
	if r.Logger == nil {
		t.Error("Logger should have a default")
	}
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, testLogger())
	defer r.Close()

	result, err := r.Execute(context.Background(), Options{
		Problem: demoTOML,
		Formats: []string{FormatText, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Report == nil {
		t.Fatal("Execute returned no report")
	}
	if result.Stats.Items != 2 {
		t.Errorf("Items = %d, want 2", result.Stats.Items)
	}
	if result.Stats.NodesVisited != 5 {
		t.Errorf("NodesVisited = %d, want 5", result.Stats.NodesVisited)
	}
	if result.ProblemHash == "" {
		t.Error("ProblemHash should be set")
	}
	if result.CacheInfo.SolveHit || result.CacheInfo.RenderHit {
		t.Error("NullCache run should not report cache hits")
	}

	trace := string(result.Artifacts[FormatText])
	if !strings.Contains(trace, "best solution") {
		t.Errorf("text artifact missing summary:\n%s", trace)
	}
	if trace != result.Report.Trace {
		t.Error("text artifact should be the report trace")
	}

	rep, err := report.ReadJSON(strings.NewReader(string(result.Artifacts[FormatJSON])))
	if err != nil {
		t.Fatalf("json artifact does not decode: %v", err)
	}
	if rep.ID != result.Report.ID {
		t.Errorf("json artifact ID = %q, want %q", rep.ID, result.Report.ID)
	}
}

func TestRunnerExecuteCached(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, testLogger())
	defer r.Close()

	opts := Options{Problem: demoTOML, Formats: []string{FormatText}}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.SolveHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.SolveHit {
		t.Error("second run should hit the solve cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the render cache")
	}

	// The cached payload is the full report, ID included.
	if second.Report.ID != first.Report.ID {
		t.Errorf("cached report ID = %q, want %q", second.Report.ID, first.Report.ID)
	}
	if string(second.Artifacts[FormatText]) != string(first.Artifacts[FormatText]) {
		t.Error("cached trace differs from the original")
	}
}

func TestRunnerExecuteRefresh(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, testLogger())
	defer r.Close()

	first, err := r.Execute(context.Background(), Options{Problem: demoTOML})
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	refreshed, err := r.Execute(context.Background(), Options{Problem: demoTOML, Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if refreshed.CacheInfo.SolveHit {
		t.Error("refresh run should bypass the solve cache")
	}
	if refreshed.Report.ID == first.Report.ID {
		t.Error("refresh run should produce a fresh report")
	}

	// The refreshed report replaces the cached one.
	third, err := r.Execute(context.Background(), Options{Problem: demoTOML})
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if !third.CacheInfo.SolveHit {
		t.Error("run after refresh should hit the cache again")
	}
	if third.Report.ID != refreshed.Report.ID {
		t.Errorf("cache should hold the refreshed report, got %q want %q",
			third.Report.ID, refreshed.Report.ID)
	}
}

func TestRunnerSolveCapped(t *testing.T) {
	r := NewRunner(nil, nil, testLogger())
	defer r.Close()

	p, err := Load(Options{Problem: demoTOML})
	if err != nil {
		t.Fatal(err)
	}

	rep, hit, err := r.SolveWithCacheInfo(context.Background(), p, Options{MaxNodes: 2})
	if !errors.Is(err, knapsack.ErrNodeLimit) {
		t.Fatalf("error = %v, want ErrNodeLimit", err)
	}
	if hit {
		t.Error("capped solve should not be a cache hit")
	}
	if rep == nil {
		t.Fatal("capped solve should return a partial report")
	}
	if len(rep.Nodes) != 2 {
		t.Errorf("partial report has %d nodes, want 2", len(rep.Nodes))
	}
}

func TestRunnerSolveCappedNotCached(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, testLogger())
	defer r.Close()

	p, err := Load(Options{Problem: demoTOML})
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{MaxNodes: 2}
	if _, _, err := r.SolveWithCacheInfo(context.Background(), p, opts); !errors.Is(err, knapsack.ErrNodeLimit) {
		t.Fatalf("error = %v, want ErrNodeLimit", err)
	}

	_, hit, err := r.SolveWithCacheInfo(context.Background(), p, opts)
	if !errors.Is(err, knapsack.ErrNodeLimit) {
		t.Fatalf("second error = %v, want ErrNodeLimit", err)
	}
	if hit {
		t.Error("partial reports must never come from cache")
	}
}

func TestRenderFormats(t *testing.T) {
	r := NewRunner(nil, nil, testLogger())
	defer r.Close()

	p, err := Load(Options{Problem: demoTOML})
	if err != nil {
		t.Fatal(err)
	}
	rep, err := r.Solve(context.Background(), p, Options{})
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Formats: []string{FormatText, FormatJSON, FormatDOT}}
	opts.SetRenderDefaults()

	artifacts, err := RenderFormats(rep, opts)
	if err != nil {
		t.Fatalf("RenderFormats: %v", err)
	}
	if len(artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(artifacts))
	}
	if !strings.HasPrefix(string(artifacts[FormatDOT]), "digraph search {") {
		t.Errorf("dot artifact is not a digraph:\n%s", artifacts[FormatDOT])
	}
	if !strings.Contains(string(artifacts[FormatDOT]), `"p2.2"`) {
		t.Errorf("dot artifact missing the winning leaf:\n%s", artifacts[FormatDOT])
	}
}

func TestRenderFormatsUnknown(t *testing.T) {
	rep := &report.Report{}
	if _, err := RenderFormats(rep, Options{Formats: []string{"bmp"}}); err == nil {
		t.Error("unknown format should fail")
	}
}

// recordingSolverHooks counts solver events. The pipeline is
// single-threaded, so plain fields are fine.
type recordingSolverHooks struct {
	observability.NoopSolverHooks
	starts, visited, bests, completes int
	bestValue                         float64
}

func (h *recordingSolverHooks) OnSolveStart(ctx context.Context, title string, items int) {
	h.starts++
}

func (h *recordingSolverHooks) OnNodeVisited(ctx context.Context, label string, depth int, infeasible bool) {
	h.visited++
}

func (h *recordingSolverHooks) OnBestFound(ctx context.Context, label string, value float64) {
	h.bests++
	h.bestValue = value
}

func (h *recordingSolverHooks) OnSolveComplete(ctx context.Context, title string, nodes int, duration time.Duration, err error) {
	h.completes++
}

func TestSolveEmitsSolverHooks(t *testing.T) {
	hooks := &recordingSolverHooks{}
	observability.SetSolverHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, testLogger())
	defer r.Close()

	p, err := Load(Options{Problem: demoTOML})
	if err != nil {
		t.Fatal(err)
	}
	rep, err := r.Solve(context.Background(), p, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if hooks.starts != 1 || hooks.completes != 1 {
		t.Errorf("starts = %d, completes = %d, want 1 each", hooks.starts, hooks.completes)
	}
	if hooks.visited != rep.Stats.NodesVisited {
		t.Errorf("visited = %d, want %d", hooks.visited, rep.Stats.NodesVisited)
	}
	if hooks.bests != rep.Stats.BestUpdates {
		t.Errorf("bests = %d, want %d", hooks.bests, rep.Stats.BestUpdates)
	}
	if hooks.bestValue != rep.Best.Value {
		t.Errorf("last best value = %.3f, want %.3f", hooks.bestValue, rep.Best.Value)
	}
}

type recordingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *recordingCacheHooks) OnCacheHit(ctx context.Context, keyType string)       { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(ctx context.Context, keyType string)      { h.misses++ }
func (h *recordingCacheHooks) OnCacheSet(ctx context.Context, keyType string, n int) { h.sets++ }

func TestExecuteEmitsCacheHooks(t *testing.T) {
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, testLogger())
	defer r.Close()

	opts := Options{Problem: demoTOML}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if hooks.misses != 2 || hooks.sets != 2 {
		t.Errorf("first run: misses = %d, sets = %d, want 2 each", hooks.misses, hooks.sets)
	}

	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if hooks.hits != 2 {
		t.Errorf("second run: hits = %d, want 2", hooks.hits)
	}
}
