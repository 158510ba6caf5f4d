package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/knaptrace/knaptrace/pkg/cache"
	"github.com/knaptrace/knaptrace/pkg/knapsack"
	"github.com/knaptrace/knaptrace/pkg/observability"
	"github.com/knaptrace/knaptrace/pkg/report"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → solve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	p, err := Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Problem = p
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Items = len(p.Items)

	// Compute problem hash for cache keys and API responses
	if probData, err := json.Marshal(p.Input()); err == nil {
		result.ProblemHash = cache.Hash(probData)
	}

	r.Logger.Info("loaded problem",
		"title", p.Title,
		"items", len(p.Items),
		"capacity", p.Capacity)

	// Stage 2: Solve
	solveStart := time.Now()
	rep, solveHit, err := r.SolveWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Report = rep
	result.Stats.SolveTime = time.Since(solveStart)
	result.Stats.NodesVisited = rep.Stats.NodesVisited
	result.CacheInfo.SolveHit = solveHit

	r.Logger.Info("solved problem",
		"nodes", rep.Stats.NodesVisited,
		"leaves", rep.Stats.Leaves,
		"duration", result.Stats.SolveTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, rep, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SolveWithCacheInfo runs the search with caching and returns cache hit info.
//
// The cached payload is the full report, so a hit reproduces the
// identical trace and report ID. A capped search ([knapsack.ErrNodeLimit]
// or [knapsack.ErrDepthLimit]) returns the partial report together with
// the error and is never cached.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, p *knapsack.Problem, opts Options) (*report.Report, bool, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the canonical problem form
	probData, err := json.Marshal(p.Input())
	if err != nil {
		return nil, false, fmt.Errorf("serialize problem for cache key: %w", err)
	}
	cacheKey := r.Keyer.SolveKey(cache.Hash(probData), opts.SolveKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			rep, err := report.ReadJSON(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "solve")
				return rep, true, nil // Cache hit
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "solve")

	// Solve
	rep, err := runSolve(ctx, p, opts)
	if err != nil {
		if errors.Is(err, knapsack.ErrNodeLimit) || errors.Is(err, knapsack.ErrDepthLimit) {
			return rep, false, err
		}
		return nil, false, err
	}

	// Cache the result
	var buf bytes.Buffer
	if err := report.WriteJSON(rep, &buf); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLSolve); err == nil {
			observability.Cache().OnCacheSet(ctx, "solve", buf.Len())
		}
	}

	return rep, false, nil // Cache miss
}

// Solve is a convenience wrapper that calls SolveWithCacheInfo and discards the cache hit info.
func (r *Runner) Solve(ctx context.Context, p *knapsack.Problem, opts Options) (*report.Report, error) {
	rep, _, err := r.SolveWithCacheInfo(ctx, p, opts)
	return rep, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, rep *report.Report, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the report data
	var buf bytes.Buffer
	if err := report.WriteJSON(rep, &buf); err != nil {
		return nil, false, fmt.Errorf("serialize report for cache key: %w", err)
	}
	solveHash := cache.Hash(buf.Bytes())

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.RenderKey(solveHash, opts.RenderKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "render")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	// Render all formats
	rendered, err := RenderFormats(rep, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.RenderKey(solveHash, opts.RenderKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLRender); err == nil {
			observability.Cache().OnCacheSet(ctx, "render", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, rep *report.Report, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, rep, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
