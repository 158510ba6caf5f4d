// Package pipeline provides the core solve pipeline for knaptrace.
//
// This package implements the complete load → solve → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate the problem from a file or inline document
//  2. Solve: Run the branch-and-bound search and build the report
//  3. Render: Generate output in various formats (text, JSON, DOT, SVG, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
// The solve and render stages are cached; the solve cache stores the full
// report, so a cache hit reproduces the identical trace and report ID.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "problem.toml",
//	    Formats: []string{"text"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trace := result.Artifacts["text"]
//
// Run individual stages:
//
//	// Load only
//	p, err := pipeline.Load(opts)
//
//	// Solve with an existing problem
//	rep, err := runner.Solve(ctx, p, opts)
//
//	// Render with an existing report
//	artifacts, err := runner.Render(ctx, rep, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/knaptrace/knaptrace/pkg/cache"
	"github.com/knaptrace/knaptrace/pkg/knapsack"
	"github.com/knaptrace/knaptrace/pkg/report"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPNGScale is the raster scale for PNG output. 2x keeps node
	// labels readable on high-DPI displays.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// DefaultFormat is the default output format.
const DefaultFormat = FormatText

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the solve pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Input   string `json:"input,omitempty"`   // problem file path, "-" for stdin
	Problem string `json:"problem,omitempty"` // inline problem document (TOML or JSON)
	Title   string `json:"title,omitempty"`   // overrides the problem title

	// Solve options
	MaxNodes int  `json:"max_nodes,omitempty"` // 0 = unlimited
	MaxDepth int  `json:"max_depth,omitempty"` // 0 = unlimited
	Refresh  bool `json:"refresh,omitempty"`   // bypass the solve cache

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // detailed node boxes in diagrams
	PNGScale float64  `json:"png_scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Problem is the loaded and validated problem.
	Problem *knapsack.Problem

	// ProblemHash is the content hash of the problem.
	ProblemHash string

	// Report is the solve report, from the search or from cache.
	Report *report.Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items        int
	NodesVisited int
	LoadTime     time.Duration
	SolveTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SolveHit  bool // Whether the solve report came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: text, json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading the problem.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" && o.Problem == "" {
		return fmt.Errorf("input or problem is required")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// ValidateForSolve checks solve options. Zero caps mean an unlimited
// search, which is the default.
func (o *Options) ValidateForSolve() error {
	if o.MaxNodes < 0 {
		return fmt.Errorf("max_nodes must be >= 0, got %d", o.MaxNodes)
	}
	if o.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be >= 0, got %d", o.MaxDepth)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// NeedsDiagram returns true if any requested format is drawn from the
// DOT search tree rather than the plain report.
func (o *Options) NeedsDiagram() bool {
	for _, f := range o.Formats {
		switch f {
		case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
			return true
		}
	}
	return false
}

// SolveKeyOpts returns cache key options for the solve stage.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	return cache.SolveKeyOpts{
		MaxNodes: o.MaxNodes,
		MaxDepth: o.MaxDepth,
	}
}

// RenderKeyOpts returns cache key options for one rendered format.
func (o *Options) RenderKeyOpts(format string) cache.RenderKeyOpts {
	opts := cache.RenderKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
	if format == FormatPNG {
		opts.Scale = o.PNGScale
	}
	return opts
}
