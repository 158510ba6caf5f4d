package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/knaptrace/knaptrace/pkg/pipeline"
)

// solveCommand creates the solve command, the core of the CLI.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{PNGScale: pipeline.DefaultPNGScale}

	cmd := &cobra.Command{
		Use:   "solve [problem.toml]",
		Short: "Run the branch-and-bound search and write the trace",
		Long: `Run the exhaustive branch-and-bound search and write the trace.

The search visits every node of the branching tree in label order and
records the ranking table, the greedy relaxation bound, and the fixing
decision at each node. No branch is ever pruned by its bound, so the
trace is complete.

A single text trace goes to stdout by default, keeping it pipeable.
With --output or multiple formats, artifacts are written to files named
after the output (or input) base path.

Results are cached locally, so re-running an unchanged problem returns
the identical trace without searching again.`,
		Example: `  # Trace to stdout
  knaptrace solve problem.toml

  # Trace and report files: problem.txt, problem.json
  knaptrace solve problem.toml -f text,json

  # Search tree diagram alongside the trace
  knaptrace solve problem.toml -f text,svg -o run/demo

  # Bound a large search
  knaptrace solve big.toml --max-nodes 100000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			opts.Formats = parseFormats(formatsStr, pipeline.FormatText)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := checkConvertTool(opts.Formats); err != nil {
				return err
			}
			return c.runSolve(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): text (default), json, dot, svg, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "override the problem title")
	cmd.Flags().IntVar(&opts.MaxNodes, "max-nodes", 0, "stop after visiting this many nodes (0 = unlimited)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "do not branch deeper than this (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "search again even when the result is cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "detailed node boxes in diagram formats")
	cmd.Flags().Float64Var(&opts.PNGScale, "png-scale", opts.PNGScale, "raster scale for png output")

	return cmd
}

// runSolve loads the problem, runs the cached search, renders the
// requested formats, and writes them out. A search stopped by a node or
// depth cap still writes its partial trace.
func (c *CLI) runSolve(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	p, err := pipeline.Load(opts)
	if err != nil {
		return err
	}

	name := p.Title
	if name == "" {
		name = filepath.Base(opts.Input)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", name))
	restore := installSolveLogging(c.Logger, func(status string) {
		spinner.SetMessage(fmt.Sprintf("Solving %s... %s", name, status))
	})
	defer restore()
	spinner.Start()

	rep, cacheHit, err := runner.SolveWithCacheInfo(ctx, p, opts)
	if err != nil && rep == nil {
		spinner.StopWithError("Solve failed")
		return fmt.Errorf("solve: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	capped := err != nil

	artifacts, err := runner.Render(ctx, rep, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	doneMsg := "Solve complete"
	if capped {
		doneMsg = "Search capped, partial trace written"
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		output:    output,
		doneMsg:   doneMsg,
		capped:    capped,
		rep:       rep,
		cacheHit:  cacheHit,
		nextDesc:  "Inspect the tree",
		nextCmd:   "knaptrace tree " + opts.Input,
	})
}
