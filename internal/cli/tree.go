package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knaptrace/knaptrace/pkg/pipeline"
	"github.com/knaptrace/knaptrace/pkg/report"
)

// diagramFormats is the set of formats drawn from the DOT search tree.
var diagramFormats = map[string]bool{
	pipeline.FormatDOT: true,
	pipeline.FormatSVG: true,
	pipeline.FormatPNG: true,
	pipeline.FormatPDF: true,
}

// validateDiagramFormats checks that all requested formats are diagrams.
func validateDiagramFormats(formats []string) error {
	for _, f := range formats {
		if !diagramFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', 'png', or 'pdf')", f)
		}
	}
	return nil
}

// treeCommand creates the tree command for drawing the search tree.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{PNGScale: pipeline.DefaultPNGScale}

	cmd := &cobra.Command{
		Use:   "tree [problem.toml|report.json]",
		Short: "Draw the search tree from a problem or a saved report",
		Long: `Draw the branch-and-bound search tree as a diagram.

The input is either a problem file, which is solved first (cached), or a
report JSON written by 'solve -f json', which is rendered directly
without solving. Infeasible nodes are dashed, integral leaves yellow,
and the winning leaf green.`,
		Example: `  # Solve and draw: problem.svg
  knaptrace tree problem.toml

  # Re-render a saved report without solving
  knaptrace tree report.json -f dot,png

  # Per-node value and weight annotations
  knaptrace tree problem.toml --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr, pipeline.FormatSVG)
			if err := validateDiagramFormats(opts.Formats); err != nil {
				return err
			}
			if err := checkConvertTool(opts.Formats); err != nil {
				return err
			}
			return c.runTree(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show per-node value and weight")
	cmd.Flags().Float64Var(&opts.PNGScale, "png-scale", opts.PNGScale, "raster scale for png output")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "search again even when the result is cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runTree obtains the report for input and renders the requested diagrams.
func (c *CLI) runTree(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	restore := installSolveLogging(c.Logger, nil)
	defer restore()

	rep, _, err := c.loadReport(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Drawing search tree...")
	spinner.Start()

	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, rep, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		doneMsg:   "Tree rendered",
		rep:       rep,
		cacheHit:  renderHit,
		nextDesc:  "Explore the nodes",
		nextCmd:   "knaptrace explore " + input,
	})
}

// loadReport returns the report for input. A saved report JSON is loaded
// directly; anything else is treated as a problem file and solved through
// the cached pipeline. The bool reports whether the solve hit the cache.
func (c *CLI) loadReport(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options) (*report.Report, bool, error) {
	if strings.EqualFold(filepath.Ext(input), ".json") {
		if rep, err := readReportFile(input); err == nil {
			return rep, false, nil
		}
		// Not a report; treat it as a problem document below.
	}

	opts.Input = input
	p, err := pipeline.Load(opts)
	if err != nil {
		return nil, false, err
	}
	return runner.SolveWithCacheInfo(ctx, p, opts)
}

// readReportFile reads a report JSON file.
func readReportFile(path string) (*report.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return report.ReadJSON(f)
}
