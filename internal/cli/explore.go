package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/knaptrace/knaptrace/pkg/pipeline"
)

// exploreCommand creates the explore command, an interactive node browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "explore [problem.toml|report.json]",
		Short: "Browse the visited search nodes interactively",
		Long: `Browse the visited search nodes in an interactive terminal UI.

The input is either a problem file, which is solved first (cached), or a
report JSON written by 'solve -f json'. Nodes are listed in visit order;
selecting one shows its bound, fixing decisions, and greedy plan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], noCache, refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "search again even when the result is cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runExplore obtains the report and hands it to the node browser.
func (c *CLI) runExplore(ctx context.Context, input string, noCache, refresh bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Refresh: refresh, Logger: c.Logger}
	rep, _, err := c.loadReport(ctx, runner, input, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newNodeBrowser(rep), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
