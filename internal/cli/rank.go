package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/knaptrace/knaptrace/pkg/knapsack"
	"github.com/knaptrace/knaptrace/pkg/problem"
)

// rankCommand creates the rank command for inspecting the ratio ranking.
func (c *CLI) rankCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rank [problem.toml]",
		Short: "Print the ratio ranking table and the root bound",
		Long: `Print the profit/weight ranking table that opens every trace.

Items are listed in input order with their density ratio and rank. The
greedy relaxation fills the knapsack in rank order, so the table explains
where every bound in the trace comes from. The root bound shown below the
table is the relaxation value with nothing fixed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRank(args[0])
		},
	}
}

// runRank loads the problem and prints its ranking table.
func (c *CLI) runRank(input string) error {
	p, err := problem.Load(input)
	if err != nil {
		return err
	}

	ranking := knapsack.Rank(p)
	order := knapsack.NewRatioOrder(p)
	root := knapsack.Evaluate(p, order, knapsack.NewAssignment(len(p.Items)))

	title := p.Title
	if title == "" {
		title = filepath.Base(input)
	}

	fmt.Println(StyleTitle.Render("Ranking: " + title))
	fmt.Println(rankTable(p, ranking))
	printKeyValue("Capacity", fmt.Sprintf("%.3f", ranking.Capacity))
	printKeyValue("Root bound", fmt.Sprintf("%.3f", root.Bound))
	return nil
}

// rankRows builds the display rows of the ranking table in input order.
func rankRows(p *knapsack.Problem, ranking knapsack.Ranking) [][]string {
	rows := make([][]string, len(ranking.Rows))
	for i, row := range ranking.Rows {
		rows[i] = []string{
			row.Name,
			fmt.Sprintf("%.3f", p.Items[row.Index].Profit),
			fmt.Sprintf("%.3f", row.Weight),
			knapsack.FormatRatio(row.Ratio),
			strconv.Itoa(row.Rank),
		}
	}
	return rows
}

// rankTable renders the ranking as a bordered table. The top-ranked row
// is highlighted since it is where the greedy fill starts.
func rankTable(p *knapsack.Problem, ranking knapsack.Ranking) string {
	rows := rankRows(p, ranking)
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Item", "Profit", "Weight", "Ratio", "Rank").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(ranking.Rows) && ranking.Rows[row].Rank == 1 {
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}
