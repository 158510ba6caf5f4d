package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/knaptrace/knaptrace/pkg/knapsack"
	"github.com/knaptrace/knaptrace/pkg/report"
)

// List styles
var (
	listNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// nodeBrowser - Interactive trace exploration
// =============================================================================

// nodeBrowser is the bubbletea model for walking a solve report node by
// node. The list view shows the visit order; the detail view shows one
// node's bound, fixing decisions, and greedy plan.
type nodeBrowser struct {
	rep    *report.Report
	names  []string
	cursor int
	offset int
	height int
	detail bool
}

// newNodeBrowser creates the browser model for a report.
func newNodeBrowser(rep *report.Report) nodeBrowser {
	names := make([]string, len(rep.Problem.Profits))
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i+1)
	}
	if p, err := knapsack.NewProblem(rep.Problem); err == nil {
		names = p.Names()
	}
	return nodeBrowser{rep: rep, names: names, height: 15}
}

func (m nodeBrowser) Init() tea.Cmd {
	return nil
}

func (m nodeBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.detail {
				m.detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rep.Nodes)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.detail = !m.detail
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m nodeBrowser) View() string {
	if m.detail {
		return m.detailView()
	}
	return m.listView()
}

// listView renders the scrolling node table.
func (m nodeBrowser) listView() string {
	var b strings.Builder

	title := m.rep.Title
	if title == "" {
		title = m.rep.ID
	}
	b.WriteString(StyleTitle.Render("Search Trace: " + title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ inspect  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rep.Nodes) {
		end = len(m.rep.Nodes)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		n := m.rep.Nodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		branch := n.Header
		if branch == "" {
			branch = "root"
		}
		rows = append(rows, []string{
			cursor,
			n.Label,
			branch,
			fmt.Sprintf("%.3f", n.Bound),
			fmt.Sprintf("%.3f", n.ValueFixed),
			fmt.Sprintf("%.3f", n.WeightFixed),
			m.nodeStatus(n),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Branch", "Bound", "Value", "Weight", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.offset + row
			if actualIdx >= len(m.rep.Nodes) {
				return lipgloss.NewStyle()
			}
			n := m.rep.Nodes[actualIdx]

			base := lipgloss.NewStyle()
			if actualIdx == m.cursor {
				base = base.Bold(true)
			}
			switch {
			case n.Infeasible:
				return base.Foreground(colorDim)
			case m.isBest(n):
				return base.Foreground(colorGreen)
			case n.Pivot == knapsack.NoPivot:
				return base.Foreground(colorYellow)
			}
			if actualIdx == m.cursor {
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rep.Nodes))))

	return b.String()
}

// detailView renders one node's full evaluation.
func (m nodeBrowser) detailView() string {
	n := m.rep.Nodes[m.cursor]
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Node " + n.Label))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ switch node  esc back  q quit"))
	b.WriteString("\n\n")

	branch := n.Header
	if branch == "" {
		branch = "root"
	}
	b.WriteString(detailRow("Branch", branch))
	b.WriteString(detailRow("Depth", strconv.Itoa(n.Depth)))
	b.WriteString(detailRow("Status", m.nodeStatus(n)))
	b.WriteString(detailRow("Bound", fmt.Sprintf("%.3f", n.Bound)))
	b.WriteString(detailRow("Value fixed", fmt.Sprintf("%.3f", n.ValueFixed)))
	b.WriteString(detailRow("Weight fixed", fmt.Sprintf("%.3f", n.WeightFixed)))
	b.WriteString(detailRow("Fixed", formatFix(m.names, n.Fix)))

	if len(n.Plan) > 0 && !n.Infeasible {
		b.WriteString("\n")
		b.WriteString(listNormalStyle.Render("Greedy plan"))
		b.WriteString("\n")
		b.WriteString(m.planTable(n))
		b.WriteString("\n")
	}

	if m.isBest(n) && m.rep.Best != nil {
		b.WriteString("\n")
		b.WriteString(StyleSuccess.Render(fmt.Sprintf("Best solution: value %.3f, weight %.3f, take %s",
			m.rep.Best.Value, m.rep.Best.Weight, strings.Join(m.rep.Best.Names, ", "))))
		b.WriteString("\n")
	}

	return b.String()
}

// planTable renders the greedy fill decisions of a node in input order.
func (m nodeBrowser) planTable(n report.Node) string {
	rows := make([][]string, 0, len(n.Plan))
	for _, e := range n.Plan {
		name := fmt.Sprintf("x%d", e.Index+1)
		if e.Index >= 0 && e.Index < len(m.names) {
			name = m.names[e.Index]
		}
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%.3f", e.Take),
			fmt.Sprintf("%.3f", e.Residual),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Item", "Take", "Residual").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(n.Plan) {
				take := n.Plan[row].Take
				if take > 0 && take < 1 {
					// the fractional pivot take
					return lipgloss.NewStyle().Foreground(colorYellow)
				}
			}
			return listNormalStyle
		}).
		Render()
}

// detailRow formats one key-value line of the detail view.
func detailRow(key, value string) string {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	return keyStyle.Render(key) + " " + StyleValue.Render(value) + "\n"
}

// isBest reports whether n produced the report's best solution.
func (m nodeBrowser) isBest(n report.Node) bool {
	return m.rep.Best != nil && m.rep.Best.Label == n.Label
}

// nodeStatus classifies a node for display.
func (m nodeBrowser) nodeStatus(n report.Node) string {
	switch {
	case n.Infeasible:
		return "infeasible"
	case m.isBest(n):
		return "best"
	case n.Pivot == knapsack.NoPivot:
		return "leaf"
	default:
		if n.Pivot >= 0 && n.Pivot < len(m.names) {
			return "branch " + m.names[n.Pivot]
		}
		return "branch"
	}
}

// formatFix renders the fixed decisions of a node, e.g. "x1 = 0, x2 = 1".
// Fix values follow the report wire form: 0 unknown, 1 zero, 2 one.
func formatFix(names []string, fix []int) string {
	var parts []string
	for i, f := range fix {
		if i >= len(names) {
			break
		}
		switch f {
		case 1:
			parts = append(parts, names[i]+" = 0")
		case 2:
			parts = append(parts, names[i]+" = 1")
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, ", ")
}
