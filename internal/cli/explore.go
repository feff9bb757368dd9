package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dependents/pkg/dependents"
	"github.com/matzehuels/dependents/pkg/errors"
	pkgio "github.com/matzehuels/dependents/pkg/io"
	"github.com/matzehuels/dependents/pkg/render"
)

// exploreCommand creates the interactive report browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var exclude string

	cmd := &cobra.Command{
		Use:   "explore <file>",
		Short: "Browse a saved report interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := loadTree(args[0], dependents.ParseExclude(exclude))
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewTreeModel(report), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "run explorer")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&exclude, "exclude", "e", "", "comma-separated name substrings to hide")
	return cmd
}

// loadTree reads a saved report and hides excluded names at every level.
func loadTree(path string, exclude []string) (*dependents.Report, error) {
	report, err := pkgio.ImportJSON(path)
	if err != nil {
		return nil, err
	}
	report.Dependents = render.Prune(report.Dependents, render.Options{Exclude: exclude})
	return report, nil
}

// Tree styles
var (
	treeHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	treeNestedStyle   = lipgloss.NewStyle().Foreground(colorGray)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TreeModel - Interactive report browser
// =============================================================================

type treeItem struct {
	node  *dependents.Node
	rank  string
	depth int
}

// TreeModel is the bubbletea model for browsing a report tree. Nodes with
// children can be expanded and collapsed in place.
type TreeModel struct {
	Report *dependents.Report
	Cursor int
	Offset int
	Height int

	expanded map[string]bool
	items    []treeItem
}

// NewTreeModel creates a tree model with every node collapsed.
func NewTreeModel(r *dependents.Report) TreeModel {
	m := TreeModel{Report: r, Height: 15, expanded: map[string]bool{}}
	m.items = m.flatten()
	return m
}

func (m TreeModel) flatten() []treeItem {
	var items []treeItem
	var walk func(nodes []*dependents.Node, prefix string, depth int)
	walk = func(nodes []*dependents.Node, prefix string, depth int) {
		for i, n := range nodes {
			rank := prefix + strconv.Itoa(i+1)
			items = append(items, treeItem{node: n, rank: rank, depth: depth})
			if m.expanded[rank] {
				walk(n.Children, rank+".", depth+1)
			}
		}
	}
	walk(m.Report.Dependents, "", 0)
	return items
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "home", "g":
			m.move(-len(m.items))
		case "end", "G":
			m.move(len(m.items))
		case "enter", " ", "right", "l":
			m.toggle()
		case "left", "h":
			m.collapse()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.scroll()
	}
	return m, nil
}

func (m *TreeModel) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.items)-1)
	m.scroll()
}

func (m *TreeModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *TreeModel) toggle() {
	if len(m.items) == 0 {
		return
	}
	it := m.items[m.Cursor]
	if len(it.node.Children) == 0 {
		return
	}
	m.expanded[it.rank] = !m.expanded[it.rank]
	m.items = m.flatten()
}

// collapse closes the current node, or moves to its parent when it is
// already closed.
func (m *TreeModel) collapse() {
	if len(m.items) == 0 {
		return
	}
	it := m.items[m.Cursor]
	if m.expanded[it.rank] {
		m.expanded[it.rank] = false
		m.items = m.flatten()
		return
	}
	if i := strings.LastIndex(it.rank, "."); i >= 0 {
		parent := it.rank[:i]
		for j, other := range m.items {
			if other.rank == parent {
				m.Cursor = j
				m.scroll()
				return
			}
		}
	}
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(render.Title(m.Report)))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render("↑/↓ navigate  ⏎ expand/collapse  ← parent  q quit"))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(treeDimStyle.Render("  no dependents"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.items))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := "  "
		if len(it.node.Children) > 0 {
			marker = "+ "
			if m.expanded[it.rank] {
				marker = "- "
			}
		}
		name := strings.Repeat("  ", it.depth) + marker + it.node.Name
		if it.node.Dev {
			name += " (dev)"
		}
		rows = append(rows, []string{
			cursor,
			it.rank,
			name,
			it.node.Version,
			humanize.Comma(it.node.Downloads),
			render.FormatBytes(it.node.Traffic),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Package", "Range", "Downloads", "Traffic").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return treeHeaderStyle
			}
			idx := m.Offset + row
			if idx >= len(m.items) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return treeSelectedStyle
			case m.items[idx].depth > 0:
				return treeNestedStyle
			}
			return treeNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	sel := m.items[m.Cursor].node
	b.WriteString(treeDimStyle.Render(fmt.Sprintf("  [%d/%d]  ", m.Cursor+1, len(m.items))))
	b.WriteString(StyleLink.Render("https://www.npmjs.com/package/" + sel.Name))

	return b.String()
}
