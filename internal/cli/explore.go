package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/pkg/graph"
	"github.com/matzehuels/jsongraph/pkg/jsongraph"
	"github.com/matzehuels/jsongraph/pkg/pipeline"
	"github.com/matzehuels/jsongraph/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listLabelStyle    = lipgloss.NewStyle().Foreground(colorGray)
)

// exploreCommand creates the explore command, an interactive tree browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var in inputOpts

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Browse a document's graph in the terminal",
		Long: `Browse a document's graph in the terminal.

The tree is shown in record order with one row per node record. Change the
depth with +/- to collapse or expand levels and see how the records change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.resolve(cmd, c)
			format, err := jsongraph.ParseFormat(in.input)
			if err != nil {
				return err
			}
			opts := pipeline.Options{Source: args[0], Format: format, Depth: tree.Depth(in.depth)}
			if err := opts.ValidateForBuild(); err != nil {
				return err
			}

			data, err := pipeline.ReadInput(cmd.Context(), opts)
			if err != nil {
				return err
			}
			b, err := jsongraph.FromBytes(data, opts.Format,
				jsongraph.WithIDs(tree.NewSequence()),
				jsongraph.WithLogger(c.Logger))
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewExploreModel(args[0], b, tree.Depth(in.depth)),
				tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&in.input, "input", "", "input format: json, yaml (default: by file extension)")
	cmd.Flags().IntVarP(&in.depth, "depth", "d", int(tree.Unlimited), "initial depth (-1 expands everything)")

	return cmd
}

// =============================================================================
// ExploreModel - Interactive tree browser
// =============================================================================

// ExploreModel is the bubbletea model behind the explore command.
type ExploreModel struct {
	Title    string
	Builder  *jsongraph.Builder
	Depth    tree.Depth
	MaxLevel int // depth at which everything is expanded

	Elements graph.Elements
	Cursor   int
	Height   int
	Offset   int

	incoming   map[string]string // node id -> label of the edge into it
	containers map[string]bool   // ids of nodes with children
}

// NewExploreModel lays out b at depth and positions the cursor on the root.
func NewExploreModel(title string, b *jsongraph.Builder, depth tree.Depth) ExploreModel {
	maxLevel := 0
	containers := make(map[string]bool)
	b.Root().Walk(func(n *tree.Node, level int) bool {
		maxLevel = max(maxLevel, level)
		if len(n.Children()) > 0 {
			containers[strconv.FormatInt(n.ID(), 10)] = true
		}
		return true
	})
	if depth.Limited() && int(depth) >= maxLevel {
		depth = tree.Unlimited
	}

	m := ExploreModel{
		Title:      title,
		Builder:    b,
		MaxLevel:   maxLevel,
		Height:     15,
		containers: containers,
	}
	m.setDepth(depth)
	return m
}

func (m *ExploreModel) setDepth(d tree.Depth) {
	m.Depth = d
	m.Elements = m.Builder.Get(d)
	m.incoming = make(map[string]string, len(m.Elements.Edges))
	for _, e := range m.Elements.Edges {
		m.incoming[e.Data.Target] = e.Data.Label
	}
	if m.Cursor >= len(m.Elements.Nodes) {
		m.Cursor = len(m.Elements.Nodes) - 1
	}
	m.clampOffset()
}

func (m *ExploreModel) clampOffset() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	m.Offset = max(0, min(m.Offset, len(m.Elements.Nodes)-1))
}

// deeper expands one more level; past the deepest level it means unlimited.
func (m ExploreModel) deeper() tree.Depth {
	if !m.Depth.Limited() {
		return m.Depth
	}
	if int(m.Depth)+1 >= m.MaxLevel {
		return tree.Unlimited
	}
	return m.Depth + 1
}

func (m ExploreModel) shallower() tree.Depth {
	if !m.Depth.Limited() {
		return tree.Depth(max(0, m.MaxLevel-1))
	}
	return max(0, m.Depth-1)
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Elements.Nodes)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.Elements.Nodes) - 1
		case "+", "right", "l":
			m.setDepth(m.deeper())
		case "-", "left", "h":
			m.setDepth(m.shallower())
		case "0":
			m.setDepth(0)
		case "a":
			m.setDepth(tree.Unlimited)
		}
		m.clampOffset()
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-8)
		m.clampOffset()
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  +/- depth  a expand all  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Elements.Nodes))
	for i := m.Offset; i < end; i++ {
		b.WriteString(m.row(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m ExploreModel) row(i int) string {
	n := m.Elements.Nodes[i]
	indent := strings.Repeat("  ", int(n.Position.X/tree.LevelSpacing))

	marker := "  "
	switch {
	case n.Data.Expanded:
		marker = "▾ "
	case m.containers[n.Data.ID]:
		marker = "▸ "
	}

	label := n.Data.Label
	if label == "" && i == 0 {
		label = "(root)"
	}

	cursor := "  "
	style := listNormalStyle
	switch {
	case i == m.Cursor:
		cursor = "> "
		style = listSelectedStyle
	case !n.Data.Expanded && m.containers[n.Data.ID]:
		style = listDimStyle
	}
	return cursor + indent + style.Render(marker+label)
}

func (m ExploreModel) detail() string {
	if len(m.Elements.Nodes) == 0 {
		return ""
	}
	n := m.Elements.Nodes[m.Cursor]
	parts := []string{
		"id " + n.Data.ID,
		fmt.Sprintf("x=%g y=%g", n.Position.X, n.Position.Y),
	}
	if label, ok := m.incoming[n.Data.ID]; ok {
		parts = append(parts, "edge "+fmt.Sprintf("%q", label))
	}
	return listLabelStyle.Render("  " + strings.Join(parts, "  ·  "))
}

func (m ExploreModel) footer() string {
	depth := "all"
	if m.Depth.Limited() {
		depth = fmt.Sprint(int(m.Depth))
	}
	return listDimStyle.Render(fmt.Sprintf("  depth %s · %d nodes · %d edges  [%d/%d]",
		depth, len(m.Elements.Nodes), len(m.Elements.Edges), m.Cursor+1, len(m.Elements.Nodes)))
}
