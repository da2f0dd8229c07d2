package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/jsongraph/pkg/graph"
)

// uiOut receives status output. Artifacts written to stdout stay clean.
var uiOut io.Writer = os.Stderr

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Shared styles, also used by the explore view.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// mark is a status line prefix.
type mark struct {
	icon  string
	style lipgloss.Style
}

var (
	markSuccess = mark{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markError   = mark{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarning = mark{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	markInfo    = mark{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (m mark) println(text string) {
	fmt.Fprintln(uiOut, m.style.Render(m.icon)+" "+text)
}

func printSuccess(format string, args ...any) { markSuccess.println(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { markError.println(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { markInfo.println(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	markWarning.println(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written output path.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "  12 nodes · 11 edges · cached".
func printStats(nodes, edges int, cached bool) {
	source := lipgloss.NewStyle().Foreground(colorGray).Render("fresh")
	if cached {
		source = lipgloss.NewStyle().Foreground(colorGreen).Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf("%d nodes", nodes))+sep+
		StyleDim.Render(fmt.Sprintf("%d edges", edges))+sep+source)
}

// statsTable renders the shape of a record set as a bordered table.
func statsTable(s graph.Stats) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	format := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Nodes", "Edges", "Expanded", "Collapsed", "Width", "Height").
		Row(strconv.Itoa(s.Nodes), strconv.Itoa(s.Edges), strconv.Itoa(s.Expanded),
			strconv.Itoa(s.Collapsed), format(s.Width), format(s.Height)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
		}).
		Render()
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(uiOut) }
