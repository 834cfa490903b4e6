package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"arxdex/internal/texindex"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("75"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for warnings
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// headerBoxStyle for the paper header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("75")).
			Padding(0, 1)
)

func printStep(w io.Writer, label, msg string) {
	fmt.Fprintf(w, "%s %s\n", dimStyle.Render(label+":"), msg)
}

func printSuccess(w io.Writer, label, msg string) {
	fmt.Fprintf(w, "%s %s %s\n", successStyle.Render("✓"), titleStyle.Render(label), msg)
}

func printWarning(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", warnStyle.Render("!"), msg)
}

func printHeader(w io.Writer, paperID string) {
	fmt.Fprintln(w, headerBoxStyle.Render(titleStyle.Render("arxdex")+"  "+paperID))
}

// printSectionTree renders one section and its children as an indented
// table-of-contents line with own-content metrics.
func printSectionTree(w io.Writer, s *texindex.Section, depth int) {
	indent := strings.Repeat("  ", depth)
	meta := fmt.Sprintf("%d words, %d eqs, %.1fm",
		s.Metrics.WordCount, s.Metrics.EquationCount, s.Metrics.EstimatedMinutes)
	fmt.Fprintf(w, "%s%s %s\n", indent, titleStyle.Render(s.Title), dimStyle.Render(meta))
	for _, c := range s.Children {
		printSectionTree(w, c, depth+1)
	}
}

func printSummary(w io.Writer, idx *texindex.Index) {
	fmt.Fprintf(w, "%s %d sections, %d equations, %d figures, %d tables, %d words, %.1f min\n",
		dimStyle.Render("Totals:"),
		idx.TotalSections, idx.TotalEquations, idx.TotalFigures,
		idx.TotalTables, idx.TotalWords, idx.TotalMinutes)
}
