// Package render writes a processed paper to disk: the JSON index, a
// human-readable markdown index, and one .tex file per top-level
// section.
package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"arxdex/internal/texindex"
)

var levelNames = map[int]string{
	1: "part",
	2: "chapter",
	3: "section",
	4: "subsection",
	5: "subsubsection",
	6: "paragraph",
}

// LevelName returns the command name for a heading level. The front
// matter pseudo-section (level 0) reports "frontmatter"; configured
// extra headings past the standard six report "level7", "level8", ...
func LevelName(level int) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	if level <= 0 {
		return "frontmatter"
	}
	return fmt.Sprintf("level%d", level)
}

// WriteJSON writes the index as indented JSON to path.
func WriteJSON(idx *texindex.Index, path string) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// WriteMarkdown writes a human-readable index: a summary block, a
// per-section table, and key terms grouped by section.
func WriteMarkdown(idx *texindex.Index, paperID, path string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Index: %s\n\n", paperID)
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- **Sections**: %d\n", idx.TotalSections)
	fmt.Fprintf(&sb, "- **Equations**: %d\n", idx.TotalEquations)
	fmt.Fprintf(&sb, "- **Figures**: %d\n", idx.TotalFigures)
	fmt.Fprintf(&sb, "- **Tables**: %d\n", idx.TotalTables)
	fmt.Fprintf(&sb, "- **Words**: %d\n", idx.TotalWords)
	fmt.Fprintf(&sb, "- **Est. reading time**: %.1f min\n", idx.TotalMinutes)
	sb.WriteString("\n## Sections\n\n")
	sb.WriteString("| # | Title | Words | Eqs | Figs | Time |\n")
	sb.WriteString("|---|-------|-------|-----|------|------|\n")

	all := idx.AllSections()
	for i, s := range all {
		title := truncateRunes(s.Title, 40)
		if title != s.Title {
			title += "..."
		}
		indent := strings.Repeat("&nbsp;&nbsp;", depth(s))
		fmt.Fprintf(&sb, "| %d | %s%s | %d | %d | %d | %.1fm |\n",
			i+1, indent, title,
			s.Metrics.WordCount, s.Metrics.EquationCount,
			s.Metrics.FigureCount, s.Metrics.EstimatedMinutes)
	}

	sb.WriteString("\n## Key Terms by Section\n\n")
	for i, s := range all {
		if len(s.Metrics.KeyTerms) == 0 {
			continue
		}
		title := truncateRunes(s.Title, 30)
		terms := s.Metrics.KeyTerms
		if len(terms) > 5 {
			terms = terms[:5]
		}
		fmt.Fprintf(&sb, "**%d. %s**: %s\n", i+1, title, strings.Join(terms, ", "))
	}

	if len(idx.Warnings) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, w := range idx.Warnings {
			fmt.Fprintf(&sb, "- %s at %s:%d\n", w.Kind, w.File, w.Line)
		}
	}

	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// truncateRunes shortens s to at most n runes, never splitting a
// multi-byte character.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func depth(s *texindex.Section) int {
	d := 0
	for p := s.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

var unsafeChars = regexp.MustCompile(`[^\w\s-]`)
var whitespace = regexp.MustCompile(`\s+`)

// SanitizeFilename converts a section title into a safe lowercase
// filename stem, truncated to 50 characters.
func SanitizeFilename(title string) string {
	name := unsafeChars.ReplaceAllString(title, "")
	name = whitespace.ReplaceAllString(name, "_")
	if len(name) > 50 {
		name = name[:50]
	}
	name = strings.ToLower(strings.Trim(name, "_"))
	if name == "" {
		return "untitled"
	}
	return name
}

// WriteSections writes each root section's full text (own prose plus
// descendants) to <dir>/NN_level_title.tex and returns the filenames
// in order.
func WriteSections(paper *texindex.Paper, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	for i, s := range paper.Index.Sections {
		name := fmt.Sprintf("%02d_%s_%s.tex", i+1, LevelName(s.Level), SanitizeFilename(s.Title))
		body := paper.Doc.Text[s.Start:s.End]
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			return nil, err
		}
		written = append(written, name)
	}
	return written, nil
}
