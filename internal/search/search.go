// Package search answers targeted lookups against a paper's written
// section files: a section by number or title, an equation by label,
// or a free-text string. Results are small JSON-shaped structs with
// file, line, and a short context window.
package search

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SectionResult is the answer to a section lookup.
type SectionResult struct {
	Found          bool     `json:"found"`
	File           string   `json:"file,omitempty"`
	SectionNumber  int      `json:"section_number,omitempty"`
	ContentPreview string   `json:"content_preview,omitempty"`
	Error          string   `json:"error,omitempty"`
	Matches        []string `json:"matches,omitempty"`
	Available      []string `json:"available,omitempty"`
}

// Match is a single located hit for equation or text search.
type Match struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	MatchType string `json:"match_type,omitempty"`
	Context   string `json:"context"`
}

// Result carries equation and text search hits.
type Result struct {
	Found   bool    `json:"found"`
	Results []Match `json:"results,omitempty"`
	Error   string  `json:"error,omitempty"`
}

const (
	previewBytes = 500
	maxResults   = 5
)

var numberPrefix = regexp.MustCompile(`^(\d+)_`)

func sectionFiles(sectionsDir string) ([]string, error) {
	entries, err := os.ReadDir(sectionsDir)
	if err != nil {
		return nil, fmt.Errorf("sections not found: %s", sectionsDir)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".tex") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Section finds a section file by number ("3") or partial title
// ("introduction"). An ambiguous title lists the candidates instead of
// guessing.
func Section(sectionsDir, query string) SectionResult {
	files, err := sectionFiles(sectionsDir)
	if err != nil {
		return SectionResult{Error: err.Error()}
	}
	q := strings.ToLower(strings.TrimSpace(query))

	if n, err := strconv.Atoi(q); err == nil {
		for _, f := range files {
			if m := numberPrefix.FindStringSubmatch(f); m != nil {
				if num, _ := strconv.Atoi(m[1]); num == n {
					return found(sectionsDir, f, n)
				}
			}
		}
	}

	var matches []string
	for _, f := range files {
		if strings.Contains(strings.ToLower(f), q) {
			matches = append(matches, f)
		}
	}
	switch len(matches) {
	case 1:
		n := 0
		if m := numberPrefix.FindStringSubmatch(matches[0]); m != nil {
			n, _ = strconv.Atoi(m[1])
		}
		return found(sectionsDir, matches[0], n)
	case 0:
		avail := files
		if len(avail) > 10 {
			avail = avail[:10]
		}
		return SectionResult{
			Error:     fmt.Sprintf("section not found: %s", query),
			Available: avail,
		}
	default:
		return SectionResult{Error: "multiple matches", Matches: matches}
	}
}

func found(dir, name string, number int) SectionResult {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return SectionResult{Error: err.Error()}
	}
	preview := string(data)
	if len(preview) > previewBytes {
		preview = preview[:previewBytes]
	}
	return SectionResult{
		Found:          true,
		File:           name,
		SectionNumber:  number,
		ContentPreview: preview,
	}
}

// Equation finds an equation by \label name, falling back to lines
// that mention the query alongside an equation reference.
func Equation(sectionsDir, query string) Result {
	files, err := sectionFiles(sectionsDir)
	if err != nil {
		return Result{Error: err.Error()}
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var results []Match

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(sectionsDir, f))
		if err != nil {
			continue
		}
		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			lower := strings.ToLower(line)
			if strings.Contains(lower, `\label{`+q) {
				results = append(results, Match{
					File:      f,
					Line:      i + 1,
					MatchType: "label",
					Context:   window(lines, i, 5, 10),
				})
				continue
			}
			if strings.Contains(lower, q) &&
				(strings.Contains(lower, "equation") || strings.Contains(lower, "eq.")) {
				results = append(results, Match{
					File:      f,
					Line:      i + 1,
					MatchType: "reference",
					Context:   window(lines, i, 2, 5),
				})
			}
		}
	}

	if len(results) == 0 {
		return Result{Error: fmt.Sprintf("equation not found: %s", query)}
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return Result{Found: true, Results: results}
}

// Text finds a case-insensitive substring, reporting at most one hit
// per section file.
func Text(sectionsDir, query string) Result {
	files, err := sectionFiles(sectionsDir)
	if err != nil {
		return Result{Error: err.Error()}
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var results []Match

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(sectionsDir, f))
		if err != nil {
			continue
		}
		if !strings.Contains(strings.ToLower(string(data)), q) {
			continue
		}
		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			if strings.Contains(strings.ToLower(line), q) {
				results = append(results, Match{
					File:    f,
					Line:    i + 1,
					Context: window(lines, i, 2, 5),
				})
				break
			}
		}
	}

	if len(results) == 0 {
		return Result{Error: fmt.Sprintf("text not found: %s", query)}
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return Result{Found: true, Results: results}
}

// window returns lines [i-before, i+after) joined, clamped to the file.
func window(lines []string, i, before, after int) string {
	start := max(0, i-before)
	end := min(len(lines), i+after)
	return strings.Join(lines[start:end], "\n")
}
