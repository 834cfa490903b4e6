// Package taxonomy builds a per-section outline of a split .tex file:
// its heading hierarchy with adjacent labels, its labeled equations,
// and its emphasized key terms. Results are cached as JSON under the
// paper's taxonomy directory.
package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"arxdex/internal/texindex"
)

// Node is one entry in a taxonomy listing.
type Node struct {
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	Label    string  `json:"label,omitempty"`
	Line     int     `json:"line"`
	Children []*Node `json:"children,omitempty"`
}

// Stats summarizes a taxonomy.
type Stats struct {
	Sections  int `json:"sections"`
	Equations int `json:"equations"`
	KeyTerms  int `json:"key_terms"`
	Lines     int `json:"lines"`
}

// Taxonomy is the full outline of one section file.
type Taxonomy struct {
	File      string  `json:"file"`
	Hierarchy []*Node `json:"hierarchy"`
	Equations []*Node `json:"equations"`
	KeyTerms  []*Node `json:"key_terms"`
	Stats     Stats   `json:"stats"`
}

var (
	headingPattern = regexp.MustCompile(`\\(part|chapter|section|subsection|subsubsection|paragraph)\*?\{([^}]+)\}`)
	labelPattern   = regexp.MustCompile(`\\label\{([^}]+)\}`)
	termPattern    = regexp.MustCompile(`\\(?:textbf|emph|textit|term|define)\{([^{}]+)\}`)
)

// equationEnvs are the environments whose labeled instances appear in
// the equations listing.
var equationEnvs = []string{"equation", "align", "gather", "multline", "eqnarray"}

// Build derives the taxonomy of one section file's content. filename is
// recorded verbatim; all line numbers are 1-based.
func Build(filename, content string) *Taxonomy {
	lines := strings.Split(content, "\n")
	tax := &Taxonomy{
		File:      filename,
		Hierarchy: extractHierarchy(lines),
		Equations: extractEquations(lines),
		KeyTerms:  extractKeyTerms(lines),
	}
	tax.Stats = Stats{
		Sections:  len(tax.Hierarchy),
		Equations: len(tax.Equations),
		KeyTerms:  len(tax.KeyTerms),
		Lines:     len(lines),
	}
	return tax
}

// extractHierarchy lists heading commands in order. A \label on the
// line directly after a heading is attached to it.
func extractHierarchy(lines []string) []*Node {
	var nodes []*Node
	for i, line := range lines {
		m := headingPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label := ""
		if i+1 < len(lines) {
			if lm := labelPattern.FindStringSubmatch(lines[i+1]); lm != nil {
				label = lm[1]
			}
		}
		nodes = append(nodes, &Node{
			Type:  m[1],
			Title: texindex.NormalizeTitle(m[2]),
			Label: label,
			Line:  i + 1,
		})
	}
	return nodes
}

// extractEquations lists display-equation environments, titled by their
// \label when present.
func extractEquations(lines []string) []*Node {
	var nodes []*Node
	inEquation := false
	eqStart := 0
	label := ""

	for i, line := range lines {
		for _, env := range equationEnvs {
			if strings.Contains(line, `\begin{`+env) {
				inEquation = true
				eqStart = i + 1
				label = ""
				break
			}
			if strings.Contains(line, `\end{`+env) {
				if !inEquation {
					break
				}
				if lm := labelPattern.FindStringSubmatch(line); lm != nil && label == "" {
					label = lm[1]
				}
				title := label
				if title == "" {
					title = fmt.Sprintf("Equation at line %d", eqStart)
				}
				nodes = append(nodes, &Node{
					Type:  "equation",
					Title: title,
					Label: label,
					Line:  eqStart,
				})
				inEquation = false
				break
			}
		}
		if inEquation {
			if lm := labelPattern.FindStringSubmatch(line); lm != nil && label == "" {
				label = lm[1]
			}
		}
	}
	return nodes
}

// extractKeyTerms lists emphasized terms in first-occurrence order,
// deduplicated case-insensitively. Terms shorter than three characters
// are noise and dropped.
func extractKeyTerms(lines []string) []*Node {
	var nodes []*Node
	seen := make(map[string]bool)
	for i, line := range lines {
		for _, m := range termPattern.FindAllStringSubmatch(line, -1) {
			term := texindex.NormalizeTitle(m[1])
			if utf8.RuneCountInString(term) < 3 {
				continue
			}
			key := strings.ToLower(term)
			if seen[key] {
				continue
			}
			seen[key] = true
			nodes = append(nodes, &Node{
				Type:  "term",
				Title: term,
				Line:  i + 1,
			})
		}
	}
	return nodes
}

// GetOrBuild returns the cached taxonomy for a section file under
// paperDir, building and caching it on a miss. force rebuilds even when
// a cache entry exists.
func GetOrBuild(paperDir, sectionFile string, force bool) (*Taxonomy, error) {
	texPath := sectionFile
	if !filepath.IsAbs(texPath) {
		texPath = filepath.Join(paperDir, "sections", sectionFile)
	}
	content, err := os.ReadFile(texPath)
	if err != nil {
		return nil, fmt.Errorf("section file not found: %s", texPath)
	}

	stem := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath))
	cachePath := filepath.Join(paperDir, "taxonomy", stem+".taxonomy.json")

	if !force {
		if data, err := os.ReadFile(cachePath); err == nil {
			var cached Taxonomy
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	tax := Build(filepath.Base(texPath), string(content))

	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(tax, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(cachePath, append(data, '\n'), 0o644); err != nil {
		return nil, err
	}
	return tax, nil
}
