package texindex

import (
	"regexp"
	"strings"
)

// defaultHeadings are the standard sectioning commands in hierarchical
// order; level 1 is the top. Config.ExtraHeadings append after these.
var defaultHeadings = []string{
	"part", "chapter", "section", "subsection", "subsubsection", "paragraph",
}

// FrontMatterTitle names the implicit section absorbing content before the
// first heading.
const FrontMatterTitle = "Front matter"

// untitledPlaceholder keeps headings with empty titles in the index.
const untitledPlaceholder = "(untitled)"

type heading struct {
	level int
	title string
	start int // byte offset of the heading command
}

// Split partitions the expanded document into an ordered tree of sections.
// A heading found inside a protected span or a comment is not a boundary.
// The union of the returned ranges always covers the whole document.
func Split(doc *ExpandedDocument, spans []ProtectedSpan, cfg Config) []*Section {
	headings := scanHeadings(doc, spans, cfg)

	frontMatter := &Section{
		Title: FrontMatterTitle,
		Level: 0,
		Start: 0,
		End:   len(doc.Text),
	}
	if len(headings) > 0 {
		frontMatter.End = headings[0].start
	}

	// A heading's subtree runs until the next heading at the same or a
	// higher level, or the end of the document.
	flat := make([]*Section, len(headings))
	for i, h := range headings {
		end := len(doc.Text)
		for j := i + 1; j < len(headings); j++ {
			if headings[j].level <= h.level {
				end = headings[j].start
				break
			}
		}
		flat[i] = &Section{Title: h.title, Level: h.level, Start: h.start, End: end}
	}

	// Greedy tree build: each heading closes every open section at its
	// level or deeper and attaches to the nearest shallower ancestor.
	type stackEntry struct {
		node  *Section
		level int
	}
	var stack []stackEntry
	roots := []*Section{frontMatter}

	for i, node := range flat {
		level := headings[i].level
		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1].node
			node.Parent = parent
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, stackEntry{node: node, level: level})
	}

	return roots
}

// scanHeadings finds heading commands outside protected spans and comments.
func scanHeadings(doc *ExpandedDocument, spans []ProtectedSpan, cfg Config) []heading {
	inert := mergeRanges(append(protectedRanges(spans), commentRanges(doc.Text)...))
	pattern := headingPattern(cfg.ExtraHeadings)

	var out []heading
	for _, m := range pattern.FindAllStringSubmatchIndex(doc.Text, -1) {
		if inRanges(inert, m[0]) {
			continue
		}
		name := doc.Text[m[2]:m[3]]
		raw, _ := extractBraceArg(doc.Text, m[1]-1)
		title := NormalizeTitle(raw)
		if title == "" {
			title = untitledPlaceholder
		}
		out = append(out, heading{
			level: headingLevel(name, cfg.ExtraHeadings),
			title: title,
			start: m[0],
		})
	}
	return out
}

func headingPattern(extra []string) *regexp.Regexp {
	names := make([]string, 0, len(defaultHeadings)+len(extra))
	for _, n := range append(append([]string{}, defaultHeadings...), extra...) {
		names = append(names, regexp.QuoteMeta(n))
	}
	return regexp.MustCompile(`\\(` + strings.Join(names, "|") + `)\*?\s*(?:\[[^\]]*\])?\s*\{`)
}

func headingLevel(name string, extra []string) int {
	for i, n := range defaultHeadings {
		if n == name {
			return i + 1
		}
	}
	for i, n := range extra {
		if n == name {
			return len(defaultHeadings) + i + 1
		}
	}
	return len(defaultHeadings) + len(extra) + 1
}

// extractBraceArg returns the balanced-brace argument starting at the
// opening brace, and the offset just past the closing brace. An
// unterminated argument runs to the end of the text.
func extractBraceArg(text string, open int) (string, int) {
	depth := 0
	contentStart := open + 1
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[contentStart:i], i + 1
			}
		}
	}
	return text[contentStart:], len(text)
}

var (
	unwrapPattern = regexp.MustCompile(`\\(?:textbf|textit|textsc|texttt|textrm|textsf|textnormal|text|emph|underline|mathrm|mathbf|bm)\s*\{([^{}]*)\}`)
	spacePattern  = regexp.MustCompile(`\s+`)

	literalEscapes = strings.NewReplacer(
		`\&`, "&", `\%`, "%", `\_`, "_", `\$`, "$", `\#`, "#",
		`\{`, "{", `\}`, "}", `\\`, " ", "~", " ",
	)
)

// NormalizeTitle resolves formatting commands and literal-character
// escapes in a heading argument. Unresolvable escapes are left verbatim
// rather than dropped.
func NormalizeTitle(raw string) string {
	s := raw
	for i := 0; i < 5; i++ {
		next := unwrapPattern.ReplaceAllString(s, "$1")
		if next == s {
			break
		}
		s = next
	}
	s = literalEscapes.Replace(s)
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
