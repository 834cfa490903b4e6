package texindex

import (
	"regexp"
	"sort"
	"strings"
)

var (
	emphasisPattern = regexp.MustCompile(`\\(?:textbf|emph|textit|underline)\s*\{([^{}]+)\}`)
	capsPattern     = regexp.MustCompile(`[A-Z][a-z]+(?:[ \t][A-Z][a-z]+)+`)
)

// Measure derives metrics for one section from its own content, excluding
// child ranges. It is a pure function of the section's text and cfg.
func Measure(doc *ExpandedDocument, sec *Section, spans []ProtectedSpan, cfg Config) *SectionMetrics {
	start, end := sec.Start, sec.OwnEnd()

	m := &SectionMetrics{}
	for _, span := range spans {
		if span.Start < start || span.Start >= end {
			continue
		}
		switch span.Kind {
		case SpanMath:
			m.EquationCount++
		case SpanFigure:
			m.FigureCount++
		case SpanTable:
			m.TableCount++
		}
	}

	prose := maskInert(doc.Text[start:end], start, spans)
	m.WordCount = countWords(prose)
	m.EstimatedMinutes = EstimateMinutes(m.WordCount, m.EquationCount, cfg)
	m.KeyTerms = extractKeyTerms(prose, cfg.MaxKeyTerms)
	return m
}

// EstimateMinutes is the reading-time model: linear in word count and
// equation count, deterministic for a given Config.
func EstimateMinutes(words, equations int, cfg Config) float64 {
	wpm := cfg.ReadingSpeedWPM
	if wpm <= 0 {
		wpm = 200
	}
	perEq := cfg.EquationMinutes
	if perEq < 0 {
		perEq = 0
	}
	return float64(words)/wpm + float64(equations)*perEq
}

// maskInert blanks protected spans and comments so tokenization only sees
// prose. offset is the slice's position in the expanded text.
func maskInert(slice string, offset int, spans []ProtectedSpan) string {
	buf := []byte(slice)
	blank := func(from, to int) {
		for i := from; i < to && i < len(buf); i++ {
			if buf[i] != '\n' {
				buf[i] = ' '
			}
		}
	}
	for _, span := range spans {
		s, e := span.Start-offset, span.End-offset
		if e <= 0 || s >= len(buf) {
			continue
		}
		if s < 0 {
			s = 0
		}
		blank(s, e)
	}
	for _, c := range commentRanges(string(buf)) {
		blank(c.start, c.end)
	}
	return string(buf)
}

// countWords tokenizes by whitespace. A token starting with the escape
// character is excluded unless it is a literal-character escape, so
// control sequences are not miscounted as words.
func countWords(prose string) int {
	count := 0
	for _, tok := range strings.Fields(prose) {
		tok = strings.Trim(tok, "{}()[].,;:!?`'\"")
		if tok == "" {
			continue
		}
		if tok[0] == '\\' {
			if len(tok) < 2 || isLetter(tok[1]) {
				continue
			}
		}
		count++
	}
	return count
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// trimLeadingArticle drops a sentence-initial article so "The Markov
// Chain" and "Markov Chain" collapse to the same term.
func trimLeadingArticle(term string) string {
	for _, art := range []string{"The ", "A ", "An "} {
		if rest, ok := strings.CutPrefix(term, art); ok {
			return rest
		}
	}
	return term
}

type termStat struct {
	display    string
	count      int
	first      int
	emphasized bool
}

// extractKeyTerms collects candidate terms from emphasis markup and from
// repeated capitalized multi-word spans, deduplicated case-insensitively
// and ordered by descending frequency then first occurrence.
func extractKeyTerms(prose string, limit int) []string {
	if limit <= 0 {
		limit = 10
	}
	stats := make(map[string]*termStat)
	record := func(term string, pos int, emphasized bool) {
		term = strings.TrimSpace(term)
		if len(term) <= 2 {
			return
		}
		key := strings.ToLower(term)
		st, ok := stats[key]
		if !ok {
			st = &termStat{display: term, first: pos}
			stats[key] = st
		}
		st.count++
		if emphasized {
			st.emphasized = true
		}
	}

	for _, m := range emphasisPattern.FindAllStringSubmatchIndex(prose, -1) {
		record(NormalizeTitle(prose[m[2]:m[3]]), m[0], true)
	}
	for _, m := range capsPattern.FindAllStringIndex(prose, -1) {
		term := trimLeadingArticle(prose[m[0]:m[1]])
		if !strings.Contains(term, " ") {
			continue
		}
		record(term, m[0], false)
	}

	var candidates []*termStat
	for _, st := range stats {
		// Capitalized spans only qualify once repeated; a single
		// emphasized mention is already a deliberate signal.
		if st.emphasized || st.count >= 2 {
			candidates = append(candidates, st)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].first < candidates[j].first
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, st := range candidates {
		out[i] = st.display
	}
	return out
}
