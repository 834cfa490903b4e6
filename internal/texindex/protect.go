package texindex

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches everything that can open or close a protected
// span: environment delimiters, display-math dollars, and \[ \].
var tokenPattern = regexp.MustCompile(`\\begin\s*\{([A-Za-z@]+\*?)\}|\\end\s*\{([A-Za-z@]+\*?)\}|\$\$|\\\[|\\\]`)

// envClass maps an environment name to its protected-span kind. Starred
// variants classify the same as their base form.
func envClass(name string) (SpanKind, bool) {
	switch strings.TrimSuffix(name, "*") {
	case "equation", "align", "alignat", "flalign", "eqnarray",
		"gather", "multline", "displaymath", "math":
		return SpanMath, true
	case "figure", "wrapfigure":
		return SpanFigure, true
	case "table", "longtable":
		return SpanTable, true
	case "verbatim", "lstlisting", "minted", "alltt":
		return SpanVerbatim, true
	}
	return "", false
}

type openEnv struct {
	name  string // environment name, or "$$" / "\[" for bare delimiters
	kind  SpanKind
	start int
}

// ScanProtectedSpans finds every math, figure, table, and verbatim span in
// the expanded text. An environment opened but never closed runs to the
// end of the document and is surfaced as an UnterminatedEnvironment
// warning with its source location.
func ScanProtectedSpans(doc *ExpandedDocument) ([]ProtectedSpan, []Warning) {
	comments := mergeRanges(commentRanges(doc.Text))

	var spans []ProtectedSpan
	var stack []openEnv

	for _, m := range tokenPattern.FindAllStringSubmatchIndex(doc.Text, -1) {
		if inRanges(comments, m[0]) {
			continue
		}

		var beginName, endName string
		if m[2] >= 0 {
			beginName = doc.Text[m[2]:m[3]]
		} else if m[4] >= 0 {
			endName = doc.Text[m[4]:m[5]]
		}
		token := doc.Text[m[0]:m[1]]

		// \$$ is a literal dollar followed by a single $, not display math.
		if token == "$$" && escapedAt(doc.Text, m[0]) {
			continue
		}

		// Inside a verbatim block only the matching \end is meaningful;
		// anything else is literal text.
		if len(stack) > 0 && stack[len(stack)-1].kind == SpanVerbatim {
			top := stack[len(stack)-1]
			if endName == top.name {
				spans = append(spans, ProtectedSpan{Kind: top.kind, Start: top.start, End: m[1]})
				stack = stack[:len(stack)-1]
			}
			continue
		}

		switch {
		case beginName != "":
			if kind, ok := envClass(beginName); ok {
				stack = append(stack, openEnv{name: beginName, kind: kind, start: m[0]})
			}
		case endName != "":
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name != endName {
					continue
				}
				// Close this entry and anything opened inside it.
				for j := len(stack) - 1; j >= i; j-- {
					spans = append(spans, ProtectedSpan{Kind: stack[j].kind, Start: stack[j].start, End: m[1]})
				}
				stack = stack[:i]
				break
			}
		case token == "$$":
			if len(stack) > 0 && stack[len(stack)-1].name == "$$" {
				top := stack[len(stack)-1]
				spans = append(spans, ProtectedSpan{Kind: SpanMath, Start: top.start, End: m[1]})
				stack = stack[:len(stack)-1]
			} else {
				stack = append(stack, openEnv{name: "$$", kind: SpanMath, start: m[0]})
			}
		case token == `\[`:
			stack = append(stack, openEnv{name: `\[`, kind: SpanMath, start: m[0]})
		case token == `\]`:
			if len(stack) > 0 && stack[len(stack)-1].name == `\[` {
				top := stack[len(stack)-1]
				spans = append(spans, ProtectedSpan{Kind: SpanMath, Start: top.start, End: m[1]})
				stack = stack[:len(stack)-1]
			}
		}
	}

	var warnings []Warning
	for _, open := range stack {
		spans = append(spans, ProtectedSpan{Kind: open.kind, Start: open.start, End: len(doc.Text)})
		file, line := doc.Locate(open.start)
		warnings = append(warnings, Warning{
			Kind:    WarnUnterminated,
			Message: fmt.Sprintf("environment %q opened but never closed", open.name),
			File:    file,
			Line:    line,
		})
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End > spans[j].End
	})
	return spans, warnings
}

// escapedAt reports whether the character at pos is escaped by an odd
// run of preceding backslashes.
func escapedAt(text string, pos int) bool {
	bs := 0
	for i := pos - 1; i >= 0 && text[i] == '\\'; i-- {
		bs++
	}
	return bs%2 == 1
}

// protectedRanges flattens spans into merged ranges for cheap
// "is this offset protected" checks.
func protectedRanges(spans []ProtectedSpan) []byteRange {
	ranges := make([]byteRange, len(spans))
	for i, s := range spans {
		ranges[i] = byteRange{s.Start, s.End}
	}
	return mergeRanges(ranges)
}
