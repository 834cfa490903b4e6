package texindex

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var (
	includePattern  = regexp.MustCompile(`\\(?:input|include)\s*\{([^{}]+)\}`)
	verbatimPattern = regexp.MustCompile(`\\begin\s*\{(verbatim\*?|lstlisting|minted|alltt)\}`)
)

// Expand resolves every include directive reachable from root into one
// linear text, depth-first and left-to-right. Missing targets become
// placeholder comments and MissingInclude warnings; a file that directly
// or transitively includes itself aborts with CyclicIncludeError.
func Expand(files []SourceFile, root SourceFile) (*ExpandedDocument, []Warning, error) {
	e := &expander{byPath: make(map[string]SourceFile, len(files))}
	for _, f := range files {
		e.byPath[f.Path] = f
	}
	if err := e.expandFile(root); err != nil {
		return nil, nil, err
	}
	return &ExpandedDocument{Text: e.out.String(), Spans: e.spans}, e.warnings, nil
}

type expander struct {
	byPath   map[string]SourceFile
	stack    []string // expansion chain, for cycle detection
	out      strings.Builder
	spans    []Provenance
	warnings []Warning
}

func (e *expander) expandFile(f SourceFile) error {
	e.stack = append(e.stack, f.Path)
	defer func() { e.stack = e.stack[:len(e.stack)-1] }()

	// Directives inside comments or verbatim blocks of this file are inert
	// and must be emitted literally, not expanded.
	inert := mergeRanges(append(commentRanges(f.Text), verbatimRanges(f.Text)...))

	pos := 0
	for _, m := range includePattern.FindAllStringSubmatchIndex(f.Text, -1) {
		if inRanges(inert, m[0]) {
			continue
		}
		e.emit(f.Path, lineAt(f.Text, pos), f.Text[pos:m[0]])
		pos = m[1]

		target := strings.TrimSpace(f.Text[m[2]:m[3]])
		line := lineAt(f.Text, m[0])
		resolved, ok := e.resolve(f.Path, target)
		if !ok {
			e.emit(f.Path, line, fmt.Sprintf("%% [missing include: %s]\n", target))
			e.warnings = append(e.warnings, Warning{
				Kind:    WarnMissingInclude,
				Message: fmt.Sprintf("cannot resolve include %q", target),
				File:    f.Path,
				Line:    line,
			})
			continue
		}
		if i := indexOf(e.stack, resolved.Path); i >= 0 {
			cycle := append(append([]string{}, e.stack[i:]...), resolved.Path)
			return &CyclicIncludeError{Cycle: cycle}
		}
		if err := e.expandFile(resolved); err != nil {
			return err
		}
	}
	e.emit(f.Path, lineAt(f.Text, pos), f.Text[pos:])
	return nil
}

// resolve tries the literal target, then each standard extension, relative
// first to the including file's directory and then to the source root.
// The precedence is fixed so expansion stays deterministic.
func (e *expander) resolve(parent, target string) (SourceFile, bool) {
	dirs := []string{path.Dir(parent), "."}
	exts := append([]string{""}, texExtensions...)
	for _, ext := range exts {
		for _, dir := range dirs {
			cand := path.Clean(path.Join(dir, target+ext))
			if f, ok := e.byPath[cand]; ok {
				return f, true
			}
		}
	}
	return SourceFile{}, false
}

func (e *expander) emit(file string, line int, chunk string) {
	if chunk == "" {
		return
	}
	start := e.out.Len()
	e.out.WriteString(chunk)
	e.spans = append(e.spans, Provenance{
		Start: start,
		End:   e.out.Len(),
		File:  file,
		Line:  line,
	})
}

// verbatimRanges marks verbatim-like environments of a single raw file so
// directive recognition skips them.
func verbatimRanges(text string) []byteRange {
	comments := commentRanges(text)
	var out []byteRange
	cursor := 0
	for _, m := range verbatimPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] < cursor || inRanges(comments, m[0]) {
			continue
		}
		name := text[m[2]:m[3]]
		closer := `\end{` + name + `}`
		end := strings.Index(text[m[1]:], closer)
		if end < 0 {
			out = append(out, byteRange{m[0], len(text)})
			break
		}
		cursor = m[1] + end + len(closer)
		out = append(out, byteRange{m[0], cursor})
	}
	return out
}

// lineAt returns the 1-based line number of a byte offset.
func lineAt(text string, offset int) int {
	return 1 + strings.Count(text[:offset], "\n")
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
