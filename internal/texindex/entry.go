package texindex

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// texExtensions is the fixed resolution order for source files and include
// targets. The literal path is always tried first.
var texExtensions = []string{".tex", ".ltx"}

// rootNames are conventional root-file base names, in preference order.
var rootNames = []string{
	"main.tex", "main_v2.tex", "main_v1.tex",
	"paper.tex", "article.tex", "manuscript.tex", "book.tex", "ms.tex",
}

// LoadSources reads every .tex/.ltx file under dir. Paths in the result
// are slash-separated and relative to dir, sorted for determinism.
func LoadSources(dir string) ([]SourceFile, error) {
	var files []SourceFile
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		for _, e := range texExtensions {
			if ext == e {
				data, err := os.ReadFile(p)
				if err != nil {
					return err
				}
				rel, err := filepath.Rel(dir, p)
				if err != nil {
					return err
				}
				files = append(files, SourceFile{
					Path: filepath.ToSlash(rel),
					Text: string(data),
				})
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// FindRoot identifies the document's entry point: the single candidate
// carrying a document-start marker outside comments. declaredMain, when
// non-empty, names the archive's declared top file and wins ties.
//
// Tie-break order: declaredMain, conventional root names, smallest
// directory depth. If more than one candidate survives, the resolver
// fails rather than guessing.
func FindRoot(files []SourceFile, declaredMain string) (SourceFile, error) {
	var matches []SourceFile
	for _, f := range files {
		if hasDocumentStart(f.Text) {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return SourceFile{}, &NoRootFoundError{Candidates: paths(files)}
	case 1:
		return matches[0], nil
	}

	if declaredMain != "" {
		for _, m := range matches {
			if m.Path == declaredMain {
				return m, nil
			}
		}
	}

	for _, name := range rootNames {
		var named []SourceFile
		for _, m := range matches {
			if strings.EqualFold(filepath.Base(m.Path), name) {
				named = append(named, m)
			}
		}
		if len(named) == 1 {
			return named[0], nil
		}
	}

	minDepth := -1
	var shallow []SourceFile
	for _, m := range matches {
		d := strings.Count(m.Path, "/")
		if minDepth < 0 || d < minDepth {
			minDepth = d
			shallow = []SourceFile{m}
		} else if d == minDepth {
			shallow = append(shallow, m)
		}
	}
	if len(shallow) == 1 {
		return shallow[0], nil
	}

	return SourceFile{}, &AmbiguousRootError{Matches: paths(matches)}
}

// hasDocumentStart reports whether text contains \documentclass or
// \documentstyle outside a comment.
func hasDocumentStart(text string) bool {
	comments := commentRanges(text)
	for _, marker := range []string{`\documentclass`, `\documentstyle`} {
		from := 0
		for {
			i := strings.Index(text[from:], marker)
			if i < 0 {
				break
			}
			pos := from + i
			if !inRanges(comments, pos) {
				return true
			}
			from = pos + len(marker)
		}
	}
	return false
}

func paths(files []SourceFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
