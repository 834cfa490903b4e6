package texindex

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAssemble(t *testing.T) {
	t.Run("aggregates sum own plus descendants", func(t *testing.T) {
		text := "pre one\n" +
			"\\section{A}\nalpha beta\n$$x$$\n" +
			"\\subsection{A1}\ngamma\n$$y$$\n$$z$$\n" +
			"\\section{B}\ndelta\n\\begin{figure}f\\end{figure}\n"
		doc := docOf(text)
		spans, warnings := ScanProtectedSpans(doc)
		roots := Split(doc, spans, DefaultConfig())

		idx, err := Assemble(doc, roots, spans, warnings, DefaultConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if idx.TotalSections != 4 {
			t.Errorf("total sections = %d, want 4", idx.TotalSections)
		}
		if idx.TotalEquations != 3 {
			t.Errorf("total equations = %d, want 3", idx.TotalEquations)
		}
		if idx.TotalFigures != 1 {
			t.Errorf("total figures = %d, want 1", idx.TotalFigures)
		}

		a := idx.Sections[1]
		if a.Metrics.EquationCount != 1 {
			t.Errorf("A own equations = %d, want 1", a.Metrics.EquationCount)
		}
		if a.Totals.EquationCount != 3 {
			t.Errorf("A subtree equations = %d, want 3", a.Totals.EquationCount)
		}
		wantWords := a.Metrics.WordCount + a.Children[0].Metrics.WordCount
		if a.Totals.WordCount != wantWords {
			t.Errorf("A subtree words = %d, want %d", a.Totals.WordCount, wantWords)
		}
		if a.Totals.EstimatedMinutes <= a.Metrics.EstimatedMinutes {
			t.Error("subtree minutes should exceed own minutes")
		}
	})

	t.Run("rejects gap between siblings", func(t *testing.T) {
		doc := docOf("0123456789")
		bad := []*Section{
			{Title: "a", Start: 0, End: 4},
			{Title: "b", Start: 6, End: 10}, // gap at [4,6)
		}
		_, err := Assemble(doc, bad, nil, nil, DefaultConfig())
		if !errors.Is(err, ErrInvariant) {
			t.Errorf("expected ErrInvariant, got %v", err)
		}
	})

	t.Run("rejects short coverage", func(t *testing.T) {
		doc := docOf("0123456789")
		bad := []*Section{{Title: "a", Start: 0, End: 7}}
		_, err := Assemble(doc, bad, nil, nil, DefaultConfig())
		if !errors.Is(err, ErrInvariant) {
			t.Errorf("expected ErrInvariant, got %v", err)
		}
	})

	t.Run("rejects children escaping parent", func(t *testing.T) {
		doc := docOf("0123456789")
		child := &Section{Title: "c", Start: 5, End: 9}
		bad := []*Section{{Title: "a", Start: 0, End: 10, Children: []*Section{child}}}
		_, err := Assemble(doc, bad, nil, nil, DefaultConfig())
		if !errors.Is(err, ErrInvariant) {
			t.Errorf("expected ErrInvariant, got %v", err)
		}
	})

	t.Run("warnings carried onto index", func(t *testing.T) {
		text := "\\begin{figure}\nnever closed\n"
		doc := docOf(text)
		spans, warnings := ScanProtectedSpans(doc)
		roots := Split(doc, spans, DefaultConfig())
		idx, err := Assemble(doc, roots, spans, warnings, DefaultConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(idx.Warnings) != 1 || idx.Warnings[0].Kind != WarnUnterminated {
			t.Errorf("warnings = %v", idx.Warnings)
		}
	})
}

func writeFixture(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, text := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestProcessDir(t *testing.T) {
	t.Run("full pipeline", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, map[string]string{
			"main.tex": "\\documentclass{article}\n\\begin{document}\n" +
				"\\input{intro}\n\\input{methods}\n\\end{document}\n",
			"intro.tex":   "\\section{Introduction}\nSome opening words here.\n",
			"methods.tex": "\\section{Methods}\n$$a+b$$\nMore words.\n",
		})

		paper, err := ProcessDir(dir, "", DefaultConfig())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if paper.Root != "main.tex" {
			t.Errorf("root = %q, want main.tex", paper.Root)
		}
		if paper.Index.TotalSections != 3 {
			t.Errorf("total sections = %d, want 3", paper.Index.TotalSections)
		}
		if paper.Index.TotalEquations != 1 {
			t.Errorf("total equations = %d, want 1", paper.Index.TotalEquations)
		}
	})

	t.Run("missing include still yields complete index", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, map[string]string{
			"main.tex": "\\documentclass{article}\n\\section{Only}\n\\input{gone}\ntail words\n",
		})

		paper, err := ProcessDir(dir, "", DefaultConfig())
		if err != nil {
			t.Fatalf("missing include must not abort the run: %v", err)
		}
		if len(paper.Index.Warnings) != 1 || paper.Index.Warnings[0].Kind != WarnMissingInclude {
			t.Fatalf("warnings = %v", paper.Index.Warnings)
		}
		last := paper.Index.Sections[len(paper.Index.Sections)-1]
		if last.End != len(paper.Doc.Text) {
			t.Error("index does not cover the full document")
		}
	})

	t.Run("byte identical output across runs", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, map[string]string{
			"main.tex": "\\documentclass{article}\n\\input{a}\n\\input{b}\n",
			"a.tex":    "\\section{A}\n\\textbf{key term} and $$x$$\n",
			"b.tex":    "\\section{B}\nwords\n",
		})

		first, err := ProcessDir(dir, "", DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		second, err := ProcessDir(dir, "", DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		b1, _ := json.Marshal(first.Index)
		b2, _ := json.Marshal(second.Index)
		if string(b1) != string(b2) {
			t.Error("identical input produced different index output")
		}
	})
}
