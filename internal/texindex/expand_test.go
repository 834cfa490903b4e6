package texindex

import (
	"errors"
	"strings"
	"testing"
)

func TestExpand(t *testing.T) {
	t.Run("simple include", func(t *testing.T) {
		files := []SourceFile{
			{Path: "main.tex", Text: "before\n\\input{intro}\nafter\n"},
			{Path: "intro.tex", Text: "alpha\nbeta\n"},
		}
		doc, warnings, err := Expand(files, files[0])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(warnings) != 0 {
			t.Errorf("expected no warnings, got %v", warnings)
		}
		for _, want := range []string{"before", "alpha", "beta", "after"} {
			if !strings.Contains(doc.Text, want) {
				t.Errorf("expanded text missing %q", want)
			}
		}
	})

	t.Run("provenance maps back to source", func(t *testing.T) {
		files := []SourceFile{
			{Path: "main.tex", Text: "before\n\\input{intro}\nafter\n"},
			{Path: "intro.tex", Text: "alpha\nbeta\n"},
		}
		doc, _, err := Expand(files, files[0])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		file, line := doc.Locate(strings.Index(doc.Text, "beta"))
		if file != "intro.tex" || line != 2 {
			t.Errorf("beta located at %s:%d, want intro.tex:2", file, line)
		}
		file, line = doc.Locate(strings.Index(doc.Text, "after"))
		if file != "main.tex" || line != 3 {
			t.Errorf("after located at %s:%d, want main.tex:3", file, line)
		}
	})

	t.Run("nested includes resolve relative to including file", func(t *testing.T) {
		files := []SourceFile{
			{Path: "main.tex", Text: "\\input{chapters/one}\n"},
			{Path: "chapters/one.tex", Text: "ONE\n\\input{two}\n"},
			{Path: "chapters/two.tex", Text: "TWO\n"},
		}
		doc, _, err := Expand(files, files[0])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(doc.Text, "ONE") || !strings.Contains(doc.Text, "TWO") {
			t.Errorf("nested include not expanded: %q", doc.Text)
		}
	})

	t.Run("missing include leaves placeholder and warning", func(t *testing.T) {
		files := []SourceFile{
			{Path: "main.tex", Text: "x\n\\input{nowhere}\ny\n"},
		}
		doc, warnings, err := Expand(files, files[0])
		if err != nil {
			t.Fatalf("expansion should continue on missing include, got %v", err)
		}
		if !strings.Contains(doc.Text, "% [missing include: nowhere]") {
			t.Errorf("expected placeholder marker, got %q", doc.Text)
		}
		if len(warnings) != 1 {
			t.Fatalf("expected 1 warning, got %d", len(warnings))
		}
		w := warnings[0]
		if w.Kind != WarnMissingInclude || w.File != "main.tex" || w.Line != 2 {
			t.Errorf("warning = %+v, want missing_include at main.tex:2", w)
		}
	})

	t.Run("three file cycle is fatal and names the cycle", func(t *testing.T) {
		files := []SourceFile{
			{Path: "a.tex", Text: "\\input{b}"},
			{Path: "b.tex", Text: "\\input{c}"},
			{Path: "c.tex", Text: "\\input{a}"},
		}
		_, _, err := Expand(files, files[0])
		var cyc *CyclicIncludeError
		if !errors.As(err, &cyc) {
			t.Fatalf("expected CyclicIncludeError, got %v", err)
		}
		joined := strings.Join(cyc.Cycle, " ")
		for _, f := range []string{"a.tex", "b.tex", "c.tex"} {
			if !strings.Contains(joined, f) {
				t.Errorf("cycle %v missing %s", cyc.Cycle, f)
			}
		}
	})

	t.Run("self include is fatal", func(t *testing.T) {
		files := []SourceFile{
			{Path: "a.tex", Text: "\\input{a}"},
		}
		_, _, err := Expand(files, files[0])
		var cyc *CyclicIncludeError
		if !errors.As(err, &cyc) {
			t.Fatalf("expected CyclicIncludeError, got %v", err)
		}
	})

	t.Run("commented directive stays inert", func(t *testing.T) {
		files := []SourceFile{
			{Path: "main.tex", Text: "text\n% \\input{intro}\n"},
			{Path: "intro.tex", Text: "SECRET"},
		}
		doc, _, err := Expand(files, files[0])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(doc.Text, "SECRET") {
			t.Error("commented include was expanded")
		}
		if !strings.Contains(doc.Text, `\input{intro}`) {
			t.Error("commented directive should remain verbatim")
		}
	})

	t.Run("directive in verbatim stays inert", func(t *testing.T) {
		files := []SourceFile{
			{Path: "main.tex", Text: "\\begin{verbatim}\n\\input{intro}\n\\end{verbatim}\n"},
			{Path: "intro.tex", Text: "SECRET"},
		}
		doc, _, err := Expand(files, files[0])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(doc.Text, "SECRET") {
			t.Error("verbatim include was expanded")
		}
	})

	t.Run("deterministic output", func(t *testing.T) {
		files := []SourceFile{
			{Path: "main.tex", Text: "a\n\\input{x}\n\\input{y}\nb\n"},
			{Path: "x.tex", Text: "X"},
			{Path: "y.tex", Text: "Y"},
		}
		first, _, err := Expand(files, files[0])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, _, err := Expand(files, files[0])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first.Text != second.Text {
			t.Error("two expansions of identical input differ")
		}
	})
}
