package texindex

import (
	"strings"
	"testing"
)

func measureWhole(t *testing.T, text string, cfg Config) *SectionMetrics {
	t.Helper()
	doc := docOf(text)
	spans, _ := ScanProtectedSpans(doc)
	sec := &Section{Title: FrontMatterTitle, Start: 0, End: len(text)}
	return Measure(doc, sec, spans, cfg)
}

func TestMeasureCounts(t *testing.T) {
	text := "words here\n" +
		"\\begin{equation}a\\end{equation}\n" +
		"$$b$$\n" +
		"\\begin{figure}f\\end{figure}\n" +
		"\\begin{table}t\\end{table}\n"
	m := measureWhole(t, text, DefaultConfig())
	if m.EquationCount != 2 {
		t.Errorf("equations = %d, want 2", m.EquationCount)
	}
	if m.FigureCount != 1 || m.TableCount != 1 {
		t.Errorf("figures = %d, tables = %d, want 1 each", m.FigureCount, m.TableCount)
	}
}

func TestMeasureWordCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"plain words", "one two three", 3},
		{"control sequences excluded", `one \alpha two \textbf three`, 3},
		{"literal escapes counted", `profit \& loss`, 3},
		{"math content excluded", "one two\n$$three four five$$\n", 2},
		{"comments excluded", "one two\n% three four\n", 2},
		{"punctuation only tokens skipped", "one { } two", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := measureWhole(t, tt.text, DefaultConfig())
			if m.WordCount != tt.want {
				t.Errorf("word count = %d, want %d", m.WordCount, tt.want)
			}
		})
	}
}

func TestEstimateMinutes(t *testing.T) {
	t.Run("documented example", func(t *testing.T) {
		cfg := Config{ReadingSpeedWPM: 200, EquationMinutes: 0.5}
		got := EstimateMinutes(400, 2, cfg)
		if got != 3.0 {
			t.Errorf("400 words + 2 equations = %v minutes, want 3.0", got)
		}
	})

	t.Run("strictly monotonic in equations", func(t *testing.T) {
		cfg := DefaultConfig()
		prev := EstimateMinutes(100, 0, cfg)
		for eq := 1; eq <= 5; eq++ {
			cur := EstimateMinutes(100, eq, cfg)
			if cur <= prev {
				t.Fatalf("minutes not strictly increasing at %d equations: %v <= %v", eq, cur, prev)
			}
			prev = cur
		}
	})

	t.Run("strictly monotonic in words", func(t *testing.T) {
		cfg := DefaultConfig()
		if EstimateMinutes(201, 0, cfg) <= EstimateMinutes(200, 0, cfg) {
			t.Error("minutes not strictly increasing in words")
		}
	})
}

func TestMeasureEndToEndReadingTime(t *testing.T) {
	// Exactly 400 words and 2 equations through the full span scanner.
	text := strings.Repeat("word ", 400) + "\n" +
		"\\begin{equation}E=mc^2\\end{equation}\n" +
		"\\begin{align}a&=b\\end{align}\n"
	cfg := Config{ReadingSpeedWPM: 200, EquationMinutes: 0.5, MaxKeyTerms: 10}
	m := measureWhole(t, text, cfg)
	if m.WordCount != 400 {
		t.Fatalf("word count = %d, want 400", m.WordCount)
	}
	if m.EquationCount != 2 {
		t.Fatalf("equation count = %d, want 2", m.EquationCount)
	}
	if m.EstimatedMinutes != 3.0 {
		t.Errorf("estimated minutes = %v, want 3.0", m.EstimatedMinutes)
	}
}

func TestExtractKeyTerms(t *testing.T) {
	t.Run("emphasis terms collected", func(t *testing.T) {
		text := `The \textbf{score function} drives the \emph{variational bound}.`
		m := measureWhole(t, text, DefaultConfig())
		joined := strings.Join(m.KeyTerms, "|")
		if !strings.Contains(joined, "score function") {
			t.Errorf("missing score function in %v", m.KeyTerms)
		}
		if !strings.Contains(joined, "variational bound") {
			t.Errorf("missing variational bound in %v", m.KeyTerms)
		}
	})

	t.Run("repeated capitalized spans collected, single ones dropped", func(t *testing.T) {
		text := "Markov Chain sampling converges. The Markov Chain mixes.\n" +
			"Neural Network appears once.\n"
		m := measureWhole(t, text, DefaultConfig())
		joined := strings.Join(m.KeyTerms, "|")
		if !strings.Contains(joined, "Markov Chain") {
			t.Errorf("missing repeated term in %v", m.KeyTerms)
		}
		if strings.Contains(joined, "Neural Network") {
			t.Errorf("unrepeated capitalized span should be dropped: %v", m.KeyTerms)
		}
	})

	t.Run("case insensitive dedupe keeps first form", func(t *testing.T) {
		text := `\textbf{Score Function} and later \emph{score function}.`
		m := measureWhole(t, text, DefaultConfig())
		seen := 0
		for _, term := range m.KeyTerms {
			if strings.EqualFold(term, "score function") {
				seen++
			}
		}
		if seen != 1 {
			t.Errorf("expected one deduplicated term, got %v", m.KeyTerms)
		}
	})

	t.Run("ordered by frequency then first occurrence", func(t *testing.T) {
		text := `\emph{rare term} once. \textbf{common term} one \textbf{common term} two.`
		m := measureWhole(t, text, DefaultConfig())
		if len(m.KeyTerms) < 2 {
			t.Fatalf("expected 2 terms, got %v", m.KeyTerms)
		}
		if m.KeyTerms[0] != "common term" {
			t.Errorf("most frequent term should come first, got %v", m.KeyTerms)
		}
	})

	t.Run("bounded count", func(t *testing.T) {
		var sb strings.Builder
		for _, w := range []string{"alpha", "bravo", "carol", "delta", "extra"} {
			sb.WriteString(`\textbf{` + w + ` term} `)
		}
		cfg := DefaultConfig()
		cfg.MaxKeyTerms = 3
		m := measureWhole(t, sb.String(), cfg)
		if len(m.KeyTerms) != 3 {
			t.Errorf("expected 3 terms, got %d: %v", len(m.KeyTerms), m.KeyTerms)
		}
	})

	t.Run("terms inside math ignored", func(t *testing.T) {
		text := "$$\\textbf{hidden term}$$ plain text\n"
		m := measureWhole(t, text, DefaultConfig())
		for _, term := range m.KeyTerms {
			if strings.Contains(term, "hidden") {
				t.Errorf("term from protected span leaked: %v", m.KeyTerms)
			}
		}
	})
}

func TestMeasureExcludesChildren(t *testing.T) {
	text := "\\section{A}\nown one two\n$$e$$\n\\subsection{A1}\nchild words here\n$$f$$\n"
	doc := docOf(text)
	spans, _ := ScanProtectedSpans(doc)
	roots := Split(doc, spans, DefaultConfig())
	a := roots[1]
	if len(a.Children) != 1 {
		t.Fatalf("expected one child, got %+v", a)
	}
	m := Measure(doc, a, spans, DefaultConfig())
	if m.EquationCount != 1 {
		t.Errorf("parent own equations = %d, want 1 (child not double counted)", m.EquationCount)
	}
	if m.WordCount != 3 {
		t.Errorf("parent own words = %d, want 3", m.WordCount)
	}
}
