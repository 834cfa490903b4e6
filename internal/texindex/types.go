package texindex

import "encoding/json"

// SourceFile is a raw .tex file read from the source directory.
// Paths are slash-separated and relative to the source root.
type SourceFile struct {
	Path string
	Text string
}

// Provenance maps a half-open byte range of expanded text back to the
// source file and line it came from.
type Provenance struct {
	Start int    // byte offset in the expanded text, inclusive
	End   int    // byte offset in the expanded text, exclusive
	File  string // originating source path
	Line  int    // 1-based line number of Start within File
}

// ExpandedDocument is the single linear text produced by include expansion,
// plus the ordered provenance spans covering it.
type ExpandedDocument struct {
	Text  string
	Spans []Provenance
}

// Locate maps a byte offset in the expanded text to its originating file
// and line. Offsets past the end resolve to the last span.
func (d *ExpandedDocument) Locate(offset int) (string, int) {
	if len(d.Spans) == 0 {
		return "", 0
	}
	// Binary search for the span containing offset.
	lo, hi := 0, len(d.Spans)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if d.Spans[mid].End <= offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	span := d.Spans[lo]
	line := span.Line
	end := offset
	if end > len(d.Text) {
		end = len(d.Text)
	}
	for i := span.Start; i < end && i < len(d.Text); i++ {
		if d.Text[i] == '\n' {
			line++
		}
	}
	return span.File, line
}

// SpanKind classifies a protected span.
type SpanKind string

const (
	SpanMath     SpanKind = "math"
	SpanFigure   SpanKind = "figure"
	SpanTable    SpanKind = "table"
	SpanVerbatim SpanKind = "verbatim"
)

// ProtectedSpan is a byte range the splitter treats as atomic. Heading-like
// tokens inside it are not section boundaries.
type ProtectedSpan struct {
	Kind  SpanKind
	Start int
	End   int
}

// Section is a node in the ordered section tree. Start and End cover the
// whole subtree; the node's own content runs from Start to the first
// child's Start. The parent reference is for traversal only.
type Section struct {
	Title    string          `json:"title"`
	Level    int             `json:"level"`
	Start    int             `json:"start"`
	End      int             `json:"end"`
	Children []*Section      `json:"children,omitempty"`
	Parent   *Section        `json:"-"`
	Metrics  *SectionMetrics `json:"metrics,omitempty"`
	Totals   *SectionMetrics `json:"totals,omitempty"`
}

// OwnEnd returns the end of the section's own content, excluding children.
func (s *Section) OwnEnd() int {
	if len(s.Children) > 0 {
		return s.Children[0].Start
	}
	return s.End
}

// Walk traverses the subtree in depth-first order.
func (s *Section) Walk(fn func(*Section)) {
	if s == nil {
		return
	}
	fn(s)
	for _, child := range s.Children {
		child.Walk(fn)
	}
}

// String returns a JSON representation of the Section for debugging.
func (s *Section) String() string {
	b, _ := json.MarshalIndent(s, "", "  ")
	return string(b)
}

// SectionMetrics is derived from a section's content and never mutated
// independently of it.
type SectionMetrics struct {
	EquationCount    int      `json:"equation_count"`
	FigureCount      int      `json:"figure_count"`
	TableCount       int      `json:"table_count"`
	WordCount        int      `json:"word_count"`
	EstimatedMinutes float64  `json:"estimated_minutes"`
	KeyTerms         []string `json:"key_terms,omitempty"`
}

// WarningKind identifies a recoverable condition recorded during a run.
type WarningKind string

const (
	WarnMissingInclude WarningKind = "missing_include"
	WarnUnterminated   WarningKind = "unterminated_environment"
)

// Warning is a recoverable problem with source provenance where available.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
	File    string      `json:"file,omitempty"`
	Line    int         `json:"line,omitempty"`
}

// Config holds the knobs consumed by the metrics extractor and splitter.
// It is threaded explicitly through calls; there is no global state.
type Config struct {
	// ReadingSpeedWPM is the assumed reading speed in words per minute.
	ReadingSpeedWPM float64

	// EquationMinutes is the extra reading time charged per equation.
	EquationMinutes float64

	// MaxKeyTerms caps the number of key terms extracted per section.
	MaxKeyTerms int

	// ExtraHeadings lists additional heading commands for non-standard
	// document classes, appended after the standard levels.
	ExtraHeadings []string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReadingSpeedWPM: 200,
		EquationMinutes: 0.5,
		MaxKeyTerms:     10,
	}
}

// Index is the root artifact of one pipeline run: the ordered section tree
// with metrics, document-level aggregates, and accumulated warnings.
// It is immutable after assembly.
type Index struct {
	Sections       []*Section `json:"sections"`
	TotalSections  int        `json:"total_sections"`
	TotalEquations int        `json:"total_equations"`
	TotalFigures   int        `json:"total_figures"`
	TotalTables    int        `json:"total_tables"`
	TotalWords     int        `json:"total_words"`
	TotalMinutes   float64    `json:"total_minutes"`
	Warnings       []Warning  `json:"warnings,omitempty"`
}

// String returns a JSON representation of the Index.
func (idx *Index) String() string {
	b, _ := json.MarshalIndent(idx, "", "  ")
	return string(b)
}

// AllSections returns every node in the index in document order.
func (idx *Index) AllSections() []*Section {
	var out []*Section
	for _, root := range idx.Sections {
		root.Walk(func(s *Section) { out = append(out, s) })
	}
	return out
}
