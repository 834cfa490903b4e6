package texindex

import "fmt"

// Assemble walks the section tree once, attaches per-node metrics and
// subtree totals, and produces the final read-only Index. It fails only
// when the tree violates the disjoint-coverage invariant, which would
// indicate a splitter defect rather than bad input.
func Assemble(doc *ExpandedDocument, roots []*Section, spans []ProtectedSpan, warnings []Warning, cfg Config) (*Index, error) {
	if err := validateCoverage(roots, len(doc.Text)); err != nil {
		return nil, err
	}

	idx := &Index{Sections: roots}
	for _, root := range roots {
		totals := measureSubtree(doc, root, spans, cfg)
		idx.TotalEquations += totals.EquationCount
		idx.TotalFigures += totals.FigureCount
		idx.TotalTables += totals.TableCount
		idx.TotalWords += totals.WordCount
		idx.TotalMinutes += totals.EstimatedMinutes
		root.Walk(func(*Section) { idx.TotalSections++ })
	}
	if len(warnings) > 0 {
		idx.Warnings = append([]Warning{}, warnings...)
	}
	return idx, nil
}

// measureSubtree fills Metrics (own content) and Totals (own plus all
// descendants) for every node, bottom-up.
func measureSubtree(doc *ExpandedDocument, sec *Section, spans []ProtectedSpan, cfg Config) *SectionMetrics {
	own := Measure(doc, sec, spans, cfg)
	sec.Metrics = own

	totals := &SectionMetrics{
		EquationCount:    own.EquationCount,
		FigureCount:      own.FigureCount,
		TableCount:       own.TableCount,
		WordCount:        own.WordCount,
		EstimatedMinutes: own.EstimatedMinutes,
	}
	for _, child := range sec.Children {
		ct := measureSubtree(doc, child, spans, cfg)
		totals.EquationCount += ct.EquationCount
		totals.FigureCount += ct.FigureCount
		totals.TableCount += ct.TableCount
		totals.WordCount += ct.WordCount
		totals.EstimatedMinutes += ct.EstimatedMinutes
	}
	sec.Totals = totals
	return totals
}

// validateCoverage checks that sibling ranges are disjoint, strictly
// increasing, and gap-free, and that the top level covers the full
// document.
func validateCoverage(roots []*Section, docLen int) error {
	if len(roots) == 0 {
		return fmt.Errorf("%w: empty tree", ErrInvariant)
	}
	if roots[0].Start != 0 {
		return fmt.Errorf("%w: first section starts at %d, want 0", ErrInvariant, roots[0].Start)
	}
	if err := validateSiblings(roots); err != nil {
		return err
	}
	if last := roots[len(roots)-1]; last.End != docLen {
		return fmt.Errorf("%w: last section ends at %d, want %d", ErrInvariant, last.End, docLen)
	}
	return nil
}

func validateSiblings(siblings []*Section) error {
	for i, s := range siblings {
		if s.Start > s.End {
			return fmt.Errorf("%w: section %q has inverted range [%d,%d)", ErrInvariant, s.Title, s.Start, s.End)
		}
		if i > 0 && s.Start != siblings[i-1].End {
			return fmt.Errorf("%w: gap or overlap between %q and %q at %d",
				ErrInvariant, siblings[i-1].Title, s.Title, s.Start)
		}
		if len(s.Children) > 0 {
			first, last := s.Children[0], s.Children[len(s.Children)-1]
			if first.Start < s.Start || last.End != s.End {
				return fmt.Errorf("%w: children of %q exceed parent range", ErrInvariant, s.Title)
			}
			if err := validateSiblings(s.Children); err != nil {
				return err
			}
		}
	}
	return nil
}
