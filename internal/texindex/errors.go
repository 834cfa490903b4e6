package texindex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvariant marks a section tree that violates the disjoint-coverage
// invariant. It indicates a defect in the splitter, not bad user input.
var ErrInvariant = errors.New("section tree invariant violated")

// NoRootFoundError means no candidate file carries a document-start marker.
type NoRootFoundError struct {
	Candidates []string
}

func (e *NoRootFoundError) Error() string {
	return fmt.Sprintf("no root file found among %d candidates: %s",
		len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// AmbiguousRootError means several files carry a document-start marker and
// no tie-break could pick one.
type AmbiguousRootError struct {
	Matches []string
}

func (e *AmbiguousRootError) Error() string {
	return fmt.Sprintf("ambiguous root: %s", strings.Join(e.Matches, ", "))
}

// CyclicIncludeError means a file directly or transitively includes itself.
// Cycle lists the chain, ending with the repeated file.
type CyclicIncludeError struct {
	Cycle []string
}

func (e *CyclicIncludeError) Error() string {
	return fmt.Sprintf("cyclic include: %s", strings.Join(e.Cycle, " -> "))
}
