// Package texindex turns an expanded LaTeX source tree into a navigable
// section index.
//
// # Overview
//
// A paper's source arrives as a directory of .tex files with no guarantee
// about which one is the document root. The pipeline runs in fixed stages,
// each a pure function of the previous stage's output:
//
//   - entry.go: locate the root file (the one carrying \documentclass)
//   - expand.go: resolve \input and \include into one linear text, keeping
//     byte-accurate provenance back to the original files
//   - protect.go: find spans that must never be split (math, figures,
//     tables, verbatim blocks)
//   - split.go: partition the expanded text into a tree of sections by
//     heading level, ignoring headings inside protected spans
//   - metrics.go: per-section counts, word totals, key terms, and a
//     reading-time estimate
//   - assemble.go: invariant checks, subtree aggregates, the final Index
//
// Fatal conditions (no root, ambiguous root, include cycles, invariant
// violations) abort the run with typed errors. Recoverable conditions
// (missing include targets, unterminated environments) are collected as
// Warnings on the Index and the run continues.
//
// # Usage
//
//	files, err := texindex.LoadSources(srcDir)
//	paper, err := texindex.Process(files, "", texindex.DefaultConfig())
//	// paper.Index is the ordered, read-only catalog
package texindex
