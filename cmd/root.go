package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arxdex/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "arxdex",
	Short: "Fetch, split, and index arXiv LaTeX sources",
	Long: `arxdex downloads the LaTeX source of an arXiv paper, expands its
\input and \include tree into a single document, splits it into a section
hierarchy, and builds a reading index with per-section equation, figure,
table, and word counts plus estimated reading times.`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("arxdex %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
