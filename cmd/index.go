package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"arxdex/internal/arxiv"
	"arxdex/internal/config"
	"arxdex/internal/render"
	"arxdex/internal/texindex"
)

var indexMain string

var indexCmd = &cobra.Command{
	Use:   "index <arxiv-id>",
	Short: "Build the section index for a fetched paper",
	Long: `Expand the paper's include tree, split it into sections, compute
per-section metrics, and write index.json, index.md, and one .tex file
per top-level section into the paper directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		id, err := arxiv.ParseID(args[0])
		if err != nil {
			return err
		}
		paperDir := filepath.Join(cfg.DataDir, arxiv.PaperDirName(id))
		srcDir := filepath.Join(paperDir, "src")

		declaredMain := indexMain
		if declaredMain == "" {
			_, declaredMain = arxiv.ReadMetadata(paperDir)
		}
		// metadata.txt stores paths relative to the paper dir; the
		// pipeline works relative to src/.
		declaredMain = strings.TrimPrefix(declaredMain, "src/")

		paper, err := texindex.ProcessDir(srcDir, declaredMain, cfg.Index())
		if err != nil {
			return err
		}

		if err := render.WriteJSON(paper.Index, filepath.Join(paperDir, "index.json")); err != nil {
			return err
		}
		if err := render.WriteMarkdown(paper.Index, id, filepath.Join(paperDir, "index.md")); err != nil {
			return err
		}
		files, err := render.WriteSections(paper, filepath.Join(paperDir, "sections"))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printSuccess(out, "Indexed", fmt.Sprintf("%s (root %s)", id, paper.Root))
		printSummary(out, paper.Index)
		printStep(out, "Sections", fmt.Sprintf("%d files under %s", len(files), filepath.Join(paperDir, "sections")))
		for _, w := range paper.Index.Warnings {
			printWarning(out, fmt.Sprintf("%s at %s:%d", w.Kind, w.File, w.Line))
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexMain, "main", "", "Main tex file relative to the src directory (overrides metadata)")
	rootCmd.AddCommand(indexCmd)
}
