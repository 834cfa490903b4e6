package cmd

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"arxdex/internal/arxiv"
	"arxdex/internal/config"
	"arxdex/internal/texindex"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <arxiv-id-or-url>",
	Short: "Download and unpack a paper's LaTeX source",
	Long: `Download the LaTeX source archive for an arXiv paper into the data
directory, unpack it, and record the resolved main tex file in
metadata.txt. Accepts a bare ID (2301.12345, hep-th/9901001) or an
abs/pdf/src URL.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		id, err := arxiv.ParseID(args[0])
		if err != nil {
			return err
		}

		client := arxiv.NewClient(arxiv.DefaultBaseURL)
		printStep(cmd.OutOrStdout(), "Downloading", id)
		archive, err := client.Fetch(id, cfg.DataDir)
		if err != nil {
			return err
		}

		paperDir := filepath.Join(cfg.DataDir, arxiv.PaperDirName(id))
		srcDir, err := arxiv.Extract(archive, paperDir)
		if err != nil {
			return fmt.Errorf("extracting archive: %w", err)
		}

		// Resolve the main file now so later runs don't have to.
		mainTex := ""
		files, err := texindex.LoadSources(srcDir)
		if err == nil {
			if root, err := texindex.FindRoot(files, ""); err == nil {
				mainTex = path.Join("src", root.Path)
			}
		}
		if err := arxiv.WriteMetadata(paperDir, id, mainTex); err != nil {
			return err
		}

		printSuccess(cmd.OutOrStdout(), "Fetched", fmt.Sprintf("%s -> %s", id, paperDir))
		if mainTex == "" {
			printWarning(cmd.OutOrStdout(), "no main tex file identified; pass --main to index")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
