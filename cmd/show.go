package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"arxdex/internal/arxiv"
	"arxdex/internal/config"
	"arxdex/internal/texindex"
)

var showCmd = &cobra.Command{
	Use:   "show <arxiv-id>",
	Short: "Print the table of contents for an indexed paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		id, err := arxiv.ParseID(args[0])
		if err != nil {
			return err
		}
		paperDir := filepath.Join(cfg.DataDir, arxiv.PaperDirName(id))

		data, err := os.ReadFile(filepath.Join(paperDir, "index.json"))
		if err != nil {
			return fmt.Errorf("paper not indexed; run: arxdex index %s", id)
		}
		var idx texindex.Index
		if err := json.Unmarshal(data, &idx); err != nil {
			return fmt.Errorf("reading index: %w", err)
		}

		out := cmd.OutOrStdout()
		printHeader(out, id)
		for _, s := range idx.Sections {
			printSectionTree(out, s, 0)
		}
		printSummary(out, &idx)
		for _, w := range idx.Warnings {
			printWarning(out, fmt.Sprintf("%s at %s:%d", w.Kind, w.File, w.Line))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
