package cmd

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/cobra"

	"arxdex/internal/arxiv"
	"arxdex/internal/config"
	"arxdex/internal/taxonomy"
)

var taxonomyForce bool

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy <arxiv-id> <section-file>",
	Short: "Outline a split section: headings, labeled equations, key terms",
	Long: `Build a JSON outline of one split section file: its heading hierarchy
with adjacent labels, its labeled equations, and its emphasized key
terms. Results are cached under the paper's taxonomy directory and
reused on later runs.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		id, err := arxiv.ParseID(args[0])
		if err != nil {
			return err
		}
		paperDir := filepath.Join(cfg.DataDir, arxiv.PaperDirName(id))

		tax, err := taxonomy.GetOrBuild(paperDir, args[1], taxonomyForce)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(tax)
	},
}

func init() {
	taxonomyCmd.Flags().BoolVarP(&taxonomyForce, "force", "f", false, "Rebuild even if a cached taxonomy exists")
	rootCmd.AddCommand(taxonomyCmd)
}
