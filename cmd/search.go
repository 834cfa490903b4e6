package cmd

import (
	"encoding/json"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"arxdex/internal/arxiv"
	"arxdex/internal/config"
	"arxdex/internal/search"
)

var (
	searchSection  string
	searchEquation string
	searchText     string
)

var searchCmd = &cobra.Command{
	Use:   "search <arxiv-id>",
	Short: "Find a section, equation, or text passage in an indexed paper",
	Long: `Search the split section files of an indexed paper. Exactly one of
--section, --equation, or --text must be given; results are printed as
JSON with file, line, and context.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		id, err := arxiv.ParseID(args[0])
		if err != nil {
			return err
		}
		sectionsDir := filepath.Join(cfg.DataDir, arxiv.PaperDirName(id), "sections")

		var result any
		switch {
		case searchSection != "":
			result = search.Section(sectionsDir, searchSection)
		case searchEquation != "":
			result = search.Equation(sectionsDir, searchEquation)
		case searchText != "":
			result = search.Text(sectionsDir, searchText)
		default:
			return errors.New("one of --section, --equation, or --text is required")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchSection, "section", "", "Section number or partial title")
	searchCmd.Flags().StringVar(&searchEquation, "equation", "", "Equation label (eq:...) or reference")
	searchCmd.Flags().StringVar(&searchText, "text", "", "Free text to locate")
	rootCmd.AddCommand(searchCmd)
}
