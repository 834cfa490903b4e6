package cmd

import (
	"github.com/spf13/cobra"

	"arxdex/internal/arxiv"
)

var processCmd = &cobra.Command{
	Use:   "process <arxiv-id-or-url>",
	Short: "Fetch and index a paper in one step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := arxiv.ParseID(args[0])
		if err != nil {
			return err
		}
		if err := fetchCmd.RunE(cmd, []string{id}); err != nil {
			return err
		}
		return indexCmd.RunE(cmd, []string{id})
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}
