package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [document-id]",
	Short: "Remove a document from the index",
	Long: `Removes every indexed chunk belonging to the document. The document
identifier is the path it was ingested under.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	p, err := getPipeline()
	if err != nil {
		return err
	}

	removed, err := p.Remove(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	if removed == 0 {
		cmd.Printf("No indexed chunks found for %s\n", args[0])
		return nil
	}
	cmd.Printf("Removed %s (%d chunks)\n", args[0], removed)
	return nil
}
