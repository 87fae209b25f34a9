package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Report pipeline readiness",
	Long: `Checks the index, embedding service, and answer generator, and
reports corpus size. The pipeline is ready whenever the index is
reachable; embedding or generation being down only degrades answers.`,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	p, err := getPipeline()
	if err != nil {
		return err
	}

	h := p.Health(cmd.Context())

	if healthJSON {
		data, err := json.MarshalIndent(h, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
	} else {
		cmd.Printf("ready:      %s\n", statusLabel(h.Ready))
		cmd.Printf("index:      %s\n", statusLabel(h.Index))
		cmd.Printf("embedding:  %s%s\n", statusLabel(h.Embedding), modelSuffix(h.EmbeddingModel))
		cmd.Printf("generator:  %s%s\n", statusLabel(h.Generator), modelSuffix(h.GeneratorModel))
		cmd.Printf("documents:  %d\n", h.Documents)
		cmd.Printf("chunks:     %d\n", h.Chunks)
		if h.Detail != "" {
			cmd.Println(failStyle.Render("detail: " + h.Detail))
		}
	}

	if !h.Ready {
		return fmt.Errorf("index unavailable")
	}
	return nil
}

func modelSuffix(model string) string {
	if model == "" {
		return ""
	}
	return "  " + model
}
