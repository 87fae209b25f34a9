package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/ports/driving"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed documents",
	Long: `Answers a natural-language question from the indexed corpus.
Retrieval combines keyword (BM25) and semantic (vector) search; the
answer cites the source documents it was drawn from.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	p, err := getPipeline()
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	resp, err := p.Query(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, resp)
	}
	return outputAskText(cmd, resp)
}

func outputAskJSON(cmd *cobra.Command, resp driving.QueryResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, resp driving.QueryResponse) error {
	cmd.Println(answerStyle.Render(resp.Answer))

	if len(resp.Sources) > 0 {
		cmd.Println()
		cmd.Println(sourceHeaderStyle.Render("Sources:"))
		for _, src := range resp.Sources {
			cmd.Println(sourceStyle.Render("  - " + src))
		}
	}

	if resp.Degraded {
		cmd.Println()
		cmd.Println(degradedStyle.Render("Note: a backing service was unavailable, this answer may be incomplete."))
	}
	return nil
}
