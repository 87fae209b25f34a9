package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docqa-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a dotted configuration key, e.g.:

  docqa config set retrieval.top_k 8
  docqa config set embedding.provider openai

For API keys the value may be omitted; it is then prompted for without
echoing:

  docqa config set embedding.api_key`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	path := cfgPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	cmd.Printf("# %s\n", path)
	cmd.Printf("[corpus]\npath = %q\n\n", cfg.Corpus.Path)
	cmd.Printf("[chunking]\nmax_chunk_size = %d\noverlap = %d\nboundary_tolerance = %d\n\n",
		cfg.Chunking.MaxChunkSize, cfg.Chunking.Overlap, cfg.Chunking.BoundaryTolerance)
	cmd.Printf("[retrieval]\ntop_k = %d\nvector_weight = %g\n\n",
		cfg.Retrieval.TopK, cfg.Retrieval.VectorWeight)
	cmd.Printf("[context]\nmax_tokens = %d\n\n", cfg.Context.MaxTokens)
	cmd.Printf("[embedding]\nprovider = %q\nmodel = %q\napi_key = %q\n\n",
		cfg.Embedding.Provider, cfg.Embedding.Model, maskAPIKey(cfg.Embedding.APIKey))
	cmd.Printf("[llm]\nprovider = %q\nmodel = %q\napi_key = %q\n",
		cfg.LLM.Provider, cfg.LLM.Model, maskAPIKey(cfg.LLM.APIKey))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]

	var value string
	if len(args) == 2 {
		value = args[1]
	} else if strings.HasSuffix(key, "api_key") {
		cmd.Printf("Enter value for %s: ", key)
		value = readSecret()
		cmd.Println()
	} else {
		return fmt.Errorf("no value given for %s", key)
	}

	if err := config.SetValue(cfgPath, key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", key)

	warnUnreachableProvider(cmd, key)
	return nil
}

// warnUnreachableProvider pings the provider affected by the key, if
// any, so typos in provider settings surface immediately instead of at
// query time. Unreachable providers warn but never fail the command.
func warnUnreachableProvider(cmd *cobra.Command, key string) {
	section, _, _ := strings.Cut(key, ".")
	if section != "embedding" && section != "llm" {
		return
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return
	}

	var pingErr error
	if section == "embedding" {
		pingErr = ai.ValidateEmbeddingConfig(cfg.Embedding)
	} else {
		pingErr = ai.ValidateLLMConfig(cfg.LLM)
	}
	if pingErr != nil {
		cmd.Println(degradedStyle.Render(fmt.Sprintf("warning: %s provider not reachable: %v", section, pingErr)))
	}
}

// readSecret reads a line from stdin without echoing when attached to
// a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	var line string
	fmt.Fscanln(os.Stdin, &line)
	return strings.TrimSpace(line)
}

func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
