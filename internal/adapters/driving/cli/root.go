// Package cli implements the docqa command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/logger"
)

// version is the CLI version, overridable at build time via -ldflags.
var version = "0.1.0"

var (
	cfgPath     string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Question answering over your documents",
	Long: `docqa ingests local documents into a hybrid search index and
answers natural-language questions about them, citing the source
documents each answer was drawn from.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.docqa/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose pipeline logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	defer closePipeline()
	return rootCmd.Execute()
}
