// Package cli implements the ragchat command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragchat/internal/config"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands, wired in initServices.
var (
	cfg       *config.Config
	ingestSvc driving.IngestService
	chatSvc   driving.ChatService
	closeApp  func()
)

// Flag values.
var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "ragchat",
	Short: "Chat with your documents",
	Long: `ragchat ingests a document, indexes it as embeddings and answers
questions about it using a language model, streaming the answer as it
is generated.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		path := configPath
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}

		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded

		// The version command needs no services.
		if cmd.Name() == "version" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if closeApp != nil {
			closeApp()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default ~/.ragchat/config.toml)")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
