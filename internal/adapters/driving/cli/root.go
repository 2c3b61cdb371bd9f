// Package cli is the command-line surface of sercha-gh.
// Commands share the logger and configuration built in the root
// command's PersistentPreRunE.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-gh/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-gh/internal/logger"
)

// version is set at build time.
var version = "dev"

// Global flags.
var (
	configPath string
	dataDir    string
	verbose    bool
	logFormat  string
)

// Set up before any subcommand runs.
var (
	appLogger   driven.Logger
	configStore *file.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "sercha-gh",
	Short: "Collect Markdown documents from GitHub repositories",
	Long: `sercha-gh searches configured GitHub repositories for Markdown files
and turns each one into a document for a search index.

Collection can run once (collect) or on a schedule (serve). Indexed
documents and run history are kept in a local SQLite database.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/sercha-gh/config.toml)")
	flags.StringVar(&dataDir, "data-dir", "", "directory of the index database (default $XDG_DATA_HOME/sercha-gh)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&logFormat, "log-format", logger.FormatText, "log output format: text, json or logfmt")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup builds the logger and loads configuration.
func setup(cmd *cobra.Command, _ []string) error {
	log, err := logger.New(cmd.ErrOrStderr(), logger.Options{
		Verbose: verbose,
		Format:  logFormat,
	})
	if err != nil {
		return err
	}

	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	appLogger = log
	configStore = store
	log.Debug("Configuration loaded", "path", store.Path())
	return nil
}
