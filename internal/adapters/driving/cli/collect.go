package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-gh/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-gh/internal/connectors/github"
	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-gh/internal/core/services"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run the GitHub collator once",
	Long: `Runs one collation over the configured repositories.

Documents are printed as JSON lines. With --index they are written to the
local index instead, replacing the documents of the previous run.`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

var (
	collectIndex   bool
	collectSources []string
)

func init() {
	collectCmd.Flags().BoolVar(&collectIndex, "index", false, "write documents to the index instead of stdout")
	collectCmd.Flags().StringSliceVarP(&collectSources, "source", "s", nil,
		"repository to collect as owner/repo, overrides configured sources (repeatable)")
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	section := configStore.Sub(github.ConfigKey)
	if section == nil {
		section = file.NewSection(nil)
	}

	sources, err := parseSourceFlags(collectSources)
	if err != nil {
		return err
	}

	factory, err := github.FactoryFromConfig(section, github.FactoryOptions{
		Sources: sources,
		Logger:  appLogger,
	})
	if err != nil {
		return err
	}

	if collectIndex {
		return indexOnce(cmd, factory)
	}

	it, err := factory.GetCollator(ctx)
	if err != nil {
		return err
	}
	defer it.Close()

	enc := json.NewEncoder(cmd.OutOrStdout())
	for doc := range driven.Documents(ctx, it) {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
	}
	return nil
}

// indexOnce drains one collator run into the local index.
func indexOnce(cmd *cobra.Command, factory driven.DocumentCollatorFactory) error {
	store, err := openIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	registry := services.NewIndexRegistry(store.DocumentStore(), appLogger, 0)
	count, err := registry.Index(cmd.Context(), factory)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	cmd.Printf("Indexed %d documents into %s\n", count, store.Path())
	return nil
}

// parseSourceFlags parses owner/repo arguments. Returns nil when none are given.
func parseSourceFlags(args []string) ([]domain.Source, error) {
	if len(args) == 0 {
		return nil, nil
	}
	sources := make([]domain.Source, 0, len(args))
	for _, arg := range args {
		src, err := domain.ParseSource(arg)
		if err != nil {
			return nil, fmt.Errorf("--source %q: %w", arg, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}
