package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-gh/internal/connectors/github"
	"github.com/custodia-labs/sercha-gh/internal/core/services"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List indexed documents",
	Args:  cobra.NoArgs,
	RunE:  runDocuments,
}

var (
	documentsLimit int
	documentsJSON  bool
)

func init() {
	documentsCmd.Flags().IntVarP(&documentsLimit, "limit", "n", 20, "maximum number of documents to list (0 for all)")
	documentsCmd.Flags().BoolVar(&documentsJSON, "json", false, "print documents as JSON lines")
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	svc := services.NewDocumentService(store.DocumentStore())
	docs, err := svc.List(ctx, github.DocumentType, documentsLimit)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		for i := range docs {
			if err := enc.Encode(docs[i]); err != nil {
				return fmt.Errorf("write document: %w", err)
			}
		}
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed yet.")
		return nil
	}

	total, err := svc.Count(ctx, github.DocumentType)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].Title)
		cmd.Printf("    Repository: %s\n", docs[i].Repository)
		cmd.Printf("    Path:       %s\n", docs[i].Path)
		cmd.Printf("    Location:   %s\n", docs[i].Location)
		cmd.Printf("    Indexed:    %s\n", docs[i].IndexedAt.Local().Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Showing %d of %d documents\n", len(docs), total)
	return nil
}
