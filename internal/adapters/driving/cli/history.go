package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-gh/internal/connectors/github"
	"github.com/custodia-labs/sercha-gh/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent collator runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of runs to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	store, err := openIndex()
	if err != nil {
		return err
	}
	defer store.Close()

	taskID := domain.IndexTaskID(github.DocumentType)
	results, err := store.SchedulerStore().GetTaskHistory(cmd.Context(), taskID, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(results) == 0 {
		cmd.Printf("No runs recorded for %s\n", taskID)
		return nil
	}

	cmd.Printf("Recent runs of %s:\n\n", taskID)
	for i := range results {
		r := results[i]
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		cmd.Printf("  %s  %-6s  %d documents  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			status,
			r.ItemsProcessed,
			r.EndedAt.Sub(r.StartedAt).Round(time.Millisecond))
		if r.Error != "" {
			cmd.Printf("    Error: %s\n", r.Error)
		}
	}
	return nil
}
