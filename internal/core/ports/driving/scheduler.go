package driving

import (
	"context"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
)

// Scheduler runs registered collators on their schedules.
type Scheduler interface {
	// Start begins running scheduled tasks.
	// Blocks until context is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops the scheduler and waits for running tasks.
	Stop() error

	// History returns recent results for a task, most recent first.
	History(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)
}
