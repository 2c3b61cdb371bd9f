package domain

import "time"

// Schedule describes how often a collator runs.
// It is interpreted entirely by the scheduler.
type Schedule struct {
	// Frequency is the interval between runs.
	Frequency time.Duration

	// Timeout bounds a single run.
	Timeout time.Duration

	// InitialDelay postpones the first run after start-up.
	InitialDelay time.Duration
}

// DefaultSchedule returns the schedule used when none is configured.
func DefaultSchedule() Schedule {
	return Schedule{
		Frequency:    10 * time.Minute,
		Timeout:      15 * time.Minute,
		InitialDelay: 3 * time.Second,
	}
}

// ScheduledTask represents a recurring background task.
type ScheduledTask struct {
	// ID is the unique identifier for the task.
	ID string

	// Name is a human-readable name for the task.
	Name string

	// Interval defines how often the task should run.
	Interval time.Duration

	// LastRun is when the task last ran.
	LastRun time.Time

	// NextRun is when the task should run next.
	NextRun time.Time

	// LastError contains the last error message, if any.
	LastError string

	// LastSuccess is when the task last completed successfully.
	LastSuccess time.Time

	// Enabled indicates whether the task is active.
	Enabled bool
}

// TaskResult represents the outcome of a task execution.
type TaskResult struct {
	// TaskID identifies which task was run.
	TaskID string

	// StartedAt is when the task started.
	StartedAt time.Time

	// EndedAt is when the task completed.
	EndedAt time.Time

	// Success indicates whether the task completed without error.
	Success bool

	// Error contains the error message if Success is false.
	Error string

	// ItemsProcessed is the number of documents indexed.
	ItemsProcessed int
}

// TaskIDPrefixIndex prefixes the task ID of each registered collator.
const TaskIDPrefixIndex = "search-index:"

// IndexTaskID returns the scheduler task ID for a collator type.
func IndexTaskID(docType string) string {
	return TaskIDPrefixIndex + docType
}
