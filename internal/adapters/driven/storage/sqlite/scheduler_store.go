package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
)

// Columns read back by scanTask and scanResult, in scan order.
const (
	taskColumns   = "id, name, interval_ms, last_run, next_run, last_error, last_success, enabled"
	resultColumns = "task_id, started_at, ended_at, success, error, items_processed"
)

// schedulerStore keeps one row per collator task plus its run history.
type schedulerStore struct {
	store *Store
}

var _ driven.SchedulerStore = (*schedulerStore)(nil)

// GetTask returns the task with taskID, or nil when it was never saved.
func (s *schedulerStore) GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error) {
	tasks, err := s.queryTasks(ctx, "WHERE id = ?", taskID)
	if err != nil || len(tasks) == 0 {
		return nil, err
	}
	return &tasks[0], nil
}

// ListTasks returns every task ordered by ID.
func (s *schedulerStore) ListTasks(ctx context.Context) ([]domain.ScheduledTask, error) {
	return s.queryTasks(ctx, "ORDER BY id")
}

func (s *schedulerStore) queryTasks(ctx context.Context, clause string, args ...any) ([]domain.ScheduledTask, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT "+taskColumns+" FROM scheduled_tasks "+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scheduled tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.ScheduledTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scheduled tasks: %w", err)
	}
	return tasks, nil
}

// SaveTask inserts the task or replaces the stored state of its ID.
func (s *schedulerStore) SaveTask(ctx context.Context, task *domain.ScheduledTask) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO scheduled_tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		task.ID,
		task.Name,
		task.Interval.Milliseconds(),
		nullTime(task.LastRun),
		nullTime(task.NextRun),
		sql.NullString{String: task.LastError, Valid: task.LastError != ""},
		nullTime(task.LastSuccess),
		task.Enabled,
	)
	if err != nil {
		return fmt.Errorf("saving task %s: %w", task.ID, err)
	}
	return nil
}

// DeleteTask removes a task together with its run history.
func (s *schedulerStore) DeleteTask(ctx context.Context, taskID string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DELETE FROM task_results WHERE task_id = ?",
		"DELETE FROM scheduled_tasks WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, taskID); err != nil {
			return fmt.Errorf("deleting task %s: %w", taskID, err)
		}
	}
	return tx.Commit()
}

// RecordResult appends one run to the task's history.
func (s *schedulerStore) RecordResult(ctx context.Context, result *domain.TaskResult) error {
	if result == nil || result.TaskID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx,
		"INSERT INTO task_results ("+resultColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		result.TaskID,
		formatTime(result.StartedAt),
		formatTime(result.EndedAt),
		result.Success,
		sql.NullString{String: result.Error, Valid: result.Error != ""},
		result.ItemsProcessed,
	)
	if err != nil {
		return fmt.Errorf("recording result of %s: %w", result.TaskID, err)
	}
	return nil
}

// GetTaskHistory returns the task's runs, most recent first.
// A limit of zero or less returns them all.
func (s *schedulerStore) GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+resultColumns+" FROM task_results WHERE task_id = ? ORDER BY started_at DESC, id DESC LIMIT ?",
		taskID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history of %s: %w", taskID, err)
	}
	defer rows.Close()

	var results []domain.TaskResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history of %s: %w", taskID, err)
	}
	return results, nil
}

// PruneHistory keeps the newest keep runs of every task.
func (s *schedulerStore) PruneHistory(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM task_results WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY task_id ORDER BY started_at DESC, id DESC
				) AS position
				FROM task_results
			) WHERE position > ?
		)
	`, max(keep, 0))
	if err != nil {
		return fmt.Errorf("pruning task history: %w", err)
	}
	return nil
}

func scanTask(rows *sql.Rows) (domain.ScheduledTask, error) {
	var (
		task                     domain.ScheduledTask
		intervalMs               int64
		lastRun, nextRun, lastOK sql.NullString
		lastError                sql.NullString
		enabled                  bool
	)
	err := rows.Scan(&task.ID, &task.Name, &intervalMs, &lastRun, &nextRun, &lastError, &lastOK, &enabled)
	if err != nil {
		return domain.ScheduledTask{}, fmt.Errorf("scanning scheduled task: %w", err)
	}

	task.Interval = time.Duration(intervalMs) * time.Millisecond
	task.LastRun = parseNullTime(lastRun)
	task.NextRun = parseNullTime(nextRun)
	task.LastError = lastError.String
	task.LastSuccess = parseNullTime(lastOK)
	task.Enabled = enabled
	return task, nil
}

func scanResult(rows *sql.Rows) (domain.TaskResult, error) {
	var (
		result             domain.TaskResult
		startedAt, endedAt string
		errMsg             sql.NullString
	)
	err := rows.Scan(&result.TaskID, &startedAt, &endedAt, &result.Success, &errMsg, &result.ItemsProcessed)
	if err != nil {
		return domain.TaskResult{}, fmt.Errorf("scanning task result: %w", err)
	}

	result.StartedAt = parseTime(startedAt)
	result.EndedAt = parseTime(endedAt)
	result.Error = errMsg.String
	return result, nil
}

// nullTime stores the zero time as NULL.
func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(t), Valid: true}
}

func parseNullTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	return parseTime(s.String)
}
