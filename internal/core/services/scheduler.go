package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driving"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

const (
	// DefaultTickInterval is how often the scheduler looks for due tasks.
	DefaultTickInterval = time.Second

	// HistoryRetention is the number of results kept per task.
	HistoryRetention = 100
)

// Scheduler runs every registered collator on its schedule.
// Each registration becomes one persisted task; a task never overlaps
// with a still-running instance of itself.
type Scheduler struct {
	registry driving.IndexRegistry
	store    driven.SchedulerStore
	logger   driven.Logger
	tick     time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	active  map[string]bool
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler for the collators in registry.
func NewScheduler(
	registry driving.IndexRegistry,
	store driven.SchedulerStore,
	logger driven.Logger,
) *Scheduler {
	return &Scheduler{
		registry: registry,
		store:    store,
		logger:   logger,
		tick:     DefaultTickInterval,
		active:   make(map[string]bool),
	}
}

// SetTickInterval changes how often due tasks are checked.
// It must be called before Start.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	if d > 0 {
		s.tick = d
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or ctx is cancelled. Running tasks are waited for before it returns.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		close(doneCh)
	}()

	if err := s.initialiseTasks(ctx); err != nil {
		s.logger.Error("Failed to initialise scheduled tasks", "error", err)
	}

	// Tasks get their own context so Stop can cancel them too.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	err := s.run(runCtx, stopCh)
	cancel()
	s.wg.Wait()
	return err
}

// Stop shuts down the scheduler, cancelling running tasks, and waits for
// Start to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	doneCh := s.doneCh
	s.mu.Unlock()

	<-doneCh
	return nil
}

// History returns recent results for a task, most recent first.
func (s *Scheduler) History(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	return s.store.GetTaskHistory(ctx, taskID, limit)
}

// initialiseTasks ensures every registered collator has a task in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	for _, reg := range s.registry.Collators() {
		if err := s.ensureTask(ctx, reg); err != nil {
			return err
		}
	}
	return nil
}

// ensureTask creates or updates the task of a registration. The next run
// is never earlier than the initial delay after start-up.
func (s *Scheduler) ensureTask(ctx context.Context, reg driving.CollatorRegistration) error {
	id := domain.IndexTaskID(reg.Factory.Type())

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return fmt.Errorf("get task %s: %w", id, err)
	}

	earliest := time.Now().Add(reg.Schedule.InitialDelay)
	if task == nil {
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     "Index " + reg.Factory.Type(),
			Interval: reg.Schedule.Frequency,
			NextRun:  earliest,
		}
	} else {
		// Update interval if changed
		if task.Interval != reg.Schedule.Frequency {
			task.Interval = reg.Schedule.Frequency
			task.NextRun = earliest
		}
		if task.NextRun.Before(earliest) {
			task.NextRun = earliest
		}
	}
	task.Enabled = true

	if err := s.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("save task %s: %w", id, err)
	}
	s.logger.Debug("Scheduled task", "task", id, "nextRun", task.NextRun, "interval", task.Interval)
	return nil
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context, stopCh <-chan struct{}) error {
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks starts every enabled task whose next run has come.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.logger.Error("Failed to list scheduled tasks", "error", err)
		return
	}

	regs := make(map[string]driving.CollatorRegistration)
	for _, reg := range s.registry.Collators() {
		regs[domain.IndexTaskID(reg.Factory.Type())] = reg
	}

	now := time.Now()
	for i := range tasks {
		task := tasks[i]
		if !task.Enabled || task.NextRun.After(now) {
			continue
		}
		reg, ok := regs[task.ID]
		if !ok {
			s.logger.Debug("Skipping task without registered collator", "task", task.ID)
			continue
		}
		s.runTask(ctx, task, reg)
	}
}

// runTask executes a single task unless it is already running.
func (s *Scheduler) runTask(ctx context.Context, task domain.ScheduledTask, reg driving.CollatorRegistration) {
	s.mu.Lock()
	if s.active[task.ID] {
		s.mu.Unlock()
		s.logger.Debug("Task still running, skipping", "task", task.ID)
		return
	}
	s.active[task.ID] = true
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.active, task.ID)
			s.mu.Unlock()
		}()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: time.Now(),
		}

		runCtx := ctx
		if reg.Schedule.Timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, reg.Schedule.Timeout)
			defer cancel()
		}

		s.logger.Info("Running scheduled task", "task", task.ID)
		count, err := s.registry.Index(runCtx, reg.Factory)

		result.EndedAt = time.Now()
		result.ItemsProcessed = count
		if err != nil {
			result.Error = err.Error()
			task.LastError = err.Error()
			s.logger.Warn("Scheduled task failed", "task", task.ID, "error", err)
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}

		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)

		// State is persisted even when the run was cancelled.
		storeCtx := context.WithoutCancel(ctx)

		if err := s.store.SaveTask(storeCtx, &task); err != nil {
			s.logger.Error("Failed to save task", "task", task.ID, "error", err)
		}
		if err := s.store.RecordResult(storeCtx, result); err != nil {
			s.logger.Error("Failed to record task result", "task", task.ID, "error", err)
		}
		if err := s.store.PruneHistory(storeCtx, HistoryRetention); err != nil {
			s.logger.Error("Failed to prune task history", "error", err)
		}
	}()
}
