package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-gh/internal/connectors/github"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-gh/internal/core/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the collator on its schedule",
	Long: `Registers the GitHub collator and runs it on the configured schedule
until interrupted. Each run replaces the indexed documents of the previous one.

With --watch the configuration file is reloaded when it changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveWatch     bool
	serveEphemeral bool
)

func init() {
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload when the config file changes")
	serveCmd.Flags().BoolVar(&serveEphemeral, "ephemeral", false, "keep the index in memory")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, tasks, closeStores, err := openStores(serveEphemeral)
	if err != nil {
		return err
	}
	defer closeStores()

	scheduler, err := buildScheduler(docs, tasks)
	if err != nil {
		return err
	}

	reload := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)
	if serveWatch {
		g.Go(func() error {
			return watchConfig(gctx, configStore.Path(), reload)
		})
	}
	g.Go(func() error {
		return runScheduler(gctx, scheduler, docs, tasks, reload)
	})

	appLogger.Info("Scheduler started", "ephemeral", serveEphemeral, "watch", serveWatch)
	err = g.Wait()
	appLogger.Info("Scheduler stopped")
	return err
}

// buildScheduler registers the collator from the current configuration.
func buildScheduler(docs driven.DocumentStore, tasks driven.SchedulerStore) (*services.Scheduler, error) {
	registry := services.NewIndexRegistry(docs, appLogger, 0)
	if err := github.Register(configStore, registry, github.FactoryOptions{Logger: appLogger}); err != nil {
		return nil, err
	}
	return services.NewScheduler(registry, tasks, appLogger), nil
}

// runScheduler runs scheduler until ctx is done, swapping in a freshly
// built one on every reload. A reload that fails keeps the running scheduler.
func runScheduler(
	ctx context.Context,
	scheduler *services.Scheduler,
	docs driven.DocumentStore,
	tasks driven.SchedulerStore,
	reload <-chan struct{},
) error {
	for {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- scheduler.Start(runCtx) }()

		var next *services.Scheduler
		for next == nil {
			select {
			case <-ctx.Done():
				cancel()
				<-done
				return nil
			case err := <-done:
				cancel()
				return err
			case <-reload:
				next = reloadScheduler(docs, tasks)
			}
		}

		cancel()
		<-done
		scheduler = next
	}
}

// reloadScheduler re-reads configuration and builds a new scheduler.
// Returns nil when the new configuration cannot be used.
func reloadScheduler(docs driven.DocumentStore, tasks driven.SchedulerStore) *services.Scheduler {
	if err := configStore.Load(); err != nil {
		appLogger.Error("Failed to reload configuration", "error", err)
		return nil
	}
	scheduler, err := buildScheduler(docs, tasks)
	if err != nil {
		appLogger.Error("Failed to apply reloaded configuration", "error", err)
		return nil
	}
	appLogger.Info("Configuration reloaded", "path", configStore.Path())
	return scheduler
}

// watchConfig signals reload whenever the file at path is written or
// replaced. The parent directory is watched so editors that rename over
// the file are noticed too.
func watchConfig(ctx context.Context, path string, reload chan<- struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	appLogger.Debug("Watching configuration", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			appLogger.Debug("Configuration changed", "path", path, "op", event.Op.String())
			select {
			case reload <- struct{}{}:
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLogger.Warn("Configuration watcher error", "error", err)
		}
	}
}
