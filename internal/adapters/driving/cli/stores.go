package cli

import (
	"github.com/custodia-labs/sercha-gh/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-gh/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
)

// openIndex opens the SQLite index in the data directory.
func openIndex() (*sqlite.Store, error) {
	return sqlite.NewStore(dataDir)
}

// openStores returns the document and scheduler stores used by serve,
// and a function releasing them. Ephemeral stores live in memory.
func openStores(ephemeral bool) (driven.DocumentStore, driven.SchedulerStore, func(), error) {
	if ephemeral {
		return memory.NewDocumentStore(), memory.NewSchedulerStore(), func() {}, nil
	}

	store, err := openIndex()
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			appLogger.Warn("Failed to close index", "path", store.Path(), "error", err)
		}
	}
	return store.DocumentStore(), store.SchedulerStore(), closeFn, nil
}
