// Package sqlite provides a SQLite-based implementation of the document index
// and scheduler state ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Both stores share a single database connection:
//
//   - DocumentStore: indexed documents, replaced per collation run
//   - SchedulerStore: scheduled tasks and their run history
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files and records its own version in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at $XDG_DATA_HOME/sercha-gh/index.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The store relies on the
// database-level locking SQLite provides in WAL mode.
package sqlite
