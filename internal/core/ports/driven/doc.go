// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - DocumentCollatorFactory: Builds collators for one document type
//   - DocumentIterator: Lazy, pull-based stream of collected documents
//   - DocumentStore: Index persistence
//   - SchedulerStore: Scheduler state and run history
//   - ConfigReader / ConfigStore: Application configuration
//   - Logger: Leveled, structured logging
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
