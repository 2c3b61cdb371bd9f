package driving

import (
	"context"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
)

// CollatorRegistration pairs a collator factory with the schedule it runs on.
// The two are registered together as one unit.
type CollatorRegistration struct {
	// Factory builds a fresh collator for every run.
	Factory driven.DocumentCollatorFactory

	// Schedule controls how often the scheduler invokes the factory.
	Schedule domain.Schedule
}

// IndexRegistry collects registered collators and feeds their documents
// into the index.
type IndexRegistry interface {
	// AddCollator registers a collator factory and its schedule.
	// Returns domain.ErrAlreadyExists if the factory's type is already registered.
	AddCollator(reg CollatorRegistration) error

	// Collators returns the registrations in the order they were added.
	Collators() []CollatorRegistration

	// Index runs one collation for factory and writes the produced documents
	// to the index. Returns the number of documents indexed.
	Index(ctx context.Context, factory driven.DocumentCollatorFactory) (int, error)
}
