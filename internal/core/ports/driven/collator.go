package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
)

// DocumentCollatorFactory builds collators for one document type.
// A factory is built once and asked for a fresh collator on every run.
type DocumentCollatorFactory interface {
	// Type returns the document type tag used to route and namespace
	// the collator's documents in the index (e.g. "github").
	Type() string

	// GetCollator returns a new collator positioned before the first document.
	GetCollator(ctx context.Context) (DocumentIterator, error)
}

// DocumentIterator is a lazy, pull-based sequence of documents.
// Each call to Next produces at most one document; the caller controls pacing.
// Iterators are not restartable.
type DocumentIterator interface {
	// Next produces the next document. ok is false once the sequence has
	// ended, after which every call returns false.
	// Failures end the sequence; they are reported through logging.
	Next(ctx context.Context) (doc domain.Document, ok bool)

	// Close abandons the sequence. It is safe to call more than once.
	Close() error
}

// Documents adapts a DocumentIterator for use with range.
// Breaking out of the loop leaves the iterator open; callers still Close it.
func Documents(ctx context.Context, it DocumentIterator) iter.Seq[domain.Document] {
	return func(yield func(domain.Document) bool) {
		for {
			doc, ok := it.Next(ctx)
			if !ok || !yield(doc) {
				return
			}
		}
	}
}
