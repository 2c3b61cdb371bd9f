package driven

import (
	"context"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
)

// DocumentStore persists indexed documents.
// Backed by SQLite for the CLI and by memory for tests.
type DocumentStore interface {
	// SaveDocuments stores or updates a batch of documents.
	SaveDocuments(ctx context.Context, docs []domain.IndexableDocument) error

	// PruneDocuments removes documents of docType written by any run other
	// than keepRunID. Returns the number of documents removed.
	PruneDocuments(ctx context.Context, docType, keepRunID string) (int, error)

	// ListDocuments returns documents of docType ordered by repository and path.
	// A limit of zero or less returns all documents.
	ListDocuments(ctx context.Context, docType string, limit int) ([]domain.IndexableDocument, error)

	// CountDocuments returns the number of documents of docType.
	CountDocuments(ctx context.Context, docType string) (int, error)
}
