package driving

import (
	"context"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
)

// DocumentService gives read access to indexed documents.
type DocumentService interface {
	// List returns indexed documents of docType, at most limit when limit > 0.
	List(ctx context.Context, docType string, limit int) ([]domain.IndexableDocument, error)

	// Count returns the number of indexed documents of docType.
	Count(ctx context.Context, docType string) (int, error)
}
