package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.IndexableDocument
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.IndexableDocument),
	}
}

// SaveDocuments stores or updates a batch of documents.
func (s *DocumentStore) SaveDocuments(_ context.Context, docs []domain.IndexableDocument) error {
	for i := range docs {
		if docs[i].ID == "" || docs[i].Type == "" {
			return domain.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range docs {
		s.documents[docs[i].ID] = docs[i]
	}
	return nil
}

// PruneDocuments removes documents of docType not written by keepRunID.
func (s *DocumentStore) PruneDocuments(_ context.Context, docType, keepRunID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, doc := range s.documents {
		if doc.Type == docType && doc.RunID != keepRunID {
			delete(s.documents, id)
			removed++
		}
	}
	return removed, nil
}

// ListDocuments returns documents of docType ordered by repository and path.
func (s *DocumentStore) ListDocuments(_ context.Context, docType string, limit int) ([]domain.IndexableDocument, error) {
	s.mu.RLock()
	var result []domain.IndexableDocument
	for _, doc := range s.documents {
		if doc.Type == docType {
			result = append(result, doc)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(result, func(a, b domain.IndexableDocument) int {
		return cmp.Or(
			cmp.Compare(a.Repository, b.Repository),
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.ID, b.ID),
		)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CountDocuments returns the number of documents of docType.
func (s *DocumentStore) CountDocuments(_ context.Context, docType string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, doc := range s.documents {
		if doc.Type == docType {
			count++
		}
	}
	return count, nil
}
