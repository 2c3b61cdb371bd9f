package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService reads indexed documents.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// List returns indexed documents of docType, at most limit when limit > 0.
func (s *DocumentService) List(ctx context.Context, docType string, limit int) ([]domain.IndexableDocument, error) {
	if docType == "" {
		return nil, fmt.Errorf("%w: document type is required", domain.ErrInvalidInput)
	}
	return s.docStore.ListDocuments(ctx, docType, limit)
}

// Count returns the number of indexed documents of docType.
func (s *DocumentService) Count(ctx context.Context, docType string) (int, error) {
	if docType == "" {
		return 0, fmt.Errorf("%w: document type is required", domain.ErrInvalidInput)
	}
	return s.docStore.CountDocuments(ctx, docType)
}
