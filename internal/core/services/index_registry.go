package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driving"
)

// Ensure IndexRegistry implements the interface.
var _ driving.IndexRegistry = (*IndexRegistry)(nil)

// DefaultBatchSize is the number of documents written to the store at once.
const DefaultBatchSize = 100

// IndexRegistry holds registered collators and writes what they produce to
// the document store. Every run replaces the documents of its type.
type IndexRegistry struct {
	store     driven.DocumentStore
	logger    driven.Logger
	batchSize int

	mu   sync.RWMutex
	regs []driving.CollatorRegistration
}

// NewIndexRegistry creates an index registry writing to store.
// A batchSize of zero or less uses DefaultBatchSize.
func NewIndexRegistry(store driven.DocumentStore, logger driven.Logger, batchSize int) *IndexRegistry {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &IndexRegistry{
		store:     store,
		logger:    logger,
		batchSize: batchSize,
	}
}

// AddCollator registers a collator factory and its schedule.
func (r *IndexRegistry) AddCollator(reg driving.CollatorRegistration) error {
	if reg.Factory == nil {
		return fmt.Errorf("%w: collator factory is required", domain.ErrInvalidInput)
	}
	if reg.Factory.Type() == "" {
		return fmt.Errorf("%w: collator type is required", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.regs {
		if existing.Factory.Type() == reg.Factory.Type() {
			return fmt.Errorf("%w: collator %q", domain.ErrAlreadyExists, reg.Factory.Type())
		}
	}
	r.regs = append(r.regs, reg)
	return nil
}

// Collators returns the registrations in the order they were added.
func (r *IndexRegistry) Collators() []driving.CollatorRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.regs)
}

// Index drains one collator run into the store and prunes documents of the
// same type left by earlier runs. A run cut short by ctx keeps the previous
// documents and returns the context error.
func (r *IndexRegistry) Index(ctx context.Context, factory driven.DocumentCollatorFactory) (int, error) {
	docType := factory.Type()
	log := r.logger.With("documentType", docType)

	it, err := factory.GetCollator(ctx)
	if err != nil {
		return 0, fmt.Errorf("create %s collator: %w", docType, err)
	}
	defer it.Close()

	runID := uuid.NewString()
	batch := make([]domain.IndexableDocument, 0, r.batchSize)
	count := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.store.SaveDocuments(ctx, batch); err != nil {
			return fmt.Errorf("save %s documents: %w", docType, err)
		}
		count += len(batch)
		batch = batch[:0]
		return nil
	}

	for doc := range driven.Documents(ctx, it) {
		batch = append(batch, domain.IndexableDocument{
			ID:        DocumentID(docType, doc.Location),
			Type:      docType,
			RunID:     runID,
			Document:  doc,
			IndexedAt: time.Now(),
		})
		if len(batch) == r.batchSize {
			if err := flush(); err != nil {
				return count, err
			}
		}
	}
	if err := flush(); err != nil {
		return count, err
	}

	if err := ctx.Err(); err != nil {
		log.Warn("Index run interrupted, previous documents kept", "documents", count, "error", err)
		return count, err
	}

	pruned, err := r.store.PruneDocuments(ctx, docType, runID)
	if err != nil {
		return count, fmt.Errorf("prune %s documents: %w", docType, err)
	}

	log.Info("Indexed documents", "documents", count, "pruned", pruned, "runId", runID)
	return count, nil
}

// DocumentID derives a stable document ID from its type and location.
func DocumentID(docType, location string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(docType+":"+location)).String()
}
