package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driving"
)

// --- Mock implementations for service testing ---

// mockSchedulerStore implements driven.SchedulerStore for testing.
type mockSchedulerStore struct {
	mu         sync.RWMutex
	tasks      map[string]*domain.ScheduledTask
	results    map[string][]domain.TaskResult
	pruneCalls int
	saveErr    error
	listErr    error
	getErr     error
}

func newMockSchedulerStore() *mockSchedulerStore {
	return &mockSchedulerStore{
		tasks:   make(map[string]*domain.ScheduledTask),
		results: make(map[string][]domain.TaskResult),
	}
}

func (m *mockSchedulerStore) GetTask(_ context.Context, taskID string) (*domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	task, exists := m.tasks[taskID]
	if !exists {
		return nil, nil
	}
	taskCopy := *task
	return &taskCopy, nil
}

func (m *mockSchedulerStore) ListTasks(_ context.Context) ([]domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	tasks := make([]domain.ScheduledTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (m *mockSchedulerStore) SaveTask(_ context.Context, task *domain.ScheduledTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if task == nil {
		return domain.ErrInvalidInput
	}
	taskCopy := *task
	m.tasks[task.ID] = &taskCopy
	return nil
}

func (m *mockSchedulerStore) DeleteTask(_ context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, taskID)
	return nil
}

func (m *mockSchedulerStore) RecordResult(_ context.Context, result *domain.TaskResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if result == nil {
		return domain.ErrInvalidInput
	}
	m.results[result.TaskID] = append(m.results[result.TaskID], *result)
	return nil
}

func (m *mockSchedulerStore) GetTaskHistory(_ context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := slices.Clone(m.results[taskID])
	slices.Reverse(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *mockSchedulerStore) PruneHistory(_ context.Context, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneCalls++
	return nil
}

func (m *mockSchedulerStore) task(id string) (domain.ScheduledTask, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	task, ok := m.tasks[id]
	if !ok {
		return domain.ScheduledTask{}, false
	}
	return *task, true
}

// mockDocumentStore implements driven.DocumentStore for testing.
type mockDocumentStore struct {
	mu       sync.Mutex
	docs     map[string]domain.IndexableDocument
	batches  []int
	prunedBy []string
	saveErr  error
	pruneErr error
}

func newMockDocumentStore() *mockDocumentStore {
	return &mockDocumentStore{docs: make(map[string]domain.IndexableDocument)}
}

func (m *mockDocumentStore) SaveDocuments(_ context.Context, docs []domain.IndexableDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.batches = append(m.batches, len(docs))
	for _, doc := range docs {
		m.docs[doc.ID] = doc
	}
	return nil
}

func (m *mockDocumentStore) PruneDocuments(_ context.Context, docType, keepRunID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pruneErr != nil {
		return 0, m.pruneErr
	}
	m.prunedBy = append(m.prunedBy, keepRunID)
	removed := 0
	for id, doc := range m.docs {
		if doc.Type == docType && doc.RunID != keepRunID {
			delete(m.docs, id)
			removed++
		}
	}
	return removed, nil
}

func (m *mockDocumentStore) ListDocuments(_ context.Context, docType string, limit int) ([]domain.IndexableDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.IndexableDocument
	for _, doc := range m.docs {
		if doc.Type == docType {
			result = append(result, doc)
		}
	}
	slices.SortFunc(result, func(a, b domain.IndexableDocument) int {
		if a.Path < b.Path {
			return -1
		}
		if a.Path > b.Path {
			return 1
		}
		return 0
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockDocumentStore) CountDocuments(ctx context.Context, docType string) (int, error) {
	docs, err := m.ListDocuments(ctx, docType, 0)
	return len(docs), err
}

// sliceIterator produces a fixed list of documents.
type sliceIterator struct {
	docs   []domain.Document
	next   int
	closed bool
}

func (it *sliceIterator) Next(ctx context.Context) (domain.Document, bool) {
	if it.closed || ctx.Err() != nil || it.next >= len(it.docs) {
		return domain.Document{}, false
	}
	doc := it.docs[it.next]
	it.next++
	return doc, true
}

func (it *sliceIterator) Close() error {
	it.closed = true
	return nil
}

// mockFactory implements driven.DocumentCollatorFactory for testing.
type mockFactory struct {
	docType string
	docs    []domain.Document
	err     error
	last    *sliceIterator
}

func (f *mockFactory) Type() string { return f.docType }

func (f *mockFactory) GetCollator(_ context.Context) (driven.DocumentIterator, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.last = &sliceIterator{docs: f.docs}
	return f.last, nil
}

// mockRegistry implements driving.IndexRegistry with a pluggable Index.
type mockRegistry struct {
	regs  []driving.CollatorRegistration
	index func(ctx context.Context) (int, error)
	calls atomic.Int32
}

func (r *mockRegistry) AddCollator(reg driving.CollatorRegistration) error {
	r.regs = append(r.regs, reg)
	return nil
}

func (r *mockRegistry) Collators() []driving.CollatorRegistration {
	return r.regs
}

func (r *mockRegistry) Index(ctx context.Context, _ driven.DocumentCollatorFactory) (int, error) {
	r.calls.Add(1)
	if r.index == nil {
		return 0, nil
	}
	return r.index(ctx)
}

var errBoom = errors.New("boom")

// Ensure mocks implement interfaces
var (
	_ driven.SchedulerStore          = (*mockSchedulerStore)(nil)
	_ driven.DocumentStore           = (*mockDocumentStore)(nil)
	_ driven.DocumentCollatorFactory = (*mockFactory)(nil)
	_ driving.IndexRegistry          = (*mockRegistry)(nil)
)
