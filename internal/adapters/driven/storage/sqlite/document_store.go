package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocuments upserts a batch of documents in one transaction.
func (s *documentStore) SaveDocuments(ctx context.Context, docs []domain.IndexableDocument) error {
	if len(docs) == 0 {
		return nil
	}
	for i := range docs {
		if docs[i].ID == "" || docs[i].Type == "" {
			return domain.ErrInvalidInput
		}
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, type, run_id, title, location, text, path, repository, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			run_id = excluded.run_id,
			title = excluded.title,
			location = excluded.location,
			text = excluded.text,
			path = excluded.path,
			repository = excluded.repository,
			indexed_at = excluded.indexed_at
	`)
	if err != nil {
		return fmt.Errorf("preparing document insert: %w", err)
	}
	defer stmt.Close()

	for i := range docs {
		doc := &docs[i]
		if _, err := stmt.ExecContext(ctx,
			doc.ID, doc.Type, doc.RunID, doc.Title, doc.Location, doc.Text,
			doc.Path, doc.Repository, formatTime(doc.IndexedAt),
		); err != nil {
			return fmt.Errorf("saving document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing documents: %w", err)
	}
	return nil
}

// PruneDocuments removes documents of docType written by other runs.
func (s *documentStore) PruneDocuments(ctx context.Context, docType, keepRunID string) (int, error) {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM documents WHERE type = ? AND run_id != ?", docType, keepRunID)
	if err != nil {
		return 0, fmt.Errorf("pruning documents: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned documents: %w", err)
	}
	return int(n), nil
}

// ListDocuments returns documents of docType ordered by repository and path.
func (s *documentStore) ListDocuments(
	ctx context.Context, docType string, limit int,
) ([]domain.IndexableDocument, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, type, run_id, title, location, text, path, repository, indexed_at
		FROM documents
		WHERE type = ?
		ORDER BY repository, path, id
		LIMIT ?
	`, docType, limit)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.IndexableDocument //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// CountDocuments returns the number of documents of docType.
func (s *documentStore) CountDocuments(ctx context.Context, docType string) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE type = ?", docType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

func scanDocument(rows *sql.Rows) (domain.IndexableDocument, error) {
	var doc domain.IndexableDocument
	var indexedAt string
	if err := rows.Scan(&doc.ID, &doc.Type, &doc.RunID, &doc.Title, &doc.Location,
		&doc.Text, &doc.Path, &doc.Repository, &indexedAt); err != nil {
		return domain.IndexableDocument{}, fmt.Errorf("scanning document: %w", err)
	}
	doc.IndexedAt = parseTime(indexedAt)
	return doc, nil
}
