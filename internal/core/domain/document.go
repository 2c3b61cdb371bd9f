package domain

import "time"

// Document is one collected Markdown file.
// It is created once its content has been fetched and is never modified.
type Document struct {
	// Title is the file name.
	Title string `json:"title"`

	// Location is the browsable URL of the file.
	Location string `json:"location"`

	// Text is the raw file content.
	Text string `json:"text"`

	// Path is the file path within the repository.
	Path string `json:"path"`

	// Repository is the "owner/repo" the file belongs to.
	Repository string `json:"repository"`
}

// IndexableDocument is a Document as handed to the search index.
// Type routes and namespaces the document alongside other collators.
type IndexableDocument struct {
	// ID is a stable identifier derived from Type and Location.
	ID string `json:"id"`

	// Type is the collator type that produced the document (e.g. "github").
	Type string `json:"type"`

	// RunID identifies the indexing run that wrote the document.
	RunID string `json:"run_id"`

	Document

	// IndexedAt is when the document was written to the index.
	IndexedAt time.Time `json:"indexed_at"`
}
