// Package domain defines the core business entities for sercha-gh.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Source: A repository configured for scanning
//   - Document: A Markdown file collected for the search index
//   - IndexableDocument: A Document tagged with its collator type
//   - ScheduledTask: A recurring collation run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
