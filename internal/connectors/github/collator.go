package github

import (
	"context"
	"errors"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
)

// Ensure Collator implements the interface.
var _ driven.DocumentIterator = (*Collator)(nil)

// CodeSearcher is the subset of Client a Collator needs.
type CodeSearcher interface {
	SearchMarkdown(ctx context.Context, source domain.Source, page int) (*SearchResult, error)
	FetchRaw(ctx context.Context, rawURL string) (string, error)
}

// Collator walks the configured sources and produces one Document per
// Markdown file, fetching content only when the consumer asks for the next
// document. At most one HTTP request is outstanding at any time.
//
// A Collator serves a single run; it is not safe for concurrent use.
type Collator struct {
	config CollectorConfig
	client CodeSearcher
	logger driven.Logger

	started bool
	done    bool
	next    int          // index of the next source to visit
	cursor  *pageCursor  // pagination of the source being visited
	pending []RemoteFile // files of the current page not yet produced
	emitted int
}

// NewCollator creates a collator for one run over cfg.Sources.
func NewCollator(cfg CollectorConfig, client CodeSearcher, logger driven.Logger) *Collator {
	return &Collator{
		config: cfg,
		client: client,
		logger: logger,
	}
}

// Next produces the next document, or false once the run is over.
// Failures end the run and are logged; documents already produced stay valid.
func (c *Collator) Next(ctx context.Context) (domain.Document, bool) {
	if !c.started {
		c.started = true
		if c.config.APIToken == "" {
			c.logger.Warn("Github API token is missing - no documents will be indexed")
			c.finish()
		}
	}

	for !c.done {
		if err := ctx.Err(); err != nil {
			c.logger.Warn("Github collation abandoned", "error", err, "documents", c.emitted)
			c.finish()
			break
		}

		if len(c.pending) == 0 {
			if !c.fetchPage(ctx) {
				c.finish()
			}
			continue
		}

		file := c.pending[0]
		c.pending = c.pending[1:]
		if doc, ok := c.fetchDocument(ctx, file); ok {
			c.emitted++
			return doc, true
		}
	}

	return domain.Document{}, false
}

// Close abandons the run. Later calls to Next return false.
func (c *Collator) Close() error {
	c.started = true
	c.finish()
	return nil
}

// Emitted returns the number of documents produced so far.
func (c *Collator) Emitted() int {
	return c.emitted
}

// fetchPage advances pagination until a page with files is loaded.
// Returns false when no sources remain or a failure ends the run.
func (c *Collator) fetchPage(ctx context.Context) bool {
	for {
		if c.cursor == nil || !c.cursor.hasMore {
			if c.next >= len(c.config.Sources) {
				return false
			}
			c.cursor = newPageCursor(c.config.Sources[c.next], c.config.MaxPages)
			c.next++
			continue
		}

		if c.cursor.limitReached() {
			c.logger.Warn("The limit of requests to the Github API has been reached",
				"source", c.cursor.source.String(), "maxPages", c.config.MaxPages)
			c.cursor.stop()
			continue
		}

		source, page := c.cursor.source, c.cursor.page
		result, err := c.client.SearchMarkdown(ctx, source, page)
		if err != nil {
			if !c.endsRun(ctx, err, source) {
				c.logger.Warn("Github code search failed",
					"source", source.String(), "page", page, "error", err)
			}
			return false
		}

		c.logger.Debug("Fetched code search page",
			"source", source.String(), "page", page,
			"files", len(result.Items), "incomplete", result.IncompleteResults)

		c.cursor.advance(result.IncompleteResults)
		if len(result.Items) > 0 {
			c.pending = result.Items
			return true
		}
	}
}

// fetchDocument downloads one file. Files that fail for reasons other than
// authentication, rate limiting or cancellation are skipped.
func (c *Collator) fetchDocument(ctx context.Context, file RemoteFile) (domain.Document, bool) {
	source := c.cursor.source

	text, err := c.client.FetchRaw(ctx, file.RawURL)
	if err != nil {
		if c.endsRun(ctx, err, source) {
			c.finish()
			return domain.Document{}, false
		}
		msg := "Skipping Github file, content fetch failed"
		if IsNotFound(err) {
			msg = "Skipping Github file, it no longer exists"
		}
		c.logger.Warn(msg, "source", source.String(), "path", file.Path, "error", err)
		return domain.Document{}, false
	}

	return domain.Document{
		Title:      file.Name,
		Location:   file.HTMLURL,
		Text:       text,
		Path:       file.Path,
		Repository: source.String(),
	}, true
}

// endsRun logs err if it must stop the whole run and reports whether it does.
func (c *Collator) endsRun(ctx context.Context, err error, source domain.Source) bool {
	switch {
	case ctx.Err() != nil:
		c.logger.Warn("Github collation abandoned", "error", ctx.Err(), "documents", c.emitted)
		return true
	case errors.Is(err, ErrTokenMissing):
		c.logger.Warn("Github API token is missing - no documents will be indexed")
		return true
	case IsUnauthorized(err):
		c.logger.Warn("Github API - unauthorized request", "source", source.String())
		return true
	case IsRateLimited(err):
		keyvals := []any{"source", source.String()}
		var rateLimitErr *RateLimitError
		if errors.As(err, &rateLimitErr) && !rateLimitErr.ResetAt.IsZero() {
			keyvals = append(keyvals, "resetAt", rateLimitErr.ResetAt)
		}
		c.logger.Warn("Github API rate limit exceeded", keyvals...)
		return true
	default:
		return false
	}
}

// finish ends the run and drops any unfetched files.
func (c *Collator) finish() {
	if c.done {
		return
	}
	c.done = true
	c.pending = nil
	c.logger.Debug("Github collation finished", "documents", c.emitted)
}
