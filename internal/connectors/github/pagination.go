package github

import "github.com/custodia-labs/sercha-gh/internal/core/domain"

// pageCursor tracks code search pagination for one source.
// It lives only for the duration of one collation run.
type pageCursor struct {
	source   domain.Source
	page     int
	hasMore  bool
	maxPages int
}

// newPageCursor returns a cursor positioned at the first page of source.
func newPageCursor(source domain.Source, maxPages int) *pageCursor {
	return &pageCursor{
		source:   source,
		page:     1,
		hasMore:  true,
		maxPages: maxPages,
	}
}

// limitReached reports whether the page limit stops this source.
// The comparison is equality: the page equal to maxPages is never
// requested, so at most maxPages-1 pages are searched.
func (p *pageCursor) limitReached() bool {
	return p.page == p.maxPages
}

// advance records a fetched page and whether GitHub reported more results.
func (p *pageCursor) advance(incompleteResults bool) {
	p.hasMore = incompleteResults
	p.page++
}

// stop ends pagination for this source.
func (p *pageCursor) stop() {
	p.hasMore = false
}
