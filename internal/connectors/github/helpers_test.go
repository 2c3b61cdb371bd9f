package github

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
)

const testToken = "ghp_test"

// logEntry is one captured log call.
type logEntry struct {
	level   string
	msg     string
	keyvals []any
}

// recordingLogger implements driven.Logger and keeps every entry.
type recordingLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
	fields  []any
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l *recordingLogger) record(level, msg string, keyvals []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kv := append(append([]any{}, l.fields...), keyvals...)
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, keyvals: kv})
}

func (l *recordingLogger) Debug(msg string, keyvals ...any) { l.record("debug", msg, keyvals) }
func (l *recordingLogger) Info(msg string, keyvals ...any)  { l.record("info", msg, keyvals) }
func (l *recordingLogger) Warn(msg string, keyvals ...any)  { l.record("warn", msg, keyvals) }
func (l *recordingLogger) Error(msg string, keyvals ...any) { l.record("error", msg, keyvals) }

func (l *recordingLogger) With(keyvals ...any) driven.Logger {
	return &recordingLogger{
		mu:      l.mu,
		entries: l.entries,
		fields:  append(append([]any{}, l.fields...), keyvals...),
	}
}

// messages returns the messages logged at level.
func (l *recordingLogger) messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range *l.entries {
		if e.level == level {
			out = append(out, e.msg)
		}
	}
	return out
}

// find returns the first entry with msg.
func (l *recordingLogger) find(msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range *l.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

// searchPage is one canned code search response.
type searchPage struct {
	status     int
	incomplete bool
	files      []string
	header     http.Header
}

// fakeGitHub serves code search and raw content for a set of repositories.
type fakeGitHub struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	pages    map[string][]searchPage // repo -> pages in order
	contents map[string]int          // path -> status override
	searches map[string]int          // repo -> search requests
	queries  []string
	authz    []string

	requests atomic.Int64
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	f := &fakeGitHub{
		t:        t,
		pages:    make(map[string][]searchPage),
		contents: make(map[string]int),
		searches: make(map[string]int),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGitHub) URL() string {
	return f.server.URL
}

// addPages sets the pages returned for repo ("owner/name").
func (f *fakeGitHub) addPages(repo string, pages ...searchPage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[repo] = append(f.pages[repo], pages...)
}

// failContent makes the raw content request for path return status.
func (f *fakeGitHub) failContent(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contents[path] = status
}

func (f *fakeGitHub) searchCount(repo string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches[repo]
}

func (f *fakeGitHub) totalSearches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.searches {
		total += n
	}
	return total
}

func (f *fakeGitHub) serve(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)

	f.mu.Lock()
	f.authz = append(f.authz, r.Header.Get("Authorization"))
	f.mu.Unlock()

	switch {
	case r.URL.Path == "/search/code":
		f.serveSearch(w, r)
	case strings.HasPrefix(r.URL.Path, "/repos/"):
		f.serveContent(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeGitHub) serveSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	repo := strings.TrimPrefix(q, "extension:md repo:")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.searches[repo]++
	pages := f.pages[repo]
	f.mu.Unlock()

	if page < 1 || page > len(pages) {
		writeJSON(w, http.StatusOK, map[string]any{"total_count": 0, "incomplete_results": false, "items": []any{}})
		return
	}

	p := pages[page-1]
	for k, v := range p.header {
		w.Header()[k] = v
	}
	if p.status != 0 && p.status != http.StatusOK {
		writeJSON(w, p.status, map[string]any{"message": http.StatusText(p.status)})
		return
	}

	items := make([]map[string]any, 0, len(p.files))
	for _, path := range p.files {
		name := path[strings.LastIndex(path, "/")+1:]
		items = append(items, map[string]any{
			"name":     name,
			"path":     path,
			"url":      f.server.URL + "/repos/" + repo + "/contents/" + strings.TrimPrefix(path, "/"),
			"html_url": "https://github.com/" + repo + "/blob/master/" + strings.TrimPrefix(path, "/"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_count":        len(items),
		"incomplete_results": p.incomplete,
		"items":              items,
	})
}

func (f *fakeGitHub) serveContent(w http.ResponseWriter, r *http.Request) {
	_, path, _ := strings.Cut(r.URL.Path, "/contents/")

	f.mu.Lock()
	status, failed := f.contents[path]
	f.mu.Unlock()

	if failed {
		writeJSON(w, status, map[string]any{"message": http.StatusText(status)})
		return
	}
	if r.Header.Get("Accept") != MediaTypeRaw {
		f.t.Errorf("content request Accept = %q, want %q", r.Header.Get("Accept"), MediaTypeRaw)
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("# " + path))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
