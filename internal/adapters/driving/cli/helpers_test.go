package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-gh/internal/logger"
)

const testToken = "ghp_test"

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newFakeGitHub serves code search and contents for any repository.
// Every repository holds README.md and docs/guide.md.
func newFakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/search/code", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		repo := strings.TrimPrefix(r.URL.Query().Get("q"), "extension:md repo:")
		items := make([]map[string]string, 0, 2)
		for _, path := range []string{"README.md", "docs/guide.md"} {
			items = append(items, map[string]string{
				"name":     filepath.Base(path),
				"path":     path,
				"url":      fmt.Sprintf("%s/repos/%s/contents/%s", srv.URL, repo, path),
				"html_url": fmt.Sprintf("https://github.com/%s/blob/master/%s", repo, path),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total_count":        len(items),
			"incomplete_results": false,
			"items":              items,
		})
	})
	mux.HandleFunc("/repos/", func(w http.ResponseWriter, r *http.Request) {
		_, path, ok := strings.Cut(r.URL.Path, "/contents/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("# " + path))
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig writes a TOML config pointing the collator at baseURL and
// returns its path. An empty token leaves apiToken out.
func writeConfig(t *testing.T, dir, baseURL, token string, repos ...string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("[backend.search.github]\n")
	fmt.Fprintf(&b, "baseUrl = %q\n", baseURL)
	if token != "" {
		fmt.Fprintf(&b, "apiToken = %q\n", token)
	}
	b.WriteString("\n[backend.search.github.schedule]\nfrequency = \"1h\"\ninitialDelay = \"0s\"\n")
	for _, repo := range repos {
		owner, name, _ := strings.Cut(repo, "/")
		fmt.Fprintf(&b, "\n[[backend.search.github.sources]]\nowner = %q\nrepo = %q\n", owner, name)
	}

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

// resetFlags restores every flag variable to its default.
func resetFlags() {
	configPath = ""
	dataDir = ""
	verbose = false
	logFormat = logger.FormatText
	collectIndex = false
	collectSources = nil
	serveWatch = false
	serveEphemeral = false
	documentsLimit = 20
	documentsJSON = false
	historyLimit = 10

	// Cobra only assigns a subcommand's context when it is nil.
	for _, c := range rootCmd.Commands() {
		c.SetContext(nil)
	}
}

// executeCommand runs the root command with args and returns what was
// written to stdout and stderr.
func executeCommand(ctx context.Context, args ...string) (stdout string, stderr *syncBuffer, err error) {
	resetFlags()

	out := new(bytes.Buffer)
	errOut := new(syncBuffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err = rootCmd.ExecuteContext(ctx)
	return out.String(), errOut, err
}
