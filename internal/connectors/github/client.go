package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
)

const (
	// DefaultBaseURL is the public GitHub API origin.
	DefaultBaseURL = "https://api.github.com"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MediaTypeRaw asks the contents API for the file body instead of JSON.
	MediaTypeRaw = "application/vnd.github.raw+json"

	// authScheme is the Authorization scheme GitHub accepts for PATs.
	authScheme = "token"
)

// RemoteFile is one file matched by a code search.
type RemoteFile struct {
	Name string `json:"name"`
	Path string `json:"path"`

	// RawURL is the contents API URL of the file.
	RawURL string `json:"url"`

	// HTMLURL is the browsable URL of the file.
	HTMLURL string `json:"html_url"`
}

// SearchResult is one page of code search results.
type SearchResult struct {
	TotalCount int `json:"total_count"`

	// IncompleteResults reports that more pages are available.
	IncompleteResults bool         `json:"incomplete_results"`
	Items             []RemoteFile `json:"items"`
}

// ClientOptions configures a Client.
type ClientOptions struct {
	// BaseURL is the API origin. Defaults to DefaultBaseURL.
	BaseURL string

	// Token authenticates every request. Code search requires it.
	Token string

	// Timeout bounds each HTTP request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64
}

// Client issues code search and raw content requests against the GitHub API.
// It does not retry, back off or rotate credentials.
type Client struct {
	gh          *gh.Client
	token       string
	rateLimiter *RateLimiter
}

// NewClient creates a GitHub API client.
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: opts.Token, TokenType: authScheme},
		)
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = timeout
	}

	client := gh.NewClient(httpClient)
	client.BaseURL = base

	return &Client{
		gh:          client,
		token:       opts.Token,
		rateLimiter: NewRateLimiter(opts.RequestsPerSecond),
	}, nil
}

// parseBaseURL validates the API origin and adds the trailing slash
// go-github requires.
func parseBaseURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(raw), "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q must be an http(s) URL", ErrInvalidBaseURL, raw)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidBaseURL, raw)
	}
	return base, nil
}

// MarkdownQuery returns the code search query matching Markdown files of source.
func MarkdownQuery(source domain.Source) string {
	return "extension:md repo:" + source.String()
}

// SearchMarkdown fetches one page of Markdown files in source.
// Returns ErrTokenMissing without a request when no token is configured.
func (c *Client) SearchMarkdown(ctx context.Context, source domain.Source, page int) (*SearchResult, error) {
	if c.token == "" {
		return nil, ErrTokenMissing
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	query := url.Values{}
	query.Set("q", MarkdownQuery(source))
	query.Set("page", strconv.Itoa(page))

	req, err := c.gh.NewRequest(http.MethodGet, "search/code?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	var result SearchResult
	resp, err := c.gh.Do(ctx, req, &result)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "search code")
	}

	return &result, nil
}

// FetchRaw fetches the raw content of a file from its contents API URL.
func (c *Client) FetchRaw(ctx context.Context, rawURL string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := c.gh.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build content request: %w", err)
	}
	req.Header.Set("Accept", MediaTypeRaw)

	var content strings.Builder
	resp, err := c.gh.Do(ctx, req, &content)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return "", c.wrapError(err, "fetch content")
	}

	return content.String(), nil
}

// BaseURL returns the API origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.gh.BaseURL.String()
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	// Primary rate limit: GitHub reports the quota in the error itself.
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	// Secondary rate limit: only a retry hint is available.
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		resetAt := c.rateLimiter.ResetTime()
		if abuseErr.RetryAfter != nil {
			resetAt = time.Now().Add(*abuseErr.RetryAfter)
		}
		return &RateLimitError{
			ResetAt:   resetAt,
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil && ghErr.Response.Request.URL != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
