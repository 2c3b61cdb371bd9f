package github

import (
	"fmt"
	"slices"
	"time"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
)

// DefaultMaxPages bounds code search pagination per source.
const DefaultMaxPages = 100

// Configuration keys read from the collator's config section.
const (
	KeySources           = "sources"
	KeyBaseURL           = "baseUrl"
	KeyAPIToken          = "apiToken"
	KeyMaxPages          = "maxPages"
	KeyRequestsPerSecond = "requestsPerSecond"
	KeyTimeout           = "timeout"
	KeySchedule          = "schedule"
)

// CollectorConfig holds everything a collation run needs.
// It is built once by the factory and never mutated.
type CollectorConfig struct {
	// Sources are scanned in order.
	Sources []domain.Source

	// BaseURL is the API origin. Default: DefaultBaseURL.
	BaseURL string

	// APIToken authenticates requests. Without it nothing is collected.
	APIToken string

	// MaxPages bounds pagination per source. Default: DefaultMaxPages.
	MaxPages int

	// RequestsPerSecond throttles requests. Default: 0 (unthrottled).
	RequestsPerSecond float64

	// Timeout bounds each HTTP request. Default: DefaultTimeout.
	Timeout time.Duration
}

// withDefaults fills unset fields with their defaults.
func (c CollectorConfig) withDefaults() CollectorConfig {
	c.Sources = slices.Clone(c.Sources)
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// ParseConfig reads a CollectorConfig from the collator's config section.
// Absent keys are left zero; the factory applies defaults.
func ParseConfig(cfg driven.ConfigReader) (CollectorConfig, error) {
	var out CollectorConfig

	sources, err := parseSources(cfg)
	if err != nil {
		return CollectorConfig{}, err
	}
	out.Sources = sources

	out.BaseURL = cfg.GetString(KeyBaseURL)
	out.APIToken = cfg.GetString(KeyAPIToken)
	out.MaxPages = cfg.GetInt(KeyMaxPages)
	out.RequestsPerSecond = cfg.GetFloat(KeyRequestsPerSecond)

	timeout, err := cfg.GetDuration(KeyTimeout)
	if err != nil {
		return CollectorConfig{}, fmt.Errorf("%s: %w", KeyTimeout, err)
	}
	out.Timeout = timeout

	return out, nil
}

// parseSources reads the sources array. Each entry needs owner and repo.
func parseSources(cfg driven.ConfigReader) ([]domain.Source, error) {
	entries := cfg.GetConfigArray(KeySources)
	sources := make([]domain.Source, 0, len(entries))
	for i, entry := range entries {
		src := domain.Source{
			Owner: entry.GetString("owner"),
			Repo:  entry.GetString("repo"),
		}
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", KeySources, i, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}
