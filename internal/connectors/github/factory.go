package github

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-gh/internal/logger"
)

// DocumentType tags documents produced by this collator in the index.
const DocumentType = "github"

// Ensure Factory implements the interface.
var _ driven.DocumentCollatorFactory = (*Factory)(nil)

// FactoryOptions configures a Factory. Non-zero fields override values
// read from configuration.
type FactoryOptions struct {
	Sources           []domain.Source
	BaseURL           string
	APIToken          string
	MaxPages          int
	RequestsPerSecond float64
	Timeout           time.Duration

	// Logger receives collator logs. Defaults to a discarding logger.
	Logger driven.Logger
}

// Factory builds Collators for the configured GitHub sources.
// It is built once and may hand out any number of collators.
type Factory struct {
	config CollectorConfig
	logger driven.Logger
}

// NewFactory creates a Factory from options, applying defaults.
func NewFactory(opts FactoryOptions) *Factory {
	var log driven.Logger = logger.Discard()
	if opts.Logger != nil {
		log = opts.Logger
	}

	cfg := CollectorConfig{
		Sources:           opts.Sources,
		BaseURL:           opts.BaseURL,
		APIToken:          opts.APIToken,
		MaxPages:          opts.MaxPages,
		RequestsPerSecond: opts.RequestsPerSecond,
		Timeout:           opts.Timeout,
	}

	return &Factory{
		config: cfg.withDefaults(),
		logger: log.With("documentType", DocumentType),
	}
}

// FactoryFromConfig creates a Factory from the collator's config section.
// A missing API token is logged as an error but does not fail construction;
// collators built without a token produce nothing.
func FactoryFromConfig(cfg driven.ConfigReader, opts FactoryOptions) (*Factory, error) {
	var log driven.Logger = logger.Discard()
	if opts.Logger != nil {
		log = opts.Logger
	}

	parsed, err := ParseConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("github collator config: %w", err)
	}

	merged := FactoryOptions{
		Sources:           parsed.Sources,
		BaseURL:           parsed.BaseURL,
		APIToken:          parsed.APIToken,
		MaxPages:          parsed.MaxPages,
		RequestsPerSecond: parsed.RequestsPerSecond,
		Timeout:           parsed.Timeout,
		Logger:            log,
	}
	if opts.Sources != nil {
		merged.Sources = opts.Sources
	}
	if opts.BaseURL != "" {
		merged.BaseURL = opts.BaseURL
	}
	if opts.APIToken != "" {
		merged.APIToken = opts.APIToken
	}
	if opts.MaxPages != 0 {
		merged.MaxPages = opts.MaxPages
	}
	if opts.RequestsPerSecond != 0 {
		merged.RequestsPerSecond = opts.RequestsPerSecond
	}
	if opts.Timeout != 0 {
		merged.Timeout = opts.Timeout
	}

	if merged.APIToken == "" {
		log.Error("Missing required Github API token")
	}

	return NewFactory(merged), nil
}

// Type returns the document type tag.
func (f *Factory) Type() string {
	return DocumentType
}

// Config returns a copy of the collector configuration.
func (f *Factory) Config() CollectorConfig {
	cfg := f.config
	cfg.Sources = slices.Clone(f.config.Sources)
	return cfg
}

// GetCollator returns a fresh Collator for one run.
func (f *Factory) GetCollator(ctx context.Context) (driven.DocumentIterator, error) {
	client, err := NewClient(ctx, ClientOptions{
		BaseURL:           f.config.BaseURL,
		Token:             f.config.APIToken,
		Timeout:           f.config.Timeout,
		RequestsPerSecond: f.config.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("create github client: %w", err)
	}
	return NewCollator(f.config, client, f.logger), nil
}
