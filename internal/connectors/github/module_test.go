package github

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driving"
)

// stubRegistry records registrations.
type stubRegistry struct {
	regs []driving.CollatorRegistration
	err  error
}

func (r *stubRegistry) AddCollator(reg driving.CollatorRegistration) error {
	if r.err != nil {
		return r.err
	}
	r.regs = append(r.regs, reg)
	return nil
}

func (r *stubRegistry) Collators() []driving.CollatorRegistration {
	return r.regs
}

func (r *stubRegistry) Index(_ context.Context, _ driven.DocumentCollatorFactory) (int, error) {
	return 0, nil
}

func TestRegister(t *testing.T) {
	t.Run("default schedule", func(t *testing.T) {
		cfg := parseTOML(t, `
[backend.search.github]
apiToken = "ghp_abc"

[[backend.search.github.sources]]
owner = "backstage"
repo = "demo"
`)
		log := newRecordingLogger()
		registry := &stubRegistry{}

		require.NoError(t, Register(cfg, registry, FactoryOptions{Logger: log}))

		require.Len(t, registry.regs, 1)
		reg := registry.regs[0]
		assert.Equal(t, DocumentType, reg.Factory.Type())
		assert.Equal(t, domain.Schedule{
			Frequency:    10 * time.Minute,
			Timeout:      15 * time.Minute,
			InitialDelay: 3 * time.Second,
		}, reg.Schedule)
		assert.Contains(t, log.messages("info"), "Github collator initialized")
	})

	t.Run("configured schedule", func(t *testing.T) {
		cfg := parseTOML(t, `
[backend.search.github]
apiToken = "ghp_abc"

[backend.search.github.schedule]
frequency = { hours = 1 }
initialDelay = "0s"
`)
		registry := &stubRegistry{}

		require.NoError(t, Register(cfg, registry, FactoryOptions{}))

		require.Len(t, registry.regs, 1)
		assert.Equal(t, domain.Schedule{
			Frequency:    time.Hour,
			Timeout:      15 * time.Minute,
			InitialDelay: 0,
		}, registry.regs[0].Schedule)
	})

	t.Run("missing section", func(t *testing.T) {
		err := Register(parseTOML(t, "[backend]\n"), &stubRegistry{}, FactoryOptions{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("registry rejects", func(t *testing.T) {
		cfg := parseTOML(t, "[backend.search.github]\napiToken = \"x\"\n")
		err := Register(cfg, &stubRegistry{err: domain.ErrAlreadyExists}, FactoryOptions{})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})
}

func TestReadSchedule_Invalid(t *testing.T) {
	tests := map[string]string{
		"zero frequency":   "[schedule]\nfrequency = \"0s\"\n",
		"negative timeout": "[schedule]\ntimeout = \"-1m\"\n",
		"negative delay":   "[schedule]\ninitialDelay = \"-1s\"\n",
		"malformed":        "[schedule]\nfrequency = \"often\"\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadSchedule(parseTOML(t, doc))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
