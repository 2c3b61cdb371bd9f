package github

import (
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driving"
)

// ConfigKey is the config section holding the collator's settings.
const ConfigKey = "backend.search.github"

// Register builds a Factory from the ConfigKey section of cfg and adds it,
// together with its schedule, to registry.
// opts overrides configured values the same way as in FactoryFromConfig.
func Register(
	cfg driven.ConfigReader, registry driving.IndexRegistry, opts FactoryOptions,
) error {
	section := cfg.Sub(ConfigKey)
	if section == nil {
		return fmt.Errorf("%w: missing %q config section", domain.ErrInvalidInput, ConfigKey)
	}

	schedule, err := ReadSchedule(section)
	if err != nil {
		return err
	}

	factory, err := FactoryFromConfig(section, opts)
	if err != nil {
		return err
	}

	if err := registry.AddCollator(driving.CollatorRegistration{
		Factory:  factory,
		Schedule: schedule,
	}); err != nil {
		return fmt.Errorf("register github collator: %w", err)
	}

	if opts.Logger != nil {
		opts.Logger.Info("Github collator initialized",
			"sources", len(factory.config.Sources),
			"frequency", schedule.Frequency)
	}
	return nil
}

// ReadSchedule reads the optional schedule subsection of section.
// Keys missing from the subsection keep their default values.
func ReadSchedule(section driven.ConfigReader) (domain.Schedule, error) {
	schedule := domain.DefaultSchedule()

	sub := section.Sub(KeySchedule)
	if sub == nil {
		return schedule, nil
	}

	frequency, err := readPositiveDuration(sub, "frequency")
	if err != nil {
		return domain.Schedule{}, err
	}
	if frequency > 0 {
		schedule.Frequency = frequency
	}

	timeout, err := readPositiveDuration(sub, "timeout")
	if err != nil {
		return domain.Schedule{}, err
	}
	if timeout > 0 {
		schedule.Timeout = timeout
	}

	if sub.Has("initialDelay") {
		delay, err := sub.GetDuration("initialDelay")
		if err != nil {
			return domain.Schedule{}, fmt.Errorf("schedule.initialDelay: %w", err)
		}
		if delay < 0 {
			return domain.Schedule{}, fmt.Errorf("%w: schedule.initialDelay must not be negative", domain.ErrInvalidInput)
		}
		schedule.InitialDelay = delay
	}

	return schedule, nil
}

// readPositiveDuration returns the duration at key, or zero when absent.
func readPositiveDuration(sub driven.ConfigReader, key string) (time.Duration, error) {
	if !sub.Has(key) {
		return 0, nil
	}
	d, err := sub.GetDuration(key)
	if err != nil {
		return 0, fmt.Errorf("schedule.%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: schedule.%s must be positive", domain.ErrInvalidInput, key)
	}
	return d, nil
}
