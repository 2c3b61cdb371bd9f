package driven

import "time"

// ConfigReader provides read access to a configuration tree.
// Keys are dot-separated paths into nested sections (e.g. "backend.search.github").
type ConfigReader interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// Has reports whether key exists.
	Has(key string) bool

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't a number.
	GetInt(key string) int

	// GetFloat retrieves a floating point configuration value.
	// Returns 0 if key doesn't exist or isn't a number.
	GetFloat(key string) float64

	// GetDuration retrieves a duration. Both Go duration strings ("10m")
	// and tables of units ({minutes = 10}) are accepted.
	// Returns 0 and no error if key doesn't exist.
	GetDuration(key string) (time.Duration, error)

	// Sub returns the section at key, or nil if key is not a section.
	Sub(key string) ConfigReader

	// GetConfigArray returns the sections of an array of tables.
	// Returns nil if key doesn't exist or isn't an array of sections.
	GetConfigArray(key string) []ConfigReader
}

// ConfigStore is a ConfigReader backed by persistent storage.
// Implementations handle file formats (e.g., TOML, YAML) and type conversion.
type ConfigStore interface {
	ConfigReader

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
