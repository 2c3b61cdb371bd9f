package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// Supported configuration formats, chosen by file extension.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// envRef matches ${NAME} references in string values.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ConfigStore is a file-based implementation of driven.ConfigStore.
// The file is TOML unless its extension is .yaml or .yml.
// ${NAME} references in string values are replaced with environment
// variables when the file is loaded.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	section  *Section
}

// NewConfigStore creates a config store for the file at path and loads it.
// If path is empty, DefaultConfigPath is used. A missing file yields an
// empty configuration.
func NewConfigStore(path string) (*ConfigStore, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	s := &ConfigStore{
		filePath: path,
		section:  NewSection(nil),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads configuration from the file.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// No config file yet - that's fine, start empty
			s.swap(NewSection(nil))
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	section, err := Parse(data, FormatForPath(s.filePath))
	if err != nil {
		return fmt.Errorf("parse config %s: %w", s.filePath, err)
	}
	s.swap(section)
	return nil
}

func (s *ConfigStore) swap(section *Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.section = section
}

func (s *ConfigStore) current() *Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.section
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) { return s.current().Get(key) }

// Has reports whether key exists.
func (s *ConfigStore) Has(key string) bool { return s.current().Has(key) }

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string { return s.current().GetString(key) }

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int { return s.current().GetInt(key) }

// GetFloat retrieves a floating point configuration value.
func (s *ConfigStore) GetFloat(key string) float64 { return s.current().GetFloat(key) }

// GetDuration retrieves a duration configuration value.
func (s *ConfigStore) GetDuration(key string) (time.Duration, error) {
	return s.current().GetDuration(key)
}

// Sub returns the section at key.
func (s *ConfigStore) Sub(key string) driven.ConfigReader { return s.current().Sub(key) }

// GetConfigArray returns the sections of an array of tables.
func (s *ConfigStore) GetConfigArray(key string) []driven.ConfigReader {
	return s.current().GetConfigArray(key)
}

// FormatForPath returns the configuration format implied by path.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Parse decodes a configuration document and expands environment references.
func Parse(data []byte, format string) (*Section, error) {
	var loaded map[string]any

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &loaded); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	expanded, _ := expandEnv(loaded).(map[string]any)
	return NewSection(expanded), nil
}

// expandEnv replaces ${NAME} references in every string of a decoded tree.
// Unset variables expand to the empty string.
func expandEnv(v any) any {
	switch val := v.(type) {
	case string:
		return envRef.ReplaceAllStringFunc(val, func(ref string) string {
			return os.Getenv(ref[2 : len(ref)-1])
		})
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = expandEnv(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = expandEnv(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = expandEnv(item)
		}
		return out
	default:
		return v
	}
}
