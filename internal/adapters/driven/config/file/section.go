package file

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/core/ports/driven"
)

// Ensure Section implements the interface.
var _ driven.ConfigReader = (*Section)(nil)

// Section is a read-only view of one table of a configuration tree.
// Keys are dot-separated paths into nested tables.
type Section struct {
	data map[string]any
}

// NewSection wraps a decoded configuration table.
// A nil map is treated as empty.
func NewSection(data map[string]any) *Section {
	if data == nil {
		data = make(map[string]any)
	}
	return &Section{data: data}
}

// Get retrieves a configuration value by key.
func (s *Section) Get(key string) (any, bool) {
	return lookup(s.data, key)
}

// Has reports whether key exists.
func (s *Section) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// GetString retrieves a string configuration value.
func (s *Section) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, ok := val.(string)
	if !ok {
		return ""
	}
	return str
}

// GetInt retrieves an integer configuration value.
func (s *Section) GetInt(key string) int {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	// TOML integers are parsed as int64, YAML integers as int
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// GetFloat retrieves a floating point configuration value.
func (s *Section) GetFloat(key string) float64 {
	val, ok := s.Get(key)
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// durationUnits maps the keys of a duration table to their unit.
var durationUnits = map[string]time.Duration{
	"milliseconds": time.Millisecond,
	"seconds":      time.Second,
	"minutes":      time.Minute,
	"hours":        time.Hour,
	"days":         24 * time.Hour,
}

// GetDuration retrieves a duration from a Go duration string ("1h30m")
// or from a table of units ({minutes = 10, seconds = 30}).
func (s *Section) GetDuration(key string) (time.Duration, error) {
	val, ok := s.Get(key)
	if !ok {
		return 0, nil
	}

	switch v := val.(type) {
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		return d, nil
	case map[string]any:
		var total time.Duration
		for unit, amount := range v {
			scale, known := durationUnits[unit]
			if !known {
				return 0, fmt.Errorf("%w: %s: unknown duration unit %q", domain.ErrInvalidInput, key, unit)
			}
			n, isNumber := toFloat(amount)
			if !isNumber {
				return 0, fmt.Errorf("%w: %s.%s: not a number", domain.ErrInvalidInput, key, unit)
			}
			total += time.Duration(n * float64(scale))
		}
		return total, nil
	default:
		return 0, fmt.Errorf("%w: %s: expected a duration string or table, got %T",
			domain.ErrInvalidInput, key, val)
	}
}

// Sub returns the section at key, or nil if key is not a table.
func (s *Section) Sub(key string) driven.ConfigReader {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}
	table, ok := val.(map[string]any)
	if !ok {
		return nil
	}
	return NewSection(table)
}

// GetConfigArray returns the sections of an array of tables.
// Entries that are not tables are skipped.
func (s *Section) GetConfigArray(key string) []driven.ConfigReader {
	val, ok := s.Get(key)
	if !ok {
		return nil
	}

	var result []driven.ConfigReader
	switch v := val.(type) {
	case []map[string]any:
		for _, table := range v {
			result = append(result, NewSection(table))
		}
	case []any:
		for _, item := range v {
			if table, ok := item.(map[string]any); ok {
				result = append(result, NewSection(table))
			}
		}
	}
	return result
}

// lookup walks a dot-separated key through nested tables.
func lookup(data map[string]any, key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	if val, ok := data[key]; ok {
		return val, true
	}

	head, rest, nested := strings.Cut(key, ".")
	if !nested {
		return nil, false
	}
	table, ok := data[head].(map[string]any)
	if !ok {
		return nil, false
	}
	return lookup(table, rest)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
