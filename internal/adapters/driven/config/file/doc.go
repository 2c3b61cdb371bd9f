// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML or YAML configuration with ${ENV} expansion
//   - Section: read-only view of one configuration table
package file
