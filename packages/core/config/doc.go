// Package config handles configuration loading and management for formpost.
//
// It provides functionality for:
//   - Loading configuration from .formpost.json or formpost.config.json files
//   - Default configuration values
//   - Merging file configuration with command line overrides
package config
