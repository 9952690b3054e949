package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the formpost configuration
type Config struct {
	Timeout          int               `json:"timeout,omitempty"` // milliseconds
	FollowRedirects  *bool             `json:"followRedirects,omitempty"`
	MaxRedirects     int               `json:"maxRedirects,omitempty"`
	ValidateSSL      *bool             `json:"validateSSL,omitempty"`
	Proxy            string            `json:"proxy,omitempty"`
	Headers          map[string]string `json:"headers,omitempty"` // Default headers for all requests
	DefaultUserAgent *bool             `json:"defaultUserAgent,omitempty"`
	StrictFiles      *bool             `json:"strictFiles,omitempty"`
	Escape           *bool             `json:"escape,omitempty"`
	MimeTypes        map[string]string `json:"mimeTypes,omitempty"` // Extra extension to media type entries
	Output           string            `json:"output,omitempty"`
	History          string            `json:"history,omitempty"` // SQLite file recording submissions
	Verbose          *bool             `json:"verbose,omitempty"`
	NoColor          *bool             `json:"noColor,omitempty"`
}

// boolPtr returns a pointer to a bool value
func boolPtr(b bool) *bool {
	return &b
}

// BoolPtr is exported version of boolPtr for external use
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetDefaultUserAgent returns whether the default User-Agent is sent, defaulting to false
func (c *Config) GetDefaultUserAgent() bool {
	return getBool(c.DefaultUserAgent, false)
}

// GetStrictFiles returns whether unreadable attachments fail a submission, defaulting to false
func (c *Config) GetStrictFiles() bool {
	return getBool(c.StrictFiles, false)
}

// GetEscape returns whether urlencoded bodies are percent-encoded, defaulting to false
func (c *Config) GetEscape() bool {
	return getBool(c.Escape, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// TimeoutDuration returns the request timeout as a duration
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".formpost.json",
	"formpost.config.json",
	".formpostrc",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.History != "" {
		result.History = other.History
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.DefaultUserAgent != nil {
		result.DefaultUserAgent = other.DefaultUserAgent
	}
	if other.StrictFiles != nil {
		result.StrictFiles = other.StrictFiles
	}
	if other.Escape != nil {
		result.Escape = other.Escape
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	result.Headers = mergeMaps(c.Headers, other.Headers)
	result.MimeTypes = mergeMaps(c.MimeTypes, other.MimeTypes)

	return &result
}

func mergeMaps(base, over map[string]string) map[string]string {
	if len(base) == 0 && len(over) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
