package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:          30000, // 30 seconds
		FollowRedirects:  boolPtr(true),
		MaxRedirects:     10,
		ValidateSSL:      boolPtr(true),
		Proxy:            "",
		Headers:          nil,
		DefaultUserAgent: boolPtr(false),
		StrictFiles:      boolPtr(false),
		Escape:           boolPtr(false),
		Output:           "console",
		Verbose:          boolPtr(false),
		NoColor:          boolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Timeout == defaults.Timeout &&
		c.GetFollowRedirects() == defaults.GetFollowRedirects() &&
		c.MaxRedirects == defaults.MaxRedirects &&
		c.GetValidateSSL() == defaults.GetValidateSSL() &&
		c.Proxy == defaults.Proxy &&
		len(c.Headers) == 0 &&
		c.GetDefaultUserAgent() == defaults.GetDefaultUserAgent() &&
		c.GetStrictFiles() == defaults.GetStrictFiles() &&
		c.GetEscape() == defaults.GetEscape() &&
		len(c.MimeTypes) == 0 &&
		c.Output == defaults.Output &&
		c.History == defaults.History &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor()
}
