package repeat

import (
	"fmt"
	"time"
)

// Config controls a repeated submission run.
type Config struct {
	// Count is the number of submissions to make.
	Count int
	// Rate caps submissions per second. Zero means unlimited.
	Rate float64
	// Concurrency is the maximum number of submissions in flight.
	Concurrency int
	// Timeout bounds the whole run. Zero means no limit.
	Timeout time.Duration
}

// DefaultConfig returns a config for a single sequential submission.
func DefaultConfig() Config {
	return Config{
		Count:       1,
		Concurrency: 1,
	}
}

// Validate checks the configuration for errors
func (c Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("repeat count must be at least 1, got %d", c.Count)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate cannot be negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}
	return nil
}

func (c Config) concurrency() int {
	if c.Concurrency < 1 {
		return 1
	}
	return min(c.Concurrency, c.Count)
}
