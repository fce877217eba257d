package tinyvecdb

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var configValidate = validator.New()

// Config carries the knobs a host binding may want to tune when opening
// a connection. Most callers can use DefaultConfig(); the zero value is
// also usable (validation fills in sensible defaults is not performed —
// Open always applies DefaultConfig() first and merges explicit fields).
type Config struct {
	// MaxBatchSize bounds how many records a single Insert call will
	// accept; larger Insert batches are rejected rather than silently
	// truncated. UpdateByID and DeleteByIDs do not check it.
	MaxBatchSize int `validate:"gte=1"`

	// Logger receives structured events for registry and mutation
	// lifecycle steps. Defaults to a no-op logger.
	Logger Logger `validate:"-"`

	// DisableAdvisoryLock skips the best-effort cross-process flock
	// guard around mutations. Intended for filesystems where flock is
	// unsupported (see registry.go).
	DisableAdvisoryLock bool
}

// DefaultConfig returns the configuration used when a caller does not
// supply one.
func DefaultConfig() Config {
	return Config{
		MaxBatchSize: 10_000,
		Logger:       NopLogger(),
	}
}

// Validate checks c against its struct constraints, wrapping any
// failure in ErrInvalidConfig.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = d.MaxBatchSize
	}
	if c.Logger == nil {
		c.Logger = d.Logger
	}
	return c
}
