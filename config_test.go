package tinyvecdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidateRejectsNonPositiveBatchSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBatchSize = 0
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigWithDefaultsFillsZeroValue(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultConfig().MaxBatchSize, cfg.MaxBatchSize)
	assert.NotNil(t, cfg.Logger)
	assert.NoError(t, cfg.Validate())
}
