package kaze

import "testing"

import "github.com/stretchr/testify/assert"

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig(64, 64)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 64, cfg.descriptorDims())
}

func TestValidateRejectsBadDimensions(t *testing.T) {
	cfg := DefaultConfig(0, 64)
	err := cfg.Validate()
	assert.Error(t, err)
	var ee *EngineError
	assert.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrInvalidConfig, ee.Kind)
}

func TestValidateRejectsTooFewLevels(t *testing.T) {
	cfg := DefaultConfig(64, 64)
	cfg.Omax = 1
	cfg.NSublevels = 1
	assert.Error(t, cfg.Validate())
}

func TestValidateClampsWorkers(t *testing.T) {
	cfg := DefaultConfig(64, 64)
	cfg.Workers = maxWorkers + 100
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, maxWorkers, cfg.Workers)
}

func TestExtendedSelectsDims(t *testing.T) {
	cfg := DefaultConfig(64, 64)
	cfg.Extended = true
	assert.Equal(t, 128, cfg.descriptorDims())
}
