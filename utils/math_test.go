package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMax(t *testing.T) {
	assert.Equal(t, 2, Min(2, 5))
	assert.Equal(t, 2, Min(5, 2))
	assert.Equal(t, 5, Max(2, 5))
	assert.Equal(t, 5, Max(5, 2))
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, 3, Abs(3))
	assert.Equal(t, float32(2.5), Abs(float32(-2.5)))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-5, 0, 10))
	assert.Equal(t, 10, Clamp(15, 0, 10))
	assert.Equal(t, 5, Clamp(5, 0, 10))
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 0, ClampInt(-1, 10))
	assert.Equal(t, 9, ClampInt(20, 10))
	assert.Equal(t, 4, ClampInt(4, 10))
}
