package kaze

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeOrientationPointsAlongUniformGradient(t *testing.T) {
	lv := newEvolutionLevel(64, 64)
	for i := range lv.Lx.Pix {
		lv.Lx.Pix[i] = 1
		lv.Ly.Pix[i] = 0
	}
	kpt := Keypoint{X: 32, Y: 32, Size: 8}
	angle := computeOrientation(lv, kpt)
	assert.InDelta(t, 0, angle, 0.2)
}

func TestComputeOrientationIsWithinRange(t *testing.T) {
	lv := newEvolutionLevel(64, 64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			lv.Lx.Set(x, y, float32(x-32))
			lv.Ly.Set(x, y, float32(y-32))
		}
	}
	kpt := Keypoint{X: 32, Y: 32, Size: 8}
	angle := computeOrientation(lv, kpt)
	assert.GreaterOrEqual(t, angle, float32(0))
	assert.Less(t, angle, float32(2*math.Pi))
}

func TestAngleInArcHandlesWrapAround(t *testing.T) {
	twoPi := float32(2 * math.Pi)
	assert.True(t, angleInArc(0.05, twoPi-0.1, twoPi+0.1))
	assert.False(t, angleInArc(1.0, twoPi-0.1, twoPi+0.1))
}
