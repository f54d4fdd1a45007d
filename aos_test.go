package kaze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAOSStepPreservesConstantImage(t *testing.T) {
	img := NewImage(16, 16)
	for i := range img.Pix {
		img.Pix[i] = 0.5
	}
	flow := NewImage(16, 16)
	for i := range flow.Pix {
		flow.Pix[i] = 1
	}

	out := aosStep(img, flow, 0.1, 4)
	for _, v := range out.Pix {
		assert.InDelta(t, 0.5, v, 1e-4)
	}
}

func TestAOSStepPreservesNonNegativity(t *testing.T) {
	img := NewImage(32, 32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := float32((x + y) % 7)
			img.Set(x, y, v)
		}
	}
	flow := NewImage(32, 32)
	for i := range flow.Pix {
		flow.Pix[i] = 0.7
	}

	out := aosStep(img, flow, 0.5, 4)
	for _, v := range out.Pix {
		assert.GreaterOrEqual(t, v, float32(0))
	}
}

func TestRunShardedVisitsEveryIndex(t *testing.T) {
	n := 37
	seen := make([]bool, n)
	runSharded(n, 8, func(i int) {
		seen[i] = true
	})
	for i, ok := range seen {
		assert.True(t, ok, "index %d not visited", i)
	}
}
