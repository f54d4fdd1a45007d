package kaze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGaussianBlurPreservesConstantImage(t *testing.T) {
	img := NewImage(16, 16)
	for i := range img.Pix {
		img.Pix[i] = 0.75
	}
	out := gaussianBlur(img, 1.6)
	for _, v := range out.Pix {
		assert.InDelta(t, 0.75, v, 1e-4)
	}
}

func TestGaussianBlurZeroSigmaIsIdentity(t *testing.T) {
	img := NewImage(4, 4)
	img.Set(2, 2, 9)
	out := gaussianBlur(img, 0)
	assert.InDeltaSlice(t, toF64(img.Pix), toF64(out.Pix), 1e-9)
}

func TestScharrOfConstantImageIsZero(t *testing.T) {
	img := NewImage(8, 8)
	for i := range img.Pix {
		img.Pix[i] = 0.4
	}
	dx := scharrDX(img)
	dy := scharrDY(img)
	for i := range dx.Pix {
		assert.InDelta(t, 0, dx.Pix[i], 1e-6)
		assert.InDelta(t, 0, dy.Pix[i], 1e-6)
	}
}

func TestGaussianKernel1DIsNormalised(t *testing.T) {
	k := gaussianKernel1D(2.0)
	var sum float32
	for _, v := range k {
		sum += v
	}
	assert.InDelta(t, 1, sum, 1e-5)
}
