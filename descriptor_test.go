package kaze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBilinearSampleAtPixelCenterIsExact(t *testing.T) {
	img := NewImage(8, 8)
	img.Set(3, 4, 1.5)
	v := bilinearSample(img, 3.5, 4.5)
	assert.InDelta(t, 1.5, v, 1e-5)
}

func TestBilinearSampleClampsOutOfBounds(t *testing.T) {
	img := NewImage(4, 4)
	for i := range img.Pix {
		img.Pix[i] = 2
	}
	v := bilinearSample(img, -50, -50)
	assert.InDelta(t, 2, v, 1e-5)
}

func TestRotate2DZeroAngleIsIdentity(t *testing.T) {
	x, y := rotate2D(3, -2, 0)
	assert.Equal(t, float32(3), x)
	assert.Equal(t, float32(-2), y)
}

func TestNormalizeDescriptorL2Unit(t *testing.T) {
	cfg := DefaultConfig(32, 32)
	row := []float32{3, 4, 0, 0}
	normalizeDescriptor(row, &cfg)
	var sum float32
	for _, v := range row {
		sum += v * v
	}
	assert.InDelta(t, 1, sum, 1e-4)
}

func TestNormalizeDescriptorIdempotent(t *testing.T) {
	cfg := DefaultConfig(32, 32)
	row := []float32{1, 2, 3, 4, 5}
	normalizeDescriptor(row, &cfg)
	again := append([]float32{}, row...)
	normalizeDescriptor(again, &cfg)
	assert.InDeltaSlice(t, toF64(row), toF64(again), 1e-5)
}

func TestClippingNormalisationKeepsUnitNorm(t *testing.T) {
	cfg := DefaultConfig(32, 32)
	cfg.UseClippingNormalisation = true
	cfg.ClipNIter = 5
	cfg.ClipRatio = 0.2
	row := make([]float32, 64)
	row[0] = 1
	normalizeDescriptor(row, &cfg)
	var sum float32
	for _, v := range row {
		sum += v * v
	}
	assert.InDelta(t, 1, sum, 1e-3)
}

func TestDescriptorDispatchCoversAllTwelveCombinations(t *testing.T) {
	kinds := []DescriptorKind{SURF, MSURF, GSURF}
	for _, k := range kinds {
		for _, upright := range []bool{true, false} {
			for _, extended := range []bool{true, false} {
				fn := descriptorFunc(k, upright, extended)
				assert.NotNil(t, fn)
			}
		}
	}
}
