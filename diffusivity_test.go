package kaze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConductivityZeroGradientIsOne(t *testing.T) {
	lx := NewImage(4, 4)
	ly := NewImage(4, 4)
	for _, kind := range []DiffusivityKind{PMG1, PMG2, Weickert} {
		c := conductivity(kind, lx, ly, 0.03)
		for _, v := range c.Pix {
			assert.InDelta(t, 1, v, 1e-5, "diffusivity kind %v", kind)
		}
	}
}

func TestConductivityIsBoundedInUnitInterval(t *testing.T) {
	lx := NewImage(4, 4)
	ly := NewImage(4, 4)
	for i := range lx.Pix {
		lx.Pix[i] = float32(i) * 0.3
		ly.Pix[i] = float32(i) * -0.2
	}
	for _, kind := range []DiffusivityKind{PMG1, PMG2, Weickert} {
		c := conductivity(kind, lx, ly, 0.05)
		for _, v := range c.Pix {
			assert.GreaterOrEqual(t, v, float32(0))
			assert.LessOrEqual(t, v, float32(1.0001))
		}
	}
}

func TestEstimateKContrastFallsBackOnFlatImage(t *testing.T) {
	img := NewImage(16, 16)
	for i := range img.Pix {
		img.Pix[i] = 0.5
	}
	k := estimateKContrast(img, 300, 0.7)
	assert.InDelta(t, 0.03, k, 1e-6)
}
