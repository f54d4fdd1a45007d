package kaze

import "math"

// gaussianKernel1D builds a normalised 1D Gaussian kernel covering
// +/-3 sigma, the truncation radius past which the tails contribute
// negligible weight.
func gaussianKernel1D(sigma float32) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}
	radius := int(math.Ceil(float64(sigma) * 3))
	if radius < 1 {
		radius = 1
	}
	k := make([]float32, 2*radius+1)
	var sum float32
	s2 := 2 * sigma * sigma
	for i := -radius; i <= radius; i++ {
		v := float32(math.Exp(-float64(i*i) / float64(s2)))
		k[i+radius] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// gaussianBlur applies a separable Gaussian blur of the given sigma to src,
// replicating edge pixels outside the image rectangle. This and Scharr below
// are hand-rolled rather than built on a third-party imaging package: KAZE's
// buffers are float32 single-channel, not the uint8 NRGBA pixels most imaging
// libraries convolve over, so a general-purpose convolution primitive would
// buy little over a direct separable implementation.
func gaussianBlur(src *Image, sigma float32) *Image {
	if sigma <= 0 {
		return src.Clone()
	}
	k := gaussianKernel1D(sigma)
	radius := len(k) / 2

	tmp := NewImage(src.Width, src.Height)
	out := NewImage(src.Width, src.Height)

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			var acc float32
			for i := -radius; i <= radius; i++ {
				sx := clampCoord(x+i, src.Width)
				acc += k[i+radius] * src.At(sx, y)
			}
			tmp.Set(x, y, acc)
		}
	}
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			var acc float32
			for i := -radius; i <= radius; i++ {
				sy := clampCoord(y+i, src.Height)
				acc += k[i+radius] * tmp.At(x, sy)
			}
			out.Set(x, y, acc)
		}
	}
	return out
}

func clampCoord(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n-1 {
		return n - 1
	}
	return v
}

var (
	scharrX = [3][3]float32{
		{-3, 0, 3},
		{-10, 0, 10},
		{-3, 0, 3},
	}
	scharrY = [3][3]float32{
		{-3, -10, -3},
		{0, 0, 0},
		{3, 10, 3},
	}
)

// scharr convolves src with the given 3x3 Scharr kernel (scharrX for the
// x-derivative, scharrY for the y-derivative), edge-replicating outside the
// image rectangle.
func scharr(src *Image, kernel [3][3]float32) *Image {
	out := NewImage(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			var acc float32
			for ky := -1; ky <= 1; ky++ {
				sy := clampCoord(y+ky, src.Height)
				for kx := -1; kx <= 1; kx++ {
					sx := clampCoord(x+kx, src.Width)
					acc += kernel[ky+1][kx+1] * src.At(sx, sy)
				}
			}
			out.Set(x, y, acc)
		}
	}
	return out
}

func scharrDX(src *Image) *Image { return scharr(src, scharrX) }
func scharrDY(src *Image) *Image { return scharr(src, scharrY) }

// scaleInPlace multiplies every sample of im by s.
func scaleInPlace(im *Image, s float32) {
	for i := range im.Pix {
		im.Pix[i] *= s
	}
}
