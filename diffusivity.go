package kaze

import "math"

// conductivity fills dst with the conductivity map g(Lx, Ly, k) for the
// selected diffusivity, evaluated pointwise over lx and ly.
func conductivity(kind DiffusivityKind, lx, ly *Image, k float32) *Image {
	dst := NewImage(lx.Width, lx.Height)
	k2 := k * k
	switch kind {
	case PMG1:
		for i := range dst.Pix {
			g := lx.Pix[i]*lx.Pix[i] + ly.Pix[i]*ly.Pix[i]
			dst.Pix[i] = float32(math.Exp(-float64(g) / float64(k2)))
		}
	case PMG2:
		for i := range dst.Pix {
			g := lx.Pix[i]*lx.Pix[i] + ly.Pix[i]*ly.Pix[i]
			dst.Pix[i] = 1 / (1 + g/k2)
		}
	case Weickert:
		for i := range dst.Pix {
			g := lx.Pix[i]*lx.Pix[i] + ly.Pix[i]*ly.Pix[i]
			if g == 0 {
				dst.Pix[i] = 1
				continue
			}
			ratio := g / k2
			dst.Pix[i] = 1 - float32(math.Exp(-3.315/math.Pow(float64(ratio), 4)))
		}
	}
	return dst
}

// estimateKContrast estimates the contrast factor k from the gradient
// magnitude histogram of a smoothed image, following the percentile rule:
// k is the gradient magnitude at the kcontrast_percentile quantile among
// non-zero-gradient pixels. Falls back to 0.03 when every gradient is zero.
func estimateKContrast(smoothed *Image, nbins int, percentile float32) float32 {
	lx := scharrDX(smoothed)
	ly := scharrDY(smoothed)

	n := len(lx.Pix)
	mags := make([]float32, n)
	var maxMag float32
	for i := 0; i < n; i++ {
		m := float32(math.Hypot(float64(lx.Pix[i]), float64(ly.Pix[i])))
		mags[i] = m
		if m > maxMag {
			maxMag = m
		}
	}
	if maxMag == 0 {
		return 0.03
	}

	hist := make([]int, nbins)
	binWidth := maxMag / float32(nbins)
	nonZero := 0
	for _, m := range mags {
		if m <= 0 {
			continue
		}
		nonZero++
		b := int(m / binWidth)
		if b >= nbins {
			b = nbins - 1
		}
		hist[b]++
	}
	if nonZero == 0 {
		return 0.03
	}

	target := int(float32(nonZero) * percentile)
	cum := 0
	for b := 0; b < nbins; b++ {
		cum += hist[b]
		if cum > target {
			return binWidth * float32(b+1)
		}
	}
	return maxMag
}
