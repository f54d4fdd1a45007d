package kaze

import "math"

// allocateLevels builds the evolution-level array and fills in every
// per-level scalar (esigma, etime, sigma_size, octave, sublevel). Buffers
// are allocated once; scalars never change for the lifetime of the Engine
// since they depend only on Config.
func allocateLevels(cfg *Config) []*EvolutionLevel {
	n := cfg.Omax * cfg.NSublevels
	levels := make([]*EvolutionLevel, n)
	for o := 0; o < cfg.Omax; o++ {
		for s := 0; s < cfg.NSublevels; s++ {
			i := o*cfg.NSublevels + s
			lv := newEvolutionLevel(cfg.ImgWidth, cfg.ImgHeight)
			esigma := cfg.Soffset * float32(math.Pow(2, float64(s)/float64(cfg.NSublevels)+float64(o)))
			lv.Esigma = esigma
			lv.Etime = esigma * esigma / 2
			lv.SigmaSize = int(math.Round(float64(esigma)))
			lv.Octave = o
			lv.Sublevel = s
			levels[i] = lv
		}
	}
	return levels
}

func zeroLevels(levels []*EvolutionLevel) {
	for _, lv := range levels {
		lv.zero()
	}
}

// buildScaleSpace fills levels[i].Lt for every i, following the AOS
// diffusion recurrence: each level's conductivity comes from the previous
// level's derivatives, and the implicit step runs for the delta between
// consecutive etime scalars.
func buildScaleSpace(levels []*EvolutionLevel, img *Image, cfg *Config) error {
	copy(levels[0].Lt.Pix, gaussianBlur(img, cfg.Soffset).Pix)
	copy(levels[0].Lsmooth.Pix, gaussianBlur(levels[0].Lt, cfg.SDerivatives).Pix)

	k := cfg.DiffusivityK
	if k <= 0 {
		k = estimateKContrast(levels[0].Lsmooth, cfg.KContrastNBins, cfg.KContrastPercentile)
	}

	for i := 1; i < len(levels); i++ {
		cur, prev := levels[i], levels[i-1]

		copy(cur.Lsmooth.Pix, gaussianBlur(prev.Lt, cfg.SDerivatives).Pix)
		lx := scharrDX(cur.Lsmooth)
		ly := scharrDY(cur.Lsmooth)
		copy(cur.Lflow.Pix, conductivity(cfg.Diffusivity, lx, ly, k).Pix)

		dt := cur.Etime - prev.Etime
		copy(cur.Lt.Pix, aosStep(prev.Lt, cur.Lflow, dt, cfg.Workers).Pix)

		if !finiteImage(cur.Lt) {
			return numericalFailure(i, "non-finite value after AOS diffusion step")
		}
	}
	return nil
}

func finiteImage(im *Image) bool {
	for _, v := range im.Pix {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}
