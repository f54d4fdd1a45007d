package kaze

import (
	"math"

	"github.com/ykwang/kaze/utils"
)

// bilinearSample reads im at a continuous coordinate using a symmetric
// floor/floor corner convention: both corners come from math.Floor of the
// +/-0.5-shifted sample, clamped to the image rectangle so a footprint
// straddling the border still yields a defined value instead of requiring
// a separate in-bounds rejection.
func bilinearSample(im *Image, sx, sy float32) float32 {
	fx0 := sx - 0.5
	fy0 := sy - 0.5
	x1 := int(math.Floor(float64(fx0)))
	y1 := int(math.Floor(float64(fy0)))
	x2 := x1 + 1
	y2 := y1 + 1

	fx := fx0 - float32(x1)
	fy := fy0 - float32(y1)

	x1c := utils.ClampInt(x1, im.Width)
	x2c := utils.ClampInt(x2, im.Width)
	y1c := utils.ClampInt(y1, im.Height)
	y2c := utils.ClampInt(y2, im.Height)

	w00 := (1 - fx) * (1 - fy)
	w10 := fx * (1 - fy)
	w01 := (1 - fx) * fy
	w11 := fx * fy

	return w00*im.At(x1c, y1c) + w10*im.At(x2c, y1c) + w01*im.At(x1c, y2c) + w11*im.At(x2c, y2c)
}

// rotate2D rotates (x,y) counter-clockwise by theta; theta==0 (the upright
// case) is a no-op. Descriptor sampling uses it with +angle to place a
// descriptor-local grid offset into image space; SURF and M-SURF also use
// it with -angle to bring a sampled gradient vector back into the
// keypoint's local frame (G-SURF's gauge derivatives need no such step).
func rotate2D(x, y, theta float32) (float32, float32) {
	if theta == 0 {
		return x, y
	}
	c := float32(math.Cos(float64(theta)))
	s := float32(math.Sin(float64(theta)))
	return x*c - y*s, x*s + y*c
}

// forEachGridSample walks a cellsPerAxis x cellsPerAxis grid of
// samplesPerCell x samplesPerCell points each, covering a
// (cellsPerAxis*samplesPerCell*s) square window centred on the keypoint and
// rotated by angle, invoking fn with each sample's cell indices and its
// image-space coordinates. Shared by SURF and G-SURF, which use the same
// 4x4x5x5 grid shape over different derivative buffers.
func forEachGridSample(kpt Keypoint, s float32, angle float32, cellsPerAxis, samplesPerCell int, fn func(cx, cy int, imgX, imgY float32)) {
	total := cellsPerAxis * samplesPerCell
	// Grid is centred at the half-integer midpoint of the sample indices
	// (offsets run symmetrically from -(total/2-0.5) to +(total/2-0.5))
	// rather than at an integer sample; a deliberate symmetric choice, not
	// an off-by-one.
	half := float32(total)/2 - 0.5
	for gy := 0; gy < total; gy++ {
		for gx := 0; gx < total; gx++ {
			offX := float32(gx) - half
			offY := float32(gy) - half
			rx, ry := rotate2D(offX, offY, angle)
			fn(gx/samplesPerCell, gy/samplesPerCell, kpt.X+rx*s, kpt.Y+ry*s)
		}
	}
}

// buildDescriptors computes one descriptor row per keypoint, dispatched
// once per run to the configured family/orientation/dimension combination,
// each keypoint running as an independent task over read-only level
// buffers and writing only its own output row, so no synchronization is
// needed across tasks.
func buildDescriptors(levels []*EvolutionLevel, kpts []Keypoint, cfg *Config) *DescriptorMatrix {
	dims := cfg.descriptorDims()
	out := NewDescriptorMatrix(len(kpts), dims)

	fn := descriptorFunc(cfg.Descriptor, cfg.Upright, cfg.Extended)

	runSharded(len(kpts), cfg.Workers, func(i int) {
		kpt := kpts[i]
		lv := levels[kpt.ClassID]
		row := out.Row(i)
		fn(lv, kpt, row)
		normalizeDescriptor(row, cfg)
	})
	return out
}

type descriptorFn func(lv *EvolutionLevel, kpt Keypoint, out []float32)

// descriptorFunc resolves the tagged-variant dispatch once per run (design
// note: prefer a dispatch chosen once per call, not per keypoint).
func descriptorFunc(kind DescriptorKind, upright, extended bool) descriptorFn {
	switch kind {
	case SURF:
		if upright {
			if extended {
				return surfDescriptor128Upright
			}
			return surfDescriptor64Upright
		}
		if extended {
			return surfDescriptor128
		}
		return surfDescriptor64
	case MSURF:
		if upright {
			if extended {
				return msurfDescriptor128Upright
			}
			return msurfDescriptor64Upright
		}
		if extended {
			return msurfDescriptor128
		}
		return msurfDescriptor64
	case GSURF:
		if upright {
			if extended {
				return gsurfDescriptor128Upright
			}
			return gsurfDescriptor64Upright
		}
		if extended {
			return gsurfDescriptor128
		}
		return gsurfDescriptor64
	}
	return surfDescriptor64
}

// normalizeDescriptor L2-normalises row in place, then optionally applies
// iterative clip-normalisation to reduce the influence of a few
// large-magnitude bins on illumination changes.
func normalizeDescriptor(row []float32, cfg *Config) {
	l2Normalize(row)
	if !cfg.UseClippingNormalisation {
		return
	}
	r := cfg.ClipRatio / float32(math.Sqrt(float64(len(row))))
	for iter := 0; iter < cfg.ClipNIter; iter++ {
		for i := range row {
			row[i] = utils.Clamp(row[i], -r, r)
		}
		l2Normalize(row)
	}
}

func l2Normalize(row []float32) {
	var sum float32
	for _, v := range row {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(float64(sum)))
	for i := range row {
		row[i] /= norm
	}
}
