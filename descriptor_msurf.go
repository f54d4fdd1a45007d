package kaze

import "math"

// M-SURF descriptor construction: an overlapping 4x4 grid, each cell a 9x9
// sample window stepped by 5s between cell starts (so adjacent cells
// overlap), s = round(size/2). Every sample contributes through an inner
// Gaussian weighted by its image-space distance to the cell centre
// (sigma=2.5s); every cell's aggregated vector is then scaled by an outer
// Gaussian over the cell's grid index (sigma=1.5).

// msurfCellOffset returns the local-grid start offset (in units of s) for
// cell index n in [0,3]: -12, -7, -2, 3.
func msurfCellOffset(n int) float32 {
	return -12 + 5*float32(n)
}

func msurfOuterWeight(cx, cy int) float32 {
	dx := float32(cx) - 1.5
	dy := float32(cy) - 1.5
	return float32(math.Exp(-float64(dx*dx+dy*dy) / (2 * 1.5 * 1.5)))
}

func msurfDescriptor64Upright(lv *EvolutionLevel, kpt Keypoint, out []float32) {
	msurfAccumulate64(lv, kpt, out, 0)
}

func msurfDescriptor64(lv *EvolutionLevel, kpt Keypoint, out []float32) {
	msurfAccumulate64(lv, kpt, out, kpt.Angle)
}

func msurfDescriptor128Upright(lv *EvolutionLevel, kpt Keypoint, out []float32) {
	msurfAccumulate128(lv, kpt, out, 0)
}

func msurfDescriptor128(lv *EvolutionLevel, kpt Keypoint, out []float32) {
	msurfAccumulate128(lv, kpt, out, kpt.Angle)
}

// msurfSample evaluates one grid sample's rotated image coordinates plus
// its inner-Gaussian-weighted, locally-rotated derivative pair. The inner
// Gaussian is centred at the cell's start offset plus the 5-unit sample
// step, not the 9-sample window's geometric midpoint.
func msurfSample(lv *EvolutionLevel, kpt Keypoint, s, angle float32, cx, cy, li, lj int) (dx, dy float32) {
	offX := msurfCellOffset(cx) + float32(li)
	offY := msurfCellOffset(cy) + float32(lj)
	rx, ry := rotate2D(offX, offY, angle)
	imgX := kpt.X + rx*s
	imgY := kpt.Y + ry*s

	centerOffX := msurfCellOffset(cx) + 5
	centerOffY := msurfCellOffset(cy) + 5
	crx, cry := rotate2D(centerOffX, centerOffY, angle)
	centerX := kpt.X + crx*s
	centerY := kpt.Y + cry*s

	dist2 := (imgX-centerX)*(imgX-centerX) + (imgY-centerY)*(imgY-centerY)
	sigma := 2.5 * s
	inner := float32(math.Exp(-float64(dist2) / float64(2*sigma*sigma)))

	dxRaw := bilinearSample(lv.Lx, imgX, imgY)
	dyRaw := bilinearSample(lv.Ly, imgX, imgY)
	ldx, ldy := rotate2D(dxRaw, dyRaw, -angle)
	return inner * ldx, inner * ldy
}

func msurfAccumulate64(lv *EvolutionLevel, kpt Keypoint, out []float32, angle float32) {
	s := surfCellSize(kpt)
	for cy := 0; cy < 4; cy++ {
		for cx := 0; cx < 4; cx++ {
			var sx, sy, sax, say float32
			for lj := 0; lj < 9; lj++ {
				for li := 0; li < 9; li++ {
					dx, dy := msurfSample(lv, kpt, s, angle, cx, cy, li, lj)
					sx += dx
					sy += dy
					sax += absf(dx)
					say += absf(dy)
				}
			}
			w := msurfOuterWeight(cx, cy)
			base := (cy*4 + cx) * 4
			out[base+0] = w * sx
			out[base+1] = w * sy
			out[base+2] = w * sax
			out[base+3] = w * say
		}
	}
}

func msurfAccumulate128(lv *EvolutionLevel, kpt Keypoint, out []float32, angle float32) {
	s := surfCellSize(kpt)
	for cy := 0; cy < 4; cy++ {
		for cx := 0; cx < 4; cx++ {
			var sums [8]float32
			for lj := 0; lj < 9; lj++ {
				for li := 0; li < 9; li++ {
					dx, dy := msurfSample(lv, kpt, s, angle, cx, cy, li, lj)
					if dy >= 0 {
						sums[0] += dx
						sums[2] += absf(dx)
					} else {
						sums[1] += dx
						sums[3] += absf(dx)
					}
					if dx >= 0 {
						sums[4] += dy
						sums[6] += absf(dy)
					} else {
						sums[5] += dy
						sums[7] += absf(dy)
					}
				}
			}
			w := msurfOuterWeight(cx, cy)
			base := (cy*4 + cx) * 8
			for k := 0; k < 8; k++ {
				out[base+k] = w * sums[k]
			}
		}
	}
}
