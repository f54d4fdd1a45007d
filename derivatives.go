package kaze

// computeDerivatives fills Lx, Ly, Lxx, Lxy, Lyy and Ldet for every
// evolution level. Levels are independent (read Lsmooth, write their own
// buffers only), so they run as one task per level across the worker pool.
func computeDerivatives(levels []*EvolutionLevel, workers int) {
	runSharded(len(levels), workers, func(i int) {
		computeLevelDerivatives(levels[i])
	})
}

func computeLevelDerivatives(lv *EvolutionLevel) {
	lx := scharrDX(lv.Lsmooth)
	ly := scharrDY(lv.Lsmooth)
	lxx := scharrDX(lx)
	lyy := scharrDY(ly)
	lxy := scharrDY(lx)

	sn1 := float32(lv.SigmaSize)
	sn2 := sn1 * sn1
	scaleInPlace(lx, sn1)
	scaleInPlace(ly, sn1)
	scaleInPlace(lxx, sn2)
	scaleInPlace(lxy, sn2)
	scaleInPlace(lyy, sn2)

	copy(lv.Lx.Pix, lx.Pix)
	copy(lv.Ly.Pix, ly.Pix)
	copy(lv.Lxx.Pix, lxx.Pix)
	copy(lv.Lxy.Pix, lxy.Pix)
	copy(lv.Lyy.Pix, lyy.Pix)

	for p := range lv.Ldet.Pix {
		lv.Ldet.Pix[p] = lxx.Pix[p]*lyy.Pix[p] - lxy.Pix[p]*lxy.Pix[p]
	}
}
