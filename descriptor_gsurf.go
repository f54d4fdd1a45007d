package kaze

// G-SURF descriptor construction: the same 4x4x5x5 grid as SURF, but each
// sample contributes gauge derivatives (Lww, Lvv) computed from the level's
// first and second derivatives instead of (Lx, Ly) directly. Gauge
// derivatives are expressed in the local gradient frame and are therefore
// already rotation-invariant; only the sampling grid itself needs to be
// rotated into image space for the oriented variant.
//
// The upright+128 combination is implemented by calling the oriented
// sampling routine with angle forced to 0, which is what "upright" means
// for every other family/dimension combination.

func gaugeDerivatives(lv *EvolutionLevel, imgX, imgY float32) (lww, lvv float32) {
	lx := bilinearSample(lv.Lx, imgX, imgY)
	ly := bilinearSample(lv.Ly, imgX, imgY)
	lxx := bilinearSample(lv.Lxx, imgX, imgY)
	lxy := bilinearSample(lv.Lxy, imgX, imgY)
	lyy := bilinearSample(lv.Lyy, imgX, imgY)

	modg := lx*lx + ly*ly
	if modg == 0 {
		return 0, 0
	}
	lww = (lx*lx*lxx + 2*lx*lxy*ly + ly*ly*lyy) / modg
	lvv = (-2*lx*lxy*ly + lxx*ly*ly + lx*lx*lyy) / modg
	return lww, lvv
}

func gsurfDescriptor64Upright(lv *EvolutionLevel, kpt Keypoint, out []float32) {
	gsurfAccumulate64(lv, kpt, out, 0)
}

func gsurfDescriptor64(lv *EvolutionLevel, kpt Keypoint, out []float32) {
	gsurfAccumulate64(lv, kpt, out, kpt.Angle)
}

func gsurfDescriptor128Upright(lv *EvolutionLevel, kpt Keypoint, out []float32) {
	gsurfAccumulate128(lv, kpt, out, 0)
}

func gsurfDescriptor128(lv *EvolutionLevel, kpt Keypoint, out []float32) {
	gsurfAccumulate128(lv, kpt, out, kpt.Angle)
}

func gsurfAccumulate64(lv *EvolutionLevel, kpt Keypoint, out []float32, angle float32) {
	s := surfCellSize(kpt)
	forEachGridSample(kpt, s, angle, 4, 5, func(cx, cy int, imgX, imgY float32) {
		lww, lvv := gaugeDerivatives(lv, imgX, imgY)
		base := (cy*4 + cx) * 4
		out[base+0] += lww
		out[base+1] += lvv
		out[base+2] += absf(lww)
		out[base+3] += absf(lvv)
	})
}

func gsurfAccumulate128(lv *EvolutionLevel, kpt Keypoint, out []float32, angle float32) {
	s := surfCellSize(kpt)
	forEachGridSample(kpt, s, angle, 4, 5, func(cx, cy int, imgX, imgY float32) {
		lww, lvv := gaugeDerivatives(lv, imgX, imgY)
		base := (cy*4 + cx) * 8
		if lvv >= 0 {
			out[base+0] += lww
			out[base+2] += absf(lww)
		} else {
			out[base+1] += lww
			out[base+3] += absf(lww)
		}
		if lww >= 0 {
			out[base+4] += lvv
			out[base+6] += absf(lvv)
		} else {
			out[base+5] += lvv
			out[base+7] += absf(lvv)
		}
	})
}
