package kaze

import (
	"math"

	"github.com/ykwang/kaze/utils"
)

type candidate struct {
	x, y      int
	response  float32
	size      float32
	sigmaSize int
	octave    int
	level     int // class_id: index into the evolution-level array
	sublevel  int
}

// findCandidates runs the 3x3x3 extremum search over interior scale levels
// [1, N-2], one task per level, then serially merges duplicates across
// adjacent levels.
func findCandidates(levels []*EvolutionLevel, cfg *Config) []candidate {
	n := len(levels)
	if n < 3 {
		return nil
	}

	threshold := cfg.DThreshold
	if cfg.MinDetectorThreshold > threshold {
		threshold = cfg.MinDetectorThreshold
	}

	perLevel := make([][]candidate, n)
	runSharded(n-2, cfg.Workers, func(idx int) {
		i := idx + 1
		perLevel[i] = scanLevel(levels, i, threshold)
	})

	var all []candidate
	for i := 1; i < n-1; i++ {
		all = append(all, perLevel[i]...)
	}
	return mergeDuplicates(all)
}

func scanLevel(levels []*EvolutionLevel, i int, threshold float32) []candidate {
	lv := levels[i]
	prev, next := levels[i-1], levels[i+1]
	w, h := lv.Ldet.Width, lv.Ldet.Height

	var out []candidate
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			v := lv.Ldet.At(x, y)
			if v <= threshold {
				continue
			}
			if !isStrictMax3x3(lv.Ldet, x, y, v) {
				continue
			}
			if !isMaxOrEqual3x3(prev.Ldet, x, y, v) {
				continue
			}
			if !isMaxOrEqual3x3(next.Ldet, x, y, v) {
				continue
			}
			out = append(out, candidate{
				x: x, y: y,
				response:  float32(math.Abs(float64(v))),
				size:      lv.Esigma,
				sigmaSize: lv.SigmaSize,
				octave:    lv.Octave,
				level:     i,
				sublevel:  lv.Sublevel,
			})
		}
	}
	return out
}

func isStrictMax3x3(im *Image, x, y int, v float32) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if im.At(x+dx, y+dy) >= v {
				return false
			}
		}
	}
	return true
}

func isMaxOrEqual3x3(im *Image, x, y int, v float32) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if im.At(x+dx, y+dy) > v {
				return false
			}
		}
	}
	return true
}

// mergeDuplicates collapses candidates from adjacent scale levels that land
// within sigma_size^2 pixels of each other (sigma_size = round(esigma)),
// keeping the higher-response one. Ties are broken by slice index so the
// merge is deterministic regardless of the per-level scan's scheduling
// order.
func mergeDuplicates(cands []candidate) []candidate {
	keep := make([]bool, len(cands))
	for i := range keep {
		keep[i] = true
	}
	for i := 0; i < len(cands); i++ {
		if !keep[i] {
			continue
		}
		for j := i + 1; j < len(cands); j++ {
			if !keep[j] {
				continue
			}
			a, b := cands[i], cands[j]
			if utils.Abs(a.level-b.level) > 1 {
				continue
			}
			dx := float64(a.x - b.x)
			dy := float64(a.y - b.y)
			dist2 := dx*dx + dy*dy
			sigma2 := float64(a.sigmaSize) * float64(a.sigmaSize)
			if dist2 >= sigma2 {
				continue
			}
			if a.response >= b.response {
				keep[j] = false
			} else {
				keep[i] = false
				break
			}
		}
	}

	out := make([]candidate, 0, len(cands))
	for i, c := range cands {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}

// refineCandidate attempts 3D sub-pixel quadratic refinement of c against
// its Hessian-determinant response surface. Returns (keypoint, true) on
// success; failure (singular Hessian, or displacement exceeding one pixel
// in any axis) is not an error, the candidate is simply dropped.
func refineCandidate(levels []*EvolutionLevel, cfg *Config, c candidate) (Keypoint, bool) {
	lv := levels[c.level]
	prevDet := levels[c.level-1].Ldet
	nextDet := levels[c.level+1].Ldet
	det := lv.Ldet
	x, y := c.x, c.y

	dx := (det.At(x+1, y) - det.At(x-1, y)) / 2
	dy := (det.At(x, y+1) - det.At(x, y-1)) / 2
	ds := (nextDet.At(x, y) - prevDet.At(x, y)) / 2

	center := det.At(x, y)
	dxx := det.At(x+1, y) + det.At(x-1, y) - 2*center
	dyy := det.At(x, y+1) + det.At(x, y-1) - 2*center
	dss := nextDet.At(x, y) + prevDet.At(x, y) - 2*center
	dxy := (det.At(x+1, y+1) - det.At(x+1, y-1) - det.At(x-1, y+1) + det.At(x-1, y-1)) / 4
	dxs := (nextDet.At(x+1, y) - nextDet.At(x-1, y) - prevDet.At(x+1, y) + prevDet.At(x-1, y)) / 4
	dys := (nextDet.At(x, y+1) - nextDet.At(x, y-1) - prevDet.At(x, y+1) + prevDet.At(x, y-1)) / 4

	h := [3][3]float32{
		{dxx, dxy, dxs},
		{dxy, dyy, dys},
		{dxs, dys, dss},
	}
	g := [3]float32{-dx, -dy, -ds}

	delta, ok := solve3x3(h, g)
	if !ok {
		return Keypoint{}, false
	}
	if utils.Abs(delta[0]) > 1 || utils.Abs(delta[1]) > 1 || utils.Abs(delta[2]) > 1 {
		return Keypoint{}, false
	}

	dsc := float32(c.octave) + (float32(c.sublevel)+delta[2])/float32(cfg.NSublevels)
	size := 2 * cfg.Soffset * float32(math.Pow(2, float64(dsc)))

	return Keypoint{
		X:        float32(x) + delta[0],
		Y:        float32(y) + delta[1],
		Size:     size,
		Angle:    0,
		Response: c.response,
		Octave:   c.octave,
		ClassID:  c.level,
	}, true
}

// suppressByDistance removes the lower-response member of any pair of
// keypoints closer than radius pixels. O(n^2); acceptable since keypoint
// counts are orders of magnitude smaller than pixel counts.
func suppressByDistance(kpts []Keypoint, radius float32) []Keypoint {
	if radius <= 0 {
		return kpts
	}
	keep := make([]bool, len(kpts))
	for i := range keep {
		keep[i] = true
	}
	r2 := radius * radius
	for i := 0; i < len(kpts); i++ {
		if !keep[i] {
			continue
		}
		for j := i + 1; j < len(kpts); j++ {
			if !keep[j] {
				continue
			}
			dx := kpts[i].X - kpts[j].X
			dy := kpts[i].Y - kpts[j].Y
			if dx*dx+dy*dy >= r2 {
				continue
			}
			if kpts[i].Response >= kpts[j].Response {
				keep[j] = false
			} else {
				keep[i] = false
				break
			}
		}
	}
	out := make([]Keypoint, 0, len(kpts))
	for i, k := range kpts {
		if keep[i] {
			out = append(out, k)
		}
	}
	return out
}
