package kaze

import "math"

const (
	orientationRadius   = 6
	orientationWindow   = math.Pi / 3
	orientationStep     = 0.15
	orientationSigmaMul = 3.5
)

// computeOrientation estimates the dominant gradient direction of kpt from
// its owning level's first derivatives, by a sliding pi/3 circular-window
// scan over a radius-6*sigma Gaussian-weighted disc of samples.
func computeOrientation(lv *EvolutionLevel, kpt Keypoint) float32 {
	s := int(math.Round(float64(kpt.Size) / 2))
	if s < 1 {
		s = 1
	}
	cx, cy := int(math.Round(float64(kpt.X))), int(math.Round(float64(kpt.Y)))

	type sample struct {
		vx, vy float32
		angle  float32
	}
	var samples []sample

	sigma := orientationSigmaMul * float32(s)
	denom := 2 * sigma * sigma

	for j := -orientationRadius; j <= orientationRadius; j++ {
		for i := -orientationRadius; i <= orientationRadius; i++ {
			if i*i+j*j >= orientationRadius*orientationRadius {
				continue
			}
			px := cx + i*s
			py := cy + j*s
			if px < 0 || px >= lv.Lx.Width || py < 0 || py >= lv.Lx.Height {
				continue
			}
			w := float32(math.Exp(-float64(i*i+j*j) / float64(denom)))
			gx := w * lv.Lx.At(px, py)
			gy := w * lv.Ly.At(px, py)
			ang := wrapAngle(float32(math.Atan2(float64(gy), float64(gx))))
			samples = append(samples, sample{vx: gx, vy: gy, angle: ang})
		}
	}
	if len(samples) == 0 {
		return 0
	}

	var bestX, bestY, bestMag2 float32
	for start := float32(0); start < 2*math.Pi; start += orientationStep {
		end := start + orientationWindow
		var sumX, sumY float32
		for _, sp := range samples {
			if angleInArc(sp.angle, start, end) {
				sumX += sp.vx
				sumY += sp.vy
			}
		}
		mag2 := sumX*sumX + sumY*sumY
		if mag2 > bestMag2 {
			bestMag2 = mag2
			bestX, bestY = sumX, sumY
		}
	}
	if bestMag2 == 0 {
		return 0
	}
	return wrapAngle(float32(math.Atan2(float64(bestY), float64(bestX))))
}

func wrapAngle(a float32) float32 {
	twoPi := float32(2 * math.Pi)
	for a < 0 {
		a += twoPi
	}
	for a >= twoPi {
		a -= twoPi
	}
	return a
}

// angleInArc reports whether angle lies in [start,end) modulo 2*pi,
// handling the wrap-around case where end exceeds 2*pi.
func angleInArc(angle, start, end float32) bool {
	twoPi := float32(2 * math.Pi)
	if end <= twoPi {
		return angle >= start && angle < end
	}
	return angle >= start || angle < end-twoPi
}
