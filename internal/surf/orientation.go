package surf

import "math"

const (
	twoPi = float32(2 * math.Pi)

	// orientationSamples is the number of integer offsets (i, j) with
	// i² + j² < 36.
	orientationSamples = 109

	orientationStep   = float32(0.15)
	orientationWindow = float32(math.Pi / 3)
	orientationWrap   = float32(5 * math.Pi / 3)
)

// getAngle returns the angle of (x, y) from the +X axis in [0, 2π).
func getAngle(x, y float32) float32 {
	a := float32(math.Atan2(float64(y), float64(x)))
	if a < 0 {
		a += twoPi
	}
	// A tiny negative angle rounds up to 2π in single precision.
	if a >= twoPi {
		a = 0
	}
	return a
}

// roundHalfUp converts a non-negative coordinate to the nearest pixel.
func roundHalfUp(v float32) int {
	return int(v + 0.5)
}

// assignOrientation sets p.Orientation to the direction of the strongest
// Haar response sum within a sliding π/3 window.
func assignOrientation(ii *integralImage, p *InterestPoint) {
	var resX, resY, ang [orientationSamples]float32

	c := roundHalfUp(p.X)
	r := roundHalfUp(p.Y)
	s := roundHalfUp(p.Scale)

	n := 0
	for i := -6; i <= 6; i++ {
		for j := -6; j <= 6; j++ {
			if i*i+j*j >= 36 {
				continue
			}
			g := float32(gauss25[absInt(i)][absInt(j)])
			resX[n] = g * float32(ii.haarX(r+j*s, c+i*s, 4*s))
			resY[n] = g * float32(ii.haarY(r+j*s, c+i*s, 4*s))
			ang[n] = getAngle(resX[n], resY[n])
			n++
		}
	}

	var maxSumX, maxSumY, best float32
	for ang1 := float32(0); ang1 < twoPi; ang1 += orientationStep {
		var ang2 float32
		if ang1+orientationWindow > twoPi {
			ang2 = ang1 - orientationWrap
		} else {
			ang2 = ang1 + orientationWindow
		}

		var sumX, sumY float32
		for k := 0; k < n; k++ {
			a := ang[k]
			if inWindow(a, ang1, ang2) {
				sumX += resX[k]
				sumY += resY[k]
			}
		}

		if l := sumX*sumX + sumY*sumY; l > best {
			best = l
			maxSumX, maxSumY = sumX, sumY
		}
	}

	p.Orientation = getAngle(maxSumX, maxSumY)
}

// inWindow reports whether angle a lies strictly inside the window that
// starts at lo and ends at hi, wrapping through 2π when hi < lo.
func inWindow(a, lo, hi float32) bool {
	if lo < hi {
		return lo < a && a < hi
	}
	if hi < lo {
		return (a > 0 && a < hi) || (a > lo && a < twoPi)
	}
	return false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
