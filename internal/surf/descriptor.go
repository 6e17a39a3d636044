package surf

import "math"

// lround rounds half away from zero, like C's lroundf.
func lround(v float32) int {
	return int(math.Round(float64(v)))
}

// buildDescriptor fills p.Descriptor with the 64-component SURF
// descriptor: a 4x4 grid of subregions around the point, rotated to
// p.Orientation, each contributing (Σdx, Σdy, Σ|dx|, Σ|dy|). Subregions
// overlap by three samples and are Gaussian weighted twice, once per sample
// around the subregion centre and once per subregion around the point.
//
// It returns false when the descriptor has no energy and cannot be
// normalised; p.Descriptor is then left zeroed.
func buildDescriptor(ii *integralImage, p *InterestPoint) bool {
	initGaussTable()

	scale := p.Scale
	x := float32(roundHalfUp(p.X))
	y := float32(roundHalfUp(p.Y))
	co := float32(math.Cos(float64(p.Orientation)))
	si := float32(math.Sin(float64(p.Orientation)))
	haarSize := 2 * roundHalfUp(scale)

	desc := &p.Descriptor
	count := 0
	var norm float32

	for a := 0; a < 4; a++ {
		i := -12 + 5*a
		ix := float32(i + 5)
		cx := float32(a) + 0.5

		for b := 0; b < 4; b++ {
			j := -12 + 5*b
			jx := float32(j + 5)
			cy := float32(b) + 0.5

			xs := lround(x + (-jx*scale*si + ix*scale*co))
			ys := lround(y + (jx*scale*co + ix*scale*si))

			var dx, dy, mdx, mdy float32
			for k := i; k < i+9; k++ {
				fk := float32(k)
				for l := j; l < j+9; l++ {
					fl := float32(l)
					sx := lround(x + (-fl*scale*si + fk*scale*co))
					sy := lround(y + (fl*scale*co + fk*scale*si))

					g := gaussianInt(xs-sx, ys-sy, 2.5*scale)
					rx := float32(ii.haarX(sy, sx, haarSize))
					ry := float32(ii.haarY(sy, sx, haarSize))

					rrx := g * (-rx*si + ry*co)
					rry := g * (rx*co + ry*si)

					dx += rrx
					dy += rry
					mdx += abs32(rrx)
					mdy += abs32(rry)
				}
			}

			g2 := gaussianFloat(cx-2, cy-2, 1.5)
			desc[count] = dx * g2
			desc[count+1] = dy * g2
			desc[count+2] = mdx * g2
			desc[count+3] = mdy * g2
			count += 4

			norm += (dx*dx + dy*dy + mdx*mdx + mdy*mdy) * g2 * g2
		}
	}

	length := float32(math.Sqrt(float64(norm)))
	if length == 0 || math.IsNaN(float64(length)) || math.IsInf(float64(length), 0) {
		*desc = [DescriptorSize]float32{}
		return false
	}
	for n := range desc {
		desc[n] /= length
	}
	return true
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
