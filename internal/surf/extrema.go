package surf

import "math"

const (
	// DescriptorSize is the number of components in every descriptor.
	DescriptorSize = 64

	// MaxInterestPoints is the per-frame candidate capacity. Detection stops
	// for the frame once it is reached.
	MaxInterestPoints = 4000

	// ScaleFactor converts a box filter size into the detected scale.
	ScaleFactor = 0.1333
)

// InterestPoint is one detected feature.
type InterestPoint struct {
	X, Y float32
	// Scale is the characteristic scale in pixels.
	Scale float32
	// Orientation is the dominant gradient direction in radians in [0, 2π).
	Orientation float32
	// Laplacian is the sign of the Hessian trace: true for dark blobs on a
	// bright background.
	Laplacian bool
	// Value is the Hessian response that made the point a candidate; it
	// ranks points when a cap is applied.
	Value      int
	Descriptor [DescriptorSize]float32
}

// scaleFactor is ScaleFactor rounded to single precision first, so scales
// match those computed with a float32 constant.
var scaleFactor = float64(float32(ScaleFactor))

// tripleMap lists the layer indices of the four intervals of each octave.
// Adjacent octaves share two layers.
var tripleMap = [5][4]int{
	{0, 1, 2, 3},
	{1, 3, 4, 5},
	{3, 5, 6, 7},
	{5, 7, 8, 9},
	{7, 9, 10, 11},
}

// detectExtrema scans every layer triple for local maxima of the Hessian
// response above threshold and appends the refined positions to pts. It
// stops as soon as pts holds MaxInterestPoints entries; full reports whether
// that happened.
func detectExtrema(m *responseMap, octaves, threshold int, pts []InterestPoint) (out []InterestPoint, full bool) {
	for k := 0; k < octaves; k++ {
		for l := 0; l <= 1; l++ {
			lt := newLayerTriple(
				m.layers[tripleMap[k][l]],
				m.layers[tripleMap[k][l+1]],
				m.layers[tripleMap[k][l+2]],
			)
			pts, full = lt.scan(threshold, pts)
			if full {
				return pts, true
			}
		}
	}
	return pts, false
}

func (lt *layerTriple) scan(threshold int, pts []InterestPoint) ([]InterestPoint, bool) {
	t, m, b := lt.t, lt.m, lt.b
	margin := (t.filter + 1) / (2 * t.step)
	filterStep := float64(m.filter - b.filter)

	for j := margin + 1; j < t.height-margin; j++ {
		for i := margin + 1; i < t.width-margin; i++ {
			candidate := lt.mid(i, j)
			if candidate < threshold {
				continue
			}
			if !lt.isMaximum(candidate, i, j) {
				continue
			}

			xc, xr, xi, _ := lt.interpolate(i, j)
			if math.Abs(xi) >= 0.5 || math.Abs(xr) >= 0.5 || math.Abs(xc) >= 0.5 {
				continue
			}

			pts = append(pts, InterestPoint{
				X:         float32((float64(i) + xc) * float64(t.step)),
				Y:         float32((float64(j) + xr) * float64(t.step)),
				Scale:     float32(scaleFactor * (float64(m.filter) + xi*filterStep)),
				Laplacian: m.sign(i*lt.mScale, j*lt.mScale),
				Value:     candidate,
			})
			if len(pts) == MaxInterestPoints {
				return pts, true
			}
		}
	}
	return pts, false
}

// isMaximum reports whether candidate is strictly greater than its eight
// neighbours in the middle layer and the nine nearest cells of the top and
// bottom layers.
func (lt *layerTriple) isMaximum(candidate, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx != 0 || dy != 0) && candidate <= lt.mid(x+dx, y+dy) {
				return false
			}
			if candidate <= lt.top(x+dx, y+dy) {
				return false
			}
			if candidate <= lt.bottom(x+dx, y+dy) {
				return false
			}
		}
	}
	return true
}
