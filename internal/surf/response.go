package surf

// filterSizes are the box filter side lengths of the twelve possible layers.
var filterSizes = [12]int{9, 15, 21, 27, 39, 51, 75, 99, 147, 195, 291, 387}

// layerCount maps an octave count (1..5) to the number of layers built.
var layerCount = [6]int{0, 4, 6, 8, 10, 12}

// responseLayer holds the Hessian determinant responses and Laplacian signs
// of one filter size, sampled every step pixels.
type responseLayer struct {
	width     int
	height    int
	step      int
	filter    int
	responses []int
	laplacian []bool
}

func newResponseLayer(width, height, step, filter int) *responseLayer {
	return &responseLayer{
		width:     width,
		height:    height,
		step:      step,
		filter:    filter,
		responses: make([]int, width*height),
		laplacian: make([]bool, width*height),
	}
}

func (rl *responseLayer) response(x, y int) int {
	return rl.responses[y*rl.width+x]
}

func (rl *responseLayer) sign(x, y int) bool {
	return rl.laplacian[y*rl.width+x]
}

// responseMap is the stack of layers for all octaves.
type responseMap struct {
	layers []*responseLayer
}

// layerGeometry returns the (width, height, step, filter) of every layer for
// a frame of the given size. Octave 0 has four layers; every further octave
// adds two layers at half the previous resolution.
func layerGeometry(width, height, octaves, initStep int) [][4]int {
	w := width / initStep
	h := height / initStep
	s := initStep

	n := layerCount[octaves]
	geom := make([][4]int, 0, n)
	for i := 0; i < 4; i++ {
		geom = append(geom, [4]int{w, h, s, filterSizes[i]})
	}
	for o := 1; o < octaves; o++ {
		w, h, s = w/2, h/2, s*2
		geom = append(geom,
			[4]int{w, h, s, filterSizes[2+2*o]},
			[4]int{w, h, s, filterSizes[3+2*o]})
	}
	return geom
}

func newResponseMap(width, height, octaves, initStep int) (*responseMap, error) {
	geom := layerGeometry(width, height, octaves, initStep)
	m := &responseMap{layers: make([]*responseLayer, 0, len(geom))}
	for _, g := range geom {
		if g[0] <= 0 || g[1] <= 0 {
			return nil, ErrInvalidGeometry
		}
		m.layers = append(m.layers, newResponseLayer(g[0], g[1], g[2], g[3]))
	}
	return m, nil
}

// maxFilter returns the largest filter size in the map, which is also the
// integral image border needed to evaluate every layer.
func (m *responseMap) maxFilter() int {
	size := 0
	for _, l := range m.layers {
		if l.filter > size {
			size = l.filter
		}
	}
	return size
}

// build evaluates every layer of the map against the integral image.
func (m *responseMap) build(ii *integralImage, regions []SkipRegion) {
	for _, l := range m.layers {
		l.build(ii, regions)
	}
}

// build computes the approximated Hessian determinant at every sample of the
// layer. Samples whose image column falls inside a skip region are stored as
// zero with a negative Laplacian.
func (rl *responseLayer) build(ii *integralImage, regions []SkipRegion) {
	step := rl.step
	b := (rl.filter - 1) / 2
	l := rl.filter / 3
	w := rl.filter
	area := w * w

	mask := newSkipMask(regions, ii.width)

	idx := 0
	for j, r := 0, 0; j < rl.height; j, r = j+1, r+step {
		if len(regions) > 0 {
			mask.setRow(r)
		}
		for i, c := 0, 0; i < rl.width; i, c = i+1, c+step {
			if len(regions) > 0 && mask.skipped(c) {
				rl.responses[idx] = 0
				rl.laplacian[idx] = false
				idx++
				continue
			}

			dxx := ii.Sum(c-b, r-l+1, w, 2*l-1) -
				ii.Sum(c-(l-1)/2, r-l+1, l, 2*l-1)*3
			dyy := ii.Sum(c-l+1, r-b, 2*l-1, w) -
				ii.Sum(c-l+1, r-(l-1)/2, 2*l-1, l)*3
			dxy := ii.Sum(c+1, r-l, l, l) +
				ii.Sum(c-l, r+1, l, l) -
				ii.Sum(c-l, r-l, l, l) -
				ii.Sum(c+1, r+1, l, l)

			dxx /= area
			dyy /= area
			dxy /= area

			rl.responses[idx] = hessianResponse(dxx, dyy, dxy)
			rl.laplacian[idx] = dxx+dyy >= 0
			idx++
		}
	}
}

// CrossTermWeight is the weight, in hundredths, applied to the squared mixed
// derivative when approximating the Hessian determinant with box filters.
const CrossTermWeight = 81

func hessianResponse(dxx, dyy, dxy int) int {
	return (dxx*dyy*100 - dxy*dxy*CrossTermWeight) / 100
}
