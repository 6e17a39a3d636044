package surf

// mat3 is a row-major 3x3 matrix.
type mat3 [3][3]float32

// det returns the determinant by the rule of Sarrus.
func (m *mat3) det() float32 {
	return m[0][0]*m[1][1]*m[2][2] +
		m[0][1]*m[1][2]*m[2][0] +
		m[0][2]*m[1][0]*m[2][1] -
		m[0][2]*m[1][1]*m[2][0] -
		m[0][1]*m[1][0]*m[2][2] -
		m[0][0]*m[1][2]*m[2][1]
}

// inverse returns the cofactor inverse of m. ok is false when m is singular.
func (m *mat3) inverse() (inv mat3, ok bool) {
	d := m.det()
	if d == 0 {
		return inv, false
	}
	inv[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) / d
	inv[1][0] = -(m[1][0]*m[2][2] - m[1][2]*m[2][0]) / d
	inv[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) / d
	inv[0][1] = -(m[0][1]*m[2][2] - m[0][2]*m[2][1]) / d
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) / d
	inv[2][1] = -(m[0][0]*m[2][1] - m[0][1]*m[2][0]) / d
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) / d
	inv[1][2] = -(m[0][0]*m[1][2] - m[0][2]*m[1][0]) / d
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) / d
	return inv, true
}

// solveNegated returns -m⁻¹·v, the Newton step towards the stationary point
// of the quadratic with Hessian m and gradient v.
func solveNegated(m *mat3, v [3]float32) (out [3]float32, ok bool) {
	inv, ok := m.inverse()
	if !ok {
		return out, false
	}
	for r := 0; r < 3; r++ {
		out[r] = -(inv[r][0]*v[0] + inv[r][1]*v[1] + inv[r][2]*v[2])
	}
	return out, true
}

// layerTriple is a bottom, middle and top layer examined together for
// scale-space extrema. Cell (x, y) is addressed in top-layer coordinates.
type layerTriple struct {
	b, m, t *responseLayer
	// mScale and bScale convert a top-layer index into middle and bottom
	// layer indices.
	mScale, bScale int
}

func newLayerTriple(b, m, t *responseLayer) layerTriple {
	return layerTriple{
		b: b, m: m, t: t,
		mScale: t.step / m.step,
		bScale: t.step / b.step,
	}
}

func (lt *layerTriple) mid(x, y int) int {
	return lt.m.response(x*lt.mScale, y*lt.mScale)
}

func (lt *layerTriple) top(x, y int) int {
	return lt.t.response(x, y)
}

func (lt *layerTriple) bottom(x, y int) int {
	return lt.b.response(x*lt.bScale, y*lt.bScale)
}

// interpolate fits a 3-D quadratic to the responses around (x, y) and returns
// the sub-sample offsets of its extremum along column, row and scale. When
// the fitted Hessian is singular ok is false and every offset is 0.
//
// Differences are halved and quartered in integer arithmetic before being
// widened to float32, matching the reference detector bit for bit.
func (lt *layerTriple) interpolate(x, y int) (xc, xr, xi float64, ok bool) {
	var v [3]float32
	v[0] = float32((lt.mid(x+1, y) - lt.mid(x-1, y)) / 2)
	v[1] = float32((lt.mid(x, y+1) - lt.mid(x, y-1)) / 2)
	v[2] = float32((lt.top(x, y) - lt.bottom(x, y)) / 2)

	c := float32(lt.mid(x, y))
	dxx := float32(lt.mid(x+1, y)+lt.mid(x-1, y)) - 2*c
	dyy := float32(lt.mid(x, y+1)+lt.mid(x, y-1)) - 2*c
	dss := float32(lt.top(x, y)+lt.bottom(x, y)) - 2*c
	dxy := float32((lt.mid(x+1, y+1) - lt.mid(x-1, y+1) -
		lt.mid(x+1, y-1) + lt.mid(x-1, y-1)) / 4)
	dxs := float32((lt.top(x+1, y) - lt.top(x-1, y) -
		lt.bottom(x+1, y) + lt.bottom(x-1, y)) / 4)
	dys := float32((lt.top(x, y+1) - lt.top(x, y-1) -
		lt.bottom(x, y+1) + lt.bottom(x, y-1)) / 4)

	h := mat3{
		{dxx, dxy, dxs},
		{dxy, dyy, dys},
		{dxs, dys, dss},
	}

	off, ok := solveNegated(&h, v)
	if !ok {
		return 0, 0, 0, false
	}
	return float64(off[0]), float64(off[1]), float64(off[2]), true
}
