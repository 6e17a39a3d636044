package surf

// HalfPlane is the set of points where A*x + B*y + C > 0.
type HalfPlane struct {
	A, B, C float32
}

// Inside reports whether (x, y) lies strictly inside the half-plane.
func (h HalfPlane) Inside(x, y float32) bool {
	return h.A*x+h.B*y+h.C > 0
}

// Point is a 2-D position in frame pixels.
type Point struct {
	X, Y float32
}

// maxRegionPlanes is the number of half-planes honoured per region.
const maxRegionPlanes = 4

// SkipRegion is a convex area of the frame, given as the intersection of up
// to four half-planes, in which no interest points are detected. Only the
// first four planes are used.
type SkipRegion struct {
	Planes []HalfPlane
}

// NewSkipQuad builds a region from the four corners of a convex quadrilateral,
// listed in either winding order.
func NewSkipQuad(v [4]Point) SkipRegion {
	// The edge equations below put the interior on the positive side for a
	// counter-clockwise walk in image coordinates (y down); reverse otherwise.
	var area float32
	for j := 0; j < 4; j++ {
		n := (j + 1) % 4
		area += v[j].X*v[n].Y - v[n].X*v[j].Y
	}
	if area > 0 {
		v[1], v[3] = v[3], v[1]
	}

	planes := make([]HalfPlane, 4)
	for j := 0; j < 4; j++ {
		n := (j + 1) % 4
		planes[j] = HalfPlane{
			A: v[n].Y - v[j].Y,
			B: v[j].X - v[n].X,
			C: v[n].X*v[j].Y - v[j].X*v[n].Y,
		}
	}
	return SkipRegion{Planes: planes}
}

// NewSkipRect builds an axis-aligned region covering x1 < x < x2, y1 < y < y2.
// The corners may be given in any order.
func NewSkipRect(x1, y1, x2, y2 float32) SkipRegion {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return NewSkipQuad([4]Point{{x1, y1}, {x1, y2}, {x2, y2}, {x2, y1}})
}

// Contains reports whether (x, y) lies inside every plane of the region.
func (r SkipRegion) Contains(x, y float32) bool {
	for _, p := range r.planes() {
		if !p.Inside(x, y) {
			return false
		}
	}
	return true
}

func (r SkipRegion) planes() []HalfPlane {
	if len(r.Planes) > maxRegionPlanes {
		return r.Planes[:maxRegionPlanes]
	}
	return r.Planes
}

// rowInterval returns the half-open column interval [min, max) that the
// region covers on image row y, clipped to [0, width). An empty row yields
// min >= max.
func (r SkipRegion) rowInterval(y, width int) (lo, hi int) {
	lo, hi = 0, width
	fy := float32(y)
	for _, p := range r.planes() {
		switch {
		case p.A > 0:
			x := -(p.B*fy + p.C) / p.A
			if x > float32(lo) {
				lo = int(x)
			}
		case p.A < 0:
			x := -(p.B*fy + p.C) / p.A
			if x < float32(hi) {
				hi = int(x)
			}
		default:
			if p.B*fy+p.C <= 0 {
				return width, 0
			}
		}
	}
	return lo, hi
}

// skipMask holds the per-row intervals of all regions for one response layer
// row; it is rebuilt for every row.
type skipMask struct {
	regions []SkipRegion
	lo, hi  []int
	width   int
}

func newSkipMask(regions []SkipRegion, width int) *skipMask {
	return &skipMask{
		regions: regions,
		lo:      make([]int, len(regions)),
		hi:      make([]int, len(regions)),
		width:   width,
	}
}

func (m *skipMask) setRow(y int) {
	for i, r := range m.regions {
		m.lo[i], m.hi[i] = r.rowInterval(y, m.width)
	}
}

// skipped reports whether column c of the current row lies in any region.
func (m *skipMask) skipped(c int) bool {
	if c >= m.width {
		return false
	}
	for i := range m.regions {
		if c >= m.lo[i] && c < m.hi[i] {
			return true
		}
	}
	return false
}
