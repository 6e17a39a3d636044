package surf

import (
	"math"
	"testing"
)

func TestGaussTable(t *testing.T) {
	initGaussTable()

	tests := []struct {
		name string
		got  float32
		want float64
	}{
		{"int origin", gaussianInt(0, 0, 2.5), 1 / (2 * math.Pi * 6.25)},
		{"int offset", gaussianInt(3, 4, 2.5), math.Exp(-25/12.5) / (2 * math.Pi * 6.25)},
		{"int beyond table", gaussianInt(30, 0, 2.5), math.Exp(-900/12.5) / (2 * math.Pi * 6.25)},
		{"int sigma beyond table", gaussianInt(1, 0, 12), math.Exp(-1/288.0) / (2 * math.Pi * 144)},
		{"float rounds distance", gaussianFloat(1.5, 1.5, 1.5), math.Exp(-5/4.5) / (2 * math.Pi * 2.25)},
		{"float near origin", gaussianFloat(0.5, -0.5, 1.5), math.Exp(-1/4.5) / (2 * math.Pi * 2.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(float64(tt.got)-tt.want) > 1e-6 {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestGauss25_Values(t *testing.T) {
	tests := []struct {
		row, col int
		want     float64
	}{
		{0, 0, 0.02350693969273},
		{0, 1, 0.01849121369071},
		{1, 0, 0.02169964028389},
		{1, 2, 0.01144205592615},
		{2, 1, 0.01342737701584},
		{3, 3, 0.00344628101733},
		{6, 6, 0.00002836202103},
	}

	for _, tt := range tests {
		if got := gauss25[tt.row][tt.col]; got != tt.want {
			t.Errorf("gauss25[%d][%d] = %v, want %v", tt.row, tt.col, got, tt.want)
		}
	}
	if gauss25[0][0] <= gauss25[0][1] || gauss25[0][0] <= gauss25[1][0] {
		t.Error("gauss25 should peak at the origin")
	}
}

func TestGetAngle(t *testing.T) {
	tests := []struct {
		x, y float32
		want float64
	}{
		{1, 0, 0},
		{0, 1, math.Pi / 2},
		{-1, 0, math.Pi},
		{0, -1, 3 * math.Pi / 2},
		{1, -1, 7 * math.Pi / 4},
	}
	for _, tt := range tests {
		got := getAngle(tt.x, tt.y)
		if math.Abs(float64(got)-tt.want) > 1e-6 {
			t.Errorf("getAngle(%v,%v): got %v, want %v", tt.x, tt.y, got, tt.want)
		}
		if got < 0 || got >= twoPi {
			t.Errorf("getAngle(%v,%v)=%v outside [0, 2π)", tt.x, tt.y, got)
		}
	}
}

func TestInWindow(t *testing.T) {
	tests := []struct {
		name      string
		a, lo, hi float32
		want      bool
	}{
		{"inside", 0.5, 0.3, 1.3, true},
		{"on lower bound", 0.3, 0.3, 1.3, false},
		{"on upper bound", 1.3, 0.3, 1.3, false},
		{"wrapped high side", 6.1, 5.9, 0.7, true},
		{"wrapped low side", 0.2, 5.9, 0.7, true},
		{"wrapped zero excluded", 0, 5.9, 0.7, false},
		{"wrapped outside", 3, 5.9, 0.7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inWindow(tt.a, tt.lo, tt.hi); got != tt.want {
				t.Errorf("inWindow(%v, %v, %v): got %v, want %v", tt.a, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

// rampIntegral builds the integral image of a linear intensity ramp rising
// along direction theta around (cx, cy).
func rampIntegral(t *testing.T, size int, cx, cy, theta float64) *integralImage {
	t.Helper()
	co, si := math.Cos(theta), math.Sin(theta)
	pix := createMonoFrame(t, size, size, func(x, y int) float64 {
		dx := float64(x) - cx
		dy := float64(y) - cy
		return 128 + 3*(dx*co+dy*si)
	})
	return buildIntegral(t, pix, size, size, 27, PixelFormatMono)
}

func angleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

func TestAssignOrientation_FollowsGradient(t *testing.T) {
	const size = 64
	tests := []struct {
		name  string
		theta float64
	}{
		{"shallow", 0.3},
		{"steep", 1.2},
		{"second quadrant", 2.5},
		{"third quadrant", 4.0},
		{"just below 2π", 6.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ii := rampIntegral(t, size, 32, 32, tt.theta)
			p := InterestPoint{X: 32, Y: 32, Scale: 2}
			assignOrientation(ii, &p)

			if p.Orientation < 0 || p.Orientation >= twoPi {
				t.Fatalf("orientation %v outside [0, 2π)", p.Orientation)
			}
			if d := angleDiff(float64(p.Orientation), tt.theta); d > 2*math.Pi/180 {
				t.Errorf("orientation: got %.4f, want %.4f (off by %.2f°)", p.Orientation, tt.theta, d*180/math.Pi)
			}
		})
	}
}

func TestAssignOrientation_FlatImage(t *testing.T) {
	pix := createMonoFrame(t, 64, 64, func(_, _ int) float64 { return 90 })
	ii := buildIntegral(t, pix, 64, 64, 27, PixelFormatMono)
	p := InterestPoint{X: 32, Y: 32, Scale: 2}
	assignOrientation(ii, &p)
	if p.Orientation != 0 {
		t.Errorf("orientation on flat image: got %v, want 0", p.Orientation)
	}
}

func descriptorNorm(d []float32) float64 {
	var sum float64
	for _, v := range d {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

func TestBuildDescriptor_UnitNorm(t *testing.T) {
	const size = 96
	pix := createNoiseFrame(t, size, size, 11)
	ii := buildIntegral(t, pix, size, size, 27, PixelFormatMono)

	for _, orientation := range []float32{0, 0.7, 2.2, 4.9} {
		p := InterestPoint{X: 48.3, Y: 47.6, Scale: 1.8, Orientation: orientation}
		if !buildDescriptor(ii, &p) {
			t.Fatalf("orientation %v: descriptor rejected on textured image", orientation)
		}
		if n := descriptorNorm(p.Descriptor[:]); math.Abs(n-1) > 1e-4 {
			t.Errorf("orientation %v: norm %v, want 1", orientation, n)
		}
	}
}

func TestBuildDescriptor_FlatImageRejected(t *testing.T) {
	pix := createMonoFrame(t, 96, 96, func(_, _ int) float64 { return 200 })
	ii := buildIntegral(t, pix, 96, 96, 27, PixelFormatMono)

	p := InterestPoint{X: 48, Y: 48, Scale: 1.8}
	if buildDescriptor(ii, &p) {
		t.Error("flat image should not produce a descriptor")
	}
	for i, v := range p.Descriptor {
		if v != 0 {
			t.Fatalf("component %d: got %v, want 0", i, v)
		}
	}
}

func TestBuildDescriptor_ContrastInvariant(t *testing.T) {
	const size = 96
	base := createNoiseFrame(t, size, size, 12)
	scaled := make([]byte, len(base))
	for i, v := range base {
		scaled[i] = v / 2
	}

	a := InterestPoint{X: 48, Y: 48, Scale: 1.6, Orientation: 1}
	b := a
	buildDescriptor(buildIntegral(t, base, size, size, 27, PixelFormatMono), &a)
	buildDescriptor(buildIntegral(t, scaled, size, size, 27, PixelFormatMono), &b)

	var dist float64
	for i := range a.Descriptor {
		d := float64(a.Descriptor[i] - b.Descriptor[i])
		dist += d * d
	}
	if math.Sqrt(dist) > 0.05 {
		t.Errorf("descriptor distance after halving contrast: %v", math.Sqrt(dist))
	}
}
