package surf

import (
	"errors"
	"math"
	"testing"
)

func TestLayerGeometry(t *testing.T) {
	tests := []struct {
		name     string
		octaves  int
		wantN    int
		lastGeom [4]int
	}{
		{"one octave", 1, 4, [4]int{320, 240, 2, 27}},
		{"two octaves", 2, 6, [4]int{160, 120, 4, 51}},
		{"three octaves", 3, 8, [4]int{80, 60, 8, 99}},
		{"four octaves", 4, 10, [4]int{40, 30, 16, 195}},
		{"five octaves", 5, 12, [4]int{20, 15, 32, 387}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geom := layerGeometry(640, 480, tt.octaves, 2)
			if len(geom) != tt.wantN {
				t.Fatalf("layers: got %d, want %d", len(geom), tt.wantN)
			}
			if last := geom[len(geom)-1]; last != tt.lastGeom {
				t.Errorf("last layer: got %v, want %v", last, tt.lastGeom)
			}
			for i, g := range geom {
				if g[3] != filterSizes[i] {
					t.Errorf("layer %d filter: got %d, want %d", i, g[3], filterSizes[i])
				}
			}
		})
	}
}

func TestNewResponseMap_TooSmall(t *testing.T) {
	_, err := newResponseMap(20, 20, 5, 2)
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}

func TestResponseMap_MaxFilter(t *testing.T) {
	m, err := newResponseMap(640, 480, 3, 2)
	if err != nil {
		t.Fatalf("newResponseMap failed: %v", err)
	}
	if got := m.maxFilter(); got != 99 {
		t.Errorf("maxFilter: got %d, want 99", got)
	}
}

func TestHessianResponse(t *testing.T) {
	tests := []struct {
		dxx, dyy, dxy int
		want          int
	}{
		{10, 10, 0, 100},
		{10, 10, 10, 19},
		{-4, -5, 0, 20},
		{3, -3, 0, -9},
		{0, 0, 7, -39},
	}
	for _, tt := range tests {
		if got := hessianResponse(tt.dxx, tt.dyy, tt.dxy); got != tt.want {
			t.Errorf("hessianResponse(%d,%d,%d): got %d, want %d", tt.dxx, tt.dyy, tt.dxy, got, tt.want)
		}
	}
}

func buildTestMap(t *testing.T, pix []byte, width, height, octaves int, regions []SkipRegion) (*responseMap, *integralImage) {
	t.Helper()
	m, err := newResponseMap(width, height, octaves, 2)
	if err != nil {
		t.Fatalf("newResponseMap failed: %v", err)
	}
	ii := newIntegralImage(width, height, m.maxFilter())
	ii.build(pix, PixelFormatMono)
	m.build(ii, regions)
	return m, ii
}

func TestResponseLayer_UniformImageIsFlat(t *testing.T) {
	const w, h = 128, 128
	pix := createMonoFrame(t, w, h, func(_, _ int) float64 { return 137 })
	m, _ := buildTestMap(t, pix, w, h, 2, nil)

	// Only cells whose filter lies entirely inside the frame see a flat
	// image; the zero border makes edge cells respond.
	for n, l := range m.layers {
		for j := 0; j < l.height; j++ {
			for i := 0; i < l.width; i++ {
				c, r := i*l.step, j*l.step
				if c < l.filter || r < l.filter || c >= w-l.filter || r >= h-l.filter {
					continue
				}
				if got := l.response(i, j); got != 0 {
					t.Fatalf("layer %d (%d,%d): response %d, want 0", n, c, r, got)
				}
				if !l.sign(i, j) {
					t.Fatalf("layer %d (%d,%d): flat image must have non-negative trace", n, c, r)
				}
			}
		}
	}
}

func blob(cx, cy, sigma, background, amplitude float64) func(x, y int) float64 {
	return func(x, y int) float64 {
		dx := float64(x) - cx
		dy := float64(y) - cy
		return background + amplitude*math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma))
	}
}

func TestResponseLayer_BlobSign(t *testing.T) {
	const w, h = 128, 128

	tests := []struct {
		name       string
		amplitude  float64
		background float64
		wantSign   bool
	}{
		{"bright blob", 180, 30, false},
		{"dark blob", -180, 220, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pix := createMonoFrame(t, w, h, blob(64, 64, 3, tt.background, tt.amplitude))
			m, _ := buildTestMap(t, pix, w, h, 1, nil)

			l := m.layers[2] // filter 21, step 2
			x, y := 64/l.step, 64/l.step
			if r := l.response(x, y); r <= 0 {
				t.Errorf("response at blob centre: got %d, want > 0", r)
			}
			if got := l.sign(x, y); got != tt.wantSign {
				t.Errorf("laplacian at blob centre: got %v, want %v", got, tt.wantSign)
			}
		})
	}
}

func TestResponseLayer_SkipRegionZeroes(t *testing.T) {
	const w, h = 128, 128
	pix := createMonoFrame(t, w, h, blob(64, 64, 3, 30, 180))

	region := NewSkipRect(40, 40, 90, 90)
	m, _ := buildTestMap(t, pix, w, h, 1, []SkipRegion{region})
	unmasked, _ := buildTestMap(t, pix, w, h, 1, nil)

	for n, l := range m.layers {
		for j := 0; j < l.height; j++ {
			for i := 0; i < l.width; i++ {
				c, r := i*l.step, j*l.step
				lo, hi := region.rowInterval(r, w)
				inside := c >= lo && c < hi
				got := l.response(i, j)
				if inside {
					if got != 0 || l.sign(i, j) {
						t.Fatalf("layer %d (%d,%d) inside region: response %d sign %v", n, c, r, got, l.sign(i, j))
					}
					continue
				}
				if want := unmasked.layers[n].response(i, j); got != want {
					t.Fatalf("layer %d (%d,%d) outside region: got %d, want %d", n, c, r, got, want)
				}
			}
		}
	}

	if m.layers[0].response(32, 32) != 0 {
		t.Error("blob centre should be suppressed")
	}
}
