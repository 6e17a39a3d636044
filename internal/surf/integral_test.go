package surf

import (
	"math"
	"math/rand"
	"testing"
)

// createMonoFrame renders a width x height luminance frame from fn, clamping
// each value to 0..255.
func createMonoFrame(t *testing.T, width, height int, fn func(x, y int) float64) []byte {
	t.Helper()
	pix := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := math.Round(fn(x, y))
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			pix[y*width+x] = byte(v)
		}
	}
	return pix
}

// createNoiseFrame returns a frame of uniform random bytes from a fixed seed.
func createNoiseFrame(t *testing.T, width, height int, seed int64) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	pix := make([]byte, width*height)
	rng.Read(pix)
	return pix
}

func buildIntegral(t *testing.T, pix []byte, width, height, border int, format PixelFormat) *integralImage {
	t.Helper()
	ii := newIntegralImage(width, height, border)
	ii.build(pix, format)
	return ii
}

func TestIntegral_TotalSum(t *testing.T) {
	const w, h = 37, 23
	pix := createNoiseFrame(t, w, h, 1)

	total := 0
	for _, p := range pix {
		total += int(p)
	}

	ii := buildIntegral(t, pix, w, h, 9, PixelFormatMono)
	if got := ii.Sum(0, 0, w, h); got != total {
		t.Errorf("Sum(0,0,w,h): got %d, want %d", got, total)
	}
}

func TestIntegral_BoxMatchesDirectSum(t *testing.T) {
	const w, h = 31, 29
	pix := createNoiseFrame(t, w, h, 2)
	ii := buildIntegral(t, pix, w, h, 15, PixelFormatMono)

	tests := []struct {
		name           string
		sx, sy, xs, ys int
	}{
		{"single pixel", 4, 7, 1, 1},
		{"interior box", 3, 5, 10, 8},
		{"touching right edge", 20, 2, 11, 4},
		{"touching bottom edge", 0, 20, 6, 9},
		{"whole row", 0, 13, w, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := 0
			for y := tt.sy; y < tt.sy+tt.ys; y++ {
				for x := tt.sx; x < tt.sx+tt.xs; x++ {
					want += int(pix[y*w+x])
				}
			}
			if got := ii.Sum(tt.sx, tt.sy, tt.xs, tt.ys); got != want {
				t.Errorf("Sum(%d,%d,%d,%d): got %d, want %d", tt.sx, tt.sy, tt.xs, tt.ys, got, want)
			}
		})
	}
}

func TestIntegral_DisjointTilesAdd(t *testing.T) {
	const w, h = 40, 30
	pix := createNoiseFrame(t, w, h, 3)
	ii := buildIntegral(t, pix, w, h, 9, PixelFormatMono)

	whole := ii.Sum(5, 4, 20, 18)
	tiles := ii.Sum(5, 4, 12, 18) + ii.Sum(17, 4, 8, 7) + ii.Sum(17, 11, 8, 11)
	if whole != tiles {
		t.Errorf("tiles: got %d, want %d", tiles, whole)
	}
}

func TestIntegral_BorderClampsImage(t *testing.T) {
	const w, h = 16, 12
	pix := createNoiseFrame(t, w, h, 4)
	ii := buildIntegral(t, pix, w, h, 9, PixelFormatMono)

	total := ii.Sum(0, 0, w, h)

	// Boxes reaching into the top and left border add nothing.
	if got := ii.Sum(-5, -5, w+5, h+5); got != total {
		t.Errorf("overhang top-left: got %d, want %d", got, total)
	}
	// Boxes reaching into the right and bottom border add nothing either.
	if got := ii.Sum(0, 0, w+8, h+8); got != total {
		t.Errorf("overhang bottom-right: got %d, want %d", got, total)
	}
	// A box entirely right of the image is empty.
	if got := ii.Sum(w, 0, 5, h); got != 0 {
		t.Errorf("box right of image: got %d, want 0", got)
	}
}

func TestIntegral_ColorFormatsAverage(t *testing.T) {
	tests := []struct {
		name   string
		format PixelFormat
		pixel  [3]byte
		want   int
	}{
		{"rgb", PixelFormatRGB, [3]byte{10, 20, 31}, 20},
		{"bgr", PixelFormatBGR, [3]byte{31, 20, 10}, 20},
		{"truncates", PixelFormatRGB, [3]byte{1, 1, 0}, 0},
		{"white", PixelFormatBGR, [3]byte{255, 255, 255}, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const w, h = 4, 3
			pix := make([]byte, 0, w*h*3)
			for i := 0; i < w*h; i++ {
				pix = append(pix, tt.pixel[:]...)
			}
			ii := buildIntegral(t, pix, w, h, 9, tt.format)
			if got := ii.Sum(0, 0, w, h); got != tt.want*w*h {
				t.Errorf("total: got %d, want %d", got, tt.want*w*h)
			}
		})
	}
}

func TestIntegral_UnsupportedFormatPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unsupported format")
		}
	}()
	ii := newIntegralImage(2, 2, 9)
	ii.build(make([]byte, 4), PixelFormat(42))
}

func TestHaar_VerticalEdge(t *testing.T) {
	const w, h = 32, 32
	// Dark left half, bright right half.
	pix := createMonoFrame(t, w, h, func(x, _ int) float64 {
		if x >= 16 {
			return 100
		}
		return 0
	})
	ii := buildIntegral(t, pix, w, h, 9, PixelFormatMono)

	if got := ii.haarX(16, 16, 4); got != 100*2*4 {
		t.Errorf("haarX across edge: got %d, want %d", got, 800)
	}
	if got := ii.haarY(16, 16, 4); got != 0 {
		t.Errorf("haarY across vertical edge: got %d, want 0", got)
	}
	if got := ii.haarX(16, 4, 4); got != 0 {
		t.Errorf("haarX on flat area: got %d, want 0", got)
	}
}

func TestHaar_HorizontalEdge(t *testing.T) {
	const w, h = 32, 32
	// Bright top half, dark bottom half.
	pix := createMonoFrame(t, w, h, func(_, y int) float64 {
		if y < 16 {
			return 50
		}
		return 0
	})
	ii := buildIntegral(t, pix, w, h, 9, PixelFormatMono)

	if got := ii.haarY(16, 16, 6); got != -50*3*6 {
		t.Errorf("haarY across edge: got %d, want %d", got, -900)
	}
	if got := ii.haarX(16, 16, 6); got != 0 {
		t.Errorf("haarX across horizontal edge: got %d, want 0", got)
	}
}
