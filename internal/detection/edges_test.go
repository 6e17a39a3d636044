package detection

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// edgeMapFrom builds an edge map directly from a predicate, bypassing the
// gradient step.
func edgeMapFrom(width, height int, set func(x, y int) bool) *edgeMap {
	e := &edgeMap{width: width, height: height, edges: make([]bool, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			e.edges[y*width+x] = set(x, y)
		}
	}
	e.buildSums()
	return e
}

// bruteRuns counts maximal horizontal and vertical runs inside a window by
// scanning every pixel.
func bruteRuns(e *edgeMap, x0, y0, w, h int) (hr, vr int) {
	for y := y0; y < y0+h; y++ {
		in := false
		for x := x0; x < x0+w; x++ {
			if e.at(x, y) && !in {
				hr++
			}
			in = e.at(x, y)
		}
	}
	for x := x0; x < x0+w; x++ {
		in := false
		for y := y0; y < y0+h; y++ {
			if e.at(x, y) && !in {
				vr++
			}
			in = e.at(x, y)
		}
	}
	return hr, vr
}

func TestEdgeMap_RunsMatchBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	e := edgeMapFrom(60, 40, func(_, _ int) bool { return rng.Intn(3) == 0 })

	for n := 0; n < 200; n++ {
		x, y := rng.Intn(60), rng.Intn(40)
		w, h := 1+rng.Intn(60-x), 1+rng.Intn(40-y)

		wantH, wantV := bruteRuns(e, x, y, w, h)
		if got := e.horizontalRuns(x, y, w, h); got != wantH {
			t.Fatalf("window (%d,%d %dx%d): horizontal runs %d, want %d", x, y, w, h, got, wantH)
		}
		if got := e.verticalRuns(x, y, w, h); got != wantV {
			t.Fatalf("window (%d,%d %dx%d): vertical runs %d, want %d", x, y, w, h, got, wantV)
		}

		count := 0
		for yy := y; yy < y+h; yy++ {
			for xx := x; xx < x+w; xx++ {
				if e.at(xx, yy) {
					count++
				}
			}
		}
		if got := e.count(x, y, w, h); got != count {
			t.Fatalf("window (%d,%d %dx%d): count %d, want %d", x, y, w, h, got, count)
		}
	}
}

func TestNewEdgeMap(t *testing.T) {
	img := createTestImage(20, 10, color.White)
	for y := 0; y < 10; y++ {
		for x := 10; x < 20; x++ {
			img.Set(x, y, color.Black)
		}
	}

	e := newEdgeMap(img)

	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			want := x == 9 && y > 0 && y < 9
			if got := e.at(x, y); got != want {
				t.Errorf("edge at (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestNewEdgeMap_OffsetBounds(t *testing.T) {
	base := createTestImage(40, 40, color.White)
	base.Set(25, 25, color.Black)
	sub := base.SubImage(image.Rect(20, 20, 40, 40))

	e := newEdgeMap(sub)
	if e.width != 20 || e.height != 20 {
		t.Fatalf("size: got %dx%d, want 20x20", e.width, e.height)
	}
	// The dark pixel sits at (5,5) in window coordinates; its left and upper
	// neighbours see the step.
	if !e.at(4, 5) || !e.at(5, 4) || !e.at(5, 5) {
		t.Error("expected edges around the dark pixel")
	}
}
