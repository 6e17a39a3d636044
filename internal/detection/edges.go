package detection

import (
	"image"

	"github.com/disintegration/imaging"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive).
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// edgeThreshold is the grey-level step between neighbouring pixels that
// counts as an edge.
const edgeThreshold = 30

// edgeMap is a binary gradient map with summed-area tables, so that edge
// counts and run counts over any window cost O(1).
//
// A horizontal run start is an edge pixel whose left neighbour is not an
// edge; a vertical run start is one whose upper neighbour is not an edge.
type edgeMap struct {
	width, height int
	edges         []bool
	edgeSum       []int
	hStartSum     []int
	vStartSum     []int
}

// newEdgeMap marks pixels whose grey level differs by more than
// edgeThreshold from the pixel to the right or below. Border pixels are
// never edges.
func newEdgeMap(img image.Image) *edgeMap {
	gray := imaging.Grayscale(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	lum := func(x, y int) int { return int(gray.Pix[y*gray.Stride+x*4]) }

	e := &edgeMap{width: w, height: h, edges: make([]bool, w*h)}
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := lum(x, y)
			if abs(c-lum(x+1, y)) > edgeThreshold || abs(c-lum(x, y+1)) > edgeThreshold {
				e.edges[y*w+x] = true
			}
		}
	}

	e.buildSums()
	return e
}

func (e *edgeMap) buildSums() {
	e.edgeSum = e.summedArea(func(x, y int) bool { return e.at(x, y) })
	e.hStartSum = e.summedArea(func(x, y int) bool { return e.at(x, y) && !e.at(x-1, y) })
	e.vStartSum = e.summedArea(func(x, y int) bool { return e.at(x, y) && !e.at(x, y-1) })
}

// at reports whether (x, y) is an edge; coordinates outside the map are not.
func (e *edgeMap) at(x, y int) bool {
	if x < 0 || y < 0 || x >= e.width || y >= e.height {
		return false
	}
	return e.edges[y*e.width+x]
}

func (e *edgeMap) summedArea(set func(x, y int) bool) []int {
	stride := e.width + 1
	sat := make([]int, stride*(e.height+1))
	for y := 0; y < e.height; y++ {
		row := 0
		for x := 0; x < e.width; x++ {
			if set(x, y) {
				row++
			}
			sat[(y+1)*stride+x+1] = sat[y*stride+x+1] + row
		}
	}
	return sat
}

// boxSum sums a summed-area table over [x, x+w) x [y, y+h).
func (e *edgeMap) boxSum(sat []int, x, y, w, h int) int {
	if w <= 0 || h <= 0 {
		return 0
	}
	stride := e.width + 1
	return sat[(y+h)*stride+x+w] - sat[y*stride+x+w] - sat[(y+h)*stride+x] + sat[y*stride+x]
}

// count returns the number of edge pixels in the window.
func (e *edgeMap) count(x, y, w, h int) int {
	return e.boxSum(e.edgeSum, x, y, w, h)
}

// horizontalRuns counts maximal horizontal edge runs inside the window. A run
// touching the window's left column starts there regardless of what lies
// outside the window.
func (e *edgeMap) horizontalRuns(x, y, w, h int) int {
	return e.boxSum(e.hStartSum, x+1, y, w-1, h) + e.count(x, y, 1, h)
}

// verticalRuns is horizontalRuns transposed.
func (e *edgeMap) verticalRuns(x, y, w, h int) int {
	return e.boxSum(e.vStartSum, x, y+1, w, h-1) + e.count(x, y, w, 1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
