package surf

import (
	"runtime"
	"sort"

	"github.com/ironsheep/keypoint-tools-mcp/internal/workpool"
)

// boundaryMargin is the distance, in multiples of the rounded scale, that a
// point must keep from every frame edge to be described.
const boundaryMargin = 20

// filterBoundary removes, in place and in order, points whose description
// window would leave the frame.
func filterBoundary(pts []InterestPoint, width, height int) []InterestPoint {
	k := 0
	for i := range pts {
		x := roundHalfUp(pts[i].X)
		y := roundHalfUp(pts[i].Y)
		s := roundHalfUp(pts[i].Scale)
		if x-s*boundaryMargin < 0 || y-s*boundaryMargin < 0 ||
			x+s*boundaryMargin >= width || y+s*boundaryMargin >= height {
			continue
		}
		if i != k {
			pts[k] = pts[i]
		}
		k++
	}
	return pts[:k]
}

// capPoints keeps the maxNum strongest points when maxNum is positive and
// exceeded. Points of equal strength keep their detection order.
func capPoints(pts []InterestPoint, maxNum int) []InterestPoint {
	if maxNum <= 0 || len(pts) <= maxNum {
		return pts
	}
	sort.SliceStable(pts, func(a, b int) bool {
		return pts[a].Value > pts[b].Value
	})
	return pts[:maxNum]
}

// resolveThreads turns a configured thread count into the number of ranges
// to run: negative means one per host CPU, anything else is clamped to
// [1, host].
func resolveThreads(threadNum, host int) int {
	if host < 1 {
		host = 1
	}
	if threadNum < 0 || threadNum > host {
		return host
	}
	if threadNum == 0 {
		return 1
	}
	return threadNum
}

// span is a half-open range of point indices.
type span struct {
	start, end int
}

// partition splits n points into at most threads contiguous spans. The
// first n%threads spans get one extra point; empty spans are omitted.
func partition(n, threads int) []span {
	if n <= 0 || threads <= 0 {
		return nil
	}
	per := n / threads
	extra := n % threads

	spans := make([]span, 0, threads)
	start := 0
	for t := 0; t < threads; t++ {
		size := per
		if t < extra {
			size++
		}
		if size == 0 {
			continue
		}
		spans = append(spans, span{start, start + size})
		start += size
	}
	return spans
}

// describeAll assigns orientations and descriptors to every point on the
// given pool, one task per span, then drops the points that could not be
// described. Survivors keep their relative order.
func describeAll(pool *workpool.Pool, ii *integralImage, pts []InterestPoint, threads int) []InterestPoint {
	if len(pts) == 0 {
		return pts
	}

	ok := make([]bool, len(pts))
	spans := partition(len(pts), threads)
	tasks := make([]func(), len(spans))
	for n, sp := range spans {
		sp := sp
		tasks[n] = func() {
			for i := sp.start; i < sp.end; i++ {
				assignOrientation(ii, &pts[i])
				ok[i] = buildDescriptor(ii, &pts[i])
			}
		}
	}
	pool.Run(tasks)

	k := 0
	for i := range pts {
		if !ok[i] {
			continue
		}
		if i != k {
			pts[k] = pts[i]
		}
		k++
	}
	return pts[:k]
}

func hostThreads() int {
	return runtime.GOMAXPROCS(0)
}
