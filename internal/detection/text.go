package detection

import (
	"image"
	"math"
	"sort"
)

// TextRegion represents a detected text region
type TextRegion struct {
	Bounds     Bounds  `json:"bounds"`
	Confidence float64 `json:"confidence"`
	Area       int     `json:"area"`
}

// TextRegionsResult contains detected text regions
type TextRegionsResult struct {
	Regions []TextRegion `json:"regions"`
	Count   int          `json:"count"`
}

// textWindows are the sliding window sizes tried, roughly matching one line
// of very small, small, medium and large text.
var textWindows = []struct{ w, h int }{
	{80, 25},
	{100, 30},
	{150, 40},
	{200, 50},
}

// DetectTextRegions finds regions likely to contain text without OCR.
//
// Text shows a medium edge density (strokes separated by background) with
// more horizontal than vertical edge runs. Windows that look like that are
// merged into regions, strongest first. This is the fallback text masker
// used when Tesseract is unavailable; it is fast but coarse.
func DetectTextRegions(img image.Image, minConfidence float64) (*TextRegionsResult, error) {
	bounds := img.Bounds()
	edges := newEdgeMap(img)

	candidates := make([]TextRegion, 0)
	for _, ws := range textWindows {
		stepX, stepY := ws.w/2, ws.h/2
		area := ws.w * ws.h

		for y := 0; y+ws.h <= edges.height; y += stepY {
			for x := 0; x+ws.w <= edges.width; x += stepX {
				density := float64(edges.count(x, y, ws.w, ws.h)) / float64(area)
				if density < 0.05 || density > 0.4 {
					continue
				}

				confidence := horizontalScore(edges, x, y, ws.w, ws.h) * (1.0 - math.Abs(density-0.2)/0.2)
				if confidence < minConfidence {
					continue
				}
				candidates = append(candidates, TextRegion{
					Bounds: Bounds{
						X1: x + bounds.Min.X,
						Y1: y + bounds.Min.Y,
						X2: x + ws.w + bounds.Min.X,
						Y2: y + ws.h + bounds.Min.Y,
					},
					Confidence: math.Round(confidence*1000) / 1000,
					Area:       area,
				})
			}
		}
	}

	merged := mergeOverlappingRegions(candidates)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})

	return &TextRegionsResult{
		Regions: merged,
		Count:   len(merged),
	}, nil
}

// horizontalScore is the fraction of edge runs in the window that are
// horizontal. It is 0 for a window without edges.
func horizontalScore(edges *edgeMap, x, y, w, h int) float64 {
	hr := edges.horizontalRuns(x, y, w, h)
	vr := edges.verticalRuns(x, y, w, h)
	if hr+vr == 0 {
		return 0
	}
	return float64(hr) / float64(hr+vr)
}

// mergeOverlappingRegions folds each region into the first already-merged
// region it overlaps, keeping the higher confidence.
func mergeOverlappingRegions(regions []TextRegion) []TextRegion {
	merged := make([]TextRegion, 0, len(regions))

	for _, r := range regions {
		found := false
		for i := range merged {
			if !regionsOverlap(r.Bounds, merged[i].Bounds) {
				continue
			}
			b := mergeBounds(r.Bounds, merged[i].Bounds)
			merged[i].Bounds = b
			merged[i].Confidence = math.Max(r.Confidence, merged[i].Confidence)
			merged[i].Area = (b.X2 - b.X1) * (b.Y2 - b.Y1)
			found = true
			break
		}
		if !found {
			merged = append(merged, r)
		}
	}

	return merged
}

func regionsOverlap(a, b Bounds) bool {
	return a.X1 < b.X2 && a.X2 > b.X1 && a.Y1 < b.Y2 && a.Y2 > b.Y1
}

// mergeBounds returns the union of a and b.
func mergeBounds(a, b Bounds) Bounds {
	return Bounds{
		X1: min(a.X1, b.X1),
		Y1: min(a.Y1, b.Y1),
		X2: max(a.X2, b.X2),
		Y2: max(a.Y2, b.Y2),
	}
}
