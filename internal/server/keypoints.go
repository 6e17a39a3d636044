package server

import (
	"fmt"
	"image"
	"log"
	"math"
	"strings"

	"github.com/ironsheep/keypoint-tools-mcp/internal/detection"
	"github.com/ironsheep/keypoint-tools-mcp/internal/imaging"
	"github.com/ironsheep/keypoint-tools-mcp/internal/ocr"
	"github.com/ironsheep/keypoint-tools-mcp/internal/surf"
)

// defaultTextPad is how far detected text boxes are grown before masking.
const defaultTextPad = 4

// Minimum text confidence per detector when the caller gives none. The edge
// heuristic scores real text lower than Tesseract does.
var defaultTextConfidence = map[string]float64{
	"tesseract": 0.5,
	"edges":     0.15,
}

type pointArg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// keypointsArgs are the extraction settings shared by every keypoint tool.
// Coordinates are in source image pixels.
type keypointsArgs struct {
	Path string `json:"path"`

	Threshold *int   `json:"threshold"`
	MaxPoints *int   `json:"max_points"`
	Threads   *int   `json:"threads"`
	Octaves   int    `json:"octaves"`
	Format    string `json:"format"`
	ProcMode  string `json:"proc_mode"`

	Region      *imaging.Region  `json:"region"`
	NamedRegion string           `json:"named_region"`
	SkipRegions [][]pointArg     `json:"skip_regions"`
	SkipRects   []imaging.Region `json:"skip_rects"`

	MaskText          bool    `json:"mask_text"`
	TextDetector      string  `json:"text_detector"`
	TextMinConfidence float64 `json:"text_min_confidence"`
	TextPad           *int    `json:"text_pad"`

	BlurSigma          float64 `json:"blur_sigma"`
	IncludeDescriptors bool    `json:"include_descriptors"`
}

// preparedFrame is a frame ready for the detector plus what is needed to map
// its keypoints back onto the source image.
type preparedFrame struct {
	frame  *imaging.Frame
	mode   imaging.ProcMode
	origin image.Point
	region *imaging.Region
	skips  []surf.SkipRegion

	textDetector string
	textRegions  int
}

func (p *preparedFrame) factor() float64 {
	return p.mode.Factor()
}

// toFrame maps a source coordinate into the processed frame.
func (p *preparedFrame) toFrame(x, y float64) surf.Point {
	f := p.factor()
	return surf.Point{
		X: float32((x - float64(p.origin.X)) / f),
		Y: float32((y - float64(p.origin.Y)) / f),
	}
}

// toSource maps a frame coordinate back onto the source image.
func (p *preparedFrame) toSource(x, y float32) (float64, float64) {
	f := p.factor()
	return float64(x)*f + float64(p.origin.X), float64(y)*f + float64(p.origin.Y)
}

// corner maps a frame coordinate to integer source pixels, truncating the
// scaled position in single precision.
func (p *preparedFrame) corner(x, y float32) (int, int) {
	f := float32(p.factor())
	return int(x*f) + p.origin.X, int(y*f) + p.origin.Y
}

// prepareFrame runs the source image through region crop, smoothing,
// proc-mode reduction and pixel packing, and converts every skip area into
// frame coordinates.
func prepareFrame(src image.Image, a *keypointsArgs, format surf.PixelFormat) (*preparedFrame, error) {
	mode, err := imaging.ParseProcMode(a.ProcMode)
	if err != nil {
		return nil, err
	}

	p := &preparedFrame{mode: mode, origin: src.Bounds().Min}
	roi := src

	region := a.Region
	if region == nil && a.NamedRegion != "" {
		b := src.Bounds()
		r, err := imaging.NamedRegion(b.Dx(), b.Dy(), a.NamedRegion)
		if err != nil {
			return nil, err
		}
		r.X1, r.X2 = r.X1+b.Min.X, r.X2+b.Min.X
		r.Y1, r.Y2 = r.Y1+b.Min.Y, r.Y2+b.Min.Y
		region = &r
	}
	if region != nil {
		roi, err = imaging.CropRegion(src, *region)
		if err != nil {
			return nil, err
		}
		p.origin = region.Origin()
		p.region = region
	}

	reduced := imaging.Reduce(imaging.Smooth(roi, a.BlurSigma), mode)
	p.frame, err = imaging.ToFrame(reduced, format)
	if err != nil {
		return nil, err
	}

	for i, quad := range a.SkipRegions {
		if len(quad) != 4 {
			return nil, fmt.Errorf("skip_regions[%d]: need 4 vertices, got %d", i, len(quad))
		}
		var v [4]surf.Point
		for j, pt := range quad {
			v[j] = p.toFrame(pt.X, pt.Y)
		}
		p.skips = append(p.skips, surf.NewSkipQuad(v))
	}
	for _, r := range a.SkipRects {
		p.skips = append(p.skips, p.skipRect(r.X1, r.Y1, r.X2, r.Y2))
	}

	if a.MaskText {
		boxes, used, err := detectText(src, a.TextDetector, a.TextMinConfidence)
		if err != nil {
			return nil, err
		}
		pad := defaultTextPad
		if a.TextPad != nil {
			pad = *a.TextPad
		}
		for _, b := range ocr.PadRegions(boxes, pad) {
			p.skips = append(p.skips, p.skipRect(b.X1, b.Y1, b.X2, b.Y2))
		}
		p.textDetector = used
		p.textRegions = len(boxes)
	}

	return p, nil
}

func (p *preparedFrame) skipRect(x1, y1, x2, y2 int) surf.SkipRegion {
	a := p.toFrame(float64(x1), float64(y1))
	b := p.toFrame(float64(x2), float64(y2))
	return surf.NewSkipRect(a.X, a.Y, b.X, b.Y)
}

// detectText finds text blocks in img with the named detector. "auto" tries
// Tesseract and falls back to the edge heuristic when Tesseract fails. The
// name of the detector that produced the boxes is returned with them.
func detectText(img image.Image, detector string, minConfidence float64) ([]ocr.TextRegionBox, string, error) {
	detector = strings.ToLower(strings.TrimSpace(detector))
	switch detector {
	case "", "auto":
		boxes, err := tesseractText(img, minConfidence)
		if err == nil {
			return boxes, "tesseract", nil
		}
		log.Printf("Tesseract text detection failed, using edge heuristic: %v", err)
		boxes, err = edgeText(img, minConfidence)
		return boxes, "edges", err
	case "tesseract":
		boxes, err := tesseractText(img, minConfidence)
		return boxes, detector, err
	case "edges":
		boxes, err := edgeText(img, minConfidence)
		return boxes, detector, err
	default:
		return nil, "", fmt.Errorf("unknown text detector: %s (use auto, tesseract or edges)", detector)
	}
}

func tesseractText(img image.Image, minConfidence float64) ([]ocr.TextRegionBox, error) {
	if minConfidence <= 0 {
		minConfidence = defaultTextConfidence["tesseract"]
	}
	res, err := ocr.DetectTextRegionsInImage(img, minConfidence)
	if err != nil {
		return nil, err
	}
	return res.Regions, nil
}

func edgeText(img image.Image, minConfidence float64) ([]ocr.TextRegionBox, error) {
	if minConfidence <= 0 {
		minConfidence = defaultTextConfidence["edges"]
	}
	res, err := detection.DetectTextRegions(img, minConfidence)
	if err != nil {
		return nil, err
	}
	boxes := make([]ocr.TextRegionBox, 0, len(res.Regions))
	for _, r := range res.Regions {
		boxes = append(boxes, ocr.TextRegionBox{
			Bounds:     ocr.Bounds(r.Bounds),
			Confidence: r.Confidence,
		})
	}
	return boxes, nil
}

// extract runs the detector on a prepared frame with the caller's settings
// and returns the points in frame coordinates.
func (s *Server) extract(p *preparedFrame, a *keypointsArgs) ([]surf.InterestPoint, error) {
	octaves := a.Octaves
	if octaves == 0 {
		octaves = surf.DefaultOctaves
	}

	e, err := s.handles.acquire(handleKey{
		width:   p.frame.Width,
		height:  p.frame.Height,
		format:  p.frame.Format,
		octaves: octaves,
	})
	if err != nil {
		return nil, err
	}
	defer s.handles.release(e)

	h := e.handle
	threshold := surf.DefaultThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	maxPoints := s.cfg.MaxPoints
	if a.MaxPoints != nil {
		maxPoints = *a.MaxPoints
	}
	threads := s.cfg.Threads
	if a.Threads != nil {
		threads = *a.Threads
	}
	h.SetThreshold(threshold)
	h.SetMaxPointNum(maxPoints)
	h.SetThreadNum(threads)

	h.Extract(p.frame.Pix, p.skips)
	return h.Points(), nil
}

// KeypointInfo is one keypoint in source image coordinates.
type KeypointInfo struct {
	X              float64   `json:"x"`
	Y              float64   `json:"y"`
	Scale          float64   `json:"scale"`
	Orientation    float64   `json:"orientation"`
	OrientationDeg float64   `json:"orientation_deg"`
	Sign           int       `json:"sign"`
	Strength       int       `json:"strength"`
	Descriptor     []float32 `json:"descriptor,omitempty"`
}

// KeypointsResult is returned by keypoints_extract and keypoints_extract_raw.
type KeypointsResult struct {
	Count           int             `json:"count"`
	SourceWidth     int             `json:"source_width"`
	SourceHeight    int             `json:"source_height"`
	ProcMode        string          `json:"proc_mode"`
	ProcessedWidth  int             `json:"processed_width"`
	ProcessedHeight int             `json:"processed_height"`
	Region          *imaging.Region `json:"region,omitempty"`
	SkipRegions     int             `json:"skip_regions"`
	TextDetector    string          `json:"text_detector,omitempty"`
	TextRegions     int             `json:"text_regions,omitempty"`
	Keypoints       []KeypointInfo  `json:"keypoints"`
}

func newKeypointsResult(src image.Rectangle, p *preparedFrame, pts []surf.InterestPoint, descriptors bool) *KeypointsResult {
	res := &KeypointsResult{
		Count:           len(pts),
		SourceWidth:     src.Dx(),
		SourceHeight:    src.Dy(),
		ProcMode:        p.mode.String(),
		ProcessedWidth:  p.frame.Width,
		ProcessedHeight: p.frame.Height,
		Region:          p.region,
		SkipRegions:     len(p.skips),
		TextDetector:    p.textDetector,
		TextRegions:     p.textRegions,
		Keypoints:       make([]KeypointInfo, 0, len(pts)),
	}
	for i := range pts {
		pt := &pts[i]
		x, y := p.toSource(pt.X, pt.Y)
		kp := KeypointInfo{
			X:              round3(x),
			Y:              round3(y),
			Scale:          round3(float64(pt.Scale) * p.factor()),
			Orientation:    round3(float64(pt.Orientation)),
			OrientationDeg: round3(float64(pt.Orientation) * 180 / math.Pi),
			Strength:       pt.Value,
		}
		if pt.Laplacian {
			kp.Sign = 1
		}
		if descriptors {
			kp.Descriptor = append([]float32(nil), pt.Descriptor[:]...)
		}
		res.Keypoints = append(res.Keypoints, kp)
	}
	return res
}

// overlayKeypoints converts extraction results to the overlay's input.
func overlayKeypoints(res *KeypointsResult) []imaging.Keypoint {
	out := make([]imaging.Keypoint, 0, len(res.Keypoints))
	for _, kp := range res.Keypoints {
		out = append(out, imaging.Keypoint{
			X:           kp.X,
			Y:           kp.Y,
			Scale:       kp.Scale,
			Orientation: kp.Orientation,
			Sign:        kp.Sign,
		})
	}
	return out
}

// CornerPoint is an integer keypoint position in source pixels.
type CornerPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CornersResult is returned by keypoints_corners.
type CornersResult struct {
	Count    int           `json:"count"`
	ProcMode string        `json:"proc_mode"`
	Corners  []CornerPoint `json:"corners"`
}

func newCornersResult(p *preparedFrame, pts []surf.InterestPoint) *CornersResult {
	res := &CornersResult{
		Count:    len(pts),
		ProcMode: p.mode.String(),
		Corners:  make([]CornerPoint, 0, len(pts)),
	}
	for i := range pts {
		x, y := p.corner(pts[i].X, pts[i].Y)
		res.Corners = append(res.Corners, CornerPoint{X: x, Y: y})
	}
	return res
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
