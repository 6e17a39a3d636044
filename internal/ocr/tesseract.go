package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Pad grows b by n pixels on every side. The top-left corner is clamped at
// zero; callers that need an upper clamp clip against their own image size.
func (b Bounds) Pad(n int) Bounds {
	out := Bounds{X1: b.X1 - n, Y1: b.Y1 - n, X2: b.X2 + n, Y2: b.Y2 + n}
	if out.X1 < 0 {
		out.X1 = 0
	}
	if out.Y1 < 0 {
		out.Y1 = 0
	}
	return out
}

// Empty reports whether b covers no pixels.
func (b Bounds) Empty() bool {
	return b.X2 <= b.X1 || b.Y2 <= b.Y1
}

// DetectTextRegionsResult contains text region locations without the actual text content.
type DetectTextRegionsResult struct {
	// Regions is the list of detected text regions with bounding boxes.
	Regions []TextRegionBox `json:"regions"`

	// Count is the number of text regions detected.
	Count int `json:"count"`
}

// TextRegionBox is a detected block of text, located but not read.
type TextRegionBox struct {
	Bounds Bounds `json:"bounds"`

	// Confidence is Tesseract's confidence that the block holds text (0.0 to 1.0).
	Confidence float64 `json:"confidence"`
}

// DetectTextRegions finds blocks of text in an image file.
//
// Text produces dense, high-contrast corners that swamp keypoint detectors
// and rarely survive a change of viewpoint, so the server uses these blocks
// as skip regions when a caller asks for text masking.
//
// Detection works at Tesseract's RIL_BLOCK level, which groups words into
// paragraph-like blocks. Blocks whose confidence is below minConfidence
// (0.0 to 1.0) are dropped.
//
// Tesseract must be installed; its absence is reported as an error.
func DetectTextRegions(imagePath string, minConfidence float64) (*DetectTextRegionsResult, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	return detectBlocks(client, minConfidence)
}

// DetectTextRegionsInImage is DetectTextRegions for an image already in
// memory. The image is handed to Tesseract as an in-memory PNG; no temporary
// file is written.
func DetectTextRegionsInImage(img image.Image, minConfidence float64) (*DetectTextRegionsResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	return detectBlocks(client, minConfidence)
}

func detectBlocks(client *gosseract.Client, minConfidence float64) (*DetectTextRegionsResult, error) {
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("failed to get text regions: %w", err)
	}

	regions := filterBoxes(boxes, minConfidence)
	return &DetectTextRegionsResult{
		Regions: regions,
		Count:   len(regions),
	}, nil
}

func filterBoxes(boxes []gosseract.BoundingBox, minConfidence float64) []TextRegionBox {
	regions := make([]TextRegionBox, 0, len(boxes))
	for _, box := range boxes {
		confidence := float64(box.Confidence) / 100.0
		if confidence < minConfidence {
			continue
		}
		b := Bounds{
			X1: box.Box.Min.X,
			Y1: box.Box.Min.Y,
			X2: box.Box.Max.X,
			Y2: box.Box.Max.Y,
		}
		if b.Empty() {
			continue
		}
		regions = append(regions, TextRegionBox{Bounds: b, Confidence: confidence})
	}
	return regions
}

// PadRegions returns the bounds of regions grown by pad pixels, ready to be
// turned into skip regions.
func PadRegions(regions []TextRegionBox, pad int) []Bounds {
	out := make([]Bounds, 0, len(regions))
	for _, r := range regions {
		out = append(out, r.Bounds.Pad(pad))
	}
	return out
}
