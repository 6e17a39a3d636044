package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Keypoint is a detected interest point in source image coordinates, as
// drawn by DrawKeypoints.
type Keypoint struct {
	X           float64
	Y           float64
	Scale       float64
	Orientation float64 // radians, 0 along +X, increasing towards +Y
	Sign        int     // 1 for dark blobs on a bright background, 0 otherwise
}

// OverlayOptions controls how keypoints are rendered.
type OverlayOptions struct {
	// RadiusFactor multiplies a keypoint's scale to give the circle radius
	// in pixels. Zero selects DefaultRadiusFactor.
	RadiusFactor float64

	// ShowLabels prints each keypoint's index next to its circle.
	ShowLabels bool

	// LabelColorHex is the label colour ("#RRGGBB" or "#RRGGBBAA"). Invalid
	// or empty values fall back to white.
	LabelColorHex string
}

// DefaultRadiusFactor approximates the radius of the region a keypoint's
// descriptor samples, relative to its scale.
const DefaultRadiusFactor = 2.5

// OverlayResult contains the annotated image.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Keypoints   int    `json:"keypoints"`
}

// DrawKeypoints renders each keypoint as a circle with a tick pointing along
// its orientation. Hue encodes orientation; dark-blob keypoints are drawn at
// a lower brightness than bright-blob keypoints. Points outside the image are
// clipped.
func DrawKeypoints(img image.Image, kps []Keypoint, opts OverlayOptions) (*OverlayResult, error) {
	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	factor := opts.RadiusFactor
	if factor <= 0 {
		factor = DefaultRadiusFactor
	}

	labelColor, err := parseHexColor(opts.LabelColorHex)
	if err != nil {
		labelColor = color.RGBA{255, 255, 255, 255}
	}

	for i, kp := range kps {
		c := keypointColor(kp)
		r := math.Max(2, factor*kp.Scale)
		cx, cy := bounds.Min.X+int(math.Round(kp.X)), bounds.Min.Y+int(math.Round(kp.Y))

		drawCircle(result, cx, cy, int(math.Round(r)), c)
		ex := cx + int(math.Round(r*math.Cos(kp.Orientation)))
		ey := cy + int(math.Round(r*math.Sin(kp.Orientation)))
		drawLine(result, cx, cy, ex, ey, c)

		if opts.ShowLabels {
			drawText(result, cx+int(r)+2, cy+4, strconv.Itoa(i), labelColor)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &OverlayResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Keypoints:   len(kps),
	}, nil
}

func keypointColor(kp Keypoint) color.Color {
	hue := math.Mod(kp.Orientation*180/math.Pi, 360)
	if hue < 0 {
		hue += 360
	}
	value := 1.0
	if kp.Sign == 1 {
		value = 0.6
	}
	return colorful.Hsv(hue, 1, value).Clamped()
}

// drawCircle draws a one-pixel outline using the midpoint algorithm.
func drawCircle(img *image.RGBA, cx, cy, r int, c color.Color) {
	x, y := r, 0
	d := 1 - r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			setClipped(img, cx+p[0], cy+p[1], c)
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// drawLine is Bresenham's line algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		setClipped(img, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		if 2*e >= dy {
			e += dy
			x0 += sx
		}
		if 2*e <= dx {
			e += dx
			y0 += sy
		}
	}
}

func setClipped(img *image.RGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.Set(x, y, c)
	}
}

// drawText draws text with its baseline at y. Glyphs falling outside the
// image are clipped by the drawer.
func drawText(img *image.RGBA, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}
