package surf

import "fmt"

// PixelFormat identifies the memory layout of a frame passed to Extract.
type PixelFormat int

const (
	// PixelFormatMono is one 8-bit luminance byte per pixel.
	PixelFormatMono PixelFormat = iota
	// PixelFormatRGB is three bytes per pixel in R, G, B order.
	PixelFormatRGB
	// PixelFormatBGR is three bytes per pixel in B, G, R order.
	PixelFormatBGR
)

// BytesPerPixel returns the number of bytes one pixel occupies, or 0 for an
// unsupported format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatMono:
		return 1
	case PixelFormatRGB, PixelFormatBGR:
		return 3
	default:
		return 0
	}
}

// Supported reports whether the detector can read frames in this format.
func (f PixelFormat) Supported() bool {
	return f.BytesPerPixel() > 0
}

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatMono:
		return "mono"
	case PixelFormatRGB:
		return "rgb"
	case PixelFormatBGR:
		return "bgr"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// ParsePixelFormat converts a format name ("mono", "rgb", "bgr") into a
// PixelFormat.
func ParsePixelFormat(name string) (PixelFormat, error) {
	switch name {
	case "mono", "gray", "grey":
		return PixelFormatMono, nil
	case "rgb":
		return PixelFormatRGB, nil
	case "bgr":
		return PixelFormatBGR, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedPixelFormat, name)
	}
}
