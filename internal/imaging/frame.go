package imaging

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/keypoint-tools-mcp/internal/surf"
)

// ErrShortBuffer is returned when a raw camera buffer is smaller than its
// declared geometry requires.
var ErrShortBuffer = errors.New("raw buffer too small for frame geometry")

// Frame is a packed pixel buffer in the layout the keypoint extractor reads:
// rows top to bottom, no padding, Format.BytesPerPixel() bytes per pixel.
type Frame struct {
	Width  int
	Height int
	Format surf.PixelFormat
	Pix    []byte
}

// ToFrame packs img into a Frame of the requested format. Mono pixels are the
// integer mean of the red, green and blue channels; alpha is ignored.
func ToFrame(img image.Image, format surf.PixelFormat) (*Frame, error) {
	if !format.Supported() {
		return nil, fmt.Errorf("%w: %v", surf.ErrUnsupportedPixelFormat, format)
	}

	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	bpp := format.BytesPerPixel()
	out := make([]byte, w*h*bpp)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		dst := out[y*w*bpp : (y+1)*w*bpp]
		for x := 0; x < w; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]
			switch format {
			case surf.PixelFormatMono:
				dst[x] = byte((int(r) + int(g) + int(b)) / 3)
			case surf.PixelFormatRGB:
				dst[x*3], dst[x*3+1], dst[x*3+2] = r, g, b
			case surf.PixelFormatBGR:
				dst[x*3], dst[x*3+1], dst[x*3+2] = b, g, r
			}
		}
	}

	return &Frame{Width: w, Height: h, Format: format, Pix: out}, nil
}

// Gray wraps a mono frame as an image sharing the frame's pixels, so raw
// camera frames can go through the same crop and reduce steps as decoded
// images.
func (f *Frame) Gray() (*image.Gray, error) {
	if f.Format != surf.PixelFormatMono {
		return nil, fmt.Errorf("%w: %v frame is not mono", surf.ErrUnsupportedPixelFormat, f.Format)
	}
	return &image.Gray{
		Pix:    f.Pix,
		Stride: f.Width,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}, nil
}

// ProcMode selects how far an image is shrunk before extraction. Smaller
// frames extract faster at the cost of fine detail.
type ProcMode int

const (
	ProcFull ProcMode = iota
	ProcTwoThird
	ProcHalf
	ProcOneThird
	ProcQuarter
)

var procModeNames = [...]string{"full", "two-third", "half", "one-third", "quarter"}

func (m ProcMode) String() string {
	if m < 0 || int(m) >= len(procModeNames) {
		return fmt.Sprintf("ProcMode(%d)", int(m))
	}
	return procModeNames[m]
}

// ParseProcMode accepts the names printed by String. An empty name selects
// ProcFull.
func ParseProcMode(name string) (ProcMode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ProcFull, nil
	}
	for i, n := range procModeNames {
		if n == name {
			return ProcMode(i), nil
		}
	}
	return ProcFull, fmt.Errorf("unknown proc mode %q (want one of %s)", name, strings.Join(procModeNames[:], ", "))
}

// Factor is the ratio of source size to processed size. Multiplying a
// processed coordinate by Factor maps it back onto the source image.
func (m ProcMode) Factor() float64 {
	switch m {
	case ProcTwoThird:
		return 1.5
	case ProcHalf:
		return 2
	case ProcOneThird:
		return 3
	case ProcQuarter:
		return 4
	default:
		return 1
	}
}

// Size returns the processed dimensions for a width x height source.
// Two-third mode works on whole 3x3 blocks, so partial blocks are dropped.
func (m ProcMode) Size(width, height int) (int, int) {
	switch m {
	case ProcTwoThird:
		return width / 3 * 2, height / 3 * 2
	case ProcHalf:
		return width / 2, height / 2
	case ProcOneThird:
		return width / 3, height / 3
	case ProcQuarter:
		return width / 4, height / 4
	default:
		return width, height
	}
}

// Reduce shrinks img according to mode using box filtering, which averages
// every source pixel that falls into a destination pixel. ProcFull returns
// img unchanged.
func Reduce(img image.Image, mode ProcMode) image.Image {
	if mode == ProcFull {
		return img
	}
	b := img.Bounds()
	w, h := mode.Size(b.Dx(), b.Dy())
	if w < 1 || h < 1 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	return imaging.Resize(img, w, h, imaging.Box)
}

// Smooth applies a Gaussian blur of the given radius. Non-positive radii
// return img unchanged.
func Smooth(img image.Image, sigma float64) image.Image {
	if sigma <= 0 {
		return img
	}
	return blur.Gaussian(img, sigma)
}

// RawFormat names the memory layouts produced by camera capture pipelines.
type RawFormat int

const (
	RawRGB RawFormat = iota
	RawBGR
	RawRGBA
	RawBGRA
	RawARGB
	RawABGR
	RawMono
	Raw420v
	Raw420f
	RawNV21
	Raw2vuy
	RawYUVS
)

var rawFormatNames = [...]string{
	"rgb", "bgr", "rgba", "bgra", "argb", "abgr",
	"mono", "420v", "420f", "nv21", "2vuy", "yuvs",
}

func (f RawFormat) String() string {
	if f < 0 || int(f) >= len(rawFormatNames) {
		return fmt.Sprintf("RawFormat(%d)", int(f))
	}
	return rawFormatNames[f]
}

// ParseRawFormat is case-insensitive.
func ParseRawFormat(name string) (RawFormat, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range rawFormatNames {
		if n == name {
			return RawFormat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: raw format %q", surf.ErrUnsupportedPixelFormat, name)
}

// lumaLayout describes where the luminance of one pixel lives: stride bytes
// per pixel, and either a single byte at offset or the mean of three bytes
// starting at offset.
func (f RawFormat) lumaLayout() (stride, offset int, average bool) {
	switch f {
	case RawRGB, RawBGR:
		return 3, 0, true
	case RawRGBA, RawBGRA:
		return 4, 0, true
	case RawARGB, RawABGR:
		return 4, 1, true
	case Raw2vuy:
		return 2, 1, false
	case RawYUVS:
		return 2, 0, false
	default:
		// Mono and the planar formats start with a full-resolution luma plane.
		return 1, 0, false
	}
}

// LumaFromRaw converts a raw camera buffer into a full-size mono frame.
// Planar YUV formats only need their luma plane to be present; chroma is
// never read.
func LumaFromRaw(buf []byte, format RawFormat, width, height int) (*Frame, error) {
	if format < 0 || int(format) >= len(rawFormatNames) {
		return nil, fmt.Errorf("%w: %v", surf.ErrUnsupportedPixelFormat, format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", surf.ErrInvalidGeometry, width, height)
	}

	stride, offset, average := format.lumaLayout()
	if need := width * height * stride; len(buf) < need {
		return nil, fmt.Errorf("%w: %s %dx%d needs %d bytes, got %d", ErrShortBuffer, format, width, height, need, len(buf))
	}

	out := make([]byte, width*height)
	for i := range out {
		p := i*stride + offset
		if average {
			out[i] = byte((int(buf[p]) + int(buf[p+1]) + int(buf[p+2])) / 3)
		} else {
			out[i] = buf[p]
		}
	}

	return &Frame{Width: width, Height: height, Format: surf.PixelFormatMono, Pix: out}, nil
}
