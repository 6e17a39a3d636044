package surf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ironsheep/keypoint-tools-mcp/internal/workpool"
)

var (
	// ErrUnsupportedPixelFormat is returned for frame layouts the detector
	// cannot read.
	ErrUnsupportedPixelFormat = errors.New("surf: unsupported pixel format")

	// ErrInvalidGeometry is returned when the frame size, octave count or
	// initial step would leave a response layer without samples.
	ErrInvalidGeometry = errors.New("surf: invalid frame geometry")
)

// Handle is a detector bound to one frame geometry. It owns the buffers
// reused by every extraction and the points of the most recent frame.
//
// A Handle is not safe for concurrent use.
type Handle struct {
	width  int
	height int
	format PixelFormat

	octaves     int
	initStep    int
	threshold   int
	maxPointNum int
	threadNum   int

	integral  *integralImage
	responses *responseMap
	points    []InterestPoint
	pool      *workpool.Pool

	destroyed bool
}

// Create allocates a detector for width x height frames in the given pixel
// format.
//
// Parameters:
//   - width, height: frame size in pixels
//   - format: layout of the frames passed to Extract
//   - opts: optional detector settings
//
// Returns:
//   - *Handle: ready for Extract
//   - error: ErrUnsupportedPixelFormat or ErrInvalidGeometry (wrapped)
func Create(width, height int, format PixelFormat, opts ...Option) (*Handle, error) {
	if !format.Supported() {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPixelFormat, format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGeometry, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.octaves < 1 || o.octaves > len(tripleMap) {
		return nil, fmt.Errorf("%w: octaves %d outside 1..%d", ErrInvalidGeometry, o.octaves, len(tripleMap))
	}
	if o.initStep < 1 {
		return nil, fmt.Errorf("%w: initial step %d", ErrInvalidGeometry, o.initStep)
	}

	responses, err := newResponseMap(width, height, o.octaves, o.initStep)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d frame too small for %d octaves at step %d",
			err, width, height, o.octaves, o.initStep)
	}

	initGaussTable()

	h := &Handle{
		width:     width,
		height:    height,
		format:    format,
		octaves:   o.octaves,
		initStep:  o.initStep,
		responses: responses,
		integral:  newIntegralImage(width, height, responses.maxFilter()),
		points:    make([]InterestPoint, 0, 256),
		pool:      workpool.Shared(),
	}
	h.SetThreshold(o.threshold)
	h.SetMaxPointNum(o.maxPointNum)
	h.SetThreadNum(o.threadNum)

	if log := Logger(); log.Enabled(context.Background(), slog.LevelDebug) {
		for n, l := range responses.layers {
			log.Debug("surf: response layer",
				"index", n, "width", l.width, "height", l.height,
				"step", l.step, "filter", l.filter)
		}
	}
	return h, nil
}

// Width returns the frame width the handle was created for.
func (h *Handle) Width() int { return h.width }

// Height returns the frame height the handle was created for.
func (h *Handle) Height() int { return h.height }

// Format returns the pixel format the handle reads.
func (h *Handle) Format() PixelFormat { return h.format }

// Octaves returns the number of octaves searched.
func (h *Handle) Octaves() int { return h.octaves }

// Threshold returns the minimum Hessian response of a candidate.
func (h *Handle) Threshold() int { return h.threshold }

// SetThreshold sets the minimum Hessian response. Negative values are
// treated as 0.
func (h *Handle) SetThreshold(t int) {
	if t < 0 {
		t = 0
	}
	h.threshold = t
}

// MaxPointNum returns the per-frame cap, or -1 when unlimited.
func (h *Handle) MaxPointNum() int { return h.maxPointNum }

// SetMaxPointNum sets the per-frame cap. Zero or negative removes it.
func (h *Handle) SetMaxPointNum(n int) {
	if n <= 0 {
		n = -1
	}
	h.maxPointNum = n
}

// ThreadNum returns the configured thread count; -1 means every CPU.
func (h *Handle) ThreadNum() int { return h.threadNum }

// SetThreadNum sets the thread count used for descriptors. The value is
// clamped to the available CPUs when an extraction runs.
func (h *Handle) SetThreadNum(n int) {
	h.threadNum = n
}

// Extract detects and describes the interest points of one frame, replacing
// the results of the previous call, and returns how many were found.
//
// image must hold Width*Height pixels in the handle's format, row-major
// without padding. Regions mark areas where detection is suppressed and may
// be nil. Extract never fails: a destroyed handle or a buffer of the wrong
// size yields zero points.
func (h *Handle) Extract(image []byte, regions []SkipRegion) int {
	log := Logger()
	if h.destroyed {
		log.Warn("surf: extract on destroyed handle")
		return 0
	}
	h.points = h.points[:0]

	want := h.width * h.height * h.format.BytesPerPixel()
	if len(image) != want {
		log.Warn("surf: frame size mismatch", "got", len(image), "want", want)
		return 0
	}

	h.integral.build(image, h.format)
	h.responses.build(h.integral, regions)

	pts, full := detectExtrema(h.responses, h.octaves, h.threshold, h.points)
	if full {
		log.Warn("surf: interest point capacity reached", "capacity", MaxInterestPoints)
	}
	candidates := len(pts)

	pts = filterBoundary(pts, h.width, h.height)
	inside := len(pts)

	pts = capPoints(pts, h.maxPointNum)
	kept := len(pts)

	threads := resolveThreads(h.threadNum, hostThreads())
	pts = describeAll(h.pool, h.integral, pts, threads)
	h.points = pts

	log.Debug("surf: frame extracted",
		"candidates", candidates,
		"inside", inside,
		"kept", kept,
		"described", len(pts),
		"threads", threads)

	return len(pts)
}

// Count returns the number of points from the last Extract.
func (h *Handle) Count() int {
	return len(h.points)
}

// Position returns the frame coordinates of point i.
func (h *Handle) Position(i int) (x, y float32) {
	p := &h.points[i]
	return p.X, p.Y
}

// Sign returns 1 when point i is a dark blob on a bright background and 0
// otherwise.
func (h *Handle) Sign(i int) int {
	if h.points[i].Laplacian {
		return 1
	}
	return 0
}

// Descriptor returns the 64 components of point i. The slice aliases the
// handle's storage and is only valid until the next Extract or Destroy.
func (h *Handle) Descriptor(i int) []float32 {
	return h.points[i].Descriptor[:]
}

// Point returns a copy of point i.
func (h *Handle) Point(i int) InterestPoint {
	return h.points[i]
}

// Points returns a copy of every point from the last Extract.
func (h *Handle) Points() []InterestPoint {
	out := make([]InterestPoint, len(h.points))
	copy(out, h.points)
	return out
}

// Destroy releases the handle's buffers. Further calls to Extract return 0
// and Destroy may be called again safely.
func (h *Handle) Destroy() {
	if h == nil || h.destroyed {
		return
	}
	h.destroyed = true
	h.integral = nil
	h.responses = nil
	h.points = nil
}
