package surf

// Option configures a Handle during creation.
//
// Example:
//
//	h, err := surf.Create(640, 480, surf.PixelFormatMono,
//		surf.WithOctaves(3),
//		surf.WithMaxPointNum(500))
type Option func(*handleOptions)

// Default detector parameters.
const (
	DefaultOctaves  = 4
	DefaultInitStep = 2
	// DefaultThreshold is 0.0004 of the squared 8-bit range, truncated.
	DefaultThreshold = 26
)

// handleOptions holds the configuration applied by Create.
type handleOptions struct {
	octaves     int
	initStep    int
	threshold   int
	maxPointNum int
	threadNum   int
}

func defaultOptions() handleOptions {
	return handleOptions{
		octaves:     DefaultOctaves,
		initStep:    DefaultInitStep,
		threshold:   DefaultThreshold,
		maxPointNum: -1,
		threadNum:   -1,
	}
}

// WithOctaves sets the number of octaves searched, from 1 to 5. More octaves
// find larger features but need a larger frame.
func WithOctaves(n int) Option {
	return func(o *handleOptions) {
		o.octaves = n
	}
}

// WithInitStep sets the sampling step of the first octave in pixels.
func WithInitStep(n int) Option {
	return func(o *handleOptions) {
		o.initStep = n
	}
}

// WithThreshold sets the minimum Hessian response of a candidate.
func WithThreshold(t int) Option {
	return func(o *handleOptions) {
		o.threshold = t
	}
}

// WithMaxPointNum caps the number of points kept per frame. Zero or a
// negative value means no cap.
func WithMaxPointNum(n int) Option {
	return func(o *handleOptions) {
		o.maxPointNum = n
	}
}

// WithThreadNum sets how many parallel ranges descriptors are computed in.
// A negative value uses every available CPU.
func WithThreadNum(n int) Option {
	return func(o *handleOptions) {
		o.threadNum = n
	}
}
