package codec

// Default resource limits.
const (
	DefaultMaxPayloadBytes = 1 << 30 // 1 GiB per tensor
	DefaultMaxDepth        = 100     // nested messages
)

// Options configures decoding limits.
type Options struct {
	// MaxPayloadBytes bounds the bytes a single tensor may claim, through
	// its dims or its stored payload. Zero or negative disables the bound.
	MaxPayloadBytes int64

	// MaxDepth bounds message nesting, e.g. graphs inside attributes.
	MaxDepth int
}

// DefaultOptions returns the default decoding limits.
func DefaultOptions() Options {
	return Options{
		MaxPayloadBytes: DefaultMaxPayloadBytes,
		MaxDepth:        DefaultMaxDepth,
	}
}

// Option adjusts Options.
type Option func(*Options)

// WithMaxPayloadBytes sets the per-tensor payload bound.
func WithMaxPayloadBytes(n int64) Option {
	return func(o *Options) { o.MaxPayloadBytes = n }
}

// WithMaxDepth sets the message nesting bound.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

func buildOptions(opts []Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}
