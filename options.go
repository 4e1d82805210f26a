package gcf

import (
	"log/slog"

	"github.com/meigma/gcf/compression"
)

// Option configures a Writer or a Reader. Options that do not apply to the
// type they are passed to are ignored.
type Option func(*options)

type options struct {
	registry       *compression.Registry
	logger         *slog.Logger
	version        int
	unpadded       bool
	resourceCount  int
	maxContentSize uint64
}

func newOptions(opts []Option) options {
	o := options{
		version:        DefaultVersion,
		resourceCount:  -1,
		maxContentSize: compression.DefaultMaxDecompressedSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.registry == nil {
		o.registry = compression.Default()
	}
	return o
}

// WithRegistry sets the compression registry used to encode and decode
// resource content. The default is compression.Default.
func WithRegistry(reg *compression.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithLogger sets the logger for container events.
// By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithVersion sets the format version a Writer stamps into the header.
func WithVersion(version int) Option {
	return func(o *options) {
		o.version = version
	}
}

// WithExpectedVersion sets the format version a Reader accepts.
// It is the same setting as WithVersion.
func WithExpectedVersion(version int) Option {
	return WithVersion(version)
}

// WithUnpadded makes a Writer produce a container without inter-record
// padding.
func WithUnpadded(unpadded bool) Option {
	return func(o *options) {
		o.unpadded = unpadded
	}
}

// WithResourceCount declares the number of resources a Writer will add.
// It is required when the destination cannot seek, since the header is
// written before any resource. Close fails if the count does not match.
func WithResourceCount(n int) Option {
	return func(o *options) {
		o.resourceCount = n
	}
}

// WithMaxContentSize limits the content size a Reader will buffer for one
// resource. Set limit to 0 to disable the limit.
func WithMaxContentSize(limit uint64) Option {
	return func(o *options) {
		o.maxContentSize = limit
	}
}
