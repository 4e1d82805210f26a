package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sync"

	"github.com/meigma/gcf/internal/sizing"
)

// DefaultMaxDecompressedSize is the default limit on decompressed output (1GiB).
const DefaultMaxDecompressedSize = 1 << 30

// Codec compresses and decompresses content for a single scheme.
type Codec interface {
	// Compress returns the compressed form of src.
	Compress(src []byte) ([]byte, error)

	// NewReader returns a reader producing the decompressed form of src.
	NewReader(src io.Reader) (io.ReadCloser, error)
}

// Registry maps scheme codes to codecs.
type Registry struct {
	codecs              map[Scheme]Codec
	maxDecompressedSize uint64
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithCodec registers c for scheme s, replacing any previous codec.
func WithCodec(s Scheme, c Codec) RegistryOption {
	return func(r *Registry) {
		if c == nil {
			delete(r.codecs, s)
			return
		}
		r.codecs[s] = c
	}
}

// WithMaxDecompressedSize limits the decompressed size of a single payload.
// Set limit to 0 to disable the limit.
func WithMaxDecompressedSize(limit uint64) RegistryOption {
	return func(r *Registry) {
		r.maxDecompressedSize = limit
	}
}

// WithStandardSchemes registers the standard schemes.
func WithStandardSchemes() RegistryOption {
	return func(r *Registry) {
		r.codecs[NoCompression] = identityCodec{}
		r.codecs[ZLib] = zlibCodec{}
		r.codecs[Deflate] = deflateCodec{}
		// Test is arbitrarily bound to deflate to keep fixtures small.
		r.codecs[Test] = deflateCodec{}
	}
}

// WithExtendedSchemes registers the non-standard vendor schemes.
func WithExtendedSchemes() RegistryOption {
	return func(r *Registry) {
		r.codecs[Zstd] = newZstdCodec()
		r.codecs[LZ4] = lz4Codec{}
	}
}

// NewRegistry builds a registry. It starts empty; pass WithStandardSchemes
// to get the standard schemes.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		codecs:              make(map[Scheme]Codec),
		maxDecompressedSize: DefaultMaxDecompressedSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry

	extendedOnce     sync.Once
	extendedRegistry *Registry
)

// Default returns the registry holding the standard schemes.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(WithStandardSchemes())
	})
	return defaultRegistry
}

// Extended returns the registry holding the standard and vendor schemes.
func Extended() *Registry {
	extendedOnce.Do(func() {
		extendedRegistry = NewRegistry(WithStandardSchemes(), WithExtendedSchemes())
	})
	return extendedRegistry
}

// Schemes returns the registered schemes in ascending order.
func (r *Registry) Schemes() []Scheme {
	return slices.Sorted(maps.Keys(r.codecs))
}

// Has reports whether s is registered.
func (r *Registry) Has(s Scheme) bool {
	_, ok := r.codecs[s]
	return ok
}

// MaxDecompressedSize returns the configured decompression limit.
func (r *Registry) MaxDecompressedSize() uint64 {
	return r.maxDecompressedSize
}

func (r *Registry) codec(s Scheme) (Codec, error) {
	c, ok := r.codecs[s]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownScheme, uint16(s))
	}
	return c, nil
}

// Compress compresses data with scheme s.
func (r *Registry) Compress(s Scheme, data []byte) ([]byte, error) {
	c, err := r.codec(s)
	if err != nil {
		return nil, err
	}
	out, err := c.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("compress %s: %w", s, err)
	}
	return out, nil
}

// Decompress decompresses data with scheme s.
func (r *Registry) Decompress(s Scheme, data []byte) ([]byte, error) {
	c, err := r.codec(s)
	if err != nil {
		return nil, err
	}
	rc, err := c.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecompression, s, err)
	}
	defer rc.Close()

	out, err := sizing.ReadAllWithLimit(rc, r.maxDecompressedSize, ErrSizeOverflow)
	if err != nil {
		if errors.Is(err, ErrSizeOverflow) {
			return nil, fmt.Errorf("decompress %s: %w: limit %d bytes", s, err, r.maxDecompressedSize)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDecompression, s, err)
	}
	return out, nil
}

// Compress compresses data with scheme s using the default registry.
func Compress(s Scheme, data []byte) ([]byte, error) {
	return Default().Compress(s, data)
}

// Decompress decompresses data with scheme s using the default registry.
func Decompress(s Scheme, data []byte) ([]byte, error) {
	return Default().Decompress(s, data)
}
