package gcf

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/meigma/gcf/internal/file"
	"github.com/meigma/gcf/internal/sizing"
)

// Reader reads the resources of a GCF container in order.
//
// Next positions the Reader on a resource; its content can then be read
// once with ReadBlob, ReadTexture or ReadContent. Content that is not read
// is skipped by the following Next, by seeking when the source implements
// io.Seeker and by discarding otherwise.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	cr     *file.CountingReader
	header Header
	opts   options

	index     int
	current   Descriptor
	remaining uint64
	err       error
}

// TextureLevel is one decoded mip level of a texture.
type TextureLevel struct {
	Descriptor MipLevelDescriptor
	Layers     [][]byte
}

// NewReader reads and validates the container header from r.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	o := newOptions(opts)
	cr := &file.CountingReader{R: r}
	h, err := ReadHeader(cr, o.version)
	if err != nil {
		return nil, err
	}
	rd := &Reader{cr: cr, header: h, opts: o}
	rd.log().Info("container opened",
		slog.Int("version", o.version),
		slog.Int("resources", int(h.ResourceCount)),
		slog.Bool("padded", h.Padded()))
	return rd, nil
}

func (r *Reader) log() *slog.Logger {
	if r.opts.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.opts.logger
}

// Header returns the container header.
func (r *Reader) Header() Header {
	return r.header
}

// Offset returns the number of bytes consumed since the start of the container.
func (r *Reader) Offset() uint64 {
	return r.cr.N
}

// Next advances to the next resource and returns its descriptor. It
// returns io.EOF after the last resource declared by the header.
func (r *Reader) Next() (Descriptor, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := r.finish(); err != nil {
		return nil, r.fail(err)
	}
	if r.index >= int(r.header.ResourceCount) {
		return nil, io.EOF
	}

	offset := r.cr.N
	common, err := ReadCommonDescriptor(r.cr)
	if err != nil {
		return nil, r.fail(fmt.Errorf("resource %d: %w", r.index, err))
	}
	d, err := readExtension(r.cr, common)
	if err != nil {
		return nil, r.fail(fmt.Errorf("resource %d: %w", r.index, err))
	}
	r.current = d
	r.remaining = uint64(common.ContentSize)
	r.index++

	r.log().Debug("resource read",
		slog.Int("index", r.index-1),
		slog.String("type", common.Type.String()),
		slog.String("format", common.Format.String()),
		slog.Uint64("content_size", uint64(common.ContentSize)),
		slog.String("scheme", common.SupercompressionScheme.String()),
		slog.Uint64("offset", offset))
	return d, nil
}

// Descriptors iterates over the remaining resources. Iteration stops after
// the last resource or after yielding an error.
func (r *Reader) Descriptors() iter.Seq2[Descriptor, error] {
	return func(yield func(Descriptor, error) bool) {
		for {
			d, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(d, err) || err != nil {
				return
			}
		}
	}
}

// finish skips what is left of the current resource and its padding.
func (r *Reader) finish() error {
	if r.current == nil {
		return nil
	}
	if r.remaining > 0 {
		r.log().Debug("resource skipped",
			slog.Int("index", r.index-1),
			slog.Uint64("bytes", r.remaining))
	}
	if err := r.skip(r.remaining); err != nil {
		return fmt.Errorf("skip resource %d: %w", r.index-1, err)
	}
	r.remaining = 0
	r.current = nil
	if !r.header.Padded() {
		return nil
	}
	pad, ok := sizing.Padding(r.cr.N, ResourceAlignment)
	if !ok {
		return fmt.Errorf("skip padding: %w", ErrSizeOverflow)
	}
	if err := r.skip(pad); err != nil {
		return fmt.Errorf("skip padding: %w", err)
	}
	return nil
}

func (r *Reader) skip(n uint64) error {
	err := r.cr.Skip(n)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated container", ErrFormat)
	}
	return err
}

func (r *Reader) fail(err error) error {
	r.err = err
	return err
}

// checkCurrent reports whether d describes the resource the Reader is on
// and its content is still unread.
func (r *Reader) checkCurrent(d Descriptor) error {
	if r.current == nil || r.current.Common() != d.Common() {
		return fmt.Errorf("%w: descriptor is not the current resource", ErrInvalidConstruction)
	}
	if r.remaining != uint64(d.Common().ContentSize) {
		return fmt.Errorf("%w: content of resource %d already read", ErrInvalidConstruction, r.index-1)
	}
	return nil
}

// ReadContent returns the raw, still compressed content of the current
// resource.
func (r *Reader) ReadContent() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.current == nil {
		return nil, fmt.Errorf("%w: no current resource", ErrInvalidConstruction)
	}
	if err := r.checkCurrent(r.current); err != nil {
		return nil, err
	}
	return r.readContent()
}

func (r *Reader) readContent() ([]byte, error) {
	size := r.remaining
	if limit := r.opts.maxContentSize; limit > 0 && size > limit {
		return nil, fmt.Errorf("%w: content is %d bytes, limit %d", ErrSizeOverflow, size, limit)
	}
	n, err := sizing.ToInt(size, ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("content is %d bytes: %w", size, err)
	}
	content, err := readRecord(r.cr, n, "content")
	if err != nil {
		return nil, r.fail(err)
	}
	r.remaining = 0
	return content, nil
}

// ReadBlob decompresses the content of the current resource, which d must
// describe.
func (r *Reader) ReadBlob(d BlobDescriptor) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := r.checkCurrent(d); err != nil {
		return nil, err
	}
	if limit := r.opts.maxContentSize; limit > 0 && d.UncompressedSize > limit {
		return nil, fmt.Errorf("%w: blob is %d bytes, limit %d", ErrSizeOverflow, d.UncompressedSize, limit)
	}
	content, err := r.readContent()
	if err != nil {
		return nil, err
	}
	return DecompressBlob(r.opts.registry, d, content)
}

// ReadTexture reads and decompresses every mip level of the current
// resource, which d must describe. The mip level records must fill the
// content exactly.
func (r *Reader) ReadTexture(d TextureDescriptor) ([]TextureLevel, error) {
	if r.err != nil {
		return nil, r.err
	}
	if err := r.checkCurrent(d); err != nil {
		return nil, err
	}
	if limit := r.opts.maxContentSize; limit > 0 && r.remaining > limit {
		return nil, fmt.Errorf("%w: texture content is %d bytes, limit %d", ErrSizeOverflow, r.remaining, limit)
	}

	levels := make([]TextureLevel, 0, d.MipLevelCount)
	for i := range int(d.MipLevelCount) {
		if r.remaining < MipLevelDescriptorSize {
			return nil, fmt.Errorf("%w: texture content ends before mip level %d", ErrSizeMismatch, i)
		}
		start := r.cr.N
		lr := &io.LimitedReader{R: r.cr, N: int64(r.remaining)} //nolint:gosec // ContentSize is 32 bits
		desc, layers, err := readMipLevel(r.opts.registry, lr, d)
		r.remaining -= r.cr.N - start
		if err != nil {
			if errors.Is(err, ErrFormat) && lr.N == 0 {
				err = fmt.Errorf("%w: mip level %d overruns texture content: %w", ErrSizeMismatch, i, err)
			}
			return nil, fmt.Errorf("mip level %d: %w", i, err)
		}
		levels = append(levels, TextureLevel{Descriptor: desc, Layers: layers})
	}
	if r.remaining != 0 {
		return nil, fmt.Errorf("%w: %d bytes of texture content after the last mip level", ErrSizeMismatch, r.remaining)
	}
	return levels, nil
}
