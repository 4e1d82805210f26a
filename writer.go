package gcf

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/meigma/gcf/compression"
	"github.com/meigma/gcf/internal/file"
	"github.com/meigma/gcf/internal/sizing"
)

// Writer writes a GCF container to a stream.
//
// The header is written by NewWriter. If the destination implements
// io.WriteSeeker the resource count is patched into it on Close; otherwise
// the count must be declared with WithResourceCount.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	dst    io.Writer
	cw     *file.CountingWriter
	header Header
	opts   options

	start    int64
	seekable bool
	count    int
	closed   bool
	err      error
}

// NewWriter writes a container header to w and returns a Writer for its
// resources.
func NewWriter(w io.Writer, opts ...Option) (*Writer, error) {
	o := newOptions(opts)
	magic, err := MakeMagic(o.version)
	if err != nil {
		return nil, err
	}
	var declared uint16
	if o.resourceCount >= 0 {
		if declared, err = sizing.ToUint16(o.resourceCount, ErrSizeOverflow); err != nil {
			return nil, fmt.Errorf("%d resources, limit %d: %w", o.resourceCount, math.MaxUint16, err)
		}
	}

	wr := &Writer{
		dst:  w,
		cw:   &file.CountingWriter{W: w},
		opts: o,
	}
	if ws, ok := w.(io.WriteSeeker); ok {
		start, err := ws.Seek(0, io.SeekCurrent)
		if err == nil {
			wr.start = start
			wr.seekable = true
		}
	}
	if !wr.seekable && o.resourceCount < 0 {
		return nil, fmt.Errorf("%w: destination cannot seek; declare the resource count with WithResourceCount", ErrInvalidConstruction)
	}

	var flags ContainerFlags
	if o.unpadded {
		flags |= FlagUnpadded
	}
	wr.header = Header{Magic: magic, ResourceCount: declared, Flags: flags}
	if err := WriteHeader(wr.cw, wr.header); err != nil {
		return nil, err
	}
	wr.log().Info("container opened",
		slog.Int("version", o.version),
		slog.Bool("padded", wr.header.Padded()),
		slog.Bool("seekable", wr.seekable))
	return wr, nil
}

func (w *Writer) log() *slog.Logger {
	if w.opts.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.opts.logger
}

// Header returns the header as written so far. The resource count is
// final only after Close.
func (w *Writer) Header() Header {
	return w.header
}

// Count returns the number of resources added.
func (w *Writer) Count() int {
	return w.count
}

// Offset returns the number of bytes written since the start of the container.
func (w *Writer) Offset() uint64 {
	return w.cw.N
}

// AddBlob compresses data with scheme and adds it as a blob resource.
func (w *Writer) AddBlob(data []byte, scheme compression.Scheme) error {
	_, err := w.AddBlobDescriptor(data, scheme)
	return err
}

// AddBlobDescriptor is AddBlob that also returns the descriptor written.
func (w *Writer) AddBlobDescriptor(data []byte, scheme compression.Scheme) (BlobDescriptor, error) {
	if err := w.check(); err != nil {
		return BlobDescriptor{}, err
	}
	d, content, err := CompressBlob(w.opts.registry, data, scheme)
	if err != nil {
		return BlobDescriptor{}, err
	}
	if err := w.writeResource(d, content); err != nil {
		return BlobDescriptor{}, err
	}
	return d, nil
}

// AddTexture adds a texture resource with the given mip levels, which must
// be built for tex (see NewMipLevel). The content size of tex is replaced
// by the total size of the mip level records.
func (w *Writer) AddTexture(tex TextureDescriptor, levels []MipLevel) (TextureDescriptor, error) {
	if err := w.check(); err != nil {
		return TextureDescriptor{}, err
	}
	if len(levels) != int(tex.MipLevelCount) {
		return TextureDescriptor{}, fmt.Errorf("%w: got %d mip levels, texture has %d", ErrSizeMismatch, len(levels), tex.MipLevelCount)
	}
	var total uint64
	content := make([]byte, 0, 64)
	for _, level := range levels {
		if uint64(len(level.Data)) != uint64(level.Descriptor.CompressedSize) {
			return TextureDescriptor{}, fmt.Errorf("%w: mip level payload is %d bytes, descriptor says %d",
				ErrSizeMismatch, len(level.Data), level.Descriptor.CompressedSize)
		}
		var ok bool
		if total, ok = sizing.AddUint64(total, level.RecordSize()); !ok {
			return TextureDescriptor{}, fmt.Errorf("%w: texture content", ErrSizeOverflow)
		}
		raw, err := level.Descriptor.MarshalBinary()
		if err != nil {
			return TextureDescriptor{}, err
		}
		content = append(content, raw...)
		content = append(content, level.Data...)
	}
	if total > math.MaxUint32 {
		return TextureDescriptor{}, fmt.Errorf("%w: texture content is %d bytes", ErrSizeOverflow, total)
	}
	tex.ContentSize = uint32(total)
	if err := w.writeResource(tex, content); err != nil {
		return TextureDescriptor{}, err
	}
	return tex, nil
}

// AddRaw adds a resource from a descriptor and its already encoded content.
// It accepts any descriptor MarshalDescriptor accepts, including
// OpaqueDescriptor for resource types this package does not know.
func (w *Writer) AddRaw(d Descriptor, content []byte) error {
	if err := w.check(); err != nil {
		return err
	}
	return w.writeResource(d, content)
}

func (w *Writer) check() error {
	if w.closed {
		return ErrWriterClosed
	}
	if w.err != nil {
		return w.err
	}
	if w.count >= math.MaxUint16 {
		return fmt.Errorf("%w: container already holds %d resources", ErrSizeOverflow, w.count)
	}
	return nil
}

func (w *Writer) writeResource(d Descriptor, content []byte) error {
	common := d.Common()
	if uint64(len(content)) != uint64(common.ContentSize) {
		return fmt.Errorf("%w: content is %d bytes, descriptor says %d", ErrSizeMismatch, len(content), common.ContentSize)
	}
	raw, err := MarshalDescriptor(d)
	if err != nil {
		return err
	}

	offset := w.cw.N
	if err := w.write(raw, "descriptor"); err != nil {
		return err
	}
	if err := w.write(content, "content"); err != nil {
		return err
	}
	if w.header.Padded() {
		pad, ok := sizing.Padding(w.cw.N, ResourceAlignment)
		if !ok {
			w.err = fmt.Errorf("write padding: %w", ErrSizeOverflow)
			return w.err
		}
		if err := w.cw.WriteZeros(pad); err != nil {
			w.err = fmt.Errorf("write padding: %w", err)
			return w.err
		}
	}
	w.count++

	w.log().Debug("resource written",
		slog.Int("index", w.count-1),
		slog.String("type", common.Type.String()),
		slog.String("format", common.Format.String()),
		slog.Uint64("content_size", uint64(common.ContentSize)),
		slog.String("scheme", common.SupercompressionScheme.String()),
		slog.Uint64("offset", offset))
	return nil
}

// write records the first failure; the container is unusable after it.
func (w *Writer) write(p []byte, what string) error {
	if _, err := w.cw.Write(p); err != nil {
		w.err = fmt.Errorf("write %s: %w", what, err)
		return w.err
	}
	return nil
}

// Close finalises the container. For seekable destinations the resource
// count in the header is updated; otherwise the count is checked against
// the one declared with WithResourceCount. Close does not close the
// underlying writer. Calling Close again returns nil.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.err != nil {
		return w.err
	}

	if w.opts.resourceCount >= 0 && w.count != w.opts.resourceCount {
		return fmt.Errorf("%w: wrote %d resources, declared %d", ErrSizeMismatch, w.count, w.opts.resourceCount)
	}
	w.header.ResourceCount = uint16(w.count) //nolint:gosec // bounded by check
	if w.seekable && w.opts.resourceCount < 0 {
		if err := w.patchHeader(); err != nil {
			return err
		}
	}

	w.log().Info("container closed",
		slog.Int("resources", w.count),
		slog.Uint64("size", w.cw.N))
	return nil
}

func (w *Writer) patchHeader() error {
	ws := w.dst.(io.WriteSeeker) //nolint:errcheck // seekable implies io.WriteSeeker
	if _, err := ws.Seek(w.start, io.SeekStart); err != nil {
		return fmt.Errorf("patch header: %w", err)
	}
	if err := WriteHeader(ws, w.header); err != nil {
		return fmt.Errorf("patch header: %w", err)
	}
	end, err := sizing.ToInt64(w.cw.N, ErrSizeOverflow)
	if err != nil {
		return fmt.Errorf("patch header: %w", err)
	}
	if _, err := ws.Seek(w.start+end, io.SeekStart); err != nil {
		return fmt.Errorf("patch header: %w", err)
	}
	return nil
}
