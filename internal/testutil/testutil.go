// Package testutil provides in-memory streams for tests.
package testutil

import (
	"bytes"
	"errors"
	"io"
)

// SeekBuffer is an in-memory io.ReadWriteSeeker. Writing past the end grows
// the buffer; seeking past the end and writing fills the gap with zeros.
type SeekBuffer struct {
	data []byte
	pos  int64
}

// NewSeekBuffer returns a SeekBuffer holding a copy of data, positioned at
// the start.
func NewSeekBuffer(data []byte) *SeekBuffer {
	return &SeekBuffer{data: bytes.Clone(data)}
}

// Write implements io.Writer.
func (b *SeekBuffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		b.data = append(b.data, make([]byte, end-int64(len(b.data)))...)
	}
	copy(b.data[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

// Read implements io.Reader.
func (b *SeekBuffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

// Seek implements io.Seeker.
func (b *SeekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.pos + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("testutil: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("testutil: negative position")
	}
	b.pos = abs
	return abs, nil
}

// Bytes returns the buffer contents.
func (b *SeekBuffer) Bytes() []byte {
	return b.data
}

// ForwardOnly hides any Seek method of the wrapped reader.
type ForwardOnly struct {
	R io.Reader
}

// Read implements io.Reader.
func (f ForwardOnly) Read(p []byte) (int, error) {
	return f.R.Read(p)
}

// WriteOnly hides any Seek method of the wrapped writer.
type WriteOnly struct {
	W io.Writer
}

// Write implements io.Writer.
func (w WriteOnly) Write(p []byte) (int, error) {
	return w.W.Write(p)
}

// Repeat returns n copies of b.
func Repeat(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}
