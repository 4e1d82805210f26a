package file

import (
	"errors"
	"io"
	"math"
)

// ErrOverflow indicates a counter exceeded its maximum value.
var ErrOverflow = errors.New("counter overflow")

// CountingReader wraps a reader and counts bytes consumed.
// N starts at the offset the underlying reader was positioned at.
type CountingReader struct {
	R io.Reader
	N uint64
}

// Read implements io.Reader.
func (cr *CountingReader) Read(p []byte) (int, error) {
	n, err := cr.R.Read(p)
	if n > 0 {
		//nolint:gosec // n is guaranteed non-negative by io.Reader contract
		if cr.N > ^uint64(0)-uint64(n) {
			return n, ErrOverflow
		}
		cr.N += uint64(n) //nolint:gosec // overflow checked above
	}
	return n, err
}

// Skip advances past n bytes. It seeks when the underlying reader is an
// io.Seeker and discards otherwise. Skipping past the end of a seekable
// stream is not detected until the next read.
func (cr *CountingReader) Skip(n uint64) error {
	if n == 0 {
		return nil
	}
	if cr.N > ^uint64(0)-n {
		return ErrOverflow
	}
	if s, ok := cr.R.(io.Seeker); ok && n <= math.MaxInt64 {
		if _, err := s.Seek(int64(n), io.SeekCurrent); err != nil {
			return err
		}
		cr.N += n
		return nil
	}
	for n > 0 {
		chunk := min(n, uint64(math.MaxInt64))
		copied, err := io.CopyN(io.Discard, cr, int64(chunk))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		n -= uint64(copied) //nolint:gosec // CopyN never returns a negative count
	}
	return nil
}

// CountingWriter wraps a writer and counts bytes written.
type CountingWriter struct {
	W io.Writer
	N uint64
}

// Write implements io.Writer.
func (cw *CountingWriter) Write(p []byte) (int, error) {
	n, err := cw.W.Write(p)
	if n > 0 {
		//nolint:gosec // n is guaranteed non-negative by io.Writer contract
		if cw.N > ^uint64(0)-uint64(n) {
			return n, ErrOverflow
		}
		cw.N += uint64(n) //nolint:gosec // overflow checked above
	}
	return n, err
}

// WriteZeros writes n zero bytes.
func (cw *CountingWriter) WriteZeros(n uint64) error {
	var zeros [64]byte
	for n > 0 {
		chunk := min(n, uint64(len(zeros)))
		if _, err := cw.Write(zeros[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
