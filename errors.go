package gcf

import (
	"errors"

	"github.com/meigma/gcf/compression"
)

// Sentinel errors. Errors returned by this package wrap one of these with
// the expected and actual values; test for them with errors.Is.
var (
	// ErrFormat is returned when a fixed-size record is malformed or truncated.
	ErrFormat = errors.New("gcf: malformed record")

	// ErrVersionMismatch is returned when the header magic does not match
	// the expected container version.
	ErrVersionMismatch = errors.New("gcf: version mismatch")

	// ErrSizeMismatch is returned when a byte length disagrees with the
	// size declared for it.
	ErrSizeMismatch = errors.New("gcf: size mismatch")

	// ErrUnknownDescriptorKind is returned when writing a descriptor that is
	// neither a known typed descriptor nor an opaque one.
	ErrUnknownDescriptorKind = errors.New("gcf: unknown descriptor kind")

	// ErrInvalidConstruction is returned when a value is built from
	// inconsistent parameters.
	ErrInvalidConstruction = errors.New("gcf: invalid construction")

	// ErrWriterClosed is returned when a closed Writer is used.
	ErrWriterClosed = errors.New("gcf: writer closed")
)

// Errors re-exported from compression.
var (
	// ErrUnknownScheme is returned when a supercompression scheme is not registered.
	ErrUnknownScheme = compression.ErrUnknownScheme

	// ErrDecompression is returned when content cannot be decompressed.
	ErrDecompression = compression.ErrDecompression

	// ErrSizeOverflow is returned when a size exceeds the range of its field
	// or a configured limit.
	ErrSizeOverflow = compression.ErrSizeOverflow
)
