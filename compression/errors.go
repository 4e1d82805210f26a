package compression

import "errors"

// Sentinel errors for compression operations.
var (
	// ErrUnknownScheme is returned when a scheme is not registered.
	ErrUnknownScheme = errors.New("gcf: unknown supercompression scheme")

	// ErrDecompression is returned when compressed content cannot be decoded.
	ErrDecompression = errors.New("gcf: decompression failed")

	// ErrSizeOverflow is returned when decompressed output exceeds the configured limit.
	ErrSizeOverflow = errors.New("gcf: size overflow")
)
