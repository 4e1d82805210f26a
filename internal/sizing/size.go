// Package sizing provides alignment arithmetic, safe size arithmetic and
// conversions to prevent overflow.
package sizing

import (
	"io"
	"math"
)

// IsPowerOfTwo reports whether n is a non-zero power of two.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// Align returns the smallest multiple of alignment that is >= size.
// Returns false if alignment is not a power of two or the result overflows.
func Align(size, alignment uint64) (uint64, bool) {
	if !IsPowerOfTwo(alignment) {
		return 0, false
	}
	mask := alignment - 1
	if size > math.MaxUint64-mask {
		return 0, false
	}
	return (size + mask) &^ mask, true
}

// Padding returns the number of bytes needed to move offset to the next
// multiple of alignment. Alignment must be a power of two.
func Padding(offset, alignment uint64) (uint64, bool) {
	aligned, ok := Align(offset, alignment)
	if !ok {
		return 0, false
	}
	return aligned - offset, true
}

// ToInt converts a uint64 to int, returning overflowErr if it doesn't fit.
func ToInt(size uint64, overflowErr error) (int, error) {
	if size > uint64(math.MaxInt) {
		return 0, overflowErr
	}
	return int(size), nil
}

// ToInt64 converts a uint64 to int64, returning overflowErr if it doesn't fit.
func ToInt64(size uint64, overflowErr error) (int64, error) {
	if size > uint64(math.MaxInt64) {
		return 0, overflowErr
	}
	return int64(size), nil
}

// ToUint32 converts a length to uint32, returning overflowErr if it doesn't fit.
func ToUint32(size int, overflowErr error) (uint32, error) {
	if size < 0 || uint64(size) > math.MaxUint32 {
		return 0, overflowErr
	}
	return uint32(size), nil
}

// ToUint16 converts a length to uint16, returning overflowErr if it doesn't fit.
func ToUint16(size int, overflowErr error) (uint16, error) {
	if size < 0 || size > math.MaxUint16 {
		return 0, overflowErr
	}
	return uint16(size), nil
}

// AddUint64 adds two uint64 values, returning (result, false) on overflow.
func AddUint64(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// MulUint64 multiplies two uint64 values, returning (result, false) on overflow.
func MulUint64(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

// ReadAllWithLimit reads up to maxSize bytes from r.
// Returns overflowErr if more than maxSize bytes are available.
// A maxSize of 0 disables the limit.
func ReadAllWithLimit(r io.Reader, maxSize uint64, overflowErr error) ([]byte, error) {
	if maxSize == 0 {
		return io.ReadAll(r)
	}
	if maxSize > uint64(math.MaxInt-1) {
		return nil, overflowErr
	}
	limit := int64(maxSize) + 1 //nolint:gosec // checked above
	lr := &io.LimitedReader{R: r, N: limit}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > maxSize { //nolint:gosec // len is always non-negative
		return nil, overflowErr
	}
	return data, nil
}
