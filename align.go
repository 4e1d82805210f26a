package gcf

import (
	"fmt"

	"github.com/meigma/gcf/internal/sizing"
)

// ResourceAlignment is the byte boundary records are padded to unless the
// container is unpadded.
const ResourceAlignment = 8

// Align returns the smallest multiple of alignment that is >= size.
// Alignment must be a power of two.
func Align(size, alignment uint64) (uint64, error) {
	aligned, ok := sizing.Align(size, alignment)
	if !ok {
		if !sizing.IsPowerOfTwo(alignment) {
			return 0, fmt.Errorf("%w: alignment %d is not a power of two", ErrInvalidConstruction, alignment)
		}
		return 0, fmt.Errorf("%w: aligning %d to %d", ErrSizeOverflow, size, alignment)
	}
	return aligned, nil
}
