// Package compression implements the supercompression schemes applied to
// GCF resource content.
//
// A [Registry] maps a [Scheme] code to a [Codec]. [Default] holds the
// standard schemes; [Extended] adds the non-standard vendor schemes.
// Registries are immutable once built and safe for concurrent use.
package compression

import (
	"fmt"
	"strings"
)

// Scheme identifies the supercompression scheme applied to resource content.
type Scheme uint16

// Standard schemes.
const (
	NoCompression Scheme = 0
	ZLib          Scheme = 1
	Deflate       Scheme = 2

	// Test is reserved for test fixtures and is not a production scheme.
	// It compresses with deflate.
	Test Scheme = 0xFFFF
)

// Non-standard schemes in the vendor range. Readers that only know the
// standard schemes reject them with ErrUnknownScheme.
const (
	Zstd Scheme = 0x8001
	LZ4  Scheme = 0x8002
)

var schemeNames = map[Scheme]string{
	NoCompression: "none",
	ZLib:          "zlib",
	Deflate:       "deflate",
	Test:          "test",
	Zstd:          "zstd",
	LZ4:           "lz4",
}

// String returns the human-readable name of the scheme.
func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%#x)", uint16(s))
}

// ParseScheme returns the scheme with the given name (as returned by String).
func ParseScheme(name string) (Scheme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range schemeNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}
