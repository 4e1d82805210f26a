package gcf

import (
	"encoding/binary"
	"fmt"
)

// Header layout constants.
const (
	// HeaderSize is the size in bytes of a serialized Header.
	HeaderSize = 8

	// DefaultVersion is the container version written by this package.
	DefaultVersion = 3

	// MaxVersion is the largest version that fits the two magic digits.
	MaxVersion = 99

	magicPrefix = "GC"
)

// ContainerFlags is the container-level flag bitset.
type ContainerFlags uint16

const (
	// FlagUnpadded disables alignment padding between resource records.
	FlagUnpadded ContainerFlags = 1 << 0
)

// Has reports whether all bits of flag are set.
func (f ContainerFlags) Has(flag ContainerFlags) bool {
	return f&flag == flag
}

// Header is the fixed container header.
type Header struct {
	// Magic is "GC" followed by the two digit version, read as a little-endian uint32.
	Magic uint32

	// ResourceCount is the number of resource records that follow.
	ResourceCount uint16

	// Flags holds the container flags.
	Flags ContainerFlags
}

// MakeMagic returns the magic number of the given container version.
func MakeMagic(version int) (uint32, error) {
	if version < 0 || version > MaxVersion {
		return 0, fmt.Errorf("%w: version %d must be between 0 and %d", ErrInvalidConstruction, version, MaxVersion)
	}
	magic := [4]byte{magicPrefix[0], magicPrefix[1], byte('0' + version/10), byte('0' + version%10)}
	return binary.LittleEndian.Uint32(magic[:]), nil
}

// VersionFromMagic decodes the container version from a magic number.
func VersionFromMagic(magic uint32) (int, error) {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], magic)
	if string(raw[:2]) != magicPrefix || !isDigit(raw[2]) || !isDigit(raw[3]) {
		return 0, fmt.Errorf("%w: invalid magic %q", ErrFormat, raw[:])
	}
	return int(raw[2]-'0')*10 + int(raw[3]-'0'), nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// NewHeader returns a header for the default version.
func NewHeader(resourceCount uint16, flags ContainerFlags) Header {
	magic, _ := MakeMagic(DefaultVersion) //nolint:errcheck // DefaultVersion is always valid
	return Header{Magic: magic, ResourceCount: resourceCount, Flags: flags}
}

// Version decodes the container version from the magic number.
func (h Header) Version() (int, error) {
	return VersionFromMagic(h.Magic)
}

// Padded reports whether resource records are aligned.
func (h Header) Padded() bool {
	return !h.Flags.Has(FlagUnpadded)
}

// MarshalBinary encodes the header.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.ResourceCount)
	binary.LittleEndian.PutUint16(buf[6:8], uint16(h.Flags))
	return buf, nil
}

// UnmarshalBinary decodes a header. The magic is not checked against any
// version; see ReadHeader for that.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: header is %d bytes, want %d", ErrFormat, len(data), HeaderSize)
	}
	h.Magic = binary.LittleEndian.Uint32(data[0:4])
	h.ResourceCount = binary.LittleEndian.Uint16(data[4:6])
	h.Flags = ContainerFlags(binary.LittleEndian.Uint16(data[6:8]))
	return nil
}
