package gcf

import (
	"encoding/binary"
	"fmt"

	"github.com/meigma/gcf/compression"
)

// CommonDescriptorSize is the size in bytes of a serialized CommonDescriptor.
const CommonDescriptorSize = 16

// ResourceType identifies the kind of a resource record.
type ResourceType uint32

// Standard resource types. Any other value is a custom type.
const (
	ResourceBlob    ResourceType = 0
	ResourceTexture ResourceType = 1

	// ResourceTest is reserved for test fixtures of custom resources.
	ResourceTest ResourceType = 0xFFFFFFFF
)

// String returns the resource type name.
func (t ResourceType) String() string {
	switch t {
	case ResourceBlob:
		return "blob"
	case ResourceTexture:
		return "texture"
	case ResourceTest:
		return "test"
	default:
		return fmt.Sprintf("custom(%#x)", uint32(t))
	}
}

// CommonDescriptor holds the fields shared by every resource record.
type CommonDescriptor struct {
	// Type selects the extension codec.
	Type ResourceType

	// Format is the data format of the content.
	Format Format

	// ContentSize is the exact byte length of the content that follows the extension.
	ContentSize uint32

	// ExtensionSize is the exact byte length of the type-specific extension.
	ExtensionSize uint16

	// SupercompressionScheme is the scheme applied to the content.
	SupercompressionScheme compression.Scheme
}

// Common returns d. It lets every descriptor expose its common fields
// through embedding.
func (d CommonDescriptor) Common() CommonDescriptor {
	return d
}

// RecordSize returns the unpadded size of the record: common fields,
// extension and content.
func (d CommonDescriptor) RecordSize() uint64 {
	return CommonDescriptorSize + uint64(d.ExtensionSize) + uint64(d.ContentSize)
}

// MarshalBinary encodes the common descriptor.
func (d CommonDescriptor) MarshalBinary() ([]byte, error) {
	return d.appendBinary(make([]byte, 0, CommonDescriptorSize)), nil
}

func (d CommonDescriptor) appendBinary(b []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(d.Type))
	b = binary.LittleEndian.AppendUint32(b, uint32(d.Format))
	b = binary.LittleEndian.AppendUint32(b, d.ContentSize)
	b = binary.LittleEndian.AppendUint16(b, d.ExtensionSize)
	b = binary.LittleEndian.AppendUint16(b, uint16(d.SupercompressionScheme))
	return b
}

// UnmarshalBinary decodes the first CommonDescriptorSize bytes of data.
// Field values are not validated.
func (d *CommonDescriptor) UnmarshalBinary(data []byte) error {
	if len(data) < CommonDescriptorSize {
		return fmt.Errorf("%w: common descriptor is %d bytes, want %d", ErrFormat, len(data), CommonDescriptorSize)
	}
	d.Type = ResourceType(binary.LittleEndian.Uint32(data[0:4]))
	d.Format = Format(binary.LittleEndian.Uint32(data[4:8]))
	d.ContentSize = binary.LittleEndian.Uint32(data[8:12])
	d.ExtensionSize = binary.LittleEndian.Uint16(data[12:14])
	d.SupercompressionScheme = compression.Scheme(binary.LittleEndian.Uint16(data[14:16]))
	return nil
}

// Descriptor is a composite resource descriptor: common fields plus the
// type-specific extension. The concrete types are BlobDescriptor,
// TextureDescriptor and OpaqueDescriptor.
type Descriptor interface {
	Common() CommonDescriptor
}
