package gcf

import (
	"encoding/binary"
	"fmt"

	"github.com/meigma/gcf/compression"
	"github.com/meigma/gcf/internal/sizing"
)

// BlobExtensionSize is the size in bytes of the blob extension.
const BlobExtensionSize = 16

// BlobDescriptor describes an opaque byte blob. ContentSize is the
// compressed length; UncompressedSize the length after decompression.
type BlobDescriptor struct {
	CommonDescriptor
	UncompressedSize uint64
}

// NewBlobDescriptor returns a blob descriptor with the blob type, undefined
// format and blob extension size filled in.
func NewBlobDescriptor(contentSize uint32, uncompressedSize uint64, scheme compression.Scheme) BlobDescriptor {
	return BlobDescriptor{
		CommonDescriptor: CommonDescriptor{
			Type:                   ResourceBlob,
			Format:                 FormatUndefined,
			ContentSize:            contentSize,
			ExtensionSize:          BlobExtensionSize,
			SupercompressionScheme: scheme,
		},
		UncompressedSize: uncompressedSize,
	}
}

// MarshalExtension encodes the blob extension: the uncompressed size
// followed by 8 reserved bytes.
func (d BlobDescriptor) MarshalExtension() ([]byte, error) {
	if err := checkExtensionHeader(d.CommonDescriptor, ResourceBlob, BlobExtensionSize); err != nil {
		return nil, err
	}
	ext := make([]byte, BlobExtensionSize)
	binary.LittleEndian.PutUint64(ext[0:8], d.UncompressedSize)
	return ext, nil
}

// MarshalBinary encodes the common descriptor followed by the extension.
func (d BlobDescriptor) MarshalBinary() ([]byte, error) {
	return MarshalDescriptor(d)
}

func unmarshalBlobExtension(common CommonDescriptor, raw []byte) (Descriptor, error) {
	if len(raw) != BlobExtensionSize {
		return nil, fmt.Errorf("%w: blob extension is %d bytes, want %d", ErrSizeMismatch, len(raw), BlobExtensionSize)
	}
	return BlobDescriptor{
		CommonDescriptor: common,
		UncompressedSize: binary.LittleEndian.Uint64(raw[0:8]),
	}, nil
}

// checkExtensionHeader verifies that the common fields of a typed
// descriptor agree with its kind.
func checkExtensionHeader(common CommonDescriptor, typ ResourceType, size uint16) error {
	if common.Type != typ {
		return fmt.Errorf("%w: %s descriptor declares type %s", ErrInvalidConstruction, typ, common.Type)
	}
	if common.ExtensionSize != size {
		return fmt.Errorf("%w: %s extension size is %d, want %d", ErrSizeMismatch, typ, common.ExtensionSize, size)
	}
	return nil
}

// CompressBlob compresses data with scheme and returns the matching
// descriptor and content.
func CompressBlob(reg *compression.Registry, data []byte, scheme compression.Scheme) (BlobDescriptor, []byte, error) {
	if reg == nil {
		reg = compression.Default()
	}
	content, err := reg.Compress(scheme, data)
	if err != nil {
		return BlobDescriptor{}, nil, err
	}
	contentSize, err := sizing.ToUint32(len(content), ErrSizeOverflow)
	if err != nil {
		return BlobDescriptor{}, nil, fmt.Errorf("blob content is %d bytes: %w", len(content), err)
	}
	return NewBlobDescriptor(contentSize, uint64(len(data)), scheme), content, nil
}

// DecompressBlob decompresses blob content and checks it against the
// sizes declared by d.
func DecompressBlob(reg *compression.Registry, d BlobDescriptor, content []byte) ([]byte, error) {
	if reg == nil {
		reg = compression.Default()
	}
	if uint64(len(content)) != uint64(d.ContentSize) {
		return nil, fmt.Errorf("%w: blob content is %d bytes, descriptor declares %d", ErrSizeMismatch, len(content), d.ContentSize)
	}
	data, err := reg.Decompress(d.SupercompressionScheme, content)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) != d.UncompressedSize {
		return nil, fmt.Errorf("%w: blob decompressed to %d bytes, descriptor declares %d", ErrSizeMismatch, len(data), d.UncompressedSize)
	}
	return data, nil
}
