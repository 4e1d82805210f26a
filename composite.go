package gcf

import (
	"bytes"
	"fmt"
)

// OpaqueDescriptor is a resource record of a type this package does not
// interpret. The extension is kept byte for byte so the record can be
// written back unchanged.
type OpaqueDescriptor struct {
	CommonDescriptor
	Extension []byte
}

// MarshalExtension returns a copy of the raw extension bytes.
func (d OpaqueDescriptor) MarshalExtension() ([]byte, error) {
	if len(d.Extension) != int(d.ExtensionSize) {
		return nil, fmt.Errorf("%w: opaque extension is %d bytes, descriptor declares %d", ErrSizeMismatch, len(d.Extension), d.ExtensionSize)
	}
	return bytes.Clone(d.Extension), nil
}

// MarshalBinary encodes the common descriptor followed by the extension.
func (d OpaqueDescriptor) MarshalBinary() ([]byte, error) {
	return MarshalDescriptor(d)
}

// extensionDecoder decodes a type-specific extension. raw is exactly the
// extension bytes of the record.
type extensionDecoder func(common CommonDescriptor, raw []byte) (Descriptor, error)

// extensionDecoders maps resource types to their extension codecs. Types
// missing from the table decode to OpaqueDescriptor.
var extensionDecoders = map[ResourceType]extensionDecoder{
	ResourceBlob:    unmarshalBlobExtension,
	ResourceTexture: unmarshalTextureExtension,
}

// UnmarshalDescriptor decodes the extension of a record whose common fields
// have already been read. ext must hold exactly common.ExtensionSize bytes.
func UnmarshalDescriptor(common CommonDescriptor, ext []byte) (Descriptor, error) {
	if len(ext) != int(common.ExtensionSize) {
		return nil, fmt.Errorf("%w: extension is %d bytes, descriptor declares %d", ErrSizeMismatch, len(ext), common.ExtensionSize)
	}
	decode, ok := extensionDecoders[common.Type]
	if !ok {
		return OpaqueDescriptor{CommonDescriptor: common, Extension: bytes.Clone(ext)}, nil
	}
	return decode(common, ext)
}

// ParseDescriptor decodes a full descriptor: common fields followed by
// exactly ExtensionSize extension bytes.
func ParseDescriptor(data []byte) (Descriptor, error) {
	var common CommonDescriptor
	if err := common.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	want := CommonDescriptorSize + int(common.ExtensionSize)
	if len(data) != want {
		return nil, fmt.Errorf("%w: descriptor is %d bytes, want %d", ErrSizeMismatch, len(data), want)
	}
	return UnmarshalDescriptor(common, data[CommonDescriptorSize:])
}

// MarshalDescriptor encodes the common fields of d followed by its
// extension. d must be a BlobDescriptor, TextureDescriptor or
// OpaqueDescriptor, or a non-nil pointer to one.
func MarshalDescriptor(d Descriptor) ([]byte, error) {
	var (
		common CommonDescriptor
		ext    []byte
		err    error
	)
	switch v := d.(type) {
	case BlobDescriptor:
		common = v.CommonDescriptor
		ext, err = v.MarshalExtension()
	case TextureDescriptor:
		common = v.CommonDescriptor
		ext, err = v.MarshalExtension()
	case OpaqueDescriptor:
		common = v.CommonDescriptor
		ext, err = v.MarshalExtension()
	case *BlobDescriptor:
		if v == nil {
			return nil, fmt.Errorf("%w: nil %T", ErrUnknownDescriptorKind, d)
		}
		return MarshalDescriptor(*v)
	case *TextureDescriptor:
		if v == nil {
			return nil, fmt.Errorf("%w: nil %T", ErrUnknownDescriptorKind, d)
		}
		return MarshalDescriptor(*v)
	case *OpaqueDescriptor:
		if v == nil {
			return nil, fmt.Errorf("%w: nil %T", ErrUnknownDescriptorKind, d)
		}
		return MarshalDescriptor(*v)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownDescriptorKind, d)
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, CommonDescriptorSize+len(ext))
	out = common.appendBinary(out)
	return append(out, ext...), nil
}
