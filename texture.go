package gcf

import (
	"encoding/binary"
	"fmt"

	"github.com/meigma/gcf/compression"
)

// TextureExtensionSize is the size in bytes of the texture extension.
const TextureExtensionSize = 16

// TextureFlags is the texture flag bitset.
//
// The dimensionality flags overlap: 2D sets the 1D bit and 3D sets both.
// Exactly one of them must be present.
type TextureFlags uint16

const (
	Texture1D TextureFlags = 0x0001
	Texture2D TextureFlags = 0x0003
	Texture3D TextureFlags = 0x0007

	textureDimensionMask = Texture3D
)

// Dimension returns the dimensionality flag encoded in f, testing 3D, then
// 2D, then 1D. It returns 0 when no dimensionality bit is set.
func (f TextureFlags) Dimension() TextureFlags {
	for _, dim := range [...]TextureFlags{Texture3D, Texture2D, Texture1D} {
		if f&dim == dim {
			return dim
		}
	}
	return 0
}

// String returns the dimensionality name of f.
func (f TextureFlags) String() string {
	switch f.Dimension() {
	case Texture1D:
		return "1D"
	case Texture2D:
		return "2D"
	case Texture3D:
		return "3D"
	default:
		return fmt.Sprintf("TextureFlags(%#x)", uint16(f))
	}
}

func isDimension(f TextureFlags) bool {
	return f == Texture1D || f == Texture2D || f == Texture3D
}

// TextureDescriptor describes a texture made of MipLevelCount mip levels,
// each holding LayerCount layers.
type TextureDescriptor struct {
	CommonDescriptor
	BaseWidth     uint16
	BaseHeight    uint16
	BaseDepth     uint16
	LayerCount    uint8
	MipLevelCount uint8
	Flags         TextureFlags
	TextureGroup  uint32
}

// TextureParams holds the parameters of NewTextureDescriptor.
type TextureParams struct {
	Format                 Format
	ContentSize            uint32
	SupercompressionScheme compression.Scheme

	BaseWidth  uint16
	BaseHeight uint16 // 0 means 1
	BaseDepth  uint16 // 0 means 1

	LayerCount    uint8 // 0 means 1
	MipLevelCount uint8 // 0 means 1
	TextureGroup  uint32

	// Flags must contain exactly one of Texture1D, Texture2D and Texture3D.
	Flags []TextureFlags
}

// NewTextureDescriptor validates p and builds a texture descriptor.
// Height collapses to 1 for 1D textures and depth to 1 unless the texture is 3D.
func NewTextureDescriptor(p TextureParams) (TextureDescriptor, error) {
	var (
		flags TextureFlags
		dims  = make(map[TextureFlags]struct{}, 3)
	)
	for _, f := range p.Flags {
		if f&textureDimensionMask != 0 {
			if !isDimension(f) {
				return TextureDescriptor{}, fmt.Errorf("%w: texture flag %#x mixes dimensionality bits", ErrInvalidConstruction, uint16(f))
			}
			dims[f] = struct{}{}
		}
		flags |= f
	}
	if len(dims) != 1 {
		return TextureDescriptor{}, fmt.Errorf("%w: texture needs exactly one of 1D, 2D or 3D, got %d", ErrInvalidConstruction, len(dims))
	}
	if p.BaseWidth == 0 {
		return TextureDescriptor{}, fmt.Errorf("%w: texture base width is 0", ErrInvalidConstruction)
	}

	d := TextureDescriptor{
		CommonDescriptor: CommonDescriptor{
			Type:                   ResourceTexture,
			Format:                 p.Format,
			ContentSize:            p.ContentSize,
			ExtensionSize:          TextureExtensionSize,
			SupercompressionScheme: p.SupercompressionScheme,
		},
		BaseWidth:     p.BaseWidth,
		BaseHeight:    max(p.BaseHeight, 1),
		BaseDepth:     max(p.BaseDepth, 1),
		LayerCount:    max(p.LayerCount, 1),
		MipLevelCount: max(p.MipLevelCount, 1),
		Flags:         flags,
		TextureGroup:  p.TextureGroup,
	}
	switch flags.Dimension() {
	case Texture1D:
		d.BaseHeight = 1
		d.BaseDepth = 1
	case Texture2D:
		d.BaseDepth = 1
	}
	return d, nil
}

// MarshalExtension encodes the texture extension.
func (d TextureDescriptor) MarshalExtension() ([]byte, error) {
	if err := checkExtensionHeader(d.CommonDescriptor, ResourceTexture, TextureExtensionSize); err != nil {
		return nil, err
	}
	if d.Flags.Dimension() == 0 {
		return nil, fmt.Errorf("%w: texture flags %#x have no dimensionality", ErrInvalidConstruction, uint16(d.Flags))
	}
	ext := make([]byte, TextureExtensionSize)
	binary.LittleEndian.PutUint16(ext[0:2], d.BaseWidth)
	binary.LittleEndian.PutUint16(ext[2:4], d.BaseHeight)
	binary.LittleEndian.PutUint16(ext[4:6], d.BaseDepth)
	ext[6] = d.LayerCount
	ext[7] = d.MipLevelCount
	binary.LittleEndian.PutUint16(ext[8:10], uint16(d.Flags))
	binary.LittleEndian.PutUint32(ext[10:14], d.TextureGroup)
	// ext[14:16] reserved
	return ext, nil
}

// MarshalBinary encodes the common descriptor followed by the extension.
func (d TextureDescriptor) MarshalBinary() ([]byte, error) {
	return MarshalDescriptor(d)
}

func unmarshalTextureExtension(common CommonDescriptor, raw []byte) (Descriptor, error) {
	if len(raw) != TextureExtensionSize {
		return nil, fmt.Errorf("%w: texture extension is %d bytes, want %d", ErrSizeMismatch, len(raw), TextureExtensionSize)
	}
	flags := TextureFlags(binary.LittleEndian.Uint16(raw[8:10]))
	if flags.Dimension() == 0 {
		return nil, fmt.Errorf("%w: texture flags %#x have no dimensionality", ErrFormat, uint16(flags))
	}
	return TextureDescriptor{
		CommonDescriptor: common,
		BaseWidth:        binary.LittleEndian.Uint16(raw[0:2]),
		BaseHeight:       binary.LittleEndian.Uint16(raw[2:4]),
		BaseDepth:        binary.LittleEndian.Uint16(raw[4:6]),
		LayerCount:       raw[6],
		MipLevelCount:    raw[7],
		Flags:            flags,
		TextureGroup:     binary.LittleEndian.Uint32(raw[10:14]),
	}, nil
}
