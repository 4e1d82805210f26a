package gcf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/meigma/gcf/compression"
	"github.com/meigma/gcf/internal/sizing"
)

// MipLevelDescriptorSize is the size in bytes of a serialized MipLevelDescriptor.
const MipLevelDescriptorSize = 24

// MipLevelDescriptor frames the payload of one texture mip level. The
// payload is the concatenation of all layers, compressed as one unit.
type MipLevelDescriptor struct {
	CompressedSize   uint32
	UncompressedSize uint32
	RowStride        uint32
	SliceStride      uint32
	LayerStride      uint32
}

// RecordSize returns the size of the mip level record: descriptor plus payload.
func (d MipLevelDescriptor) RecordSize() uint64 {
	return MipLevelDescriptorSize + uint64(d.CompressedSize)
}

// MarshalBinary encodes the mip level descriptor.
func (d MipLevelDescriptor) MarshalBinary() ([]byte, error) {
	buf := make([]byte, MipLevelDescriptorSize)
	binary.LittleEndian.PutUint32(buf[0:4], d.CompressedSize)
	binary.LittleEndian.PutUint32(buf[4:8], d.UncompressedSize)
	binary.LittleEndian.PutUint32(buf[8:12], d.RowStride)
	binary.LittleEndian.PutUint32(buf[12:16], d.SliceStride)
	binary.LittleEndian.PutUint32(buf[16:20], d.LayerStride)
	// buf[20:24] reserved
	return buf, nil
}

// UnmarshalBinary decodes the first MipLevelDescriptorSize bytes of data.
func (d *MipLevelDescriptor) UnmarshalBinary(data []byte) error {
	if len(data) < MipLevelDescriptorSize {
		return fmt.Errorf("%w: mip level descriptor is %d bytes, want %d", ErrFormat, len(data), MipLevelDescriptorSize)
	}
	d.CompressedSize = binary.LittleEndian.Uint32(data[0:4])
	d.UncompressedSize = binary.LittleEndian.Uint32(data[4:8])
	d.RowStride = binary.LittleEndian.Uint32(data[8:12])
	d.SliceStride = binary.LittleEndian.Uint32(data[12:16])
	d.LayerStride = binary.LittleEndian.Uint32(data[16:20])
	return nil
}

// PackLayers concatenates layers in order and compresses the result with
// scheme. len(layers) must equal layerCount.
func PackLayers(reg *compression.Registry, scheme compression.Scheme, layerCount int, layers [][]byte) ([]byte, error) {
	if len(layers) != layerCount {
		return nil, fmt.Errorf("%w: got %d layers, texture has %d", ErrSizeMismatch, len(layers), layerCount)
	}
	if reg == nil {
		reg = compression.Default()
	}
	return reg.Compress(scheme, bytes.Join(layers, nil))
}

// UnpackLayers decompresses a mip level payload and splits it into
// layerCount equal layers.
func UnpackLayers(reg *compression.Registry, scheme compression.Scheme, layerCount int, data []byte) ([][]byte, error) {
	if layerCount <= 0 {
		return nil, fmt.Errorf("%w: layer count %d", ErrInvalidConstruction, layerCount)
	}
	if reg == nil {
		reg = compression.Default()
	}
	raw, err := reg.Decompress(scheme, data)
	if err != nil {
		return nil, err
	}
	if len(raw)%layerCount != 0 {
		return nil, fmt.Errorf("%w: %d bytes do not split into %d layers", ErrSizeMismatch, len(raw), layerCount)
	}
	layerSize := len(raw) / layerCount
	layers := make([][]byte, layerCount)
	for i := range layers {
		layers[i] = raw[i*layerSize : (i+1)*layerSize : (i+1)*layerSize]
	}
	return layers, nil
}

// MipLevelSize returns the dimensions of mip level n of a texture with the
// given base dimensions. Level 0 is the base resolution; each further level
// halves every axis, rounding half to even and never going below 1.
func MipLevelSize(level uint, width, height, depth uint16) (uint16, uint16, uint16) {
	factor := math.Ldexp(1, -int(min(level, 64))) //nolint:gosec // clamped
	scale := func(base uint16) uint16 {
		return uint16(math.RoundToEven(math.Max(1, float64(base)*factor)))
	}
	return scale(width), scale(height), scale(depth)
}

// MipLevelStrides overrides the strides computed by NewMipLevel. Zero
// fields take their default: row = pixel size * width, slice = row * height,
// layer = slice * depth.
type MipLevelStrides struct {
	Row   uint32
	Slice uint32
	Layer uint32
}

// MipLevel is a mip level descriptor and its compressed payload.
type MipLevel struct {
	Descriptor MipLevelDescriptor
	Data       []byte
}

// RecordSize returns the size of the mip level record.
func (m MipLevel) RecordSize() uint64 {
	return m.Descriptor.RecordSize()
}

// NewMipLevel builds mip level n of tex from uncompressed layers. Strides
// default from the texture format and the mip level dimensions, and the
// layer data must match them exactly.
func NewMipLevel(reg *compression.Registry, tex TextureDescriptor, level uint, layers [][]byte, strides MipLevelStrides) (MipLevel, error) {
	if level >= uint(max(tex.MipLevelCount, 1)) {
		return MipLevel{}, fmt.Errorf("%w: mip level %d of a texture with %d levels", ErrInvalidConstruction, level, tex.MipLevelCount)
	}
	w, h, d := MipLevelSize(level, tex.BaseWidth, tex.BaseHeight, tex.BaseDepth)

	row := uint64(strides.Row)
	if row == 0 {
		pixelSize, ok := tex.Format.PixelSize()
		if !ok {
			return MipLevel{}, fmt.Errorf("%w: no pixel size for format %s", ErrInvalidConstruction, tex.Format)
		}
		row = uint64(pixelSize) * uint64(w)
	}
	slice := uint64(strides.Slice)
	if slice == 0 {
		slice = row * uint64(h)
	}
	layer := uint64(strides.Layer)
	if layer == 0 {
		slice64, ok := sizing.MulUint64(slice, uint64(d))
		if !ok {
			return MipLevel{}, fmt.Errorf("%w: layer stride", ErrSizeOverflow)
		}
		layer = slice64
	}
	if row > math.MaxUint32 || slice > math.MaxUint32 || layer > math.MaxUint32 {
		return MipLevel{}, fmt.Errorf("%w: strides %d/%d/%d exceed 32 bits", ErrSizeOverflow, row, slice, layer)
	}

	var total uint64
	for _, l := range layers {
		total += uint64(len(l))
	}
	expected, ok := sizing.MulUint64(layer, uint64(tex.LayerCount))
	if !ok || expected != total {
		return MipLevel{}, fmt.Errorf("%w: mip level %d expects %d bytes (%d layers of %d), got %d",
			ErrSizeMismatch, level, expected, tex.LayerCount, layer, total)
	}
	uncompressed, err := sizing.ToUint32(int(total), ErrSizeOverflow) //nolint:gosec // total fits in memory
	if err != nil {
		return MipLevel{}, fmt.Errorf("mip level %d is %d bytes: %w", level, total, err)
	}

	data, err := PackLayers(reg, tex.SupercompressionScheme, int(tex.LayerCount), layers)
	if err != nil {
		return MipLevel{}, err
	}
	compressed, err := sizing.ToUint32(len(data), ErrSizeOverflow)
	if err != nil {
		return MipLevel{}, fmt.Errorf("mip level %d payload is %d bytes: %w", level, len(data), err)
	}

	return MipLevel{
		Descriptor: MipLevelDescriptor{
			CompressedSize:   compressed,
			UncompressedSize: uncompressed,
			RowStride:        uint32(row),
			SliceStride:      uint32(slice),
			LayerStride:      uint32(layer),
		},
		Data: data,
	}, nil
}
