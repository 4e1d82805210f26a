package gcf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/gcf/compression"
)

func TestCommonDescriptorLayout(t *testing.T) {
	t.Parallel()

	d := CommonDescriptor{
		Type:                   ResourceTexture,
		Format:                 FormatR8G8B8A8Unorm,
		ContentSize:            0x01020304,
		ExtensionSize:          16,
		SupercompressionScheme: compression.ZLib,
	}
	raw, err := d.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x01, 0x00, 0x00, 0x00,
		0x25, 0x00, 0x00, 0x00,
		0x04, 0x03, 0x02, 0x01,
		0x10, 0x00,
		0x01, 0x00,
	}, raw)

	var got CommonDescriptor
	require.NoError(t, got.UnmarshalBinary(raw))
	assert.Equal(t, d, got)
	assert.Equal(t, uint64(16+16+0x01020304), got.RecordSize())
}

func TestCommonDescriptorShort(t *testing.T) {
	t.Parallel()

	var d CommonDescriptor
	require.ErrorIs(t, d.UnmarshalBinary(make([]byte, 15)), ErrFormat)
}

func TestCommonDescriptorPassesThroughUnknownValues(t *testing.T) {
	t.Parallel()

	d := CommonDescriptor{Type: 42, Format: 9999, SupercompressionScheme: 0x1234}
	raw, err := d.MarshalBinary()
	require.NoError(t, err)

	var got CommonDescriptor
	require.NoError(t, got.UnmarshalBinary(append(raw, 0xaa, 0xbb)))
	assert.Equal(t, d, got)
	assert.Equal(t, "custom(0x2a)", got.Type.String())
}

func TestFormatPixelSize(t *testing.T) {
	t.Parallel()

	size, ok := FormatR8G8B8Srgb.PixelSize()
	require.True(t, ok)
	assert.Equal(t, uint32(3), size)
	assert.Equal(t, "R8G8B8_SRGB", FormatR8G8B8Srgb.String())

	_, ok = FormatUndefined.PixelSize()
	assert.False(t, ok)
	_, ok = Format(1234).PixelSize()
	assert.False(t, ok)
	assert.Equal(t, "FORMAT(1234)", Format(1234).String())
}
