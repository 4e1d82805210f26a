package gcf

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/gcf/compression"
	"github.com/meigma/gcf/internal/testutil"
)

// writeTwoResources writes a blob with 100 bytes of content followed by a
// custom resource with a 3 byte extension and 123 bytes of content.
func writeTwoResources(t *testing.T, flags ContainerFlags) (*testutil.SeekBuffer, Header) {
	t.Helper()

	buf := testutil.NewSeekBuffer(nil)
	h := NewHeader(2, flags)
	require.NoError(t, WriteHeader(buf, h))

	require.NoError(t, WriteDescriptor(buf, blobFixture()))
	_, err := buf.Write(testutil.Repeat(0xfe, 100))
	require.NoError(t, err)
	require.NoError(t, WritePadding(buf, h))

	require.NoError(t, WriteDescriptor(buf, opaqueFixture()))
	_, err = buf.Write(testutil.Repeat(0xfb, 123))
	require.NoError(t, err)
	require.NoError(t, WritePadding(buf, h))

	_, err = buf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	return buf, h
}

func TestSkipResourcePadded(t *testing.T) {
	t.Parallel()

	buf, _ := writeTwoResources(t, 0)
	assert.Len(t, buf.Bytes(), 288)
	assert.Equal(t, make([]byte, 4), buf.Bytes()[140:144])

	h, err := ReadHeader(buf, DefaultVersion)
	require.NoError(t, err)
	assert.Equal(t, uint16(2), h.ResourceCount)

	common, err := ReadCommonDescriptor(buf)
	require.NoError(t, err)
	assert.Equal(t, blobFixture().CommonDescriptor, common)

	require.NoError(t, SkipResource(buf, common, h))
	pos, err := buf.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(144), pos)

	d, err := ReadDescriptor(buf)
	require.NoError(t, err)
	assert.Equal(t, opaqueFixture(), d)
}

func TestSkipResourceUnpadded(t *testing.T) {
	t.Parallel()

	buf, _ := writeTwoResources(t, FlagUnpadded)
	assert.Len(t, buf.Bytes(), 8+132+142)

	h, err := ReadHeader(buf, DefaultVersion)
	require.NoError(t, err)
	assert.False(t, h.Padded())

	common, err := ReadCommonDescriptor(buf)
	require.NoError(t, err)
	require.NoError(t, SkipResource(buf, common, h))
	pos, err := buf.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(140), pos)

	d, err := ReadDescriptor(buf)
	require.NoError(t, err)
	assert.Equal(t, opaqueFixture(), d)

	content := make([]byte, 123)
	_, err = io.ReadFull(buf, content)
	require.NoError(t, err)
	assert.Equal(t, testutil.Repeat(0xfb, 123), content)
}

func TestWritePaddingAligned(t *testing.T) {
	t.Parallel()

	buf := testutil.NewSeekBuffer(nil)
	h := NewHeader(0, 0)
	require.NoError(t, WriteHeader(buf, h))
	require.NoError(t, WritePadding(buf, h))
	assert.Len(t, buf.Bytes(), HeaderSize)

	_, err := buf.Write([]byte{1})
	require.NoError(t, err)
	require.NoError(t, WritePadding(buf, h))
	assert.Len(t, buf.Bytes(), 16)

	_, err = buf.Seek(9, io.SeekStart)
	require.NoError(t, err)
	require.NoError(t, SkipPadding(buf, h))
	pos, err := buf.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(16), pos)
}

func TestReadHeaderErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, NewHeader(1, 0)))
	raw := buf.Bytes()

	_, err := ReadHeader(bytes.NewReader(raw), 4)
	require.ErrorIs(t, err, ErrVersionMismatch)

	_, err = ReadHeader(bytes.NewReader(raw[:5]), DefaultVersion)
	require.ErrorIs(t, err, ErrFormat)

	_, err = ReadHeader(bytes.NewReader(nil), DefaultVersion)
	require.ErrorIs(t, err, ErrFormat)

	_, err = ReadHeader(bytes.NewReader(raw), 100)
	require.ErrorIs(t, err, ErrInvalidConstruction)
}

func TestReadDescriptorTruncated(t *testing.T) {
	t.Parallel()

	raw, err := MarshalDescriptor(textureFixture(t))
	require.NoError(t, err)

	_, err = ReadDescriptor(bytes.NewReader(raw[:20]))
	require.ErrorIs(t, err, ErrFormat)

	_, err = ReadCommonDescriptor(bytes.NewReader(raw[:4]))
	require.ErrorIs(t, err, ErrFormat)
}

func TestWriteDescriptorUnknownKind(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteDescriptor(&buf, CommonDescriptor{})
	require.ErrorIs(t, err, ErrUnknownDescriptorKind)
	assert.Zero(t, buf.Len())
}

func TestMipLevelStream(t *testing.T) {
	t.Parallel()

	tex := textureFixture(t)
	tex.LayerCount = 2
	tex.SupercompressionScheme = compression.Deflate

	d := MipLevelDescriptor{CompressedSize: 999, UncompressedSize: 999, RowStride: 4}
	layers := [][]byte{[]byte("abcd"), []byte("cdef")}

	buf := testutil.NewSeekBuffer(nil)
	require.NoError(t, WriteMipLevel(buf, tex, d, layers))
	require.NoError(t, WriteMipLevel(buf, tex, d, [][]byte{[]byte("gh"), []byte("ij")}))
	assert.Equal(t, uint32(999), d.CompressedSize)

	_, err := buf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	got, gotLayers, err := ReadMipLevel(buf, tex)
	require.NoError(t, err)
	assert.Equal(t, layers, gotLayers)
	assert.Equal(t, uint32(8), got.UncompressedSize)
	assert.NotEqual(t, uint32(999), got.CompressedSize)
	assert.Equal(t, uint32(4), got.RowStride)

	_, err = buf.Seek(0, io.SeekStart)
	require.NoError(t, err)
	require.NoError(t, SkipMipLevels(buf, 2))
	pos, err := buf.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(len(buf.Bytes())), pos)
}

func TestWriteMipLevelLayerCount(t *testing.T) {
	t.Parallel()

	tex := textureFixture(t)
	var buf bytes.Buffer
	err := WriteMipLevel(&buf, tex, MipLevelDescriptor{}, [][]byte{[]byte("ab")})
	require.ErrorIs(t, err, ErrSizeMismatch)
	assert.Zero(t, buf.Len())
}

func TestReadMipLevelTruncated(t *testing.T) {
	t.Parallel()

	tex := textureFixture(t)
	tex.LayerCount = 1
	var buf bytes.Buffer
	require.NoError(t, WriteMipLevel(&buf, tex, MipLevelDescriptor{}, [][]byte{[]byte("abcdef")}))

	_, _, err := ReadMipLevel(bytes.NewReader(buf.Bytes()[:buf.Len()-1]), tex)
	require.ErrorIs(t, err, ErrFormat)
}

func TestReadMipLevelSizeMismatch(t *testing.T) {
	t.Parallel()

	tex := textureFixture(t)
	tex.LayerCount = 1
	var buf bytes.Buffer
	require.NoError(t, WriteMipLevel(&buf, tex, MipLevelDescriptor{}, [][]byte{{1, 2}}))

	corrupt := bytes.Clone(buf.Bytes())
	binary.LittleEndian.PutUint32(corrupt[4:8], 99)
	_, _, err := ReadMipLevel(bytes.NewReader(corrupt), tex)
	require.ErrorIs(t, err, ErrSizeMismatch)

	d, layers, err := ReadMipLevel(bytes.NewReader(buf.Bytes()), tex)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), d.UncompressedSize)
	assert.Equal(t, [][]byte{{1, 2}}, layers)
}

func TestMipLevelLayerStrideMismatch(t *testing.T) {
	t.Parallel()

	tex := textureFixture(t)
	tex.LayerCount = 2
	layers := [][]byte{[]byte("ab"), []byte("cd")}

	var buf bytes.Buffer
	err := WriteMipLevel(&buf, tex, MipLevelDescriptor{LayerStride: 3}, layers)
	require.ErrorIs(t, err, ErrSizeMismatch)
	assert.Zero(t, buf.Len())

	require.NoError(t, WriteMipLevel(&buf, tex, MipLevelDescriptor{LayerStride: 2}, layers))
	corrupt := bytes.Clone(buf.Bytes())
	binary.LittleEndian.PutUint32(corrupt[16:20], 3)
	_, _, err = ReadMipLevel(bytes.NewReader(corrupt), tex)
	require.ErrorIs(t, err, ErrSizeMismatch)
}
