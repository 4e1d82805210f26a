package gcf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/gcf/compression"
)

func TestOpaquePassthrough(t *testing.T) {
	t.Parallel()

	d := opaqueFixture()
	raw, err := MarshalDescriptor(d)
	require.NoError(t, err)
	require.Len(t, raw, CommonDescriptorSize+3)
	assert.Equal(t, []byte("123"), raw[CommonDescriptorSize:])

	parsed, err := ParseDescriptor(raw)
	require.NoError(t, err)
	got, ok := parsed.(OpaqueDescriptor)
	require.True(t, ok)
	assert.Equal(t, d, got)

	again, err := MarshalDescriptor(got)
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestUnmarshalDescriptorCopiesExtension(t *testing.T) {
	t.Parallel()

	ext := []byte("xyz")
	common := CommonDescriptor{Type: 77, ExtensionSize: 3}
	d, err := UnmarshalDescriptor(common, ext)
	require.NoError(t, err)
	ext[0] = '!'
	assert.Equal(t, []byte("xyz"), d.(OpaqueDescriptor).Extension)
}

func TestUnmarshalDescriptorLength(t *testing.T) {
	t.Parallel()

	common := CommonDescriptor{Type: 77, ExtensionSize: 3}
	_, err := UnmarshalDescriptor(common, []byte("ab"))
	require.ErrorIs(t, err, ErrSizeMismatch)

	raw, err := MarshalDescriptor(opaqueFixture())
	require.NoError(t, err)
	_, err = ParseDescriptor(append(raw, 0))
	require.ErrorIs(t, err, ErrSizeMismatch)
	_, err = ParseDescriptor(raw[:10])
	require.ErrorIs(t, err, ErrFormat)
}

type foreignDescriptor struct{}

func (foreignDescriptor) Common() CommonDescriptor { return CommonDescriptor{} }

func TestMarshalDescriptorKinds(t *testing.T) {
	t.Parallel()

	blob := blobFixture()
	byValue, err := MarshalDescriptor(blob)
	require.NoError(t, err)
	byPointer, err := MarshalDescriptor(&blob)
	require.NoError(t, err)
	assert.Equal(t, byValue, byPointer)

	for _, d := range []Descriptor{
		CommonDescriptor{},
		foreignDescriptor{},
		(*BlobDescriptor)(nil),
		(*TextureDescriptor)(nil),
		(*OpaqueDescriptor)(nil),
		nil,
	} {
		_, err := MarshalDescriptor(d)
		assert.ErrorIs(t, err, ErrUnknownDescriptorKind, "%T", d)
	}

	bad := opaqueFixture()
	bad.Extension = []byte("12")
	_, err = MarshalDescriptor(bad)
	require.ErrorIs(t, err, ErrSizeMismatch)
}

func TestDescriptorDispatch(t *testing.T) {
	t.Parallel()

	tests := []Descriptor{
		blobFixture(),
		NewBlobDescriptor(1, 2, compression.ZLib),
		textureFixture(t),
		opaqueFixture(),
	}
	for _, d := range tests {
		raw, err := MarshalDescriptor(d)
		require.NoError(t, err)
		got, err := ParseDescriptor(raw)
		require.NoError(t, err)
		assert.IsType(t, d, got)
		assert.Equal(t, d, got)
		assert.Equal(t, d.Common(), got.Common())
	}
}
