package gcf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeMagic(t *testing.T) {
	t.Parallel()

	h := NewHeader(2, 0)
	raw, err := h.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x47, 0x43, 0x30, 0x33, 0x02, 0x00, 0x00, 0x00}, raw)
	assert.Equal(t, uint32(0x33304347), h.Magic)

	_, err = MakeMagic(100)
	require.ErrorIs(t, err, ErrInvalidConstruction)
	_, err = MakeMagic(-1)
	require.ErrorIs(t, err, ErrInvalidConstruction)
}

func TestVersionRoundTrip(t *testing.T) {
	t.Parallel()

	for v := 0; v <= MaxVersion; v++ {
		magic, err := MakeMagic(v)
		require.NoError(t, err)
		got, err := VersionFromMagic(magic)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestVersionFromMagicRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, magic := range []uint32{0, 0x33304348, 0x3341_4347} {
		_, err := VersionFromMagic(magic)
		assert.ErrorIs(t, err, ErrFormat, "magic %#x", magic)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []Header{
		NewHeader(0, 0),
		NewHeader(65535, FlagUnpadded),
		{Magic: 0xdeadbeef, ResourceCount: 7, Flags: 0xff00},
	}
	for _, h := range tests {
		raw, err := h.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, raw, HeaderSize)

		var got Header
		require.NoError(t, got.UnmarshalBinary(raw))
		assert.Equal(t, h, got)
	}
}

func TestHeaderUnmarshalLength(t *testing.T) {
	t.Parallel()

	var h Header
	require.ErrorIs(t, h.UnmarshalBinary(make([]byte, 7)), ErrFormat)
	require.ErrorIs(t, h.UnmarshalBinary(make([]byte, 9)), ErrFormat)
}

func TestHeaderPadded(t *testing.T) {
	t.Parallel()

	assert.True(t, NewHeader(0, 0).Padded())
	assert.False(t, NewHeader(0, FlagUnpadded).Padded())

	v, err := NewHeader(0, 0).Version()
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, v)
}

func TestAlign(t *testing.T) {
	t.Parallel()

	got, err := Align(13, ResourceAlignment)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), got)

	got, err = Align(16, ResourceAlignment)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), got)

	_, err = Align(5, 6)
	require.ErrorIs(t, err, ErrInvalidConstruction)

	_, err = Align(^uint64(0), 8)
	require.ErrorIs(t, err, ErrSizeOverflow)
}
