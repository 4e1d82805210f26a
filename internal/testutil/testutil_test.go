package testutil

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeekBuffer(t *testing.T) {
	t.Parallel()

	b := NewSeekBuffer(nil)
	_, err := b.Write([]byte("abcdef"))
	require.NoError(t, err)

	pos, err := b.Seek(2, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos)
	_, err = b.Write([]byte("XY"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abXYef"), b.Bytes())

	_, err = b.Seek(2, io.SeekEnd)
	require.NoError(t, err)
	_, err = b.Write([]byte("z"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abXYef\x00\x00z"), b.Bytes())

	_, err = b.Seek(-1, io.SeekStart)
	assert.Error(t, err)

	_, err = b.Seek(0, io.SeekStart)
	require.NoError(t, err)
	got, err := io.ReadAll(b)
	require.NoError(t, err)
	assert.Equal(t, b.Bytes(), got)
}

func TestForwardOnlyHidesSeek(t *testing.T) {
	t.Parallel()

	var r io.Reader = ForwardOnly{R: NewSeekBuffer([]byte("x"))}
	_, ok := r.(io.Seeker)
	assert.False(t, ok)

	var w io.Writer = WriteOnly{W: NewSeekBuffer(nil)}
	_, ok = w.(io.Seeker)
	assert.False(t, ok)
}
