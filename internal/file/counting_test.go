package file

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forwardOnly hides any Seek method of the wrapped reader.
type forwardOnly struct{ r io.Reader }

func (f forwardOnly) Read(p []byte) (int, error) { return f.r.Read(p) }

func TestCountingReader(t *testing.T) {
	t.Parallel()

	cr := &CountingReader{R: bytes.NewReader([]byte("0123456789"))}
	buf := make([]byte, 3)
	_, err := io.ReadFull(cr, buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), cr.N)
}

func TestCountingReaderSkip(t *testing.T) {
	t.Parallel()

	for name, src := range map[string]func() io.Reader{
		"seekable":     func() io.Reader { return bytes.NewReader([]byte("0123456789")) },
		"forward-only": func() io.Reader { return forwardOnly{bytes.NewReader([]byte("0123456789"))} },
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cr := &CountingReader{R: src()}
			require.NoError(t, cr.Skip(4))
			assert.Equal(t, uint64(4), cr.N)

			buf := make([]byte, 2)
			_, err := io.ReadFull(cr, buf)
			require.NoError(t, err)
			assert.Equal(t, []byte("45"), buf)
			assert.Equal(t, uint64(6), cr.N)
		})
	}
}

func TestCountingReaderSkipPastEnd(t *testing.T) {
	t.Parallel()

	cr := &CountingReader{R: forwardOnly{bytes.NewReader([]byte("abc"))}}
	err := cr.Skip(10)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestCountingWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cw := &CountingWriter{W: &buf}
	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, cw.WriteZeros(100))

	assert.Equal(t, uint64(103), cw.N)
	assert.Equal(t, 103, buf.Len())
	assert.Equal(t, make([]byte, 100), buf.Bytes()[3:])
}
