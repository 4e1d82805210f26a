package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayloads() map[string][]byte {
	return map[string][]byte{
		"empty":      {},
		"single":     {0x42},
		"zeros":      make([]byte, 128),
		"repetitive": bytes.Repeat([]byte("global container format "), 500),
		"binary":     {0x00, 0xff, 0x10, 0x80, 0x7f, 0x01, 0xfe},
	}
}

func TestRoundTripAllSchemes(t *testing.T) {
	t.Parallel()

	reg := Extended()
	for _, scheme := range reg.Schemes() {
		for name, payload := range testPayloads() {
			t.Run(scheme.String()+"/"+name, func(t *testing.T) {
				t.Parallel()

				compressed, err := reg.Compress(scheme, payload)
				require.NoError(t, err)

				got, err := reg.Decompress(scheme, compressed)
				require.NoError(t, err)
				assert.True(t, bytes.Equal(payload, got), "round trip mismatch: got %d bytes want %d", len(got), len(payload))
			})
		}
	}
}

func TestDefaultSchemes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Scheme{NoCompression, ZLib, Deflate, Test}, Default().Schemes())
	assert.False(t, Default().Has(Zstd))
	assert.True(t, Extended().Has(Zstd))
	assert.True(t, Extended().Has(LZ4))
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	data := []byte("abcd")
	out, err := Compress(NoCompression, data)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestZLibHasWrapper(t *testing.T) {
	t.Parallel()

	out, err := Compress(ZLib, []byte("hello"))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(out), 2)
	// CMF byte: deflate with a 32K window.
	assert.Equal(t, byte(0x78), out[0])
	assert.Zero(t, (uint16(out[0])<<8|uint16(out[1]))%31, "zlib header check bits")
}

func TestDeflateIsRaw(t *testing.T) {
	t.Parallel()

	raw, err := Compress(Deflate, make([]byte, 128))
	require.NoError(t, err)
	wrapped, err := Compress(ZLib, make([]byte, 128))
	require.NoError(t, err)

	// zlib adds a 2 byte header and a 4 byte adler32 trailer.
	assert.Len(t, wrapped, len(raw)+6)

	// Raw deflate must not decode as zlib.
	_, err = Decompress(ZLib, raw)
	assert.Error(t, err)
}

func TestTestSchemeMatchesDeflate(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{1, 2, 3}, 64)
	a, err := Compress(Test, payload)
	require.NoError(t, err)
	b, err := Compress(Deflate, payload)
	require.NoError(t, err)
	assert.Equal(t, b, a)

	got, err := Decompress(Deflate, a)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestUnknownScheme(t *testing.T) {
	t.Parallel()

	_, err := Compress(Scheme(1234), []byte("x"))
	require.ErrorIs(t, err, ErrUnknownScheme)

	_, err = Decompress(Zstd, []byte("x"))
	require.ErrorIs(t, err, ErrUnknownScheme)
}

func TestCorruptInput(t *testing.T) {
	t.Parallel()

	_, err := Decompress(ZLib, []byte{0x01, 0x02, 0x03})
	require.ErrorIs(t, err, ErrDecompression)
}

func TestMaxDecompressedSize(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(WithStandardSchemes(), WithMaxDecompressedSize(64))
	compressed, err := reg.Compress(Deflate, make([]byte, 65))
	require.NoError(t, err)

	_, err = reg.Decompress(Deflate, compressed)
	require.ErrorIs(t, err, ErrSizeOverflow)

	compressed, err = reg.Compress(Deflate, make([]byte, 64))
	require.NoError(t, err)
	out, err := reg.Decompress(Deflate, compressed)
	require.NoError(t, err)
	assert.Len(t, out, 64)
}

type upperCodec struct{ identityCodec }

func (upperCodec) Compress(src []byte) ([]byte, error) {
	return bytes.ToUpper(src), nil
}

func TestCustomCodec(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(WithStandardSchemes(), WithCodec(0x9000, upperCodec{}))
	out, err := reg.Compress(0x9000, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, []byte("ABC"), out)

	reg = NewRegistry(WithStandardSchemes(), WithCodec(Test, nil))
	assert.False(t, reg.Has(Test))
}

func TestParseScheme(t *testing.T) {
	t.Parallel()

	for s, name := range schemeNames {
		got, err := ParseScheme(name)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseScheme(" ZLib ")
	require.NoError(t, err)
	assert.Equal(t, ZLib, got)

	_, err = ParseScheme("brotli")
	require.ErrorIs(t, err, ErrUnknownScheme)

	assert.Equal(t, "unknown(0x1234)", Scheme(0x1234).String())
}
