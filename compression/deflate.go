package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
)

// identityCodec stores content as-is.
type identityCodec struct{}

func (identityCodec) Compress(src []byte) ([]byte, error) {
	return bytes.Clone(src), nil
}

func (identityCodec) NewReader(src io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(src), nil
}

// zlibCodec is zlib-wrapped deflate at the default level.
type zlibCodec struct{}

func (zlibCodec) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(src); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (zlibCodec) NewReader(src io.Reader) (io.ReadCloser, error) {
	return zlib.NewReader(src)
}

// deflateCodec is raw deflate without a zlib wrapper or checksum.
type deflateCodec struct{}

func (deflateCodec) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(src); err != nil {
		_ = fw.Close()
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (deflateCodec) NewReader(src io.Reader) (io.ReadCloser, error) {
	return flate.NewReader(src), nil
}
