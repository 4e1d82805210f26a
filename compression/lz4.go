package compression

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
)

// lz4Codec uses the LZ4 frame format. An empty payload is stored as zero
// bytes rather than an empty frame.
type lz4Codec struct{}

func (lz4Codec) Compress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lz4Codec) NewReader(src io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(src)
	if _, err := br.Peek(1); err == io.EOF {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return io.NopCloser(lz4.NewReader(br)), nil
}
