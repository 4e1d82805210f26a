package compression

import (
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// DefaultMaxDecoderMemory is the default maximum zstd decoder memory (256MB).
const DefaultMaxDecoderMemory = 256 << 20

// zstdCodec compresses with a shared encoder and decodes through a pool of
// reusable decoders to reduce allocation overhead.
type zstdCodec struct {
	encOnce sync.Once
	enc     *zstd.Encoder
	encErr  error
	pool    *decoderPool
}

func newZstdCodec() *zstdCodec {
	return &zstdCodec{pool: newDecoderPool(DefaultMaxDecoderMemory)}
}

func (c *zstdCodec) Compress(src []byte) ([]byte, error) {
	c.encOnce.Do(func() {
		// Zero frames keep empty payloads decodable.
		c.enc, c.encErr = zstd.NewWriter(nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithLowerEncoderMem(true),
			zstd.WithZeroFrames(true),
		)
	})
	if c.encErr != nil {
		return nil, c.encErr
	}
	return c.enc.EncodeAll(src, nil), nil
}

func (c *zstdCodec) NewReader(src io.Reader) (io.ReadCloser, error) {
	dec, release, err := c.pool.get(src)
	if err != nil {
		return nil, err
	}
	return &pooledDecoder{Decoder: dec, release: release}, nil
}

// pooledDecoder returns its decoder to the pool on Close.
type pooledDecoder struct {
	*zstd.Decoder
	release func()
	once    sync.Once
}

func (d *pooledDecoder) Close() error {
	d.once.Do(d.release)
	return nil
}

// decoderPool manages reusable zstd decoders.
type decoderPool struct {
	pool             *sync.Pool
	maxDecoderMemory uint64
}

func newDecoderPool(maxMemory uint64) *decoderPool {
	p := &decoderPool{maxDecoderMemory: maxMemory}
	p.pool = &sync.Pool{
		New: func() any {
			dec, err := p.newDecoder(nil)
			if err != nil {
				return nil
			}
			return dec
		},
	}
	return p
}

// get returns a decoder configured to read from r.
// The caller must call the returned release function when done.
func (p *decoderPool) get(r io.Reader) (*zstd.Decoder, func(), error) {
	value := p.pool.Get()
	dec, ok := value.(*zstd.Decoder)
	if !ok || dec == nil {
		// Pool's New function failed, try directly
		newDec, err := p.newDecoder(r)
		if err != nil {
			return nil, nil, err
		}
		return newDec, newDec.Close, nil
	}

	if err := dec.Reset(r); err != nil {
		// Reset failed, close this one and create new
		dec.Close()
		newDec, err := p.newDecoder(r)
		if err != nil {
			return nil, nil, err
		}
		return newDec, newDec.Close, nil
	}

	return dec, func() {
		_ = dec.Reset(nil) //nolint:errcheck // clearing state before pool return
		p.pool.Put(dec)
	}, nil
}

func (p *decoderPool) newDecoder(r io.Reader) (*zstd.Decoder, error) {
	opts := []zstd.DOption{
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(false),
	}
	if p.maxDecoderMemory != 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(p.maxDecoderMemory))
	}
	return zstd.NewReader(r, opts...)
}
