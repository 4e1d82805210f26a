package gcf

import (
	"errors"
	"fmt"
	"io"

	"github.com/meigma/gcf/compression"
	"github.com/meigma/gcf/internal/sizing"
)

// readRecord reads exactly n bytes of the named record.
func readRecord(r io.Reader, n int, what string) ([]byte, error) {
	buf := make([]byte, n)
	got, err := io.ReadFull(r, buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: short read of %s (%d of %d bytes)", ErrFormat, what, got, n)
		}
		return nil, fmt.Errorf("read %s: %w", what, err)
	}
	return buf, nil
}

func writeRecord(w io.Writer, data []byte, what string) error {
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", what, err)
	}
	return nil
}

// ReadHeader reads a container header and checks that its magic matches
// expectedVersion.
func ReadHeader(r io.Reader, expectedVersion int) (Header, error) {
	expected, err := MakeMagic(expectedVersion)
	if err != nil {
		return Header{}, err
	}
	raw, err := readRecord(r, HeaderSize, "header")
	if err != nil {
		return Header{}, err
	}
	var h Header
	if err := h.UnmarshalBinary(raw); err != nil {
		return Header{}, err
	}
	if h.Magic != expected {
		return Header{}, fmt.Errorf("%w: magic %#08x, want %#08x (version %d)", ErrVersionMismatch, h.Magic, expected, expectedVersion)
	}
	return h, nil
}

// WriteHeader writes a container header.
func WriteHeader(w io.Writer, h Header) error {
	raw, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	return writeRecord(w, raw, "header")
}

// ReadCommonDescriptor reads the common fields of a resource record.
func ReadCommonDescriptor(r io.Reader) (CommonDescriptor, error) {
	raw, err := readRecord(r, CommonDescriptorSize, "common descriptor")
	if err != nil {
		return CommonDescriptor{}, err
	}
	var d CommonDescriptor
	if err := d.UnmarshalBinary(raw); err != nil {
		return CommonDescriptor{}, err
	}
	return d, nil
}

// WriteCommonDescriptor writes the common fields of a resource record.
func WriteCommonDescriptor(w io.Writer, d CommonDescriptor) error {
	raw, err := d.MarshalBinary()
	if err != nil {
		return err
	}
	return writeRecord(w, raw, "common descriptor")
}

// ReadDescriptor reads a full resource descriptor: common fields and
// extension. Unknown resource types yield an OpaqueDescriptor. The stream
// is left at the start of the content.
func ReadDescriptor(r io.Reader) (Descriptor, error) {
	common, err := ReadCommonDescriptor(r)
	if err != nil {
		return nil, err
	}
	return readExtension(r, common)
}

func readExtension(r io.Reader, common CommonDescriptor) (Descriptor, error) {
	ext, err := readRecord(r, int(common.ExtensionSize), "extended descriptor")
	if err != nil {
		return nil, err
	}
	return UnmarshalDescriptor(common, ext)
}

// WriteDescriptor writes a full resource descriptor. See MarshalDescriptor
// for the accepted descriptor kinds.
func WriteDescriptor(w io.Writer, d Descriptor) error {
	raw, err := MarshalDescriptor(d)
	if err != nil {
		return err
	}
	return writeRecord(w, raw, "descriptor")
}

// SkipResource skips the extension, content and padding of a resource whose
// common descriptor has just been read.
func SkipResource(rs io.ReadSeeker, common CommonDescriptor, h Header) error {
	skip := int64(common.ExtensionSize) + int64(common.ContentSize)
	if _, err := rs.Seek(skip, io.SeekCurrent); err != nil {
		return fmt.Errorf("skip resource: %w", err)
	}
	return SkipPadding(rs, h)
}

// SkipPadding moves the stream to the next record boundary. It does
// nothing for unpadded containers.
func SkipPadding(s io.Seeker, h Header) error {
	if !h.Padded() {
		return nil
	}
	pos, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("skip padding: %w", err)
	}
	aligned, ok := sizing.Align(uint64(pos), ResourceAlignment) //nolint:gosec // Seek never returns a negative offset
	if !ok {
		return fmt.Errorf("skip padding: %w", ErrSizeOverflow)
	}
	if _, err := s.Seek(int64(aligned), io.SeekStart); err != nil { //nolint:gosec // aligned < pos+8
		return fmt.Errorf("skip padding: %w", err)
	}
	return nil
}

// WritePadding writes zero bytes up to the next record boundary. It does
// nothing for unpadded containers.
func WritePadding(ws io.WriteSeeker, h Header) error {
	if !h.Padded() {
		return nil
	}
	pos, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("write padding: %w", err)
	}
	pad, ok := sizing.Padding(uint64(pos), ResourceAlignment) //nolint:gosec // Seek never returns a negative offset
	if !ok {
		return fmt.Errorf("write padding: %w", ErrSizeOverflow)
	}
	var zeros [ResourceAlignment]byte
	return writeRecord(ws, zeros[:pad], "padding")
}

// ReadMipLevelDescriptor reads a mip level descriptor.
func ReadMipLevelDescriptor(r io.Reader) (MipLevelDescriptor, error) {
	raw, err := readRecord(r, MipLevelDescriptorSize, "mip level descriptor")
	if err != nil {
		return MipLevelDescriptor{}, err
	}
	var d MipLevelDescriptor
	if err := d.UnmarshalBinary(raw); err != nil {
		return MipLevelDescriptor{}, err
	}
	return d, nil
}

// WriteMipLevelDescriptor writes a mip level descriptor.
func WriteMipLevelDescriptor(w io.Writer, d MipLevelDescriptor) error {
	raw, err := d.MarshalBinary()
	if err != nil {
		return err
	}
	return writeRecord(w, raw, "mip level descriptor")
}

// ReadMipLevel reads a mip level record of tex and returns its descriptor
// and uncompressed layers.
func ReadMipLevel(r io.Reader, tex TextureDescriptor) (MipLevelDescriptor, [][]byte, error) {
	return readMipLevel(compression.Default(), r, tex)
}

func readMipLevel(reg *compression.Registry, r io.Reader, tex TextureDescriptor) (MipLevelDescriptor, [][]byte, error) {
	d, err := ReadMipLevelDescriptor(r)
	if err != nil {
		return MipLevelDescriptor{}, nil, err
	}
	payload, err := readRecord(r, int(d.CompressedSize), "mip level data")
	if err != nil {
		return MipLevelDescriptor{}, nil, err
	}
	layers, err := UnpackLayers(reg, tex.SupercompressionScheme, int(tex.LayerCount), payload)
	if err != nil {
		return MipLevelDescriptor{}, nil, err
	}
	var total uint64
	for _, l := range layers {
		var ok bool
		if total, ok = sizing.AddUint64(total, uint64(len(l))); !ok {
			return MipLevelDescriptor{}, nil, fmt.Errorf("%w: mip level layers", ErrSizeOverflow)
		}
	}
	if total != uint64(d.UncompressedSize) {
		return MipLevelDescriptor{}, nil, fmt.Errorf("%w: mip level is %d bytes, descriptor says %d",
			ErrSizeMismatch, total, d.UncompressedSize)
	}
	if d.LayerStride != 0 {
		if expected, ok := sizing.MulUint64(uint64(d.LayerStride), uint64(len(layers))); !ok || expected != total {
			return MipLevelDescriptor{}, nil, fmt.Errorf("%w: %d layers of stride %d, mip level is %d bytes",
				ErrSizeMismatch, len(layers), d.LayerStride, total)
		}
	}
	return d, layers, nil
}

// WriteMipLevel packs layers with the scheme of tex and writes the mip level
// record. The compressed and uncompressed sizes of d are replaced by the
// actual values; d itself is not modified.
func WriteMipLevel(w io.Writer, tex TextureDescriptor, d MipLevelDescriptor, layers [][]byte) error {
	_, err := writeMipLevel(compression.Default(), w, tex, d, layers)
	return err
}

func writeMipLevel(reg *compression.Registry, w io.Writer, tex TextureDescriptor, d MipLevelDescriptor, layers [][]byte) (uint64, error) {
	payload, err := PackLayers(reg, tex.SupercompressionScheme, int(tex.LayerCount), layers)
	if err != nil {
		return 0, err
	}
	var total int
	for _, l := range layers {
		total += len(l)
	}
	if d.UncompressedSize, err = sizing.ToUint32(total, ErrSizeOverflow); err != nil {
		return 0, fmt.Errorf("mip level is %d bytes: %w", total, err)
	}
	if d.LayerStride != 0 && uint64(d.LayerStride)*uint64(len(layers)) != uint64(total) {
		return 0, fmt.Errorf("%w: %d layers of stride %d, mip level is %d bytes",
			ErrSizeMismatch, len(layers), d.LayerStride, total)
	}
	if d.CompressedSize, err = sizing.ToUint32(len(payload), ErrSizeOverflow); err != nil {
		return 0, fmt.Errorf("mip level payload is %d bytes: %w", len(payload), err)
	}
	if err := WriteMipLevelDescriptor(w, d); err != nil {
		return 0, err
	}
	if err := writeRecord(w, payload, "mip level data"); err != nil {
		return 0, err
	}
	return d.RecordSize(), nil
}

// SkipMipLevels skips n mip level records.
func SkipMipLevels(rs io.ReadSeeker, n int) error {
	for range n {
		d, err := ReadMipLevelDescriptor(rs)
		if err != nil {
			return err
		}
		if _, err := rs.Seek(int64(d.CompressedSize), io.SeekCurrent); err != nil {
			return fmt.Errorf("skip mip level: %w", err)
		}
	}
	return nil
}
