// Package gcf reads and writes Global Container Format (GCF) files.
//
// A GCF container is a fixed 8 byte [Header] followed by resource records.
// Each record starts with a 16 byte [CommonDescriptor], followed by a
// type-specific extension of ExtensionSize bytes and ContentSize bytes of
// content. Unless the header carries [FlagUnpadded], records are padded
// with zero bytes to the next 8 byte boundary of the container.
//
// All integers are little-endian.
//
// Known resource types decode to [BlobDescriptor] and [TextureDescriptor].
// Any other type decodes to [OpaqueDescriptor], which keeps the raw
// extension bytes so the record can be written back unchanged.
//
// # Writing
//
//	w, err := gcf.NewWriter(f)
//	if err != nil {
//	    return err
//	}
//	if err := w.AddBlob(data, compression.Deflate); err != nil {
//	    return err
//	}
//	return w.Close()
//
// # Reading
//
//	r, err := gcf.NewReader(f)
//	if err != nil {
//	    return err
//	}
//	for desc, err := range r.Descriptors() {
//	    if err != nil {
//	        return err
//	    }
//	    if blob, ok := desc.(gcf.BlobDescriptor); ok {
//	        data, err := r.ReadBlob(blob)
//	        ...
//	    }
//	}
//
// The lower-level stream functions ([ReadHeader], [ReadDescriptor],
// [SkipResource], [WritePadding], ...) operate directly on a caller
// supplied stream. None of the types in this package are safe for
// concurrent use on the same stream.
package gcf
