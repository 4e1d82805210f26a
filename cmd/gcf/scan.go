package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/gcf"
)

type textureInfo struct {
	Dimension string `json:"dimension"`
	Width     uint16 `json:"width"`
	Height    uint16 `json:"height"`
	Depth     uint16 `json:"depth"`
	Layers    uint8  `json:"layers"`
	MipLevels uint8  `json:"mip_levels"`
	Group     uint32 `json:"group"`
}

type resourceInfo struct {
	Index            int           `json:"index"`
	Offset           uint64        `json:"offset"`
	Type             string        `json:"type"`
	TypeCode         uint32        `json:"type_code"`
	Format           string        `json:"format"`
	Scheme           string        `json:"scheme"`
	ContentSize      uint32        `json:"content_size"`
	ExtensionSize    uint16        `json:"extension_size"`
	UncompressedSize *uint64       `json:"uncompressed_size,omitempty"`
	Texture          *textureInfo  `json:"texture,omitempty"`
	Digest           digest.Digest `json:"digest,omitempty"`
	Error            string        `json:"error,omitempty"`

	err error
}

type containerInfo struct {
	Path          string         `json:"path"`
	Version       int            `json:"version"`
	ResourceCount uint16         `json:"resource_count"`
	Padded        bool           `json:"padded"`
	Resources     []resourceInfo `json:"resources"`
}

// err joins the decode errors of all resources.
func (c containerInfo) err() error {
	var errs []error
	for _, r := range c.Resources {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("resource %d: %w", r.Index, r.err))
		}
	}
	return errors.Join(errs...)
}

// scanContainer reads every resource of the container at path and decodes
// its content. Errors decoding a single resource are recorded on it and
// scanning continues; errors in the container structure end the scan.
func scanContainer(ctx context.Context, path string, s settings) (containerInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return containerInfo{}, err
	}
	defer f.Close()

	r, err := gcf.NewReader(f, s.readerOptions()...)
	if err != nil {
		return containerInfo{}, err
	}
	h := r.Header()
	version, err := h.Version()
	if err != nil {
		return containerInfo{}, err
	}
	info := containerInfo{
		Path:          path,
		Version:       version,
		ResourceCount: h.ResourceCount,
		Padded:        h.Padded(),
		Resources:     make([]resourceInfo, 0, h.ResourceCount),
	}

	for d, err := range r.Descriptors() {
		if err != nil {
			return info, err
		}
		if err := ctx.Err(); err != nil {
			return info, err
		}
		common := d.Common()
		res := resourceInfo{
			Index:         len(info.Resources),
			Offset:        r.Offset() - gcf.CommonDescriptorSize - uint64(common.ExtensionSize),
			Type:          common.Type.String(),
			TypeCode:      uint32(common.Type),
			Format:        common.Format.String(),
			Scheme:        common.SupercompressionScheme.String(),
			ContentSize:   common.ContentSize,
			ExtensionSize: common.ExtensionSize,
		}
		res.Digest, res.err = decodeResource(r, d, &res)
		if res.err != nil {
			res.Error = res.err.Error()
			s.logger.Warn("resource not decoded",
				"path", path, "index", res.Index, "error", res.err)
		}
		info.Resources = append(info.Resources, res)
	}
	return info, nil
}

// decodeResource decodes the content of d and returns the digest of the
// decoded bytes. Texture digests cover every layer of every mip level in
// order.
func decodeResource(r *gcf.Reader, d gcf.Descriptor, res *resourceInfo) (digest.Digest, error) {
	switch v := d.(type) {
	case gcf.BlobDescriptor:
		size := v.UncompressedSize
		res.UncompressedSize = &size
		data, err := r.ReadBlob(v)
		if err != nil {
			return "", err
		}
		return digest.FromBytes(data), nil
	case gcf.TextureDescriptor:
		res.Texture = &textureInfo{
			Dimension: v.Flags.String(),
			Width:     v.BaseWidth,
			Height:    v.BaseHeight,
			Depth:     v.BaseDepth,
			Layers:    v.LayerCount,
			MipLevels: v.MipLevelCount,
			Group:     v.TextureGroup,
		}
		levels, err := r.ReadTexture(v)
		if err != nil {
			return "", err
		}
		digester := digest.Canonical.Digester()
		for _, level := range levels {
			for _, layer := range level.Layers {
				_, _ = digester.Hash().Write(layer)
			}
		}
		return digester.Digest(), nil
	default:
		content, err := r.ReadContent()
		if err != nil {
			return "", err
		}
		return digest.FromBytes(content), nil
	}
}
