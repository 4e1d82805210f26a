package gcf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/gcf/compression"
)

func blobFixture() BlobDescriptor {
	return NewBlobDescriptor(100, 200, compression.Test)
}

func textureFixture(t *testing.T) TextureDescriptor {
	t.Helper()
	tex, err := NewTextureDescriptor(TextureParams{
		Format:        FormatR8G8B8Srgb,
		BaseWidth:     100,
		BaseHeight:    100,
		LayerCount:    5,
		MipLevelCount: 2,
		TextureGroup:  99,
		Flags:         []TextureFlags{Texture2D},
	})
	require.NoError(t, err)
	return tex
}

func opaqueFixture() OpaqueDescriptor {
	return OpaqueDescriptor{
		CommonDescriptor: CommonDescriptor{
			Type:          ResourceTest,
			Format:        FormatUndefined,
			ContentSize:   123,
			ExtensionSize: 3,
		},
		Extension: []byte("123"),
	}
}
