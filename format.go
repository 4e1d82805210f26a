package gcf

import "fmt"

// Format is a resource data format code. Values follow the Vulkan VkFormat
// numbering; the codec treats them as opaque except for stride defaults.
type Format uint32

// Format codes with a known pixel size.
const (
	FormatUndefined Format = 0

	FormatR8Unorm Format = 9
	FormatR8Snorm Format = 10
	FormatR8Uint  Format = 13
	FormatR8Sint  Format = 14
	FormatR8Srgb  Format = 15

	FormatR8G8Unorm Format = 16
	FormatR8G8Uint  Format = 20
	FormatR8G8Srgb  Format = 22

	FormatR8G8B8Unorm Format = 23
	FormatR8G8B8Uint  Format = 27
	FormatR8G8B8Sint  Format = 28
	FormatR8G8B8Srgb  Format = 29

	FormatB8G8R8Unorm Format = 30
	FormatB8G8R8Srgb  Format = 36

	FormatR8G8B8A8Unorm Format = 37
	FormatR8G8B8A8Uint  Format = 41
	FormatR8G8B8A8Sint  Format = 42
	FormatR8G8B8A8Srgb  Format = 43

	FormatB8G8R8A8Unorm Format = 44
	FormatB8G8R8A8Srgb  Format = 50

	FormatR16Unorm  Format = 70
	FormatR16Uint   Format = 74
	FormatR16Sfloat Format = 76

	FormatR16G16Sfloat       Format = 83
	FormatR16G16B16A16Unorm  Format = 91
	FormatR16G16B16A16Sfloat Format = 97

	FormatR32Uint   Format = 98
	FormatR32Sint   Format = 99
	FormatR32Sfloat Format = 100

	FormatR32G32Sfloat       Format = 103
	FormatR32G32B32Sfloat    Format = 106
	FormatR32G32B32A32Sfloat Format = 109
)

var formatInfo = map[Format]struct {
	name string
	size uint32
}{
	FormatUndefined:          {"UNDEFINED", 0},
	FormatR8Unorm:            {"R8_UNORM", 1},
	FormatR8Snorm:            {"R8_SNORM", 1},
	FormatR8Uint:             {"R8_UINT", 1},
	FormatR8Sint:             {"R8_SINT", 1},
	FormatR8Srgb:             {"R8_SRGB", 1},
	FormatR8G8Unorm:          {"R8G8_UNORM", 2},
	FormatR8G8Uint:           {"R8G8_UINT", 2},
	FormatR8G8Srgb:           {"R8G8_SRGB", 2},
	FormatR8G8B8Unorm:        {"R8G8B8_UNORM", 3},
	FormatR8G8B8Uint:         {"R8G8B8_UINT", 3},
	FormatR8G8B8Sint:         {"R8G8B8_SINT", 3},
	FormatR8G8B8Srgb:         {"R8G8B8_SRGB", 3},
	FormatB8G8R8Unorm:        {"B8G8R8_UNORM", 3},
	FormatB8G8R8Srgb:         {"B8G8R8_SRGB", 3},
	FormatR8G8B8A8Unorm:      {"R8G8B8A8_UNORM", 4},
	FormatR8G8B8A8Uint:       {"R8G8B8A8_UINT", 4},
	FormatR8G8B8A8Sint:       {"R8G8B8A8_SINT", 4},
	FormatR8G8B8A8Srgb:       {"R8G8B8A8_SRGB", 4},
	FormatB8G8R8A8Unorm:      {"B8G8R8A8_UNORM", 4},
	FormatB8G8R8A8Srgb:       {"B8G8R8A8_SRGB", 4},
	FormatR16Unorm:           {"R16_UNORM", 2},
	FormatR16Uint:            {"R16_UINT", 2},
	FormatR16Sfloat:          {"R16_SFLOAT", 2},
	FormatR16G16Sfloat:       {"R16G16_SFLOAT", 4},
	FormatR16G16B16A16Unorm:  {"R16G16B16A16_UNORM", 8},
	FormatR16G16B16A16Sfloat: {"R16G16B16A16_SFLOAT", 8},
	FormatR32Uint:            {"R32_UINT", 4},
	FormatR32Sint:            {"R32_SINT", 4},
	FormatR32Sfloat:          {"R32_SFLOAT", 4},
	FormatR32G32Sfloat:       {"R32G32_SFLOAT", 8},
	FormatR32G32B32Sfloat:    {"R32G32B32_SFLOAT", 12},
	FormatR32G32B32A32Sfloat: {"R32G32B32A32_SFLOAT", 16},
}

// String returns the format name, or its numeric code if unknown.
func (f Format) String() string {
	if info, ok := formatInfo[f]; ok {
		return info.name
	}
	return fmt.Sprintf("FORMAT(%d)", uint32(f))
}

// PixelSize returns the size in bytes of one texel of the format.
// It returns false for FormatUndefined and formats without a known size.
func (f Format) PixelSize() (uint32, bool) {
	info, ok := formatInfo[f]
	if !ok || info.size == 0 {
		return 0, false
	}
	return info.size, true
}
