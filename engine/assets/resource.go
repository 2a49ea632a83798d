package assets

import (
	"path/filepath"
	"strings"
)

type ResourceType uint8

const (
	ResourceTypeNone ResourceType = iota
	ResourceTypeScene
	ResourceTypeEphemeris
	ResourceTypeTexture
	ResourceTypeShader
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeScene:
		return "scene"
	case ResourceTypeEphemeris:
		return "ephemeris"
	case ResourceTypeTexture:
		return "texture"
	case ResourceTypeShader:
		return "shader"
	}
	return "none"
}

// Resource is a loaded asset. Data holds a *SceneConfig, *ephemeris.Track,
// *image.RGBA or shader source string depending on Type.
type Resource struct {
	Name     string
	FullPath string
	Type     ResourceType
	DataSize uint64
	Data     interface{}
}

func determineAssetType(path string) ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ResourceTypeScene
	case ".csv", ".txt", ".dat":
		return ResourceTypeEphemeris
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return ResourceTypeTexture
	case ".glsl", ".vert", ".frag":
		return ResourceTypeShader
	default:
		return ResourceTypeNone
	}
}
