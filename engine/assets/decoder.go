package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-designer/common"
	"github.com/Carmen-Shannon/oxy-designer/engine/description"
	"github.com/Carmen-Shannon/oxy-designer/engine/renderer/shader"
)

// ErrUnknownExtension is returned for asset paths no decoder is registered for.
var ErrUnknownExtension = errors.New("unknown asset extension")

// Decoder turns the raw bytes of an asset file into its typed value.
type Decoder func(path string, data []byte) (any, error)

// Extensions of the asset kinds the server decodes out of the box.
const (
	ExtObject       = ".object"
	ExtMaterialType = ".material_type"
	ExtMaterial     = ".material"
	ExtCamera       = ".camera"
)

// ShaderExtensions lists the extensions decoded as shader sources.
var ShaderExtensions = []string{".wgsl", ".vert", ".frag"}

// TextureExtensions lists the extensions decoded as textures.
var TextureExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".webp"}

func defaultDecoders(maxTextureSize *int) map[string]Decoder {
	decoders := map[string]Decoder{
		ExtObject: func(_ string, data []byte) (any, error) {
			return description.DecodeObject(data)
		},
		ExtMaterialType: func(_ string, data []byte) (any, error) {
			return description.DecodeMaterialType(data)
		},
		ExtMaterial: func(_ string, data []byte) (any, error) {
			return description.DecodeMaterialSettings(data)
		},
		ExtCamera: func(_ string, data []byte) (any, error) {
			return description.DecodeCameraSettings(data)
		},
	}
	for _, ext := range ShaderExtensions {
		decoders[ext] = decodeShaderSource
	}
	for _, ext := range TextureExtensions {
		decoders[ext] = func(_ string, data []byte) (any, error) {
			return common.DecodeTexture(data, *maxTextureSize)
		}
	}
	return decoders
}

func decodeShaderSource(path string, data []byte) (any, error) {
	return shader.Source{Path: path, Text: string(data)}, nil
}

// Extension returns the lower-cased extension of an asset path, including the dot.
// Shader sources named like "basic.vert.wgsl" resolve to ".wgsl".
func Extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// resolveDecoder selects the decoder registered for the path's extension.
func (s *server) resolveDecoder(path string) (Decoder, error) {
	ext := Extension(path)
	s.mu.RLock()
	defer s.mu.RUnlock()
	dec, ok := s.decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, ext)
	}
	return dec, nil
}
