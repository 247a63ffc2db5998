package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUColorParamSource is the WGSL definition of the per-slot color uniform.
// Matches GPUColorParam layout exactly (16 bytes, std140 aligned).
const GPUColorParamSource = `struct ColorParam {
    color: vec4<f32>,
};`

// GPUColorParam is the GPU-aligned uniform a Color resource is uploaded as.
// Size: 16 bytes (one vec4<f32>).
type GPUColorParam struct {
	Color [4]float32 // offset 0: RGBA color (16 bytes)
}

// Size returns the size of the GPUColorParam struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUColorParam) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUColorParam struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUColorParam) Marshal() []byte {
	buf := make([]byte, 16)
	for i, c := range g.Color {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(c))
	}
	return buf
}
