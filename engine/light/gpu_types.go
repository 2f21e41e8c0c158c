package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUShadowData is the GPU-aligned representation of one shadow camera's data.
// Size: 80 bytes (std430 / WGSL aligned).
//
// Layout:
//
//	mat4x4<f32> light_vp       (64 bytes, offset 0)
//	vec2<f32>   texel_size     ( 8 bytes, offset 64)
//	f32         bias           ( 4 bytes, offset 72)
//	f32         normal_bias    ( 4 bytes, offset 76)
type GPUShadowData struct {
	LightVP    [16]float32 // view-projection of the shadow camera
	TexelSize  [2]float32  // 1.0 / shadow_map_resolution for PCF offset calculations
	Bias       float32     // depth comparison bias to reduce shadow acne
	NormalBias float32     // world-space normal-offset distance for shadow lookup
}

// Size returns the size of the GPUShadowData struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (s *GPUShadowData) Size() int {
	return int(unsafe.Sizeof(*s))
}

// SetLightVP stores the shadow camera's view-projection matrix.
//
// Parameters:
//   - viewProj: the combined projection * view matrix (column-major)
func (s *GPUShadowData) SetLightVP(viewProj mgl32.Mat4) {
	s.LightVP = [16]float32(viewProj)
}

// ComputeTexelSize stores the reciprocal of the shadow map resolution in both axes.
//
// Parameters:
//   - resolution: shadow map resolution in texels (width and height)
func (s *GPUShadowData) ComputeTexelSize(resolution int) {
	if resolution <= 0 {
		s.TexelSize = [2]float32{0, 0}
		return
	}
	texel := 1.0 / float32(resolution)
	s.TexelSize = [2]float32{texel, texel}
}

// ComputeNormalBias derives the world-space normal-offset bias from the size of
// one shadow map texel and stores it in the receiver's NormalBias field.
//
// Parameters:
//   - worldTexelSize: world units covered by one shadow map texel
//   - scale: multiplier on the per-texel world size (typically 2.0–4.0)
func (s *GPUShadowData) ComputeNormalBias(worldTexelSize, scale float32) {
	s.NormalBias = worldTexelSize * scale
}

// Marshal serializes the GPUShadowData struct into a byte buffer suitable for
// GPU uniform upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload
func (s *GPUShadowData) Marshal() []byte {
	buf := make([]byte, 80)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(s.LightVP[i]))
	}
	binary.LittleEndian.PutUint32(buf[64:68], math.Float32bits(s.TexelSize[0]))
	binary.LittleEndian.PutUint32(buf[68:72], math.Float32bits(s.TexelSize[1]))
	binary.LittleEndian.PutUint32(buf[72:76], math.Float32bits(s.Bias))
	binary.LittleEndian.PutUint32(buf[76:80], math.Float32bits(s.NormalBias))
	return buf
}

// MarshalShadowBuffer concatenates the marshaled shadow data of every entry,
// in order, for upload into a shadow storage buffer.
//
// Parameters:
//   - data: the shadow entries to marshal
//
// Returns:
//   - []byte: len(data) * 80 bytes
func MarshalShadowBuffer(data []GPUShadowData) []byte {
	buf := make([]byte, 0, len(data)*80)
	for i := range data {
		buf = append(buf, data[i].Marshal()...)
	}
	return buf
}
