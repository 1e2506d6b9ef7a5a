package svo

import (
	"encoding/binary"
	"math"
)

// Uniform block layout, matching the WGSL struct
//
//	struct Camera {
//	    field_of_view: f32,
//	    max_ray_length: u32,
//	    head_rot: vec2<u32>,
//	    player_pos: vec3<u32>,
//	}
//
// under WGSL uniform alignment rules (vec2 aligns to 8, vec3 to 16).
const (
	uniformFOVOffset       = 0
	uniformMaxRayOffset    = 4
	uniformHeadRotOffset   = 8
	uniformPlayerPosOffset = 16

	// UniformSize is the encoded size of a Uniform in bytes.
	UniformSize = 32
)

// Uniform holds the per-frame camera parameters handed to the renderer
// next to the node buffer.
type Uniform struct {
	FieldOfView  float32
	MaxRayLength uint32
	HeadRot      [2]uint32
	PlayerPos    [3]uint32
}

// NewUniform returns camera parameters with zero rotation and position.
func NewUniform(fov float32, maxRayLength uint32) Uniform {
	return Uniform{FieldOfView: fov, MaxRayLength: maxRayLength}
}

// Bytes encodes u into a UniformSize buffer. Padding bytes are zero.
func (u *Uniform) Bytes() []byte {
	buf := make([]byte, UniformSize)
	binary.LittleEndian.PutUint32(buf[uniformFOVOffset:], math.Float32bits(u.FieldOfView))
	binary.LittleEndian.PutUint32(buf[uniformMaxRayOffset:], u.MaxRayLength)
	binary.LittleEndian.PutUint32(buf[uniformHeadRotOffset:], u.HeadRot[0])
	binary.LittleEndian.PutUint32(buf[uniformHeadRotOffset+4:], u.HeadRot[1])
	binary.LittleEndian.PutUint32(buf[uniformPlayerPosOffset:], u.PlayerPos[0])
	binary.LittleEndian.PutUint32(buf[uniformPlayerPosOffset+4:], u.PlayerPos[1])
	binary.LittleEndian.PutUint32(buf[uniformPlayerPosOffset+8:], u.PlayerPos[2])
	return buf
}
