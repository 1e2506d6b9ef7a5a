package svo

import "math"

// Vec2 is a 2-component float vector.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a 3-component float vector.
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 is a 4-component float vector. Points carry a fourth component
// that the octree keeps alongside the spatial axes but never splits on.
type Vec4 struct {
	X, Y, Z, W float32
}

// IVec3 is a 3-component integer vector, used for child masks and grid
// coordinates.
type IVec3 struct {
	X, Y, Z int32
}

// V4 is a convenience function to create a Vec4.
func V4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

// Splat4 returns a Vec4 with every component set to s.
func Splat4(s float32) Vec4 {
	return Vec4{X: s, Y: s, Z: s, W: s}
}

// Add returns the component-wise sum of two vectors.
func (v Vec4) Add(w Vec4) Vec4 {
	return Vec4{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z, W: v.W + w.W}
}

// Sub returns the component-wise difference of two vectors.
func (v Vec4) Sub(w Vec4) Vec4 {
	return Vec4{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z, W: v.W - w.W}
}

// Mul returns the vector scaled by a scalar.
func (v Vec4) Mul(s float32) Vec4 {
	return Vec4{X: v.X * s, Y: v.Y * s, Z: v.Z * s, W: v.W * s}
}

// Div returns the vector divided by a scalar.
func (v Vec4) Div(s float32) Vec4 {
	return Vec4{X: v.X / s, Y: v.Y / s, Z: v.Z / s, W: v.W / s}
}

// XYZ drops the fourth component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Vec4 converts the mask to floats with a zero fourth component.
func (m IVec3) Vec4() Vec4 {
	return Vec4{X: float32(m.X), Y: float32(m.Y), Z: float32(m.Z)}
}

// Step returns 1 for every component where v >= edge, 0 otherwise.
func Step(edge, v Vec4) Vec4 {
	return Vec4{
		X: step(edge.X, v.X),
		Y: step(edge.Y, v.Y),
		Z: step(edge.Z, v.Z),
		W: step(edge.W, v.W),
	}
}

func step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

// Floor rounds every component down.
func Floor(v Vec4) Vec4 {
	return Vec4{
		X: float32(math.Floor(float64(v.X))),
		Y: float32(math.Floor(float64(v.Y))),
		Z: float32(math.Floor(float64(v.Z))),
		W: float32(math.Floor(float64(v.W))),
	}
}

// Sign returns -1, 0 or 1 per component.
func Sign(v Vec4) Vec4 {
	return Vec4{X: sign(v.X), Y: sign(v.Y), Z: sign(v.Z), W: sign(v.W)}
}

func sign(x float32) float32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Boundary clamps every component of v into [lo, hi].
func Boundary(v, lo, hi Vec4) Vec4 {
	return Vec4{
		X: clamp(v.X, lo.X, hi.X),
		Y: clamp(v.Y, lo.Y, hi.Y),
		Z: clamp(v.Z, lo.Z, hi.Z),
		W: clamp(v.W, lo.W, hi.W),
	}
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Any reports whether cond holds for at least one component.
func Any(v Vec4, cond func(float32) bool) bool {
	return cond(v.X) || cond(v.Y) || cond(v.Z) || cond(v.W)
}

// Mod returns the floored remainder of every component, so the result lies
// in [0, m) for positive m even when v is negative.
func Mod(v Vec4, m float32) Vec4 {
	return Vec4{X: fmod(v.X, m), Y: fmod(v.Y, m), Z: fmod(v.Z, m), W: fmod(v.W, m)}
}

func fmod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	if r >= m {
		// -tiny + m rounds up to m in float32.
		return 0
	}
	return r
}
