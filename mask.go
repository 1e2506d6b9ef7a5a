package svo

// ToIndex returns the linear index of p inside a side×side×side grid.
// Coordinates are reduced modulo side first. The axis order is x, then z,
// then y: index = x + z*side + y*side².
func ToIndex(p IVec3, side int) int {
	x := imod(int(p.X), side)
	y := imod(int(p.Y), side)
	z := imod(int(p.Z), side)
	return x + y*side*side + z*side
}

// FromIndex is the inverse of ToIndex for 0 <= index < side³.
func FromIndex(index, side int) IVec3 {
	layer := side * side
	return IVec3{
		X: int32((index % layer) % side),
		Y: int32(index / layer),
		Z: int32((index % layer) / side),
	}
}

// ChildMask selects the octant of a cell of edge length span that contains
// local, a point relative to the cell's lower corner. Each axis is 1 when
// local lies in the upper half, 0 otherwise.
func ChildMask(span float32, local Vec4) IVec3 {
	half := span * 0.5
	return IVec3{
		X: maskBit(local.X, half),
		Y: maskBit(local.Y, half),
		Z: maskBit(local.Z, half),
	}
}

func maskBit(v, half float32) int32 {
	if v < half {
		return 0
	}
	return 1
}

// ChildSlot maps a child mask to its position in Node.Children.
// It panics if the mask is not a 0/1 vector.
func ChildSlot(mask IVec3) int {
	if !isBit(mask.X) || !isBit(mask.Y) || !isBit(mask.Z) {
		panic(&InvariantError{Op: "ChildSlot", Index: int64(ToIndex(mask, 2)), Detail: "mask is not a 0/1 vector"})
	}
	return ToIndex(mask, 2)
}

// SlotMask is the inverse of ChildSlot.
func SlotMask(slot int) IVec3 {
	if slot < 0 || slot >= ChildCount {
		panic(&InvariantError{Op: "SlotMask", Index: int64(slot), Detail: "child slot out of range [0,8)"})
	}
	return FromIndex(slot, 2)
}

// AddDir returns the per-axis distance |a - b|. For masks this flips the
// axes selected by dir.
func AddDir(a, dir IVec3) IVec3 {
	return IVec3{X: iabs(a.X - dir.X), Y: iabs(a.Y - dir.Y), Z: iabs(a.Z - dir.Z)}
}

func isBit(v int32) bool { return v == 0 || v == 1 }

func imod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func iabs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
