package svo

// Ray is carried by a Cursor for a raycasting stage. No operation in this
// package reads it.
type Ray struct {
	Origin Vec4
	Dir    Vec4
}

// Cursor is the state of a single descent: which node it sits on, which
// node it came from and the query point expressed in the current cell's
// frame. It holds no references into the store, only indices, and is
// cheap to copy.
type Cursor struct {
	Parent uint32
	Index  uint32

	Span  float32
	Depth int

	// MaskInParent[d] is the octant chosen when stepping to depth d.
	// Slot 0 is unused because the root has no parent.
	MaskInParent [MaxRecursion]IVec3

	Ray  Ray
	Dist float32

	// LocalOrigin is the query point relative to the current cell's lower
	// corner; OriginOnEdge is that corner in world space.
	LocalOrigin  Vec4
	OriginOnEdge Vec4
}

// NewCursor returns a cursor on the root cell seeded for point.
func NewCursor(point Vec4) Cursor {
	local := Mod(point, RootSpan)
	return Cursor{
		Parent:       RootIndex,
		Index:        RootIndex,
		Span:         RootSpan,
		LocalOrigin:  local,
		OriginOnEdge: point.Sub(local),
	}
}

// NodeType returns the type of the node under the cursor.
func (c *Cursor) NodeType(s *Store) NodeType {
	return s.Ref(c.Index).Type
}

// UpdateColor adds color, weighted by the inverse of the current span, to
// the node under the cursor.
func (c *Cursor) UpdateColor(s *Store, color Vec4) {
	n := s.Ref(c.Index)
	n.BaseColor = n.BaseColor.Add(color.Div(c.Span))
}

// TryChildCreation subdivides the node under the cursor if it is Empty.
func (c *Cursor) TryChildCreation(s *Store) bool {
	return s.Subdivide(c.Index)
}

// MoveIntoChild steps one level down into the octant containing the
// query point and re-expresses the point in that octant's frame. The node
// under the cursor must be Subdivided.
func (c *Cursor) MoveIntoChild(s *Store) {
	if c.Depth+1 >= MaxRecursion {
		invariant("Cursor.MoveIntoChild", int64(c.Depth+1), "depth exceeds MaxRecursion %d", MaxRecursion)
	}
	n := s.Ref(c.Index)
	if n.Type != Subdivided {
		invariant("Cursor.MoveIntoChild", int64(c.Index), "node is %s, not Subdivided", n.Type)
	}

	mask := ChildMask(c.Span, c.LocalOrigin)
	c.Span *= 0.5
	c.Depth++

	offset := mask.Vec4().Mul(c.Span)
	c.OriginOnEdge = c.OriginOnEdge.Add(offset)
	c.LocalOrigin = c.LocalOrigin.Sub(offset)

	c.MaskInParent[c.Depth] = mask
	child := n.Child(ChildSlot(mask))
	if child == NoNode {
		invariant("Cursor.MoveIntoChild", int64(c.Index), "child slot %d unassigned", ChildSlot(mask))
	}
	c.Parent = c.Index
	c.Index = child
}

// Center returns the world-space center of the current cell.
func (c *Cursor) Center() Vec4 {
	return Center(c.OriginOnEdge, c.Span)
}

// TopCorner returns the world-space upper corner of the current cell.
func (c *Cursor) TopCorner() Vec4 {
	return TopCorner(c.OriginOnEdge, c.Span)
}

// Path returns the child slots taken from the root to the current cell.
func (c *Cursor) Path() []int {
	path := make([]int, 0, c.Depth)
	for d := 1; d <= c.Depth; d++ {
		path = append(path, ChildSlot(c.MaskInParent[d]))
	}
	return path
}
