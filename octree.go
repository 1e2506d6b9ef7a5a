package svo

// Octree is a sparse voxel octree over a cube of edge RootSpan. Nodes live
// in a Store; insertions flagged as lights are also kept in a light list.
//
// An Octree is not safe for concurrent mutation. Queries (NodeAtPos,
// Node, Len) only read the store and may run concurrently with each other.
type Octree struct {
	store  *Store
	lights []Cursor

	// gen counts insertions; it changes whenever any node may have.
	gen uint64
}

// New returns a tree holding only an Empty root.
func New() *Octree {
	Logger().Info("creating octree", "root_span", RootSpan, "leaf_span", LeafSpan)
	return &Octree{store: NewStore()}
}

// Default is an alias of New.
func Default() *Octree {
	return New()
}

// NodeAtPos returns the cursor on the deepest node containing point,
// stopping at the first node that is not Subdivided. The tree is not
// modified.
func (t *Octree) NodeAtPos(point Vec4) Cursor {
	c := NewCursor(point)
	for range MaxRecursion - 1 {
		if c.NodeType(t.store) != Subdivided {
			break
		}
		c.MoveIntoChild(t.store)
	}
	return c
}

// InsertNode descends to LeafDepth along point's path, subdividing every
// Empty node on the way, and overwrites the leaf with color and typ. Every
// node the path leaves receives color divided by that node's span. The
// returned cursor sits on the leaf.
func (t *Octree) InsertNode(point, color Vec4, typ NodeType) Cursor {
	c := NewCursor(point)
	for range MaxRecursion - 1 {
		c.TryChildCreation(t.store)
		c.UpdateColor(t.store, color)
		c.MoveIntoChild(t.store)
	}
	t.store.Ref(c.Index).SetFull(color, typ)
	t.gen++
	return c
}

// Generation returns a counter that advances on every insertion. Two equal
// values mean the node array has not changed in between.
func (t *Octree) Generation() uint64 {
	return t.gen
}

// InsertLight inserts a Light leaf and records its cursor in the light
// list.
func (t *Octree) InsertLight(point, color Vec4) Cursor {
	c := t.InsertNode(point, color, Light)
	t.lights = append(t.lights, c)
	Logger().Debug("light inserted", "index", c.Index, "pos", c.OriginOnEdge)
	return c
}

// Node returns a copy of node i.
func (t *Octree) Node(i uint32) Node {
	return t.store.At(i)
}

// Len returns the number of nodes in the store.
func (t *Octree) Len() int {
	return t.store.Len()
}

// Nodes returns the node array in store order. Callers must not modify
// it.
func (t *Octree) Nodes() []Node {
	return t.store.Nodes()
}

// Lights returns the cursors recorded by InsertLight, oldest first.
func (t *Octree) Lights() []Cursor {
	return t.lights
}

// Bytes returns the GPU node buffer: every node encoded in store order.
func (t *Octree) Bytes() []byte {
	return t.store.Bytes()
}

// Stats counts nodes by type.
type Stats struct {
	Nodes      int
	Empty      int
	Subdivided int
	Full       int
	Light      int
	Lights     int
}

// Stats walks the store and counts nodes per type.
func (t *Octree) Stats() Stats {
	st := Stats{Nodes: t.store.Len(), Lights: len(t.lights)}
	for i := range t.store.nodes {
		switch t.store.nodes[i].Type {
		case Empty:
			st.Empty++
		case Subdivided:
			st.Subdivided++
		case Full:
			st.Full++
		case Light:
			st.Light++
		}
	}
	return st
}
