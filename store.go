package svo

// Store is the append-only node arena backing an octree. A node's position
// in the store is its permanent identity; nodes refer to each other by
// index only, so growth may move the backing array freely.
type Store struct {
	nodes []Node
}

// NewStore returns a store holding only an Empty root.
func NewStore() *Store {
	s := &Store{nodes: make([]Node, 0, 1+ChildCount)}
	s.nodes = append(s.nodes, newNode(Empty, RootIndex))
	return s
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	return len(s.nodes)
}

// At returns a copy of node i.
func (s *Store) At(i uint32) Node {
	return *s.Ref(i)
}

// Ref returns a pointer to node i. The pointer is invalidated by the next
// append.
func (s *Store) Ref(i uint32) *Node {
	if uint64(i) >= uint64(len(s.nodes)) {
		invariant("Store.Ref", int64(i), "past end of store (len %d)", len(s.nodes))
	}
	return &s.nodes[i]
}

// Append adds n and returns its index.
func (s *Store) Append(n Node) uint32 {
	s.nodes = append(s.nodes, n)
	return uint32(len(s.nodes) - 1) //nolint:gosec // store never exceeds uint32 range
}

// Subdivide turns an Empty node into a Subdivided one with eight fresh
// Empty children. Any other node is left alone. It reports whether the
// store grew; growth is always exactly ChildCount nodes.
func (s *Store) Subdivide(i uint32) bool {
	if s.Ref(i).Type != Empty {
		return false
	}
	first := uint32(len(s.nodes)) //nolint:gosec // store never exceeds uint32 range
	for range ChildCount {
		s.nodes = append(s.nodes, newNode(Empty, i))
	}
	// Children are recorded only after all eight exist.
	n := &s.nodes[i]
	for slot := range n.Children {
		n.Children[slot] = first + uint32(slot) //nolint:gosec // slot < 8
	}
	n.Type = Subdivided
	return true
}

// Nodes returns the backing slice. Callers must not modify it.
func (s *Store) Nodes() []Node {
	return s.nodes
}

// Bytes encodes every node in store order, NodeSize bytes each.
func (s *Store) Bytes() []byte {
	buf := make([]byte, len(s.nodes)*NodeSize)
	for i := range s.nodes {
		s.nodes[i].Put(buf[i*NodeSize:])
	}
	return buf
}
