package svo

// Session is the per-run state shared between scene authoring and the
// renderer: the tree, the camera uniform and how much of the tree the
// renderer has already received. It is passed explicitly to every
// per-frame call.
type Session struct {
	tree    *Octree
	uniform Uniform

	synced    bool
	syncedGen uint64
	frame     uint64
}

// NewSession wraps tree and the initial camera parameters. A nil tree is
// replaced by an empty one.
func NewSession(tree *Octree, u Uniform) *Session {
	if tree == nil {
		tree = New()
	}
	return &Session{tree: tree, uniform: u}
}

// Tree returns the session's octree.
func (s *Session) Tree() *Octree {
	return s.tree
}

// Uniform returns the current camera parameters.
func (s *Session) Uniform() Uniform {
	return s.uniform
}

// SetCamera updates the player position and head rotation for the next
// frame.
func (s *Session) SetCamera(pos [3]uint32, rot [2]uint32) {
	s.uniform.PlayerPos = pos
	s.uniform.HeadRot = rot
}

// Dirty reports whether the tree was modified since the last MarkSynced.
// Re-inserting a point appends nothing but still recolors its path, so
// this compares insertion generations rather than node counts.
func (s *Session) Dirty() bool {
	return !s.synced || s.tree.Generation() != s.syncedGen
}

// MarkSynced records that the renderer holds the current node array.
func (s *Session) MarkSynced() {
	s.syncedGen = s.tree.Generation()
	s.synced = true
}

// NextFrame advances and returns the frame counter.
func (s *Session) NextFrame() uint64 {
	s.frame++
	return s.frame
}
