package svo

import "testing"

func TestSessionDirty(t *testing.T) {
	s := NewSession(nil, NewUniform(1, 64))
	if s.Tree() == nil {
		t.Fatal("NewSession(nil) left the tree nil")
	}
	if !s.Dirty() {
		t.Error("fresh session should be dirty until the first sync")
	}

	s.MarkSynced()
	if s.Dirty() {
		t.Error("session dirty right after MarkSynced")
	}

	s.Tree().InsertNode(V4(3, 3, 3, 0), White, Full)
	if !s.Dirty() {
		t.Error("insertion did not mark the session dirty")
	}
	s.MarkSynced()

	// Re-inserting along an existing path appends nothing but recolors it.
	n := s.Tree().Len()
	s.Tree().InsertNode(V4(3, 3, 3, 0), Red, Light)
	if s.Tree().Len() != n {
		t.Fatalf("re-insertion appended nodes: %d -> %d", n, s.Tree().Len())
	}
	if !s.Dirty() {
		t.Error("re-insertion with a new color did not mark the session dirty")
	}
	s.MarkSynced()
	if s.Dirty() {
		t.Error("session dirty after syncing the recolor")
	}
}

func TestOctreeGeneration(t *testing.T) {
	tree := New()
	if tree.Generation() != 0 {
		t.Fatalf("fresh tree generation = %d", tree.Generation())
	}
	tree.InsertNode(V4(1, 1, 1, 0), White, Full)
	tree.InsertLight(V4(1, 1, 1, 0), Yellow)
	if got := tree.Generation(); got != 2 {
		t.Errorf("generation after two insertions = %d, want 2", got)
	}
	tree.NodeAtPos(V4(1, 1, 1, 0))
	if got := tree.Generation(); got != 2 {
		t.Errorf("query changed generation to %d", got)
	}
}

func TestSessionCamera(t *testing.T) {
	s := NewSession(New(), NewUniform(0.5, 32))
	s.SetCamera([3]uint32{1, 2, 3}, [2]uint32{4, 5})

	u := s.Uniform()
	if u.PlayerPos != [3]uint32{1, 2, 3} || u.HeadRot != [2]uint32{4, 5} {
		t.Errorf("camera = %v %v", u.PlayerPos, u.HeadRot)
	}
	if u.FieldOfView != 0.5 || u.MaxRayLength != 32 {
		t.Errorf("SetCamera changed lens parameters: %+v", u)
	}
}

func TestSessionNextFrame(t *testing.T) {
	s := NewSession(nil, Uniform{})
	for want := uint64(1); want <= 3; want++ {
		if got := s.NextFrame(); got != want {
			t.Errorf("NextFrame() = %d, want %d", got, want)
		}
	}
}
