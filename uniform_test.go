package svo

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestUniformBytes(t *testing.T) {
	u := NewUniform(1.25, 512)
	u.HeadRot = [2]uint32{7, 9}
	u.PlayerPos = [3]uint32{100, 200, 300}

	buf := u.Bytes()
	if len(buf) != UniformSize {
		t.Fatalf("len(Bytes()) = %d, want %d", len(buf), UniformSize)
	}

	le := binary.LittleEndian
	if got := math.Float32frombits(le.Uint32(buf[0:])); got != 1.25 {
		t.Errorf("field_of_view = %v, want 1.25", got)
	}
	tests := []struct {
		name string
		off  int
		want uint32
	}{
		{"max_ray_length", 4, 512},
		{"head_rot.x", 8, 7},
		{"head_rot.y", 12, 9},
		{"player_pos.x", 16, 100},
		{"player_pos.y", 20, 200},
		{"player_pos.z", 24, 300},
		{"padding", 28, 0},
	}
	for _, tt := range tests {
		if got := le.Uint32(buf[tt.off:]); got != tt.want {
			t.Errorf("%s at %d = %d, want %d", tt.name, tt.off, got, tt.want)
		}
	}
}

func TestNewUniformZeroCamera(t *testing.T) {
	u := NewUniform(0.9, 100)
	if u.HeadRot != [2]uint32{} || u.PlayerPos != [3]uint32{} {
		t.Errorf("NewUniform camera = %v %v, want zero", u.HeadRot, u.PlayerPos)
	}
}
