package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/svo"
)

func TestLoadRoomFixture(t *testing.T) {
	d, err := Load(filepath.Join("testdata", "room.yaml"))
	require.NoError(t, err)
	assert.Equal(t, RoomDescription(), d)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		boxes   int
		lights  int
	}{
		{
			name: "minimal",
			yaml: `
boxes:
  - min: [0, 0, 0]
    size: [2, 2, 2]
    color: "f00"
`,
			boxes: 1,
		},
		{
			name: "light box and light",
			yaml: `
boxes:
  - min: [0, 0, 0]
    size: [1, 1, 1]
    color: "#ffff00"
    type: light
lights:
  - pos: [5, 5, 5]
    color: "#fff"
`,
			boxes:  1,
			lights: 1,
		},
		{
			name: "unknown type",
			yaml: `
boxes:
  - min: [0, 0, 0]
    size: [1, 1, 1]
    color: "#fff"
    type: glass
`,
			wantErr: ErrUnknownType,
		},
		{
			name: "bad box color",
			yaml: `
boxes:
  - min: [0, 0, 0]
    size: [1, 1, 1]
    color: "purple"
`,
			wantErr: svo.ErrInvalidHex,
		},
		{
			name: "bad light color",
			yaml: `
lights:
  - pos: [0, 0, 0]
    color: "#12"
`,
			wantErr: svo.ErrInvalidHex,
		},
		{
			name: "zero extent",
			yaml: `
boxes:
  - min: [0, 0, 0]
    size: [4, 0, 4]
    color: "#fff"
`,
			wantErr: ErrEmptyBox,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse([]byte(tt.yaml))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, d.Boxes, tt.boxes)
			assert.Len(t, d.Lights, tt.lights)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("boxes: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing scene")
}

func TestApply(t *testing.T) {
	d := NewBuilder("test").
		Box("slab", [3]float32{0, 0, 0}, [3]int{4, 1, 2}, "#00ff00").
		LightBox("lamp", [3]float32{10, 10, 10}, [3]int{1, 1, 1}, "#ffff00").
		Light([3]float32{20, 20, 20}, "#ffffff").
		Build()

	tree := svo.New()
	n, err := d.Apply(tree)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, d.Voxels(), n)

	c := tree.NodeAtPos(svo.V4(3, 0, 1, 0))
	leaf := tree.Node(c.Index)
	assert.Equal(t, svo.Full, leaf.Type)
	assert.Equal(t, svo.Green, leaf.BaseColor)

	st := tree.Stats()
	assert.Equal(t, 2, st.Lights)
	assert.Equal(t, 2, st.Light)
}

func TestApplyInvalidLeavesTreeUntouched(t *testing.T) {
	d := Description{Boxes: []Box{{Size: [3]int{1, 1, 1}, Color: "nope"}}}
	tree := svo.New()
	_, err := d.Apply(tree)
	require.ErrorIs(t, err, svo.ErrInvalidHex)
	assert.Equal(t, 1, tree.Len())
}

func TestBuilderBuildIsIndependent(t *testing.T) {
	b := NewBuilder("x").Box("a", [3]float32{}, [3]int{1, 1, 1}, "#fff")
	first := b.Build()
	b.Box("b", [3]float32{}, [3]int{1, 1, 1}, "#000")
	second := b.Build()

	assert.Len(t, first.Boxes, 1)
	assert.Len(t, second.Boxes, 2)
	assert.Equal(t, "x", second.Name)
}

func TestRoom(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping room build in short mode")
	}

	tree := svo.New()
	n := Room(tree)
	assert.Equal(t, 5*100*100+20*20*20+1, n)

	tests := []struct {
		name  string
		point svo.Vec4
		typ   svo.NodeType
		color svo.Vec4
	}{
		{"ground", svo.V4(110, 100, 110, 0), svo.Full, svo.White},
		{"blue box", svo.V4(150, 110, 150, 0), svo.Full, svo.Blue},
		{"red wall", svo.V4(200, 150, 150, 0), svo.Full, svo.Red},
		{"light", svo.V4(150, 180, 150, 0), svo.Light, svo.Yellow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tree.NodeAtPos(tt.point)
			require.Equal(t, svo.LeafDepth, c.Depth)
			leaf := tree.Node(c.Index)
			assert.Equal(t, tt.typ, leaf.Type)
			assert.Equal(t, tt.color, leaf.BaseColor)
		})
	}

	air := tree.NodeAtPos(svo.V4(150, 150, 150, 0))
	assert.Equal(t, svo.Empty, tree.Node(air.Index).Type)
	assert.Len(t, tree.Lights(), 1)
}
