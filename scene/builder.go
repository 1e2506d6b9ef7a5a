package scene

import "github.com/gogpu/svo"

// Builder assembles a Description with a fluent API.
//
// Example:
//
//	d := scene.NewBuilder("shelf").
//	    Box("floor", [3]float32{0, 0, 0}, [3]int{10, 1, 10}, "#808080").
//	    Light([3]float32{5, 8, 5}, "#ffffff").
//	    Build()
type Builder struct {
	desc Description
}

// NewBuilder returns a builder for an empty scene called name.
func NewBuilder(name string) *Builder {
	return &Builder{desc: Description{Name: name}}
}

// Box adds a full box.
func (b *Builder) Box(name string, minCorner [3]float32, size [3]int, color string) *Builder {
	b.desc.Boxes = append(b.desc.Boxes, Box{Name: name, Min: minCorner, Size: size, Color: color, Type: TypeFull})
	return b
}

// LightBox adds a box whose voxels are all lights.
func (b *Builder) LightBox(name string, minCorner [3]float32, size [3]int, color string) *Builder {
	b.desc.Boxes = append(b.desc.Boxes, Box{Name: name, Min: minCorner, Size: size, Color: color, Type: TypeLight})
	return b
}

// Light adds a single light voxel.
func (b *Builder) Light(pos [3]float32, color string) *Builder {
	b.desc.Lights = append(b.desc.Lights, Light{Pos: pos, Color: color})
	return b
}

// Build returns the assembled description. The builder may be reused;
// later calls do not affect descriptions already returned.
func (b *Builder) Build() Description {
	d := b.desc
	d.Boxes = append([]Box(nil), b.desc.Boxes...)
	d.Lights = append([]Light(nil), b.desc.Lights...)
	return d
}

// RoomDescription returns the demo room: a 100-unit open box with a
// green wall on the low x side, a red wall on the high x side, a blue
// cube on the floor and a yellow light near the ceiling.
func RoomDescription() Description {
	return NewBuilder("room").
		Box("ground", [3]float32{100, 100, 100}, [3]int{100, 1, 100}, "#ffffff").
		Box("green wall", [3]float32{100, 100, 100}, [3]int{1, 100, 100}, "#00ff00").
		Box("red wall", [3]float32{200, 100, 100}, [3]int{1, 100, 100}, "#ff0000").
		Box("back wall", [3]float32{100, 100, 200}, [3]int{100, 100, 1}, "#ffffff").
		Box("ceiling", [3]float32{100, 200, 100}, [3]int{100, 1, 100}, "#ffffff").
		Box("box", [3]float32{140, 100, 140}, [3]int{20, 20, 20}, "#0000ff").
		Light([3]float32{150, 180, 150}, "#ffff00").
		Build()
}

// Room inserts the demo room into tree and returns the number of
// insertions.
func Room(tree *svo.Octree) int {
	d := RoomDescription()
	n, err := d.Apply(tree)
	if err != nil {
		panic(err)
	}
	return n
}
