// Package scene describes voxel scenes and inserts them into an octree.
//
// A [Description] is a list of axis-aligned boxes and point lights. It can
// be written by hand in YAML and read with [Load] or [Parse], or assembled
// in code with a [Builder]. [Description.Apply] inserts every voxel.
//
//	boxes:
//	  - name: ground
//	    min: [100, 100, 100]
//	    size: [100, 1, 100]
//	    color: "#ffffff"
//	lights:
//	  - pos: [150, 180, 150]
//	    color: "#ffff00"
package scene

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/svo"
)

// Box types accepted in descriptions.
const (
	TypeFull  = "full"
	TypeLight = "light"
)

var (
	// ErrUnknownType is returned for a box type other than full or light.
	ErrUnknownType = errors.New("scene: unknown box type")

	// ErrEmptyBox is returned for a box with a non-positive size.
	ErrEmptyBox = errors.New("scene: box has empty extent")
)

// Box fills every unit cell from Min up to Min+Size (exclusive) with one
// color. Type defaults to full.
type Box struct {
	Name  string     `yaml:"name,omitempty"`
	Min   [3]float32 `yaml:"min"`
	Size  [3]int     `yaml:"size"`
	Color string     `yaml:"color"`
	Type  string     `yaml:"type,omitempty"`
}

// Voxels returns the number of unit cells the box covers.
func (b Box) Voxels() int {
	return b.Size[0] * b.Size[1] * b.Size[2]
}

// Light is a single light voxel.
type Light struct {
	Pos   [3]float32 `yaml:"pos"`
	Color string     `yaml:"color"`
}

// Description is a complete scene.
type Description struct {
	Name   string  `yaml:"name,omitempty"`
	Boxes  []Box   `yaml:"boxes"`
	Lights []Light `yaml:"lights"`
}

// Load reads a YAML scene description from path.
func Load(path string) (Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Description{}, fmt.Errorf("scene: reading %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return Description{}, fmt.Errorf("scene: %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates a YAML scene description.
func Parse(data []byte) (Description, error) {
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Description{}, fmt.Errorf("parsing scene: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Description{}, err
	}
	return d, nil
}

// Validate checks every color, type and extent without touching a tree.
func (d *Description) Validate() error {
	for i, b := range d.Boxes {
		if _, err := svo.ParseHex(b.Color); err != nil {
			return fmt.Errorf("box %d (%s): %w", i, b.Name, err)
		}
		if _, err := boxType(b.Type); err != nil {
			return fmt.Errorf("box %d (%s): %w", i, b.Name, err)
		}
		if b.Size[0] <= 0 || b.Size[1] <= 0 || b.Size[2] <= 0 {
			return fmt.Errorf("box %d (%s): %w: %v", i, b.Name, ErrEmptyBox, b.Size)
		}
	}
	for i, l := range d.Lights {
		if _, err := svo.ParseHex(l.Color); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	return nil
}

// Voxels returns the number of insertions Apply performs.
func (d *Description) Voxels() int {
	n := len(d.Lights)
	for _, b := range d.Boxes {
		n += b.Voxels()
	}
	return n
}

// Apply inserts every box voxel and light into tree and returns the number
// of insertions. The description is validated first, so a failing Apply
// leaves tree untouched.
func (d *Description) Apply(tree *svo.Octree) (int, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}

	n := 0
	for _, b := range d.Boxes {
		color, _ := svo.ParseHex(b.Color)
		typ, _ := boxType(b.Type)
		for x := range b.Size[0] {
			for z := range b.Size[2] {
				for y := range b.Size[1] {
					p := svo.V4(b.Min[0]+float32(x), b.Min[1]+float32(y), b.Min[2]+float32(z), 0)
					if typ == svo.Light {
						tree.InsertLight(p, color)
					} else {
						tree.InsertNode(p, color, typ)
					}
					n++
				}
			}
		}
		svo.Logger().Debug("scene: box inserted", "name", b.Name, "voxels", b.Voxels())
	}
	for _, l := range d.Lights {
		color, _ := svo.ParseHex(l.Color)
		tree.InsertLight(svo.V4(l.Pos[0], l.Pos[1], l.Pos[2], 0), color)
		n++
	}

	svo.Logger().Info("scene applied", "scene", d.Name, "voxels", n, "nodes", tree.Len())
	return n, nil
}

func boxType(s string) (svo.NodeType, error) {
	switch s {
	case "", TypeFull:
		return svo.Full, nil
	case TypeLight:
		return svo.Light, nil
	default:
		return svo.Empty, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}
