package svo

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// MaxRecursion is the number of levels in the tree, root included.
	MaxRecursion = 17

	// RootSpan is the world-space edge length of the root cell.
	RootSpan float32 = 1 << MaxRecursion

	// LeafDepth is the depth reached by every insertion.
	LeafDepth = MaxRecursion - 1

	// LeafSpan is the edge length of a cell at LeafDepth.
	LeafSpan float32 = RootSpan / (1 << LeafDepth)

	// ChildCount is the number of octants a cell splits into.
	ChildCount = 8
)

// RootIndex is the store position of the root node.
const RootIndex uint32 = 0

// NoNode marks a child slot that has not been assigned.
const NoNode uint32 = math.MaxUint32

// NodeSize is the encoded size of a node in bytes:
// u32 type, u32 parent, [8]u32 children, [4]f32 color.
const NodeSize = 4 + 4 + ChildCount*4 + 4*4

// NodeType is the state of a node.
type NodeType uint32

// Node types. The numeric values are shared with the GPU.
const (
	Empty NodeType = iota
	Subdivided
	Full
	Light
)

// String returns the node type name.
func (t NodeType) String() string {
	switch t {
	case Empty:
		return "Empty"
	case Subdivided:
		return "Subdivided"
	case Full:
		return "Full"
	case Light:
		return "Light"
	default:
		return fmt.Sprintf("NodeType(%d)", uint32(t))
	}
}

// Terminal reports whether descent stops at a node of this type.
func (t NodeType) Terminal() bool {
	return t != Subdivided
}

// Node is one cell of the octree. Children are meaningful only when Type
// is Subdivided. BaseColor is the exact color for leaves and a running
// span-weighted sum for ancestors.
type Node struct {
	Type      NodeType
	Parent    uint32
	Children  [ChildCount]uint32
	BaseColor Vec4
}

func newNode(t NodeType, parent uint32) Node {
	return Node{
		Type:     t,
		Parent:   parent,
		Children: [ChildCount]uint32{NoNode, NoNode, NoNode, NoNode, NoNode, NoNode, NoNode, NoNode},
	}
}

// SetFull overwrites the node's type and color.
func (n *Node) SetFull(color Vec4, t NodeType) {
	n.Type = t
	n.BaseColor = color
}

// Child returns the child index stored in slot.
func (n *Node) Child(slot int) uint32 {
	if slot < 0 || slot >= ChildCount {
		invariant("Node.Child", int64(slot), "child slot out of range [0,8)")
	}
	if n.Type != Subdivided {
		invariant("Node.Child", int64(slot), "read child of %s node", n.Type)
	}
	return n.Children[slot]
}

// Put encodes the node into b, which must hold at least NodeSize bytes.
func (n *Node) Put(b []byte) {
	_ = b[NodeSize-1]
	binary.LittleEndian.PutUint32(b[0:4], uint32(n.Type))
	binary.LittleEndian.PutUint32(b[4:8], n.Parent)
	for i, c := range n.Children {
		binary.LittleEndian.PutUint32(b[8+i*4:], c)
	}
	const colorOff = 8 + ChildCount*4
	binary.LittleEndian.PutUint32(b[colorOff:], math.Float32bits(n.BaseColor.X))
	binary.LittleEndian.PutUint32(b[colorOff+4:], math.Float32bits(n.BaseColor.Y))
	binary.LittleEndian.PutUint32(b[colorOff+8:], math.Float32bits(n.BaseColor.Z))
	binary.LittleEndian.PutUint32(b[colorOff+12:], math.Float32bits(n.BaseColor.W))
}

// Center returns the center of a cell with lower corner pos.
func Center(pos Vec4, span float32) Vec4 {
	return pos.Add(Splat4(span * 0.5))
}

// TopCorner returns the upper corner of a cell with lower corner pos.
func TopCorner(pos Vec4, span float32) Vec4 {
	return pos.Add(Splat4(span))
}
