// Package svo provides a sparse voxel octree for GPU voxel rendering.
//
// # Overview
//
// An [Octree] covers a cube of edge [RootSpan] anchored at the origin.
// Colored samples are inserted at arbitrary points with
// [Octree.InsertNode]; every insertion subdivides its path down to
// [LeafDepth] and overwrites the leaf. [Octree.NodeAtPos] recovers the
// deepest node containing a point without modifying the tree.
//
//	tree := svo.New()
//	tree.InsertNode(svo.V4(100, 100, 100, 0), svo.White, svo.Full)
//	c := tree.NodeAtPos(svo.V4(100, 100, 100, 0))
//	fmt.Println(tree.Node(c.Index).Type) // Full
//
// # Storage
//
// Nodes live in an append-only [Store] and refer to each other by index.
// Index 0 is the root. Unassigned child slots hold [NoNode]. Subdivision
// appends exactly eight children at once, so the tree is structurally
// valid between any two calls.
//
// # Colors
//
// The leaf of an insertion receives the inserted color verbatim. Every
// node the insertion passes through on the way down receives the color
// divided by that node's span, which gives coarse levels a preview color
// before their subtrees are known. The sum is not normalized and grows
// with every insertion through the node.
//
// # GPU layout
//
// [Octree.Bytes] encodes the node array for a storage buffer, [NodeSize]
// bytes per node. [Uniform.Bytes] encodes the camera block. The gpu
// sub-package uploads both.
//
// # Errors
//
// Broken invariants (child slots outside [0,8), descending through a node
// that was never subdivided, indices past the end of the store) panic with
// an [*InvariantError]. They indicate a bug, not bad input.
package svo
