// Package preview renders axis-aligned cross sections of an octree to
// images. It queries the tree point by point with NodeAtPos and involves
// no GPU. Queries only read the tree, so rows are sampled in parallel.
package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"
	"sync/atomic"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/svo"
)

// ErrBadAxis is returned by ParseAxis for anything but x, y or z.
var ErrBadAxis = errors.New("preview: axis must be x, y or z")

// Axis is the normal of a slice plane.
type Axis int

// Slice plane normals.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// ParseAxis converts "x", "y" or "z" to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "x", "X":
		return AxisX, nil
	case "y", "Y":
		return AxisY, nil
	case "z", "Z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadAxis, s)
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// point maps plane coordinates (u, v) at the given level to world space.
// For AxisY u is x and v is z; otherwise v is y and u is the remaining
// horizontal axis.
func (a Axis) point(level, u, v float32) svo.Vec4 {
	switch a {
	case AxisX:
		return svo.V4(level, v, u, 0)
	case AxisY:
		return svo.V4(u, level, v, 0)
	default:
		return svo.V4(u, v, level, 0)
	}
}

// Slice samples a size×size grid of unit cells on the plane perpendicular
// to axis at level, starting at min in plane coordinates. Each pixel takes
// the color of the node containing the cell center; Empty nodes stay
// transparent. Row 0 is the highest v so that y points up in x and z
// slices.
func Slice(tree *svo.Octree, axis Axis, level float32, minCorner [2]float32, size int) *image.NRGBA {
	img, _ := SliceContext(context.Background(), tree, axis, level, minCorner, size)
	return img
}

// SliceContext is like Slice but samples rows concurrently and stops early
// when ctx is canceled. tree must not be modified while it runs.
func SliceContext(ctx context.Context, tree *svo.Octree, axis Axis, level float32, minCorner [2]float32, size int) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	var filled atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for row := range size {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v := minCorner[1] + float32(size-1-row) + 0.5
			for col := range size {
				u := minCorner[0] + float32(col) + 0.5
				c := tree.NodeAtPos(axis.point(level, u, v))
				n := tree.Node(c.Index)
				if n.Type == svo.Empty {
					continue
				}
				img.SetNRGBA(col, row, svo.Opaque(n.BaseColor))
				filled.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return img, fmt.Errorf("preview: slice: %w", err)
	}

	svo.Logger().Debug("preview: slice sampled", "axis", axis, "level", level, "size", size, "filled", filled.Load())
	return img, nil
}

// Scale enlarges img by factor with nearest-neighbour sampling so voxel
// edges stay sharp.
func Scale(img image.Image, factor int) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("preview: encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
