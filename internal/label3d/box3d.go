package label3d

import (
	"github.com/philipparndt/golabel/internal/gizmo"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Cube3D is a unit cube scaled to the box size. The anchor index names the
// corner used as reference and cycles through the eight corners.
type Cube3D struct {
	node        *Node
	anchorIndex int
	surfaceID   int
}

// NewCube3D creates a unit cube at the origin
func NewCube3D() *Cube3D {
	return &Cube3D{node: NewNode(), surfaceID: -1}
}

func (c *Cube3D) Node() *Node      { return c.node }
func (c *Cube3D) AnchorIndex() int { return c.anchorIndex }
func (c *Cube3D) SurfaceID() int   { return c.surfaceID }

// SetCube places the node from a stored cube. The transform is relative to
// the surface plane when the cube sits on one.
func (c *Cube3D) SetCube(cube state.Cube) {
	t := eulerTransform(cube.Center, cube.Orientation)
	t.Scale = cube.Size
	c.node.SetTransform(t)
	c.anchorIndex = cube.AnchorIndex
	c.surfaceID = cube.SurfaceID
}

// Cube converts the node back into a stored cube relative to surface
func (c *Cube3D) Cube(surface *Node) state.Cube {
	t := relativeTo(c.node, surface)
	return state.Cube{
		Center:      t.Position,
		Size:        t.Scale,
		Orientation: t.Rotation.ToEuler(),
		AnchorIndex: c.anchorIndex,
		SurfaceID:   c.surfaceID,
	}
}

// IncrementAnchorIndex moves the anchor to the next corner
func (c *Cube3D) IncrementAnchorIndex() {
	c.anchorIndex = (c.anchorIndex + 1) % 8
}

// Raycast intersects the oriented box
func (c *Cube3D) Raycast(ray geometry.Ray) (float64, bool) {
	h := geometry.NewVector3(0.5, 0.5, 0.5)
	return ray.ToLocal(c.node.WorldTransform()).IntersectBox(h.Negate(), h)
}

// Corners returns the eight corners in world space
func (c *Cube3D) Corners() [8]geometry.Vector3 {
	h := geometry.NewVector3(0.5, 0.5, 0.5)
	corners := geometry.BoundingBox{Min: h.Negate(), Max: h}.Corners()
	world := c.node.WorldTransform()
	for i := range corners {
		corners[i] = world.Apply(corners[i])
	}
	return corners
}

// Segments returns the twelve edges in world space
func (c *Cube3D) Segments() []gizmo.Segment {
	p := c.Corners()
	pairs := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	out := make([]gizmo.Segment, len(pairs))
	for i, pr := range pairs {
		out[i] = gizmo.Segment{A: p[pr[0]], B: p[pr[1]]}
	}
	return out
}

// Box3D is a cuboid label
type Box3D struct {
	base
	cube    *Cube3D
	surface *Node
}

// NewBox3D creates an empty box label
func NewBox3D() *Box3D {
	return &Box3D{cube: NewCube3D()}
}

func (b *Box3D) Kind() string              { return state.LabelBox3D }
func (b *Box3D) Node() *Node               { return b.cube.node }
func (b *Box3D) Cube() *Cube3D             { return b.cube }
func (b *Box3D) Segments() []gizmo.Segment { return b.cube.Segments() }

func (b *Box3D) Raycast(ray geometry.Ray) (float64, bool) { return b.cube.Raycast(ray) }

func (b *Box3D) UpdateState(st state.State, itemIndex, labelID int) {
	sh, ok := b.load(st, itemIndex, labelID)
	if !ok || sh.Cube == nil {
		return
	}
	b.cube.SetCube(*sh.Cube)
}

// setSurface records the plane the stored transform is relative to
func (b *Box3D) setSurface(n *Node) { b.surface = n }

func (b *Box3D) ShapePatches() ([]int, []state.ShapePatch) {
	cube := b.cube.Cube(b.surface)
	return append([]int(nil), b.shapeIDs...), []state.ShapePatch{{Cube: &cube}}
}
