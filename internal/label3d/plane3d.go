package label3d

import (
	"github.com/philipparndt/golabel/internal/gizmo"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Grid size and line count of a ground plane, in its local XY plane
const (
	GridSize      = 6.0
	GridDivisions = 6
)

// Grid3D is a square grid lying in the local XY plane
type Grid3D struct {
	node *Node
}

// NewGrid3D creates a grid at the origin
func NewGrid3D() *Grid3D {
	return &Grid3D{node: NewNode()}
}

func (g *Grid3D) Node() *Node { return g.node }

// SetPlane places the grid from a stored plane
func (g *Grid3D) SetPlane(p state.Plane) {
	g.node.SetTransform(eulerTransform(p.Offset, p.Orientation))
}

// Plane converts the node back into a stored plane
func (g *Grid3D) Plane() state.Plane {
	t := g.node.WorldTransform()
	return state.Plane{Offset: t.Position, Orientation: t.Rotation.ToEuler()}
}

// Raycast intersects the grid square
func (g *Grid3D) Raycast(ray geometry.Ray) (float64, bool) {
	world := g.node.WorldTransform()
	normal := geometry.NewVector3(0, 0, 1).ApplyQuaternion(world.Rotation)
	hit, ok := ray.IntersectPlane(geometry.PlaneFromNormalAndPoint(normal, world.Position))
	if !ok {
		return 0, false
	}
	local := world.ApplyInverse(hit)
	half := GridSize / 2
	if local.X < -half || local.X > half || local.Y < -half || local.Y > half {
		return 0, false
	}
	return hit.Distance(ray.Origin), true
}

// Segments returns the grid lines in world space
func (g *Grid3D) Segments() []gizmo.Segment {
	world := g.node.WorldTransform()
	half := GridSize / 2
	step := GridSize / GridDivisions
	out := make([]gizmo.Segment, 0, 2*(GridDivisions+1))
	for i := 0; i <= GridDivisions; i++ {
		v := -half + float64(i)*step
		out = append(out,
			gizmo.Segment{A: world.Apply(geometry.NewVector3(v, -half, 0)), B: world.Apply(geometry.NewVector3(v, half, 0))},
			gizmo.Segment{A: world.Apply(geometry.NewVector3(-half, v, 0)), B: world.Apply(geometry.NewVector3(half, v, 0))},
		)
	}
	return out
}

// Plane3D is a ground plane label. Boxes standing on it are attached as
// children of its node.
type Plane3D struct {
	base
	grid *Grid3D
}

// NewPlane3D creates an empty plane label
func NewPlane3D() *Plane3D {
	return &Plane3D{grid: NewGrid3D()}
}

func (p *Plane3D) Kind() string              { return state.LabelPlane3D }
func (p *Plane3D) Node() *Node               { return p.grid.node }
func (p *Plane3D) Grid() *Grid3D             { return p.grid }
func (p *Plane3D) Segments() []gizmo.Segment { return p.grid.Segments() }

func (p *Plane3D) Raycast(ray geometry.Ray) (float64, bool) { return p.grid.Raycast(ray) }

func (p *Plane3D) UpdateState(st state.State, itemIndex, labelID int) {
	sh, ok := p.load(st, itemIndex, labelID)
	if !ok || sh.Plane == nil {
		return
	}
	p.grid.SetPlane(*sh.Plane)
}

// AttachLabel puts a box on the plane, keeping the box transform relative
// to the plane
func (p *Plane3D) AttachLabel(b *Box3D) {
	p.grid.node.Add(b.Node())
	b.setSurface(p.grid.node)
}

func (p *Plane3D) ShapePatches() ([]int, []state.ShapePatch) {
	plane := p.grid.Plane()
	return append([]int(nil), p.shapeIDs...), []state.ShapePatch{{Plane: &plane}}
}
