package label3d

import (
	"image/color"

	"github.com/philipparndt/golabel/internal/draw2d"
	"github.com/philipparndt/golabel/internal/gizmo"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Label is a drawable 3D label. Its node mirrors the stored shape and is
// rebuilt from state on every update.
type Label interface {
	ID() int
	Kind() string
	Node() *Node
	State() state.Label
	// Raycast returns the ray distance to the label body
	Raycast(ray geometry.Ray) (float64, bool)
	UpdateState(st state.State, itemIndex, labelID int)
	// ShapePatches converts the current world transform of the node back
	// into shape patches
	ShapePatches() ([]int, []state.ShapePatch)
	Selected() bool
	SetSelected(s bool)
	Highlighted() bool
	SetHighlighted(h bool)
	Color() color.RGBA
	// Segments returns the outline in world space
	Segments() []gizmo.Segment
}

type base struct {
	id          int
	label       state.Label
	shapeIDs    []int
	selected    bool
	highlighted bool
}

func (b *base) ID() int               { return b.id }
func (b *base) State() state.Label    { return b.label }
func (b *base) Selected() bool        { return b.selected }
func (b *base) SetSelected(s bool)    { b.selected = s }
func (b *base) Highlighted() bool     { return b.highlighted }
func (b *base) SetHighlighted(h bool) { b.highlighted = h }

// Color returns the label color, white while highlighted
func (b *base) Color() color.RGBA {
	if b.highlighted {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	c := draw2d.ColorByID(b.id)
	if len(b.label.Color) == 3 {
		c = [3]uint8{uint8(b.label.Color[0]), uint8(b.label.Color[1]), uint8(b.label.Color[2])}
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 0xff}
}

// load reads the label and its first shape
func (b *base) load(st state.State, itemIndex, labelID int) (state.Shape, bool) {
	if itemIndex < 0 || itemIndex >= len(st.Task.Items) {
		return state.Shape{}, false
	}
	item := st.Task.Items[itemIndex]
	label, ok := item.Labels[labelID]
	if !ok || len(label.Shapes) == 0 {
		return state.Shape{}, false
	}
	sh, ok := item.Shapes[label.Shapes[0]]
	if !ok {
		return state.Shape{}, false
	}
	b.id = labelID
	b.label = label
	b.shapeIDs = []int{sh.ID}
	return sh, true
}

// eulerTransform builds a unit scale transform from a position and XYZ
// euler angles
func eulerTransform(position, orientation geometry.Vector3) geometry.Transform {
	t := geometry.IdentityTransform()
	t.Position = position
	t.Rotation = geometry.QuaternionFromEuler(orientation)
	return t
}

// relativeTo expresses node's world transform in the frame of surface
func relativeTo(node, surface *Node) geometry.Transform {
	world := node.WorldTransform()
	if surface == nil {
		return world
	}
	return surface.WorldTransform().Relative(world)
}
