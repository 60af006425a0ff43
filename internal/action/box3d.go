package action

import (
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// NewBox3DShape returns a unit cube centered at center
func NewBox3DShape(center geometry.Vector3) state.Shape {
	return state.MakeCube(center, geometry.NewVector3(1, 1, 1), geometry.Vector3{}, 0)
}

// NewBox3DLabel returns a box3d label referencing its single cube shape
func NewBox3DLabel(category []int) state.Label {
	label := state.MakeLabel(state.LabelBox3D, category)
	label.Shapes = []int{0}
	return label
}

// AddBox3dLabel creates a unit cube with zero orientation and anchor 0
func AddBox3dLabel(itemIndex int, category []int, center geometry.Vector3) AddLabels {
	return AddLabel(itemIndex, NewBox3DLabel(category), []state.Shape{NewBox3DShape(center)})
}

// AddPlaneLabel creates a ground plane label
func AddPlaneLabel(itemIndex int, offset, orientation geometry.Vector3) AddLabels {
	label := state.MakeLabel(state.LabelPlane3D, nil)
	label.Shapes = []int{0}
	return AddLabel(itemIndex, label, []state.Shape{state.MakePlane(offset, orientation)})
}
