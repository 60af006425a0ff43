package action

import "github.com/philipparndt/golabel/internal/state"

// Box2DShapeCount is the number of shapes of a box2d label: the rectangle
// and 8 handles ordered TL, TM, TR, RM, BR, BM, BL, LM
const Box2DShapeCount = 9

// Box2DVertices returns the 8 handles of a rectangle. Odd handle numbers
// (1, 3, 5, 7) are corners, even ones are edge midpoints.
func Box2DVertices(r state.Rect) [8]state.Vertex {
	x1, y1 := r.X, r.Y
	x2, y2 := r.X+r.W, r.Y+r.H
	xm, ym := r.X+r.W/2, r.Y+r.H/2
	return [8]state.Vertex{
		{X: x1, Y: y1, Type: state.VertexTypeVertex},
		{X: xm, Y: y1, Type: state.VertexTypeMidpoint},
		{X: x2, Y: y1, Type: state.VertexTypeVertex},
		{X: x2, Y: ym, Type: state.VertexTypeMidpoint},
		{X: x2, Y: y2, Type: state.VertexTypeVertex},
		{X: xm, Y: y2, Type: state.VertexTypeMidpoint},
		{X: x1, Y: y2, Type: state.VertexTypeVertex},
		{X: x1, Y: ym, Type: state.VertexTypeMidpoint},
	}
}

// Box2DShapes builds the rectangle and its handles
func Box2DShapes(x, y, w, h float64) []state.Shape {
	rect := state.MakeRect(x, y, w, h)
	shapes := make([]state.Shape, 0, Box2DShapeCount)
	shapes = append(shapes, rect)
	for _, v := range Box2DVertices(*rect.Rect) {
		shapes = append(shapes, state.MakeVertex(v.X, v.Y, v.Type))
	}
	return shapes
}

// Box2DPatches returns patches for the rectangle and handles of a box
func Box2DPatches(r state.Rect) []state.ShapePatch {
	patches := make([]state.ShapePatch, 0, Box2DShapeCount)
	rect := r
	patches = append(patches, state.ShapePatch{Rect: &rect})
	for _, v := range Box2DVertices(r) {
		vertex := v
		patches = append(patches, state.ShapePatch{Vertex: &vertex})
	}
	return patches
}

// NewBox2DLabel returns a box2d label whose shape references are the
// indices into Box2DShapes
func NewBox2DLabel(category []int) state.Label {
	label := state.MakeLabel(state.LabelBox2D, category)
	label.Shapes = make([]int, Box2DShapeCount)
	for i := range label.Shapes {
		label.Shapes[i] = i
	}
	return label
}

// AddBox2dLabel creates a box2d label on an item
func AddBox2dLabel(itemIndex int, category []int, x, y, w, h float64) AddLabels {
	return AddLabel(itemIndex, NewBox2DLabel(category), Box2DShapes(x, y, w, h))
}

// AddTagLabel creates a tag label carrying only attributes
func AddTagLabel(itemIndex int, attributes map[int][]int) AddLabels {
	label := state.MakeLabel(state.LabelTag, nil)
	for k, v := range attributes {
		label.Attributes[k] = append([]int(nil), v...)
	}
	return AddLabel(itemIndex, label, nil)
}

// AddCustomLabel creates a templated point label
func AddCustomLabel(itemIndex int, labelType string, category []int, points []state.Point) AddLabels {
	label := state.MakeLabel(labelType, category)
	shapes := make([]state.Shape, len(points))
	label.Shapes = make([]int, len(points))
	for i, p := range points {
		shapes[i] = state.MakePoint(p.X, p.Y)
		label.Shapes[i] = i
	}
	return AddLabel(itemIndex, label, shapes)
}
