package action

import (
	"testing"

	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox2DHandleParity(t *testing.T) {
	rects := []state.Rect{
		{X: 0, Y: 0, W: 10, H: 10},
		{X: 3.5, Y: -2, W: 100.25, H: 7},
		{X: -50, Y: 20, W: 6, H: 300},
	}
	for _, r := range rects {
		v := Box2DVertices(r)
		for i := 1; i < 8; i += 2 {
			// handle numbers are 1-based: v[i] is handle i+1, an even handle
			prev := v[i-1]
			next := v[(i+1)%8]
			assert.InDelta(t, (prev.X+next.X)/2, v[i].X, 1e-12)
			assert.InDelta(t, (prev.Y+next.Y)/2, v[i].Y, 1e-12)
			assert.Equal(t, state.VertexTypeMidpoint, v[i].Type)
			assert.Equal(t, state.VertexTypeVertex, prev.Type)
		}
	}
}

func TestAddBox2dLabel(t *testing.T) {
	a := AddBox2dLabel(0, []int{2}, 1, 1, 9, 9)
	require.Len(t, a.Shapes[0][0], Box2DShapeCount)

	label := a.Labels[0][0]
	assert.Equal(t, state.LabelBox2D, label.Type)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, label.Shapes)
	assert.Equal(t, state.Rect{X: 1, Y: 1, W: 9, H: 9}, *a.Shapes[0][0][0].Rect)
	assert.Equal(t, state.Vertex{X: 10, Y: 10, Type: state.VertexTypeVertex}, *a.Shapes[0][0][5].Vertex)
}

func TestAddBox3dLabelDefaults(t *testing.T) {
	a := AddBox3dLabel(0, nil, geometry.NewVector3(0, 0, 0))
	cube := a.Shapes[0][0][0].Cube
	require.NotNil(t, cube)
	assert.Equal(t, geometry.NewVector3(0, 0, 0), cube.Center)
	assert.Equal(t, geometry.NewVector3(1, 1, 1), cube.Size)
	assert.Equal(t, geometry.Vector3{}, cube.Orientation)
	assert.Equal(t, 0, cube.AnchorIndex)
}

func TestAddDuplicatedTrackLengthBound(t *testing.T) {
	label := NewBox3DLabel(nil)
	shapes := []state.Shape{NewBox3DShape(geometry.Vector3{})}
	stop := 7

	cases := []struct {
		name      string
		start     int
		stop      *int
		itemCount int
		maxLength int
		expected  int
	}{
		{"capped by max length", 2, nil, 100, 5, 5},
		{"capped by item count", 8, nil, 10, 5, 2},
		{"explicit stop", 3, &stop, 10, 2, 4},
		{"stop beyond items", 3, &stop, 5, 2, 2},
		{"start past end", 12, nil, 10, 5, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := AddDuplicatedTrack("linear_interpolation", label, shapes, c.start, c.stop, c.itemCount, c.maxLength)
			assert.Len(t, a.Labels, c.expected)
			bound := TrackEnd(c.start, c.stop, c.itemCount, c.maxLength) - c.start
			assert.LessOrEqual(t, len(a.Labels), max(bound, 0))
			if c.expected > 0 {
				assert.Equal(t, c.start, a.ItemIndices[0])
				assert.True(t, a.Labels[0].Manual)
				for _, l := range a.Labels[1:] {
					assert.False(t, l.Manual)
				}
			}
		})
	}
}

func TestAddDuplicatedTrackCopiesShapes(t *testing.T) {
	shapes := []state.Shape{NewBox3DShape(geometry.NewVector3(1, 2, 3))}
	a := AddDuplicatedTrack("linear_interpolation", NewBox3DLabel(nil), shapes, 0, nil, 3, 10)
	require.Len(t, a.Shapes, 3)

	a.Shapes[1][0].Cube.Center.X = 99
	assert.Equal(t, 1.0, a.Shapes[0][0].Cube.Center.X)
	assert.Equal(t, 1.0, shapes[0].Cube.Center.X)
}

func TestUndoable(t *testing.T) {
	assert.True(t, Undoable(AddBox2dLabel(0, nil, 0, 0, 10, 10)))
	assert.True(t, Undoable(DeleteLabel(0, 1)))
	assert.False(t, Undoable(SelectLabel(0, 1, false)))
	assert.False(t, Undoable(MoveCamera{}))
	assert.False(t, Undoable(LoadItem{}))

	assert.True(t, Undoable(Sequence(SelectLabel(0, 1, false), DeleteLabel(0, 1))))
	assert.False(t, Undoable(Sequence(SelectLabel(0, 1, false), GoToItem{})))
	assert.Equal(t, Action(GoToItem{ItemIndex: 2}), Sequence(GoToItem{ItemIndex: 2}))
}
