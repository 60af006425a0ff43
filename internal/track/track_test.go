package track

import (
	"testing"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/reducer"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, s state.State, actions ...action.Action) state.State {
	t.Helper()
	for _, a := range actions {
		var err error
		s, err = reducer.Reduce(s, a)
		require.NoError(t, err)
	}
	return s
}

func trackState(t *testing.T, p Policy, items int) state.State {
	t.Helper()
	urls := make([]string, items)
	s := state.MakeState(state.MakeTaskConfig(), urls)
	label := action.NewBox2DLabel([]int{0})
	return apply(t, s, p.OnLabelCreated(s, 0, label, action.Box2DShapes(0, 0, 10, 10))...)
}

func rectOf(s state.State, itemIndex, trackID int) state.Rect {
	item := s.Task.Items[itemIndex]
	labelID := s.Task.Tracks[trackID].Labels[itemIndex]
	return *item.LabelShapes(labelID)[0].Rect
}

func moveRect(t *testing.T, s state.State, itemIndex int, r state.Rect) state.State {
	t.Helper()
	labelID := s.Task.Tracks[0].Labels[itemIndex]
	label := s.Task.Items[itemIndex].Labels[labelID]
	return apply(t, s, action.ChangeShapesSingle(itemIndex, label.Shapes, action.Box2DPatches(r)))
}

func TestNew(t *testing.T) {
	for _, name := range []string{TypeLinearInterpolation, TypeDuplicate, TypeNone} {
		p, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Type())
	}
	_, err := New("kalman")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestNoneAddsPlainLabel(t *testing.T) {
	s := trackState(t, None{}, 3)
	assert.Empty(t, s.Task.Tracks)
	assert.Equal(t, 1, s.LabelCount())
	assert.Nil(t, None{}.OnLabelUpdated(s, state.Track{}, 0))
}

func TestCreatedTrackRespectsMaxLength(t *testing.T) {
	urls := make([]string, 30)
	s := state.MakeState(state.MakeTaskConfig(), urls)
	s = apply(t, s, LinearInterpolation{}.OnLabelCreated(s, 4, action.NewBox2DLabel(nil), action.Box2DShapes(0, 0, 10, 10))...)
	require.Len(t, s.Task.Tracks, 1)
	assert.Len(t, s.Task.Tracks[0].Labels, state.DefaultMaxTrackLength)
	assert.Equal(t, TypeLinearInterpolation, s.Task.Tracks[0].Type)
}

func TestLinearInterpolationBetweenManualLabels(t *testing.T) {
	p := LinearInterpolation{}
	s := trackState(t, p, 5)

	target := state.Rect{X: 40, Y: 80, W: 50, H: 90}
	s = moveRect(t, s, 4, target)
	s = apply(t, s, p.OnLabelUpdated(s, s.Task.Tracks[0], 4)...)

	labelID := s.Task.Tracks[0].Labels[4]
	assert.True(t, s.Task.Items[4].Labels[labelID].Manual)

	mid := rectOf(s, 2, 0)
	assert.InDelta(t, 20, mid.X, 1e-9)
	assert.InDelta(t, 40, mid.Y, 1e-9)
	assert.InDelta(t, 30, mid.W, 1e-9)
	assert.InDelta(t, 50, mid.H, 1e-9)

	q := rectOf(s, 1, 0)
	assert.InDelta(t, 10, q.X, 1e-9)

	// handles follow the rectangle
	item := s.Task.Items[2]
	shapes := item.LabelShapes(s.Task.Tracks[0].Labels[2])
	assert.InDelta(t, mid.X+mid.W, shapes[5].Vertex.X, 1e-9)
	assert.InDelta(t, mid.Y+mid.H, shapes[5].Vertex.Y, 1e-9)

	// the first manual label is untouched
	assert.Equal(t, state.Rect{W: 10, H: 10}, rectOf(s, 0, 0))
}

func TestLinearInterpolationCopiesOutsideManualSpan(t *testing.T) {
	p := LinearInterpolation{}
	s := trackState(t, p, 5)

	target := state.Rect{X: 5, Y: 5, W: 20, H: 20}
	s = moveRect(t, s, 2, target)
	s = apply(t, s, p.OnLabelUpdated(s, s.Task.Tracks[0], 2)...)

	assert.Equal(t, target, rectOf(s, 3, 0))
	assert.Equal(t, target, rectOf(s, 4, 0))
	assert.InDelta(t, 2.5, rectOf(s, 1, 0).X, 1e-9)
}

func TestLinearInterpolationCubes(t *testing.T) {
	p := LinearInterpolation{}
	urls := make([]string, 3)
	cfg := state.MakeTaskConfig()
	cfg.ItemType = state.ItemPointCloud
	s := state.MakeState(cfg, urls)
	shape := action.NewBox3DShape(geometry.NewVector3(0, 0, 0))
	s = apply(t, s, p.OnLabelCreated(s, 0, action.NewBox3DLabel(nil), []state.Shape{shape})...)

	labelID := s.Task.Tracks[0].Labels[2]
	label := s.Task.Items[2].Labels[labelID]
	cube := *s.Task.Items[2].Shapes[label.Shapes[0]].Cube
	cube.Center = geometry.NewVector3(4, 0, 2)
	s = apply(t, s, action.ChangeShapesSingle(2, label.Shapes, []state.ShapePatch{{Cube: &cube}}))
	s = apply(t, s, p.OnLabelUpdated(s, s.Task.Tracks[0], 2)...)

	midID := s.Task.Tracks[0].Labels[1]
	mid := s.Task.Items[1].LabelShapes(midID)[0].Cube
	assert.True(t, mid.Center.Equals(geometry.NewVector3(2, 0, 1), 1e-9))
}

func TestDuplicateCopiesForward(t *testing.T) {
	p := Duplicate{}
	s := trackState(t, p, 4)
	target := state.Rect{X: 7, Y: 7, W: 30, H: 30}
	s = moveRect(t, s, 1, target)
	s = apply(t, s, p.OnLabelUpdated(s, s.Task.Tracks[0], 1)...)

	assert.Equal(t, state.Rect{W: 10, H: 10}, rectOf(s, 0, 0))
	assert.Equal(t, target, rectOf(s, 2, 0))
	assert.Equal(t, target, rectOf(s, 3, 0))
}

func TestUpdateOfUnknownItemIsNoop(t *testing.T) {
	s := trackState(t, LinearInterpolation{}, 3)
	assert.Empty(t, LinearInterpolation{}.OnLabelUpdated(s, s.Task.Tracks[0], 9))
	assert.Empty(t, Duplicate{}.OnLabelUpdated(s, s.Task.Tracks[0], 9))
}

func TestIndexSync(t *testing.T) {
	s := trackState(t, Duplicate{}, 3)
	x := NewIndex(nil)
	assert.Equal(t, TypeNone, x.Get(0).Type())

	x.Sync(s)
	assert.Equal(t, TypeDuplicate, x.Get(0).Type())

	s = apply(t, s, action.DeleteTrack{TrackID: 0})
	x.Sync(s)
	assert.Equal(t, TypeNone, x.Get(0).Type())
}

func TestIndexEditIsOneAction(t *testing.T) {
	s := trackState(t, LinearInterpolation{}, 3)
	x := NewIndex(nil)
	target := state.Rect{X: 5, Y: 5, W: 20, H: 20}
	labelID := s.Task.Tracks[0].Labels[1]
	edit := action.ChangeShapesSingle(1, s.Task.Items[1].Labels[labelID].Shapes, action.Box2DPatches(target))

	a, err := x.Edit(s, edit, 1, []int{0, 0, -1})
	require.NoError(t, err)
	seq, ok := a.(action.Sequential)
	require.True(t, ok)
	assert.Len(t, seq.Actions, 3, "edit, manual flag and propagation")
	assert.True(t, action.Undoable(a))

	s = apply(t, s, a)
	assert.Equal(t, state.Rect{W: 10, H: 10}, rectOf(s, 0, 0))
	assert.Equal(t, target, rectOf(s, 1, 0))
	assert.Equal(t, target, rectOf(s, 2, 0))
	assert.True(t, s.Task.Items[1].Labels[labelID].Manual)
}

func TestIndexEditWithoutTrackKeepsAction(t *testing.T) {
	s := trackState(t, Duplicate{}, 2)
	labelID := s.Task.Tracks[0].Labels[1]
	edit := action.ChangeShapesSingle(1, s.Task.Items[1].Labels[labelID].Shapes, action.Box2DPatches(state.Rect{W: 8, H: 8}))

	a, err := NewIndex(nil).Edit(s, edit, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, action.Action(edit), a)

	_, err = NewIndex(nil).Edit(s, action.ChangeShapesSingle(7, nil, nil), 7, []int{0})
	assert.ErrorIs(t, err, reducer.ErrContract)
}

func TestIndexSetFallback(t *testing.T) {
	x := NewIndex(LinearInterpolation{})
	x.SetFallback(Duplicate{})
	assert.Equal(t, TypeDuplicate, x.Fallback().Type())
	x.SetFallback(nil)
	assert.Equal(t, TypeNone, x.Fallback().Type())
}
