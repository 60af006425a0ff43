package reducer

import (
	"testing"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(items int) state.State {
	urls := make([]string, items)
	for i := range urls {
		urls[i] = "img.png"
	}
	return state.MakeState(state.MakeTaskConfig(), urls)
}

func mustReduce(t *testing.T, s state.State, a action.Action) state.State {
	t.Helper()
	next, err := Reduce(s, a)
	require.NoError(t, err)
	return next
}

func TestAddBox2dLabelAllocatesIDs(t *testing.T) {
	s := newState(1)
	s = mustReduce(t, s, action.AddBox2dLabel(0, []int{0}, 10, 10, 20, 20))

	item := s.Task.Items[0]
	require.Len(t, item.Labels, 1)
	require.Len(t, item.Shapes, 9)
	label := item.Labels[0]
	assert.Equal(t, 0, label.ID)
	assert.Equal(t, 0, label.Item)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, label.Shapes)
	for _, id := range label.Shapes {
		assert.Equal(t, []int{0}, item.Shapes[id].Labels)
	}
	assert.Equal(t, 0, s.Task.Status.MaxLabelID)
	assert.Equal(t, 8, s.Task.Status.MaxShapeID)
	assert.Equal(t, 0, s.Task.Status.MaxOrder)

	s = mustReduce(t, s, action.AddBox2dLabel(0, nil, 50, 50, 10, 10))
	assert.Equal(t, 1, s.Task.Status.MaxLabelID)
	assert.Equal(t, 17, s.Task.Status.MaxShapeID)
	assert.Equal(t, 1, s.Task.Items[0].Labels[1].Order)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := newState(2)
	before, err := state.Marshal(s)
	require.NoError(t, err)

	_ = mustReduce(t, s, action.AddBox2dLabel(0, []int{0}, 1, 2, 30, 40))

	after, err := state.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
	assert.Empty(t, s.Task.Items[0].Labels)
}

func TestChangeShapes(t *testing.T) {
	s := mustReduce(t, newState(1), action.AddBox2dLabel(0, nil, 0, 0, 10, 10))
	rect := state.Rect{X: 5, Y: 5, W: 20, H: 30}
	ids := s.Task.Items[0].Labels[0].Shapes
	next := mustReduce(t, s, action.ChangeShapesSingle(0, ids, action.Box2DPatches(rect)))

	assert.Equal(t, rect, *next.Task.Items[0].Shapes[0].Rect)
	assert.Equal(t, 25.0, next.Task.Items[0].Shapes[5].Vertex.X)
	assert.Equal(t, 35.0, next.Task.Items[0].Shapes[5].Vertex.Y)
	// previous state untouched
	assert.Equal(t, 10.0, s.Task.Items[0].Shapes[0].Rect.W)
}

func TestChangeShapesIgnoresStaleIDs(t *testing.T) {
	s := mustReduce(t, newState(1), action.AddBox2dLabel(0, nil, 0, 0, 10, 10))
	next := mustReduce(t, s, action.ChangeShapesSingle(0, []int{99},
		[]state.ShapePatch{{Rect: &state.Rect{W: 1, H: 1}}}))
	assert.Equal(t, s.Task.Items[0].Shapes, next.Task.Items[0].Shapes)
}

func TestChangeShapesRejectsMalformedAction(t *testing.T) {
	s := newState(1)
	_, err := Reduce(s, action.ChangeShapes{ItemIndices: []int{0}, ShapeIDs: [][]int{{0}}})
	require.ErrorIs(t, err, ErrContract)

	_, err = Reduce(s, action.ChangeShapesSingle(3, []int{0}, []state.ShapePatch{{}}))
	var ce *ContractError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, action.TypeChangeShapes, ce.Action)
}

func TestChangeLabels(t *testing.T) {
	s := mustReduce(t, newState(1), action.AddBox2dLabel(0, []int{0}, 0, 0, 10, 10))
	manual := false
	s = mustReduce(t, s, action.ChangeLabelProps(0, 0, state.LabelPatch{Category: []int{2}, Manual: &manual}))
	label := s.Task.Items[0].Labels[0]
	assert.Equal(t, []int{2}, label.Category)
	assert.False(t, label.Manual)
}

func TestDeleteLabelRemovesShapesAndSelection(t *testing.T) {
	s := mustReduce(t, newState(1), action.AddBox2dLabel(0, nil, 0, 0, 10, 10))
	s = mustReduce(t, s, action.SelectLabel(0, 0, false))
	require.Equal(t, []int{0}, s.User.Select.Labels[0])

	s = mustReduce(t, s, action.DeleteLabel(0, 0))
	assert.Empty(t, s.Task.Items[0].Labels)
	assert.Empty(t, s.Task.Items[0].Shapes)
	assert.Empty(t, s.User.Select.Labels[0])

	// deleting again is a no-op
	again := mustReduce(t, s, action.DeleteLabel(0, 0))
	assert.Equal(t, s.Task, again.Task)
}

func TestDeleteLabelKeepsSharedShapes(t *testing.T) {
	s := newState(1)
	item := s.Task.Items[0]
	item.Labels[0] = state.Label{ID: 0, Item: 0, Shapes: []int{0}, Track: -1}
	item.Labels[1] = state.Label{ID: 1, Item: 0, Shapes: []int{0}, Track: -1}
	item.Shapes[0] = state.Shape{ID: 0, Type: state.ShapePoint, Labels: []int{0, 1}, Point: &state.Point{}}

	s = mustReduce(t, s, action.DeleteLabel(0, 0))
	require.Contains(t, s.Task.Items[0].Shapes, 0)
	assert.Equal(t, []int{1}, s.Task.Items[0].Shapes[0].Labels)
}

func withTrack(t *testing.T, s state.State, items int) state.State {
	t.Helper()
	stop := items
	return mustReduce(t, s, action.AddDuplicatedTrack("linear_interpolation",
		action.NewBox2DLabel([]int{0}), action.Box2DShapes(0, 0, 10, 10),
		0, &stop, len(s.Task.Items), 20))
}

func TestAddTrack(t *testing.T) {
	s := withTrack(t, newState(5), 5)
	require.Len(t, s.Task.Tracks, 1)
	tr := s.Task.Tracks[0]
	assert.Len(t, tr.Labels, 5)
	for idx, labelID := range tr.Labels {
		label := s.Task.Items[idx].Labels[labelID]
		assert.Equal(t, tr.ID, label.Track)
		assert.Equal(t, idx, label.Item)
		assert.Equal(t, idx == 0, label.Manual)
	}
}

func TestDeleteSoleTrackMemberRemovesTrack(t *testing.T) {
	s := withTrack(t, newState(1), 1)
	require.Len(t, s.Task.Tracks, 1)
	labelID := s.Task.Tracks[0].Labels[0]

	s = mustReduce(t, s, action.DeleteLabel(0, labelID))
	assert.Empty(t, s.Task.Tracks)
}

func TestDeleteTrackMemberKeepsRest(t *testing.T) {
	s := withTrack(t, newState(3), 3)
	labelID := s.Task.Tracks[0].Labels[1]
	s = mustReduce(t, s, action.DeleteLabel(1, labelID))
	require.Len(t, s.Task.Tracks, 1)
	assert.NotContains(t, s.Task.Tracks[0].Labels, 1)
	assert.Len(t, s.Task.Tracks[0].Labels, 2)
}

func TestTerminateTrack(t *testing.T) {
	s := withTrack(t, newState(5), 5)
	s = mustReduce(t, s, action.TerminateTrack{TrackID: 0, FromItem: 2})

	tr := s.Task.Tracks[0]
	assert.Len(t, tr.Labels, 2)
	for idx := 2; idx < 5; idx++ {
		assert.Empty(t, s.Task.Items[idx].Labels)
		assert.Empty(t, s.Task.Items[idx].Shapes)
	}
	assert.Len(t, s.Task.Items[1].Labels, 1)

	s = mustReduce(t, s, action.TerminateTrack{TrackID: 0, FromItem: 0})
	assert.Empty(t, s.Task.Tracks)

	// unknown track
	next := mustReduce(t, s, action.TerminateTrack{TrackID: 42})
	assert.Equal(t, s.Task, next.Task)
}

func TestDeleteTrack(t *testing.T) {
	s := withTrack(t, newState(3), 3)
	s = mustReduce(t, s, action.DeleteTrack{TrackID: 0})
	assert.Empty(t, s.Task.Tracks)
	assert.Zero(t, s.LabelCount())
	assert.Equal(t, 2, s.Task.Status.MaxLabelID, "ids are never reused")
}

func TestSelectLabels(t *testing.T) {
	s := mustReduce(t, newState(1), action.AddBox2dLabel(0, nil, 0, 0, 10, 10))
	s = mustReduce(t, s, action.AddBox2dLabel(0, nil, 20, 20, 10, 10))

	s = mustReduce(t, s, action.SelectLabel(0, 0, false))
	s = mustReduce(t, s, action.SelectLabel(0, 1, true))
	assert.Equal(t, []int{0, 1}, s.User.Select.Labels[0])

	s = mustReduce(t, s, action.SelectLabel(0, 1, false))
	assert.Equal(t, []int{1}, s.User.Select.Labels[0])

	s = mustReduce(t, s, action.SelectLabelWithCategory(0, 0, 3, map[int][]int{0: {1}}))
	assert.Equal(t, 3, s.User.Select.Category)
	assert.Equal(t, []int{1}, s.User.Select.Attributes[0])

	s = mustReduce(t, s, action.UnselectLabel(0, 0))
	assert.NotContains(t, s.User.Select.Labels, 0)

	s = mustReduce(t, s, action.SelectLabel(0, 77, false))
	assert.Empty(t, s.User.Select.Labels, "unknown labels are not selectable")
}

func TestSelectLabelAndPolicyType(t *testing.T) {
	s := mustReduce(t, newState(1), action.AddBox2dLabel(0, nil, 0, 0, 10, 10))
	s = mustReduce(t, s, action.SelectLabel(0, 0, false))

	labelType, policyType := 1, 2
	s = mustReduce(t, s, action.SelectLabels{Item: 0, LabelIDs: []int{0}, LabelType: &labelType, PolicyType: &policyType})
	assert.Equal(t, 1, s.User.Select.LabelType)
	assert.Equal(t, 2, s.User.Select.PolicyType)
	assert.Equal(t, []int{0}, s.User.Select.Labels[0])

	s = mustReduce(t, s, action.DeselectAll(0))
	assert.Equal(t, 1, s.User.Select.LabelType, "nil keeps the label type")
}

func TestSplitAndDeletePane(t *testing.T) {
	s := newState(1)
	s = mustReduce(t, s, action.SplitPane{PaneID: 0, Split: state.SplitVertical, ViewerID: 0})

	layout := s.User.Layout
	require.NoError(t, state.ValidateLayout(layout))
	root := layout.Panes[0]
	assert.False(t, root.IsLeaf())
	assert.Equal(t, state.SplitVertical, root.Split)
	assert.Equal(t, 0, layout.Panes[root.Child1].ViewerID)
	assert.Equal(t, 1, layout.Panes[root.Child2].ViewerID)
	assert.Equal(t, root.Child2, s.User.ViewerConfigs[1].PaneID)
	assert.Equal(t, root.Child1, s.User.ViewerConfigs[0].PaneID)
	assert.Equal(t, []int{1, 2}, state.LeafPanes(layout))

	s = mustReduce(t, s, action.DeletePane{PaneID: root.Child2, ViewerID: 1})
	layout = s.User.Layout
	require.NoError(t, state.ValidateLayout(layout))
	assert.Equal(t, root.Child1, layout.RootPane)
	assert.Len(t, layout.Panes, 1)
	assert.Equal(t, -1, layout.Panes[layout.RootPane].Parent)
	assert.NotContains(t, s.User.ViewerConfigs, 1)
}

func TestDeleteNestedPane(t *testing.T) {
	s := newState(1)
	s = mustReduce(t, s, action.SplitPane{PaneID: 0, Split: state.SplitVertical, ViewerID: 0})
	s = mustReduce(t, s, action.SplitPane{PaneID: 2, Split: state.SplitHorizontal, ViewerID: 1})
	require.NoError(t, state.ValidateLayout(s.User.Layout))

	s = mustReduce(t, s, action.DeletePane{PaneID: 3, ViewerID: 1})
	layout := s.User.Layout
	require.NoError(t, state.ValidateLayout(layout))
	assert.Equal(t, 4, layout.Panes[0].Child2)
	assert.Equal(t, 0, layout.Panes[4].Parent)
}

func TestPaneContractErrors(t *testing.T) {
	s := newState(1)
	_, err := Reduce(s, action.DeletePane{PaneID: 0, ViewerID: 0})
	assert.ErrorIs(t, err, ErrContract)

	_, err = Reduce(s, action.SplitPane{PaneID: 7, Split: state.SplitVertical})
	assert.ErrorIs(t, err, ErrContract)

	split := mustReduce(t, s, action.SplitPane{PaneID: 0, Split: state.SplitVertical, ViewerID: 0})
	_, err = Reduce(split, action.SplitPane{PaneID: 0, Split: state.SplitVertical, ViewerID: 0})
	assert.ErrorIs(t, err, ErrContract, "internal panes cannot be split")

	second := split.User.Layout.Panes[0].Child2
	_, err = Reduce(split, action.DeletePane{PaneID: second, ViewerID: 0})
	assert.ErrorIs(t, err, ErrContract, "the viewer must be the one the pane shows")
	assert.Contains(t, split.User.ViewerConfigs, 0)
	assert.Contains(t, split.User.ViewerConfigs, 1)

	size := 120.0
	_, err = Reduce(s, action.UpdatePane{PaneID: 0, Props: action.PanePatch{PrimarySize: &size}})
	assert.ErrorIs(t, err, ErrContract)
}

func TestUpdatePane(t *testing.T) {
	hide := true
	s := mustReduce(t, newState(1), action.UpdatePane{PaneID: 0, Props: action.PanePatch{HideLabels: &hide}})
	assert.True(t, s.User.Layout.Panes[0].HideLabels)
}

func TestMoveCamera(t *testing.T) {
	cfg := state.MakeTaskConfig()
	cfg.ItemType = state.ItemPointCloud
	s := state.MakeState(cfg, []string{"a.ply"})

	pos := geometry.NewVector3(1, 2, 3)
	target := geometry.NewVector3(4, 5, 6)
	next := mustReduce(t, s, action.MoveCameraAndTarget{ViewerID: 0, Position: pos, Target: target})
	assert.Equal(t, pos, next.User.ViewerConfigs[0].PointCloud.Position)
	assert.Equal(t, target, next.User.ViewerConfigs[0].PointCloud.Target)
	assert.NotEqual(t, pos, s.User.ViewerConfigs[0].PointCloud.Position)

	moved := mustReduce(t, next, action.MoveCamera{ViewerID: 0, Position: geometry.NewVector3(0, 0, 9)})
	assert.Equal(t, target, moved.User.ViewerConfigs[0].PointCloud.Target)

	stale := mustReduce(t, next, action.MoveCamera{ViewerID: 5, Position: pos})
	assert.Equal(t, next.User, stale.User)
}

func TestChangeViewerConfigValidatesPayload(t *testing.T) {
	s := newState(1)
	_, err := Reduce(s, action.ChangeViewerConfig{ViewerID: 0, Config: state.ViewerConfig{Type: state.ViewerImage}})
	assert.ErrorIs(t, err, ErrContract)

	cfg := state.MakeImageViewerConfig(0)
	cfg.Image.ViewScale = 2
	next := mustReduce(t, s, action.ChangeViewerConfig{ViewerID: 0, Config: cfg})
	assert.Equal(t, 2.0, next.User.ViewerConfigs[0].Image.ViewScale)
}

func TestItemActions(t *testing.T) {
	s := newState(3)
	s = mustReduce(t, s, action.GoToItem{ItemIndex: 2})
	assert.Equal(t, 2, s.User.Select.Item)

	_, err := Reduce(s, action.GoToItem{ItemIndex: 3})
	assert.ErrorIs(t, err, ErrContract)

	s = mustReduce(t, s, action.LoadItem{ItemIndex: 1, Width: 640, Height: 480})
	assert.True(t, s.Task.Items[1].Loaded)
	assert.Equal(t, 640, s.Task.Items[1].Width)

	cfg := state.MakeTaskConfig()
	cfg.ProjectName = "demo"
	s = mustReduce(t, s, action.UpdateTaskConfig{Config: cfg})
	assert.Equal(t, "demo", s.Task.Config.ProjectName)
}

func TestSequentialAppliesInOrder(t *testing.T) {
	s := newState(2)
	s = mustReduce(t, s, action.Sequence(
		action.AddBox2dLabel(0, []int{0}, 0, 0, 10, 10),
		action.ChangeLabelProps(0, 0, state.LabelPatch{Category: []int{3}}),
		action.GoToItem{ItemIndex: 1},
	))
	assert.Equal(t, []int{3}, s.Task.Items[0].Labels[0].Category)
	assert.Equal(t, 1, s.User.Select.Item)
}

func TestSequentialIsAtomic(t *testing.T) {
	s := newState(1)
	next, err := Reduce(s, action.Sequence(
		action.AddBox2dLabel(0, nil, 0, 0, 10, 10),
		action.GoToItem{ItemIndex: 5},
	))
	assert.ErrorIs(t, err, ErrContract)
	assert.Zero(t, next.LabelCount())
	assert.Zero(t, s.LabelCount())
}

func TestUnknownAction(t *testing.T) {
	_, err := Reduce(newState(1), nil)
	assert.ErrorIs(t, err, ErrContract)
}
