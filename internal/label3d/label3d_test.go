package label3d

import (
	"math"
	"testing"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/gizmo"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/internal/store"
	"github.com/philipparndt/golabel/internal/track"
	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-6

type recorder struct {
	*store.Store
	actions []action.Action
}

func (r *recorder) Dispatch(a action.Action) error {
	r.actions = append(r.actions, a)
	return r.Store.Dispatch(a)
}

func (r *recorder) undoable() int {
	n := 0
	for _, a := range r.actions {
		if action.Undoable(a) {
			n++
		}
	}
	return n
}

type fixture struct {
	t     *testing.T
	store *recorder
	list  *List
	h     *Handler
}

func pointCloudConfig() state.TaskConfig {
	cfg := state.MakeTaskConfig()
	cfg.ItemType = state.ItemPointCloud
	cfg.LabelTypes = []string{state.LabelBox3D}
	return cfg
}

func newFixture(t *testing.T, cfg state.TaskConfig, tracks *track.Index) *fixture {
	t.Helper()
	s := store.New(state.MakeState(cfg, []string{"a.ply", "b.ply", "c.ply"}))
	list := NewList(nil)
	s.Subscribe(list.UpdateState)
	require.NoError(t, s.Dispatch(action.LoadItem{ItemIndex: 0}))
	rec := &recorder{Store: s}
	return &fixture{t: t, store: rec, list: list, h: NewHandler(list, rec, tracks)}
}

// addBox dispatches a box and clears the recorded actions
func (f *fixture) addBox(center, size geometry.Vector3) int {
	f.t.Helper()
	id := f.store.State().Task.Status.MaxLabelID + 1
	a := action.AddBox3dLabel(0, []int{0}, center)
	a.Shapes[0][0][0].Cube.Size = size
	require.NoError(f.t, f.store.Dispatch(a))
	f.store.actions = nil
	return id
}

func (f *fixture) cube(labelID int) state.Cube {
	f.t.Helper()
	shapes := f.store.State().Task.Items[0].LabelShapes(labelID)
	require.NotEmpty(f.t, shapes)
	require.NotNil(f.t, shapes[0].Cube)
	return *shapes[0].Cube
}

// the camera looks along +y from y=-10
var forward = geometry.NewVector3(0, 1, 0)

func rayAt(x, z float64) geometry.Ray {
	return geometry.NewRay(geometry.NewVector3(x, -10, z), forward)
}

func unit() geometry.Vector3 { return geometry.NewVector3(1, 1, 1) }

func TestNodeAttachKeepsWorldTransform(t *testing.T) {
	parent := NewNode()
	pt := geometry.IdentityTransform()
	pt.Position = geometry.NewVector3(1, 0, 0)
	pt.Rotation = geometry.QuaternionFromAxisAngle(geometry.NewVector3(0, 0, 1), math.Pi/2)
	parent.SetTransform(pt)

	child := NewNode()
	ct := geometry.IdentityTransform()
	ct.Position = geometry.NewVector3(0, 2, 0)
	child.SetTransform(ct)

	parent.Attach(child)
	assert.Equal(t, parent, child.Parent())
	assert.True(t, child.WorldTransform().Position.Equals(ct.Position, eps))

	parent.Add(NewNode())
	assert.Len(t, parent.Children(), 2)

	child.Detach()
	assert.Nil(t, child.Parent())
	assert.Len(t, parent.Children(), 1)

	// a plain add keeps the local transform
	child.SetTransform(ct)
	parent.Add(child)
	assert.True(t, child.WorldTransform().Position.Equals(geometry.NewVector3(-1, 0, 0), eps),
		"%v", child.WorldTransform().Position)

	n := 0
	parent.Walk(func(*Node) { n++ })
	assert.Equal(t, 3, n)
}

func TestCubeRaycast(t *testing.T) {
	c := NewCube3D()
	c.SetCube(state.Cube{Size: geometry.NewVector3(2, 2, 2), SurfaceID: -1})

	d, ok := c.Raycast(rayAt(0, 0))
	require.True(t, ok)
	assert.InDelta(t, 9, d, eps)

	_, ok = c.Raycast(rayAt(1.5, 0))
	assert.False(t, ok)

	// rotated a quarter turn the box still spans one unit around its center
	c.SetCube(state.Cube{
		Center:      geometry.NewVector3(5, 0, 0),
		Size:        geometry.NewVector3(4, 1, 1),
		Orientation: geometry.NewVector3(0, 0, math.Pi/2),
		SurfaceID:   -1,
	})
	_, ok = c.Raycast(rayAt(6, 0))
	assert.False(t, ok)
	d, ok = c.Raycast(rayAt(5.4, 0))
	require.True(t, ok)
	assert.InDelta(t, 8, d, eps)
}

func TestAnchorIndexCycles(t *testing.T) {
	c := NewCube3D()
	c.SetCube(state.Cube{Size: unit(), AnchorIndex: 6, SurfaceID: -1})
	c.IncrementAnchorIndex()
	assert.Equal(t, 7, c.AnchorIndex())
	c.IncrementAnchorIndex()
	assert.Equal(t, 0, c.AnchorIndex())
	assert.Len(t, c.Segments(), 12)
}

func TestGridRaycast(t *testing.T) {
	g := NewGrid3D()
	g.SetPlane(state.Plane{Offset: geometry.NewVector3(0, 0, -1)})
	down := geometry.NewVector3(0, 0, -1)

	d, ok := g.Raycast(geometry.NewRay(geometry.NewVector3(1, 1, 9), down))
	require.True(t, ok)
	assert.InDelta(t, 10, d, eps)

	_, ok = g.Raycast(geometry.NewRay(geometry.NewVector3(4, 0, 9), down))
	assert.False(t, ok)
	assert.Len(t, g.Segments(), 2*(GridDivisions+1))
}

func TestAddBoxAtTarget(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	require.NoError(t, f.h.OnKeyDown(KeySpace, Modifiers{}))

	c := f.cube(0)
	assert.Equal(t, geometry.Vector3{}, c.Center)
	assert.Equal(t, unit(), c.Size)
	assert.Equal(t, geometry.Vector3{}, c.Orientation)
	assert.Equal(t, 0, c.AnchorIndex)
	assert.Equal(t, -1, c.SurfaceID)
	assert.Equal(t, []int{0}, f.store.State().SelectedLabelIDs())

	for i := 1; i <= 10; i++ {
		target := geometry.NewVector3(float64(i), float64(2*i), -float64(i))
		require.NoError(t, f.store.Dispatch(action.MoveCameraAndTarget{
			ViewerID: 0,
			Position: target.Add(geometry.NewVector3(0, -10, 10)),
			Target:   target,
		}))
		require.NoError(t, f.h.OnKeyDown(KeySpace, Modifiers{}))
		assert.True(t, f.cube(i).Center.Equals(target, eps), "box %d at %v", i, f.cube(i).Center)
		assert.Equal(t, []int{i}, f.store.State().SelectedLabelIDs())
	}
	assert.Equal(t, 11, f.store.State().LabelCount())
}

func TestAddBoxOnPlane(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	require.NoError(t, f.store.Dispatch(action.AddPlaneLabel(0, geometry.NewVector3(0, 0, 1), geometry.Vector3{})))
	require.NoError(t, f.h.OnKeyDown(KeySpace, Modifiers{}))

	c := f.cube(1)
	assert.Equal(t, 0, c.SurfaceID)
	assert.True(t, c.Center.Equals(geometry.NewVector3(0, 0, -1), eps), "%v", c.Center)

	plane, ok := f.list.Plane()
	require.True(t, ok)
	box, ok := f.list.Get(1)
	require.True(t, ok)
	assert.True(t, box.Node().WorldTransform().Position.Equals(geometry.Vector3{}, eps))

	// deselect puts the box back on its plane
	require.NoError(t, f.h.OnKeyDown(KeyEscape, Modifiers{}))
	assert.Equal(t, plane.Node(), box.Node().Parent())
}

func TestSingleSelectionGroup(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	id := f.addBox(geometry.NewVector3(1, 2, 3), geometry.NewVector3(2, 1, 1))
	require.NoError(t, f.store.Dispatch(action.SelectLabel(0, id, false)))

	g := f.list.Group().Transform()
	assert.Equal(t, geometry.NewVector3(1, 2, 3), g.Position)
	assert.Equal(t, geometry.NewVector3(2, 1, 1), g.Scale)
	box, _ := f.list.Get(id)
	assert.Equal(t, f.list.Group(), box.Node().Parent())
	assert.Equal(t, geometry.IdentityTransform(), box.Node().Transform())
	assert.True(t, f.list.Control().Attached())
	assert.True(t, f.list.Control().SetMode(gizmo.ModeScale))
}

func TestMultiSelectionGroup(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	a := f.addBox(geometry.Vector3{}, unit())
	b := f.addBox(geometry.NewVector3(4, 0, 0), unit())
	require.NoError(t, f.store.Dispatch(action.SelectLabels{Item: 0, LabelIDs: []int{a, b}}))

	g := f.list.Group().Transform()
	assert.True(t, g.Position.Equals(geometry.NewVector3(2, 0, 0), eps), "%v", g.Position)
	assert.Equal(t, geometry.IdentityQuaternion(), g.Rotation)
	assert.False(t, f.list.Control().SetMode(gizmo.ModeScale))
	assert.Len(t, f.list.Selected(), 2)
	assert.InDelta(t, 5, f.list.BoundingBox().Size().X, eps)
}

func TestClickSelection(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	a := f.addBox(geometry.Vector3{}, unit())
	b := f.addBox(geometry.NewVector3(4, 0, 0), unit())

	require.NoError(t, f.h.OnMouseDown(rayAt(0, 0), forward, Modifiers{}))
	assert.Equal(t, []int{a}, f.store.State().SelectedLabelIDs())

	require.NoError(t, f.h.OnMouseDown(rayAt(4, 0), forward, Modifiers{Ctrl: true}))
	assert.ElementsMatch(t, []int{a, b}, f.store.State().SelectedLabelIDs())

	require.NoError(t, f.h.OnMouseDown(rayAt(4, 0), forward, Modifiers{Ctrl: true}))
	assert.Equal(t, []int{a}, f.store.State().SelectedLabelIDs())

	require.NoError(t, f.h.OnMouseDown(rayAt(8, 8), forward, Modifiers{}))
	assert.Empty(t, f.store.State().SelectedLabelIDs())
	assert.False(t, f.list.Control().Attached())
	assert.Zero(t, f.store.undoable())
}

func TestHoverHighlightsLabel(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	a := f.addBox(geometry.Vector3{}, unit())

	assert.True(t, f.h.OnMouseMove(rayAt(0, 0)))
	lb, _ := f.list.Get(a)
	assert.True(t, lb.Highlighted())
	assert.Equal(t, uint8(0xff), lb.Color().G)

	assert.True(t, f.h.OnMouseMove(rayAt(5, 5)))
	assert.False(t, lb.Highlighted())
	assert.False(t, f.h.OnMouseMove(rayAt(6, 5)))
}

// grab grabs the translate gizmo on its x axis at x
func (f *fixture) grab(x float64) {
	f.t.Helper()
	require.NoError(f.t, f.h.OnKeyDown("t", Modifiers{}))
	require.Equal(f.t, gizmo.ModeTranslate, f.list.Control().Mode())
	require.NoError(f.t, f.h.OnMouseDown(rayAt(x, 0), forward, Modifiers{}))
	require.True(f.t, f.h.Dragging())
}

func TestTranslateCommitsOnce(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	id := f.addBox(geometry.Vector3{}, geometry.NewVector3(2, 1, 1))
	require.NoError(t, f.store.Dispatch(action.SelectLabel(0, id, false)))

	f.grab(0.5)
	f.h.OnMouseMove(rayAt(1.5, 3))
	f.h.OnMouseMove(rayAt(2.5, 0))
	assert.Zero(t, f.store.undoable(), "nothing is committed during the drag")
	require.NoError(t, f.h.OnMouseUp())

	assert.Equal(t, 1, f.store.undoable())
	c := f.cube(id)
	assert.True(t, c.Center.Equals(geometry.NewVector3(2, 0, 0), eps), "%v", c.Center)
	assert.True(t, c.Size.Equals(geometry.NewVector3(2, 1, 1), eps), "%v", c.Size)
	assert.True(t, c.Orientation.Equals(geometry.Vector3{}, eps))
	assert.Equal(t, []int{id}, f.store.State().SelectedLabelIDs())
	assert.True(t, f.list.Group().Transform().Position.Equals(geometry.NewVector3(2, 0, 0), eps))
}

func TestNoOpDragCommitsNothing(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	id := f.addBox(geometry.Vector3{}, unit())
	require.NoError(t, f.store.Dispatch(action.SelectLabel(0, id, false)))
	f.store.actions = nil

	f.grab(0.5)
	f.h.OnMouseMove(rayAt(0.5, 2))
	require.NoError(t, f.h.OnMouseUp())
	assert.Empty(t, f.store.actions)
}

func TestEscapeCancelsDrag(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	id := f.addBox(geometry.Vector3{}, unit())
	require.NoError(t, f.store.Dispatch(action.SelectLabel(0, id, false)))
	f.store.actions = nil

	f.grab(0.5)
	f.h.OnMouseMove(rayAt(3, 0))
	require.NoError(t, f.h.OnKeyDown(KeyEscape, Modifiers{}))
	assert.False(t, f.h.Dragging())
	assert.True(t, f.list.Group().Transform().Position.Equals(geometry.Vector3{}, eps))
	require.NoError(t, f.h.OnMouseUp())

	assert.Empty(t, f.store.actions)
	assert.Equal(t, []int{id}, f.store.State().SelectedLabelIDs())
}

func TestMultiSelectionMovesTogether(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	a := f.addBox(geometry.Vector3{}, unit())
	b := f.addBox(geometry.NewVector3(4, 0, 0), unit())
	require.NoError(t, f.store.Dispatch(action.SelectLabels{Item: 0, LabelIDs: []int{a, b}}))

	f.grab(2.5)
	f.h.OnMouseMove(rayAt(3.5, 0))
	require.NoError(t, f.h.OnMouseUp())

	require.Len(t, f.store.actions, 2)
	change, ok := f.store.actions[1].(action.ChangeShapes)
	require.True(t, ok)
	assert.Len(t, change.ShapeIDs[0], 2, "one action for all members")
	assert.True(t, f.cube(a).Center.Equals(geometry.NewVector3(1, 0, 0), eps), "%v", f.cube(a).Center)
	assert.True(t, f.cube(b).Center.Equals(geometry.NewVector3(5, 0, 0), eps), "%v", f.cube(b).Center)
	assert.True(t, f.list.Group().Transform().Position.Equals(geometry.NewVector3(3, 0, 0), eps),
		"the group keeps its transform while the selection is unchanged")
}

func TestCycleAnchor(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	id := f.addBox(geometry.Vector3{}, unit())
	require.NoError(t, f.store.Dispatch(action.SelectLabel(0, id, false)))

	require.NoError(t, f.h.OnKeyDown("f", Modifiers{}))
	require.NoError(t, f.h.OnKeyDown("F", Modifiers{}))
	assert.Equal(t, 2, f.cube(id).AnchorIndex)
	assert.True(t, f.cube(id).Center.Equals(geometry.Vector3{}, eps))
}

func TestTogglePlane(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	require.NoError(t, f.h.OnKeyDown("p", Modifiers{}), "no plane is a no-op")
	require.NoError(t, f.store.Dispatch(action.AddPlaneLabel(0, geometry.Vector3{}, geometry.Vector3{})))

	require.NoError(t, f.h.OnKeyDown("p", Modifiers{}))
	assert.Equal(t, []int{0}, f.store.State().SelectedLabelIDs())
	assert.False(t, f.list.Control().SetMode(gizmo.ModeScale), "planes do not scale")
	require.NoError(t, f.h.OnKeyDown("p", Modifiers{}))
	assert.Empty(t, f.store.State().SelectedLabelIDs())
}

func TestDeleteKey(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	id := f.addBox(geometry.Vector3{}, unit())
	require.NoError(t, f.store.Dispatch(action.SelectLabel(0, id, false)))
	require.NoError(t, f.h.OnKeyDown(KeyDelete, Modifiers{}))

	assert.Zero(t, f.store.State().LabelCount())
	_, ok := f.list.Get(id)
	assert.False(t, ok)
	assert.False(t, f.list.Control().Attached())
}

func TestTrackingBoxes(t *testing.T) {
	cfg := pointCloudConfig()
	cfg.Tracking = true
	f := newFixture(t, cfg, track.NewIndex(track.Duplicate{}))
	require.NoError(t, f.h.OnKeyDown(KeySpace, Modifiers{}))

	st := f.store.State()
	require.Len(t, st.Task.Tracks, 1)
	assert.Equal(t, 3, st.LabelCount())
	assert.Equal(t, []int{0}, st.SelectedLabelIDs())

	before := map[int]geometry.Vector3{}
	for idx, labelID := range st.Task.Tracks[0].Labels {
		before[idx] = st.Task.Items[idx].LabelShapes(labelID)[0].Cube.Center
	}

	f.store.actions = nil
	f.grab(0.5)
	f.h.OnMouseMove(rayAt(1.5, 0))
	require.NoError(t, f.h.OnMouseUp())

	st = f.store.State()
	for idx, labelID := range st.Task.Tracks[0].Labels {
		c := st.Task.Items[idx].LabelShapes(labelID)[0].Cube
		assert.True(t, c.Center.Equals(geometry.NewVector3(1, 0, 0), eps), "item %d at %v", idx, c.Center)
	}
	assert.Equal(t, 1, f.store.undoable())

	undone, err := f.store.Undo()
	require.NoError(t, err)
	require.True(t, undone)
	st = f.store.State()
	for idx, labelID := range st.Task.Tracks[0].Labels {
		c := st.Task.Items[idx].LabelShapes(labelID)[0].Cube
		assert.True(t, c.Center.Equals(before[idx], eps), "item %d at %v after undo", idx, c.Center)
	}
}

func TestListFollowsItem(t *testing.T) {
	f := newFixture(t, pointCloudConfig(), nil)
	id := f.addBox(geometry.Vector3{}, unit())
	lb, _ := f.list.Get(id)
	lb2, ok := f.list.LabelFromNode(lb.Node())
	require.True(t, ok)
	assert.Equal(t, lb, lb2)

	require.NoError(t, f.store.Dispatch(action.GoToItem{ItemIndex: 1}))
	assert.Empty(t, f.list.Labels())
	assert.Equal(t, 1, f.list.ItemIndex())
	assert.Empty(t, f.list.Root().Children())
}
