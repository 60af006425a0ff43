package view

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/internal/store"
	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestImageViewFit(t *testing.T) {
	v := NewImageView(200, 100, 400, 100)
	w, h := v.CanvasSize()
	assert.Equal(t, 200.0, w)
	assert.Equal(t, 50.0, h)
	assert.Equal(t, 0.5, v.DisplayToImageRatio())

	px, py := v.Padding()
	assert.Equal(t, 0.0, px)
	assert.Equal(t, 25.0, py)
	assert.Equal(t, geometry.NewVector2(200, 50), v.ToImageCoords(100, 50))

	x, y := v.ToDisplayCoords(geometry.NewVector2(200, 50))
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 50.0, y)
}

func TestImageViewZoomKeepsAnchor(t *testing.T) {
	v := NewImageView(200, 100, 400, 100)
	cfg, ok := v.Zoom(1.5, geometry.NewVector2(-1, -1))
	require.True(t, ok)
	assert.Equal(t, state.ViewerImage, cfg.Type)
	assert.InDelta(t, 1.5, cfg.Image.ViewScale, eps)
	assert.InDelta(t, 50, cfg.Image.ViewOffsetX, eps)
	assert.InDelta(t, 0, cfg.Image.ViewOffsetY, eps)

	p := v.ToImageCoords(100, 50)
	assert.InDelta(t, 200, p.X, eps)
	assert.InDelta(t, 50, p.Y, eps)

	_, ok = v.Zoom(3, geometry.NewVector2(-1, -1))
	assert.False(t, ok, "above MaxScale")
	_, ok = v.Zoom(0.5, geometry.NewVector2(-1, -1))
	assert.False(t, ok, "below MinScale")
	assert.InDelta(t, 1.5, v.Config.ViewScale, eps)
}

func TestImageViewPanIsClamped(t *testing.T) {
	v := NewImageView(200, 100, 400, 100)
	_, ok := v.Zoom(1.5, geometry.NewVector2(-1, -1))
	require.True(t, ok)

	cfg := v.Pan(-30, 0)
	assert.InDelta(t, 80, cfg.Image.ViewOffsetX, eps)
	cfg = v.Pan(-100, 0)
	assert.InDelta(t, 100, cfg.Image.ViewOffsetX, eps)
	cfg = v.Pan(500, 0)
	assert.InDelta(t, 0, cfg.Image.ViewOffsetX, eps)
}

func TestDebouncerLastWriteWins(t *testing.T) {
	d := NewDebouncer(20*time.Millisecond, nil)
	var got atomic.Int32
	done := make(chan struct{})
	for i := int32(1); i <= 3; i++ {
		d.Trigger(func() {
			got.Store(i)
			close(done)
		})
	}
	assert.True(t, d.Pending())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced function did not run")
	}
	assert.Equal(t, int32(3), got.Load())
	assert.Eventually(t, func() bool { return !d.Pending() }, time.Second, 5*time.Millisecond)
}

func TestDebouncerStopAndPost(t *testing.T) {
	d := NewDebouncer(10*time.Millisecond, nil)
	var ran atomic.Bool
	d.Trigger(func() { ran.Store(true) })
	d.Stop()
	time.Sleep(40 * time.Millisecond)
	assert.False(t, ran.Load())

	posted := make(chan func(), 1)
	d = NewDebouncer(time.Millisecond, func(fn func()) { posted <- fn })
	d.Trigger(func() { ran.Store(true) })
	select {
	case fn := <-posted:
		assert.False(t, ran.Load(), "posted functions run on the caller's loop")
		fn()
		assert.True(t, ran.Load())
	case <-time.After(time.Second):
		t.Fatal("nothing posted")
	}
}

func pointCloudState() state.State {
	cfg := state.MakeTaskConfig()
	cfg.ItemType = state.ItemPointCloud
	cfg.LabelTypes = []string{state.LabelBox3D}
	return state.MakeState(cfg, []string{"a.ply"})
}

func TestPanKey(t *testing.T) {
	cfg := *state.MakePointCloudViewerConfig(0).PointCloud

	next, ok := PanKey(KeyArrowUp, cfg)
	require.True(t, ok)
	assert.True(t, next.Target.Equals(geometry.NewVector3(0, MoveAmount, 0), eps), "%v", next.Target)
	assert.True(t, next.Position.Equals(geometry.NewVector3(0, -10+MoveAmount, 10), eps))

	next, _ = PanKey(KeyArrowLeft, cfg)
	assert.True(t, next.Target.Equals(geometry.NewVector3(-MoveAmount, 0, 0), eps), "%v", next.Target)

	next, _ = PanKey(KeyPeriod, cfg)
	assert.True(t, next.Target.Equals(geometry.NewVector3(0, 0, MoveAmount), eps))
	next, _ = PanKey(KeySlash, cfg)
	assert.True(t, next.Target.Equals(geometry.NewVector3(0, 0, -MoveAmount), eps))

	_, ok = PanKey("x", cfg)
	assert.False(t, ok)
}

func TestCameraDragUsesFastStore(t *testing.T) {
	s := store.New(pointCloudState())
	fast := store.NewFastStore(s.State())
	s.Subscribe(fast.Sync)
	c := NewCamera3D(s, fast, 0)
	start := c.Camera().Position

	c.OnDragStart(0, 0)
	c.OnDrag(50, 0)
	c.OnDrag(100, 0)
	assert.True(t, c.Dragging())
	moved := fast.State().User.ViewerConfigs[0].PointCloud.Position
	assert.False(t, moved.Equals(start, 1e-6), "the drag shows in the fast store")
	assert.Equal(t, start, s.State().User.ViewerConfigs[0].PointCloud.Position, "and not in the store")

	require.NoError(t, c.OnDragEnd())
	assert.True(t, s.State().User.ViewerConfigs[0].PointCloud.Position.Equals(moved, eps))
	assert.False(t, s.CanUndo(), "camera moves are not undoable")
}

func TestCameraKeysAndScroll(t *testing.T) {
	s := store.New(pointCloudState())
	c := NewCamera3D(s, nil, 0)

	used, err := c.OnKeyDown(KeyArrowUp)
	require.NoError(t, err)
	assert.True(t, used)
	assert.InDelta(t, MoveAmount, s.State().User.ViewerConfigs[0].PointCloud.Target.Y, eps)

	used, err = c.OnKeyDown("q")
	require.NoError(t, err)
	assert.False(t, used)

	before := c.Camera().Distance()
	require.NoError(t, c.OnScroll(1))
	assert.InDelta(t, before/ScrollDolly, c.Camera().Distance(), 1e-9)
}
