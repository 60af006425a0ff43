package gui

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/label2d"
	"github.com/philipparndt/golabel/internal/reducer"
	"github.com/philipparndt/golabel/internal/session"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyName(t *testing.T) {
	cases := map[fyne.KeyName]string{
		fyne.KeyEscape:    label2d.KeyEscape,
		fyne.KeyReturn:    label2d.KeyEnter,
		fyne.KeyEnter:     label2d.KeyEnter,
		fyne.KeyDelete:    label2d.KeyDelete,
		fyne.KeyBackspace: label2d.KeyBackspace,
		fyne.KeyN:         "n",
		fyne.KeyMinus:     "-",
		fyne.KeyF1:        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, keyName(in), "key %s", in)
	}
}

func TestModifiers(t *testing.T) {
	m := modifiers(fyne.KeyModifierControl | fyne.KeyModifierShift)
	assert.Equal(t, label2d.Modifiers{Ctrl: true, Shift: true}, m)

	var keys modifierKeys
	keys.set(desktop.KeySuperLeft, true)
	keys.set(desktop.KeyShiftRight, true)
	keys.set(desktop.KeyShiftRight, false)
	assert.Equal(t, label2d.Modifiers{Meta: true}, keys.modifiers())
}

func TestCursor(t *testing.T) {
	assert.Equal(t, desktop.CrosshairCursor, cursor("crosshair"))
	assert.Equal(t, desktop.PointerCursor, cursor("move"))
	assert.Equal(t, desktop.VResizeCursor, cursor("ns-resize"))
	assert.Equal(t, desktop.DefaultCursor, cursor("unknown"))
}

func TestCompose(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	scaled := image.NewRGBA(image.Rect(0, 0, 4, 4))
	layer := image.NewRGBA(image.Rect(0, 0, 4, 4))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	for y := range 4 {
		for x := range 4 {
			scaled.SetRGBA(x, y, red)
		}
	}
	layer.SetRGBA(1, 1, blue)

	compose(dst, image.Pt(3, 2), scaled, layer)
	assert.Equal(t, red, dst.RGBAAt(3, 2))
	assert.Equal(t, blue, dst.RGBAAt(4, 3), "opaque layer pixels cover the image")
	assert.Equal(t, red, dst.RGBAAt(6, 5), "transparent layer pixels keep the image")
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(7, 6))
}

func labelState(t *testing.T) state.State {
	t.Helper()
	cfg := state.MakeTaskConfig()
	cfg.Categories = []string{"car", "person"}
	cfg.LabelTypes = []string{state.LabelBox2D, state.LabelTag}
	st := state.MakeState(cfg, []string{"a.png"})
	st, err := reducer.Reduce(st, action.AddBox2dLabel(0, []int{0}, 0, 0, 10, 10))
	require.NoError(t, err)
	st, err = reducer.Reduce(st, action.SelectLabel(0, 0, false))
	require.NoError(t, err)
	return st
}

func TestCategoryActions(t *testing.T) {
	st := labelState(t)
	actions := categoryActions(st, "person")
	require.Len(t, actions, 2)
	for _, a := range actions {
		next, err := reducer.Reduce(st, a)
		require.NoError(t, err)
		st = next
	}
	assert.Equal(t, 1, st.User.Select.Category)
	assert.Equal(t, []int{1}, st.Task.Items[0].Labels[0].Category)
	assert.Equal(t, []int{0}, st.SelectedLabelIDs())

	assert.Len(t, categoryActions(st, "person"), 1, "labels already in the category are not changed")
	assert.Empty(t, categoryActions(st, "bike"))
}

func TestLabelTypeAction(t *testing.T) {
	st := labelState(t)
	_, ok := labelTypeAction(st, state.LabelBox2D)
	assert.False(t, ok, "already selected")

	a, ok := labelTypeAction(st, state.LabelTag)
	require.True(t, ok)
	st, err := reducer.Reduce(st, a)
	require.NoError(t, err)
	assert.Equal(t, 1, st.User.Select.LabelType)
	assert.Equal(t, []int{0}, st.SelectedLabelIDs())
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func mouse(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func TestCanvasDrawsBox(t *testing.T) {
	test.NewTempApp(t)
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 100, 50)

	cfg := state.MakeTaskConfig()
	sess := session.New(state.MakeState(cfg, []string{"a.png"}), session.WithAssetDir(dir))
	defer sess.Close()

	c := NewLabelCanvas(sess, nil)
	defer c.Close()
	c.Resize(fyne.NewSize(200, 100))

	require.NoError(t, sess.GoToItem(0))
	require.Eventually(t, func() bool {
		sess.Drain()
		return sess.State().Task.Items[0].Loaded
	}, 2*time.Second, 10*time.Millisecond)

	// the image fills the display at twice its size
	c.MouseDown(mouse(20, 20))
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(70, 50)}, Dragged: fyne.NewDelta(50, 30)})
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(120, 80)}, Dragged: fyne.NewDelta(50, 30)})
	c.MouseUp(mouse(120, 80))
	c.DragEnd()

	item := sess.State().Task.Items[0]
	require.Len(t, item.Labels, 1)
	shapes := item.LabelShapes(0)
	require.NotEmpty(t, shapes)
	assert.Equal(t, state.Rect{X: 10, Y: 10, W: 50, H: 30}, *shapes[0].Rect)
	assert.Equal(t, []int{0}, sess.State().SelectedLabelIDs())

	c.onKey(label2d.KeyEscape, label2d.Modifiers{})
	assert.Empty(t, sess.State().SelectedLabelIDs())
}

func TestCanvasZoomCommitsOnce(t *testing.T) {
	test.NewTempApp(t)
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 100, 50)

	sess := session.New(state.MakeState(state.MakeTaskConfig(), []string{"a.png"}), session.WithAssetDir(dir))
	defer sess.Close()
	c := NewLabelCanvas(sess, nil)
	defer c.Close()
	c.Resize(fyne.NewSize(200, 100))
	require.NoError(t, sess.GoToItem(0))
	require.Eventually(t, func() bool {
		sess.Drain()
		return sess.State().Task.Items[0].Loaded
	}, 2*time.Second, 10*time.Millisecond)

	c.onKey("=", label2d.Modifiers{})
	c.onKey("=", label2d.Modifiers{})
	fast := sess.FastStore().State().User.ViewerConfigs[0].Image
	require.NotNil(t, fast)
	assert.InDelta(t, 1.05*1.05, fast.ViewScale, 1e-9)
	assert.InDelta(t, 1.0, sess.State().User.ViewerConfigs[0].Image.ViewScale, 1e-9, "not committed yet")

	require.Eventually(t, func() bool {
		sess.Drain()
		return sess.State().User.ViewerConfigs[0].Image.ViewScale > 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.InDelta(t, 1.05*1.05, sess.State().User.ViewerConfigs[0].Image.ViewScale, 1e-9)
}
