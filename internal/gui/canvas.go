package gui

import (
	"image"
	"image/color"
	"image/draw"
	"maps"
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/gogpu/gg"
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/asset"
	"github.com/philipparndt/golabel/internal/draw2d"
	"github.com/philipparndt/golabel/internal/label2d"
	"github.com/philipparndt/golabel/internal/picking"
	"github.com/philipparndt/golabel/internal/session"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/internal/view"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// ViewCommitDelay is the quiet period before a pan or zoom is committed
const ViewCommitDelay = 300 * time.Millisecond

var background = color.RGBA{R: 30, G: 32, B: 38, A: 255}

type scaleKey struct {
	item          int
	width, height int
}

// LabelCanvas shows the current image item with its labels and routes
// pointer and key input to the label handler
type LabelCanvas struct {
	widget.BaseWidget

	session  *session.Session
	list     *label2d.List
	handler  *label2d.Handler
	control  *picking.ControlCanvas
	layer    *gg.Context
	view     *view.ImageView
	viewerID int
	commit   *view.Debouncer
	unsub    func()

	raster    *canvas.Image
	scaled    *image.RGBA
	scaledKey scaleKey
	layerSize image.Point

	keys       modifierKeys
	pressed    bool
	panning    bool
	lastPos    fyne.Position
	hideLabels bool
	cursorName string

	// OnKey receives the keys the canvas does not handle itself
	OnKey func(name string, mods label2d.Modifiers) bool
	// OnError receives failed label edits
	OnError func(err error)
	// OnChanged is called after every redraw
	OnChanged func()
}

// NewLabelCanvas creates the canvas of a session. tags may be nil.
func NewLabelCanvas(sess *session.Session, tags *draw2d.TagRenderer) *LabelCanvas {
	list := label2d.NewList(tags)
	control := picking.NewControlCanvas(1, 1)
	c := &LabelCanvas{
		session:    sess,
		list:       list,
		control:    control,
		handler:    label2d.NewHandler(list, sess, control, sess.Tracks()),
		layer:      gg.NewContext(1, 1),
		view:       view.NewImageView(0, 0, 0, 0),
		commit:     view.NewDebouncer(ViewCommitDelay, sess.Post),
		raster:     canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1))),
		cursorName: "default",
	}
	c.raster.FillMode = canvas.ImageFillStretch
	c.raster.ScaleMode = canvas.ImageScaleFastest
	c.layerSize = image.Pt(1, 1)
	c.ExtendBaseWidget(c)

	list.UpdateState(sess.State())
	c.syncView(sess.State())
	c.unsub = sess.Store().Subscribe(func(st state.State) {
		c.list.UpdateState(st)
		c.syncView(st)
		c.redraw()
	})
	return c
}

// CreateRenderer creates the renderer for the widget
func (c *LabelCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.raster)
}

// MinSize keeps room for the image
func (c *LabelCanvas) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Resize lays out the widget and redraws at the new size
func (c *LabelCanvas) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	c.redraw()
}

// List returns the label list
func (c *LabelCanvas) List() *label2d.List { return c.list }

// SetHideLabels hides or shows the label layer
func (c *LabelCanvas) SetHideLabels(hide bool) {
	c.hideLabels = hide
	c.redraw()
}

// Close stops listening to the session
func (c *LabelCanvas) Close() error {
	c.commit.Stop()
	if c.unsub != nil {
		c.unsub()
	}
	return c.control.Close()
}

// syncView takes over the committed viewer config unless a pan or zoom
// is still waiting to be committed
func (c *LabelCanvas) syncView(st state.State) {
	if c.commit.Pending() {
		return
	}
	if vc, ok := st.User.ViewerConfigs[c.viewerID]; ok && vc.Image != nil {
		c.view.Config = *vc.Image
	}
}

// toCanvas converts a widget position to label canvas pixels
func (c *LabelCanvas) toCanvas(pos fyne.Position) (float64, float64) {
	px, py := c.view.Padding()
	return float64(pos.X) - px + c.view.Config.ViewOffsetX, float64(pos.Y) - py + c.view.Config.ViewOffsetY
}

// redraw renders the image, the label layer and the control layer
func (c *LabelCanvas) redraw() {
	size := c.Size()
	width, height := int(size.Width), int(size.Height)
	if width <= 0 || height <= 0 {
		return
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	st := c.session.State()
	item, ok := st.CurrentItem()
	img, loaded := c.session.Image(item.Index)
	if ok && loaded && item.Loaded {
		c.drawItem(out, item.Index, img)
	}

	c.raster.Image = out
	c.raster.Refresh()
	if c.OnChanged != nil {
		c.OnChanged()
	}
}

func (c *LabelCanvas) drawItem(out *image.RGBA, index int, img image.Image) {
	b := img.Bounds()
	size := out.Bounds().Size()
	c.view.DisplayWidth, c.view.DisplayHeight = float64(size.X), float64(size.Y)
	c.view.ImageWidth, c.view.ImageHeight = float64(b.Dx()), float64(b.Dy())
	// clamp the scroll position to the current size
	c.view.Pan(0, 0)

	cw, ch := c.view.CanvasSize()
	ratio := c.view.DisplayToImageRatio()
	c.handler.SetView(ratio, float64(b.Dx()), float64(b.Dy()))

	key := scaleKey{item: index, width: int(math.Round(cw)), height: int(math.Round(ch))}
	if c.scaled == nil || key != c.scaledKey {
		c.scaled = asset.Upscale(img, ratio)
		c.scaledKey = key
	}
	if layer := image.Pt(key.width, key.height); layer != c.layerSize {
		if err := c.layer.Resize(max(layer.X, 1), max(layer.Y, 1)); err != nil {
			c.report(err)
			return
		}
		if err := c.control.Resize(layer.X, layer.Y); err != nil {
			c.report(err)
			return
		}
		c.layerSize = layer
	}
	c.layer.Clear()
	if err := c.handler.Redraw(c.layer, c.hideLabels); err != nil {
		c.report(err)
	}

	px, py := c.view.Padding()
	origin := image.Pt(int(px-c.view.Config.ViewOffsetX), int(py-c.view.Config.ViewOffsetY))
	compose(out, origin, c.scaled, c.layer.Image())
}

// compose draws the scaled image and the label layer at origin
func compose(dst *image.RGBA, origin image.Point, scaled, layer image.Image) {
	r := scaled.Bounds().Sub(scaled.Bounds().Min).Add(origin)
	draw.Draw(dst, r, scaled, scaled.Bounds().Min, draw.Src)
	if layer != nil {
		lr := layer.Bounds().Sub(layer.Bounds().Min).Add(origin)
		draw.Draw(dst, lr, layer, layer.Bounds().Min, draw.Over)
	}
}

func (c *LabelCanvas) report(err error) {
	if err != nil && c.OnError != nil {
		c.OnError(err)
	}
}

func (c *LabelCanvas) requestFocus() {
	if app := fyne.CurrentApp(); app != nil {
		if cv := app.Driver().CanvasForObject(c); cv != nil {
			cv.Focus(c)
		}
	}
}

// MouseDown starts a label gesture with the primary button and a pan
// with the others
func (c *LabelCanvas) MouseDown(ev *desktop.MouseEvent) {
	c.requestFocus()
	c.lastPos = ev.Position
	if ev.Button != desktop.MouseButtonPrimary {
		c.panning = true
		return
	}
	c.pressed = true
	x, y := c.toCanvas(ev.Position)
	c.report(c.handler.OnMouseDown(x, y, modifiers(ev.Modifier)))
	c.redraw()
}

// MouseUp ends the gesture
func (c *LabelCanvas) MouseUp(ev *desktop.MouseEvent) {
	if c.panning && ev.Button != desktop.MouseButtonPrimary {
		c.panning = false
		return
	}
	c.release(ev.Position)
}

func (c *LabelCanvas) release(pos fyne.Position) {
	if !c.pressed {
		return
	}
	c.pressed = false
	x, y := c.toCanvas(pos)
	c.report(c.handler.OnMouseUp(x, y))
	c.redraw()
}

func (c *LabelCanvas) MouseIn(ev *desktop.MouseEvent) {}

// MouseMoved updates the hover highlight
func (c *LabelCanvas) MouseMoved(ev *desktop.MouseEvent) {
	c.move(ev.Position)
}

func (c *LabelCanvas) MouseOut() {}

func (c *LabelCanvas) move(pos fyne.Position) {
	x, y := c.toCanvas(pos)
	c.cursorName = c.handler.OnMouseMove(x, y)
	c.lastPos = pos
	c.redraw()
}

// Dragged pans with the secondary buttons and drags labels otherwise
func (c *LabelCanvas) Dragged(ev *fyne.DragEvent) {
	if c.panning {
		c.pan(float64(ev.Dragged.DX), float64(ev.Dragged.DY))
		return
	}
	c.move(ev.Position)
}

// DragEnd finishes a drag whose button release was not reported
func (c *LabelCanvas) DragEnd() {
	c.panning = false
	c.release(c.lastPos)
}

// Scrolled zooms with a modifier held and pans otherwise
func (c *LabelCanvas) Scrolled(ev *fyne.ScrollEvent) {
	mods := c.keys.modifiers()
	if mods.Ctrl || mods.Meta {
		ratio := math.Pow(view.ScrollZoomRatio, float64(ev.Scrolled.DY))
		c.zoom(ratio, geometry.NewVector2(float64(ev.Position.X), float64(ev.Position.Y)))
		return
	}
	c.pan(float64(ev.Scrolled.DX), float64(ev.Scrolled.DY))
}

// Cursor returns the cursor of the hovered label
func (c *LabelCanvas) Cursor() desktop.Cursor {
	return cursor(c.cursorName)
}

func (c *LabelCanvas) zoom(ratio float64, anchor geometry.Vector2) {
	cfg, ok := c.view.Zoom(ratio, anchor)
	if !ok {
		return
	}
	c.updateView(cfg)
}

func (c *LabelCanvas) pan(dx, dy float64) {
	c.updateView(c.view.Pan(dx, dy))
}

// updateView shows a pan or zoom at once and commits it once input
// settles
func (c *LabelCanvas) updateView(cfg state.ViewerConfig) {
	next := *cfg.Image
	c.session.FastStore().Update(func(st state.State) state.State {
		return withImageConfig(st, c.viewerID, next)
	})
	c.commit.Trigger(func() {
		st := c.session.State()
		vc, ok := st.User.ViewerConfigs[c.viewerID]
		if !ok {
			return
		}
		vc.Image = &next
		c.report(c.session.Dispatch(action.ChangeViewerConfig{ViewerID: c.viewerID, Config: vc}))
	})
	c.redraw()
}

func withImageConfig(st state.State, viewerID int, cfg state.ImageViewerConfig) state.State {
	configs := maps.Clone(st.User.ViewerConfigs)
	vc := configs[viewerID]
	vc.Image = &cfg
	configs[viewerID] = vc
	st.User.ViewerConfigs = configs
	return st
}

func (c *LabelCanvas) FocusGained()   {}
func (c *LabelCanvas) FocusLost()     { c.keys = modifierKeys{} }
func (c *LabelCanvas) TypedRune(rune) {}

// TypedKey handles zoom and visibility keys and hands the rest to the
// label handler
func (c *LabelCanvas) TypedKey(ev *fyne.KeyEvent) {
	name := keyName(ev.Name)
	if name == "" {
		return
	}
	c.onKey(name, c.keys.modifiers())
}

func (c *LabelCanvas) onKey(name string, mods label2d.Modifiers) {
	center := geometry.NewVector2(-1, -1)
	switch name {
	case "=", "+":
		c.zoom(view.ZoomRatio, center)
		return
	case "-":
		c.zoom(1/view.ZoomRatio, center)
		return
	case "h":
		c.SetHideLabels(!c.hideLabels)
		return
	}
	if c.OnKey != nil && c.OnKey(name, mods) {
		return
	}
	c.report(c.handler.OnKeyDown(name, mods))
	c.redraw()
}

// KeyDown tracks modifier keys
func (c *LabelCanvas) KeyDown(ev *fyne.KeyEvent) { c.keys.set(ev.Name, true) }

// KeyUp tracks modifier keys
func (c *LabelCanvas) KeyUp(ev *fyne.KeyEvent) { c.keys.set(ev.Name, false) }

var (
	_ fyne.Widget       = (*LabelCanvas)(nil)
	_ fyne.Draggable    = (*LabelCanvas)(nil)
	_ fyne.Scrollable   = (*LabelCanvas)(nil)
	_ desktop.Mouseable = (*LabelCanvas)(nil)
	_ desktop.Hoverable = (*LabelCanvas)(nil)
	_ desktop.Keyable   = (*LabelCanvas)(nil)
	_ desktop.Cursorable = (*LabelCanvas)(nil)
)
