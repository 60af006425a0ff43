package view

import (
	"maps"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/internal/store"
	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/philipparndt/golabel/pkg/viewer"
)

// Camera keys
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyPeriod     = "."
	KeySlash      = "/"
)

// Camera movement rates
const (
	MoveAmount  = 0.3
	OrbitSpeed  = 0.01
	ScrollDolly = 1.1
)

// PanKey moves target and position together. Arrow keys move in the plane
// normal to the vertical axis, relative to the view direction; period and
// slash move up and down along the vertical axis.
func PanKey(key string, cfg state.PointCloudViewerConfig) (state.PointCloudViewerConfig, bool) {
	cam := viewer.FromViewerConfig(cfg)
	up := cam.Up
	forward := cam.Forward()
	forward = forward.Sub(up.Mul(forward.Dot(up))).Normalize()
	left := up.Cross(forward).Normalize()

	var delta geometry.Vector3
	switch key {
	case KeyArrowUp:
		delta = forward
	case KeyArrowDown:
		delta = forward.Negate()
	case KeyArrowLeft:
		delta = left
	case KeyArrowRight:
		delta = left.Negate()
	case KeyPeriod:
		delta = up
	case KeySlash:
		delta = up.Negate()
	default:
		return cfg, false
	}
	cam.Translate(delta.Mul(MoveAmount))
	return cam.ViewerConfig(), true
}

// Orbit rotates the camera around its target by a pointer delta in pixels
func Orbit(cfg state.PointCloudViewerConfig, dx, dy float64) state.PointCloudViewerConfig {
	cam := viewer.FromViewerConfig(cfg)
	cam.Orbit(-dx*OrbitSpeed, -dy*OrbitSpeed)
	return cam.ViewerConfig()
}

// Dolly moves the camera towards the target for positive wheel steps
func Dolly(cfg state.PointCloudViewerConfig, steps float64) state.PointCloudViewerConfig {
	cam := viewer.FromViewerConfig(cfg)
	f := 1.0
	for i := 0.0; i < steps; i++ {
		f /= ScrollDolly
	}
	for i := 0.0; i > steps; i-- {
		f *= ScrollDolly
	}
	cam.Dolly(f)
	return cam.ViewerConfig()
}

// Dispatcher is the store camera moves are committed to
type Dispatcher interface {
	State() state.State
	Dispatch(a action.Action) error
}

// Camera3D drives the camera of one point cloud viewer. Drags write to
// the fast store and are committed to the store when the drag ends.
type Camera3D struct {
	store    Dispatcher
	fast     *store.FastStore
	viewerID int

	dragging bool
	lastX    float64
	lastY    float64
}

// NewCamera3D creates a camera controller for a viewer config id
func NewCamera3D(d Dispatcher, fast *store.FastStore, viewerID int) *Camera3D {
	return &Camera3D{store: d, fast: fast, viewerID: viewerID}
}

// Config returns the camera config, including an uncommitted drag
func (c *Camera3D) Config() (state.PointCloudViewerConfig, bool) {
	st := c.store.State()
	if c.fast != nil {
		st = c.fast.State()
	}
	vc, ok := st.User.ViewerConfigs[c.viewerID]
	if !ok || vc.PointCloud == nil {
		return state.PointCloudViewerConfig{}, false
	}
	return *vc.PointCloud, true
}

// Camera returns the current camera
func (c *Camera3D) Camera() *viewer.Camera {
	cfg, ok := c.Config()
	if !ok {
		cfg = *state.MakePointCloudViewerConfig(0).PointCloud
	}
	return viewer.FromViewerConfig(cfg)
}

func (c *Camera3D) Dragging() bool { return c.dragging }

// OnKeyDown handles the camera keys and reports whether the key was used
func (c *Camera3D) OnKeyDown(key string) (bool, error) {
	cfg, ok := c.Config()
	if !ok {
		return false, nil
	}
	next, ok := PanKey(key, cfg)
	if !ok {
		return false, nil
	}
	return true, c.store.Dispatch(action.MoveCameraAndTarget{ViewerID: c.viewerID, Position: next.Position, Target: next.Target})
}

// OnScroll dollies the camera by wheel steps
func (c *Camera3D) OnScroll(steps float64) error {
	cfg, ok := c.Config()
	if !ok || steps == 0 {
		return nil
	}
	next := Dolly(cfg, steps)
	return c.store.Dispatch(action.MoveCamera{ViewerID: c.viewerID, Position: next.Position})
}

// OnDragStart starts an orbit drag at a display position
func (c *Camera3D) OnDragStart(x, y float64) {
	c.dragging = true
	c.lastX, c.lastY = x, y
	if c.fast != nil {
		c.fast.Sync(c.store.State())
	}
}

// OnDrag orbits by the pointer delta since the last event
func (c *Camera3D) OnDrag(x, y float64) {
	if !c.dragging {
		return
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	cfg, ok := c.Config()
	if !ok {
		return
	}
	next := Orbit(cfg, dx, dy)
	if c.fast == nil {
		_ = c.store.Dispatch(action.MoveCamera{ViewerID: c.viewerID, Position: next.Position})
		return
	}
	c.fast.Update(func(st state.State) state.State {
		return withPointCloudConfig(st, c.viewerID, next)
	})
}

// OnDragEnd commits the dragged camera
func (c *Camera3D) OnDragEnd() error {
	if !c.dragging {
		return nil
	}
	c.dragging = false
	cfg, ok := c.Config()
	if !ok {
		return nil
	}
	return c.store.Dispatch(action.MoveCamera{ViewerID: c.viewerID, Position: cfg.Position})
}

func withPointCloudConfig(st state.State, viewerID int, cfg state.PointCloudViewerConfig) state.State {
	configs := maps.Clone(st.User.ViewerConfigs)
	vc := configs[viewerID]
	vc.PointCloud = &cfg
	configs[viewerID] = vc
	st.User.ViewerConfigs = configs
	return st
}
