package app

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/philipparndt/golabel/pkg/viewer"
)

// gizmoScale is the gizmo size relative to the camera distance
const gizmoScale = 0.15

func toRL(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// updateCamera copies the viewer camera, including an ongoing drag, into
// the raylib camera
func (app *App) updateCamera() {
	cam := app.Camera.control.Camera()
	app.Camera.camera = rl.Camera3D{
		Position:   toRL(cam.Position),
		Target:     toRL(cam.Target),
		Up:         toRL(cam.Up),
		Fovy:       float32(cam.FOV * 180 / math.Pi),
		Projection: rl.CameraPerspective,
	}
	app.Labels.list.Control().SetSize(cam.Distance() * gizmoScale)
}

// mouseRay returns the picking ray under the mouse
func (app *App) mouseRay() (geometry.Ray, *viewer.Camera) {
	cam := app.Camera.control.Camera()
	pos := rl.GetMousePosition()
	w := float64(rl.GetScreenWidth())
	h := float64(rl.GetScreenHeight())
	return cam.Unproject(float64(pos.X), float64(pos.Y), w, h), cam
}

// frameLoadedItem applies the camera stored with a freshly loaded item
// once
func (app *App) frameLoadedItem() {
	st := app.session.State()
	item, ok := st.CurrentItem()
	if !ok || !item.Loaded || app.Camera.framed[item.Index] {
		return
	}
	app.Camera.framed[item.Index] = true
	if _, err := app.session.FrameItem(app.Camera.viewerID); err != nil {
		app.UI.errText = err.Error()
	}
}

// resetCameraView looks at the cloud again from the default angle
func (app *App) resetCameraView() {
	item, ok := app.session.State().CurrentItem()
	if !ok {
		return
	}
	cloud, ok := app.session.Cloud(item.Index)
	if !ok || cloud.Len() == 0 {
		return
	}
	app.setCamera(viewer.NewCamera(cloud.Bounds).ViewerConfig())
}

// setCameraTopView looks straight down the vertical axis
func (app *App) setCameraTopView() {
	cam := app.Camera.control.Camera()
	up := cam.Up.Normalize()
	// a small offset keeps the forward vector off the up axis
	offset := up.Mul(cam.Distance()).Add(geometry.NewVector3(0, -1e-3, 0))
	app.setCamera(state.PointCloudViewerConfig{
		Position:     cam.Target.Add(offset),
		Target:       cam.Target,
		VerticalAxis: cam.Up,
	})
}

func (app *App) setCamera(cfg state.PointCloudViewerConfig) {
	vc, ok := app.session.State().User.ViewerConfigs[app.Camera.viewerID]
	if !ok {
		return
	}
	vc.PointCloud = &cfg
	if err := app.session.Dispatch(action.ChangeViewerConfig{ViewerID: app.Camera.viewerID, Config: vc}); err != nil {
		app.UI.errText = err.Error()
	}
}
