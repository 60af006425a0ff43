package app

import (
	"io"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/golabel/internal/label3d"
	"github.com/philipparndt/golabel/internal/session"
	"github.com/philipparndt/golabel/internal/view"
)

// CameraState holds the camera of the point cloud viewer
type CameraState struct {
	viewerID int
	control  *view.Camera3D
	camera   rl.Camera3D
	// framed remembers the items whose stored camera was applied
	framed map[int]bool
}

// LabelState holds the 3D label scene of the current item
type LabelState struct {
	list    *label3d.List
	handler *label3d.Handler
}

// ViewSettings holds display settings
type ViewSettings struct {
	showPoints bool
	showLabels bool
	showHelp   bool
	pointSize  float32
}

// InteractionState holds mouse and interaction state
type InteractionState struct {
	mouseDownPos rl.Vector2
	mouseMoved   bool
	orbiting     bool
	labelDrag    bool
}

// FileWatchState holds task file watching state
type FileWatchState struct {
	taskFile string
	watch    io.Closer
}

// UIState holds UI-related state
type UIState struct {
	font    rl.Font
	status  string
	errText string
}

// App is the point cloud labelling window
type App struct {
	session     *session.Session
	savePath    string
	Camera      CameraState
	Labels      LabelState
	View        ViewSettings
	Interaction InteractionState
	FileWatch   FileWatchState
	UI          UIState
}
