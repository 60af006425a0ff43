// Package app is the raylib window for labelling point clouds with 3D
// boxes and ground planes.
package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/golabel/internal/label3d"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/session"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/internal/view"
	"golang.org/x/image/font/gofont/gomono"
)

// Options configure the window
type Options struct {
	Session *session.Session
	// TaskFile is watched and its config reloaded on change
	TaskFile string
	// SavePath is written on Ctrl+S when set
	SavePath string
	Title    string
}

// Run opens the window and blocks until it is closed
func Run(opts Options) error {
	sess := opts.Session
	if sess == nil {
		return fmt.Errorf("no session")
	}
	if sess.State().Task.Config.ItemType != state.ItemPointCloud {
		return fmt.Errorf("item type %q cannot be shown in the point cloud viewer", sess.State().Task.Config.ItemType)
	}
	title := opts.Title
	if title == "" {
		title = "golabel"
	}

	app := newApp(sess, opts.SavePath)
	app.FileWatch.taskFile = opts.TaskFile
	if opts.TaskFile != "" {
		if err := app.setupFileWatcher(); err != nil {
			logger.Logger().Warn("config reload not available", "file", opts.TaskFile, "error", err)
		} else {
			defer app.FileWatch.watch.Close()
		}
	}

	screenWidth := int32(1400)
	screenHeight := int32(900)
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagMsaa4xHint) // Must be before InitWindow
	rl.InitWindow(screenWidth, screenHeight, title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(rl.KeyNull) // Escape deselects

	app.UI.font = rl.LoadFontFromMemory(".ttf", gomono.TTF, 48, nil)

	if err := sess.GoToItem(sess.State().User.Select.Item); err != nil {
		app.UI.errText = err.Error()
	}

	for !rl.WindowShouldClose() {
		ctrlPressed := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl)
		if ctrlPressed && rl.IsKeyPressed(rl.KeyC) {
			break
		}

		// Asset loads and config reloads arrive here
		sess.Drain()
		app.frameLoadedItem()

		app.handleInput()
		app.updateCamera()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(15, 18, 25, 255))

		rl.BeginMode3D(app.Camera.camera)
		if app.View.showPoints {
			app.drawCloud()
		}
		if app.View.showLabels {
			app.drawLabels()
		}
		app.drawGizmo()
		rl.EndMode3D()

		app.drawUI()
		rl.EndDrawing()
	}

	rl.UnloadFont(app.UI.font)
	rl.CloseWindow()
	return nil
}

func newApp(sess *session.Session, savePath string) *App {
	list := label3d.NewList(nil)
	handler := label3d.NewHandler(list, sess, sess.Tracks())
	app := &App{
		session:  sess,
		savePath: savePath,
		Camera: CameraState{
			control: view.NewCamera3D(sess, sess.FastStore(), 0),
			framed:  map[int]bool{},
		},
		Labels: LabelState{list: list, handler: handler},
		View: ViewSettings{
			showPoints: true,
			showLabels: true,
			showHelp:   true,
			pointSize:  0.02,
		},
	}
	list.UpdateState(sess.State())
	sess.Store().Subscribe(list.UpdateState)
	return app
}
