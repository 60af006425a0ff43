package app

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/golabel/internal/label3d"
	"github.com/philipparndt/golabel/internal/persist"
	"github.com/philipparndt/golabel/internal/view"
)

// clickTolerance is the mouse travel in pixels that still counts as a click
const clickTolerance = 3

// namedKeys maps raylib keys to the key names of the handlers
var namedKeys = map[int32]string{
	rl.KeyEscape:    label3d.KeyEscape,
	rl.KeyEnter:     label3d.KeyEnter,
	rl.KeyDelete:    label3d.KeyDelete,
	rl.KeyBackspace: label3d.KeyBackspace,
	rl.KeySpace:     label3d.KeySpace,
	rl.KeyUp:        view.KeyArrowUp,
	rl.KeyDown:      view.KeyArrowDown,
	rl.KeyLeft:      view.KeyArrowLeft,
	rl.KeyRight:     view.KeyArrowRight,
}

func modifiers() label3d.Modifiers {
	return label3d.Modifiers{
		Ctrl:  rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl),
		Shift: rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift),
		Meta:  rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper),
	}
}

// pressedKeys returns the names of the keys pressed this frame. Printable
// keys are reported by their character.
func pressedKeys() []string {
	var keys []string
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if name, ok := namedKeys[key]; ok {
			keys = append(keys, name)
		}
	}
	for ch := rl.GetCharPressed(); ch != 0; ch = rl.GetCharPressed() {
		if ch != ' ' {
			keys = append(keys, string(ch))
		}
	}
	return keys
}

// handleInput processes user input
func (app *App) handleInput() {
	mods := modifiers()
	for _, key := range pressedKeys() {
		app.onKey(key, mods)
	}
	// Ctrl turns letters into control codes, so the shortcuts are polled
	if mods.Ctrl || mods.Meta {
		app.handleShortcuts(mods)
	}

	ray, cam := app.mouseRay()
	handler := app.Labels.handler

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		app.Interaction.mouseDownPos = rl.GetMousePosition()
		app.Interaction.mouseMoved = false
		app.report(handler.OnMouseDown(ray, cam.Forward(), mods))
		app.Interaction.labelDrag = handler.Dragging()
		if !app.Interaction.labelDrag {
			pos := app.Interaction.mouseDownPos
			app.Camera.control.OnDragStart(float64(pos.X), float64(pos.Y))
			app.Interaction.orbiting = true
		}
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		pos := rl.GetMousePosition()
		delta := rl.Vector2Subtract(pos, app.Interaction.mouseDownPos)
		if delta.X*delta.X+delta.Y*delta.Y > clickTolerance*clickTolerance {
			app.Interaction.mouseMoved = true
		}
		if app.Interaction.orbiting && app.Interaction.mouseMoved {
			app.Camera.control.OnDrag(float64(pos.X), float64(pos.Y))
		}
	}
	if app.Interaction.labelDrag || !rl.IsMouseButtonDown(rl.MouseLeftButton) {
		handler.OnMouseMove(ray)
	}

	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		if app.Interaction.labelDrag {
			app.report(handler.OnMouseUp())
		}
		if app.Interaction.orbiting {
			app.report(app.Camera.control.OnDragEnd())
		}
		app.Interaction.labelDrag = false
		app.Interaction.orbiting = false
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !app.Interaction.orbiting {
		app.report(app.Camera.control.OnScroll(float64(wheel)))
	}
}

func (app *App) onKey(key string, mods label3d.Modifiers) {
	if mods.Ctrl || mods.Meta {
		// shortcuts are handled separately, except deleting tracks
		if key != label3d.KeyDelete && key != label3d.KeyBackspace {
			return
		}
	}
	switch strings.ToLower(key) {
	case "h":
		app.View.showHelp = !app.View.showHelp
		return
	case "w":
		app.View.showPoints = !app.View.showPoints
		return
	case "l":
		app.View.showLabels = !app.View.showLabels
		return
	case "n":
		app.goToItem(1)
		return
	case "b":
		app.goToItem(-1)
		return
	case "0":
		app.resetCameraView()
		return
	case "7":
		app.setCameraTopView()
		return
	}
	if !app.Labels.handler.Dragging() {
		used, err := app.Camera.control.OnKeyDown(key)
		app.report(err)
		if used {
			return
		}
	}
	app.report(app.Labels.handler.OnKeyDown(key, mods))
}

func (app *App) handleShortcuts(mods label3d.Modifiers) {
	switch {
	case rl.IsKeyPressed(rl.KeyZ) && mods.Shift, rl.IsKeyPressed(rl.KeyY):
		_, err := app.session.Redo()
		app.report(err)
	case rl.IsKeyPressed(rl.KeyZ):
		_, err := app.session.Undo()
		app.report(err)
	case rl.IsKeyPressed(rl.KeyS):
		app.save()
	}
}

func (app *App) goToItem(step int) {
	st := app.session.State()
	next := st.User.Select.Item + step
	if next < 0 || next >= len(st.Task.Items) || app.Labels.handler.Dragging() {
		return
	}
	app.report(app.session.GoToItem(next))
}

func (app *App) save() {
	if app.savePath == "" {
		app.UI.status = "no save path configured"
		return
	}
	if err := persist.SaveFile(app.savePath, app.session.State()); err != nil {
		app.report(err)
		return
	}
	app.UI.status = fmt.Sprintf("saved to %s", app.savePath)
	fmt.Printf("Saved state to %s\n", app.savePath)
}

func (app *App) report(err error) {
	if err != nil {
		app.UI.errText = err.Error()
	}
}
