package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/golabel/pkg/analysis"
	"github.com/philipparndt/golabel/version"
)

var helpLines = []string{
	"  Left Drag: Orbit | Wheel: Zoom",
	"  Arrows: Pan | . /: Up/Down",
	"  Space: Add box | P: Select plane",
	"  T/R/S: Translate/Rotate/Scale | Q: Frame",
	"  F: Cycle anchor | Del: Delete",
	"  Ctrl+Del: End track | Ctrl+Shift+Del: Delete track",
	"  N/B: Next/Previous item",
	"  Ctrl+Z: Undo | Ctrl+Shift+Z: Redo | Ctrl+S: Save",
	"  0: Reset view | 7: Top view",
	"  W: Points | L: Labels | H: Help",
}

// drawUI draws the user interface
func (app *App) drawUI() {
	y := float32(10)
	lineHeight := float32(20)
	fontSize16 := float32(16)
	fontSize14 := float32(14)
	fontSize12 := float32(12)
	text := func(s string, size float32, c rl.Color) {
		rl.DrawTextEx(app.UI.font, s, rl.Vector2{X: 10, Y: y}, size, 1, c)
		y += lineHeight
	}

	st := app.session.State()
	item, ok := st.CurrentItem()

	// === ITEM ===
	text("Item:", fontSize16, rl.Yellow)
	if ok {
		text(fmt.Sprintf("  %d / %d: %s", item.Index+1, len(st.Task.Items), item.URL), fontSize14, rl.White)
		if cloud, loaded := app.session.Cloud(item.Index); loaded {
			size := cloud.Bounds.Size()
			text(fmt.Sprintf("  Points: %d", cloud.Len()), fontSize14, rl.White)
			text(fmt.Sprintf("  Size: %.2f × %.2f × %.2f", size.X, size.Y, size.Z), fontSize14, rl.White)
		} else {
			text("  Loading...", fontSize14, rl.LightGray)
		}
	}
	y += lineHeight

	// === LABELS ===
	text("Labels:", fontSize16, rl.Yellow)
	categories := st.Task.Config.Categories
	labels := app.Labels.list.Labels()
	text(fmt.Sprintf("  Count: %d", len(labels)), fontSize14, rl.White)
	for _, lb := range app.Labels.list.Selected() {
		name := analysis.CategoryName(categories, lb.State().Category)
		pos := lb.Node().WorldTransform().Position
		line := fmt.Sprintf("  #%d %s %s at %s", lb.ID(), lb.Kind(), name, analysis.FormatVector(pos))
		if tr := lb.State().Track; tr >= 0 {
			line += fmt.Sprintf(" (track %d)", tr)
		}
		text(line, fontSize14, rlColor(lb.Color()))
	}
	if app.Labels.list.Control().Attached() {
		text(fmt.Sprintf("  Gizmo: %s", app.Labels.list.Control().Mode()), fontSize14, rl.NewColor(100, 200, 255, 255))
	}
	y += lineHeight

	if app.View.showHelp {
		text("Controls:", fontSize16, rl.Yellow)
		for _, l := range helpLines {
			text(l, fontSize14, rl.LightGray)
		}
	}

	screenWidth := float32(rl.GetScreenWidth())
	if app.UI.errText != "" || app.UI.status != "" {
		msg, c := app.UI.status, rl.Green
		if app.UI.errText != "" {
			msg, c = app.UI.errText, rl.Red
		}
		size := rl.MeasureTextEx(app.UI.font, msg, fontSize14, 1)
		boxX := screenWidth - size.X - 40
		rl.DrawRectangle(int32(boxX), 20, int32(size.X+20), int32(size.Y+16), rl.NewColor(0, 0, 0, 180))
		rl.DrawTextEx(app.UI.font, msg, rl.Vector2{X: boxX + 10, Y: 28}, fontSize14, 1, c)
	}

	// Version and FPS in bottom-left corner
	bottomY := float32(rl.GetScreenHeight()) - 30
	versionText := fmt.Sprintf("v%s", version.GetVersion())
	rl.DrawTextEx(app.UI.font, versionText, rl.Vector2{X: 10, Y: bottomY}, fontSize12, 1, rl.Gray)

	fpsText := fmt.Sprintf("FPS: %d", rl.GetFPS())
	versionWidth := rl.MeasureTextEx(app.UI.font, versionText, fontSize12, 1).X
	rl.DrawTextEx(app.UI.font, fpsText, rl.Vector2{X: 10 + versionWidth + 15, Y: bottomY}, fontSize12, 1, rl.Lime)
}
