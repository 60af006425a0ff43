package app

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/philipparndt/golabel/internal/gizmo"
)

func rlColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func drawSegments(segments []gizmo.Segment, c rl.Color) {
	for _, s := range segments {
		rl.DrawLine3D(toRL(s.A), toRL(s.B), c)
	}
}

// drawThickSegments draws segments as thin cylinders, which stay visible
// at any zoom level
func drawThickSegments(segments []gizmo.Segment, thickness float32, c rl.Color) {
	for _, s := range segments {
		rl.DrawCylinderEx(toRL(s.A), toRL(s.B), thickness, thickness, 6, c)
	}
}

// drawLabels draws the boxes and plane grids of the current item.
// Selected labels are drawn thicker.
func (app *App) drawLabels() {
	thickness := float32(app.Camera.control.Camera().Distance() * 0.002)
	for _, lb := range app.Labels.list.Labels() {
		c := rlColor(lb.Color())
		if lb.Selected() {
			drawThickSegments(lb.Segments(), thickness, c)
			continue
		}
		drawSegments(lb.Segments(), c)
	}
}

// drawGizmo draws the units of the active controller around the selection
func (app *App) drawGizmo() {
	control := app.Labels.list.Control()
	if !control.Attached() {
		return
	}
	current := control.Current()
	frame := current.Frame()
	for _, unit := range current.Units() {
		drawSegments(unit.Segments(frame), rlColor(unit.Color()))
	}
}
