// Package draw2d renders label primitives onto a 2D canvas. The same
// drawables draw the visible label layer and the control layer used for
// picking, only the style differs.
package draw2d

import "github.com/gogpu/gg"

// Canvas is the drawing surface of 2D labels. *gg.Context satisfies it.
type Canvas interface {
	Push()
	Pop()
	SetRGBA(r, g, b, a float64)
	SetLineWidth(width float64)
	SetDash(lengths ...float64)
	ClearDash()
	DrawRectangle(x, y, w, h float64)
	DrawCircle(x, y, r float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke() error
	Fill() error
	DrawImage(img *gg.ImageBuf, x, y float64)
}

var _ Canvas = (*gg.Context)(nil)

// Mode selects between the visible layer and the picking layer
type Mode int

const (
	ModeView Mode = iota
	ModeControl
)

// Drawing constants in display pixels
const (
	HandleRadius        = 8.0
	HoveredHandleRadius = 12.0
	ControlHandleRadius = 12.0
	LineWidth           = 4.0
	ControlLineWidth    = 10.0
	ControlPointAlpha   = 0.5
)

// ControlFillColor fills handles on the visible layer
var ControlFillColor = [3]uint8{255, 255, 255}

// Style describes how a drawable is painted
type Style struct {
	Color     [3]uint8
	Alpha     float64
	LineWidth float64
	Radius    float64
	Dashed    bool
}

// DefaultRectStyle is used for box outlines
func DefaultRectStyle() Style {
	return Style{Color: [3]uint8{0, 0, 0}, Alpha: 1, LineWidth: LineWidth}
}

// DefaultPointStyle is used for handles
func DefaultPointStyle() Style {
	return Style{Color: [3]uint8{0, 0, 0}, Alpha: 1, Radius: HandleRadius}
}

// ControlStyle paints in a control color. Control pixels must be opaque
// and carry the exact color, so alpha is always one.
func ControlStyle(color [3]uint8) Style {
	return Style{Color: color, Alpha: 1, LineWidth: ControlLineWidth, Radius: ControlHandleRadius}
}

// channel maps an 8 bit value to the float the canvas expects. The
// canvas truncates when writing pixels, so the value is centered in its
// bucket.
func channel(v uint8) float64 {
	return (float64(v) + 0.5) / 255
}

// SetColor sets the canvas color from a style
func SetColor(c Canvas, s Style) {
	c.SetRGBA(channel(s.Color[0]), channel(s.Color[1]), channel(s.Color[2]), s.Alpha)
}
