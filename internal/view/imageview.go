// Package view holds the pan, zoom and camera math of the image and point
// cloud panes. It produces viewer configs; dispatching them is up to the
// caller.
package view

import (
	"math"

	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Image view limits
const (
	MaxScale        = 3.0
	MinScale        = 1.0
	ZoomRatio       = 1.05
	ScrollZoomRatio = 1.01
	// UpResRatio is the resolution factor of the label canvases
	UpResRatio = 2
)

// ImageView fits an image into a display area. At scale 1 the image fills
// the display along its tighter axis; above that the canvas is larger than
// the display and ViewOffsetX/Y hold the scroll position in canvas pixels.
type ImageView struct {
	DisplayWidth  float64
	DisplayHeight float64
	ImageWidth    float64
	ImageHeight   float64
	Config        state.ImageViewerConfig
}

// NewImageView creates a view at scale 1
func NewImageView(displayWidth, displayHeight, imageWidth, imageHeight float64) *ImageView {
	return &ImageView{
		DisplayWidth:  displayWidth,
		DisplayHeight: displayHeight,
		ImageWidth:    imageWidth,
		ImageHeight:   imageHeight,
		Config:        state.ImageViewerConfig{ViewScale: 1},
	}
}

func (v *ImageView) scale() float64 {
	if v.Config.ViewScale <= 0 {
		return 1
	}
	return v.Config.ViewScale
}

// CanvasSize returns the size of the scaled image canvas in display pixels
func (v *ImageView) CanvasSize() (float64, float64) {
	if v.ImageWidth <= 0 || v.ImageHeight <= 0 || v.DisplayHeight <= 0 {
		return 0, 0
	}
	ratio := v.ImageWidth / v.ImageHeight
	if v.DisplayWidth/v.DisplayHeight > ratio {
		h := v.DisplayHeight * v.scale()
		return h * ratio, h
	}
	w := v.DisplayWidth * v.scale()
	return w, w / ratio
}

// DisplayToImageRatio returns display pixels per image pixel
func (v *ImageView) DisplayToImageRatio() float64 {
	w, _ := v.CanvasSize()
	if w == 0 {
		return 1
	}
	return w / v.ImageWidth
}

// Padding returns the offset of a canvas smaller than the display
func (v *ImageView) Padding() (float64, float64) {
	w, h := v.CanvasSize()
	return math.Max(0, (v.DisplayWidth-w)/2), math.Max(0, (v.DisplayHeight-h)/2)
}

// ToImageCoords converts a display position to image coordinates
func (v *ImageView) ToImageCoords(x, y float64) geometry.Vector2 {
	px, py := v.Padding()
	r := v.DisplayToImageRatio()
	return geometry.NewVector2(
		(x-px+v.Config.ViewOffsetX)/r,
		(y-py+v.Config.ViewOffsetY)/r,
	)
}

// ToDisplayCoords converts image coordinates to a display position
func (v *ImageView) ToDisplayCoords(p geometry.Vector2) (float64, float64) {
	px, py := v.Padding()
	r := v.DisplayToImageRatio()
	return p.X*r + px - v.Config.ViewOffsetX, p.Y*r + py - v.Config.ViewOffsetY
}

// clampOffsets keeps the scroll position inside the canvas
func (v *ImageView) clampOffsets(cfg state.ImageViewerConfig) state.ImageViewerConfig {
	w, h := v.CanvasSize()
	cfg.ViewOffsetX = math.Max(0, math.Min(cfg.ViewOffsetX, w-v.DisplayWidth))
	cfg.ViewOffsetY = math.Max(0, math.Min(cfg.ViewOffsetY, h-v.DisplayHeight))
	return cfg
}

// Zoom scales the view by ratio keeping the display position anchor in
// place. A negative anchor zooms around the display center. It reports
// false when the new scale is out of [MinScale, MaxScale].
func (v *ImageView) Zoom(ratio float64, anchor geometry.Vector2) (state.ViewerConfig, bool) {
	next := v.scale() * ratio
	if next < MinScale-1e-9 || next > MaxScale+1e-9 {
		return state.ViewerConfig{}, false
	}
	if anchor.X < 0 || anchor.Y < 0 {
		anchor = geometry.NewVector2(v.DisplayWidth/2, v.DisplayHeight/2)
	}
	focus := v.ToImageCoords(anchor.X, anchor.Y)

	cfg := v.Config
	cfg.ViewScale = next
	zoomed := *v
	zoomed.Config = cfg
	// move the focused image point back under the anchor
	x, y := zoomed.ToDisplayCoords(focus)
	cfg.ViewOffsetX += x - anchor.X
	cfg.ViewOffsetY += y - anchor.Y
	cfg = zoomed.clampOffsets(cfg)

	v.Config = cfg
	return v.viewerConfig(), true
}

// Pan scrolls the view by a display delta
func (v *ImageView) Pan(dx, dy float64) state.ViewerConfig {
	cfg := v.Config
	cfg.ViewOffsetX -= dx
	cfg.ViewOffsetY -= dy
	v.Config = v.clampOffsets(cfg)
	return v.viewerConfig()
}

func (v *ImageView) viewerConfig() state.ViewerConfig {
	cfg := v.Config
	return state.ViewerConfig{Type: state.ViewerImage, Image: &cfg}
}
