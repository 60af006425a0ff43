package picking

import (
	"image"
	"sync"

	"github.com/gogpu/gg"
	"github.com/philipparndt/golabel/internal/draw2d"
)

// Buffer is an offscreen control layer
type Buffer interface {
	Clear()
	Draw(fn func(draw2d.Canvas))
	Pick(x, y int) (labelIndex, handleIndex int)
}

// ControlCanvas is a Buffer rasterized with gg
type ControlCanvas struct {
	mu       sync.Mutex
	dc       *gg.Context
	snapshot image.Image
}

var _ Buffer = (*ControlCanvas)(nil)

// NewControlCanvas creates a control layer of the given display size
func NewControlCanvas(width, height int) *ControlCanvas {
	return &ControlCanvas{dc: gg.NewContext(max(width, 1), max(height, 1))}
}

// Resize changes the layer size and clears it
func (c *ControlCanvas) Resize(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.dc.Resize(max(width, 1), max(height, 1)); err != nil {
		return err
	}
	c.dc.Clear()
	c.snapshot = nil
	return nil
}

// Clear erases the layer to background
func (c *ControlCanvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dc.Clear()
	c.snapshot = nil
}

// Draw runs fn on the layer and captures the result for picking
func (c *ControlCanvas) Draw(fn func(draw2d.Canvas)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.dc)
	c.snapshot = c.dc.Image()
}

// Pick decodes the most frequent control color around x, y
func (c *ControlCanvas) Pick(x, y int) (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SampleMode(c.snapshot, x, y)
}

// Image returns the last drawn control layer, for debugging
func (c *ControlCanvas) Image() image.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Close releases the canvas
func (c *ControlCanvas) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dc.Close()
}
