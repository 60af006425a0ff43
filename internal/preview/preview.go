// Package preview renders an item with its labels into an image, without
// a window. Point clouds go through the software rasterizer of the viewer,
// images through the label layer canvas.
package preview

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/gogpu/gg"
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/asset"
	"github.com/philipparndt/golabel/internal/draw2d"
	"github.com/philipparndt/golabel/internal/label2d"
	"github.com/philipparndt/golabel/internal/label3d"
	"github.com/philipparndt/golabel/internal/reducer"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/pointcloud"
	"github.com/philipparndt/golabel/pkg/viewer"
)

// Options size the rendering of point clouds. Images keep their size.
type Options struct {
	Width     int
	Height    int
	PointSize int
}

// DefaultOptions returns a 1280x960 rendering with 2 pixel points
func DefaultOptions() Options {
	return Options{Width: 1280, Height: 960, PointSize: 2}
}

// focus marks an item as current and loaded, as a window would after the
// asset arrived
func focus(st state.State, index, width, height int) (state.State, error) {
	st, err := reducer.Reduce(st, action.GoToItem{ItemIndex: index})
	if err != nil {
		return st, err
	}
	return reducer.Reduce(st, action.LoadItem{ItemIndex: index, Width: width, Height: height})
}

// Cloud renders a point cloud item with its boxes and planes. The item's
// stored camera is used when there is one.
func Cloud(st state.State, index int, cloud *pointcloud.Cloud, opts Options) (*image.RGBA, error) {
	st, err := focus(st, index, cloud.Len(), 0)
	if err != nil {
		return nil, err
	}
	item := st.Task.Items[index]

	p := viewer.NewPreview(cloud.Bounds, opts.Width, opts.Height)
	if opts.PointSize > 0 {
		p.PointSize = opts.PointSize
	}
	if item.ViewerConfig != nil && item.ViewerConfig.PointCloud != nil {
		p.Camera = viewer.FromViewerConfig(*item.ViewerConfig.PointCloud)
	}

	list := label3d.NewList(nil)
	list.UpdateState(st)
	var segments []viewer.Segment
	for _, lb := range list.Labels() {
		for _, s := range lb.Segments() {
			segments = append(segments, viewer.Segment{A: s.A, B: s.B, Color: lb.Color()})
		}
	}
	return p.Render(cloud, segments), nil
}

// Image draws the labels of an image item over the image
func Image(st state.State, index int, img image.Image, tags *draw2d.TagRenderer) (*image.RGBA, error) {
	b := img.Bounds()
	st, err := focus(st, index, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(b.Dx(), b.Dy())
	defer dc.Close()
	list := label2d.NewList(tags)
	list.UpdateState(st)
	if err := list.Draw(dc, nil, 1, false, nil); err != nil {
		return nil, err
	}

	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Over)
	return out, nil
}

// Item loads the asset of an item from dir and renders it
func Item(st state.State, index int, dir string, opts Options) (*image.RGBA, error) {
	if index < 0 || index >= len(st.Task.Items) {
		return nil, fmt.Errorf("item %d out of range", index)
	}
	path, err := asset.Resolve(dir, st.Task.Items[index].URL)
	if err != nil {
		return nil, err
	}
	if st.Task.Config.ItemType == state.ItemPointCloud {
		cloud, err := pointcloud.Parse(path)
		if err != nil {
			return nil, err
		}
		return Cloud(st, index, cloud, opts)
	}
	img, err := asset.OpenImage(path)
	if err != nil {
		return nil, err
	}
	tags, err := draw2d.NewTagRenderer(14)
	if err != nil {
		return nil, err
	}
	return Image(st, index, img, tags)
}

// WritePNG encodes img to path
func WritePNG(path string, img image.Image) (retErr error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()
	return png.Encode(f, img)
}
