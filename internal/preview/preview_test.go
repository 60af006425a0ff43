package preview

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/reducer"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
	"github.com/philipparndt/golabel/pkg/pointcloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, white)
		}
	}
	return img
}

func boxState(t *testing.T) state.State {
	t.Helper()
	st := state.MakeState(state.MakeTaskConfig(), []string{"a.png"})
	st, err := reducer.Reduce(st, action.AddBox2dLabel(0, []int{0}, 5, 5, 20, 10))
	require.NoError(t, err)
	return st
}

func TestImageDrawsLabels(t *testing.T) {
	out, err := Image(boxState(t), 0, whiteImage(40, 30), nil)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 40, 30), out.Bounds())
	assert.NotEqual(t, white, out.RGBAAt(15, 5), "box outline")
	assert.Equal(t, white, out.RGBAAt(35, 25))
}

func TestImageRejectsMissingItem(t *testing.T) {
	_, err := Image(boxState(t), 3, whiteImage(4, 4), nil)
	assert.Error(t, err)
}

func TestCloudDrawsBoxes(t *testing.T) {
	cfg := state.MakeTaskConfig()
	cfg.ItemType = state.ItemPointCloud
	cfg.LabelTypes = []string{state.LabelBox3D}
	st := state.MakeState(cfg, []string{"a.ply"})

	cloud := pointcloud.NewCloud("a")
	cloud.AddPoint(geometry.NewVector3(0, 0, 0))

	opts := Options{Width: 64, Height: 48}
	empty, err := Cloud(st, 0, cloud, opts)
	require.NoError(t, err)

	st, err = reducer.Reduce(st, action.AddBox3dLabel(0, []int{0}, geometry.NewVector3(1, 0, 0)))
	require.NoError(t, err)
	labeled, err := Cloud(st, 0, cloud, opts)
	require.NoError(t, err)

	bg := labeled.RGBAAt(0, 0)
	count := func(img *image.RGBA) int {
		n := 0
		for y := range img.Bounds().Dy() {
			for x := range img.Bounds().Dx() {
				if img.RGBAAt(x, y) != bg {
					n++
				}
			}
		}
		return n
	}
	assert.Greater(t, count(labeled), count(empty))
}

func TestItemLoadsImage(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, whiteImage(40, 30)))
	require.NoError(t, f.Close())

	out, err := Item(boxState(t), 0, dir, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 40, out.Bounds().Dx())

	_, err = Item(boxState(t), 1, dir, DefaultOptions())
	assert.Error(t, err)

	path := filepath.Join(dir, "out.png")
	require.NoError(t, WritePNG(path, out))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
