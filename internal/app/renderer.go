package app

import rl "github.com/gen2brain/raylib-go/raylib"

// maxDrawnPoints caps the points drawn per frame; larger clouds are
// subsampled with a fixed stride
const maxDrawnPoints = 200000

// drawCloud renders the point cloud of the current item
func (app *App) drawCloud() {
	item, ok := app.session.State().CurrentItem()
	if !ok {
		return
	}
	cloud, ok := app.session.Cloud(item.Index)
	if !ok {
		return
	}

	stride := max(1, cloud.Len()/maxDrawnPoints)
	for i := 0; i < cloud.Len(); i += stride {
		c := cloud.PointColor(i)
		rl.DrawPoint3D(toRL(cloud.Points[i]), rl.NewColor(c[0], c[1], c[2], 255))
	}
}
