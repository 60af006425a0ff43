package state

import "github.com/philipparndt/golabel/pkg/geometry"

// Default task configuration values
const (
	DefaultMaxTrackLength = 20
	DefaultViewScale      = 1.0
)

// NoTrack marks a label that does not belong to a track
const NoTrack = -1

// MakeLabel creates a label with empty collections and no track
func MakeLabel(labelType string, category []int) Label {
	if category == nil {
		category = []int{}
	}
	return Label{
		ID:         -1,
		Item:       -1,
		Type:       labelType,
		Category:   category,
		Attributes: map[int][]int{},
		Shapes:     []int{},
		Track:      NoTrack,
		Parent:     -1,
		Manual:     true,
	}
}

// MakeRect creates a rectangle shape
func MakeRect(x, y, w, h float64) Shape {
	return Shape{ID: -1, Type: ShapeRect, Labels: []int{}, Rect: &Rect{X: x, Y: y, W: w, H: h}}
}

// MakeVertex creates a vertex shape
func MakeVertex(x, y float64, vt VertexType) Shape {
	return Shape{ID: -1, Type: ShapeVertex, Labels: []int{}, Vertex: &Vertex{X: x, Y: y, Type: vt}}
}

// MakePoint creates a free point shape
func MakePoint(x, y float64) Shape {
	return Shape{ID: -1, Type: ShapePoint, Labels: []int{}, Point: &Point{X: x, Y: y}}
}

// MakeCube creates a cuboid shape
func MakeCube(center, size, orientation geometry.Vector3, anchorIndex int) Shape {
	return Shape{ID: -1, Type: ShapeCube, Labels: []int{}, Cube: &Cube{
		Center:      center,
		Size:        size,
		Orientation: orientation,
		AnchorIndex: anchorIndex,
		SurfaceID:   -1,
	}}
}

// MakePlane creates a ground plane shape
func MakePlane(offset, orientation geometry.Vector3) Shape {
	return Shape{ID: -1, Type: ShapePlane, Labels: []int{}, Plane: &Plane{Offset: offset, Orientation: orientation}}
}

// MakeItem creates an unloaded item
func MakeItem(index int, url string) Item {
	return Item{
		Index:  index,
		URL:    url,
		Labels: map[int]Label{},
		Shapes: map[int]Shape{},
	}
}

// MakeTrack creates an empty track
func MakeTrack(id int, trackType string) Track {
	return Track{ID: id, Type: trackType, Labels: map[int]int{}}
}

// MakeImageViewerConfig creates the default 2D viewer config
func MakeImageViewerConfig(paneID int) ViewerConfig {
	return ViewerConfig{
		Type:   ViewerImage,
		PaneID: paneID,
		Image:  &ImageViewerConfig{ViewScale: DefaultViewScale},
	}
}

// MakePointCloudViewerConfig creates the default 3D viewer config,
// looking at the origin from above and behind with Z up.
func MakePointCloudViewerConfig(paneID int) ViewerConfig {
	return ViewerConfig{
		Type:   ViewerPointCloud,
		PaneID: paneID,
		PointCloud: &PointCloudViewerConfig{
			Position:     geometry.NewVector3(0, -10, 10),
			Target:       geometry.NewVector3(0, 0, 0),
			VerticalAxis: geometry.NewVector3(0, 0, 1),
		},
	}
}

// MakeViewerConfig creates the default config for the given item type
func MakeViewerConfig(itemType string, paneID int) ViewerConfig {
	if itemType == ItemPointCloud {
		return MakePointCloudViewerConfig(paneID)
	}
	return MakeImageViewerConfig(paneID)
}

// MakePane creates a leaf pane bound to a viewer
func MakePane(id, viewerID, parent int) Pane {
	return Pane{ID: id, ViewerID: viewerID, Parent: parent, Child1: -1, Child2: -1}
}

// MakeTaskConfig returns the defaults for an image box task
func MakeTaskConfig() TaskConfig {
	return TaskConfig{
		ItemType:       ItemImage,
		LabelTypes:     []string{LabelBox2D},
		PolicyTypes:    []string{"linear_interpolation"},
		Categories:     []string{},
		Attributes:     []Attribute{},
		MaxTrackLength: DefaultMaxTrackLength,
	}
}

// MakeState creates a state with one item per url, a single root pane
// and a default viewer config for the configured item type.
func MakeState(config TaskConfig, urls []string) State {
	items := make([]Item, len(urls))
	for i, u := range urls {
		items[i] = MakeItem(i, u)
	}
	root := MakePane(0, 0, -1)
	return State{
		Task: Task{
			Config: config,
			Items:  items,
			Tracks: map[int]Track{},
			Status: TaskStatus{MaxLabelID: -1, MaxShapeID: -1, MaxTrackID: -1, MaxOrder: -1},
		},
		User: User{
			Select: Select{
				Item:       0,
				Labels:     map[int][]int{},
				Attributes: map[int][]int{},
			},
			ViewerConfigs: map[int]ViewerConfig{0: MakeViewerConfig(config.ItemType, root.ID)},
			Layout: Layout{
				Panes:             map[int]Pane{root.ID: root},
				RootPane:          root.ID,
				MaxPaneID:         root.ID,
				MaxViewerConfigID: 0,
			},
		},
	}
}
