// Package state holds the serializable annotation state: items, labels,
// shapes, tracks and the per-user view configuration. Values of these types
// are treated as immutable; reducers build new values instead of mutating.
package state

import "github.com/philipparndt/golabel/pkg/geometry"

// ShapeType names the kind of a primitive shape
type ShapeType string

const (
	ShapeRect   ShapeType = "rect"
	ShapeVertex ShapeType = "vertex"
	ShapeCube   ShapeType = "cube"
	ShapePlane  ShapeType = "plane3d"
	ShapePoint  ShapeType = "point2d"
)

// VertexType distinguishes box corners from edge midpoints
type VertexType string

const (
	VertexTypeVertex       VertexType = "VERTEX"
	VertexTypeMidpoint     VertexType = "MIDPOINT"
	VertexTypeControlPoint VertexType = "CONTROL_POINT"
)

// Label types
const (
	LabelBox2D   = "box2d"
	LabelBox3D   = "box3d"
	LabelPlane3D = "plane3d"
	LabelTag     = "tag"
)

// Item types
const (
	ItemImage      = "image"
	ItemPointCloud = "pointcloud"
)

// Rect is an axis aligned rectangle in image coordinates
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Vertex is a 2D handle point
type Vertex struct {
	X    float64    `json:"x"`
	Y    float64    `json:"y"`
	Type VertexType `json:"type"`
}

// Point is a free 2D point used by templated labels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cube is an oriented 3D box
type Cube struct {
	Center      geometry.Vector3 `json:"center"`
	Size        geometry.Vector3 `json:"size"`
	Orientation geometry.Vector3 `json:"orientation"`
	AnchorIndex int              `json:"anchorIndex"`
	SurfaceID   int              `json:"surfaceId"`
}

// Plane is a ground plane in a point cloud
type Plane struct {
	Offset      geometry.Vector3 `json:"offset"`
	Orientation geometry.Vector3 `json:"orientation"`
}

// Shape is one primitive record. Exactly one of the kind fields is set,
// matching Type. The ID never changes once allocated.
type Shape struct {
	ID     int       `json:"id"`
	Type   ShapeType `json:"type"`
	Labels []int     `json:"labels"`
	Rect   *Rect     `json:"rect,omitempty"`
	Vertex *Vertex   `json:"vertex,omitempty"`
	Cube   *Cube     `json:"cube,omitempty"`
	Plane  *Plane    `json:"plane,omitempty"`
	Point  *Point    `json:"point,omitempty"`
}

// ShapePatch replaces the record of the matching kind. Nil fields and
// fields that do not match the shape type are ignored.
type ShapePatch struct {
	Rect   *Rect   `json:"rect,omitempty"`
	Vertex *Vertex `json:"vertex,omitempty"`
	Cube   *Cube   `json:"cube,omitempty"`
	Plane  *Plane  `json:"plane,omitempty"`
	Point  *Point  `json:"point,omitempty"`
}

// Label is one annotation
type Label struct {
	ID         int           `json:"id"`
	Item       int           `json:"item"`
	Type       string        `json:"type"`
	Category   []int         `json:"category"`
	Attributes map[int][]int `json:"attributes"`
	Shapes     []int         `json:"shapes"`
	Order      int           `json:"order"`
	Track      int           `json:"track"`
	Color      []int         `json:"color,omitempty"`
	Manual     bool          `json:"manual"`
	Parent     int           `json:"parent"`
	Children   []int         `json:"children,omitempty"`
}

// LabelPatch changes label properties. Nil fields are left untouched.
type LabelPatch struct {
	Category   []int         `json:"category,omitempty"`
	Attributes map[int][]int `json:"attributes,omitempty"`
	Manual     *bool         `json:"manual,omitempty"`
	Order      *int          `json:"order,omitempty"`
	Color      []int         `json:"color,omitempty"`
}

// ViewerConfigType names the viewer a config belongs to
type ViewerConfigType string

const (
	ViewerImage      ViewerConfigType = "image"
	ViewerPointCloud ViewerConfigType = "pointcloud"
)

// ImageViewerConfig holds the 2D pan and zoom of an image pane
type ImageViewerConfig struct {
	ImageWidth  float64 `json:"imageWidth"`
	ImageHeight float64 `json:"imageHeight"`
	ViewScale   float64 `json:"viewScale"`
	ViewOffsetX float64 `json:"viewOffsetX"`
	ViewOffsetY float64 `json:"viewOffsetY"`
	DisplayTop  float64 `json:"displayTop"`
	DisplayLeft float64 `json:"displayLeft"`
}

// PointCloudViewerConfig holds the 3D camera of a point cloud pane
type PointCloudViewerConfig struct {
	Position     geometry.Vector3 `json:"position"`
	Target       geometry.Vector3 `json:"target"`
	VerticalAxis geometry.Vector3 `json:"verticalAxis"`
}

// ViewerConfig is the render configuration of one pane
type ViewerConfig struct {
	Type       ViewerConfigType        `json:"type"`
	PaneID     int                     `json:"pane"`
	Image      *ImageViewerConfig      `json:"image,omitempty"`
	PointCloud *PointCloudViewerConfig `json:"pointCloud,omitempty"`
}

// Item is one labeled unit, an image or a point cloud frame
type Item struct {
	Index        int           `json:"index"`
	URL          string        `json:"url"`
	Labels       map[int]Label `json:"labels"`
	Shapes       map[int]Shape `json:"shapes"`
	ViewerConfig *ViewerConfig `json:"viewerConfig,omitempty"`
	Loaded       bool          `json:"loaded"`
	Width        int           `json:"width,omitempty"`
	Height       int           `json:"height,omitempty"`
}

// Track links labels of the same object across items
type Track struct {
	ID     int         `json:"id"`
	Type   string      `json:"type"`
	Labels map[int]int `json:"labels"`
}

// Attribute is a configurable label attribute
type Attribute struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	ToolType string   `json:"toolType" yaml:"toolType" toml:"toolType"`
	Values   []string `json:"values" yaml:"values" toml:"values"`
	Tag      string   `json:"tag,omitempty" yaml:"tag,omitempty" toml:"tag,omitempty"`
}

// LabelTemplate describes a user defined point label
type LabelTemplate struct {
	Name        string             `json:"name" yaml:"name" toml:"name"`
	Template    []geometry.Vector2 `json:"template" yaml:"template" toml:"template"`
	Connections [][2]int           `json:"connections" yaml:"connections" toml:"connections"`
}

// TaskConfig is the read-only task configuration
type TaskConfig struct {
	ProjectName    string          `json:"projectName" yaml:"projectName" toml:"projectName"`
	Version        string          `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	ItemType       string          `json:"itemType" yaml:"itemType" toml:"itemType"`
	LabelTypes     []string        `json:"labelTypes" yaml:"labelTypes" toml:"labelTypes"`
	PolicyTypes    []string        `json:"policyTypes" yaml:"policyTypes" toml:"policyTypes"`
	Categories     []string        `json:"categories" yaml:"categories" toml:"categories"`
	Attributes     []Attribute     `json:"attributes" yaml:"attributes" toml:"attributes"`
	MaxTrackLength int             `json:"maxTrackLength" yaml:"maxTrackLength" toml:"maxTrackLength"`
	Tracking       bool            `json:"tracking" yaml:"tracking" toml:"tracking"`
	CustomLabels   []LabelTemplate `json:"customLabels,omitempty" yaml:"customLabels,omitempty" toml:"customLabels,omitempty"`
}

// TaskStatus tracks id allocation. Ids are never reused.
type TaskStatus struct {
	MaxLabelID int `json:"maxLabelId"`
	MaxShapeID int `json:"maxShapeId"`
	MaxTrackID int `json:"maxTrackId"`
	MaxOrder   int `json:"maxOrder"`
}

// Task is the undoable part of the state
type Task struct {
	Config TaskConfig    `json:"config"`
	Items  []Item        `json:"items"`
	Tracks map[int]Track `json:"tracks"`
	Status TaskStatus    `json:"status"`
}

// Select is the current selection of the user
type Select struct {
	Item       int           `json:"item"`
	Labels     map[int][]int `json:"labels"`
	Category   int           `json:"category"`
	Attributes map[int][]int `json:"attributes"`
	PolicyType int           `json:"policyType"`
	LabelType  int           `json:"labelType"`
}

// SplitType is the orientation of a pane split
type SplitType string

const (
	SplitHorizontal SplitType = "horizontal"
	SplitVertical   SplitType = "vertical"
)

// Pane is a node in the split-pane tree
type Pane struct {
	ID          int       `json:"id"`
	ViewerID    int       `json:"viewerId"`
	Parent      int       `json:"parent"`
	Split       SplitType `json:"split,omitempty"`
	PrimarySize float64   `json:"primarySize,omitempty"`
	Child1      int       `json:"child1"`
	Child2      int       `json:"child2"`
	HideLabels  bool      `json:"hideLabels,omitempty"`
}

// IsLeaf reports whether the pane shows a viewer
func (p Pane) IsLeaf() bool {
	return p.Child1 < 0 && p.Child2 < 0
}

// Layout is the pane tree
type Layout struct {
	Panes             map[int]Pane `json:"panes"`
	RootPane          int          `json:"rootPane"`
	MaxPaneID         int          `json:"maxPaneId"`
	MaxViewerConfigID int          `json:"maxViewerConfigId"`
}

// User is the per-user view state
type User struct {
	Select        Select               `json:"select"`
	ViewerConfigs map[int]ViewerConfig `json:"viewerConfigs"`
	Layout        Layout               `json:"layout"`
}

// Session identifies the editing session
type Session struct {
	ID string `json:"id"`
}

// State is the top level annotation state
type State struct {
	Task    Task    `json:"task"`
	User    User    `json:"user"`
	Session Session `json:"session"`
}
