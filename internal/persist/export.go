package persist

import (
	"encoding/json"
	"fmt"

	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Box2DExport is a rectangle given by its corners
type Box2DExport struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Box3DExport is an oriented box
type Box3DExport struct {
	Location    geometry.Vector3 `json:"location"`
	Dimension   geometry.Vector3 `json:"dimension"`
	Orientation geometry.Vector3 `json:"orientation"`
}

// Plane3DExport is a ground plane
type Plane3DExport struct {
	Center      geometry.Vector3 `json:"center"`
	Orientation geometry.Vector3 `json:"orientation"`
}

// LabelExport is one exported label. Only the geometry field matching the
// label type is set.
type LabelExport struct {
	ID          int                 `json:"id"`
	Type        string              `json:"type"`
	Category    string              `json:"category"`
	Attributes  map[string][]string `json:"attributes"`
	ManualShape bool                `json:"manualShape"`
	Track       *int                `json:"track,omitempty"`
	Box2D       *Box2DExport        `json:"box2d,omitempty"`
	Box3D       *Box3DExport        `json:"box3d,omitempty"`
	Plane3D     *Plane3DExport      `json:"plane3d,omitempty"`
	Points      []state.Point       `json:"points,omitempty"`
}

// ItemExport is one exported item
type ItemExport struct {
	Name   string        `json:"name"`
	URL    string        `json:"url"`
	Index  int           `json:"index"`
	Labels []LabelExport `json:"labels"`
}

// ExportLabels flattens the labels of all items with category and
// attribute names resolved from the task config
func ExportLabels(st state.State) []ItemExport {
	cfg := st.Task.Config
	out := make([]ItemExport, 0, len(st.Task.Items))
	for _, item := range st.Task.Items {
		ex := ItemExport{
			Name:   itemName(item),
			URL:    item.URL,
			Index:  item.Index,
			Labels: []LabelExport{},
		}
		for _, id := range item.SortedLabelIDs() {
			ex.Labels = append(ex.Labels, exportLabel(cfg, item, item.Labels[id]))
		}
		out = append(out, ex)
	}
	return out
}

// MarshalExport encodes the export as indented JSON
func MarshalExport(st state.State) ([]byte, error) {
	data, err := json.MarshalIndent(ExportLabels(st), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return data, nil
}

// WriteExport writes the export JSON to path atomically
func WriteExport(path string, st state.State) error {
	data, err := MarshalExport(st)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

func itemName(item state.Item) string {
	if item.URL != "" {
		return item.URL
	}
	return fmt.Sprintf("item-%d", item.Index)
}

func exportLabel(cfg state.TaskConfig, item state.Item, label state.Label) LabelExport {
	ex := LabelExport{
		ID:          label.ID,
		Type:        label.Type,
		Category:    categoryName(cfg.Categories, label.Category),
		Attributes:  attributeNames(cfg.Attributes, label.Attributes),
		ManualShape: label.Manual,
	}
	if label.Track >= 0 {
		tr := label.Track
		ex.Track = &tr
	}
	for _, s := range item.LabelShapes(label.ID) {
		switch {
		case s.Rect != nil && ex.Box2D == nil:
			r := s.Rect
			ex.Box2D = &Box2DExport{X1: r.X, Y1: r.Y, X2: r.X + r.W, Y2: r.Y + r.H}
		case s.Cube != nil && ex.Box3D == nil:
			c := s.Cube
			ex.Box3D = &Box3DExport{Location: c.Center, Dimension: c.Size, Orientation: c.Orientation}
		case s.Plane != nil && ex.Plane3D == nil:
			p := s.Plane
			ex.Plane3D = &Plane3DExport{Center: p.Offset, Orientation: p.Orientation}
		case s.Point != nil:
			ex.Points = append(ex.Points, *s.Point)
		}
	}
	return ex
}

func categoryName(categories []string, category []int) string {
	if len(category) == 0 {
		return ""
	}
	if c := category[0]; c >= 0 && c < len(categories) {
		return categories[c]
	}
	return fmt.Sprintf("%d", category[0])
}

// attributeNames maps attribute and value indices to their configured
// names. Unknown indices are kept as numbers.
func attributeNames(attrs []state.Attribute, values map[int][]int) map[string][]string {
	out := map[string][]string{}
	for key, selected := range values {
		name := fmt.Sprintf("%d", key)
		var options []string
		if key >= 0 && key < len(attrs) {
			name = attrs[key].Name
			options = attrs[key].Values
		}
		names := make([]string, 0, len(selected))
		for _, v := range selected {
			if v >= 0 && v < len(options) {
				names = append(names, options[v])
			} else {
				names = append(names, fmt.Sprintf("%d", v))
			}
		}
		out[name] = names
	}
	return out
}
