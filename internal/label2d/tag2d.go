package label2d

import (
	"fmt"
	"sort"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/draw2d"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Tag2D shows the attributes of an image level tag. It cannot be dragged.
type Tag2D struct {
	base
	tags  *draw2d.TagRenderer
	lines []string
}

// NewTag2D creates a tag drawn with the given renderer. A nil renderer
// draws nothing.
func NewTag2D(tags *draw2d.TagRenderer) *Tag2D {
	return &Tag2D{base: newBase(), tags: tags}
}

func (t *Tag2D) Kind() string { return state.LabelTag }

// Lines returns the rendered attribute texts
func (t *Tag2D) Lines() []string { return t.lines }

func (t *Tag2D) UpdateState(st state.State, itemIndex, labelID int) {
	if _, ok := t.load(st, itemIndex, labelID); !ok {
		return
	}
	t.lines = tagLines(st.Task.Config.Attributes, t.label.Attributes)
}

// tagLines formats "name: value" for every set attribute, ordered by
// attribute index
func tagLines(attrs []state.Attribute, values map[int][]int) []string {
	keys := make([]int, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	var lines []string
	for _, k := range keys {
		v := values[k]
		if len(v) == 0 || v[0] < 0 || k < 0 || k >= len(attrs) {
			continue
		}
		attr := attrs[k]
		if v[0] >= len(attr.Values) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", attr.Name, attr.Values[v[0]]))
	}
	return lines
}

func (t *Tag2D) Draw(c draw2d.Canvas, _ float64, mode draw2d.Mode) error {
	if mode == draw2d.ModeControl || t.tags == nil {
		return nil
	}
	y := 5.0
	for _, line := range t.lines {
		t.tags.Draw(c, 5, y, line, [3]uint8{255, 0, 0}, [3]uint8{211, 211, 211})
		_, h := t.tags.Measure(line)
		y += float64(h)
	}
	return nil
}

func (t *Tag2D) OnMouseDown(geometry.Vector2, int) bool { return false }
func (t *Tag2D) OnMouseMove(_, _ geometry.Vector2) bool { return false }
func (t *Tag2D) OnMouseUp(geometry.Vector2) bool        { return false }
func (t *Tag2D) OnKeyDown(string) bool                  { return false }
func (t *Tag2D) Cancel()                                {}
func (t *Tag2D) Commit() action.Action                  { return nil }
func (t *Tag2D) Editing() bool                          { return false }
func (t *Tag2D) Cursor() string                         { return "default" }
