package track

import (
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
)

// LinearInterpolation interpolates boxes between the manually edited
// labels of a track. Labels outside the manual span copy the nearest
// manual label.
type LinearInterpolation struct{}

func (LinearInterpolation) Type() string { return TypeLinearInterpolation }

func (LinearInterpolation) OnLabelCreated(st state.State, itemIndex int, label state.Label, shapes []state.Shape) []action.Action {
	return createTrack(TypeLinearInterpolation, st, itemIndex, label, shapes)
}

func (LinearInterpolation) OnLabelUpdated(st state.State, tr state.Track, itemIndex int) []action.Action {
	ms := members(st, tr)
	current := -1
	for i, m := range ms {
		if m.item == itemIndex {
			current = i
		}
	}
	if current < 0 {
		return nil
	}

	prev, next := -1, -1
	for i := current - 1; i >= 0; i-- {
		if ms[i].label.Manual {
			prev = i
			break
		}
	}
	for i := current + 1; i < len(ms); i++ {
		if ms[i].label.Manual {
			next = i
			break
		}
	}

	var b changeBuilder
	var out []action.Action
	cur := ms[current]
	if !cur.label.Manual {
		manual := true
		out = append(out, action.ChangeLabelProps(cur.item, cur.label.ID, state.LabelPatch{Manual: &manual}))
	}

	lo := 0
	if prev >= 0 {
		lo = prev + 1
	}
	for i := lo; i < current; i++ {
		if prev < 0 {
			b.add(ms[i].item, ms[i].shapes, copyPatches(cur.shapes))
			continue
		}
		t := float64(ms[i].item-ms[prev].item) / float64(cur.item-ms[prev].item)
		b.add(ms[i].item, ms[i].shapes, interpolate(ms[prev], cur, ms[i], t))
	}

	hi := len(ms)
	if next >= 0 {
		hi = next
	}
	for i := current + 1; i < hi; i++ {
		if next < 0 {
			b.add(ms[i].item, ms[i].shapes, copyPatches(cur.shapes))
			continue
		}
		t := float64(ms[i].item-cur.item) / float64(ms[next].item-cur.item)
		b.add(ms[i].item, ms[i].shapes, interpolate(cur, ms[next], ms[i], t))
	}
	return append(out, b.actions()...)
}

// interpolate returns patches moving target to the blend of a and b at t
func interpolate(a, b, target member, t float64) []state.ShapePatch {
	if len(a.shapes) != len(b.shapes) || len(a.shapes) != len(target.shapes) || len(a.shapes) == 0 {
		return nil
	}
	switch a.label.Type {
	case state.LabelBox2D:
		ra, rb := a.shapes[0].Rect, b.shapes[0].Rect
		if ra == nil || rb == nil {
			return nil
		}
		return action.Box2DPatches(lerpRect(*ra, *rb, t))
	case state.LabelBox3D:
		ca, cb := a.shapes[0].Cube, b.shapes[0].Cube
		if ca == nil || cb == nil {
			return nil
		}
		cube := *target.shapes[0].Cube
		cube.Center = ca.Center.Lerp(cb.Center, t)
		cube.Size = ca.Size.Lerp(cb.Size, t)
		cube.Orientation = ca.Orientation.Lerp(cb.Orientation, t)
		return []state.ShapePatch{{Cube: &cube}}
	}
	// shapes without an interpolation rule follow the nearer manual label
	if t < 0.5 {
		return copyPatches(a.shapes)
	}
	return copyPatches(b.shapes)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpRect(a, b state.Rect, t float64) state.Rect {
	return state.Rect{
		X: lerp(a.X, b.X, t),
		Y: lerp(a.Y, b.Y, t),
		W: lerp(a.W, b.W, t),
		H: lerp(a.H, b.H, t),
	}
}
