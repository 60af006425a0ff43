// Package track propagates label edits along a track, the chain of labels
// that follow one object through consecutive items.
package track

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
)

// Policy types
const (
	TypeLinearInterpolation = "linear_interpolation"
	TypeDuplicate           = "duplicate"
	TypeNone                = "none"
)

// ErrUnknownPolicy is returned by New for unsupported policy names
var ErrUnknownPolicy = errors.New("unknown track policy")

// Policy turns label creation and edits into track wide actions
type Policy interface {
	Type() string
	// OnLabelCreated returns the actions creating a label, as a new track
	// when the policy tracks objects
	OnLabelCreated(st state.State, itemIndex int, label state.Label, shapes []state.Shape) []action.Action
	// OnLabelUpdated returns the actions propagating the committed edit of
	// the track label on itemIndex
	OnLabelUpdated(st state.State, tr state.Track, itemIndex int) []action.Action
}

// New returns the policy for a policy type name
func New(policyType string) (Policy, error) {
	switch policyType {
	case TypeLinearInterpolation:
		return LinearInterpolation{}, nil
	case TypeDuplicate:
		return Duplicate{}, nil
	case TypeNone, "":
		return None{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policyType)
}

// None keeps labels independent
type None struct{}

func (None) Type() string { return TypeNone }

func (None) OnLabelCreated(_ state.State, itemIndex int, label state.Label, shapes []state.Shape) []action.Action {
	return []action.Action{action.AddLabel(itemIndex, label, shapes)}
}

func (None) OnLabelUpdated(state.State, state.Track, int) []action.Action {
	return nil
}

// createTrack duplicates a new label over the following items
func createTrack(policyType string, st state.State, itemIndex int, label state.Label, shapes []state.Shape) []action.Action {
	maxLen := st.Task.Config.MaxTrackLength
	if maxLen <= 0 {
		maxLen = state.DefaultMaxTrackLength
	}
	return []action.Action{action.AddDuplicatedTrack(
		policyType, label, shapes, itemIndex, nil, len(st.Task.Items), maxLen)}
}

// member is one label of a track
type member struct {
	item   int
	label  state.Label
	shapes []state.Shape
}

// members returns the existing track labels ordered by item
func members(st state.State, tr state.Track) []member {
	out := make([]member, 0, len(tr.Labels))
	for idx, labelID := range tr.Labels {
		if idx < 0 || idx >= len(st.Task.Items) {
			continue
		}
		item := st.Task.Items[idx]
		label, ok := item.Labels[labelID]
		if !ok {
			continue
		}
		out = append(out, member{item: idx, label: label, shapes: item.LabelShapes(labelID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].item < out[j].item })
	return out
}

// changeBuilder batches shape patches over items into one action
type changeBuilder struct {
	a action.ChangeShapes
}

func (b *changeBuilder) add(itemIndex int, shapes []state.Shape, patches []state.ShapePatch) {
	if len(shapes) != len(patches) {
		return
	}
	ids := make([]int, len(shapes))
	for i, sh := range shapes {
		ids[i] = sh.ID
	}
	b.a.ItemIndices = append(b.a.ItemIndices, itemIndex)
	b.a.ShapeIDs = append(b.a.ShapeIDs, ids)
	b.a.Shapes = append(b.a.Shapes, patches)
}

func (b *changeBuilder) actions() []action.Action {
	if len(b.a.ItemIndices) == 0 {
		return nil
	}
	return []action.Action{b.a}
}

// copyPatches returns patches setting target shapes to the source shapes
func copyPatches(source []state.Shape) []state.ShapePatch {
	patches := make([]state.ShapePatch, len(source))
	for i, sh := range source {
		patches[i] = state.CloneShape(sh).Patch()
	}
	return patches
}

// Index maps track ids to the policy that maintains them
type Index struct {
	mu       sync.RWMutex
	fallback Policy
	policies map[int]Policy
}

// NewIndex creates an index using fallback for unregistered tracks
func NewIndex(fallback Policy) *Index {
	if fallback == nil {
		fallback = None{}
	}
	return &Index{fallback: fallback, policies: map[int]Policy{}}
}

// Set registers the policy of a track
func (x *Index) Set(trackID int, p Policy) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.policies[trackID] = p
}

// Get returns the policy of a track
func (x *Index) Get(trackID int) Policy {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if p, ok := x.policies[trackID]; ok {
		return p
	}
	return x.fallback
}

// Fallback returns the policy used for new tracks
func (x *Index) Fallback() Policy {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.fallback
}

// SetFallback replaces the policy used for new tracks. Existing tracks
// keep the policy of their type.
func (x *Index) SetFallback(p Policy) {
	if p == nil {
		p = None{}
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.fallback = p
}

// Sync registers policies for tracks in the state by their type and
// forgets tracks that no longer exist
func (x *Index) Sync(st state.State) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for id := range x.policies {
		if _, ok := st.Task.Tracks[id]; !ok {
			delete(x.policies, id)
		}
	}
	for id, tr := range st.Task.Tracks {
		if _, ok := x.policies[id]; ok {
			continue
		}
		if p, err := New(tr.Type); err == nil {
			x.policies[id] = p
		}
	}
}
