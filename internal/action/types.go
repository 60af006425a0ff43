// Package action defines the state transitions understood by the reducer
// and the creators that build them from user intent.
package action

import (
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// Type tags an action
type Type string

const (
	TypeAddLabels           Type = "ADD_LABELS"
	TypeChangeShapes        Type = "CHANGE_SHAPES"
	TypeChangeLabels        Type = "CHANGE_LABELS"
	TypeDeleteLabels        Type = "DELETE_LABELS"
	TypeSelectLabels        Type = "SELECT_LABELS"
	TypeUnselectLabels      Type = "UNSELECT_LABELS"
	TypeAddTrack            Type = "ADD_TRACK"
	TypeTerminateTrack      Type = "TERMINATE_TRACK"
	TypeDeleteTrack         Type = "DELETE_TRACK"
	TypeSplitPane           Type = "SPLIT_PANE"
	TypeDeletePane          Type = "DELETE_PANE"
	TypeUpdatePane          Type = "UPDATE_PANE"
	TypeChangeViewerConfig  Type = "CHANGE_VIEWER_CONFIG"
	TypeMoveCamera          Type = "MOVE_CAMERA"
	TypeMoveCameraAndTarget Type = "MOVE_CAMERA_AND_TARGET"
	TypeGoToItem            Type = "GO_TO_ITEM"
	TypeLoadItem            Type = "LOAD_ITEM"
	TypeUpdateTaskConfig    Type = "UPDATE_TASK_CONFIG"
	TypeSequential          Type = "SEQUENTIAL"
)

// Action is a described intent, applied by the reducer
type Action interface {
	Type() Type
}

// Undoable reports whether an action edits annotations and therefore
// belongs in the undo history
func Undoable(a Action) bool {
	switch a.Type() {
	case TypeAddLabels, TypeChangeShapes, TypeChangeLabels, TypeDeleteLabels,
		TypeAddTrack, TypeTerminateTrack, TypeDeleteTrack:
		return true
	case TypeSequential:
		if seq, ok := a.(Sequential); ok {
			for _, sub := range seq.Actions {
				if Undoable(sub) {
					return true
				}
			}
		}
	}
	return false
}

// Sequential applies its actions in order as one transition. Either all
// of them apply or none, and the store records them as one history entry.
type Sequential struct {
	Actions []Action
}

// Sequence wraps several actions into one. A single action is returned
// unchanged.
func Sequence(actions ...Action) Action {
	if len(actions) == 1 {
		return actions[0]
	}
	return Sequential{Actions: actions}
}

// AddLabels adds labels to items. Label.Shapes holds indices into the
// matching shape list; the reducer replaces them with allocated ids.
type AddLabels struct {
	ItemIndices []int
	Labels      [][]state.Label
	Shapes      [][][]state.Shape
}

// ChangeShapes patches existing shapes, batched over items
type ChangeShapes struct {
	ItemIndices []int
	ShapeIDs    [][]int
	Shapes      [][]state.ShapePatch
}

// ChangeLabels patches label properties
type ChangeLabels struct {
	ItemIndices []int
	LabelIDs    [][]int
	Props       [][]state.LabelPatch
}

// DeleteLabels removes labels and their exclusive shapes
type DeleteLabels struct {
	ItemIndices []int
	LabelIDs    [][]int
}

// SelectLabels selects labels of one item. A nil Category, Attributes,
// LabelType or PolicyType leaves the current value.
type SelectLabels struct {
	Item       int
	LabelIDs   []int
	Category   *int
	Attributes map[int][]int
	LabelType  *int
	PolicyType *int
	Append     bool
}

// UnselectLabels removes labels from the selection
type UnselectLabels struct {
	Item     int
	LabelIDs []int
}

// AddTrack creates a track with one label per item index
type AddTrack struct {
	TrackType   string
	ItemIndices []int
	Labels      []state.Label
	Shapes      [][]state.Shape
}

// TerminateTrack deletes the labels of a track from FromItem onwards
type TerminateTrack struct {
	TrackID  int
	FromItem int
}

// DeleteTrack deletes a track and all of its labels
type DeleteTrack struct {
	TrackID int
}

// SplitPane splits a leaf pane in two, the new half showing a copy of ViewerID
type SplitPane struct {
	PaneID   int
	Split    state.SplitType
	ViewerID int
}

// DeletePane removes a leaf pane and its viewer
type DeletePane struct {
	PaneID   int
	ViewerID int
}

// PanePatch changes pane display properties
type PanePatch struct {
	PrimarySize *float64
	HideLabels  *bool
}

// UpdatePane patches a pane
type UpdatePane struct {
	PaneID int
	Props  PanePatch
}

// ChangeViewerConfig replaces the config of a viewer
type ChangeViewerConfig struct {
	ViewerID int
	Config   state.ViewerConfig
}

// MoveCamera moves the camera of a point cloud viewer
type MoveCamera struct {
	ViewerID int
	Position geometry.Vector3
}

// MoveCameraAndTarget moves camera and look-at target together
type MoveCameraAndTarget struct {
	ViewerID int
	Position geometry.Vector3
	Target   geometry.Vector3
}

// GoToItem changes the current item
type GoToItem struct {
	ItemIndex int
}

// LoadItem marks an item as loaded with its pixel or point dimensions
type LoadItem struct {
	ItemIndex int
	Width     int
	Height    int
	Config    *state.ViewerConfig
}

// UpdateTaskConfig replaces the task configuration
type UpdateTaskConfig struct {
	Config state.TaskConfig
}

func (AddLabels) Type() Type           { return TypeAddLabels }
func (ChangeShapes) Type() Type        { return TypeChangeShapes }
func (ChangeLabels) Type() Type        { return TypeChangeLabels }
func (DeleteLabels) Type() Type        { return TypeDeleteLabels }
func (SelectLabels) Type() Type        { return TypeSelectLabels }
func (UnselectLabels) Type() Type      { return TypeUnselectLabels }
func (AddTrack) Type() Type            { return TypeAddTrack }
func (TerminateTrack) Type() Type      { return TypeTerminateTrack }
func (DeleteTrack) Type() Type         { return TypeDeleteTrack }
func (SplitPane) Type() Type           { return TypeSplitPane }
func (DeletePane) Type() Type          { return TypeDeletePane }
func (UpdatePane) Type() Type          { return TypeUpdatePane }
func (ChangeViewerConfig) Type() Type  { return TypeChangeViewerConfig }
func (MoveCamera) Type() Type          { return TypeMoveCamera }
func (MoveCameraAndTarget) Type() Type { return TypeMoveCameraAndTarget }
func (GoToItem) Type() Type            { return TypeGoToItem }
func (LoadItem) Type() Type            { return TypeLoadItem }
func (UpdateTaskConfig) Type() Type    { return TypeUpdateTaskConfig }
func (Sequential) Type() Type          { return TypeSequential }
