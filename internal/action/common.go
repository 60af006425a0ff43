package action

import "github.com/philipparndt/golabel/internal/state"

// AddLabel adds one label with its shapes to an item
func AddLabel(itemIndex int, label state.Label, shapes []state.Shape) AddLabels {
	return AddLabels{
		ItemIndices: []int{itemIndex},
		Labels:      [][]state.Label{{label}},
		Shapes:      [][][]state.Shape{{shapes}},
	}
}

// ChangeShapesSingle patches shapes of a single item
func ChangeShapesSingle(itemIndex int, shapeIDs []int, patches []state.ShapePatch) ChangeShapes {
	return ChangeShapes{
		ItemIndices: []int{itemIndex},
		ShapeIDs:    [][]int{shapeIDs},
		Shapes:      [][]state.ShapePatch{patches},
	}
}

// ChangeLabelProps patches one label
func ChangeLabelProps(itemIndex, labelID int, props state.LabelPatch) ChangeLabels {
	return ChangeLabels{
		ItemIndices: []int{itemIndex},
		LabelIDs:    [][]int{{labelID}},
		Props:       [][]state.LabelPatch{{props}},
	}
}

// DeleteLabel removes one label
func DeleteLabel(itemIndex, labelID int) DeleteLabels {
	return DeleteLabels{
		ItemIndices: []int{itemIndex},
		LabelIDs:    [][]int{{labelID}},
	}
}

// SelectLabel selects a single label, replacing or extending the selection
func SelectLabel(itemIndex, labelID int, appendSelection bool) SelectLabels {
	return SelectLabels{Item: itemIndex, LabelIDs: []int{labelID}, Append: appendSelection}
}

// SelectLabelWithCategory selects a label and makes its category current
func SelectLabelWithCategory(itemIndex, labelID, category int, attributes map[int][]int) SelectLabels {
	c := category
	return SelectLabels{Item: itemIndex, LabelIDs: []int{labelID}, Category: &c, Attributes: attributes}
}

// DeselectAll clears the selection of an item
func DeselectAll(itemIndex int) SelectLabels {
	return SelectLabels{Item: itemIndex, LabelIDs: []int{}}
}

// UnselectLabel removes one label from the selection
func UnselectLabel(itemIndex, labelID int) UnselectLabels {
	return UnselectLabels{Item: itemIndex, LabelIDs: []int{labelID}}
}
