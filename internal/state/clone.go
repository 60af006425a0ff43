package state

import (
	"encoding/json"
	"fmt"

	"github.com/jinzhu/copier"
)

var deepCopy = copier.Option{CaseSensitive: true, DeepCopy: true}

// Clone returns a deep copy of the state that shares no maps or slices
func Clone(s State) State {
	var out State
	if err := copier.CopyWithOption(&out, &s, deepCopy); err != nil {
		// copier only fails for mismatched kinds, which cannot happen here
		panic(fmt.Sprintf("state: clone failed: %v", err))
	}
	return out
}

// CloneLabel returns a deep copy of a label
func CloneLabel(l Label) Label {
	var out Label
	if err := copier.CopyWithOption(&out, &l, deepCopy); err != nil {
		panic(fmt.Sprintf("state: clone label failed: %v", err))
	}
	return out
}

// CloneShape returns a deep copy of a shape
func CloneShape(s Shape) Shape {
	var out Shape
	if err := copier.CopyWithOption(&out, &s, deepCopy); err != nil {
		panic(fmt.Sprintf("state: clone shape failed: %v", err))
	}
	return out
}

// CloneShapes deep copies a shape list
func CloneShapes(shapes []Shape) []Shape {
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = CloneShape(s)
	}
	return out
}

// Marshal serializes the state as JSON
func Marshal(s State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return data, nil
}

// MarshalIndent serializes the state as indented JSON
func MarshalIndent(s State) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return data, nil
}

// Unmarshal restores a state from JSON and validates its layout
func Unmarshal(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	if err := ValidateLayout(s.User.Layout); err != nil {
		return State{}, err
	}
	return s, nil
}
