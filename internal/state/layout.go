package state

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout reports a malformed pane tree
var ErrInvalidLayout = errors.New("invalid pane layout")

// ValidateLayout checks the pane tree invariants: leaves carry a viewer and
// no children, internal nodes carry a split, two children and no viewer.
func ValidateLayout(l Layout) error {
	if len(l.Panes) == 0 {
		return nil
	}
	if _, ok := l.Panes[l.RootPane]; !ok {
		return fmt.Errorf("%w: root pane %d missing", ErrInvalidLayout, l.RootPane)
	}
	for id, p := range l.Panes {
		if p.ID != id {
			return fmt.Errorf("%w: pane key %d holds pane %d", ErrInvalidLayout, id, p.ID)
		}
		if err := validatePane(l, p); err != nil {
			return err
		}
	}
	return nil
}

func validatePane(l Layout, p Pane) error {
	if p.IsLeaf() {
		if p.ViewerID < 0 {
			return fmt.Errorf("%w: leaf pane %d has no viewer", ErrInvalidLayout, p.ID)
		}
		if p.Split != "" {
			return fmt.Errorf("%w: leaf pane %d has a split", ErrInvalidLayout, p.ID)
		}
		return nil
	}
	if p.Child1 < 0 || p.Child2 < 0 {
		return fmt.Errorf("%w: pane %d must have exactly two children", ErrInvalidLayout, p.ID)
	}
	if p.Split != SplitHorizontal && p.Split != SplitVertical {
		return fmt.Errorf("%w: pane %d is missing its split type", ErrInvalidLayout, p.ID)
	}
	if p.ViewerID >= 0 {
		return fmt.Errorf("%w: internal pane %d has viewer %d", ErrInvalidLayout, p.ID, p.ViewerID)
	}
	for _, c := range []int{p.Child1, p.Child2} {
		child, ok := l.Panes[c]
		if !ok {
			return fmt.Errorf("%w: pane %d references missing child %d", ErrInvalidLayout, p.ID, c)
		}
		if child.Parent != p.ID {
			return fmt.Errorf("%w: pane %d has parent %d, expected %d", ErrInvalidLayout, c, child.Parent, p.ID)
		}
	}
	return nil
}

// LeafPanes returns the ids of all panes showing a viewer, depth first
func LeafPanes(l Layout) []int {
	var out []int
	var walk func(id int)
	walk = func(id int) {
		p, ok := l.Panes[id]
		if !ok {
			return
		}
		if p.IsLeaf() {
			out = append(out, id)
			return
		}
		walk(p.Child1)
		walk(p.Child2)
	}
	walk(l.RootPane)
	return out
}
