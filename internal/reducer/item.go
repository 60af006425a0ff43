package reducer

import (
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
)

func goToItem(s state.State, a action.GoToItem) (state.State, error) {
	if err := checkItem(s, a, a.ItemIndex); err != nil {
		return s, err
	}
	s.User.Select.Item = a.ItemIndex
	return s, nil
}

func loadItem(s state.State, a action.LoadItem) (state.State, error) {
	if err := checkItem(s, a, a.ItemIndex); err != nil {
		return s, err
	}
	items := copyItems(s.Task.Items)
	item := items[a.ItemIndex]
	item.Loaded = true
	item.Width = a.Width
	item.Height = a.Height
	if a.Config != nil {
		cfg := *a.Config
		item.ViewerConfig = &cfg
	}
	items[a.ItemIndex] = item
	s.Task.Items = items
	return s, nil
}
