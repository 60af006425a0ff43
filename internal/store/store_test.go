package store

import (
	"testing"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/reducer"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(opts ...Option) *Store {
	return New(state.MakeState(state.MakeTaskConfig(), []string{"a.png", "b.png"}), opts...)
}

func TestDispatchNotifiesInOrder(t *testing.T) {
	s := newStore()
	var calls []string
	s.Subscribe(func(state.State) { calls = append(calls, "first") })
	s.Subscribe(func(state.State) { calls = append(calls, "second") })

	require.NoError(t, s.Dispatch(action.GoToItem{ItemIndex: 1}))
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, 1, s.State().User.Select.Item)
}

func TestUnsubscribe(t *testing.T) {
	s := newStore()
	count := 0
	unsubscribe := s.Subscribe(func(state.State) { count++ })
	require.NoError(t, s.Dispatch(action.GoToItem{ItemIndex: 1}))
	unsubscribe()
	require.NoError(t, s.Dispatch(action.GoToItem{ItemIndex: 0}))
	assert.Equal(t, 1, count)
}

func TestUnsubscribeDuringNotification(t *testing.T) {
	s := newStore()
	var unsubscribeSecond func()
	secondCalls := 0
	s.Subscribe(func(state.State) { unsubscribeSecond() })
	unsubscribeSecond = s.Subscribe(func(state.State) { secondCalls++ })

	require.NoError(t, s.Dispatch(action.GoToItem{ItemIndex: 1}))
	assert.Equal(t, 1, secondCalls, "removal takes effect from the next dispatch")
	require.NoError(t, s.Dispatch(action.GoToItem{ItemIndex: 0}))
	assert.Equal(t, 1, secondCalls)
}

func TestRejectedActionLeavesStateUntouched(t *testing.T) {
	s := newStore()
	count := 0
	s.Subscribe(func(state.State) { count++ })

	err := s.Dispatch(action.GoToItem{ItemIndex: 9})
	require.ErrorIs(t, err, reducer.ErrContract)
	assert.Zero(t, count)
	assert.False(t, s.CanUndo())
}

func TestReentrantDispatch(t *testing.T) {
	s := newStore()
	var inner error
	s.Subscribe(func(state.State) {
		inner = s.Dispatch(action.GoToItem{ItemIndex: 0})
	})
	require.NoError(t, s.Dispatch(action.GoToItem{ItemIndex: 1}))
	assert.ErrorIs(t, inner, ErrReentrantDispatch)
	assert.Equal(t, 1, s.State().User.Select.Item)
}

func TestUndoRedo(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Dispatch(action.AddBox2dLabel(0, nil, 0, 0, 10, 10)))
	require.NoError(t, s.Dispatch(action.AddBox2dLabel(0, nil, 20, 20, 10, 10)))
	require.Equal(t, 2, s.State().LabelCount())

	ok, err := s.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, s.State().LabelCount())

	ok, err = s.Redo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, s.State().LabelCount())

	_, _ = s.Undo()
	_, _ = s.Undo()
	assert.Zero(t, s.State().LabelCount())
	ok, _ = s.Undo()
	assert.False(t, ok)
}

func TestNewEditClearsRedo(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Dispatch(action.AddBox2dLabel(0, nil, 0, 0, 10, 10)))
	_, _ = s.Undo()
	require.True(t, s.CanRedo())
	require.NoError(t, s.Dispatch(action.AddBox2dLabel(0, nil, 5, 5, 10, 10)))
	assert.False(t, s.CanRedo())
}

func TestViewActionsSkipHistory(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Dispatch(action.GoToItem{ItemIndex: 1}))
	require.NoError(t, s.Dispatch(action.LoadItem{ItemIndex: 0, Width: 10, Height: 10}))
	assert.False(t, s.CanUndo())
}

func TestUndoKeepsLoadStatusAndSelection(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Dispatch(action.AddBox2dLabel(0, nil, 0, 0, 10, 10)))
	require.NoError(t, s.Dispatch(action.LoadItem{ItemIndex: 0, Width: 640, Height: 480}))
	require.NoError(t, s.Dispatch(action.SelectLabel(0, 0, false)))

	_, err := s.Undo()
	require.NoError(t, err)
	st := s.State()
	assert.True(t, st.Task.Items[0].Loaded)
	assert.Equal(t, 640, st.Task.Items[0].Width)
	assert.Empty(t, st.User.Select.Labels, "selection of removed labels is dropped")
}

func TestHistoryLimit(t *testing.T) {
	s := newStore(WithHistoryLimit(2))
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Dispatch(action.AddBox2dLabel(0, nil, float64(i*20), 0, 10, 10)))
	}
	steps := 0
	for {
		ok, err := s.Undo()
		require.NoError(t, err)
		if !ok {
			break
		}
		steps++
	}
	assert.Equal(t, 2, steps)
	assert.Equal(t, 3, s.State().LabelCount())
}

func TestFastStore(t *testing.T) {
	st := state.MakeState(state.MakeTaskConfig(), []string{"a.png"})
	f := NewFastStore(st)
	f.Update(func(s state.State) state.State {
		s.User.Select.Item = 3
		return s
	})
	assert.Equal(t, 3, f.State().User.Select.Item)
	f.Sync(st)
	assert.Equal(t, 0, f.State().User.Select.Item)
}
