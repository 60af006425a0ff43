package reducer

import (
	"math"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
)

func addTrack(s state.State, a action.AddTrack) (state.State, error) {
	if len(a.Labels) != len(a.ItemIndices) || len(a.Shapes) != len(a.ItemIndices) {
		return s, contractf(a, "items, labels and shapes differ in length")
	}
	seen := map[int]bool{}
	for _, idx := range a.ItemIndices {
		if err := checkItem(s, a, idx); err != nil {
			return s, err
		}
		if seen[idx] {
			return s, contractf(a, "item %d appears twice", idx)
		}
		seen[idx] = true
	}

	items := copyItems(s.Task.Items)
	tracks := copyTracks(s.Task.Tracks)
	status := s.Task.Status
	status.MaxTrackID++
	tr := state.MakeTrack(status.MaxTrackID, a.TrackType)
	for i, idx := range a.ItemIndices {
		item := copyItem(items[idx])
		label := a.Labels[i]
		label.Track = tr.ID
		created := allocateLabel(&item, &status, label, a.Shapes[i])
		tr.Labels[idx] = created.ID
		items[idx] = item
	}
	tracks[tr.ID] = tr

	s.Task.Items = items
	s.Task.Tracks = tracks
	s.Task.Status = status
	return s, nil
}

// dropTrackLabels deletes the track labels on items >= from
func dropTrackLabels(s state.State, tr state.Track, from int) state.State {
	items := copyItems(s.Task.Items)
	tracks := copyTracks(s.Task.Tracks)
	sel := s.User.Select
	tr = copyTrack(tr)
	for idx, labelID := range tr.Labels {
		if idx < from {
			continue
		}
		delete(tr.Labels, idx)
		if idx < 0 || idx >= len(items) {
			continue
		}
		item := copyItem(items[idx])
		if _, ok := removeLabel(&item, labelID); ok {
			items[idx] = item
			sel = deselect(sel, idx, labelID)
		}
	}
	if len(tr.Labels) == 0 {
		delete(tracks, tr.ID)
	} else {
		tracks[tr.ID] = tr
	}
	s.Task.Items = items
	s.Task.Tracks = tracks
	s.User.Select = sel
	return s
}

func terminateTrack(s state.State, a action.TerminateTrack) (state.State, error) {
	tr, ok := s.Task.Tracks[a.TrackID]
	if !ok {
		return s, nil
	}
	return dropTrackLabels(s, tr, a.FromItem), nil
}

func deleteTrack(s state.State, a action.DeleteTrack) (state.State, error) {
	tr, ok := s.Task.Tracks[a.TrackID]
	if !ok {
		return s, nil
	}
	return dropTrackLabels(s, tr, math.MinInt), nil
}
