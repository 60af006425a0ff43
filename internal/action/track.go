package action

import "github.com/philipparndt/golabel/internal/state"

// TrackEnd returns the exclusive end index of a track starting at
// startIndex. An explicit stop is capped by the item count, otherwise the
// track is capped at maxTrackLength items.
func TrackEnd(startIndex int, stopIndex *int, itemCount, maxTrackLength int) int {
	if stopIndex != nil {
		return min(*stopIndex, itemCount)
	}
	return min(startIndex+maxTrackLength, itemCount)
}

// AddDuplicatedTrack creates a track by copying label and shapes to every
// item in [startIndex, end). Labels after the first are not manual.
func AddDuplicatedTrack(
	trackType string,
	label state.Label,
	shapes []state.Shape,
	startIndex int,
	stopIndex *int,
	itemCount int,
	maxTrackLength int,
) AddTrack {
	end := TrackEnd(startIndex, stopIndex, itemCount, maxTrackLength)
	a := AddTrack{TrackType: trackType}
	for index := max(startIndex, 0); index < end; index++ {
		l := state.CloneLabel(label)
		l.Manual = index == startIndex
		a.ItemIndices = append(a.ItemIndices, index)
		a.Labels = append(a.Labels, l)
		a.Shapes = append(a.Shapes, state.CloneShapes(shapes))
	}
	return a
}
