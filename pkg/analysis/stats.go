package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

// LabelInfo describes one label with its extent
type LabelInfo struct {
	Item     int     `json:"item"`
	ID       int     `json:"id"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Track    int     `json:"track"`
	Extent   float64 `json:"extent"` // rect area or cube volume
}

// ItemStats counts the labels of one item
type ItemStats struct {
	Index  int    `json:"index"`
	URL    string `json:"url"`
	Loaded bool   `json:"loaded"`
	Labels int    `json:"labels"`
}

// TaskStats contains various statistics of an annotation task
type TaskStats struct {
	Items          int            `json:"items"`
	LoadedItems    int            `json:"loadedItems"`
	LabeledItems   int            `json:"labeledItems"`
	Labels         int            `json:"labels"`
	Shapes         int            `json:"shapes"`
	ByType         map[string]int `json:"byType"`
	ByCategory     map[string]int `json:"byCategory"`
	PerItem        []ItemStats    `json:"perItem"`
	Tracks         int            `json:"tracks"`
	MinTrackLength int            `json:"minTrackLength"`
	MaxTrackLength int            `json:"maxTrackLength"`
	AvgTrackLength float64        `json:"avgTrackLength"`
	AllLabels      []LabelInfo    `json:"-"`
}

// AnalyzeTask collects statistics over all items and tracks
func AnalyzeTask(st state.State) *TaskStats {
	result := &TaskStats{
		Items:      len(st.Task.Items),
		ByType:     map[string]int{},
		ByCategory: map[string]int{},
		PerItem:    make([]ItemStats, 0, len(st.Task.Items)),
		AllLabels:  make([]LabelInfo, 0),
	}
	categories := st.Task.Config.Categories

	for _, item := range st.Task.Items {
		if item.Loaded {
			result.LoadedItems++
		}
		if len(item.Labels) > 0 {
			result.LabeledItems++
		}
		result.Labels += len(item.Labels)
		result.Shapes += len(item.Shapes)
		result.PerItem = append(result.PerItem, ItemStats{
			Index:  item.Index,
			URL:    item.URL,
			Loaded: item.Loaded,
			Labels: len(item.Labels),
		})

		for _, id := range item.SortedLabelIDs() {
			label := item.Labels[id]
			result.ByType[label.Type]++
			name := CategoryName(categories, label.Category)
			result.ByCategory[name]++
			result.AllLabels = append(result.AllLabels, LabelInfo{
				Item:     item.Index,
				ID:       id,
				Type:     label.Type,
				Category: name,
				Track:    label.Track,
				Extent:   labelExtent(item, id),
			})
		}
	}

	result.Tracks = len(st.Task.Tracks)
	if result.Tracks == 0 {
		return result
	}
	minLength := math.MaxInt
	total := 0
	for _, tr := range st.Task.Tracks {
		n := len(tr.Labels)
		total += n
		minLength = min(minLength, n)
		result.MaxTrackLength = max(result.MaxTrackLength, n)
	}
	result.MinTrackLength = minLength
	result.AvgTrackLength = float64(total) / float64(result.Tracks)
	return result
}

// CategoryName returns the name of the first category of a label
func CategoryName(categories []string, category []int) string {
	if len(category) == 0 {
		return "none"
	}
	if c := category[0]; c >= 0 && c < len(categories) {
		return categories[c]
	}
	return fmt.Sprintf("#%d", category[0])
}

func labelExtent(item state.Item, id int) float64 {
	extent := 0.0
	for _, s := range item.LabelShapes(id) {
		switch {
		case s.Rect != nil:
			extent += s.Rect.W * s.Rect.H
		case s.Cube != nil:
			extent += s.Cube.Size.X * s.Cube.Size.Y * s.Cube.Size.Z
		}
	}
	return extent
}

// FindLargestLabels returns the N labels with the largest extent
func FindLargestLabels(result *TaskStats, count int) []LabelInfo {
	labels := make([]LabelInfo, len(result.AllLabels))
	copy(labels, result.AllLabels)

	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Extent > labels[j].Extent
	})

	if count > len(labels) {
		count = len(labels)
	}

	return labels[:count]
}

// FindSmallestLabels returns the N labels with the smallest extent
func FindSmallestLabels(result *TaskStats, count int) []LabelInfo {
	labels := make([]LabelInfo, len(result.AllLabels))
	copy(labels, result.AllLabels)

	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Extent < labels[j].Extent
	})

	if count > len(labels) {
		count = len(labels)
	}

	return labels[:count]
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
