package reducer

import (
	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/geometry"
)

func copyPanes(panes map[int]state.Pane) map[int]state.Pane {
	out := make(map[int]state.Pane, len(panes))
	for k, v := range panes {
		out[k] = v
	}
	return out
}

func copyViewerConfigs(configs map[int]state.ViewerConfig) map[int]state.ViewerConfig {
	out := make(map[int]state.ViewerConfig, len(configs))
	for k, v := range configs {
		out[k] = v
	}
	return out
}

func cloneViewerConfig(c state.ViewerConfig) state.ViewerConfig {
	if c.Image != nil {
		img := *c.Image
		c.Image = &img
	}
	if c.PointCloud != nil {
		pc := *c.PointCloud
		c.PointCloud = &pc
	}
	return c
}

func splitPane(s state.State, a action.SplitPane) (state.State, error) {
	layout := s.User.Layout
	pane, ok := layout.Panes[a.PaneID]
	if !ok {
		return s, contractf(a, "pane %d does not exist", a.PaneID)
	}
	if !pane.IsLeaf() {
		return s, contractf(a, "pane %d is not a leaf", a.PaneID)
	}
	if a.Split != state.SplitHorizontal && a.Split != state.SplitVertical {
		return s, contractf(a, "unknown split %q", a.Split)
	}
	source, ok := s.User.ViewerConfigs[a.ViewerID]
	if !ok {
		return s, contractf(a, "viewer %d does not exist", a.ViewerID)
	}

	panes := copyPanes(layout.Panes)
	configs := copyViewerConfigs(s.User.ViewerConfigs)

	child1 := state.MakePane(layout.MaxPaneID+1, pane.ViewerID, pane.ID)
	child1.HideLabels = pane.HideLabels
	newViewer := layout.MaxViewerConfigID + 1
	child2 := state.MakePane(layout.MaxPaneID+2, newViewer, pane.ID)

	if cfg, ok := configs[pane.ViewerID]; ok {
		cfg.PaneID = child1.ID
		configs[pane.ViewerID] = cfg
	}
	copied := cloneViewerConfig(source)
	copied.PaneID = child2.ID
	configs[newViewer] = copied

	pane.ViewerID = -1
	pane.Split = a.Split
	pane.PrimarySize = 50
	pane.Child1 = child1.ID
	pane.Child2 = child2.ID
	pane.HideLabels = false
	panes[pane.ID] = pane
	panes[child1.ID] = child1
	panes[child2.ID] = child2

	layout.Panes = panes
	layout.MaxPaneID += 2
	layout.MaxViewerConfigID = newViewer
	s.User.Layout = layout
	s.User.ViewerConfigs = configs
	return s, nil
}

func deletePane(s state.State, a action.DeletePane) (state.State, error) {
	layout := s.User.Layout
	pane, ok := layout.Panes[a.PaneID]
	if !ok {
		return s, contractf(a, "pane %d does not exist", a.PaneID)
	}
	if a.PaneID == layout.RootPane {
		return s, contractf(a, "the root pane cannot be deleted")
	}
	if !pane.IsLeaf() {
		return s, contractf(a, "pane %d is not a leaf", a.PaneID)
	}
	if a.ViewerID != pane.ViewerID {
		return s, contractf(a, "pane %d shows viewer %d, not %d", a.PaneID, pane.ViewerID, a.ViewerID)
	}
	parent, ok := layout.Panes[pane.Parent]
	if !ok {
		return s, contractf(a, "pane %d has no parent", a.PaneID)
	}

	panes := copyPanes(layout.Panes)
	siblingID := parent.Child1
	if siblingID == pane.ID {
		siblingID = parent.Child2
	}
	sibling := panes[siblingID]
	sibling.Parent = parent.Parent
	panes[siblingID] = sibling

	if parent.ID == layout.RootPane {
		layout.RootPane = siblingID
	} else if grand, ok := panes[parent.Parent]; ok {
		if grand.Child1 == parent.ID {
			grand.Child1 = siblingID
		} else {
			grand.Child2 = siblingID
		}
		panes[grand.ID] = grand
	}
	delete(panes, pane.ID)
	delete(panes, parent.ID)

	configs := copyViewerConfigs(s.User.ViewerConfigs)
	delete(configs, pane.ViewerID)

	layout.Panes = panes
	s.User.Layout = layout
	s.User.ViewerConfigs = configs
	return s, nil
}

func updatePane(s state.State, a action.UpdatePane) (state.State, error) {
	pane, ok := s.User.Layout.Panes[a.PaneID]
	if !ok {
		return s, contractf(a, "pane %d does not exist", a.PaneID)
	}
	if a.Props.PrimarySize != nil {
		size := *a.Props.PrimarySize
		if size <= 0 || size >= 100 {
			return s, contractf(a, "primary size %v outside (0, 100)", size)
		}
		pane.PrimarySize = size
	}
	if a.Props.HideLabels != nil {
		pane.HideLabels = *a.Props.HideLabels
	}
	panes := copyPanes(s.User.Layout.Panes)
	panes[pane.ID] = pane
	s.User.Layout.Panes = panes
	return s, nil
}

func changeViewerConfig(s state.State, a action.ChangeViewerConfig) (state.State, error) {
	switch a.Config.Type {
	case state.ViewerImage:
		if a.Config.Image == nil {
			return s, contractf(a, "image viewer without image config")
		}
	case state.ViewerPointCloud:
		if a.Config.PointCloud == nil {
			return s, contractf(a, "point cloud viewer without camera config")
		}
	default:
		return s, contractf(a, "unknown viewer type %q", a.Config.Type)
	}
	configs := copyViewerConfigs(s.User.ViewerConfigs)
	configs[a.ViewerID] = cloneViewerConfig(a.Config)
	s.User.ViewerConfigs = configs
	return s, nil
}

// moveCamera updates a point cloud camera. Unknown viewers are stale and
// ignored.
func moveCamera(s state.State, viewerID int, position, target *geometry.Vector3) state.State {
	cfg, ok := s.User.ViewerConfigs[viewerID]
	if !ok || cfg.PointCloud == nil {
		return s
	}
	cfg = cloneViewerConfig(cfg)
	cfg.PointCloud.Position = *position
	if target != nil {
		cfg.PointCloud.Target = *target
	}
	configs := copyViewerConfigs(s.User.ViewerConfigs)
	configs[viewerID] = cfg
	s.User.ViewerConfigs = configs
	return s
}
