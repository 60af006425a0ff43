package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/golabel/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlTask = `config:
  projectName: street
  version: 1.2.0
  itemType: pointcloud
  labelTypes: [box3d, plane3d]
  categories: [car, pedestrian]
  tracking: true
  maxTrackLength: 5
  attributes:
    - name: occluded
      toolType: switch
items:
  - url: frames/0.ply
  - url: frames/1.ply
`

const tomlTask = `[config]
projectName = "signs"
itemType = "image"
labelTypes = ["box2d", "face"]
categories = ["stop"]

[[config.customLabels]]
name = "face"
template = [{x = 0.0, y = 0.0}, {x = 10.0, y = 0.0}]
connections = [[0, 1]]

[[items]]
url = "a.png"
`

const jsonTask = `{"config": {"itemType": "image", "labelTypes": ["box2d"]}, "items": [{"url": "a.jpg"}]}`

func writeTask(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeTask(t, "task.yaml", yamlTask)
	task, st, err := LoadTask(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Dir(path), task.Dir)
	assert.Equal(t, "street", task.Config.ProjectName)
	assert.Equal(t, []string{"car", "pedestrian"}, task.Config.Categories)
	assert.True(t, task.Config.Tracking)
	assert.Equal(t, 5, task.Config.MaxTrackLength)
	require.Len(t, task.Config.Attributes, 1)
	assert.Equal(t, "switch", task.Config.Attributes[0].ToolType)

	require.Len(t, st.Task.Items, 2)
	assert.Equal(t, "frames/1.ply", st.Task.Items[1].URL)
	assert.Equal(t, state.ViewerPointCloud, st.User.ViewerConfigs[0].Type)
}

func TestLoadTOML(t *testing.T) {
	task, err := Load(writeTask(t, "task.toml", tomlTask))
	require.NoError(t, err)
	require.Len(t, task.Config.CustomLabels, 1)
	face := task.Config.CustomLabels[0]
	assert.Equal(t, "face", face.Name)
	assert.Len(t, face.Template, 2)
	assert.Equal(t, [][2]int{{0, 1}}, face.Connections)
	// defaults survive when the file does not set them
	assert.Equal(t, state.DefaultMaxTrackLength, task.Config.MaxTrackLength)
	assert.Equal(t, []string{"a.png"}, task.URLs())
}

func TestLoadJSON(t *testing.T) {
	task, err := Load(writeTask(t, "task.json", jsonTask))
	require.NoError(t, err)
	assert.Equal(t, state.ItemImage, task.Config.ItemType)

	_, err = Load(writeTask(t, "bad.json", `{"config": {}, "extra": 1}`))
	assert.Error(t, err)
}

func TestDecodeUnknownExtension(t *testing.T) {
	_, err := Decode([]byte("x"), ".ini")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	valid := state.MakeTaskConfig()
	require.NoError(t, Validate(valid))

	tests := []struct {
		name   string
		modify func(*state.TaskConfig)
	}{
		{"item type", func(c *state.TaskConfig) { c.ItemType = "video" }},
		{"no label types", func(c *state.TaskConfig) { c.LabelTypes = nil }},
		{"label type for item", func(c *state.TaskConfig) { c.LabelTypes = []string{state.LabelBox3D} }},
		{"track length", func(c *state.TaskConfig) { c.MaxTrackLength = 0 }},
		{"version major", func(c *state.TaskConfig) { c.Version = "2.0.0" }},
		{"version syntax", func(c *state.TaskConfig) { c.Version = "latest" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := state.MakeTaskConfig()
			tt.modify(&cfg)
			assert.ErrorIs(t, Validate(cfg), ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := Load(writeTask(t, "task.yml", "config:\n  itemType: video\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err := ExpandPath("~/tasks/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tasks", "a.yaml"), got)
}
