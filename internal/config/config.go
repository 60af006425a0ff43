// Package config reads task files. A task file holds the task
// configuration and the list of items to label, encoded as YAML, TOML or
// JSON depending on the file extension.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/state"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the task file versions this build reads
const SupportedVersion = "^1.0.0"

// ErrInvalidConfig marks a task configuration that cannot be used
var ErrInvalidConfig = errors.New("invalid task config")

// ItemSpec is one entry of the item list
type ItemSpec struct {
	URL string `json:"url" yaml:"url" toml:"url"`
}

// Task is the content of a task file
type Task struct {
	Config state.TaskConfig `json:"config" yaml:"config" toml:"config"`
	Items  []ItemSpec       `json:"items" yaml:"items" toml:"items"`

	// Dir is the directory of the task file. Relative item urls are
	// resolved against it.
	Dir string `json:"-" yaml:"-" toml:"-"`
}

// URLs returns the item urls in order
func (t Task) URLs() []string {
	urls := make([]string, len(t.Items))
	for i, it := range t.Items {
		urls[i] = it.URL
	}
	return urls
}

// State builds the initial annotation state of the task
func (t Task) State() state.State {
	return state.MakeState(t.Config, t.URLs())
}

// ExpandPath expands a leading ~ and cleans the path
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand %q: %w", path, err)
	}
	return filepath.Clean(expanded), nil
}

// Load reads and validates a task file
func Load(path string) (Task, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return Task{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Task{}, fmt.Errorf("failed to read task file: %w", err)
	}
	task, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return Task{}, fmt.Errorf("%s: %w", path, err)
	}
	task.Dir = filepath.Dir(path)
	if err := Validate(task.Config); err != nil {
		return Task{}, fmt.Errorf("%s: %w", path, err)
	}
	logger.Logger().Debug("task loaded", "path", path, "items", len(task.Items), "itemType", task.Config.ItemType)
	return task, nil
}

// LoadTask reads a task file and builds its initial state
func LoadTask(path string) (Task, state.State, error) {
	task, err := Load(path)
	if err != nil {
		return Task{}, state.State{}, err
	}
	return task, task.State(), nil
}

// Decode parses task file content. ext selects the format and defaults to
// YAML. Missing fields take the defaults of state.MakeTaskConfig.
func Decode(data []byte, ext string) (Task, error) {
	task := Task{Config: state.MakeTaskConfig()}
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		err = toml.Unmarshal(data, &task)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&task)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, &task)
	default:
		return Task{}, fmt.Errorf("%w: unknown file type %q", ErrInvalidConfig, ext)
	}
	if err != nil {
		return Task{}, fmt.Errorf("failed to decode task: %w", err)
	}
	return task, nil
}

// Validate checks a task configuration. All problems are reported in one
// error wrapping ErrInvalidConfig.
func Validate(cfg state.TaskConfig) error {
	var problems []string
	if cfg.ItemType != state.ItemImage && cfg.ItemType != state.ItemPointCloud {
		problems = append(problems, fmt.Sprintf("unknown item type %q", cfg.ItemType))
	}
	if len(cfg.LabelTypes) == 0 {
		problems = append(problems, "no label types")
	}
	for _, lt := range cfg.LabelTypes {
		if !slices.Contains(knownLabelTypes(cfg.ItemType), lt) && !isCustom(cfg, lt) {
			problems = append(problems, fmt.Sprintf("label type %q not supported for %s items", lt, cfg.ItemType))
		}
	}
	if cfg.MaxTrackLength <= 0 {
		problems = append(problems, fmt.Sprintf("maxTrackLength must be positive, got %d", cfg.MaxTrackLength))
	}
	if err := checkVersion(cfg.Version); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func knownLabelTypes(itemType string) []string {
	if itemType == state.ItemPointCloud {
		return []string{state.LabelBox3D, state.LabelPlane3D, state.LabelTag}
	}
	return []string{state.LabelBox2D, state.LabelTag}
}

func isCustom(cfg state.TaskConfig, name string) bool {
	return slices.ContainsFunc(cfg.CustomLabels, func(t state.LabelTemplate) bool {
		return t.Name == name
	})
}

// checkVersion accepts an empty version as the current one
func checkVersion(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("version %q: %v", version, err)
	}
	c, err := semver.NewConstraint(SupportedVersion)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("version %s does not satisfy %s", v, SupportedVersion)
	}
	return nil
}
