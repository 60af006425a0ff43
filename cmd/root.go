// Package cmd is the golabel command line
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/golabel/internal/config"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/persist"
	"github.com/philipparndt/golabel/internal/session"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/version"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	taskFile  string
	statePath string
)

var rootCmd = &cobra.Command{
	Use:   "golabel",
	Short: "Annotation tool for images and point clouds",
	Long: `golabel labels images with 2D boxes and tags and point clouds with 3D
boxes and ground planes. Labels can be tracked across the items of a task.
A task file (yaml, toml or json) lists the items and the label config.`,
	Version:      version.GetFullVersion(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Setup(logLevel, os.Stderr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&taskFile, "config", "c", "", "task file, used when no task argument is given")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "saved state to resume from instead of the task items")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// taskPath returns the task file from the arguments or --config
func taskPath(args []string) (string, error) {
	path := taskFile
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return "", errors.New("no task file given")
	}
	return config.ExpandPath(path)
}

// loadState loads a task and the state to work on, which is the saved
// state when --state is set
func loadState(args []string) (config.Task, state.State, error) {
	path, err := taskPath(args)
	if err != nil {
		return config.Task{}, state.State{}, err
	}
	task, st, err := config.LoadTask(path)
	if err != nil {
		return config.Task{}, state.State{}, err
	}
	if statePath == "" {
		return task, st, nil
	}
	saved, err := loadSaved(statePath)
	if err != nil {
		return config.Task{}, state.State{}, err
	}
	return task, saved, nil
}

func loadSaved(path string) (state.State, error) {
	path, err := config.ExpandPath(path)
	if err != nil {
		return state.State{}, err
	}
	st, err := persist.LoadFile(path)
	if err != nil {
		return state.State{}, fmt.Errorf("load state %s: %w", path, err)
	}
	return st, nil
}

// openSession loads a task into a new session
func openSession(args []string, opts ...session.Option) (config.Task, *session.Session, error) {
	task, st, err := loadState(args)
	if err != nil {
		return config.Task{}, nil, err
	}
	opts = append([]session.Option{session.WithAssetDir(task.Dir)}, opts...)
	return task, session.New(st, opts...), nil
}

// defaultSavePath puts the state next to the task file
func defaultSavePath(task string) string {
	base := strings.TrimSuffix(task, filepath.Ext(task))
	return base + ".state.json"
}
