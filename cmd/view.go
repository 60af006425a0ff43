package cmd

import (
	"fmt"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/philipparndt/golabel/internal/app"
	"github.com/philipparndt/golabel/internal/gui"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/session"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/spf13/cobra"
)

var savePath string

var viewCmd = &cobra.Command{
	Use:   "view [task]",
	Short: "Open the labelling window for a task",
	Long: `Open the point cloud window (raylib) or the image window (fyne),
depending on the item type of the task. The task file is watched and its
label config is reloaded on change.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVarP(&savePath, "save", "o", "", "state file written on Ctrl+S (default <task>.state.json)")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	path, err := taskPath(args)
	if err != nil {
		return err
	}
	save := savePath
	if save == "" {
		save = defaultSavePath(path)
	}

	var win *gui.Window
	notify := func(itemIndex int, err error) {
		if win != nil {
			win.Notify(itemIndex, err)
			return
		}
		fmt.Printf("Warning: item %d not loaded: %v\n", itemIndex+1, err)
	}
	task, sess, err := openSession(args, session.WithNotifier(notify))
	if err != nil {
		return err
	}
	defer sess.Close()

	title := "golabel"
	if name := task.Config.ProjectName; name != "" {
		title = "golabel - " + name
	}

	if sess.State().Task.Config.ItemType == state.ItemPointCloud {
		return app.Run(app.Options{Session: sess, TaskFile: path, SavePath: save, Title: title})
	}

	watch, err := sess.WatchTask(path, session.ReloadDebounce, nil)
	if err != nil {
		logger.Logger().Warn("config reload not available", "file", path, "error", err)
	} else {
		defer watch.Close()
	}
	win, err = gui.New(fyneapp.New(), gui.Options{Session: sess, SavePath: save, Title: title})
	if err != nil {
		return err
	}
	win.ShowAndRun()
	return nil
}
