package app

import (
	"fmt"

	"github.com/philipparndt/golabel/internal/session"
)

// setupFileWatcher reloads the task config when the task file changes
func (app *App) setupFileWatcher() error {
	closer, err := app.session.WatchTask(app.FileWatch.taskFile, session.ReloadDebounce, func(err error) {
		app.UI.errText = fmt.Sprintf("reload failed: %v", err)
	})
	if err != nil {
		return fmt.Errorf("failed to watch task file: %w", err)
	}
	fmt.Printf("Watching %s for changes\n", app.FileWatch.taskFile)
	app.FileWatch.watch = closer
	return nil
}
