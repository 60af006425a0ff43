package session

import (
	"io"
	"time"

	"github.com/philipparndt/golabel/internal/action"
	"github.com/philipparndt/golabel/internal/config"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/pkg/watcher"
)

// ReloadDebounce is the quiet time before a changed task file is read
const ReloadDebounce = 500 * time.Millisecond

// WatchTask reloads the config of a task file whenever it changes. The
// new config is dispatched from the event queue, so it takes effect on the
// next Drain. Invalid files are reported to onFailure and leave the config
// unchanged. Closing the result stops watching.
func (s *Session) WatchTask(path string, debounce time.Duration, onFailure func(error)) (io.Closer, error) {
	if onFailure == nil {
		onFailure = func(err error) {
			logger.Logger().Warn("task reload failed", "path", path, "error", err)
		}
	}
	fw, err := watcher.NewFileWatcher(debounce)
	if err != nil {
		return nil, err
	}
	err = fw.Watch([]string{path}, func(changed string) {
		task, err := config.Load(changed)
		s.Post(func() {
			if err != nil {
				onFailure(err)
				return
			}
			if err := s.Dispatch(action.UpdateTaskConfig{Config: task.Config}); err != nil {
				onFailure(err)
				return
			}
			logger.Logger().Info("task config reloaded", "path", changed)
		})
	})
	if err != nil {
		fw.Close()
		return nil, err
	}
	fw.Start()
	return fw, nil
}
