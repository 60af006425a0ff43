package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/golabel/internal/config"
	"github.com/philipparndt/golabel/internal/gui"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/session"
)

func main() {
	if err := logger.Setup(os.Getenv("GOLABEL_LOG_LEVEL"), os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	a := app.New()

	// Check if a task file was provided as argument
	if len(os.Args) > 1 {
		if _, err := openTask(a, os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		a.Run()
		return
	}

	w := a.NewWindow("golabel")
	showWelcomeScreen(a, w)
	w.Resize(fyne.NewSize(600, 400))
	w.ShowAndRun()
}

func showWelcomeScreen(a fyne.App, w fyne.Window) {
	welcomeLabel := widget.NewLabel("Welcome to golabel")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Click 'Open Task' to label the images of a task file")

	openButton := widget.NewButton("Open Task", func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if reader == nil {
				return
			}
			defer reader.Close()

			win, err := openTask(a, reader.URI().Path())
			if err != nil {
				dialog.ShowError(fmt.Errorf("failed to open task: %w", err), w)
				return
			}
			win.SetMaster()
			w.Hide()
		}, w)
	})

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(openButton),
		layout.NewSpacer(),
	)
	w.SetContent(content)
}

// openTask opens a labelling window for an image task
func openTask(a fyne.App, path string) (*gui.Window, error) {
	path, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	task, st, err := config.LoadTask(path)
	if err != nil {
		return nil, err
	}

	var win *gui.Window
	sess := session.New(st,
		session.WithAssetDir(task.Dir),
		session.WithNotifier(func(itemIndex int, err error) {
			if win != nil {
				win.Notify(itemIndex, err)
			}
		}),
	)
	win, err = gui.New(a, gui.Options{Session: sess, Title: "golabel - " + path})
	if err != nil {
		sess.Close()
		return nil, err
	}
	if watch, err := sess.WatchTask(path, session.ReloadDebounce, nil); err == nil {
		win.OnClosed(func() {
			watch.Close()
			sess.Close()
		})
	} else {
		win.OnClosed(sess.Close)
	}
	win.Show()
	return win, nil
}
