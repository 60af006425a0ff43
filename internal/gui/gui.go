// Package gui is the fyne window for labelling image items with boxes,
// custom shapes and tags.
package gui

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/golabel/internal/draw2d"
	"github.com/philipparndt/golabel/internal/label2d"
	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/internal/persist"
	"github.com/philipparndt/golabel/internal/session"
	"github.com/philipparndt/golabel/internal/state"
	"github.com/philipparndt/golabel/pkg/analysis"
	"github.com/philipparndt/golabel/version"
)

// TagFontSize is the point size of tag labels
const TagFontSize = 14

// Options configure the window
type Options struct {
	Session *session.Session
	// SavePath is written on Ctrl+S when set
	SavePath string
	Title    string
}

// Window is the image labelling window
type Window struct {
	window   fyne.Window
	session  *session.Session
	canvas   *LabelCanvas
	savePath string
	stop     chan struct{}
	onClosed []func()

	itemLabel     *widget.Label
	labelsLabel   *widget.Label
	selectedLabel *widget.Label
	statusLabel   *widget.Label
	categories    *widget.Select
	labelTypes    *widget.Select
	// syncing is set while the panel follows the state
	syncing bool
}

// New creates the window of an image session
func New(a fyne.App, opts Options) (*Window, error) {
	sess := opts.Session
	if sess == nil {
		return nil, errors.New("no session")
	}
	if t := sess.State().Task.Config.ItemType; t != state.ItemImage {
		return nil, fmt.Errorf("item type %q cannot be shown in the image viewer", t)
	}
	title := opts.Title
	if title == "" {
		title = "golabel"
	}

	tags, err := draw2d.NewTagRenderer(TagFontSize)
	if err != nil {
		return nil, err
	}
	w := &Window{
		window:   a.NewWindow(title),
		session:  sess,
		canvas:   NewLabelCanvas(sess, tags),
		savePath: opts.SavePath,
		stop:     make(chan struct{}),
	}
	w.canvas.OnError = w.report
	w.canvas.OnChanged = w.updateInfo
	w.canvas.OnKey = w.onKey
	w.setupMainUI()
	w.setupShortcuts()
	w.window.SetOnClosed(w.close)
	w.window.Resize(fyne.NewSize(1200, 800))

	go w.pump()
	if err := sess.GoToItem(sess.State().User.Select.Item); err != nil {
		w.report(err)
	}
	return w, nil
}

// ShowAndRun shows the window and runs the app until it is closed
func (w *Window) ShowAndRun() {
	w.window.ShowAndRun()
}

// Show shows the window of an app that is already running
func (w *Window) Show() {
	w.window.Show()
}

// SetMaster makes closing this window quit the app
func (w *Window) SetMaster() {
	w.window.SetMaster()
}

// OnClosed registers fn to run after the window is closed
func (w *Window) OnClosed(fn func()) {
	w.onClosed = append(w.onClosed, fn)
}

// Notify reports an item whose image could not be loaded
func (w *Window) Notify(itemIndex int, err error) {
	w.report(fmt.Errorf("item %d: %w", itemIndex+1, err))
}

// pump drains the session queue on the fyne goroutine
func (w *Window) pump() {
	for {
		select {
		case <-w.stop:
			return
		case <-w.session.Wake():
			fyne.Do(func() {
				if w.session.Drain() > 0 {
					w.canvas.redraw()
				}
			})
		}
	}
}

func (w *Window) close() {
	close(w.stop)
	if err := w.canvas.Close(); err != nil {
		logger.Logger().Warn("canvas close failed", "error", err)
	}
	for _, fn := range w.onClosed {
		fn()
	}
}

func (w *Window) setupMainUI() {
	st := w.session.State()
	w.itemLabel = widget.NewLabel("")
	w.labelsLabel = widget.NewLabel("")
	w.selectedLabel = widget.NewLabel("")
	w.selectedLabel.Wrapping = fyne.TextWrapWord
	w.statusLabel = widget.NewLabel("")
	w.statusLabel.Wrapping = fyne.TextWrapWord

	w.categories = widget.NewSelect(st.Task.Config.Categories, func(name string) {
		w.selectCategory(name)
	})
	w.labelTypes = widget.NewSelect(st.Task.Config.LabelTypes, func(name string) {
		w.selectLabelType(name)
	})

	prevButton := widget.NewButton("Previous", func() { w.step(-1) })
	nextButton := widget.NewButton("Next", func() { w.step(1) })
	undoButton := widget.NewButton("Undo", w.undo)
	redoButton := widget.NewButton("Redo", w.redo)
	saveButton := widget.NewButton("Save", w.save)
	saveButton.Disable()
	if w.savePath != "" {
		saveButton.Enable()
	}
	hideCheck := widget.NewCheck("Hide Labels", w.canvas.SetHideLabels)

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Drag on the image to draw a label\n" +
			"• Click a label to select it, Ctrl+Click to add\n" +
			"• Drag handles to resize\n" +
			"• Del deletes, Ctrl+Del ends the track\n" +
			"• Right drag or scroll to pan\n" +
			"• Ctrl+Scroll or +/- to zoom\n" +
			"• N/B next/previous item, H hides labels",
	)
	instructions.Wrapping = fyne.TextWrapWord

	infoPanel := container.NewVBox(
		widget.NewLabel("Item:"),
		widget.NewSeparator(),
		w.itemLabel,
		container.NewGridWithColumns(2, prevButton, nextButton),
		widget.NewSeparator(),
		widget.NewLabel("Labels:"),
		widget.NewSeparator(),
		w.labelsLabel,
		w.selectedLabel,
		widget.NewLabel("Category:"),
		w.categories,
		widget.NewLabel("Label Type:"),
		w.labelTypes,
		widget.NewSeparator(),
		hideCheck,
		container.NewGridWithColumns(2, undoButton, redoButton),
		saveButton,
		widget.NewSeparator(),
		instructions,
		widget.NewSeparator(),
		w.statusLabel,
		widget.NewLabel("v"+version.GetVersion()),
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(300, 0))

	content := container.NewBorder(
		nil,        // top
		nil,        // bottom
		nil,        // left
		infoScroll, // right
		w.canvas,   // center
	)
	w.window.SetContent(content)
	w.updateInfo()
}

func (w *Window) setupShortcuts() {
	cv := w.window.Canvas()
	cv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { w.undo() })
	cv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}, func(fyne.Shortcut) { w.redo() })
	cv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { w.redo() })
	cv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { w.save() })
}

// onKey handles the window keys the canvas passes on
func (w *Window) onKey(name string, mods label2d.Modifiers) bool {
	if mods.Ctrl || mods.Meta {
		return false
	}
	switch name {
	case "n":
		w.step(1)
	case "b":
		w.step(-1)
	default:
		return false
	}
	return true
}

// updateInfo refreshes the side panel from the committed state
func (w *Window) updateInfo() {
	if w.itemLabel == nil {
		return
	}
	st := w.session.State()
	cfg := st.Task.Config
	item, ok := st.CurrentItem()
	if !ok {
		w.itemLabel.SetText("No items")
		return
	}
	loaded := "loading"
	if item.Loaded {
		loaded = "loaded"
	}
	w.itemLabel.SetText(fmt.Sprintf("%d / %d: %s\n%s", item.Index+1, len(st.Task.Items), item.URL, loaded))
	w.labelsLabel.SetText(fmt.Sprintf("Count: %d", len(item.Labels)))

	var lines []string
	for _, lb := range w.canvas.List().Selected() {
		line := fmt.Sprintf("#%d %s %s", lb.ID(), lb.Kind(), analysis.CategoryName(cfg.Categories, lb.State().Category))
		if tr := lb.State().Track; tr >= 0 {
			line += fmt.Sprintf(" (track %d)", tr)
		}
		lines = append(lines, line)
	}
	w.selectedLabel.SetText(strings.Join(lines, "\n"))

	w.syncing = true
	defer func() { w.syncing = false }()
	if c := st.User.Select.Category; c >= 0 && c < len(cfg.Categories) && w.categories.Selected != cfg.Categories[c] {
		w.categories.SetSelected(cfg.Categories[c])
	}
	if t := st.User.Select.LabelType; t >= 0 && t < len(cfg.LabelTypes) && w.labelTypes.Selected != cfg.LabelTypes[t] {
		w.labelTypes.SetSelected(cfg.LabelTypes[t])
	}
}

func (w *Window) selectCategory(name string) {
	if w.syncing {
		return
	}
	st := w.session.State()
	for _, a := range categoryActions(st, name) {
		if err := w.session.Dispatch(a); err != nil {
			w.report(err)
			return
		}
	}
}

func (w *Window) selectLabelType(name string) {
	if w.syncing {
		return
	}
	st := w.session.State()
	a, ok := labelTypeAction(st, name)
	if !ok {
		return
	}
	w.report(w.session.Dispatch(a))
}

func (w *Window) step(delta int) {
	st := w.session.State()
	next := st.User.Select.Item + delta
	if next < 0 || next >= len(st.Task.Items) {
		return
	}
	w.report(w.session.GoToItem(next))
}

func (w *Window) undo() {
	if _, err := w.session.Undo(); err != nil {
		w.report(err)
	}
}

func (w *Window) redo() {
	if _, err := w.session.Redo(); err != nil {
		w.report(err)
	}
}

func (w *Window) save() {
	if w.savePath == "" {
		return
	}
	if err := persist.SaveFile(w.savePath, w.session.State()); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save: %w", err), w.window)
		return
	}
	w.statusLabel.SetText("Saved " + w.savePath)
}

func (w *Window) report(err error) {
	if err == nil {
		return
	}
	logger.Logger().Warn("gui", "error", err)
	if w.statusLabel != nil {
		w.statusLabel.SetText(err.Error())
	}
}
