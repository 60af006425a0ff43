package gui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/philipparndt/golabel/internal/label2d"
)

// keyName converts a fyne key to the name the label handler expects. It
// returns "" for keys the handler does not use.
func keyName(name fyne.KeyName) string {
	switch name {
	case fyne.KeyEscape:
		return label2d.KeyEscape
	case fyne.KeyReturn, fyne.KeyEnter:
		return label2d.KeyEnter
	case fyne.KeyDelete:
		return label2d.KeyDelete
	case fyne.KeyBackspace:
		return label2d.KeyBackspace
	}
	if len(name) == 1 {
		return strings.ToLower(string(name))
	}
	return ""
}

// modifiers converts fyne modifier flags
func modifiers(m fyne.KeyModifier) label2d.Modifiers {
	return label2d.Modifiers{
		Ctrl:  m&fyne.KeyModifierControl != 0,
		Shift: m&fyne.KeyModifierShift != 0,
		Meta:  m&fyne.KeyModifierSuper != 0,
	}
}

// modifierKeys tracks held modifier keys between key events
type modifierKeys struct {
	ctrl, shift, meta bool
}

func (k *modifierKeys) set(name fyne.KeyName, down bool) {
	switch name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		k.ctrl = down
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		k.shift = down
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		k.meta = down
	}
}

func (k *modifierKeys) modifiers() label2d.Modifiers {
	return label2d.Modifiers{Ctrl: k.ctrl, Shift: k.shift, Meta: k.meta}
}

// cursor maps handler cursor names to the closest desktop cursor
func cursor(name string) desktop.Cursor {
	switch name {
	case "crosshair", "resize", "nwse-resize", "nesw-resize":
		return desktop.CrosshairCursor
	case "move", "pointer":
		return desktop.PointerCursor
	case "ns-resize":
		return desktop.VResizeCursor
	case "ew-resize":
		return desktop.HResizeCursor
	}
	return desktop.DefaultCursor
}
