package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"LocalSketch/internal/input"
)

// installShortcuts binds Ctrl/Cmd+Z, Ctrl/Cmd+Y and Ctrl/Cmd+Shift+Z.
func installShortcuts(c fyne.Canvas, a *App) {
	bind := func(key fyne.KeyName, mod fyne.KeyModifier, k input.Key) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) {
			a.apply(a.sess.Key(k))
		})
	}
	mod := fyne.KeyModifierShortcutDefault
	bind(fyne.KeyZ, mod, input.Key{Key: "z", Ctrl: true})
	bind(fyne.KeyY, mod, input.Key{Key: "y", Ctrl: true})
	bind(fyne.KeyZ, mod|fyne.KeyModifierShift, input.Key{Key: "z", Ctrl: true, Shift: true})
}
