package input

import "strings"

// Key is a keyboard event reduced to what the shortcuts need.
type Key struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Meta  bool   `json:"meta"`
	Shift bool   `json:"shift"`
}

type Command int

const (
	CommandNone Command = iota
	CommandUndo
	CommandRedo
)

// Command maps Ctrl/Cmd+Z to undo and Ctrl/Cmd+Y or Ctrl/Cmd+Shift+Z to redo.
func (k Key) Command() Command {
	if !k.Ctrl && !k.Meta {
		return CommandNone
	}
	switch strings.ToLower(k.Key) {
	case "z":
		if k.Shift {
			return CommandRedo
		}
		return CommandUndo
	case "y":
		return CommandRedo
	}
	return CommandNone
}
