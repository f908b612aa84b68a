// Package input translates terminal key events into session actions.
package input

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typr/internal/model"
)

// Context tells the interpreter which surface owns the keyboard right now.
// The session contexts differ only in which actions still apply; ContextMenu
// hands everything except quit to the menu overlay.
type Context int

const (
	ContextIdle Context = iota
	ContextTyping
	ContextPaused
	ContextCompleted
	ContextMenu
)

// historySize is the gesture window. Two keys cover the tab-enter restart.
const historySize = 2

// Interpreter maps key events to session actions. It keeps a short history
// of key types so the two-key restart gesture resolves to a single action.
type Interpreter struct {
	history [historySize]tea.KeyType
}

// New returns an Interpreter with an empty gesture history.
func New() *Interpreter {
	return &Interpreter{}
}

// Reset clears the gesture history, e.g. when a new session starts.
func (in *Interpreter) Reset() {
	in.history = [historySize]tea.KeyType{}
}

// Interpret maps one key event to a session action, ActionNone when the
// event is irrelevant in the given context. Multi-rune messages (paste)
// must be split by the caller; only the first rune is read.
func (in *Interpreter) Interpret(msg tea.KeyMsg, ctx Context) model.Action {
	prev := in.history[historySize-1]
	in.push(msg.Type)

	// Quit works everywhere, even under the menu overlay.
	if msg.Type == tea.KeyCtrlC {
		return model.Action{Kind: model.ActionQuit}
	}
	if ctx == ContextMenu {
		return model.Action{Kind: model.ActionNone}
	}

	switch msg.Type {
	case tea.KeyEnter:
		if prev == tea.KeyTab {
			return model.Action{Kind: model.ActionRestart}
		}
		return model.Action{Kind: model.ActionNone}
	case tea.KeyEsc:
		return model.Action{Kind: model.ActionMenu}
	case tea.KeyTab:
		// First half of the restart gesture, nothing on its own.
		return model.Action{Kind: model.ActionNone}
	}

	if ctx == ContextCompleted {
		return model.Action{Kind: model.ActionNone}
	}

	switch msg.Type {
	case tea.KeyCtrlP:
		return model.Action{Kind: model.ActionPause}
	case tea.KeyBackspace, tea.KeyDelete:
		return model.Action{Kind: model.ActionBackspace}
	case tea.KeySpace:
		return model.Action{Kind: model.ActionChar, Rune: ' '}
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return model.Action{Kind: model.ActionNone}
		}
		return model.Action{Kind: model.ActionChar, Rune: msg.Runes[0]}
	default:
		return model.Action{Kind: model.ActionNone}
	}
}

func (in *Interpreter) push(t tea.KeyType) {
	copy(in.history[:], in.history[1:])
	in.history[historySize-1] = t
}
