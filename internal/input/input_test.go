package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typr/internal/model"
)

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestInterpretTypingKeys(t *testing.T) {
	in := New()

	act := in.Interpret(runeKey('a'), ContextTyping)
	if act.Kind != model.ActionChar || act.Rune != 'a' {
		t.Fatalf("expected char action for rune, got %+v", act)
	}
	act = in.Interpret(key(tea.KeySpace), ContextTyping)
	if act.Kind != model.ActionChar || act.Rune != ' ' {
		t.Fatalf("expected space char action, got %+v", act)
	}
	if act := in.Interpret(key(tea.KeyBackspace), ContextTyping); act.Kind != model.ActionBackspace {
		t.Fatalf("expected backspace action, got %+v", act)
	}
	if act := in.Interpret(key(tea.KeyDelete), ContextTyping); act.Kind != model.ActionBackspace {
		t.Fatalf("expected backspace action for delete, got %+v", act)
	}
	if act := in.Interpret(key(tea.KeyCtrlP), ContextTyping); act.Kind != model.ActionPause {
		t.Fatalf("expected pause action, got %+v", act)
	}
	if act := in.Interpret(key(tea.KeyEsc), ContextTyping); act.Kind != model.ActionMenu {
		t.Fatalf("expected menu action, got %+v", act)
	}
	if act := in.Interpret(key(tea.KeyCtrlC), ContextTyping); act.Kind != model.ActionQuit {
		t.Fatalf("expected quit action, got %+v", act)
	}
}

func TestInterpretRestartGesture(t *testing.T) {
	in := New()

	if act := in.Interpret(key(tea.KeyTab), ContextTyping); act.Kind != model.ActionNone {
		t.Fatalf("expected tab alone to do nothing, got %+v", act)
	}
	if act := in.Interpret(key(tea.KeyEnter), ContextTyping); act.Kind != model.ActionRestart {
		t.Fatalf("expected tab+enter to restart, got %+v", act)
	}
}

func TestInterpretBrokenRestartGesture(t *testing.T) {
	in := New()

	in.Interpret(key(tea.KeyTab), ContextTyping)
	in.Interpret(runeKey('x'), ContextTyping)
	if act := in.Interpret(key(tea.KeyEnter), ContextTyping); act.Kind != model.ActionNone {
		t.Fatalf("expected interrupted gesture to do nothing, got %+v", act)
	}
}

func TestInterpretEnterAloneDoesNothing(t *testing.T) {
	in := New()

	if act := in.Interpret(key(tea.KeyEnter), ContextIdle); act.Kind != model.ActionNone {
		t.Fatalf("expected enter alone to do nothing, got %+v", act)
	}
}

func TestInterpretCompletedSuppressesTyping(t *testing.T) {
	in := New()

	if act := in.Interpret(runeKey('a'), ContextCompleted); act.Kind != model.ActionNone {
		t.Fatalf("expected rune suppressed after completion, got %+v", act)
	}
	if act := in.Interpret(key(tea.KeyBackspace), ContextCompleted); act.Kind != model.ActionNone {
		t.Fatalf("expected backspace suppressed after completion, got %+v", act)
	}
	if act := in.Interpret(key(tea.KeyCtrlP), ContextCompleted); act.Kind != model.ActionNone {
		t.Fatalf("expected pause suppressed after completion, got %+v", act)
	}
	if act := in.Interpret(key(tea.KeyEsc), ContextCompleted); act.Kind != model.ActionMenu {
		t.Fatalf("expected menu to stay available after completion, got %+v", act)
	}
	in.Interpret(key(tea.KeyTab), ContextCompleted)
	if act := in.Interpret(key(tea.KeyEnter), ContextCompleted); act.Kind != model.ActionRestart {
		t.Fatalf("expected restart gesture after completion, got %+v", act)
	}
}

func TestInterpretMenuConsumesEverythingButQuit(t *testing.T) {
	in := New()

	if act := in.Interpret(runeKey('a'), ContextMenu); act.Kind != model.ActionNone {
		t.Fatalf("expected rune ignored under menu, got %+v", act)
	}
	if act := in.Interpret(key(tea.KeyEsc), ContextMenu); act.Kind != model.ActionNone {
		t.Fatalf("expected esc left to the menu overlay, got %+v", act)
	}
	in.Interpret(key(tea.KeyTab), ContextMenu)
	if act := in.Interpret(key(tea.KeyEnter), ContextMenu); act.Kind != model.ActionNone {
		t.Fatalf("expected enter left to the menu overlay, got %+v", act)
	}
	if act := in.Interpret(key(tea.KeyCtrlC), ContextMenu); act.Kind != model.ActionQuit {
		t.Fatalf("expected quit under menu, got %+v", act)
	}
}

func TestInterpretResetClearsGesture(t *testing.T) {
	in := New()

	in.Interpret(key(tea.KeyTab), ContextTyping)
	in.Reset()
	if act := in.Interpret(key(tea.KeyEnter), ContextTyping); act.Kind != model.ActionNone {
		t.Fatalf("expected reset to drop pending gesture, got %+v", act)
	}
}

func TestInterpretEmptyRunes(t *testing.T) {
	in := New()

	act := in.Interpret(tea.KeyMsg{Type: tea.KeyRunes}, ContextTyping)
	if act.Kind != model.ActionNone {
		t.Fatalf("expected empty rune event ignored, got %+v", act)
	}
}
