package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typr/internal/model"
	"github.com/verte-zerg/typr/internal/session"
)

func TestStyleCharsCursor(t *testing.T) {
	chars := []rune("ab")
	states := []session.CharState{session.CharCorrect, session.CharUntyped}

	out := styleChars(chars, states, 1)
	if len(out) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(out))
	}
	if out[0] != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if out[1] != cursorStyle.Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestStyleCharsNoCursorWhenComplete(t *testing.T) {
	chars := []rune("a")
	states := []session.CharState{session.CharCorrect}

	out := styleChars(chars, states, 1)
	if len(out) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(out))
	}
	if out[0] != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestStyleCharsKeepsTargetOnMistype(t *testing.T) {
	chars := []rune("ab")
	states := []session.CharState{session.CharCorrect, session.CharIncorrect}

	out := styleChars(chars, states, 2)
	if out[1] != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style with target rune kept")
	}
}

func TestStyleCharsWordHighlighting(t *testing.T) {
	chars := []rune("one two")
	states := make([]session.CharState, len(chars))
	states[0] = session.CharCorrect

	out := styleChars(chars, states, 1)
	if out[0] != correctStyle.Render("o") {
		t.Fatalf("expected correct style for typed rune")
	}
	if out[1] != currentWordStyle.Render("n") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if out[2] != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if out[4] != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
	if out[6] != pendingStyle.Render("o") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestStyleCharsWrongSpaceDot(t *testing.T) {
	chars := []rune("a b")
	states := []session.CharState{session.CharCorrect, session.CharIncorrect, session.CharUntyped}

	out := styleChars(chars, states, 2)
	if len(out) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(out))
	}
	if out[1] != incorrectStyle.Render("•") {
		t.Fatalf("expected red dot for wrong space")
	}
}

func TestRenderTargetWindowsAroundCursor(t *testing.T) {
	cfg := wordsCfg(6)
	cfg.VisibleLines = 2
	m := newTestModel(t, cfg)
	base := time.Unix(1700000000, 0)
	m.tracker = session.New(cfg, []string{"aa", "bb", "cc", "dd", "ee", "ff"}, base)

	out := m.renderTarget(5)
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 visible lines, got %d", len(lines))
	}
	if !strings.Contains(out, "aa") || !strings.Contains(out, "cc") {
		t.Fatalf("expected first two lines visible, got %q", out)
	}
	if strings.Contains(out, "ee") {
		t.Fatalf("expected third line hidden, got %q", out)
	}

	for i := 0; i < 7; i++ {
		m.tracker.Apply(model.Action{Kind: model.ActionChar, Rune: 'x'}, base.Add(time.Duration(i)*time.Second))
	}
	out = m.renderTarget(5)
	if strings.Contains(out, "aa") {
		t.Fatalf("expected first line scrolled away, got %q", out)
	}
	if !strings.Contains(out, "ee") {
		t.Fatalf("expected last line visible, got %q", out)
	}
}
