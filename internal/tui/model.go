// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typr/internal/generator"
	"github.com/verte-zerg/typr/internal/input"
	"github.com/verte-zerg/typr/internal/model"
	"github.com/verte-zerg/typr/internal/session"
	"github.com/verte-zerg/typr/internal/store"
)

// tickInterval is the cadence of the clock messages that drive time-based
// session transitions. The session core itself stays purely reactive.
const tickInterval = 100 * time.Millisecond

// resultsDebounce is how long the results screen ignores input after a
// session completes, so a trailing keystroke cannot dismiss it.
const resultsDebounce = 500 * time.Millisecond

// Time mode tops the target up before the cursor can reach the end.
const (
	extendBelowChars = 120
	extendWordCount  = 40
)

// tickMsg carries the wall-clock time of one elapsed tick.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config model.Config
	store  *store.Store
	gen    *generator.Generator
	source generator.Source
	quotes generator.Quotes

	tracker *session.Tracker
	interp  *input.Interpreter
	target  []string

	width  int
	height int

	menuOpen  bool
	menuIndex menuItem
	menuErr   string
	languages []string

	completedAt  time.Time
	personalBest bool
	saveErr      error
}

// NewModel constructs a typing TUI model and generates the first target.
func NewModel(cfg model.Config, st *store.Store, gen *generator.Generator, source generator.Source, quotes generator.Quotes, languages []string) (*Model, error) {
	m := &Model{
		config:    cfg,
		store:     st,
		gen:       gen,
		source:    source,
		quotes:    quotes,
		languages: languages,
		interp:    input.New(),
	}
	if err := m.startSession(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		// The session clock stops while the menu owns the screen.
		if !m.menuOpen {
			if m.tracker.Tick(time.Time(msg)) == session.OutcomeCompleted {
				m.finishSession(time.Time(msg))
			}
			m.maybeExtend()
		}
		return m, tick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 1 {
			// Pasted text arrives as one message; each rune is its own key.
			for _, r := range msg.Runes {
				if _, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}); cmd != nil {
					return m, cmd
				}
			}
			return m, nil
		}
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()
	if m.menuOpen {
		if act := m.interp.Interpret(msg, input.ContextMenu); act.Kind == model.ActionQuit {
			return m, tea.Quit
		}
		m.handleMenuKey(msg)
		return m, nil
	}
	if m.tracker.Status() == session.StatusCompleted && now.Sub(m.completedAt) < resultsDebounce {
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	}

	act := m.interp.Interpret(msg, m.inputContext())
	switch act.Kind {
	case model.ActionQuit:
		return m, tea.Quit
	case model.ActionRestart:
		if err := m.startSession(); err != nil {
			logErrf("failed to restart session: %v\n", err)
		}
	case model.ActionMenu:
		m.openMenu(now)
	case model.ActionChar, model.ActionBackspace, model.ActionPause:
		if m.tracker.Apply(act, now) == session.OutcomeCompleted {
			m.finishSession(now)
		}
		m.maybeExtend()
	}
	return m, nil
}

func (m *Model) inputContext() input.Context {
	switch m.tracker.Status() {
	case session.StatusTyping:
		return input.ContextTyping
	case session.StatusPaused:
		return input.ContextPaused
	case session.StatusCompleted:
		return input.ContextCompleted
	default:
		return input.ContextIdle
	}
}

// startSession generates a fresh target and replaces the tracker. The old
// session is gone for good; nothing carries over.
func (m *Model) startSession() error {
	words, err := m.gen.Generate(m.config, m.source, m.quotes)
	if err != nil {
		return err
	}
	m.target = words
	m.tracker = session.New(m.config, words, time.Now())
	m.interp.Reset()
	m.completedAt = time.Time{}
	m.personalBest = false
	m.saveErr = nil
	return nil
}

func (m *Model) openMenu(now time.Time) {
	if m.tracker.Status() == session.StatusTyping {
		m.tracker.Apply(model.Action{Kind: model.ActionPause}, now)
	}
	m.menuOpen = true
	m.menuErr = ""
}

func (m *Model) closeMenu() {
	m.menuOpen = false
	m.menuErr = ""
	// An untouched session keeps its target, but menu time must not count
	// against the idle expiry clock.
	if m.tracker.Status() == session.StatusIdle {
		m.tracker = session.New(m.config, m.target, time.Now())
		m.interp.Reset()
	}
}

// maybeExtend keeps a time-mode target comfortably ahead of the cursor.
func (m *Model) maybeExtend() {
	if m.config.Mode.Kind != model.ModeTime || m.tracker.Status() == session.StatusCompleted {
		return
	}
	if m.tracker.RemainingTarget() >= extendBelowChars {
		return
	}
	words, err := m.gen.Extend(m.config, m.source, extendWordCount)
	if err != nil {
		logErrf("failed to extend target: %v\n", err)
		return
	}
	m.tracker.Extend(words)
}

func (m *Model) finishSession(now time.Time) {
	m.completedAt = now
	res, ok := m.tracker.Result()
	if !ok {
		return
	}
	if m.store == nil || !m.config.SaveResults {
		return
	}
	ctx := context.Background()
	best, err := m.store.IsPersonalBest(ctx, res)
	if err != nil {
		logErrf("failed to check personal best: %v\n", err)
	}
	if _, err := m.store.InsertResult(ctx, res); err != nil {
		m.saveErr = err
		logErrf("failed to save result: %v\n", err)
		return
	}
	m.personalBest = best
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
