// Package session implements the typing-test state machine: per-character
// correctness, timing, and metrics for a single session.
package session

import (
	"strings"
	"time"

	"github.com/verte-zerg/typr/internal/model"
)

// Status is the lifecycle state of a session.
type Status int

const (
	StatusIdle Status = iota
	StatusTyping
	StatusPaused
	StatusCompleted
)

// String returns the status name shown in the UI.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusTyping:
		return "typing"
	case StatusPaused:
		return "paused"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// CharState is the correctness of one target position.
type CharState uint8

const (
	CharUntyped CharState = iota
	CharCorrect
	CharIncorrect
)

// Outcome reports the effect of one applied action.
type Outcome int

const (
	// OutcomeIgnored means the action produced no state change.
	OutcomeIgnored Outcome = iota
	// OutcomeApplied means the action changed session state.
	OutcomeApplied
	// OutcomeCompleted means the action ended the session.
	OutcomeCompleted
)

// TimingSample pairs elapsed time with typing progress at that instant.
type TimingSample struct {
	Elapsed time.Duration
	Typed   int
}

// sampleInterval is the cadence of timing samples used for consistency.
const sampleInterval = time.Second

// Tracker owns every piece of state of one session: the target text, the
// per-character states, the cursor, timing samples and status. A restart or
// config change replaces the whole Tracker; nothing here is reused.
type Tracker struct {
	cfg    model.Config
	chars  []rune
	states []CharState
	typed  []rune
	cursor int

	status    Status
	createdAt time.Time
	startedAt time.Time
	pausedAt  time.Time
	pausedFor time.Duration

	samples []TimingSample

	keystrokes        int
	correctKeystrokes int
	backspaces        int
	correctCount      int

	finalElapsed time.Duration
	result       *model.Result
}

// New builds a session over the generated words. The words are flattened
// into one rune sequence with single-space separators; the tracker owns the
// result for the session's lifetime.
func New(cfg model.Config, words []string, now time.Time) *Tracker {
	chars := []rune(strings.Join(words, " "))
	return &Tracker{
		cfg:       cfg,
		chars:     chars,
		states:    make([]CharState, len(chars)),
		typed:     make([]rune, len(chars)),
		status:    StatusIdle,
		createdAt: now,
	}
}

// Apply processes one action against the session. Unknown or out-of-place
// actions are ignored rather than failing; garbled input from a live
// terminal is expected.
func (t *Tracker) Apply(act model.Action, now time.Time) Outcome {
	switch act.Kind {
	case model.ActionChar:
		return t.typeChar(act.Rune, now)
	case model.ActionBackspace:
		return t.backspace(now)
	case model.ActionPause:
		return t.togglePause(now)
	default:
		return OutcomeIgnored
	}
}

// Tick advances time-driven transitions: timing samples while typing, and
// time-mode expiry. The host delivers ticks; the tracker never schedules
// its own.
func (t *Tracker) Tick(now time.Time) Outcome {
	switch t.status {
	case StatusTyping:
		if t.cfg.Mode.Kind == model.ModeTime && t.Elapsed(now) >= t.cfg.Mode.Duration {
			t.complete(now)
			return OutcomeCompleted
		}
		t.maybeSample(now)
		return OutcomeApplied
	case StatusIdle:
		if t.cfg.Mode.Kind == model.ModeTime && now.Sub(t.createdAt) >= t.cfg.Mode.Duration {
			t.complete(now)
			return OutcomeCompleted
		}
	}
	return OutcomeIgnored
}

// Extend appends more target words for a running time-mode session. Already
// produced words, states and the cursor are untouched.
func (t *Tracker) Extend(words []string) {
	if len(words) == 0 || t.status == StatusCompleted {
		return
	}
	joined := strings.Join(words, " ")
	if len(t.chars) > 0 {
		joined = " " + joined
	}
	add := []rune(joined)
	t.chars = append(t.chars, add...)
	t.states = append(t.states, make([]CharState, len(add))...)
	t.typed = append(t.typed, make([]rune, len(add))...)
}

func (t *Tracker) typeChar(r rune, now time.Time) Outcome {
	if t.status == StatusCompleted {
		return OutcomeIgnored
	}
	if t.cursor >= len(t.chars) {
		return OutcomeIgnored
	}
	switch t.status {
	case StatusPaused:
		t.resume(now)
	case StatusIdle:
		if t.cfg.Mode.Kind == model.ModeTime && now.Sub(t.createdAt) >= t.cfg.Mode.Duration {
			t.complete(now)
			return OutcomeCompleted
		}
		t.start(now)
	}
	if t.cfg.Mode.Kind == model.ModeTime && t.Elapsed(now) >= t.cfg.Mode.Duration {
		t.complete(now)
		return OutcomeCompleted
	}

	t.typed[t.cursor] = r
	if r == t.chars[t.cursor] {
		t.states[t.cursor] = CharCorrect
		t.correctKeystrokes++
		t.correctCount++
	} else {
		t.states[t.cursor] = CharIncorrect
	}
	t.keystrokes++
	t.cursor++

	if t.cfg.Mode.Kind != model.ModeTime && t.cursor == len(t.chars) {
		t.complete(now)
		return OutcomeCompleted
	}
	return OutcomeApplied
}

func (t *Tracker) backspace(now time.Time) Outcome {
	if t.status == StatusCompleted || t.status == StatusIdle {
		return OutcomeIgnored
	}
	// The hard-left boundary is the start of the current word: a committed
	// separator space cannot be deleted, so the cursor never crosses back
	// into a finished word.
	if t.cursor == 0 || t.chars[t.cursor-1] == ' ' {
		return OutcomeIgnored
	}
	if t.status == StatusPaused {
		t.resume(now)
	}
	t.backspaces++
	t.cursor--
	if t.states[t.cursor] == CharCorrect {
		t.correctCount--
	}
	t.states[t.cursor] = CharUntyped
	t.typed[t.cursor] = 0
	return OutcomeApplied
}

func (t *Tracker) togglePause(now time.Time) Outcome {
	switch t.status {
	case StatusTyping:
		t.status = StatusPaused
		t.pausedAt = now
		return OutcomeApplied
	case StatusPaused:
		t.resume(now)
		return OutcomeApplied
	default:
		return OutcomeIgnored
	}
}

func (t *Tracker) start(now time.Time) {
	t.status = StatusTyping
	t.startedAt = now
}

func (t *Tracker) resume(now time.Time) {
	t.pausedFor += now.Sub(t.pausedAt)
	t.status = StatusTyping
}

func (t *Tracker) complete(now time.Time) {
	if t.status == StatusPaused {
		t.pausedFor += now.Sub(t.pausedAt)
	}
	wasStarted := t.status == StatusTyping || t.status == StatusPaused
	t.status = StatusCompleted
	elapsed := time.Duration(0)
	if wasStarted {
		elapsed = now.Sub(t.startedAt) - t.pausedFor
		if elapsed < 0 {
			elapsed = 0
		}
		if t.cfg.Mode.Kind == model.ModeTime && elapsed > t.cfg.Mode.Duration {
			elapsed = t.cfg.Mode.Duration
		}
	}
	t.finalElapsed = elapsed
	startedAt := t.startedAt
	if !wasStarted {
		startedAt = t.createdAt
	}
	res := model.Result{
		StartedAt:         startedAt,
		CompletedAt:       now,
		Language:          t.cfg.Language,
		Mode:              t.cfg.Mode,
		Punctuation:       t.cfg.Punctuation,
		Numbers:           t.cfg.Numbers,
		Symbols:           t.cfg.Symbols,
		WPM:               wpmOf(t.correctCount, elapsed),
		RawWPM:            wpmOf(t.cursor, elapsed),
		Accuracy:          accuracyOf(t.correctCount, t.cursor),
		Consistency:       consistencyOf(t.samples),
		DurationMs:        elapsed.Milliseconds(),
		CharsTyped:        t.cursor,
		WrongChars:        t.cursor - t.correctCount,
		WrongWords:        t.wrongWordCount(),
		TotalKeystrokes:   t.keystrokes,
		CorrectKeystrokes: t.correctKeystrokes,
		Backspaces:        t.backspaces,
	}
	t.result = &res
}

// maybeSample appends one timing sample when a full interval of typing time
// has passed since the previous one. Samples only grow.
func (t *Tracker) maybeSample(now time.Time) {
	elapsed := t.Elapsed(now)
	due := time.Duration(len(t.samples)+1) * sampleInterval
	if elapsed >= due {
		t.samples = append(t.samples, TimingSample{Elapsed: elapsed, Typed: t.cursor})
	}
}

func (t *Tracker) wrongWordCount() int {
	wrong := 0
	inWord := false
	wordWrong := false
	for i, r := range t.chars {
		if r == ' ' {
			if inWord && wordWrong {
				wrong++
			}
			inWord = false
			wordWrong = false
			continue
		}
		inWord = true
		if t.states[i] == CharIncorrect {
			wordWrong = true
		}
	}
	if inWord && wordWrong {
		wrong++
	}
	return wrong
}
