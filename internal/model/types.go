// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig reports a configuration rejected before a session starts.
var ErrInvalidConfig = errors.New("invalid config")

// ModeKind selects the completion rule of a test.
type ModeKind int

const (
	ModeTime ModeKind = iota
	ModeWords
	ModeQuote
)

// String returns the mode name used in flags, config files and the store.
func (k ModeKind) String() string {
	switch k {
	case ModeTime:
		return "time"
	case ModeWords:
		return "words"
	case ModeQuote:
		return "quote"
	default:
		return "unknown"
	}
}

// QuoteLength buckets quote passages by character count.
type QuoteLength int

const (
	QuoteShort QuoteLength = iota
	QuoteMedium
	QuoteLong
)

// String returns the length-class name used in flags and config files.
func (l QuoteLength) String() string {
	switch l {
	case QuoteShort:
		return "short"
	case QuoteMedium:
		return "medium"
	case QuoteLong:
		return "long"
	default:
		return "unknown"
	}
}

// ParseQuoteLength maps a length-class name to its QuoteLength.
func ParseQuoteLength(s string) (QuoteLength, error) {
	switch s {
	case "short":
		return QuoteShort, nil
	case "medium":
		return QuoteMedium, nil
	case "long":
		return QuoteLong, nil
	default:
		return 0, fmt.Errorf("%w: unknown quote length %q", ErrInvalidConfig, s)
	}
}

// Mode is the tagged test-mode variant. Exactly one of the value fields is
// meaningful, selected by Kind.
type Mode struct {
	Kind     ModeKind
	Duration time.Duration // ModeTime
	Count    int           // ModeWords
	Length   QuoteLength   // ModeQuote
}

// Value returns the numeric mode parameter recorded in the store.
func (m Mode) Value() int {
	switch m.Kind {
	case ModeTime:
		return int(m.Duration / time.Second)
	case ModeWords:
		return m.Count
	case ModeQuote:
		return int(m.Length)
	default:
		return 0
	}
}

// Label returns a short human-readable mode description.
func (m Mode) Label() string {
	switch m.Kind {
	case ModeTime:
		return fmt.Sprintf("time %ds", int(m.Duration/time.Second))
	case ModeWords:
		return fmt.Sprintf("words %d", m.Count)
	case ModeQuote:
		return fmt.Sprintf("quote %s", m.Length)
	default:
		return "unknown"
	}
}

// Config is the immutable snapshot a session is built from. Changing any
// field means building a new snapshot and starting a fresh session.
type Config struct {
	Language     string
	Mode         Mode
	Punctuation  bool
	Numbers      bool
	Symbols      bool
	VisibleLines int
	Seed         int64 // 0 means time-seeded
	SaveResults  bool
}

// Validate rejects snapshots that cannot start a session.
func (c Config) Validate() error {
	if c.Language == "" {
		return fmt.Errorf("%w: language is required", ErrInvalidConfig)
	}
	switch c.Mode.Kind {
	case ModeTime:
		if c.Mode.Duration <= 0 {
			return fmt.Errorf("%w: time duration must be positive", ErrInvalidConfig)
		}
	case ModeWords:
		if c.Mode.Count <= 0 {
			return fmt.Errorf("%w: word count must be positive", ErrInvalidConfig)
		}
	case ModeQuote:
		if c.Mode.Length < QuoteShort || c.Mode.Length > QuoteLong {
			return fmt.Errorf("%w: unknown quote length", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown mode", ErrInvalidConfig)
	}
	if c.VisibleLines < 1 {
		return fmt.Errorf("%w: visible lines must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// ActionKind discriminates session actions produced by input interpretation.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionChar
	ActionBackspace
	ActionPause
	ActionRestart
	ActionMenu
	ActionQuit
)

// Action is one discrete edit or control event against the current session.
type Action struct {
	Kind ActionKind
	Rune rune // ActionChar only
}

// Result captures a completed typing session.
type Result struct {
	StartedAt         time.Time
	CompletedAt       time.Time
	Language          string
	Mode              Mode
	Punctuation       bool
	Numbers           bool
	Symbols           bool
	WPM               float64
	RawWPM            float64
	Accuracy          float64
	Consistency       float64
	DurationMs        int64
	CharsTyped        int
	WrongChars        int
	WrongWords        int
	TotalKeystrokes   int
	CorrectKeystrokes int
	Backspaces        int
}

// HistoryFilter defines filters for stored-result queries and reports.
type HistoryFilter struct {
	Language    string
	Mode        string // empty means any
	Since       *time.Time
	Last        int
	CurveWindow int
}

// StoredResult is a Result row read back from the store.
type StoredResult struct {
	ID int64
	Result
}
