package session

import (
	"math"
	"time"

	"github.com/verte-zerg/typr/internal/model"
)

// Status returns the session lifecycle state.
func (t *Tracker) Status() Status { return t.status }

// Cursor returns the absolute index of the next target position.
func (t *Tracker) Cursor() int { return t.cursor }

// Chars returns the target rune sequence. Read-only view.
func (t *Tracker) Chars() []rune { return t.chars }

// States returns the per-character states. Read-only view.
func (t *Tracker) States() []CharState { return t.states }

// TypedAt returns the rune actually typed at a position, zero if untyped.
func (t *Tracker) TypedAt(i int) rune {
	if i < 0 || i >= len(t.typed) {
		return 0
	}
	return t.typed[i]
}

// RemainingTarget returns how many target positions are still untyped.
func (t *Tracker) RemainingTarget() int { return len(t.chars) - t.cursor }

// Samples returns the timing sample series collected so far.
func (t *Tracker) Samples() []TimingSample { return t.samples }

// Result returns the immutable final snapshot, present once completed.
func (t *Tracker) Result() (model.Result, bool) {
	if t.result == nil {
		return model.Result{}, false
	}
	return *t.result, true
}

// Elapsed returns typing time excluding paused intervals. Zero until the
// first keystroke and frozen after completion.
func (t *Tracker) Elapsed(now time.Time) time.Duration {
	switch t.status {
	case StatusIdle:
		return 0
	case StatusCompleted:
		return t.finalElapsed
	case StatusPaused:
		return t.pausedAt.Sub(t.startedAt) - t.pausedFor
	default:
		return now.Sub(t.startedAt) - t.pausedFor
	}
}

// Remaining returns the time left in a time-mode session, zero for other
// modes. In idle the full duration remains.
func (t *Tracker) Remaining(now time.Time) time.Duration {
	if t.cfg.Mode.Kind != model.ModeTime {
		return 0
	}
	left := t.cfg.Mode.Duration - t.Elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}

// WPM returns words per minute over correctly typed characters, with a word
// standardized as five characters.
func (t *Tracker) WPM(now time.Time) float64 {
	return wpmOf(t.correctCount, t.Elapsed(now))
}

// RawWPM returns words per minute over all typed characters.
func (t *Tracker) RawWPM(now time.Time) float64 {
	return wpmOf(t.cursor, t.Elapsed(now))
}

// Accuracy returns the share of typed positions currently correct.
// Corrected errors do not count against it; with nothing typed it is 1.
func (t *Tracker) Accuracy() float64 {
	return accuracyOf(t.correctCount, t.cursor)
}

// Consistency returns the stability of typing speed over the sample series,
// in [0, 1]. Zero when fewer than two samples exist.
func (t *Tracker) Consistency() float64 {
	return consistencyOf(t.samples)
}

// Progress reports completion in [0, 1]: time share for time mode, typed
// share of the target otherwise.
func (t *Tracker) Progress(now time.Time) float64 {
	if t.status == StatusCompleted {
		return 1
	}
	if t.cfg.Mode.Kind == model.ModeTime {
		if t.cfg.Mode.Duration <= 0 {
			return 1
		}
		p := t.Elapsed(now).Seconds() / t.cfg.Mode.Duration.Seconds()
		return math.Min(p, 1)
	}
	if len(t.chars) == 0 {
		return 1
	}
	return float64(t.cursor) / float64(len(t.chars))
}

// TypedWords counts fully committed words: separator spaces typed so far.
func (t *Tracker) TypedWords() int {
	n := 0
	for i := 0; i < t.cursor && i < len(t.chars); i++ {
		if t.chars[i] == ' ' {
			n++
		}
	}
	return n
}

// WordCount returns the number of words in the current target.
func (t *Tracker) WordCount() int {
	if len(t.chars) == 0 {
		return 0
	}
	n := 1
	for _, r := range t.chars {
		if r == ' ' {
			n++
		}
	}
	return n
}

func wpmOf(chars int, elapsed time.Duration) float64 {
	minutes := elapsed.Minutes()
	if minutes <= 0 {
		return 0
	}
	return float64(chars) / 5.0 / minutes
}

func accuracyOf(correct, typed int) float64 {
	if typed == 0 {
		return 1
	}
	return float64(correct) / float64(typed)
}

// consistencyOf derives instantaneous speeds between consecutive samples and
// reports 1 minus their coefficient of variation, clamped to [0, 1].
func consistencyOf(samples []TimingSample) float64 {
	if len(samples) < 2 {
		return 0
	}
	speeds := make([]float64, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		dt := samples[i].Elapsed - samples[i-1].Elapsed
		if dt <= 0 {
			continue
		}
		dc := samples[i].Typed - samples[i-1].Typed
		speeds = append(speeds, float64(dc)/5.0/dt.Minutes())
	}
	if len(speeds) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range speeds {
		mean += v
	}
	mean /= float64(len(speeds))
	if mean <= 0 {
		return 0
	}
	variance := 0.0
	for _, v := range speeds {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(speeds))
	c := 1 - math.Sqrt(variance)/mean
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
