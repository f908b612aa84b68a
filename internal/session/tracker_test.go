package session

import (
	"math"
	"testing"
	"time"

	"github.com/verte-zerg/typr/internal/model"
)

func wordsConfig(count int) model.Config {
	return model.Config{
		Language:     "english",
		Mode:         model.Mode{Kind: model.ModeWords, Count: count},
		VisibleLines: 3,
	}
}

func timeConfig(d time.Duration) model.Config {
	return model.Config{
		Language:     "english",
		Mode:         model.Mode{Kind: model.ModeTime, Duration: d},
		VisibleLines: 3,
	}
}

func typeString(t *testing.T, tr *Tracker, s string, now time.Time) time.Time {
	t.Helper()
	for _, r := range s {
		out := tr.Apply(model.Action{Kind: model.ActionChar, Rune: r}, now)
		if out == OutcomeIgnored {
			t.Fatalf("keystroke %q ignored at cursor %d", r, tr.Cursor())
		}
		now = now.Add(100 * time.Millisecond)
	}
	return now
}

func TestWordsModeCompletesAtLastChar(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(wordsConfig(2), []string{"go", "fn"}, base)

	if tr.Status() != StatusIdle {
		t.Fatalf("expected idle before first keystroke, got %v", tr.Status())
	}
	for i, r := range "go f" {
		out := tr.Apply(model.Action{Kind: model.ActionChar, Rune: r}, base.Add(time.Duration(i)*time.Second))
		if out != OutcomeApplied {
			t.Fatalf("keystroke %d: expected applied, got %v", i, out)
		}
	}
	out := tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'n'}, base.Add(4*time.Second))
	if out != OutcomeCompleted {
		t.Fatalf("expected completed on last char, got %v", out)
	}
	res, ok := tr.Result()
	if !ok {
		t.Fatalf("expected result after completion")
	}
	if res.DurationMs != 4000 {
		t.Fatalf("expected 4000ms duration, got %d", res.DurationMs)
	}
	// 5 correct chars over 4 seconds is one word per 1/15 minute.
	if math.Abs(res.WPM-15) > 1e-9 {
		t.Fatalf("expected wpm 15, got %f", res.WPM)
	}
	if res.Accuracy != 1 {
		t.Fatalf("expected accuracy 1, got %f", res.Accuracy)
	}
	if res.CharsTyped != 5 || res.WrongChars != 0 {
		t.Fatalf("unexpected char counts: %+v", res)
	}
}

func TestCorrectedTypoRestoresAccuracy(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(wordsConfig(3), []string{"cat", "dog", "run"}, base)

	now := typeString(t, tr, "cat dog ", base)
	tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'x'}, now)
	if tr.States()[8] != CharIncorrect {
		t.Fatalf("expected incorrect state at typo position")
	}
	if tr.TypedAt(8) != 'x' {
		t.Fatalf("expected mistyped rune retained, got %q", tr.TypedAt(8))
	}
	tr.Apply(model.Action{Kind: model.ActionBackspace}, now)
	if tr.Cursor() != 8 {
		t.Fatalf("expected cursor back at 8, got %d", tr.Cursor())
	}
	if tr.States()[8] != CharUntyped {
		t.Fatalf("expected typo position reset to untyped")
	}
	if tr.TypedAt(8) != 0 {
		t.Fatalf("expected typed rune cleared, got %q", tr.TypedAt(8))
	}
	now = typeString(t, tr, "ru", now)
	out := tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'n'}, now)
	if out != OutcomeCompleted {
		t.Fatalf("expected completion, got %v", out)
	}
	res, _ := tr.Result()
	if res.Accuracy != 1 {
		t.Fatalf("expected accuracy 1 after correction, got %f", res.Accuracy)
	}
	if res.WrongChars != 0 || res.WrongWords != 0 {
		t.Fatalf("expected no wrong chars or words, got %+v", res)
	}
	// The raw keystroke counters still remember the typo.
	if res.TotalKeystrokes != 12 || res.CorrectKeystrokes != 11 || res.Backspaces != 1 {
		t.Fatalf("unexpected keystroke counters: total %d correct %d backspaces %d",
			res.TotalKeystrokes, res.CorrectKeystrokes, res.Backspaces)
	}
}

func TestBackspaceStopsAtWordBoundary(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(wordsConfig(2), []string{"ab", "cd"}, base)

	if out := tr.Apply(model.Action{Kind: model.ActionBackspace}, base); out != OutcomeIgnored {
		t.Fatalf("expected backspace ignored while idle, got %v", out)
	}
	now := typeString(t, tr, "ab ", base)
	if out := tr.Apply(model.Action{Kind: model.ActionBackspace}, now); out != OutcomeIgnored {
		t.Fatalf("expected backspace ignored after separator, got %v", out)
	}
	if tr.Cursor() != 3 {
		t.Fatalf("expected cursor to stay at 3, got %d", tr.Cursor())
	}
	now = typeString(t, tr, "c", now)
	if out := tr.Apply(model.Action{Kind: model.ActionBackspace}, now); out != OutcomeApplied {
		t.Fatalf("expected backspace applied inside word, got %v", out)
	}
	if tr.Cursor() != 3 {
		t.Fatalf("expected cursor back at 3, got %d", tr.Cursor())
	}
}

func TestWrongWordsCountsWordsWithErrors(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(wordsConfig(3), []string{"cat", "dog", "run"}, base)

	typeString(t, tr, "cat dxg ru", base)
	tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'n'}, base.Add(2*time.Second))
	res, ok := tr.Result()
	if !ok {
		t.Fatalf("expected result after completion")
	}
	if res.WrongWords != 1 {
		t.Fatalf("expected 1 wrong word, got %d", res.WrongWords)
	}
	if res.WrongChars != 1 {
		t.Fatalf("expected 1 wrong char, got %d", res.WrongChars)
	}
}

func TestTimeModeIdleExpiry(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(timeConfig(15*time.Second), []string{"hello", "world"}, base)

	if out := tr.Tick(base.Add(14 * time.Second)); out != OutcomeIgnored {
		t.Fatalf("expected tick before deadline ignored, got %v", out)
	}
	if out := tr.Tick(base.Add(15 * time.Second)); out != OutcomeCompleted {
		t.Fatalf("expected completion at deadline, got %v", out)
	}
	res, ok := tr.Result()
	if !ok {
		t.Fatalf("expected result after idle expiry")
	}
	if res.WPM != 0 || res.Accuracy != 1 {
		t.Fatalf("expected wpm 0 accuracy 1, got wpm %f accuracy %f", res.WPM, res.Accuracy)
	}
	if res.DurationMs != 0 || res.CharsTyped != 0 {
		t.Fatalf("expected empty session, got %+v", res)
	}
	if !res.StartedAt.Equal(base) {
		t.Fatalf("expected start stamped at creation, got %v", res.StartedAt)
	}
}

func TestTimeModeKeystrokeAfterDeadline(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(timeConfig(10*time.Second), []string{"hello"}, base)

	out := tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'h'}, base.Add(11*time.Second))
	if out != OutcomeCompleted {
		t.Fatalf("expected late keystroke to finalize, got %v", out)
	}
	if tr.Cursor() != 0 {
		t.Fatalf("expected late keystroke rejected, cursor %d", tr.Cursor())
	}
}

func TestTimeModeExpiryWhileTyping(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(timeConfig(10*time.Second), []string{"aaaa", "aaaa", "aaaa"}, base)

	now := base
	for i := 0; i < 8; i++ {
		tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'a'}, now)
		now = now.Add(time.Second)
	}
	if out := tr.Tick(base.Add(10 * time.Second)); out != OutcomeCompleted {
		t.Fatalf("expected expiry on tick, got %v", out)
	}
	res, _ := tr.Result()
	if res.DurationMs != 10000 {
		t.Fatalf("expected duration clamped to 10000ms, got %d", res.DurationMs)
	}
}

func TestTimeModeDoesNotCompleteAtTargetEnd(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(timeConfig(60*time.Second), []string{"ab"}, base)

	now := typeString(t, tr, "ab", base)
	if tr.Status() != StatusTyping {
		t.Fatalf("expected typing to continue at target end, got %v", tr.Status())
	}
	if out := tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'x'}, now); out != OutcomeIgnored {
		t.Fatalf("expected keystroke past target ignored, got %v", out)
	}

	tr.Extend([]string{"cd"})
	if tr.RemainingTarget() != 3 {
		t.Fatalf("expected 3 chars after extension, got %d", tr.RemainingTarget())
	}
	if out := tr.Apply(model.Action{Kind: model.ActionChar, Rune: ' '}, now); out != OutcomeApplied {
		t.Fatalf("expected typing to resume after extension, got %v", out)
	}
	if tr.Cursor() != 3 {
		t.Fatalf("expected cursor at 3, got %d", tr.Cursor())
	}
}

func TestPauseExcludesElapsed(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(wordsConfig(1), []string{"abc"}, base)

	tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'a'}, base)
	tr.Apply(model.Action{Kind: model.ActionPause}, base.Add(2*time.Second))
	if tr.Status() != StatusPaused {
		t.Fatalf("expected paused, got %v", tr.Status())
	}
	if got := tr.Elapsed(base.Add(5 * time.Second)); got != 2*time.Second {
		t.Fatalf("expected elapsed frozen at 2s while paused, got %v", got)
	}

	// A keystroke while paused resumes the clock.
	out := tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'b'}, base.Add(10*time.Second))
	if out != OutcomeApplied {
		t.Fatalf("expected keystroke to resume, got %v", out)
	}
	if tr.Status() != StatusTyping {
		t.Fatalf("expected typing after resume, got %v", tr.Status())
	}
	if got := tr.Elapsed(base.Add(10 * time.Second)); got != 2*time.Second {
		t.Fatalf("expected 8s pause excluded, got %v", got)
	}

	tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'c'}, base.Add(12*time.Second))
	res, _ := tr.Result()
	if res.DurationMs != 4000 {
		t.Fatalf("expected 4000ms typing time, got %d", res.DurationMs)
	}
}

func TestPauseToggle(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(wordsConfig(1), []string{"abc"}, base)

	if out := tr.Apply(model.Action{Kind: model.ActionPause}, base); out != OutcomeIgnored {
		t.Fatalf("expected pause ignored while idle, got %v", out)
	}
	tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'a'}, base)
	tr.Apply(model.Action{Kind: model.ActionPause}, base.Add(time.Second))
	if out := tr.Apply(model.Action{Kind: model.ActionPause}, base.Add(3*time.Second)); out != OutcomeApplied {
		t.Fatalf("expected unpause applied, got %v", out)
	}
	if tr.Status() != StatusTyping {
		t.Fatalf("expected typing after unpause, got %v", tr.Status())
	}
	if got := tr.Elapsed(base.Add(4 * time.Second)); got != 2*time.Second {
		t.Fatalf("expected 2s elapsed after excluded pause, got %v", got)
	}
}

func TestSteadySamplesGivePerfectConsistency(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(timeConfig(60*time.Second), []string{"aaaaaaaaaaaaaaaaaaaa"}, base)

	now := base
	for sec := 1; sec <= 3; sec++ {
		for i := 0; i < 5; i++ {
			tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'a'}, now)
			now = now.Add(200 * time.Millisecond)
		}
		tr.Tick(base.Add(time.Duration(sec) * time.Second))
	}
	if got := len(tr.Samples()); got != 3 {
		t.Fatalf("expected 3 samples, got %d", got)
	}
	if got := tr.Consistency(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected consistency 1 at steady speed, got %f", got)
	}
}

func TestConsistencyZeroWithFewSamples(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(wordsConfig(2), []string{"ab", "cd"}, base)

	tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'a'}, base)
	tr.Tick(base.Add(time.Second))
	if got := tr.Consistency(); got != 0 {
		t.Fatalf("expected consistency 0 with one sample, got %f", got)
	}
}

func TestWPMNeverExceedsRaw(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(wordsConfig(2), []string{"abcde", "fghij"}, base)

	typeString(t, tr, "abxde", base)
	now := base.Add(time.Second)
	wpm, raw := tr.WPM(now), tr.RawWPM(now)
	if wpm > raw {
		t.Fatalf("expected wpm <= raw wpm, got %f > %f", wpm, raw)
	}
	if raw <= 0 {
		t.Fatalf("expected positive raw wpm, got %f", raw)
	}
}

func TestCompletedSessionIgnoresInput(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(wordsConfig(1), []string{"ab"}, base)

	typeString(t, tr, "ab", base)
	res, ok := tr.Result()
	if !ok {
		t.Fatalf("expected result after completion")
	}
	if out := tr.Apply(model.Action{Kind: model.ActionChar, Rune: 'x'}, base.Add(time.Minute)); out != OutcomeIgnored {
		t.Fatalf("expected char ignored after completion, got %v", out)
	}
	if out := tr.Apply(model.Action{Kind: model.ActionBackspace}, base.Add(time.Minute)); out != OutcomeIgnored {
		t.Fatalf("expected backspace ignored after completion, got %v", out)
	}
	tr.Extend([]string{"more"})
	again, _ := tr.Result()
	if again != res {
		t.Fatalf("expected result unchanged after completion")
	}
}

func TestFreshTrackerMetrics(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(timeConfig(15*time.Second), []string{"cat", "dog", "run"}, base)

	if got := tr.Accuracy(); got != 1 {
		t.Fatalf("expected accuracy 1 with nothing typed, got %f", got)
	}
	if got := tr.WPM(base.Add(time.Hour)); got != 0 {
		t.Fatalf("expected wpm 0 while idle, got %f", got)
	}
	if got := tr.Remaining(base); got != 15*time.Second {
		t.Fatalf("expected full duration remaining, got %v", got)
	}
	if _, ok := tr.Result(); ok {
		t.Fatalf("expected no result before completion")
	}
	if got := tr.WordCount(); got != 3 {
		t.Fatalf("expected 3 words, got %d", got)
	}
}

func TestTypedWordsCountsSeparators(t *testing.T) {
	base := time.Unix(0, 0)
	tr := New(wordsConfig(3), []string{"cat", "dog", "run"}, base)

	typeString(t, tr, "cat ", base)
	if got := tr.TypedWords(); got != 1 {
		t.Fatalf("expected 1 committed word, got %d", got)
	}
	if got := tr.Progress(base.Add(time.Second)); math.Abs(got-4.0/11.0) > 1e-9 {
		t.Fatalf("expected progress 4/11, got %f", got)
	}
}
